// Package catalog defines the normalized record type and the transform
// from raw PokeAPI payloads.
//
// A Record is immutable once built: downstream code filters and sorts
// slices of records but never writes back into one.
package catalog

import (
	"fmt"
	"unicode"
)

// Record is one normalized catalog entry.
type Record struct {
	ID              int
	Name            string // lowercase canonical name from the API
	DisplayName     string // Name with the first rune uppercased
	PaddedNumber    string // ID as a zero-padded 3-digit string, e.g. "007"
	Categories      []string
	ImageURL        string
	Stats           map[string]int
	HeightMeters    float64
	WeightKilograms float64
	Abilities       []string
	Moves           []string
}

// PrimaryCategory returns the first category tag. Category order is
// as received from the source, so index 0 is the display category.
func (r Record) PrimaryCategory() string {
	if len(r.Categories) == 0 {
		return ""
	}
	return r.Categories[0]
}

// HasCategory reports whether the record carries the given category tag.
// Matching is exact and case-sensitive.
func (r Record) HasCategory(cat string) bool {
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// displayName uppercases the first rune of a lowercase API name.
func displayName(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// paddedNumber formats an id as a 3-digit dex number.
func paddedNumber(id int) string {
	return fmt.Sprintf("%03d", id)
}
