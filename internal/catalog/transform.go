package catalog

import (
	"errors"
	"fmt"
)

// maxMoves caps how many moves are kept from the source payload.
const maxMoves = 5

// ErrMissingField indicates a raw payload lacked a required field.
// TransformErrors wrap this sentinel.
var ErrMissingField = errors.New("missing required field")

// TransformError describes a payload that could not be normalized.
type TransformError struct {
	ID    int    // source id, 0 if absent
	Field string // first missing field
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform record %d: %s %q", e.ID, ErrMissingField, e.Field)
}

func (e *TransformError) Unwrap() error { return ErrMissingField }

// RawRecord mirrors the PokeAPI /pokemon/{id} response, trimmed to the
// fields this application reads.
type RawRecord struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"` // decimeters
	Weight int    `json:"weight"` // hectograms
	Types  []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
}

// Transform normalizes a raw API payload into a Record.
//
// Pure function: no I/O, no mutation of raw. Returns a TransformError
// if any required field (id, name, types, stats) is absent. Callers in
// the fetch path treat that the same as a network failure.
func Transform(raw RawRecord) (Record, error) {
	switch {
	case raw.ID <= 0:
		return Record{}, &TransformError{ID: raw.ID, Field: "id"}
	case raw.Name == "":
		return Record{}, &TransformError{ID: raw.ID, Field: "name"}
	case len(raw.Types) == 0:
		return Record{}, &TransformError{ID: raw.ID, Field: "types"}
	case len(raw.Stats) == 0:
		return Record{}, &TransformError{ID: raw.ID, Field: "stats"}
	}

	categories := make([]string, len(raw.Types))
	for i, t := range raw.Types {
		categories[i] = t.Type.Name
	}

	stats := make(map[string]int, len(raw.Stats))
	for _, s := range raw.Stats {
		stats[s.Stat.Name] = s.BaseStat
	}

	// Prefer the high-resolution artwork, fall back to the sprite.
	imageURL := raw.Sprites.Other.OfficialArtwork.FrontDefault
	if imageURL == "" {
		imageURL = raw.Sprites.FrontDefault
	}

	abilities := make([]string, len(raw.Abilities))
	for i, a := range raw.Abilities {
		abilities[i] = a.Ability.Name
	}

	n := len(raw.Moves)
	if n > maxMoves {
		n = maxMoves
	}
	moves := make([]string, n)
	for i := 0; i < n; i++ {
		moves[i] = raw.Moves[i].Move.Name
	}

	return Record{
		ID:              raw.ID,
		Name:            raw.Name,
		DisplayName:     displayName(raw.Name),
		PaddedNumber:    paddedNumber(raw.ID),
		Categories:      categories,
		ImageURL:        imageURL,
		Stats:           stats,
		HeightMeters:    float64(raw.Height) / 10,
		WeightKilograms: float64(raw.Weight) / 10,
		Abilities:       abilities,
		Moves:           moves,
	}, nil
}
