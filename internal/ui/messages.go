// Package ui provides the Bubble Tea TUI for dexview.
package ui

import (
	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/pokeapi"
)

// StateChanged is sent when the engine recomputes the visible slice.
type StateChanged struct {
	Visible   []catalog.Record
	Total     int
	Filtered  int
	Favorites int
}

// EmptyState is sent when the engine's empty-result condition changes.
type EmptyState struct {
	Empty bool
}

// LoadProgress is sent per batch while the catalog loads.
type LoadProgress struct {
	Loaded int
}

// LoadError is sent for non-fatal load errors (e.g. total load failure).
type LoadError struct {
	Message string
}

// SpeciesLoaded is sent when a detail-view species fetch settles.
type SpeciesLoaded struct {
	ID   int
	Info pokeapi.SpeciesInfo
	Err  error
}

// favoriteToggled is sent after a favorite toggle has fully applied,
// including persistence. Member is the new membership.
type favoriteToggled struct {
	record catalog.Record
	member bool
}

// noticeExpired dismisses the transient notice with the matching id.
// A stale id (a newer notice replaced it) is ignored.
type noticeExpired struct {
	id int
}
