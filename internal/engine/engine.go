// Package engine holds the application state aggregate: the
// accumulated record set, the single filter state, and the favorites
// store. Every user-visible view of the catalog is recomputed from
// those three inputs; nothing else feeds the presentation layer.
//
// The engine talks to the UI only through Sinks bound at construction.
// A mutation method fully completes its effect (including favorites
// persistence) before it notifies, so observers never see a
// half-applied state.
package engine

import (
	"context"
	"sync"

	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/favorites"
	"github.com/abelbrown/dexview/internal/fetch"
	"github.com/abelbrown/dexview/internal/filter"
	"github.com/abelbrown/dexview/internal/logging"
)

// Sinks are the output contracts the presentation layer consumes.
// Bound once at initialization; nil funcs are skipped.
type Sinks struct {
	// StateChanged delivers the visible slice plus counts whenever
	// the computed view changes.
	StateChanged func(visible []catalog.Record, total, filtered, favorites int)

	// EmptyState reports whether the visible slice is empty after at
	// least one load has populated (or failed to populate) the set.
	// Distinct from "not yet loaded".
	EmptyState func(empty bool)

	// LoadProgress reports the running record count during a load.
	LoadProgress func(loaded int)

	// Error delivers non-fatal, user-visible error messages.
	Error func(msg string)
}

// FilterState is the single mutable filter configuration.
type FilterState struct {
	SearchText    string         // lowercased substring, empty = no filter
	Category      string         // filter.CategoryAll or one category tag
	Sort          filter.SortKey // default filter.SortByID
	FavoritesOnly bool
	Page          int // 1-based; reset to 1 when any other field changes
}

func defaultFilterState() FilterState {
	return FilterState{
		Category: filter.CategoryAll,
		Sort:     filter.SortByID,
		Page:     1,
	}
}

// Engine owns the record set and filter state exclusively.
type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex // serializes sink delivery in mutation order
	records  []catalog.Record
	state    FilterState
	favs     *favorites.Store
	sinks    Sinks
	pageSize int
	loaded   bool // at least one load has finished or produced a batch
	loading  bool // busy flag: second Load while in flight is dropped
}

// New creates an Engine with default filter state.
func New(favs *favorites.Store, pageSize int, sinks Sinks) *Engine {
	return &Engine{
		state:    defaultFilterState(),
		favs:     favs,
		sinks:    sinks,
		pageSize: pageSize,
	}
}

// Load consumes the fetcher's batch stream, appending records as
// batches arrive and notifying progress per batch. Returns false if a
// load is already in flight (the request is dropped, not queued). The
// batch stream runs on its own goroutine; Load returns immediately.
func (e *Engine) Load(ctx context.Context, f *fetch.Fetcher, total, batchSize int) bool {
	e.mu.Lock()
	if e.loading {
		e.mu.Unlock()
		logging.Debug("load already in flight, dropping request")
		return false
	}
	e.loading = true
	e.mu.Unlock()

	go func() {
		attempted := 0
		for batch := range f.FetchAll(ctx, total, batchSize) {
			attempted += batch.Attempted()
			e.Append(batch.Records)
		}

		e.mu.Lock()
		e.loading = false
		e.loaded = true
		count := len(e.records)
		e.mu.Unlock()

		logging.Info("catalog load finished", "records", count, "attempted", attempted)
		if attempted > 0 && count == 0 {
			// Zero data is not fatal: the engine stays usable
			// against an empty set.
			if e.sinks.Error != nil {
				e.sinks.Error("failed to load catalog: all requests failed")
			}
		}
		e.notify()
	}()

	return true
}

// Append is the batch-arrival entry point: it appends records to the
// accumulated set (append-only, records are never mutated), reports
// progress, and recomputes the view.
func (e *Engine) Append(records []catalog.Record) {
	e.mu.Lock()
	e.records = append(e.records, records...)
	e.loaded = true
	loaded := len(e.records)
	e.mu.Unlock()

	if e.sinks.LoadProgress != nil {
		e.sinks.LoadProgress(loaded)
	}
	e.notify()
}

// Loading reports whether a load is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// SetSearch updates the search text and resets to page 1.
func (e *Engine) SetSearch(text string) {
	e.mu.Lock()
	e.state.SearchText = text
	e.state.Page = 1
	e.mu.Unlock()
	e.notify()
}

// SetCategory updates the category filter and resets to page 1.
func (e *Engine) SetCategory(cat string) {
	e.mu.Lock()
	e.state.Category = cat
	e.state.Page = 1
	e.mu.Unlock()
	e.notify()
}

// SetSort updates the sort key and resets to page 1.
func (e *Engine) SetSort(key filter.SortKey) {
	e.mu.Lock()
	e.state.Sort = key
	e.state.Page = 1
	e.mu.Unlock()
	e.notify()
}

// SetFavoritesOnly updates the favorites filter and resets to page 1.
func (e *Engine) SetFavoritesOnly(on bool) {
	e.mu.Lock()
	e.state.FavoritesOnly = on
	e.state.Page = 1
	e.mu.Unlock()
	e.notify()
}

// NextPage grows the visible prefix by one page. Advancing past the
// last page is a no-op and does not notify.
func (e *Engine) NextPage() {
	e.mu.Lock()
	filtered := e.filteredLocked()
	if e.state.Page >= filter.MaxPage(len(filtered), e.pageSize) {
		e.mu.Unlock()
		return
	}
	e.state.Page++
	e.mu.Unlock()
	e.notify()
}

// ToggleFavorite flips membership for id, persists, notifies, and
// returns the new membership for the caller's user-facing message.
func (e *Engine) ToggleFavorite(id int) bool {
	member := e.favs.Toggle(id)
	e.notify()
	return member
}

// IsFavorite reports favorite membership for id.
func (e *Engine) IsFavorite(id int) bool {
	return e.favs.IsFavorite(id)
}

// State returns a copy of the current filter state.
func (e *Engine) State() FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Total returns the size of the accumulated record set.
func (e *Engine) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Categories returns the distinct category tags present in the loaded
// set, ordered by first appearance, for the UI's category cycler.
func (e *Engine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool)
	var cats []string
	for _, r := range e.records {
		for _, c := range r.Categories {
			if !seen[c] {
				seen[c] = true
				cats = append(cats, c)
			}
		}
	}
	return cats
}

// Visible recomputes and returns the current visible slice. The result
// is a deterministic pure function of (records, state, favorites):
// calling it twice without an intervening mutation yields identical
// output.
func (e *Engine) Visible() []catalog.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return filter.PageWindow(e.filteredLocked(), e.state.Page, e.pageSize)
}

// filteredLocked runs the filter pipeline in its fixed order: search,
// category, favorites, then sort. Caller must hold e.mu.
func (e *Engine) filteredLocked() []catalog.Record {
	result := filter.BySearch(e.records, e.state.SearchText)
	result = filter.ByCategory(result, e.state.Category)
	if e.state.FavoritesOnly {
		result = filter.ByFavorites(result, e.favs.IsFavorite)
	}
	return filter.Sort(result, e.state.Sort)
}

// notify recomputes the view and pushes it through the sinks. Sinks
// run outside the state lock so a sink may read back from the engine;
// a sink must not mutate it. notifyMu keeps compute-and-deliver
// atomic, so concurrent mutations cannot deliver a stale snapshot
// after a fresher one.
func (e *Engine) notify() {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	filtered := e.filteredLocked()
	visible := filter.PageWindow(filtered, e.state.Page, e.pageSize)
	total := len(e.records)
	filteredCount := len(filtered)
	loaded := e.loaded
	e.mu.Unlock()

	favCount := e.favs.Count()

	if e.sinks.StateChanged != nil {
		e.sinks.StateChanged(visible, total, filteredCount, favCount)
	}
	if e.sinks.EmptyState != nil {
		e.sinks.EmptyState(loaded && len(visible) == 0)
	}
}
