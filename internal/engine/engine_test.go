package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/favorites"
	"github.com/abelbrown/dexview/internal/fetch"
	"github.com/abelbrown/dexview/internal/filter"
)

func rec(id int, name, category string) catalog.Record {
	return catalog.Record{
		ID:           id,
		Name:         name,
		DisplayName:  name,
		PaddedNumber: fmt.Sprintf("%03d", id),
		Categories:   []string{category},
	}
}

func seeded(n int, sinks Sinks) *Engine {
	e := New(favorites.New(nil), 20, sinks)
	records := make([]catalog.Record, n)
	for i := range records {
		records[i] = rec(i+1, fmt.Sprintf("record-%d", i+1), "normal")
	}
	e.Append(records)
	return e
}

func visibleIDs(e *Engine) []int {
	visible := e.Visible()
	ids := make([]int, len(visible))
	for i, r := range visible {
		ids[i] = r.ID
	}
	return ids
}

func TestPaginationGrowsPrefix(t *testing.T) {
	e := seeded(45, Sinks{})

	if got := len(e.Visible()); got != 20 {
		t.Errorf("page 1: expected 20 visible, got %d", got)
	}

	e.NextPage()
	if got := len(e.Visible()); got != 40 {
		t.Errorf("page 2: expected 40 visible, got %d", got)
	}

	e.NextPage()
	if got := len(e.Visible()); got != 45 {
		t.Errorf("page 3: expected 45 visible, got %d", got)
	}

	// Advancing beyond the last page is a no-op.
	e.NextPage()
	if got := len(e.Visible()); got != 45 {
		t.Errorf("page 4: expected 45 visible, got %d", got)
	}
	if e.State().Page != 3 {
		t.Errorf("expected page to stay at 3, got %d", e.State().Page)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	e := seeded(45, Sinks{})
	e.NextPage()
	if e.State().Page != 2 {
		t.Fatalf("expected page 2, got %d", e.State().Page)
	}

	e.SetSearch("record")
	if e.State().Page != 1 {
		t.Errorf("search change: expected page reset to 1, got %d", e.State().Page)
	}

	e.NextPage()
	e.SetSort(filter.SortByName)
	if e.State().Page != 1 {
		t.Errorf("sort change: expected page reset to 1, got %d", e.State().Page)
	}

	e.NextPage()
	e.SetCategory("normal")
	if e.State().Page != 1 {
		t.Errorf("category change: expected page reset to 1, got %d", e.State().Page)
	}

	e.NextPage()
	e.SetFavoritesOnly(true)
	if e.State().Page != 1 {
		t.Errorf("favorites change: expected page reset to 1, got %d", e.State().Page)
	}
}

func TestVisibleIdempotent(t *testing.T) {
	e := seeded(30, Sinks{})
	e.SetSearch("record-1")

	first := e.Visible()
	second := e.Visible()
	if !reflect.DeepEqual(first, second) {
		t.Error("Visible() must be idempotent with no state change between calls")
	}
}

func TestPipelineOrder(t *testing.T) {
	e := New(favorites.New(nil), 20, Sinks{})
	e.Append([]catalog.Record{
		rec(1, "bulbasaur", "grass"),
		rec(4, "charmander", "fire"),
		rec(5, "charmeleon", "fire"),
		rec(7, "squirtle", "water"),
	})

	// Search then category: only fire records containing "char".
	e.SetSearch("char")
	e.SetCategory("fire")
	if got := visibleIDs(e); !reflect.DeepEqual(got, []int{4, 5}) {
		t.Errorf("expected [4 5], got %v", got)
	}

	// Adding favorites-only on top narrows further.
	e.ToggleFavorite(5)
	e.SetFavoritesOnly(true)
	if got := visibleIDs(e); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("expected [5], got %v", got)
	}
}

func TestStateChangedCounts(t *testing.T) {
	var mu sync.Mutex
	var total, filtered, favs int
	sinks := Sinks{
		StateChanged: func(_ []catalog.Record, t, f, fv int) {
			mu.Lock()
			total, filtered, favs = t, f, fv
			mu.Unlock()
		},
	}

	e := New(favorites.New(nil), 20, sinks)
	e.Append([]catalog.Record{
		rec(1, "bulbasaur", "grass"),
		rec(4, "charmander", "fire"),
	})
	e.ToggleFavorite(4)
	e.SetCategory("fire")

	mu.Lock()
	defer mu.Unlock()
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if filtered != 1 {
		t.Errorf("expected filtered 1, got %d", filtered)
	}
	if favs != 1 {
		t.Errorf("expected 1 favorite, got %d", favs)
	}
}

func TestConcurrentMutationsDeliverLatestSnapshot(t *testing.T) {
	var mu sync.Mutex
	var lastFiltered int
	sinks := Sinks{
		StateChanged: func(_ []catalog.Record, _, filtered, _ int) {
			mu.Lock()
			lastFiltered = filtered
			mu.Unlock()
		},
	}

	e := seeded(45, sinks)

	// Each query filters to a different count, so a stale delivery
	// cannot masquerade as the right one.
	queries := []string{"record-", "record-1", "record-12", "record-4", "nothing", "record-44"}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.SetSearch(queries[i%len(queries)])
		}(i)
	}
	wg.Wait()

	// Delivery is serialized in mutation order, so whatever search won
	// the race, the sink's last snapshot must agree with it.
	records := make([]catalog.Record, 45)
	for i := range records {
		records[i] = rec(i+1, fmt.Sprintf("record-%d", i+1), "normal")
	}
	want := len(filter.BySearch(records, e.State().SearchText))

	mu.Lock()
	got := lastFiltered
	mu.Unlock()
	if got != want {
		t.Errorf("last snapshot reported %d filtered, final state filters to %d", got, want)
	}
}

func TestEmptyStateDistinctFromNotLoaded(t *testing.T) {
	var mu sync.Mutex
	var emptyReported, emptyValue bool
	sinks := Sinks{
		EmptyState: func(empty bool) {
			mu.Lock()
			emptyReported = true
			emptyValue = empty
			mu.Unlock()
		},
	}

	e := New(favorites.New(nil), 20, sinks)

	// Before any load: filter changes report not-empty.
	e.SetSearch("zzz")
	mu.Lock()
	if emptyValue {
		t.Error("empty state must not fire before first load")
	}
	mu.Unlock()

	// After data arrives, an all-excluding filter is a real empty state.
	e.Append([]catalog.Record{rec(1, "bulbasaur", "grass")})
	e.SetSearch("zzz")
	mu.Lock()
	if !emptyReported || !emptyValue {
		t.Error("expected empty state after filtering everything out")
	}
	mu.Unlock()

	e.SetSearch("")
	mu.Lock()
	if emptyValue {
		t.Error("expected non-empty state after clearing the filter")
	}
	mu.Unlock()
}

func TestToggleFavoriteMembership(t *testing.T) {
	e := seeded(10, Sinks{})

	if !e.ToggleFavorite(7) {
		t.Error("first toggle: expected membership true")
	}
	if e.ToggleFavorite(7) {
		t.Error("second toggle: expected membership false")
	}
}

func TestCategories(t *testing.T) {
	e := New(favorites.New(nil), 20, Sinks{})
	e.Append([]catalog.Record{
		{ID: 1, Categories: []string{"grass", "poison"}},
		{ID: 4, Categories: []string{"fire"}},
		{ID: 92, Categories: []string{"ghost", "poison"}},
	})

	got := e.Categories()
	want := []string{"grass", "poison", "fire", "ghost"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// slowSource blocks every fetch until released.
type slowSource struct {
	release chan struct{}
}

func (s *slowSource) GetRecord(ctx context.Context, id int) (catalog.Record, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return catalog.Record{}, ctx.Err()
	}
	return rec(id, fmt.Sprintf("record-%d", id), "normal"), nil
}

func TestLoadBusyFlag(t *testing.T) {
	src := &slowSource{release: make(chan struct{})}
	e := New(favorites.New(nil), 20, Sinks{})

	if !e.Load(context.Background(), fetch.NewFetcher(src), 5, 5) {
		t.Fatal("first load must start")
	}
	// A second load while one is in flight is dropped, no queueing.
	if e.Load(context.Background(), fetch.NewFetcher(src), 5, 5) {
		t.Error("second load must be dropped while first is in flight")
	}

	close(src.release)
	waitFor(t, func() bool { return !e.Loading() })

	if e.Total() != 5 {
		t.Errorf("expected 5 records, got %d", e.Total())
	}
	// Once idle, loading again is allowed.
	if !e.Load(context.Background(), fetch.NewFetcher(src), 5, 5) {
		t.Error("load must be accepted once the previous one finished")
	}
	waitFor(t, func() bool { return !e.Loading() })
}

// failingSource fails every fetch.
type failingSource struct{}

func (failingSource) GetRecord(context.Context, int) (catalog.Record, error) {
	return catalog.Record{}, errors.New("boom")
}

func TestLoadTotalFailure(t *testing.T) {
	var mu sync.Mutex
	var errMsg string
	sinks := Sinks{
		Error: func(msg string) {
			mu.Lock()
			errMsg = msg
			mu.Unlock()
		},
	}

	e := New(favorites.New(nil), 20, sinks)
	e.Load(context.Background(), fetch.NewFetcher(failingSource{}), 10, 4)
	waitFor(t, func() bool { return !e.Loading() })

	mu.Lock()
	defer mu.Unlock()
	if errMsg == "" {
		t.Error("expected a total-load-failure notification")
	}
	if e.Total() != 0 {
		t.Errorf("expected 0 records, got %d", e.Total())
	}
	// The engine stays usable against the empty set.
	if got := len(e.Visible()); got != 0 {
		t.Errorf("expected empty visible slice, got %d", got)
	}
}

func TestLoadPartialFailureNoError(t *testing.T) {
	var mu sync.Mutex
	errored := false
	sinks := Sinks{
		Error: func(string) {
			mu.Lock()
			errored = true
			mu.Unlock()
		},
	}

	e := New(favorites.New(nil), 20, sinks)
	e.Load(context.Background(), fetch.NewFetcher(&partialSource{failID: 13}), 25, 20)
	waitFor(t, func() bool { return !e.Loading() })

	if e.Total() != 24 {
		t.Errorf("expected 24 records, got %d", e.Total())
	}
	mu.Lock()
	defer mu.Unlock()
	if errored {
		t.Error("partial failure must not raise a load-failure notification")
	}
}

// partialSource fails exactly one id.
type partialSource struct {
	failID int
}

func (s *partialSource) GetRecord(_ context.Context, id int) (catalog.Record, error) {
	if id == s.failID {
		return catalog.Record{}, errors.New("boom")
	}
	return rec(id, fmt.Sprintf("record-%d", id), "normal"), nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
