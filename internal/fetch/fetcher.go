// Package fetch retrieves the full catalog id range in batches.
//
// Each batch issues one concurrent request per id and settles only when
// every request in the batch has settled. Individual failures are
// dropped, never retried: the pipeline tolerates holes in the id space.
// Batches are emitted in increasing id order so the caller can render
// progressively.
package fetch

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/logging"
)

// RecordGetter is the single-record fetch dependency, satisfied by
// *pokeapi.Client. Kept as an interface for testing.
type RecordGetter interface {
	GetRecord(ctx context.Context, id int) (catalog.Record, error)
}

// Batch holds the surviving records of one id-range batch.
type Batch struct {
	First   int // first id requested in this batch
	Last    int // last id requested in this batch (inclusive)
	Records []catalog.Record
}

// Attempted returns how many ids this batch requested.
func (b Batch) Attempted() int { return b.Last - b.First + 1 }

// Fetcher runs the batched fetch pipeline.
type Fetcher struct {
	source RecordGetter
	log    *log.Logger
}

// NewFetcher creates a Fetcher over the given record source.
func NewFetcher(source RecordGetter) *Fetcher {
	return &Fetcher{
		source: source,
		log:    logging.WithPrefix("fetch"),
	}
}

// FetchAll fetches ids [1, total] in consecutive batches of batchSize
// (the last batch may be shorter) and sends one Batch per range on the
// returned channel, in increasing id order. The channel is closed after
// the last batch, or early if ctx is cancelled. If every fetch fails
// the caller simply receives batches with no records; that is zero
// data, not an error.
func (f *Fetcher) FetchAll(ctx context.Context, total, batchSize int) <-chan Batch {
	out := make(chan Batch)

	go func() {
		defer close(out)

		if total <= 0 || batchSize <= 0 {
			return
		}

		for first := 1; first <= total; first += batchSize {
			last := first + batchSize - 1
			if last > total {
				last = total
			}

			batch := f.fetchBatch(ctx, first, last)

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}

			if ctx.Err() != nil {
				return
			}
		}
	}()

	return out
}

// fetchBatch fetches one contiguous id range concurrently and waits for
// every request to settle. Failed ids leave a hole; surviving records
// keep request-id order regardless of completion order.
func (f *Fetcher) fetchBatch(ctx context.Context, first, last int) Batch {
	n := last - first + 1
	results := make([]*catalog.Record, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		id := first + i
		slot := i
		g.Go(func() error {
			rec, err := f.source.GetRecord(gctx, id)
			if err != nil {
				// Dropped, not escalated. Transform failures
				// arrive here the same way network ones do.
				f.log.Debug("record fetch failed", "id", id, "error", err)
				return nil
			}
			results[slot] = &rec
			return nil
		})
	}
	// Workers never return errors, so Wait only blocks for settlement.
	g.Wait()

	records := make([]catalog.Record, 0, n)
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	return Batch{First: first, Last: last, Records: records}
}
