package patient

import (
	"context"
	"sync"

	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/variant"
)

// workResult holds the score table for one variant, tagged with its input
// position so results can be reassembled in order.
type workResult struct {
	seq   int
	table *score.Table
	err   error
}

// scoreParallel scores variants with a pool of workers and reassembles the
// tables in input order. Aggregation order does not affect the result, but
// a deterministic table order keeps logs and cached artifacts stable.
//
// The first scoring error cancels the remaining work and fails the whole
// request; there is no partial result.
func (s *Scorer) scoreParallel(ctx context.Context, variants []variant.Variant) ([]score.Table, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.workers
	if workers > len(variants) {
		workers = len(variants)
	}

	items := make(chan int, len(variants))
	for i := range variants {
		items <- i
	}
	close(items)

	results := make(chan workResult, len(variants))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range items {
				if ctx.Err() != nil {
					return
				}
				t, err := s.predictor.ScoreVariant(ctx, variants[i])
				results <- workResult{seq: i, table: t, err: err}
				if err != nil {
					cancel()
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	tables := make([]score.Table, len(variants))
	done := 0
	for r := range results {
		if r.err != nil {
			// Drain remaining results to unblock workers.
			for range results {
			}
			return nil, r.err
		}
		tables[r.seq] = *r.table
		done++
	}

	if done < len(variants) {
		// Workers bailed out after cancellation without reporting an error;
		// the context carries the cause.
		return nil, ctx.Err()
	}

	return tables, nil
}
