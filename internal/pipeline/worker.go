package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Worker runs a per-item function over a bounded number of goroutines.
type Worker struct {
	limit int
}

// NewWorker creates a worker pool. A limit below 2 runs items sequentially.
func NewWorker(limit int) *Worker {
	if limit < 1 {
		limit = 1
	}
	return &Worker{limit: limit}
}

// Each calls fn for every index in [0, n). The first error returned by fn
// cancels the remaining items and is returned.
func (w *Worker) Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if w.limit == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
