// Package worker runs indexed jobs on a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/okian/brainmatch/pkg/logger"
)

// Gauge receives the number of workers in use.
type Gauge interface {
	UpdateWorkerCount(count int)
}

// Pool runs fn for every index of a batch with at most size calls in flight.
// Results are written by index, so callers keep input order no matter how
// calls interleave.
type Pool struct {
	size   int
	name   string
	gauge  Gauge
	logger logger.Logger
}

// NewPool creates a pool of size workers. A size below one means one worker
// per CPU.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}

	p := &Pool{
		size:   size,
		name:   "worker-pool",
		logger: logger.Get(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.Named(p.name)

	return p
}

// Size returns the concurrency limit.
func (p *Pool) Size() int {
	return p.size
}

// Run calls fn(ctx, i) for i in [0, n). The first error cancels the context
// passed to the remaining calls and is returned once all started calls have
// finished. A cancelled parent context stops the run with its error.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	workers := min(p.size, n)
	if p.gauge != nil {
		p.gauge.UpdateWorkerCount(workers)
	}
	p.logger.Debug(ctx, "starting batch", logger.Int("jobs", n), logger.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, i); err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn(ctx, "batch aborted", logger.Error(err))
		return err
	}

	return ctx.Err()
}
