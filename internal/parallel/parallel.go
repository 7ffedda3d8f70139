// Package parallel partitions a row range into contiguous chunks and runs
// them on a bounded set of goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the batch size below which For runs inline.
const DefaultThreshold = 64

// Limiter bounds concurrent workers across calls.
type Limiter interface {
	AcquireWorker(ctx context.Context) error
	ReleaseWorker()
}

// Config controls how For splits work.
type Config struct {
	// Workers is the maximum number of concurrent chunks.
	// Values <= 0 mean runtime.GOMAXPROCS(0).
	Workers int

	// Threshold is the smallest n that is split; smaller ranges run inline.
	Threshold int

	// Limiter, when set, is acquired once per chunk before it starts.
	Limiter Limiter
}

// Workers resolves a worker count: n <= 0 means one worker per usable CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ChunkSize returns the chunk length For uses for n rows on workers.
func ChunkSize(n, workers int) int {
	workers = max(1, min(workers, n))
	return (n + workers - 1) / workers
}

// For calls fn for non-overlapping ranges [start, end) covering [0, n).
//
// ctx is only consulted before chunks are launched; a chunk that has started
// always runs to completion. The first error returned by fn (or by the
// limiter) is returned after all launched chunks finish.
func For(ctx context.Context, n int, cfg Config, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	workers := min(Workers(cfg.Workers), n)
	if workers <= 1 || n < cfg.Threshold {
		return run(ctx, cfg.Limiter, func() error { return fn(0, n) })
	}

	chunk := ChunkSize(n, workers)

	var g errgroup.Group
	g.SetLimit(workers)

	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		if cfg.Limiter != nil {
			if err := cfg.Limiter.AcquireWorker(ctx); err != nil {
				_ = g.Wait()
				return err
			}
		}
		g.Go(func() error {
			if cfg.Limiter != nil {
				defer cfg.Limiter.ReleaseWorker()
			}
			return fn(start, end)
		})
	}

	return g.Wait()
}

func run(ctx context.Context, lim Limiter, fn func() error) error {
	if lim == nil {
		return fn()
	}
	if err := lim.AcquireWorker(ctx); err != nil {
		return err
	}
	defer lim.ReleaseWorker()
	return fn()
}
