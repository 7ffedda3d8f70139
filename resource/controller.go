// Package resource bounds the workers and scratch memory of kernel calls
// shared between engines.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of kernel workers running at once
	// across all engines sharing the controller. If 0, defaults to 1.
	MaxWorkers int64 `yaml:"max_workers"`

	// MemoryLimitBytes is the hard limit for kernel scratch memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64 `yaml:"memory_limit_bytes"`
}

// Controller manages shared resources (memory, concurrency).
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64
	memPeak atomic.Int64

	// Concurrency
	workerSem *semaphore.Weighted
	active    atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:       cfg,
		workerSem: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	return c.cfg
}

// AcquireMemory attempts to reserve memory.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if bytes > c.cfg.MemoryLimitBytes {
			return &LimitError{Requested: bytes, Limit: c.cfg.MemoryLimitBytes}
		}
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.track(bytes)
	return nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.track(bytes)
	return true
}

func (c *Controller) track(bytes int64) {
	used := c.memUsed.Add(bytes)
	for {
		peak := c.memPeak.Load()
		if used <= peak || c.memPeak.CompareAndSwap(peak, used) {
			return
		}
	}
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// PeakMemoryUsage returns the highest memory usage observed.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memPeak.Load()
}

// FloatBytes is the size of one float64 scratch element.
const FloatBytes = 8

// Reservation is scratch memory held for the duration of one kernel call.
type Reservation struct {
	c       *Controller
	bytes   int64
	workers int
}

// ReserveScratch reserves floats float64 elements for each of workers
// concurrent chunks. When that does not fit right away it waits for a single
// chunk's worth instead, and Workers of the result drops to 1. The returned
// Reservation must be released.
func (c *Controller) ReserveScratch(ctx context.Context, floats, workers int) (Reservation, error) {
	workers = max(workers, 1)
	per := int64(floats) * FloatBytes
	if all := per * int64(workers); c.TryAcquireMemory(all) {
		return Reservation{c: c, bytes: all, workers: workers}, nil
	}
	if err := c.AcquireMemory(ctx, per); err != nil {
		return Reservation{}, err
	}
	return Reservation{c: c, bytes: per, workers: 1}, nil
}

// Bytes returns the reserved size.
func (r Reservation) Bytes() int64 { return r.bytes }

// Workers returns the number of concurrent chunks the reservation covers.
func (r Reservation) Workers() int { return r.workers }

// Release returns the memory to the controller.
func (r Reservation) Release() { r.c.ReleaseMemory(r.bytes) }

// AcquireWorker reserves a worker slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if err := c.workerSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.active.Add(1)
	return nil
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	c.active.Add(-1)
	c.workerSem.Release(1)
}

// ActiveWorkers returns the number of slots currently held.
func (c *Controller) ActiveWorkers() int64 {
	return c.active.Load()
}
