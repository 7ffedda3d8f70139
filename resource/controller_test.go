package resource

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccounting(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(ctx, 50))
	require.NoError(t, c.AcquireMemory(ctx, 40))
	assert.Equal(t, int64(90), c.MemoryUsage())
	assert.False(t, c.TryAcquireMemory(20))

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(timeout, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.True(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
}

func TestReservationLimits(t *testing.T) {
	tests := []struct {
		name    string
		limit   int64
		floats  int
		workers int
		bytes   int64
		granted int
		err     error
	}{
		{"unlimited", 0, 1 << 20, 16, 16 << 23, 16, nil},
		{"fits", 1024, 16, 8, 1024, 8, nil},
		{"zero workers count as one", 1024, 16, 0, 128, 1, nil},
		{"too many workers falls back to one", 1024, 16, 9, 128, 1, nil},
		{"oversized chunk", 1024, 200, 1, 0, 0, ErrMemoryLimit},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(Config{MemoryLimitBytes: tc.limit})
			r, err := c.ReserveScratch(context.Background(), tc.floats, tc.workers)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				var le *LimitError
				require.ErrorAs(t, err, &le)
				assert.Equal(t, tc.limit, le.Limit)
				assert.Equal(t, int64(0), c.MemoryUsage())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.bytes, r.Bytes())
			assert.Equal(t, tc.granted, r.Workers())
			assert.Equal(t, tc.bytes, c.MemoryUsage())
			r.Release()
			assert.Equal(t, int64(0), c.MemoryUsage())
		})
	}
}

func TestReservationUnderPressure(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MemoryLimitBytes: 1024})
	require.NoError(t, c.AcquireMemory(ctx, 800))

	// 4 chunks of 128 bytes do not fit next to 800, one chunk does.
	r, err := c.ReserveScratch(ctx, 16, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Workers())
	assert.Equal(t, int64(128), r.Bytes())
	assert.Equal(t, int64(928), c.MemoryUsage())

	// A full controller makes the single-chunk path wait for ctx.
	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = c.ReserveScratch(timeout, 16, 4)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	r.Release()
	c.ReleaseMemory(800)
	r, err = c.ReserveScratch(ctx, 16, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Workers())
	r.Release()
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestNilController(t *testing.T) {
	var c *Controller
	r, err := c.ReserveScratch(context.Background(), 10, 2)
	require.NoError(t, err)
	r.Release()
	assert.True(t, c.TryAcquireMemory(10))
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.PeakMemoryUsage())
}

func TestWorkerSlots(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	assert.Equal(t, int64(2), c.Config().MaxWorkers)

	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.Equal(t, int64(2), c.ActiveWorkers())

	timeout, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(timeout), context.DeadlineExceeded)

	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(context.Background()))
	c.ReleaseWorker()
	c.ReleaseWorker()
	assert.Equal(t, int64(0), c.ActiveWorkers())

	assert.Equal(t, int64(1), NewController(Config{}).Config().MaxWorkers)
}

func TestWorkerSlotsBoundConcurrency(t *testing.T) {
	c := NewController(Config{MaxWorkers: 3})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		observed int64
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, c.AcquireWorker(context.Background())) {
				return
			}
			defer c.ReleaseWorker()

			mu.Lock()
			observed = max(observed, c.ActiveWorkers())
			mu.Unlock()
			time.Sleep(time.Millisecond)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, observed, int64(3))
	assert.Equal(t, int64(0), c.ActiveWorkers())
}
