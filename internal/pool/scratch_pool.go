// Package pool provides buffer pools for allocation-free kernel calls.
// Uses sync.Pool for automatic memory reuse across calls and engines.
package pool

import "sync"

const (
	// DefaultFloats is the initial capacity of a pooled scratch buffer.
	DefaultFloats = 1024

	// MaxPooledFloats caps the buffers kept for reuse so that one huge call
	// does not pin its scratch forever.
	MaxPooledFloats = 1 << 20
)

// floatsPool is the global pool of scratch buffers.
var floatsPool = sync.Pool{
	New: func() any {
		b := make([]float64, 0, DefaultFloats)
		return &b
	},
}

// GetFloats retrieves a buffer of length n from the pool. Its contents are
// unspecified.
func GetFloats(n int) *[]float64 {
	b := floatsPool.Get().(*[]float64)
	if cap(*b) < n {
		*b = make([]float64, n)
	}
	*b = (*b)[:n]
	return b
}

// PutFloats returns a buffer to the pool for reuse.
func PutFloats(b *[]float64) {
	if b == nil || cap(*b) > MaxPooledFloats {
		return
	}
	*b = (*b)[:0]
	floatsPool.Put(b)
}
