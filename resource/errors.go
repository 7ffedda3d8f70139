package resource

import (
	"errors"
	"fmt"
)

// ErrMemoryLimit is returned when a single reservation exceeds the hard
// memory limit and could never be satisfied.
var ErrMemoryLimit = errors.New("resource: memory limit exceeded")

// LimitError reports a reservation larger than the configured limit.
type LimitError struct {
	Requested int64
	Limit     int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("resource: requested %d bytes, limit is %d", e.Requested, e.Limit)
}

// Unwrap returns ErrMemoryLimit.
func (e *LimitError) Unwrap() error { return ErrMemoryLimit }
