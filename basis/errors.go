package basis

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFamily is returned for an unknown family selector or invalid
	// family parameters.
	ErrInvalidFamily = errors.New("invalid basis family")

	// ErrUnsupportedDegree is returned when a degree exceeds the recurrence
	// table of a family.
	ErrUnsupportedDegree = errors.New("unsupported degree")
)

// DegreeError reports a degree outside the supported range of a family.
//
// It matches ErrUnsupportedDegree with errors.Is.
type DegreeError struct {
	Kind      Kind
	Degree    int
	MaxDegree int
}

func (e *DegreeError) Error() string {
	return fmt.Sprintf("%s: degree %d outside [0, %d]", e.Kind, e.Degree, e.MaxDegree)
}

func (e *DegreeError) Unwrap() error { return ErrUnsupportedDegree }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFamily, fmt.Sprintf(format, args...))
}
