package gpcgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gpcgo/basis"
	"github.com/hupe1980/gpcgo/multiindex"
)

var (
	// ErrShapeMismatch is returned when operand shapes disagree.
	ErrShapeMismatch = errors.New("gpcgo: shape mismatch")

	// ErrUnsupportedDegree is returned when a multi-index degree exceeds what
	// the basis family can evaluate.
	ErrUnsupportedDegree = errors.New("gpcgo: unsupported degree")

	// ErrInvalidBasisFamily is returned for an unknown or misconfigured
	// polynomial family.
	ErrInvalidBasisFamily = errors.New("gpcgo: invalid basis family")
)

// ShapeError describes a single disagreeing axis.
//
// It matches ErrShapeMismatch with errors.Is.
type ShapeError struct {
	Operand  string
	Axis     int
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("gpcgo: shape mismatch: %s axis %d: expected %d, got %d", e.Operand, e.Axis, e.Expected, e.Actual)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

func shapeErr(operand string, axis, expected, actual int) error {
	return &ShapeError{Operand: operand, Axis: axis, Expected: expected, Actual: actual}
}

// translateError maps package errors onto the root sentinels while keeping
// the original cause reachable.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrShapeMismatch),
		errors.Is(err, ErrUnsupportedDegree),
		errors.Is(err, ErrInvalidBasisFamily):
		return err
	case errors.Is(err, basis.ErrUnsupportedDegree):
		return fmt.Errorf("%w: %w", ErrUnsupportedDegree, err)
	case errors.Is(err, basis.ErrInvalidFamily):
		return fmt.Errorf("%w: %w", ErrInvalidBasisFamily, err)
	case errors.Is(err, multiindex.ErrRaggedRows),
		errors.Is(err, multiindex.ErrEmptyTable),
		errors.Is(err, multiindex.ErrInvalidPermutation):
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}

	return err
}
