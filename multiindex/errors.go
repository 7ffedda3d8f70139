package multiindex

import "errors"

var (
	// ErrNegativeDegree is returned when a row contains a degree below zero.
	ErrNegativeDegree = errors.New("multiindex: negative degree")

	// ErrNonIntegerDegree is returned when a floating-point degree is not an
	// exact integer.
	ErrNonIntegerDegree = errors.New("multiindex: non-integer degree")

	// ErrRaggedRows is returned when rows differ in length.
	ErrRaggedRows = errors.New("multiindex: ragged rows")

	// ErrEmptyTable is returned when a table would have no rows or no
	// dimensions.
	ErrEmptyTable = errors.New("multiindex: empty table")
)

// ErrInvalidPermutation is returned by Permute for an index list that is not
// a permutation of the table rows.
var ErrInvalidPermutation = errors.New("multiindex: invalid permutation")
