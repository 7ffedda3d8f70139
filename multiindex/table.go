package multiindex

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Table is an immutable n_basis × n_dim matrix of non-negative degrees.
// It is safe for concurrent use.
type Table struct {
	rows, dims int
	degrees    []int // row-major
	maxDegrees []int
}

// New builds a table from literal rows. The rows are copied.
func New(rows [][]int) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyTable
	}
	dims := len(rows[0])
	degrees := make([]int, 0, len(rows)*dims)
	for i, r := range rows {
		if len(r) != dims {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrRaggedRows, i, len(r), dims)
		}
		degrees = append(degrees, r...)
	}
	return newTable(len(rows), dims, degrees)
}

// FromFloat64 builds a table from row-major float64 data holding integral
// degrees, e.g. a multi-index array shipped with a fitted model.
func FromFloat64(data []float64, dims int) (*Table, error) {
	if dims <= 0 || len(data) == 0 {
		return nil, ErrEmptyTable
	}
	if len(data)%dims != 0 {
		return nil, fmt.Errorf("%w: %d values do not fill rows of %d", ErrRaggedRows, len(data), dims)
	}
	degrees := make([]int, len(data))
	for i, v := range data {
		d, err := toDegree(v)
		if err != nil {
			return nil, fmt.Errorf("row %d, dim %d: %w", i/dims, i%dims, err)
		}
		degrees[i] = d
	}
	return newTable(len(data)/dims, dims, degrees)
}

// FromDense builds a table from any gonum matrix holding integral degrees.
func FromDense(m mat.Matrix) (*Table, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmptyTable
	}
	degrees := make([]int, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d, err := toDegree(m.At(i, j))
			if err != nil {
				return nil, fmt.Errorf("row %d, dim %d: %w", i, j, err)
			}
			degrees[i*c+j] = d
		}
	}
	return newTable(r, c, degrees)
}

func toDegree(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v", ErrNonIntegerDegree, v)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeDegree, v)
	}
	return int(v), nil
}

// newTable takes ownership of degrees.
func newTable(rows, dims int, degrees []int) (*Table, error) {
	maxDegrees := make([]int, dims)
	for i, v := range degrees {
		if v < 0 {
			return nil, fmt.Errorf("%w: row %d, dim %d: %d", ErrNegativeDegree, i/dims, i%dims, v)
		}
		if d := i % dims; v > maxDegrees[d] {
			maxDegrees[d] = v
		}
	}
	return &Table{
		rows:       rows,
		dims:       dims,
		degrees:    degrees,
		maxDegrees: maxDegrees,
	}, nil
}

// Len returns the number of basis functions (rows).
func (t *Table) Len() int { return t.rows }

// Dims returns the number of input dimensions (columns).
func (t *Table) Dims() int { return t.dims }

// Degree returns the degree of basis row i in dimension d.
func (t *Table) Degree(i, d int) int { return t.degrees[i*t.dims+d] }

// Row returns a copy of basis row i.
func (t *Table) Row(i int) []int {
	return slices.Clone(t.degrees[i*t.dims : (i+1)*t.dims])
}

// TotalDegree returns the sum of the degrees of row i.
func (t *Table) TotalDegree(i int) int {
	s := 0
	for _, v := range t.degrees[i*t.dims : (i+1)*t.dims] {
		s += v
	}
	return s
}

// MaxDegree returns the largest degree used in dimension d.
func (t *Table) MaxDegree(d int) int { return t.maxDegrees[d] }

// MaxDegrees returns a copy of the per-dimension maximum degrees.
func (t *Table) MaxDegrees() []int { return slices.Clone(t.maxDegrees) }

// Degrees exposes the row-major backing slice. Callers must not modify it.
func (t *Table) Degrees() []int { return t.degrees }

// Rows returns a copy of the table as a slice of rows.
func (t *Table) Rows() [][]int {
	out := make([][]int, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Permute returns a new table whose row i is row perm[i] of t.
func (t *Table) Permute(perm []int) (*Table, error) {
	if len(perm) != t.rows {
		return nil, fmt.Errorf("%w: got %d indices for %d rows", ErrInvalidPermutation, len(perm), t.rows)
	}
	seen := make([]bool, t.rows)
	degrees := make([]int, 0, len(t.degrees))
	for _, p := range perm {
		if p < 0 || p >= t.rows || seen[p] {
			return nil, fmt.Errorf("%w: index %d", ErrInvalidPermutation, p)
		}
		seen[p] = true
		degrees = append(degrees, t.degrees[p*t.dims:(p+1)*t.dims]...)
	}
	return &Table{
		rows:       t.rows,
		dims:       t.dims,
		degrees:    degrees,
		maxDegrees: slices.Clone(t.maxDegrees),
	}, nil
}

// HasDuplicates reports whether two rows are identical. Kernels do not
// check this; a table with duplicate rows yields a rank-deficient basis.
func (t *Table) HasDuplicates() bool {
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		return slices.Compare(t.degrees[a*t.dims:(a+1)*t.dims], t.degrees[b*t.dims:(b+1)*t.dims])
	})
	for k := 1; k < len(idx); k++ {
		a, b := idx[k-1], idx[k]
		if slices.Equal(t.degrees[a*t.dims:(a+1)*t.dims], t.degrees[b*t.dims:(b+1)*t.dims]) {
			return true
		}
	}
	return false
}

// Dense returns the table as a float64 matrix.
func (t *Table) Dense() *mat.Dense {
	data := make([]float64, len(t.degrees))
	for i, v := range t.degrees {
		data[i] = float64(v)
	}
	return mat.NewDense(t.rows, t.dims, data)
}
