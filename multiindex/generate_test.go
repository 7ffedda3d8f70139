package multiindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binomial returns n choose k.
func binomial(n, k int) int {
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}

func TestTotalOrder(t *testing.T) {
	tbl, err := TotalOrder(2, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{
		{0, 0},
		{0, 1}, {1, 0},
		{0, 2}, {1, 1}, {2, 0},
	}, tbl.Rows())

	for _, tc := range []struct{ dims, order int }{{1, 5}, {3, 4}, {5, 3}, {8, 2}} {
		tbl, err := TotalOrder(tc.dims, tc.order)
		require.NoError(t, err)
		assert.Equal(t, binomial(tc.dims+tc.order, tc.dims), tbl.Len(), "dims=%d order=%d", tc.dims, tc.order)
		assert.False(t, tbl.HasDuplicates())
		for i := 0; i < tbl.Len(); i++ {
			assert.LessOrEqual(t, tbl.TotalDegree(i), tc.order)
		}
	}
}

func TestTensorProduct(t *testing.T) {
	tbl, err := TensorProduct(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 27, tbl.Len())
	assert.Equal(t, []int{2, 2, 2}, tbl.MaxDegrees())
	assert.False(t, tbl.HasDuplicates())
	assert.Equal(t, []int{0, 0, 0}, tbl.Row(0))
	assert.Equal(t, []int{2, 2, 2}, tbl.Row(26))
}

func TestSparse(t *testing.T) {
	tbl, err := Sparse([]int{3, 1}, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]int{
		{0, 0},
		{0, 1}, {1, 0},
		{2, 0},
		{3, 0},
	}, tbl.Rows())

	// Interaction order 2 admits mixed terms.
	tbl, err = Sparse([]int{2, 2, 2}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, binomial(5, 3), tbl.Len())

	tbl, err = Sparse([]int{2, 2, 2}, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 0, 0}}, tbl.Rows())

	// Rows are ordered by total degree.
	tbl, err = Sparse([]int{4, 3, 2, 1}, 6, 3)
	require.NoError(t, err)
	for i := 1; i < tbl.Len(); i++ {
		assert.LessOrEqual(t, tbl.TotalDegree(i-1), tbl.TotalDegree(i))
		for d := 0; d < tbl.Dims(); d++ {
			assert.LessOrEqual(t, tbl.Degree(i, d), []int{4, 3, 2, 1}[d])
		}
	}
	assert.False(t, tbl.HasDuplicates())
}

func TestGeneratorErrors(t *testing.T) {
	_, err := TotalOrder(0, 2)
	assert.ErrorIs(t, err, ErrEmptyTable)
	_, err = TensorProduct(0, 2)
	assert.ErrorIs(t, err, ErrEmptyTable)
	_, err = Sparse(nil, 2, 1)
	assert.ErrorIs(t, err, ErrEmptyTable)
	_, err = Sparse([]int{1, -1}, 2, 1)
	assert.ErrorIs(t, err, ErrNegativeDegree)
	_, err = TotalOrder(2, -1)
	assert.ErrorIs(t, err, ErrNegativeDegree)
	_, err = Sparse([]int{1, 1}, 2, -1)
	assert.Error(t, err)
}
