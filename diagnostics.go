package gpcgo

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

// NonFiniteRows returns the indices of the rows of m that hold at least one
// NaN or ±Inf. The kernels propagate such values instead of rejecting them;
// callers can use the bitmap to mask the affected output rows.
func NonFiniteRows(m mat.Matrix) *roaring.Bitmap {
	rows := roaring.New()
	if m == nil {
		return rows
	}
	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return rows
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				rows.Add(uint32(i))
				break
			}
		}
	}
	return rows
}
