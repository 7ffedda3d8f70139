package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestUniformMatrix(t *testing.T) {
	rng := NewRNG(4711)

	m := rng.UniformMatrix(8, 3, -2, 5)
	r, c := m.Dims()
	assert.Equal(t, 8, r)
	assert.Equal(t, 3, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.GreaterOrEqual(t, m.At(i, j), -2.0)
			assert.Less(t, m.At(i, j), 5.0)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	a := rng.GaussianMatrix(2, 4)
	rng.Reset()
	b := rng.GaussianMatrix(2, 4)
	assert.True(t, mat.Equal(a, b))
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestPerm(t *testing.T) {
	rng := NewRNG(1)
	p := rng.Perm(10)
	seen := make(map[int]bool)
	for _, v := range p {
		seen[v] = true
	}
	assert.Len(t, seen, 10)
}

// centralDiff approximates the gradient of f at every row of x.
func centralDiff(f func(mat.Matrix) []float64, x *mat.Dense) *mat.Dense {
	const h = 1e-6
	n, dims := x.Dims()
	g := mat.NewDense(n, dims, nil)
	for d := 0; d < dims; d++ {
		plus, minus := mat.DenseCopyOf(x), mat.DenseCopyOf(x)
		for i := 0; i < n; i++ {
			plus.Set(i, d, x.At(i, d)+h)
			minus.Set(i, d, x.At(i, d)-h)
		}
		fp, fm := f(plus), f(minus)
		for i := 0; i < n; i++ {
			g.Set(i, d, (fp[i]-fm[i])/(2*h))
		}
	}
	return g
}

func TestIshigami(t *testing.T) {
	x := mat.NewDense(1, 3, []float64{math.Pi / 2, math.Pi / 2, 1})
	y := Ishigami(x, 7, 0.1)
	require.Len(t, y, 1)
	assert.InDelta(t, 1+7+0.1, y[0], 1e-12)

	rng := NewRNG(4711)
	pts := rng.UniformMatrix(20, 3, -math.Pi, math.Pi)
	want := centralDiff(func(m mat.Matrix) []float64 { return Ishigami(m, 7, 0.1) }, pts)
	assert.True(t, mat.EqualApprox(want, IshigamiGradient(pts, 7, 0.1), 1e-5))
}

func TestPeaks(t *testing.T) {
	rng := NewRNG(4711)
	pts := rng.UniformMatrix(20, 2, -3, 3)
	want := centralDiff(Peaks, pts)
	assert.True(t, mat.EqualApprox(want, PeaksGradient(pts), 1e-5))
}
