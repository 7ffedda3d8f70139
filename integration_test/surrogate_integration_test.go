package integration_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gpcgo"
	"github.com/hupe1980/gpcgo/multiindex"
	"github.com/hupe1980/gpcgo/sampling"
	"github.com/hupe1980/gpcgo/testutil"
)

const (
	ishigamiA = 7.0
	ishigamiB = 0.1
)

// TestIshigamiSurrogate fits the Ishigami function by least squares on an
// LHS grid and validates predictions and gradients on a random grid.
func TestIshigamiSurrogate(t *testing.T) {
	ctx := context.Background()

	e, err := gpcgo.NewBuilder().
		Legendre(-math.Pi, math.Pi).
		Legendre(-math.Pi, math.Pi).
		Legendre(-math.Pi, math.Pi).
		Gradient().
		Build()
	require.NoError(t, err)

	table, err := multiindex.TotalOrder(3, 10)
	require.NoError(t, err)
	fams := e.Families()

	train, err := sampling.LHS(fams, 4*table.Len(), 11)
	require.NoError(t, err)
	n, _ := train.Dims()

	design := gpcgo.NewArray3(n, table.Len(), e.Slots(3))
	require.NoError(t, e.BuildDesignMatrix(ctx, train, table, design))

	y := mat.NewDense(n, 1, testutil.Ishigami(train, ishigamiA, ishigamiB))
	var coeffs mat.Dense
	require.NoError(t, coeffs.Solve(design.Plane(0), y))

	s, err := gpcgo.NewSurrogate(e, table, &coeffs)
	require.NoError(t, err)

	test, err := sampling.Random(fams, 1000, 12)
	require.NoError(t, err)
	ref := mat.NewDense(1000, 1, testutil.Ishigami(test, ishigamiA, ishigamiB))

	nrmsd, err := s.Validate(ctx, test, ref)
	require.NoError(t, err)
	assert.Less(t, nrmsd[0], 2e-2)

	_, grads, err := s.Predict(ctx, test)
	require.NoError(t, err)
	want := testutil.IshigamiGradient(test, ishigamiA, ishigamiB)

	var sum float64
	for i := 0; i < 1000; i++ {
		for d := 0; d < 3; d++ {
			sum += math.Abs(grads.At(i, 0, d) - want.At(i, d))
		}
	}
	assert.Less(t, sum/3000, 1.0)
}

// TestWorkerCountDoesNotChangeResults runs the same evaluation serially and in
// parallel on a mixed-family basis.
func TestWorkerCountDoesNotChangeResults(t *testing.T) {
	ctx := context.Background()
	base := gpcgo.NewBuilder().
		Legendre(0, 1).
		Hermite(0, 1).
		Laguerre(0.5, 0, 2).
		Jacobi(1, 2, -1, 1).
		Gradient().
		ParallelThreshold(1)

	serial, err := base.Workers(1).Build()
	require.NoError(t, err)
	parallel, err := base.Workers(8).Build()
	require.NoError(t, err)

	table, err := multiindex.Sparse([]int{4, 4, 3, 3}, 5, 2)
	require.NoError(t, err)
	samples, err := sampling.Random(serial.Families(), 777, 5)
	require.NoError(t, err)
	coeffs := testutil.NewRNG(5).GaussianMatrix(table.Len(), 3)

	run := func(e *gpcgo.Engine) (*mat.Dense, *gpcgo.Array3, *gpcgo.Array3) {
		design := gpcgo.NewArray3(777, table.Len(), e.Slots(4))
		require.NoError(t, e.BuildDesignMatrix(ctx, samples, table, design))
		values := mat.NewDense(777, 3, nil)
		grads := gpcgo.NewArray3(777, 3, 4)
		require.NoError(t, e.Evaluate(ctx, samples, table, coeffs, values, grads))
		return values, grads, design
	}

	v1, g1, d1 := run(serial)
	v2, g2, d2 := run(parallel)
	assert.True(t, mat.Equal(v1, v2))
	assert.Equal(t, g1.RawData(), g2.RawData())
	assert.Equal(t, d1.RawData(), d2.RawData())
}
