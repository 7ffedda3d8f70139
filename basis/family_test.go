package basis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/num/dual"
)

func mustFamily(t *testing.T, spec Spec, optFns ...Option) *Orthonormal {
	t.Helper()
	f, err := New(spec, optFns...)
	require.NoError(t, err)
	return f
}

func allFamilies(t *testing.T) map[string]*Orthonormal {
	t.Helper()
	return map[string]*Orthonormal{
		"legendre[0,1]":        mustFamily(t, Spec{Kind: Legendre, Lo: 0, Hi: 1}),
		"legendre[-2,5]":       mustFamily(t, Spec{Kind: Legendre, Lo: -2, Hi: 5}),
		"hermite(1,2)":         mustFamily(t, Spec{Kind: Hermite, Mean: 1, Std: 2}),
		"laguerre(0.5)":        mustFamily(t, Spec{Kind: Laguerre, Alpha: 0.5, Scale: 1}),
		"jacobi(1,2)[-1,1]":    mustFamily(t, Spec{Kind: Jacobi, Alpha: 1, Beta: 2, Lo: -1, Hi: 1}),
		"jacobi(-.5,-.5)[0,3]": mustFamily(t, Spec{Kind: Jacobi, Alpha: -0.5, Beta: -0.5, Lo: 0, Hi: 3}),
	}
}

func TestDegreeZeroIsConstant(t *testing.T) {
	xs := []float64{-1e3, -3.5, -1, 0, 0.25, 0.5, 1, 2.75, 42}
	for name, f := range allFamilies(t) {
		t.Run(name, func(t *testing.T) {
			for _, x := range xs {
				v, err := f.Value(0, x)
				require.NoError(t, err)
				assert.Equal(t, 1.0, v, "x=%v", x)

				d, err := f.Derivative(0, x)
				require.NoError(t, err)
				assert.Equal(t, 0.0, d, "x=%v", x)
			}
		})
	}
}

func TestLegendreUnitInterval(t *testing.T) {
	f, err := NewLegendre(0, 1)
	require.NoError(t, err)

	sqrt3, sqrt5 := math.Sqrt(3), math.Sqrt(5)
	tests := []struct {
		x      float64
		values []float64
		derivs []float64
	}{
		{0, []float64{1, -sqrt3, sqrt5}, []float64{0, 2 * sqrt3, -6 * sqrt5}},
		{0.5, []float64{1, 0, -sqrt5 / 2}, []float64{0, 2 * sqrt3, 0}},
		{1, []float64{1, sqrt3, sqrt5}, []float64{0, 2 * sqrt3, 6 * sqrt5}},
	}

	for _, tc := range tests {
		values := make([]float64, 3)
		derivs := make([]float64, 3)
		require.NoError(t, f.Fill(tc.x, values, derivs))
		assert.InDeltaSlice(t, tc.values, values, 1e-12, "x=%v", tc.x)
		assert.InDeltaSlice(t, tc.derivs, derivs, 1e-12, "x=%v", tc.x)
	}

	// Degree 1 vanishes exactly at the midpoint of the domain.
	v, err := f.Value(1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestFillMatchesValueAndDerivative(t *testing.T) {
	xs := []float64{-0.7, 0.1, 0.5, 0.93, 1.7}
	const n = 12
	for name, f := range allFamilies(t) {
		t.Run(name, func(t *testing.T) {
			values := make([]float64, n+1)
			derivs := make([]float64, n+1)
			for _, x := range xs {
				require.NoError(t, f.Fill(x, values, derivs))
				for k := 0; k <= n; k++ {
					v, err := f.Value(k, x)
					require.NoError(t, err)
					d, err := f.Derivative(k, x)
					require.NoError(t, err)
					assert.InDelta(t, v, values[k], 1e-9*(1+math.Abs(v)))
					assert.InDelta(t, d, derivs[k], 1e-9*(1+math.Abs(d)))
				}
			}
		})
	}
}

func TestFillWithoutDerivatives(t *testing.T) {
	f, err := NewHermite(0, 1)
	require.NoError(t, err)

	withDerivs := make([]float64, 6)
	derivs := make([]float64, 6)
	require.NoError(t, f.Fill(0.3, withDerivs, derivs))

	values := make([]float64, 6)
	require.NoError(t, f.Fill(0.3, values, nil))
	assert.Equal(t, withDerivs, values)

	assert.Error(t, f.Fill(0.3, values, make([]float64, 2)))
	assert.NoError(t, f.Fill(0.3, nil, nil))
}

func TestHermiteClosedForm(t *testing.T) {
	f, err := NewHermite(0, 1)
	require.NoError(t, err)

	for _, x := range []float64{-2, -0.5, 0, 0.3, 1.9} {
		he3 := (x*x*x - 3*x) / math.Sqrt(6)
		he4 := (x*x*x*x - 6*x*x + 3) / math.Sqrt(24)

		v3, _ := f.Value(3, x)
		v4, _ := f.Value(4, x)
		assert.InDelta(t, he3, v3, 1e-12)
		assert.InDelta(t, he4, v4, 1e-12)

		d3, _ := f.Derivative(3, x)
		assert.InDelta(t, (3*x*x-3)/math.Sqrt(6), d3, 1e-12)
	}

	// Shifted and scaled measure.
	g, err := NewHermite(2, 0.5)
	require.NoError(t, err)
	v, _ := g.Value(1, 3)
	assert.InDelta(t, 2.0, v, 1e-15)
	d, _ := g.Derivative(1, 3)
	assert.InDelta(t, 2.0, d, 1e-15)
}

func TestLaguerreClosedForm(t *testing.T) {
	f, err := NewLaguerre(0, 0, 1)
	require.NoError(t, err)

	for _, x := range []float64{0, 0.5, 1, 3.2} {
		// Positive leading coefficient: q_n = (-1)^n L_n.
		l1 := -(1 - x)
		l2 := (x*x - 4*x + 2) / 2
		v1, _ := f.Value(1, x)
		v2, _ := f.Value(2, x)
		assert.InDelta(t, l1, v1, 1e-12)
		assert.InDelta(t, l2, v2, 1e-12)
	}
}

func TestJacobiReducesToLegendre(t *testing.T) {
	leg, err := NewLegendre(-3, 2)
	require.NoError(t, err)
	jac, err := NewJacobi(0, 0, -3, 2)
	require.NoError(t, err)

	a := make([]float64, 15)
	b := make([]float64, 15)
	da := make([]float64, 15)
	db := make([]float64, 15)
	for _, x := range []float64{-3, -1.2, 0, 1.9} {
		require.NoError(t, leg.Fill(x, a, da))
		require.NoError(t, jac.Fill(x, b, db))
		assert.InDeltaSlice(t, a, b, 1e-9)
		assert.InDeltaSlice(t, da, db, 1e-8)
	}
}

func TestOrthonormality(t *testing.T) {
	const n = 6

	gram := func(f *Orthonormal, weight func(x float64) float64, lo, hi float64) [][]float64 {
		g := make([][]float64, n+1)
		values := make([]float64, n+1)
		for i := 0; i <= n; i++ {
			g[i] = make([]float64, n+1)
			for j := 0; j <= n; j++ {
				g[i][j] = quad.Fixed(func(x float64) float64 {
					_ = f.Fill(x, values, nil)
					return values[i] * values[j] * weight(x)
				}, lo, hi, 32, nil, 0)
			}
		}
		return g
	}

	check := func(t *testing.T, g [][]float64) {
		for i := range g {
			for j := range g[i] {
				want := 0.0
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, g[i][j], 1e-10, "<p%d, p%d>", i, j)
			}
		}
	}

	t.Run("legendre", func(t *testing.T) {
		f, err := NewLegendre(2, 6)
		require.NoError(t, err)
		check(t, gram(f, func(float64) float64 { return 0.25 }, 2, 6))
	})

	t.Run("jacobi", func(t *testing.T) {
		alpha, beta := 1.0, 2.0
		f, err := NewJacobi(alpha, beta, -1, 1)
		require.NoError(t, err)
		norm := math.Pow(2, alpha+beta+1) * math.Gamma(alpha+1) * math.Gamma(beta+1) / math.Gamma(alpha+beta+2)
		weight := func(x float64) float64 {
			return math.Pow(1-x, alpha) * math.Pow(1+x, beta) / norm
		}
		check(t, gram(f, weight, -1, 1))
	})
}

func TestDerivativeMatchesDualNumbers(t *testing.T) {
	f, err := NewLegendre(0, 1)
	require.NoError(t, err)

	for _, x := range []float64{0, 0.2, 0.5, 0.77, 1} {
		// t = 2x - 1 with dt/dx = 2.
		tt := dual.Number{Real: 2*x - 1, Emag: 2}
		t3 := dual.Mul(tt, dual.Mul(tt, tt))
		want := dual.Scale(math.Sqrt(7)/2, dual.Sub(dual.Scale(5, t3), dual.Scale(3, tt)))

		v, err := f.Value(3, x)
		require.NoError(t, err)
		d, err := f.Derivative(3, x)
		require.NoError(t, err)

		assert.InDelta(t, want.Real, v, 1e-12)
		assert.InDelta(t, want.Emag, d, 1e-11)
	}
}

func TestUnsupportedDegree(t *testing.T) {
	f, err := NewLegendre(-1, 1, WithMaxDegree(4))
	require.NoError(t, err)
	assert.Equal(t, 4, f.MaxDegree())

	_, err = f.Value(4, 0.1)
	require.NoError(t, err)

	_, err = f.Value(5, 0.1)
	require.ErrorIs(t, err, ErrUnsupportedDegree)

	var de *DegreeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 5, de.Degree)
	assert.Equal(t, 4, de.MaxDegree)

	_, err = f.Derivative(-1, 0.1)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)

	err = f.Fill(0.1, make([]float64, 6), nil)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)
}

func TestNonFinitePropagates(t *testing.T) {
	f, err := NewLegendre(0, 1)
	require.NoError(t, err)

	values := make([]float64, 4)
	derivs := make([]float64, 4)
	require.NoError(t, f.Fill(math.NaN(), values, derivs))
	for k := range values {
		assert.True(t, math.IsNaN(values[k]), "degree %d", k)
	}

	require.NoError(t, f.Fill(math.Inf(1), values, nil))
	assert.True(t, math.IsNaN(values[0]))
	assert.True(t, math.IsInf(values[1], 1))

	// Degree 0 is NaN at both infinities, through Fill and Value alike.
	for _, x := range []float64{math.Inf(1), math.Inf(-1)} {
		require.NoError(t, f.Fill(x, values, derivs))
		assert.True(t, math.IsNaN(values[0]), "x=%v", x)
		assert.True(t, math.IsNaN(derivs[0]), "x=%v", x)

		v, err := f.Value(0, x)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v), "x=%v", x)
		d, err := f.Derivative(0, x)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(d), "x=%v", x)
	}
	values = values[:2]
	require.NoError(t, f.Fill(math.Inf(-1), values, nil))
	assert.True(t, math.IsInf(values[1], -1))
}

func TestInvalidFamilies(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown kind", Spec{Kind: Kind(99)}},
		{"zero kind", Spec{}},
		{"legendre empty interval", Spec{Kind: Legendre, Lo: 1, Hi: 1}},
		{"legendre reversed", Spec{Kind: Legendre, Lo: 2, Hi: 1}},
		{"legendre infinite", Spec{Kind: Legendre, Lo: 0, Hi: math.Inf(1)}},
		{"hermite zero std", Spec{Kind: Hermite, Std: 0}},
		{"hermite nan mean", Spec{Kind: Hermite, Mean: math.NaN(), Std: 1}},
		{"laguerre alpha", Spec{Kind: Laguerre, Alpha: -1, Scale: 1}},
		{"laguerre scale", Spec{Kind: Laguerre, Scale: -2}},
		{"jacobi alpha", Spec{Kind: Jacobi, Alpha: -1.5, Beta: 0, Lo: 0, Hi: 1}},
		{"jacobi interval", Spec{Kind: Jacobi, Lo: 0, Hi: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.spec)
			assert.ErrorIs(t, err, ErrInvalidFamily)
		})
	}
}

func TestSupport(t *testing.T) {
	f := mustFamily(t, Spec{Kind: Hermite, Std: 1})
	lo, hi := f.Support()
	assert.True(t, math.IsInf(lo, -1))
	assert.True(t, math.IsInf(hi, 1))

	g := mustFamily(t, Spec{Kind: Laguerre, Alpha: 1, Loc: 2, Scale: 3})
	lo, hi = g.Support()
	assert.Equal(t, 2.0, lo)
	assert.True(t, math.IsInf(hi, 1))
	assert.Equal(t, Spec{Kind: Laguerre, Alpha: 1, Loc: 2, Scale: 3}, g.Spec())
}

func BenchmarkFill(b *testing.B) {
	f, _ := NewLegendre(0, 1)
	values := make([]float64, 16)
	derivs := make([]float64, 16)
	b.ResetTimer()
	for b.Loop() {
		_ = f.Fill(0.37, values, derivs)
	}
}
