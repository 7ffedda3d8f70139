package basis

import (
	"fmt"
	"math"
)

// coefficients holds the monic three-term recurrence
//
//	p_{n+1}(t) = (t - a_n) p_n(t) - b_n p_{n-1}(t)
//
// of a family, stored as a_n and sqrt(b_n) so the orthonormal recurrence
//
//	sqrt(b_{n+1}) q_{n+1} = (t - a_n) q_n - sqrt(b_n) q_{n-1}
//
// needs no square roots at evaluation time.
type coefficients struct {
	a      []float64 // a[n], n = 0..maxDegree-1
	sqrtB  []float64 // sqrtB[n], n = 1..maxDegree (index 0 unused)
	invSqB []float64 // 1/sqrtB[n]
}

func newCoefficients(maxDegree int, a func(n int) float64, b func(n int) float64) coefficients {
	c := coefficients{
		a:      make([]float64, maxDegree),
		sqrtB:  make([]float64, maxDegree+1),
		invSqB: make([]float64, maxDegree+1),
	}
	for n := 0; n < maxDegree; n++ {
		c.a[n] = a(n)
	}
	for n := 1; n <= maxDegree; n++ {
		s := math.Sqrt(b(n))
		c.sqrtB[n] = s
		c.invSqB[n] = 1 / s
	}
	return c
}

func (c *coefficients) maxDegree() int { return len(c.a) }

func legendreCoefficients(maxDegree int) coefficients {
	return newCoefficients(maxDegree,
		func(int) float64 { return 0 },
		func(n int) float64 {
			nf := float64(n)
			return nf * nf / (4*nf*nf - 1)
		},
	)
}

func hermiteCoefficients(maxDegree int) coefficients {
	return newCoefficients(maxDegree,
		func(int) float64 { return 0 },
		func(n int) float64 { return float64(n) },
	)
}

func laguerreCoefficients(alpha float64, maxDegree int) coefficients {
	return newCoefficients(maxDegree,
		func(n int) float64 { return 2*float64(n) + alpha + 1 },
		func(n int) float64 {
			nf := float64(n)
			return nf * (nf + alpha)
		},
	)
}

func jacobiCoefficients(alpha, beta float64, maxDegree int) coefficients {
	ab := alpha + beta
	return newCoefficients(maxDegree,
		func(n int) float64 {
			if n == 0 {
				return (beta - alpha) / (ab + 2)
			}
			h := 2*float64(n) + ab
			return (beta*beta - alpha*alpha) / (h * (h + 2))
		},
		func(n int) float64 {
			if n == 1 {
				// General form is 0/0 when alpha+beta = -1.
				return 4 * (1 + alpha) * (1 + beta) / ((2 + ab) * (2 + ab) * (3 + ab))
			}
			nf := float64(n)
			h := 2*nf + ab
			return 4 * nf * (nf + alpha) * (nf + beta) * (nf + ab) / (h * h * (h + 1) * (h - 1))
		},
	)
}

// Orthonormal is a Family evaluated through precomputed recurrence
// coefficients. It is immutable and safe for concurrent use.
type Orthonormal struct {
	spec   Spec
	shift  float64 // t = (x - shift) * scale
	scale  float64
	lo, hi float64
	coeffs coefficients
}

func newOrthonormal(spec Spec, shift, scale, lo, hi float64, c coefficients) *Orthonormal {
	return &Orthonormal{
		spec:   spec,
		shift:  shift,
		scale:  scale,
		lo:     lo,
		hi:     hi,
		coeffs: c,
	}
}

// Kind implements Family.
func (f *Orthonormal) Kind() Kind { return f.spec.Kind }

// Spec implements Family.
func (f *Orthonormal) Spec() Spec { return f.spec }

// MaxDegree implements Family.
func (f *Orthonormal) MaxDegree() int { return f.coeffs.maxDegree() }

// Support implements Family.
func (f *Orthonormal) Support() (lo, hi float64) { return f.lo, f.hi }

// Canonical maps a sample coordinate to the canonical variable of the
// recurrence (e.g. [-1, 1] for Legendre).
func (f *Orthonormal) Canonical(x float64) float64 {
	return (x - f.shift) * f.scale
}

// Value implements Family.
func (f *Orthonormal) Value(degree int, x float64) (float64, error) {
	if err := f.checkDegree(degree); err != nil {
		return 0, err
	}
	v, _ := f.eval(degree, f.Canonical(x))
	return v, nil
}

// Derivative implements Family.
func (f *Orthonormal) Derivative(degree int, x float64) (float64, error) {
	if err := f.checkDegree(degree); err != nil {
		return 0, err
	}
	_, d := f.eval(degree, f.Canonical(x))
	return d * f.scale, nil
}

// Fill implements Family.
func (f *Orthonormal) Fill(x float64, values, derivs []float64) error {
	if len(values) == 0 {
		return nil
	}
	n := len(values) - 1
	if err := f.checkDegree(n); err != nil {
		return err
	}
	if derivs != nil && len(derivs) != len(values) {
		return fmt.Errorf("basis: derivs length %d, want %d", len(derivs), len(values))
	}

	c := &f.coeffs
	t := f.Canonical(x)

	// 0*t keeps NaN/Inf coordinates visible in the constant member: at
	// x = ±Inf degree 0 is NaN, not 1, so every basis row of that sample
	// reports the bad coordinate.
	values[0] = 1 + 0*t
	if n >= 1 {
		values[1] = (t - c.a[0]) * c.invSqB[1]
	}
	for k := 1; k < n; k++ {
		values[k+1] = ((t-c.a[k])*values[k] - c.sqrtB[k]*values[k-1]) * c.invSqB[k+1]
	}

	if derivs == nil {
		return nil
	}

	derivs[0] = 0 * t
	if n >= 1 {
		derivs[1] = c.invSqB[1]
	}
	for k := 1; k < n; k++ {
		derivs[k+1] = (values[k] + (t-c.a[k])*derivs[k] - c.sqrtB[k]*derivs[k-1]) * c.invSqB[k+1]
	}
	for k := 1; k <= n; k++ {
		derivs[k] *= f.scale
	}

	return nil
}

// eval runs the recurrence up to degree at canonical t and returns the value
// and the derivative with respect to t.
func (f *Orthonormal) eval(degree int, t float64) (float64, float64) {
	c := &f.coeffs

	p0, d0 := 1+0*t, 0*t // NaN at t = ±Inf, as in Fill
	if degree == 0 {
		return p0, d0
	}
	p1, d1 := (t-c.a[0])*c.invSqB[1], c.invSqB[1]
	for k := 1; k < degree; k++ {
		p2 := ((t-c.a[k])*p1 - c.sqrtB[k]*p0) * c.invSqB[k+1]
		d2 := (p1 + (t-c.a[k])*d1 - c.sqrtB[k]*d0) * c.invSqB[k+1]
		p0, p1 = p1, p2
		d0, d1 = d1, d2
	}
	return p1, d1
}

func (f *Orthonormal) checkDegree(degree int) error {
	if degree < 0 || degree > f.coeffs.maxDegree() {
		return &DegreeError{Kind: f.spec.Kind, Degree: degree, MaxDegree: f.coeffs.maxDegree()}
	}
	return nil
}

var _ Family = (*Orthonormal)(nil)
