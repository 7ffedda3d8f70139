package basis

import (
	"math"
)

// DefaultMaxDegree is the recurrence table size used when WithMaxDegree is
// not given.
const DefaultMaxDegree = 128

// Family is a one-dimensional orthonormal polynomial family.
//
// Implementations must be safe for concurrent use; kernels call Fill from
// many goroutines at once.
type Family interface {
	// Kind reports the family selector.
	Kind() Kind

	// Spec returns the configuration the family was built from.
	Spec() Spec

	// MaxDegree is the highest degree the family can evaluate.
	MaxDegree() int

	// Support returns the sample domain. Unbounded ends are ±Inf.
	Support() (lo, hi float64)

	// Value evaluates the polynomial of the given degree at x.
	Value(degree int, x float64) (float64, error)

	// Derivative evaluates the first derivative d/dx of the polynomial of the
	// given degree at x.
	Derivative(degree int, x float64) (float64, error)

	// Fill evaluates degrees 0..len(values)-1 at x into values and, when
	// derivs is non-nil, their derivatives into derivs. derivs must be nil or
	// have the same length as values.
	Fill(x float64, values, derivs []float64) error
}

// Spec is the declarative configuration of a family.
//
// Only the parameters relevant for Kind are read:
//
//	legendre: Lo, Hi
//	hermite:  Mean, Std
//	laguerre: Alpha, Loc, Scale
//	jacobi:   Alpha, Beta, Lo, Hi
type Spec struct {
	Kind  Kind    `yaml:"kind" json:"kind"`
	Lo    float64 `yaml:"lo,omitempty" json:"lo,omitempty"`
	Hi    float64 `yaml:"hi,omitempty" json:"hi,omitempty"`
	Mean  float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	Std   float64 `yaml:"std,omitempty" json:"std,omitempty"`
	Alpha float64 `yaml:"alpha,omitempty" json:"alpha,omitempty"`
	Beta  float64 `yaml:"beta,omitempty" json:"beta,omitempty"`
	Loc   float64 `yaml:"loc,omitempty" json:"loc,omitempty"`
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

type options struct {
	maxDegree int
}

// Option configures family construction.
type Option func(*options)

// WithMaxDegree sets the size of the precomputed recurrence table.
// Values below 1 are ignored.
func WithMaxDegree(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxDegree = n
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{maxDegree: DefaultMaxDegree}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// New builds the family described by spec.
func New(spec Spec, optFns ...Option) (*Orthonormal, error) {
	switch spec.Kind {
	case Legendre:
		return NewLegendre(spec.Lo, spec.Hi, optFns...)
	case Hermite:
		return NewHermite(spec.Mean, spec.Std, optFns...)
	case Laguerre:
		return NewLaguerre(spec.Alpha, spec.Loc, spec.Scale, optFns...)
	case Jacobi:
		return NewJacobi(spec.Alpha, spec.Beta, spec.Lo, spec.Hi, optFns...)
	default:
		return nil, invalidf("unknown family %d", uint8(spec.Kind))
	}
}

// NewLegendre returns Legendre polynomials orthonormal under the uniform
// measure on [lo, hi].
func NewLegendre(lo, hi float64, optFns ...Option) (*Orthonormal, error) {
	if err := checkInterval(Legendre, lo, hi); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	spec := Spec{Kind: Legendre, Lo: lo, Hi: hi}
	return newOrthonormal(spec, (lo+hi)/2, 2/(hi-lo), lo, hi, legendreCoefficients(o.maxDegree)), nil
}

// NewHermite returns probabilists' Hermite polynomials orthonormal under
// N(mean, std²).
func NewHermite(mean, std float64, optFns ...Option) (*Orthonormal, error) {
	if !isFinite(mean) {
		return nil, invalidf("hermite: mean %v is not finite", mean)
	}
	if !(std > 0) || math.IsInf(std, 0) {
		return nil, invalidf("hermite: std %v must be positive and finite", std)
	}
	o := applyOptions(optFns)
	spec := Spec{Kind: Hermite, Mean: mean, Std: std}
	return newOrthonormal(spec, mean, 1/std, math.Inf(-1), math.Inf(1), hermiteCoefficients(o.maxDegree)), nil
}

// NewLaguerre returns generalized Laguerre polynomials orthonormal under the
// measure of x = loc + scale·t, t ~ Gamma(alpha+1, 1).
func NewLaguerre(alpha, loc, scale float64, optFns ...Option) (*Orthonormal, error) {
	if !(alpha > -1) || math.IsInf(alpha, 0) {
		return nil, invalidf("laguerre: alpha %v must be finite and > -1", alpha)
	}
	if !isFinite(loc) {
		return nil, invalidf("laguerre: loc %v is not finite", loc)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, invalidf("laguerre: scale %v must be positive and finite", scale)
	}
	o := applyOptions(optFns)
	spec := Spec{Kind: Laguerre, Alpha: alpha, Loc: loc, Scale: scale}
	return newOrthonormal(spec, loc, 1/scale, loc, math.Inf(1), laguerreCoefficients(alpha, o.maxDegree)), nil
}

// NewJacobi returns Jacobi polynomials orthonormal under the weight
// (1-t)^alpha (1+t)^beta, with t the affine image of [lo, hi] on [-1, 1].
//
// The corresponding sample distribution is Beta(beta+1, alpha+1) on [lo, hi].
func NewJacobi(alpha, beta, lo, hi float64, optFns ...Option) (*Orthonormal, error) {
	if !(alpha > -1) || math.IsInf(alpha, 0) || !(beta > -1) || math.IsInf(beta, 0) {
		return nil, invalidf("jacobi: alpha %v and beta %v must be finite and > -1", alpha, beta)
	}
	if err := checkInterval(Jacobi, lo, hi); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	spec := Spec{Kind: Jacobi, Alpha: alpha, Beta: beta, Lo: lo, Hi: hi}
	return newOrthonormal(spec, (lo+hi)/2, 2/(hi-lo), lo, hi, jacobiCoefficients(alpha, beta, o.maxDegree)), nil
}

func checkInterval(k Kind, lo, hi float64) error {
	if !isFinite(lo) || !isFinite(hi) {
		return invalidf("%s: interval [%v, %v] is not finite", k, lo, hi)
	}
	if !(lo < hi) {
		return invalidf("%s: interval [%v, %v] is empty", k, lo, hi)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
