package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hupe1980/gpcgo/basis"
)

var (
	// ErrInvalidSize is returned for a non-positive sample count or an empty
	// dimension list.
	ErrInvalidSize = errors.New("sampling: invalid size")

	// ErrUnknownFamily is returned when a family has no associated measure.
	ErrUnknownFamily = errors.New("sampling: unknown family")
)

type univariate interface {
	Rand() float64
	CDF(x float64) float64
}

type quantiler interface {
	Quantile(p float64) float64
}

// Marginal is the one-dimensional probability measure of a family, as the
// affine image loc + scale·X of a standard distribution X.
type Marginal struct {
	kind       basis.Kind
	dist       univariate
	loc, scale float64
	lo, hi     float64 // support of X
}

// NewMarginal returns the measure f is orthonormal under. Random draws come
// from src.
func NewMarginal(f basis.Family, src rand.Source) (*Marginal, error) {
	s := f.Spec()
	switch s.Kind {
	case basis.Legendre:
		return &Marginal{
			kind: s.Kind, dist: distuv.Uniform{Min: 0, Max: 1, Src: src},
			loc: s.Lo, scale: s.Hi - s.Lo, lo: 0, hi: 1,
		}, nil
	case basis.Hermite:
		return &Marginal{
			kind: s.Kind, dist: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
			loc: s.Mean, scale: s.Std, lo: math.Inf(-1), hi: math.Inf(1),
		}, nil
	case basis.Laguerre:
		return &Marginal{
			kind: s.Kind, dist: distuv.Gamma{Alpha: s.Alpha + 1, Beta: 1, Src: src},
			loc: s.Loc, scale: s.Scale, lo: 0, hi: math.Inf(1),
		}, nil
	case basis.Jacobi:
		return &Marginal{
			kind: s.Kind, dist: distuv.Beta{Alpha: s.Beta + 1, Beta: s.Alpha + 1, Src: src},
			loc: s.Lo, scale: s.Hi - s.Lo, lo: 0, hi: 1,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, s.Kind)
	}
}

// Kind returns the family the measure belongs to.
func (m *Marginal) Kind() basis.Kind { return m.kind }

// Rand draws one sample.
func (m *Marginal) Rand() float64 {
	return m.loc + m.scale*m.dist.Rand()
}

// CDF evaluates the cumulative distribution function at x.
func (m *Marginal) CDF(x float64) float64 {
	return m.dist.CDF((x - m.loc) / m.scale)
}

// Quantile evaluates the inverse CDF at p, clamped to the open interval
// (0, 1) so unbounded measures stay finite.
func (m *Marginal) Quantile(p float64) float64 {
	p = min(max(p, 0x1p-53), 1-0x1p-53)
	if q, ok := m.dist.(quantiler); ok {
		return m.loc + m.scale*q.Quantile(p)
	}
	return m.loc + m.scale*m.bisect(p)
}

// bisect inverts the standard CDF where no closed form is available.
func (m *Marginal) bisect(p float64) float64 {
	lo, hi := m.lo, m.hi
	if math.IsInf(lo, -1) {
		lo = -1
		for m.dist.CDF(lo) > p && lo > -math.MaxFloat64/2 {
			lo *= 2
		}
	}
	if math.IsInf(hi, 1) {
		hi = 1
		for m.dist.CDF(hi) < p && hi < math.MaxFloat64/2 {
			hi *= 2
		}
	}

	for i := 0; i < 200; i++ {
		mid := lo + (hi-lo)/2
		if mid <= lo || mid >= hi {
			break
		}
		if m.dist.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2
}
