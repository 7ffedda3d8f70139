package sampling

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gpcgo/basis"
)

// newSource returns the generator behind every grid. The second PCG word is
// derived from the seed so that nearby seeds give unrelated streams.
func newSource(seed uint64) *rand.PCG {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func marginals(families []basis.Family, n int, src rand.Source) ([]*Marginal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidSize, n)
	}
	if len(families) == 0 {
		return nil, fmt.Errorf("%w: no dimensions", ErrInvalidSize)
	}
	ms := make([]*Marginal, len(families))
	for d, f := range families {
		if f == nil {
			return nil, fmt.Errorf("%w: dimension %d is nil", ErrUnknownFamily, d)
		}
		m, err := NewMarginal(f, src)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", d, err)
		}
		ms[d] = m
	}
	return ms, nil
}

// Random returns n independent samples (n × len(families)) drawn from the
// families' measures.
func Random(families []basis.Family, n int, seed uint64) (*mat.Dense, error) {
	ms, err := marginals(families, n, newSource(seed))
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(n, len(ms), nil)
	for i := 0; i < n; i++ {
		for d, m := range ms {
			out.Set(i, d, m.Rand())
		}
	}
	return out, nil
}

// LHS returns an n-point Latin hypercube design (n × len(families)) mapped
// through the inverse CDF of every family's measure.
func LHS(families []basis.Family, n int, seed uint64) (*mat.Dense, error) {
	ms, err := marginals(families, n, newSource(seed))
	if err != nil {
		return nil, err
	}
	unit := unitLHS(len(ms), n, rand.New(newSource(seed+1)))
	for d, m := range ms {
		for i := 0; i < n; i++ {
			unit.Set(i, d, m.Quantile(unit.At(i, d)))
		}
	}
	return unit, nil
}

// UnitLHS returns an n-point Latin hypercube design on [0, 1)^dims.
func UnitLHS(dims, n int, seed uint64) (*mat.Dense, error) {
	if dims <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: %d samples in %d dimensions", ErrInvalidSize, n, dims)
	}
	return unitLHS(dims, n, rand.New(newSource(seed))), nil
}

func unitLHS(dims, n int, rng *rand.Rand) *mat.Dense {
	out := mat.NewDense(n, dims, nil)
	inv := 1 / float64(n)
	for d := 0; d < dims; d++ {
		perm := rng.Perm(n)
		for i, stratum := range perm {
			out.Set(i, d, (float64(stratum)+rng.Float64())*inv)
		}
	}
	return out
}
