// Package sampling draws sample grids from the probability measures of
// polynomial chaos families.
//
// Random draws independent samples. LHS builds a Latin hypercube: every
// dimension is split into n equally probable strata and each stratum holds
// exactly one sample. Both map unit draws through the inverse CDF of the
// family's measure:
//
//	legendre -> Uniform(lo, hi)
//	hermite  -> Normal(mean, std)
//	laguerre -> loc + scale·Gamma(alpha+1, 1)
//	jacobi   -> lo + (hi-lo)·Beta(beta+1, alpha+1)
//
// Grids are reproducible for a given seed.
package sampling
