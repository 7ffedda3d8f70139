// Package basis provides one-dimensional orthonormal polynomial families for
// generalized polynomial chaos expansions.
//
// Every family is built from the three-term recurrence of its monic
// polynomials over a probability measure, so the normalized polynomials are
// orthonormal and the degree 0 member is exactly 1 everywhere.
//
// # Supported Families
//
//   - Legendre: uniform measure on [lo, hi]
//   - Hermite: normal measure N(mean, std²) (probabilists' polynomials)
//   - Laguerre: gamma measure, x = loc + scale·t with t ~ Gamma(alpha+1, 1)
//   - Jacobi: beta measure on [lo, hi] with weight (1-t)^alpha (1+t)^beta
//
// # Usage
//
//	f, _ := basis.NewLegendre(0, 1)
//	v, _ := f.Value(2, 0.5)      // -sqrt(5)/2
//	d, _ := f.Derivative(1, 0.5) // 2*sqrt(3)
//
// Kernels evaluate all degrees of a coordinate in one sweep with Fill.
package basis
