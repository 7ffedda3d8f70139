// Package gpcgo evaluates Generalized Polynomial Chaos (GPC) surrogates over
// batches of sample points.
//
// Two kernels dominate any GPC pipeline and both are provided here:
//
//   - BuildDesignMatrix evaluates a tensor-product orthonormal polynomial
//     basis, optionally with its partial derivatives, at many samples.
//   - Evaluate combines that basis with fitted expansion coefficients into
//     surrogate values and gradients without materialising the basis.
//
// # Quick Start
//
//	leg, _ := basis.NewLegendre(0, 1)
//	table, _ := multiindex.TotalOrder(3, 4)
//	e, _ := gpcgo.New(gpcgo.WithFamily(leg), gpcgo.WithGradient(true))
//
//	values := mat.NewDense(n, outputs, nil)
//	grads := gpcgo.NewArray3(n, outputs, 3)
//	err := e.Evaluate(ctx, samples, table, coeffs, values, grads)
//
// Or with the fluent builder:
//
//	e, _ := gpcgo.NewBuilder().Legendre(0, 1).Hermite(0, 2).Gradient().Build()
//
// # Families
//
// Families are orthonormal under their probability measure, so degree 0 is
// exactly 1 everywhere. One family may be shared by all dimensions
// (WithFamily) or one given per dimension (WithFamilies). See package basis.
//
// # Gradients
//
// Gradient output is an explicit engine setting (WithGradient). With it, a
// design matrix has n_dim+1 slots per basis row (value, then one partial
// derivative per dimension) and Evaluate requires a gradient buffer; without
// it, one slot and no gradient buffer. Buffer shapes are validated against
// the setting, never used to infer it.
//
// # Concurrency
//
// An Engine is immutable and safe for concurrent use. Each call splits its
// sample rows into contiguous chunks run on up to WithWorkers goroutines;
// results do not depend on the worker count. A resource.Controller shared
// through WithController bounds workers and scratch memory across engines.
//
// # Errors
//
// Shape disagreements fail with ErrShapeMismatch (often as *ShapeError)
// before any output is written. Degrees beyond a family's table fail with
// ErrUnsupportedDegree, misconfigured families with ErrInvalidBasisFamily.
// NaN and Inf sample coordinates are not errors; they propagate to the
// affected output rows (see NonFiniteRows).
package gpcgo
