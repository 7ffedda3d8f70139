// Package testutil provides testing utilities for gpcgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for sample and coefficient matrices
// and analytic test functions with closed-form gradients.
//
// # Random Matrices
//
//	rng := testutil.NewRNG(seed)
//	x := rng.UniformMatrix(1000, 3, -1, 1) // samples in [-1, 1)^3
//	c := rng.GaussianMatrix(56, 2)         // coefficients
//
// # Test Functions
//
//	y := testutil.Ishigami(x, 7, 0.1)
//	g := testutil.IshigamiGradient(x, 7, 0.1)
package testutil
