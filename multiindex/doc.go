// Package multiindex provides the immutable multi-index tables that select
// the members of a tensor-product polynomial basis.
//
// Row m of a table holds one non-negative degree per input dimension; the
// m-th basis function is the product of the one-dimensional polynomials of
// those degrees. Tables are built from literal rows, from floating-point
// matrices holding integral values, or from one of the generators:
//
//	t, err := multiindex.TotalOrder(3, 4)   // all rows with total degree <= 4
//	t, err := multiindex.TensorProduct(2, 3) // every row with degrees <= 3
//	t, err := multiindex.Sparse([]int{5, 5, 2}, 6, 2)
//
// Generated rows are ordered by total degree, then lexicographically with
// the first dimension varying slowest.
package multiindex
