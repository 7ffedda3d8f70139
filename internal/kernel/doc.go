// Package kernel implements the batch evaluation kernels behind the engine.
//
// # Kernels
//
//   - Design: tensor-product basis values and partial derivatives per
//     (sample, basis row).
//   - Approximate: surrogate values and gradients, combining the basis with
//     expansion coefficients without materialising the design matrix.
//
// Both kernels are pure functions over a half-open range of sample rows;
// callers partition the batch and give every worker its own Scratch.
//
// # Accumulation
//
// Approximate sums with the compensated dot product Dot2 (Ogita, Rump and
// Oishi). The error-free product uses math.FMA on CPUs with fused
// multiply-add and Veltkamp splitting elsewhere. Runtime CPU feature
// detection selects the variant; set GPCGO_KERNEL=generic or
// GPCGO_KERNEL=fma to override it.
package kernel
