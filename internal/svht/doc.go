// Package svht computes the optimal singular-value hard threshold for
// matrix denoising under additive white noise.
//
// The package provides:
//
//   - [Threshold]: the Donoho-Gavish optimal threshold coefficient for a
//     matrix with the given dimensions
//   - [MarchenkoPastur]: the limiting spectral distribution used to locate
//     the noise floor of a singular value spectrum
//   - [Quadrature]: injectable definite-integral capability, defaulting to
//     Gauss-Legendre quadrature from gonum
//
// # Example
//
//	tau, err := svht.Threshold(100, 400, false)
//	cutoff := tau * medianSingularValue
//
// Singular values below the cutoff are attributable to noise and can be
// discarded. See internal/shrink for the full denoising pipeline.
package svht
