// Package shrink denoises matrices by truncating their singular value
// decomposition at the optimal hard threshold.
//
//   - [Analyze]: spectrum report (singular values, threshold, cutoff, kept rank)
//   - [Denoise]: rank-reduced reconstruction, input untouched
//   - [DenoiseInPlace]: same reconstruction, overwriting the input
//   - [Truncate]: reconstruction at an arbitrary cutoff
//
// A spectrum that lies entirely below the cutoff reconstructs to the zero
// matrix of the original shape; that is valid output, not an error.
package shrink
