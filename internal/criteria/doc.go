// Package criteria scores a fitted model's quality-vs-complexity trade-off.
//
// The package implements the classic information criteria:
//
//   - [AIC]: Akaike information criterion
//   - [AICc]: finite-sample corrected AIC
//   - [BIC]: Bayesian information criterion
//
// Lower is better. Each criterion compares an observed matrix against a
// model estimate of the same shape through a pluggable [Loss]; passing a
// nil Loss selects [SumSquares]. The loss must be strictly positive for
// the given inputs, since its logarithm is taken.
//
// All functions are pure and deterministic. Failures are immediate and
// local; nothing is retried or logged.
package criteria
