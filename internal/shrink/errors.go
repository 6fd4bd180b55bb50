package shrink

import "errors"

var (
	// ErrFactorization indicates the SVD of the input matrix did not converge.
	ErrFactorization = errors.New("shrink: singular value decomposition failed")
)
