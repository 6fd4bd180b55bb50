package criteria

import "errors"

// Domain errors for criterion evaluation.
var (
	// ErrShapeMismatch indicates observed and estimated data with different
	// dimensions.
	ErrShapeMismatch = errors.New("criteria: observed and estimated shapes differ")

	// ErrParameterCount indicates a negative free-parameter count.
	ErrParameterCount = errors.New("criteria: negative parameter count")
)
