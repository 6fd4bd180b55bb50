package svht

import "errors"

// Domain errors for threshold computations.
var (
	// ErrAspectRatio indicates an aspect ratio outside (0, 1]. Callers must
	// orient their dimensions so rows <= cols before calling.
	ErrAspectRatio = errors.New("svht: aspect ratio outside (0, 1]")
)
