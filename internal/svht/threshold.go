package svht

import (
	"fmt"
	"math"
)

// Threshold computes the multiplicative coefficient tau such that singular
// values below tau times the median singular value are attributable to noise,
// for a matrix with rows <= cols. With knownNoise the noise level is assumed
// already normalized and the raw coefficient is returned; otherwise the
// coefficient is rescaled by the Marchenko-Pastur median.
func Threshold(rows, cols int, knownNoise bool) (float64, error) {
	if rows <= 0 || cols <= 0 || rows > cols {
		return 0, fmt.Errorf("%w: rows=%d cols=%d", ErrAspectRatio, rows, cols)
	}

	beta := float64(rows) / float64(cols)
	omega := 8 * beta / (beta + 1 + math.Sqrt(beta*beta+14*beta+1))
	c := math.Sqrt(2*(beta+1) + omega)

	if knownNoise {
		return c, nil
	}

	dist, err := NewMarchenkoPastur(beta)
	if err != nil {
		return 0, err
	}
	return c / math.Sqrt(dist.Median()), nil
}
