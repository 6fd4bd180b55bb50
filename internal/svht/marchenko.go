package svht

import (
	"fmt"
	"math"
)

const (
	// medianTol is the absolute bracket width at which the median search stops.
	medianTol = 1e-5

	// medianSamples is the number of equally spaced probe points per iteration.
	medianSamples = 5
)

// MarchenkoPastur is the limiting spectral distribution of eigenvalues of
// large random covariance-like matrices, with shape parameter beta in (0, 1].
type MarchenkoPastur struct {
	beta float64
	quad Quadrature
}

// NewMarchenkoPastur returns the distribution for the given aspect ratio.
// It fails with ErrAspectRatio when beta is outside (0, 1].
func NewMarchenkoPastur(beta float64) (*MarchenkoPastur, error) {
	if beta <= 0 || beta > 1 {
		return nil, fmt.Errorf("%w: beta=%v", ErrAspectRatio, beta)
	}
	return &MarchenkoPastur{
		beta: beta,
		quad: GaussLegendre{Nodes: DefaultNodes},
	}, nil
}

// SetQuadrature replaces the integration backend. Useful for testing the
// median search against a fake integrator.
func (d *MarchenkoPastur) SetQuadrature(q Quadrature) {
	d.quad = q
}

func (d *MarchenkoPastur) Beta() float64 { return d.beta }

// Lower is the left edge of the distribution's support, (1-sqrt(beta))^2.
func (d *MarchenkoPastur) Lower() float64 {
	s := math.Sqrt(d.beta)
	return (1 - s) * (1 - s)
}

// Upper is the right edge of the distribution's support, (1+sqrt(beta))^2.
func (d *MarchenkoPastur) Upper() float64 {
	s := math.Sqrt(d.beta)
	return (1 + s) * (1 + s)
}

// PDF evaluates the density at x. The density is zero outside the open
// interval (Lower, Upper).
func (d *MarchenkoPastur) PDF(x float64) float64 {
	lo, hi := d.Lower(), d.Upper()
	if x <= lo || x >= hi {
		return 0
	}
	return math.Sqrt((hi-x)*(x-lo)) / (2 * math.Pi * d.beta * x)
}

// TailProb is P(X > x), computed by integrating the density from x to the
// upper support edge.
func (d *MarchenkoPastur) TailProb(x float64) float64 {
	hi := d.Upper()
	if x >= hi {
		return 0
	}
	a := math.Max(x, d.Lower())
	return d.quad.Integrate(d.PDF, a, hi)
}

// CDF is P(X <= x).
func (d *MarchenkoPastur) CDF(x float64) float64 {
	return 1 - d.TailProb(x)
}

// Median locates the point where the CDF crosses 0.5 by iterative bracket
// narrowing over the support. Each pass probes five equally spaced points:
// the lower bound advances to the greatest point still below the median,
// the upper bound retreats to the least point above it. The loop stops when
// the bracket is narrower than medianTol, or when neither bound moved
// (stagnation counts as convergence). The bracket midpoint is returned.
func (d *MarchenkoPastur) Median() float64 {
	lo, hi := d.Lower(), d.Upper()
	change := true

	for change && hi-lo > medianTol {
		change = false
		step := (hi - lo) / float64(medianSamples-1)

		loNew, hiNew := lo, hi
		haveLo, haveHi := false, false
		for i := 0; i < medianSamples; i++ {
			x := lo + step*float64(i)
			y := d.CDF(x)
			if y < 0.5 && (!haveLo || x > loNew) {
				loNew, haveLo = x, true
			}
			if y > 0.5 && (!haveHi || x < hiNew) {
				hiNew, haveHi = x, true
			}
		}

		if haveLo {
			lo, change = loNew, true
		}
		if haveHi {
			hi, change = hiNew, true
		}
	}

	return (lo + hi) / 2
}
