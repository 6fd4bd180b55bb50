package svht

import "gonum.org/v1/gonum/integrate/quad"

// DefaultNodes is the node count used by the default quadrature rule.
const DefaultNodes = 512

// Quadrature evaluates a definite integral of f over [a, b].
type Quadrature interface {
	Integrate(f func(float64) float64, a, b float64) float64
}

// GaussLegendre is a fixed-location Gauss-Legendre rule backed by
// gonum's integrate/quad package.
type GaussLegendre struct {
	Nodes int
}

func (g GaussLegendre) Integrate(f func(float64) float64, a, b float64) float64 {
	n := g.Nodes
	if n <= 0 {
		n = DefaultNodes
	}
	return quad.Fixed(f, a, b, n, nil, 0)
}
