package criteria

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Loss maps an observed matrix and an equal-shaped model estimate to a
// positive scalar. Callers may supply any comparator; the criteria take
// its logarithm, so a non-positive loss yields a non-finite score.
type Loss func(obs, est mat.Matrix) float64

// SumSquares is the default loss: the sum of squared elementwise
// differences.
func SumSquares(obs, est mat.Matrix) float64 {
	r, c := obs.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := obs.At(i, j) - est.At(i, j)
			sum += d * d
		}
	}
	return sum
}

// SumAbs is an alternative loss: the sum of absolute elementwise
// differences.
func SumAbs(obs, est mat.Matrix) float64 {
	r, c := obs.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += math.Abs(obs.At(i, j) - est.At(i, j))
		}
	}
	return sum
}

// AIC returns 2k - 2*ln(loss(obs, est)) for a model with k free parameters.
// A nil loss selects SumSquares.
func AIC(k int, obs, est mat.Matrix, loss Loss) (float64, error) {
	if err := validate(k, obs, est); err != nil {
		return 0, err
	}
	if loss == nil {
		loss = SumSquares
	}
	return 2*float64(k) - 2*math.Log(loss(obs, est)), nil
}

// AICc returns AIC with the finite-sample correction
// 2(k+1)(k+2)/(n-k-2), where n is the sample count of the data.
//
// The correction diverges when n <= k+2: the denominator is zero or
// negative and the result is non-finite or sign-flipped. That boundary is
// the caller's to avoid; it is deliberately not guarded here.
func AICc(k int, obs, est mat.Matrix, loss Loss) (float64, error) {
	aic, err := AIC(k, obs, est, loss)
	if err != nil {
		return 0, err
	}
	n := sampleCount(obs)
	return aic + 2*float64((k+1)*(k+2))/float64(n-k-2), nil
}

// BIC returns -2*ln(loss(obs, est)) + k*ln(n), where n is the sample count
// of the data. A nil loss selects SumSquares.
func BIC(k int, obs, est mat.Matrix, loss Loss) (float64, error) {
	if err := validate(k, obs, est); err != nil {
		return 0, err
	}
	if loss == nil {
		loss = SumSquares
	}
	n := sampleCount(obs)
	return -2*math.Log(loss(obs, est)) + float64(k)*math.Log(float64(n)), nil
}

func validate(k int, obs, est mat.Matrix) error {
	if k < 0 {
		return fmt.Errorf("%w: k=%d", ErrParameterCount, k)
	}
	or, oc := obs.Dims()
	er, ec := est.Dims()
	if or != er || oc != ec {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, or, oc, er, ec)
	}
	return nil
}

// sampleCount is the length for vector input (row or column) and the
// column count for matrix input.
func sampleCount(m mat.Matrix) int {
	r, c := m.Dims()
	if r == 1 || c == 1 {
		return r * c
	}
	return c
}
