package shrink

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/avasquez/lowrank/internal/svht"
)

func randomDense(rows, cols int, scale float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = scale * rng.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}

// lowRankPlusNoise builds 25 * u v^T + 0.02 * G with unit u, v.
func lowRankPlusNoise(n int, rng *rand.Rand) (signal, noisy *mat.Dense) {
	u := mat.NewVecDense(n, nil)
	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		u.SetVec(i, rng.NormFloat64())
		v.SetVec(i, rng.NormFloat64())
	}
	u.ScaleVec(1/mat.Norm(u, 2), u)
	v.ScaleVec(1/mat.Norm(v, 2), v)

	signal = mat.NewDense(n, n, nil)
	signal.Outer(25, u, v)

	noisy = randomDense(n, n, 0.02, rng)
	noisy.Add(noisy, signal)
	return signal, noisy
}

func maxAbsDiff(a, b mat.Matrix) float64 {
	r, c := a.Dims()
	worst := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := math.Abs(a.At(i, j) - b.At(i, j))
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}

func TestDenoise_AllNoiseSpectrum(t *testing.T) {
	// Every singular value of the identity is 1, so the cutoff (about 2.2
	// times the median) kills the whole spectrum. The result is the zero
	// matrix, not an error.
	n := 50
	eye := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		eye.Set(i, i, 1)
	}

	out, err := Denoise(eye)
	if err != nil {
		t.Fatal(err)
	}

	r, c := out.Dims()
	if r != n || c != n {
		t.Fatalf("output dims %dx%d, want %dx%d", r, c, n, n)
	}
	if maxAbsDiff(out, mat.NewDense(n, n, nil)) != 0 {
		t.Error("expected zero matrix for an all-noise spectrum")
	}

	sp, err := Analyze(eye)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Kept != 0 {
		t.Errorf("kept = %d, want 0", sp.Kept)
	}
}

func TestDenoise_RecoversLowRank(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	signal, noisy := lowRankPlusNoise(100, rng)

	out, err := Denoise(noisy)
	if err != nil {
		t.Fatal(err)
	}

	var diff mat.Dense
	diff.Sub(out, signal)
	relErr := mat.Norm(&diff, 2) / mat.Norm(signal, 2)
	if relErr > 0.02 {
		t.Errorf("relative reconstruction error = %v, want < 0.02", relErr)
	}

	sp, err := Analyze(noisy)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Kept != 1 {
		t.Errorf("kept = %d, want 1", sp.Kept)
	}
}

func TestDenoise_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	_, noisy := lowRankPlusNoise(100, rng)

	once, err := Denoise(noisy)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Denoise(once)
	if err != nil {
		t.Fatal(err)
	}

	if d := maxAbsDiff(once, twice); d > 1e-8 {
		t.Errorf("second pass moved the result by %v", d)
	}
}

func TestDenoise_InputUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	_, noisy := lowRankPlusNoise(60, rng)

	before := mat.DenseCopyOf(noisy)
	if _, err := Denoise(noisy); err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(noisy, before) {
		t.Error("Denoise modified its input")
	}
}

func TestDenoiseInPlace_MatchesCopying(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	_, noisy := lowRankPlusNoise(80, rng)

	want, err := Denoise(noisy)
	if err != nil {
		t.Fatal(err)
	}
	if err := DenoiseInPlace(noisy); err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(noisy, want) {
		t.Error("in-place result differs from the copying variant")
	}
}

func TestDenoise_Rectangular(t *testing.T) {
	rng := rand.New(rand.NewSource(19))

	for _, dims := range []struct{ r, c int }{{40, 120}, {120, 40}} {
		x := randomDense(dims.r, dims.c, 1, rng)
		out, err := Denoise(x)
		if err != nil {
			t.Fatalf("%dx%d: %v", dims.r, dims.c, err)
		}
		r, c := out.Dims()
		if r != dims.r || c != dims.c {
			t.Errorf("%dx%d: output dims %dx%d", dims.r, dims.c, r, c)
		}
	}
}

func TestAnalyze(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	x := randomDense(30, 90, 1, rng)

	sp, err := Analyze(x)
	if err != nil {
		t.Fatal(err)
	}

	tau, err := svht.Threshold(30, 90, false)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sp.Threshold-tau) > 1e-12 {
		t.Errorf("threshold = %v, want %v", sp.Threshold, tau)
	}
	if sp.Kept != sp.KeptAt(sp.Cutoff) {
		t.Errorf("kept = %d, inconsistent with KeptAt(cutoff) = %d", sp.Kept, sp.KeptAt(sp.Cutoff))
	}
	for i := 1; i < len(sp.Values); i++ {
		if sp.Values[i] > sp.Values[i-1] {
			t.Fatal("singular values not in descending order")
		}
	}
}

func TestTruncate_ZeroCutoff(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	x := randomDense(25, 40, 1, rng)

	out, kept, err := Truncate(x, 0)
	if err != nil {
		t.Fatal(err)
	}
	if kept != 25 {
		t.Errorf("kept = %d, want 25", kept)
	}
	if d := maxAbsDiff(out, x); d > 1e-10 {
		t.Errorf("full reconstruction differs from input by %v", d)
	}
}

func TestSpectrum_EnergyFraction(t *testing.T) {
	sp := &Spectrum{Values: []float64{4, 3}}

	tests := []struct {
		k    int
		want float64
	}{
		{0, 0},
		{1, 16.0 / 25},
		{2, 1},
		{5, 1}, // clamped
	}
	for _, tt := range tests {
		if got := sp.EnergyFraction(tt.k); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EnergyFraction(%d) = %v, want %v", tt.k, got, tt.want)
		}
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		vals []float64
		want float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{5}, 5},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := median(tt.vals); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.vals, got, tt.want)
		}
	}
}
