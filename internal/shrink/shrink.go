package shrink

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/avasquez/lowrank/internal/svht"
)

// Spectrum describes the singular value spectrum of a matrix relative to
// the optimal hard threshold.
type Spectrum struct {
	// Values holds the singular values in descending order.
	Values []float64

	// Threshold is the multiplicative coefficient tau from svht.Threshold.
	Threshold float64

	// Cutoff is tau times the median singular value; values below it are
	// attributed to noise.
	Cutoff float64

	// Kept is the number of singular values at or above the cutoff.
	Kept int
}

// EnergyFraction is the share of squared spectral mass carried by the first
// k singular values.
func (sp *Spectrum) EnergyFraction(k int) float64 {
	if k <= 0 || len(sp.Values) == 0 {
		return 0
	}
	if k > len(sp.Values) {
		k = len(sp.Values)
	}
	total := floats.Dot(sp.Values, sp.Values)
	if total == 0 {
		return 0
	}
	kept := floats.Dot(sp.Values[:k], sp.Values[:k])
	return kept / total
}

// KeptAt counts the singular values at or above an arbitrary cutoff.
func (sp *Spectrum) KeptAt(cutoff float64) int {
	kept := 0
	for _, s := range sp.Values {
		if s >= cutoff {
			kept++
		}
	}
	return kept
}

// Analyze factorizes x and reports its spectrum against the optimal
// threshold for the matrix's aspect ratio.
func Analyze(x mat.Matrix) (*Spectrum, error) {
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDNone); !ok {
		return nil, ErrFactorization
	}
	r, c := x.Dims()
	return summarize(svd.Values(nil), r, c)
}

// Denoise returns the rank-reduced reconstruction of x, keeping only the
// singular values at or above the optimal cutoff. The input is not modified.
func Denoise(x mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, ErrFactorization
	}

	r, c := x.Dims()
	sp, err := summarize(svd.Values(nil), r, c)
	if err != nil {
		return nil, err
	}
	return reconstruct(&svd, sp.Values, sp.Kept, r, c), nil
}

// DenoiseInPlace overwrites x with its rank-reduced reconstruction. The
// result is exactly the one Denoise would return for the same input.
func DenoiseInPlace(x *mat.Dense) error {
	out, err := Denoise(x)
	if err != nil {
		return err
	}
	x.Copy(out)
	return nil
}

// Truncate reconstructs x keeping only singular values at or above cutoff,
// and reports how many survived.
func Truncate(x mat.Matrix, cutoff float64) (*mat.Dense, int, error) {
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, 0, ErrFactorization
	}

	vals := svd.Values(nil)
	kept := 0
	for _, s := range vals {
		if s >= cutoff {
			kept++
		}
	}

	r, c := x.Dims()
	return reconstruct(&svd, vals, kept, r, c), kept, nil
}

func summarize(vals []float64, rows, cols int) (*Spectrum, error) {
	m, n := rows, cols
	if m > n {
		m, n = n, m
	}

	tau, err := svht.Threshold(m, n, false)
	if err != nil {
		return nil, err
	}

	sp := &Spectrum{
		Values:    vals,
		Threshold: tau,
		Cutoff:    tau * median(vals),
	}
	sp.Kept = sp.KeptAt(sp.Cutoff)
	return sp, nil
}

// reconstruct builds U_kept * diag(S_kept) * V_kept^T. Singular values come
// out of the factorization in descending order, so the kept set is always a
// prefix.
func reconstruct(svd *mat.SVD, vals []float64, kept, rows, cols int) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)
	if kept == 0 {
		return out
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	uk := u.Slice(0, rows, 0, kept)
	vk := v.Slice(0, cols, 0, kept)
	d := mat.NewDiagDense(kept, vals[:kept])

	out.Product(uk, d, vk.T())
	return out
}

// median averages the middle pair for even-length input, matching the
// textbook definition rather than an empirical quantile.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	h := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[h]
	}
	return 0.5 * (sorted[h-1] + sorted[h])
}
