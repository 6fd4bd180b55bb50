package criteria_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/avasquez/lowrank/internal/criteria"
)

// unitLoss pins the loss term to ln(1) = 0 so the penalty terms can be
// checked in isolation.
func unitLoss(obs, est mat.Matrix) float64 { return 1 }

var _ = Describe("information criteria", func() {
	var obs, est *mat.VecDense

	BeforeEach(func() {
		// four observations, each off by 0.5: sum of squares is 1
		obs = mat.NewVecDense(4, []float64{1, 2, 3, 4})
		est = mat.NewVecDense(4, []float64{1.5, 2.5, 3.5, 4.5})
	})

	Describe("AIC", func() {
		It("rejects mismatched shapes", func() {
			short := mat.NewVecDense(3, []float64{1, 2, 3})
			_, err := criteria.AIC(1, obs, short, nil)
			Expect(err).To(MatchError(criteria.ErrShapeMismatch))
		})

		It("rejects a negative parameter count", func() {
			_, err := criteria.AIC(-1, obs, est, nil)
			Expect(err).To(MatchError(criteria.ErrParameterCount))
		})

		It("reduces to 2k when the loss is one", func() {
			got, err := criteria.AIC(3, obs, est, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", 6, 1e-12))
		})

		It("increases strictly with k for fixed data", func() {
			prev := math.Inf(-1)
			for k := 0; k <= 5; k++ {
				got, err := criteria.AIC(k, obs, est, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(BeNumerically(">", prev))
				prev = got
			}
		})

		It("defaults a nil loss to SumSquares", func() {
			withNil, err := criteria.AIC(2, obs, est, nil)
			Expect(err).NotTo(HaveOccurred())
			explicit, err := criteria.AIC(2, obs, est, criteria.SumSquares)
			Expect(err).NotTo(HaveOccurred())
			Expect(withNil).To(Equal(explicit))
		})

		It("honors a caller-supplied loss", func() {
			eLoss := func(obs, est mat.Matrix) float64 { return math.E }
			got, err := criteria.AIC(1, obs, est, eLoss)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", 2-2, 1e-12))
		})
	})

	Describe("AICc", func() {
		It("adds the finite-sample correction", func() {
			ten := mat.NewVecDense(10, make([]float64, 10))
			aic, err := criteria.AIC(1, ten, ten, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			got, err := criteria.AICc(1, ten, ten, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			// 2*(k+1)*(k+2)/(n-k-2) = 12/7 for k=1, n=10
			Expect(got).To(BeNumerically("~", aic+12.0/7, 1e-12))
		})

		It("diverges to +Inf at the n = k+2 boundary", func() {
			got, err := criteria.AICc(2, obs, est, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsInf(got, 1)).To(BeTrue())
		})

		It("flips sign past the boundary instead of failing", func() {
			// n=4, k=3: denominator is -1, correction is -40
			aic, err := criteria.AIC(3, obs, est, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			got, err := criteria.AICc(3, obs, est, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", aic-40, 1e-12))
		})

		It("rejects mismatched shapes", func() {
			short := mat.NewVecDense(3, []float64{1, 2, 3})
			_, err := criteria.AICc(1, obs, short, nil)
			Expect(err).To(MatchError(criteria.ErrShapeMismatch))
		})
	})

	Describe("BIC", func() {
		It("reduces to k*ln(n) when the loss is one", func() {
			got, err := criteria.BIC(3, obs, est, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", 3*math.Log(4), 1e-12))
		})

		It("counts columns as samples for matrix input", func() {
			wide := mat.NewDense(3, 5, make([]float64, 15))
			got, err := criteria.BIC(2, wide, wide, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", 2*math.Log(5), 1e-12))
		})

		It("counts length as samples for row and column vectors", func() {
			row := mat.NewDense(1, 5, make([]float64, 5))
			col := mat.NewDense(5, 1, make([]float64, 5))

			fromRow, err := criteria.BIC(2, row, row, unitLoss)
			Expect(err).NotTo(HaveOccurred())
			fromCol, err := criteria.BIC(2, col, col, unitLoss)
			Expect(err).NotTo(HaveOccurred())

			Expect(fromRow).To(BeNumerically("~", 2*math.Log(5), 1e-12))
			Expect(fromCol).To(Equal(fromRow))
		})

		It("rejects mismatched shapes", func() {
			wide := mat.NewDense(3, 5, make([]float64, 15))
			tall := mat.NewDense(5, 3, make([]float64, 15))
			_, err := criteria.BIC(1, wide, tall, nil)
			Expect(err).To(MatchError(criteria.ErrShapeMismatch))
		})
	})

	Describe("losses", func() {
		It("SumSquares sums squared differences", func() {
			Expect(criteria.SumSquares(obs, est)).To(BeNumerically("~", 1, 1e-12))
		})

		It("SumAbs sums absolute differences", func() {
			Expect(criteria.SumAbs(obs, est)).To(BeNumerically("~", 2, 1e-12))
		})
	})
})
