package fornberg_test

import (
	"fmt"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdstencil/fornberg"
)

// poly is a polynomial with coefficients in ascending powers.
type poly []float64

func (p poly) eval(x float64) float64 {
	sum := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		sum = sum*x + p[i]
	}
	return sum
}

// deriv returns the k-th derivative evaluated at x.
func (p poly) deriv(k int, x float64) float64 {
	sum := 0.0
	for d := k; d < len(p); d++ {
		fall := 1.0
		for j := 0; j < k; j++ {
			fall *= float64(d - j)
		}
		sum += p[d] * fall * math.Pow(x, float64(d-k))
	}
	return sum
}

func lagrange(at float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		l := 1.0
		for j := range x {
			if j != i {
				l *= (at - x[j]) / (x[i] - x[j])
			}
		}
		out[i] = l
	}
	return out
}

var nonUniform = []float64{0.3, -1.2, 0.9, 2.1, -0.4, 1.5}

var _ = Describe("Weights", func() {
	Describe("classical stencils", func() {
		DescribeTable("matches the textbook coefficients",
			func(k int, at float64, x, expected []float64) {
				w, err := fornberg.Weights(k, at, x)
				Expect(err).NotTo(HaveOccurred())
				Expect(w).To(HaveLen(len(expected)))
				for i := range expected {
					Expect(w[i]).To(BeNumerically("~", expected[i], 1e-12), "weight %d", i)
				}
			},
			Entry("first derivative, 3-point centered", 1, 0.0, []float64{-1, 0, 1}, []float64{-0.5, 0, 0.5}),
			Entry("second derivative, 3-point centered", 2, 0.0, []float64{-1, 0, 1}, []float64{1, -2, 1}),
			Entry("first derivative, 5-point centered", 1, 0.0, []float64{-2, -1, 0, 1, 2},
				[]float64{1.0 / 12, -2.0 / 3, 0, 2.0 / 3, -1.0 / 12}),
			Entry("second derivative, 5-point centered", 2, 0.0, []float64{-2, -1, 0, 1, 2},
				[]float64{-1.0 / 12, 4.0 / 3, -5.0 / 2, 4.0 / 3, -1.0 / 12}),
			Entry("first derivative, forward difference", 1, 0.0, []float64{0, 1}, []float64{-1, 1}),
			Entry("first derivative, 3-point one-sided", 1, 0.0, []float64{0, 1, 2}, []float64{-1.5, 2, -0.5}),
			Entry("midpoint interpolation", 0, 0.5, []float64{0, 1}, []float64{0.5, 0.5}),
			Entry("scaled spacing", 1, 0.0, []float64{-0.1, 0, 0.1}, []float64{-5, 0, 5}),
		)
	})

	Describe("single point", func() {
		It("returns the identity for order zero", func() {
			w, err := fornberg.Weights(0, 3.5, []float64{3.5})
			Expect(err).NotTo(HaveOccurred())
			Expect(w).To(Equal([]float64{1}))
		})

		It("rejects any derivative", func() {
			_, err := fornberg.Weights(1, 3.5, []float64{3.5})
			Expect(err).To(MatchError(fornberg.ErrInsufficientPoints))
		})
	})

	Describe("polynomial exactness", func() {
		p := poly{0.7, -1.3, 0.25, 2.0, -0.6, 0.15}
		at := 0.25

		for k := 0; k < len(nonUniform); k++ {
			It(fmt.Sprintf("differentiates a degree-5 polynomial exactly at order %d", k), func() {
				w, err := fornberg.Weights(k, at, nonUniform)
				Expect(err).NotTo(HaveOccurred())

				sum, scale := 0.0, 1.0
				for i, x := range nonUniform {
					term := w[i] * p.eval(x)
					sum += term
					scale += math.Abs(term)
				}
				Expect(sum).To(BeNumerically("~", p.deriv(k, at), 1e-10*scale), "order %d", k)
			})
		}

		It("is exact away from every sample point", func() {
			w, err := fornberg.Weights(3, -3.0, nonUniform)
			Expect(err).NotTo(HaveOccurred())
			sum, scale := 0.0, 1.0
			for i, x := range nonUniform {
				term := w[i] * p.eval(x)
				sum += term
				scale += math.Abs(term)
			}
			Expect(sum).To(BeNumerically("~", p.deriv(3, -3.0), 1e-10*scale))
		})
	})

	Describe("zeroth order", func() {
		It("reduces to Lagrange interpolation weights", func() {
			at := 0.61
			w, err := fornberg.Weights(0, at, nonUniform)
			Expect(err).NotTo(HaveOccurred())
			expected := lagrange(at, nonUniform)
			for i := range expected {
				Expect(w[i]).To(BeNumerically("~", expected[i], 1e-12))
			}
		})

		It("reproduces the sample when evaluated on it", func() {
			w, err := fornberg.Weights(0, nonUniform[2], nonUniform)
			Expect(err).NotTo(HaveOccurred())
			for i := range w {
				if i == 2 {
					Expect(w[i]).To(BeNumerically("~", 1, 1e-12))
				} else {
					Expect(w[i]).To(BeNumerically("~", 0, 1e-12))
				}
			}
		})
	})

	Describe("permutation invariance", func() {
		perms := [][]int{
			{5, 4, 3, 2, 1, 0},
			{2, 0, 4, 1, 5, 3},
			{1, 3, 5, 0, 2, 4},
		}

		It("assigns the same weight to the same point in any order", func() {
			for k := 0; k <= 3; k++ {
				base, err := fornberg.Weights(k, 0.1, nonUniform)
				Expect(err).NotTo(HaveOccurred())
				byValue := map[float64]float64{}
				for i, x := range nonUniform {
					byValue[x] = base[i]
				}

				for _, perm := range perms {
					shuffled := make([]float64, len(perm))
					for i, p := range perm {
						shuffled[i] = nonUniform[p]
					}
					w, err := fornberg.Weights(k, 0.1, shuffled)
					Expect(err).NotTo(HaveOccurred())
					for i, x := range shuffled {
						Expect(w[i]).To(BeNumerically("~", byValue[x], 1e-9*(1+math.Abs(byValue[x]))),
							"order %d, point %v", k, x)
					}
				}
			}
		})
	})

	Describe("derivative weights", func() {
		It("sum to zero for every order above zero", func() {
			for k := 1; k < len(nonUniform); k++ {
				w, err := fornberg.Weights(k, 0.4, nonUniform)
				Expect(err).NotTo(HaveOccurred())
				sum, scale := 0.0, 1.0
				for _, v := range w {
					sum += v
					scale += math.Abs(v)
				}
				Expect(sum).To(BeNumerically("~", 0, 1e-12*scale))
			}
		})
	})

	It("leaves the input untouched", func() {
		x := []float64{2, -1, 0.5, 3}
		orig := append([]float64(nil), x...)
		_, err := fornberg.Weights(2, 0.7, x)
		Expect(err).NotTo(HaveOccurred())
		Expect(x).To(Equal(orig))
	})

	It("is safe to call concurrently", func() {
		expected, err := fornberg.Weights(3, 0.2, nonUniform)
		Expect(err).NotTo(HaveOccurred())

		const workers = 16
		results := make([][]float64, workers)
		var wg sync.WaitGroup
		for g := 0; g < workers; g++ {
			wg.Add(1)
			go func(idx int) {
				defer GinkgoRecover()
				defer wg.Done()
				w, err := fornberg.Weights(3, 0.2, nonUniform)
				Expect(err).NotTo(HaveOccurred())
				results[idx] = w
			}(g)
		}
		wg.Wait()

		for _, w := range results {
			Expect(w).To(Equal(expected))
		}
	})
})

var _ = Describe("Compute", func() {
	It("holds every lower order in its columns", func() {
		const k = 4
		t, err := fornberg.Compute(k, -0.3, nonUniform)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Rows()).To(Equal(len(nonUniform)))
		Expect(t.Cols()).To(Equal(k + 1))
		Expect(t.Order()).To(Equal(k))

		for m := 0; m <= k; m++ {
			w, err := fornberg.Weights(m, -0.3, nonUniform)
			Expect(err).NotTo(HaveOccurred())
			col := t.Column(m)
			for i := range w {
				Expect(col[i]).To(BeNumerically("~", w[i], 1e-9*(1+math.Abs(w[i]))), "order %d, row %d", m, i)
				Expect(t.At(i, m)).To(Equal(col[i]))
			}
		}
	})

	It("returns rows indexed by sample", func() {
		t, err := fornberg.Compute(2, 0, []float64{-1, 0, 1})
		Expect(err).NotTo(HaveOccurred())
		row := t.Row(1)
		Expect(row).To(HaveLen(3))
		Expect(row[0]).To(BeNumerically("~", 1, 1e-12))
		Expect(row[1]).To(BeNumerically("~", 0, 1e-12))
		Expect(row[2]).To(BeNumerically("~", -2, 1e-12))
	})

	It("panics on an out-of-range index", func() {
		t, err := fornberg.Compute(1, 0, []float64{-1, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(func() { t.At(2, 0) }).To(Panic())
		Expect(func() { t.Column(2) }).To(Panic())
	})

	It("validates like Weights", func() {
		_, err := fornberg.Compute(2, 0, []float64{0, 1})
		Expect(err).To(MatchError(fornberg.ErrInsufficientPoints))
	})
})
