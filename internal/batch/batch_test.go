package batch

import (
	"context"
	"fmt"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdstencil/fornberg"
	"github.com/san-kum/fdstencil/internal/config"
)

func manySpecs(n int) []config.StencilSpec {
	specs := make([]config.StencilSpec, n)
	for i := range specs {
		width := 3 + i%5
		pts := make([]float64, width)
		for j := range pts {
			pts[j] = float64(j-width/2) * (1 + 0.1*float64(i%3))
		}
		specs[i] = config.StencilSpec{
			Name:   fmt.Sprintf("s%03d", i),
			Order:  i % 3,
			At:     0.1 * float64(i%4),
			Points: pts,
		}
	}
	return specs
}

var _ = Describe("Runner", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("matches sequential solver calls, in input order", func() {
		specs := manySpecs(37)
		results, err := New(Options{Workers: 4, Logger: logger}).Run(ctx, specs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(specs)))

		for i, r := range results {
			Expect(r.Spec.Name).To(Equal(specs[i].Name))
			Expect(r.OK()).To(BeTrue())
			w, err := fornberg.Weights(specs[i].Order, specs[i].At, specs[i].Points)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Weights).To(Equal(w))
			Expect(r.Table).To(BeNil())
		}
		Expect(Summarize(results)).To(Equal(Summary{Total: 37}))
	})

	It("keeps going past rejected stencils", func() {
		specs := []config.StencilSpec{
			{Name: "ok", Order: 1, Points: []float64{-1, 0, 1}},
			{Name: "dup", Order: 1, Points: []float64{0, 0, 1}},
			{Name: "short", Order: 2, Points: []float64{0, 1}},
			{Name: "ok2", Order: 2, Points: []float64{-1, 0, 1}},
		}
		results, err := New(Options{Workers: 2, Logger: logger}).Run(ctx, specs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].OK()).To(BeTrue())
		Expect(results[1].Err).To(MatchError(fornberg.ErrDuplicatePoint))
		Expect(results[2].Err).To(MatchError(fornberg.ErrInsufficientPoints))
		Expect(results[3].OK()).To(BeTrue())
		Expect(Summarize(results)).To(Equal(Summary{Total: 4, Failed: 2}))
	})

	It("fills the full table when all orders are requested", func() {
		specs := []config.StencilSpec{
			{Name: "all", Order: 2, Points: []float64{-1, 0, 1}, AllOrders: true},
		}
		results, err := New(Options{Logger: logger}).Run(ctx, specs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Table).NotTo(BeNil())
		Expect(results[0].Table.Order()).To(Equal(2))
		Expect(results[0].Weights).To(Equal(results[0].Table.Column(2)))
	})

	It("reports every stencil as canceled when the context is already done", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		specs := manySpecs(10)
		results, err := New(Options{Workers: 3}).Run(cctx, specs)
		Expect(err).To(MatchError(ErrCanceled))
		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(HaveLen(10))
		for i, r := range results {
			Expect(r.Spec.Name).To(Equal(specs[i].Name))
			Expect(r.Err).To(MatchError(ErrCanceled))
		}
		Expect(Summarize(results)).To(Equal(Summary{Total: 10, Failed: 10, Canceled: 10}))
	})

	It("handles an empty batch", func() {
		results, err := New(Options{}).Run(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})
})

var _ = Describe("ParallelFor", func() {
	DescribeTable("visits every index exactly once",
		func(n, workers int) {
			seen := make([]int32, n)
			ParallelFor(n, workers, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i := range seen {
				Expect(seen[i]).To(Equal(int32(1)), "index %d", i)
			}
		},
		Entry("single worker", 10, 1),
		Entry("more workers than items", 3, 8),
		Entry("uneven split", 17, 4),
		Entry("zero workers", 5, 0),
		Entry("empty range", 0, 4),
	)
})
