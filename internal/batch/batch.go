package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/san-kum/fdstencil/fornberg"
	"github.com/san-kum/fdstencil/internal/config"
	"github.com/san-kum/fdstencil/internal/logging"
)

// ErrCanceled marks stencils skipped because the context ended.
var ErrCanceled = errors.New("batch: canceled")

type Options struct {
	Workers int
	Logger  logr.Logger
}

type Result struct {
	Spec    config.StencilSpec
	Weights []float64
	// Table is set only when Spec.AllOrders is true.
	Table   *fornberg.Table
	Err     error
	Elapsed time.Duration
}

func (r Result) OK() bool { return r.Err == nil }

type Runner struct {
	workers int
	log     logr.Logger
}

func New(opts Options) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = config.DefaultWorkers
	}
	return &Runner{
		workers: workers,
		log:     logging.OrDiscard(opts.Logger).WithName("batch"),
	}
}

// Run computes every spec and returns one result per spec, in input order.
// If ctx ends early the partial results are returned with an error wrapping
// ErrCanceled.
func (r *Runner) Run(ctx context.Context, specs []config.StencilSpec) ([]Result, error) {
	results := make([]Result, len(specs))
	start := time.Now()
	r.log.V(1).Info("starting batch", "stencils", len(specs), "workers", r.workers)

	ParallelFor(len(specs), r.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			results[i].Spec = specs[i]
			if err := ctx.Err(); err != nil {
				results[i].Err = fmt.Errorf("%w: %w", ErrCanceled, err)
				continue
			}
			results[i] = r.solve(specs[i])
		}
	})

	sum := Summarize(results)
	r.log.V(1).Info("batch finished", "stencils", sum.Total, "failed", sum.Failed,
		"elapsed", time.Since(start))

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return results, nil
}

func (r *Runner) solve(spec config.StencilSpec) Result {
	res := Result{Spec: spec}
	t0 := time.Now()
	if spec.AllOrders {
		tab, err := fornberg.Compute(spec.Order, spec.At, spec.Points)
		if err == nil {
			res.Table = tab
			res.Weights = tab.Column(spec.Order)
		}
		res.Err = err
	} else {
		res.Weights, res.Err = fornberg.Weights(spec.Order, spec.At, spec.Points)
	}
	res.Elapsed = time.Since(t0)

	if res.Err != nil {
		r.log.V(1).Info("stencil rejected", "stencil", spec.Name, "error", res.Err.Error())
	} else {
		r.log.V(4).Info("stencil computed", "stencil", spec.Name, "order", spec.Order,
			"points", len(spec.Points), "elapsed", res.Elapsed)
	}
	return res
}

// Summary counts the outcome of a batch.
type Summary struct {
	Total    int
	Failed   int
	Canceled int
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		s.Failed++
		if errors.Is(r.Err, ErrCanceled) {
			s.Canceled++
		}
	}
	return s
}

// ParallelFor splits [0, n) into at most workers contiguous chunks and runs fn
// on each chunk in its own goroutine.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
