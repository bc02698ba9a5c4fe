package fornberg

import (
	"fmt"
	"iter"
)

// Stencil pairs sample points with their finite-difference weights.
type Stencil struct {
	Order   int
	At      float64
	Points  []float64
	Weights []float64
}

// NewStencil computes the order-k weights at `at` and keeps a copy of x.
func NewStencil(k int, at float64, x []float64) (*Stencil, error) {
	if err := validate("stencil", k, at, x); err != nil {
		return nil, err
	}
	pts := make([]float64, len(x))
	copy(pts, x)
	return &Stencil{
		Order:   k,
		At:      at,
		Points:  pts,
		Weights: recurrence(k, at, pts).Column(k),
	}, nil
}

// Len is the number of sample points.
func (s *Stencil) Len() int { return len(s.Points) }

// Apply returns Σ w[i]·values[i], where values[i] = f(Points[i]).
func (s *Stencil) Apply(values []float64) (float64, error) {
	if len(values) != len(s.Weights) {
		return 0, &InputError{Op: "apply", Index: EvalPoint, Other: EvalPoint, Err: ErrLengthMismatch,
			Detail: fmt.Sprintf("stencil has %d points, got %d values", len(s.Weights), len(values))}
	}
	sum := 0.0
	for i, w := range s.Weights {
		sum += w * values[i]
	}
	return sum, nil
}

// ApplyFunc samples f at every point and applies the stencil.
func (s *Stencil) ApplyFunc(f func(float64) float64) float64 {
	sum := 0.0
	for i, x := range s.Points {
		sum += s.Weights[i] * f(x)
	}
	return sum
}

// Pairs yields (point, weight) in input order.
func (s *Stencil) Pairs() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for i, x := range s.Points {
			if !yield(x, s.Weights[i]) {
				return
			}
		}
	}
}
