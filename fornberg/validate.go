package fornberg

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Validate reports whether (k, at, x) is a valid input to [Weights].
//
// Checks run in a fixed order and the first failure wins: negative order,
// non-finite evaluation point, non-finite sample, too few samples, duplicate
// samples.
func Validate(k int, at float64, x []float64) error {
	return validate("validate", k, at, x)
}

func validate(op string, k int, at float64, x []float64) error {
	if k < 0 {
		return &InputError{Op: op, Index: EvalPoint, Other: EvalPoint, Err: ErrNegativeOrder,
			Detail: fmt.Sprintf("order %d", k)}
	}
	if !isFinite(at) {
		return &InputError{Op: op, Index: EvalPoint, Other: EvalPoint, Value: at, Err: ErrNonFinite,
			Detail: fmt.Sprintf("evaluation point is %v", at)}
	}
	for i, v := range x {
		if !isFinite(v) {
			return &InputError{Op: op, Index: i, Other: EvalPoint, Value: v, Err: ErrNonFinite,
				Detail: fmt.Sprintf("x[%d] is %v", i, v)}
		}
	}
	// Written as k >= len(x): k+1 overflows at math.MaxInt.
	if k >= len(x) {
		return &InputError{Op: op, Index: EvalPoint, Other: EvalPoint, Err: ErrInsufficientPoints,
			Detail: fmt.Sprintf("order %d needs more than %d points", k, len(x))}
	}
	if i, j, ok := findDuplicate(x); ok {
		return &InputError{Op: op, Index: i, Other: j, Value: x[i], Err: ErrDuplicatePoint,
			Detail: fmt.Sprintf("x[%d] == x[%d] == %v", i, j, x[i])}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// findDuplicate returns the lowest-index pair of equal values. x must be
// free of NaN.
func findDuplicate(x []float64) (int, int, bool) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(x[a], x[b])
	})

	first, second, found := 0, 0, false
	for p := 1; p < len(idx); p++ {
		// -0 == +0 here, which is what we want: the difference is zero.
		if x[idx[p]] != x[idx[p-1]] {
			continue
		}
		i, j := idx[p-1], idx[p]
		if !found || i < first || (i == first && j < second) {
			first, second, found = i, j, true
		}
	}
	return first, second, found
}
