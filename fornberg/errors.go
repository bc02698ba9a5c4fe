package fornberg

import (
	"errors"
	"fmt"
)

// Input errors. All of them are caller errors detected before the recurrence
// starts.
var (
	// ErrInsufficientPoints indicates fewer than order+1 sample points.
	ErrInsufficientPoints = errors.New("fornberg: insufficient sample points")

	// ErrDuplicatePoint indicates two numerically identical sample points.
	ErrDuplicatePoint = errors.New("fornberg: duplicate sample point")

	// ErrNonFinite indicates a NaN or Inf evaluation point or sample point.
	ErrNonFinite = errors.New("fornberg: non-finite input")

	// ErrNegativeOrder indicates a derivative order below zero.
	ErrNegativeOrder = errors.New("fornberg: negative derivative order")

	// ErrLengthMismatch indicates a value slice that does not line up with
	// the stencil's sample points.
	ErrLengthMismatch = errors.New("fornberg: length mismatch")
)

// EvalPoint is the Index reported when the evaluation point itself is at fault.
const EvalPoint = -1

// InputError wraps an input sentinel with the operation and the offending
// position.
type InputError struct {
	Op     string
	Index  int
	Other  int
	Value  float64
	Detail string
	Err    error
}

func (e *InputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
