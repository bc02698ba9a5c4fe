// Package fornberg computes finite-difference weights with Fornberg's
// recurrence.
//
// Given a derivative order k, an evaluation point and a set of distinct
// sample locations (uniform or not, sorted or not), the package returns one
// weight per sample such that
//
//	Σ w[i]·f(x[i]) ≈ f⁽ᵏ⁾(at)
//
// exactly for polynomials of degree ≤ len(x)-1.
//
//   - [Weights]: weights for a single derivative order
//   - [Compute]: the full [Table] of weights for orders 0..k in one pass
//   - [NewStencil]: weights paired with their sample points, with [Stencil.Apply]
//   - [Validate]: input checks shared by all of the above
//
// # Example
//
//	w, err := fornberg.Weights(2, 0, []float64{-1, 0, 1})
//	// w == [1 -2 1]
//
// # Errors
//
// Invalid input is reported before any arithmetic as an [*InputError]
// wrapping one of the sentinel errors ([ErrInsufficientPoints],
// [ErrDuplicatePoint], [ErrNonFinite], [ErrNegativeOrder]). Match them with
// errors.Is.
//
// # Thread Safety
//
// Every call owns its working table. Concurrent calls need no coordination.
//
// Reference: B. Fornberg, "Calculation of weights in finite difference
// formulas", SIAM Review 40 (1998), pp. 685-691.
package fornberg
