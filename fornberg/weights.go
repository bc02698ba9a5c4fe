package fornberg

// Weights returns the finite-difference weights approximating the k-th
// derivative at `at` from samples x. The result has len(x) entries, w[i]
// paired with x[i].
//
// x must hold at least k+1 distinct finite values; see [Validate].
func Weights(k int, at float64, x []float64) ([]float64, error) {
	if err := validate("weights", k, at, x); err != nil {
		return nil, err
	}
	return recurrence(k, at, x).Column(k), nil
}

// Compute runs the same recurrence as [Weights] but returns the weights for
// every order 0..k.
func Compute(k int, at float64, x []float64) (*Table, error) {
	if err := validate("compute", k, at, x); err != nil {
		return nil, err
	}
	return recurrence(k, at, x), nil
}

// recurrence incorporates one sample at a time. Inputs must already be
// validated.
func recurrence(k int, at float64, x []float64) *Table {
	n := len(x) - 1
	t := newTable(n+1, k+1)
	c, cols := t.data, t.cols

	c1 := 1.0
	c4 := x[0] - at
	c[0] = 1

	for i := 1; i <= n; i++ {
		mn := min(i, k)
		c2 := 1.0
		c5 := c4
		c4 = x[i] - at
		row, prev := i*cols, (i-1)*cols

		for j := 0; j < i; j++ {
			c3 := x[i] - x[j]
			c2 *= c3

			// The new row must be derived from row i-1 before the update
			// below overwrites it.
			if j == i-1 {
				for m := mn; m > 0; m-- {
					c[row+m] = c1 * (float64(m)*c[prev+m-1] - c5*c[prev+m]) / c2
				}
				c[row] = -c1 * c5 * c[prev] / c2
			}

			// Descending m: order m reads order m-1 before it is updated.
			rj := j * cols
			for m := mn; m > 0; m-- {
				c[rj+m] = (c4*c[rj+m] - float64(m)*c[rj+m-1]) / c3
			}
			c[rj] = c4 * c[rj] / c3
		}
		c1 = c2
	}
	return t
}
