package fornberg

// Table holds finite-difference weights for every derivative order up to
// Order(). Row i belongs to sample i, column m to derivative order m.
type Table struct {
	rows, cols int
	data       []float64
}

func newTable(rows, cols int) *Table {
	return &Table{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows is the number of sample points.
func (t *Table) Rows() int { return t.rows }

// Cols is Order()+1.
func (t *Table) Cols() int { return t.cols }

// Order is the highest derivative order held by the table.
func (t *Table) Order() int { return t.cols - 1 }

// At returns the order-m weight of sample i. It panics if (i, m) is out of
// range.
func (t *Table) At(i, m int) float64 {
	t.check(i, m)
	return t.data[i*t.cols+m]
}

// Column returns a copy of the weights for derivative order m, in sample
// order.
func (t *Table) Column(m int) []float64 {
	t.check(0, m)
	out := make([]float64, t.rows)
	for i := range out {
		out[i] = t.data[i*t.cols+m]
	}
	return out
}

// Row returns a copy of the weights of sample i for orders 0..Order().
func (t *Table) Row(i int) []float64 {
	t.check(i, 0)
	out := make([]float64, t.cols)
	copy(out, t.data[i*t.cols:(i+1)*t.cols])
	return out
}

func (t *Table) check(i, m int) {
	if i < 0 || i >= t.rows || m < 0 || m >= t.cols {
		panic("fornberg: table index out of range")
	}
}
