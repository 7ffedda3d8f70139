package multiindex

import "fmt"

// TotalOrder returns every row of dims non-negative degrees whose sum is at
// most order.
func TotalOrder(dims, order int) (*Table, error) {
	if dims <= 0 {
		return nil, ErrEmptyTable
	}
	limits := make([]int, dims)
	for i := range limits {
		limits[i] = order
	}
	return Sparse(limits, order, dims)
}

// TensorProduct returns every row of dims degrees with each degree at most
// order, (order+1)^dims rows in total.
func TensorProduct(dims, order int) (*Table, error) {
	if dims <= 0 {
		return nil, ErrEmptyTable
	}
	limits := make([]int, dims)
	for i := range limits {
		limits[i] = order
	}
	return Sparse(limits, dims*order, dims)
}

// Sparse returns every row r with
//
//	r[d] <= orderDimMax[d]          for every dimension d
//	sum(r) <= orderGlobMax
//	#{d : r[d] > 0} <= interactionOrderMax
//
// The constant row is always included.
func Sparse(orderDimMax []int, orderGlobMax, interactionOrderMax int) (*Table, error) {
	dims := len(orderDimMax)
	if dims == 0 {
		return nil, ErrEmptyTable
	}
	for d, v := range orderDimMax {
		if v < 0 {
			return nil, fmt.Errorf("%w: order of dimension %d is %d", ErrNegativeDegree, d, v)
		}
	}
	if orderGlobMax < 0 {
		return nil, fmt.Errorf("%w: global order %d", ErrNegativeDegree, orderGlobMax)
	}
	if interactionOrderMax < 0 {
		return nil, fmt.Errorf("multiindex: interaction order %d is negative", interactionOrderMax)
	}

	g := generator{
		limits:      orderDimMax,
		interaction: interactionOrderMax,
		row:         make([]int, dims),
	}
	for total := 0; total <= orderGlobMax; total++ {
		g.walk(0, total, 0)
	}
	return newTable(len(g.out)/dims, dims, g.out)
}

type generator struct {
	limits      []int
	interaction int
	row         []int
	out         []int
}

// walk assigns row[d:] so that it sums to exactly remaining, in ascending
// lexicographic order.
func (g *generator) walk(d, remaining, active int) {
	last := len(g.row) - 1
	if d == last {
		if remaining > g.limits[d] || (remaining > 0 && active >= g.interaction) {
			return
		}
		g.row[d] = remaining
		g.out = append(g.out, g.row...)
		return
	}
	hi := min(remaining, g.limits[d])
	for k := 0; k <= hi; k++ {
		next := active
		if k > 0 {
			if active >= g.interaction {
				break
			}
			next++
		}
		g.row[d] = k
		g.walk(d+1, remaining-k, next)
	}
}
