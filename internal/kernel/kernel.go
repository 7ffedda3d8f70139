package kernel

import "fmt"

// Polynomial fills the one-dimensional table of a family at x: degrees
// 0..len(values)-1 into values and, when derivs is non-nil, their
// derivatives into derivs.
type Polynomial interface {
	Fill(x float64, values, derivs []float64) error
}

// Basis is a tensor-product basis: Rows multi-indices over Dims dimensions.
type Basis struct {
	Dims       int
	Rows       int
	Degrees    []int        // Rows × Dims, row-major
	MaxDegrees []int        // per dimension
	Families   []Polynomial // one per dimension
}

// Matrix is a row-major view of a dense float64 matrix.
type Matrix struct {
	Data       []float64
	Rows, Cols int
	Stride     int
}

// Row returns row i without copying.
func (m Matrix) Row(i int) []float64 {
	return m.Data[i*m.Stride : i*m.Stride+m.Cols]
}

// Problem binds a basis to a sample batch. Samples must have Basis.Dims
// columns.
type Problem struct {
	Basis    *Basis
	Samples  Matrix
	Gradient bool
}

// Slots returns the number of design-matrix slots per (sample, basis row).
func (p *Problem) Slots() int {
	if p.Gradient {
		return p.Basis.Dims + 1
	}
	return 1
}

// Design writes the basis values of samples [start, end) into out, laid out
// as samples × basis rows × slots. Slot 0 is the value, slot d+1 the partial
// derivative with respect to dimension d.
func (p *Problem) Design(out []float64, start, end int, sc *Scratch) error {
	b := p.Basis
	slots := p.Slots()
	for s := start; s < end; s++ {
		if err := sc.fill(p, s); err != nil {
			return err
		}
		base := s * b.Rows * slots
		for m := 0; m < b.Rows; m++ {
			row := b.Degrees[m*b.Dims : (m+1)*b.Dims]
			o := out[base+m*slots : base+(m+1)*slots]
			if p.Gradient {
				o[0] = sc.productGrad(row, o[1:], 1)
			} else {
				o[0] = sc.product(row)
			}
		}
	}
	return nil
}

// Approximate evaluates the expansion with coefficients coeffs (basis rows ×
// outputs) for samples [start, end). values receives samples × outputs;
// gradients, used only when p.Gradient is set, receives samples × outputs ×
// dims in row-major order.
func (p *Problem) Approximate(coeffs, values Matrix, gradients []float64, start, end int, sc *Scratch) error {
	b := p.Basis
	if coeffs.Rows != b.Rows {
		return fmt.Errorf("kernel: %d coefficient rows for %d basis rows", coeffs.Rows, b.Rows)
	}
	outputs := coeffs.Cols
	for s := start; s < end; s++ {
		if err := sc.fill(p, s); err != nil {
			return err
		}
		for m := 0; m < b.Rows; m++ {
			row := b.Degrees[m*b.Dims : (m+1)*b.Dims]
			if p.Gradient {
				sc.phi[m] = sc.productGrad(row, sc.dphi[m:], b.Rows)
			} else {
				sc.phi[m] = sc.product(row)
			}
		}

		v := values.Row(s)
		for o := 0; o < outputs; o++ {
			c := coeffs.Data[o:]
			v[o] = Dot2(sc.phi, c, coeffs.Stride)
			if !p.Gradient {
				continue
			}
			g := gradients[(s*outputs+o)*b.Dims : (s*outputs+o+1)*b.Dims]
			for d := range g {
				g[d] = Dot2(sc.dphi[d*b.Rows:(d+1)*b.Rows], c, coeffs.Stride)
			}
		}
	}
	return nil
}
