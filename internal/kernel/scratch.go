package kernel

// Scratch holds the per-worker buffers of a kernel call. A Scratch must not
// be shared between goroutines.
type Scratch struct {
	values [][]float64 // per-dimension 1-D tables
	derivs [][]float64

	factors  []float64
	dfactors []float64
	prefix   []float64

	phi  []float64 // basis values of one sample
	dphi []float64 // dims × basis rows
}

// ScratchFloats returns the number of float64 values a Scratch for p needs.
func ScratchFloats(p *Problem, approximate bool) int {
	b := p.Basis
	n := 0
	for _, k := range b.MaxDegrees {
		n += k + 1
	}
	if p.Gradient {
		n *= 2
		n += 3*b.Dims + 1
	}
	if approximate {
		n += b.Rows
		if p.Gradient {
			n += b.Rows * b.Dims
		}
	}
	return n
}

// NewScratch carves the buffers for p out of buf, allocating when buf is
// shorter than ScratchFloats.
func NewScratch(p *Problem, approximate bool, buf []float64) *Scratch {
	if need := ScratchFloats(p, approximate); len(buf) < need {
		buf = make([]float64, need)
	}
	take := func(n int) []float64 {
		s := buf[:n:n]
		buf = buf[n:]
		return s
	}

	b := p.Basis
	sc := &Scratch{
		values: make([][]float64, b.Dims),
	}
	for d, k := range b.MaxDegrees {
		sc.values[d] = take(k + 1)
	}
	if p.Gradient {
		sc.derivs = make([][]float64, b.Dims)
		for d, k := range b.MaxDegrees {
			sc.derivs[d] = take(k + 1)
		}
		sc.factors = take(b.Dims)
		sc.dfactors = take(b.Dims)
		sc.prefix = take(b.Dims + 1)
	}
	if approximate {
		sc.phi = take(b.Rows)
		if p.Gradient {
			sc.dphi = take(b.Rows * b.Dims)
		}
	}
	return sc
}

// fill evaluates the 1-D tables of every dimension at sample s.
func (sc *Scratch) fill(p *Problem, s int) error {
	x := p.Samples.Row(s)
	for d, fam := range p.Basis.Families {
		var derivs []float64
		if p.Gradient {
			derivs = sc.derivs[d]
		}
		if err := fam.Fill(x[d], sc.values[d], derivs); err != nil {
			return err
		}
	}
	return nil
}

func (sc *Scratch) product(row []int) float64 {
	v := 1.0
	for d, k := range row {
		v *= sc.values[d][k]
	}
	return v
}

// productGrad returns the product of the row's factors and writes the partial
// derivative for dimension d to grad[d*stride].
func (sc *Scratch) productGrad(row []int, grad []float64, stride int) float64 {
	f, g, pre := sc.factors, sc.dfactors, sc.prefix
	pre[0] = 1
	for d, k := range row {
		f[d] = sc.values[d][k]
		g[d] = sc.derivs[d][k]
		pre[d+1] = pre[d] * f[d]
	}
	suffix := 1.0
	for d := len(row) - 1; d >= 0; d-- {
		grad[d*stride] = g[d] * pre[d] * suffix
		suffix *= f[d]
	}
	return pre[len(row)]
}
