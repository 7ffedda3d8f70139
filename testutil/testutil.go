package testutil

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniform fills dst with uniform values in [lo, hi).
func (r *RNG) FillUniform(dst []float64, lo, hi float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = lo + (hi-lo)*r.rand.Float64()
	}
}

// FillGaussian fills dst with standard normal values.
func (r *RNG) FillGaussian(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.NormFloat64()
	}
}

// UniformMatrix returns a rows × cols matrix of uniform values in [lo, hi).
func (r *RNG) UniformMatrix(rows, cols int, lo, hi float64) *mat.Dense {
	data := make([]float64, rows*cols)
	r.FillUniform(data, lo, hi)
	return mat.NewDense(rows, cols, data)
}

// GaussianMatrix returns a rows × cols matrix of standard normal values.
func (r *RNG) GaussianMatrix(rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	r.FillGaussian(data)
	return mat.NewDense(rows, cols, data)
}

// Ishigami evaluates the Ishigami function
//
//	f(x) = sin(x1) + a·sin²(x2) + b·x3⁴·sin(x1)
//
// on every row of x (n × 3), usually sampled from [-π, π]³.
func Ishigami(x mat.Matrix, a, b float64) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := range out {
		x1, x2, x3 := x.At(i, 0), x.At(i, 1), x.At(i, 2)
		s2 := math.Sin(x2)
		out[i] = math.Sin(x1) + a*s2*s2 + b*math.Pow(x3, 4)*math.Sin(x1)
	}
	return out
}

// IshigamiGradient returns the n × 3 gradient of Ishigami.
func IshigamiGradient(x mat.Matrix, a, b float64) *mat.Dense {
	n, _ := x.Dims()
	g := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		x1, x2, x3 := x.At(i, 0), x.At(i, 1), x.At(i, 2)
		g.Set(i, 0, math.Cos(x1)*(1+b*math.Pow(x3, 4)))
		g.Set(i, 1, 2*a*math.Sin(x2)*math.Cos(x2))
		g.Set(i, 2, 4*b*math.Pow(x3, 3)*math.Sin(x1))
	}
	return g
}

// Peaks evaluates the two-dimensional peaks surface on every row of x (n × 2).
func Peaks(x mat.Matrix) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i], _, _ = peaks(x.At(i, 0), x.At(i, 1))
	}
	return out
}

// PeaksGradient returns the n × 2 gradient of Peaks.
func PeaksGradient(x mat.Matrix) *mat.Dense {
	n, _ := x.Dims()
	g := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		_, dx, dy := peaks(x.At(i, 0), x.At(i, 1))
		g.Set(i, 0, dx)
		g.Set(i, 1, dy)
	}
	return g
}

func peaks(x, y float64) (f, dx, dy float64) {
	a := math.Exp(-x*x - (y+1)*(y+1))
	b := math.Exp(-x*x - y*y)
	c := math.Exp(-(x+1)*(x+1) - y*y)
	u := x/5 - x*x*x - math.Pow(y, 5)

	f = 3*(1-x)*(1-x)*a - 10*u*b - c/3
	dx = 3*(-2*(1-x)-2*x*(1-x)*(1-x))*a -
		10*((0.2-3*x*x)-2*x*u)*b +
		2*(x+1)/3*c
	dy = -6*(1-x)*(1-x)*(y+1)*a -
		10*(-5*math.Pow(y, 4)-2*y*u)*b +
		2*y/3*c
	return f, dx, dy
}
