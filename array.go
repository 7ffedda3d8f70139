package gpcgo

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// Array3 is a dense row-major three-dimensional float64 array, used for the
// design matrix (samples × basis rows × slots) and for gradients
// (samples × outputs × dims).
type Array3 struct {
	d0, d1, d2 int
	data       []float64
}

// NewArray3 allocates a zeroed d0 × d1 × d2 array.
func NewArray3(d0, d1, d2 int) *Array3 {
	if d0 < 0 || d1 < 0 || d2 < 0 {
		panic(fmt.Sprintf("gpcgo: negative Array3 dimension %d×%d×%d", d0, d1, d2))
	}
	return &Array3{d0: d0, d1: d1, d2: d2, data: make([]float64, d0*d1*d2)}
}

// WrapArray3 views data as a d0 × d1 × d2 array without copying.
func WrapArray3(d0, d1, d2 int, data []float64) (*Array3, error) {
	if d0 < 0 || d1 < 0 || d2 < 0 || len(data) != d0*d1*d2 {
		return nil, fmt.Errorf("%w: %d values for %d×%d×%d", ErrShapeMismatch, len(data), d0, d1, d2)
	}
	return &Array3{d0: d0, d1: d1, d2: d2, data: data}, nil
}

// Dims returns the extents of the three axes.
func (a *Array3) Dims() (d0, d1, d2 int) { return a.d0, a.d1, a.d2 }

// At returns the element at (i, j, k).
func (a *Array3) At(i, j, k int) float64 { return a.data[a.index(i, j, k)] }

// Set sets the element at (i, j, k).
func (a *Array3) Set(i, j, k int, v float64) { a.data[a.index(i, j, k)] = v }

func (a *Array3) index(i, j, k int) int {
	if uint(i) >= uint(a.d0) || uint(j) >= uint(a.d1) || uint(k) >= uint(a.d2) {
		panic(fmt.Sprintf("gpcgo: index (%d, %d, %d) out of range %d×%d×%d", i, j, k, a.d0, a.d1, a.d2))
	}
	return (i*a.d1+j)*a.d2 + k
}

// RawData returns the backing slice.
func (a *Array3) RawData() []float64 { return a.data }

// Plane copies a[:, :, k] into a new d0 × d1 matrix.
func (a *Array3) Plane(k int) *mat.Dense {
	if uint(k) >= uint(a.d2) {
		panic(fmt.Sprintf("gpcgo: plane %d out of range %d", k, a.d2))
	}
	m := mat.NewDense(a.d0, a.d1, nil)
	for i := 0; i < a.d0; i++ {
		for j := 0; j < a.d1; j++ {
			m.Set(i, j, a.data[(i*a.d1+j)*a.d2+k])
		}
	}
	return m
}

// Slice returns a[i] as a d1 × d2 matrix sharing storage with a.
func (a *Array3) Slice(i int) *mat.Dense {
	if uint(i) >= uint(a.d0) {
		panic(fmt.Sprintf("gpcgo: slice %d out of range %d", i, a.d0))
	}
	n := a.d1 * a.d2
	return mat.NewDense(a.d1, a.d2, a.data[i*n:(i+1)*n])
}

// Fill sets every element to v.
func (a *Array3) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Shape describes the extents of one kernel call.
type Shape struct {
	Arguments int
	Basis     int
	Dims      int
	Outputs   int // 0 for design matrix builds
	Gradient  bool
}

// LogValue implements slog.LogValuer.
func (s Shape) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("arguments", s.Arguments),
		slog.Int("basis", s.Basis),
		slog.Int("dims", s.Dims),
	}
	if s.Outputs > 0 {
		attrs = append(attrs, slog.Int("outputs", s.Outputs))
	}
	attrs = append(attrs, slog.Bool("gradient", s.Gradient))
	return slog.GroupValue(attrs...)
}
