package gpcgo

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gpcgo/multiindex"
)

// Surrogate bundles an engine with a fitted expansion and allocates output
// buffers on every call.
type Surrogate struct {
	engine *Engine
	table  *multiindex.Table
	coeffs *mat.Dense
}

// NewSurrogate binds table and coeffs (basis rows × outputs) to e. coeffs is
// used as-is and must not be modified while the surrogate is in use.
func NewSurrogate(e *Engine, table *multiindex.Table, coeffs *mat.Dense) (*Surrogate, error) {
	if e == nil || table == nil {
		return nil, fmt.Errorf("%w: engine and table are required", ErrShapeMismatch)
	}
	if coeffs == nil || coeffs.IsEmpty() {
		return nil, fmt.Errorf("%w: coefficients are empty", ErrShapeMismatch)
	}
	if r, _ := coeffs.Dims(); r != table.Len() {
		return nil, shapeErr("coefficients", 0, table.Len(), r)
	}
	if _, err := e.resolveFamilies(table.Dims()); err != nil {
		return nil, err
	}
	return &Surrogate{engine: e, table: table, coeffs: coeffs}, nil
}

// Outputs returns the number of output quantities.
func (s *Surrogate) Outputs() int {
	_, c := s.coeffs.Dims()
	return c
}

// Dims returns the number of input dimensions.
func (s *Surrogate) Dims() int { return s.table.Dims() }

// Table returns the multi-index table.
func (s *Surrogate) Table() *multiindex.Table { return s.table }

// Predict evaluates the surrogate at samples. gradients is nil unless the
// engine has gradients enabled.
func (s *Surrogate) Predict(ctx context.Context, samples *mat.Dense) (*mat.Dense, *Array3, error) {
	if samples == nil || samples.IsEmpty() {
		return nil, nil, fmt.Errorf("%w: samples are empty", ErrShapeMismatch)
	}
	n, _ := samples.Dims()

	values := mat.NewDense(n, s.Outputs(), nil)
	var gradients *Array3
	if s.engine.Gradient() {
		gradients = NewArray3(n, s.Outputs(), s.table.Dims())
	}
	if err := s.engine.Evaluate(ctx, samples, s.table, s.coeffs, values, gradients); err != nil {
		return nil, nil, err
	}
	return values, gradients, nil
}

// DesignMatrix builds the design matrix of the surrogate's basis at samples.
func (s *Surrogate) DesignMatrix(ctx context.Context, samples *mat.Dense) (*Array3, error) {
	if samples == nil || samples.IsEmpty() {
		return nil, fmt.Errorf("%w: samples are empty", ErrShapeMismatch)
	}
	n, _ := samples.Dims()
	out := NewArray3(n, s.table.Len(), s.engine.Slots(s.table.Dims()))
	if err := s.engine.BuildDesignMatrix(ctx, samples, s.table, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate returns the per-output NRMSD between reference (samples ×
// outputs) and the surrogate's prediction at samples.
func (s *Surrogate) Validate(ctx context.Context, samples, reference *mat.Dense) ([]float64, error) {
	pred, _, err := s.Predict(ctx, samples)
	if err != nil {
		return nil, err
	}
	return NRMSD(reference, pred)
}
