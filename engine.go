package gpcgo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gpcgo/basis"
	"github.com/hupe1980/gpcgo/internal/kernel"
	"github.com/hupe1980/gpcgo/internal/parallel"
	"github.com/hupe1980/gpcgo/internal/pool"
	"github.com/hupe1980/gpcgo/multiindex"
	"github.com/hupe1980/gpcgo/resource"
)

const tracerName = "github.com/hupe1980/gpcgo"

// Engine evaluates tensor-product polynomial chaos bases and surrogates over
// sample batches.
//
// An Engine holds only immutable configuration and is safe for concurrent
// use. Every call works on caller-owned buffers.
type Engine struct {
	families   []basis.Family
	gradient   bool
	workers    int
	threshold  int
	logger     *Logger
	metrics    MetricsCollector
	tracer     trace.Tracer
	controller *resource.Controller

	nonFinite *rate.Sometimes
}

// New creates an Engine. At least one family is required, either through
// WithFamily (shared by all dimensions) or WithFamilies (one per dimension).
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	if len(o.families) == 0 {
		return nil, fmt.Errorf("%w: no family configured", ErrInvalidBasisFamily)
	}
	for d, f := range o.families {
		if f == nil {
			return nil, fmt.Errorf("%w: family %d is nil", ErrInvalidBasisFamily, d)
		}
	}

	workers := parallel.Workers(o.workers)
	return &Engine{
		families:   o.families,
		gradient:   o.gradient,
		workers:    workers,
		threshold:  o.threshold,
		logger:     o.logger.WithEngine(workers, o.gradient, kernel.ActiveVariant().String()),
		metrics:    o.metricsCollector,
		tracer:     o.tracerProvider.Tracer(tracerName),
		controller: o.controller,
		nonFinite:  &rate.Sometimes{Interval: o.nonFiniteInterval},
	}, nil
}

// Gradient reports whether the engine computes partial derivatives.
func (e *Engine) Gradient() bool { return e.gradient }

// Workers returns the resolved per-call worker count.
func (e *Engine) Workers() int { return e.workers }

// Families returns the configured families.
func (e *Engine) Families() []basis.Family {
	return append([]basis.Family(nil), e.families...)
}

// Slots returns the number of design-matrix slots per (sample, basis row)
// for samples with dims columns.
func (e *Engine) Slots(dims int) int {
	if e.gradient {
		return dims + 1
	}
	return 1
}

// BuildDesignMatrix evaluates every basis row of table at every sample and
// writes the result into out, shaped samples × basis rows × slots. Slot 0
// holds the basis value; with gradients enabled slot d+1 holds the partial
// derivative with respect to dimension d.
//
// All shapes and degrees are validated before anything is written. On error
// the contents of out are unspecified.
func (e *Engine) BuildDesignMatrix(ctx context.Context, samples *mat.Dense, table *multiindex.Table, out *Array3) error {
	start := time.Now()
	shape := e.shape(samples, table, 0)

	ctx, span := e.startSpan(ctx, "gpcgo.BuildDesignMatrix", shape)
	defer span.End()

	err := e.buildDesignMatrix(ctx, samples, table, out)
	err = translateError(err)

	duration := time.Since(start)
	endSpan(span, err)
	e.metrics.RecordBuild(shape, duration, err)
	e.logger.LogBuild(ctx, shape, duration, err)

	return err
}

func (e *Engine) buildDesignMatrix(ctx context.Context, samples *mat.Dense, table *multiindex.Table, out *Array3) error {
	p, err := e.problem(samples, table)
	if err != nil {
		return err
	}
	if out == nil {
		return fmt.Errorf("%w: design matrix is nil", ErrShapeMismatch)
	}
	if err := checkArray3("design", out, p.Samples.Rows, p.Basis.Rows, p.Slots()); err != nil {
		return err
	}

	e.reportNonFinite(ctx, "build", samples)

	data := out.RawData()
	return e.run(ctx, p, false, func(start, end int, sc *kernel.Scratch) error {
		return p.Design(data, start, end, sc)
	})
}

// Evaluate computes the surrogate defined by table and coeffs (basis rows ×
// outputs) at every sample, writing values (samples × outputs) and, when the
// engine has gradients enabled, gradients (samples × outputs × dims).
// gradients must be nil when gradients are disabled.
//
// The design matrix is never materialised; basis values are recomputed per
// sample and accumulated with compensated summation.
func (e *Engine) Evaluate(ctx context.Context, samples *mat.Dense, table *multiindex.Table, coeffs, values *mat.Dense, gradients *Array3) error {
	start := time.Now()
	outputs := 0
	if coeffs != nil && !coeffs.IsEmpty() {
		_, outputs = coeffs.Dims()
	}
	shape := e.shape(samples, table, outputs)

	ctx, span := e.startSpan(ctx, "gpcgo.Evaluate", shape)
	defer span.End()

	err := e.evaluate(ctx, samples, table, coeffs, values, gradients)
	err = translateError(err)

	duration := time.Since(start)
	endSpan(span, err)
	e.metrics.RecordEvaluate(shape, duration, err)
	e.logger.LogEvaluate(ctx, shape, duration, err)

	return err
}

func (e *Engine) evaluate(ctx context.Context, samples *mat.Dense, table *multiindex.Table, coeffs, values *mat.Dense, gradients *Array3) error {
	p, err := e.problem(samples, table)
	if err != nil {
		return err
	}
	n, rows, dims := p.Samples.Rows, p.Basis.Rows, p.Basis.Dims

	c, err := rawMatrix("coefficients", coeffs)
	if err != nil {
		return err
	}
	if c.Rows != rows {
		return shapeErr("coefficients", 0, rows, c.Rows)
	}
	v, err := rawMatrix("values", values)
	if err != nil {
		return err
	}
	if v.Rows != n {
		return shapeErr("values", 0, n, v.Rows)
	}
	if v.Cols != c.Cols {
		return shapeErr("values", 1, c.Cols, v.Cols)
	}

	var grads []float64
	switch {
	case e.gradient && gradients == nil:
		return fmt.Errorf("%w: gradients buffer required", ErrShapeMismatch)
	case !e.gradient && gradients != nil:
		return fmt.Errorf("%w: gradients buffer given but gradients are disabled", ErrShapeMismatch)
	case e.gradient:
		if err := checkArray3("gradients", gradients, n, c.Cols, dims); err != nil {
			return err
		}
		grads = gradients.RawData()
	}

	e.reportNonFinite(ctx, "evaluate", samples)

	return e.run(ctx, p, true, func(start, end int, sc *kernel.Scratch) error {
		return p.Approximate(c, v, grads, start, end, sc)
	})
}

// problem validates samples against table and the configured families.
func (e *Engine) problem(samples *mat.Dense, table *multiindex.Table) (*kernel.Problem, error) {
	s, err := rawMatrix("samples", samples)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("%w: multi-index table is nil", ErrShapeMismatch)
	}
	dims := table.Dims()
	if s.Cols != dims {
		return nil, shapeErr("samples", 1, dims, s.Cols)
	}

	fams, err := e.resolveFamilies(dims)
	if err != nil {
		return nil, err
	}
	polys := make([]kernel.Polynomial, dims)
	for d, f := range fams {
		if k := table.MaxDegree(d); k > f.MaxDegree() {
			return nil, fmt.Errorf("%w: dimension %d: %w", ErrUnsupportedDegree, d,
				&basis.DegreeError{Kind: f.Kind(), Degree: k, MaxDegree: f.MaxDegree()})
		}
		polys[d] = f
	}

	return &kernel.Problem{
		Basis: &kernel.Basis{
			Dims:       dims,
			Rows:       table.Len(),
			Degrees:    table.Degrees(),
			MaxDegrees: table.MaxDegrees(),
			Families:   polys,
		},
		Samples:  s,
		Gradient: e.gradient,
	}, nil
}

func (e *Engine) resolveFamilies(dims int) ([]basis.Family, error) {
	if len(e.families) == 1 {
		fams := make([]basis.Family, dims)
		for d := range fams {
			fams[d] = e.families[0]
		}
		return fams, nil
	}
	if len(e.families) != dims {
		return nil, shapeErr("families", 0, dims, len(e.families))
	}
	return e.families, nil
}

// run partitions the sample rows and calls fn on each chunk with its own
// scratch buffers.
func (e *Engine) run(ctx context.Context, p *kernel.Problem, approximate bool, fn func(start, end int, sc *kernel.Scratch) error) error {
	n := p.Samples.Rows
	floats := kernel.ScratchFloats(p, approximate)

	cfg := parallel.Config{
		Workers:   e.workers,
		Threshold: e.threshold,
	}

	if e.controller != nil {
		active := 1
		if n >= e.threshold {
			active = min(e.workers, n)
		}
		r, err := e.controller.ReserveScratch(ctx, floats, active)
		if err != nil {
			return err
		}
		defer r.Release()

		// Under memory pressure the reservation may cover fewer chunks.
		if r.Workers() < active {
			cfg.Workers = r.Workers()
		}
		cfg.Limiter = e.controller
	}

	return parallel.For(ctx, n, cfg, func(start, end int) error {
		buf := pool.GetFloats(floats)
		defer pool.PutFloats(buf)
		return fn(start, end, kernel.NewScratch(p, approximate, *buf))
	})
}

func (e *Engine) reportNonFinite(ctx context.Context, op string, samples *mat.Dense) {
	if !e.logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	rows := NonFiniteRows(samples)
	if rows.IsEmpty() {
		return
	}
	e.nonFinite.Do(func() {
		e.logger.LogNonFinite(ctx, op, rows)
	})
}

func (e *Engine) shape(samples *mat.Dense, table *multiindex.Table, outputs int) Shape {
	s := Shape{Outputs: outputs, Gradient: e.gradient}
	if samples != nil && !samples.IsEmpty() {
		s.Arguments, s.Dims = samples.Dims()
	}
	if table != nil {
		s.Basis = table.Len()
	}
	return s
}

func (e *Engine) startSpan(ctx context.Context, name string, s Shape) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.Int("gpcgo.arguments", s.Arguments),
			attribute.Int("gpcgo.basis", s.Basis),
			attribute.Int("gpcgo.dims", s.Dims),
			attribute.Int("gpcgo.outputs", s.Outputs),
			attribute.Bool("gpcgo.gradient", s.Gradient),
			attribute.Int("gpcgo.workers", e.workers),
			attribute.String("gpcgo.kernel", kernel.ActiveVariant().String()),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// rawMatrix returns the row-major view of m.
func rawMatrix(operand string, m *mat.Dense) (kernel.Matrix, error) {
	if m == nil || m.IsEmpty() {
		return kernel.Matrix{}, fmt.Errorf("%w: %s is empty", ErrShapeMismatch, operand)
	}
	raw := m.RawMatrix()
	return kernel.Matrix{Data: raw.Data, Rows: raw.Rows, Cols: raw.Cols, Stride: raw.Stride}, nil
}

func checkArray3(operand string, a *Array3, d0, d1, d2 int) error {
	g0, g1, g2 := a.Dims()
	switch {
	case g0 != d0:
		return shapeErr(operand, 0, d0, g0)
	case g1 != d1:
		return shapeErr(operand, 1, d1, g1)
	case g2 != d2:
		return shapeErr(operand, 2, d2, g2)
	}
	return nil
}
