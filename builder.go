// This file implements the fluent builder API for creating and configuring
// engines. Builders are immutable - each method returns a new builder with
// the updated configuration.

package gpcgo

import (
	"fmt"

	"github.com/hupe1980/gpcgo/basis"
	"github.com/hupe1980/gpcgo/resource"
)

// Builder is an immutable fluent builder for Engine.
// Each family method appends one input dimension.
//
// Example:
//
//	e, err := gpcgo.NewBuilder().
//	    Legendre(0, 1).
//	    Hermite(0, 2).
//	    Gradient().
//	    Workers(4).
//	    Build()
type Builder struct {
	specs      []basis.Spec
	maxDegree  int
	gradient   bool
	workers    int
	threshold  int
	logger     *Logger
	metrics    MetricsCollector
	controller *resource.Controller
}

// NewBuilder returns an empty builder.
func NewBuilder() Builder {
	return Builder{}
}

func (b Builder) with(spec basis.Spec) Builder {
	specs := make([]basis.Spec, len(b.specs), len(b.specs)+1)
	copy(specs, b.specs)
	b.specs = append(specs, spec)
	return b
}

// Legendre adds a dimension uniformly distributed on [lo, hi].
func (b Builder) Legendre(lo, hi float64) Builder {
	return b.with(basis.Spec{Kind: basis.Legendre, Lo: lo, Hi: hi})
}

// Hermite adds a normally distributed dimension.
func (b Builder) Hermite(mean, std float64) Builder {
	return b.with(basis.Spec{Kind: basis.Hermite, Mean: mean, Std: std})
}

// Laguerre adds a gamma distributed dimension.
func (b Builder) Laguerre(alpha, loc, scale float64) Builder {
	return b.with(basis.Spec{Kind: basis.Laguerre, Alpha: alpha, Loc: loc, Scale: scale})
}

// Jacobi adds a beta distributed dimension on [lo, hi].
func (b Builder) Jacobi(alpha, beta, lo, hi float64) Builder {
	return b.with(basis.Spec{Kind: basis.Jacobi, Alpha: alpha, Beta: beta, Lo: lo, Hi: hi})
}

// Family adds a dimension from a declarative spec.
func (b Builder) Family(spec basis.Spec) Builder {
	return b.with(spec)
}

// MaxDegree sets the recurrence table size of every family.
func (b Builder) MaxDegree(n int) Builder {
	b.maxDegree = n
	return b
}

// Gradient enables partial derivatives.
func (b Builder) Gradient() Builder {
	b.gradient = true
	return b
}

// Workers sets the per-call worker count.
func (b Builder) Workers(n int) Builder {
	b.workers = n
	return b
}

// ParallelThreshold sets the smallest batch split across workers.
func (b Builder) ParallelThreshold(rows int) Builder {
	b.threshold = rows
	return b
}

// Logger sets the logger.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Controller sets a shared resource controller.
func (b Builder) Controller(c *resource.Controller) Builder {
	b.controller = c
	return b
}

// Config returns the declarative form of the builder.
func (b Builder) Config() Config {
	return Config{
		Families:          append([]basis.Spec(nil), b.specs...),
		Gradient:          b.gradient,
		Workers:           b.workers,
		ParallelThreshold: b.threshold,
		MaxDegree:         b.maxDegree,
	}
}

// Build creates the Engine.
func (b Builder) Build() (*Engine, error) {
	if len(b.specs) == 0 {
		return nil, fmt.Errorf("%w: builder has no dimensions", ErrInvalidBasisFamily)
	}
	var opts []Option
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	if b.controller != nil {
		opts = append(opts, WithController(b.controller))
	}
	return NewFromConfig(b.Config(), opts...)
}
