package gpcgo

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/gpcgo/basis"
	"github.com/hupe1980/gpcgo/internal/parallel"
	"github.com/hupe1980/gpcgo/resource"
)

// DefaultNonFiniteReportInterval bounds how often an engine warns about
// non-finite sample coordinates.
const DefaultNonFiniteReportInterval = time.Second

type options struct {
	families          []basis.Family
	gradient          bool
	workers           int
	threshold         int
	metricsCollector  MetricsCollector
	logger            *Logger
	tracerProvider    trace.TracerProvider
	controller        *resource.Controller
	nonFiniteInterval time.Duration
}

// Option configures an Engine.
type Option func(*options)

// WithFamily sets a single family used for every input dimension.
func WithFamily(f basis.Family) Option {
	return func(o *options) {
		o.families = []basis.Family{f}
	}
}

// WithFamilies sets one family per input dimension, in dimension order.
// Engines built this way only accept samples with len(fs) columns.
func WithFamilies(fs ...basis.Family) Option {
	return func(o *options) {
		o.families = append([]basis.Family(nil), fs...)
	}
}

// WithGradient selects whether kernels also produce partial derivatives.
//
// The flag fixes the output layout: design matrices have 1 slot per basis
// row without gradients and n_dim+1 with them, and Evaluate requires a
// gradient buffer exactly when the flag is set.
func WithGradient(enabled bool) Option {
	return func(o *options) {
		o.gradient = enabled
	}
}

// WithWorkers sets the number of goroutines a single call may use.
// n <= 0 uses runtime.GOMAXPROCS(0); 1 runs serially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithParallelThreshold sets the smallest batch that is split across
// workers. Smaller batches run on the calling goroutine.
func WithParallelThreshold(rows int) Option {
	return func(o *options) {
		o.threshold = rows
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gpcgo.BasicMetricsCollector{}
//	e, _ := gpcgo.New(gpcgo.WithFamily(leg), gpcgo.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg latency: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := gpcgo.NewJSONLogger(slog.LevelInfo)
//	e, _ := gpcgo.New(gpcgo.WithFamily(leg), gpcgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for spans.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithController shares a resource controller between engines to bound
// their combined workers and scratch memory.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithNonFiniteReportInterval sets how often non-finite sample warnings are
// logged. Zero logs at most once per engine.
func WithNonFiniteReportInterval(d time.Duration) Option {
	return func(o *options) {
		o.nonFiniteInterval = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threshold:         parallel.DefaultThreshold,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		nonFiniteInterval: DefaultNonFiniteReportInterval,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	return o
}
