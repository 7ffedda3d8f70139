// Package prometheus exports engine metrics through the Prometheus client
// library.
//
//	reg := prometheus.NewRegistry()
//	c, err := gpcprom.NewCollector(reg)
//	e, err := gpcgo.New(gpcgo.WithFamily(f), gpcgo.WithMetricsCollector(c))
package prometheus

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/gpcgo"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "gpcgo"

const (
	opBuild    = "build"
	opEvaluate = "evaluate"
)

// Collector implements gpcgo.MetricsCollector on Prometheus histograms and
// counters.
type Collector struct {
	durations *prom.HistogramVec
	samples   *prom.CounterVec
	basis     *prom.HistogramVec
	errors    *prom.CounterVec
}

type options struct {
	namespace string
	buckets   []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace replaces DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prom.Registerer, optFns ...Option) (*Collector, error) {
	o := options{
		namespace: DefaultNamespace,
		buckets:   prom.ExponentialBuckets(1e-5, 4, 12),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	c := &Collector{
		durations: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: o.namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of design matrix builds and surrogate evaluations",
			Buckets:   o.buckets,
		}, []string{"op", "status"}),
		samples: prom.NewCounterVec(prom.CounterOpts{
			Namespace: o.namespace,
			Name:      "samples_total",
			Help:      "Samples processed by successful calls",
		}, []string{"op"}),
		basis: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: o.namespace,
			Name:      "basis_rows",
			Help:      "Multi-index table size per call",
			Buckets:   prom.ExponentialBuckets(1, 2, 14),
		}, []string{"op"}),
		errors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: o.namespace,
			Name:      "errors_total",
			Help:      "Failed calls",
		}, []string{"op"}),
	}

	for _, col := range []prom.Collector{c.durations, c.samples, c.basis, c.errors} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordBuild implements gpcgo.MetricsCollector.
func (c *Collector) RecordBuild(shape gpcgo.Shape, duration time.Duration, err error) {
	c.record(opBuild, shape, duration, err)
}

// RecordEvaluate implements gpcgo.MetricsCollector.
func (c *Collector) RecordEvaluate(shape gpcgo.Shape, duration time.Duration, err error) {
	c.record(opEvaluate, shape, duration, err)
}

func (c *Collector) record(op string, shape gpcgo.Shape, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		c.errors.WithLabelValues(op).Inc()
	}
	c.durations.WithLabelValues(op, status).Observe(duration.Seconds())
	if err != nil {
		return
	}
	c.samples.WithLabelValues(op).Add(float64(shape.Arguments))
	c.basis.WithLabelValues(op).Observe(float64(shape.Basis))
}

var _ gpcgo.MetricsCollector = (*Collector)(nil)
