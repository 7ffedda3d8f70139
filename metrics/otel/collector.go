// Package otel exports engine metrics through an OpenTelemetry
// MeterProvider.
package otel

import (
	"context"
	"time"

	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hupe1980/gpcgo"
)

// ScopeName is the instrumentation scope of the collector's meter.
const ScopeName = "github.com/hupe1980/gpcgo"

var (
	attrBuild    = attribute.String("gpcgo.op", "build")
	attrEvaluate = attribute.String("gpcgo.op", "evaluate")
	attrSuccess  = attribute.String("gpcgo.status", "success")
	attrError    = attribute.String("gpcgo.status", "error")
)

// Collector implements gpcgo.MetricsCollector on OpenTelemetry instruments.
type Collector struct {
	duration metric.Float64Histogram
	calls    metric.Int64Counter
	samples  metric.Int64Counter
}

// NewCollector creates the instruments on mp. A nil mp uses the global
// provider.
func NewCollector(mp metric.MeterProvider) (*Collector, error) {
	if mp == nil {
		mp = gootel.GetMeterProvider()
	}
	meter := mp.Meter(ScopeName)

	duration, err := meter.Float64Histogram(
		"gpcgo.operation.duration",
		metric.WithDescription("Duration of design matrix builds and surrogate evaluations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	calls, err := meter.Int64Counter(
		"gpcgo.operation.calls",
		metric.WithDescription("Kernel calls by operation and status"),
	)
	if err != nil {
		return nil, err
	}
	samples, err := meter.Int64Counter(
		"gpcgo.samples",
		metric.WithDescription("Samples processed by successful calls"),
	)
	if err != nil {
		return nil, err
	}

	return &Collector{duration: duration, calls: calls, samples: samples}, nil
}

// RecordBuild implements gpcgo.MetricsCollector.
func (c *Collector) RecordBuild(shape gpcgo.Shape, duration time.Duration, err error) {
	c.record(attrBuild, shape, duration, err)
}

// RecordEvaluate implements gpcgo.MetricsCollector.
func (c *Collector) RecordEvaluate(shape gpcgo.Shape, duration time.Duration, err error) {
	c.record(attrEvaluate, shape, duration, err)
}

func (c *Collector) record(op attribute.KeyValue, shape gpcgo.Shape, duration time.Duration, err error) {
	ctx := context.Background()
	status := attrSuccess
	if err != nil {
		status = attrError
	}
	attrs := metric.WithAttributes(op, status)

	c.duration.Record(ctx, duration.Seconds(), attrs)
	c.calls.Add(ctx, 1, attrs)
	if err == nil {
		c.samples.Add(ctx, int64(shape.Arguments), metric.WithAttributes(op))
	}
}

var _ gpcgo.MetricsCollector = (*Collector)(nil)
