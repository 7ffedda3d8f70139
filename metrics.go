package gpcgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus adapter.
type MetricsCollector interface {
	// RecordBuild is called after each design matrix build.
	// duration is the total time taken, err is nil if successful.
	RecordBuild(shape Shape, duration time.Duration, err error)

	// RecordEvaluate is called after each surrogate evaluation.
	RecordEvaluate(shape Shape, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(Shape, time.Duration, error)    {}
func (NoopMetricsCollector) RecordEvaluate(Shape, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount         atomic.Int64
	BuildErrors        atomic.Int64
	BuildSamples       atomic.Int64
	BuildTotalNanos    atomic.Int64
	EvaluateCount      atomic.Int64
	EvaluateErrors     atomic.Int64
	EvaluateSamples    atomic.Int64
	EvaluateTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(shape Shape, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildSamples.Add(int64(shape.Arguments))
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(shape Shape, duration time.Duration, err error) {
	b.EvaluateCount.Add(1)
	b.EvaluateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EvaluateErrors.Add(1)
		return
	}
	b.EvaluateSamples.Add(int64(shape.Arguments))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		BuildSamples:     b.BuildSamples.Load(),
		BuildAvgNanos:    avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		EvaluateCount:    b.EvaluateCount.Load(),
		EvaluateErrors:   b.EvaluateErrors.Load(),
		EvaluateSamples:  b.EvaluateSamples.Load(),
		EvaluateAvgNanos: avg(b.EvaluateTotalNanos.Load(), b.EvaluateCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildErrors      int64
	BuildSamples     int64
	BuildAvgNanos    int64
	EvaluateCount    int64
	EvaluateErrors   int64
	EvaluateSamples  int64
	EvaluateAvgNanos int64
}
