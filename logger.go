package gpcgo

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Logger wraps slog.Logger with gpcgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithEngine attaches the engine configuration to every record.
func (l *Logger) WithEngine(workers int, gradient bool, kernel string) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.Group("engine",
				slog.Int("workers", workers),
				slog.Bool("gradient", gradient),
				slog.String("kernel", kernel),
			),
		),
	}
}

// LogBuild logs a design matrix build.
func (l *Logger) LogBuild(ctx context.Context, shape Shape, duration time.Duration, err error) {
	l.logCall(ctx, "design matrix build", shape, duration, err)
}

// LogEvaluate logs a surrogate evaluation.
func (l *Logger) LogEvaluate(ctx context.Context, shape Shape, duration time.Duration, err error) {
	l.logCall(ctx, "evaluate", shape, duration, err)
}

// logCall logs failures at error level and successful calls at debug level.
func (l *Logger) logCall(ctx context.Context, op string, shape Shape, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed", "shape", shape, "error", err)
		return
	}
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, op+" done",
		"shape", shape,
		"duration", duration,
		"samples_per_sec", samplesPerSecond(shape.Arguments, duration),
	)
}

func samplesPerSecond(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

// LogNonFinite reports sample rows holding NaN or Inf coordinates.
func (l *Logger) LogNonFinite(ctx context.Context, op string, rows *roaring.Bitmap) {
	attrs := []any{
		"op", op,
		"rows", rows.GetCardinality(),
		"first", rows.Minimum(),
	}
	if rows.GetCardinality() <= 16 {
		attrs = append(attrs, "indices", rows.ToArray())
	}
	l.WarnContext(ctx, "non-finite sample coordinates propagate to outputs", attrs...)
}
