package knnmeans

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with knnmeans-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithK adds a k (neighbor or cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDataset adds a dataset name field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, name string, records int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"dataset", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "loaded dataset",
		"dataset", name,
		"records", records,
		"elapsed", elapsed,
	)
}

// LogCondense logs the outcome of a condensing run.
func (l *Logger) LogCondense(ctx context.Context, training, condensed, passes int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "condense failed",
			"training", training,
			"condensed", condensed,
			"passes", passes,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "condensed training set",
		"training", training,
		"condensed", condensed,
		"passes", passes,
		"elapsed", elapsed,
	)
}

// LogClassify logs the accuracy for one k.
func (l *Logger) LogClassify(ctx context.Context, k int, accuracy float64, misclassified, samples int) {
	l.InfoContext(ctx, "classified test set",
		"k", k,
		"accuracy", accuracy,
		"misclassified", misclassified,
		"samples", samples,
	)
}

// LogCluster logs a finished k-means run.
func (l *Logger) LogCluster(ctx context.Context, k, iterations int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"k", k,
			"iterations", iterations,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "clustered",
		"k", k,
		"iterations", iterations,
		"elapsed", elapsed,
	)
}

// LogQuality logs a quality index. Undefined indices are logged at warn level.
func (l *Logger) LogQuality(ctx context.Context, index string, k int, value float64, elapsed time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "quality index undefined",
			"index", index,
			"k", k,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "calculated quality index",
		"index", index,
		"k", k,
		"value", value,
		"elapsed", elapsed,
	)
}
