package imputego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with imputego-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(strategy string) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", strategy),
	}
}

// WithTarget adds a target column field to the logger.
func (l *Logger) WithTarget(target string) *Logger {
	return &Logger{
		Logger: l.Logger.With("target", target),
	}
}

// WithSeed adds a seed field to the logger (useful for tagging runs).
func (l *Logger) WithSeed(seed uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// LogLoad logs a dataset load operation.
func (l *Logger) LogLoad(ctx context.Context, rows, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogInject logs a missingness injection.
func (l *Logger) LogInject(ctx context.Context, determinant string, proportion float64, nulled int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "inject failed",
			"determinant", determinant,
			"proportion", proportion,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "inject completed",
			"determinant", determinant,
			"proportion", proportion,
			"nulled", nulled,
		)
	}
}

// LogImpute logs an imputation run.
func (l *Logger) LogImpute(ctx context.Context, strategy string, targets, completions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "impute failed",
			"strategy", strategy,
			"targets", targets,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "impute completed",
			"strategy", strategy,
			"targets", targets,
			"completions", completions,
		)
	}
}

// LogEvaluate logs an accuracy evaluation.
func (l *Logger) LogEvaluate(ctx context.Context, strategy, target string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluate failed",
			"strategy", strategy,
			"target", target,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "evaluate completed",
			"strategy", strategy,
			"target", target,
		)
	}
}

// LogBenchmark logs a full strategy comparison.
func (l *Logger) LogBenchmark(ctx context.Context, strategies, targets, failed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "benchmark failed",
			"strategies", strategies,
			"targets", targets,
			"error", err,
		)
	} else if failed > 0 {
		l.WarnContext(ctx, "benchmark completed with failures",
			"strategies", strategies,
			"targets", targets,
			"failed", failed,
		)
	} else {
		l.InfoContext(ctx, "benchmark completed",
			"strategies", strategies,
			"targets", targets,
		)
	}
}

// LogExport logs a report export.
func (l *Logger) LogExport(ctx context.Context, runID string, blobs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"run_id", runID,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export completed",
			"run_id", runID,
			"blobs", blobs,
		)
	}
}
