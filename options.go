package imputego

import (
	"log/slog"

	"github.com/hupe1980/imputego/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures Imputego constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &imputego.BasicMetricsCollector{}
//	ig, _ := imputego.New(ds, imputego.WithMetricsCollector(metrics))
//	// ... use ig ...
//	stats := metrics.GetStats()
//	fmt.Printf("Imputations: %d, Avg latency: %dns\n", stats.ImputeCount, stats.ImputeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := imputego.NewJSONLogger(slog.LevelInfo)
//	ig, _ := imputego.New(ds, imputego.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

// WithResourceController bounds the concurrency of Benchmark runs and, when
// the controller carries an IO limit, throttles dataset loads and report
// writes. Pass nil to run every strategy on its own goroutine with
// unthrottled IO.
//
// Example:
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 2})
//	ig, _ := imputego.New(ds, imputego.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
