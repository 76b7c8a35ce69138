package imputego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    injectCounter   prometheus.Counter
//	    imputeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordInject(duration time.Duration, err error) {
//	    p.injectCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInject is called after each missingness injection.
	// duration is the total time taken, err is nil if successful.
	RecordInject(duration time.Duration, err error)

	// RecordImpute is called after each imputation run.
	// strategy names the imputer, duration is the time taken,
	// err is nil if successful.
	RecordImpute(strategy string, duration time.Duration, err error)

	// RecordEvaluate is called after each accuracy evaluation.
	RecordEvaluate(duration time.Duration, err error)

	// RecordBenchmark is called after each full strategy comparison.
	// pairs is the number of strategy/target cells scored, failed is the
	// number that produced an error record.
	RecordBenchmark(pairs, failed int, duration time.Duration)

	// RecordExport is called after each report export.
	RecordExport(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInject(time.Duration, error)         {}
func (NoopMetricsCollector) RecordImpute(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordEvaluate(time.Duration, error)       {}
func (NoopMetricsCollector) RecordBenchmark(int, int, time.Duration)   {}
func (NoopMetricsCollector) RecordExport(time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InjectCount      atomic.Int64
	InjectErrors     atomic.Int64
	InjectTotalNanos atomic.Int64
	ImputeCount      atomic.Int64
	ImputeErrors     atomic.Int64
	ImputeTotalNanos atomic.Int64
	EvaluateCount    atomic.Int64
	EvaluateErrors   atomic.Int64
	BenchmarkCount   atomic.Int64
	BenchmarkPairs   atomic.Int64
	BenchmarkFailed  atomic.Int64
	ExportCount      atomic.Int64
	ExportErrors     atomic.Int64
}

// RecordInject implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInject(duration time.Duration, err error) {
	b.InjectCount.Add(1)
	b.InjectTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InjectErrors.Add(1)
	}
}

// RecordImpute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImpute(strategy string, duration time.Duration, err error) {
	b.ImputeCount.Add(1)
	b.ImputeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ImputeErrors.Add(1)
	}
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(duration time.Duration, err error) {
	b.EvaluateCount.Add(1)
	if err != nil {
		b.EvaluateErrors.Add(1)
	}
}

// RecordBenchmark implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBenchmark(pairs, failed int, duration time.Duration) {
	b.BenchmarkCount.Add(1)
	b.BenchmarkPairs.Add(int64(pairs))
	b.BenchmarkFailed.Add(int64(failed))
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(duration time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InjectCount:     b.InjectCount.Load(),
		InjectErrors:    b.InjectErrors.Load(),
		InjectAvgNanos:  b.getAvgInjectNanos(),
		ImputeCount:     b.ImputeCount.Load(),
		ImputeErrors:    b.ImputeErrors.Load(),
		ImputeAvgNanos:  b.getAvgImputeNanos(),
		EvaluateCount:   b.EvaluateCount.Load(),
		EvaluateErrors:  b.EvaluateErrors.Load(),
		BenchmarkCount:  b.BenchmarkCount.Load(),
		BenchmarkPairs:  b.BenchmarkPairs.Load(),
		BenchmarkFailed: b.BenchmarkFailed.Load(),
		ExportCount:     b.ExportCount.Load(),
		ExportErrors:    b.ExportErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgInjectNanos() int64 {
	count := b.InjectCount.Load()
	if count == 0 {
		return 0
	}
	return b.InjectTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgImputeNanos() int64 {
	count := b.ImputeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ImputeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InjectCount     int64
	InjectErrors    int64
	InjectAvgNanos  int64
	ImputeCount     int64
	ImputeErrors    int64
	ImputeAvgNanos  int64
	EvaluateCount   int64
	EvaluateErrors  int64
	BenchmarkCount  int64
	BenchmarkPairs  int64
	BenchmarkFailed int64
	ExportCount     int64
	ExportErrors    int64
}
