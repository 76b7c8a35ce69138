package imputego

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/evaluate"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/impute/forest"
	"github.com/hupe1980/imputego/impute/knn"
	"github.com/hupe1980/imputego/impute/mean"
	"github.com/hupe1980/imputego/impute/mice"
	"github.com/hupe1980/imputego/mar"
	"github.com/hupe1980/imputego/report"
	"github.com/hupe1980/imputego/resource"
)

// DefaultKNNNeighbors is the neighbor count used by the canonical
// nearest-neighbor strategy.
const DefaultKNNNeighbors = 5

// Imputego drives the missingness pipeline over one ground-truth table:
// inject MAR holes, impute them with one or more strategies, and score each
// strategy against the values that were nulled.
type Imputego struct {
	mu        sync.Mutex // Protects amputated and mask
	truth     *dataset.Dataset
	amputated *dataset.Dataset
	mask      *dataset.Mask
	metrics   MetricsCollector
	logger    *Logger
	resources *resource.Controller
}

// New creates an Imputego instance over the given dataset. The dataset is
// cloned, so later mutations of ds do not leak into the pipeline.
func New(ds *dataset.Dataset, optFns ...Option) (*Imputego, error) {
	return newImputego(ds, applyOptions(optFns))
}

func newImputego(ds *dataset.Dataset, opts options) (*Imputego, error) {
	if ds == nil {
		return nil, fmt.Errorf("imputego: nil dataset")
	}

	ig := &Imputego{
		truth:     ds.Clone(),
		metrics:   opts.metricsCollector,
		logger:    opts.logger,
		resources: opts.resources,
	}

	ig.logger.LogLoad(context.Background(), ds.Len(), ds.NumColumns(), nil)

	return ig, nil
}

// NewFromCSV creates an Imputego instance from CSV data. Reads are throttled
// when the configured resource controller carries an IO limit.
func NewFromCSV(r io.Reader, optFns ...Option) (*Imputego, error) {
	opts := applyOptions(optFns)

	if opts.resources != nil {
		r = resource.NewRateLimitedReader(r, opts.resources, context.Background())
	}

	ds, err := dataset.ReadCSV(r)
	if err != nil {
		return nil, translateError(err)
	}
	return newImputego(ds, opts)
}

// NewFromFile creates an Imputego instance from a CSV file. Gzip, zstd and
// lz4 compressed files are decompressed transparently, and reads are
// throttled when the configured resource controller carries an IO limit.
func NewFromFile(path string, optFns ...Option) (*Imputego, error) {
	opts := applyOptions(optFns)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imputego: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if opts.resources != nil {
		r = resource.NewRateLimitedReader(r, opts.resources, context.Background())
	}

	dr, err := dataset.DecompressReader(r)
	if err != nil {
		return nil, translateError(err)
	}

	ds, err := dataset.ReadCSV(dr)
	if err != nil {
		return nil, translateError(err)
	}
	return newImputego(ds, opts)
}

// Truth returns a copy of the fully-observed dataset.
func (ig *Imputego) Truth() *dataset.Dataset {
	return ig.truth.Clone()
}

// Amputated returns a copy of the dataset with injected holes, or nil before
// InjectMAR.
func (ig *Imputego) Amputated() *dataset.Dataset {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	if ig.amputated == nil {
		return nil
	}
	return ig.amputated.Clone()
}

// Mask returns the nulled-cell mask of the last injection, or nil before
// InjectMAR.
func (ig *Imputego) Mask() *dataset.Mask {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	return ig.mask
}

// InjectMAROptions contains options for InjectMAR.
type InjectMAROptions struct {
	// Seed for the noise source. Equal inputs and seed reproduce the same
	// holes.
	Seed uint64

	// NoiseSD is the standard deviation of the gaussian noise added to the
	// determinant scores.
	NoiseSD float64
}

// InjectMAR nulls a proportion of each target column, driven by the observed
// determinant column, and stores the amputated dataset plus the mask of
// nulled cells. The ground truth is never modified, so the same instance can
// be re-injected with different parameters.
func (ig *Imputego) InjectMAR(ctx context.Context, determinant string, proportion float64, targets []string, optFns ...func(o *InjectMAROptions)) error {
	start := time.Now()
	opts := InjectMAROptions{
		Seed:    mar.DefaultSeed,
		NoiseSD: mar.DefaultNoiseSD,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	amputated, mask, err := mar.InjectColumns(ig.truth, determinant, proportion, targets, func(o *mar.Options) {
		o.Seed = opts.Seed
		o.NoiseSD = opts.NoiseSD
	})
	duration := time.Since(start)
	err = translateError(err)

	nulled := 0
	if err == nil {
		for _, name := range mask.Columns() {
			nulled += mask.Count(name)
		}

		ig.mu.Lock()
		ig.amputated = amputated
		ig.mask = mask
		ig.mu.Unlock()
	}

	ig.metrics.RecordInject(duration, err)
	ig.logger.LogInject(ctx, determinant, proportion, nulled, err)
	return err
}

// Impute runs one strategy over the amputated dataset (or the truth when
// nothing was injected) and returns its completed tables.
func (ig *Imputego) Impute(ctx context.Context, strategy impute.Strategy, targets ...string) (*impute.Result, error) {
	if strategy == nil {
		return nil, fmt.Errorf("imputego: nil strategy")
	}
	return ig.imputeOn(ctx, ig.input(), strategy, targets)
}

func (ig *Imputego) imputeOn(ctx context.Context, input *dataset.Dataset, strategy impute.Strategy, targets []string) (*impute.Result, error) {
	start := time.Now()
	run, err := strategy.Impute(ctx, input, targets)
	duration := time.Since(start)
	err = translateError(err)

	completions := 0
	if run != nil {
		completions = len(run.Completions)
	}

	ig.metrics.RecordImpute(strategy.Name(), duration, err)
	ig.logger.LogImpute(ctx, strategy.Name(), len(targets), completions, err)

	if err != nil {
		return nil, err
	}
	return run, nil
}

// Evaluate scores one run's recovery of a masked target against the ground
// truth. Metrics are computed strictly over the nulled cells; for multiple
// completions the per-completion metrics are pooled by elementwise mean.
func (ig *Imputego) Evaluate(ctx context.Context, run *impute.Result, target string) (evaluate.Metrics, error) {
	ig.mu.Lock()
	mask := ig.mask
	ig.mu.Unlock()

	return ig.evaluateOn(ctx, run, mask, target)
}

func (ig *Imputego) evaluateOn(ctx context.Context, run *impute.Result, mask *dataset.Mask, target string) (evaluate.Metrics, error) {
	start := time.Now()

	var (
		metrics evaluate.Metrics
		err     error
	)
	if mask == nil {
		err = ErrNotInjected
	} else {
		metrics, err = evaluate.EvaluateRun(ig.truth, run, mask, target)
		err = translateError(err)
	}
	duration := time.Since(start)

	strategy := ""
	if run != nil {
		strategy = run.Strategy
	}

	ig.metrics.RecordEvaluate(duration, err)
	ig.logger.LogEvaluate(ctx, strategy, target, err)

	if err != nil {
		return evaluate.Metrics{}, err
	}
	return metrics, nil
}

// Benchmark imputes with every strategy and scores each one against the
// ground truth over the masked targets. A nil strategies slice runs the
// canonical four from Strategies; empty targets default to every masked
// column.
//
// Strategies run concurrently, bounded by the resource controller when one
// is configured. One strategy failing does not abort the others; its error
// lands in the records of its pairs. Records are ordered by strategy, then
// target, regardless of scheduling.
func (ig *Imputego) Benchmark(ctx context.Context, strategies []impute.Strategy, targets ...string) (*evaluate.Comparison, error) {
	start := time.Now()

	ig.mu.Lock()
	input, mask := ig.amputated, ig.mask
	ig.mu.Unlock()

	if mask == nil {
		err := ErrNotInjected
		ig.metrics.RecordBenchmark(0, 0, time.Since(start))
		ig.logger.LogBenchmark(ctx, len(strategies), len(targets), 0, err)
		return nil, err
	}

	if strategies == nil {
		strategies = Strategies()
	}
	if len(targets) == 0 {
		targets = mask.Columns()
	}

	runs := make([]*impute.Result, len(strategies))
	errs := make([]error, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		g.Go(func() error {
			if ig.resources != nil {
				if err := ig.resources.AcquireWorker(gctx); err != nil {
					errs[i] = err
					return nil
				}
				defer ig.resources.ReleaseWorker()
			}

			runs[i], errs[i] = ig.imputeOn(gctx, input, strategy, targets)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		ig.metrics.RecordBenchmark(0, 0, time.Since(start))
		ig.logger.LogBenchmark(ctx, len(strategies), len(targets), 0, err)
		return nil, err
	}

	comparison := &evaluate.Comparison{
		Records: make([]evaluate.Record, 0, len(strategies)*len(targets)),
	}

	failed := 0
	for i, strategy := range strategies {
		for _, target := range targets {
			rec := evaluate.Record{Strategy: strategy.Name(), Target: target}
			if errs[i] != nil {
				rec.Err = errs[i]
			} else {
				rec.Metrics, rec.Err = ig.evaluateOn(ctx, runs[i], mask, target)
			}
			if rec.Err != nil {
				failed++
			}
			comparison.Records = append(comparison.Records, rec)
		}
	}

	duration := time.Since(start)
	ig.metrics.RecordBenchmark(len(comparison.Records), failed, duration)
	ig.logger.LogBenchmark(ctx, len(strategies), len(targets), failed, nil)
	return comparison, nil
}

// DensityData assembles the plotting series for one imputed target: the
// observed values of the input next to the values the run filled into the
// missing rows, pooled across completions. The observed series comes first,
// the imputed series is labeled with the strategy name.
func (ig *Imputego) DensityData(run *impute.Result, target string) (report.Density, error) {
	if run == nil || len(run.Completions) == 0 {
		return report.Density{}, evaluate.ErrNoCompletions
	}

	col, err := ig.input().Column(target)
	if err != nil {
		return report.Density{}, translateError(err)
	}

	holes := col.Missing()
	imputed := make([]float64, 0, int(holes.GetCardinality())*len(run.Completions))

	for _, completion := range run.Completions {
		values, err := completion.Values(target)
		if err != nil {
			return report.Density{}, translateError(err)
		}

		it := holes.Iterator()
		for it.HasNext() {
			imputed = append(imputed, values[it.Next()])
		}
	}

	return report.Density{
		Target: target,
		Series: []report.Series{
			{Label: "observed", Values: col.ObservedValues()},
			{Label: run.Strategy, Values: imputed},
		},
	}, nil
}

// Strategies returns the canonical comparison set with default
// configuration: mean, chained-equations multiple imputation, k-nearest
// neighbors and iterative random forest.
func Strategies() []impute.Strategy {
	return []impute.Strategy{
		mean.New(),
		mice.New(),
		knn.New(DefaultKNNNeighbors),
		forest.New(),
	}
}

// input returns the dataset imputation runs against: the amputated table
// after InjectMAR, the truth before.
func (ig *Imputego) input() *dataset.Dataset {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	if ig.amputated != nil {
		return ig.amputated
	}
	return ig.truth
}
