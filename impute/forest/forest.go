// Package forest implements random-forest imputation.
//
// Like chained equations it sweeps the target columns one at a time, but
// each conditional model is a bagged ensemble of regression trees, which
// captures non-linearities and interactions without a model specification.
// Sweeps repeat until the imputed values stop moving or an iteration cap is
// reached; the cap is surfaced as a diagnostic, never as an error. The
// strategy produces exactly one completed table.
package forest

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/internal/rtree"
)

// Name identifies the strategy in results and reports.
const Name = "forest"

var _ impute.Strategy = (*Imputer)(nil)

// Options configure the random-forest imputer.
type Options struct {
	// Trees is the ensemble size per conditional fit.
	Trees int

	// MaxIterations caps the column sweeps.
	MaxIterations int

	// Tolerance is the normalized sum of squared change between
	// consecutive sweeps below which iteration stops.
	Tolerance float64

	// MinLeaf is the minimum number of samples per tree leaf.
	MinLeaf int

	// SampleFeatures is the number of features tried per split;
	// 0 means ceil(p/3).
	SampleFeatures int

	// Seed derives deterministic per-tree sources.
	Seed uint64

	// Parallelism bounds concurrent tree fits; 0 means GOMAXPROCS.
	Parallelism int
}

// DefaultOptions hold the canonical configuration.
var DefaultOptions = Options{
	Trees:         100,
	MaxIterations: 10,
	Tolerance:     1e-6,
	MinLeaf:       5,
	Seed:          1,
}

// Imputer runs iterative random-forest imputation.
type Imputer struct {
	opts Options
}

// New creates a random-forest imputer.
func New(optFns ...func(o *Options)) *Imputer {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Imputer{opts: opts}
}

// Name implements impute.Strategy.
func (im *Imputer) Name() string { return Name }

// Impute implements impute.Strategy.
func (im *Imputer) Impute(ctx context.Context, ds *dataset.Dataset, targets []string) (*impute.Result, error) {
	if err := impute.ValidateTargets(ds, targets); err != nil {
		return nil, err
	}

	if im.opts.Trees <= 0 {
		return nil, fmt.Errorf("%w: got %d", impute.ErrInvalidTrees, im.opts.Trees)
	}
	if im.opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", impute.ErrInvalidIterations, im.opts.MaxIterations)
	}

	for _, target := range targets {
		c, err := ds.Column(target)
		if err != nil {
			return nil, err
		}
		if c.ObservedCount() == 0 {
			return nil, &impute.DegenerateColumnError{Column: target}
		}
	}

	if impute.Complete(ds, targets) {
		return impute.NewResult(Name, targets, []*dataset.Dataset{ds.Clone()}, nil), nil
	}

	working := ds.Clone()

	states := make([]*colState, 0, len(targets))
	for _, target := range targets {
		col, err := working.Column(target)
		if err != nil {
			return nil, err
		}
		if col.MissingCount() == 0 {
			continue
		}

		// Non-overlapping tree seed ranges per column, stable across
		// sweeps, so repeated fits on unchanged inputs reproduce exactly
		// and the change measure can actually reach zero.
		st := &colState{
			name: target,
			seed: im.opts.Seed + uint64(len(states))*uint64(im.opts.Trees),
		}

		it := col.Missing().Iterator()
		for it.HasNext() {
			st.nullRows = append(st.nullRows, int(it.Next()))
		}

		for _, name := range working.Columns() {
			if name != target {
				st.predictors = append(st.predictors, name)
			}
		}

		// Mean-initialize the holes.
		mu := stat.Mean(col.ObservedValues(), nil)
		for _, row := range st.nullRows {
			if err := working.SetValue(target, row, mu); err != nil {
				return nil, err
			}
		}

		states = append(states, st)
	}

	diag := &impute.Diagnostics{}

	for iter := 1; iter <= im.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		diag.Iterations = iter

		var changeSq, currentSq float64
		for _, st := range states {
			d, c, err := im.sweepColumn(working, st)
			if err != nil {
				return nil, err
			}

			changeSq += d
			currentSq += c
		}

		change := normalizedChange(changeSq, currentSq)
		diag.Trace = append(diag.Trace, impute.IterationStat{
			Iteration: iter,
			Change:    change,
		})

		if change < im.opts.Tolerance {
			diag.Converged = true
			break
		}
	}

	return impute.NewResult(Name, targets, []*dataset.Dataset{working}, diag), nil
}

type colState struct {
	name       string
	seed       uint64
	nullRows   []int
	predictors []string
}

// sweepColumn refits the conditional forest for one column and updates its
// null rows, returning the squared change and squared magnitude of the
// updated cells.
func (im *Imputer) sweepColumn(working *dataset.Dataset, st *colState) (changeSq, currentSq float64, err error) {
	col, err := working.Column(st.name)
	if err != nil {
		return 0, 0, err
	}

	predictorValues := make([][]float64, len(st.predictors))
	for j, name := range st.predictors {
		v, err := working.Values(name)
		if err != nil {
			return 0, 0, err
		}
		predictorValues[j] = v
	}

	values := col.Values()
	null := make(map[int]struct{}, len(st.nullRows))
	for _, row := range st.nullRows {
		null[row] = struct{}{}
	}

	var x [][]float64
	var y []float64
	for row := 0; row < col.Len(); row++ {
		if _, ok := null[row]; ok {
			continue
		}
		xrow, ok := predictorRow(predictorValues, row)
		if !ok {
			continue
		}
		x = append(x, xrow)
		y = append(y, values[row])
	}

	if len(x) == 0 {
		// No usable training rows; the current fill stands.
		return 0, 0, nil
	}

	f, err := rtree.FitForest(x, y, func(o *rtree.ForestOptions) {
		o.Trees = im.opts.Trees
		o.MinLeaf = im.opts.MinLeaf
		o.MaxFeatures = im.opts.SampleFeatures
		o.Seed = st.seed
		o.Parallelism = im.opts.Parallelism
	})
	if err != nil {
		return 0, 0, err
	}

	for _, row := range st.nullRows {
		xrow, ok := predictorRow(predictorValues, row)
		if !ok {
			continue
		}

		prev := values[row]
		next := f.Predict(xrow)

		if err := working.SetValue(st.name, row, next); err != nil {
			return 0, 0, err
		}

		changeSq += (next - prev) * (next - prev)
		currentSq += next * next
	}

	return changeSq, currentSq, nil
}

func predictorRow(predictorValues [][]float64, row int) ([]float64, bool) {
	xrow := make([]float64, len(predictorValues))
	for j, v := range predictorValues {
		if math.IsNaN(v[row]) {
			return nil, false
		}
		xrow[j] = v[row]
	}
	return xrow, true
}

// normalizedChange relates the squared movement of the imputed cells to
// their squared magnitude.
func normalizedChange(changeSq, currentSq float64) float64 {
	if currentSq == 0 {
		if changeSq == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return changeSq / currentSq
}
