// Package mice implements multiple imputation by chained equations.
//
// Missing cells are initialized from the observed column distribution, then
// repeatedly re-imputed column by column: each target is regressed on all
// other columns over its observed rows, the fit predicts the missing rows,
// and a gaussian residual draw is added so the imputations reflect the
// model's posterior uncertainty. The whole chain runs m times with
// different seeds, yielding m distinct plausible completions.
package mice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/internal/regress"
)

// Name identifies the strategy in results and reports.
const Name = "mice"

// Method selects the per-column conditional model family.
type Method string

// MethodNormal fits a linear model and draws imputations from a normal
// posterior around its predictions. It is the only bundled family.
const MethodNormal Method = "normal"

// ErrUnknownMethod is returned for an unsupported conditional model family.
var ErrUnknownMethod = errors.New("unknown conditional model method")

var _ impute.Strategy = (*Imputer)(nil)

// Options configure the chained-equations imputer.
type Options struct {
	// Completions is m, the number of independently-seeded chains and
	// therefore completed tables.
	Completions int

	// MaxIterations caps the chained passes per chain.
	MaxIterations int

	// Seed derives each chain's private source as Seed+chainIndex, so runs
	// reproduce regardless of scheduling.
	Seed uint64

	// Method is the conditional model family.
	Method Method

	// Tolerance is the relative movement of per-column imputed means and
	// variances below which a chain stops early.
	Tolerance float64

	// Parallelism bounds concurrent chains; 0 means GOMAXPROCS.
	Parallelism int
}

// DefaultOptions hold the canonical configuration.
var DefaultOptions = Options{
	Completions:   5,
	MaxIterations: 10,
	Seed:          1,
	Method:        MethodNormal,
	Tolerance:     1e-6,
}

// Imputer runs chained-equations multiple imputation.
type Imputer struct {
	opts Options
}

// New creates a chained-equations imputer.
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

	if im.opts.Completions <= 0 {
		return nil, fmt.Errorf("%w: got %d", impute.ErrInvalidCompletions, im.opts.Completions)
	}
	if im.opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", impute.ErrInvalidIterations, im.opts.MaxIterations)
	}
	if im.opts.Method != MethodNormal {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, im.opts.Method)
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
		completions := make([]*dataset.Dataset, im.opts.Completions)
		for i := range completions {
			completions[i] = ds.Clone()
		}
		return impute.NewResult(Name, targets, completions, nil), nil
	}

	parallelism := im.opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	chains := make([]*chain, im.opts.Completions)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for c := range im.opts.Completions {
		g.Go(func() error {
			ch, err := im.runChain(gctx, ds, targets, c)
			if err != nil {
				return err
			}
			chains[c] = ch
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	diag := &impute.Diagnostics{Converged: true}
	completions := make([]*dataset.Dataset, len(chains))

	for i, ch := range chains {
		completions[i] = ch.completion
		diag.Trace = append(diag.Trace, ch.trace...)
		diag.Converged = diag.Converged && ch.converged
		if ch.iterations > diag.Iterations {
			diag.Iterations = ch.iterations
		}
	}

	return impute.NewResult(Name, targets, completions, diag), nil
}

// chain is the outcome of one independently-seeded run.
type chain struct {
	completion *dataset.Dataset
	trace      []impute.IterationStat
	converged  bool
	iterations int
}

// colState tracks one target column within a chain.
type colState struct {
	name       string
	nullRows   []int
	predictors []string

	prevMean, prevVar float64
}

func (im *Imputer) runChain(ctx context.Context, ds *dataset.Dataset, targets []string, chainIdx int) (*chain, error) {
	seed := im.opts.Seed + uint64(chainIdx)
	rng := rand.New(rand.NewPCG(seed, seed))

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

		st := &colState{name: target}

		it := col.Missing().Iterator()
		for it.HasNext() {
			st.nullRows = append(st.nullRows, int(it.Next()))
		}

		for _, name := range working.Columns() {
			if name != target {
				st.predictors = append(st.predictors, name)
			}
		}

		// Initialize nulls from the observed distribution; the draw spread
		// gives every chain a distinct starting point.
		observed := col.ObservedValues()
		mu := stat.Mean(observed, nil)
		sd := 0.0
		if len(observed) > 1 {
			sd = stat.StdDev(observed, nil)
		}
		for _, row := range st.nullRows {
			if err := working.SetValue(target, row, mu+rng.NormFloat64()*sd); err != nil {
				return nil, err
			}
		}

		st.prevMean = math.Inf(1)
		st.prevVar = math.Inf(1)

		states = append(states, st)
	}

	ch := &chain{completion: working}

	for iter := 1; iter <= im.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ch.iterations = iter
		converged := true

		for _, st := range states {
			if err := im.imputeColumn(working, st, rng); err != nil {
				return nil, err
			}

			mean, variance := imputedStats(working, st)
			ch.trace = append(ch.trace, impute.IterationStat{
				Chain:     chainIdx + 1,
				Iteration: iter,
				Column:    st.name,
				Mean:      mean,
				Variance:  variance,
			})

			if !within(mean, st.prevMean, im.opts.Tolerance) || !within(variance, st.prevVar, im.opts.Tolerance) {
				converged = false
			}
			st.prevMean, st.prevVar = mean, variance
		}

		if converged {
			ch.converged = true
			break
		}
	}

	return ch, nil
}

// imputeColumn refits the conditional model for one column and redraws its
// null rows. Rows whose predictors are incomplete keep their current fill,
// as do all rows when the design matrix cannot be fit.
func (im *Imputer) imputeColumn(working *dataset.Dataset, st *colState, rng *rand.Rand) error {
	col, err := working.Column(st.name)
	if err != nil {
		return err
	}

	predictorValues := make([][]float64, len(st.predictors))
	for j, name := range st.predictors {
		v, err := working.Values(name)
		if err != nil {
			return err
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

	model, err := regress.Fit(x, y)
	if err != nil {
		// Underdetermined or singular designs cannot support a conditional
		// draw; the current fill stands for this iteration.
		if errors.Is(err, regress.ErrNoRows) || errors.Is(err, regress.ErrUnderdetermined) || errors.Is(err, regress.ErrSingular) {
			return nil
		}
		return err
	}

	for _, row := range st.nullRows {
		xrow, ok := predictorRow(predictorValues, row)
		if !ok {
			continue
		}
		draw := model.Predict(xrow) + rng.NormFloat64()*model.ResidualSD()
		if err := working.SetValue(st.name, row, draw); err != nil {
			return err
		}
	}

	return nil
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

// imputedStats returns the mean and variance of the currently-imputed cells
// of one column.
func imputedStats(working *dataset.Dataset, st *colState) (mean, variance float64) {
	values, err := working.Values(st.name)
	if err != nil {
		return 0, 0
	}

	imputed := make([]float64, 0, len(st.nullRows))
	for _, row := range st.nullRows {
		imputed = append(imputed, values[row])
	}

	mean = stat.Mean(imputed, nil)
	if len(imputed) > 1 {
		variance = stat.Variance(imputed, nil)
	}
	return mean, variance
}

// within reports whether the movement from prev to cur is inside the
// relative tolerance.
func within(cur, prev, tol float64) bool {
	if math.IsInf(prev, 0) {
		return false
	}
	return math.Abs(cur-prev) <= tol*math.Max(1, math.Abs(cur))
}
