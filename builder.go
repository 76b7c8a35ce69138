package imputego

import (
	"fmt"

	"github.com/hupe1980/imputego/distance"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/impute/forest"
	"github.com/hupe1980/imputego/impute/knn"
	"github.com/hupe1980/imputego/impute/mean"
	"github.com/hupe1980/imputego/impute/mice"
)

// =============================================================================
// Mean Builder (Immutable)
// =============================================================================

// Mean creates a builder for the column-mean strategy. Mean imputation has
// no configuration; the builder exists for symmetry with the other
// strategies.
//
// Example:
//
//	run, err := ig.Impute(ctx, imputego.Mean().MustBuild(), "income")
func Mean() MeanBuilder {
	return MeanBuilder{}
}

// MeanBuilder is an immutable fluent builder for the mean strategy.
type MeanBuilder struct{}

// Build creates the strategy.
func (b MeanBuilder) Build() (impute.Strategy, error) {
	return mean.New(), nil
}

// MustBuild creates the strategy, panicking on error.
func (b MeanBuilder) MustBuild() impute.Strategy {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// =============================================================================
// Chained Equations Builder (Immutable)
// =============================================================================

// ChainedEquations creates a builder for chained-equations multiple
// imputation.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	s, err := imputego.ChainedEquations().
//	    Completions(10).
//	    MaxIterations(20).
//	    Seed(42).
//	    Build()
func ChainedEquations() ChainedEquationsBuilder {
	return ChainedEquationsBuilder{opts: mice.DefaultOptions}
}

// ChainedEquationsBuilder is an immutable fluent builder for the
// chained-equations strategy.
type ChainedEquationsBuilder struct {
	opts mice.Options
}

// Completions sets the number of independently-seeded completed tables.
// Default: 5.
func (b ChainedEquationsBuilder) Completions(m int) ChainedEquationsBuilder {
	b.opts.Completions = m
	return b
}

// MaxIterations sets the cap on chained passes per chain.
// Default: 10.
func (b ChainedEquationsBuilder) MaxIterations(n int) ChainedEquationsBuilder {
	b.opts.MaxIterations = n
	return b
}

// Seed sets the base seed; chain i draws from Seed+i.
func (b ChainedEquationsBuilder) Seed(seed uint64) ChainedEquationsBuilder {
	b.opts.Seed = seed
	return b
}

// Tolerance sets the early-stop threshold on the movement of per-column
// imputed means and variances.
func (b ChainedEquationsBuilder) Tolerance(tol float64) ChainedEquationsBuilder {
	b.opts.Tolerance = tol
	return b
}

// Parallelism bounds concurrent chains. Default: GOMAXPROCS.
func (b ChainedEquationsBuilder) Parallelism(n int) ChainedEquationsBuilder {
	b.opts.Parallelism = n
	return b
}

// Build creates the strategy, validating the configuration.
func (b ChainedEquationsBuilder) Build() (impute.Strategy, error) {
	if b.opts.Completions <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompletions, b.opts.Completions)
	}
	if b.opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, b.opts.MaxIterations)
	}

	opts := b.opts
	return mice.New(func(o *mice.Options) { *o = opts }), nil
}

// MustBuild creates the strategy, panicking on error.
func (b ChainedEquationsBuilder) MustBuild() impute.Strategy {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// =============================================================================
// KNN Builder (Immutable)
// =============================================================================

// KNN creates a builder for the k-nearest-neighbor strategy with the given
// neighbor count.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	s, err := imputego.KNN(5).
//	    Weighted().
//	    Manhattan().
//	    Build()
func KNN(k int) KNNBuilder {
	return KNNBuilder{k: k, opts: knn.DefaultOptions}
}

// KNNBuilder is an immutable fluent builder for the nearest-neighbor
// strategy.
type KNNBuilder struct {
	k    int
	opts knn.Options
}

// Weighted selects inverse-distance weighting instead of the unweighted
// neighbor mean.
func (b KNNBuilder) Weighted() KNNBuilder {
	b.opts.Weighted = true
	return b
}

// Euclidean sets the distance metric to Euclidean distance. Default.
func (b KNNBuilder) Euclidean() KNNBuilder {
	b.opts.Metric = distance.MetricEuclidean
	return b
}

// SquaredEuclidean sets the distance metric to squared Euclidean distance.
// Same neighbor ranking as Euclidean without the square root.
func (b KNNBuilder) SquaredEuclidean() KNNBuilder {
	b.opts.Metric = distance.MetricSquaredEuclidean
	return b
}

// Manhattan sets the distance metric to Manhattan (L1) distance.
func (b KNNBuilder) Manhattan() KNNBuilder {
	b.opts.Metric = distance.MetricManhattan
	return b
}

// Build creates the strategy, validating the configuration.
func (b KNNBuilder) Build() (impute.Strategy, error) {
	if b.k <= 0 {
		return nil, fmt.Errorf("%w: got k=%d", ErrInvalidK, b.k)
	}

	opts := b.opts
	return knn.New(b.k, func(o *knn.Options) { *o = opts }), nil
}

// MustBuild creates the strategy, panicking on error.
func (b KNNBuilder) MustBuild() impute.Strategy {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// =============================================================================
// Random Forest Builder (Immutable)
// =============================================================================

// RandomForest creates a builder for the iterative random-forest strategy.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	s, err := imputego.RandomForest().
//	    Trees(200).
//	    Tolerance(1e-4).
//	    Seed(42).
//	    Build()
func RandomForest() RandomForestBuilder {
	return RandomForestBuilder{opts: forest.DefaultOptions}
}

// RandomForestBuilder is an immutable fluent builder for the random-forest
// strategy.
type RandomForestBuilder struct {
	opts forest.Options
}

// Trees sets the ensemble size per conditional fit.
// Default: 100.
func (b RandomForestBuilder) Trees(n int) RandomForestBuilder {
	b.opts.Trees = n
	return b
}

// MaxIterations sets the cap on column sweeps.
// Default: 10.
func (b RandomForestBuilder) MaxIterations(n int) RandomForestBuilder {
	b.opts.MaxIterations = n
	return b
}

// Tolerance sets the normalized squared-change threshold below which the
// sweeps stop early.
func (b RandomForestBuilder) Tolerance(tol float64) RandomForestBuilder {
	b.opts.Tolerance = tol
	return b
}

// MinLeaf sets the minimum number of samples per tree leaf.
// Default: 5.
func (b RandomForestBuilder) MinLeaf(n int) RandomForestBuilder {
	b.opts.MinLeaf = n
	return b
}

// SampleFeatures sets the number of features tried per split.
// Default: 0, meaning ceil(p/3).
func (b RandomForestBuilder) SampleFeatures(n int) RandomForestBuilder {
	b.opts.SampleFeatures = n
	return b
}

// Seed sets the base seed for the per-tree sources.
func (b RandomForestBuilder) Seed(seed uint64) RandomForestBuilder {
	b.opts.Seed = seed
	return b
}

// Parallelism bounds concurrent tree fits. Default: GOMAXPROCS.
func (b RandomForestBuilder) Parallelism(n int) RandomForestBuilder {
	b.opts.Parallelism = n
	return b
}

// Build creates the strategy, validating the configuration.
func (b RandomForestBuilder) Build() (impute.Strategy, error) {
	if b.opts.Trees <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTrees, b.opts.Trees)
	}
	if b.opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, b.opts.MaxIterations)
	}

	opts := b.opts
	return forest.New(func(o *forest.Options) { *o = opts }), nil
}

// MustBuild creates the strategy, panicking on error.
func (b RandomForestBuilder) MustBuild() impute.Strategy {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
