package impute

import (
	"context"

	"github.com/google/uuid"

	"github.com/hupe1980/imputego/dataset"
)

// Strategy fills missing cells in the requested target columns. Observed
// cells and columns outside targets are never modified; the input dataset
// is cloned, never mutated.
type Strategy interface {
	// Name returns the strategy identifier used in reports.
	Name() string

	// Impute produces one or more completed copies of the dataset.
	Impute(ctx context.Context, ds *dataset.Dataset, targets []string) (*Result, error)
}

// Result is one execution of one strategy against one dataset.
type Result struct {
	// ID identifies the run.
	ID uuid.UUID

	// Strategy is the name of the strategy that produced the result.
	Strategy string

	// Targets are the imputed columns.
	Targets []string

	// Completions holds the completed tables: one for deterministic
	// strategies, m for multiple imputation.
	Completions []*dataset.Dataset

	// Diagnostics carries convergence information for iterative strategies,
	// nil otherwise.
	Diagnostics *Diagnostics
}

// NewResult assembles a Result with a fresh run ID.
func NewResult(strategy string, targets []string, completions []*dataset.Dataset, diag *Diagnostics) *Result {
	return &Result{
		ID:          uuid.New(),
		Strategy:    strategy,
		Targets:     append([]string(nil), targets...),
		Completions: completions,
		Diagnostics: diag,
	}
}

// Diagnostics reports how an iterative strategy stopped. Hitting the
// iteration cap without meeting the tolerance is surfaced here, never as a
// fatal error.
type Diagnostics struct {
	// Converged reports whether the stopping tolerance was met before the
	// iteration cap.
	Converged bool

	// Iterations is the number of iterations actually run.
	Iterations int

	// Trace holds per-iteration statistics for convergence inspection.
	Trace []IterationStat
}

// IterationStat is one trace entry. Chained equations record the mean and
// variance of the currently-imputed cells per chain, iteration and column;
// the forest records the normalized squared change per iteration.
type IterationStat struct {
	Chain     int
	Iteration int
	Column    string
	Mean      float64
	Variance  float64
	Change    float64
}

// ValidateTargets checks that the target list is non-empty, free of
// duplicates and that every column exists in the dataset.
func ValidateTargets(ds *dataset.Dataset, targets []string) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}

	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if _, ok := seen[target]; ok {
			return &dataset.DuplicateColumnError{Column: target}
		}
		seen[target] = struct{}{}

		if !ds.HasColumn(target) {
			return &dataset.UnknownColumnError{Column: target}
		}
	}
	return nil
}

// Complete reports whether every target column is fully observed, in which
// case strategies return the input unchanged.
func Complete(ds *dataset.Dataset, targets []string) bool {
	for _, target := range targets {
		c, err := ds.Column(target)
		if err != nil {
			return false
		}
		if c.MissingCount() > 0 {
			return false
		}
	}
	return true
}
