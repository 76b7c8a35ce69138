// Package mean implements mean-substitution imputation: every missing cell
// is replaced with the arithmetic mean of its column's observed values. No
// cross-column information is used, and the observed column mean is
// preserved exactly for any null pattern.
package mean

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/impute"
)

// Name identifies the strategy in results and reports.
const Name = "mean"

var _ impute.Strategy = (*Imputer)(nil)

// Imputer replaces missing cells with the observed column mean.
type Imputer struct{}

// New creates a mean imputer. It has no configuration.
func New() *Imputer {
	return &Imputer{}
}

// Name implements impute.Strategy.
func (im *Imputer) Name() string { return Name }

// Impute implements impute.Strategy.
func (im *Imputer) Impute(ctx context.Context, ds *dataset.Dataset, targets []string) (*impute.Result, error) {
	if err := impute.ValidateTargets(ds, targets); err != nil {
		return nil, err
	}

	out := ds.Clone()

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := out.Column(target)
		if err != nil {
			return nil, err
		}

		if c.MissingCount() == 0 {
			continue
		}

		observed := c.ObservedValues()
		if len(observed) == 0 {
			return nil, &impute.DegenerateColumnError{Column: target}
		}

		mu := stat.Mean(observed, nil)

		it := c.Missing().Iterator()
		for it.HasNext() {
			if err := out.SetValue(target, int(it.Next()), mu); err != nil {
				return nil, err
			}
		}
	}

	return impute.NewResult(Name, targets, []*dataset.Dataset{out}, nil), nil
}
