package testutil

import (
	"github.com/hupe1980/imputego/dataset"
)

// CorrelatedDataset builds a complete dataset with three numeric columns:
// "x" (standard normal), "y" (correlated with x at the given coefficient)
// and "z" (a linear function of x with mild noise). The correlation gives
// conditional strategies something to predict from.
func CorrelatedDataset(rng *RNG, rows int, corr float64) *dataset.Dataset {
	x, y := rng.CorrelatedPair(rows, corr)
	z := rng.LinearColumn(x, 10, 2, 0.25)

	return dataset.MustNew(
		dataset.NewColumn("x", x),
		dataset.NewColumn("y", y),
		dataset.NewColumn("z", z),
	)
}
