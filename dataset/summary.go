package dataset

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes the observed values of one column.
type ColumnSummary struct {
	Name     string
	Observed int
	Missing  int
	Mean     float64
	Std      float64
	Min      float64
	Max      float64
}

// Summary computes per-column summary statistics over observed values.
// Columns with no observed values report NaN statistics.
func (ds *Dataset) Summary() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(ds.cols))
	for _, c := range ds.cols {
		s := ColumnSummary{
			Name:     c.name,
			Observed: c.ObservedCount(),
			Missing:  c.MissingCount(),
			Mean:     math.NaN(),
			Std:      math.NaN(),
			Min:      math.NaN(),
			Max:      math.NaN(),
		}

		obs := c.ObservedValues()
		if len(obs) > 0 {
			s.Mean = stat.Mean(obs, nil)
			s.Std = stat.StdDev(obs, nil)
			s.Min = floats.Min(obs)
			s.Max = floats.Max(obs)
		}
		out = append(out, s)
	}
	return out
}
