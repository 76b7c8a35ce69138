// Package knn implements nearest-neighbor imputation.
//
// For every missing cell the k most similar rows are located among the rows
// fully observed in the comparison columns plus the target, with distances
// computed over standardized copies of the comparison columns so no single
// scale dominates. The missing value becomes the plain or inverse-distance
// weighted mean of the neighbors' target values.
package knn

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/distance"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/internal/topk"
)

// Name identifies the strategy in results and reports.
const Name = "knn"

var _ impute.Strategy = (*Imputer)(nil)

// Options configure the nearest-neighbor imputer.
type Options struct {
	// Weighted selects inverse-distance weighting instead of the unweighted
	// neighbor mean.
	Weighted bool

	// Metric is the distance metric over the standardized comparison
	// columns.
	Metric distance.Metric
}

// DefaultOptions hold the canonical configuration.
var DefaultOptions = Options{
	Weighted: false,
	Metric:   distance.MetricEuclidean,
}

// Imputer fills missing cells from the k nearest fully-observed rows.
type Imputer struct {
	k    int
	opts Options
}

// New creates a nearest-neighbor imputer with the given neighbor count.
func New(k int, optFns ...func(o *Options)) *Imputer {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Imputer{k: k, opts: opts}
}

// Name implements impute.Strategy.
func (im *Imputer) Name() string { return Name }

// Impute implements impute.Strategy.
func (im *Imputer) Impute(ctx context.Context, ds *dataset.Dataset, targets []string) (*impute.Result, error) {
	if err := impute.ValidateTargets(ds, targets); err != nil {
		return nil, err
	}

	if im.k <= 0 {
		return nil, fmt.Errorf("%w: got k=%d", impute.ErrInvalidK, im.k)
	}

	distFn, err := distance.Provider(im.opts.Metric)
	if err != nil {
		return nil, err
	}

	out := ds.Clone()

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := im.imputeColumn(ds, out, target, distFn); err != nil {
			return nil, err
		}
	}

	return impute.NewResult(Name, targets, []*dataset.Dataset{out}, nil), nil
}

// imputeColumn fills one target column on out, reading the original
// missingness pattern from ds.
func (im *Imputer) imputeColumn(ds, out *dataset.Dataset, target string, distFn distance.Func) error {
	col, err := ds.Column(target)
	if err != nil {
		return err
	}

	if col.MissingCount() == 0 {
		return nil
	}
	if col.ObservedCount() == 0 {
		return &impute.DegenerateColumnError{Column: target}
	}

	var comparison []string
	for _, name := range ds.Columns() {
		if name != target {
			comparison = append(comparison, name)
		}
	}

	// Candidate neighbors are the rows fully observed in the comparison
	// set plus the target.
	candidates, err := ds.CompleteRows(append(append([]string(nil), comparison...), target)...)
	if err != nil {
		return err
	}

	if im.k >= len(candidates) {
		return fmt.Errorf("%w: k=%d with %d fully-observed rows", impute.ErrInvalidK, im.k, len(candidates))
	}

	standardized, err := standardize(ds, comparison)
	if err != nil {
		return err
	}

	targetValues := col.Values()

	it := col.Missing().Iterator()
	for it.HasNext() {
		row := int(it.Next())

		coords := observedCoords(standardized, row)
		if len(coords) == 0 {
			// Nothing to measure distance on: average the whole pool.
			if err := out.SetValue(target, row, poolMean(targetValues, candidates)); err != nil {
				return err
			}
			continue
		}

		query := make([]float64, len(coords))
		point := make([]float64, len(coords))
		for i, j := range coords {
			query[i] = standardized[j][row]
		}

		sel := topk.New(im.k)
		for _, cand := range candidates {
			for i, j := range coords {
				point[i] = standardized[j][cand]
			}
			sel.Offer(cand, distFn(query, point))
		}

		value := im.aggregate(targetValues, sel.Neighbors())
		if err := out.SetValue(target, row, value); err != nil {
			return err
		}
	}

	return nil
}

// aggregate combines the neighbors' target values: unweighted mean, or
// inverse-distance weighted mean. Exact matches (distance zero) shadow all
// other neighbors.
func (im *Imputer) aggregate(targetValues []float64, neighbors []topk.Neighbor) float64 {
	if !im.opts.Weighted {
		var sum float64
		for _, n := range neighbors {
			sum += targetValues[n.Row]
		}
		return sum / float64(len(neighbors))
	}

	var exactSum float64
	var exactN int
	for _, n := range neighbors {
		if n.Distance == 0 {
			exactSum += targetValues[n.Row]
			exactN++
		}
	}
	if exactN > 0 {
		return exactSum / float64(exactN)
	}

	var weighted, weights float64
	for _, n := range neighbors {
		w := 1 / n.Distance
		weighted += w * targetValues[n.Row]
		weights += w
	}
	return weighted / weights
}

// standardize maps the comparison columns to observed mean 0 and std 1,
// keeping NaN at missing cells. Constant columns carry no distance signal
// and collapse to zero.
func standardize(ds *dataset.Dataset, comparison []string) ([][]float64, error) {
	out := make([][]float64, len(comparison))

	for j, name := range comparison {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}

		observed := c.ObservedValues()
		mu := 0.0
		sd := 0.0
		if len(observed) > 0 {
			mu = stat.Mean(observed, nil)
		}
		if len(observed) > 1 {
			sd = stat.StdDev(observed, nil)
		}

		values := c.Values()
		z := make([]float64, len(values))
		for row, v := range values {
			switch {
			case math.IsNaN(v):
				z[row] = math.NaN()
			case sd == 0:
				z[row] = 0
			default:
				z[row] = (v - mu) / sd
			}
		}
		out[j] = z
	}

	return out, nil
}

// observedCoords returns the comparison-column indices observed at row.
func observedCoords(standardized [][]float64, row int) []int {
	coords := make([]int, 0, len(standardized))
	for j := range standardized {
		if !math.IsNaN(standardized[j][row]) {
			coords = append(coords, j)
		}
	}
	return coords
}

func poolMean(targetValues []float64, candidates []int) float64 {
	var sum float64
	for _, row := range candidates {
		sum += targetValues[row]
	}
	return sum / float64(len(candidates))
}
