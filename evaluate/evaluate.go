// Package evaluate scores imputed values against the ground truth.
//
// All metrics are computed strictly over the masked cells, the cells the
// injector nulled, so observed values never dilute the score. Multiple
// completions of one run are pooled by averaging the per-completion metric
// sets elementwise.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/impute"
)

// ErrEmptyMask is returned when the mask selects no cells, leaving nothing
// to score.
var ErrEmptyMask = errors.New("mask selects no cells")

// ErrNoCompletions is returned when a run carries no completed tables.
var ErrNoCompletions = errors.New("run has no completions")

// Metrics is the accuracy profile of one (strategy, target) pair.
type Metrics struct {
	// MAE is the mean absolute error.
	MAE float64

	// MSE is the mean squared error.
	MSE float64

	// RMSE is the root mean squared error.
	RMSE float64

	// MAPE is the mean absolute percentage error over masked cells with
	// nonzero truth. It is NaN when every masked truth value is zero.
	MAPE float64
}

// Evaluate scores imputed against truth over the set bits of mask.
func Evaluate(truth, imputed []float64, mask *roaring.Bitmap) (Metrics, error) {
	if len(truth) != len(imputed) {
		return Metrics{}, &dataset.ShapeMismatchError{Want: len(truth), Got: len(imputed)}
	}

	if mask == nil || mask.IsEmpty() {
		return Metrics{}, ErrEmptyMask
	}

	if last := int(mask.Maximum()); last >= len(truth) {
		return Metrics{}, &dataset.ShapeMismatchError{Want: len(truth), Got: last + 1}
	}

	var absSum, sqSum, apeSum float64
	var apeN int

	it := mask.Iterator()
	for it.HasNext() {
		i := it.Next()

		d := truth[i] - imputed[i]
		absSum += math.Abs(d)
		sqSum += d * d

		if truth[i] != 0 {
			apeSum += math.Abs(d) / math.Abs(truth[i])
			apeN++
		}
	}

	n := float64(mask.GetCardinality())

	m := Metrics{
		MAE:  absSum / n,
		MSE:  sqSum / n,
		MAPE: math.NaN(),
	}
	m.RMSE = math.Sqrt(m.MSE)

	if apeN > 0 {
		m.MAPE = apeSum / float64(apeN)
	}

	return m, nil
}

// EvaluateRun scores one run against the truth for a single target column,
// pooling the per-completion metrics by elementwise mean.
func EvaluateRun(truth *dataset.Dataset, run *impute.Result, mask *dataset.Mask, target string) (Metrics, error) {
	if run == nil || len(run.Completions) == 0 {
		return Metrics{}, ErrNoCompletions
	}

	tv, err := truth.Values(target)
	if err != nil {
		return Metrics{}, err
	}

	bits := mask.Column(target)
	if bits == nil {
		return Metrics{}, fmt.Errorf("%w: column %q is not masked", ErrEmptyMask, target)
	}

	var pooled Metrics
	for _, c := range run.Completions {
		cv, err := c.Values(target)
		if err != nil {
			return Metrics{}, err
		}

		m, err := Evaluate(tv, cv, bits)
		if err != nil {
			return Metrics{}, err
		}

		pooled.MAE += m.MAE
		pooled.MSE += m.MSE
		pooled.RMSE += m.RMSE
		pooled.MAPE += m.MAPE
	}

	n := float64(len(run.Completions))
	pooled.MAE /= n
	pooled.MSE /= n
	pooled.RMSE /= n
	pooled.MAPE /= n

	return pooled, nil
}

// Record is one row of the accuracy table. Either Metrics or Err is
// populated.
type Record struct {
	Strategy string
	Target   string
	Metrics  Metrics
	Err      error
}

// Comparison is the accuracy table across strategies and targets.
type Comparison struct {
	Records []Record
}

// Compare scores every (run, target) pair. A failing pair records its error
// in its Record and never aborts the remaining pairs; only context
// cancellation stops the sweep.
func Compare(ctx context.Context, truth *dataset.Dataset, runs []*impute.Result, mask *dataset.Mask, targets []string) (*Comparison, error) {
	c := &Comparison{Records: make([]Record, 0, len(runs)*len(targets))}

	for _, run := range runs {
		for _, target := range targets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			rec := Record{Strategy: run.Strategy, Target: target}
			rec.Metrics, rec.Err = EvaluateRun(truth, run, mask, target)
			c.Records = append(c.Records, rec)
		}
	}

	return c, nil
}

// String renders the comparison as an aligned text table.
func (c *Comparison) String() string {
	var sb strings.Builder

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tTARGET\tMAE\tMSE\tRMSE\tMAPE")

	for _, rec := range c.Records {
		if rec.Err != nil {
			fmt.Fprintf(w, "%s\t%s\terror: %v\t\t\t\n", rec.Strategy, rec.Target, rec.Err)
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%.6g\t%.6g\t%.6g\t%.6g\n",
			rec.Strategy, rec.Target, rec.Metrics.MAE, rec.Metrics.MSE, rec.Metrics.RMSE, rec.Metrics.MAPE)
	}

	w.Flush()

	return sb.String()
}
