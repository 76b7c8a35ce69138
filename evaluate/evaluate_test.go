package evaluate

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/impute"
)

func singleColumn(t *testing.T, name string, values []float64) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew(dataset.NewColumn(name, values))
}

func maskOf(t *testing.T, name string, rows ...uint32) *dataset.Mask {
	t.Helper()

	m, err := dataset.NewMask([]string{name}, []*roaring.Bitmap{roaring.BitmapOf(rows...)})
	require.NoError(t, err)
	return m
}

func TestEvaluate_KnownValues(t *testing.T) {
	truth := []float64{1, 2, 3, 4}
	imputed := []float64{1, 3, 5, 4}

	m, err := Evaluate(truth, imputed, roaring.BitmapOf(1, 2))
	require.NoError(t, err)

	assert.InDelta(t, 1.5, m.MAE, 1e-12)
	assert.InDelta(t, 2.5, m.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), m.RMSE, 1e-12)
	assert.InDelta(t, (1.0/2+2.0/3)/2, m.MAPE, 1e-12)
}

func TestEvaluate_IgnoresUnmaskedCells(t *testing.T) {
	truth := []float64{1, 2, 3}
	imputed := []float64{100, 2.5, -100}

	// Only the middle cell is masked; the wild endpoints never count.
	m, err := Evaluate(truth, imputed, roaring.BitmapOf(1))
	require.NoError(t, err)

	assert.InDelta(t, 0.5, m.MAE, 1e-12)
	assert.InDelta(t, 0.25, m.MSE, 1e-12)
}

func TestEvaluate_PerfectImputation(t *testing.T) {
	truth := []float64{1, 2, 3, 4}

	m, err := Evaluate(truth, truth, roaring.BitmapOf(0, 2))
	require.NoError(t, err)

	assert.Zero(t, m.MAE)
	assert.Zero(t, m.MSE)
	assert.Zero(t, m.RMSE)
	assert.Zero(t, m.MAPE)
}

func TestEvaluate_MAPE(t *testing.T) {
	t.Run("SkipsZeroTruth", func(t *testing.T) {
		truth := []float64{0, 2}
		imputed := []float64{5, 3}

		m, err := Evaluate(truth, imputed, roaring.BitmapOf(0, 1))
		require.NoError(t, err)

		// Only the nonzero-truth cell contributes.
		assert.InDelta(t, 0.5, m.MAPE, 1e-12)
		assert.InDelta(t, 3.0, m.MAE, 1e-12)
	})

	t.Run("NaNWhenAllTruthsZero", func(t *testing.T) {
		truth := []float64{0, 0}
		imputed := []float64{1, 2}

		m, err := Evaluate(truth, imputed, roaring.BitmapOf(0, 1))
		require.NoError(t, err)

		assert.True(t, math.IsNaN(m.MAPE))
		assert.InDelta(t, 1.5, m.MAE, 1e-12)
	})
}

func TestEvaluate_Errors(t *testing.T) {
	t.Run("EmptyMask", func(t *testing.T) {
		_, err := Evaluate([]float64{1}, []float64{1}, roaring.New())
		assert.ErrorIs(t, err, ErrEmptyMask)
	})

	t.Run("NilMask", func(t *testing.T) {
		_, err := Evaluate([]float64{1}, []float64{1}, nil)
		assert.ErrorIs(t, err, ErrEmptyMask)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := Evaluate([]float64{1, 2}, []float64{1}, roaring.BitmapOf(0))

		var sm *dataset.ShapeMismatchError
		require.ErrorAs(t, err, &sm)
		assert.Equal(t, 2, sm.Want)
		assert.Equal(t, 1, sm.Got)
	})

	t.Run("MaskOutOfRange", func(t *testing.T) {
		_, err := Evaluate([]float64{1, 2}, []float64{1, 2}, roaring.BitmapOf(5))

		var sm *dataset.ShapeMismatchError
		assert.ErrorAs(t, err, &sm)
	})
}

func TestEvaluateRun_PoolsCompletions(t *testing.T) {
	truth := singleColumn(t, "y", []float64{2, 4})
	mask := maskOf(t, "y", 0, 1)

	run := impute.NewResult("mice", []string{"y"}, []*dataset.Dataset{
		singleColumn(t, "y", []float64{2, 4}),
		singleColumn(t, "y", []float64{4, 8}),
	}, nil)

	m, err := EvaluateRun(truth, run, mask, "y")
	require.NoError(t, err)

	// Elementwise means of {0,0,0,0} and {3,10,sqrt(10),1}.
	assert.InDelta(t, 1.5, m.MAE, 1e-12)
	assert.InDelta(t, 5.0, m.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(10)/2, m.RMSE, 1e-12)
	assert.InDelta(t, 0.5, m.MAPE, 1e-12)
}

func TestEvaluateRun_SingleCompletion(t *testing.T) {
	truth := singleColumn(t, "y", []float64{1, 2, 3})
	mask := maskOf(t, "y", 2)

	run := impute.NewResult("mean", []string{"y"}, []*dataset.Dataset{
		singleColumn(t, "y", []float64{1, 2, 4}),
	}, nil)

	m, err := EvaluateRun(truth, run, mask, "y")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.MAE, 1e-12)
	assert.InDelta(t, 1.0, m.RMSE, 1e-12)
}

func TestEvaluateRun_Errors(t *testing.T) {
	truth := singleColumn(t, "y", []float64{1, 2})
	mask := maskOf(t, "y", 0)

	t.Run("NilRun", func(t *testing.T) {
		_, err := EvaluateRun(truth, nil, mask, "y")
		assert.ErrorIs(t, err, ErrNoCompletions)
	})

	t.Run("NoCompletions", func(t *testing.T) {
		run := impute.NewResult("mean", []string{"y"}, nil, nil)
		_, err := EvaluateRun(truth, run, mask, "y")
		assert.ErrorIs(t, err, ErrNoCompletions)
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		run := impute.NewResult("mean", []string{"y"}, []*dataset.Dataset{
			singleColumn(t, "y", []float64{1, 2}),
		}, nil)

		_, err := EvaluateRun(truth, run, mask, "nope")

		var uc *dataset.UnknownColumnError
		assert.ErrorAs(t, err, &uc)
	})

	t.Run("TargetNotMasked", func(t *testing.T) {
		other := dataset.MustNew(
			dataset.NewColumn("y", []float64{1, 2}),
			dataset.NewColumn("z", []float64{3, 4}),
		)
		run := impute.NewResult("mean", []string{"z"}, []*dataset.Dataset{other.Clone()}, nil)

		_, err := EvaluateRun(other, run, mask, "z")
		assert.ErrorIs(t, err, ErrEmptyMask)
	})
}

func TestCompare_IsolatesFailures(t *testing.T) {
	truth := singleColumn(t, "y", []float64{1, 2, 3})
	mask := maskOf(t, "y", 1)

	good := impute.NewResult("mean", []string{"y"}, []*dataset.Dataset{
		singleColumn(t, "y", []float64{1, 2.5, 3}),
	}, nil)

	// This run's completion lacks the target column entirely.
	bad := impute.NewResult("knn", []string{"y"}, []*dataset.Dataset{
		singleColumn(t, "other", []float64{0, 0, 0}),
	}, nil)

	c, err := Compare(context.Background(), truth, []*impute.Result{good, bad}, mask, []string{"y"})
	require.NoError(t, err)
	require.Len(t, c.Records, 2)

	assert.Equal(t, "mean", c.Records[0].Strategy)
	require.NoError(t, c.Records[0].Err)
	assert.InDelta(t, 0.5, c.Records[0].Metrics.MAE, 1e-12)

	assert.Equal(t, "knn", c.Records[1].Strategy)
	assert.Error(t, c.Records[1].Err)
}

func TestCompare_CanceledContext(t *testing.T) {
	truth := singleColumn(t, "y", []float64{1})
	mask := maskOf(t, "y", 0)
	run := impute.NewResult("mean", []string{"y"}, []*dataset.Dataset{truth.Clone()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, truth, []*impute.Result{run}, mask, []string{"y"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComparison_String(t *testing.T) {
	c := &Comparison{Records: []Record{
		{Strategy: "mean", Target: "y", Metrics: Metrics{MAE: 1.5, MSE: 2.5, RMSE: 1.58, MAPE: 0.3}},
		{Strategy: "knn", Target: "y", Err: ErrEmptyMask},
	}}

	s := c.String()

	assert.Contains(t, s, "STRATEGY")
	assert.Contains(t, s, "MAPE")
	assert.Contains(t, s, "mean")
	assert.Contains(t, s, "1.5")
	assert.Contains(t, s, "error: mask selects no cells")

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	assert.Len(t, lines, 3)
}
