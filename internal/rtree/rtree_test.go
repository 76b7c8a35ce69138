package rtree

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imputego/testutil"
)

func alignedRows(cols ...[]float64) [][]float64 {
	rows := make([][]float64, len(cols[0]))
	for i := range rows {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		rows[i] = row
	}
	return rows
}

func allIdx(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestTree_StepFunction(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}}
	y := []float64{0, 0, 0, 0, 0, 10, 10, 10, 10, 10}

	rng := rand.New(rand.NewPCG(1, 1))
	tree := Fit(x, y, allIdx(len(x)), rng)

	assert.Equal(t, 0.0, tree.Predict([]float64{3}))
	assert.Equal(t, 10.0, tree.Predict([]float64{7}))
	assert.Equal(t, 0.0, tree.Predict([]float64{4.2}))
	assert.Equal(t, 10.0, tree.Predict([]float64{4.8}))
}

func TestTree_ConstantResponse(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{7, 7, 7, 7}

	rng := rand.New(rand.NewPCG(1, 1))
	tree := Fit(x, y, allIdx(len(x)), rng)

	assert.Equal(t, 7.0, tree.Predict([]float64{2.5}))
	assert.Equal(t, 7.0, tree.Predict([]float64{100}))
}

func TestTree_MinLeafForcesRootLeaf(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{1, 2, 3, 4, 5}

	rng := rand.New(rand.NewPCG(1, 1))
	tree := Fit(x, y, allIdx(len(x)), rng, func(o *Options) {
		o.MinLeaf = 5
	})

	// Too few samples for two leaves: the root predicts the mean.
	assert.Equal(t, 3.0, tree.Predict([]float64{1}))
	assert.Equal(t, 3.0, tree.Predict([]float64{5}))
}

func TestForest_LearnsNonlinearSignal(t *testing.T) {
	rng := testutil.NewRNG(7)

	n := 600
	x1 := rng.UniformColumn(n, -3, 3)
	y := make([]float64, n)
	for i, v := range x1 {
		y[i] = v * v
	}

	x := alignedRows(x1)

	forest, err := FitForest(x, y, func(o *ForestOptions) {
		o.Trees = 50
		o.Seed = 7
	})
	require.NoError(t, err)
	assert.Equal(t, 50, forest.Trees())

	var mse, variance, mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	for i, row := range x {
		d := forest.Predict(row) - y[i]
		mse += d * d
		variance += (y[i] - mean) * (y[i] - mean)
	}
	mse /= float64(n)
	variance /= float64(n)

	// A forest must beat the constant-mean predictor by a wide margin on a
	// smooth nonlinear signal.
	assert.Less(t, mse, 0.3*variance)
}

func TestForest_Deterministic(t *testing.T) {
	rng := testutil.NewRNG(7)

	n := 200
	x1, x2 := rng.CorrelatedPair(n, 0.5)
	y := rng.LinearColumn(x1, 0, 2, 0.5)
	x := alignedRows(x1, x2)

	fit := func(parallelism int) *Forest {
		f, err := FitForest(x, y, func(o *ForestOptions) {
			o.Trees = 20
			o.Seed = 3
			o.Parallelism = parallelism
		})
		require.NoError(t, err)
		return f
	}

	serial := fit(1)
	parallel := fit(4)

	probe := alignedRows(rng.GaussianColumn(25, 0, 1), rng.GaussianColumn(25, 0, 1))
	for _, row := range probe {
		assert.Equal(t, serial.Predict(row), parallel.Predict(row))
	}
}

func TestForest_Errors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := FitForest(nil, nil)
		assert.Error(t, err)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := FitForest([][]float64{{1}, {2}}, []float64{1})
		assert.Error(t, err)
	})

	t.Run("NonPositiveTrees", func(t *testing.T) {
		_, err := FitForest([][]float64{{1}, {2}}, []float64{1, 2}, func(o *ForestOptions) {
			o.Trees = 0
		})
		assert.Error(t, err)
	})
}
