package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imputego/testutil"
)

func TestFit_ExactLine(t *testing.T) {
	// y = 3 + 2x, no noise
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{5, 7, 9, 11, 13}

	m, err := Fit(x, y)
	require.NoError(t, err)

	coef := m.Coefficients()
	assert.InDelta(t, 3.0, coef[0], 1e-9)
	assert.InDelta(t, 2.0, coef[1], 1e-9)
	assert.InDelta(t, 0.0, m.ResidualSD(), 1e-9)

	assert.InDelta(t, 15.0, m.Predict([]float64{6}), 1e-9)
}

func TestFit_TwoPredictorsWithNoise(t *testing.T) {
	rng := testutil.NewRNG(42)

	n := 2000
	x1 := rng.GaussianColumn(n, 0, 1)
	x2 := rng.GaussianColumn(n, 0, 1)
	noise := rng.GaussianColumn(n, 0, 0.5)

	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{x1[i], x2[i]}
		y[i] = 1 + 2*x1[i] - 3*x2[i] + noise[i]
	}

	m, err := Fit(x, y)
	require.NoError(t, err)

	coef := m.Coefficients()
	assert.InDelta(t, 1.0, coef[0], 0.05)
	assert.InDelta(t, 2.0, coef[1], 0.05)
	assert.InDelta(t, -3.0, coef[2], 0.05)
	assert.InDelta(t, 0.5, m.ResidualSD(), 0.05)
}

func TestFit_Errors(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []float64
		want error
	}{
		{name: "NoRows", x: nil, y: nil, want: ErrNoRows},
		{name: "Underdetermined", x: [][]float64{{1, 2}}, y: []float64{1}, want: ErrUnderdetermined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.x, tt.y)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := Fit([][]float64{{1}, {2}}, []float64{1})
		assert.Error(t, err)
	})

	t.Run("RaggedRows", func(t *testing.T) {
		_, err := Fit([][]float64{{1, 2}, {3}}, []float64{1, 2})
		assert.Error(t, err)
	})

	t.Run("ConstantPredictor", func(t *testing.T) {
		// A constant column duplicates the intercept.
		x := [][]float64{{1}, {1}, {1}, {1}}
		y := []float64{1, 2, 3, 4}

		_, err := Fit(x, y)
		assert.ErrorIs(t, err, ErrSingular)
	})
}

func TestFit_InterceptOnly(t *testing.T) {
	// Zero predictors: the model reduces to the response mean.
	x := [][]float64{{}, {}, {}, {}}
	y := []float64{2, 4, 6, 8}

	m, err := Fit(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, m.Predict(nil), 1e-9)
}
