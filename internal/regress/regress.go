// Package regress provides the least-squares linear model behind the
// chained-equations imputation strategy.
package regress

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoRows is returned when there are no observations to fit.
	ErrNoRows = errors.New("regress: no rows to fit")

	// ErrUnderdetermined is returned when there are fewer observations than
	// coefficients.
	ErrUnderdetermined = errors.New("regress: fewer rows than coefficients")

	// ErrSingular is returned when the design matrix is too ill-conditioned
	// to produce finite coefficients.
	ErrSingular = errors.New("regress: singular design matrix")
)

// Model is an ordinary least-squares fit with intercept.
type Model struct {
	coef       []float64 // intercept first, then one coefficient per predictor
	residualSD float64
}

// Fit fits y = b0 + b1*x1 + ... + bp*xp by QR least squares. x[i] holds the
// predictor values of observation i; every row must have the same length.
func Fit(x [][]float64, y []float64) (*Model, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrNoRows
	}
	if len(y) != n {
		return nil, fmt.Errorf("regress: %d predictor rows, %d responses", n, len(y))
	}

	p := len(x[0])
	if n < p+1 {
		return nil, fmt.Errorf("%w: %d rows, %d coefficients", ErrUnderdetermined, n, p+1)
	}

	a := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("regress: row %d has %d predictors, want %d", i, len(row), p)
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}

	var qr mat.QR
	qr.Factorize(a)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		// A Condition error still carries a usable solution; anything else
		// is fatal.
		if _, ok := err.(mat.Condition); !ok {
			return nil, err
		}
	}

	coef := make([]float64, p+1)
	for j := range coef {
		v := beta.AtVec(j)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrSingular
		}
		coef[j] = v
	}

	var ssr float64
	for i, row := range x {
		r := y[i] - predict(coef, row)
		ssr += r * r
	}

	sd := 0.0
	if dof := n - p - 1; dof > 0 {
		sd = math.Sqrt(ssr / float64(dof))
	}

	return &Model{coef: coef, residualSD: sd}, nil
}

func predict(coef, x []float64) float64 {
	out := coef[0]
	for j, v := range x {
		out += coef[j+1] * v
	}
	return out
}

// Predict returns the fitted value for one predictor vector.
func (m *Model) Predict(x []float64) float64 {
	return predict(m.coef, x)
}

// Coefficients returns the fitted coefficients, intercept first.
func (m *Model) Coefficients() []float64 {
	return slices.Clone(m.coef)
}

// ResidualSD returns the residual standard deviation, estimated with
// n-p-1 degrees of freedom (zero when no degrees of freedom remain).
func (m *Model) ResidualSD() float64 {
	return m.residualSD
}
