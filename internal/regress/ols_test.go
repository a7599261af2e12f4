package regress

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geostat-cli/internal/weights"
)

func TestOLS_PerfectFit(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 + 3*v
	}

	fit, err := OLS(y, [][]float64{x}, []string{"x"})
	require.NoError(t, err)

	assert.Equal(t, "ols", fit.Method)
	assert.Equal(t, []string{ConstantName, "x"}, fit.Names)
	assert.InDelta(t, 2.0, fit.Coeffs[0], 1e-9)
	assert.InDelta(t, 3.0, fit.Coeffs[1], 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
	for _, r := range fit.Residuals {
		assert.InDelta(t, 0.0, r, 1e-9)
	}
}

func TestOLS_HandComputed(t *testing.T) {
	// Textbook three-point regression with known closed-form solution.
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 1}

	fit, err := OLS(y, [][]float64{x}, []string{"x"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0/6.0, fit.Coeffs[0], 1e-9)
	assert.InDelta(t, 0.5, fit.Coeffs[1], 1e-9)
	assert.InDelta(t, 1.0/6.0, fit.Sigma2, 1e-9)
	assert.InDelta(t, 0.2886751346, fit.StdErrs[1], 1e-9)
	assert.InDelta(t, 0.75, fit.R2, 1e-9)
	assert.Equal(t, 1, fit.DF)
}

func TestOLS_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		y     []float64
		cols  [][]float64
		names []string
	}{
		{name: "empty response", y: nil, cols: [][]float64{{1}}, names: []string{"x"}},
		{name: "no regressors", y: []float64{1, 2, 3}},
		{name: "length mismatch", y: []float64{1, 2, 3}, cols: [][]float64{{1, 2}}, names: []string{"x"}},
		{name: "name mismatch", y: []float64{1, 2, 3}, cols: [][]float64{{1, 2, 3}}, names: []string{"x", "z"}},
		{name: "too few observations", y: []float64{1, 2}, cols: [][]float64{{1, 2}}, names: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OLS(tt.y, tt.cols, tt.names)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidArgument))
		})
	}
}

func TestLagColumns(t *testing.T) {
	coords := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	w, err := weights.KNN(coords, 2)
	require.NoError(t, err)
	w.RowStandardize()

	cols := [][]float64{{1, 2, 3, 4}}
	lagged, names, err := LagColumns(w, cols, []string{"income"})
	require.NoError(t, err)

	assert.Equal(t, []string{"W_income"}, names)
	require.Len(t, lagged, 1)
	// Neighbors on the line: {1,2}, {0,2}, {1,3}, {1,2}.
	assert.InDeltaSlice(t, []float64{2.5, 2, 3, 2.5}, lagged[0], 1e-9)
}

func TestSpatialDiagnostics(t *testing.T) {
	// Residuals that alternate along the line are negatively autocorrelated.
	coords := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}}
	w, err := weights.KNN(coords, 1)
	require.NoError(t, err)
	w.RowStandardize()

	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0.5, 0.6, 2.4, 2.5, 4.6, 4.4}
	fit, err := OLS(y, [][]float64{x}, []string{"x"})
	require.NoError(t, err)

	m, err := fit.SpatialDiagnostics(w)
	require.NoError(t, err)
	assert.NotZero(t, m.I)
	assert.InDelta(t, -0.2, m.Expected, 1e-9)
}
