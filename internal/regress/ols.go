// Package regress assembles regression workflows for spatial analysis: OLS
// with spatial-dependence diagnostics, spatially lagged exogenous regressors
// (SLX), and the spatial-lag model estimated by two-stage least squares. The
// numerical estimation is consumed from gonum's mat package (QR
// factorizations and matrix inverses); this package only builds design
// matrices and summarizes results.
package regress

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/geostat-cli/internal/weights"
)

// ErrInvalidArgument is returned for dimension mismatches and degenerate
// inputs. Check with eris.Is.
var ErrInvalidArgument = eris.New("regress: invalid argument")

// ConstantName is the name given to the intercept term, which every model
// here includes implicitly.
const ConstantName = "CONSTANT"

// Fit holds estimation output common to the OLS and 2SLS paths.
type Fit struct {
	Method string   `json:"method"`
	Names  []string `json:"names"` // per coefficient, intercept first

	Coeffs  []float64 `json:"coeffs"`
	StdErrs []float64 `json:"std_errs"`
	TStats  []float64 `json:"t_stats"`

	Fitted    []float64 `json:"-"`
	Residuals []float64 `json:"-"`

	N      int     `json:"n"`
	DF     int     `json:"df"` // n - number of coefficients
	Sigma2 float64 `json:"sigma2"`
	R2     float64 `json:"r2"`
	AdjR2  float64 `json:"adj_r2"`
}

// OLS estimates y = a + Xb by ordinary least squares. cols are the exogenous
// regressors as columns (the intercept is added automatically); names label
// them in the same order.
func OLS(y []float64, cols [][]float64, names []string) (*Fit, error) {
	X, allNames, err := designMatrix(len(y), cols, names)
	if err != nil {
		return nil, err
	}
	return leastSquares("ols", y, X, X, allNames)
}

// LagColumns builds the spatially lagged copies of the given columns for an
// SLX specification, naming each lagged column after its source with a W_
// prefix.
func LagColumns(w *weights.W, cols [][]float64, names []string) ([][]float64, []string, error) {
	if len(cols) != len(names) {
		return nil, nil, eris.Wrapf(ErrInvalidArgument,
			"lag columns: %d columns, %d names", len(cols), len(names))
	}
	lagged := make([][]float64, len(cols))
	laggedNames := make([]string, len(cols))
	for i, col := range cols {
		lx, err := w.Lag(col)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "regress: lag column %s", names[i])
		}
		lagged[i] = lx
		laggedNames[i] = "W_" + names[i]
	}
	return lagged, laggedNames, nil
}

// SpatialDiagnostics computes Moran's I of the fit's residuals under w, the
// standard check for remaining spatial dependence after estimation.
func (f *Fit) SpatialDiagnostics(w *weights.W) (*weights.Moran, error) {
	m, err := weights.MoranI(f.Residuals, w)
	if err != nil {
		return nil, eris.Wrap(err, "regress: residual diagnostics")
	}
	return m, nil
}

// designMatrix assembles [1 | cols] as an n x (len(cols)+1) dense matrix.
func designMatrix(n int, cols [][]float64, names []string) (*mat.Dense, []string, error) {
	if n == 0 {
		return nil, nil, eris.Wrap(ErrInvalidArgument, "empty response")
	}
	if len(cols) == 0 {
		return nil, nil, eris.Wrap(ErrInvalidArgument, "no regressors")
	}
	if len(cols) != len(names) {
		return nil, nil, eris.Wrapf(ErrInvalidArgument, "%d columns, %d names", len(cols), len(names))
	}
	for i, col := range cols {
		if len(col) != n {
			return nil, nil, eris.Wrapf(ErrInvalidArgument,
				"column %s has %d rows, want %d", names[i], len(col), n)
		}
	}

	k := len(cols) + 1
	if n <= k {
		return nil, nil, eris.Wrapf(ErrInvalidArgument, "n=%d too small for %d coefficients", n, k)
	}

	X := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, col := range cols {
			X.Set(i, j+1, col[i])
		}
	}

	allNames := make([]string, 0, k)
	allNames = append(allNames, ConstantName)
	allNames = append(allNames, names...)
	return X, allNames, nil
}

// leastSquares regresses y on Xhat and evaluates fitted values and residuals
// against Xorig. For OLS the two matrices coincide; 2SLS passes the
// instrument projection as Xhat and the structural design as Xorig.
func leastSquares(method string, y []float64, Xhat, Xorig *mat.Dense, names []string) (*Fit, error) {
	n, k := Xhat.Dims()

	var qr mat.QR
	qr.Factorize(Xhat)

	yv := mat.NewDense(n, 1, y)
	beta := mat.NewDense(k, 1, nil)
	if err := qr.SolveTo(beta, false, yv); err != nil {
		return nil, eris.Wrapf(err, "regress: %s solve (design may be rank deficient)", method)
	}

	fit := &Fit{
		Method:    method,
		Names:     names,
		Coeffs:    make([]float64, k),
		StdErrs:   make([]float64, k),
		TStats:    make([]float64, k),
		Fitted:    make([]float64, n),
		Residuals: make([]float64, n),
		N:         n,
		DF:        n - k,
	}
	for j := 0; j < k; j++ {
		fit.Coeffs[j] = beta.At(j, 0)
	}

	var fitted mat.Dense
	fitted.Mul(Xorig, beta)
	var rss float64
	for i := 0; i < n; i++ {
		fit.Fitted[i] = fitted.At(i, 0)
		fit.Residuals[i] = y[i] - fit.Fitted[i]
		rss += fit.Residuals[i] * fit.Residuals[i]
	}
	fit.Sigma2 = rss / float64(fit.DF)

	// Coefficient covariance sigma^2 * (Xhat' Xhat)^-1, inverted by gonum.
	var xtx, cov mat.Dense
	xtx.Mul(Xhat.T(), Xhat)
	if err := cov.Inverse(&xtx); err != nil {
		return nil, eris.Wrapf(err, "regress: %s covariance (design may be rank deficient)", method)
	}
	for j := 0; j < k; j++ {
		se := math.Sqrt(fit.Sigma2 * cov.At(j, j))
		fit.StdErrs[j] = se
		if se > 0 {
			fit.TStats[j] = fit.Coeffs[j] / se
		}
	}

	// R^2 against the structural residuals; for 2SLS this is the pseudo R^2
	// conventionally reported for IV fits.
	mean := stat.Mean(y, nil)
	var tss float64
	for _, v := range y {
		d := v - mean
		tss += d * d
	}
	if tss > 0 {
		fit.R2 = 1 - rss/tss
		fit.AdjR2 = 1 - (1-fit.R2)*float64(n-1)/float64(fit.DF)
	}

	return fit, nil
}
