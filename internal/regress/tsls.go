package regress

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"

	"github.com/sells-group/geostat-cli/internal/weights"
)

// TSLS estimates y = a + Xb + Yend*g by two-stage least squares: the
// endogenous columns are replaced by their projection onto the instrument
// space [1 | X | instruments] and the resulting system is solved by OLS, with
// residuals evaluated against the structural design. The model must be at
// least just identified (len(instruments) >= len(endog)).
func TSLS(y []float64, exog [][]float64, exogNames []string, endog [][]float64, endogNames []string, instruments [][]float64) (*Fit, error) {
	if len(endog) == 0 {
		return nil, eris.Wrap(ErrInvalidArgument, "tsls: no endogenous regressors")
	}
	if len(endog) != len(endogNames) {
		return nil, eris.Wrapf(ErrInvalidArgument,
			"tsls: %d endogenous columns, %d names", len(endog), len(endogNames))
	}
	if len(instruments) < len(endog) {
		return nil, eris.Wrapf(ErrInvalidArgument,
			"tsls: under-identified, %d instruments for %d endogenous regressors",
			len(instruments), len(endog))
	}

	// Structural design Z = [1 | exog | endog].
	structCols := append(append([][]float64{}, exog...), endog...)
	structNames := append(append([]string{}, exogNames...), endogNames...)
	Z, allNames, err := designMatrix(len(y), structCols, structNames)
	if err != nil {
		return nil, err
	}

	// Instrument design H = [1 | exog | instruments].
	instCols := append(append([][]float64{}, exog...), instruments...)
	instNames := make([]string, len(instCols))
	for i := range instNames {
		instNames[i] = "inst"
	}
	H, _, err := designMatrix(len(y), instCols, instNames)
	if err != nil {
		return nil, err
	}

	// First stage: Zhat = H (H'H)^-1 H' Z via QR of H. Exogenous columns lie
	// in the span of H and project to themselves.
	var qr mat.QR
	qr.Factorize(H)
	_, zc := Z.Dims()
	_, hc := H.Dims()
	proj := mat.NewDense(hc, zc, nil)
	if err := qr.SolveTo(proj, false, Z); err != nil {
		return nil, eris.Wrap(err, "regress: tsls first stage (instruments may be collinear)")
	}
	var Zhat mat.Dense
	Zhat.Mul(H, proj)

	return leastSquares("tsls", y, &Zhat, Z, allNames)
}

// SpatialLag estimates the spatial-lag model y = a + Xb + rho*Wy by
// instrumental variables, instrumenting the endogenous lag Wy with the
// spatially lagged exogenous regressors WX, W^2 X, ... up to lagOrder (the
// classic Kelejian-Prucha instrument set). depName labels the lag
// coefficient.
func SpatialLag(y []float64, cols [][]float64, names []string, depName string, w *weights.W, lagOrder int) (*Fit, error) {
	if lagOrder <= 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "spatial lag: lag order %d must be positive", lagOrder)
	}
	if len(cols) != len(names) {
		return nil, eris.Wrapf(ErrInvalidArgument,
			"spatial lag: %d columns, %d names", len(cols), len(names))
	}

	wy, err := w.Lag(y)
	if err != nil {
		return nil, eris.Wrap(err, "regress: lag dependent variable")
	}

	var instruments [][]float64
	current := cols
	for q := 0; q < lagOrder; q++ {
		next := make([][]float64, len(current))
		for i, col := range current {
			lx, err := w.Lag(col)
			if err != nil {
				return nil, eris.Wrapf(err, "regress: instrument lag order %d", q+1)
			}
			next[i] = lx
		}
		instruments = append(instruments, next...)
		current = next
	}

	fit, err := TSLS(y, cols, names, [][]float64{wy}, []string{"W_" + depName}, instruments)
	if err != nil {
		return nil, err
	}
	fit.Method = "spatial_lag_2sls"
	return fit, nil
}
