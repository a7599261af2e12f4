package weights

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
)

// Moran holds a global Moran's I statistic with its moments under the
// normality assumption.
type Moran struct {
	I        float64 `json:"i"`
	Expected float64 `json:"expected"`
	Variance float64 `json:"variance"`
	Z        float64 `json:"z"`
}

// MoranI computes global Moran's I of x under w, the standard test for
// spatial autocorrelation (used here on variables and on regression
// residuals). The z-score uses the normality-assumption variance.
func MoranI(x []float64, w *W) (*Moran, error) {
	n := w.N()
	if len(x) != n {
		return nil, eris.Wrapf(ErrInvalidArgument, "moran: len(x)=%d, want %d", len(x), n)
	}
	if n < 3 {
		return nil, eris.Wrapf(ErrInvalidArgument, "moran: need at least 3 observations, have %d", n)
	}

	mean := stat.Mean(x, nil)
	z := make([]float64, n)
	var m2 float64
	for i, v := range x {
		z[i] = v - mean
		m2 += z[i] * z[i]
	}
	if m2 == 0 {
		return nil, eris.Wrap(ErrInvalidArgument, "moran: variable has zero variance")
	}

	// Cross product and the S0, S1, S2 weight sums of the classic formula.
	var s0, cross float64
	rowSum := make([]float64, n)
	colSum := make([]float64, n)
	for i, nbrs := range w.Neighbors {
		for m, j := range nbrs {
			wij := w.Weights[i][m]
			s0 += wij
			cross += wij * z[i] * z[j]
			rowSum[i] += wij
			colSum[j] += wij
		}
	}

	// S1 = 0.5 * sum over ordered pairs of (w_ij + w_ji)^2. The first pass
	// covers ordered pairs with w_ij != 0; the second picks up pairs where
	// only the transpose entry is nonzero.
	var s1 float64
	for i, nbrs := range w.Neighbors {
		for m, j := range nbrs {
			pair := w.Weights[i][m] + weightAt(w, j, i)
			s1 += 0.5 * pair * pair
		}
	}
	for j, nbrs := range w.Neighbors {
		for m, i := range nbrs {
			if weightAt(w, i, j) == 0 {
				wji := w.Weights[j][m]
				s1 += 0.5 * wji * wji
			}
		}
	}

	var s2 float64
	for i := 0; i < n; i++ {
		t := rowSum[i] + colSum[i]
		s2 += t * t
	}

	nf := float64(n)
	result := &Moran{
		I:        (nf / s0) * (cross / m2),
		Expected: -1 / (nf - 1),
	}
	result.Variance = (nf*nf*s1-nf*s2+3*s0*s0)/((nf*nf-1)*s0*s0) - result.Expected*result.Expected
	if result.Variance > 0 {
		result.Z = (result.I - result.Expected) / math.Sqrt(result.Variance)
	}
	return result, nil
}

// weightAt returns w[i][j], zero when j is not a neighbor of i.
func weightAt(w *W, i, j int) float64 {
	for m, nbr := range w.Neighbors[i] {
		if nbr == j {
			return w.Weights[i][m]
		}
	}
	return 0
}
