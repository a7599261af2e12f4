package weights

import (
	"math"
	"sort"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linePoints(xs ...float64) [][2]float64 {
	pts := make([][2]float64, len(xs))
	for i, x := range xs {
		pts[i] = [2]float64{x, 0}
	}
	return pts
}

func TestKNN_Neighbors(t *testing.T) {
	coords := linePoints(0, 1, 2, 10)

	w, err := KNN(coords, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]int{
		{1, 2},
		{0, 2},
		{0, 1},
		{1, 2},
	}, sortedNeighbors(w))
	for _, wts := range w.Weights {
		assert.Equal(t, []float64{1, 1}, wts)
	}
}

func TestKNN_DistanceTiesByIndex(t *testing.T) {
	// Point 1 is equidistant from 0 and 2; k=1 must pick the lower index.
	coords := linePoints(0, 1, 2, 10)

	w, err := KNN(coords, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, w.Neighbors[0])
	assert.Equal(t, []int{0}, w.Neighbors[1])
	assert.Equal(t, []int{1}, w.Neighbors[2])
	assert.Equal(t, []int{2}, w.Neighbors[3])
}

func TestKNN_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		coords [][2]float64
		k      int
	}{
		{name: "empty", coords: nil, k: 1},
		{name: "zero k", coords: linePoints(0, 1, 2), k: 0},
		{name: "k equals n", coords: linePoints(0, 1, 2), k: 3},
		{name: "non-finite", coords: [][2]float64{{0, 0}, {nan(), 0}, {1, 1}}, k: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KNN(tt.coords, tt.k)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidArgument))
		})
	}
}

func TestLag_RowStandardized(t *testing.T) {
	coords := linePoints(0, 1, 2, 10)
	w, err := KNN(coords, 2)
	require.NoError(t, err)
	w.RowStandardize()

	lag, err := w.Lag([]float64{0, 1, 2, 10})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1.5, 1, 0.5, 1.5}, lag, 1e-9)
}

func TestLag_LengthMismatch(t *testing.T) {
	w, err := KNN(linePoints(0, 1, 2), 1)
	require.NoError(t, err)

	_, err = w.Lag([]float64{1, 2})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidArgument))
}

func TestRowStandardize_Idempotent(t *testing.T) {
	w, err := KNN(linePoints(0, 1, 2, 3), 2)
	require.NoError(t, err)

	w.RowStandardize()
	w.RowStandardize()

	for _, wts := range w.Weights {
		var sum float64
		for _, v := range wts {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestDense(t *testing.T) {
	w, err := KNN(linePoints(0, 1, 10), 1)
	require.NoError(t, err)

	d := w.Dense()
	r, c := d.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, d.At(0, 1))
	assert.Equal(t, 1.0, d.At(1, 0))
	assert.Equal(t, 1.0, d.At(2, 1))
	assert.Equal(t, 0.0, d.At(0, 2))
}

func TestSummary_Asymmetry(t *testing.T) {
	// k=1 on a line with an outlier: 2->1 and 3->2 are unreciprocated.
	w, err := KNN(linePoints(0, 1, 2, 10), 1)
	require.NoError(t, err)

	s := w.Summary()
	assert.Equal(t, 4, s.N)
	assert.Equal(t, 1, s.MinNeighbors)
	assert.Equal(t, 1, s.MaxNeighbors)
	assert.Equal(t, 1.0, s.MeanNeighbors)
	assert.Equal(t, 2, s.AsymmetricPairs)
}

func sortedNeighbors(w *W) [][]int {
	out := make([][]int, w.N())
	for i, nbrs := range w.Neighbors {
		cp := make([]int, len(nbrs))
		copy(cp, nbrs)
		sort.Ints(cp)
		out[i] = cp
	}
	return out
}

func nan() float64 { return math.NaN() }
