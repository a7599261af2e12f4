package weights

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoranI_PerfectNegative(t *testing.T) {
	// Unit square with a checker pattern: every neighbor pair disagrees,
	// so I is exactly -1.
	coords := [][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	w, err := KNN(coords, 2)
	require.NoError(t, err)
	w.RowStandardize()

	m, err := MoranI([]float64{0, 1, 1, 0}, w)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, m.I, 1e-9)
	assert.InDelta(t, -1.0/3.0, m.Expected, 1e-9)
	assert.Less(t, m.Z, 0.0)
}

func TestMoranI_PositiveOnGradient(t *testing.T) {
	// A smooth gradient along a line is positively autocorrelated.
	coords := linePoints(0, 1, 2, 3, 4, 5)
	w, err := KNN(coords, 1)
	require.NoError(t, err)
	w.RowStandardize()

	m, err := MoranI([]float64{0, 1, 2, 3, 4, 5}, w)
	require.NoError(t, err)

	assert.InDelta(t, 12.5/17.5, m.I, 1e-9)
	assert.Greater(t, m.I, m.Expected)
	assert.Greater(t, m.Z, 0.0)
	assert.Greater(t, m.Variance, 0.0)
}

func TestMoranI_InvalidArguments(t *testing.T) {
	w, err := KNN(linePoints(0, 1, 2, 3), 1)
	require.NoError(t, err)

	tests := []struct {
		name string
		x    []float64
	}{
		{name: "length mismatch", x: []float64{1, 2}},
		{name: "zero variance", x: []float64{7, 7, 7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MoranI(tt.x, w)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidArgument))
		})
	}
}
