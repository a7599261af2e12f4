package classify

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFisherJenks_ClearClusters(t *testing.T) {
	// Three obvious clusters; the optimum must recover them exactly.
	sample := []float64{1, 2, 2, 3, 10, 11, 12, 50, 51, 52}

	r, err := NewFisherJenks(sample, 3)
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 12, 52}, r.Bins)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 2, 2, 2}, r.ClassOf)
	assert.Equal(t, []int{4, 3, 3}, r.Counts)
}

func TestFisherJenks_KEqualsN(t *testing.T) {
	sample := []float64{4, 1, 3, 2}

	r, err := NewFisherJenks(sample, 4)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4}, r.Bins)
	assert.Equal(t, 0.0, r.SSQ(sample))
	assert.Equal(t, 1.0, r.GVF)
}

func TestFisherJenks_SingleClass(t *testing.T) {
	sample := []float64{5, 1, 3}

	r, err := NewFisherJenks(sample, 1)
	require.NoError(t, err)

	assert.Equal(t, []float64{5}, r.Bins)
	assert.Equal(t, []int{0, 0, 0}, r.ClassOf)
}

func TestFisherJenks_InvalidK(t *testing.T) {
	sample := []float64{1, 2, 3}

	for _, k := range []int{0, -2, 4} {
		_, err := NewFisherJenks(sample, k)
		require.Error(t, err, "k=%d", k)
		assert.True(t, eris.Is(err, ErrInvalidArgument))
	}
}

func TestFisherJenks_RepeatedValuesDeterministic(t *testing.T) {
	sample := []float64{1, 1, 1, 1, 2, 2, 2, 2}

	r1, err := NewFisherJenks(sample, 2)
	require.NoError(t, err)
	r2, err := NewFisherJenks(sample, 2)
	require.NoError(t, err)

	assert.Equal(t, r1.Bins, r2.Bins)
	assert.Equal(t, []float64{1, 2}, r1.Bins)
	assert.Equal(t, 0.0, r1.SSQ(sample))
}

func TestFisherJenks_BeatsQuantilesOnSSQ(t *testing.T) {
	// Fisher-Jenks is globally optimal for within-class SSQ, so no other
	// scheme can do better on that objective.
	samples := [][]float64{
		{1, 2, 3, 4, 100},
		{1, 1, 2, 8, 9, 9, 20, 21, 22, 40},
		{0.5, 0.9, 1.4, 3.3, 3.4, 7.2, 7.3, 7.4, 12.0},
		{5, 5, 5, 5, 6, 6, 6, 100, 200, 300},
	}

	for _, sample := range samples {
		for k := 2; k <= 4; k++ {
			fj, err := NewFisherJenks(sample, k)
			require.NoError(t, err)
			q, err := NewQuantiles(sample, k)
			require.NoError(t, err)
			ei, err := NewEqualInterval(sample, k)
			require.NoError(t, err)

			assert.LessOrEqual(t, fj.SSQ(sample), q.SSQ(sample)+1e-9, "vs quantiles k=%d", k)
			assert.LessOrEqual(t, fj.SSQ(sample), ei.SSQ(sample)+1e-9, "vs equal_interval k=%d", k)
		}
	}
}
