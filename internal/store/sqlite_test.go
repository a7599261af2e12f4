package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geostat-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleRun(scheme, field string) *model.Run {
	return &model.Run{
		Source:     "tracts.shp",
		Field:      field,
		Scheme:     scheme,
		K:          5,
		Bins:       []float64{2, 4, 6, 8, 10},
		Counts:     []int{2, 2, 2, 2, 2},
		FitMeasure: 5.0,
		GVF:        0.96,
	}
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := sampleRun("quantiles", "pop")
	require.NoError(t, st.SaveRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "quantiles", got.Scheme)
	assert.Equal(t, []float64{2, 4, 6, 8, 10}, got.Bins)
	assert.Equal(t, []int{2, 2, 2, 2, 2}, got.Counts)
	assert.Equal(t, 0.96, got.GVF)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListRuns_Filtered(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveRun(ctx, sampleRun("quantiles", "pop")))
	require.NoError(t, st.SaveRun(ctx, sampleRun("fisher_jenks", "pop")))
	require.NoError(t, st.SaveRun(ctx, sampleRun("quantiles", "income")))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	quantiles, err := st.ListRuns(ctx, RunFilter{Scheme: "quantiles"})
	require.NoError(t, err)
	assert.Len(t, quantiles, 2)

	income, err := st.ListRuns(ctx, RunFilter{Scheme: "quantiles", Field: "income"})
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "income", income[0].Field)
}

func TestSQLite_ListRuns_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, st.SaveRun(ctx, sampleRun("quantiles", "pop")))
	}

	runs, err := st.ListRuns(ctx, RunFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
