package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/stats"
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

func testParams() model.CompareParams {
	return model.CompareParams{
		Seed:  42,
		Count: 250,
		Granularities: []model.Granularity{
			model.GridGranularity(5),
			model.GridGranularity(20),
		},
		XAttr: model.AttrMedianIncome,
		YAttr: model.AttrEmployees,
	}
}

func testResult() *model.ComparisonResult {
	return &model.ComparisonResult{
		XAttr: model.AttrMedianIncome,
		YAttr: model.AttrEmployees,
		Reports: []model.CorrelationReport{
			{Granularity: model.GridGranularity(5), CellsUsed: 12, OccupiedCells: 12, Pearson: stats.Ptr(0.41)},
			{Granularity: model.GridGranularity(20), CellsUsed: 88, OccupiedCells: 88, Pearson: stats.Ptr(0.17)},
		},
		Shifts: []model.CorrelationShift{
			{From: model.GridGranularity(5), To: model.GridGranularity(20), Delta: stats.Ptr(-0.24)},
		},
	}
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveRun(ctx, testParams(), testResult())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := st.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, testParams(), got.Params)
	require.NotNil(t, got.Result)
	require.Len(t, got.Result.Reports, 2)
	require.NotNil(t, got.Result.Reports[0].Pearson)
	assert.Equal(t, 0.41, *got.Result.Reports[0].Pearson)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_SaveRun_NilResult(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.SaveRun(context.Background(), testParams(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result is required")
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.SaveRun(ctx, testParams(), testResult())
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = st.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = st.ListRuns(ctx, RunFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLite_ListRuns_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	runs, err := st.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
