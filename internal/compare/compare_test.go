package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/synth"
)

func defaultOptions() Options {
	return Options{
		XAttr: model.AttrMedianIncome,
		YAttr: model.AttrEmployees,
		BBox:  synth.IleDeFrance,
	}
}

func dataset(t *testing.T) []model.Point {
	t.Helper()
	points, err := synth.Generate(synth.Default())
	require.NoError(t, err)
	return points
}

func TestRun_GridSizes(t *testing.T) {
	points := dataset(t)
	grans := []model.Granularity{
		model.GridGranularity(5),
		model.GridGranularity(10),
		model.GridGranularity(20),
	}

	res, err := Run(points, grans, defaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Sets, 3)
	require.Len(t, res.Reports, 3)
	require.Len(t, res.Shifts, 2)

	for i, report := range res.Reports {
		assert.Equal(t, grans[i], report.Granularity)
		assert.Equal(t, res.Sets[i].Summary.OccupiedCells, report.OccupiedCells)
		assert.Equal(t, report.CellsUsed, report.OccupiedCells)
		if report.Pearson != nil {
			assert.GreaterOrEqual(t, *report.Pearson, -1.0)
			assert.LessOrEqual(t, *report.Pearson, 1.0)
		}
	}

	assert.Equal(t, grans[0], res.Shifts[0].From)
	assert.Equal(t, grans[1], res.Shifts[0].To)
}

func TestRun_Deterministic(t *testing.T) {
	points := dataset(t)
	grans := []model.Granularity{model.GridGranularity(5), model.GridGranularity(20)}

	a, err := Run(points, grans, defaultOptions())
	require.NoError(t, err)
	b, err := Run(points, grans, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_MixedGridAndZones(t *testing.T) {
	points := dataset(t)
	grans := []model.Granularity{
		model.GridGranularity(10),
		model.ZoneGranularity("departements"),
	}

	res, err := Run(points, grans, defaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Reports, 2)
	assert.Equal(t, model.GranularityZones, res.Reports[1].Granularity.Kind)
}

func TestRun_ShiftDelta(t *testing.T) {
	points := dataset(t)
	grans := []model.Granularity{model.GridGranularity(5), model.GridGranularity(20)}

	res, err := Run(points, grans, defaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Shifts, 1)

	fromR, toR := res.Reports[0].Pearson, res.Reports[1].Pearson
	if fromR != nil && toR != nil {
		require.NotNil(t, res.Shifts[0].Delta)
		assert.InDelta(t, *toR-*fromR, *res.Shifts[0].Delta, 1e-12)
	} else {
		assert.Nil(t, res.Shifts[0].Delta)
	}
}

func TestRun_UndefinedCorrelation(t *testing.T) {
	// A single point gives one occupied cell per level: Pearson needs two.
	points := []model.Point{{
		ID: "WH000", Lat: 48.8566, Lon: 2.3522,
		Attrs: map[string]float64{model.AttrMedianIncome: 1, model.AttrEmployees: 2},
	}}
	grans := []model.Granularity{model.GridGranularity(5), model.GridGranularity(10)}

	res, err := Run(points, grans, defaultOptions())
	require.NoError(t, err)

	for _, report := range res.Reports {
		assert.Nil(t, report.Pearson)
	}
	assert.Nil(t, res.Shifts[0].Delta)
}

func TestRun_Validation(t *testing.T) {
	points := dataset(t)
	grans := []model.Granularity{model.GridGranularity(5), model.GridGranularity(10)}

	opts := defaultOptions()
	opts.XAttr = ""
	_, err := Run(points, grans, opts)
	require.Error(t, err)

	opts = defaultOptions()
	opts.YAttr = opts.XAttr
	_, err = Run(points, grans, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")

	_, err = Run(points, grans[:1], defaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two granularities")

	_, err = Run(points, []model.Granularity{
		model.GridGranularity(5),
		model.ZoneGranularity("nope"),
	}, defaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown zone set")
}
