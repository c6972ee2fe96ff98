package gridagg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/synth"
)

var unitBox = model.BBox{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}

// uniformPoints scatters n points uniformly over the unit box.
func uniformPoints(t *testing.T, n int) []model.Point {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	points := make([]model.Point, n)
	for i := range points {
		points[i] = model.Point{
			Lat: rng.Float64() * 10,
			Lon: rng.Float64() * 10,
			Attrs: map[string]float64{
				"income": 100 + rng.Float64()*50,
				"jobs":   rng.Float64() * 20,
			},
		}
	}
	return points
}

func totalCount(set model.AggregateSet) int {
	total := 0
	for _, r := range set.Records {
		total += r.Count
	}
	return total
}

func TestAggregateGrid_CountInvariant(t *testing.T) {
	points := uniformPoints(t, 100)

	for _, size := range []int{1, 2, 5, 10, 20} {
		set, err := AggregateGrid(points, []string{"income", "jobs"}, GridSpec{Size: size, BBox: unitBox})
		require.NoError(t, err)
		assert.Equal(t, 100, totalCount(set), "size %d", size)
		assert.Equal(t, 100, set.TotalPoints, "size %d", size)
		assert.Len(t, set.Records, size*size, "size %d", size)
	}
}

func TestAggregateGrid_Deterministic(t *testing.T) {
	points := uniformPoints(t, 100)
	spec := GridSpec{Size: 7, BBox: unitBox}

	a, err := AggregateGrid(points, []string{"income"}, spec)
	require.NoError(t, err)
	b, err := AggregateGrid(points, []string{"income"}, spec)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestAggregateGrid_CoarseningNeverAddsOccupiedCells(t *testing.T) {
	// 100 uniform points in a 10x10 box, binned at a 10x10 grid and then
	// a 2x2 grid.
	points := uniformPoints(t, 100)

	fine, err := AggregateGrid(points, nil, GridSpec{Size: 10, BBox: unitBox})
	require.NoError(t, err)
	coarse, err := AggregateGrid(points, nil, GridSpec{Size: 2, BBox: unitBox})
	require.NoError(t, err)

	assert.Equal(t, 100, totalCount(fine))
	assert.Equal(t, 100, totalCount(coarse))
	assert.LessOrEqual(t, coarse.Summary.OccupiedCells, fine.Summary.OccupiedCells)
}

func TestAggregateGrid_EmptyCellHasNullMeans(t *testing.T) {
	points := []model.Point{
		{Lat: 0.5, Lon: 0.5, Attrs: map[string]float64{"income": 10}},
	}

	set, err := AggregateGrid(points, []string{"income"}, GridSpec{Size: 2, BBox: unitBox})
	require.NoError(t, err)
	require.Len(t, set.Records, 4)

	var empty, occupied int
	for _, r := range set.Records {
		if r.Count == 0 {
			empty++
			assert.Nil(t, r.Mean("income"), "cell %s", r.CellID)
		} else {
			occupied++
			require.NotNil(t, r.Mean("income"))
			assert.Equal(t, 10.0, *r.Mean("income"))
		}
	}
	assert.Equal(t, 3, empty)
	assert.Equal(t, 1, occupied)
}

func TestAggregateGrid_BoundaryPointGoesToLowerLeftEdgeCell(t *testing.T) {
	// A point exactly on the interior boundary at 5.0 belongs to the cell
	// whose lower/left edge it lies on (row/col 1 of a 2x2 grid).
	points := []model.Point{{Lat: 5.0, Lon: 5.0}}

	set, err := AggregateGrid(points, nil, GridSpec{Size: 2, BBox: unitBox})
	require.NoError(t, err)

	assert.Equal(t, 1, totalCount(set))
	for _, r := range set.Records {
		if r.Row == 1 && r.Col == 1 {
			assert.Equal(t, 1, r.Count)
		} else {
			assert.Equal(t, 0, r.Count, "cell %s", r.CellID)
		}
	}
}

func TestAggregateGrid_MaxCoordinateNotDropped(t *testing.T) {
	points := []model.Point{{Lat: 10.0, Lon: 10.0}}

	set, err := AggregateGrid(points, nil, GridSpec{Size: 4, BBox: unitBox})
	require.NoError(t, err)

	assert.Equal(t, 1, totalCount(set))
	for _, r := range set.Records {
		if r.Row == 3 && r.Col == 3 {
			assert.Equal(t, 1, r.Count)
		}
	}
}

func TestAggregateGrid_MeansMatchHandComputation(t *testing.T) {
	points := []model.Point{
		{Lat: 1, Lon: 1, Attrs: map[string]float64{"income": 10, "jobs": 4}},
		{Lat: 2, Lon: 2, Attrs: map[string]float64{"income": 20, "jobs": 6}},
		{Lat: 8, Lon: 8, Attrs: map[string]float64{"income": 50, "jobs": 1}},
	}

	set, err := AggregateGrid(points, []string{"income", "jobs"}, GridSpec{Size: 2, BBox: unitBox})
	require.NoError(t, err)

	var sw, ne model.AggregateRecord
	for _, r := range set.Records {
		switch {
		case r.Row == 0 && r.Col == 0:
			sw = r
		case r.Row == 1 && r.Col == 1:
			ne = r
		}
	}

	require.Equal(t, 2, sw.Count)
	assert.Equal(t, 15.0, *sw.Mean("income"))
	assert.Equal(t, 5.0, *sw.Mean("jobs"))

	require.Equal(t, 1, ne.Count)
	assert.Equal(t, 50.0, *ne.Mean("income"))
}

func TestAggregateGrid_SummaryStats(t *testing.T) {
	points := []model.Point{
		{Lat: 1, Lon: 1}, {Lat: 1.2, Lon: 1.1}, {Lat: 1.3, Lon: 0.7},
		{Lat: 8, Lon: 8},
	}

	set, err := AggregateGrid(points, nil, GridSpec{Size: 2, BBox: unitBox})
	require.NoError(t, err)

	assert.Equal(t, 4, set.Summary.TotalCells)
	assert.Equal(t, 2, set.Summary.OccupiedCells)
	assert.Equal(t, 3, set.Summary.MaxCount)
	require.NotNil(t, set.Summary.MeanCount)
	assert.Equal(t, 2.0, *set.Summary.MeanCount)
	require.NotNil(t, set.Summary.StdDevCount)
	assert.Equal(t, 1.0, *set.Summary.StdDevCount)
}

func TestAggregateGrid_NoPoints(t *testing.T) {
	set, err := AggregateGrid(nil, nil, GridSpec{Size: 3, BBox: unitBox})
	require.NoError(t, err)

	assert.Equal(t, 0, set.TotalPoints)
	assert.Equal(t, 9, set.Summary.TotalCells)
	assert.Equal(t, 0, set.Summary.OccupiedCells)
	assert.Nil(t, set.Summary.MeanCount)
	assert.Nil(t, set.Summary.StdDevCount)
}

func TestAggregateGrid_InvalidSpec(t *testing.T) {
	_, err := AggregateGrid(nil, nil, GridSpec{Size: 0, BBox: unitBox})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid size must be positive")

	_, err = AggregateGrid(nil, nil, GridSpec{Size: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bounding box")
}

func TestAggregateGrid_SyntheticDatasetInvariants(t *testing.T) {
	points, err := synth.Generate(synth.Default())
	require.NoError(t, err)

	prevOccupied := -1
	for _, size := range []int{20, 10, 5} {
		set, aggErr := AggregateGrid(points, model.PointAttrs(), GridSpec{Size: size, BBox: synth.IleDeFrance})
		require.NoError(t, aggErr)
		assert.Equal(t, len(points), totalCount(set))

		if prevOccupied >= 0 {
			assert.LessOrEqual(t, set.Summary.OccupiedCells, prevOccupied,
				"coarsening to size %d increased occupied cells", size)
		}
		prevOccupied = set.Summary.OccupiedCells
	}
}
