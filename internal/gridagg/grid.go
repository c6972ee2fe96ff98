// Package gridagg bins point datasets into spatial units (regular grids or
// administrative zones) and computes per-unit summary statistics. Aggregation
// is a pure, single-pass transformation: no point is dropped or counted twice,
// and empty units report null means instead of failing.
package gridagg

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/stats"
)

// GridSpec describes one regular grid granularity over a bounding box.
type GridSpec struct {
	Size int
	BBox model.BBox
}

// Validate rejects degenerate grids before any binning happens.
func (s GridSpec) Validate() error {
	if s.Size <= 0 {
		return eris.Errorf("gridagg: grid size must be positive, got %d", s.Size)
	}
	if !s.BBox.Valid() {
		return eris.New("gridagg: bounding box has no extent")
	}
	return nil
}

// cellIndex maps a coordinate to its bin along one axis. Intervals are
// half-open with the lower edge inclusive, so a point lying exactly on an
// interior boundary belongs to the cell whose lower/left edge it sits on.
// The closing edge of the last cell is inclusive so the maximum coordinate
// is never dropped.
func cellIndex(v, min, max float64, size int) int {
	idx := int(float64(size) * (v - min) / (max - min))
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

// AggregateGrid assigns every point to exactly one grid cell and computes the
// per-cell count and attribute means. Points outside the box are clamped into
// the edge cells so the count invariant holds for any input. Records cover
// all size-by-size cells in row-major order from the south-west corner.
func AggregateGrid(points []model.Point, attrs []string, spec GridSpec) (model.AggregateSet, error) {
	if err := spec.Validate(); err != nil {
		return model.AggregateSet{}, err
	}

	attrs = canonicalAttrs(attrs)
	size := spec.Size
	box := spec.BBox

	counts := make([]int, size*size)
	sums := make([]map[string]float64, size*size)

	for _, p := range points {
		row := cellIndex(p.Lat, box.MinLat, box.MaxLat, size)
		col := cellIndex(p.Lon, box.MinLon, box.MaxLon, size)
		i := row*size + col

		counts[i]++
		if sums[i] == nil {
			sums[i] = make(map[string]float64, len(attrs))
		}
		for _, a := range attrs {
			sums[i][a] += p.Attrs[a]
		}
	}

	latStep := (box.MaxLat - box.MinLat) / float64(size)
	lonStep := (box.MaxLon - box.MinLon) / float64(size)

	records := make([]model.AggregateRecord, 0, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			i := row*size + col
			rec := model.AggregateRecord{
				CellID: fmt.Sprintf("r%dc%d", row, col),
				Row:    row,
				Col:    col,
				Bounds: model.BBox{
					MinLat: box.MinLat + float64(row)*latStep,
					MinLon: box.MinLon + float64(col)*lonStep,
					MaxLat: box.MinLat + float64(row+1)*latStep,
					MaxLon: box.MinLon + float64(col+1)*lonStep,
				},
				Count: counts[i],
				Means: make(map[string]*float64, len(attrs)),
			}
			if counts[i] > 0 {
				rec.Sums = sums[i]
				for _, a := range attrs {
					rec.Means[a] = stats.Ptr(sums[i][a] / float64(counts[i]))
				}
			} else {
				for _, a := range attrs {
					rec.Means[a] = nil
				}
			}
			records = append(records, rec)
		}
	}

	return model.AggregateSet{
		Granularity: model.GridGranularity(size),
		Attributes:  attrs,
		TotalPoints: len(points),
		Records:     records,
		Summary:     summarize(records),
	}, nil
}

// summarize computes the descriptive statistics of one aggregation level.
// Mean and stddev cover occupied cells only, matching how sparse grids are
// usually read on the dashboard.
func summarize(records []model.AggregateRecord) model.Summary {
	s := model.Summary{TotalCells: len(records)}

	var occupied []float64
	for _, r := range records {
		if r.Count == 0 {
			continue
		}
		s.OccupiedCells++
		if r.Count > s.MaxCount {
			s.MaxCount = r.Count
		}
		occupied = append(occupied, float64(r.Count))
	}

	if m, ok := stats.Mean(occupied); ok {
		s.MeanCount = stats.Ptr(m)
	}
	if sd, ok := stats.StdDev(occupied); ok {
		s.StdDevCount = stats.Ptr(sd)
	}
	return s
}

// canonicalAttrs sorts and deduplicates the requested attribute names so the
// output is independent of caller ordering.
func canonicalAttrs(attrs []string) []string {
	if len(attrs) == 0 {
		return model.PointAttrs()
	}
	seen := make(map[string]bool, len(attrs))
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
