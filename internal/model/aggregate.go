package model

import "fmt"

// GranularityKind distinguishes regular grids from administrative zone sets.
type GranularityKind string

const (
	// GranularityGrid partitions the bounding box into size-by-size square cells.
	GranularityGrid GranularityKind = "grid"
	// GranularityZones partitions by named administrative boundary polygons.
	GranularityZones GranularityKind = "zones"
)

// Granularity describes one spatial aggregation level.
type Granularity struct {
	Kind     GranularityKind `json:"kind"`
	GridSize int             `json:"grid_size,omitempty"`
	ZoneSet  string          `json:"zone_set,omitempty"`
}

// GridGranularity builds a grid granularity descriptor.
func GridGranularity(size int) Granularity {
	return Granularity{Kind: GranularityGrid, GridSize: size}
}

// ZoneGranularity builds a zone-set granularity descriptor.
func ZoneGranularity(set string) Granularity {
	return Granularity{Kind: GranularityZones, ZoneSet: set}
}

// Label returns a short human-readable name, e.g. "grid-10" or "zones:departements".
func (g Granularity) Label() string {
	if g.Kind == GranularityZones {
		return "zones:" + g.ZoneSet
	}
	return fmt.Sprintf("grid-%d", g.GridSize)
}

// AggregateRecord holds the summary for one cell at one granularity.
// Means are nil for empty cells; Count is always set.
type AggregateRecord struct {
	CellID string `json:"cell_id"`
	// Row/Col index the grid cell from the south-west corner. Zone records
	// leave them at zero and carry the zone name instead.
	Row    int    `json:"row,omitempty"`
	Col    int    `json:"col,omitempty"`
	Name   string `json:"name,omitempty"`
	Bounds BBox   `json:"bounds"`

	Count int                 `json:"count"`
	Sums  map[string]float64  `json:"sums,omitempty"`
	Means map[string]*float64 `json:"means"`
}

// Mean returns the mean of an attribute, or nil when the cell is empty.
func (r AggregateRecord) Mean(attr string) *float64 {
	if r.Means == nil {
		return nil
	}
	return r.Means[attr]
}

// Summary holds the descriptive statistics for one aggregation level.
// MeanCount and StdDevCount cover occupied cells only and are nil when
// every cell is empty.
type Summary struct {
	TotalCells    int      `json:"total_cells"`
	OccupiedCells int      `json:"occupied_cells"`
	MaxCount      int      `json:"max_count"`
	MeanCount     *float64 `json:"mean_count"`
	StdDevCount   *float64 `json:"stddev_count"`
}

// AggregateSet is the full output of one aggregation run: every cell at one
// granularity plus the level's descriptive statistics.
type AggregateSet struct {
	Granularity Granularity       `json:"granularity"`
	Attributes  []string          `json:"attributes"`
	TotalPoints int               `json:"total_points"`
	Records     []AggregateRecord `json:"records"`
	Summary     Summary           `json:"summary"`
}

// Occupied returns the records with at least one point, preserving order.
func (s AggregateSet) Occupied() []AggregateRecord {
	out := make([]AggregateRecord, 0, s.Summary.OccupiedCells)
	for _, r := range s.Records {
		if r.Count > 0 {
			out = append(out, r)
		}
	}
	return out
}
