// Package compare runs the aggregator at several granularities and measures
// how the statistical picture moves between them. This is the core MAUP
// demonstration: the same points, partitioned differently, produce different
// correlations.
package compare

import (
	"github.com/rotisserie/eris"

	"github.com/geodesic-labs/arealens/internal/gridagg"
	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/stats"
	"github.com/geodesic-labs/arealens/internal/zones"
)

// Options configures a comparison. XAttr and YAttr pick the attribute pair
// whose per-cell means are correlated at each granularity.
type Options struct {
	XAttr string
	YAttr string
	BBox  model.BBox

	// ZoneSets resolves zone-granularity names. The built-in département set
	// is always available.
	ZoneSets map[string]zones.Set
}

// Validate rejects unusable options before any aggregation happens.
func (o Options) Validate() error {
	if o.XAttr == "" || o.YAttr == "" {
		return eris.New("compare: both attributes are required")
	}
	if o.XAttr == o.YAttr {
		return eris.Errorf("compare: attributes must differ, got %q twice", o.XAttr)
	}
	if !o.BBox.Valid() {
		return eris.New("compare: bounding box has no extent")
	}
	return nil
}

func (o Options) zoneSet(name string) (zones.Set, error) {
	if set, ok := o.ZoneSets[name]; ok {
		return set, nil
	}
	if name == zones.DepartementsSetName {
		return zones.Departements(), nil
	}
	return zones.Set{}, eris.Errorf("compare: unknown zone set %q", name)
}

// Run aggregates the points at every requested granularity and reports the
// correlation between the two attributes' per-cell means at each level, plus
// the shift between adjacent levels. It is a pure function of its inputs:
// identical calls yield identical results.
func Run(points []model.Point, grans []model.Granularity, opts Options) (*model.ComparisonResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(grans) < 2 {
		return nil, eris.Errorf("compare: need at least two granularities, got %d", len(grans))
	}

	attrs := []string{opts.XAttr, opts.YAttr}

	result := &model.ComparisonResult{
		XAttr: opts.XAttr,
		YAttr: opts.YAttr,
	}

	for _, g := range grans {
		var (
			set model.AggregateSet
			err error
		)
		switch g.Kind {
		case model.GranularityGrid:
			set, err = gridagg.AggregateGrid(points, attrs, gridagg.GridSpec{Size: g.GridSize, BBox: opts.BBox})
		case model.GranularityZones:
			zs, zerr := opts.zoneSet(g.ZoneSet)
			if zerr != nil {
				return nil, zerr
			}
			set, err = gridagg.AggregateZones(points, attrs, zs)
		default:
			err = eris.Errorf("compare: unknown granularity kind %q", g.Kind)
		}
		if err != nil {
			return nil, err
		}

		result.Sets = append(result.Sets, set)
		result.Reports = append(result.Reports, correlate(set, opts.XAttr, opts.YAttr))
	}

	for i := 1; i < len(result.Reports); i++ {
		result.Shifts = append(result.Shifts, shift(result.Reports[i-1], result.Reports[i]))
	}

	return result, nil
}

// correlate computes the Pearson correlation between two attributes' means
// over the cells where both are defined.
func correlate(set model.AggregateSet, xAttr, yAttr string) model.CorrelationReport {
	var xs, ys []float64
	for _, r := range set.Records {
		x, y := r.Mean(xAttr), r.Mean(yAttr)
		if x == nil || y == nil {
			continue
		}
		xs = append(xs, *x)
		ys = append(ys, *y)
	}

	report := model.CorrelationReport{
		Granularity:   set.Granularity,
		XAttr:         xAttr,
		YAttr:         yAttr,
		CellsUsed:     len(xs),
		OccupiedCells: set.Summary.OccupiedCells,
	}
	if r, ok := stats.Pearson(xs, ys); ok {
		report.Pearson = stats.Ptr(r)
	}
	return report
}

func shift(from, to model.CorrelationReport) model.CorrelationShift {
	s := model.CorrelationShift{From: from.Granularity, To: to.Granularity}
	if from.Pearson != nil && to.Pearson != nil {
		s.Delta = stats.Ptr(*to.Pearson - *from.Pearson)
	}
	return s
}
