package gridagg

import (
	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/stats"
	"github.com/geodesic-labs/arealens/internal/zones"
)

// UnassignedCellID collects points that fall outside every zone of a set, so
// the per-cell counts still sum to the input size.
const UnassignedCellID = "unassigned"

// AggregateZones assigns every point to the first zone containing it and
// computes per-zone counts and attribute means. Records follow the zone set's
// order; a trailing record with CellID "unassigned" appears only when some
// points match no zone.
func AggregateZones(points []model.Point, attrs []string, set zones.Set) (model.AggregateSet, error) {
	if err := set.Validate(); err != nil {
		return model.AggregateSet{}, err
	}

	attrs = canonicalAttrs(attrs)

	type acc struct {
		count int
		sums  map[string]float64
	}
	accs := make([]acc, len(set.Zones))
	var outside acc

	for _, p := range points {
		target := &outside
		if i := set.FindIndex(p.Lat, p.Lon); i >= 0 {
			target = &accs[i]
		}
		target.count++
		if target.sums == nil {
			target.sums = make(map[string]float64, len(attrs))
		}
		for _, a := range attrs {
			target.sums[a] += p.Attrs[a]
		}
	}

	records := make([]model.AggregateRecord, 0, len(set.Zones)+1)
	for i, z := range set.Zones {
		records = append(records, zoneRecord(z, accs[i].count, accs[i].sums, attrs))
	}
	if outside.count > 0 {
		rec := model.AggregateRecord{
			CellID: UnassignedCellID,
			Name:   "Unassigned",
			Count:  outside.count,
			Sums:   outside.sums,
			Means:  make(map[string]*float64, len(attrs)),
		}
		for _, a := range attrs {
			rec.Means[a] = stats.Ptr(outside.sums[a] / float64(outside.count))
		}
		records = append(records, rec)
	}

	return model.AggregateSet{
		Granularity: model.ZoneGranularity(set.Name),
		Attributes:  attrs,
		TotalPoints: len(points),
		Records:     records,
		Summary:     summarize(records),
	}, nil
}

func zoneRecord(z zones.Zone, count int, sums map[string]float64, attrs []string) model.AggregateRecord {
	b := z.Geometry.Bounds()
	rec := model.AggregateRecord{
		CellID: z.Code,
		Name:   z.Name,
		Bounds: model.BBox{
			MinLat: b.Min(1),
			MinLon: b.Min(0),
			MaxLat: b.Max(1),
			MaxLon: b.Max(0),
		},
		Count: count,
		Means: make(map[string]*float64, len(attrs)),
	}
	if count > 0 {
		rec.Sums = sums
		for _, a := range attrs {
			rec.Means[a] = stats.Ptr(sums[a] / float64(count))
		}
	} else {
		for _, a := range attrs {
			rec.Means[a] = nil
		}
	}
	return rec
}
