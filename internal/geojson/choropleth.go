// Package geojson renders aggregation results as GeoJSON feature collections
// for the dashboard's map layers.
package geojson

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/geodesic-labs/arealens/internal/model"
)

// CellFeatures renders one aggregation level as a choropleth layer: one
// polygon feature per cell with its count, attribute means, the selected
// indicator's value, and that value normalized to [0,1] for the color ramp.
// Empty cells carry a null value so the map can leave them unfilled.
func CellFeatures(set model.AggregateSet, ind model.Indicator) (*geojson.FeatureCollection, error) {
	if _, err := model.ParseIndicator(string(ind)); err != nil {
		return nil, eris.Wrap(err, "geojson: indicator")
	}

	maxVal := 0.0
	values := make([]*float64, len(set.Records))
	for i, r := range set.Records {
		v := indicatorValue(r, ind)
		values[i] = v
		if v != nil && *v > maxVal {
			maxVal = *v
		}
	}

	fc := &geojson.FeatureCollection{}
	for i, r := range set.Records {
		props := map[string]interface{}{
			"cell_id":   r.CellID,
			"count":     r.Count,
			"indicator": string(ind),
		}
		if r.Name != "" {
			props["name"] = r.Name
		}
		for attr, mean := range r.Means {
			if mean != nil {
				props["mean_"+attr] = *mean
			} else {
				props["mean_"+attr] = nil
			}
		}
		if values[i] != nil {
			props["value"] = *values[i]
			if maxVal > 0 {
				props["ramp"] = *values[i] / maxVal
			} else {
				props["ramp"] = 0.0
			}
		} else {
			props["value"] = nil
			props["ramp"] = nil
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         r.CellID,
			Geometry:   boxPolygon(r.Bounds),
			Properties: props,
		})
	}
	return fc, nil
}

// PointFeatures renders the raw warehouse dataset as a point layer.
func PointFeatures(points []model.Point) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for _, p := range points {
		props := map[string]interface{}{
			"id":         p.ID,
			"hub":        p.Hub,
			"department": p.Department,
		}
		for attr, v := range p.Attrs {
			props[attr] = v
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         p.ID,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}).SetSRID(4326),
			Properties: props,
		})
	}
	return fc
}

// indicatorValue maps a dashboard indicator onto one cell. Warehouse density
// is the raw point count, zero included; employment is proxied by the mean
// employee count; the rest use the matching attribute mean, nil when empty.
func indicatorValue(r model.AggregateRecord, ind model.Indicator) *float64 {
	switch ind {
	case model.IndicatorWarehouseDensity:
		v := float64(r.Count)
		return &v
	case model.IndicatorEmploymentRate:
		return r.Mean(model.AttrEmployees)
	case model.IndicatorMedianIncome:
		return r.Mean(model.AttrMedianIncome)
	case model.IndicatorAccessibility:
		return r.Mean(model.AttrAccessibility)
	default:
		return nil
	}
}

// boxPolygon builds a closed rectangle in GeoJSON (lon, lat) axis order.
func boxPolygon(b model.BBox) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		b.MinLon, b.MinLat,
		b.MaxLon, b.MinLat,
		b.MaxLon, b.MaxLat,
		b.MinLon, b.MaxLat,
		b.MinLon, b.MinLat,
	}, []int{10}).SetSRID(4326)
}
