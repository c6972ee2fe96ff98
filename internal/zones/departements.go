package zones

import "github.com/twpayne/go-geom"

// DepartementsSetName identifies the built-in Île-de-France boundary set.
const DepartementsSetName = "departements"

// Departements returns a coarse rectangular simplification of the eight
// Île-de-France départements. The inner ring of départements comes first so
// that the first-match rule resolves overlaps with the larger outer ones.
func Departements() Set {
	return Set{
		Name: DepartementsSetName,
		Zones: []Zone{
			{Code: "75", Name: "Paris", Geometry: rect(48.815, 2.250, 48.902, 2.420)},
			{Code: "92", Name: "Hauts-de-Seine", Geometry: rect(48.760, 2.140, 48.950, 2.260)},
			{Code: "93", Name: "Seine-Saint-Denis", Geometry: rect(48.850, 2.280, 49.015, 2.600)},
			{Code: "94", Name: "Val-de-Marne", Geometry: rect(48.680, 2.300, 48.825, 2.620)},
			{Code: "95", Name: "Val-d'Oise", Geometry: rect(48.985, 1.600, 49.240, 2.600)},
			{Code: "91", Name: "Essonne", Geometry: rect(48.280, 1.910, 48.700, 2.600)},
			{Code: "78", Name: "Yvelines", Geometry: rect(48.400, 1.450, 49.090, 2.145)},
			{Code: "77", Name: "Seine-et-Marne", Geometry: rect(48.120, 2.590, 49.120, 3.560)},
		},
	}
}

// rect builds a single-ring multipolygon from a lat/lon box. Coordinates use
// GeoJSON (lon, lat) axis order, closed counter-clockwise.
func rect(minLat, minLon, maxLat, maxLon float64) *geom.MultiPolygon {
	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	p := geom.NewPolygonFlat(geom.XY, []float64{
		minLon, minLat,
		maxLon, minLat,
		maxLon, maxLat,
		minLon, maxLat,
		minLon, minLat,
	}, []int{10})
	// Push only fails on layout mismatch, which cannot happen here.
	_ = mp.Push(p)
	return mp
}
