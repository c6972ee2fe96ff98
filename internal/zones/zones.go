// Package zones provides administrative boundary sets for zone-based
// aggregation: a built-in simplified set of Île-de-France départements and a
// shapefile loader for custom boundary sets.
package zones

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Zone is one administrative unit of a boundary set.
type Zone struct {
	Code     string
	Name     string
	Geometry *geom.MultiPolygon
}

// Set is an ordered collection of zones. When simplified boundaries overlap,
// the first zone containing a point wins, so assignment stays unambiguous.
type Set struct {
	Name  string
	Zones []Zone
}

// Validate rejects empty or degenerate sets before aggregation.
func (s Set) Validate() error {
	if s.Name == "" {
		return eris.New("zones: set name is required")
	}
	if len(s.Zones) == 0 {
		return eris.New("zones: set has no zones")
	}
	for _, z := range s.Zones {
		if z.Code == "" {
			return eris.New("zones: zone code is required")
		}
		if z.Geometry == nil || z.Geometry.NumPolygons() == 0 {
			return eris.Errorf("zones: zone %q has no geometry", z.Code)
		}
	}
	return nil
}

// Find returns the first zone containing the point, or nil when no zone does.
func (s Set) Find(lat, lon float64) *Zone {
	if i := s.FindIndex(lat, lon); i >= 0 {
		return &s.Zones[i]
	}
	return nil
}

// FindIndex returns the index of the first zone containing the point, or -1.
func (s Set) FindIndex(lat, lon float64) int {
	for i := range s.Zones {
		if zoneContains(s.Zones[i].Geometry, lat, lon) {
			return i
		}
	}
	return -1
}

// zoneContains reports whether the point falls inside any polygon of the
// multipolygon: inside its exterior ring and outside every hole.
func zoneContains(mp *geom.MultiPolygon, lat, lon float64) bool {
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		if p.NumLinearRings() == 0 {
			continue
		}
		if !ringContains(p.LinearRing(0), lat, lon) {
			continue
		}
		inHole := false
		for r := 1; r < p.NumLinearRings(); r++ {
			if ringContains(p.LinearRing(r), lat, lon) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// ringContains is a standard even-odd ray cast in lon/lat coordinates.
// Rings store coordinates as (lon, lat), matching GeoJSON axis order.
func ringContains(ring *geom.LinearRing, lat, lon float64) bool {
	coords := ring.Coords()
	n := len(coords)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := coords[i][0], coords[i][1]
		xj, yj := coords[j][0], coords[j][1]
		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
