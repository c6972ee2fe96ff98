package zones

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads polygon records from a shapefile and builds a zone set.
// codeField and nameField name the attribute columns holding the zone code
// and display name (matched case-insensitively). Non-polygon records are
// skipped with a debug log.
func LoadShapefile(path, setName, codeField, nameField string) (Set, error) {
	if path == "" {
		return Set{}, eris.New("zones: shapefile path is required")
	}
	if setName == "" {
		return Set{}, eris.New("zones: set name is required")
	}

	reader, err := shp.Open(path)
	if err != nil {
		return Set{}, eris.Wrapf(err, "zones: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	codeIdx := fieldIndex(reader, codeField)
	nameIdx := fieldIndex(reader, nameField)
	if codeIdx < 0 {
		return Set{}, eris.Errorf("zones: field %q not found in shapefile", codeField)
	}

	set := Set{Name: setName}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := toMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		code := strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00"))
		if code == "" {
			skipped++
			continue
		}
		name := code
		if nameIdx >= 0 {
			if n := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00")); n != "" {
				name = n
			}
		}

		set.Zones = append(set.Zones, Zone{Code: code, Name: name, Geometry: mp})
	}

	if skipped > 0 {
		zap.L().Debug("zones: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// fieldIndex returns the index of a named DBF field, or -1 when absent.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		fn := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(fn, name) {
			return i
		}
	}
	return -1
}

// toMultiPolygon converts a shapefile polygon to a geom.MultiPolygon,
// treating each part as an exterior ring. Returns nil for empty shapes.
func toMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("zones: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("zones: skipping malformed part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
