package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gj "github.com/geodesic-labs/arealens/internal/geojson"
	"github.com/geodesic-labs/arealens/internal/model"
)

// Format names a report file format.
type Format string

// Supported export formats.
const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX, FormatGeoJSON:
		return Format(s), nil
	default:
		return "", eris.Errorf("report: unknown format %q", s)
	}
}

// WriteGeoJSON writes one aggregation level as a choropleth layer file.
func WriteGeoJSON(path string, set model.AggregateSet, ind model.Indicator) error {
	fc, err := gj.CellFeatures(set, ind)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

// Export writes a comparison result to dir in the chosen format. CSV and
// GeoJSON produce one file per granularity, written concurrently; XLSX
// produces a single workbook. Returns the written file paths, sorted by
// granularity order.
func Export(ctx context.Context, dir string, format Format, result *model.ComparisonResult, ind model.Indicator) ([]string, error) {
	if result == nil {
		return nil, eris.New("report: comparison result is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "report: create dir %s", dir)
	}

	log := zap.L().With(zap.String("dir", dir), zap.String("format", string(format)))

	if format == FormatXLSX {
		path := filepath.Join(dir, "comparison.xlsx")
		if err := WriteComparisonXLSX(path, result); err != nil {
			return nil, err
		}
		log.Info("wrote comparison workbook", zap.String("path", path))
		return []string{path}, nil
	}

	paths := make([]string, len(result.Sets))
	g, ctx := errgroup.WithContext(ctx)
	for i, set := range result.Sets {
		set := set
		label := strings.ReplaceAll(set.Granularity.Label(), ":", "-")
		name := fmt.Sprintf("cells_%s.%s", label, format)
		path := filepath.Join(dir, name)
		paths[i] = path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch format {
			case FormatCSV:
				return WriteCellsCSV(path, set)
			case FormatGeoJSON:
				return WriteGeoJSON(path, set, ind)
			default:
				return eris.Errorf("report: unknown format %q", format)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("wrote report files", zap.Int("files", len(paths)))
	return paths, nil
}
