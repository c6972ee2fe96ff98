// Package report writes aggregation and comparison results to files: CSV
// tables, XLSX workbooks, and GeoJSON map layers.
package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/geodesic-labs/arealens/internal/model"
)

// WriteCellsCSV writes one aggregation level as a CSV table, one row per
// cell. Empty cells leave their mean columns blank.
func WriteCellsCSV(path string, set model.AggregateSet) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"cell_id", "name", "min_lat", "min_lon", "max_lat", "max_lon", "count"}
	for _, a := range set.Attributes {
		header = append(header, "mean_"+a)
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "report: write header")
	}

	for _, r := range set.Records {
		row := []string{
			r.CellID,
			r.Name,
			formatFloat(r.Bounds.MinLat),
			formatFloat(r.Bounds.MinLon),
			formatFloat(r.Bounds.MaxLat),
			formatFloat(r.Bounds.MaxLon),
			strconv.Itoa(r.Count),
		}
		for _, a := range set.Attributes {
			if m := r.Mean(a); m != nil {
				row = append(row, formatFloat(*m))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "report: write cell %s", r.CellID)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}

// WritePointsCSV writes the raw dataset as CSV, one row per warehouse.
func WritePointsCSV(path string, points []model.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	attrs := model.PointAttrs()
	header := []string{"id", "lat", "lon", "hub", "department"}
	header = append(header, attrs...)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "report: write header")
	}

	for _, p := range points {
		row := []string{p.ID, formatFloat(p.Lat), formatFloat(p.Lon), p.Hub, p.Department}
		for _, a := range attrs {
			row = append(row, formatFloat(p.Attrs[a]))
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "report: write point %s", p.ID)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
