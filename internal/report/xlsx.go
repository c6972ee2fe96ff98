package report

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/geodesic-labs/arealens/internal/model"
)

// WriteComparisonXLSX writes a full comparison as one workbook: a summary
// sheet, a correlations sheet, and one cell sheet per granularity.
func WriteComparisonXLSX(path string, result *model.ComparisonResult) error {
	if result == nil {
		return eris.New("report: comparison result is required")
	}

	file := xlsx.NewFile()

	if err := addSummarySheet(file, result); err != nil {
		return err
	}
	if err := addCorrelationSheet(file, result); err != nil {
		return err
	}
	for _, set := range result.Sets {
		if err := addCellSheet(file, set); err != nil {
			return err
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addSummarySheet(file *xlsx.File, result *model.ComparisonResult) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"granularity", "total_cells", "occupied_cells", "max_count", "mean_count", "stddev_count"} {
		header.AddCell().Value = h
	}

	for _, set := range result.Sets {
		row := sheet.AddRow()
		row.AddCell().Value = set.Granularity.Label()
		row.AddCell().SetInt(set.Summary.TotalCells)
		row.AddCell().SetInt(set.Summary.OccupiedCells)
		row.AddCell().SetInt(set.Summary.MaxCount)
		setNullableFloat(row.AddCell(), set.Summary.MeanCount)
		setNullableFloat(row.AddCell(), set.Summary.StdDevCount)
	}
	return nil
}

func addCorrelationSheet(file *xlsx.File, result *model.ComparisonResult) error {
	sheet, err := file.AddSheet("Correlations")
	if err != nil {
		return eris.Wrap(err, "report: add correlation sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"granularity", "x_attr", "y_attr", "cells_used", "pearson"} {
		header.AddCell().Value = h
	}
	for _, r := range result.Reports {
		row := sheet.AddRow()
		row.AddCell().Value = r.Granularity.Label()
		row.AddCell().Value = r.XAttr
		row.AddCell().Value = r.YAttr
		row.AddCell().SetInt(r.CellsUsed)
		setNullableFloat(row.AddCell(), r.Pearson)
	}

	shiftHeader := sheet.AddRow()
	shiftHeader.AddCell().Value = ""
	shiftRow := sheet.AddRow()
	shiftRow.AddCell().Value = "correlation shift"
	for _, s := range result.Shifts {
		row := sheet.AddRow()
		row.AddCell().Value = s.From.Label() + " -> " + s.To.Label()
		setNullableFloat(row.AddCell(), s.Delta)
	}
	return nil
}

func addCellSheet(file *xlsx.File, set model.AggregateSet) error {
	// Colons are not allowed in sheet names.
	name := strings.ReplaceAll(set.Granularity.Label(), ":", "-")
	sheet, err := file.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}

	header := sheet.AddRow()
	cols := []string{"cell_id", "name", "count"}
	for _, a := range set.Attributes {
		cols = append(cols, "mean_"+a)
	}
	for _, h := range cols {
		header.AddCell().Value = h
	}

	for _, r := range set.Records {
		row := sheet.AddRow()
		row.AddCell().Value = r.CellID
		row.AddCell().Value = r.Name
		row.AddCell().SetInt(r.Count)
		for _, a := range set.Attributes {
			setNullableFloat(row.AddCell(), r.Mean(a))
		}
	}
	return nil
}

func setNullableFloat(cell *xlsx.Cell, v *float64) {
	if v == nil {
		cell.Value = ""
		return
	}
	cell.SetFloat(*v)
}
