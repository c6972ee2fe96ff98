package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/compare"
	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/report"
	"github.com/geodesic-labs/arealens/internal/synth"
	"github.com/geodesic-labs/arealens/internal/zones"
)

var (
	exportDir       string
	exportFormat    string
	exportIndicator string
	exportSizes     []int
	exportZoneSet   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export aggregation results to report files",
	Long:  "Runs a comparison and writes the per-granularity cell tables as CSV, a single XLSX workbook, or GeoJSON feature collections.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !cmd.Flags().Changed("dir") && cfg.Export.Dir != "" {
			exportDir = cfg.Export.Dir
		}
		if !cmd.Flags().Changed("format") && cfg.Export.Format != "" {
			exportFormat = cfg.Export.Format
		}

		format, err := report.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		ind, err := model.ParseIndicator(exportIndicator)
		if err != nil {
			return err
		}

		points, err := synth.Generate(cfg.Synth)
		if err != nil {
			return err
		}

		sizes := exportSizes
		if !cmd.Flags().Changed("sizes") {
			sizes = cfg.Grid.CompareSizes
		}

		var grans []model.Granularity
		for _, size := range sizes {
			if !cfg.Grid.Allows(size) {
				return eris.Errorf("grid size %d outside [%d, %d]",
					size, cfg.Grid.MinSize, cfg.Grid.MaxSize)
			}
			grans = append(grans, model.GridGranularity(size))
		}
		if exportZoneSet != "" {
			if exportZoneSet != zones.DepartementsSetName {
				return eris.Errorf("unknown zone set %q", exportZoneSet)
			}
			grans = append(grans, model.ZoneGranularity(exportZoneSet))
		}

		result, err := compare.Run(points, grans, compare.Options{
			XAttr: model.AttrMedianIncome,
			YAttr: model.AttrEmployees,
			BBox:  cfg.Synth.BBox,
		})
		if err != nil {
			return err
		}

		paths, err := report.Export(ctx, exportDir, format, result, ind)
		if err != nil {
			return err
		}

		for _, p := range paths {
			zap.L().Info("wrote report", zap.String("path", p))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "reports", "output directory")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv, xlsx, geojson)")
	exportCmd.Flags().StringVar(&exportIndicator, "indicator", string(model.IndicatorWarehouseDensity), "indicator for geojson choropleth values")
	exportCmd.Flags().IntSliceVar(&exportSizes, "sizes", []int{5, 10, 20}, "grid sizes to export")
	exportCmd.Flags().StringVar(&exportZoneSet, "zones", "", "also export a zone set (departements)")

	rootCmd.AddCommand(exportCmd)
}
