package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/geojson"
	"github.com/geodesic-labs/arealens/internal/report"
	"github.com/geodesic-labs/arealens/internal/synth"
)

var (
	generateSeed  int64
	generateCount int
	generateOut   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic warehouse dataset",
	Long:  "Generates warehouse locations scattered around the logistics hubs of Île-de-France. Writes GeoJSON to stdout, or CSV when --out is given.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc := cfg.Synth
		if cmd.Flags().Changed("seed") {
			sc.Seed = generateSeed
		}
		if cmd.Flags().Changed("count") {
			sc.Count = generateCount
		}

		points, err := synth.Generate(sc)
		if err != nil {
			return err
		}

		zap.L().Info("generated dataset",
			zap.Int64("seed", sc.Seed),
			zap.Int("count", len(points)),
		)

		if generateOut != "" {
			if err := report.WritePointsCSV(generateOut, points); err != nil {
				return err
			}
			zap.L().Info("wrote points", zap.String("path", generateOut))
			return nil
		}

		fc := geojson.PointFeatures(points)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fc); err != nil {
			return eris.Wrap(err, "encode points")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", synth.DefaultSeed, "random seed")
	generateCmd.Flags().IntVar(&generateCount, "count", synth.DefaultCount, "number of warehouses")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "write points as CSV to this path instead of GeoJSON to stdout")

	rootCmd.AddCommand(generateCmd)
}
