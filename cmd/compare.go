package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/compare"
	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/synth"
	"github.com/geodesic-labs/arealens/internal/zones"
)

var (
	compareSizes   []int
	compareZoneSet string
	compareX       string
	compareY       string
	compareSaveRun bool
	compareAsJSON  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare correlations across aggregation granularities",
	Long:  "Runs the same correlation at several grid sizes (and optionally a zone set) to show how the chosen spatial units change the statistical picture.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		points, err := synth.Generate(cfg.Synth)
		if err != nil {
			return err
		}

		sizes := compareSizes
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
		if compareZoneSet != "" {
			if compareZoneSet != zones.DepartementsSetName {
				return eris.Errorf("unknown zone set %q", compareZoneSet)
			}
			grans = append(grans, model.ZoneGranularity(compareZoneSet))
		}

		result, err := compare.Run(points, grans, compare.Options{
			XAttr: compareX,
			YAttr: compareY,
			BBox:  cfg.Synth.BBox,
		})
		if err != nil {
			return err
		}

		if compareSaveRun {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}

			run, err := st.SaveRun(ctx, model.CompareParams{
				Seed:          cfg.Synth.Seed,
				Count:         cfg.Synth.Count,
				Granularities: grans,
				XAttr:         compareX,
				YAttr:         compareY,
			}, result)
			if err != nil {
				return eris.Wrap(err, "save run")
			}
			zap.L().Info("saved run", zap.String("run_id", run.ID))
		}

		if compareAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return eris.Wrap(err, "encode result")
			}
			return nil
		}

		formatComparison(os.Stdout, result)
		return nil
	},
}

// formatComparison renders the per-granularity correlations and the shifts
// between adjacent granularities as an aligned table.
func formatComparison(w io.Writer, result *model.ComparisonResult) {
	fmt.Fprintf(w, "Correlation of %s vs %s\n\n", result.XAttr, result.YAttr)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GRANULARITY\tCELLS\tOCCUPIED\tPEARSON R")
	for _, rep := range result.Reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			rep.Granularity.Label(), rep.CellsUsed, rep.OccupiedCells, formatCorr(rep.Pearson))
	}
	tw.Flush()

	if len(result.Shifts) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHIFT\tDELTA")
	for _, sh := range result.Shifts {
		fmt.Fprintf(tw, "%s -> %s\t%s\n",
			sh.From.Label(), sh.To.Label(), formatCorr(sh.Delta))
	}
	tw.Flush()
}

func formatCorr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.4f", *v)
}

func init() {
	compareCmd.Flags().IntSliceVar(&compareSizes, "sizes", []int{5, 10, 20}, "grid sizes to compare")
	compareCmd.Flags().StringVar(&compareZoneSet, "zones", "", "also compare against a zone set (departements)")
	compareCmd.Flags().StringVar(&compareX, "x", model.AttrMedianIncome, "x attribute")
	compareCmd.Flags().StringVar(&compareY, "y", model.AttrEmployees, "y attribute")
	compareCmd.Flags().BoolVar(&compareSaveRun, "save", false, "persist the result to the run store")
	compareCmd.Flags().BoolVar(&compareAsJSON, "json", false, "print the full result as JSON")

	rootCmd.AddCommand(compareCmd)
}
