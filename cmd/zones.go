package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/zones"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Inspect zone sets used for aggregation",
}

// -- zones list --

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in département zones",
	RunE: func(_ *cobra.Command, _ []string) error {
		formatZoneSet(os.Stdout, zones.Departements())
		return nil
	},
}

// -- zones check --

var (
	zonesCheckSet       string
	zonesCheckCodeField string
	zonesCheckNameField string
)

var zonesCheckCmd = &cobra.Command{
	Use:   "check <shapefile>",
	Short: "Validate a shapefile as a custom zone set",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		set, err := zones.LoadShapefile(args[0], zonesCheckSet, zonesCheckCodeField, zonesCheckNameField)
		if err != nil {
			return err
		}

		zap.L().Info("shapefile loaded",
			zap.String("set", set.Name),
			zap.Int("zones", len(set.Zones)),
		)
		formatZoneSet(os.Stdout, set)
		return nil
	},
}

func formatZoneSet(w io.Writer, set zones.Set) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME")
	for _, z := range set.Zones {
		fmt.Fprintf(tw, "%s\t%s\n", z.Code, z.Name)
	}
	tw.Flush()
}

func init() {
	zonesCheckCmd.Flags().StringVar(&zonesCheckSet, "set", "custom", "name for the loaded zone set")
	zonesCheckCmd.Flags().StringVar(&zonesCheckCodeField, "code-field", "code", "attribute field holding the zone code")
	zonesCheckCmd.Flags().StringVar(&zonesCheckNameField, "name-field", "nom", "attribute field holding the zone name")

	zonesCmd.AddCommand(zonesListCmd)
	zonesCmd.AddCommand(zonesCheckCmd)
	rootCmd.AddCommand(zonesCmd)
}
