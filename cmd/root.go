package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "arealens",
	Short: "Spatial aggregation sensitivity toolkit",
	Long:  "Generates a synthetic warehouse dataset for the Paris region, aggregates it over grids and administrative zones, and shows how statistics shift with the choice of spatial units.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
