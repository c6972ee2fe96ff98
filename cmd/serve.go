package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/server"
	"github.com/geodesic-labs/arealens/internal/synth"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long:  "Generates the dataset once at startup and serves aggregation, choropleth, comparison, and run history endpoints.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		points, err := synth.Generate(cfg.Synth)
		if err != nil {
			return err
		}
		departments := synth.DepartmentStats(points)

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		srv := server.New(cfg, points, departments, st)
		if err := srv.Run(ctx); err != nil {
			return err
		}

		zap.L().Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
