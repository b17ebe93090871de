package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"travelmap-service/internal/config"
	"travelmap-service/internal/platform/logger"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Maintenance commands for the travel map store and tile cache.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		logger.Setup()
		return err
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("dbtool_failed", "err", err)
		os.Exit(1)
	}
}
