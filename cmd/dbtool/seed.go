package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"travelmap-service/internal/adapters/datasets"
	"travelmap-service/internal/adapters/repositories"
	"travelmap-service/internal/bootstrap"
	"travelmap-service/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the dataset files named by DATASETS_MANIFEST into the configured database.",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	conn, dialect, err := bootstrap.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	if conn == nil {
		return bootstrap.ErrNoDatabase
	}
	defer conn.Close()

	slog.Info("seed_loading", "manifest", cfg.DatasetsManifest)
	repo := datasets.NewRepository(bootstrap.NewFetcher(), cfg.DatasetsManifest)
	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	snap.Locations = services.MergeLocations(snap.Roster, snap.Locations)

	if err := repositories.SeedSnapshot(ctx, conn, dialect, snap); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	slog.Info("seed_complete",
		"store", cfg.Store,
		"visitors", snap.Roster.Len(),
		"locations", len(snap.Locations),
		"routes", len(snap.Routes),
	)
	return nil
}
