package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"travelmap-service/internal/bootstrap"
	"travelmap-service/internal/domain"
	"travelmap-service/internal/services"
)

var prerenderFlags struct {
	maxZoom     int
	radiusKm    float64
	concurrency int
	mode        string
}

var prerenderCmd = &cobra.Command{
	Use:   "prerender",
	Short: "Render Voronoi tiles for every visitor into the shared tile cache.",
	RunE:  runPrerender,
}

func init() {
	f := prerenderCmd.Flags()
	f.IntVar(&prerenderFlags.maxZoom, "max-zoom", 4, "highest zoom level to render")
	f.Float64Var(&prerenderFlags.radiusKm, "radius", 0, "radius limit in km (0 paints every tile fully)")
	f.IntVar(&prerenderFlags.concurrency, "concurrency", 5, "parallel renders")
	f.StringVar(&prerenderFlags.mode, "mode", "all", "visibility mode: all or shared")
	rootCmd.AddCommand(prerenderCmd)
}

func runPrerender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := domain.ParseMode(prerenderFlags.mode)
	if err != nil {
		return err
	}

	deps, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()
	if !deps.Shared {
		slog.Warn("prerender_local_only", "hint", "set REDIS_ADDR or a database STORE so the server can reuse tiles")
	}

	st, err := deps.App.Reload(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	n, err := services.Prerender(ctx, st, services.PrerenderRequest{
		MaxZoom:     prerenderFlags.maxZoom,
		RadiusKm:    prerenderFlags.radiusKm,
		Visibility:  domain.Visibility{Mode: mode},
		Concurrency: prerenderFlags.concurrency,
	}, deps.Tiles)
	if err != nil {
		return fmt.Errorf("prerender: %d tiles done before failure: %w", n, err)
	}

	slog.Info("prerender_complete", "tiles", n, "max_zoom", prerenderFlags.maxZoom, "dur_ms", time.Since(start).Milliseconds())
	return nil
}
