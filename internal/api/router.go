package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"travelmap-service/internal/api/handlers"
	"travelmap-service/internal/platform/metrics"
	"travelmap-service/internal/ports"
	"travelmap-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(app *services.App, tiles ports.TileCache) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	mapHandler := &handlers.MapHandler{App: app, Aliases: app.Aliases()}
	tileHandler := &handlers.TileHandler{App: app, Cache: tiles}
	reloadHandler := &handlers.ReloadHandler{App: app}

	r.Get("/health", handlers.Health(app))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/visitors", mapHandler.Visitors)
		r.Get("/locations", mapHandler.Locations)
		r.Get("/search", mapHandler.Search)
		r.Get("/countries", mapHandler.Countries)
		r.Get("/patterns", mapHandler.Patterns)
		r.Get("/fog", mapHandler.Fog)
		r.Get("/diagnostics/aliases", mapHandler.AliasDiagnostics)
		r.Post("/reload", reloadHandler.Reload)
	})

	r.Get("/tiles/voronoi/{z}/{x}/{y}.png", tileHandler.Voronoi)

	return r
}
