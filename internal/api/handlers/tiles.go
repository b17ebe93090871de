package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"travelmap-service/internal/ports"
	"travelmap-service/internal/services"
)

// TileHandler serves Voronoi raster tiles.
type TileHandler struct {
	App   StateSource
	Cache ports.TileCache
}

func (h *TileHandler) Voronoi(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	var req services.TileRequest
	var err error
	for _, p := range []struct {
		name string
		dst  *int
	}{{"z", &req.Z}, {"x", &req.X}, {"y", &req.Y}} {
		*p.dst, err = strconv.Atoi(chi.URLParam(r, p.name))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, p.name+" must be an integer")
			return
		}
	}

	req.RadiusKm, err = parseFloat(r, "radius", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	vis, err := parseVisibility(r, st.Snapshot.Roster)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	png, err := services.RenderTile(r.Context(), st, vis, req, h.Cache)
	if errors.Is(err, services.ErrInvalidTile) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "tile_render_failed", "z", req.Z, "x", req.X, "y", req.Y, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
