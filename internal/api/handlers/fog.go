package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/geo"
	"travelmap-service/internal/platform/metrics"
	"travelmap-service/internal/services"
)

const maxViewportPx = 8192

// Fog renders the fog-of-war overlay for one viewport as SVG.
func (h *MapHandler) Fog(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	vp, err := parseViewport(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	radius, err := parseFloat(r, "radius", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	vis, err := parseVisibility(r, st.Snapshot.Roster)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	overlay := services.BuildFog(st.Snapshot, services.FogRequest{
		Viewport:   vp,
		RadiusKm:   radius,
		Visibility: vis,
	})

	var buf bytes.Buffer
	if err := overlay.WriteSVG(&buf); err != nil {
		slog.ErrorContext(r.Context(), "fog_render_failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.RendersTotal.WithLabelValues("fog").Inc()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parseViewport(r *http.Request) (geo.Viewport, error) {
	var vp geo.Viewport

	lat, err := requireFloat(r, "lat")
	if err != nil {
		return vp, err
	}
	lng, err := requireFloat(r, "lng")
	if err != nil {
		return vp, err
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return vp, errors.New("lat/lng out of range")
	}

	zoom, err := requireFloat(r, "zoom")
	if err != nil {
		return vp, err
	}
	if zoom < 0 || zoom > services.MaxTileZoom {
		return vp, errors.New("zoom out of range")
	}

	width, err := requireFloat(r, "width")
	if err != nil {
		return vp, err
	}
	height, err := requireFloat(r, "height")
	if err != nil {
		return vp, err
	}
	if width <= 0 || height <= 0 || width > maxViewportPx || height > maxViewportPx {
		return vp, errors.New("width and height must be between 1 and 8192")
	}

	return geo.Viewport{
		Center: domain.Point{Lat: lat, Lng: lng},
		Zoom:   zoom,
		Width:  width,
		Height: height,
	}, nil
}
