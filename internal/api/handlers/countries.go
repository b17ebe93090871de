package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	geojson "github.com/paulmach/go.geojson"

	"travelmap-service/internal/api/dto"
	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/metrics"
)

const (
	styleFill      = "fill"
	styleProximity = "proximity"
)

// Countries returns the boundary layer colored either by the visitors who were
// in each country (fill) or by the nearest visible location (proximity).
func (h *MapHandler) Countries(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	style := r.URL.Query().Get("style")
	if style == "" {
		style = styleFill
	}
	if style != styleFill && style != styleProximity {
		writeError(w, r, http.StatusBadRequest, "style must be fill or proximity")
		return
	}

	vis, err := parseVisibility(r, st.Snapshot.Roster)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.CountriesResponse{
		Type:     "FeatureCollection",
		Style:    style,
		Degraded: st.Degraded,
		Features: []*geojson.Feature{},
	}
	if st.Degraded {
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	var fills []domain.FillStyle
	if style == styleProximity {
		fills, err = st.Proximity.ColorizeAll(st.Features, vis)
	} else {
		fills, err = st.Regions.ColorizeAll(st.Features, vis)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "colorize_failed", "style", style, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.RendersTotal.WithLabelValues(style).Inc()
	metrics.PatternsConstructed.Set(float64(st.Resolver.Constructed()))

	res.Features = make([]*geojson.Feature, 0, len(st.Features))
	for i, f := range st.Features {
		res.Features = append(res.Features, dto.CountryFeature(f, fills[i]))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Patterns returns a hidden SVG document whose defs hold every stripe pattern the
// active resolver has constructed so far.
func (h *MapHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	var buf bytes.Buffer
	if err := st.Resolver.WritePatternDefs(&buf); err != nil {
		slog.ErrorContext(r.Context(), "pattern_defs_failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *MapHandler) AliasDiagnostics(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	unmatched := st.Unmatched
	if unmatched == nil {
		unmatched = []string{}
	}
	res := dto.AliasDiagnosticsResponse{
		Countries: len(st.Features),
		Degraded:  st.Degraded,
		Unmatched: unmatched,
	}
	if h.Aliases != nil {
		res.Aliases = h.Aliases.Len()
	}

	writeJSON(w, r, http.StatusOK, res)
}
