package handlers

import (
	"log/slog"
	"net/http"

	"travelmap-service/internal/api/dto"
	"travelmap-service/internal/platform/metrics"
	"travelmap-service/internal/services"
)

// MapHandler serves the read-only map layers of the active state.
type MapHandler struct {
	App     StateSource
	Aliases *services.AliasTable
}

func (h *MapHandler) Visitors(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	visitors := st.Snapshot.Roster.Visitors()
	res := dto.ListVisitorResponse{Visitors: make([]dto.VisitorResponse, 0, len(visitors))}
	for _, v := range visitors {
		res.Visitors = append(res.Visitors, dto.VisitorResponse{ID: v.ID, Name: v.Name, Color: v.Color})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Locations lists the visible pins with their resolved fill.
func (h *MapHandler) Locations(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	vis, err := parseVisibility(r, st.Snapshot.Roster)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pins := services.VisiblePins(st.Snapshot, vis)
	res := dto.ListLocationResponse{
		Mode:      string(vis.Mode),
		Locations: make([]dto.LocationResponse, 0, len(pins)),
	}
	for _, p := range pins {
		fill, err := st.Resolver.Resolve(p.Visible)
		if err != nil {
			slog.ErrorContext(r.Context(), "resolve_fill_failed", "location", p.Location.Name, "err", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		res.Locations = append(res.Locations, dto.LocationResponse{
			Name:     p.Location.Name,
			Country:  p.Location.Country,
			Lat:      p.Location.Lat,
			Lng:      p.Location.Lng,
			Source:   p.Location.Source,
			Visitors: p.Visible,
			Fill:     dto.Fill(fill),
		})
	}
	metrics.PatternsConstructed.Set(float64(st.Resolver.Constructed()))

	writeJSON(w, r, http.StatusOK, res)
}

func (h *MapHandler) Search(w http.ResponseWriter, r *http.Request) {
	st := currentState(w, r, h.App)
	if st == nil {
		return
	}

	vis, err := parseVisibility(r, st.Snapshot.Roster)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query().Get("q")
	results := services.Search(st.Snapshot, vis, q)

	res := dto.SearchResponse{
		Query:   q,
		Hidden:  len(results) == 0,
		Results: make([]dto.SearchResultResponse, 0, len(results)),
	}
	for _, s := range results {
		res.Results = append(res.Results, dto.SearchResultResponse{
			Name:     s.Location.Name,
			Country:  s.Location.Country,
			Lat:      s.Location.Lat,
			Lng:      s.Location.Lng,
			Visitors: s.Visible,
			Colors:   s.Colors,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
