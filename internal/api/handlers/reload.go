package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"travelmap-service/internal/api/dto"
	"travelmap-service/internal/services"
)

type Reloader interface {
	Reload(ctx context.Context) (*services.State, error)
}

type ReloadHandler struct {
	App Reloader
}

// Reload refetches every dataset and activates the result. The previous state
// stays active when the load fails or a newer reload overtakes this one.
func (h *ReloadHandler) Reload(w http.ResponseWriter, r *http.Request) {
	st, err := h.App.Reload(r.Context())
	if errors.Is(err, services.ErrStaleGeneration) {
		writeError(w, r, http.StatusConflict, "superseded by a newer reload")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "reload_failed", "err", err)
		writeError(w, r, http.StatusBadGateway, "dataset load failed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReloadResponse{
		Generation: st.Generation,
		LoadedAt:   st.Snapshot.LoadedAt,
		Visitors:   st.Snapshot.Roster.Len(),
		Locations:  len(st.Snapshot.Locations),
		Routes:     len(st.Snapshot.Routes),
		Countries:  len(st.Features),
		Degraded:   st.Degraded,
	})
}
