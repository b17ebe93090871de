package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/services"
)

// StateSource hands out the active application state.
type StateSource interface {
	State() *services.State
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode_failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// currentState writes 503 and returns nil when nothing has been loaded yet.
func currentState(w http.ResponseWriter, r *http.Request, src StateSource) *services.State {
	st := src.State()
	if st == nil {
		writeError(w, r, http.StatusServiceUnavailable, "data not loaded")
	}
	return st
}

// parseVisibility reads the visitors and mode query parameters. Without a
// visitors parameter every visitor is on; unknown ids are ignored.
func parseVisibility(r *http.Request, roster *domain.Roster) (domain.Visibility, error) {
	q := r.URL.Query()

	mode, err := domain.ParseMode(q.Get("mode"))
	if err != nil {
		return domain.Visibility{}, errors.New("mode must be all or shared")
	}

	vis := domain.Visibility{Mode: mode}
	if !q.Has("visitors") {
		return vis, nil
	}

	vis.Toggled = make(map[string]bool)
	for _, id := range strings.Split(q.Get("visitors"), ",") {
		id = strings.TrimSpace(id)
		if _, ok := roster.Get(id); ok {
			vis.Toggled[id] = true
		}
	}
	return vis, nil
}

func parseFloat(r *http.Request, key string, fallback float64) (float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

func requireFloat(r *http.Request, key string) (float64, error) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	return parseFloat(r, key, 0)
}
