package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint. It reports "loading"
// until the first dataset load has succeeded.
func Health(src StateSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{"status": "ok"}
		if src.State() == nil {
			res["status"] = "loading"
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}
