package handler

import (
	"net/http"

	"pandochost/internal/httputil"
)

// HealthCheck is a liveness probe with no dependency checks.
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
