package handler

import (
	"log/slog"
	"net/http"

	"pandochost/internal/formats"
	"pandochost/internal/httputil"
)

// FormatsHandler exposes the output format table
type FormatsHandler struct {
	registry *formats.Registry
	logger   *slog.Logger
}

// NewFormatsHandler creates a new formats handler
func NewFormatsHandler(registry *formats.Registry, logger *slog.Logger) *FormatsHandler {
	return &FormatsHandler{
		registry: registry,
		logger:   logger,
	}
}

// FormatsResponse lists every known output format and its delivery class
type FormatsResponse struct {
	Formats []formats.Format `json:"formats"`
}

// ListFormats returns the format table.
// GET /formats
func (h *FormatsHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()
	h.logger.Debug("listing formats", "count", len(list), "request_id", httputil.GetRequestID(r))
	httputil.RespondJSON(w, http.StatusOK, FormatsResponse{Formats: list})
}
