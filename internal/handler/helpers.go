package handler

import (
	"errors"
	"net/http"

	"pandochost/internal/domain"
	"pandochost/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Every error becomes an {"error": message} body; nothing escapes unhandled.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}
	httputil.RespondError(w, http.StatusInternalServerError, err.Error())
}
