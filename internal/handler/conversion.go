package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"pandochost/internal/config"
	"pandochost/internal/domain"
	"pandochost/internal/domain/models"
	"pandochost/internal/domain/services"
	"pandochost/internal/httputil"
)

// Response messages for successful conversions
const (
	msgTextSuccess = "Conversion successful"
	msgFileSuccess = "Conversion successful (file output)"
	msgNotJSON     = "Request must be JSON"
)

// ConversionHandler handles document conversion HTTP requests
type ConversionHandler struct {
	service services.ConversionService
	logger  *slog.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service services.ConversionService, logger *slog.Logger) *ConversionHandler {
	return &ConversionHandler{
		service: service,
		logger:  logger,
	}
}

// convertRequest is the wire shape of POST /convert.
// Formats use OptionalString so an absent field defaults while an explicit
// empty or null value is rejected.
type convertRequest struct {
	Contents     string                  `json:"contents"`
	InputFormat  httputil.OptionalString `json:"input_format"`
	OutputFormat httputil.OptionalString `json:"output_format"`
}

// TextConvertResponse is returned for text-class output formats
type TextConvertResponse struct {
	Message          string `json:"message"`
	ConvertedContent string `json:"converted_content"`
}

// FileConvertResponse is returned for file-class output formats
type FileConvertResponse struct {
	Message           string `json:"message"`
	FileContentBase64 string `json:"file_content_base64"`
	OutputFormat      string `json:"output_format"`
}

// Convert converts a document between formats.
// POST /convert
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if !httputil.IsJSON(r) {
		httputil.RespondError(w, http.StatusBadRequest, msgNotJSON)
		return
	}

	var body convertRequest
	if err := httputil.ParseJSON(w, r, &body, config.MaxRequestBodyBytes); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		h.logger.Debug("rejecting malformed body", "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, domain.NewValidationError(msgNotJSON))
		return
	}

	req := models.NewConversionRequest(body.Contents, body.InputFormat.OrDefault(), body.OutputFormat.OrDefault())

	result, err := h.service.Convert(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrConversion) {
			h.logger.Error("conversion request failed",
				"request_id", httputil.GetRequestID(r),
				"input_format", req.InputFormat,
				"output_format", req.OutputFormat,
				"error", err,
			)
		}
		handleError(w, err)
		return
	}

	if result.IsFile() {
		httputil.RespondJSON(w, http.StatusOK, FileConvertResponse{
			Message:           msgFileSuccess,
			FileContentBase64: result.FileContentBase64,
			OutputFormat:      result.OutputFormat,
		})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, TextConvertResponse{
		Message:          msgTextSuccess,
		ConvertedContent: result.ConvertedContent,
	})
}
