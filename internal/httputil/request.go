package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// ErrBodyTooLarge is returned by ParseJSON when the body exceeds the limit
var ErrBodyTooLarge = errors.New("request body too large")

// IsJSON reports whether the request declares a JSON body
// (application/json or any application/*+json type).
func IsJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// ParseJSON decodes a single JSON object from the request body into dest.
// The body is limited to maxBytes; exceeding it yields ErrBodyTooLarge.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	// Anything after the object, including a stray '}', is malformed input
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return errors.New("invalid JSON: unexpected data after object")
	}

	return nil
}
