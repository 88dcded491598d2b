// Package response writes responses for routes served outside the huma API.
package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrorBody matches the error shape the huma routes produce.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorBody{Error: message, Code: code}); err != nil && logger != nil {
		logger.Debug("Failed to encode error response", "error", err)
	}
}

// NotFound writes a 404 with the NOT_FOUND code.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message, logger)
}

// JavaScript writes a script body that caches publicly for maxAge.
// A zero maxAge disables caching.
func JavaScript(w http.ResponseWriter, body []byte, maxAge time.Duration, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	if maxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil && logger != nil {
		logger.Debug("Failed to write script", "error", err)
	}
}

// HTML writes an uncached HTML document produced by render.
func HTML(w http.ResponseWriter, render func(io.Writer) error, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := render(w); err != nil && logger != nil {
		logger.Debug("Failed to write document", "error", err)
	}
}
