package errors

import (
	"fmt"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination for HTTP clients.
// Gateway clients are browsers, so bodies are plain text rather than JSON.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter with an optional slog logger.
// If logger is nil, the default package logger will be used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	c, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch c.Category() {
	case CategoryValidation, CategoryConfig:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryNetwork, CategoryGemini, CategoryGateway:
		return http.StatusBadGateway
	case CategoryRender:
		return http.StatusUnprocessableEntity
	case CategoryRuntime:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Body returns the client-facing text for err: the classified message followed by its
// cause, so URL parse failures reach the browser verbatim.
func (a *HTTPErrorAdapter) Body(err error) string {
	if err == nil {
		return ""
	}
	if c, ok := AsClassified(err); ok {
		if c.Cause() != nil {
			return fmt.Sprintf("%s: %v", c.Message(), c.Cause())
		}
		return c.Message()
	}
	return err.Error()
}

// WriteErrorResponse writes a plain-text error response and logs with appropriate level.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(a.Body(err)))

	if c, ok := AsClassified(err); ok {
		attrs := append(c.LogAttrs(), slog.String("path", r.URL.Path), slog.Int("status", status))
		a.logger.LogAttrs(r.Context(), c.Severity().Level(), c.Message(), attrs...)
		return
	}
	a.logger.Error(err.Error(), slog.String("path", r.URL.Path), slog.Int("status", status))
}
