package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/server/responses"
	"github.com/gemrest/september/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	cfg          *config.Config
	startTime    time.Time
	now          func() time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(cfg *config.Config, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		cfg:          cfg,
		startTime:    startTime,
		now:          time.Now,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}

	now := h.now()
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Version:   version.Version,
		Commit:    version.ShortCommit(),
		Uptime:    now.Sub(h.startTime).Seconds(),
	}

	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleConfig reports the effective gateway configuration. Injected HTML
// fragments are reported by presence only.
func (h *MonitoringHandlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}

	c := h.cfg
	summary := &responses.ConfigResponse{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Config: responses.ConfigSummary{
			Root:               c.Root,
			Port:               c.Port,
			ProxyByDefault:     c.ProxyByDefault,
			Stylesheets:        c.Appearance.Stylesheets,
			MathJax:            c.Appearance.MathJax,
			HasHead:            c.Appearance.Head != "",
			HasHeader:          c.Appearance.Header != "",
			PlainTextRoutes:    c.Routes.PlainText,
			CondenseLinks:      c.Routes.CondenseLinks,
			CondenseAtHeadings: c.Links.CondenseAtHeadings,
			KeepGeminiExact:    c.Links.KeepGeminiExact,
			KeepGeminiDomain:   c.Links.KeepGeminiDomain,
			EmbedImages:        c.Links.EmbedImages.String(),
			HTTP09:             c.HTTP09.Enabled,
			HTTP09Port:         c.HTTP09.Port,
			FetchTimeout:       c.Fetch.Timeout.String(),
			MaxBodyBytes:       c.Fetch.MaxBodyBytes,
		},
	}

	if err := writeJSON(w, r, http.StatusOK, summary); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write config response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

func (h *MonitoringHandlers) requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	err := errors.ValidationError("invalid HTTP method").
		WithContext("method", r.Method).
		WithContext("allowed_method", "GET").
		Build()
	h.errorAdapter.WriteErrorResponse(w, r, err)
	return false
}
