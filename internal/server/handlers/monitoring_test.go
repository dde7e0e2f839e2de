package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/server/responses"
)

func newHandlers(t *testing.T) *MonitoringHandlers {
	t.Helper()
	cfg := config.Defaults()
	cfg.Root = "gemini://fuwn.me"
	cfg.Appearance.Head = "<script>secret()</script>"
	cfg.Links.KeepGeminiDomain = []string{"fuwn.me"}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewMonitoringHandlers(cfg, start)
	h.now = func() time.Time { return start.Add(90 * time.Second) }
	return h
}

func TestHandleHealthCheck(t *testing.T) {
	h := newHandlers(t)

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var got responses.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.InDelta(t, 90.0, got.Uptime, 0.001)
	assert.NotEmpty(t, got.Version)
}

func TestHandleHealthCheckRejectsPost(t *testing.T) {
	h := newHandlers(t)

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid HTTP method", rec.Body.String())
}

func TestHandleConfigHidesInjections(t *testing.T) {
	h := newHandlers(t)

	rec := httptest.NewRecorder()
	h.HandleConfig(rec, httptest.NewRequest(http.MethodGet, "/config?pretty=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret()")

	var got responses.ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "gemini://fuwn.me", got.Config.Root)
	assert.True(t, got.Config.HasHead)
	assert.False(t, got.Config.HasHeader)
	assert.Equal(t, []string{"fuwn.me"}, got.Config.KeepGeminiDomain)
	assert.Equal(t, "off", got.Config.EmbedImages)
	assert.Equal(t, "30s", got.Config.FetchTimeout)
}
