package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Options configures additional server wiring that is runtime-specific.
type Options struct {
	// Logger is used by the middleware chain. Defaults to slog.Default().
	Logger *slog.Logger

	// MetricsHandler serves /metrics on the admin listener. When nil the
	// default Prometheus registry is exposed.
	MetricsHandler http.Handler

	// StartTime is reported as the origin of uptime. Defaults to time.Now().
	StartTime time.Time
}
