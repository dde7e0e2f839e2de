package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gemrest/september/internal/metrics"
)

// AdminHandler returns the router for the admin listener.
func (s *Server) AdminHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.mchain)

	r.Get("/healthz", s.monitoringHandlers.HandleHealthCheck)
	r.Get("/health", s.monitoringHandlers.HandleHealthCheck)
	r.Get("/config", s.monitoringHandlers.HandleConfig)

	metricsHandler := s.opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = metrics.HTTPHandler(nil)
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	return r
}

func (s *Server) startAdminServerWithListener(ln net.Listener) {
	s.adminServer = &http.Server{
		Handler:           s.AdminHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.adminAddr = ln.Addr()
	s.startServerWithListener("admin", s.adminServer, ln)
}
