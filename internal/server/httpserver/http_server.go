// Package httpserver wires the gateway and admin handlers onto HTTP listeners.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gemrest/september/internal/config"
	derrors "github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/logfields"
	handlers "github.com/gemrest/september/internal/server/handlers"
	smw "github.com/gemrest/september/internal/server/middleware"
)

// Server manages the gateway and admin HTTP listeners.
type Server struct {
	gatewayServer *http.Server
	adminServer   *http.Server
	cfg           *config.Config
	opts          Options
	gateway       http.Handler
	errorAdapter  *derrors.HTTPErrorAdapter

	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler

	gatewayAddr net.Addr
	adminAddr   net.Addr
}

// New constructs a new HTTP server wiring instance around the gateway handler.
func New(cfg *config.Config, gateway http.Handler, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		gateway:      gateway,
		errorAdapter: derrors.NewHTTPErrorAdapter(opts.Logger),
	}
	s.monitoringHandlers = handlers.NewMonitoringHandlers(cfg, opts.StartTime)
	s.mchain = smw.Chain(opts.Logger, s.errorAdapter)
	return s
}

// GatewayHandler returns the router for the public listener. Every path is
// routed to the gateway for GET, HEAD and POST.
func (s *Server) GatewayHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.mchain)
	r.Get("/*", s.gateway.ServeHTTP)
	r.Head("/*", s.gateway.ServeHTTP)
	r.Post("/*", s.gateway.ServeHTTP)
	return r
}

// Start binds the listeners and serves them in the background. The admin
// listener is skipped when its port is 0.
func (s *Server) Start(ctx context.Context) error {
	// Pre-bind all required ports so we can fail fast with one aggregate error.
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{{name: "gateway", port: s.cfg.Port}}
	if s.cfg.Admin.Port != 0 {
		binds = append(binds, preBind{name: "admin", port: s.cfg.Admin.Port})
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := fmt.Sprintf(":%d", binds[i].port)
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return derrors.WrapError(errors.Join(bindErrs...), derrors.CategoryRuntime, "http startup failed").
			Fatal().
			Build()
	}

	s.gatewayServer = &http.Server{
		Handler:           s.GatewayHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Capsule fetches may run up to the fetch timeout before rendering.
		WriteTimeout: s.cfg.Fetch.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.gatewayAddr = binds[0].ln.Addr()
	s.startServerWithListener("gateway", s.gatewayServer, binds[0].ln)

	attrs := []any{logfields.Addr(s.gatewayAddr.String())}
	if len(binds) > 1 {
		s.startAdminServerWithListener(binds[1].ln)
		attrs = append(attrs, slog.String("admin_addr", s.adminAddr.String()))
	}
	slog.Info("HTTP servers started", attrs...)
	return nil
}

// GatewayAddr returns the bound gateway address, or nil before Start.
func (s *Server) GatewayAddr() net.Addr { return s.gatewayAddr }

// AdminAddr returns the bound admin address, or nil when not serving.
func (s *Server) AdminAddr() net.Addr { return s.adminAddr }

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.gatewayServer != nil {
		if err := s.gatewayServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("gateway server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	slog.Info("HTTP servers stopped")
	return nil
}

// startServerWithListener launches an http.Server on a pre-bound listener.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(fmt.Sprintf("%s server error", kind), logfields.Error(err))
		}
	}()
}
