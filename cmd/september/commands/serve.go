package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/gemrest/september/internal/gateway"
	"github.com/gemrest/september/internal/gemini"
	"github.com/gemrest/september/internal/http09"
	"github.com/gemrest/september/internal/logfields"
	"github.com/gemrest/september/internal/metrics"
	"github.com/gemrest/september/internal/server/httpserver"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	client := gemini.NewClient(cfg.Fetch.Timeout, cfg.Fetch.MaxBodyBytes)
	gw := gateway.New(cfg, client, gateway.WithRecorder(recorder), gateway.WithLogger(g.Logger))

	srv := httpserver.New(cfg, gw, httpserver.Options{
		Logger:         g.Logger,
		MetricsHandler: metrics.HTTPHandler(reg),
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	slog.Info("Serving capsules",
		slog.String("root", cfg.Root),
		slog.Bool("proxy_by_default", cfg.ProxyByDefault),
		slog.Bool("http09", cfg.HTTP09.Enabled))

	eg, egCtx := errgroup.WithContext(ctx)
	if cfg.HTTP09.Enabled {
		h09 := http09.New(cfg, gw, http09.WithRecorder(recorder))
		eg.Go(func() error { return h09.ListenAndServe(egCtx) })
	}
	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("Shutting down")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		return srv.Stop(stopCtx)
	})

	if err := eg.Wait(); err != nil {
		slog.Error("Server stopped with error", logfields.Error(err))
		return err
	}
	return nil
}
