// Package metrics provides the gateway's metrics hooks.
//
// It follows the Null Object pattern: components hold a Recorder and default
// to NoopRecorder, so no call site needs a nil check. serve swaps in a
// PrometheusRecorder and exposes it on the admin listener:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	gw := gateway.New(cfg, fetcher, gateway.WithRecorder(rec))
//	admin.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
