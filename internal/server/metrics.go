// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// MetricsServer serves Prometheus metrics over HTTP.
type MetricsServer struct {
	server     *http.Server
	port       int
	endpoint   string
	registry   *prometheus.Registry
	collectors []prometheus.Collector
}

// NewMetricsServer creates a metrics server exposing the given collectors
// next to the Go runtime and process collectors.
func NewMetricsServer(port int, endpoint string, extra ...prometheus.Collector) *MetricsServer {
	return &MetricsServer{
		port:       port,
		endpoint:   endpoint,
		collectors: extra,
	}
}

// Setup builds the registry and the HTTP server.
//
// ============================================================
// DEVELOPER: Register custom Prometheus metrics here
// ============================================================
// Application metrics live next to the code that updates them
// (pkg/transport/metrics.go, pkg/session/metrics.go) and are
// passed in through NewMetricsServer.
// ============================================================
func (m *MetricsServer) Setup() error {
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, c := range m.collectors {
		if err := m.registry.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(m.endpoint, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.port),
		Handler: mux,
	}
	return nil
}

// Registry returns the registry built by Setup.
func (m *MetricsServer) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler built by Setup.
func (m *MetricsServer) Handler() http.Handler {
	return m.server.Handler
}

// Start serves metrics in the background.
func (m *MetricsServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("metrics server listening on port %d%s", m.port, m.endpoint)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}
