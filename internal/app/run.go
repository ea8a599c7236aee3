// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AccelByte/extend-escape-room/internal/server"
	"github.com/AccelByte/extend-escape-room/pkg/authority"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/sirupsen/logrus"
)

// Start checks storage and starts the background servers. Game commands
// call it before use.
func (a *App) Start(ctx context.Context) error {
	if err := storage.NewHealthChecker(a.kv).Check(ctx); err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Serve runs the local authority over HTTP on AUTHORITY_PORT and blocks
// until ctx ends or a shutdown signal arrives. Call Start first for metrics.
func (a *App) Serve(ctx context.Context) error {
	a.authorityServer = server.NewAuthorityServer(a.cfg.AuthorityPort, authority.New(a.kv, a.catalog))
	if err := a.authorityServer.Setup(); err != nil {
		return fmt.Errorf("failed to setup authority server: %w", err)
	}
	if err := a.authorityServer.Start(ctx); err != nil {
		return err
	}

	logrus.Info("authority started")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return nil
}

// Shutdown releases everything New and Serve acquired.
//
// ============================================================
// DEVELOPER: Shutdown order
// ============================================================
// Components are shut down in reverse dependency order:
// 1. Stop accepting requests (authority, metrics)
// 2. Let host bridge calls in flight finish
// 3. Close storage
// 4. Flush telemetry
//
// Errors are logged and the sequence continues.
// ============================================================
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Debug("shutting down application...")

	if a.authorityServer != nil {
		if err := a.authorityServer.Shutdown(ctx); err != nil {
			logrus.Errorf("authority server shutdown error: %v", err)
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			logrus.Errorf("metrics server shutdown error: %v", err)
		}
	}

	if a.transport != nil && a.transport.HostObject != nil {
		a.transport.HostObject.Wait()
	}

	if a.kv != nil {
		a.closeStorage()
	}

	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Debug("application shutdown complete")
	return nil
}
