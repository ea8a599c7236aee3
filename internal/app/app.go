// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-escape-room/internal/bootstrap"
	"github.com/AccelByte/extend-escape-room/internal/config"
	"github.com/AccelByte/extend-escape-room/internal/server"
	"github.com/AccelByte/extend-escape-room/pkg/identity"
	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/scene"
	"github.com/AccelByte/extend-escape-room/pkg/session"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/sirupsen/logrus"
)

// App is one explicitly constructed game session context: everything a
// command needs, created at start and disposed by Shutdown.
type App struct {
	cfg               *config.Config
	kv                storage.KV
	identity          *identity.Provider
	catalog           *puzzle.Catalog
	transport         *bootstrap.Transport
	store             *progression.Store
	scenes            *scene.Registry
	metricsServer     *server.MetricsServer
	authorityServer   *server.AuthorityServer
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes the application.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Storage (identity and local authority records)
// 2. Player identity
// 3. Puzzle catalog
// 4. Transport (host probe, then network or host bridge)
// 5. Progression store
// 6. Scenes
// 7. Metrics server (when enabled)
// 8. Telemetry (when enabled)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Debug("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Storage
	// ============================================================
	kv, err := bootstrap.InitStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	app.kv = kv

	// ============================================================
	// Step 2: Player identity. Without it there is no session.
	// ============================================================
	app.identity = identity.NewProvider(kv)
	playerID, err := app.identity.GetOrCreate(ctx)
	if err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to establish player identity: %w", err)
	}

	// ============================================================
	// Step 3: Catalog
	// ============================================================
	app.catalog, err = puzzle.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to load puzzle catalog: %w", err)
	}
	logrus.Debugf("loaded %d puzzles", app.catalog.Len())

	// ============================================================
	// Steps 4-6: Transport, store, scenes
	// ============================================================
	app.transport = bootstrap.InitTransport(cfg, kv, app.catalog)
	app.store = progression.NewStore(app.transport.Bridge, app.catalog,
		progression.Player{ID: playerID, Fresh: app.identity.IsFresh()})

	app.scenes, err = bootstrap.InitScenes()
	if err != nil {
		app.closeStorage()
		return nil, err
	}

	// ============================================================
	// Step 7: Metrics
	// ============================================================
	if cfg.MetricsEnabled {
		collectors := append(transport.Collectors(), session.Collectors()...)
		app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics", collectors...)
		if err := app.metricsServer.Setup(); err != nil {
			app.closeStorage()
			return nil, fmt.Errorf("failed to setup metrics server: %w", err)
		}
	}

	// ============================================================
	// Step 8: Telemetry
	// ============================================================
	if cfg.OtelEnabled {
		app.shutdownTelemetry, err = server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, cfg.ZipkinEndpoint, 0)
		if err != nil {
			app.closeStorage()
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"playerId": playerID,
		"mode":     app.transport.Bridge.Mode(),
	}).Debug("application initialized")

	return app, nil
}

// NewSession creates a puzzle session controller drawing through presenter.
func (a *App) NewSession(presenter session.Presenter) *session.Controller {
	return session.New(a.store, a.scenes, presenter,
		session.WithIdentity(a.identity),
		session.WithTimeout(a.cfg.CallTimeout()),
	)
}

func (a *App) Config() *config.Config { return a.cfg }
func (a *App) Store() *progression.Store { return a.store }
func (a *App) Catalog() *puzzle.Catalog { return a.catalog }
func (a *App) Mode() transport.Mode { return a.transport.Bridge.Mode() }
func (a *App) Storage() storage.KV { return a.kv }
func (a *App) Identity() *identity.Provider { return a.identity }
func (a *App) MetricsServer() *server.MetricsServer { return a.metricsServer }

// PlayerID returns the current player id.
func (a *App) PlayerID() string {
	return a.store.Player().ID
}

func (a *App) closeStorage() {
	if err := a.kv.Close(); err != nil {
		logrus.Errorf("storage close error: %v", err)
	}
}
