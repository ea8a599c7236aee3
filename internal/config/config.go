// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds the escape room client configuration, parsed from the
// environment with github.com/caarlos0/env.
//
// ============================================================
// DEVELOPER: New settings go here.
// ============================================================
// Tag each field with `env:"NAME"` and, where sensible, an
// `envDefault`. Range and cross-field checks belong in Validate()
// in loader.go.
// ============================================================
type Config struct {
	// ============================================================
	// Service identity and logging
	// ============================================================
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"EscapeRoomClient"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// ============================================================
	// Transport
	// ============================================================
	// HostBridgeEnabled selects host mode: authority calls go through
	// the in-process host object instead of HTTP.
	APIBaseURL        string `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	HTTPTimeoutMs     int    `env:"HTTP_TIMEOUT_MS" envDefault:"10000"`
	HostBridgeEnabled bool   `env:"HOST_BRIDGE_ENABLED" envDefault:"false"`
	CallTimeoutMs     int    `env:"CALL_TIMEOUT_MS" envDefault:"15000"`

	// ============================================================
	// Storage (player identity and local authority records)
	// ============================================================
	StorageBackend  string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"escape-room.db"`
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisKeyPrefix  string `env:"REDIS_KEY_PREFIX" envDefault:"escape_room:"`
	RedisMaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`

	// ============================================================
	// Puzzle catalog; empty uses the built-in one
	// ============================================================
	CatalogPath string `env:"CATALOG_PATH"`

	// ============================================================
	// Servers
	// ============================================================
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsPort    int  `env:"METRICS_PORT" envDefault:"9090"`
	AuthorityPort  int  `env:"AUTHORITY_PORT" envDefault:"8080"`

	// ============================================================
	// Telemetry
	// ============================================================
	OtelEnabled    bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ZipkinEndpoint string `env:"ZIPKIN_ENDPOINT"`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}

// CallTimeout bounds one session call. Zero disables the bound.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutMs) * time.Millisecond
}
