// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"net/url"

	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
//
// ============================================================
// DEVELOPER: Add checks for new settings here.
// ============================================================
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT: %q (must be json or text)", c.LogFormat)
	}

	if !c.HostBridgeEnabled {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid API_BASE_URL: %q", c.APIBaseURL)
		}
	}
	if c.HTTPTimeoutMs <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT_MS: %d (must be positive)", c.HTTPTimeoutMs)
	}
	if c.CallTimeoutMs < 0 {
		return fmt.Errorf("invalid CALL_TIMEOUT_MS: %d (must not be negative)", c.CallTimeoutMs)
	}

	if err := storage.ValidateBackend(c.StorageBackend); err != nil {
		return fmt.Errorf("invalid STORAGE_BACKEND: %w", err)
	}
	if c.StorageBackend == storage.BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
	}
	if c.RedisMaxRetries < 0 {
		return fmt.Errorf("invalid REDIS_MAX_RETRIES: %d", c.RedisMaxRetries)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}
	if c.AuthorityPort < 1 || c.AuthorityPort > 65535 {
		return fmt.Errorf("invalid AUTHORITY_PORT: %d (must be 1-65535)", c.AuthorityPort)
	}
	if c.MetricsEnabled && c.MetricsPort == c.AuthorityPort {
		return fmt.Errorf("METRICS_PORT and AUTHORITY_PORT must differ")
	}

	return nil
}
