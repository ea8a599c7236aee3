// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("APIBaseURL = %s", cfg.APIBaseURL)
	}
	if cfg.StorageBackend != "sqlite" {
		t.Errorf("StorageBackend = %s, want sqlite", cfg.StorageBackend)
	}
	if cfg.HostBridgeEnabled {
		t.Error("host bridge must be off by default")
	}
	if cfg.CallTimeout() != 15*time.Second {
		t.Errorf("CallTimeout() = %v", cfg.CallTimeout())
	}
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("HOST_BRIDGE_ENABLED", "true")
	t.Setenv("HTTP_TIMEOUT_MS", "2500")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.StorageBackend != "redis" || cfg.RedisPort != "6380" {
		t.Errorf("storage = %s:%s", cfg.StorageBackend, cfg.RedisPort)
	}
	if !cfg.HostBridgeEnabled {
		t.Error("HostBridgeEnabled = false, want true")
	}
	if cfg.HTTPTimeout() != 2500*time.Millisecond {
		t.Errorf("HTTPTimeout() = %v", cfg.HTTPTimeout())
	}
}

func TestParse_BadValue(t *testing.T) {
	t.Setenv("METRICS_PORT", "not-a-port")

	if _, err := Parse(); err == nil {
		t.Error("expected parse error for non-numeric METRICS_PORT")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Parse()
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "bad base url", mutate: func(c *Config) { c.APIBaseURL = "localhost" }, wantErr: true},
		{name: "base url ignored in host mode", mutate: func(c *Config) {
			c.APIBaseURL = ""
			c.HostBridgeEnabled = true
		}},
		{name: "zero http timeout", mutate: func(c *Config) { c.HTTPTimeoutMs = 0 }, wantErr: true},
		{name: "negative call timeout", mutate: func(c *Config) { c.CallTimeoutMs = -1 }, wantErr: true},
		{name: "unbounded calls", mutate: func(c *Config) { c.CallTimeoutMs = 0 }},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "etcd" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.SQLitePath = "" }, wantErr: true},
		{name: "memory without path", mutate: func(c *Config) {
			c.StorageBackend = "memory"
			c.SQLitePath = ""
		}},
		{name: "metrics port out of range", mutate: func(c *Config) { c.MetricsPort = 70000 }, wantErr: true},
		{name: "authority port out of range", mutate: func(c *Config) { c.AuthorityPort = 0 }, wantErr: true},
		{name: "port clash", mutate: func(c *Config) {
			c.MetricsEnabled = true
			c.MetricsPort = c.AuthorityPort
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
