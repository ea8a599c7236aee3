// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AccelByte/extend-escape-room/internal/config"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}
	return cfg
}

func TestInitStorage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "memory", mutate: func(c *config.Config) { c.StorageBackend = storage.BackendMemory }},
		{name: "sqlite", mutate: func(c *config.Config) {
			c.StorageBackend = storage.BackendSQLite
			c.SQLitePath = filepath.Join(t.TempDir(), "room.db")
		}},
		{name: "redis", mutate: func(c *config.Config) {
			c.StorageBackend = storage.BackendRedis
			c.RedisHost = mr.Host()
			c.RedisPort = mr.Port()
		}},
		{name: "unknown", mutate: func(c *config.Config) { c.StorageBackend = "etcd" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			kv, err := InitStorage(ctx, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("InitStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer kv.Close()

			if err := kv.Set(ctx, "playerId", "player_1_abc"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := kv.Get(ctx, "playerId")
			if err != nil || got != "player_1_abc" {
				t.Errorf("Get() = %q, %v", got, err)
			}
		})
	}
}

func TestInitTransport(t *testing.T) {
	cfg := testConfig(t)
	kv := storage.NewMemoryKV()

	network := InitTransport(cfg, kv, puzzle.DefaultCatalog())
	if network.Bridge.Mode() != transport.ModeNetwork {
		t.Errorf("Mode() = %s, want network", network.Bridge.Mode())
	}
	if network.HostObject != nil {
		t.Error("network mode must not create a host object")
	}

	cfg.HostBridgeEnabled = true
	host := InitTransport(cfg, kv, puzzle.DefaultCatalog())
	if host.Bridge.Mode() != transport.ModeHost {
		t.Errorf("Mode() = %s, want host", host.Bridge.Mode())
	}
	if host.HostObject == nil {
		t.Fatal("host mode must create a host object")
	}
	defer host.HostObject.Wait()

	if _, err := host.Bridge.Execute(context.Background(), transport.ResetProgress("player_1_abc")); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestInitScenes(t *testing.T) {
	registry, err := InitScenes()
	if err != nil {
		t.Fatalf("InitScenes() error = %v", err)
	}
	if registry.Count() != 3 {
		t.Errorf("Count() = %d, want 3", registry.Count())
	}
}
