// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func backends(t *testing.T) map[string]KV {
	client, _ := setupTestRedis(t)

	sqliteKV, err := NewSQLiteKV(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}
	t.Cleanup(func() { _ = sqliteKV.Close() })

	return map[string]KV{
		BackendMemory: NewMemoryKV(),
		BackendRedis:  NewRedisKV(client, RedisKVConfig{}),
		BackendSQLite: sqliteKV,
	}
}

func TestKV_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(ctx, "playerId"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
			}

			if err := kv.Set(ctx, "playerId", "player_1_abc"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := kv.Get(ctx, "playerId")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != "player_1_abc" {
				t.Errorf("Get() = %q, want %q", got, "player_1_abc")
			}

			// overwrite
			if err := kv.Set(ctx, "playerId", "player_2_def"); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			got, _ = kv.Get(ctx, "playerId")
			if got != "player_2_def" {
				t.Errorf("Get() after overwrite = %q, want %q", got, "player_2_def")
			}

			if err := kv.Delete(ctx, "playerId"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := kv.Get(ctx, "playerId"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}

			// deleting a missing key is not an error
			if err := kv.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete() missing key error = %v", err)
			}

			if err := kv.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestRedisKV_PrefixAndTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	kv := NewRedisKV(client, RedisKVConfig{KeyPrefix: "test:", TTL: time.Hour})
	if err := kv.Set(ctx, "puzzle-progress", `{"completedPuzzles":[]}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if !mr.Exists("test:puzzle-progress") {
		t.Fatal("expected key to be stored under prefix")
	}
	if ttl := mr.TTL("test:puzzle-progress"); ttl != time.Hour {
		t.Errorf("TTL = %v, want %v", ttl, time.Hour)
	}
}

func TestRedisKV_DefaultPrefix(t *testing.T) {
	client, mr := setupTestRedis(t)

	kv := NewRedisKV(client, RedisKVConfig{})
	if err := kv.Set(context.Background(), "playerId", "p"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists(DefaultKeyPrefix + "playerId") {
		t.Errorf("expected key %q", DefaultKeyPrefix+"playerId")
	}
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}
	if err := kv.Set(ctx, "playerId", "player_9_xyz"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("NewSQLiteKV() reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "playerId")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "player_9_xyz" {
		t.Errorf("Get() = %q, want %q", got, "player_9_xyz")
	}
}

func TestConnectRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := ConnectRedis(context.Background(), RedisOptions{
		Host:       mr.Host(),
		Port:       mr.Port(),
		MaxRetries: 1,
	})
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}
	defer client.Close()
}

func TestHealthChecker(t *testing.T) {
	client, mr := setupTestRedis(t)
	checker := NewHealthChecker(NewRedisKV(client, RedisKVConfig{}))
	ctx := context.Background()

	if !checker.IsHealthy(ctx) {
		t.Error("expected healthy store")
	}

	mr.Close()
	if checker.IsHealthy(ctx) {
		t.Error("expected unhealthy store after Redis went away")
	}
}

func TestValidateBackend(t *testing.T) {
	for _, name := range []string{BackendMemory, BackendRedis, BackendSQLite} {
		if err := ValidateBackend(name); err != nil {
			t.Errorf("ValidateBackend(%q) error = %v", name, err)
		}
	}
	if err := ValidateBackend("etcd"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
