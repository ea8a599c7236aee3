// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-escape-room/internal/config"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/sirupsen/logrus"
)

// InitStorage opens the durable key-value store selected by STORAGE_BACKEND.
//
// ============================================================
// DEVELOPER: Storage backends
// ============================================================
// The store holds the player identity and, when the local
// authority is used, every player's progression record.
// - memory: nothing survives the process (tests, demos)
// - sqlite: one file per install, the default for a single player
// - redis: shared storage, e.g. behind `escape-room serve`
//
// To add a backend, implement storage.KV and add a case below
// and in storage.ValidateBackend.
// ============================================================
func InitStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.StorageBackend {
	case storage.BackendMemory:
		logrus.Info("using in-memory storage, progress will not survive a restart")
		return storage.NewMemoryKV(), nil

	case storage.BackendSQLite:
		kv, err := storage.NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("using sqlite storage at %s", cfg.SQLitePath)
		return kv, nil

	case storage.BackendRedis:
		client, err := storage.ConnectRedis(ctx, storage.RedisOptions{
			Host:       cfg.RedisHost,
			Port:       cfg.RedisPort,
			Password:   cfg.RedisPassword,
			MaxRetries: cfg.RedisMaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logrus.Infof("using redis storage at %s:%s", cfg.RedisHost, cfg.RedisPort)
		return storage.NewRedisKV(client, storage.RedisKVConfig{KeyPrefix: cfg.RedisKeyPrefix}), nil

	default:
		return nil, storage.ValidateBackend(cfg.StorageBackend)
	}
}
