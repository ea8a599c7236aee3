// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultKeyPrefix namespaces every key this client writes.
const DefaultKeyPrefix = "escape_room:"

// RedisKVConfig holds configuration for the Redis-backed store.
type RedisKVConfig struct {
	// KeyPrefix is prepended to every key. Defaults to DefaultKeyPrefix.
	KeyPrefix string
	// TTL applied on every write. Zero keeps keys forever.
	TTL time.Duration
}

// RedisKV stores values in Redis under a common prefix.
type RedisKV struct {
	client redis.UniversalClient
	cfg    RedisKVConfig
}

func NewRedisKV(client redis.UniversalClient, cfg RedisKVConfig) *RedisKV {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &RedisKV{client: client, cfg: cfg}
}

// RedisOptions describes how to reach Redis at startup.
type RedisOptions struct {
	Host       string
	Port       string
	Password   string
	MaxRetries int
}

// ConnectRedis creates a Redis client and pings it with exponential backoff
// until it answers or MaxRetries is exhausted.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Host + ":" + opts.Port,
		Password:     opts.Password,
		DB:           0,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(opts.MaxRetries)),
		ctx,
	)

	err := backoff.Retry(
		func() error {
			if err := client.Ping(ctx).Err(); err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		b,
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s:%s: %w", opts.Host, opts.Port, err)
	}

	logrus.Infof("connected to Redis at %s:%s", opts.Host, opts.Port)
	return client, nil
}

func (r *RedisKV) makeKey(key string) string {
	return r.cfg.KeyPrefix + key
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, r.makeKey(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get key %s: %v", key, err)
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.makeKey(key), value, r.cfg.TTL).Err(); err != nil {
		logrus.Errorf("failed to set key %s: %v", key, err)
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	logrus.Debugf("stored key %s", key)
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.makeKey(key)).Err(); err != nil {
		logrus.Errorf("failed to delete key %s: %v", key, err)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
