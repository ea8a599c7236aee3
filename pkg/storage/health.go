// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker pings a store with a short deadline.
type HealthChecker struct {
	kv      KV
	timeout time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(kv KV) *HealthChecker {
	return &HealthChecker{kv: kv, timeout: 2 * time.Second}
}

// Check performs a storage health check
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.kv.Ping(ctx); err != nil {
		logrus.Errorf("storage health check failed: %v", err)
		return err
	}

	logrus.Debugf("storage health check passed")
	return nil
}

// IsHealthy returns true if the store is reachable
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
