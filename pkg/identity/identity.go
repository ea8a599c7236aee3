// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package identity owns the per-installation player identifier.
package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/AccelByte/extend-escape-room/pkg/common"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/sirupsen/logrus"
)

// StorageKey is the durable storage key holding the player id.
const StorageKey = "playerId"

const randomSuffixLen = 9

var idPattern = regexp.MustCompile(`^player_\d+_[0-9a-z]+$`)

// Valid reports whether id looks like a generated player identity.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}

// Provider produces and persists the player identity. The persisted value is
// read at most once per process; later calls return the cached id.
type Provider struct {
	kv  storage.KV
	now func() time.Time

	mu     sync.Mutex
	id     string
	loaded bool
	fresh  bool
}

// Option customises a Provider.
type Option func(*Provider)

// WithClock overrides the time source used when generating ids.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func NewProvider(kv storage.KV, opts ...Option) *Provider {
	p := &Provider{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetOrCreate returns the player id, generating and persisting one on first use.
func (p *Provider) GetOrCreate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.id, nil
	}

	stored, err := p.kv.Get(ctx, StorageKey)
	switch {
	case err == nil && strings.TrimSpace(stored) != "":
		p.id, p.loaded, p.fresh = stored, true, false
		logrus.WithField("playerId", stored).Debug("loaded persisted player identity")
		return p.id, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("failed to read player identity: %w", err)
	}

	return p.generateLocked(ctx)
}

// Reset discards the persisted id and returns a newly generated one.
// Progression cached for the previous id must not be reused.
func (p *Provider) Reset(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.kv.Delete(ctx, StorageKey); err != nil {
		return "", fmt.Errorf("failed to delete player identity: %w", err)
	}
	old := p.id
	id, err := p.generateLocked(ctx)
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"previous": old, "playerId": id}).Info("player identity reset")
	return id, nil
}

// IsFresh reports whether the current id was generated by this process
// rather than read back from storage.
func (p *Provider) IsFresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fresh
}

func (p *Provider) generateLocked(ctx context.Context) (string, error) {
	id := fmt.Sprintf("player_%d_%s", p.now().UnixMilli(), common.RandomBase36(randomSuffixLen))
	if err := p.kv.Set(ctx, StorageKey, id); err != nil {
		return "", fmt.Errorf("failed to persist player identity: %w", err)
	}
	p.id, p.loaded, p.fresh = id, true, true
	logrus.WithField("playerId", id).Info("generated new player identity")
	return id, nil
}
