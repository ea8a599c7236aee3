// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package scene maps the opaque nextScene tags returned by the authority to
// presentation side effects.
package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Notifier receives the notifications a scene emits.
type Notifier interface {
	Notify(message string)
}

// Revealer is implemented by presenters that can show hidden room objects.
type Revealer interface {
	Reveal(object string)
}

// Handler plays one scene.
type Handler interface {
	Tag() string
	Play(ctx context.Context, n Notifier) error
}

// Registry holds scene handlers keyed by tag.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler. Returns an error if the tag is taken.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[h.Tag()]; exists {
		return fmt.Errorf("scene %s already registered", h.Tag())
	}
	r.handlers[h.Tag()] = h
	return nil
}

func (r *Registry) Unregister(tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[tag]; !exists {
		return fmt.Errorf("scene %s not found", tag)
	}
	delete(r.handlers, tag)
	return nil
}

// Get returns the handler for tag, or nil.
func (r *Registry) Get(tag string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.handlers[tag]
}

// Tags returns the registered tags, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}

// Dispatch plays the scene for tag. An empty tag does nothing and an
// unknown tag is logged and ignored.
func (r *Registry) Dispatch(ctx context.Context, tag string, n Notifier) error {
	if tag == "" {
		return nil
	}
	h := r.Get(tag)
	if h == nil {
		logrus.Warnf("no scene registered for tag %q, ignoring", tag)
		return nil
	}

	logrus.WithField("scene", tag).Debug("playing scene")
	if err := h.Play(ctx, n); err != nil {
		return fmt.Errorf("scene %s: %w", tag, err)
	}
	return nil
}

// Func adapts a function to a Handler.
type Func struct {
	tag  string
	play func(ctx context.Context, n Notifier) error
}

func NewFunc(tag string, play func(ctx context.Context, n Notifier) error) *Func {
	return &Func{tag: tag, play: play}
}

func (f *Func) Tag() string { return f.tag }

func (f *Func) Play(ctx context.Context, n Notifier) error {
	return f.play(ctx, n)
}
