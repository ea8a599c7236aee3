// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/sirupsen/logrus"
)

// Dispatcher delivers an answer for a callback token.
type Dispatcher interface {
	Dispatch(token, result, errorPayload string) error
}

// HostObject exposes an Authority as a host bridge object. Methods take
// string arguments plus a trailing callback token and answer asynchronously.
// It provides thread-safe registration and lookup of methods.
type HostObject struct {
	methods    map[string]transport.HostMethod
	mu         sync.RWMutex
	dispatcher Dispatcher
	inflight   sync.WaitGroup
}

// NewHostObject creates a host object with every authority method registered.
func NewHostObject(a *Authority, dispatcher Dispatcher) *HostObject {
	h := &HostObject{
		methods:    make(map[string]transport.HostMethod),
		dispatcher: dispatcher,
	}

	builtins := map[string]transport.HostMethod{
		transport.OpGetProgress: h.handler(1, func(ctx context.Context, args []string) (any, error) {
			return a.Progress(ctx, args[0])
		}),
		transport.OpSaveProgress: h.handler(1, func(ctx context.Context, args []string) (any, error) {
			var rec progression.Record
			if err := json.Unmarshal([]byte(args[0]), &rec); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			}
			return a.SaveProgress(ctx, rec)
		}),
		transport.OpSubmitPuzzleAnswer: h.handler(3, func(ctx context.Context, args []string) (any, error) {
			return a.Submit(ctx, args[0], args[1], args[2])
		}),
		transport.OpCompletePuzzle: h.handler(2, func(ctx context.Context, args []string) (any, error) {
			return a.Complete(ctx, args[0], args[1])
		}),
		transport.OpResetProgress: h.handler(1, func(ctx context.Context, args []string) (any, error) {
			return a.Reset(ctx, args[0])
		}),
		transport.OpUnlockAll: h.handler(1, func(ctx context.Context, args []string) (any, error) {
			return a.UnlockAll(ctx, args[0])
		}),
		transport.OpGetPuzzleStatus: h.handler(2, func(ctx context.Context, args []string) (any, error) {
			return a.PuzzleStatus(ctx, args[0], args[1])
		}),
		transport.OpGetGameInfo: h.handler(0, func(ctx context.Context, args []string) (any, error) {
			return a.Info(), nil
		}),
	}
	for name, m := range builtins {
		h.methods[name] = m
	}

	return h
}

// Register adds a method. Returns an error if the name is taken.
func (h *HostObject) Register(name string, m transport.HostMethod) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.methods[name]; exists {
		return fmt.Errorf("host method %s already registered", name)
	}
	h.methods[name] = m
	return nil
}

// Unregister removes a method. Returns an error if it doesn't exist.
func (h *HostObject) Unregister(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.methods[name]; !exists {
		return fmt.Errorf("host method %s not found", name)
	}
	delete(h.methods, name)
	return nil
}

// Method implements transport.Host.
func (h *HostObject) Method(name string) (transport.HostMethod, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	m, ok := h.methods[name]
	return m, ok
}

// Count returns the number of registered methods.
func (h *HostObject) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.methods)
}

// Wait blocks until every answer in flight has been dispatched.
func (h *HostObject) Wait() {
	h.inflight.Wait()
}

// handler adapts fn into a host method taking want string arguments.
// Argument errors fail the invocation synchronously; everything else is
// answered through the dispatcher.
func (h *HostObject) handler(want int, fn func(ctx context.Context, args []string) (any, error)) transport.HostMethod {
	return func(raw []any) error {
		if len(raw) != want+1 {
			return fmt.Errorf("expected %d arguments plus callback, got %d", want, len(raw))
		}
		args := make([]string, want)
		for i := 0; i < want; i++ {
			s, ok := raw[i].(string)
			if !ok {
				return fmt.Errorf("argument %d: expected string, got %T", i, raw[i])
			}
			args[i] = s
		}
		token, ok := raw[want].(string)
		if !ok || token == "" {
			return fmt.Errorf("missing callback token")
		}

		h.inflight.Add(1)
		go func() {
			defer h.inflight.Done()
			result, err := fn(context.Background(), args)
			h.answer(token, result, err)
		}()
		return nil
	}
}

func (h *HostObject) answer(token string, result any, err error) {
	var resultJSON, errorJSON string
	if err != nil {
		// hosts relay the error body as a JSON string
		body, _ := json.Marshal(errorBody(err))
		quoted, _ := json.Marshal(string(body))
		errorJSON = string(quoted)
	} else {
		data, mErr := json.Marshal(result)
		if mErr != nil {
			quoted, _ := json.Marshal("Network error: " + mErr.Error())
			errorJSON = string(quoted)
		} else {
			resultJSON = string(data)
		}
	}

	if dErr := h.dispatcher.Dispatch(token, resultJSON, errorJSON); dErr != nil {
		logrus.WithField("token", token).Warnf("dropping host answer: %v", dErr)
	}
}
