// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AccelByte/extend-escape-room/pkg/transport"
)

// Bridge is a mock implementation of transport.Bridge for testing
type Bridge struct {
	// ExecuteFunc is called when Execute is invoked
	ExecuteFunc func(ctx context.Context, op transport.Operation) (json.RawMessage, error)

	// Default data, keyed by operation name
	Responses    map[string]json.RawMessage
	Errors       map[string]error
	DefaultError error
	BridgeMode   transport.Mode

	mu    sync.Mutex
	calls []transport.Operation
}

// NewBridge creates a mock network-mode Bridge with no canned responses
func NewBridge() *Bridge {
	return &Bridge{
		Responses:  make(map[string]json.RawMessage),
		Errors:     make(map[string]error),
		BridgeMode: transport.ModeNetwork,
	}
}

// Execute records the call and answers from ExecuteFunc or the canned data
func (m *Bridge) Execute(ctx context.Context, op transport.Operation) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	fn := m.ExecuteFunc
	resp, hasResp := m.Responses[op.Name]
	err := m.Errors[op.Name]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, op)
	}
	if err != nil {
		return nil, err
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	if !hasResp {
		return json.RawMessage("null"), nil
	}
	return resp, nil
}

func (m *Bridge) Mode() transport.Mode {
	return m.BridgeMode
}

// Respond sets the canned response for an operation, marshalling v
func (m *Bridge) Respond(opName string, v any) *Bridge {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Responses[opName] = data
	return m
}

// Fail makes an operation return err
func (m *Bridge) Fail(opName string, err error) *Bridge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.Errors, opName)
	} else {
		m.Errors[opName] = err
	}
	return m
}

// Calls returns every operation executed so far
func (m *Bridge) Calls() []transport.Operation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]transport.Operation, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallNames returns the names of every operation executed so far
func (m *Bridge) CallNames() []string {
	calls := m.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times an operation was executed
func (m *Bridge) Count(opName string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Name == opName {
			n++
		}
	}
	return n
}

// Reset clears all call tracking
func (m *Bridge) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = nil
}

// AssertCalled verifies an operation was executed
func (m *Bridge) AssertCalled(opName string) error {
	if m.Count(opName) > 0 {
		return nil
	}
	return fmt.Errorf("expected %s to be executed, but got calls: %v", opName, m.CallNames())
}
