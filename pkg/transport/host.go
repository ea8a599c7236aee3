// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// HostMethod is one method exposed by the host. args holds the positional
// arguments followed by the callback token. The host answers later through
// CallbackRegistry.Dispatch with that token. A returned error means the
// invocation itself failed and no answer will follow.
type HostMethod func(args []any) error

// Host is the host-provided bridge object.
type Host interface {
	Method(name string) (HostMethod, bool)
}

// HostBridge carries operations through a Host.
type HostBridge struct {
	host      Host
	callbacks *CallbackRegistry
}

func NewHostBridge(host Host, callbacks *CallbackRegistry) *HostBridge {
	if callbacks == nil {
		callbacks = NewCallbackRegistry()
	}
	return &HostBridge{host: host, callbacks: callbacks}
}

// Callbacks returns the registry the host answers through.
func (b *HostBridge) Callbacks() *CallbackRegistry { return b.callbacks }

func (b *HostBridge) Mode() Mode { return ModeHost }

// Execute invokes the host method and waits for its answer. There is no
// timeout here: a host that never answers blocks until ctx ends.
func (b *HostBridge) Execute(ctx context.Context, op Operation) (json.RawMessage, error) {
	return instrument(ctx, ModeHost, op, func(ctx context.Context) (json.RawMessage, error) {
		return b.do(ctx, op)
	})
}

func (b *HostBridge) do(ctx context.Context, op Operation) (json.RawMessage, error) {
	if op.HostMethod == "" {
		return nil, &Error{Kind: KindUnsupportedOperation, Op: op.Name, Message: "no host method for operation"}
	}
	method, ok := b.host.Method(op.HostMethod)
	if !ok || method == nil {
		return nil, &Error{Kind: KindUnsupportedOperation, Op: op.Name, Message: fmt.Sprintf("host has no method %q", op.HostMethod)}
	}

	args := make([]any, 0, len(op.BridgeArgs)+1)
	for _, a := range op.BridgeArgs {
		enc, err := encodeArg(a)
		if err != nil {
			return nil, &Error{Kind: KindHostInvocationFailure, Op: op.Name, Err: fmt.Errorf("encode argument: %w", err)}
		}
		args = append(args, enc)
	}

	token, answer := b.callbacks.Register()
	args = append(args, token)

	if err := invoke(method, args); err != nil {
		b.callbacks.Release(token)
		return nil, &Error{Kind: KindHostInvocationFailure, Op: op.Name, Err: err}
	}

	select {
	case resp := <-answer:
		return decodeHostResponse(op.Name, resp)
	case <-ctx.Done():
		b.callbacks.Release(token)
		return nil, &Error{Kind: KindNetwork, Op: op.Name, Err: ctx.Err()}
	}
}

// invoke calls method, turning a panic into an error.
func invoke(method HostMethod, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host method panicked: %v", r)
		}
	}()
	return method(args)
}

func decodeHostResponse(op string, resp response) (json.RawMessage, error) {
	if !noHostError(resp.errorRaw) {
		return nil, hostError(op, resp.errorRaw)
	}
	result := strings.TrimSpace(resp.result)
	if result == "" {
		return json.RawMessage("null"), nil
	}
	if !json.Valid([]byte(result)) {
		return nil, &Error{Kind: KindNetwork, Op: op, Err: fmt.Errorf("malformed JSON result")}
	}
	return json.RawMessage(result), nil
}

// noHostError reports whether a host error payload means success. Hosts send
// either nothing or a JSON null alongside a result.
func noHostError(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || raw == "null"
}

// HostFuncs is a Host backed by a plain method table.
type HostFuncs map[string]HostMethod

func (h HostFuncs) Method(name string) (HostMethod, bool) {
	m, ok := h[name]
	return m, ok
}
