// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// callbackPrefix keeps tokens valid identifiers for hosts that dispatch by global name.
const callbackPrefix = "cb_"

// response is one host answer: a JSON result or an error payload.
type response struct {
	result   string
	errorRaw string
}

// CallbackRegistry holds the single-use response tokens handed to a host.
// Each token resolves at most once and is removed on first use or release.
type CallbackRegistry struct {
	mu      sync.Mutex
	pending map[string]chan response
}

func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{pending: make(map[string]chan response)}
}

// Register allocates a token and the channel its answer will arrive on.
func (r *CallbackRegistry) Register() (string, <-chan response) {
	token := callbackPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	ch := make(chan response, 1)

	r.mu.Lock()
	r.pending[token] = ch
	r.mu.Unlock()

	PendingCallbacks.Inc()
	return token, ch
}

// Dispatch delivers the host's answer for token. errorPayload is empty or
// JSON null on success. Unknown or already used tokens yield ErrUnknownCallback.
func (r *CallbackRegistry) Dispatch(token, result, errorPayload string) error {
	r.mu.Lock()
	ch, ok := r.pending[token]
	if ok {
		delete(r.pending, token)
	}
	r.mu.Unlock()

	if !ok {
		return ErrUnknownCallback
	}
	PendingCallbacks.Dec()
	ch <- response{result: result, errorRaw: errorPayload}
	return nil
}

// Release drops token without answering it. Releasing twice is harmless.
func (r *CallbackRegistry) Release(token string) {
	r.mu.Lock()
	_, ok := r.pending[token]
	delete(r.pending, token)
	r.mu.Unlock()

	if ok {
		PendingCallbacks.Dec()
	}
}

// Pending returns how many tokens are awaiting an answer.
func (r *CallbackRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}
