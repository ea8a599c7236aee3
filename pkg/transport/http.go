// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the authority address used when none is configured.
const DefaultBaseURL = "http://localhost:8080/api"

// HTTPBridge carries operations as JSON HTTP requests.
type HTTPBridge struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBridge creates a network bridge. A zero timeout leaves requests
// bounded only by the caller's context.
func NewHTTPBridge(baseURL string, timeout time.Duration) *HTTPBridge {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPBridge{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

// NewHTTPBridgeWithClient uses client as-is, e.g. an httptest server client.
func NewHTTPBridgeWithClient(baseURL string, client *http.Client) *HTTPBridge {
	return &HTTPBridge{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (b *HTTPBridge) BaseURL() string { return b.baseURL }

func (b *HTTPBridge) Mode() Mode { return ModeNetwork }

func (b *HTTPBridge) Execute(ctx context.Context, op Operation) (json.RawMessage, error) {
	return instrument(ctx, ModeNetwork, op, func(ctx context.Context) (json.RawMessage, error) {
		return b.do(ctx, op)
	})
}

func (b *HTTPBridge) do(ctx context.Context, op Operation) (json.RawMessage, error) {
	url := b.baseURL + op.Path
	if len(op.Query) > 0 {
		url += "?" + op.Query.Encode()
	}

	var body io.Reader
	if op.Body != nil {
		payload, err := json.Marshal(op.Body)
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Op: op.Name, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	method := op.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op.Name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op.Name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op.Name, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{Kind: KindHTTPStatus, Op: op.Name, Status: resp.StatusCode}
		if p, ok := parseErrorPayload(string(data)); ok {
			e.Message = p.text()
		}
		return nil, e
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, &Error{Kind: KindNetwork, Op: op.Name, Err: fmt.Errorf("malformed JSON body")}
	}
	return json.RawMessage(data), nil
}
