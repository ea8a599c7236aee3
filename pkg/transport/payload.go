// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"encoding/json"
	"strings"
)

// errorPayload is the structured error body authorities send.
type errorPayload struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (p errorPayload) text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}

// parseErrorPayload decodes raw as a structured error. A JSON string whose
// content is itself a JSON object is unwrapped once. ok is false when raw is
// not structured, in which case callers treat it as an opaque message.
func parseErrorPayload(raw string) (errorPayload, bool) {
	raw = strings.TrimSpace(raw)
	var p errorPayload
	if err := json.Unmarshal([]byte(raw), &p); err == nil && (p.Status != 0 || p.text() != "") {
		return p, true
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(inner)), &p); err == nil && (p.Status != 0 || p.text() != "") {
			return p, true
		}
	}
	return errorPayload{}, false
}

// opaqueMessage returns raw as a readable message, unquoting JSON strings.
func opaqueMessage(raw string) string {
	raw = strings.TrimSpace(raw)
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return raw
}

// hostError converts an error payload delivered through a host callback.
func hostError(op, raw string) *Error {
	if p, ok := parseErrorPayload(raw); ok {
		if p.Status != 0 {
			return &Error{Kind: KindHTTPStatus, Op: op, Status: p.Status, Message: p.text()}
		}
		return &Error{Kind: KindNetwork, Op: op, Message: p.text()}
	}
	return &Error{Kind: KindNetwork, Op: op, Message: opaqueMessage(raw)}
}

// encodeArg passes primitives through and JSON-serialises everything else.
func encodeArg(v any) (any, error) {
	switch v := v.(type) {
	case nil, string, bool, int, int32, int64, float32, float64:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
}
