// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a transport failure.
type ErrorKind int

const (
	// KindNetwork covers unreachable authorities, timeouts, malformed bodies
	// and upstream failures relayed by a host without a status.
	KindNetwork ErrorKind = iota + 1
	// KindHTTPStatus is a non-2xx answer from the authority.
	KindHTTPStatus
	// KindUnsupportedOperation means the active channel cannot carry the operation.
	KindUnsupportedOperation
	// KindHostInvocationFailure means the host method failed synchronously.
	KindHostInvocationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindUnsupportedOperation:
		return "unsupported_operation"
	case KindHostInvocationFailure:
		return "host_invocation_failure"
	default:
		return "unknown"
	}
}

// ErrUnknownCallback is returned when a host answers through a token that is
// not pending, either because it never existed or was already used.
var ErrUnknownCallback = errors.New("unknown or already used callback token")

// Error is the single error type returned by every Bridge.
type Error struct {
	Kind ErrorKind
	Op   string
	// Status is set for KindHTTPStatus.
	Status int
	// Message is the authority's own description, when it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("transport %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" %d", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a transport error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}

// StatusOf returns the HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var te *Error
	if errors.As(err, &te) && te.Kind == KindHTTPStatus {
		return te.Status, true
	}
	return 0, false
}
