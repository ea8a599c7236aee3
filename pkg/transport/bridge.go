// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package transport carries authority operations over either the network or
// a host-provided callback bridge behind one Bridge contract.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AccelByte/extend-escape-room/pkg/common"
	"github.com/sirupsen/logrus"
)

// Mode is the channel a Bridge uses.
type Mode string

const (
	ModeNetwork Mode = "network"
	ModeHost    Mode = "host"
)

// Bridge executes authority operations. Implementations never retry.
type Bridge interface {
	Execute(ctx context.Context, op Operation) (json.RawMessage, error)
	Mode() Mode
}

// Select picks the bridge for the process lifetime: host mode when a host
// object is present, network mode otherwise.
func Select(host Host, callbacks *CallbackRegistry, network *HTTPBridge) Bridge {
	if host != nil {
		logrus.Info("host bridge object found, using host mode")
		return NewHostBridge(host, callbacks)
	}
	logrus.Infof("no host bridge object, using network mode against %s", network.BaseURL())
	return network
}

// instrument wraps one Execute call with a span, a log line on failure and metrics.
func instrument(ctx context.Context, mode Mode, op Operation, call func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	scope := common.NewScope(ctx, "transport."+op.Name)
	defer scope.Finish()
	scope.SetAttributes("transport.mode", string(mode))

	start := time.Now()
	result, err := call(scope.Ctx)
	RequestDuration.WithLabelValues(op.Name, string(mode)).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		var te *Error
		if errors.As(err, &te) {
			outcome = te.Kind.String()
		}
		scope.TraceError(err)
		scope.Log.WithFields(logrus.Fields{"operation": op.Name, "mode": mode}).Warnf("authority call failed: %v", err)
	}
	RequestsTotal.WithLabelValues(op.Name, string(mode), outcome).Inc()

	return result, err
}
