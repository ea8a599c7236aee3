// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/AccelByte/extend-escape-room/internal/config"
	"github.com/AccelByte/extend-escape-room/pkg/authority"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
)

// Transport is the bridge chosen for the process lifetime plus, in host
// mode, the host object answering it.
type Transport struct {
	Bridge     transport.Bridge
	HostObject *authority.HostObject
}

// InitTransport probes for a host object once at startup and selects the
// bridge. The mode never changes afterwards.
//
// ============================================================
// DEVELOPER: Host bridge
// ============================================================
// With HOST_BRIDGE_ENABLED the local authority is published as
// the host object: progression is kept in the configured
// storage and no network is used. An embedding application
// that provides its own host object should pass it to
// transport.Select instead.
// ============================================================
func InitTransport(cfg *config.Config, kv storage.KV, catalog *puzzle.Catalog) *Transport {
	callbacks := transport.NewCallbackRegistry()
	network := transport.NewHTTPBridge(cfg.APIBaseURL, cfg.HTTPTimeout())

	t := &Transport{}
	var host transport.Host
	if cfg.HostBridgeEnabled {
		t.HostObject = authority.NewHostObject(authority.New(kv, catalog), callbacks)
		host = t.HostObject
	}
	t.Bridge = transport.Select(host, callbacks, network)
	return t
}
