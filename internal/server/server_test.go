// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AccelByte/extend-escape-room/pkg/authority"
	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/session"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer_ExposesCollectors(t *testing.T) {
	collectors := append(transport.Collectors(), session.Collectors()...)
	m := NewMetricsServer(9090, "/metrics", collectors...)
	require.NoError(t, m.Setup())

	session.CompletionsTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "escape_room_transport_pending_callbacks")
	assert.Contains(t, body, "escape_room_session_completions_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsServer_DuplicateCollector(t *testing.T) {
	m := NewMetricsServer(9090, "/metrics", session.CompletionsTotal, session.CompletionsTotal)
	assert.Error(t, m.Setup())
}

func TestAuthorityServer_ServesAPI(t *testing.T) {
	a := authority.New(storage.NewMemoryKV(), puzzle.DefaultCatalog())
	s := NewAuthorityServer(0, a)
	require.NoError(t, s.Setup())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	_, port, err := net.SplitHostPort(s.Addr())
	require.NoError(t, err)
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%s/api/game/info", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var info progression.GameInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, 5, info.TotalPuzzles)
}

func TestSetupTelemetry(t *testing.T) {
	shutdown, err := SetupTelemetry(context.Background(), "escape-room-test", "test", "", 0)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
