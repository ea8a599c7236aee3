// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package authority

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*httptest.Server, *transport.HTTPBridge) {
	t.Helper()
	srv := httptest.NewServer(NewHandler(New(storage.NewMemoryKV(), puzzle.DefaultCatalog())))
	t.Cleanup(srv.Close)
	return srv, transport.NewHTTPBridgeWithClient(srv.URL+"/api", srv.Client())
}

func TestHandler_Catalog(t *testing.T) {
	_, bridge := setupServer(t)
	ctx := context.Background()

	raw, err := bridge.Execute(ctx, transport.GetAllPuzzles())
	require.NoError(t, err)
	var infos []puzzle.Info
	require.NoError(t, json.Unmarshal(raw, &infos))
	require.Len(t, infos, 5)
	assert.NotContains(t, string(raw), "10001000", "answers must not leave the authority")

	raw, err = bridge.Execute(ctx, transport.GetPuzzleOrder())
	require.NoError(t, err)
	var order []string
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, "chair-puzzle", order[0])

	raw, err = bridge.Execute(ctx, transport.GetPuzzle("mirror-puzzle"))
	require.NoError(t, err)
	var info puzzle.Info
	require.NoError(t, json.Unmarshal(raw, &info))
	assert.Equal(t, puzzle.KindCodeEntry, info.Kind)
	assert.Equal(t, 4, info.Slots)

	_, err = bridge.Execute(ctx, transport.GetPuzzle("trapdoor"))
	status, _ := transport.StatusOf(err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandler_ProgressFlow(t *testing.T) {
	_, bridge := setupServer(t)
	ctx := context.Background()

	raw, err := bridge.Execute(ctx, transport.GetProgress("p1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"playerId":"p1","completedPuzzles":[],"currentStep":0}`, string(raw))

	_, err = bridge.Execute(ctx, transport.ResetProgress("p1"))
	require.NoError(t, err)

	raw, err = bridge.Execute(ctx, transport.SubmitPuzzleAnswer("p1", "chair-puzzle", "10001000"))
	require.NoError(t, err)
	var res progression.SubmitResult
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.True(t, res.Success)

	_, err = bridge.Execute(ctx, transport.CompletePuzzle("p1", "chair-puzzle"))
	require.NoError(t, err)

	raw, err = bridge.Execute(ctx, transport.GetPlayerPuzzles("p1"))
	require.NoError(t, err)
	var states []progression.PuzzleState
	require.NoError(t, json.Unmarshal(raw, &states))
	assert.True(t, states[0].IsCompleted)
	assert.False(t, states[1].IsLocked)
	assert.True(t, states[2].IsLocked)

	raw, err = bridge.Execute(ctx, transport.UnlockAll("p1"))
	require.NoError(t, err)
	var rec progression.Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.Equal(t, 5, rec.CurrentStep)

	raw, err = bridge.Execute(ctx, transport.GetPuzzleStatus("p1", "mirror-puzzle"))
	require.NoError(t, err)
	var state progression.PuzzleState
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.True(t, state.IsCompleted)

	raw, err = bridge.Execute(ctx, transport.GetGameInfo())
	require.NoError(t, err)
	assert.Contains(t, string(raw), GameName)
}

func TestHandler_BadRequests(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "submit garbage", method: http.MethodPost, path: "/api/puzzle/submit", body: "{", want: http.StatusBadRequest},
		{name: "complete without params", method: http.MethodPost, path: "/api/game/complete-puzzle", want: http.StatusBadRequest},
		{name: "save malformed record", method: http.MethodPost, path: "/api/game/progress", body: `{"playerId":"p","completedPuzzles":["x"]}`, want: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodGet, path: "/api/game/reset/p", want: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/nowhere/at/all/here", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
