// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/AccelByte/extend-escape-room/pkg/authority"
	"github.com/AccelByte/extend-escape-room/pkg/identity"
	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/AccelByte/extend-escape-room/pkg/transport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostStore(t *testing.T, player progression.Player) *progression.Store {
	t.Helper()
	callbacks := transport.NewCallbackRegistry()
	host := authority.NewHostObject(authority.New(storage.NewMemoryKV(), puzzle.DefaultCatalog()), callbacks)
	t.Cleanup(host.Wait)
	return progression.NewStore(transport.NewHostBridge(host, callbacks), puzzle.DefaultCatalog(), player)
}

func lockedFlags(states []progression.PuzzleState) []bool {
	out := make([]bool, len(states))
	for i, st := range states {
		out[i] = st.IsLocked
	}
	return out
}

func TestStore_FreshPlayerIsSeeded(t *testing.T) {
	store := hostStore(t, progression.Player{ID: "player_1_abc", Fresh: true})

	states, err := store.PuzzleStates(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 5)
	assert.Equal(t, []bool{false, true, true, true, true}, lockedFlags(states))
	for _, st := range states {
		assert.False(t, st.IsCompleted)
	}
}

func TestStore_RestartBeforeFirstFetch(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	// first run creates the identity and stops before fetching anything
	id, err := identity.NewProvider(kv).GetOrCreate(ctx)
	require.NoError(t, err)

	restarted := identity.NewProvider(kv)
	again, err := restarted.GetOrCreate(ctx)
	require.NoError(t, err)
	require.Equal(t, id, again)
	require.False(t, restarted.IsFresh())

	callbacks := transport.NewCallbackRegistry()
	host := authority.NewHostObject(authority.New(kv, puzzle.DefaultCatalog()), callbacks)
	t.Cleanup(host.Wait)
	store := progression.NewStore(transport.NewHostBridge(host, callbacks), puzzle.DefaultCatalog(),
		progression.Player{ID: again, Fresh: restarted.IsFresh()})

	for i := 0; i < 2; i++ {
		states, err := store.PuzzleStates(ctx)
		require.NoError(t, err)
		assert.Equal(t, []bool{false, true, true, true, true}, lockedFlags(states))
		store.Invalidate()
	}
}

// missingRecordBridge answers getProgress with 404 until the player is reset.
func missingRecordBridge(resetHeals bool) *mock.Bridge {
	var reset atomic.Bool
	bridge := mock.NewBridge()
	bridge.ExecuteFunc = func(ctx context.Context, op transport.Operation) (json.RawMessage, error) {
		switch op.Name {
		case transport.OpResetProgress:
			reset.Store(resetHeals)
			return json.RawMessage(`{"completedPuzzles":[],"currentStep":0}`), nil
		case transport.OpGetProgress:
			if !reset.Load() {
				return nil, &transport.Error{Kind: transport.KindHTTPStatus, Op: op.Name, Status: 404, Message: "no progression record"}
			}
			return json.RawMessage(`{"completedPuzzles":[],"currentStep":0}`), nil
		}
		return json.RawMessage("null"), nil
	}
	return bridge
}

func TestStore_MissingRecordIsSeeded(t *testing.T) {
	bridge := missingRecordBridge(true)
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "player_1_abc"})

	states, err := store.PuzzleStates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, true, true}, lockedFlags(states))
	assert.Equal(t, []string{transport.OpGetProgress, transport.OpResetProgress, transport.OpGetProgress}, bridge.CallNames())
}

func TestStore_MissingRecordSeedsOncePerFetch(t *testing.T) {
	bridge := missingRecordBridge(false)
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "player_1_abc"})

	_, err := store.PuzzleStates(context.Background())
	require.Error(t, err)
	status, ok := transport.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, 404, status)
	assert.Equal(t, 1, bridge.Count(transport.OpResetProgress))

	_, valid := store.Cached()
	assert.False(t, valid)
}

func TestStore_CompletionFlow(t *testing.T) {
	store := hostStore(t, progression.Player{ID: "player_1_abc", Fresh: true})
	ctx := context.Background()

	res, err := store.SubmitAnswer(ctx, "chair-puzzle", "10001000")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "storage-sound", res.NextScene)

	states, err := store.MarkCompleted(ctx, "chair-puzzle")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true, true, true}, lockedFlags(states))
	assert.True(t, states[0].IsCompleted)

	st, err := store.Find(ctx, "storage-clue")
	require.NoError(t, err)
	assert.False(t, st.IsLocked)

	rec, err := store.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chair-puzzle"}, rec.CompletedPuzzles)
	assert.Equal(t, 1, rec.CurrentStep)

	states, err = store.UnlockAll(ctx)
	require.NoError(t, err)
	for _, st := range states {
		assert.True(t, st.IsCompleted)
		assert.False(t, st.IsLocked)
	}

	states, err = store.ResetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, true, true}, lockedFlags(states))
}

func TestStore_FindUnknownPuzzle(t *testing.T) {
	store := hostStore(t, progression.Player{ID: "player_1_abc", Fresh: true})

	_, err := store.Find(context.Background(), "trapdoor")
	assert.ErrorIs(t, err, progression.ErrPuzzleNotFound)
}

func TestStore_SaveProgress(t *testing.T) {
	store := hostStore(t, progression.Player{ID: "player_1_abc", Fresh: true})
	ctx := context.Background()

	states, err := store.SaveProgress(ctx, progression.Record{CompletedPuzzles: []string{"chair-puzzle", "storage-clue"}})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true, true}, lockedFlags(states))

	_, err = store.SaveProgress(ctx, progression.Record{CompletedPuzzles: []string{"trapdoor"}})
	assert.Error(t, err)
}

func TestStore_ServesFromCache(t *testing.T) {
	bridge := mock.NewBridge().Respond(transport.OpGetProgress, progression.Record{CompletedPuzzles: []string{}})
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.PuzzleStates(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, bridge.Count(transport.OpGetProgress))

	store.Invalidate()
	_, err := store.PuzzleStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, bridge.Count(transport.OpGetProgress))
}

func TestStore_SubmitDoesNotInvalidate(t *testing.T) {
	bridge := mock.NewBridge().
		Respond(transport.OpGetProgress, progression.Record{CompletedPuzzles: []string{}}).
		Respond(transport.OpSubmitPuzzleAnswer, progression.SubmitResult{Success: false, Message: "wrong"})
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})
	ctx := context.Background()

	_, err := store.PuzzleStates(ctx)
	require.NoError(t, err)
	res, err := store.SubmitAnswer(ctx, "chair-puzzle", "nope")
	require.NoError(t, err)
	assert.False(t, res.Success)

	_, valid := store.Cached()
	assert.True(t, valid)
}

func TestStore_FailedMutationKeepsLastKnownStates(t *testing.T) {
	bridge := mock.NewBridge().Respond(transport.OpGetProgress, progression.Record{CompletedPuzzles: []string{}})
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})
	ctx := context.Background()

	before, err := store.PuzzleStates(ctx)
	require.NoError(t, err)

	offline := &transport.Error{Kind: transport.KindNetwork, Op: transport.OpCompletePuzzle, Message: "connection refused"}
	bridge.Fail(transport.OpCompletePuzzle, offline)
	_, err = store.MarkCompleted(ctx, "chair-puzzle")
	assert.True(t, transport.IsKind(err, transport.KindNetwork))

	cached, valid := store.Cached()
	assert.False(t, valid)
	assert.Equal(t, before, cached)
}

func TestStore_DiscardsFetchStartedBeforeMutation(t *testing.T) {
	var store *progression.Store
	var fetches int32
	bridge := mock.NewBridge()
	bridge.ExecuteFunc = func(ctx context.Context, op transport.Operation) (json.RawMessage, error) {
		if op.Name != transport.OpGetProgress {
			return json.RawMessage("null"), nil
		}
		if atomic.AddInt32(&fetches, 1) == 1 {
			// a mutation lands while the first fetch is in flight
			store.Invalidate()
			return json.RawMessage(`{"completedPuzzles":[]}`), nil
		}
		return json.RawMessage(`{"completedPuzzles":["chair-puzzle"],"currentStep":1}`), nil
	}
	store = progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})

	states, err := store.PuzzleStates(context.Background())
	require.NoError(t, err)
	assert.True(t, states[0].IsCompleted, "the stale fetch must not win")
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestStore_GivesUpWhenProgressKeepsChanging(t *testing.T) {
	var store *progression.Store
	bridge := mock.NewBridge()
	bridge.ExecuteFunc = func(ctx context.Context, op transport.Operation) (json.RawMessage, error) {
		store.Invalidate()
		return json.RawMessage(`{"completedPuzzles":[]}`), nil
	}
	store = progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})

	_, err := store.PuzzleStates(context.Background())
	assert.ErrorIs(t, err, progression.ErrStaleFetch)
}

func TestStore_MalformedRecord(t *testing.T) {
	bridge := mock.NewBridge()
	bridge.Responses[transport.OpGetProgress] = json.RawMessage(`{"completedPuzzles":"chair-puzzle"}`)
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})

	_, err := store.PuzzleStates(context.Background())
	assert.ErrorIs(t, err, progression.ErrMalformedRecord)
}

func TestStore_SetPlayerDropsCache(t *testing.T) {
	bridge := mock.NewBridge().Respond(transport.OpGetProgress, progression.Record{CompletedPuzzles: []string{}})
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})
	ctx := context.Background()

	_, err := store.PuzzleStates(ctx)
	require.NoError(t, err)

	store.SetPlayer(progression.Player{ID: "p2", Fresh: true})
	cached, valid := store.Cached()
	assert.False(t, valid)
	assert.Nil(t, cached)

	_, err = store.PuzzleStates(ctx)
	require.NoError(t, err)
	calls := bridge.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, transport.OpResetProgress, calls[1].Name)
	assert.Equal(t, "p2", calls[1].BridgeArgs[0])
	assert.Equal(t, transport.OpGetProgress, calls[2].Name)
}

func TestStore_SeedFailureIsRetriedNextFetch(t *testing.T) {
	bridge := mock.NewBridge().
		Respond(transport.OpGetProgress, progression.Record{CompletedPuzzles: []string{}}).
		Fail(transport.OpResetProgress, errors.New("boom"))
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1", Fresh: true})
	ctx := context.Background()

	_, err := store.PuzzleStates(ctx)
	require.Error(t, err)
	assert.Zero(t, bridge.Count(transport.OpGetProgress))

	bridge.Fail(transport.OpResetProgress, nil)
	_, err = store.PuzzleStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, bridge.Count(transport.OpResetProgress))
}

func TestStore_CatalogQueries(t *testing.T) {
	bridge := mock.NewBridge().
		Respond(transport.OpGetGameInfo, progression.GameInfo{Name: "Escape Room", TotalPuzzles: 5}).
		Respond(transport.OpGetPuzzleOrder, []string{"chair-puzzle"})
	store := progression.NewStore(bridge, puzzle.DefaultCatalog(), progression.Player{ID: "p1"})
	ctx := context.Background()

	info, err := store.GameInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, info.TotalPuzzles)

	order, err := store.PuzzleOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Order{"chair-puzzle"}, order)
}
