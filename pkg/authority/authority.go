// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package authority is a self-contained progression authority backed by
// durable storage. It serves players when no remote service is used, either
// in-process as a host bridge object or over HTTP.
package authority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/storage"
	"github.com/sirupsen/logrus"
)

// ProgressKeyPrefix prefixes the storage key of every progression record.
const ProgressKeyPrefix = "puzzle-progress"

// GameName is reported by Info.
const GameName = "Escape Room"

const wrongAnswerMessage = "That's not right. Try again."

func progressKey(playerID string) string {
	return ProgressKeyPrefix + ":" + playerID
}

// Authority decides answers and owns progression records.
type Authority struct {
	kv      storage.KV
	catalog *puzzle.Catalog
	order   puzzle.Order

	// serialises read-modify-write of records
	mu sync.Mutex
}

func New(kv storage.KV, catalog *puzzle.Catalog) *Authority {
	return &Authority{kv: kv, catalog: catalog, order: catalog.Order()}
}

// Progress returns the stored record. A player that never reset or
// completed anything gets the empty record, as Submit and Complete assume.
func (a *Authority) Progress(ctx context.Context, playerID string) (progression.Record, error) {
	return a.loadOrEmpty(ctx, playerID)
}

// SaveProgress replaces the record wholesale after validating it.
func (a *Authority) SaveProgress(ctx context.Context, rec progression.Record) (progression.Record, error) {
	if rec.PlayerID == "" {
		return progression.Record{}, fmt.Errorf("%w: empty playerId", ErrInvalidRequest)
	}
	rec = progression.Normalize(rec, a.order)
	if err := progression.Validate(rec, a.order); err != nil {
		return progression.Record{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.save(ctx, rec); err != nil {
		return progression.Record{}, err
	}
	return rec, nil
}

// Submit judges an answer. It never changes progression; completion is a
// separate call.
func (a *Authority) Submit(ctx context.Context, playerID, puzzleID, answer string) (progression.SubmitResult, error) {
	def, ok := a.catalog.Get(puzzleID)
	if !ok {
		return progression.SubmitResult{}, fmt.Errorf("%w: %s", progression.ErrPuzzleNotFound, puzzleID)
	}
	rec, err := a.loadOrEmpty(ctx, playerID)
	if err != nil {
		return progression.SubmitResult{}, err
	}
	if idx := a.order.IndexOf(puzzleID); !rec.IsCompleted(puzzleID) && rec.IsLocked(idx) {
		return progression.SubmitResult{}, fmt.Errorf("%w: %s", ErrPuzzleLocked, puzzleID)
	}

	log := logrus.WithFields(logrus.Fields{"playerId": playerID, "puzzleId": puzzleID})
	if def.Kind != puzzle.KindClueDisplay && !puzzle.Matches(def.Answer, answer) {
		log.Debug("wrong answer submitted")
		return progression.SubmitResult{Success: false, Message: wrongAnswerMessage}, nil
	}

	log.Info("correct answer submitted")
	return progression.SubmitResult{Success: true, Message: def.SuccessMessage, NextScene: def.NextScene}, nil
}

// Complete records puzzleID as solved. Completing a locked puzzle is
// rejected; completing a solved one again changes nothing.
func (a *Authority) Complete(ctx context.Context, playerID, puzzleID string) (progression.Record, error) {
	if !a.order.Contains(puzzleID) {
		return progression.Record{}, fmt.Errorf("%w: %s", progression.ErrPuzzleNotFound, puzzleID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.loadOrEmpty(ctx, playerID)
	if err != nil {
		return progression.Record{}, err
	}
	if !rec.IsCompleted(puzzleID) && rec.IsLocked(a.order.IndexOf(puzzleID)) {
		return progression.Record{}, fmt.Errorf("%w: %s", ErrPuzzleLocked, puzzleID)
	}

	rec, err = progression.Complete(rec, a.order, puzzleID)
	if err != nil {
		return progression.Record{}, err
	}
	if err := a.save(ctx, rec); err != nil {
		return progression.Record{}, err
	}
	logrus.WithFields(logrus.Fields{"playerId": playerID, "puzzleId": puzzleID, "currentStep": rec.CurrentStep}).Info("puzzle completed")
	return rec, nil
}

// Reset replaces the player's record with an empty one.
func (a *Authority) Reset(ctx context.Context, playerID string) (progression.Record, error) {
	return a.replace(ctx, playerID, func(r progression.Record) progression.Record {
		return progression.Reset(r)
	})
}

// UnlockAll marks every puzzle solved.
func (a *Authority) UnlockAll(ctx context.Context, playerID string) (progression.Record, error) {
	return a.replace(ctx, playerID, func(r progression.Record) progression.Record {
		return progression.UnlockAll(r, a.order)
	})
}

// PlayerPuzzles returns every puzzle with the player's lock and completion flags.
func (a *Authority) PlayerPuzzles(ctx context.Context, playerID string) ([]progression.PuzzleState, error) {
	rec, err := a.loadOrEmpty(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return progression.Derive(rec, a.catalog), nil
}

// PuzzleStatus returns one puzzle's flags for the player.
func (a *Authority) PuzzleStatus(ctx context.Context, playerID, puzzleID string) (progression.PuzzleState, error) {
	states, err := a.PlayerPuzzles(ctx, playerID)
	if err != nil {
		return progression.PuzzleState{}, err
	}
	for _, s := range states {
		if s.ID == puzzleID {
			return s, nil
		}
	}
	return progression.PuzzleState{}, fmt.Errorf("%w: %s", progression.ErrPuzzleNotFound, puzzleID)
}

func (a *Authority) Puzzles() []puzzle.Info {
	return a.catalog.Infos()
}

func (a *Authority) Puzzle(puzzleID string) (puzzle.Info, error) {
	info, ok := a.catalog.Info(puzzleID)
	if !ok {
		return puzzle.Info{}, fmt.Errorf("%w: %s", progression.ErrPuzzleNotFound, puzzleID)
	}
	return info, nil
}

func (a *Authority) Order() puzzle.Order {
	return a.catalog.Order()
}

func (a *Authority) Info() progression.GameInfo {
	return progression.GameInfo{Name: GameName, TotalPuzzles: a.catalog.Len(), PuzzleOrder: a.catalog.Order()}
}

func (a *Authority) replace(ctx context.Context, playerID string, fn func(progression.Record) progression.Record) (progression.Record, error) {
	if playerID == "" {
		return progression.Record{}, fmt.Errorf("%w: empty playerId", ErrInvalidRequest)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	rec := fn(progression.NewRecord(playerID))
	if err := a.save(ctx, rec); err != nil {
		return progression.Record{}, err
	}
	return rec, nil
}

func (a *Authority) load(ctx context.Context, playerID string) (progression.Record, error) {
	data, err := a.kv.Get(ctx, progressKey(playerID))
	if errors.Is(err, storage.ErrNotFound) {
		return progression.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, playerID)
	}
	if err != nil {
		return progression.Record{}, fmt.Errorf("failed to load progress: %w", err)
	}
	rec, err := progression.Decode([]byte(data), a.order)
	if err != nil {
		return progression.Record{}, err
	}
	rec.PlayerID = playerID
	return rec, nil
}

func (a *Authority) loadOrEmpty(ctx context.Context, playerID string) (progression.Record, error) {
	if playerID == "" {
		return progression.Record{}, fmt.Errorf("%w: empty playerId", ErrInvalidRequest)
	}
	rec, err := a.load(ctx, playerID)
	if errors.Is(err, ErrRecordNotFound) {
		return progression.NewRecord(playerID), nil
	}
	return rec, err
}

func (a *Authority) save(ctx context.Context, rec progression.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := a.kv.Set(ctx, progressKey(rec.PlayerID), string(data)); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
