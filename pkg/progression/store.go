// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/sirupsen/logrus"
)

const maxFetchAttempts = 3

// Player is the identity the store works for. Fresh marks an identity
// generated in this process, whose authority record may not exist yet.
// Identities read back from storage may lack a record too, e.g. after an
// interrupted first run; the store recovers those on the first 404.
type Player struct {
	ID    string
	Fresh bool
}

// Store answers progression questions through a transport bridge. It keeps
// one cache of puzzle states stamped with a generation; every mutation bumps
// the generation, and a fetch that started under an older generation never
// installs its result.
type Store struct {
	bridge  transport.Bridge
	catalog *puzzle.Catalog
	order   puzzle.Order

	mu         sync.Mutex
	player     Player
	seeded     bool
	generation uint64
	valid      bool
	states     []PuzzleState
	record     Record
}

func NewStore(bridge transport.Bridge, catalog *puzzle.Catalog, player Player) *Store {
	return &Store{
		bridge:  bridge,
		catalog: catalog,
		order:   catalog.Order(),
		player:  player,
	}
}

// Player returns the identity the store currently serves.
func (s *Store) Player() Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player
}

// SetPlayer switches identity and drops everything cached for the old one.
func (s *Store) SetPlayer(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player = p
	s.seeded = false
	s.generation++
	s.valid = false
	s.states = nil
	s.record = Record{}
}

// Invalidate forces the next PuzzleStates call to refetch.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.valid = false
}

// Cached returns the last known puzzle states and whether they are current.
func (s *Store) Cached() ([]PuzzleState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyStates(s.states), s.valid
}

// Catalog returns the static catalog the store derives states from.
func (s *Store) Catalog() *puzzle.Catalog {
	return s.catalog
}

// PuzzleStates returns the player's puzzle states, fetching them from the
// authority unless the cache is current. A fresh player is seeded before the
// first fetch; any other player is seeded once when the authority reports no
// record (404). A failed fetch returns the error and leaves the last known
// states untouched.
func (s *Store) PuzzleStates(ctx context.Context) ([]PuzzleState, error) {
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		s.mu.Lock()
		if s.valid {
			states := copyStates(s.states)
			s.mu.Unlock()
			return states, nil
		}
		gen, player, needSeed := s.generation, s.player, s.player.Fresh && !s.seeded
		s.mu.Unlock()

		if needSeed {
			if err := s.seed(ctx, player); err != nil {
				return nil, err
			}
		}

		rec, err := s.fetchRecord(ctx, player.ID)
		if isMissingRecord(err) && !needSeed {
			logrus.WithField("playerId", player.ID).Info("authority has no record for player")
			if err := s.seed(ctx, player); err != nil {
				return nil, err
			}
			rec, err = s.fetchRecord(ctx, player.ID)
		}
		if err != nil {
			return nil, err
		}
		states := Derive(rec, s.catalog)

		s.mu.Lock()
		if s.generation == gen {
			s.states, s.record, s.valid = states, rec, true
			s.mu.Unlock()
			return copyStates(states), nil
		}
		s.mu.Unlock()
		logrus.WithField("playerId", player.ID).Debug("discarding progress fetched before a mutation")
	}
	return nil, ErrStaleFetch
}

// Find returns the state of puzzleID from the player's puzzle list.
func (s *Store) Find(ctx context.Context, puzzleID string) (PuzzleState, error) {
	states, err := s.PuzzleStates(ctx)
	if err != nil {
		return PuzzleState{}, err
	}
	for _, st := range states {
		if st.ID == puzzleID {
			return st, nil
		}
	}
	return PuzzleState{}, fmt.Errorf("%w: %s", ErrPuzzleNotFound, puzzleID)
}

// Record returns the progression record behind the cached states.
func (s *Store) Record(ctx context.Context) (Record, error) {
	if _, err := s.PuzzleStates(ctx); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.record.clone(), nil
}

// SubmitAnswer asks the authority to judge an answer. Correctness is never
// decided here.
func (s *Store) SubmitAnswer(ctx context.Context, puzzleID, answer string) (SubmitResult, error) {
	raw, err := s.bridge.Execute(ctx, transport.SubmitPuzzleAnswer(s.Player().ID, puzzleID, answer))
	if err != nil {
		return SubmitResult{}, err
	}
	var res SubmitResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return SubmitResult{}, fmt.Errorf("decode submit result: %w", err)
	}
	return res, nil
}

// MarkCompleted tells the authority the puzzle is solved and refetches.
func (s *Store) MarkCompleted(ctx context.Context, puzzleID string) ([]PuzzleState, error) {
	return s.mutate(ctx, transport.CompletePuzzle(s.Player().ID, puzzleID))
}

// ResetAll empties the player's authoritative record and refetches.
func (s *Store) ResetAll(ctx context.Context) ([]PuzzleState, error) {
	return s.mutate(ctx, transport.ResetProgress(s.Player().ID))
}

// UnlockAll marks every puzzle solved for the player and refetches.
func (s *Store) UnlockAll(ctx context.Context) ([]PuzzleState, error) {
	return s.mutate(ctx, transport.UnlockAll(s.Player().ID))
}

// SaveProgress replaces the player's record wholesale and refetches.
func (s *Store) SaveProgress(ctx context.Context, rec Record) ([]PuzzleState, error) {
	rec.PlayerID = s.Player().ID
	rec = Normalize(rec, s.order)
	if err := Validate(rec, s.order); err != nil {
		return nil, err
	}
	return s.mutate(ctx, transport.SaveProgress(rec))
}

// PuzzleStatus asks the authority for one puzzle's flags directly.
func (s *Store) PuzzleStatus(ctx context.Context, puzzleID string) (PuzzleState, error) {
	var st PuzzleState
	err := s.query(ctx, transport.GetPuzzleStatus(s.Player().ID, puzzleID), &st)
	return st, err
}

// PlayerPuzzles asks the authority for its own view of the player's puzzles.
func (s *Store) PlayerPuzzles(ctx context.Context) ([]PuzzleState, error) {
	var states []PuzzleState
	err := s.query(ctx, transport.GetPlayerPuzzles(s.Player().ID), &states)
	return states, err
}

func (s *Store) GameInfo(ctx context.Context) (GameInfo, error) {
	var info GameInfo
	err := s.query(ctx, transport.GetGameInfo(), &info)
	return info, err
}

func (s *Store) PuzzleOrder(ctx context.Context) (puzzle.Order, error) {
	var order puzzle.Order
	err := s.query(ctx, transport.GetPuzzleOrder(), &order)
	return order, err
}

func (s *Store) AllPuzzles(ctx context.Context) ([]puzzle.Info, error) {
	var infos []puzzle.Info
	err := s.query(ctx, transport.GetAllPuzzles(), &infos)
	return infos, err
}

func (s *Store) Puzzle(ctx context.Context, puzzleID string) (puzzle.Info, error) {
	var info puzzle.Info
	err := s.query(ctx, transport.GetPuzzle(puzzleID), &info)
	return info, err
}

// mutate runs op and refetches. Any accepted mutation leaves the authority
// holding a record, so a fresh player needs no seeding afterwards.
func (s *Store) mutate(ctx context.Context, op transport.Operation) ([]PuzzleState, error) {
	player := s.Player()
	s.Invalidate()
	if _, err := s.bridge.Execute(ctx, op); err != nil {
		return nil, err
	}
	s.markSeeded(player.ID)
	logrus.WithFields(logrus.Fields{"playerId": player.ID, "operation": op.Name}).Debug("progress changed, refetching")
	return s.PuzzleStates(ctx)
}

func (s *Store) query(ctx context.Context, op transport.Operation, out any) error {
	raw, err := s.bridge.Execute(ctx, op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s result: %w", op.Name, err)
	}
	return nil
}

// seed resets a fresh identity's record so the first fetch never meets a
// missing record.
func (s *Store) seed(ctx context.Context, player Player) error {
	logrus.WithField("playerId", player.ID).Info("new player, initialising progress")
	if _, err := s.bridge.Execute(ctx, transport.ResetProgress(player.ID)); err != nil {
		return fmt.Errorf("initialise progress: %w", err)
	}
	s.markSeeded(player.ID)
	return nil
}

func (s *Store) markSeeded(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.ID == playerID {
		s.seeded = true
	}
}

func (s *Store) fetchRecord(ctx context.Context, playerID string) (Record, error) {
	raw, err := s.bridge.Execute(ctx, transport.GetProgress(playerID))
	if err != nil {
		return Record{}, err
	}
	rec, err := Decode(raw, s.order)
	if err != nil {
		return Record{}, err
	}
	rec.PlayerID = playerID
	return rec, nil
}

// isMissingRecord reports whether err is the authority's 404 for a player
// without a progression record.
func isMissingRecord(err error) bool {
	status, ok := transport.StatusOf(err)
	return ok && status == http.StatusNotFound
}

func copyStates(states []PuzzleState) []PuzzleState {
	if states == nil {
		return nil
	}
	out := make([]PuzzleState, len(states))
	copy(out, states)
	return out
}
