// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression

import (
	"encoding/json"
	"fmt"

	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
)

// Record is a player's progression: the completed puzzles in completion
// order plus the unlock cursor.
type Record struct {
	PlayerID         string   `json:"playerId,omitempty"`
	CompletedPuzzles []string `json:"completedPuzzles"`
	CurrentStep      int      `json:"currentStep"`
}

// PuzzleState is one puzzle as seen by one player.
type PuzzleState struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Question      string      `json:"question"`
	Kind          puzzle.Kind `json:"type"`
	Index         int         `json:"index"`
	IsLocked      bool        `json:"isLocked"`
	IsCompleted   bool        `json:"isCompleted"`
	LockedMessage string      `json:"lockedMessage,omitempty"`
	Choices       []string    `json:"choices,omitempty"`
	Slots         int         `json:"slots,omitempty"`
}

// NewRecord returns the empty record every player starts with.
func NewRecord(playerID string) Record {
	return Record{PlayerID: playerID, CompletedPuzzles: []string{}}
}

// IsCompleted reports whether id is in the completed set.
func (r Record) IsCompleted(id string) bool {
	for _, c := range r.CompletedPuzzles {
		if c == id {
			return true
		}
	}
	return false
}

// IsLocked reports whether the puzzle at index is beyond the cursor.
func (r Record) IsLocked(index int) bool {
	return index > r.CurrentStep
}

// Complete marks id completed. Completing an already-completed puzzle is a
// no-op, and the cursor only ever moves forward.
func Complete(r Record, order puzzle.Order, id string) (Record, error) {
	idx := order.IndexOf(id)
	if idx < 0 {
		return r, fmt.Errorf("%w: %s", ErrPuzzleNotFound, id)
	}

	out := r.clone()
	if !out.IsCompleted(id) {
		out.CompletedPuzzles = append(out.CompletedPuzzles, id)
	}
	if idx+1 > out.CurrentStep {
		out.CurrentStep = idx + 1
	}
	return out, nil
}

// Reset empties the record.
func Reset(r Record) Record {
	return NewRecord(r.PlayerID)
}

// UnlockAll marks every puzzle in order completed and moves the cursor past the end.
func UnlockAll(r Record, order puzzle.Order) Record {
	out := NewRecord(r.PlayerID)
	out.CompletedPuzzles = append(out.CompletedPuzzles, order...)
	out.CurrentStep = len(order)
	return out
}

// ImpliedStep is the cursor the completed set implies on its own.
func ImpliedStep(completed []string, order puzzle.Order) int {
	step := 0
	for _, id := range completed {
		if idx := order.IndexOf(id); idx+1 > step {
			step = idx + 1
		}
	}
	return step
}

// Normalize reconciles a record reported by an authority: duplicates are
// dropped and the cursor is raised to what the completed set implies.
// Authorities that report only the completed set are handled the same way.
func Normalize(r Record, order puzzle.Order) Record {
	out := NewRecord(r.PlayerID)
	seen := make(map[string]bool, len(r.CompletedPuzzles))
	for _, id := range r.CompletedPuzzles {
		if seen[id] {
			continue
		}
		seen[id] = true
		out.CompletedPuzzles = append(out.CompletedPuzzles, id)
	}
	out.CurrentStep = r.CurrentStep
	if implied := ImpliedStep(out.CompletedPuzzles, order); implied > out.CurrentStep {
		out.CurrentStep = implied
	}
	return out
}

// Validate checks the record against order.
func Validate(r Record, order puzzle.Order) error {
	if r.CurrentStep < 0 {
		return fmt.Errorf("%w: negative currentStep %d", ErrMalformedRecord, r.CurrentStep)
	}
	if r.CurrentStep > len(order) {
		return fmt.Errorf("%w: currentStep %d beyond %d puzzles", ErrMalformedRecord, r.CurrentStep, len(order))
	}
	seen := make(map[string]bool, len(r.CompletedPuzzles))
	for _, id := range r.CompletedPuzzles {
		if !order.Contains(id) {
			return fmt.Errorf("%w: unknown puzzle %q", ErrMalformedRecord, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: puzzle %q completed twice", ErrMalformedRecord, id)
		}
		seen[id] = true
	}
	return nil
}

// Decode parses a JSON record and validates it against order after normalisation.
func Decode(data []byte, order puzzle.Order) (Record, error) {
	if len(data) == 0 || string(data) == "null" {
		return Record{}, fmt.Errorf("%w: empty payload", ErrMalformedRecord)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	r = Normalize(r, order)
	if err := Validate(r, order); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Derive builds the per-puzzle view of r over the catalog. A completed
// puzzle is never reported locked.
func Derive(r Record, catalog *puzzle.Catalog) []PuzzleState {
	infos := catalog.Infos()
	states := make([]PuzzleState, len(infos))
	for i, info := range infos {
		completed := r.IsCompleted(info.ID)
		states[i] = PuzzleState{
			ID:            info.ID,
			Title:         info.Title,
			Question:      info.Question,
			Kind:          info.Kind,
			Index:         info.Index,
			IsCompleted:   completed,
			IsLocked:      !completed && r.IsLocked(info.Index),
			LockedMessage: info.LockedMessage,
			Choices:       info.Choices,
			Slots:         info.Slots,
		}
	}
	return states
}

func (r Record) clone() Record {
	out := r
	out.CompletedPuzzles = make([]string, len(r.CompletedPuzzles))
	copy(out.CompletedPuzzles, r.CompletedPuzzles)
	return out
}
