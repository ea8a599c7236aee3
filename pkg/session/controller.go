// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package session drives one player's interaction with the puzzles in the
// room: opening a puzzle, taking answers, and advancing scenes.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AccelByte/extend-escape-room/pkg/common"
	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/scene"
	"github.com/sirupsen/logrus"
)

const (
	alreadySolvedMessage = "You already solved this puzzle."
	wrongAnswerMessage   = "Wrong. Try again."
	notFoundMessage      = "There is no puzzle called %q here."
	unsupportedMessage   = "This puzzle (%s) can't be shown."
	errorMessage         = "Could not reach the game server: %v"
	unsavedMessage       = "Your answer was right, but progress could not be saved: %v"
)

// Store is the progression the controller reads and mutates.
type Store interface {
	PuzzleStates(ctx context.Context) ([]progression.PuzzleState, error)
	SubmitAnswer(ctx context.Context, puzzleID, answer string) (progression.SubmitResult, error)
	MarkCompleted(ctx context.Context, puzzleID string) ([]progression.PuzzleState, error)
	ResetAll(ctx context.Context) ([]progression.PuzzleState, error)
	UnlockAll(ctx context.Context) ([]progression.PuzzleState, error)
	SetPlayer(p progression.Player)
}

// Identity issues a new player id on demand.
type Identity interface {
	Reset(ctx context.Context) (string, error)
}

type Option func(*Controller)

// WithTimeout bounds every store call made by the controller.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithIdentity enables ResetPlayer.
func WithIdentity(id Identity) Option {
	return func(c *Controller) { c.identity = id }
}

// Controller is the puzzle session state machine. One call runs at a time;
// overlapping calls get ErrBusy. Views are rendered outside the lock.
type Controller struct {
	store     Store
	scenes    *scene.Registry
	presenter Presenter
	identity  Identity
	timeout   time.Duration

	mu      sync.Mutex
	busy    bool
	epoch   uint64
	view    View
	current progression.PuzzleState
}

func New(store Store, scenes *scene.Registry, presenter Presenter, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		scenes:    scenes,
		presenter: presenter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns a copy of the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.view.clone()
}

// Show opens a puzzle. The puzzle is looked up in the player's fetched
// states, so lock and completion flags come from the authority.
func (c *Controller) Show(ctx context.Context, puzzleID, objectName string) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.epoch++
	epoch := c.epoch
	c.current = progression.PuzzleState{}
	c.view = View{Phase: PhaseLoading, PuzzleID: puzzleID, ObjectName: objectName}
	v := c.view.clone()
	c.mu.Unlock()
	defer c.release()

	scope := common.NewScope(ctx, "session.Show")
	defer scope.Finish()
	scope.SetAttributes("puzzle.id", puzzleID)

	c.presenter.Render(v)

	callCtx, cancel := c.callContext(scope.Ctx)
	defer cancel()

	states, err := c.store.PuzzleStates(callCtx)
	if err != nil {
		scope.TraceError(err)
		c.fail(epoch, fmt.Sprintf(errorMessage, err))
		ShowsTotal.WithLabelValues(OutcomeError.String()).Inc()
		return err
	}

	st, ok := findState(states, puzzleID)
	if !ok {
		c.update(epoch, func(v *View) {
			v.Phase, v.Outcome = PhaseResolved, OutcomeNotFound
			v.Message = fmt.Sprintf(notFoundMessage, puzzleID)
		})
		ShowsTotal.WithLabelValues(OutcomeNotFound.String()).Inc()
		return fmt.Errorf("%w: %s", progression.ErrPuzzleNotFound, puzzleID)
	}

	open := func(v *View) {
		c.current = st
		v.Kind, v.Title, v.Question = st.Kind, st.Title, st.Question
		v.Choices, v.Slots = st.Choices, st.Slots
	}

	switch {
	case st.IsLocked:
		c.update(epoch, func(v *View) {
			open(v)
			v.Phase, v.Outcome = PhaseResolved, OutcomeLocked
			v.Message = st.LockedMessage
			if v.Message == "" {
				v.Message = puzzle.DefaultLockedMessage
			}
		})
		ShowsTotal.WithLabelValues(OutcomeLocked.String()).Inc()
		return nil
	case st.IsCompleted:
		c.update(epoch, func(v *View) {
			open(v)
			v.Phase, v.Outcome = PhaseResolved, OutcomeAlreadySolved
			v.Message = alreadySolvedMessage
		})
		ShowsTotal.WithLabelValues(OutcomeAlreadySolved.String()).Inc()
		return nil
	}

	switch st.Kind {
	case puzzle.KindPlainAnswer:
		c.update(epoch, func(v *View) {
			open(v)
			v.Phase, v.CanSubmit = PhaseAwaitingAnswer, true
		})
	case puzzle.KindDragArrange, puzzle.KindChoiceLock, puzzle.KindCodeEntry:
		c.update(epoch, func(v *View) {
			open(v)
			v.Phase, v.CanSubmit = PhaseDisplaying, true
		})
	case puzzle.KindClueDisplay:
		c.update(epoch, func(v *View) {
			open(v)
			v.Phase = PhaseDisplaying
		})
		if err := c.completeClue(callCtx, epoch, st); err != nil {
			scope.TraceError(err)
			ShowsTotal.WithLabelValues(OutcomeError.String()).Inc()
			return err
		}
	case puzzle.KindUnknown:
		fallthrough
	default:
		c.unsupported(epoch, st, open)
		ShowsTotal.WithLabelValues(OutcomeError.String()).Inc()
		return nil
	}

	ShowsTotal.WithLabelValues(OutcomeNone.String()).Inc()
	return nil
}

// CheckAnswer submits typed input for a plain-answer puzzle.
func (c *Controller) CheckAnswer(ctx context.Context, raw string) error {
	epoch, st, err := c.begin(func(v View, st progression.PuzzleState) error {
		if v.Phase != PhaseAwaitingAnswer || st.Kind != puzzle.KindPlainAnswer {
			return ErrNotAwaitingAnswer
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer c.release()

	return c.submit(ctx, epoch, st, puzzle.NormalizeAnswer(raw))
}

// Submit sends the answer built by a structured puzzle widget.
func (c *Controller) Submit(ctx context.Context, answer string) error {
	epoch, st, err := c.begin(func(v View, st progression.PuzzleState) error {
		if v.Phase != PhaseDisplaying || !st.Kind.Structured() {
			return ErrNotDisplaying
		}
		if st.Kind == puzzle.KindCodeEntry && strings.TrimSpace(answer) == "" {
			return ErrEmptyCode
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer c.release()

	if st.Kind == puzzle.KindCodeEntry {
		answer = strings.TrimSpace(answer)
	}
	return c.submit(ctx, epoch, st, answer)
}

// Proceed closes a solved puzzle and plays its next scene.
func (c *Controller) Proceed(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.view.CanProceed {
		c.mu.Unlock()
		return ErrNothingToProceed
	}
	tag := c.view.NextScene
	c.epoch++
	c.current = progression.PuzzleState{}
	c.view = View{Phase: PhaseIdle}
	v := c.view.clone()
	c.mu.Unlock()

	c.presenter.Render(v)
	if c.scenes == nil {
		return nil
	}
	if err := c.scenes.Dispatch(ctx, tag, c.presenter); err != nil {
		logrus.Warnf("scene failed: %v", err)
		return err
	}
	return nil
}

// Hide dismisses whatever is shown, errors included. A call still in flight
// finishes but no longer renders.
func (c *Controller) Hide() {
	c.mu.Lock()
	c.epoch++
	c.current = progression.PuzzleState{}
	c.view = View{Phase: PhaseIdle}
	v := c.view.clone()
	c.mu.Unlock()

	c.presenter.Render(v)
}

// ResetProgress clears the player's progression.
func (c *Controller) ResetProgress(ctx context.Context) error {
	return c.admin(ctx, "Progress reset.", c.store.ResetAll)
}

// UnlockAll marks every puzzle solved.
func (c *Controller) UnlockAll(ctx context.Context) error {
	return c.admin(ctx, "Every puzzle is unlocked.", c.store.UnlockAll)
}

// ResetPlayer replaces the player identity and starts over as a new player.
func (c *Controller) ResetPlayer(ctx context.Context) (string, error) {
	if c.identity == nil {
		return "", ErrNoIdentity
	}
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.busy = true
	c.mu.Unlock()
	defer c.release()

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	id, err := c.identity.Reset(callCtx)
	if err != nil {
		return "", fmt.Errorf("reset identity: %w", err)
	}
	c.store.SetPlayer(progression.Player{ID: id, Fresh: true})
	logrus.WithField("playerId", id).Info("player identity reset")

	c.Hide()
	return id, nil
}

func (c *Controller) admin(ctx context.Context, done string, call func(ctx context.Context) ([]progression.PuzzleState, error)) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.mu.Unlock()
	defer c.release()

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := call(callCtx); err != nil {
		return err
	}
	c.Hide()
	c.presenter.Notify(done)
	return nil
}

func (c *Controller) submit(ctx context.Context, epoch uint64, st progression.PuzzleState, answer string) error {
	scope := common.NewScope(ctx, "session.Submit")
	defer scope.Finish()
	scope.SetAttributes("puzzle.id", st.ID)
	scope.SetAttributes("puzzle.kind", st.Kind.String())

	callCtx, cancel := c.callContext(scope.Ctx)
	defer cancel()

	res, err := c.store.SubmitAnswer(callCtx, st.ID, answer)
	if err != nil {
		scope.TraceError(err)
		c.fail(epoch, fmt.Sprintf(errorMessage, err))
		SubmissionsTotal.WithLabelValues(st.Kind.String(), OutcomeError.String()).Inc()
		return err
	}

	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = wrongAnswerMessage
		}
		c.update(epoch, func(v *View) {
			v.Outcome = OutcomeFailure
			v.Feedback = append(v.Feedback, msg)
		})
		SubmissionsTotal.WithLabelValues(st.Kind.String(), OutcomeFailure.String()).Inc()
		scope.Log.WithField("puzzleId", st.ID).Debug("wrong answer")
		return nil
	}

	SubmissionsTotal.WithLabelValues(st.Kind.String(), OutcomeSuccess.String()).Inc()
	shown := c.update(epoch, func(v *View) {
		v.Phase, v.Outcome, v.CanSubmit = PhaseResolved, OutcomeSuccess, false
		v.Message = res.Message
	})
	if shown && res.Message != "" {
		c.presenter.Notify(res.Message)
	}

	if _, err := c.store.MarkCompleted(callCtx, st.ID); err != nil {
		scope.TraceError(err)
		c.fail(epoch, fmt.Sprintf(unsavedMessage, err))
		return err
	}
	CompletionsTotal.Inc()
	scope.Log.WithFields(logrus.Fields{"puzzleId": st.ID, "nextScene": res.NextScene}).Info("puzzle solved")

	c.update(epoch, func(v *View) {
		v.CanProceed, v.NextScene = true, res.NextScene
	})
	return nil
}

// completeClue records a clue as read. Clues have no answer to check.
func (c *Controller) completeClue(ctx context.Context, epoch uint64, st progression.PuzzleState) error {
	if _, err := c.store.MarkCompleted(ctx, st.ID); err != nil {
		c.fail(epoch, fmt.Sprintf(errorMessage, err))
		return err
	}
	CompletionsTotal.Inc()
	c.update(epoch, func(v *View) {
		v.CanProceed = true
	})
	return nil
}

func (c *Controller) unsupported(epoch uint64, st progression.PuzzleState, open func(v *View)) {
	logrus.WithFields(logrus.Fields{"puzzleId": st.ID, "kind": st.Kind}).Warn("puzzle kind has no presentation")
	c.update(epoch, func(v *View) {
		open(v)
		v.Phase, v.Outcome = PhaseResolved, OutcomeError
		v.Message = fmt.Sprintf(unsupportedMessage, st.Kind)
	})
}

// begin claims the controller for a call on the open puzzle.
func (c *Controller) begin(check func(v View, st progression.PuzzleState) error) (uint64, progression.PuzzleState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return 0, progression.PuzzleState{}, ErrBusy
	}
	if err := check(c.view, c.current); err != nil {
		return 0, progression.PuzzleState{}, err
	}
	c.busy = true
	return c.epoch, c.current, nil
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
}

// update applies fn and renders, unless the view was replaced since epoch.
func (c *Controller) update(epoch uint64, fn func(v *View)) bool {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return false
	}
	fn(&c.view)
	v := c.view.clone()
	c.mu.Unlock()

	c.presenter.Render(v)
	return true
}

func (c *Controller) fail(epoch uint64, message string) {
	c.update(epoch, func(v *View) {
		v.Phase, v.Outcome = PhaseResolved, OutcomeError
		v.CanSubmit, v.CanProceed = false, false
		v.Message = message
	})
}

func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func findState(states []progression.PuzzleState, id string) (progression.PuzzleState, bool) {
	for _, st := range states {
		if st.ID == id {
			return st, true
		}
	}
	return progression.PuzzleState{}, false
}

// IsBusy reports whether err is the in-flight guard rejecting a call.
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}
