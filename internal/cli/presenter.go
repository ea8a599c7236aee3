// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/AccelByte/extend-escape-room/pkg/puzzle"
	"github.com/AccelByte/extend-escape-room/pkg/session"
)

// textPresenter draws session views as lines of text. Only what changed
// since the previous view is written.
type textPresenter struct {
	mu   sync.Mutex
	out  io.Writer
	last session.View
}

func newTextPresenter(out io.Writer) *textPresenter {
	return &textPresenter{out: out}
}

func (p *textPresenter) Render(v session.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.last
	p.last = v

	redraw := v.PuzzleID != prev.PuzzleID || v.Phase != prev.Phase ||
		(v.Phase == session.PhaseResolved && v.Outcome != prev.Outcome)
	if redraw {
		p.draw(v)
	}
	if len(v.Feedback) > len(prev.Feedback) {
		for _, msg := range v.Feedback[len(prev.Feedback):] {
			fmt.Fprintf(p.out, "  x %s\n", msg)
		}
	}
	if v.CanProceed && !prev.CanProceed {
		fmt.Fprintln(p.out, "  (type 'next' to continue)")
	}
}

func (p *textPresenter) draw(v session.View) {
	switch v.Phase {
	case session.PhaseDisplaying, session.PhaseAwaitingAnswer:
		fmt.Fprintf(p.out, "== %s ==\n", v.Title)
		if v.Question != "" {
			fmt.Fprintln(p.out, v.Question)
		}
		if len(v.Choices) > 0 {
			fmt.Fprintf(p.out, "Choices: %s\n", strings.Join(v.Choices, ", "))
		}
		if v.Slots > 0 {
			fmt.Fprintf(p.out, "Slots: %d\n", v.Slots)
		}
		if v.CanSubmit {
			fmt.Fprintf(p.out, "  (answer with 'answer <%s>')\n", answerHint(v.Kind))
		}
	case session.PhaseResolved:
		switch v.Outcome {
		case session.OutcomeSuccess:
			fmt.Fprintln(p.out, "Solved!")
		case session.OutcomeLocked:
			fmt.Fprintf(p.out, "[locked] %s\n", v.Message)
		case session.OutcomeAlreadySolved:
			fmt.Fprintf(p.out, "[solved] %s\n", v.Message)
		case session.OutcomeNotFound:
			fmt.Fprintf(p.out, "[not found] %s\n", v.Message)
		case session.OutcomeError:
			fmt.Fprintf(p.out, "[error] %s\n", v.Message)
		}
	}
}

func (p *textPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "* %s\n", message)
}

// Reveal makes scenes that uncover objects visible in the terminal.
func (p *textPresenter) Reveal(object string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "* You found: %s\n", object)
}

func answerHint(k puzzle.Kind) string {
	switch k {
	case puzzle.KindDragArrange:
		return "arrangement"
	case puzzle.KindChoiceLock:
		return "choice"
	case puzzle.KindCodeEntry:
		return "code"
	default:
		return "text"
	}
}

// quietPresenter drops everything.
type quietPresenter struct{}

func (quietPresenter) Render(session.View) {}
func (quietPresenter) Notify(string) {}
