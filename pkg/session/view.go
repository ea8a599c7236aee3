// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import "github.com/AccelByte/extend-escape-room/pkg/puzzle"

// Phase is where the controller is in one puzzle's lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseDisplaying
	PhaseAwaitingAnswer
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseDisplaying:
		return "displaying"
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome qualifies a resolved view. A wrong answer sets OutcomeFailure
// without leaving the answering phase.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeLocked
	OutcomeAlreadySolved
	OutcomeNotFound
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeLocked:
		return "locked"
	case OutcomeAlreadySolved:
		return "already-solved"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// View is everything a presenter needs to draw the puzzle panel.
type View struct {
	Phase      Phase
	Outcome    Outcome
	Kind       puzzle.Kind
	PuzzleID   string
	ObjectName string
	Title      string
	Question   string
	Choices    []string
	Slots      int

	// Message is the headline text: success, locked or error explanation.
	Message string
	// Feedback collects wrong-answer messages, oldest first.
	Feedback []string

	CanSubmit  bool
	CanProceed bool
	NextScene  string
}

func (v View) clone() View {
	out := v
	if v.Choices != nil {
		out.Choices = append([]string(nil), v.Choices...)
	}
	if v.Feedback != nil {
		out.Feedback = append([]string(nil), v.Feedback...)
	}
	return out
}

// Presenter draws views and transient notifications. It is the only
// presentation seam of the controller.
type Presenter interface {
	Render(v View)
	Notify(message string)
}
