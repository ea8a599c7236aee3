// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AccelByte/extend-escape-room/internal/app"
	"github.com/AccelByte/extend-escape-room/pkg/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const playHelp = `Commands:
  look               list the puzzles in the room
  open <puzzle-id>   examine a puzzle
  answer <text>      answer the open puzzle
  next               continue after solving
  close              put the puzzle away
  status             show progress
  reset              clear progress
  unlock-all         mark every puzzle solved
  new-player         start over as a new player
  help               show this help
  quit               leave the room`

func NewPlayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "play",
		Short:         "Play the escape room interactively",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return runPlay(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

// userErrors are rejections the view does not show.
var userErrors = []error{
	session.ErrBusy,
	session.ErrNotAwaitingAnswer,
	session.ErrNotDisplaying,
	session.ErrEmptyCode,
	session.ErrNothingToProceed,
	session.ErrNoIdentity,
}

type repl struct {
	app  *app.App
	ctrl *session.Controller
	out  io.Writer
}

func runPlay(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	r := &repl{app: a, ctrl: a.NewSession(newTextPresenter(out)), out: out}
	fmt.Fprintf(out, "Welcome, player %s. Type 'help' for commands.\n", a.PlayerID())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)
		if quit := r.exec(ctx, strings.ToLower(verb), arg); quit {
			return nil
		}
	}
	return scanner.Err()
}

func (r *repl) exec(ctx context.Context, verb, arg string) bool {
	switch verb {
	case "":
	case "help", "?":
		fmt.Fprintln(r.out, playHelp)
	case "look", "ls":
		r.look(ctx)
	case "status":
		if err := runStatus(ctx, r.app, &Formatter{Format: "text", Writer: r.out}); err != nil {
			r.report(err)
		}
	case "open":
		if arg == "" {
			fmt.Fprintln(r.out, "! open what?")
			return false
		}
		r.shown(r.ctrl.Show(ctx, arg, arg))
	case "answer", "a":
		if r.ctrl.View().Phase == session.PhaseAwaitingAnswer {
			r.shown(r.ctrl.CheckAnswer(ctx, arg))
		} else {
			r.shown(r.ctrl.Submit(ctx, arg))
		}
	case "next":
		r.shown(r.ctrl.Proceed(ctx))
	case "close":
		r.ctrl.Hide()
	case "reset":
		r.report(r.ctrl.ResetProgress(ctx))
	case "unlock-all":
		r.report(r.ctrl.UnlockAll(ctx))
	case "new-player":
		id, err := r.ctrl.ResetPlayer(ctx)
		if err != nil {
			r.report(err)
			return false
		}
		fmt.Fprintf(r.out, "* You are now player %s.\n", id)
	case "quit", "exit":
		fmt.Fprintln(r.out, "Bye.")
		return true
	default:
		fmt.Fprintf(r.out, "! unknown command %q, type 'help'\n", verb)
	}
	return false
}

func (r *repl) look(ctx context.Context) {
	states, err := r.app.Store().PuzzleStates(ctx)
	if err != nil {
		r.report(err)
		return
	}
	writePuzzles(r.out, buildReport(r.app, states).Puzzles)
}

// shown reports err unless the view already explains it.
func (r *repl) shown(err error) {
	if err == nil {
		return
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			r.report(err)
			return
		}
	}
	logrus.Debugf("play command failed: %v", err)
}

func (r *repl) report(err error) {
	if err != nil {
		fmt.Fprintf(r.out, "! %v\n", err)
	}
}
