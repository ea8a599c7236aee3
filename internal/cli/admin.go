// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/AccelByte/extend-escape-room/internal/app"
	"github.com/AccelByte/extend-escape-room/pkg/session"
	"github.com/spf13/cobra"
)

// Identity is the whoami and new-player output.
type Identity struct {
	PlayerID string `json:"playerId"`
	Mode     string `json:"mode"`
	Fresh    bool   `json:"fresh"`
}

func NewResetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Clear the player's progress",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return runAdmin(ctx, a, newFormatter(opts, cmd.OutOrStdout()), "failed to reset progress",
					(*session.Controller).ResetProgress)
			})
		},
	}
}

func NewUnlockAllCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "unlock-all",
		Short:         "Mark every puzzle solved",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return runAdmin(ctx, a, newFormatter(opts, cmd.OutOrStdout()), "failed to unlock puzzles",
					(*session.Controller).UnlockAll)
			})
		},
	}
}

// runAdmin runs op through a session so the same guard and notices apply
// as in play. JSON output reports the resulting progress.
func runAdmin(ctx context.Context, a *app.App, f *Formatter, failure string, op func(*session.Controller, context.Context) error) error {
	var presenter session.Presenter = quietPresenter{}
	if !f.JSON() {
		presenter = newTextPresenter(f.Writer)
	}
	if err := op(a.NewSession(presenter), ctx); err != nil {
		return f.Failure(ExitFailure, failure, err)
	}
	if !f.JSON() {
		return nil
	}
	return runStatus(ctx, a, f)
}

func NewWhoAmICommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Print the player identity",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return writeIdentity(newFormatter(opts, cmd.OutOrStdout()), a, a.PlayerID())
			})
		},
	}
}

func NewNewPlayerCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "new-player",
		Short:         "Replace the player identity and start over",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				f := newFormatter(opts, cmd.OutOrStdout())
				id, err := a.NewSession(quietPresenter{}).ResetPlayer(ctx)
				if err != nil {
					return f.Failure(ExitFailure, "failed to reset player", err)
				}
				return writeIdentity(f, a, id)
			})
		},
	}
}

func writeIdentity(f *Formatter, a *app.App, id string) error {
	out := Identity{PlayerID: id, Mode: string(a.Mode()), Fresh: a.Identity().IsFresh()}
	return f.Success(out, func(w io.Writer) {
		fmt.Fprintln(w, out.PlayerID)
	})
}
