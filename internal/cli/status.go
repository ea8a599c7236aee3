// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/AccelByte/extend-escape-room/internal/app"
	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/spf13/cobra"
)

// PuzzleStatus is one row of the status output.
type PuzzleStatus struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Kind   string `json:"type"`
	Status string `json:"status"`
}

// StatusReport is the status output.
type StatusReport struct {
	PlayerID string         `json:"playerId"`
	Mode     string         `json:"mode"`
	Solved   int            `json:"solved"`
	Total    int            `json:"total"`
	Puzzles  []PuzzleStatus `json:"puzzles"`
}

func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show the player's progress",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return runStatus(ctx, a, newFormatter(opts, cmd.OutOrStdout()))
			})
		},
	}
}

func runStatus(ctx context.Context, a *app.App, f *Formatter) error {
	states, err := a.Store().PuzzleStates(ctx)
	if err != nil {
		return f.Failure(ExitFailure, "failed to fetch progress", err)
	}
	report := buildReport(a, states)
	return f.Success(report, func(w io.Writer) {
		writeReport(w, report)
	})
}

func buildReport(a *app.App, states []progression.PuzzleState) StatusReport {
	report := StatusReport{
		PlayerID: a.PlayerID(),
		Mode:     string(a.Mode()),
		Total:    len(states),
		Puzzles:  make([]PuzzleStatus, 0, len(states)),
	}
	for _, st := range states {
		if st.IsCompleted {
			report.Solved++
		}
		report.Puzzles = append(report.Puzzles, PuzzleStatus{
			Index:  st.Index,
			ID:     st.ID,
			Title:  st.Title,
			Kind:   st.Kind.String(),
			Status: stateLabel(st),
		})
	}
	return report
}

func stateLabel(st progression.PuzzleState) string {
	switch {
	case st.IsCompleted:
		return "solved"
	case st.IsLocked:
		return "locked"
	default:
		return "open"
	}
}

func writeReport(w io.Writer, r StatusReport) {
	fmt.Fprintf(w, "Player %s (%s mode): %d/%d solved\n", r.PlayerID, r.Mode, r.Solved, r.Total)
	writePuzzles(w, r.Puzzles)
}

func writePuzzles(w io.Writer, puzzles []PuzzleStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tSTATUS")
	for _, p := range puzzles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.Index+1, p.ID, p.Title, p.Status)
	}
	_ = tw.Flush()
}
