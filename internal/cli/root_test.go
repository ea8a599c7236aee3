// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AccelByte/extend-escape-room/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useLocalAuthority points every command at a sqlite file in a temp dir and
// the in-process authority, so state survives between command runs.
func useLocalAuthority(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "escape-room.db"))
	t.Setenv("HOST_BRIDGE_ENABLED", "true")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommandWithOptions(&RootOptions{LoadConfig: config.Parse})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, v interface{}, args ...string) {
	t.Helper()
	out, err := run(t, "", append(args, "--format", "json")...)
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"play", "status", "reset", "unlock-all", "whoami", "new-player", "serve"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRootCommand_Flags(t *testing.T) {
	root := NewRootCommand()

	verbose := root.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := root.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	useLocalAuthority(t)

	_, err := run(t, "", "status", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	useLocalAuthority(t)
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := run(t, "", "whoami")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "bad flag"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	err := WrapExitError(ExitFailure, "failed", errors.New("cause"))
	assert.Equal(t, "failed: cause", err.Error())
}

func TestStatus_FreshPlayer(t *testing.T) {
	useLocalAuthority(t)

	out, err := run(t, "", "status")
	require.NoError(t, err)

	assert.Contains(t, out, "(host mode): 0/5 solved")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Regexp(t, `^1\s+chair-puzzle\s+Scattered Chairs\s+open$`, lines[2])
	assert.Regexp(t, `^5\s+mirror-puzzle\s+Foggy Mirror\s+locked$`, lines[6])
}

func TestStatus_JSON(t *testing.T) {
	useLocalAuthority(t)

	var report StatusReport
	runJSON(t, &report, "status")

	assert.Equal(t, "host", report.Mode)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 0, report.Solved)
	require.Len(t, report.Puzzles, 5)
	assert.Equal(t, "drag-arrange", report.Puzzles[0].Kind)
	assert.Equal(t, "open", report.Puzzles[0].Status)
	assert.Equal(t, "locked", report.Puzzles[1].Status)
}

func TestStatus_AfterIdentityOnlyRun(t *testing.T) {
	useLocalAuthority(t)

	_, err := run(t, "", "whoami")
	require.NoError(t, err)

	out, err := run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "0/5 solved")
}

func TestWhoAmI_StableAcrossRuns(t *testing.T) {
	useLocalAuthority(t)

	first, err := run(t, "", "whoami")
	require.NoError(t, err)
	second, err := run(t, "", "whoami")
	require.NoError(t, err)

	assert.NotEmpty(t, strings.TrimSpace(first))
	assert.Equal(t, first, second)
}

func TestNewPlayer(t *testing.T) {
	useLocalAuthority(t)

	var before Identity
	runJSON(t, &before, "whoami")

	var created Identity
	runJSON(t, &created, "new-player")
	assert.NotEqual(t, before.PlayerID, created.PlayerID)
	assert.True(t, created.Fresh)

	var after Identity
	runJSON(t, &after, "whoami")
	assert.Equal(t, created.PlayerID, after.PlayerID)
}

func TestUnlockAllAndReset(t *testing.T) {
	useLocalAuthority(t)

	out, err := run(t, "", "unlock-all")
	require.NoError(t, err)
	assert.Equal(t, "* Every puzzle is unlocked.\n", out)

	var report StatusReport
	runJSON(t, &report, "status")
	assert.Equal(t, 5, report.Solved)

	runJSON(t, &report, "reset")
	assert.Equal(t, 0, report.Solved)
	assert.Equal(t, "open", report.Puzzles[0].Status)
}
