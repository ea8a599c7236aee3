// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"net/http"
	"net/url"
)

// Operation describes one logical authority call independently of the
// channel that carries it.
type Operation struct {
	// Name identifies the operation in logs, spans and metrics.
	Name string

	HTTPMethod string
	// Path is appended to the network base URL.
	Path  string
	Query url.Values
	// Body is JSON-encoded for network calls.
	Body any

	// HostMethod is the host bridge method name. Empty means the host
	// channel has no equivalent.
	HostMethod string
	// BridgeArgs are the positional host method arguments, before the
	// callback token.
	BridgeArgs []any
}

// Operation names.
const (
	OpGetAllPuzzles      = "getAllPuzzles"
	OpGetPlayerPuzzles   = "getPlayerPuzzles"
	OpGetPuzzle          = "getPuzzle"
	OpSubmitPuzzleAnswer = "submitPuzzleAnswer"
	OpGetPuzzleStatus    = "getPuzzleStatus"
	OpGetProgress        = "getProgress"
	OpSaveProgress       = "saveProgress"
	OpCompletePuzzle     = "completePuzzle"
	OpResetProgress      = "resetProgress"
	OpUnlockAll          = "unlockAll"
	OpGetGameInfo        = "getGameInfo"
	OpGetPuzzleOrder     = "getPuzzleOrder"
)

// SubmitRequest is the body of an answer submission.
type SubmitRequest struct {
	PlayerID string `json:"playerId"`
	PuzzleID string `json:"puzzleId"`
	Answer   string `json:"answer"`
}

func GetAllPuzzles() Operation {
	return Operation{Name: OpGetAllPuzzles, HTTPMethod: http.MethodGet, Path: "/puzzle/all"}
}

func GetPlayerPuzzles(playerID string) Operation {
	return Operation{
		Name:       OpGetPlayerPuzzles,
		HTTPMethod: http.MethodGet,
		Path:       "/puzzle/player/" + url.PathEscape(playerID),
	}
}

func GetPuzzle(puzzleID string) Operation {
	return Operation{Name: OpGetPuzzle, HTTPMethod: http.MethodGet, Path: "/puzzle/" + url.PathEscape(puzzleID)}
}

func SubmitPuzzleAnswer(playerID, puzzleID, answer string) Operation {
	return Operation{
		Name:       OpSubmitPuzzleAnswer,
		HTTPMethod: http.MethodPost,
		Path:       "/puzzle/submit",
		Body:       SubmitRequest{PlayerID: playerID, PuzzleID: puzzleID, Answer: answer},
		HostMethod: OpSubmitPuzzleAnswer,
		BridgeArgs: []any{playerID, puzzleID, answer},
	}
}

func GetPuzzleStatus(playerID, puzzleID string) Operation {
	return Operation{
		Name:       OpGetPuzzleStatus,
		HTTPMethod: http.MethodGet,
		Path:       "/puzzle/status/" + url.PathEscape(playerID) + "/" + url.PathEscape(puzzleID),
		HostMethod: OpGetPuzzleStatus,
		BridgeArgs: []any{playerID, puzzleID},
	}
}

func GetProgress(playerID string) Operation {
	return Operation{
		Name:       OpGetProgress,
		HTTPMethod: http.MethodGet,
		Path:       "/game/progress/" + url.PathEscape(playerID),
		HostMethod: OpGetProgress,
		BridgeArgs: []any{playerID},
	}
}

// SaveProgress sends a whole progress record. progress is sent as the JSON
// body over the network and as one JSON-serialised argument to the host.
func SaveProgress(progress any) Operation {
	return Operation{
		Name:       OpSaveProgress,
		HTTPMethod: http.MethodPost,
		Path:       "/game/progress",
		Body:       progress,
		HostMethod: OpSaveProgress,
		BridgeArgs: []any{progress},
	}
}

func CompletePuzzle(playerID, puzzleID string) Operation {
	return Operation{
		Name:       OpCompletePuzzle,
		HTTPMethod: http.MethodPost,
		Path:       "/game/complete-puzzle",
		Query:      url.Values{"playerId": {playerID}, "puzzleId": {puzzleID}},
		HostMethod: OpCompletePuzzle,
		BridgeArgs: []any{playerID, puzzleID},
	}
}

func ResetProgress(playerID string) Operation {
	return Operation{
		Name:       OpResetProgress,
		HTTPMethod: http.MethodPost,
		Path:       "/game/reset/" + url.PathEscape(playerID),
		HostMethod: OpResetProgress,
		BridgeArgs: []any{playerID},
	}
}

func UnlockAll(playerID string) Operation {
	return Operation{
		Name:       OpUnlockAll,
		HTTPMethod: http.MethodPost,
		Path:       "/game/unlock-all/" + url.PathEscape(playerID),
		HostMethod: OpUnlockAll,
		BridgeArgs: []any{playerID},
	}
}

func GetGameInfo() Operation {
	return Operation{
		Name:       OpGetGameInfo,
		HTTPMethod: http.MethodGet,
		Path:       "/game/info",
		HostMethod: OpGetGameInfo,
	}
}

func GetPuzzleOrder() Operation {
	return Operation{Name: OpGetPuzzleOrder, HTTPMethod: http.MethodGet, Path: "/puzzle/order"}
}
