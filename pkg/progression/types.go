// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression

// SubmitResult is the authority's verdict on one answer.
type SubmitResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	NextScene string `json:"nextScene,omitempty"`
}

// GameInfo describes the game as a whole.
type GameInfo struct {
	Name         string   `json:"name"`
	TotalPuzzles int      `json:"totalPuzzles"`
	PuzzleOrder  []string `json:"puzzleOrder"`
}
