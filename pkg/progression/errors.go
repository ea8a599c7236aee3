// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression

import "errors"

var (
	// ErrPuzzleNotFound indicates the puzzle id is not part of the player's puzzle list.
	ErrPuzzleNotFound = errors.New("puzzle not found")

	// ErrMalformedRecord indicates a progression record that breaks its invariants
	// or cannot be decoded.
	ErrMalformedRecord = errors.New("malformed progression record")
)

// ErrStaleFetch indicates progress kept changing while it was being fetched.
var ErrStaleFetch = errors.New("progress changed while fetching")
