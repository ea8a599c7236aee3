// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package authority

import (
	"errors"
	"net/http"

	"github.com/AccelByte/extend-escape-room/pkg/progression"
)

var (
	// ErrRecordNotFound indicates the player has no progression record yet.
	ErrRecordNotFound = errors.New("no progression record for player")

	// ErrPuzzleLocked indicates an answer or completion for a puzzle past the cursor.
	ErrPuzzleLocked = errors.New("puzzle is locked")

	// ErrInvalidRequest indicates missing or malformed request parameters.
	ErrInvalidRequest = errors.New("invalid request")
)

// StatusFor maps an authority error to the HTTP status reported for it.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, progression.ErrPuzzleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPuzzleLocked):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, progression.ErrMalformedRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the structured error payload sent over both channels.
type ErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorBody(err error) ErrorBody {
	status := StatusFor(err)
	return ErrorBody{Status: status, Error: http.StatusText(status), Message: err.Error()}
}
