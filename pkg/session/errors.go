// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import "errors"

var (
	// ErrBusy is returned while another call is in flight.
	ErrBusy = errors.New("session busy")

	// ErrNotAwaitingAnswer is returned by CheckAnswer outside a plain-answer prompt.
	ErrNotAwaitingAnswer = errors.New("no puzzle is waiting for a typed answer")

	// ErrNotDisplaying is returned by Submit when no structured puzzle is open.
	ErrNotDisplaying = errors.New("no structured puzzle is open")

	// ErrEmptyCode is returned when a code-entry puzzle is submitted blank.
	ErrEmptyCode = errors.New("code must not be empty")

	// ErrNothingToProceed is returned by Proceed before a puzzle is solved.
	ErrNothingToProceed = errors.New("nothing to proceed to")

	// ErrNoIdentity is returned by ResetPlayer when no identity provider is wired.
	ErrNoIdentity = errors.New("no identity provider")
)
