// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package puzzle

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer trims surrounding whitespace and lower-cases the answer.
// Input is NFC-normalised first so composed and decomposed forms compare equal.
func NormalizeAnswer(raw string) string {
	// a Caser is stateful, so one per call
	return cases.Lower(language.Und).String(strings.TrimSpace(norm.NFC.String(raw)))
}

// Matches reports whether given is the expected answer after normalisation.
func Matches(expected, given string) bool {
	return NormalizeAnswer(expected) == NormalizeAnswer(given)
}
