// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package puzzle

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the display kind of a puzzle.
type Kind int

const (
	// KindUnknown is any tag this client does not know how to present.
	KindUnknown Kind = iota
	// KindPlainAnswer takes a free-text answer through the shared input.
	KindPlainAnswer
	// KindDragArrange submits an arrangement of slots.
	KindDragArrange
	// KindChoiceLock submits one of a fixed set of choices.
	KindChoiceLock
	// KindCodeEntry submits a fixed-length code.
	KindCodeEntry
	// KindClueDisplay only shows text and completes itself when displayed.
	KindClueDisplay
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindPlainAnswer: "plain-answer",
	KindDragArrange: "drag-arrange",
	KindChoiceLock:  "choice-lock",
	KindCodeEntry:   "code-entry",
	KindClueDisplay: "clue-display",
}

// legacy tags still served by older authorities
var kindAliases = map[string]Kind{
	"plain-answer": KindPlainAnswer,
	"plain":        KindPlainAnswer,
	"text":         KindPlainAnswer,
	"drag-arrange": KindDragArrange,
	"drag-drop":    KindDragArrange,
	"choice-lock":  KindChoiceLock,
	"cabinet-lock": KindChoiceLock,
	"code-entry":   KindCodeEntry,
	"mirror-code":  KindCodeEntry,
	"clue-display": KindClueDisplay,
	"clue":         KindClueDisplay,
	"storage-clue": KindClueDisplay,
	"paper-clue":   KindClueDisplay,
}

// ParseKind maps a type tag to a Kind. Unrecognised tags map to KindUnknown.
func ParseKind(tag string) Kind {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Structured reports whether the kind submits directly from its own widget
// instead of through the shared answer input.
func (k Kind) Structured() bool {
	switch k {
	case KindDragArrange, KindChoiceLock, KindCodeEntry:
		return true
	default:
		return false
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	return nil
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var tag string
	if err := value.Decode(&tag); err != nil {
		return err
	}
	*k = ParseKind(tag)
	return nil
}
