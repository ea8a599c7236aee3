// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package puzzle holds the static puzzle catalog and answer comparison.
package puzzle

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/AccelByte/extend-escape-room/pkg/common"
	"gopkg.in/yaml.v3"
)

// DefaultLockedMessage is shown for a locked puzzle that has no message of its own.
const DefaultLockedMessage = "This puzzle can't be opened yet. Look for other clues first."

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Definition is one static catalog entry.
type Definition struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	Question       string   `yaml:"question"`
	Kind           Kind     `yaml:"type"`
	Answer         string   `yaml:"answer,omitempty"`
	SuccessMessage string   `yaml:"successMessage,omitempty"`
	NextScene      string   `yaml:"nextScene,omitempty"`
	LockedMessage  string   `yaml:"lockedMessage,omitempty"`
	Choices        []string `yaml:"choices,omitempty"`
	Slots          int      `yaml:"slots,omitempty"`
}

// Info is the answer-free view of a definition that may leave the authority.
type Info struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Question      string   `json:"question"`
	Kind          Kind     `json:"type"`
	Index         int      `json:"index"`
	LockedMessage string   `json:"lockedMessage,omitempty"`
	Choices       []string `json:"choices,omitempty"`
	Slots         int      `json:"slots,omitempty"`
}

// Order is the fixed total ordering of puzzle ids.
type Order []string

// IndexOf returns the position of id, or -1.
func (o Order) IndexOf(id string) int {
	for i, v := range o {
		if v == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is part of the order.
func (o Order) Contains(id string) bool {
	return o.IndexOf(id) >= 0
}

// Catalog is the read-only puzzle catalog. Entry order is the unlock order.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

type catalogFile struct {
	Puzzles []Definition `yaml:"puzzles"`
}

// NewCatalog validates defs and builds a catalog preserving their order.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]Definition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)

	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog has no puzzles")
	}
	for i, d := range c.defs {
		if d.ID == "" {
			return nil, fmt.Errorf("puzzle at position %d has empty ID", i)
		}
		if _, exists := c.index[d.ID]; exists {
			return nil, fmt.Errorf("duplicate puzzle ID: %s", d.ID)
		}
		if d.Kind == KindUnknown {
			return nil, fmt.Errorf("puzzle %s has unknown type", d.ID)
		}
		if d.Kind != KindClueDisplay && d.Answer == "" {
			return nil, fmt.Errorf("puzzle %s has empty answer", d.ID)
		}
		c.index[d.ID] = i
	}
	return c, nil
}

// ParseCatalog parses a YAML catalog after environment variable expansion.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal([]byte(common.ExpandEnvVars(string(data))), &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}
	c, err := NewCatalog(f.Puzzles)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// LoadCatalog reads the catalog at path, or the built-in catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id string) (Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// IndexOf returns the order index of id, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

func (c *Catalog) Order() Order {
	order := make(Order, len(c.defs))
	for i, d := range c.defs {
		order[i] = d.ID
	}
	return order
}

// All returns the definitions in unlock order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Info returns the answer-free view of one puzzle.
func (c *Catalog) Info(id string) (Info, bool) {
	d, ok := c.Get(id)
	if !ok {
		return Info{}, false
	}
	return d.info(c.index[id]), true
}

// Infos returns every puzzle's answer-free view in unlock order.
func (c *Catalog) Infos() []Info {
	out := make([]Info, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.info(i)
	}
	return out
}

func (d Definition) info(index int) Info {
	locked := d.LockedMessage
	if locked == "" {
		locked = DefaultLockedMessage
	}
	return Info{
		ID:            d.ID,
		Title:         d.Title,
		Question:      d.Question,
		Kind:          d.Kind,
		Index:         index,
		LockedMessage: locked,
		Choices:       d.Choices,
		Slots:         d.Slots,
	}
}
