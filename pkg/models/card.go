package models

import (
	"fmt"
	"strings"
)

type PixelSize struct {
	Width  int
	Height int
}

// CardRecord is one validated row of the input table. All coercion of
// missing cells has already happened by the time a CardRecord exists.
type CardRecord struct {
	Row          int      `json:"row"`
	Name         string   `json:"name"`
	Elements     []string `json:"elements"`
	Lore         string   `json:"lore"`
	Stat         string   `json:"stat"`
	Modifier     string   `json:"modifier"`
	ModifierDesc string   `json:"modifier_description"`
	// Plain cards keep their art without any overlay.
	Plain bool `json:"plain"`
}

func (c CardRecord) HasElements() bool {
	return len(c.Elements) > 0
}

func (c CardRecord) String() string {
	return fmt.Sprintf("row %d (%s)", c.Row, c.Name)
}

type SkipReason string

const (
	SkipMissingName   SkipReason = "missing name"
	SkipMalformedStat SkipReason = "malformed stat value"
	SkipNoBackground  SkipReason = "no background"
	SkipRenderFailed  SkipReason = "render failed"
)

// Skip records a row that did not become a card.
type Skip struct {
	Row    int
	Name   string
	Reason SkipReason
	Err    error
}

func (s Skip) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", s.Row)
	if s.Name != "" {
		fmt.Fprintf(&b, " (%s)", s.Name)
	}
	fmt.Fprintf(&b, ": %s", s.Reason)
	if s.Err != nil {
		fmt.Fprintf(&b, ": %v", s.Err)
	}
	return b.String()
}
