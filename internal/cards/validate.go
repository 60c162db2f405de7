package cards

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kpauljoseph/deckforge/pkg/models"
)

// Raw is a table row before coercion.
type Raw struct {
	Row          int
	Name         string
	Elements     string
	Lore         string
	Stat         string
	Modifier     string
	ModifierDesc string
}

const (
	ElementNone    = "None"
	ElementRainbow = "Rainbow"
)

// Names containing one of these glyphs are kept as plain art cards.
var plainMarkers = []string{"⚫", "🌈"}

// Cell values a spreadsheet export uses for "no value".
var missingValues = map[string]bool{
	"":     true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"<na>": true,
	"null": true,
	"none": true,
	"-nan": true,
}

// Clean trims s and maps missing-value markers to "".
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if missingValues[strings.ToLower(s)] {
		return ""
	}
	return s
}

// Validate coerces a raw row into a record, or explains why it cannot be one.
func Validate(raw Raw) (models.CardRecord, *models.Skip) {
	name := Clean(raw.Name)
	if name == "" {
		return models.CardRecord{}, &models.Skip{Row: raw.Row, Reason: models.SkipMissingName}
	}

	stat, err := NormalizeStat(raw.Stat)
	if err != nil {
		return models.CardRecord{}, &models.Skip{Row: raw.Row, Name: name, Reason: models.SkipMalformedStat, Err: err}
	}

	return models.CardRecord{
		Row:          raw.Row,
		Name:         name,
		Elements:     ParseElements(Clean(raw.Elements)),
		Lore:         Clean(raw.Lore),
		Stat:         stat,
		Modifier:     Clean(raw.Modifier),
		ModifierDesc: Clean(raw.ModifierDesc),
		Plain:        isPlain(name),
	}, nil
}

// ParseElements splits a comma separated resistance list. "None" anywhere
// means no elements; "Rainbow" stands for all of them.
func ParseElements(s string) []string {
	var elements []string
	rainbow := false
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.EqualFold(part, ElementNone):
			return nil
		case strings.EqualFold(part, ElementRainbow):
			rainbow = true
		default:
			elements = append(elements, part)
		}
	}
	if rainbow {
		return []string{ElementRainbow}
	}
	return elements
}

// NormalizeStat renders numeric stats without a trailing ".0" and keeps
// missing stats empty.
func NormalizeStat(s string) (string, error) {
	s = Clean(s)
	if s == "" {
		return "", nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("%q is not a number", s)
	}
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func isPlain(name string) bool {
	for _, marker := range plainMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
