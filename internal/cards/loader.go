package cards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

// Values used when a whole column is absent from the table.
const (
	DefaultLore         = "No Effect"
	DefaultStat         = "0"
	DefaultModifier     = "Unknown Modifier"
	DefaultModifierDesc = "No Description"
)

var ErrMissingColumn = errors.New("required column missing")

// Result holds the rows that became records and the rows that did not.
type Result struct {
	Rows    int
	Records []models.CardRecord
	Skipped []models.Skip
}

type Loader struct {
	columns config.Columns
	logger  *logger.Logger
}

func NewLoader(columns config.Columns, logger *logger.Logger) *Loader {
	return &Loader{
		columns: columns,
		logger:  logger,
	}
}

func (l *Loader) LoadFile(path string) (*Result, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	result, err := l.Load(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return result, nil
}

func (l *Loader) Load(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv has no header")
		}
		return nil, err
	}

	cols := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols[l.columns.Name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, l.columns.Name)
	}

	// get returns the cell, or fallback when the column is absent.
	get := func(row []string, name, fallback string) string {
		idx, ok := cols[name]
		if !ok {
			return fallback
		}
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	result := &Result{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		result.Rows++

		raw := Raw{
			Row:          result.Rows,
			Name:         get(row, l.columns.Name, ""),
			Elements:     get(row, l.columns.Elements, ""),
			Lore:         get(row, l.columns.Lore, DefaultLore),
			Stat:         get(row, l.columns.Stat, DefaultStat),
			Modifier:     get(row, l.columns.Modifier, DefaultModifier),
			ModifierDesc: get(row, l.columns.ModifierDescription, DefaultModifierDesc),
		}

		record, skip := Validate(raw)
		if skip != nil {
			l.logger.Warn("Skipping %s", skip)
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		l.logger.Trace("Read %s: %+v", record, record)
		result.Records = append(result.Records, record)
	}

	l.logger.Debug("Read %d rows: %d cards, %d skipped", result.Rows, len(result.Records), len(result.Skipped))
	return result, nil
}
