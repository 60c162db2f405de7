// Package deck turns validated card records into paired front and back images.
package deck

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/kpauljoseph/deckforge/internal/background"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

const DefaultFetchTimeout = 60 * time.Second

type FrontRenderer interface {
	Render(rec models.CardRecord, art image.Image) (image.Image, error)
}

type BackRenderer interface {
	Render(rec models.CardRecord) (image.Image, error)
}

// Deck holds the two output sequences. Fronts[i] and Backs[i] always belong
// to Records[i].
type Deck struct {
	Fronts  []image.Image
	Backs   []image.Image
	Records []models.CardRecord
}

func (d *Deck) Len() int {
	return len(d.Records)
}

// add is the only way a card enters the deck.
func (d *Deck) add(rec models.CardRecord, front, back image.Image) {
	d.Fronts = append(d.Fronts, front)
	d.Backs = append(d.Backs, back)
	d.Records = append(d.Records, rec)
}

type Assembler struct {
	provider background.Provider
	front    FrontRenderer
	back     BackRenderer
	timeout  time.Duration
	logger   *logger.Logger
}

func NewAssembler(provider background.Provider, front FrontRenderer, back BackRenderer, timeout time.Duration, logger *logger.Logger) *Assembler {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Assembler{
		provider: provider,
		front:    front,
		back:     back,
		timeout:  timeout,
		logger:   logger,
	}
}

// Build processes records in order. A record whose background or overlays
// fail is reported as a skip and leaves both sequences untouched. Only
// cancellation of ctx stops the run early.
func (a *Assembler) Build(ctx context.Context, records []models.CardRecord) (*Deck, []models.Skip, error) {
	deck := &Deck{}
	var skipped []models.Skip

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		a.logger.Info("Rendering card %d/%d: %s", i+1, len(records), rec.Name)

		front, back, skip := a.pair(ctx, rec)
		if skip != nil {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			a.logger.Warn("Skipping %s", skip)
			skipped = append(skipped, *skip)
			continue
		}

		deck.add(rec, front, back)
	}

	a.logger.Debug("Assembled %d of %d records", deck.Len(), len(records))
	return deck, skipped, nil
}

func (a *Assembler) pair(ctx context.Context, rec models.CardRecord) (image.Image, image.Image, *models.Skip) {
	art, err := a.fetch(ctx, rec)
	if err != nil {
		return nil, nil, &models.Skip{Row: rec.Row, Name: rec.Name, Reason: models.SkipNoBackground, Err: err}
	}

	front, err := a.front.Render(rec, art)
	if err != nil {
		return nil, nil, &models.Skip{Row: rec.Row, Name: rec.Name, Reason: models.SkipRenderFailed, Err: fmt.Errorf("front: %w", err)}
	}

	back, err := a.back.Render(rec)
	if err != nil {
		return nil, nil, &models.Skip{Row: rec.Row, Name: rec.Name, Reason: models.SkipRenderFailed, Err: fmt.Errorf("back: %w", err)}
	}

	return front, back, nil
}

func (a *Assembler) fetch(ctx context.Context, rec models.CardRecord) (image.Image, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	art, err := a.provider.Fetch(fetchCtx, rec)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, background.ErrNoBackground
	}
	a.logger.Debug("Background for %s ready in %s", rec, time.Since(start).Round(time.Millisecond))
	return art, nil
}
