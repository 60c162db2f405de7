// Package background supplies the art drawn behind each card front.
package background

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/pkg/models"
)

var (
	ErrNoBackground  = errors.New("no background available")
	ErrNotConfigured = errors.New("background provider not configured")
)

// Provider returns the background art for a card. Any error means the card
// has no background and must be left out of the deck.
type Provider interface {
	Fetch(ctx context.Context, rec models.CardRecord) (image.Image, error)
}

// Keyer is implemented by providers whose results can be cached. Equal keys
// must mean equal requests.
type Keyer interface {
	CacheKey(rec models.CardRecord) (string, error)
}

func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
