package background

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/internal/scanner"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
	"github.com/kpauljoseph/deckforge/pkg/utils"
)

// LocalProvider serves pre-made art from a directory, matching files to
// cards by the slug of the card name ("Ember Hall" -> ember-hall.png).
type LocalProvider struct {
	dir    string
	index  map[string]scanner.ImageFile
	logger *logger.Logger
}

func NewLocalProvider(ctx context.Context, dir string, dirScanner *scanner.DirectoryScanner, logger *logger.Logger) (*LocalProvider, error) {
	index, err := dirScanner.Index(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to index art directory: %w", err)
	}
	logger.Debug("Indexed %d art files in %s", len(index), dir)

	return &LocalProvider{
		dir:    dir,
		index:  index,
		logger: logger,
	}, nil
}

func (p *LocalProvider) Fetch(ctx context.Context, rec models.CardRecord) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := utils.Slug(rec.Name)
	file, ok := p.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: no art named %q in %s", ErrNoBackground, key, p.dir)
	}

	p.logger.Trace("Using %s for %s", file.RelativePath, rec)
	img, err := imaging.Open(file.AbsolutePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoBackground, err)
	}
	return img, nil
}
