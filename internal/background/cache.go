package background

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

type CacheableProvider interface {
	Provider
	Keyer
}

// CachedProvider stores fetched art on disk so that reruns of the same table
// do not pay for the same generation twice.
type CachedProvider struct {
	next   CacheableProvider
	dir    string
	logger *logger.Logger
}

func NewCachedProvider(next CacheableProvider, dir string, logger *logger.Logger) (*CachedProvider, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &CachedProvider{
		next:   next,
		dir:    dir,
		logger: logger,
	}, nil
}

func (c *CachedProvider) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".png")
}

func (c *CachedProvider) Fetch(ctx context.Context, rec models.CardRecord) (image.Image, error) {
	key, err := c.next.CacheKey(rec)
	if err != nil {
		return nil, err
	}
	path := c.path(key)

	if img, err := imaging.Open(path); err == nil {
		c.logger.Debug("Cache hit for %s", rec)
		return img, nil
	} else if !os.IsNotExist(err) {
		c.logger.Warn("Ignoring unreadable cache entry %s: %v", path, err)
	}

	img, err := c.next.Fetch(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := c.store(path, img); err != nil {
		c.logger.Warn("Failed to cache background for %s: %v", rec, err)
	}
	return img, nil
}

func (c *CachedProvider) store(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
