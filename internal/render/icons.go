package render

import (
	"context"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/internal/scanner"
	"github.com/kpauljoseph/deckforge/pkg/logger"
)

const IconSize = 60

// LoadIcons reads the element icons in dir, keyed by slug ("fire.png" -> "fire")
// and scaled to IconSize. A missing or empty directory yields no icons.
func LoadIcons(ctx context.Context, dir string, dirScanner *scanner.DirectoryScanner, logger *logger.Logger) (map[string]image.Image, error) {
	icons := make(map[string]image.Image)
	if dir == "" {
		return icons, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Info("Icon directory %s not found, element icons will be left out", dir)
		return icons, nil
	}

	index, err := dirScanner.Index(ctx, dir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Info("No element icons loaded: %v", err)
		return icons, nil
	}

	for key, file := range index {
		img, err := imaging.Open(file.AbsolutePath)
		if err != nil {
			logger.Warn("Skipping icon %s: %v", file.RelativePath, err)
			continue
		}
		icons[key] = imaging.Resize(img, IconSize, IconSize, imaging.Lanczos)
	}

	logger.Debug("Loaded %d element icons from %s", len(icons), dir)
	return icons, nil
}
