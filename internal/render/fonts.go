package render

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/pkg/logger"
)

const builtinFontName = "Go Regular (built-in)"

var ErrNoFont = errors.New("no usable font")

// LoadFont walks the configured chain: primary file, fallback file, then the
// embedded Go Regular font when built-ins are allowed.
func LoadFont(fonts config.Fonts, logger *logger.Logger) (*opentype.Font, string, error) {
	for _, path := range []string{fonts.Primary, fonts.Fallback} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Debug("Font %s unavailable: %v", path, err)
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			logger.Warn("Font %s could not be parsed: %v", path, err)
			continue
		}
		return parsed, path, nil
	}

	if !fonts.AllowBuiltin {
		return nil, "", fmt.Errorf("%w: tried %q and %q", ErrNoFont, fonts.Primary, fonts.Fallback)
	}

	logger.Info("Font not found, using %s", builtinFontName)
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, "", fmt.Errorf("parse font: %w", err)
	}
	return parsed, builtinFontName, nil
}

// newFace falls back to the 7x13 bitmap face if the outline face cannot be built.
func newFace(f *opentype.Font, size float64, logger *logger.Logger) font.Face {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		logger.Warn("Failed to create %.0fpx font face, using bitmap font: %v", size, err)
		return basicfont.Face7x13
	}
	return face
}
