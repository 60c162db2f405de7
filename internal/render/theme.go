package render

import (
	"image/color"

	"golang.org/x/image/font"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/pkg/logger"
)

// Face sizes in card pixels.
const (
	SizeLarge  = 40
	SizeMedium = 30
	SizeSmall  = 20
	SizeValue  = 40
	SizeLabel  = 20
)

type Faces struct {
	Large  font.Face
	Medium font.Face
	Small  font.Face
	Value  font.Face
	Label  font.Face
}

type Palette struct {
	Text         color.NRGBA
	Caption      color.NRGBA
	Shadow       color.NRGBA
	PanelFill    color.NRGBA
	PanelOutline color.NRGBA

	ModifierFill       color.NRGBA
	ModifierOutline    color.NRGBA
	DescriptionFill    color.NRGBA
	DescriptionOutline color.NRGBA
}

func DefaultPalette() Palette {
	return Palette{
		Text:         color.NRGBA{0, 0, 0, 255},
		Caption:      color.NRGBA{255, 255, 255, 255},
		Shadow:       color.NRGBA{0, 0, 0, 120},
		PanelFill:    color.NRGBA{255, 223, 186, 255},
		PanelOutline: color.NRGBA{151, 120, 45, 255},

		ModifierFill:       color.NRGBA{243, 239, 199, 255},
		ModifierOutline:    color.NRGBA{151, 120, 45, 255},
		DescriptionFill:    color.NRGBA{255, 254, 255, 255},
		DescriptionOutline: color.NRGBA{139, 138, 145, 255},
	}
}

// Theme holds the faces and colors shared by the renderers. It is built once
// and never changed afterwards. Faces keep internal buffers, so cards must be
// rendered one at a time.
type Theme struct {
	faces    Faces
	palette  Palette
	fontName string
}

func NewTheme(fonts config.Fonts, logger *logger.Logger) (*Theme, error) {
	parsed, name, err := LoadFont(fonts, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using font %s", name)

	return &Theme{
		faces: Faces{
			Large:  newFace(parsed, SizeLarge, logger),
			Medium: newFace(parsed, SizeMedium, logger),
			Small:  newFace(parsed, SizeSmall, logger),
			Value:  newFace(parsed, SizeValue, logger),
			Label:  newFace(parsed, SizeLabel, logger),
		},
		palette:  DefaultPalette(),
		fontName: name,
	}, nil
}

func (t *Theme) Faces() Faces {
	return t.faces
}

func (t *Theme) Palette() Palette {
	return t.palette
}

func (t *Theme) FontName() string {
	return t.fontName
}
