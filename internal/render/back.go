package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
	"github.com/kpauljoseph/deckforge/pkg/utils"
)

var (
	modifierPanel    = image.Rect(100, 30, 644, 110)
	descriptionPanel = image.Rect(50, 450, 694, 650)
)

const (
	backOutlineWidth = 8
	qrSize           = 120
	qrTop            = 860
)

type BackOptions struct {
	Size models.PixelSize
	Fit  string
	// QR prints a code of the card name near the bottom edge.
	QR bool
}

// BackRenderer draws the modifier overlay on the shared backing image.
type BackRenderer struct {
	theme   *Theme
	backing *image.NRGBA
	opts    BackOptions
	logger  *logger.Logger
}

func NewBackRenderer(theme *Theme, backing image.Image, opts BackOptions, logger *logger.Logger) (*BackRenderer, error) {
	if backing == nil {
		return nil, fmt.Errorf("backing image is required")
	}
	return &BackRenderer{
		theme:   theme,
		backing: Fit(backing, opts.Size, opts.Fit),
		opts:    opts,
		logger:  logger,
	}, nil
}

func (r *BackRenderer) Render(rec models.CardRecord) (image.Image, error) {
	dc := gg.NewContextForImage(r.backing)
	scaleTo(dc, r.opts.Size)

	faces := r.theme.Faces()
	palette := r.theme.Palette()

	drawPanel(dc, modifierPanel, panelStyle{
		Fill:         palette.ModifierFill,
		Outline:      palette.ModifierOutline,
		OutlineWidth: backOutlineWidth,
	})
	dc.SetFontFace(faces.Large)
	cx, cy := center(modifierPanel)
	drawText(dc, rec.Modifier, cx, cy, float64(modifierPanel.Dx()-textPadding), palette.Text)

	drawPanel(dc, descriptionPanel, panelStyle{
		Fill:         palette.DescriptionFill,
		Outline:      palette.DescriptionOutline,
		OutlineWidth: backOutlineWidth,
	})
	dc.SetFontFace(faces.Medium)
	cx, cy = center(descriptionPanel)
	drawText(dc, rec.ModifierDesc, cx, cy, float64(descriptionPanel.Dx()-textPadding), palette.Text)

	if r.opts.QR {
		code, err := qrcode.New(rec.Name, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("failed to encode QR code for %s: %w", rec, err)
		}
		r.logger.Trace("Adding QR code to back of %s", rec)
		dc.DrawImage(code.Image(qrSize), (utils.DEFAULT_CARD_PIXEL_WIDTH-qrSize)/2, qrTop)
	}

	return dc.Image(), nil
}
