package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
	"github.com/kpauljoseph/deckforge/pkg/utils"
)

// Front card layout, in card pixels of the 744x1040 design.
var (
	titlePanel = image.Rect(100, 30, 644, 110)
	statCircle = image.Rect(580, 700, 680, 800)
	lorePanel  = image.Rect(50, 850, 694, 980)
)

const (
	resistCaption = "Resistant:"
	resistX       = 50
	resistY       = 730
	iconTop       = resistY + 40
	iconSpacing   = 65
	iconShadow    = 5
	textPadding   = 40
)

type FrontOptions struct {
	Size models.PixelSize
	Fit  string
	// StatLabel is printed under the stat value, e.g. DEF or ATK.
	StatLabel string
	Icons     map[string]image.Image
}

// FrontRenderer draws the title, element, stat and lore overlay on card art.
type FrontRenderer struct {
	theme  *Theme
	opts   FrontOptions
	logger *logger.Logger
}

func NewFrontRenderer(theme *Theme, opts FrontOptions, logger *logger.Logger) *FrontRenderer {
	if opts.Icons == nil {
		opts.Icons = map[string]image.Image{}
	}
	return &FrontRenderer{
		theme:  theme,
		opts:   opts,
		logger: logger,
	}
}

func (r *FrontRenderer) Render(rec models.CardRecord, art image.Image) (image.Image, error) {
	if art == nil {
		return nil, fmt.Errorf("no art for %s", rec)
	}

	base := Fit(art, r.opts.Size, r.opts.Fit)
	if rec.Plain {
		r.logger.Debug("Plain card %s, skipping overlay", rec)
		return base, nil
	}

	dc := gg.NewContextForImage(base)
	scaleTo(dc, r.opts.Size)

	faces := r.theme.Faces()
	palette := r.theme.Palette()
	panel := panelStyle{
		Fill:         palette.PanelFill,
		Outline:      palette.PanelOutline,
		OutlineWidth: 5,
		Shadow:       palette.Shadow,
	}

	drawPanel(dc, titlePanel, panel)
	dc.SetFontFace(faces.Large)
	cx, cy := center(titlePanel)
	drawText(dc, rec.Name, cx, cy, float64(titlePanel.Dx()-textPadding), palette.Text)

	if rec.HasElements() {
		r.drawElements(dc, rec)
	}

	r.drawStat(dc, rec.Stat)

	drawPanel(dc, lorePanel, panel)
	dc.SetFontFace(faces.Small)
	cx, cy = center(lorePanel)
	drawText(dc, rec.Lore, cx, cy, float64(lorePanel.Dx()-textPadding), palette.Text)

	return dc.Image(), nil
}

func (r *FrontRenderer) drawElements(dc *gg.Context, rec models.CardRecord) {
	palette := r.theme.Palette()
	dc.SetFontFace(r.theme.Faces().Medium)

	// Layered black copies under the white caption.
	dc.SetColor(color.Black)
	for i := 0; i < 3; i++ {
		dc.DrawStringAnchored(resistCaption, float64(resistX+shadowOffset-i), float64(resistY+shadowOffset-i), 0, 0.5)
	}
	dc.SetColor(palette.Caption)
	dc.DrawStringAnchored(resistCaption, resistX, resistY, 0, 0.5)

	x := resistX
	for _, element := range rec.Elements {
		icon, ok := r.opts.Icons[utils.Slug(element)]
		if !ok {
			r.logger.Debug("No icon for element %q on %s", element, rec)
			continue
		}
		dc.SetColor(palette.Shadow)
		dc.DrawRectangle(float64(x+iconShadow), float64(iconTop+iconShadow), IconSize, IconSize)
		dc.Fill()
		dc.DrawImage(icon, x, iconTop)
		x += iconSpacing
	}
}

func (r *FrontRenderer) drawStat(dc *gg.Context, stat string) {
	faces := r.theme.Faces()
	palette := r.theme.Palette()

	cx, cy := center(statCircle)
	dc.SetColor(palette.PanelFill)
	dc.DrawEllipse(cx, cy, float64(statCircle.Dx())/2, float64(statCircle.Dy())/2)
	dc.Fill()

	dc.SetColor(palette.Text)
	dc.SetFontFace(faces.Value)
	dc.DrawStringAnchored(stat, cx, cy-10, 0.5, 0.5)
	dc.SetFontFace(faces.Label)
	dc.DrawStringAnchored(r.opts.StatLabel, cx, cy+25, 0.5, 0.5)
}

// scaleTo maps the 744x1040 design onto cards of another pixel size.
func scaleTo(dc *gg.Context, size models.PixelSize) {
	sx := float64(size.Width) / float64(utils.DEFAULT_CARD_PIXEL_WIDTH)
	sy := float64(size.Height) / float64(utils.DEFAULT_CARD_PIXEL_HEIGHT)
	if sx != 1 || sy != 1 {
		dc.Scale(sx, sy)
	}
}
