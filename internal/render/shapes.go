package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	panelRadius  = 50
	shadowOffset = 4
)

type panelStyle struct {
	Fill         color.Color
	Outline      color.Color
	OutlineWidth float64
	// Shadow is drawn offset by shadowOffset when set.
	Shadow color.Color
}

// drawPanel draws a rounded rectangle over r. The outline is kept inside r.
func drawPanel(dc *gg.Context, r image.Rectangle, style panelStyle) {
	x, y := float64(r.Min.X), float64(r.Min.Y)
	w, h := float64(r.Dx()), float64(r.Dy())
	radius := math.Min(panelRadius, math.Min(w, h)/2)

	if style.Shadow != nil {
		dc.SetColor(style.Shadow)
		dc.DrawRoundedRectangle(x+shadowOffset, y+shadowOffset, w, h, radius)
		dc.Fill()
	}

	dc.SetColor(style.Fill)
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Fill()

	if style.Outline != nil && style.OutlineWidth > 0 {
		inset := style.OutlineWidth / 2
		dc.SetColor(style.Outline)
		dc.SetLineWidth(style.OutlineWidth)
		dc.DrawRoundedRectangle(x+inset, y+inset, w-style.OutlineWidth, h-style.OutlineWidth, math.Max(radius-inset, 0))
		dc.Stroke()
	}
}

// drawText centers s on (cx, cy). Text that does not fit in maxWidth is
// wrapped over several centered lines.
func drawText(dc *gg.Context, s string, cx, cy, maxWidth float64, c color.Color) {
	if s == "" {
		return
	}
	dc.SetColor(c)
	if w, _ := dc.MeasureString(s); w <= maxWidth {
		dc.DrawStringAnchored(s, cx, cy, 0.5, 0.5)
		return
	}
	dc.DrawStringWrapped(s, cx, cy, 0.5, 0.5, maxWidth, 1.2, gg.AlignCenter)
}

func center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2
}
