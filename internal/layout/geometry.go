// Package layout computes where cards go on duplex sheets. It does no I/O:
// the pdf package turns a Plan into a document.
package layout

import (
	"errors"
	"fmt"
	"math"
)

const (
	PointsPerInch = 72

	Columns      = 2
	Rows         = 2
	SlotsPerPage = Columns * Rows
)

var ErrInvalidGeometry = errors.New("invalid layout geometry")

// PointsFor converts a pixel length at the given DPI to whole page points.
// The result is floored, so the same inputs always give the same value.
func PointsFor(pixels int, dpi float64) int {
	return int(math.Floor(float64(pixels) / dpi * PointsPerInch))
}

// Options describes the card and sheet the grid is computed for.
type Options struct {
	CardPixelWidth  int
	CardPixelHeight int
	DPI             float64

	PageWidth  float64
	PageHeight float64

	Gutter int
	// PrinterOffset shifts the whole grid right to compensate for feed skew.
	PrinterOffset int
}

func (o Options) validate() error {
	switch {
	case o.CardPixelWidth <= 0 || o.CardPixelHeight <= 0:
		return fmt.Errorf("%w: card size %dx%d px", ErrInvalidGeometry, o.CardPixelWidth, o.CardPixelHeight)
	case o.DPI <= 0:
		return fmt.Errorf("%w: dpi %.2f", ErrInvalidGeometry, o.DPI)
	case o.PageWidth <= 0 || o.PageHeight <= 0:
		return fmt.Errorf("%w: page size %.2fx%.2f pt", ErrInvalidGeometry, o.PageWidth, o.PageHeight)
	case o.Gutter < 0:
		return fmt.Errorf("%w: negative gutter %d", ErrInvalidGeometry, o.Gutter)
	}
	return nil
}

// Geometry is derived once per run and shared by every page.
//
// Coordinates follow PDF user space: origin at the bottom-left of the sheet,
// y growing upward. AnchorY is the top edge of the grid band; rows are laid
// out downward from it, each row taking a card height plus a gutter.
type Geometry struct {
	PageWidth  float64
	PageHeight float64

	CardWidth  int
	CardHeight int
	Gutter     int

	GridWidth  int
	GridHeight int

	// CenteredX is the horizontally centered anchor before the printer offset.
	CenteredX int
	AnchorX   int
	AnchorY   int
}

func NewGeometry(opts Options) (Geometry, error) {
	if err := opts.validate(); err != nil {
		return Geometry{}, err
	}

	cardW := PointsFor(opts.CardPixelWidth, opts.DPI)
	cardH := PointsFor(opts.CardPixelHeight, opts.DPI)
	if cardW <= 0 || cardH <= 0 {
		return Geometry{}, fmt.Errorf("%w: card rounds to %dx%d pt", ErrInvalidGeometry, cardW, cardH)
	}

	gridW := Columns*cardW + (Columns-1)*opts.Gutter
	gridH := Rows*cardH + (Rows-1)*opts.Gutter
	if float64(gridW) > opts.PageWidth || float64(gridH) > opts.PageHeight {
		return Geometry{}, fmt.Errorf("%w: %dx%d pt grid does not fit a %.0fx%.0f pt page",
			ErrInvalidGeometry, gridW, gridH, opts.PageWidth, opts.PageHeight)
	}

	centered := int(math.Floor((opts.PageWidth - float64(gridW)) / 2))

	return Geometry{
		PageWidth:  opts.PageWidth,
		PageHeight: opts.PageHeight,
		CardWidth:  cardW,
		CardHeight: cardH,
		Gutter:     opts.Gutter,
		GridWidth:  gridW,
		GridHeight: gridH,
		CenteredX:  centered,
		AnchorX:    centered + opts.PrinterOffset,
		AnchorY:    int(math.Floor((opts.PageHeight + float64(gridH)) / 2)),
	}, nil
}

// Rect is a card cell in points, (X, Y) being its bottom-left corner in PDF user space.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Top returns the distance from the top edge of the page to the top of the
// cell, which is what top-left based writers expect.
func (r Rect) Top(pageHeight float64) float64 {
	return pageHeight - float64(r.Y+r.Height)
}

// Cell returns the rectangle for a grid slot.
func (g Geometry) Cell(slot Slot) Rect {
	col, row := slot.Column(), slot.Row()
	return Rect{
		X:      g.AnchorX + col*(g.CardWidth+g.Gutter),
		Y:      g.AnchorY - (row+1)*(g.CardHeight+g.Gutter),
		Width:  g.CardWidth,
		Height: g.CardHeight,
	}
}
