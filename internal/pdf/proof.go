package pdf

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// Sheet is one printed sheet: a front page and the back page printed on its reverse.
type Sheet struct {
	Number int
	Front  image.Image
	Back   image.Image
}

// RenderSheets rasterizes a duplex document at dpi and pairs its pages.
func RenderSheets(path string, dpi float64) ([]Sheet, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage()%2 != 0 {
		return nil, fmt.Errorf("%s has %d pages, expected front and back pairs", path, doc.NumPage())
	}

	sheets := make([]Sheet, 0, doc.NumPage()/2)
	for n := 0; n < doc.NumPage(); n += 2 {
		front, err := doc.ImageDPI(n, dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", n+1, err)
		}
		back, err := doc.ImageDPI(n+1, dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", n+2, err)
		}
		sheets = append(sheets, Sheet{Number: n/2 + 1, Front: front, Back: back})
	}
	return sheets, nil
}

// Lightbox shows the sheet as if held against a light: the back page is
// flipped around the vertical axis and blended at half opacity over the
// front, so each back lands over the front it is printed behind.
func Lightbox(s Sheet) *image.NRGBA {
	flipped := imaging.FlipH(s.Back)
	return imaging.Overlay(s.Front, flipped, image.Pt(0, 0), 0.5)
}
