package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/internal/layout"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

const DefaultJPEGQuality = 92

var ErrEmptyDeck = errors.New("no cards to lay out")

type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

type Option func(*Writer)

func WithJPEGQuality(quality int) Option {
	return func(w *Writer) {
		w.quality = quality
	}
}

func WithMetadata(meta Metadata) Option {
	return func(w *Writer) {
		w.meta = meta
	}
}

// Writer turns front and back card images into a duplex PDF.
type Writer struct {
	geometry layout.Geometry
	cardSize models.PixelSize
	quality  int
	meta     Metadata
	logger   *logger.Logger
}

type Result struct {
	Path  string
	Cards int
	Pages int
}

func NewWriter(geometry layout.Geometry, cardSize models.PixelSize, logger *logger.Logger, opts ...Option) (*Writer, error) {
	if cardSize.Width <= 0 || cardSize.Height <= 0 {
		return nil, fmt.Errorf("%w: card size %dx%d px", layout.ErrInvalidGeometry, cardSize.Width, cardSize.Height)
	}

	w := &Writer{
		geometry: geometry,
		cardSize: cardSize,
		quality:  DefaultJPEGQuality,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.quality < 1 || w.quality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range 1-100", w.quality)
	}
	return w, nil
}

// WriteFile lays out fronts and backs and saves the document at outputPath.
// The document is written to a temp file next to outputPath, validated, and
// renamed into place; on any failure outputPath is left untouched.
func (w *Writer) WriteFile(ctx context.Context, fronts, backs []image.Image, outputPath string) (*Result, error) {
	plan, err := layout.NewPlan(w.geometry, len(fronts), len(backs))
	if err != nil {
		return nil, err
	}
	if plan.Cards == 0 {
		return nil, ErrEmptyDeck
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	doc, err := w.build(ctx, plan, fronts, backs)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(outputDir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := doc.Output(tmp); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := verify(tmpPath, len(plan.Pages)); err != nil {
		return nil, err
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return nil, fmt.Errorf("failed to move PDF into place: %w", err)
	}
	committed = true

	w.logger.Debug("Wrote %d cards on %d pages to %s", plan.Cards, len(plan.Pages), outputPath)
	return &Result{Path: outputPath, Cards: plan.Cards, Pages: len(plan.Pages)}, nil
}

func (w *Writer) build(ctx context.Context, plan *layout.Plan, fronts, backs []image.Image) (*fpdf.Fpdf, error) {
	g := plan.Geometry
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(w.meta.Title, true)
	doc.SetAuthor(w.meta.Author, true)
	doc.SetSubject(w.meta.Subject, true)
	doc.SetCreator(w.meta.Creator, true)
	doc.SetProducer(w.meta.Producer, true)

	w.logger.Trace("Grid: card %dx%d pt, anchor (%d, %d), gutter %d pt",
		g.CardWidth, g.CardHeight, g.AnchorX, g.AnchorY, g.Gutter)

	for _, page := range plan.Pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		images := fronts
		if page.Side == layout.Back {
			images = backs
		}

		doc.AddPage()
		for _, p := range page.Placements {
			if err := w.place(doc, page.Side, p, images[p.Index], g.PageHeight); err != nil {
				return nil, fmt.Errorf("page %d (%s), card %d: %w", page.Number, page.Side, p.Index+1, err)
			}
		}
		w.logger.Debug("Laid out page %d (%s) with %d cards", page.Number, page.Side, len(page.Placements))
	}

	return doc, nil
}

func (w *Writer) place(doc *fpdf.Fpdf, side layout.Side, p layout.Placement, img image.Image, pageHeight float64) error {
	if img == nil {
		return errors.New("missing image")
	}

	data, err := w.encode(img)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%04d", side, p.Index)
	opts := fpdf.ImageOptions{ImageType: "JPEG", ReadDpi: false}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	doc.ImageOptions(name,
		float64(p.Rect.X), p.Rect.Top(pageHeight),
		float64(p.Rect.Width), float64(p.Rect.Height),
		false, opts, 0, "")
	if doc.Err() {
		return fmt.Errorf("failed to embed image: %w", doc.Error())
	}

	w.logger.Trace("Placed %s %d at %s", side, p.Index, p.Slot)
	return nil
}

// encode normalizes img to the card pixel size, drops alpha and encodes a JPEG.
func (w *Writer) encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() != w.cardSize.Width || b.Dy() != w.cardSize.Height {
		img = imaging.Resize(img, w.cardSize.Width, w.cardSize.Height, imaging.Lanczos)
	}

	if !IsOpaque(img) {
		img = Flatten(img)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(w.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
