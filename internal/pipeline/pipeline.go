// Package pipeline wires configuration to the card loader, background
// provider, renderers and document writer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/internal/background"
	"github.com/kpauljoseph/deckforge/internal/cards"
	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/internal/deck"
	"github.com/kpauljoseph/deckforge/internal/layout"
	"github.com/kpauljoseph/deckforge/internal/pdf"
	"github.com/kpauljoseph/deckforge/internal/render"
	"github.com/kpauljoseph/deckforge/internal/scanner"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
	"github.com/kpauljoseph/deckforge/pkg/version"
)

var ErrMissingInput = errors.New("required input file missing")

// Pipeline is a fully set up run. Everything that can fail for reasons
// unrelated to individual rows fails in New, before any output exists.
type Pipeline struct {
	cfg       *config.Config
	loader    *cards.Loader
	assembler *deck.Assembler
	writer    *pdf.Writer
	logger    *logger.Logger
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := os.Stat(cfg.Input); err != nil {
		return nil, fmt.Errorf("%w: card table %s: %v", ErrMissingInput, cfg.Input, err)
	}
	backing, err := imaging.Open(cfg.BackingImage, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: backing image %s: %v", ErrMissingInput, cfg.BackingImage, err)
	}

	cardSize := models.PixelSize{Width: cfg.Card.WidthPx, Height: cfg.Card.HeightPx}
	geometry, err := layout.NewGeometry(layout.Options{
		CardPixelWidth:  cfg.Card.WidthPx,
		CardPixelHeight: cfg.Card.HeightPx,
		DPI:             cfg.Card.DPI,
		PageWidth:       cfg.Page.WidthPt,
		PageHeight:      cfg.Page.HeightPt,
		Gutter:          cfg.Page.GutterPt,
		PrinterOffset:   cfg.Page.PrinterOffsetPt,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Card cells are %dx%d pt, anchor at (%d, %d)", geometry.CardWidth, geometry.CardHeight, geometry.AnchorX, geometry.AnchorY)

	writer, err := pdf.NewWriter(geometry, cardSize, log,
		pdf.WithJPEGQuality(cfg.JPEGQuality),
		pdf.WithMetadata(pdf.Metadata{
			Title:    "DeckForge cards",
			Creator:  "deckforge",
			Producer: version.GetVersionInfo(),
		}),
	)
	if err != nil {
		return nil, err
	}

	theme, err := render.NewTheme(cfg.Fonts, log)
	if err != nil {
		return nil, err
	}

	dirScanner := scanner.New(log)
	icons, err := render.LoadIcons(ctx, cfg.IconsDir, dirScanner, log)
	if err != nil {
		return nil, err
	}

	provider, err := NewProvider(ctx, cfg, dirScanner, log)
	if err != nil {
		return nil, err
	}

	front := render.NewFrontRenderer(theme, render.FrontOptions{
		Size:      cardSize,
		Fit:       cfg.Fit,
		StatLabel: cfg.StatLabel,
		Icons:     icons,
	}, log)
	back, err := render.NewBackRenderer(theme, backing, render.BackOptions{
		Size: cardSize,
		Fit:  cfg.Fit,
		QR:   cfg.Back.QR,
	}, log)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		loader:    cards.NewLoader(cfg.Columns, log),
		assembler: deck.NewAssembler(provider, front, back, cfg.Provider.Timeout, log),
		writer:    writer,
		logger:    log,
	}, nil
}

// NewProvider builds the background provider selected by cfg.Provider.Kind.
func NewProvider(ctx context.Context, cfg *config.Config, dirScanner *scanner.DirectoryScanner, log *logger.Logger) (background.Provider, error) {
	switch cfg.Provider.Kind {
	case config.ProviderLocal:
		return background.NewLocalProvider(ctx, cfg.Provider.LocalDir, dirScanner, log)

	case config.ProviderStability:
		prompts, err := background.NewPromptBuilder(cfg.Provider.Prompt)
		if err != nil {
			return nil, err
		}
		stability, err := background.NewStabilityProvider(background.StabilityOptions{
			URL:          cfg.Provider.URL,
			APIKey:       cfg.Provider.APIKey(),
			OutputFormat: cfg.Provider.OutputFormat,
			Retries:      cfg.Provider.Retries,
			RetryDelay:   cfg.Provider.RetryDelay,
		}, prompts, log)
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, cfg.Provider.APIKeyEnv)
		}
		if cfg.Provider.NoCache || cfg.Provider.CacheDir == "" {
			return stability, nil
		}
		log.Debug("Caching backgrounds in %s", cfg.Provider.CacheDir)
		return background.NewCachedProvider(stability, cfg.Provider.CacheDir, log)
	}

	return nil, fmt.Errorf("%w: unknown provider %q", background.ErrNotConfigured, cfg.Provider.Kind)
}

// Run reads the table, assembles the deck and writes the document. The
// report is returned even when writing fails.
func (p *Pipeline) Run(ctx context.Context) (*deck.Report, *pdf.Result, error) {
	start := time.Now()
	report := &deck.Report{}
	defer func() {
		report.Duration = time.Since(start)
	}()

	p.logger.Info("Reading cards from %s", p.cfg.Input)
	loaded, err := p.loader.LoadFile(p.cfg.Input)
	if err != nil {
		return report, nil, err
	}
	report.Rows = loaded.Rows
	report.Skipped = append(report.Skipped, loaded.Skipped...)
	p.logger.Info("Found %d cards in %d rows", len(loaded.Records), loaded.Rows)

	built, skipped, err := p.assembler.Build(ctx, loaded.Records)
	if err != nil {
		return report, nil, err
	}
	report.Skipped = append(report.Skipped, skipped...)
	sort.SliceStable(report.Skipped, func(i, j int) bool {
		return report.Skipped[i].Row < report.Skipped[j].Row
	})
	report.Cards = built.Len()

	result, err := p.writer.WriteFile(ctx, built.Fronts, built.Backs, p.cfg.Output)
	if err != nil {
		return report, nil, err
	}
	report.Pages = result.Pages

	return report, result, nil
}
