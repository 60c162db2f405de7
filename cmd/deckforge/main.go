package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/internal/pipeline"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/version"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	input := flag.String("input", "", "card table CSV (overrides config)")
	output := flag.String("output", "", "output PDF path (overrides config)")
	dpi := flag.Float64("dpi", 0, "card image resolution in dots per inch (overrides config)")
	cardWidth := flag.Int("card-width", 0, "card width in pixels (overrides config)")
	cardHeight := flag.Int("card-height", 0, "card height in pixels (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo())
		return
	}

	log := logger.New(logger.WithPrefix("[deckforge] "))
	log.SetVerbose(*verbose)

	if *debug {
		log.SetVerbose(true)
		log.SetLevel(logger.LevelTrace)
	}

	if *verbose {
		log.Debug("Verbose logging enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagSet = true
		}
	})

	cfg, err := config.Load(*configPath, !configFlagSet)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}

	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *dpi > 0 {
		cfg.Card.DPI = *dpi
	}
	if *cardWidth > 0 {
		cfg.Card.WidthPx = *cardWidth
	}
	if *cardHeight > 0 {
		cfg.Card.HeightPx = *cardHeight
	}

	p, err := pipeline.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Setup failed: %v", err)
	}

	report, result, err := p.Run(ctx)
	report.Print(log)
	if err != nil {
		log.Fatal("Run failed: %v", err)
	}

	log.Info("Duplex PDF saved: %s", result.Path)
}
