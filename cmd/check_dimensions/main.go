package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/internal/layout"
)

func main() {
	pdfPath := flag.String("file", "", "Path to PDF file")
	configPath := flag.String("config", config.DefaultPath, "Config the PDF was generated with")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using -file flag")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath, true)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

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
		fmt.Printf("Error computing geometry: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Analyzing PDF: %s\n", *pdfPath)
	fmt.Printf("Expected page: %.3f x %.3f points\n", geometry.PageWidth, geometry.PageHeight)
	fmt.Printf("Expected card cells: %d x %d points, gutter %d\n", geometry.CardWidth, geometry.CardHeight, geometry.Gutter)
	for s := layout.Slot(0); s < layout.SlotsPerPage; s++ {
		cell := geometry.Cell(s)
		fmt.Printf("  %s: x=%d y=%d (back slot %d)\n", s, cell.X, cell.Y, int(layout.Mirror(s)))
	}

	dims, err := api.PageDimsFile(*pdfPath)
	if err != nil {
		fmt.Printf("Error getting page dimensions: %v\n", err)
		os.Exit(1)
	}

	problems := 0
	if len(dims)%2 != 0 {
		fmt.Printf("\nPage count %d is odd, front and back pages do not pair up\n", len(dims))
		problems++
	}

	for i, dim := range dims {
		side := layout.Front
		if i%2 == 1 {
			side = layout.Back
		}
		fmt.Printf("\nPage %d (%s):\n", i+1, side)
		fmt.Printf("Dimensions (Width x Height): %.3f x %.3f points\n", dim.Width, dim.Height)
		if math.Abs(dim.Width-geometry.PageWidth) > 0.5 || math.Abs(dim.Height-geometry.PageHeight) > 0.5 {
			fmt.Printf("Mismatch: expected %.3f x %.3f points\n", geometry.PageWidth, geometry.PageHeight)
			problems++
		}
	}

	if problems > 0 {
		fmt.Printf("\n%d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Printf("\nAll %d pages match the configured layout\n", len(dims))
}
