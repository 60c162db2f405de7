package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/internal/pdf"
	"github.com/kpauljoseph/deckforge/pkg/utils"
)

func main() {
	pdfPath := flag.String("file", "", "Path to duplex PDF file")
	outDir := flag.String("out", "proofs", "Directory for proof images")
	dpi := flag.Float64("dpi", 72, "Render resolution")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using -file flag")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Printf("Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	sheets, err := pdf.RenderSheets(*pdfPath, *dpi)
	if err != nil {
		fmt.Printf("Error rendering PDF: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering %d sheets from %s\n", len(sheets), *pdfPath)

	for _, sheet := range sheets {
		proofs := []struct {
			kind string
			img  image.Image
		}{
			{"front", sheet.Front},
			{"back", sheet.Back},
			{"lightbox", pdf.Lightbox(sheet)},
		}

		fmt.Printf("\nSheet %d:\n", sheet.Number)
		for _, proof := range proofs {
			path := filepath.Join(*outDir, fmt.Sprintf("sheet%02d_%s.png", sheet.Number, proof.kind))
			if err := imaging.Save(proof.img, path); err != nil {
				fmt.Printf("Error saving %s: %v\n", path, err)
				os.Exit(1)
			}

			hash, _ := utils.GenerateImageHash(proof.img)
			fmt.Printf("%-8s %s  %s\n", proof.kind, hash[:16], path)
		}
	}

	fmt.Printf("\nHold each lightbox image up to check that every back sits over its front.\n")
}
