package render

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

// Fit scales img to size. FitStretch ignores the aspect ratio; FitCrop
// scales to cover and trims the overflow around the center.
func Fit(img image.Image, size models.PixelSize, policy string) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == size.Width && b.Dy() == size.Height {
		return imaging.Clone(img)
	}
	if policy == config.FitCrop {
		return imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Lanczos)
	}
	return imaging.Resize(img, size.Width, size.Height, imaging.Lanczos)
}
