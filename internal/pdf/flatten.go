package pdf

import (
	"image"

	"github.com/disintegration/imaging"
)

// Flatten returns an opaque copy of img by dropping its alpha channel. The
// straight (non-premultiplied) color of each pixel is kept as is, so fully
// transparent pixels show whatever color they store, black for premultiplied
// sources. The result is deterministic and carries no transparency.
func Flatten(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// IsOpaque reports whether every pixel of img is fully opaque.
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
