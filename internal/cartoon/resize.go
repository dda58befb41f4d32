package cartoon

import (
	"image"

	"github.com/disintegration/imaging"
)

// Resize resamples img to exactly width x height with bilinear interpolation.
//
// The result is an opaque *image.NRGBA anchored at (0,0). When img already has
// the requested size the pixels are copied unchanged.
func Resize(img image.Image, width, height int) *image.NRGBA {
	dst := imaging.Resize(img, width, height, imaging.Linear)
	makeOpaque(dst)
	return dst
}

// makeOpaque forces every alpha value to 255. The pipeline treats images as
// three-channel color.
func makeOpaque(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

// cloneNRGBA returns an opaque copy of img anchored at (0,0).
func cloneNRGBA(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	makeOpaque(dst)
	return dst
}
