package cartoon

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Composite merges the color layer with the edge mask.
//
// The mask is first resampled (nearest neighbour, so it stays strictly 0/255) to
// the color layer's size, which absorbs the rounding drift of a pyramid round
// trip. Each mask value is then applied to R, G and B with a bitwise AND: 255
// keeps the color, 0 paints black. The result has the color layer's size.
//
// An error wrapping ErrDimensionMismatch means resampling failed to produce a
// mask of the right size; it indicates a bug, not bad input.
func Composite(color *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	fitted := fitMask(mask, color.Rect.Dx(), color.Rect.Dy())
	return applyMask(color, fitted)
}

// fitMask returns mask resampled to w x h, or mask itself when it already fits.
func fitMask(mask *image.Gray, w, h int) *image.Gray {
	if mask.Rect.Dx() == w && mask.Rect.Dy() == h {
		return mask
	}
	resized := imaging.Resize(mask, w, h, imaging.NearestNeighbor)
	dst := image.NewGray(resized.Rect)
	for i := range dst.Pix {
		dst.Pix[i] = resized.Pix[i*4]
	}
	return dst
}

// applyMask ANDs the single-channel mask into every color channel.
func applyMask(color *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	w, h := color.Rect.Dx(), color.Rect.Dy()
	if mask.Rect.Dx() != w || mask.Rect.Dy() != h {
		return nil, fmt.Errorf("%w: mask %dx%d, color layer %dx%d",
			ErrDimensionMismatch, mask.Rect.Dx(), mask.Rect.Dy(), w, h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := color.Pix[y*color.Stride:]
			m := mask.Pix[y*mask.Stride:]
			out := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				o := x * 4
				out[o] = src[o] & m[x]
				out[o+1] = src[o+1] & m[x]
				out[o+2] = src[o+2] & m[x]
				out[o+3] = 0xff
			}
		}
	})
	return dst, nil
}

// fitOutput resamples the composite to the working size with nearest neighbour
// when a pyramid round trip left it a few pixels off. Nearest neighbour only
// repeats or drops existing pixels, so no new colors appear.
func fitOutput(img *image.NRGBA, w, h int) *image.NRGBA {
	if img.Rect.Dx() == w && img.Rect.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.NearestNeighbor)
}
