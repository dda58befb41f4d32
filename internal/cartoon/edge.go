package cartoon

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// ExtractEdges derives the binary line-art mask of img.
//
// It should be given the full-resolution working image, not the pyramid-reduced
// one, so lines stay thin. The steps are:
//
//  1. Grayscale: ITU-R BT.601 luminance (0.299*R + 0.587*G + 0.114*B).
//  2. Median filter of side cfg.MedianKernel to drop speckle while keeping steps.
//  3. Adaptive threshold: the rounded mean of the cfg.ThresholdBlockSize square
//     around each pixel (edges replicated) is computed, and the pixel becomes 255
//     when it is strictly greater than mean + cfg.ThresholdBias, 0 otherwise.
//
// The result has img's size and contains only the values 0 and 255.
func ExtractEdges(img *image.NRGBA, cfg Config) *image.Gray {
	gray := Grayscale(img)
	gray = Median(gray, cfg.MedianKernel)
	return AdaptiveThreshold(gray, cfg.ThresholdBlockSize, cfg.ThresholdBias)
}

// Grayscale converts img to single-channel luminance.
func Grayscale(img image.Image) *image.Gray {
	lum := imaging.Grayscale(img)
	dst := image.NewGray(lum.Rect)
	for i := range dst.Pix {
		dst.Pix[i] = lum.Pix[i*4]
	}
	return dst
}

// Median replaces every pixel by the median of the size x size square around
// it, replicating edge pixels. size <= 1 returns a copy.
func Median(img *image.Gray, size int) *image.Gray {
	if size <= 1 {
		dst := image.NewGray(img.Rect)
		copy(dst.Pix, img.Pix)
		return dst
	}

	filtered := effect.Median(img, float64(size/2))
	dst := image.NewGray(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	for i := range dst.Pix {
		dst.Pix[i] = filtered.Pix[i*4]
	}
	return dst
}

// AdaptiveThreshold classifies every pixel against the mean of its block x block
// neighbourhood. Pixels strictly brighter than mean+bias become 255, all others 0.
// block must be odd.
func AdaptiveThreshold(img *image.Gray, block, bias int) *image.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	r := block / 2
	area := int32(block * block)

	// Horizontal box sums with replicated edges, then vertical sums over those.
	rows := make([]int32, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := img.Pix[y*img.Stride:]
			for x := 0; x < w; x++ {
				var sum int32
				for k := -r; k <= r; k++ {
					sum += int32(src[clamp(x+k, 0, w-1)])
				}
				rows[y*w+x] = sum
			}
		}
	})

	dst := image.NewGray(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := img.Pix[y*img.Stride:]
			out := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				var sum int32
				for k := -r; k <= r; k++ {
					sum += rows[clamp(y+k, 0, h-1)*w+x]
				}
				mean := int((sum + area/2) / area)
				if int(src[x]) > mean+bias {
					out[x] = 0xff
				}
			}
		}
	})
	return dst
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
