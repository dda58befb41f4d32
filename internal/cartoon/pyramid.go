package cartoon

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// pyrKernel is the 5-tap binomial kernel of a Gaussian pyramid; it sums to 16.
var pyrKernel = [5]int32{1, 4, 6, 4, 1}

// Downsample applies steps Gaussian-pyramid reductions to img.
//
// Each step blurs with the separable [1 4 6 4 1]/16 kernel and keeps every second
// row and column, so a w x h image becomes (w/2) x (h/2), truncated. Reduction
// stops once either dimension is 1; PyramidSteps reports how many steps ran.
// Borders are mirrored without repeating the edge pixel. steps <= 0 returns a copy.
func Downsample(img *image.NRGBA, steps int) *image.NRGBA {
	out := cloneNRGBA(img)
	n := PyramidSteps(out.Rect.Dx(), out.Rect.Dy(), steps)
	for i := 0; i < n; i++ {
		out = pyrDown(out)
	}
	return out
}

// PyramidSteps returns how many of the requested reductions Downsample performs
// on a w x h image: a step runs only while both dimensions are at least 2.
func PyramidSteps(w, h, steps int) int {
	n := 0
	for n < steps && w >= 2 && h >= 2 {
		w, h = w/2, h/2
		n++
	}
	return n
}

// Upsample applies steps Gaussian-pyramid expansions to img, doubling both
// dimensions each time. steps <= 0 returns a copy.
//
// Downsample followed by Upsample with the same step count only restores the
// original size when both dimensions were divisible by 2^steps.
func Upsample(img *image.NRGBA, steps int) *image.NRGBA {
	out := cloneNRGBA(img)
	for i := 0; i < steps; i++ {
		out = pyrUp(out)
	}
	return out
}

func pyrDown(src *image.NRGBA) *image.NRGBA {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := max(sw/2, 1), max(sh/2, 1)

	// Horizontal pass, evaluated only at the columns that survive.
	tmp := make([]int32, sh*dw*3)
	parallel.Line(sh, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < dw; x++ {
				t := (y*dw + x) * 3
				for k, w := range pyrKernel {
					p := reflect101(2*x+k-2, sw) * 4
					tmp[t] += w * int32(row[p])
					tmp[t+1] += w * int32(row[p+1])
					tmp[t+2] += w * int32(row[p+2])
				}
			}
		}
	})

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	parallel.Line(dh, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < dw; x++ {
				var r, g, b int32
				for k, w := range pyrKernel {
					t := (reflect101(2*y+k-2, sh)*dw + x) * 3
					r += w * tmp[t]
					g += w * tmp[t+1]
					b += w * tmp[t+2]
				}
				o := y*dst.Stride + x*4
				dst.Pix[o] = uint8((r + 128) >> 8)
				dst.Pix[o+1] = uint8((g + 128) >> 8)
				dst.Pix[o+2] = uint8((b + 128) >> 8)
				dst.Pix[o+3] = 0xff
			}
		}
	})
	return dst
}

func pyrUp(src *image.NRGBA) *image.NRGBA {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := 2*sw, 2*sh

	tmp := make([]int32, sh*dw*3)
	parallel.Line(sh, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < dw; x++ {
				idx, wts := upTaps(x, sw)
				t := (y*dw + x) * 3
				for k, w := range wts {
					p := idx[k] * 4
					tmp[t] += w * int32(row[p])
					tmp[t+1] += w * int32(row[p+1])
					tmp[t+2] += w * int32(row[p+2])
				}
			}
		}
	})

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	parallel.Line(dh, func(start, end int) {
		for y := start; y < end; y++ {
			idx, wts := upTaps(y, sh)
			for x := 0; x < dw; x++ {
				var r, g, b int32
				for k, w := range wts {
					t := (idx[k]*dw + x) * 3
					r += w * tmp[t]
					g += w * tmp[t+1]
					b += w * tmp[t+2]
				}
				o := y*dst.Stride + x*4
				dst.Pix[o] = uint8((r + 32) >> 6)
				dst.Pix[o+1] = uint8((g + 32) >> 6)
				dst.Pix[o+2] = uint8((b + 32) >> 6)
				dst.Pix[o+3] = 0xff
			}
		}
	})
	return dst
}

// upTaps returns the source indices and weights (summing to 8) that produce
// output index o of an expansion from n samples. Even outputs sit on a source
// sample and use [1 6 1]; odd outputs fall between two samples and use [4 4].
//
// The leading border mirrors (-1 -> 1) but the trailing one repeats the last
// sample, as OpenCV's pyrUp does: the last two outputs are
// (src[n-2] + 7*src[n-1])/8 and src[n-1].
func upTaps(o, n int) ([3]int, [3]int32) {
	i := o / 2
	next := min(i+1, n-1)
	if o%2 == 0 {
		return [3]int{reflect101(i-1, n), i, next}, [3]int32{1, 6, 1}
	}
	return [3]int{i, next, i}, [3]int32{4, 4, 0}
}

// reflect101 maps i into [0,n) by mirroring around the edge pixels without
// repeating them: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
