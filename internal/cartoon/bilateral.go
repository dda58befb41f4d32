package cartoon

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Flatten applies iterations bilateral passes to img and returns the result.
//
// Each pass averages every pixel with the neighbours inside a disc of radius
// cfg.BilateralDiameter/2, weighting them by spatial distance (cfg.SigmaSpace)
// and by color distance (cfg.SigmaColor, L1 over R, G and B). Texture whose
// contrast is small against SigmaColor is averaged away while strong edges
// keep their neighbours out of the average.
//
// Passes are strictly sequential: pass k reads only the complete output of
// pass k-1. Two buffers are swapped between passes; rows within a pass run in
// parallel. iterations <= 0 returns a copy of img.
func Flatten(img *image.NRGBA, iterations int, cfg Config) *image.NRGBA {
	src := cloneNRGBA(img)
	if iterations <= 0 {
		return src
	}

	k := newBilateralKernel(cfg.BilateralDiameter, cfg.SigmaColor, cfg.SigmaSpace)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(src.Rect)
	pad := newPadded(w, h, k.radius)

	for i := 0; i < iterations; i++ {
		pad.fill(src)
		k.apply(pad, dst)
		src, dst = dst, src
	}
	return src
}

// bilateralKernel holds the precomputed disc offsets, their spatial weights and
// the range weight for every possible L1 color distance (0..3*255).
type bilateralKernel struct {
	radius  int
	offsets []image.Point
	space   []float64
	color   [3*255 + 1]float64
}

func newBilateralKernel(diameter int, sigmaColor, sigmaSpace float64) *bilateralKernel {
	radius := diameter / 2
	k := &bilateralKernel{radius: radius}

	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if math.Sqrt(d2) > float64(radius) {
				continue
			}
			k.offsets = append(k.offsets, image.Pt(dx, dy))
			k.space = append(k.space, math.Exp(d2*spaceCoeff))
		}
	}

	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	for i := range k.color {
		k.color[i] = math.Exp(float64(i*i) * colorCoeff)
	}
	return k
}

// apply runs one pass from the padded source into dst.
func (k *bilateralKernel) apply(src *padded, dst *image.NRGBA) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()

	// Offsets into the padded buffer, resolved once per pass.
	rel := make([]int, len(k.offsets))
	for i, o := range k.offsets {
		rel[i] = o.Y*src.stride + o.X*3
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				c := src.index(x, y)
				r0, g0, b0 := int(src.pix[c]), int(src.pix[c+1]), int(src.pix[c+2])

				var sr, sg, sb, wsum float64
				for i, off := range rel {
					p := c + off
					r, g, b := int(src.pix[p]), int(src.pix[p+1]), int(src.pix[p+2])
					wt := k.space[i] * k.color[absInt(r-r0)+absInt(g-g0)+absInt(b-b0)]
					sr += wt * float64(r)
					sg += wt * float64(g)
					sb += wt * float64(b)
					wsum += wt
				}

				o := y*dst.Stride + x*4
				dst.Pix[o] = roundUint8(sr / wsum)
				dst.Pix[o+1] = roundUint8(sg / wsum)
				dst.Pix[o+2] = roundUint8(sb / wsum)
				dst.Pix[o+3] = 0xff
			}
		}
	})
}

// padded is a packed RGB copy of an image with a mirrored border, so window
// reads never need bounds checks.
type padded struct {
	w, h, border int
	stride       int
	pix          []uint8
}

func newPadded(w, h, border int) *padded {
	stride := (w + 2*border) * 3
	return &padded{
		w:      w,
		h:      h,
		border: border,
		stride: stride,
		pix:    make([]uint8, stride*(h+2*border)),
	}
}

// fill copies img into the buffer and mirrors its edges (reflect-101).
func (p *padded) fill(img *image.NRGBA) {
	b := p.border
	parallel.Line(p.h+2*b, func(start, end int) {
		for py := start; py < end; py++ {
			sy := reflect101(py-b, p.h)
			row := img.Pix[sy*img.Stride:]
			out := p.pix[py*p.stride:]
			for px := 0; px < p.w+2*b; px++ {
				s := reflect101(px-b, p.w) * 4
				copy(out[px*3:px*3+3], row[s:s+3])
			}
		}
	})
}

// index returns the offset of image pixel (x, y) inside the padded buffer.
func (p *padded) index(x, y int) int {
	return (y+p.border)*p.stride + (x+p.border)*3
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func roundUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
