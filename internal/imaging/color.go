package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/clone"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-cartoon-mcp/internal/cartoon"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#rrggbb" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
	HSL        HSLColor `json:"hsl"`        // HSL of the quantized color
}

// DominantColorsResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors         []ColorFrequency `json:"colors"`
	DistinctColors int              `json:"distinct_colors"` // Distinct colors after quantization
}

// DominantColors extracts the count most common colors from img.
//
// A cartoon rendering has a small, flat palette, so this is the natural summary
// of a render: the colors of its flattened regions plus black for the lines.
//
// # Color Quantization
//
// To group near-identical colors, every component is quantized as
//
//	quantized = (original / 16) * 16
//
// so #F0F0F0 and #FAFAFA fall into the same bucket. Ties in frequency are broken
// by the color value, making the output deterministic.
//
// A negative count is rejected with an error wrapping
// cartoon.ErrInvalidConfiguration. A count of zero returns no colors.
func DominantColors(img image.Image, count int) (*DominantColorsResult, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: color count must be >= 0, got %d", cartoon.ErrInvalidConfiguration, count)
	}

	rgba := clone.AsRGBA(img)
	counts := make(map[RGBColor]int)
	total := 0
	for i := 0; i+3 < len(rgba.Pix); i += 4 {
		key := RGBColor{
			R: rgba.Pix[i] / 16 * 16,
			G: rgba.Pix[i+1] / 16 * 16,
			B: rgba.Pix[i+2] / 16 * 16,
		}
		counts[key]++
		total++
	}

	type bucket struct {
		rgb RGBColor
		n   int
	}
	buckets := make([]bucket, 0, len(counts))
	for rgb, n := range counts {
		buckets = append(buckets, bucket{rgb, n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].n != buckets[j].n {
			return buckets[i].n > buckets[j].n
		}
		return packRGB(buckets[i].rgb) < packRGB(buckets[j].rgb)
	})

	if len(buckets) > count {
		buckets = buckets[:count]
	}

	colors := make([]ColorFrequency, 0, len(buckets))
	for _, b := range buckets {
		c := colorfulFromRGB(b.rgb.R, b.rgb.G, b.rgb.B)
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(b.n) / float64(total) * 100,
			RGB:        b.rgb,
			HSL:        toHSL(c),
		})
	}

	return &DominantColorsResult{Colors: colors, DistinctColors: len(counts)}, nil
}

func colorfulFromRGB(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// toHSL converts to whole degrees and percentages.
func toHSL(c colorful.Color) HSLColor {
	h, s, l := c.Hsl()
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

func packRGB(c RGBColor) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
