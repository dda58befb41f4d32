package cartoon

import "fmt"

// Default values for Config. Only DefaultDownscaleSteps and DefaultSmoothingIterations
// are meant to be tuned by users; the rest fix the look of the effect.
const (
	DefaultDownscaleSteps      = 2
	DefaultSmoothingIterations = 50

	DefaultTargetWidth        = 1366
	DefaultTargetHeight       = 768
	DefaultBilateralDiameter  = 9
	DefaultSigmaColor         = 9.0
	DefaultSigmaSpace         = 7.0
	DefaultMedianKernel       = 3
	DefaultThresholdBlockSize = 9
	DefaultThresholdBias      = 2
)

// Config holds every parameter of a render.
//
// A Config is a plain value. Build one with DefaultConfig or NewConfig, adjust fields
// if needed, and hand it to New, which validates it once. Stages only read it.
type Config struct {
	// DownscaleSteps is the number of pyramid halvings before smoothing and
	// doublings after it. Zero smooths at the working resolution.
	DownscaleSteps int

	// SmoothingIterations is the number of bilateral passes. Zero leaves the
	// downsampled image unsmoothed. This is the dominant cost of a render.
	SmoothingIterations int

	// TargetWidth and TargetHeight are the working resolution every input is
	// resized to. The output has exactly this size.
	TargetWidth  int
	TargetHeight int

	// BilateralDiameter is the neighbourhood diameter of one bilateral pass.
	// The window is the disc of radius BilateralDiameter/2.
	BilateralDiameter int

	// SigmaColor is the range sigma: how different two colors (L1 over the three
	// channels) may be and still average together.
	SigmaColor float64

	// SigmaSpace is the spatial sigma of the bilateral weights, in pixels.
	SigmaSpace float64

	// MedianKernel is the odd side length of the median filter applied to the
	// grayscale image before thresholding.
	MedianKernel int

	// ThresholdBlockSize is the odd side length of the neighbourhood whose mean
	// each pixel is compared against.
	ThresholdBlockSize int

	// ThresholdBias is added to the neighbourhood mean. A pixel is an edge-mask
	// 255 only when it is strictly brighter than mean+ThresholdBias. Negative
	// values are allowed.
	ThresholdBias int
}

// DefaultConfig returns the stock configuration: 2 pyramid steps, 50 bilateral
// passes, 1366x768 working resolution.
func DefaultConfig() Config {
	return Config{
		DownscaleSteps:      DefaultDownscaleSteps,
		SmoothingIterations: DefaultSmoothingIterations,
		TargetWidth:         DefaultTargetWidth,
		TargetHeight:        DefaultTargetHeight,
		BilateralDiameter:   DefaultBilateralDiameter,
		SigmaColor:          DefaultSigmaColor,
		SigmaSpace:          DefaultSigmaSpace,
		MedianKernel:        DefaultMedianKernel,
		ThresholdBlockSize:  DefaultThresholdBlockSize,
		ThresholdBias:       DefaultThresholdBias,
	}
}

// NewConfig returns the default configuration with the two user-facing options
// replaced. It fails with ErrInvalidConfiguration on negative values.
func NewConfig(downscaleSteps, smoothingIterations int) (Config, error) {
	cfg := DefaultConfig()
	cfg.DownscaleSteps = downscaleSteps
	cfg.SmoothingIterations = smoothingIterations
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field. The returned error wraps ErrInvalidConfiguration.
func (c Config) Validate() error {
	switch {
	case c.DownscaleSteps < 0:
		return invalidf("downscale steps must be >= 0, got %d", c.DownscaleSteps)
	case c.SmoothingIterations < 0:
		return invalidf("smoothing iterations must be >= 0, got %d", c.SmoothingIterations)
	case c.TargetWidth <= 0 || c.TargetHeight <= 0:
		return invalidf("target size must be positive, got %dx%d", c.TargetWidth, c.TargetHeight)
	case c.BilateralDiameter <= 0:
		return invalidf("bilateral diameter must be > 0, got %d", c.BilateralDiameter)
	case c.SigmaColor <= 0 || c.SigmaSpace <= 0:
		return invalidf("bilateral sigmas must be > 0, got color=%g space=%g", c.SigmaColor, c.SigmaSpace)
	case c.MedianKernel <= 0 || c.MedianKernel%2 == 0:
		return invalidf("median kernel must be odd and positive, got %d", c.MedianKernel)
	case c.ThresholdBlockSize < 3 || c.ThresholdBlockSize%2 == 0:
		return invalidf("threshold block size must be odd and >= 3, got %d", c.ThresholdBlockSize)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
