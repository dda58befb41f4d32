package cartoon

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Layers holds every intermediate image of one render.
type Layers struct {
	// Working is the input resized to the working resolution.
	Working *image.NRGBA

	// Color is the smoothed color layer after the pyramid round trip. Its size
	// may differ from Working by the pyramid's rounding.
	Color *image.NRGBA

	// Edges is the 0/255 edge mask at the working resolution.
	Edges *image.Gray

	// Cartoon is the final composite at the working resolution.
	Cartoon *image.NRGBA
}

// Pipeline renders cartoon images with a fixed, validated Config.
type Pipeline struct {
	cfg    Config
	logger logrus.FieldLogger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-stage debug timings.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New validates cfg and returns a Pipeline. Without WithLogger nothing is logged.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	silent := logrus.New()
	silent.SetOutput(io.Discard)

	p := &Pipeline{cfg: cfg, logger: silent}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Render is the one-shot form: it validates cfg and renders img.
func Render(img image.Image, cfg Config) (*image.NRGBA, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return p.Render(img)
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Render converts img into its cartoon rendering. The result always measures
// Config.TargetWidth x Config.TargetHeight.
func (p *Pipeline) Render(img image.Image) (*image.NRGBA, error) {
	layers, err := p.RenderLayers(img)
	if err != nil {
		return nil, err
	}
	return layers.Cartoon, nil
}

// RenderLayers runs the full pipeline and returns every intermediate image.
func (p *Pipeline) RenderLayers(img image.Image) (*Layers, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: source image is empty", ErrDecodeFailure)
	}

	cfg := p.cfg
	log := p.logger.WithFields(logrus.Fields{
		"source":     fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"steps":      cfg.DownscaleSteps,
		"iterations": cfg.SmoothingIterations,
	})
	started := time.Now()

	layers := &Layers{}
	stage := func(name string, fn func()) {
		t := time.Now()
		fn()
		log.WithFields(logrus.Fields{
			"stage":    name,
			"duration": time.Since(t),
		}).Debug("stage complete")
	}

	stage("resize", func() {
		layers.Working = Resize(img, cfg.TargetWidth, cfg.TargetHeight)
	})

	// Expand only as many times as the pyramid actually reduced.
	steps := PyramidSteps(cfg.TargetWidth, cfg.TargetHeight, cfg.DownscaleSteps)
	if steps < cfg.DownscaleSteps {
		log.WithField("effective_steps", steps).Debug("downscale steps clamped to pyramid depth")
	}

	var color *image.NRGBA
	stage("downsample", func() {
		color = Downsample(layers.Working, steps)
	})
	stage("flatten", func() {
		color = Flatten(color, cfg.SmoothingIterations, cfg)
	})
	stage("upsample", func() {
		layers.Color = Upsample(color, steps)
	})

	stage("edges", func() {
		layers.Edges = ExtractEdges(layers.Working, cfg)
	})

	var (
		composite *image.NRGBA
		err       error
	)
	stage("composite", func() {
		composite, err = Composite(layers.Color, layers.Edges)
	})
	if err != nil {
		log.WithError(err).Error("compositing failed")
		return nil, fmt.Errorf("failed to composite layers: %w", err)
	}
	layers.Cartoon = fitOutput(composite, cfg.TargetWidth, cfg.TargetHeight)

	log.WithFields(logrus.Fields{
		"color_layer": fmt.Sprintf("%dx%d", layers.Color.Rect.Dx(), layers.Color.Rect.Dy()),
		"duration":    time.Since(started),
	}).Debug("render complete")
	return layers, nil
}
