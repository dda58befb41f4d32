package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ironsheep/image-cartoon-mcp/internal/cartoon"
	"github.com/ironsheep/image-cartoon-mcp/internal/imaging"
)

// CartoonizeResult summarizes one image_cartoonize call.
type CartoonizeResult struct {
	SourceWidth         int    `json:"source_width"`
	SourceHeight        int    `json:"source_height"`
	Width               int    `json:"width"`
	Height              int    `json:"height"`
	DownscaleSteps      int    `json:"downscale_steps"`
	SmoothingIterations int    `json:"smoothing_iterations"`
	OutputPath          string `json:"output_path,omitempty"`
	DurationMs          int64  `json:"duration_ms"`
}

// EdgeMaskResult summarizes one image_edge_mask call.
type EdgeMaskResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// LineFraction is the share of mask pixels that are 0, i.e. drawn black in
	// the cartoon.
	LineFraction float64 `json:"line_fraction"`
}

// PaletteResult is the response of image_cartoon_palette.
type PaletteResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	*imaging.DominantColorsResult
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// pipeline builds a Pipeline from the server's base config and the call's
// downscale_steps and smoothing_iterations arguments.
func (s *Server) pipeline(req mcp.CallToolRequest) (*cartoon.Pipeline, error) {
	cfg := s.base
	cfg.DownscaleSteps = req.GetInt("downscale_steps", cfg.DownscaleSteps)
	cfg.SmoothingIterations = req.GetInt("smoothing_iterations", cfg.SmoothingIterations)
	return cartoon.New(cfg, cartoon.WithLogger(s.logger.WithField("tool", req.Params.Name)))
}

// loadSource reads the required path argument and loads the image from the cache.
func (s *Server) loadSource(req mcp.CallToolRequest) (image.Image, *mcp.CallToolResult) {
	path, err := req.RequireString("path")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, mcp.NewToolResultErrorFromErr("failed to load image", err)
	}
	return img, nil
}

func (s *Server) handleImageLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := imaging.LoadImageInfo(s.cache, path)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to load image", err), nil
	}
	return mcp.NewToolResultText(mustMarshalJSON(info)), nil
}

func (s *Server) handleCartoonize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	img, failed := s.loadSource(req)
	if failed != nil {
		return failed, nil
	}
	p, err := s.pipeline(req)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid render options", err), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	out, err := p.Render(img)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to render cartoon", err), nil
	}

	cfg := p.Config()
	result := CartoonizeResult{
		SourceWidth:         img.Bounds().Dx(),
		SourceHeight:        img.Bounds().Dy(),
		Width:               out.Rect.Dx(),
		Height:              out.Rect.Dy(),
		DownscaleSteps:      cfg.DownscaleSteps,
		SmoothingIterations: cfg.SmoothingIterations,
		DurationMs:          time.Since(started).Milliseconds(),
	}

	if outputPath := req.GetString("output_path", ""); outputPath != "" {
		if err := imaging.SaveImage(out, outputPath); err != nil {
			return mcp.NewToolResultErrorFromErr("failed to write cartoon", err), nil
		}
		result.OutputPath = outputPath
		return mcp.NewToolResultText(mustMarshalJSON(result)), nil
	}

	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode cartoon", err), nil
	}
	return mcp.NewToolResultImage(mustMarshalJSON(result), encoded.ImageBase64, encoded.MimeType), nil
}

func (s *Server) handleEdgeMask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	img, failed := s.loadSource(req)
	if failed != nil {
		return failed, nil
	}
	p, err := s.pipeline(req)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid render options", err), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := p.Config()
	working := cartoon.Resize(img, cfg.TargetWidth, cfg.TargetHeight)
	mask := cartoon.ExtractEdges(working, cfg)

	lines := 0
	for _, v := range mask.Pix {
		if v == 0 {
			lines++
		}
	}
	result := EdgeMaskResult{
		Width:        mask.Rect.Dx(),
		Height:       mask.Rect.Dy(),
		LineFraction: float64(lines) / float64(len(mask.Pix)),
	}

	encoded, err := imaging.EncodePNG(mask)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode edge mask", err), nil
	}
	return mcp.NewToolResultImage(mustMarshalJSON(result), encoded.ImageBase64, encoded.MimeType), nil
}

func (s *Server) handleCartoonPalette(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := req.GetInt("count", 8)
	if count < 0 {
		err := fmt.Errorf("%w: count must be >= 0, got %d", cartoon.ErrInvalidConfiguration, count)
		return mcp.NewToolResultErrorFromErr("invalid palette options", err), nil
	}

	img, failed := s.loadSource(req)
	if failed != nil {
		return failed, nil
	}
	p, err := s.pipeline(req)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid render options", err), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := p.Render(img)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to render cartoon", err), nil
	}
	colors, err := imaging.DominantColors(out, count)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to extract palette", err), nil
	}

	return mcp.NewToolResultText(mustMarshalJSON(PaletteResult{
		Width:                out.Rect.Dx(),
		Height:               out.Rect.Dy(),
		DominantColorsResult: colors,
	})), nil
}
