package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ironsheep/image-cartoon-mcp/internal/cartoon"
)

// Tool names.
const (
	ToolImageLoad      = "image_load"
	ToolCartoonize     = "image_cartoonize"
	ToolEdgeMask       = "image_edge_mask"
	ToolCartoonPalette = "image_cartoon_palette"
)

// ToolDefinitions returns every tool the server offers, paired with its handler.
func (s *Server) ToolDefinitions() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(ToolImageLoad,
				mcp.WithDescription("Load an image file and return its dimensions, format, color depth, alpha channel and file size."),
				pathArg(),
			),
			Handler: s.handleImageLoad,
		},
		{
			Tool: mcp.NewTool(ToolCartoonize,
				mcp.WithDescription("Render an image as a cartoon: flat smoothed colors with black line art. "+
					"Writes the result to output_path when given, otherwise returns it as a PNG image."),
				pathArg(),
				mcp.WithString("output_path",
					mcp.Description("Optional file to write the cartoon to. The extension selects the format (png, jpg, gif, bmp, tif)."),
				),
				stepsArg(),
				iterationsArg(),
			),
			Handler: s.handleCartoonize,
		},
		{
			Tool: mcp.NewTool(ToolEdgeMask,
				mcp.WithDescription("Return the black-and-white line-art mask used by the cartoon renderer as a PNG image, "+
					"with the fraction of pixels that are drawn as lines."),
				pathArg(),
			),
			Handler: s.handleEdgeMask,
		},
		{
			Tool: mcp.NewTool(ToolCartoonPalette,
				mcp.WithDescription("Render an image as a cartoon and return its dominant colors (hex, RGB and HSL), most common first."),
				pathArg(),
				mcp.WithNumber("count",
					mcp.Description("Number of colors to return. Default 8"),
					mcp.DefaultNumber(8),
					mcp.Min(0),
				),
				stepsArg(),
				iterationsArg(),
			),
			Handler: s.handleCartoonPalette,
		},
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTools(s.ToolDefinitions()...)
}

func pathArg() mcp.ToolOption {
	return mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Absolute path to the image file"),
	)
}

func stepsArg() mcp.ToolOption {
	return mcp.WithNumber("downscale_steps",
		mcp.Description("Number of pyramid halvings before smoothing. Higher is flatter and faster. Default 2"),
		mcp.DefaultNumber(cartoon.DefaultDownscaleSteps),
		mcp.Min(0),
	)
}

func iterationsArg() mcp.ToolOption {
	return mcp.WithNumber("smoothing_iterations",
		mcp.Description("Number of bilateral smoothing passes. Default 50"),
		mcp.DefaultNumber(cartoon.DefaultSmoothingIterations),
		mcp.Min(0),
	)
}
