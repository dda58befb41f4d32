package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-cartoon-mcp/internal/cartoon"
	"github.com/ironsheep/image-cartoon-mcp/internal/imaging"
	"github.com/ironsheep/image-cartoon-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const defaultOutput = "Cartoon_version.jpg"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cartoon-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "render":
			if err := runRender(os.Args[2:]); err != nil {
				if errors.Is(err, flag.ErrHelp) {
					return
				}
				fmt.Fprintf(os.Stderr, "render: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	logger := initLogger(os.Getenv("CARTOON_MCP_LOG_LEVEL"), false)
	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("starting cartoon MCP server")

	cfg, err := loadConfig()
	if err != nil {
		logger.WithError(err).Fatal("invalid environment configuration")
	}

	srv := server.New(
		server.WithLogger(logger),
		server.WithConfig(cfg),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

func printUsage() {
	fmt.Println("cartoon-mcp - render photos as cartoons, standalone or as an MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cartoon-mcp                 Serve MCP over stdin/stdout")
	fmt.Println("  cartoon-mcp render [flags]  Render one image to a file")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Render flags:")
	fmt.Println("  -in PATH           Source image (required)")
	fmt.Println("  -out PATH          Output file (default " + defaultOutput + ")")
	fmt.Println("  -steps N           Pyramid downscale steps (default 2)")
	fmt.Println("  -iterations N      Bilateral smoothing passes (default 50)")
	fmt.Println("  -width, -height    Working resolution (default 1366x768)")
	fmt.Println("  -layers DIR        Also write the intermediate layers as PNG into DIR")
	fmt.Println("  -debug             Log per-stage timings")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CARTOON_MCP_LOG_LEVEL=debug      Log level (panic..trace, default info)")
	fmt.Println("  CARTOON_MCP_TARGET_WIDTH=1366    Working width for MCP renders")
	fmt.Println("  CARTOON_MCP_TARGET_HEIGHT=768    Working height for MCP renders")
	fmt.Println()
	fmt.Println("In server mode it communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// initLogger writes to stderr, since stdout carries the MCP protocol. Debug
// logging uses the human-readable text formatter, everything else JSON.
func initLogger(level string, debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	lvl := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(level); err == nil {
		lvl = parsed
	}
	if debugMode && lvl < logrus.DebugLevel {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	if lvl >= logrus.DebugLevel {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

// loadConfig reads the MCP server's working resolution from the environment.
func loadConfig() (cartoon.Config, error) {
	cfg := cartoon.DefaultConfig()
	for _, v := range []struct {
		env string
		dst *int
	}{
		{"CARTOON_MCP_TARGET_WIDTH", &cfg.TargetWidth},
		{"CARTOON_MCP_TARGET_HEIGHT", &cfg.TargetHeight},
	} {
		raw := os.Getenv(v.env)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", v.env, err)
		}
		*v.dst = n
	}
	return cfg, cfg.Validate()
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("in", "", "source image")
	out := fs.String("out", defaultOutput, "output file")
	steps := fs.Int("steps", cartoon.DefaultDownscaleSteps, "pyramid downscale steps")
	iterations := fs.Int("iterations", cartoon.DefaultSmoothingIterations, "bilateral smoothing passes")
	width := fs.Int("width", cartoon.DefaultTargetWidth, "working width")
	height := fs.Int("height", cartoon.DefaultTargetHeight, "working height")
	layersDir := fs.String("layers", "", "directory for intermediate layers")
	debug := fs.Bool("debug", false, "log per-stage timings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}

	logger := initLogger(os.Getenv("CARTOON_MCP_LOG_LEVEL"), *debug)

	cfg, err := cartoon.NewConfig(*steps, *iterations)
	if err != nil {
		return err
	}
	cfg.TargetWidth, cfg.TargetHeight = *width, *height

	p, err := cartoon.New(cfg, cartoon.WithLogger(logger.WithField("source", *in)))
	if err != nil {
		return err
	}

	src, err := imaging.NewImageCache().Load(*in)
	if err != nil {
		return err
	}

	layers, err := p.RenderLayers(src)
	if err != nil {
		return err
	}
	if err := imaging.SaveImage(layers.Cartoon, *out); err != nil {
		return err
	}
	logger.WithField("output", *out).Info("cartoon written")

	if *layersDir != "" {
		if err := writeLayers(*layersDir, *in, layers); err != nil {
			return err
		}
		logger.WithField("dir", *layersDir).Info("layers written")
	}
	return nil
}

// writeLayers saves every intermediate image as <name>_<layer>.png.
func writeLayers(dir, source string, layers *cartoon.Layers) error {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	for _, l := range []struct {
		name string
		img  image.Image
	}{
		{"working", layers.Working},
		{"color", layers.Color},
		{"edges", layers.Edges},
		{"cartoon", layers.Cartoon},
	} {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", base, l.name))
		if err := imaging.SaveImage(l.img, path); err != nil {
			return fmt.Errorf("failed to write %s layer: %w", l.name, err)
		}
	}
	return nil
}
