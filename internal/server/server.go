package server

import (
	"context"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-cartoon-mcp/internal/cartoon"
	"github.com/ironsheep/image-cartoon-mcp/internal/imaging"
)

// Name is the server name reported during the MCP handshake.
const Name = "image-cartoon-mcp"

// Server exposes the cartoon pipeline as MCP tools.
type Server struct {
	cache   *imaging.ImageCache
	base    cartoon.Config
	logger  *logrus.Entry
	version string
	mcp     *server.MCPServer
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls and pipeline stage timings.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logrus.NewEntry(logger)
		}
	}
}

// WithConfig sets the pipeline configuration that tool arguments start from.
func WithConfig(cfg cartoon.Config) Option {
	return func(s *Server) {
		s.base = cfg
	}
}

// WithVersion sets the version reported during the MCP handshake.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a new MCP server instance with all tools registered.
func New(opts ...Option) *Server {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	s := &Server{
		cache:   imaging.NewImageCache(),
		base:    cartoon.DefaultConfig(),
		logger:  logrus.NewEntry(silent),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	hooks := &server.Hooks{}
	hooks.AddAfterCallTool(s.logToolCall)

	s.mcp = server.NewMCPServer(
		Name,
		s.version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Run serves MCP over stdin and stdout until stdin closes.
func (s *Server) Run() error {
	s.logger.WithField("version", s.version).Info("serving MCP on stdio")
	errLog := log.New(s.logger.WriterLevel(logrus.ErrorLevel), "", 0)
	return server.ServeStdio(s.mcp, server.WithErrorLogger(errLog))
}

// logToolCall records the outcome of every tool call.
func (s *Server) logToolCall(_ context.Context, _ any, req *mcp.CallToolRequest, result *mcp.CallToolResult) {
	entry := s.logger.WithFields(logrus.Fields{
		"tool": req.Params.Name,
		"path": req.GetString("path", ""),
	})
	if result != nil && result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			if text, ok := mcp.AsTextContent(result.Content[0]); ok {
				msg = text.Text
			}
		}
		entry.WithField("error", msg).Warn("tool call failed")
		return
	}
	entry.Info("tool call complete")
}
