// Package server implements the MCP (Model Context Protocol) server for the
// cartoon renderer.
//
// The server is built on mark3labs/mcp-go and speaks JSON-RPC 2.0 over stdio.
// Protocol handling (initialize, ping, tools/list, tools/call) is done by mcp-go;
// this package registers the tools and implements their handlers.
//
// # Available Tools
//
//   - image_load: Load an image and get its metadata
//   - image_cartoonize: Render a cartoon, returned as PNG or written to disk
//   - image_edge_mask: Return the line-art mask and its line fraction
//   - image_cartoon_palette: Dominant colors of the rendered cartoon
//
// # Image Caching
//
// Source images are cached by path for the lifetime of the server, so rendering
// the same photo with different options only decodes it once.
//
// # Error Handling
//
// Tool failures (missing files, undecodable images, invalid options) are
// returned as tool results with IsError set, so the client model can read the
// message. Only cancelled requests produce protocol errors.
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
