// Package imaging handles image I/O and summaries around the cartoon pipeline.
//
// It loads source images from disk (with a path-keyed cache), encodes results
// for MCP clients, saves renders to disk and extracts the dominant palette of an
// image. The pixel pipeline itself lives in package cartoon.
//
// # Supported Formats
//
// Decoding: PNG, JPEG (EXIF orientation applied), GIF, BMP, TIFF and WebP.
// Encoding: PNG for MCP image content; PNG, JPEG, GIF, BMP and TIFF when saving,
// chosen by the output file extension.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless and never modify their input images.
//
// # Error Handling
//
// Files that exist but cannot be decoded produce errors wrapping
// cartoon.ErrDecodeFailure, so callers can tell bad input from I/O problems with
// errors.Is.
package imaging
