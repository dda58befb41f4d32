package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-cartoon-mcp/internal/cartoon"
)

// ImageCache provides thread-safe caching of decoded source images.
//
// The cache stores decoded image.Image objects keyed by their file path, so that
// repeated tool calls on the same photo (render, then palette, then edge mask)
// only hit the disk once.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// Full-resolution photos are large; long-running servers should evict images once
// a client is done with them.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG files are
// rotated according to their EXIF orientation tag so photos come out upright.
//
// # Errors
//
//   - Returns an error wrapping cartoon.ErrDecodeFailure and the os error if the
//     file cannot be opened
//   - Returns an error wrapping cartoon.ErrDecodeFailure if the contents are not a
//     decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w: %w", cartoon.ErrDecodeFailure, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w: %w", cartoon.ErrDecodeFailure, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a source image file.
type ImageInfo struct {
	// Width is the image width in pixels, after EXIF orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, after EXIF orientation is applied.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "bmp", "tiff", "webp", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether any pixel of the decoded image is not fully
	// opaque. The cartoon pipeline discards alpha.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// The image is loaded into the cache if not already cached.
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
//
// Alpha is reported from the pixels, not the type: an EXIF-rotated JPEG decodes
// to *image.NRGBA but stays opaque.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromPath(path),
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha(img),
		FileSizeBytes: stat.Size(),
	}, nil
}

// formatFromPath names the image format implied by the file extension.
func formatFromPath(path string) string {
	if f, err := imaging.FormatFromFilename(path); err == nil {
		return strings.ToLower(f.String())
	}
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return "webp"
	}
	return "unknown"
}

// hasAlpha reports whether img has any non-opaque pixel. Every image type in
// the standard library implements Opaque.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
