package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// EncodedImage is an image ready to be returned to an MCP client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as PNG and returns it base64-encoded.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &EncodedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveImage writes img to path, creating missing parent directories. The
// format follows the extension (png, jpg, gif, bmp, tif); JPEG uses quality 95.
func SaveImage(img image.Image, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
