package cartoon

import (
	"image"
	"image/color"
	"testing"
)

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	tests := []struct {
		name          string
		width, height int
	}{
		{"downscale", 20, 15},
		{"upscale", 64, 48},
		{"aspect change", 30, 30},
		{"same size", 40, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resize(src, tt.width, tt.height)
			if got.Rect != image.Rect(0, 0, tt.width, tt.height) {
				t.Errorf("bounds: got %v, want %dx%d at origin", got.Rect, tt.width, tt.height)
			}
		})
	}
}

func TestResize_Opaque(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 0x80
	}

	got := Resize(src, 5, 5)
	for i := 3; i < len(got.Pix); i += 4 {
		if got.Pix[i] != 0xff {
			t.Fatalf("alpha at %d: got %d, want 255", i, got.Pix[i])
		}
	}
}

func TestResize_SameSizeCopiesPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 60), 7, 255})
		}
	}

	got := Resize(src, 6, 4)
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel byte %d: got %d, want %d", i, got.Pix[i], src.Pix[i])
		}
	}

	got.Pix[0] = 1
	if src.Pix[0] == 1 {
		t.Error("Resize must not alias its input")
	}
}

func TestCloneNRGBA_Rebases(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 8))
	got := cloneNRGBA(src)
	if got.Rect != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds: got %v, want (0,0)-(4,3)", got.Rect)
	}
}
