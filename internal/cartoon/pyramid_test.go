package cartoon

import (
	"image"
	"image/color"
	"testing"
)

func TestDownsample_Sizes(t *testing.T) {
	tests := []struct {
		w, h, steps int
		wantW, wantH int
	}{
		{1366, 768, 0, 1366, 768},
		{1366, 768, 1, 683, 384},
		{1366, 768, 2, 341, 192},
		{5, 3, 1, 2, 1},
		{5, 3, 4, 2, 1},
		{1, 1, 3, 1, 1},
		{40, 24, 16, 2, 1},
	}

	for _, tt := range tests {
		img := solidNRGBA(tt.w, tt.h, color.NRGBA{90, 90, 90, 255})
		got := Downsample(img, tt.steps)
		if got.Rect.Dx() != tt.wantW || got.Rect.Dy() != tt.wantH {
			t.Errorf("Downsample(%dx%d, %d): got %dx%d, want %dx%d",
				tt.w, tt.h, tt.steps, got.Rect.Dx(), got.Rect.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestUpsample_Sizes(t *testing.T) {
	img := solidNRGBA(341, 192, color.NRGBA{90, 90, 90, 255})

	got := Upsample(img, 2)
	if got.Rect.Dx() != 1364 || got.Rect.Dy() != 768 {
		t.Errorf("got %dx%d, want 1364x768", got.Rect.Dx(), got.Rect.Dy())
	}
}

func TestPyramidSteps(t *testing.T) {
	tests := []struct {
		w, h, steps, want int
	}{
		{1366, 768, 0, 0},
		{1366, 768, 2, 2},
		{1366, 768, 16, 9},
		{4, 4, 12, 2},
		{5, 3, 4, 1},
		{1, 100, 3, 0},
		{8, 8, -1, 0},
	}

	for _, tt := range tests {
		if got := PyramidSteps(tt.w, tt.h, tt.steps); got != tt.want {
			t.Errorf("PyramidSteps(%d, %d, %d): got %d, want %d", tt.w, tt.h, tt.steps, got, tt.want)
		}
	}
}

func TestUpsample_TrailingBorder(t *testing.T) {
	// The last source sample is repeated rather than mirrored on expansion.
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(2, 0, color.NRGBA{80, 80, 80, 255})

	got := Upsample(img, 1)
	want := []uint8{0, 0, 10, 40, 70, 80}
	for y := 0; y < 2; y++ {
		for x, w := range want {
			if r := got.NRGBAAt(x, y).R; r != w {
				t.Errorf("pixel (%d,%d): got %d, want %d", x, y, r, w)
			}
		}
	}
}

func TestUpTaps(t *testing.T) {
	tests := []struct {
		o, n    int
		wantIdx [3]int
		wantW   [3]int32
	}{
		{0, 5, [3]int{1, 0, 1}, [3]int32{1, 6, 1}},
		{1, 5, [3]int{0, 1, 0}, [3]int32{4, 4, 0}},
		{4, 5, [3]int{1, 2, 3}, [3]int32{1, 6, 1}},
		{8, 5, [3]int{3, 4, 4}, [3]int32{1, 6, 1}},
		{9, 5, [3]int{4, 4, 4}, [3]int32{4, 4, 0}},
		{0, 1, [3]int{0, 0, 0}, [3]int32{1, 6, 1}},
		{1, 1, [3]int{0, 0, 0}, [3]int32{4, 4, 0}},
	}

	for _, tt := range tests {
		idx, w := upTaps(tt.o, tt.n)
		if idx != tt.wantIdx || w != tt.wantW {
			t.Errorf("upTaps(%d, %d): got %v %v, want %v %v", tt.o, tt.n, idx, w, tt.wantIdx, tt.wantW)
		}
	}
}

func TestPyramid_UniformImageStaysUniform(t *testing.T) {
	c := color.NRGBA{10, 200, 30, 255}
	img := solidNRGBA(16, 12, c)

	down := Downsample(img, 2)
	up := Upsample(down, 2)

	for _, stage := range []*image.NRGBA{down, up} {
		for y := 0; y < stage.Rect.Dy(); y++ {
			for x := 0; x < stage.Rect.Dx(); x++ {
				if got := stage.NRGBAAt(x, y); got != c {
					t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, c)
				}
			}
		}
	}
}

func TestDownsample_ZeroStepsCopies(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{1, 2, 3, 255})

	got := Downsample(img, 0)
	got.Pix[0] = 99

	if img.Pix[0] != 1 {
		t.Error("Downsample with zero steps must not alias its input")
	}
}

func TestDownsample_SmoothsStep(t *testing.T) {
	// Vertical black/white step: the reduced image must contain an intermediate
	// value at the transition, proving the blur ran before subsampling.
	img := image.NewNRGBA(image.Rect(0, 0, 16, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(0)
			if x >= 7 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}

	down := Downsample(img, 1)
	mid := down.NRGBAAt(3, 0).R
	if mid == 0 || mid == 255 {
		t.Errorf("transition pixel: got %d, want a value strictly between 0 and 255", mid)
	}
	if down.NRGBAAt(0, 0).R != 0 || down.NRGBAAt(7, 0).R != 255 {
		t.Errorf("flat regions changed: left=%d right=%d", down.NRGBAAt(0, 0).R, down.NRGBAAt(7, 0).R)
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-1, 2, 1},
		{2, 2, 0},
		{-3, 1, 0},
		{7, 1, 0},
	}

	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
