package gpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gl/glsim"
	"github.com/gogpu/glcanvas/pixel"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{256, 256},
		{257, 512},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTexture_LoadRGBARoundsToPowerOfTwo(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	tex := NewTexture(sim)
	defer tex.Release()

	src := testPattern(3, 5)
	if err := tex.LoadRGBA(src, true); err != nil {
		t.Fatalf("LoadRGBA() error = %v", err)
	}
	if tex.Width() != 4 || tex.Height() != 8 {
		t.Errorf("size = %dx%d, want 4x8", tex.Width(), tex.Height())
	}
	if tex.ContentWidth() != 3 || tex.ContentHeight() != 5 {
		t.Errorf("content size = %dx%d, want 3x5", tex.ContentWidth(), tex.ContentHeight())
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", tex.Format())
	}

	// Flipped rows: image row y lives in memory row height-1-y.
	mem := sim.TexturePixels(tex.ID())
	for y := 0; y < 5; y++ {
		for x := 0; x < 3; x++ {
			if got, want := mem.RGBAAt(x, 7-y), src.RGBAAt(x, y); got != want {
				t.Fatalf("texel for (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTexture_LoadAlphaReplicatesChannel(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	tex := NewTexture(sim)
	defer tex.Release()

	if err := tex.LoadAlpha([]byte{10, 20, 30, 40}, 2, 2, false); err != nil {
		t.Fatalf("LoadAlpha() error = %v", err)
	}
	if tex.Format() != gputypes.TextureFormatR8Unorm {
		t.Errorf("Format() = %v, want R8Unorm", tex.Format())
	}
	mem := sim.TexturePixels(tex.ID())
	if got, want := mem.RGBAAt(1, 1), (color.RGBA{40, 40, 40, 40}); got != want {
		t.Errorf("texel (1,1) = %v, want %v", got, want)
	}
}

func TestTexture_LoadImageSingleChannel(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	tex := NewTexture(sim)
	defer tex.Release()

	img := pixel.New(pixel.FormatSingleChannel, 2, 2)
	a := image.NewAlpha(image.Rect(0, 0, 2, 2))
	a.SetAlpha(0, 0, color.Alpha{A: 200})
	img.WritePixels(a, image.Point{})

	if err := tex.LoadImage(img); err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	// Top-left image pixel lands in the last memory row.
	if got := sim.TexturePixels(tex.ID()).RGBAAt(0, 1).A; got != 200 {
		t.Errorf("alpha = %d, want 200", got)
	}
}

func TestTexture_UploadFailure(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	sim.FailTextures.Store(true)
	tex := NewTexture(sim)
	defer tex.Release()

	err := tex.LoadRGBA(testPattern(2, 2), false)
	if !errors.Is(err, ErrTextureAlloc) {
		t.Fatalf("LoadRGBA() error = %v, want ErrTextureAlloc", err)
	}
	if tex.IsValid() {
		t.Error("texture valid after failed upload")
	}
}

func TestTexture_InvalidSize(t *testing.T) {
	tex := NewTexture(glsim.New(4, 4, nil))
	if err := tex.LoadAlpha(nil, 0, 4, false); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("LoadAlpha(0x4) error = %v, want ErrInvalidSize", err)
	}
	if err := tex.LoadRGBA(image.NewRGBA(image.Rect(0, 0, 0, 0)), false); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("LoadRGBA(empty) error = %v, want ErrInvalidSize", err)
	}
}

func TestTexture_ReleaseIsIdempotent(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	tex := NewTexture(sim)
	if err := tex.LoadRGBA(testPattern(2, 2), false); err != nil {
		t.Fatal(err)
	}
	tex.Release()
	tex.Release()
	if got := sim.Live().Textures; got != 0 {
		t.Errorf("live textures = %d, want 0", got)
	}
}

func TestTexture_PreservesBinding(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	other := NewTexture(sim)
	if err := other.LoadRGBA(testPattern(2, 2), false); err != nil {
		t.Fatal(err)
	}
	other.Bind(0)

	tex := NewTexture(sim)
	if err := tex.LoadRGBA(testPattern(2, 2), false); err != nil {
		t.Fatal(err)
	}
	tex.SetFilter(gputypes.FilterModeNearest)
	if got := sim.GetInteger(gl.TEXTURE_BINDING_2D); got != int(other.ID()) {
		t.Errorf("bound texture = %d, want %d", got, other.ID())
	}
}
