package gpu

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl/glsim"
)

// Test helpers shared across gpu tests.

// newTestState returns a simulator of the given size with a State drawing
// into its default framebuffer.
func newTestState(t *testing.T, w, h, quads int) (*glsim.Sim, *State) {
	t.Helper()
	sim := glsim.New(w, h, Emulations())
	lib, err := NewShaderLibrary(sim)
	if err != nil {
		t.Fatalf("NewShaderLibrary() error = %v", err)
	}
	res := Resources{
		Library:   lib,
		Gradients: NewGradientTextureCache(sim, 10, 256),
		Images:    NewImageTextureCache(sim, 8),
	}
	st := NewState(sim, res, Target{Framebuffer: 0, Bounds: geom.NewRect(0, 0, w, h)}, quads)
	t.Cleanup(func() {
		st.Release()
		res.Gradients.Release()
		res.Images.Release()
		lib.Release()
	})
	return sim, st
}

// testPattern returns an opaque image whose pixels all differ.
func testPattern(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) * 7), A: 255})
		}
	}
	return img
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// colourNear compares two colours with a per-channel tolerance.
func colourNear(a, b color.RGBA, tolerance int) bool {
	return absDiff(a.R, b.R) <= tolerance &&
		absDiff(a.G, b.G) <= tolerance &&
		absDiff(a.B, b.B) <= tolerance &&
		absDiff(a.A, b.A) <= tolerance
}
