package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/edgetable"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

func newTarget(x, y, w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(x, y, x+w, y+h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var black = color.RGBA{A: 255}

func TestFillRectSolid(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 10, 10, black))
	r.FillRect(geom.NewRect(2, 2, 3, 3), paint.SolidFill(paint.Red), false)
	if got := r.Target().RGBAAt(3, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside = %v, want red", got)
	}
	if got := r.Target().RGBAAt(5, 5); got != black {
		t.Errorf("outside = %v, want black", got)
	}
}

func TestFillRectClipsToTarget(t *testing.T) {
	r := NewRenderer(newTarget(10, 10, 4, 4, black))
	r.FillRect(geom.NewRect(0, 0, 12, 12), paint.SolidFill(paint.Blue), false)
	if got := r.Target().RGBAAt(11, 11); got.B != 255 {
		t.Errorf("RGBAAt(11, 11) = %v, want blue", got)
	}
	if got := r.Target().RGBAAt(12, 12); got != black {
		t.Errorf("RGBAAt(12, 12) = %v, want black", got)
	}
}

func TestFillRectReplace(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 4, 4, color.RGBA{255, 255, 255, 255}))
	r.FillRect(geom.NewRect(0, 0, 2, 2), paint.SolidFill(paint.Transparent), true)
	if got := r.Target().RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("replaced pixel = %v, want transparent", got)
	}
	r.FillRect(geom.NewRect(2, 2, 2, 2), paint.SolidFill(paint.Transparent), false)
	if got := r.Target().RGBAAt(3, 3); got.A != 255 {
		t.Errorf("invisible fill changed pixel to %v", got)
	}
}

func TestFillEdgeTableCoverage(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 4, 1, black))
	a := image.NewAlpha(image.Rect(0, 0, 4, 1))
	copy(a.Pix, []uint8{255, 128, 0, 255})
	et := edgetable.FromAlpha(a, image.Point{})
	r.FillEdgeTable(et, geom.NewRect(0, 0, 3, 1), paint.SolidFill(paint.White))

	want := []uint8{255, 128, 0, 0}
	for x, w := range want {
		got := r.Target().RGBAAt(x, 0)
		if d := int(got.R) - int(w); d < -1 || d > 1 {
			t.Errorf("pixel %d = %v, want grey %d", x, got, w)
		}
	}
}

func TestLinearGradient(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 100, 1, black))
	g := paint.NewLinearGradient(paint.Black, geom.Pt(0, 0), paint.White, geom.Pt(100, 0))
	r.FillRect(geom.NewRect(0, 0, 100, 1), paint.GradientFill(g), false)
	prev := -1
	for x := 0; x < 100; x++ {
		v := int(r.Target().RGBAAt(x, 0).R)
		if v < prev {
			t.Fatalf("gradient not monotonic at %d: %d < %d", x, v, prev)
		}
		prev = v
	}
	if mid := r.Target().RGBAAt(50, 0).R; mid < 120 || mid > 136 {
		t.Errorf("middle = %d, want about 128", mid)
	}
}

func TestRadialGradient(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 21, 21, black))
	g := paint.NewRadialGradient(paint.White, geom.Pt(10.5, 10.5), paint.Black, geom.Pt(20.5, 10.5))
	r.FillRect(geom.NewRect(0, 0, 21, 21), paint.GradientFill(g), false)
	centre := r.Target().RGBAAt(10, 10).R
	edge := r.Target().RGBAAt(0, 10).R
	if centre < 250 || edge > 5 {
		t.Errorf("centre = %d, edge = %d, want white to black", centre, edge)
	}
}

func TestDegenerateGradientUsesLastColour(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 2, 2, black))
	g := paint.NewLinearGradient(paint.Red, geom.Pt(1, 1), paint.Blue, geom.Pt(1, 1))
	r.FillRect(geom.NewRect(0, 0, 2, 2), paint.GradientFill(g), false)
	if got := r.Target().RGBAAt(0, 0); got.B != 255 || got.R != 0 {
		t.Errorf("degenerate gradient = %v, want blue", got)
	}
}

func TestImageFill(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	src.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	src.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	img := pixel.FromImage(src)

	tests := []struct {
		name  string
		tiled bool
		x, y  int
		want  color.RGBA
	}{
		{"top left", false, 4, 4, color.RGBA{255, 0, 0, 255}},
		{"bottom right", false, 5, 5, color.RGBA{255, 255, 255, 255}},
		{"clamped", false, 9, 4, color.RGBA{0, 255, 0, 255}},
		{"tiled", true, 6, 4, color.RGBA{255, 0, 0, 255}},
		{"tiled negative", true, 3, 4, color.RGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(newTarget(0, 0, 10, 10, black))
			r.Quality = paint.QualityLow
			r.FillRect(geom.NewRect(0, 0, 10, 10), paint.ImageFill(img, geom.Translation(4, 4), tt.tiled), false)
			if got := r.Target().RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("RGBAAt(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestImageOpacity(t *testing.T) {
	src := newTarget(0, 0, 1, 1, color.RGBA{255, 255, 255, 255})
	fill := paint.ImageFill(pixel.FromImage(src), geom.Identity(), false)
	fill.Opacity = 0.5
	r := NewRenderer(newTarget(0, 0, 1, 1, black))
	r.FillRect(geom.NewRect(0, 0, 1, 1), fill, false)
	if got := r.Target().RGBAAt(0, 0).R; got < 126 || got > 130 {
		t.Errorf("half-opacity white over black = %d, want about 128", got)
	}
}

func TestTargetStack(t *testing.T) {
	base := newTarget(0, 0, 4, 4, black)
	layer := newTarget(1, 1, 2, 2, color.RGBA{})
	r := NewRenderer(base)
	r.PushTarget(layer)
	if r.Bounds() != geom.NewRect(1, 1, 2, 2) {
		t.Errorf("Bounds() = %v, want layer bounds", r.Bounds())
	}
	r.FillRect(geom.NewRect(0, 0, 4, 4), paint.SolidFill(paint.Green), false)
	r.PopTarget()
	if r.Target() != base {
		t.Fatal("PopTarget did not restore the base target")
	}
	if base.RGBAAt(1, 1) != black {
		t.Error("drawing into the layer reached the base target")
	}
	if layer.RGBAAt(2, 2).G != 255 {
		t.Error("layer was not drawn into")
	}
	r.PopTarget() // unbalanced pops are ignored
	if r.Target() != base {
		t.Error("unbalanced PopTarget changed the target")
	}
}

func TestReplaceEdgeTable(t *testing.T) {
	r := NewRenderer(newTarget(0, 0, 3, 1, color.RGBA{255, 255, 255, 255}))
	a := image.NewAlpha(image.Rect(0, 0, 3, 1))
	copy(a.Pix, []uint8{255, 128, 0})
	r.ReplaceEdgeTable(edgetable.FromAlpha(a, image.Point{}), paint.SolidFill(paint.Transparent))

	want := []uint8{0, 127, 255}
	for x, w := range want {
		got := r.Target().RGBAAt(x, 0)
		if d := int(got.A) - int(w); d < -1 || d > 1 {
			t.Errorf("pixel %d alpha = %d, want %d", x, got.A, w)
		}
	}
}
