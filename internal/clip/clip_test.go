package clip

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl/glsim"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/raster"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// surface is a drawable the region tests render into and read back.
type surface struct {
	name   string
	region func(bounds geom.Rect) Region
	pixels func() *image.RGBA
	sim    *glsim.Sim
	device *GPUDevice
}

func newGPUSurface(t *testing.T, w, h int) *surface {
	t.Helper()
	sim := glsim.New(w, h, gpu.Emulations())
	lib, err := gpu.NewShaderLibrary(sim)
	if err != nil {
		t.Fatalf("NewShaderLibrary() error = %v", err)
	}
	res := gpu.Resources{
		Library:   lib,
		Gradients: gpu.NewGradientTextureCache(sim, 4, 64),
		Images:    gpu.NewImageTextureCache(sim, 4),
	}
	st := gpu.NewState(sim, res, gpu.Target{Bounds: geom.NewRect(0, 0, w, h)}, 64)
	t.Cleanup(func() {
		st.Release()
		res.Gradients.Release()
		res.Images.Release()
		lib.Release()
	})
	d := &GPUDevice{State: st}
	return &surface{
		name:   "gpu",
		region: func(b geom.Rect) Region { return NewGPURegion(d, b) },
		pixels: func() *image.RGBA {
			st.Flush()
			return sim.Pixels(0)
		},
		sim:    sim,
		device: d,
	}
}

func newSoftwareSurface(w, h int) *surface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &SoftwareDevice{Renderer: raster.NewRenderer(img)}
	return &surface{
		name:   "software",
		region: func(b geom.Rect) Region { return NewSoftwareRegion(d, b) },
		pixels: func() *image.RGBA { return img },
	}
}

func surfaces(t *testing.T, w, h int) []*surface {
	return []*surface{newGPUSurface(t, w, h), newSoftwareSurface(w, h)}
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	none = color.RGBA{}
)

func near(a, b color.RGBA, tolerance int) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= tolerance && d(a.G, b.G) <= tolerance && d(a.B, b.B) <= tolerance && d(a.A, b.A) <= tolerance
}

func rectPath(r geom.Rect) *geom.Path {
	p := geom.NewPath()
	p.AddRect(r.ToFloat())
	return p
}

func TestClipIntersectionIdempotent(t *testing.T) {
	clips := []geom.Rect{
		geom.NewRect(10, 10, 20, 20),
		geom.NewRect(-5, 30, 100, 3),
		geom.NewRect(60, 60, 100, 100),
	}
	for _, s := range surfaces(t, 64, 64) {
		for _, r := range clips {
			once := s.region(geom.NewRect(0, 0, 64, 64)).ClipToRectangle(r)
			twice := s.region(geom.NewRect(0, 0, 64, 64)).ClipToRectangle(r).ClipToRectangle(r)
			if once.Bounds() != twice.Bounds() {
				t.Errorf("%s: clip to %v twice = %v, once = %v", s.name, r, twice.Bounds(), once.Bounds())
			}
		}
	}
}

func TestClipToDisjointRectangleEmpties(t *testing.T) {
	for _, s := range surfaces(t, 16, 16) {
		r := s.region(geom.NewRect(0, 0, 8, 8))
		if got := r.ClipToRectangle(geom.NewRect(10, 10, 2, 2)); got != nil {
			t.Errorf("%s: ClipToRectangle() = %v, want nil", s.name, got.Bounds())
		}
		if NewGPURegion(nil, geom.Rect{}) != nil || NewSoftwareRegion(nil, geom.Rect{}) != nil {
			t.Errorf("empty bounds should give a nil region")
		}
	}
}

func TestRectangleListFill(t *testing.T) {
	for _, s := range surfaces(t, 16, 16) {
		t.Run(s.name, func(t *testing.T) {
			r := s.region(geom.NewRect(0, 0, 16, 16))
			r = r.ExcludeClipRectangle(geom.NewRect(4, 4, 8, 8))
			if r.Kind() != KindRectangleList {
				t.Fatalf("Kind() = %v, want rectangle list", r.Kind())
			}
			r.FillRect(geom.NewRect(0, 0, 16, 16), paint.SolidFill(paint.Red), false)
			px := s.pixels()
			if got := px.RGBAAt(1, 1); got != red {
				t.Errorf("kept pixel = %v, want red", got)
			}
			if got := px.RGBAAt(8, 8); got != none {
				t.Errorf("excluded pixel = %v, want transparent", got)
			}
		})
	}
}

func TestExclusionPromotesPastBudget(t *testing.T) {
	d := &SoftwareDevice{Renderer: raster.NewRenderer(image.NewRGBA(image.Rect(0, 0, 32, 32))), RectangleBudget: 4}
	r := NewSoftwareRegion(d, geom.NewRect(0, 0, 32, 32))
	r = r.ExcludeClipRectangle(geom.NewRect(10, 10, 4, 4))
	if r.Kind() != KindRectangleList {
		t.Fatalf("one hole, four rectangles: Kind() = %v, want rectangle list", r.Kind())
	}
	r = r.ExcludeClipRectangle(geom.NewRect(20, 20, 4, 4))
	if r.Kind() != KindMask {
		t.Fatalf("two holes over budget: Kind() = %v, want mask", r.Kind())
	}
	if r.Bounds() != geom.NewRect(0, 0, 32, 32) {
		t.Errorf("Bounds() = %v", r.Bounds())
	}
}

func TestMaskPromotionEquivalence(t *testing.T) {
	list := geom.NewRectList(geom.NewRect(5, 5, 10, 10), geom.NewRect(20, 8, 6, 6))
	for _, mk := range []func() *surface{
		func() *surface { return newGPUSurface(t, 32, 32) },
		func() *surface { return newSoftwareSurface(32, 32) },
	} {
		plain, masked := mk(), mk()
		t.Run(plain.name, func(t *testing.T) {
			a := plain.region(geom.NewRect(0, 0, 32, 32)).ClipToRectangleList(list)
			a.FillRect(geom.NewRect(0, 0, 32, 32), paint.SolidFill(paint.Red), false)

			b := masked.region(geom.NewRect(0, 0, 32, 32)).ClipToRectangleList(list)
			b = b.ClipToPath(rectPath(geom.NewRect(5, 5, 10, 10)), geom.Identity())
			if b == nil || b.Kind() != KindMask {
				t.Fatalf("ClipToPath() did not give a mask")
			}
			b.FillRect(geom.NewRect(0, 0, 32, 32), paint.SolidFill(paint.Red), false)

			pa, pb := plain.pixels(), masked.pixels()
			for y := 0; y < 32; y++ {
				for x := 0; x < 32; x++ {
					want := pa.RGBAAt(x, y)
					if x >= 20 {
						want = none // the path covers only the first rectangle
					}
					if got := pb.RGBAAt(x, y); !near(got, want, 1) {
						t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestMaskClipToPathCircle(t *testing.T) {
	for _, s := range surfaces(t, 40, 40) {
		t.Run(s.name, func(t *testing.T) {
			p := geom.NewPath()
			p.AddEllipse(geom.NewRectF(10, 10, 20, 20))
			r := s.region(geom.NewRect(0, 0, 40, 40)).ClipToPath(p, geom.Identity())
			if got, want := r.Bounds(), geom.NewRect(10, 10, 20, 20); got != want {
				t.Errorf("Bounds() = %v, want %v", got, want)
			}
			r.FillRect(geom.NewRect(0, 0, 40, 40), paint.SolidFill(paint.Red), false)
			px := s.pixels()
			if got := px.RGBAAt(20, 20); got != red {
				t.Errorf("centre = %v, want red", got)
			}
			if got := px.RGBAAt(11, 11); got.A > 10 {
				t.Errorf("corner of bounds = %v, want about transparent", got)
			}
			if got := px.RGBAAt(5, 5); got != none {
				t.Errorf("outside = %v, want transparent", got)
			}
		})
	}
}

func TestMaskExcludeAndClipToRectangleList(t *testing.T) {
	for _, s := range surfaces(t, 32, 32) {
		t.Run(s.name, func(t *testing.T) {
			r := s.region(geom.NewRect(0, 0, 32, 32)).ClipToPath(rectPath(geom.NewRect(0, 0, 32, 32)), geom.Identity())
			r = r.ExcludeClipRectangle(geom.NewRect(0, 0, 8, 8))
			r = r.ClipToRectangleList(geom.NewRectList(geom.NewRect(0, 0, 16, 32), geom.NewRect(24, 0, 8, 32)))
			if r == nil || r.Kind() != KindMask {
				t.Fatal("region lost its mask")
			}
			r.FillRect(geom.NewRect(0, 0, 32, 32), paint.SolidFill(paint.Red), false)
			px := s.pixels()
			tests := []struct {
				x, y int
				want color.RGBA
			}{
				{2, 2, none},   // excluded
				{10, 2, red},   // kept
				{20, 20, none}, // outside the rectangle list
				{28, 20, red},
			}
			for _, tt := range tests {
				if got := px.RGBAAt(tt.x, tt.y); got != tt.want {
					t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
				}
			}
		})
	}
}

func TestMaskExcludeEverythingEmpties(t *testing.T) {
	for _, s := range surfaces(t, 16, 16) {
		r := s.region(geom.NewRect(0, 0, 16, 16)).ClipToPath(rectPath(geom.NewRect(2, 2, 4, 4)), geom.Identity())
		if got := r.ExcludeClipRectangle(geom.NewRect(0, 0, 16, 16)); got != nil {
			t.Errorf("%s: excluding everything left %v", s.name, got.Bounds())
		}
	}
}

func TestMaskCloneIsIndependent(t *testing.T) {
	for _, s := range surfaces(t, 16, 16) {
		t.Run(s.name, func(t *testing.T) {
			orig := s.region(geom.NewRect(0, 0, 16, 16)).ClipToPath(rectPath(geom.NewRect(0, 0, 16, 16)), geom.Identity())
			clone := orig.Clone()
			if clone == nil {
				t.Fatal("Clone() = nil")
			}
			clone = clone.ExcludeClipRectangle(geom.NewRect(0, 0, 16, 8))
			clone.Release()

			orig.FillRect(geom.NewRect(0, 0, 16, 16), paint.SolidFill(paint.Red), false)
			if got := s.pixels().RGBAAt(4, 4); got != red {
				t.Errorf("original after changing the clone = %v, want red", got)
			}
		})
	}
}

func TestMaskAllocationFailureEmpties(t *testing.T) {
	s := newGPUSurface(t, 16, 16)
	s.sim.FailFramebuffers.Store(true)
	r := s.region(geom.NewRect(0, 0, 16, 16))
	if got := r.ClipToPath(rectPath(geom.NewRect(2, 2, 4, 4)), geom.Identity()); got != nil {
		t.Errorf("ClipToPath() with failing framebuffers = %v, want nil", got.Bounds())
	}
}

func TestExclusionPromotionFailureEmpties(t *testing.T) {
	s := newGPUSurface(t, 16, 16)
	s.device.RectangleBudget = 1
	s.sim.FailFramebuffers.Store(true)
	ref := NewRef(s.region(geom.NewRect(0, 0, 16, 16)))
	ref.Apply(func(r Region) Region { return r.ExcludeClipRectangle(geom.NewRect(4, 4, 4, 4)) })
	if got := ref.Get(); got != nil {
		t.Errorf("ExcludeClipRectangle() with failing framebuffers = %T, want nil", got)
	}
	if !ref.IsEmpty() {
		t.Error("IsEmpty() = false after failed promotion, want true")
	}
}

func TestMaskReleaseFreesFramebuffer(t *testing.T) {
	s := newGPUSurface(t, 16, 16)
	before := s.sim.Live().Framebuffers
	r := s.region(geom.NewRect(0, 0, 16, 16)).ClipToPath(rectPath(geom.NewRect(2, 2, 4, 4)), geom.Identity())
	if got := s.sim.Live().Framebuffers; got != before+1 {
		t.Fatalf("live framebuffers = %d, want %d", got, before+1)
	}
	r.Release()
	if got := s.sim.Live().Framebuffers; got != before {
		t.Errorf("live framebuffers after Release = %d, want %d", got, before)
	}
}

func TestClipToImageAlpha(t *testing.T) {
	alpha := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			alpha.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	img := pixel.FromImage(alpha)
	for _, s := range surfaces(t, 16, 16) {
		t.Run(s.name, func(t *testing.T) {
			r := s.region(geom.NewRect(0, 0, 16, 16)).ClipToImageAlpha(img, geom.Translation(4, 4))
			r.FillRect(geom.NewRect(0, 0, 16, 16), paint.SolidFill(paint.Red), false)
			px := s.pixels()
			if got := px.RGBAAt(4, 5); got != red {
				t.Errorf("opaque image pixel = %v, want red", got)
			}
			if got := px.RGBAAt(7, 5); got != none {
				t.Errorf("transparent image pixel = %v, want transparent", got)
			}
		})
	}
}

func TestFillRectReplace(t *testing.T) {
	for _, s := range surfaces(t, 8, 8) {
		t.Run(s.name, func(t *testing.T) {
			r := s.region(geom.NewRect(0, 0, 8, 8))
			r.FillRect(geom.NewRect(0, 0, 8, 8), paint.SolidFill(paint.Red), false)
			r.FillRect(geom.NewRect(0, 0, 4, 4), paint.SolidFill(paint.Transparent), true)
			px := s.pixels()
			if got := px.RGBAAt(1, 1); got != none {
				t.Errorf("replaced pixel = %v, want transparent", got)
			}
			if got := px.RGBAAt(6, 6); got != red {
				t.Errorf("other pixel = %v, want red", got)
			}
		})
	}
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	img := pixel.FromImage(src)
	for _, s := range surfaces(t, 8, 8) {
		t.Run(s.name, func(t *testing.T) {
			r := s.region(geom.NewRect(0, 0, 8, 8))
			r.DrawImage(img, geom.Translation(3, 3), 1)
			px := s.pixels()
			if got := px.RGBAAt(4, 4); got != (color.RGBA{255, 255, 255, 255}) {
				t.Errorf("image pixel = %v, want white", got)
			}
			if got := px.RGBAAt(5, 5); got != none {
				t.Errorf("pixel beside the image = %v, want transparent", got)
			}
			r.DrawImage(img, geom.Translation(0, 0), 0)
			if got := s.pixels().RGBAAt(0, 0); got != none {
				t.Errorf("zero-opacity draw changed a pixel to %v", got)
			}
		})
	}
}

func TestFillRectF(t *testing.T) {
	for _, s := range surfaces(t, 8, 8) {
		t.Run(s.name, func(t *testing.T) {
			r := s.region(geom.NewRect(0, 0, 8, 8))
			r.FillRectF(geom.NewRectF(1, 1, 2.5, 2), paint.SolidFill(paint.Red))
			px := s.pixels()
			if got := px.RGBAAt(1, 1); got != red {
				t.Errorf("covered pixel = %v, want red", got)
			}
			if got := px.RGBAAt(3, 1); got.A < 100 || got.A > 160 {
				t.Errorf("half-covered pixel alpha = %d, want about 128", got.A)
			}
		})
	}
}
