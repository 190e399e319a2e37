package glcanvas

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl/glsim"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/assert"
	"github.com/gogpu/glcanvas/paint"
)

func TestOpaqueLayerMatchesDirectDrawing(t *testing.T) {
	draw := func(c GraphicsContext) {
		c.SetFill(paint.SolidFill(paint.Red))
		c.FillRect(geom.NewRect(4, 4, 20, 20), false)
		c.SetFill(paint.SolidFill(paint.Blue.WithAlpha(128)))
		p := geom.NewPath()
		p.AddEllipse(geom.NewRectF(10, 10, 16, 16))
		c.FillPath(p, geom.Identity())
	}
	for _, name := range []string{"shader", "software"} {
		t.Run(name, func(t *testing.T) {
			var opts []Option
			if name == "software" {
				opts = append(opts, WithForceSoftware())
			}
			direct := newScreen(t, name, 32, 32, opts...)
			draw(direct.ctx)

			layered := newScreen(t, name, 32, 32, opts...)
			layered.ctx.ClipToRectangle(geom.NewRect(2, 2, 28, 28))
			layered.ctx.BeginTransparencyLayer(1)
			draw(layered.ctx)
			layered.ctx.EndTransparencyLayer()

			a, b := direct.pixels(), layered.pixels()
			for y := 0; y < 32; y++ {
				for x := 0; x < 32; x++ {
					if pa, pb := a.RGBAAt(x, y), b.RGBAAt(x, y); !near(pa, pb, 1) {
						t.Fatalf("pixel (%d, %d) = %v through a layer, %v directly", x, y, pb, pa)
					}
				}
			}
		})
	}
}

func TestLayerOpacity(t *testing.T) {
	half := color.RGBA{128, 0, 0, 128}
	for _, s := range screens(t, 32, 32) {
		t.Run(s.name, func(t *testing.T) {
			c := s.ctx
			c.BeginTransparencyLayer(0.5)
			c.SetFill(paint.SolidFill(paint.Red))
			c.FillRect(geom.NewRect(0, 0, 16, 16), false)
			// Overlapping draws inside a layer do not compound its opacity.
			c.FillRect(geom.NewRect(8, 8, 16, 16), false)
			c.EndTransparencyLayer()

			px := s.pixels()
			for _, p := range []geom.Point{geom.Pt(4, 4), geom.Pt(12, 12), geom.Pt(20, 20)} {
				if got := px.RGBAAt(int(p.X), int(p.Y)); !near(got, half, 2) {
					t.Errorf("pixel %v = %v, want %v", p, got, half)
				}
			}
			if got := px.RGBAAt(28, 28); got != none {
				t.Errorf("pixel outside the draws = %v, want transparent", got)
			}
		})
	}
}

func TestNestedLayersAndRestoreState(t *testing.T) {
	for _, s := range screens(t, 32, 32) {
		t.Run(s.name, func(t *testing.T) {
			c := s.ctx
			c.BeginTransparencyLayer(1)
			c.SaveState()
			c.ClipToRectangle(geom.NewRect(0, 0, 16, 32))
			c.BeginTransparencyLayer(0.5)
			c.SetFill(paint.SolidFill(paint.Blue))
			c.FillRect(geom.NewRect(0, 0, 32, 32), false)
			// RestoreState on a layer state ends the layer.
			c.RestoreState()
			c.SetFill(paint.SolidFill(paint.Blue))
			c.FillRect(geom.NewRect(0, 24, 32, 8), false)
			// Ending the outer layer discards the state saved inside it.
			c.EndTransparencyLayer()

			px := s.pixels()
			if got := px.RGBAAt(4, 4); !near(got, color.RGBA{0, 0, 128, 128}, 2) {
				t.Errorf("inner layer pixel = %v", got)
			}
			if got := px.RGBAAt(20, 4); got != none {
				t.Errorf("clipped-out pixel = %v, want transparent", got)
			}
			if got := px.RGBAAt(4, 28); got != blue {
				t.Errorf("outer layer pixel = %v, want blue", got)
			}
			if got := px.RGBAAt(20, 28); got != none {
				t.Errorf("pixel outside the inner clip = %v, want transparent", got)
			}
			if got, want := c.ClipBounds(), geom.NewRect(0, 0, 32, 32); got != want {
				t.Errorf("ClipBounds() after the layers = %v, want %v", got, want)
			}
		})
	}
}

func TestLayerFallsBackToDirectDrawing(t *testing.T) {
	sim := glsim.New(32, 32, gpu.Emulations())
	ctx, err := NewContext(sim, ScreenTarget(32, 32))
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	defer ctx.Close()

	sim.FailFramebuffers.Store(true)
	ctx.BeginTransparencyLayer(0.5)
	ctx.SetFill(paint.SolidFill(paint.Red))
	ctx.FillRect(geom.NewRect(0, 0, 16, 16), false)
	ctx.EndTransparencyLayer()
	sim.FailFramebuffers.Store(false)

	ctx.Flush()
	if got, want := sim.Pixels(0).RGBAAt(8, 8), (color.RGBA{128, 0, 0, 128}); !near(got, want, 2) {
		t.Errorf("pixel = %v, want %v", got, want)
	}
	if live := sim.Live(); live.Framebuffers != 0 {
		t.Errorf("Live().Framebuffers = %d, want 0", live.Framebuffers)
	}
}

func TestEmptyLayerLeavesTargetUnchanged(t *testing.T) {
	for _, s := range screens(t, 16, 16) {
		t.Run(s.name, func(t *testing.T) {
			c := s.ctx
			c.SetFill(paint.SolidFill(paint.Red.WithAlpha(200)))
			c.FillRect(geom.NewRect(2, 2, 8, 8), false)
			before := s.pixels()

			c.BeginTransparencyLayer(1)
			c.EndTransparencyLayer()
			after := s.pixels()
			if !bytes.Equal(before.Pix, after.Pix) {
				t.Error("an empty layer changed the target")
			}
		})
	}
}

func TestInvisibleLayer(t *testing.T) {
	for _, s := range screens(t, 16, 16) {
		t.Run(s.name, func(t *testing.T) {
			c := s.ctx
			c.BeginTransparencyLayer(0)
			if !c.IsClipEmpty() {
				t.Error("clip inside a zero-opacity layer is not empty")
			}
			c.SetFill(paint.SolidFill(paint.Red))
			c.FillRect(geom.NewRect(0, 0, 16, 16), false)
			c.EndTransparencyLayer()
			if got := s.pixels().RGBAAt(8, 8); got != none {
				t.Errorf("pixel = %v, want transparent", got)
			}
		})
	}
}

func TestUnbalancedCallsAreIgnored(t *testing.T) {
	if assert.Enabled {
		t.Skip("contract violations panic in debug builds")
	}
	for _, s := range screens(t, 8, 8) {
		t.Run(s.name, func(t *testing.T) {
			s.ctx.RestoreState()
			s.ctx.EndTransparencyLayer()
			if got, want := s.ctx.ClipBounds(), geom.NewRect(0, 0, 8, 8); got != want {
				t.Errorf("ClipBounds() = %v, want %v", got, want)
			}
		})
	}
}
