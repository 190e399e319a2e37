package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/paint"
)

// source produces the premultiplied colours of a fill along a scanline.
// Pixels are sampled at their centres.
type source interface {
	span(x, y int, out []color.RGBA)
}

func newSource(fill paint.Fill, quality paint.ResamplingQuality) source {
	switch {
	case fill.IsGradient():
		return newGradientSource(fill)
	case fill.IsImage():
		if fill.Transform.IsSingular() {
			return solidSource{}
		}
		return &imageSource{
			img:     fill.Image.ToRGBA(),
			inv:     fill.Transform.Inverted(),
			tiled:   fill.Tiled,
			nearest: quality == paint.QualityLow,
			opacity: opacity8(fill.Opacity),
		}
	default:
		return solidSource(fill.Colour.WithMultipliedAlpha(fill.Opacity).PremultipliedRGBA())
	}
}

type solidSource color.RGBA

func (s solidSource) span(_, _ int, out []color.RGBA) {
	for i := range out {
		out[i] = color.RGBA(s)
	}
}

type gradientSource struct {
	g       *paint.Gradient
	opacity uint8
	radial  bool
	inv     geom.Affine // device to gradient space, radial only
	p1      geom.Point
	dx, dy  float64 // device-space gradient vector over its squared length
	radius  float64
}

// newGradientSource follows the GPU path: gradients without extent or
// with a singular transform draw their last colour.
func newGradientSource(fill paint.Fill) source {
	g := fill.Gradient
	if len(g.Stops) == 0 {
		return solidSource{}
	}
	t := fill.Transform
	last := solidSource(g.Stops[len(g.Stops)-1].Colour.WithMultipliedAlpha(fill.Opacity).PremultipliedRGBA())
	if t.IsSingular() || g.Point1 == g.Point2 {
		return last
	}
	s := &gradientSource{g: g, opacity: opacity8(fill.Opacity), radial: g.Radial}
	if g.Radial {
		s.inv = t.Inverted()
		s.p1 = g.Point1
		s.radius = g.Point1.Distance(g.Point2)
		return s
	}
	p1, p2 := t.Apply(g.Point1), t.Apply(g.Point2)
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return last
	}
	s.p1, s.dx, s.dy = p1, dx/lenSq, dy/lenSq
	return s
}

func (s *gradientSource) span(x, y int, out []color.RGBA) {
	py := float64(y) + 0.5
	for i := range out {
		px := float64(x+i) + 0.5
		var t float64
		if s.radial {
			t = s.inv.Apply(geom.Pt(px, py)).Distance(s.p1) / s.radius
		} else {
			t = (px-s.p1.X)*s.dx + (py-s.p1.Y)*s.dy
		}
		out[i] = scaleRGBA(s.g.ColourAt(min(max(t, 0), 1)), s.opacity)
	}
}

type imageSource struct {
	img     *image.RGBA
	inv     geom.Affine // device to image space
	tiled   bool
	nearest bool
	opacity uint8
}

func (s *imageSource) span(x, y int, out []color.RGBA) {
	py := float64(y) + 0.5
	for i := range out {
		p := s.inv.Apply(geom.Pt(float64(x+i)+0.5, py))
		var c color.RGBA
		if s.nearest {
			c = s.at(int(math.Floor(p.X)), int(math.Floor(p.Y)))
		} else {
			c = s.bilinear(p.X-0.5, p.Y-0.5)
		}
		out[i] = scaleRGBA(c, s.opacity)
	}
}

// at returns a texel, wrapping for tiled fills and clamping otherwise.
func (s *imageSource) at(x, y int) color.RGBA {
	w, h := s.img.Rect.Dx(), s.img.Rect.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}
	if s.tiled {
		x, y = ((x%w)+w)%w, ((y%h)+h)%h
	} else {
		x, y = min(max(x, 0), w-1), min(max(y, 0), h-1)
	}
	return s.img.RGBAAt(s.img.Rect.Min.X+x, s.img.Rect.Min.Y+y)
}

func (s *imageSource) bilinear(fx, fy float64) color.RGBA {
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	c00, c10 := s.at(ix, iy), s.at(ix+1, iy)
	c01, c11 := s.at(ix, iy+1), s.at(ix+1, iy+1)
	mix := func(a, b, c, d uint8) uint8 {
		top := float64(a)*(1-tx) + float64(b)*tx
		bottom := float64(c)*(1-tx) + float64(d)*tx
		return uint8(top*(1-ty) + bottom*ty + 0.5)
	}
	return color.RGBA{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: mix(c00.A, c10.A, c01.A, c11.A),
	}
}

func opacity8(o float64) uint8 {
	return uint8(min(max(o, 0), 1)*255 + 0.5)
}

func scaleRGBA(c color.RGBA, k uint8) color.RGBA {
	if k == 255 {
		return c
	}
	return color.RGBA{R: mulRound(c.R, k), G: mulRound(c.G, k), B: mulRound(c.B, k), A: mulRound(c.A, k)}
}

func mulRound(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}
