package glcanvas

import (
	"github.com/gogpu/glcanvas/font"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/clip"
	"github.com/gogpu/glcanvas/internal/edgetable"
	"github.com/gogpu/glcanvas/internal/glyph"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// backend is what differs between the shader-backed and the software
// contexts: where regions draw and where transparency layers live.
type backend interface {
	setQuality(q paint.ResamplingQuality)

	// beginLayer allocates a transparent layer covering bounds in device
	// space and redirects drawing into it. It returns nil if the layer
	// cannot be allocated.
	beginLayer(bounds geom.Rect) *pixel.Image
	// endLayer redirects drawing back to where it went before the
	// matching beginLayer.
	endLayer()
	// releaseLayer frees a layer after it has been composited.
	releaseLayer(img *pixel.Image)

	flush()
	release()
}

// renderState is one saved graphics state.
type renderState struct {
	clip      clip.Ref
	transform geom.Affine
	fill      paint.Fill
	font      font.Font
	quality   paint.ResamplingQuality

	// alpha scales every fill. It is below one inside transparency layers
	// that could not be allocated and are drawn directly instead.
	alpha float64

	// layer is set on the state pushed by BeginTransparencyLayer.
	layer *layer
}

type layer struct {
	image   *pixel.Image // nil when nothing is drawn or drawing is direct
	bounds  geom.Rect
	opacity float64
}

// clone returns a copy sharing the clip region.
func (s *renderState) clone() *renderState {
	c := *s
	c.clip = s.clip.Retain()
	c.layer = nil
	return &c
}

// canvas implements GraphicsContext over a backend.
type canvas struct {
	be     backend
	glyphs *glyph.Cache
	states []*renderState
	closed bool
}

func (c *canvas) init(be backend, glyphs *glyph.Cache, region clip.Region) {
	c.be = be
	c.glyphs = glyphs
	c.states = []*renderState{{
		clip:      clip.NewRef(region),
		transform: geom.Identity(),
		fill:      paint.SolidFill(paint.Black),
		quality:   paint.QualityMedium,
		alpha:     1,
	}}
}

func (c *canvas) top() *renderState { return c.states[len(c.states)-1] }

// region returns the current clip region, or nil when nothing can be
// drawn. It also brings the backend's resampling quality up to date.
func (c *canvas) region() clip.Region {
	s := c.top()
	r := s.clip.Get()
	if r != nil {
		c.be.setQuality(s.quality)
	}
	return r
}

// deviceFill returns the current fill mapped to device space.
func (c *canvas) deviceFill() paint.Fill {
	s := c.top()
	f := s.fill.Transformed(s.transform)
	f.Opacity *= s.alpha
	return f
}

func (c *canvas) SetOrigin(x, y float64) {
	s := c.top()
	s.transform = geom.Translation(x, y).Then(s.transform)
}

func (c *canvas) AddTransform(t geom.Affine) {
	s := c.top()
	s.transform = t.Then(s.transform)
}

func (c *canvas) Transform() geom.Affine { return c.top().transform }

func (c *canvas) SaveState() {
	c.states = append(c.states, c.top().clone())
}

// RestoreState pops the current state. Restoring the state pushed by
// BeginTransparencyLayer ends the layer.
func (c *canvas) RestoreState() {
	if !contract(len(c.states) > 1, "RestoreState without SaveState") {
		return
	}
	if c.top().layer != nil {
		c.EndTransparencyLayer()
		return
	}
	c.pop()
}

func (c *canvas) pop() *renderState {
	s := c.top()
	c.states = c.states[:len(c.states)-1]
	s.clip.Release()
	return s
}

func (c *canvas) SetFill(f paint.Fill) { c.top().fill = f }

func (c *canvas) Fill() paint.Fill { return c.top().fill }

func (c *canvas) SetOpacity(opacity float64) {
	c.top().fill.Opacity = min(max(opacity, 0), 1)
}

func (c *canvas) SetInterpolationQuality(q paint.ResamplingQuality) { c.top().quality = q }

func (c *canvas) SetFont(f font.Font) { c.top().font = f }

func (c *canvas) Font() font.Font { return c.top().font }

func (c *canvas) FillRect(r geom.Rect, replace bool) {
	reg := c.region()
	if reg == nil || r.IsEmpty() {
		return
	}
	t := c.top().transform
	switch {
	case t.IsIntegerTranslation():
		reg.FillRect(r.Translate(int(t.TranslationX()), int(t.TranslationY())), c.deviceFill(), replace)
	case t.IsOnlyTranslation():
		reg.FillRectF(t.TransformRect(r.ToFloat()), c.deviceFill())
	default:
		c.fillPath(reg, rectPath(r.ToFloat()), t)
	}
}

func (c *canvas) FillRectF(r geom.RectF) {
	reg := c.region()
	if reg == nil || r.IsEmpty() {
		return
	}
	t := c.top().transform
	if t.IsOnlyTranslation() {
		reg.FillRectF(t.TransformRect(r), c.deviceFill())
		return
	}
	c.fillPath(reg, rectPath(r), t)
}

func (c *canvas) FillRectList(l *geom.RectList) {
	for _, r := range l.Rects() {
		c.FillRect(r, false)
	}
}

func (c *canvas) FillPath(p *geom.Path, t geom.Affine) {
	reg := c.region()
	if reg == nil || p.IsEmpty() {
		return
	}
	c.fillPath(reg, p, t.Then(c.top().transform))
}

// fillPath fills p transformed to device space by t.
func (c *canvas) fillPath(reg clip.Region, p *geom.Path, t geom.Affine) {
	et := edgetable.FromPath(p, t, reg.Bounds())
	if et.IsEmpty() {
		return
	}
	reg.FillEdgeTable(et, c.deviceFill())
}

func (c *canvas) DrawImage(img *pixel.Image, t geom.Affine) {
	reg := c.region()
	if reg == nil || img == nil {
		return
	}
	s := c.top()
	reg.DrawImage(img, t.Then(s.transform), s.fill.Opacity*s.alpha)
}

// DrawGlyph takes glyph coverage from the shared cache when both
// transforms are translations; anything else is rasterised afresh.
func (c *canvas) DrawGlyph(g uint32, t geom.Affine) {
	reg := c.region()
	s := c.top()
	if reg == nil || s.font.Face == nil {
		return
	}
	var et *edgetable.EdgeTable
	if s.transform.IsOnlyTranslation() && t.IsOnlyTranslation() {
		d := t.Then(s.transform)
		et = c.glyphs.EdgeTable(s.font, g, d.TranslationX(), d.TranslationY())
	} else {
		et = glyph.Rasterise(s.font, g, t.Then(s.transform), reg.Bounds())
	}
	if et == nil || et.IsEmpty() {
		return
	}
	reg.FillEdgeTable(et, c.deviceFill())
}

func (c *canvas) DrawLine(l geom.Line) {
	c.FillPath(l.ToPath(1), geom.Identity())
}

func (c *canvas) Flush() { c.be.flush() }

// Close ends any open transparency layers and releases the context. The
// target keeps what was drawn.
func (c *canvas) Close() error {
	if c.closed {
		return nil
	}
	for len(c.states) > 1 {
		if c.top().layer != nil {
			c.EndTransparencyLayer()
		} else {
			c.pop()
		}
	}
	c.be.flush()
	c.top().clip.Release()
	c.be.release()
	c.closed = true
	return nil
}

func rectPath(r geom.RectF) *geom.Path {
	p := geom.NewPath()
	p.AddRect(r)
	return p
}
