package clip

import (
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/edgetable"
	"github.com/gogpu/glcanvas/internal/raster"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// SoftwareDevice is what software regions draw with.
type SoftwareDevice struct {
	Renderer        *raster.Renderer
	RectangleBudget int
}

func (d *SoftwareDevice) budget() int {
	if d.RectangleBudget <= 0 {
		return DefaultRectangleBudget
	}
	return d.RectangleBudget
}

// NewSoftwareRegion returns a rectangle-list region covering bounds, or
// nil if bounds is empty.
func NewSoftwareRegion(d *SoftwareDevice, bounds geom.Rect) Region {
	if bounds.IsEmpty() {
		return nil
	}
	return &softRects{d: d, list: geom.NewRectList(bounds)}
}

type softRects struct {
	d    *SoftwareDevice
	list *geom.RectList
}

func (c *softRects) Kind() Kind                  { return KindRectangleList }
func (c *softRects) Bounds() geom.Rect           { return c.list.Bounds() }
func (c *softRects) Intersects(r geom.Rect) bool { return c.list.Intersects(r) }
func (c *softRects) Release()                    {}

func (c *softRects) Clone() Region {
	return &softRects{d: c.d, list: c.list.Clone()}
}

func (c *softRects) ClipToRectangle(r geom.Rect) Region {
	if !c.list.ClipTo(r) {
		return nil
	}
	return c
}

func (c *softRects) ClipToRectangleList(l *geom.RectList) Region {
	if !c.list.ClipToList(l) {
		return nil
	}
	return c
}

func (c *softRects) ExcludeClipRectangle(r geom.Rect) Region {
	c.list.Subtract(r)
	switch {
	case c.list.IsEmpty():
		return nil
	case c.list.Count() > c.d.budget():
		return c.toMask()
	}
	return c
}

func (c *softRects) toMask() *softMask {
	return &softMask{d: c.d, et: edgetable.FromRectList(c.list)}
}

func (c *softRects) ClipToPath(p *geom.Path, t geom.Affine) Region {
	return c.toMask().ClipToPath(p, t)
}

func (c *softRects) ClipToImageAlpha(img *pixel.Image, t geom.Affine) Region {
	return c.toMask().ClipToImageAlpha(img, t)
}

func (c *softRects) FillRect(area geom.Rect, fill paint.Fill, replace bool) {
	for _, r := range c.list.Rects() {
		c.d.Renderer.FillRect(r.Intersect(area), fill, replace)
	}
}

func (c *softRects) FillRectF(area geom.RectF, fill paint.Fill) { fillRectF(c, area, fill) }

func (c *softRects) FillEdgeTable(et *edgetable.EdgeTable, fill paint.Fill) {
	for _, r := range c.list.Rects() {
		c.d.Renderer.FillEdgeTable(et, r, fill)
	}
}

func (c *softRects) DrawImage(img *pixel.Image, t geom.Affine, opacity float64) {
	drawImage(c, img, t, opacity)
}

// softMask keeps its coverage as an edge table.
type softMask struct {
	d  *SoftwareDevice
	et *edgetable.EdgeTable
}

func (m *softMask) Kind() Kind                  { return KindMask }
func (m *softMask) Bounds() geom.Rect           { return m.et.Bounds() }
func (m *softMask) Intersects(r geom.Rect) bool { return m.et.Bounds().Intersects(r) }
func (m *softMask) Release()                    { m.et = nil }

func (m *softMask) Clone() Region {
	return &softMask{d: m.d, et: m.et.Clone()}
}

// result returns m, or nil once its coverage is gone.
func (m *softMask) result() Region {
	if m.et.IsEmpty() {
		m.Release()
		return nil
	}
	return m
}

func (m *softMask) ClipToRectangle(r geom.Rect) Region {
	m.et.ClipToRect(r)
	return m.result()
}

func (m *softMask) ClipToRectangleList(l *geom.RectList) Region {
	inside := rectsOf(l, m.et.Bounds())
	if inside == nil {
		m.Release()
		return nil
	}
	m.et.ClipToEdgeTable(edgetable.FromRectList(inside))
	return m.result()
}

func (m *softMask) ExcludeClipRectangle(r geom.Rect) Region {
	m.et.ExcludeRect(r)
	return m.result()
}

func (m *softMask) ClipToPath(p *geom.Path, t geom.Affine) Region {
	m.et.ClipToEdgeTable(edgetable.FromPath(p, t, m.et.Bounds()))
	return m.result()
}

func (m *softMask) ClipToImageAlpha(img *pixel.Image, t geom.Affine) Region {
	m.et.ClipToEdgeTable(edgetable.FromImageAlpha(img, t, m.et.Bounds(), m.d.Renderer.Quality))
	return m.result()
}

func (m *softMask) FillRect(area geom.Rect, fill paint.Fill, replace bool) {
	area = area.Intersect(m.et.Bounds())
	if area.IsEmpty() {
		return
	}
	cov := edgetable.FromRect(area)
	cov.ClipToEdgeTable(m.et)
	if replace {
		m.d.Renderer.ReplaceEdgeTable(cov, fill)
		return
	}
	m.d.Renderer.FillEdgeTable(cov, area, fill)
}

func (m *softMask) FillRectF(area geom.RectF, fill paint.Fill) { fillRectF(m, area, fill) }

func (m *softMask) FillEdgeTable(et *edgetable.EdgeTable, fill paint.Fill) {
	cov := et.Clone()
	cov.ClipToEdgeTable(m.et)
	m.d.Renderer.FillEdgeTable(cov, cov.Bounds(), fill)
}

func (m *softMask) DrawImage(img *pixel.Image, t geom.Affine, opacity float64) {
	drawImage(m, img, t, opacity)
}
