package glcanvas

import (
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/clip"
	"github.com/gogpu/glcanvas/pixel"
)

// applyClip runs op on the current state's own copy of the clip region.
func (c *canvas) applyClip(op func(clip.Region) clip.Region) {
	c.top().clip.Apply(op)
}

// ClipToRectangle intersects the clip with r and reports whether anything
// remains.
func (c *canvas) ClipToRectangle(r geom.Rect) bool {
	t := c.top().transform
	if t.IsIntegerTranslation() {
		d := r.Translate(int(t.TranslationX()), int(t.TranslationY()))
		c.applyClip(func(reg clip.Region) clip.Region { return reg.ClipToRectangle(d) })
	} else {
		c.ClipToPath(rectPath(r.ToFloat()), geom.Identity())
	}
	return !c.IsClipEmpty()
}

// ClipToRectangleList intersects the clip with the union of l.
func (c *canvas) ClipToRectangleList(l *geom.RectList) bool {
	t := c.top().transform
	if t.IsIntegerTranslation() {
		d := l.Clone()
		d.Offset(int(t.TranslationX()), int(t.TranslationY()))
		c.applyClip(func(reg clip.Region) clip.Region { return reg.ClipToRectangleList(d) })
	} else {
		p := geom.NewPath()
		p.AddRectList(l)
		c.ClipToPath(p, geom.Identity())
	}
	return !c.IsClipEmpty()
}

func (c *canvas) ClipToPath(p *geom.Path, t geom.Affine) {
	d := t.Then(c.top().transform)
	c.applyClip(func(reg clip.Region) clip.Region { return reg.ClipToPath(p, d) })
}

func (c *canvas) ClipToImageAlpha(img *pixel.Image, t geom.Affine) {
	d := t.Then(c.top().transform)
	c.applyClip(func(reg clip.Region) clip.Region { return reg.ClipToImageAlpha(img, d) })
}

// ExcludeClipRectangle removes r from the clip. Under a transform that is
// not a whole-pixel translation the clip is intersected with the
// complement of r within the clip bounds.
func (c *canvas) ExcludeClipRectangle(r geom.Rect) {
	if r.IsEmpty() {
		return
	}
	t := c.top().transform
	if t.IsIntegerTranslation() {
		d := r.Translate(int(t.TranslationX()), int(t.TranslationY()))
		c.applyClip(func(reg clip.Region) clip.Region { return reg.ExcludeClipRectangle(d) })
		return
	}
	if t.IsSingular() {
		return
	}
	c.applyClip(func(reg clip.Region) clip.Region {
		return reg.ClipToPath(complementPath(reg.Bounds(), r.ToFloat(), t), geom.Identity())
	})
}

// complementPath returns a device-space path covering bounds minus r
// transformed by t. The hole winds against the outline so that the two
// cancel under the non-zero rule.
func complementPath(bounds geom.Rect, r geom.RectF, t geom.Affine) *geom.Path {
	p := geom.NewPath()
	p.AddRect(bounds.ToFloat())
	corners := [4]geom.Point{
		t.Apply(geom.Pt(r.X, r.Y)),
		t.Apply(geom.Pt(r.Right(), r.Y)),
		t.Apply(geom.Pt(r.Right(), r.Bottom())),
		t.Apply(geom.Pt(r.X, r.Bottom())),
	}
	if t.Determinant() > 0 {
		corners[1], corners[3] = corners[3], corners[1]
	}
	p.MoveTo(corners[0].X, corners[0].Y)
	for _, q := range corners[1:] {
		p.LineTo(q.X, q.Y)
	}
	p.Close()
	return p
}

func (c *canvas) ClipRegionIntersects(r geom.Rect) bool {
	reg := c.top().clip.Get()
	if reg == nil {
		return false
	}
	return reg.Intersects(c.toDevice(r))
}

// ClipBounds returns the clip bounds in user space, or an empty rectangle.
func (c *canvas) ClipBounds() geom.Rect {
	s := c.top()
	reg := s.clip.Get()
	if reg == nil {
		return geom.Rect{}
	}
	b := reg.Bounds()
	t := s.transform
	if t.IsIntegerTranslation() {
		return b.Translate(-int(t.TranslationX()), -int(t.TranslationY()))
	}
	if t.IsSingular() {
		return geom.Rect{}
	}
	return t.Inverted().TransformRect(b.ToFloat()).Enclosing()
}

func (c *canvas) IsClipEmpty() bool { return c.top().clip.IsEmpty() }

// toDevice returns a device rectangle enclosing r.
func (c *canvas) toDevice(r geom.Rect) geom.Rect {
	t := c.top().transform
	if t.IsIntegerTranslation() {
		return r.Translate(int(t.TranslationX()), int(t.TranslationY()))
	}
	return t.TransformRect(r.ToFloat()).Enclosing()
}
