// Package raster composites fills into CPU images.
//
// A [Renderer] draws into a stack of top-down premultiplied *image.RGBA
// targets whose Rect is their placement in device space, mirroring how
// the GPU path tracks its render targets. Coverage comes from edge tables;
// compositing uses the operators in package blend.
package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/blend"
	"github.com/gogpu/glcanvas/internal/edgetable"
	"github.com/gogpu/glcanvas/paint"
)

// Renderer draws fills into the current target.
type Renderer struct {
	target  *image.RGBA
	targets []*image.RGBA

	// Quality selects image resampling.
	Quality paint.ResamplingQuality
}

// NewRenderer returns a renderer drawing into target.
func NewRenderer(target *image.RGBA) *Renderer {
	return &Renderer{target: target, Quality: paint.QualityMedium}
}

// Target returns the image being drawn into.
func (r *Renderer) Target() *image.RGBA { return r.target }

// Bounds returns the device rectangle of the current target.
func (r *Renderer) Bounds() geom.Rect { return geom.RectFromImage(r.target.Rect) }

// PushTarget redirects drawing to t until the matching PopTarget.
func (r *Renderer) PushTarget(t *image.RGBA) {
	r.targets = append(r.targets, r.target)
	r.target = t
}

// PopTarget returns to the previous target.
func (r *Renderer) PopTarget() {
	if len(r.targets) == 0 {
		return
	}
	r.target = r.targets[len(r.targets)-1]
	r.targets = r.targets[:len(r.targets)-1]
}

// FillRect fills area. With replace the pixels take the fill's value
// instead of having it composited over them.
func (r *Renderer) FillRect(area geom.Rect, fill paint.Fill, replace bool) {
	area = area.Intersect(r.Bounds())
	if area.IsEmpty() {
		return
	}
	mode := blend.BlendSourceOver
	if replace {
		mode = blend.BlendSource
	} else if fill.IsInvisible() {
		return
	}
	src := newSource(fill, r.Quality)
	for y := area.Y; y < area.Bottom(); y++ {
		r.span(src, mode, y, area.X, area.W, 255)
	}
}

// FillEdgeTable composites fill through the coverage of et, limited to
// within.
func (r *Renderer) FillEdgeTable(et *edgetable.EdgeTable, within geom.Rect, fill paint.Fill) {
	if fill.IsInvisible() {
		return
	}
	src := newSource(fill, r.Quality)
	et.IterateIn(within.Intersect(r.Bounds()), func(y int, s edgetable.Span) {
		r.span(src, blend.BlendSourceOver, y, s.X, s.Width, s.Level)
	})
}

// ReplaceEdgeTable moves every pixel under et towards the fill's value by
// its coverage, without compositing.
func (r *Renderer) ReplaceEdgeTable(et *edgetable.EdgeTable, fill paint.Fill) {
	src := newSource(fill, r.Quality)
	et.IterateIn(r.Bounds(), func(y int, s edgetable.Span) {
		r.span(src, blend.BlendSource, y, s.X, s.Width, s.Level)
	})
}

func (r *Renderer) span(src source, mode blend.BlendMode, y, x, w int, level uint8) {
	row := r.target.Pix[r.target.PixOffset(x, y):][:w*4]
	if c, ok := src.(solidSource); ok {
		blend.SolidSpan(mode, row, color.RGBA(c), level)
		return
	}
	buf := make([]color.RGBA, w)
	src.span(x, y, buf)
	blend.Span(mode, row, buf, level)
}
