// Package clip implements clip regions.
//
// A region is either a list of non-overlapping rectangles or a coverage
// mask. Rectangle lists are cheap to intersect and subtract, so a region
// stays one until a path, an alpha image or too many exclusions force a
// promotion to a mask. An empty region is represented by a nil [Region];
// operations that empty a region release it and return nil.
//
// Regions draw as well as clip: the fill operations composite a fill
// through the region into the current target of their device. GPU regions
// draw with a [gpu.State] and keep masks in framebuffers; software regions
// draw with a [raster.Renderer] and keep masks as edge tables.
package clip

import (
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/edgetable"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// DefaultRectangleBudget is the number of rectangles a rectangle list may
// hold after an exclusion before it is promoted to a mask.
const DefaultRectangleBudget = 256

// Kind is the representation of a region.
type Kind int

const (
	KindRectangleList Kind = iota
	KindMask
)

func (k Kind) String() string {
	if k == KindMask {
		return "mask"
	}
	return "rectangle-list"
}

// Region is a non-empty clip region in device space.
//
// Operations returning a Region replace the receiver: the result may be
// the receiver itself, a promoted region, or nil when the region became
// empty. The receiver must not be used afterwards.
type Region interface {
	Kind() Kind

	// Bounds returns a rectangle enclosing the region.
	Bounds() geom.Rect

	// Clone returns an independent copy, or nil if the copy could not be
	// allocated.
	Clone() Region

	// Intersects reports whether r overlaps the region's rectangles or,
	// for masks, its bounds.
	Intersects(r geom.Rect) bool

	ClipToRectangle(r geom.Rect) Region
	ClipToRectangleList(l *geom.RectList) Region
	ExcludeClipRectangle(r geom.Rect) Region
	ClipToPath(p *geom.Path, t geom.Affine) Region
	ClipToImageAlpha(img *pixel.Image, t geom.Affine) Region

	// FillRect fills area through the region. With replace the covered
	// pixels take the fill's value instead of having it composited over
	// them.
	FillRect(area geom.Rect, fill paint.Fill, replace bool)
	FillRectF(area geom.RectF, fill paint.Fill)
	FillEdgeTable(et *edgetable.EdgeTable, fill paint.Fill)

	// DrawImage draws img transformed by t into device space at opacity.
	DrawImage(img *pixel.Image, t geom.Affine, opacity float64)

	// Release frees any GPU or CPU storage.
	Release()
}

// fillRectF implements FillRectF for every region kind: integer rectangles
// take the FillRect path, others are antialiased through an edge table.
func fillRectF(r Region, area geom.RectF, fill paint.Fill) {
	if area.IsInteger() {
		r.FillRect(area.Round(), fill, false)
		return
	}
	r.FillEdgeTable(edgetable.FromRectF(area, geom.Identity(), r.Bounds()), fill)
}

// drawImage implements DrawImage as an image fill of the image's outline.
func drawImage(r Region, img *pixel.Image, t geom.Affine, opacity float64) {
	if opacity <= 0 || t.IsSingular() {
		return
	}
	fill := paint.ImageFill(img, t, false)
	fill.Opacity = min(opacity, 1)
	if t.IsIntegerTranslation() {
		b := img.Bounds()
		r.FillRect(b.Translate(int(t.TranslationX()), int(t.TranslationY())), fill, false)
		return
	}
	r.FillEdgeTable(edgetable.FromRectF(img.Bounds().ToFloat(), t, r.Bounds()), fill)
}

// rectsOf returns l restricted to bounds, or nil if nothing is left.
func rectsOf(l *geom.RectList, bounds geom.Rect) *geom.RectList {
	c := l.Clone()
	if !c.ClipTo(bounds) {
		return nil
	}
	return c
}
