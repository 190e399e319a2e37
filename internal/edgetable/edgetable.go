// Package edgetable turns shapes into per-scanline coverage.
//
// An [EdgeTable] covers an integer rectangle in device space and holds an
// 8-bit coverage level per pixel. Consumers walk it as horizontal spans of
// equal coverage with [EdgeTable.Iterate]; the GPU mask code uploads it
// whole with [EdgeTable.AlphaImage].
//
// Paths are scan-converted by golang.org/x/image/vector, and images are
// resampled by golang.org/x/image/draw.
package edgetable

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// Span is a run of pixels on one scanline with the same coverage.
type Span struct {
	X, Width int
	Level    uint8
}

// EdgeTable is coverage over a rectangle of device pixels. Pixels outside
// Bounds have no coverage.
type EdgeTable struct {
	cov *image.Alpha // Rect is the device-space bounds
}

func newTable(bounds geom.Rect) *EdgeTable {
	if bounds.IsEmpty() {
		bounds = geom.Rect{}
	}
	return &EdgeTable{cov: image.NewAlpha(bounds.ToImage())}
}

// Empty returns a table with no coverage.
func Empty() *EdgeTable { return newTable(geom.Rect{}) }

// FromRect returns full coverage over r.
func FromRect(r geom.Rect) *EdgeTable {
	et := newTable(r)
	for i := range et.cov.Pix {
		et.cov.Pix[i] = 0xff
	}
	return et
}

// FromRectList returns full coverage over every rectangle of l.
func FromRectList(l *geom.RectList) *EdgeTable {
	et := newTable(l.Bounds())
	for _, r := range l.Rects() {
		draw.Draw(et.cov, r.ToImage(), image.Opaque, image.Point{}, draw.Src)
	}
	return et
}

// FromRectF returns the antialiased coverage of r transformed by t,
// limited to clip.
func FromRectF(r geom.RectF, t geom.Affine, clip geom.Rect) *EdgeTable {
	if t.IsOnlyTranslation() {
		moved := geom.NewRectF(r.X+t.TranslationX(), r.Y+t.TranslationY(), r.W, r.H)
		if moved.IsInteger() {
			return FromRect(moved.Round().Intersect(clip))
		}
	}
	p := geom.NewPath()
	p.AddRect(r)
	return FromPath(p, t, clip)
}

// FromPath scan-converts path transformed by t, limited to clip.
func FromPath(path *geom.Path, t geom.Affine, clip geom.Rect) *EdgeTable {
	bounds := t.TransformRect(path.Bounds()).Enclosing().Intersect(clip)
	if bounds.IsEmpty() || path.IsEmpty() {
		return Empty()
	}

	// The rasterizer covers the whole enclosing box so that clipping does not
	// change the winding; the result is then cut to bounds.
	full := t.TransformRect(path.Bounds()).Enclosing()
	ox, oy := float64(full.X), float64(full.Y)
	z := vector.NewRasterizer(full.W, full.H)
	z.DrawOp = draw.Src
	pt := func(p geom.Point) (float32, float32) {
		q := t.Apply(p)
		return float32(q.X - ox), float32(q.Y - oy)
	}
	for _, s := range path.Segments() {
		switch s.Op {
		case geom.OpMoveTo:
			z.MoveTo(pt(s.Points[0]))
		case geom.OpLineTo:
			z.LineTo(pt(s.Points[0]))
		case geom.OpQuadTo:
			cx, cy := pt(s.Points[0])
			x, y := pt(s.Points[1])
			z.QuadTo(cx, cy, x, y)
		case geom.OpCubicTo:
			c1x, c1y := pt(s.Points[0])
			c2x, c2y := pt(s.Points[1])
			x, y := pt(s.Points[2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case geom.OpClose:
			z.ClosePath()
		}
	}
	z.ClosePath()

	et := newTable(full)
	z.Draw(et.cov, full.ToImage(), image.Opaque, image.Point{})
	et.ClipToRect(bounds)
	return et
}

// FromAlpha copies a coverage image, placing its top-left pixel at origin.
func FromAlpha(a *image.Alpha, origin image.Point) *EdgeTable {
	b := a.Bounds()
	et := newTable(geom.NewRect(origin.X, origin.Y, b.Dx(), b.Dy()))
	draw.Draw(et.cov, et.cov.Rect, a, b.Min, draw.Src)
	return et
}

// FromImageAlpha returns the alpha channel of img transformed by t into
// device space, limited to clip. quality selects the resampling filter for
// transforms that are not integer translations.
func FromImageAlpha(img *pixel.Image, t geom.Affine, clip geom.Rect, quality paint.ResamplingQuality) *EdgeTable {
	src := img.ReadPixels(img.Bounds())
	bounds := t.TransformRect(img.Bounds().ToFloat()).Enclosing().Intersect(clip)
	if bounds.IsEmpty() || t.IsSingular() {
		return Empty()
	}
	et := newTable(bounds)
	if t.IsIntegerTranslation() {
		at := image.Pt(int(t.TranslationX()), int(t.TranslationY()))
		draw.Draw(et.cov, et.cov.Rect, src, et.cov.Rect.Min.Sub(at), draw.Src)
		return et
	}
	quality.Interpolator().Transform(et.cov, t.ToF64(), src, src.Bounds(), draw.Src, nil)
	return et
}

// Bounds returns the rectangle the table covers.
func (et *EdgeTable) Bounds() geom.Rect { return geom.RectFromImage(et.cov.Rect) }

// IsEmpty reports whether no pixel has coverage.
func (et *EdgeTable) IsEmpty() bool {
	for _, v := range et.cov.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// CoverageAt returns the coverage of one pixel.
func (et *EdgeTable) CoverageAt(x, y int) uint8 {
	return et.cov.AlphaAt(x, y).A
}

// ClipToRect removes coverage outside r and shrinks the bounds.
func (et *EdgeTable) ClipToRect(r geom.Rect) {
	nb := et.Bounds().Intersect(r)
	if nb == et.Bounds() {
		return
	}
	if nb.IsEmpty() {
		et.cov = image.NewAlpha(image.Rectangle{})
		return
	}
	sub := et.cov.SubImage(nb.ToImage()).(*image.Alpha)
	cov := image.NewAlpha(sub.Rect)
	draw.Draw(cov, cov.Rect, sub, sub.Rect.Min, draw.Src)
	et.cov = cov
}

// ClipToEdgeTable multiplies the coverage by o's coverage.
func (et *EdgeTable) ClipToEdgeTable(o *EdgeTable) {
	et.ClipToRect(o.Bounds())
	b := et.cov.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := et.cov.PixOffset(x, y)
			et.cov.Pix[i] = mul8(et.cov.Pix[i], o.cov.Pix[o.cov.PixOffset(x, y)])
		}
	}
}

// Translate moves the table by whole pixels.
func (et *EdgeTable) Translate(dx, dy int) {
	et.cov.Rect = et.cov.Rect.Add(image.Pt(dx, dy))
}

// Iterate calls fn for every run of non-zero coverage, top to bottom and
// left to right.
func (et *EdgeTable) Iterate(fn func(y int, s Span)) {
	et.iterate(et.cov.Rect, fn)
}

// IterateIn is Iterate restricted to the pixels inside r.
func (et *EdgeTable) IterateIn(r geom.Rect, fn func(y int, s Span)) {
	et.iterate(et.cov.Rect.Intersect(r.ToImage()), fn)
}

func (et *EdgeTable) iterate(b image.Rectangle, fn func(y int, s Span)) {
	if b.Empty() {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := et.cov.Pix[et.cov.PixOffset(b.Min.X, y):][:b.Dx()]
		for i := 0; i < len(row); {
			level := row[i]
			j := i + 1
			for j < len(row) && row[j] == level {
				j++
			}
			if level != 0 {
				fn(y, Span{X: b.Min.X + i, Width: j - i, Level: level})
			}
			i = j
		}
	}
}

// ExcludeRect removes the coverage inside r.
func (et *EdgeTable) ExcludeRect(r geom.Rect) {
	b := et.cov.Rect.Intersect(r.ToImage())
	if b.Empty() {
		return
	}
	draw.Draw(et.cov, b, image.Transparent, image.Point{}, draw.Src)
}

// AlphaImage returns the coverage as a top-down image whose bounds are the
// table's bounds. The image is shared with the table.
func (et *EdgeTable) AlphaImage() *image.Alpha { return et.cov }

// Clone returns an independent copy.
func (et *EdgeTable) Clone() *EdgeTable {
	cov := image.NewAlpha(et.cov.Rect)
	copy(cov.Pix, et.cov.Pix)
	return &EdgeTable{cov: cov}
}

// Invert replaces the coverage c of every pixel in bounds by 255-c. Pixels
// of bounds outside the table become fully covered.
func (et *EdgeTable) Invert(bounds geom.Rect) {
	out := newTable(bounds)
	for y := out.cov.Rect.Min.Y; y < out.cov.Rect.Max.Y; y++ {
		for x := out.cov.Rect.Min.X; x < out.cov.Rect.Max.X; x++ {
			out.cov.SetAlpha(x, y, color.Alpha{A: 255 - et.CoverageAt(x, y)})
		}
	}
	et.cov = out.cov
}

func mul8(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}
