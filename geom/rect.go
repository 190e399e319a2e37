// Package geom provides the geometry shared by every layer of glcanvas:
// points, integer and float rectangles, affine transforms, vector paths and
// rectangle lists.
//
// # Coordinate System
//
// All coordinates are device pixels with the origin at the top-left corner,
// X increasing to the right and Y increasing downwards. The GPU layer is
// responsible for translating to the bottom-up convention used by OpenGL.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is an integer rectangle given by its top-left corner and size.
// A Rect with a non-positive width or height is empty.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromEdges creates a Rect from its left, top, right and bottom edges.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return RectFromEdges(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns the number of pixels covered, or zero for an empty rectangle.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// Intersect returns the intersection of r and s.
// The result is the zero Rect if they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	left := max(r.X, s.X)
	top := max(r.Y, s.Y)
	right := min(r.Right(), s.Right())
	bottom := min(r.Bottom(), s.Bottom())
	if right <= left || bottom <= top {
		return Rect{}
	}
	return RectFromEdges(left, top, right, bottom)
}

// Intersects reports whether r and s share at least one pixel.
func (r Rect) Intersects(s Rect) bool {
	return !r.Intersect(s).IsEmpty()
}

// Union returns the smallest rectangle containing both r and s.
// Empty rectangles are ignored.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return RectFromEdges(min(r.X, s.X), min(r.Y, s.Y), max(r.Right(), s.Right()), max(r.Bottom(), s.Bottom()))
}

// Contains reports whether s lies entirely within r.
func (r Rect) Contains(s Rect) bool {
	if s.IsEmpty() {
		return true
	}
	return s.X >= r.X && s.Y >= r.Y && s.Right() <= r.Right() && s.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether the pixel (x, y) lies within r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.Right() && y < r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// WithOrigin returns r moved so its top-left corner is at the origin.
func (r Rect) WithOrigin() Rect {
	return Rect{W: r.W, H: r.H}
}

// ToImage converts r to an image.Rectangle.
func (r Rect) ToImage() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// ToFloat converts r to a RectF.
func (r Rect) ToFloat() RectF {
	return RectF{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// RectF is a rectangle with float64 coordinates.
type RectF struct {
	X, Y float64
	W, H float64
}

// NewRectF creates a RectF from position and size.
func NewRectF(x, y, w, h float64) RectF {
	return RectF{X: x, Y: y, W: w, H: h}
}

// Right returns the right edge x-coordinate.
func (r RectF) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge y-coordinate.
func (r RectF) Bottom() float64 { return r.Y + r.H }

// IsEmpty reports whether the rectangle has no area.
func (r RectF) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Enclosing returns the smallest integer rectangle that contains r.
func (r RectF) Enclosing() Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	left := int(math.Floor(r.X))
	top := int(math.Floor(r.Y))
	right := int(math.Ceil(r.Right()))
	bottom := int(math.Ceil(r.Bottom()))
	return RectFromEdges(left, top, right, bottom)
}

// IsInteger reports whether all edges of r lie on whole pixel boundaries.
func (r RectF) IsInteger() bool {
	return r.X == math.Trunc(r.X) && r.Y == math.Trunc(r.Y) &&
		r.W == math.Trunc(r.W) && r.H == math.Trunc(r.H)
}

// Round converts r to an integer rectangle by rounding each edge.
func (r RectF) Round() Rect {
	left := int(math.Round(r.X))
	top := int(math.Round(r.Y))
	return RectFromEdges(left, top, int(math.Round(r.Right())), int(math.Round(r.Bottom())))
}

// Intersect returns the intersection of r and s, or the zero RectF.
func (r RectF) Intersect(s RectF) RectF {
	left := math.Max(r.X, s.X)
	top := math.Max(r.Y, s.Y)
	right := math.Min(r.Right(), s.Right())
	bottom := math.Min(r.Bottom(), s.Bottom())
	if right <= left || bottom <= top {
		return RectF{}
	}
	return RectF{X: left, Y: top, W: right - left, H: bottom - top}
}
