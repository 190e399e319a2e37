package geom

import "math"

// SegmentOp identifies the kind of a path segment.
type SegmentOp uint8

const (
	// OpMoveTo starts a new sub-path.
	OpMoveTo SegmentOp = iota
	// OpLineTo draws a straight line.
	OpLineTo
	// OpQuadTo draws a quadratic Bézier curve.
	OpQuadTo
	// OpCubicTo draws a cubic Bézier curve.
	OpCubicTo
	// OpClose closes the current sub-path.
	OpClose
)

// Segment is one element of a Path.
//   - MoveTo, LineTo: Points[0] is the target point
//   - QuadTo: Points[0] is the control point, Points[1] the target
//   - CubicTo: Points[0], Points[1] are controls, Points[2] the target
type Segment struct {
	Op     SegmentOp
	Points [3]Point
}

// Path is a sequence of sub-paths made of lines and curves.
// The zero value is an empty path ready to use.
type Path struct {
	segments []Segment
	start    Point
	current  Point
	open     bool
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new sub-path at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.segments = append(p.segments, Segment{Op: OpMoveTo, Points: [3]Point{pt}})
	p.start = pt
	p.current = pt
	p.open = true
}

func (p *Path) ensureStarted() {
	if !p.open {
		p.MoveTo(p.current.X, p.current.Y)
	}
}

// LineTo adds a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.ensureStarted()
	pt := Pt(x, y)
	p.segments = append(p.segments, Segment{Op: OpLineTo, Points: [3]Point{pt}})
	p.current = pt
}

// QuadTo adds a quadratic Bézier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.ensureStarted()
	pt := Pt(x, y)
	p.segments = append(p.segments, Segment{Op: OpQuadTo, Points: [3]Point{Pt(cx, cy), pt}})
	p.current = pt
}

// CubicTo adds a cubic Bézier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.ensureStarted()
	pt := Pt(x, y)
	p.segments = append(p.segments, Segment{Op: OpCubicTo, Points: [3]Point{Pt(c1x, c1y), Pt(c2x, c2y), pt}})
	p.current = pt
}

// Close closes the current sub-path.
func (p *Path) Close() {
	if !p.open {
		return
	}
	p.segments = append(p.segments, Segment{Op: OpClose})
	p.current = p.start
	p.open = false
}

// AddRect adds a closed rectangular sub-path.
func (p *Path) AddRect(r RectF) {
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.Right(), r.Y)
	p.LineTo(r.Right(), r.Bottom())
	p.LineTo(r.X, r.Bottom())
	p.Close()
}

// AddRectList adds one rectangular sub-path per rectangle of l.
func (p *Path) AddRectList(l *RectList) {
	for _, r := range l.Rects() {
		p.AddRect(r.ToFloat())
	}
}

// AddEllipse adds a closed ellipse inscribed in r, approximated by four
// cubic curves.
func (p *Path) AddEllipse(r RectF) {
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	rx, ry := r.W/2, r.H/2
	cx, cy := r.X+rx, r.Y+ry
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ry*k, cx+rx*k, cy+ry, cx, cy+ry)
	p.CubicTo(cx-rx*k, cy+ry, cx-rx, cy+ry*k, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ry*k, cx-rx*k, cy-ry, cx, cy-ry)
	p.CubicTo(cx+rx*k, cy-ry, cx+rx, cy-ry*k, cx+rx, cy)
	p.Close()
}

// Segments returns the path's segments. The slice must not be modified.
func (p *Path) Segments() []Segment {
	return p.segments
}

// IsEmpty reports whether the path has no drawing segments.
func (p *Path) IsEmpty() bool {
	for _, s := range p.segments {
		if s.Op != OpMoveTo && s.Op != OpClose {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of all points of the path, including
// control points.
func (p *Path) Bounds() RectF {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range p.segments {
		for _, pt := range s.points() {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if minX > maxX {
		return RectF{}
	}
	return RectF{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Transformed returns a copy of the path with t applied to every point.
func (p *Path) Transformed(t Affine) *Path {
	out := &Path{
		segments: make([]Segment, len(p.segments)),
		start:    t.Apply(p.start),
		current:  t.Apply(p.current),
		open:     p.open,
	}
	for i, s := range p.segments {
		out.segments[i].Op = s.Op
		for j := range s.points() {
			out.segments[i].Points[j] = t.Apply(s.Points[j])
		}
	}
	return out
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	out := *p
	out.segments = append([]Segment(nil), p.segments...)
	return &out
}

func (s Segment) points() []Point {
	switch s.Op {
	case OpMoveTo, OpLineTo:
		return s.Points[:1]
	case OpQuadTo:
		return s.Points[:2]
	case OpCubicTo:
		return s.Points[:3]
	default:
		return nil
	}
}

// Line is a straight line between two points.
type Line struct {
	Start, End Point
}

// ToPath returns the line as a closed quadrilateral of the given thickness.
// A degenerate line yields an empty path.
func (l Line) ToPath(thickness float64) *Path {
	p := NewPath()
	dx, dy := l.End.X-l.Start.X, l.End.Y-l.Start.Y
	length := math.Hypot(dx, dy)
	if length == 0 || thickness <= 0 {
		return p
	}
	nx := -dy / length * thickness / 2
	ny := dx / length * thickness / 2
	p.MoveTo(l.Start.X+nx, l.Start.Y+ny)
	p.LineTo(l.End.X+nx, l.End.Y+ny)
	p.LineTo(l.End.X-nx, l.End.Y-ny)
	p.LineTo(l.Start.X-nx, l.Start.Y-ny)
	p.Close()
	return p
}
