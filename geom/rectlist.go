package geom

// RectList is a union of non-overlapping integer rectangles.
//
// Every mutation keeps the list normalised: no two rectangles overlap and
// rectangles that share a full edge are merged. The order of the
// rectangles is not significant.
type RectList struct {
	rects []Rect
}

// NewRectList creates a list holding the given rectangles.
func NewRectList(rects ...Rect) *RectList {
	l := &RectList{}
	for _, r := range rects {
		l.Add(r)
	}
	return l
}

// Rects returns the rectangles of the list. The slice must not be modified.
func (l *RectList) Rects() []Rect {
	return l.rects
}

// Count returns the number of rectangles.
func (l *RectList) Count() int {
	return len(l.rects)
}

// IsEmpty reports whether the list covers no pixels.
func (l *RectList) IsEmpty() bool {
	return len(l.rects) == 0
}

// Clear removes all rectangles.
func (l *RectList) Clear() {
	l.rects = l.rects[:0]
}

// Clone returns an independent copy of the list.
func (l *RectList) Clone() *RectList {
	return &RectList{rects: append([]Rect(nil), l.rects...)}
}

// Bounds returns the smallest rectangle containing every rectangle.
func (l *RectList) Bounds() Rect {
	var b Rect
	for _, r := range l.rects {
		b = b.Union(r)
	}
	return b
}

// Area returns the number of pixels covered.
func (l *RectList) Area() int {
	n := 0
	for _, r := range l.rects {
		n += r.Area()
	}
	return n
}

// Add merges r into the union.
func (l *RectList) Add(r Rect) {
	if r.IsEmpty() {
		return
	}
	pieces := []Rect{r}
	for _, existing := range l.rects {
		var next []Rect
		for _, p := range pieces {
			next = appendDifference(next, p, existing)
		}
		pieces = next
		if len(pieces) == 0 {
			return
		}
	}
	l.rects = append(l.rects, pieces...)
	l.merge()
}

// AddList merges every rectangle of other into the union.
func (l *RectList) AddList(other *RectList) {
	for _, r := range other.rects {
		l.Add(r)
	}
}

// Subtract removes r from the union.
func (l *RectList) Subtract(r Rect) {
	if r.IsEmpty() || len(l.rects) == 0 {
		return
	}
	out := make([]Rect, 0, len(l.rects)+3)
	for _, existing := range l.rects {
		out = appendDifference(out, existing, r)
	}
	l.rects = out
	l.merge()
}

// SubtractList removes every rectangle of other from the union.
func (l *RectList) SubtractList(other *RectList) {
	for _, r := range other.rects {
		l.Subtract(r)
	}
}

// ClipTo intersects the union with r and reports whether anything remains.
func (l *RectList) ClipTo(r Rect) bool {
	out := l.rects[:0]
	for _, existing := range l.rects {
		if i := existing.Intersect(r); !i.IsEmpty() {
			out = append(out, i)
		}
	}
	l.rects = out
	l.merge()
	return len(l.rects) > 0
}

// ClipToList intersects the union with other and reports whether anything
// remains.
func (l *RectList) ClipToList(other *RectList) bool {
	var out []Rect
	for _, a := range l.rects {
		for _, b := range other.rects {
			if i := a.Intersect(b); !i.IsEmpty() {
				out = append(out, i)
			}
		}
	}
	l.rects = out
	l.merge()
	return len(l.rects) > 0
}

// Offset moves every rectangle by (dx, dy).
func (l *RectList) Offset(dx, dy int) {
	for i := range l.rects {
		l.rects[i] = l.rects[i].Translate(dx, dy)
	}
}

// Intersects reports whether any rectangle overlaps r.
func (l *RectList) Intersects(r Rect) bool {
	for _, existing := range l.rects {
		if existing.Intersects(r) {
			return true
		}
	}
	return false
}

// ContainsPoint reports whether the pixel (x, y) is covered.
func (l *RectList) ContainsPoint(x, y int) bool {
	for _, r := range l.rects {
		if r.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

// ContainsRect reports whether every pixel of r is covered.
func (l *RectList) ContainsRect(r Rect) bool {
	if r.IsEmpty() {
		return true
	}
	remaining := []Rect{r}
	for _, existing := range l.rects {
		var next []Rect
		for _, p := range remaining {
			next = appendDifference(next, p, existing)
		}
		remaining = next
		if len(remaining) == 0 {
			return true
		}
	}
	return false
}

// Equal reports whether l and other cover exactly the same pixels.
func (l *RectList) Equal(other *RectList) bool {
	if l.Area() != other.Area() {
		return false
	}
	for _, r := range l.rects {
		if !other.ContainsRect(r) {
			return false
		}
	}
	return true
}

// appendDifference appends the parts of a not covered by b, as at most four
// non-overlapping rectangles.
func appendDifference(dst []Rect, a, b Rect) []Rect {
	i := a.Intersect(b)
	if i.IsEmpty() {
		return append(dst, a)
	}
	if i.Y > a.Y {
		dst = append(dst, RectFromEdges(a.X, a.Y, a.Right(), i.Y))
	}
	if i.Bottom() < a.Bottom() {
		dst = append(dst, RectFromEdges(a.X, i.Bottom(), a.Right(), a.Bottom()))
	}
	if i.X > a.X {
		dst = append(dst, RectFromEdges(a.X, i.Y, i.X, i.Bottom()))
	}
	if i.Right() < a.Right() {
		dst = append(dst, RectFromEdges(i.Right(), i.Y, a.Right(), i.Bottom()))
	}
	return dst
}

// merge joins rectangles that share a complete edge until no more joins are
// possible.
func (l *RectList) merge() {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(l.rects); i++ {
			for j := i + 1; j < len(l.rects); j++ {
				if u, ok := joinRects(l.rects[i], l.rects[j]); ok {
					l.rects[i] = u
					l.rects = append(l.rects[:j], l.rects[j+1:]...)
					merged = true
					j--
				}
			}
		}
	}
}

func joinRects(a, b Rect) (Rect, bool) {
	switch {
	case a.X == b.X && a.W == b.W && (a.Bottom() == b.Y || b.Bottom() == a.Y):
		return a.Union(b), true
	case a.Y == b.Y && a.H == b.H && (a.Right() == b.X || b.Right() == a.X):
		return a.Union(b), true
	}
	return Rect{}, false
}
