package paint

import (
	"image/color"
	"slices"

	"github.com/gogpu/glcanvas/geom"
)

// Stop is a colour at a position along a gradient.
type Stop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Colour Colour
}

// Gradient is a linear or radial colour gradient.
//
// A linear gradient runs from Point1 to Point2. A radial gradient is centred
// on Point1 and reaches its last colour at the distance of Point2.
type Gradient struct {
	Point1, Point2 geom.Point
	Radial         bool
	Stops          []Stop
}

// NewLinearGradient creates a two-colour linear gradient.
func NewLinearGradient(c1 Colour, p1 geom.Point, c2 Colour, p2 geom.Point) *Gradient {
	return &Gradient{
		Point1: p1,
		Point2: p2,
		Stops:  []Stop{{0, c1}, {1, c2}},
	}
}

// NewRadialGradient creates a two-colour radial gradient.
func NewRadialGradient(c1 Colour, centre geom.Point, c2 Colour, edge geom.Point) *Gradient {
	g := NewLinearGradient(c1, centre, c2, edge)
	g.Radial = true
	return g
}

// AddStop inserts a colour stop, keeping stops ordered by offset.
func (g *Gradient) AddStop(offset float64, c Colour) *Gradient {
	offset = min(max(offset, 0), 1)
	i, _ := slices.BinarySearchFunc(g.Stops, offset, func(s Stop, o float64) int {
		switch {
		case s.Offset <= o:
			return -1
		default:
			return 1
		}
	})
	g.Stops = slices.Insert(g.Stops, i, Stop{Offset: offset, Colour: c})
	return g
}

// Clone returns an independent copy.
func (g *Gradient) Clone() *Gradient {
	c := *g
	c.Stops = slices.Clone(g.Stops)
	return &c
}

// Equal reports whether two gradients describe the same colours at the same
// positions.
func (g *Gradient) Equal(o *Gradient) bool {
	if g == o {
		return true
	}
	if g == nil || o == nil {
		return false
	}
	return g.Point1 == o.Point1 && g.Point2 == o.Point2 &&
		g.Radial == o.Radial && slices.Equal(g.Stops, o.Stops)
}

// SameColours reports whether the stops match, ignoring geometry.
// Lookup tables depend only on the stops.
func (g *Gradient) SameColours(o *Gradient) bool {
	return slices.Equal(g.Stops, o.Stops)
}

// IsOpaque reports whether every stop is opaque.
func (g *Gradient) IsOpaque() bool {
	for _, s := range g.Stops {
		if !s.Colour.IsOpaque() {
			return false
		}
	}
	return true
}

// IsInvisible reports whether every stop is transparent.
func (g *Gradient) IsInvisible() bool {
	for _, s := range g.Stops {
		if !s.Colour.IsTransparent() {
			return false
		}
	}
	return true
}

// Transformed returns the gradient with its points mapped through t.
func (g *Gradient) Transformed(t geom.Affine) *Gradient {
	c := g.Clone()
	c.Point1 = t.Apply(g.Point1)
	c.Point2 = t.Apply(g.Point2)
	return c
}

// ColourAt returns the premultiplied colour at position t in [0, 1].
func (g *Gradient) ColourAt(t float64) color.RGBA {
	switch len(g.Stops) {
	case 0:
		return color.RGBA{}
	case 1:
		return g.Stops[0].Colour.PremultipliedRGBA()
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Colour.PremultipliedRGBA()
	}
	for i := 1; i < len(g.Stops); i++ {
		s0, s1 := g.Stops[i-1], g.Stops[i]
		if t > s1.Offset {
			continue
		}
		span := s1.Offset - s0.Offset
		if span <= 0 {
			return s1.Colour.PremultipliedRGBA()
		}
		return lerpRGBA(s0.Colour.PremultipliedRGBA(), s1.Colour.PremultipliedRGBA(), (t-s0.Offset)/span)
	}
	return g.Stops[len(g.Stops)-1].Colour.PremultipliedRGBA()
}

// LookupTable returns n packed premultiplied colours sampled evenly from
// offset 0 to offset 1.
func (g *Gradient) LookupTable(n int) []uint32 {
	table := make([]uint32, n)
	if n == 1 {
		table[0] = PackRGBA(g.ColourAt(0))
		return table
	}
	for i := range table {
		table[i] = PackRGBA(g.ColourAt(float64(i) / float64(n-1)))
	}
	return table
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	l := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}
