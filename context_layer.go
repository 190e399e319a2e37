package glcanvas

import (
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/clip"
)

// BeginTransparencyLayer saves the state and redirects drawing into a
// transparent layer covering the clip bounds. If the layer cannot be
// allocated drawing continues directly with opacity applied to each fill.
func (c *canvas) BeginTransparencyLayer(opacity float64) {
	opacity = min(max(opacity, 0), 1)
	s := c.top().clone()
	s.layer = &layer{opacity: opacity}
	c.states = append(c.states, s)

	reg := s.clip.Get()
	if reg == nil || opacity == 0 {
		s.clip.Release()
		s.clip = clip.Ref{}
		return
	}
	bounds := reg.Bounds()
	s.layer.bounds = bounds
	img := c.be.beginLayer(bounds)
	if img == nil {
		Logger().Warn("transparency layer unavailable, drawing directly", "bounds", bounds)
		s.alpha *= opacity
		return
	}
	s.layer.image = img
}

// EndTransparencyLayer restores the state saved by the matching
// BeginTransparencyLayer, discarding any states saved since, and
// composites the layer through the restored clip.
func (c *canvas) EndTransparencyLayer() {
	i := len(c.states) - 1
	for i > 0 && c.states[i].layer == nil {
		i--
	}
	if !contract(i > 0, "EndTransparencyLayer without BeginTransparencyLayer") {
		return
	}
	for len(c.states) > i+1 {
		c.pop()
	}
	l := c.pop().layer
	if l.image == nil {
		return
	}
	c.be.endLayer()
	if reg := c.region(); reg != nil {
		reg.DrawImage(l.image, geom.Translation(float64(l.bounds.X), float64(l.bounds.Y)), l.opacity*c.top().alpha)
	}
	c.be.releaseLayer(l.image)
}
