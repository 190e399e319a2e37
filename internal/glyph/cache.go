// Package glyph caches rasterised glyph coverage.
//
// Glyphs drawn under a pure translation look the same wherever they land,
// apart from a sub-pixel phase. The cache keeps their edge tables keyed by
// font, glyph index and horizontal phase, rasterised at the origin; callers
// translate a copy to the pen position.
package glyph

import (
	"math"

	lru "github.com/hashicorp/golang-lru"

	"github.com/gogpu/glcanvas/font"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/internal/edgetable"
)

// DefaultSize is the number of glyphs kept by a cache built with size 0.
const DefaultSize = 1024

// Phases is the number of horizontal sub-pixel positions a glyph is
// rasterised at.
const Phases = 4

type key struct {
	font  string
	glyph uint32
	phase int
}

// Cache is a bounded LRU of glyph edge tables. It is safe for concurrent
// use, so one cache can serve every context sharing a native context.
type Cache struct {
	lru *lru.Cache
}

// NewCache returns a cache holding up to size glyphs.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New(size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Cache{lru: c}
}

// Len returns the number of cached glyphs.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge drops every cached glyph.
func (c *Cache) Purge() { c.lru.Purge() }

// Release implements the registry object contract.
func (c *Cache) Release() { c.Purge() }

// EdgeTable returns the coverage of glyph drawn with its baseline origin
// at (x, y) in device space. The result is the caller's to modify. It
// returns nil when the font has no outline for glyph.
func (c *Cache) EdgeTable(f font.Font, glyph uint32, x, y float64) *edgetable.EdgeTable {
	if f.Face == nil {
		return nil
	}
	ix := math.Floor(x)
	phase := int(math.Round((x - ix) * Phases))
	if phase == Phases {
		ix++
		phase = 0
	}
	iy := math.Round(y)

	k := key{font: f.Key(), glyph: glyph, phase: phase}
	var et *edgetable.EdgeTable
	if v, ok := c.lru.Get(k); ok {
		et = v.(*edgetable.EdgeTable)
	} else {
		p, ok := f.GlyphPath(glyph)
		if !ok {
			return nil
		}
		t := geom.Translation(float64(phase)/Phases, 0)
		et = edgetable.FromPath(p, t, t.TransformRect(p.Bounds()).Enclosing())
		c.lru.Add(k, et)
	}
	out := et.Clone()
	out.Translate(int(ix), int(iy))
	return out
}

// Rasterise builds the coverage of glyph under an arbitrary transform t,
// limited to clip. Nothing is cached.
func Rasterise(f font.Font, glyph uint32, t geom.Affine, clip geom.Rect) *edgetable.EdgeTable {
	p, ok := f.GlyphPath(glyph)
	if !ok {
		return nil
	}
	return edgetable.FromPath(p, t, clip)
}
