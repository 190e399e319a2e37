// Package font provides glyph outlines for glcanvas.
//
// Two parsers are supported: golang.org/x/image/font/sfnt and
// github.com/go-text/typesetting. Both produce outlines in font units with
// the Y axis pointing up; [Font] scales them to a pixel size and flips them
// to device orientation.
package font

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	gotext "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glcanvas/geom"
)

// Face is a parsed font file.
type Face interface {
	// Key identifies the face in glyph caches.
	Key() string
	// UnitsPerEm returns the size of the em square in font units.
	UnitsPerEm() float64
	// GlyphIndex maps a rune to a glyph index.
	GlyphIndex(r rune) (uint32, bool)
	// Outline returns the glyph outline in font units, Y up.
	Outline(glyph uint32) (*geom.Path, bool)
}

var faceSeq atomic.Uint64

func newFaceKey(kind string) string {
	return fmt.Sprintf("%s#%d", kind, faceSeq.Add(1))
}

// SFNTFace is a Face backed by golang.org/x/image/font/sfnt.
type SFNTFace struct {
	f   *sfnt.Font
	key string

	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewSFNTFace parses a TrueType or OpenType font.
func NewSFNTFace(data []byte) (*SFNTFace, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse sfnt: %w", err)
	}
	return &SFNTFace{f: f, key: newFaceKey("sfnt")}, nil
}

// Key implements Face.
func (s *SFNTFace) Key() string { return s.key }

// UnitsPerEm implements Face.
func (s *SFNTFace) UnitsPerEm() float64 { return float64(s.f.UnitsPerEm()) }

// GlyphIndex implements Face.
func (s *SFNTFace) GlyphIndex(r rune) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.f.GlyphIndex(&s.buf, r)
	if err != nil || g == 0 {
		return 0, false
	}
	return uint32(g), true
}

// Outline implements Face.
func (s *SFNTFace) Outline(glyph uint32) (*geom.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ppem := fixed.I(int(s.f.UnitsPerEm()))
	segs, err := s.f.LoadGlyph(&s.buf, sfnt.GlyphIndex(glyph), ppem, nil)
	if err != nil {
		return nil, false
	}
	// sfnt reports Y down; Face outlines are Y up.
	pt := func(p fixed.Point26_6) (float64, float64) {
		return float64(p.X) / 64, -float64(p.Y) / 64
	}
	path := geom.NewPath()
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			path.Close()
			path.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			path.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			path.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			path.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	path.Close()
	return path, true
}

// GoTextFace is a Face backed by github.com/go-text/typesetting.
type GoTextFace struct {
	face *gotext.Face
	key  string
	mu   sync.Mutex
}

// NewGoTextFace parses a TrueType or OpenType font.
func NewGoTextFace(data []byte) (*GoTextFace, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parse go-text face: %w", err)
	}
	return &GoTextFace{face: face, key: newFaceKey("gotext")}, nil
}

// Key implements Face.
func (g *GoTextFace) Key() string { return g.key }

// UnitsPerEm implements Face.
func (g *GoTextFace) UnitsPerEm() float64 { return float64(g.face.Upem()) }

// GlyphIndex implements Face.
func (g *GoTextFace) GlyphIndex(r rune) (uint32, bool) {
	gid, ok := g.face.NominalGlyph(r)
	return uint32(gid), ok
}

// Outline implements Face.
func (g *GoTextFace) Outline(glyph uint32) (*geom.Path, bool) {
	g.mu.Lock()
	data := g.face.GlyphData(gotext.GID(glyph))
	g.mu.Unlock()
	outline, ok := data.(gotext.GlyphOutline)
	if !ok {
		return nil, false
	}
	path := geom.NewPath()
	for _, seg := range outline.Segments {
		a := seg.Args
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			path.Close()
			path.MoveTo(float64(a[0].X), float64(a[0].Y))
		case ot.SegmentOpLineTo:
			path.LineTo(float64(a[0].X), float64(a[0].Y))
		case ot.SegmentOpQuadTo:
			path.QuadTo(float64(a[0].X), float64(a[0].Y), float64(a[1].X), float64(a[1].Y))
		case ot.SegmentOpCubeTo:
			path.CubicTo(float64(a[0].X), float64(a[0].Y), float64(a[1].X), float64(a[1].Y),
				float64(a[2].X), float64(a[2].Y))
		}
	}
	path.Close()
	return path, true
}

// Font is a face at a pixel size.
type Font struct {
	Face Face
	Size float64 // em size in pixels
}

// Key identifies the face and size in glyph caches.
func (f Font) Key() string {
	return fmt.Sprintf("%s@%g", f.Face.Key(), f.Size)
}

// Scale returns the transform from font units to device pixels, with the
// baseline origin at (0, 0) and Y pointing down.
func (f Font) Scale() geom.Affine {
	s := f.Size / f.Face.UnitsPerEm()
	return geom.Scaling(s, -s)
}

// GlyphPath returns the glyph outline in device pixels relative to the
// baseline origin.
func (f Font) GlyphPath(glyph uint32) (*geom.Path, bool) {
	if f.Face == nil || f.Size <= 0 {
		return nil, false
	}
	p, ok := f.Face.Outline(glyph)
	if !ok {
		return nil, false
	}
	return p.Transformed(f.Scale()), true
}
