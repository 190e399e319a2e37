package pixel

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/glcanvas/geom"
)

// Software is a CPU-memory pixel backend.
// Colour formats are stored in an *image.RGBA, single-channel images in an
// *image.Alpha.
type Software struct {
	format Format
	rgba   *image.RGBA
	alpha  *image.Alpha
}

// NewSoftware allocates a cleared software backend.
func NewSoftware(format Format, width, height int) *Software {
	r := image.Rect(0, 0, max(width, 0), max(height, 0))
	s := &Software{format: format}
	if format == FormatSingleChannel {
		s.alpha = image.NewAlpha(r)
	} else {
		s.rgba = image.NewRGBA(r)
		if format == FormatRGB {
			s.forceOpaque(r)
		}
	}
	return s
}

// Format implements Data.
func (s *Software) Format() Format { return s.format }

// Size implements Data.
func (s *Software) Size() (width, height int) {
	b := s.Image().Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the underlying storage, an *image.RGBA or *image.Alpha.
func (s *Software) Image() draw.Image {
	if s.alpha != nil {
		return s.alpha
	}
	return s.rgba
}

// RGBA returns the colour storage, or nil for single-channel images.
func (s *Software) RGBA() *image.RGBA { return s.rgba }

// Alpha returns the alpha storage, or nil for colour images.
func (s *Software) Alpha() *image.Alpha { return s.alpha }

// ReadPixels implements Data.
func (s *Software) ReadPixels(area geom.Rect) image.Image {
	dstRect := image.Rect(0, 0, max(area.W, 0), max(area.H, 0))
	var dst draw.Image
	if s.alpha != nil {
		dst = image.NewAlpha(dstRect)
	} else {
		dst = image.NewRGBA(dstRect)
	}
	src := s.Image()
	visible := area.ToImage().Intersect(src.Bounds())
	if !visible.Empty() {
		at := visible.Min.Sub(image.Pt(area.X, area.Y))
		draw.Draw(dst, visible.Sub(visible.Min).Add(at), src, visible.Min, draw.Src)
	}
	return dst
}

// WritePixels implements Data.
func (s *Software) WritePixels(src image.Image, at image.Point) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	dst := s.Image()
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, src, sb.Min.Add(r.Min.Sub(at)), draw.Src)
	if s.format == FormatRGB {
		s.forceOpaque(r)
	}
}

// Clear implements Data.
func (s *Software) Clear(area geom.Rect, c color.Color) {
	dst := s.Image()
	r := area.ToImage().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
	if s.format == FormatRGB {
		s.forceOpaque(r)
	}
}

// Release implements Data. Software storage is left to the garbage
// collector.
func (s *Software) Release() {}

func (s *Software) forceOpaque(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := s.rgba.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s.rgba.Pix[off+3] = 0xff
			off += 4
		}
	}
}
