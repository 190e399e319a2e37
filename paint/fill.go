package paint

import (
	"golang.org/x/image/draw"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/pixel"
)

// Fill is the current fill style: a solid colour, a gradient or an image.
//
// Transform maps the gradient or image space into the space in which shapes
// are drawn. Opacity scales the whole fill. For colour fills the colour
// alpha is scaled as well.
type Fill struct {
	Colour    Colour
	Gradient  *Gradient
	Image     *pixel.Image
	Tiled     bool
	Transform geom.Affine
	Opacity   float64
}

// SolidFill creates a colour fill.
func SolidFill(c Colour) Fill {
	return Fill{Colour: c, Transform: geom.Identity(), Opacity: 1}
}

// GradientFill creates a gradient fill.
func GradientFill(g *Gradient) Fill {
	return Fill{Colour: Black, Gradient: g, Transform: geom.Identity(), Opacity: 1}
}

// ImageFill creates an image fill. Tiled image fills repeat the image in
// both directions.
func ImageFill(img *pixel.Image, transform geom.Affine, tiled bool) Fill {
	return Fill{Colour: Black, Image: img, Tiled: tiled, Transform: transform, Opacity: 1}
}

// IsColour reports whether the fill is a plain colour.
func (f Fill) IsColour() bool { return f.Gradient == nil && f.Image == nil }

// IsGradient reports whether the fill is a gradient.
func (f Fill) IsGradient() bool { return f.Gradient != nil }

// IsImage reports whether the fill is an image.
func (f Fill) IsImage() bool { return f.Gradient == nil && f.Image != nil }

// IsInvisible reports whether drawing with the fill can have no effect.
func (f Fill) IsInvisible() bool {
	switch {
	case f.Opacity <= 0:
		return true
	case f.IsGradient():
		return f.Gradient.IsInvisible()
	case f.IsImage():
		return false
	default:
		return f.Colour.IsTransparent()
	}
}

// IsOpaque reports whether the fill covers what is below it completely.
func (f Fill) IsOpaque() bool {
	if f.Opacity < 1 {
		return false
	}
	switch {
	case f.IsGradient():
		return f.Gradient.IsOpaque()
	case f.IsImage():
		return f.Image.Format() == pixel.FormatRGB
	default:
		return f.Colour.IsOpaque()
	}
}

// Transformed returns the fill with t applied after its own transform.
func (f Fill) Transformed(t geom.Affine) Fill {
	f.Transform = f.Transform.Then(t)
	return f
}

// VertexColour returns the packed premultiplied colour that carries the
// fill's opacity to the GPU. Non-colour fills use white scaled by opacity
// so that the shader output is modulated by it.
func (f Fill) VertexColour() uint32 {
	if f.IsColour() {
		return f.Colour.WithMultipliedAlpha(f.Opacity).Premultiplied()
	}
	return White.WithMultipliedAlpha(f.Opacity).Premultiplied()
}

// ResamplingQuality selects how images are filtered when scaled.
type ResamplingQuality int

const (
	// QualityLow uses nearest-neighbour sampling.
	QualityLow ResamplingQuality = iota
	// QualityMedium uses bilinear sampling.
	QualityMedium
	// QualityHigh uses the best filter available.
	QualityHigh
)

// FilterMode returns the texture filter for the quality.
func (q ResamplingQuality) FilterMode() gputypes.FilterMode {
	if q == QualityLow {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// Interpolator returns the CPU resampler for the quality.
func (q ResamplingQuality) Interpolator() draw.Interpolator {
	switch q {
	case QualityLow:
		return draw.NearestNeighbor
	case QualityMedium:
		return draw.ApproxBiLinear
	default:
		return draw.CatmullRom
	}
}
