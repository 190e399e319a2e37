// Package paint describes how shapes are coloured: solid colours, linear and
// radial gradients and image fills, each with its own transform and opacity.
package paint

import (
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// Colour is a non-premultiplied 8-bit RGBA colour.
type Colour struct {
	R, G, B, A uint8
}

// Common colours.
var (
	Transparent = Colour{}
	Black       = Colour{A: 255}
	White       = Colour{R: 255, G: 255, B: 255, A: 255}
	Red         = Colour{R: 255, A: 255}
	Green       = Colour{G: 255, A: 255}
	Blue        = Colour{B: 255, A: 255}
)

// RGB creates an opaque colour.
func RGB(r, g, b uint8) Colour {
	return Colour{R: r, G: g, B: b, A: 255}
}

// FromFloat creates a colour from components in [0, 1].
func FromFloat(r, g, b, a float64) Colour {
	return Colour{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)}
}

// FromColor converts a standard library colour.
func FromColor(c color.Color) Colour {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Colour{R: n.R, G: n.G, B: n.B, A: n.A}
}

// IsOpaque reports whether alpha is at its maximum.
func (c Colour) IsOpaque() bool { return c.A == 255 }

// IsTransparent reports whether alpha is zero.
func (c Colour) IsTransparent() bool { return c.A == 0 }

// WithAlpha returns c with alpha replaced.
func (c Colour) WithAlpha(a uint8) Colour {
	c.A = a
	return c
}

// WithMultipliedAlpha returns c with its alpha scaled by m in [0, 1].
func (c Colour) WithMultipliedAlpha(m float64) Colour {
	c.A = unit8(float64(c.A) / 255 * m)
	return c
}

// PremultipliedRGBA returns the premultiplied components.
func (c Colour) PremultipliedRGBA() color.RGBA {
	return color.RGBA{
		R: mul8(c.R, c.A),
		G: mul8(c.G, c.A),
		B: mul8(c.B, c.A),
		A: c.A,
	}
}

// Premultiplied packs the premultiplied colour as R, G, B, A bytes in
// little-endian order, the layout of a vertex colour attribute.
func (c Colour) Premultiplied() uint32 {
	return PackRGBA(c.PremultipliedRGBA())
}

// RGBA implements color.Color.
func (c Colour) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// GPU converts the colour to the premultiplied float form used for clears.
func (c Colour) GPU() gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}.Premultiplied()
}

// PackRGBA packs an already premultiplied colour.
func PackRGBA(c color.RGBA) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// UnpackRGBA reverses PackRGBA.
func UnpackRGBA(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24)}
}

// ScalePacked multiplies every component of a packed premultiplied colour by
// level/255.
func ScalePacked(v uint32, level uint8) uint32 {
	if level == 255 {
		return v
	}
	c := UnpackRGBA(v)
	return PackRGBA(color.RGBA{
		R: mul8(c.R, level),
		G: mul8(c.G, level),
		B: mul8(c.B, level),
		A: mul8(c.A, level),
	})
}

func mul8(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}

func unit8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
