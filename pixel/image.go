// Package pixel provides the generic 2D pixel-buffer abstraction used by
// glcanvas.
//
// An [Image] is a thin handle over a [Data] backend. The default backend
// keeps pixels in CPU memory ([Software]); the glcanvas package supplies a
// GPU-resident backend so that transparency layers and cached render targets
// can be used wherever an Image is accepted.
//
// All pixel data crossing the Data interface is top-down and premultiplied.
package pixel

import (
	"image"
	"image/color"
	"sync/atomic"

	"golang.org/x/image/draw"

	"github.com/gogpu/glcanvas/geom"
)

// Format is the pixel layout of an image.
type Format int

const (
	// FormatARGB stores 8-bit premultiplied colour and alpha.
	FormatARGB Format = iota
	// FormatRGB stores 8-bit colour. Alpha always reads as opaque.
	FormatRGB
	// FormatSingleChannel stores 8-bit alpha only.
	FormatSingleChannel
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatARGB:
		return "ARGB"
	case FormatRGB:
		return "RGB"
	case FormatSingleChannel:
		return "SingleChannel"
	default:
		return "Unknown"
	}
}

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool {
	return f != FormatRGB
}

// Data is a pixel storage backend.
//
// ReadPixels returns a top-down copy of area with its origin at (0, 0).
// Pixels of area that lie outside the backend's bounds read as transparent.
// WritePixels copies src so that src.Bounds().Min lands at at. Pixels that
// fall outside the backend's bounds are dropped.
type Data interface {
	Format() Format
	Size() (width, height int)
	ReadPixels(area geom.Rect) image.Image
	WritePixels(src image.Image, at image.Point)
	Clear(area geom.Rect, c color.Color)
	Release()
}

var nextImageID atomic.Uint64

// Image is a 2D pixel buffer with a pluggable backend.
type Image struct {
	data    Data
	id      uint64
	version atomic.Uint64
}

// New creates a cleared software image.
func New(format Format, width, height int) *Image {
	return FromData(NewSoftware(format, width, height))
}

// FromImage creates an ARGB software image holding a copy of img.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	sw := NewSoftware(FormatARGB, b.Dx(), b.Dy())
	draw.Draw(sw.rgba, sw.rgba.Bounds(), img, b.Min, draw.Src)
	return FromData(sw)
}

// FromData wraps an existing backend.
func FromData(d Data) *Image {
	return &Image{data: d, id: nextImageID.Add(1)}
}

// ID returns a process-unique identity for the image.
func (img *Image) ID() uint64 { return img.id }

// Version returns a counter that changes whenever the pixels change.
func (img *Image) Version() uint64 { return img.version.Load() }

// MarkModified records that the pixels were changed behind the Image's
// back, for example by rendering into a GPU backend.
func (img *Image) MarkModified() { img.version.Add(1) }

// Data returns the backend.
func (img *Image) Data() Data { return img.data }

// Format returns the pixel format.
func (img *Image) Format() Format { return img.data.Format() }

// Width returns the width in pixels.
func (img *Image) Width() int {
	w, _ := img.data.Size()
	return w
}

// Height returns the height in pixels.
func (img *Image) Height() int {
	_, h := img.data.Size()
	return h
}

// Bounds returns the image rectangle with its origin at (0, 0).
func (img *Image) Bounds() geom.Rect {
	w, h := img.data.Size()
	return geom.NewRect(0, 0, w, h)
}

// Clear fills area with c, replacing existing content.
func (img *Image) Clear(area geom.Rect, c color.Color) {
	img.data.Clear(area, c)
	img.MarkModified()
}

// ReadPixels returns a top-down copy of area.
func (img *Image) ReadPixels(area geom.Rect) image.Image {
	return img.data.ReadPixels(area)
}

// WritePixels copies src into the image at at.
func (img *Image) WritePixels(src image.Image, at image.Point) {
	img.data.WritePixels(src, at)
	img.MarkModified()
}

// RGBAAt returns the premultiplied colour at (x, y), or transparent when
// the position is outside the image.
func (img *Image) RGBAAt(x, y int) color.RGBA {
	c := img.data.ReadPixels(geom.NewRect(x, y, 1, 1)).At(0, 0)
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// AlphaAt returns the alpha at (x, y), or zero when the position is outside
// the image.
func (img *Image) AlphaAt(x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

// ConvertedTo returns a software copy of the image in the given format.
// Converting a single-channel image to colour yields premultiplied white.
func (img *Image) ConvertedTo(format Format) *Image {
	src := img.data.ReadPixels(img.Bounds())
	sw := NewSoftware(format, img.Width(), img.Height())
	sw.WritePixels(src, image.Point{})
	return FromData(sw)
}

// ToRGBA returns a top-down premultiplied copy of the whole image.
func (img *Image) ToRGBA() *image.RGBA {
	src := img.data.ReadPixels(img.Bounds())
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// ToAlpha returns a top-down copy of the image's alpha channel.
func (img *Image) ToAlpha() *image.Alpha {
	src := img.data.ReadPixels(img.Bounds())
	if a, ok := src.(*image.Alpha); ok {
		return a
	}
	dst := image.NewAlpha(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Release frees the backend's resources.
func (img *Image) Release() {
	img.data.Release()
}
