package glcanvas

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/pixel"
)

// gpuData is pixel data living in a framebuffer. Images backed by it are
// sampled in place by the shader path and read back for everything else.
type gpuData struct {
	fb *gpu.FrameBuffer
}

var _ gpu.FrameBufferBacked = (*gpuData)(nil)

// NewGPUImage returns an ARGB image of width x height pixels held in a
// framebuffer on the current context. It starts transparent.
func NewGPUImage(f gl.Functions, width, height int, opts ...gpu.FrameBufferOption) (*pixel.Image, error) {
	fb := gpu.NewFrameBuffer(f, opts...)
	if err := fb.Initialise(width, height); err != nil {
		return nil, err
	}
	fb.Clear(gputypes.Color{})
	return pixel.FromData(&gpuData{fb: fb}), nil
}

// FrameBufferOf returns the framebuffer behind a GPU image, or nil for
// other images.
func FrameBufferOf(img *pixel.Image) *gpu.FrameBuffer {
	if d, ok := img.Data().(*gpuData); ok {
		return d.fb
	}
	return nil
}

func (d *gpuData) FrameBuffer() *gpu.FrameBuffer { return d.fb }

func (d *gpuData) Format() pixel.Format { return pixel.FormatARGB }

func (d *gpuData) Size() (width, height int) { return d.fb.Width(), d.fb.Height() }

func (d *gpuData) ReadPixels(area geom.Rect) image.Image { return d.fb.ReadPixels(area) }

func (d *gpuData) WritePixels(src image.Image, at image.Point) { d.fb.WritePixels(src, at) }

func (d *gpuData) Clear(area geom.Rect, c color.Color) {
	p := color.RGBAModel.Convert(c).(color.RGBA)
	d.fb.ClearArea(area, gputypes.Color{
		R: float64(p.R) / 255,
		G: float64(p.G) / 255,
		B: float64(p.B) / 255,
		A: float64(p.A) / 255,
	})
}

func (d *gpuData) Release() { d.fb.Release() }
