package glcanvas

import (
	"image"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/clip"
	"github.com/gogpu/glcanvas/internal/raster"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// softwareContext rasterises on the CPU into a copy of the target and
// uploads the result on Flush. It is used when shaders are unavailable.
type softwareContext struct {
	canvas
	sh       *shared
	pixels   *image.RGBA
	renderer *raster.Renderer
	device   *clip.SoftwareDevice

	// present copies pixels to wherever they are shown.
	present func()
	// staging holds the frame for a blit to the default framebuffer.
	staging *gpu.FrameBuffer
	// noStaging is set once the staging framebuffer failed to allocate.
	noStaging bool
}

func newSoftwareContext(f gl.Functions, target Target, sh *shared) GraphicsContext {
	var pixels *image.RGBA
	if fb := target.FrameBuffer(); fb != nil {
		pixels = fb.ReadPixels(fb.Bounds())
	} else {
		pixels = readScreen(f, target.width, target.height)
	}
	c := newRasterContext(pixels, sh)
	if fb := target.FrameBuffer(); fb != nil {
		c.present = func() { fb.WritePixels(c.pixels, image.Point{}) }
	} else {
		c.present = func() { c.presentScreen(f) }
	}
	return c
}

// newMemoryContext draws straight into the pixels of a software image.
func newMemoryContext(pixels *image.RGBA, img *pixel.Image, sh *shared) GraphicsContext {
	c := newRasterContext(pixels, sh)
	c.present = img.MarkModified
	return c
}

func newRasterContext(pixels *image.RGBA, sh *shared) *softwareContext {
	r := raster.NewRenderer(pixels)
	c := &softwareContext{
		sh:       sh,
		pixels:   pixels,
		renderer: r,
		device:   &clip.SoftwareDevice{Renderer: r},
	}
	c.init(c, sh.glyphs, clip.NewSoftwareRegion(c.device, geom.RectFromImage(pixels.Rect)))
	return c
}

// readScreen returns a top-down copy of the default framebuffer.
func readScreen(f gl.Functions, width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	prev := gl.Framebuffer(f.GetInteger(gl.FRAMEBUFFER_BINDING))
	f.BindFramebuffer(gl.FRAMEBUFFER, 0)
	f.PixelStorei(gl.PACK_ALIGNMENT, 4)
	raw := make([]byte, width*height*4)
	f.ReadPixels(raw, 0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE)
	f.BindFramebuffer(gl.FRAMEBUFFER, prev)

	stride := width * 4
	for row := 0; row < height; row++ {
		copy(out.Pix[(height-1-row)*out.Stride:], raw[row*stride:(row+1)*stride])
	}
	return out
}

// presentScreen uploads the frame into a staging framebuffer and blits it
// onto the default framebuffer. Without framebuffer objects nothing is
// presented.
func (c *softwareContext) presentScreen(f gl.Functions) {
	if c.noStaging {
		return
	}
	w, h := c.pixels.Rect.Dx(), c.pixels.Rect.Dy()
	if c.staging == nil {
		fb := gpu.NewFrameBuffer(f)
		if err := fb.Initialise(w, h); err != nil {
			Logger().Warn("cannot present software frame", "err", err)
			c.noStaging = true
			return
		}
		c.staging = fb
	}
	c.staging.WritePixels(c.pixels, image.Point{})

	prev := gl.Framebuffer(f.GetInteger(gl.FRAMEBUFFER_BINDING))
	f.BindFramebuffer(gl.READ_FRAMEBUFFER, c.staging.ID())
	f.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	f.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	f.BindFramebuffer(gl.FRAMEBUFFER, prev)
}

func (c *softwareContext) IsShaderBacked() bool { return false }

func (c *softwareContext) setQuality(q paint.ResamplingQuality) { c.renderer.Quality = q }

// beginLayer returns a software image whose pixels the renderer draws
// into at bounds.
func (c *softwareContext) beginLayer(bounds geom.Rect) *pixel.Image {
	img := pixel.New(pixel.FormatARGB, bounds.W, bounds.H)
	src := img.Data().(*pixel.Software).RGBA()
	c.renderer.PushTarget(&image.RGBA{Pix: src.Pix, Stride: src.Stride, Rect: bounds.ToImage()})
	return img
}

func (c *softwareContext) endLayer() { c.renderer.PopTarget() }

func (c *softwareContext) releaseLayer(img *pixel.Image) { img.Release() }

func (c *softwareContext) flush() { c.present() }

func (c *softwareContext) release() {
	if c.staging != nil {
		c.staging.Release()
		c.staging = nil
	}
	c.sh.release()
}
