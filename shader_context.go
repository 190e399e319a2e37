package glcanvas

import (
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/clip"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// shaderContext shades every primitive on the GPU. Clip masks and
// transparency layers live in framebuffers.
type shaderContext struct {
	canvas
	gl     gl.Functions
	sh     *shared
	state  *gpu.State
	device *clip.GPUDevice
}

func newShaderContext(f gl.Functions, target Target, sh *shared) (GraphicsContext, error) {
	res, err := sh.resources()
	if err != nil {
		return nil, err
	}
	st := gpu.NewState(f, res, target.gpuTarget(), sh.limits().MaxQuads)
	c := &shaderContext{
		gl:     f,
		sh:     sh,
		state:  st,
		device: &clip.GPUDevice{State: st},
	}
	c.init(c, sh.glyphs, clip.NewGPURegion(c.device, target.Bounds()))
	return c, nil
}

func (c *shaderContext) IsShaderBacked() bool { return true }

func (c *shaderContext) setQuality(q paint.ResamplingQuality) { c.device.Quality = q }

func (c *shaderContext) beginLayer(bounds geom.Rect) *pixel.Image {
	img, err := NewGPUImage(c.gl, bounds.W, bounds.H)
	if err != nil {
		Logger().Debug("layer framebuffer", "err", err)
		return nil
	}
	c.state.PushTarget(gpu.Target{Framebuffer: FrameBufferOf(img).ID(), Bounds: bounds})
	return img
}

func (c *shaderContext) endLayer() { c.state.PopTarget() }

func (c *shaderContext) releaseLayer(img *pixel.Image) {
	c.state.Flush()
	c.state.BindTexture(gpu.UnitPaint, nil)
	img.Release()
}

func (c *shaderContext) flush() {
	c.state.Flush()
	c.gl.Flush()
}

func (c *shaderContext) release() {
	c.state.Release()
	c.sh.release()
}
