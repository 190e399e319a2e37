package glcanvas

import (
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gpu"
)

// Target is where a GraphicsContext draws.
type Target struct {
	framebuffer gl.Framebuffer
	fb          *gpu.FrameBuffer
	width       int
	height      int
}

// ScreenTarget targets the default framebuffer of the current native
// context, which is width x height pixels.
func ScreenTarget(width, height int) Target {
	return Target{width: width, height: height}
}

// FrameBufferTarget targets fb. fb must stay valid while contexts draw
// into it.
func FrameBufferTarget(fb *gpu.FrameBuffer) Target {
	return Target{framebuffer: fb.ID(), fb: fb, width: fb.Width(), height: fb.Height()}
}

// Bounds returns the target rectangle with its origin at (0, 0).
func (t Target) Bounds() geom.Rect { return geom.NewRect(0, 0, t.width, t.height) }

// FrameBuffer returns the target framebuffer, or nil for the screen.
func (t Target) FrameBuffer() *gpu.FrameBuffer { return t.fb }

func (t Target) valid() bool {
	if t.width <= 0 || t.height <= 0 {
		return false
	}
	return t.fb == nil || t.fb.IsValid()
}

func (t Target) gpuTarget() gpu.Target {
	return gpu.Target{Framebuffer: t.framebuffer, Bounds: t.Bounds()}
}
