package gpu

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/pixel"
)

// FrameBuffer owns a framebuffer object, its colour texture and an optional
// depth/stencil renderbuffer.
//
// A framebuffer can be saved to CPU memory and released, which frees the
// GPU objects while keeping the pixels. A saved framebuffer still answers
// ReadPixels and WritePixels from its saved copy but cannot be drawn into
// until ReloadFrom succeeds.
type FrameBuffer struct {
	gl        gl.Functions
	id        gl.Framebuffer
	tex       *Texture
	depth     gl.Renderbuffer
	withDepth bool

	width, height int

	// saved holds the pixels of a saved framebuffer, bottom-up, exactly as
	// ReadPixels returned them.
	saved []byte

	bound      bool
	prevTarget gl.Framebuffer
}

// FrameBufferOption configures a FrameBuffer.
type FrameBufferOption func(*FrameBuffer)

// WithDepthStencil attaches a depth/stencil renderbuffer.
func WithDepthStencil() FrameBufferOption {
	return func(fb *FrameBuffer) { fb.withDepth = true }
}

// NewFrameBuffer returns an uninitialised framebuffer.
func NewFrameBuffer(f gl.Functions, opts ...FrameBufferOption) *FrameBuffer {
	fb := &FrameBuffer{gl: f}
	for _, o := range opts {
		o(fb)
	}
	return fb
}

// Initialise allocates a framebuffer of the given size, discarding any
// previous content. On failure the framebuffer is left invalid and the
// caller must use a non-accelerated path.
func (fb *FrameBuffer) Initialise(width, height int) error {
	fb.Release()
	if err := fb.allocate(width, height); err != nil {
		return err
	}
	fb.width, fb.height = width, height
	return nil
}

// InitialiseFromImage allocates a framebuffer the size of img and uploads
// its pixels.
func (fb *FrameBuffer) InitialiseFromImage(img *pixel.Image) error {
	if err := fb.Initialise(img.Width(), img.Height()); err != nil {
		return err
	}
	fb.WritePixels(img.ReadPixels(img.Bounds()), image.Point{})
	return nil
}

type blitSupporter interface {
	SupportsBlit() bool
}

// InitialiseCopyOf allocates a framebuffer the size of other and copies its
// pixels on the GPU. Contexts without framebuffer blits copy through CPU
// memory instead.
func (fb *FrameBuffer) InitialiseCopyOf(other *FrameBuffer) error {
	if err := fb.Initialise(other.width, other.height); err != nil {
		return err
	}
	if bs, ok := fb.gl.(blitSupporter); (ok && !bs.SupportsBlit()) || other.id == 0 {
		fb.WritePixels(other.ReadPixels(other.Bounds()), image.Point{})
		return nil
	}
	prev := fb.currentBinding()
	fb.gl.BindFramebuffer(gl.READ_FRAMEBUFFER, other.id)
	fb.gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.id)
	fb.gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, fb.width, fb.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, prev)
	return nil
}

// allocate creates the GPU objects. It leaves the saved copy alone so that
// a failed reload can be retried.
func (fb *FrameBuffer) allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	tex := NewTexture(fb.gl)
	if err := tex.allocate(width, height); err != nil {
		tex.Release()
		return err
	}

	id := fb.gl.CreateFramebuffer()
	prev := fb.currentBinding()
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	fb.gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex.ID(), 0)

	var depth gl.Renderbuffer
	if fb.withDepth {
		depth = fb.gl.CreateRenderbuffer()
		fb.gl.BindRenderbuffer(gl.RENDERBUFFER, depth)
		fb.gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
		fb.gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, depth)
		fb.gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.STENCIL_ATTACHMENT, gl.RENDERBUFFER, depth)
		fb.gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}

	status := fb.gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, prev)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.gl.DeleteFramebuffer(id)
		if depth != 0 {
			fb.gl.DeleteRenderbuffer(depth)
		}
		tex.Release()
		slogger().Warn("framebuffer allocation failed", "width", width, "height", height,
			"status", fmt.Sprintf("%#x", uint32(status)))
		return fmt.Errorf("%w: status %#x", ErrFramebufferIncomplete, uint32(status))
	}
	fb.id, fb.tex, fb.depth = id, tex, depth
	return nil
}

// Release frees the GPU objects and any saved copy. It is safe to call
// more than once.
func (fb *FrameBuffer) Release() {
	fb.releaseGPU()
	fb.saved = nil
	fb.width, fb.height = 0, 0
}

func (fb *FrameBuffer) releaseGPU() {
	if fb.bound {
		fb.ReleaseAsRenderingTarget()
	}
	if fb.id != 0 {
		fb.gl.DeleteFramebuffer(fb.id)
		fb.id = 0
	}
	if fb.depth != 0 {
		fb.gl.DeleteRenderbuffer(fb.depth)
		fb.depth = 0
	}
	if fb.tex != nil {
		fb.tex.Release()
		fb.tex = nil
	}
}

// SaveAndRelease copies the pixels to CPU memory and frees the GPU
// objects. It may be called at any time; on an invalid or already saved
// framebuffer it does nothing.
func (fb *FrameBuffer) SaveAndRelease() {
	if fb.id == 0 {
		return
	}
	saved := fb.readRaw(0, 0, fb.width, fb.height)
	fb.releaseGPU()
	fb.saved = saved
}

// ReloadFrom restores GPU residency from the saved copy using f, which may
// be a different function table than the one the framebuffer was created
// with. If allocation fails the saved copy is kept for a later retry.
func (fb *FrameBuffer) ReloadFrom(f gl.Functions) error {
	if fb.saved == nil {
		return ErrNoSavedCopy
	}
	fb.gl = f
	if err := fb.allocate(fb.width, fb.height); err != nil {
		return err
	}
	fb.tex.subImage(0, 0, fb.width, fb.height, fb.saved)
	fb.saved = nil
	return nil
}

// MakeCurrentRenderingTarget binds the framebuffer for drawing, sets the
// viewport to its size and disables depth testing. It reports false for an
// invalid or saved framebuffer.
func (fb *FrameBuffer) MakeCurrentRenderingTarget() bool {
	if fb.id == 0 {
		contract(fb.saved == nil, "rendering into a saved framebuffer without reloading it")
		return false
	}
	if !fb.bound {
		fb.prevTarget = fb.currentBinding()
	}
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, fb.id)
	fb.gl.Viewport(0, 0, fb.width, fb.height)
	fb.gl.Disable(gl.DEPTH_TEST)
	fb.bound = true
	return true
}

// ReleaseAsRenderingTarget rebinds whatever was bound before
// MakeCurrentRenderingTarget.
func (fb *FrameBuffer) ReleaseAsRenderingTarget() {
	if !fb.bound {
		return
	}
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, fb.prevTarget)
	fb.bound = false
}

// ReadPixels returns a top-down copy of area. Pixels outside the
// framebuffer read as transparent.
func (fb *FrameBuffer) ReadPixels(area geom.Rect) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, max(area.W, 0), max(area.H, 0)))
	src := area.Intersect(fb.Bounds())
	if src.IsEmpty() || (fb.id == 0 && fb.saved == nil) {
		return out
	}
	raw := fb.readRaw(src.X, fb.height-src.Bottom(), src.W, src.H)
	stride := src.W * 4
	for row := 0; row < src.H; row++ {
		dy := src.Y - area.Y + src.H - 1 - row
		copy(out.Pix[out.PixOffset(src.X-area.X, dy):], raw[row*stride:(row+1)*stride])
	}
	return out
}

// readRaw returns bottom-up RGBA rows of the given block in GL window
// coordinates.
func (fb *FrameBuffer) readRaw(x, y, w, h int) []byte {
	buf := make([]byte, w*h*4)
	if fb.id == 0 {
		stride := fb.width * 4
		for row := 0; row < h; row++ {
			o := (y+row)*stride + x*4
			copy(buf[row*w*4:(row+1)*w*4], fb.saved[o:o+w*4])
		}
		return buf
	}
	prev := fb.currentBinding()
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, fb.id)
	fb.gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	fb.gl.ReadPixels(buf, x, y, w, h, gl.RGBA, gl.UNSIGNED_BYTE)
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, prev)
	return buf
}

// WritePixels copies src into the framebuffer with its top-left corner at
// at, replacing what was there. Non-premultiplied sources are converted.
func (fb *FrameBuffer) WritePixels(src image.Image, at image.Point) {
	sb := src.Bounds()
	dst := geom.NewRect(at.X, at.Y, sb.Dx(), sb.Dy()).Intersect(fb.Bounds())
	if dst.IsEmpty() || (fb.id == 0 && fb.saved == nil) {
		return
	}
	rgba := image.NewRGBA(image.Rect(0, 0, dst.W, dst.H))
	draw.Draw(rgba, rgba.Bounds(), src, sb.Min.Add(image.Pt(dst.X-at.X, dst.Y-at.Y)), draw.Src)

	stride := dst.W * 4
	buf := make([]byte, len(rgba.Pix))
	for row := 0; row < dst.H; row++ {
		copy(buf[(dst.H-1-row)*stride:], rgba.Pix[row*rgba.Stride:row*rgba.Stride+stride])
	}
	glY := fb.height - dst.Bottom()
	if fb.id == 0 {
		full := fb.width * 4
		for row := 0; row < dst.H; row++ {
			copy(fb.saved[(glY+row)*full+dst.X*4:], buf[row*stride:(row+1)*stride])
		}
		return
	}
	fb.tex.subImage(dst.X, glY, dst.W, dst.H, buf)
}

// Clear fills the whole framebuffer with a premultiplied colour.
func (fb *FrameBuffer) Clear(c gputypes.Color) {
	fb.ClearArea(fb.Bounds(), c)
}

// ClearArea fills area, in top-down coordinates, with a premultiplied
// colour.
func (fb *FrameBuffer) ClearArea(area geom.Rect, c gputypes.Color) {
	area = area.Intersect(fb.Bounds())
	if area.IsEmpty() {
		return
	}
	if fb.id == 0 {
		if fb.saved != nil {
			fill := image.NewRGBA(image.Rect(0, 0, area.W, area.H))
			draw.Draw(fill, fill.Bounds(), image.NewUniform(rgbaOf(c)), image.Point{}, draw.Src)
			fb.WritePixels(fill, image.Pt(area.X, area.Y))
		}
		return
	}
	prev := fb.currentBinding()
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, fb.id)
	whole := area == fb.Bounds()
	if !whole {
		fb.gl.Enable(gl.SCISSOR_TEST)
		fb.gl.Scissor(area.X, fb.height-area.Bottom(), area.W, area.H)
	}
	fb.gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	fb.gl.Clear(gl.COLOR_BUFFER_BIT)
	if !whole {
		fb.gl.Disable(gl.SCISSOR_TEST)
	}
	fb.gl.BindFramebuffer(gl.FRAMEBUFFER, prev)
}

// rgbaOf converts a premultiplied float colour to bytes.
func rgbaOf(c gputypes.Color) color.RGBA {
	b := func(v float64) uint8 { return uint8(min(max(v, 0), 1)*255 + 0.5) }
	return color.RGBA{R: b(c.R), G: b(c.G), B: b(c.B), A: b(c.A)}
}

func (fb *FrameBuffer) currentBinding() gl.Framebuffer {
	return gl.Framebuffer(fb.gl.GetInteger(gl.FRAMEBUFFER_BINDING))
}

// ID returns the framebuffer object name, or 0 when invalid.
func (fb *FrameBuffer) ID() gl.Framebuffer { return fb.id }

// Texture returns the colour attachment, or nil when invalid.
func (fb *FrameBuffer) Texture() *Texture { return fb.tex }

// IsValid reports whether the GPU objects exist.
func (fb *FrameBuffer) IsValid() bool { return fb.id != 0 }

// IsSaved reports whether the framebuffer holds a saved CPU copy.
func (fb *FrameBuffer) IsSaved() bool { return fb.saved != nil }

// Width returns the width in pixels.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the height in pixels.
func (fb *FrameBuffer) Height() int { return fb.height }

// Bounds returns the framebuffer rectangle with its origin at (0, 0).
func (fb *FrameBuffer) Bounds() geom.Rect { return geom.NewRect(0, 0, fb.width, fb.height) }
