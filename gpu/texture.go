package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/pixel"
)

// Texture owns one GPU texture object.
//
// Loaded textures are rounded up to power-of-two sizes. Width and Height
// report the allocated size, ContentWidth and ContentHeight the size that
// was asked for; callers that sample the content scale by the ratio.
type Texture struct {
	gl gl.Functions
	id gl.Texture

	width, height      int
	contentW, contentH int

	format  gputypes.TextureFormat
	address gputypes.AddressMode
	filter  gputypes.FilterMode
}

// NewTexture returns an empty texture. No GPU object exists until the
// first load.
func NewTexture(f gl.Functions) *Texture {
	return &Texture{
		gl:      f,
		address: gputypes.AddressModeClampToEdge,
		filter:  gputypes.FilterModeLinear,
	}
}

// LoadRGBA uploads premultiplied pixels. With flip set, the top row of img
// becomes the last row of the texture, which matches how framebuffers are
// stored.
func (t *Texture) LoadRGBA(img *image.RGBA, flip bool) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return ErrInvalidSize
	}
	tw, th := nextPowerOfTwo(w), nextPowerOfTwo(h)
	buf := make([]byte, tw*th*4)
	for y := 0; y < h; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(buf[rowIndex(y, th, flip)*tw*4:], src[:w*4])
	}
	return t.upload(buf, tw, th, w, h, gputypes.TextureFormatRGBA8Unorm)
}

// LoadAlpha uploads a single-channel coverage or alpha map of w x h bytes
// with no row padding. The alpha is replicated into every channel so that
// shaders read it from .a on every GL flavour.
func (t *Texture) LoadAlpha(pix []byte, w, h int, flip bool) error {
	if w <= 0 || h <= 0 || len(pix) < w*h {
		return ErrInvalidSize
	}
	tw, th := nextPowerOfTwo(w), nextPowerOfTwo(h)
	buf := make([]byte, tw*th*4)
	for y := 0; y < h; y++ {
		row := buf[rowIndex(y, th, flip)*tw*4:]
		for x, a := range pix[y*w : y*w+w] {
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = a, a, a, a
		}
	}
	return t.upload(buf, tw, th, w, h, gputypes.TextureFormatR8Unorm)
}

// LoadImage uploads an image flipping it vertically. Single-channel images
// load as premultiplied white.
func (t *Texture) LoadImage(img *pixel.Image) error {
	if img.Format() == pixel.FormatSingleChannel {
		a := img.ToAlpha()
		return t.LoadAlpha(a.Pix, img.Width(), img.Height(), true)
	}
	return t.LoadRGBA(img.ToRGBA(), true)
}

// allocate creates exact-size storage without uploading pixels, for use as
// a framebuffer attachment.
func (t *Texture) allocate(w, h int) error {
	if w <= 0 || h <= 0 {
		return ErrInvalidSize
	}
	return t.upload(nil, w, h, w, h, gputypes.TextureFormatRGBA8Unorm)
}

func (t *Texture) upload(buf []byte, tw, th, cw, ch int, format gputypes.TextureFormat) error {
	if t.id == 0 {
		t.id = t.gl.CreateTexture()
	}
	restore := t.bindTemporarily()
	defer restore()

	clearErrors(t.gl)
	t.applyParameters()
	t.gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	t.gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, tw, th, gl.RGBA, gl.UNSIGNED_BYTE, buf)
	if e := t.gl.GetError(); e != gl.NO_ERROR {
		t.width, t.height, t.contentW, t.contentH = 0, 0, 0, 0
		slogger().Warn("texture upload failed", "width", tw, "height", th, "glError", fmt.Sprintf("%#x", uint32(e)))
		return fmt.Errorf("%w: %dx%d (GL error %#x)", ErrTextureAlloc, tw, th, uint32(e))
	}
	t.width, t.height = tw, th
	t.contentW, t.contentH = cw, ch
	t.format = format
	return nil
}

// subImage replaces a block of texels. y counts from the first row in
// memory.
func (t *Texture) subImage(x, y, w, h int, buf []byte) {
	if t.id == 0 {
		return
	}
	restore := t.bindTemporarily()
	defer restore()
	t.gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	t.gl.TexSubImage2D(gl.TEXTURE_2D, 0, x, y, w, h, gl.RGBA, gl.UNSIGNED_BYTE, buf)
}

// Bind binds the texture to a texture unit. [State.BindTexture] does the
// same with redundant-bind elimination and should be preferred while
// drawing.
func (t *Texture) Bind(unit int) {
	t.gl.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
	t.gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// SetAddressMode selects clamping or repeating outside [0, 1].
func (t *Texture) SetAddressMode(m gputypes.AddressMode) {
	if t.address == m {
		return
	}
	t.address = m
	t.reapply()
}

// SetFilter selects nearest or linear sampling.
func (t *Texture) SetFilter(m gputypes.FilterMode) {
	if t.filter == m {
		return
	}
	t.filter = m
	t.reapply()
}

func (t *Texture) reapply() {
	if t.id == 0 {
		return
	}
	restore := t.bindTemporarily()
	defer restore()
	t.applyParameters()
}

// applyParameters expects the texture to be bound.
func (t *Texture) applyParameters() {
	f, w := int(gl.Filter(t.filter)), int(gl.Wrap(t.address))
	t.gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, f)
	t.gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, f)
	t.gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, w)
	t.gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, w)
}

// bindTemporarily binds t on the active unit and returns a function that
// restores the previous binding, so that texture tracking in State stays
// valid.
func (t *Texture) bindTemporarily() (restore func()) {
	prev := gl.Texture(t.gl.GetInteger(gl.TEXTURE_BINDING_2D))
	t.gl.BindTexture(gl.TEXTURE_2D, t.id)
	return func() { t.gl.BindTexture(gl.TEXTURE_2D, prev) }
}

// Release deletes the GPU texture. It is safe to call more than once.
func (t *Texture) Release() {
	if t.id != 0 {
		t.gl.DeleteTexture(t.id)
		t.id = 0
	}
	t.width, t.height, t.contentW, t.contentH = 0, 0, 0, 0
}

// ID returns the GL name, or 0 if nothing is loaded.
func (t *Texture) ID() gl.Texture { return t.id }

// IsValid reports whether the texture holds GPU storage.
func (t *Texture) IsValid() bool { return t.id != 0 && t.width > 0 }

// Width returns the allocated width.
func (t *Texture) Width() int { return t.width }

// Height returns the allocated height.
func (t *Texture) Height() int { return t.height }

// ContentWidth returns the width that was loaded.
func (t *Texture) ContentWidth() int { return t.contentW }

// ContentHeight returns the height that was loaded.
func (t *Texture) ContentHeight() int { return t.contentH }

// Format returns the logical format of the loaded data.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

func rowIndex(y, height int, flip bool) int {
	if flip {
		return height - 1 - y
	}
	return y
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// clearErrors drains stale GL errors so that the next GetError reports on
// the call that follows. A lost context keeps reporting errors, hence the
// bound.
func clearErrors(f gl.Functions) {
	for i := 0; i < 8; i++ {
		if f.GetError() == gl.NO_ERROR {
			return
		}
	}
}
