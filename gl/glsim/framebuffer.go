package glsim

import (
	"image"

	"github.com/gogpu/glcanvas/gl"
)

// colourTarget returns the storage behind a framebuffer's colour
// attachment, or nil if it has none.
func (s *Sim) colourTarget(fb gl.Framebuffer) *texture {
	if fb == 0 {
		return s.screen
	}
	f := s.framebuffers[fb]
	if f == nil {
		return nil
	}
	return s.textures[f.colour]
}

// CreateFramebuffer implements gl.Functions.
func (s *Sim) CreateFramebuffer() gl.Framebuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gl.Framebuffer(s.newName())
	s.framebuffers[id] = &framebuffer{}
	return id
}

// DeleteFramebuffer implements gl.Functions.
func (s *Sim) DeleteFramebuffer(fb gl.Framebuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.framebuffers, fb)
	if s.drawFB == fb {
		s.drawFB = 0
	}
	if s.readFB == fb {
		s.readFB = 0
	}
}

// BindFramebuffer implements gl.Functions.
func (s *Sim) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fb != 0 && s.framebuffers[fb] == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	switch target {
	case gl.READ_FRAMEBUFFER:
		s.readFB = fb
	case gl.DRAW_FRAMEBUFFER:
		s.drawFB = fb
	default:
		s.readFB, s.drawFB = fb, fb
	}
	s.stats.FramebufferBinds++
}

func (s *Sim) boundFramebuffer(target gl.Enum) *framebuffer {
	if target == gl.READ_FRAMEBUFFER {
		return s.framebuffers[s.readFB]
	}
	return s.framebuffers[s.drawFB]
}

// FramebufferTexture2D implements gl.Functions.
func (s *Sim) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.boundFramebuffer(target)
	if f == nil || attachment != gl.COLOR_ATTACHMENT0 {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	f.colour = t
}

// FramebufferRenderbuffer implements gl.Functions.
func (s *Sim) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Renderbuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.boundFramebuffer(target)
	if f == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	f.depth = rb
}

// CheckFramebufferStatus implements gl.Functions.
func (s *Sim) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	s.mu.Lock()
	defer s.mu.Unlock()
	fbID := s.drawFB
	if target == gl.READ_FRAMEBUFFER {
		fbID = s.readFB
	}
	if fbID == 0 {
		return gl.FRAMEBUFFER_COMPLETE
	}
	if s.FailFramebuffers.Load() {
		return gl.FRAMEBUFFER_UNSUPPORTED
	}
	t := s.colourTarget(fbID)
	if t == nil || t.w == 0 || t.h == 0 {
		return gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}
	if f := s.framebuffers[fbID]; f.depth != 0 {
		rb := s.renderbuffers[f.depth]
		if rb == nil || rb.width != t.w || rb.height != t.h {
			return gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
		}
	}
	return gl.FRAMEBUFFER_COMPLETE
}

// CreateRenderbuffer implements gl.Functions.
func (s *Sim) CreateRenderbuffer() gl.Renderbuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gl.Renderbuffer(s.newName())
	s.renderbuffers[id] = &renderbuffer{}
	return id
}

// DeleteRenderbuffer implements gl.Functions.
func (s *Sim) DeleteRenderbuffer(rb gl.Renderbuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.renderbuffers, rb)
	if s.renderbuffer == rb {
		s.renderbuffer = 0
	}
}

// BindRenderbuffer implements gl.Functions.
func (s *Sim) BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderbuffer = rb
}

// RenderbufferStorage implements gl.Functions.
func (s *Sim) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rb := s.renderbuffers[s.renderbuffer]
	if rb == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	rb.format, rb.width, rb.height = internalFormat, width, height
}

// ReadPixels implements gl.Functions. Only RGBA / UNSIGNED_BYTE is
// supported. Rows are returned bottom-up and pixels outside the
// framebuffer read as zero.
func (s *Sim) ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.colourTarget(s.readFB)
	if t == nil || format != gl.RGBA || ty != gl.UNSIGNED_BYTE {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	stride := width * 4
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			o := row*stride + col*4
			if o+4 > len(dst) {
				return
			}
			sx, sy := x+col, y+row
			if sx < 0 || sy < 0 || sx >= t.w || sy >= t.h {
				copy(dst[o:o+4], []byte{0, 0, 0, 0})
				continue
			}
			copy(dst[o:o+4], t.pix[t.offset(sx, sy):])
		}
	}
}

// BlitFramebuffer implements gl.Functions for the colour buffer using
// nearest sampling.
func (s *Sim) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int, mask, filter gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	src := s.colourTarget(s.readFB)
	dst := s.colourTarget(s.drawFB)
	if src == nil || dst == nil || dstX1 == dstX0 || dstY1 == dstY0 {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	// Copy through a temporary so that blits within one framebuffer work.
	snapshot := append([]byte(nil), src.pix...)
	r := image.Rect(dstX0, dstY0, dstX1, dstY1).Intersect(image.Rect(0, 0, dst.w, dst.h))
	if s.enabled[gl.SCISSOR_TEST] {
		r = r.Intersect(rectOf(s.scissor))
	}
	sx := float64(srcX1-srcX0) / float64(dstX1-dstX0)
	sy := float64(srcY1-srcY0) / float64(dstY1-dstY0)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ty := srcY0 + int((float64(y-dstY0)+0.5)*sy)
		if sy < 0 {
			ty--
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			tx := srcX0 + int((float64(x-dstX0)+0.5)*sx)
			if sx < 0 {
				tx--
			}
			o := dst.offset(x, y)
			if tx < 0 || ty < 0 || tx >= src.w || ty >= src.h {
				continue
			}
			copy(dst.pix[o:o+4], snapshot[src.offset(tx, ty):])
		}
	}
	s.stats.Blits++
}
