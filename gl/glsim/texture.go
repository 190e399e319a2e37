package glsim

import (
	"image"
	"math"

	"github.com/gogpu/glcanvas/gl"
)

// texture stores RGBA8 texels; row 0 is the first row in memory.
type texture struct {
	w, h      int
	pix       []byte
	minFilter gl.Enum
	magFilter gl.Enum
	wrapS     gl.Enum
	wrapT     gl.Enum
}

func newTexture(w, h int) *texture {
	t := &texture{
		minFilter: gl.LINEAR,
		magFilter: gl.LINEAR,
		wrapS:     gl.REPEAT,
		wrapT:     gl.REPEAT,
	}
	t.alloc(w, h)
	return t
}

func (t *texture) alloc(w, h int) {
	t.w, t.h = max(w, 0), max(h, 0)
	t.pix = make([]byte, t.w*t.h*4)
}

func (t *texture) offset(x, y int) int {
	return (y*t.w + x) * 4
}

func (t *texture) texel(x, y int) [4]float32 {
	o := t.offset(x, y)
	p := t.pix[o : o+4 : o+4]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

// topDown returns the texture as an image whose top row is the last row in
// memory, which is how a framebuffer looks on screen.
func (t *texture) topDown() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.w, t.h))
	stride := t.w * 4
	for y := 0; y < t.h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], t.pix[(t.h-1-y)*stride:])
	}
	return img
}

func wrapCoord(i, n int, mode gl.Enum) int {
	if mode == gl.REPEAT {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	return min(max(i, 0), n-1)
}

// sample looks up normalised coordinates with the texture's filter and
// wrap modes. Linear lookups that land within 1/256 texel of a texel centre
// are snapped to it so that one-to-one copies are exact.
func (t *texture) sample(u, v float32) [4]float32 {
	if t == nil || t.w == 0 || t.h == 0 {
		return [4]float32{}
	}
	fx := float64(u)*float64(t.w) - 0.5
	fy := float64(v)*float64(t.h) - 0.5
	if t.magFilter == gl.NEAREST {
		x := wrapCoord(int(math.Floor(fx+0.5)), t.w, t.wrapS)
		y := wrapCoord(int(math.Floor(fy+0.5)), t.h, t.wrapT)
		return t.texel(x, y)
	}
	fx, fy = snap(fx), snap(fy)
	x0, y0 := math.Floor(fx), math.Floor(fy)
	ax, ay := float32(fx-x0), float32(fy-y0)
	ix, iy := int(x0), int(y0)
	x1 := wrapCoord(ix+1, t.w, t.wrapS)
	y1 := wrapCoord(iy+1, t.h, t.wrapT)
	ix = wrapCoord(ix, t.w, t.wrapS)
	iy = wrapCoord(iy, t.h, t.wrapT)

	c00, c10 := t.texel(ix, iy), t.texel(x1, iy)
	c01, c11 := t.texel(ix, y1), t.texel(x1, y1)
	var out [4]float32
	for i := range out {
		top := c00[i] + (c10[i]-c00[i])*ax
		bottom := c01[i] + (c11[i]-c01[i])*ax
		out[i] = top + (bottom-top)*ay
	}
	return out
}

func snap(f float64) float64 {
	if r := math.Round(f); math.Abs(f-r) < 1.0/256 {
		return r
	}
	return f
}

// CreateTexture implements gl.Functions.
func (s *Sim) CreateTexture() gl.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gl.Texture(s.newName())
	s.textures[id] = newTexture(0, 0)
	return id
}

// DeleteTexture implements gl.Functions.
func (s *Sim) DeleteTexture(t gl.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.textures, t)
	for i, u := range s.units {
		if u == t {
			s.units[i] = 0
		}
	}
}

// ActiveTexture implements gl.Functions.
func (s *Sim) ActiveTexture(unit gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := int(unit - gl.TEXTURE0)
	if i < 0 || i >= maxTextureUnits {
		s.setError(gl.INVALID_ENUM)
		return
	}
	s.activeUnit = i
}

// BindTexture implements gl.Functions.
func (s *Sim) BindTexture(target gl.Enum, t gl.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != 0 && s.textures[t] == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	s.units[s.activeUnit] = t
}

func (s *Sim) boundTexture() *texture {
	return s.textures[s.units[s.activeUnit]]
}

// TexParameteri implements gl.Functions.
func (s *Sim) TexParameteri(target, pname gl.Enum, param int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.boundTexture()
	if t == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	switch pname {
	case gl.TEXTURE_MIN_FILTER:
		t.minFilter = gl.Enum(param)
	case gl.TEXTURE_MAG_FILTER:
		t.magFilter = gl.Enum(param)
	case gl.TEXTURE_WRAP_S:
		t.wrapS = gl.Enum(param)
	case gl.TEXTURE_WRAP_T:
		t.wrapT = gl.Enum(param)
	}
}

func bytesPerPixel(format gl.Enum) int {
	switch format {
	case gl.RGBA:
		return 4
	case gl.RGB:
		return 3
	default:
		return 1
	}
}

// TexImage2D implements gl.Functions.
func (s *Sim) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.boundTexture()
	if t == nil || level != 0 {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	if width < 0 || height < 0 || width > maxTextureSize || height > maxTextureSize {
		s.setError(gl.INVALID_VALUE)
		return
	}
	if s.FailTextures.Load() {
		t.alloc(0, 0)
		s.setError(gl.OUT_OF_MEMORY)
		return
	}
	t.alloc(width, height)
	if data != nil {
		s.unpack(t, 0, 0, width, height, format, data)
		s.stats.TextureUploads++
	}
}

// TexSubImage2D implements gl.Functions.
func (s *Sim) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.boundTexture()
	if t == nil || x < 0 || y < 0 || x+width > t.w || y+height > t.h {
		s.setError(gl.INVALID_VALUE)
		return
	}
	s.unpack(t, x, y, width, height, format, data)
	s.stats.TextureUploads++
}

// unpack converts client pixels to RGBA8 texels, honouring the unpack
// alignment. Single-channel formats follow the GL ES expansion rules.
func (s *Sim) unpack(t *texture, x0, y0, width, height int, format gl.Enum, data []byte) {
	bpp := bytesPerPixel(format)
	stride := width * bpp
	if a := s.unpackAlign; a > 1 && stride%a != 0 {
		stride += a - stride%a
	}
	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			src := row + x*bpp
			if src+bpp > len(data) {
				return
			}
			var c [4]byte
			switch format {
			case gl.RGBA:
				copy(c[:], data[src:src+4])
			case gl.RGB:
				c = [4]byte{data[src], data[src+1], data[src+2], 255}
			case gl.ALPHA:
				c = [4]byte{0, 0, 0, data[src]}
			default: // RED, LUMINANCE
				c = [4]byte{data[src], 0, 0, 255}
			}
			copy(t.pix[t.offset(x0+x, y0+y):], c[:])
		}
	}
}
