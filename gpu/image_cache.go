package gpu

import (
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/internal/cache"
	"github.com/gogpu/glcanvas/pixel"
)

// FrameBufferBacked is implemented by image data that already lives in a
// framebuffer. Such images are sampled in place.
type FrameBufferBacked interface {
	FrameBuffer() *FrameBuffer
}

type imageTexture struct {
	tex     *Texture
	version uint64
}

// ImageTextureCache keeps uploaded copies of software images, keyed by
// image identity. A cached texture is reloaded when the image has been
// modified since it was uploaded.
type ImageTextureCache struct {
	gl      gl.Functions
	entries *cache.Cache[uint64, *imageTexture]
}

// NewImageTextureCache returns a cache holding at most limit textures.
func NewImageTextureCache(f gl.Functions, limit int) *ImageTextureCache {
	return &ImageTextureCache{
		gl: f,
		entries: cache.New(limit, func(_ uint64, e *imageTexture) {
			e.tex.Release()
		}),
	}
}

// Texture returns a texture holding img. Framebuffer-backed images return
// their colour attachment, which is exact-size.
func (c *ImageTextureCache) Texture(img *pixel.Image) (*Texture, error) {
	if fb, ok := img.Data().(FrameBufferBacked); ok {
		if f := fb.FrameBuffer(); f != nil && f.IsValid() {
			return f.Texture(), nil
		}
	}
	version := img.Version()
	if e, ok := c.entries.Get(img.ID()); ok {
		if e.version == version {
			return e.tex, nil
		}
		if err := e.tex.LoadImage(img); err != nil {
			c.entries.Delete(img.ID())
			return nil, err
		}
		e.version = version
		return e.tex, nil
	}
	tex := NewTexture(c.gl)
	if err := tex.LoadImage(img); err != nil {
		tex.Release()
		return nil, err
	}
	c.entries.Set(img.ID(), &imageTexture{tex: tex, version: version})
	return tex, nil
}

// Forget drops the texture for img, if any.
func (c *ImageTextureCache) Forget(img *pixel.Image) {
	c.entries.Delete(img.ID())
}

// Stats returns the hit and eviction counters.
func (c *ImageTextureCache) Stats() cache.Stats { return c.entries.Stats() }

// Release deletes every texture.
func (c *ImageTextureCache) Release() {
	c.entries.Clear()
}
