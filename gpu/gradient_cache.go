package gpu

import (
	"encoding/binary"
	"image"

	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/paint"
)

// GradientTextureCache keeps a fixed number of gradient lookup textures.
// A gradient whose colour stops match a cached one reuses its texture;
// geometry is passed to the shaders separately. When every slot is in use
// the slots are recycled in turn.
type GradientTextureCache struct {
	gl    gl.Functions
	width int
	slots []gradientSlot
	next  int
}

type gradientSlot struct {
	stops *paint.Gradient
	tex   *Texture
}

// NewGradientTextureCache returns a cache of slots textures, each width
// texels wide. width is rounded up to a power of two.
func NewGradientTextureCache(f gl.Functions, slots, width int) *GradientTextureCache {
	return &GradientTextureCache{
		gl:    f,
		width: nextPowerOfTwo(max(width, 2)),
		slots: make([]gradientSlot, 0, max(slots, 1)),
	}
}

// Texture returns a lookup texture for g, uploading it if no slot holds
// the same colour stops.
func (c *GradientTextureCache) Texture(g *paint.Gradient) (*Texture, error) {
	for _, s := range c.slots {
		if s.stops != nil && s.stops.SameColours(g) {
			return s.tex, nil
		}
	}

	var slot *gradientSlot
	if len(c.slots) < cap(c.slots) {
		c.slots = append(c.slots, gradientSlot{tex: NewTexture(c.gl)})
		slot = &c.slots[len(c.slots)-1]
	} else {
		slot = &c.slots[c.next]
		c.next = (c.next + 1) % len(c.slots)
	}
	slot.stops = nil
	if err := slot.tex.LoadRGBA(c.lookupImage(g), false); err != nil {
		return nil, err
	}
	slot.stops = g.Clone()
	return slot.tex, nil
}

func (c *GradientTextureCache) lookupImage(g *paint.Gradient) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, 1))
	for i, v := range g.LookupTable(c.width) {
		binary.LittleEndian.PutUint32(img.Pix[i*4:], v)
	}
	return img
}

// Lookup returns the scale and offset that map a gradient position in
// [0, 1] to the centres of the first and last texels.
func (c *GradientTextureCache) Lookup() (scale, offset float32) {
	n := float32(c.width)
	return (n - 1) / n, 0.5 / n
}

// Len returns the number of slots in use.
func (c *GradientTextureCache) Len() int { return len(c.slots) }

// Release deletes every texture.
func (c *GradientTextureCache) Release() {
	for _, s := range c.slots {
		s.tex.Release()
	}
	c.slots = c.slots[:0]
	c.next = 0
}
