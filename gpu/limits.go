package gpu

import "github.com/gogpu/gputypes"

// Limits gathers the tunable sizes of the GPU objects. Zero fields take
// the defaults from [DefaultLimits].
type Limits struct {
	// MaxQuads is the quad batch capacity. Indices are 16-bit, so at most
	// 16384 quads fit in one batch.
	MaxQuads int

	// GradientSlots is the number of gradient lookup textures kept alive.
	GradientSlots int

	// GradientWidth is the number of entries in a gradient lookup texture.
	// It should be a power of two.
	GradientWidth int

	// ImageTextures is the number of uploaded software images kept alive.
	ImageTextures int
}

const maxBatchQuads = 65536 / 4

// DefaultLimits returns the defaults for a GL flavour. GL ES drivers get a
// small batch because their buffer uploads stall on large streams.
func DefaultLimits(backend gputypes.GLBackend) Limits {
	l := Limits{
		MaxQuads:      8192,
		GradientSlots: 10,
		GradientWidth: 256,
		ImageTextures: 64,
	}
	if backend == gputypes.GLBackendGLES {
		l.MaxQuads = 256
	}
	return l
}

// WithDefaults returns l with zero fields replaced by the defaults for
// backend and out-of-range values clamped.
func (l Limits) WithDefaults(backend gputypes.GLBackend) Limits {
	d := DefaultLimits(backend)
	if l.MaxQuads <= 0 {
		l.MaxQuads = d.MaxQuads
	}
	l.MaxQuads = min(l.MaxQuads, maxBatchQuads)
	if l.GradientSlots <= 0 {
		l.GradientSlots = d.GradientSlots
	}
	if l.GradientWidth <= 1 {
		l.GradientWidth = d.GradientWidth
	}
	if l.ImageTextures <= 0 {
		l.ImageTextures = d.ImageTextures
	}
	return l
}
