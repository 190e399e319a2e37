package glcanvas

import (
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/glyph"
	"github.com/gogpu/glcanvas/registry"
)

// Option configures a GraphicsContext during creation.
//
// Example:
//
//	// Share shader programs and caches with other contexts on the same
//	// native context.
//	g, err := glcanvas.NewContext(f, glcanvas.ScreenTarget(w, h),
//	    glcanvas.WithRegistry(native.Registry()))
type Option func(*contextOptions)

type contextOptions struct {
	registry      *registry.Registry
	limits        gpu.Limits
	glyphCache    int
	forceSoftware bool
}

func defaultOptions() contextOptions {
	return contextOptions{glyphCache: glyph.DefaultSize}
}

// WithRegistry sets the registry of the native context the GraphicsContext
// draws on. The shader library, texture caches and glyph cache are looked
// up there and created on first use, so every context using the same
// registry shares them. Without a registry the context builds private
// copies and releases them on Close.
func WithRegistry(r *registry.Registry) Option {
	return func(o *contextOptions) {
		o.registry = r
	}
}

// WithLimits overrides the GPU object sizes. Zero fields keep the
// defaults for the context's GL flavour. Limits only apply to shared
// objects created by this context.
func WithLimits(l gpu.Limits) Option {
	return func(o *contextOptions) {
		o.limits = l
	}
}

// WithGlyphCache sets the number of glyphs kept in the shared glyph cache
// when this context creates it.
func WithGlyphCache(size int) Option {
	return func(o *contextOptions) {
		if size > 0 {
			o.glyphCache = size
		}
	}
}

// WithForceSoftware makes the context rasterise on the CPU and upload
// finished frames, even when shaders are available.
func WithForceSoftware() Option {
	return func(o *contextOptions) {
		o.forceSoftware = true
	}
}
