package glcanvas

import (
	"fmt"
	"io"

	"github.com/gogpu/glcanvas/font"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/glyph"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
	"github.com/gogpu/glcanvas/registry"
)

// GraphicsContext is the drawing-command target.
//
// Coordinates passed to drawing and clipping calls are in user space; the
// current transform maps them to device space. Clip regions, fills and the
// font belong to the current saved state.
type GraphicsContext interface {
	io.Closer

	// SetOrigin moves the user-space origin to (x, y) in current user
	// coordinates.
	SetOrigin(x, y float64)
	// AddTransform applies t before the current transform.
	AddTransform(t geom.Affine)
	// Transform returns the user-to-device transform.
	Transform() geom.Affine

	// The clip operations intersect the current clip with a shape and
	// report whether anything remains, where a result is returned.
	ClipToRectangle(r geom.Rect) bool
	ClipToRectangleList(l *geom.RectList) bool
	ClipToPath(p *geom.Path, t geom.Affine)
	ClipToImageAlpha(img *pixel.Image, t geom.Affine)
	ExcludeClipRectangle(r geom.Rect)
	ClipRegionIntersects(r geom.Rect) bool
	// ClipBounds returns a user-space rectangle enclosing the clip.
	ClipBounds() geom.Rect
	IsClipEmpty() bool

	SaveState()
	RestoreState()

	// BeginTransparencyLayer redirects drawing into an offscreen layer the
	// size of the clip bounds. EndTransparencyLayer composites the layer
	// back at opacity, through the clip that was current before the
	// layer began.
	BeginTransparencyLayer(opacity float64)
	EndTransparencyLayer()

	// SetFill sets the fill. Its transform is applied before the context
	// transform.
	SetFill(f paint.Fill)
	Fill() paint.Fill
	SetOpacity(opacity float64)
	SetInterpolationQuality(q paint.ResamplingQuality)
	SetFont(f font.Font)
	Font() font.Font

	// FillRect fills r. With replace the covered pixels take the fill's
	// value instead of having it composited over them. Replace only
	// applies while the transform is an integer translation; otherwise r
	// is composited like FillRectF.
	FillRect(r geom.Rect, replace bool)
	FillRectF(r geom.RectF)
	FillRectList(l *geom.RectList)
	FillPath(p *geom.Path, t geom.Affine)
	DrawImage(img *pixel.Image, t geom.Affine)
	// DrawGlyph draws a glyph of the current font with its baseline
	// origin transformed by t.
	DrawGlyph(glyph uint32, t geom.Affine)
	DrawLine(l geom.Line)

	// Flush submits everything drawn so far to the target.
	Flush()
	// IsShaderBacked reports whether primitives are shaded on the GPU.
	IsShaderBacked() bool
}

// NewContext returns a context drawing into target on the GL context f
// belongs to, which must be current. Whether it shades on the GPU or
// rasterises on the CPU is decided once per registry.
func NewContext(f gl.Functions, target Target, opts ...Option) (GraphicsContext, error) {
	if !target.valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, target.width, target.height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	sh := newShared(f, o)
	if o.forceSoftware || !sh.shadersAvailable() {
		return newSoftwareContext(f, target, sh), nil
	}
	c, err := newShaderContext(f, target, sh)
	if err != nil {
		Logger().Warn("shader context unavailable, using software rendering", "err", err)
		return newSoftwareContext(f, target, sh), nil
	}
	return c, nil
}

// NewImageContext returns a context drawing into img. GPU images made by
// NewGPUImage are drawn into on the GL context f belongs to; software
// images are drawn into in memory and f may be nil.
func NewImageContext(f gl.Functions, img *pixel.Image, opts ...Option) (GraphicsContext, error) {
	if fb := FrameBufferOf(img); fb != nil {
		if f == nil {
			return nil, fmt.Errorf("%w: GPU image without GL functions", ErrNotGPUImage)
		}
		g, err := NewContext(f, FrameBufferTarget(fb), opts...)
		if err != nil {
			return nil, err
		}
		return &imageContext{GraphicsContext: g, img: img}, nil
	}
	sw, ok := img.Data().(*pixel.Software)
	if !ok || sw.RGBA() == nil {
		return nil, fmt.Errorf("%w: %s data of type %T", ErrNotGPUImage, img.Format(), img.Data())
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.forceSoftware = true
	return newMemoryContext(sw.RGBA(), img, newShared(f, o)), nil
}

// imageContext marks its image modified whenever drawing is submitted.
type imageContext struct {
	GraphicsContext
	img *pixel.Image
}

func (c *imageContext) Flush() {
	c.GraphicsContext.Flush()
	c.img.MarkModified()
}

func (c *imageContext) Close() error {
	err := c.GraphicsContext.Close()
	c.img.MarkModified()
	return err
}

// shared holds the per-native-context objects a context draws with.
type shared struct {
	gl     gl.Functions
	reg    *registry.Registry
	owned  bool
	opts   contextOptions
	glyphs *glyph.Cache
}

func newShared(f gl.Functions, o contextOptions) *shared {
	sh := &shared{gl: f, reg: o.registry, opts: o}
	if sh.reg == nil {
		sh.reg = registry.New()
		sh.owned = true
	}
	obj, _ := sh.reg.GetOrCreate(registry.GlyphCache, func() (registry.Object, error) {
		return glyph.NewCache(o.glyphCache), nil
	})
	sh.glyphs = obj.(*glyph.Cache)
	return sh
}

func (sh *shared) limits() gpu.Limits {
	return sh.opts.limits.WithDefaults(sh.gl.Backend())
}

// shadersAvailable builds the shader library on first use and records the
// outcome in the registry, so every later context on the same native
// context makes the same choice.
func (sh *shared) shadersAvailable() bool {
	if v, ok := sh.reg.Get(registry.ContextKind); ok {
		return v.(*registry.Value[bool]).V
	}
	lib, err := sh.library()
	ok := err == nil && lib.Available()
	if ok {
		Logger().Info("using shader-backed rendering")
	} else {
		Logger().Warn("shaders unavailable, using software rendering", "err", err)
	}
	sh.reg.Set(registry.ContextKind, &registry.Value[bool]{V: ok})
	return ok
}

func (sh *shared) library() (*gpu.ShaderLibrary, error) {
	obj, err := sh.reg.GetOrCreate(registry.ShaderLibrary, func() (registry.Object, error) {
		return gpu.NewShaderLibrary(sh.gl)
	})
	if err != nil {
		return nil, err
	}
	return obj.(*gpu.ShaderLibrary), nil
}

func (sh *shared) resources() (gpu.Resources, error) {
	lib, err := sh.library()
	if err != nil {
		return gpu.Resources{}, err
	}
	l := sh.limits()
	grad, _ := sh.reg.GetOrCreate(registry.GradientCache, func() (registry.Object, error) {
		return gpu.NewGradientTextureCache(sh.gl, l.GradientSlots, l.GradientWidth), nil
	})
	imgs, _ := sh.reg.GetOrCreate(registry.ImageCache, func() (registry.Object, error) {
		return gpu.NewImageTextureCache(sh.gl, l.ImageTextures), nil
	})
	return gpu.Resources{
		Library:   lib,
		Gradients: grad.(*gpu.GradientTextureCache),
		Images:    imgs.(*gpu.ImageTextureCache),
	}, nil
}

// release frees a private registry. Shared registries outlive the context.
func (sh *shared) release() {
	if sh.owned {
		sh.reg.ReleaseAll()
	}
}
