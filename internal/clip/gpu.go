package clip

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/edgetable"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// GPUDevice is what GPU regions draw with. It is shared by every region
// of one graphics context; the context updates Quality as its render
// state changes.
type GPUDevice struct {
	State           *gpu.State
	Quality         paint.ResamplingQuality
	RectangleBudget int
}

func (d *GPUDevice) budget() int {
	if d.RectangleBudget <= 0 {
		return DefaultRectangleBudget
	}
	return d.RectangleBudget
}

// shader selects the program for fill. It reports false when the fill
// cannot be drawn, for example because its texture could not be uploaded.
func (d *GPUDevice) shader(fill paint.Fill, mask *gpu.Mask) (uint32, bool) {
	c, err := d.State.SetShaderForFill(fill, mask, d.Quality)
	if err != nil {
		slogger().Warn("fill skipped", "err", err)
		return 0, false
	}
	return c, true
}

// NewGPURegion returns a rectangle-list region covering bounds, or nil if
// bounds is empty.
func NewGPURegion(d *GPUDevice, bounds geom.Rect) Region {
	if bounds.IsEmpty() {
		return nil
	}
	return &gpuRects{d: d, list: geom.NewRectList(bounds)}
}

type gpuRects struct {
	d    *GPUDevice
	list *geom.RectList
}

func (c *gpuRects) Kind() Kind                  { return KindRectangleList }
func (c *gpuRects) Bounds() geom.Rect           { return c.list.Bounds() }
func (c *gpuRects) Intersects(r geom.Rect) bool { return c.list.Intersects(r) }
func (c *gpuRects) Release()                    {}

func (c *gpuRects) Clone() Region {
	return &gpuRects{d: c.d, list: c.list.Clone()}
}

func (c *gpuRects) ClipToRectangle(r geom.Rect) Region {
	if !c.list.ClipTo(r) {
		return nil
	}
	return c
}

func (c *gpuRects) ClipToRectangleList(l *geom.RectList) Region {
	if !c.list.ClipToList(l) {
		return nil
	}
	return c
}

func (c *gpuRects) ExcludeClipRectangle(r geom.Rect) Region {
	c.list.Subtract(r)
	switch {
	case c.list.IsEmpty():
		return nil
	case c.list.Count() > c.d.budget():
		m := newGPUMask(c.d, c.list)
		if m == nil {
			return nil
		}
		return m
	}
	return c
}

func (c *gpuRects) ClipToPath(p *geom.Path, t geom.Affine) Region {
	m := newGPUMask(c.d, c.list)
	if m == nil {
		return nil
	}
	return m.ClipToPath(p, t)
}

func (c *gpuRects) ClipToImageAlpha(img *pixel.Image, t geom.Affine) Region {
	m := newGPUMask(c.d, c.list)
	if m == nil {
		return nil
	}
	return m.ClipToImageAlpha(img, t)
}

func (c *gpuRects) FillRect(area geom.Rect, fill paint.Fill, replace bool) {
	if !replace && fill.IsInvisible() {
		return
	}
	colour, ok := c.d.shader(fill, nil)
	if !ok {
		return
	}
	st := c.d.State
	if replace {
		st.SetBlendNone()
		defer st.SetPremultipliedBlend()
	}
	for _, r := range c.list.Rects() {
		if i := r.Intersect(area); !i.IsEmpty() {
			st.Quads().AddQuadRect(i, colour)
		}
	}
}

func (c *gpuRects) FillRectF(area geom.RectF, fill paint.Fill) { fillRectF(c, area, fill) }

func (c *gpuRects) FillEdgeTable(et *edgetable.EdgeTable, fill paint.Fill) {
	if fill.IsInvisible() {
		return
	}
	colour, ok := c.d.shader(fill, nil)
	if !ok {
		return
	}
	quads := c.d.State.Quads()
	for _, r := range c.list.Rects() {
		et.IterateIn(r, func(y int, s edgetable.Span) {
			quads.AddCoverageRun(s.X, y, s.Width, s.Level, colour)
		})
	}
}

func (c *gpuRects) DrawImage(img *pixel.Image, t geom.Affine, opacity float64) {
	drawImage(c, img, t, opacity)
}

// gpuMask is an alpha mask in a framebuffer placed at area in device
// space. Only the pixels inside bounds belong to the region.
type gpuMask struct {
	d      *GPUDevice
	fb     *gpu.FrameBuffer
	area   geom.Rect
	bounds geom.Rect
}

// newGPUMask rasterises l into a new mask. It returns nil when the
// framebuffer cannot be allocated; callers treat that as an empty clip.
func newGPUMask(d *GPUDevice, l *geom.RectList) *gpuMask {
	area := l.Bounds()
	m := allocMask(d, area)
	if m == nil {
		return nil
	}
	m.fb.Clear(gputypes.Color{})
	m.drawInto(func(st *gpu.State) {
		st.SetBlendNone()
		colour, _ := d.shader(paint.SolidFill(paint.White), nil)
		for _, r := range l.Rects() {
			st.Quads().AddQuadRect(r, colour)
		}
	})
	return m
}

func allocMask(d *GPUDevice, area geom.Rect) *gpuMask {
	fb := gpu.NewFrameBuffer(d.State.Functions())
	if err := fb.Initialise(area.W, area.H); err != nil {
		slogger().Warn("clip mask allocation failed, clip becomes empty", "bounds", area, "err", err)
		return nil
	}
	return &gpuMask{d: d, fb: fb, area: area, bounds: area}
}

// drawInto runs fn with the mask as the render target, then restores the
// previous target and premultiplied blending.
func (m *gpuMask) drawInto(fn func(st *gpu.State)) {
	st := m.d.State
	st.PushTarget(gpu.Target{Framebuffer: m.fb.ID(), Bounds: m.area})
	fn(st)
	st.PopTarget()
	st.SetPremultipliedBlend()
}

func (m *gpuMask) mask() *gpu.Mask {
	return &gpu.Mask{Texture: m.fb.Texture(), Bounds: m.area}
}

func (m *gpuMask) Kind() Kind                  { return KindMask }
func (m *gpuMask) Bounds() geom.Rect           { return m.bounds }
func (m *gpuMask) Intersects(r geom.Rect) bool { return m.bounds.Intersects(r) }

// Clone copies the mask on the GPU with the copy-texture program.
func (m *gpuMask) Clone() Region {
	c := allocMask(m.d, m.area)
	if c == nil {
		return nil
	}
	c.bounds = m.bounds
	c.drawInto(func(st *gpu.State) {
		st.SetBlendNone()
		st.SetCopyTextureShader(m.fb.Texture(), geom.Pt(float64(m.area.X), float64(m.area.Y)))
		st.Quads().AddQuadRect(m.area, paint.White.Premultiplied())
	})
	return c
}

func (m *gpuMask) ClipToRectangle(r geom.Rect) Region {
	m.bounds = m.bounds.Intersect(r)
	if m.bounds.IsEmpty() {
		m.Release()
		return nil
	}
	return m
}

func (m *gpuMask) ClipToRectangleList(l *geom.RectList) Region {
	inside := rectsOf(l, m.bounds)
	if inside == nil {
		m.Release()
		return nil
	}
	m.bounds = inside.Bounds()
	outside := geom.NewRectList(m.bounds)
	outside.SubtractList(inside)
	m.clear(outside.Rects()...)
	return m
}

func (m *gpuMask) ExcludeClipRectangle(r geom.Rect) Region {
	r = r.Intersect(m.bounds)
	if r.IsEmpty() {
		return m
	}
	rest := geom.NewRectList(m.bounds)
	rest.Subtract(r)
	if rest.IsEmpty() {
		m.Release()
		return nil
	}
	m.clear(r)
	m.bounds = rest.Bounds()
	return m
}

// clear writes zero coverage into rects, replacing the mask contents.
func (m *gpuMask) clear(rects ...geom.Rect) {
	if len(rects) == 0 {
		return
	}
	m.drawInto(func(st *gpu.State) {
		st.SetBlendNone()
		colour, _ := m.d.shader(paint.SolidFill(paint.Transparent), nil)
		for _, r := range rects {
			st.Quads().AddQuadRect(r, colour)
		}
	})
}

func (m *gpuMask) ClipToPath(p *geom.Path, t geom.Affine) Region {
	return m.clipToEdgeTable(edgetable.FromPath(p, t, m.bounds))
}

func (m *gpuMask) ClipToImageAlpha(img *pixel.Image, t geom.Affine) Region {
	return m.clipToEdgeTable(edgetable.FromImageAlpha(img, t, m.bounds, m.d.Quality))
}

// clipToEdgeTable multiplies the mask by the coverage of et: the coverage
// is uploaded as an alpha texture and drawn with the mask-texture program
// under blend factors (ZERO, SRC_ALPHA).
func (m *gpuMask) clipToEdgeTable(et *edgetable.EdgeTable) Region {
	nb := m.bounds.Intersect(et.Bounds())
	if nb.IsEmpty() || et.IsEmpty() {
		m.Release()
		return nil
	}
	a := et.AlphaImage()
	tex := gpu.NewTexture(m.d.State.Functions())
	if err := tex.LoadAlpha(a.Pix, a.Rect.Dx(), a.Rect.Dy(), true); err != nil {
		slogger().Warn("clip coverage upload failed, clip becomes empty", "err", err)
		m.Release()
		return nil
	}
	m.drawInto(func(st *gpu.State) {
		st.SetBlendFunc(gputypes.BlendFactorZero, gputypes.BlendFactorSrcAlpha)
		st.SetMaskTextureShader(tex, geom.Pt(float64(a.Rect.Min.X), float64(a.Rect.Min.Y)))
		st.Quads().AddQuadRect(nb, paint.White.Premultiplied())
	})
	m.d.State.BindTexture(gpu.UnitSource, nil)
	tex.Release()
	m.bounds = nb
	return m
}

func (m *gpuMask) FillRect(area geom.Rect, fill paint.Fill, replace bool) {
	area = area.Intersect(m.bounds)
	if area.IsEmpty() || (!replace && fill.IsInvisible()) {
		return
	}
	colour, ok := m.d.shader(fill, m.mask())
	if !ok {
		return
	}
	st := m.d.State
	if replace {
		st.SetBlendNone()
		defer st.SetPremultipliedBlend()
	}
	st.Quads().AddQuadRect(area, colour)
}

func (m *gpuMask) FillRectF(area geom.RectF, fill paint.Fill) { fillRectF(m, area, fill) }

func (m *gpuMask) FillEdgeTable(et *edgetable.EdgeTable, fill paint.Fill) {
	if fill.IsInvisible() {
		return
	}
	colour, ok := m.d.shader(fill, m.mask())
	if !ok {
		return
	}
	quads := m.d.State.Quads()
	et.IterateIn(m.bounds, func(y int, s edgetable.Span) {
		quads.AddCoverageRun(s.X, y, s.Width, s.Level, colour)
	})
}

func (m *gpuMask) DrawImage(img *pixel.Image, t geom.Affine, opacity float64) {
	drawImage(m, img, t, opacity)
}

// Release unbinds the mask texture and frees the framebuffer.
func (m *gpuMask) Release() {
	if m.fb == nil {
		return
	}
	st := m.d.State
	st.BindTexture(gpu.UnitMask, nil)
	st.BindTexture(gpu.UnitSource, nil)
	m.fb.Release()
	m.fb = nil
}
