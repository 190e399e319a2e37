// Package driver runs the render loop of a host component drawn with
// glcanvas.
//
// A Driver owns one native GL context and a render goroutine locked to
// its OS thread. Every frame it makes the context current, lets the
// Renderer draw, repaints the damaged part of a cached backing framebuffer
// through the Host's paint callback and composites the backing onto the
// back buffer before swapping. All GL work for the context happens on that
// goroutine.
//
//	d := driver.New(host, driver.WithConfig(cfg))
//	if err := d.Attach(); err != nil {
//	    // draw without GL
//	}
//	defer d.Detach()
package driver

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/internal/assert"
	"github.com/gogpu/glcanvas/native"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
	"github.com/gogpu/glcanvas/registry"
)

// State is the attachment state of a Driver.
type State int32

const (
	// Detached: no native context exists.
	Detached State = iota
	// AttachedInactive: the context exists but the host is hidden or has
	// no area, so no frames are rendered.
	AttachedInactive
	// Running: frames are being rendered.
	Running
)

func (s State) String() string {
	switch s {
	case Detached:
		return "detached"
	case AttachedInactive:
		return "attached-inactive"
	case Running:
		return "running"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Host is the UI component a Driver renders for. Size is in logical
// points; the backing framebuffer is Size times ScaleFactor pixels.
type Host interface {
	gpucontext.WindowProvider

	// IsShowing reports whether the component is on screen.
	IsShowing() bool

	// Paint draws the damaged part of the component. It runs on the render
	// thread while the lock returned by LockUI is held. g is clipped to
	// damaged and scaled to logical points.
	Paint(g glcanvas.GraphicsContext, damaged *geom.RectList)

	// LockUI acquires the host's UI lock and returns its release.
	LockUI() (unlock func())
}

// Renderer draws with raw GL alongside or instead of component painting.
// All three methods run on the render thread with the context current.
type Renderer interface {
	NewContextCreated(ctx native.Context, reg *registry.Registry)
	RenderFrame(ctx native.Context)
	// ContextClosing is called once before the context is destroyed.
	ContextClosing(ctx native.Context)
}

// Driver attaches a native GL context to a Host and renders frames for it.
type Driver struct {
	host   Host
	cfg    Config
	create func(native.Config) (native.Context, error)
	clock  Clock

	mu        sync.Mutex
	format    native.PixelFormat
	renderer  Renderer
	painting  bool
	share     native.Context
	attached  bool
	ctx       native.Context
	reg       *registry.Registry
	stop      chan struct{}
	done      chan struct{}
	invalid   *geom.RectList
	repaint   bool
	saveCache bool

	wake  chan struct{}
	state atomic.Int32
}

// New returns a detached driver for host. Component painting is enabled.
func New(host Host, opts ...Option) *Driver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{
		host:     host,
		cfg:      o.config,
		create:   o.create,
		clock:    o.clock,
		format:   native.Default(),
		painting: true,
		invalid:  geom.NewRectList(),
		wake:     make(chan struct{}, 1),
	}
}

// configure applies set unless the driver is attached.
func (d *Driver) configure(what string, set func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !assert.That(glcanvas.Logger(), !d.attached, "driver configured after attach", "setting", what) {
		return ErrAttached
	}
	set()
	return nil
}

// SetPixelFormat sets the format of the native context. Valid only before
// Attach.
func (d *Driver) SetPixelFormat(f native.PixelFormat) error {
	return d.configure("pixel format", func() { d.format = f })
}

// SetRenderer sets the raw GL renderer, or nil for none. Valid only
// before Attach.
func (d *Driver) SetRenderer(r Renderer) error {
	return d.configure("renderer", func() { d.renderer = r })
}

// SetComponentPainting turns painting the host through its Paint callback
// on or off. Valid only before Attach.
func (d *Driver) SetComponentPainting(on bool) error {
	return d.configure("component painting", func() { d.painting = on })
}

// SetShareContext sets a context whose GL objects the driver's context
// shares. Valid only before Attach.
func (d *Driver) SetShareContext(ctx native.Context) error {
	return d.configure("share context", func() { d.share = ctx })
}

// Attach creates the native context and starts the render thread. If the
// context cannot be created the driver stays detached.
func (d *Driver) Attach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !assert.That(glcanvas.Logger(), !d.attached, "driver attached twice") {
		return ErrAttached
	}
	w, h := d.pixelSize()
	ctx, err := d.create(native.Config{
		Variant:   d.cfg.Variant,
		Format:    d.format,
		Width:     w,
		Height:    h,
		Visible:   true,
		ShareWith: d.share,
	})
	if err != nil {
		glcanvas.Logger().Warn("driver attach failed", "err", err)
		return fmt.Errorf("%w: %w", ErrNativeContext, err)
	}

	d.ctx = ctx
	d.reg = registry.New()
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	d.attached = true
	d.invalid = geom.NewRectList()
	d.repaint = true
	d.state.Store(int32(AttachedInactive))

	go d.run(ctx, d.reg, d.renderer, d.painting, d.stop, d.done)
	glcanvas.Logger().Info("driver attached", "width", w, "height", h,
		"frameRate", d.cfg.FrameRate, "continuous", d.cfg.Continuous)
	return nil
}

// Detach stops the render thread and destroys the native context. It waits
// at most the configured teardown timeout for the thread to finish its
// frame, then tears down regardless.
func (d *Driver) Detach() error {
	d.mu.Lock()
	if !d.attached {
		d.mu.Unlock()
		return nil
	}
	ctx, stop, done := d.ctx, d.stop, d.done
	d.attached = false
	d.ctx, d.reg = nil, nil
	d.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-d.clock.After(d.cfg.TeardownTimeout):
		glcanvas.Logger().Warn("render thread did not stop, tearing down anyway",
			"timeout", d.cfg.TeardownTimeout)
	}
	d.state.Store(int32(Detached))
	err := ctx.Close()
	glcanvas.Logger().Info("driver detached")
	return err
}

// IsAttached reports whether a native context exists.
func (d *Driver) IsAttached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// State returns the current attachment state.
func (d *Driver) State() State { return State(d.state.Load()) }

// Registry returns the associated objects of the native context, or nil
// while detached.
func (d *Driver) Registry() *registry.Registry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg
}

// Repaint marks area, in logical points, as needing to be painted again
// and schedules a frame.
func (d *Driver) Repaint(area geom.Rect) {
	sf := d.scale()
	r := geom.Scaling(sf, sf).TransformRect(area.ToFloat()).Enclosing()
	d.mu.Lock()
	d.invalid.Add(r)
	d.repaint = true
	d.mu.Unlock()
	d.signal()
}

// TriggerRepaint schedules a frame without invalidating anything. Hosts
// call it after their size or visibility changes.
func (d *Driver) TriggerRepaint() {
	d.mu.Lock()
	d.repaint = true
	d.mu.Unlock()
	d.signal()
}

// ReleaseCachedResources saves the backing framebuffer to memory and frees
// its GPU objects. It is reloaded when the next frame renders.
func (d *Driver) ReleaseCachedResources() {
	d.mu.Lock()
	d.saveCache = true
	d.mu.Unlock()
	d.signal()
}

func (d *Driver) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Driver) scale() float64 {
	if sf := d.host.ScaleFactor(); sf > 0 {
		return sf
	}
	return 1
}

// pixelSize returns the host size in pixels.
func (d *Driver) pixelSize() (width, height int) {
	w, h := d.host.Size()
	sf := d.scale()
	return int(math.Ceil(float64(w) * sf)), int(math.Ceil(float64(h) * sf))
}

// pending reports whether a frame has been asked for.
func (d *Driver) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.repaint || d.saveCache
}

// run is the render thread. What it keeps between frames is local to the
// attachment.
func (d *Driver) run(ctx native.Context, reg *registry.Registry, r Renderer, painting bool, stop, done chan struct{}) {
	defer close(done)
	// valid is the part of the backing framebuffer that holds current
	// pixels.
	valid := geom.NewRectList()
	// GL calls must come from the thread the context is current on. The
	// thread is not unlocked, so the runtime discards it on exit.
	runtime.LockOSThread()

	if !ctx.MakeActive() {
		glcanvas.Logger().Warn("native context cannot be made current, not rendering")
		<-stop
		return
	}
	if d.cfg.SwapInterval > 0 && !ctx.SetSwapInterval(d.cfg.SwapInterval) {
		glcanvas.Logger().Warn("swap interval not set", "interval", d.cfg.SwapInterval)
	}
	if r != nil {
		r.NewContextCreated(ctx, reg)
	}
	defer func() {
		if r != nil {
			r.ContextClosing(ctx)
		}
		reg.ReleaseAll()
		ctx.Deactivate()
	}()

	interval := d.cfg.FrameInterval()
	for {
		start := d.clock.Now()
		d.frame(ctx, reg, r, painting, valid)

		for !d.cfg.Continuous && !d.pending() {
			select {
			case <-stop:
				return
			case <-d.wake:
			}
		}
		if wait := interval - d.clock.Now().Sub(start); wait > 0 {
			select {
			case <-stop:
				return
			case <-d.clock.After(wait):
			}
		} else {
			select {
			case <-stop:
				return
			default:
			}
		}
	}
}

// frame renders one frame.
func (d *Driver) frame(ctx native.Context, reg *registry.Registry, r Renderer, painting bool, valid *geom.RectList) {
	d.mu.Lock()
	dirty := d.invalid
	d.invalid = geom.NewRectList()
	d.repaint = false
	save := d.saveCache
	d.saveCache = false
	d.mu.Unlock()

	w, h := d.pixelSize()
	if save || !d.host.IsShowing() || w <= 0 || h <= 0 {
		if !save && State(d.state.Swap(int32(AttachedInactive))) == Running {
			glcanvas.Logger().Info("render loop inactive")
		}
		// The pixels survive in the saved copy; only the damage needs
		// keeping.
		valid.SubtractList(dirty)
		d.saveBacking(reg)
		return
	}
	if State(d.state.Swap(int32(Running))) != Running {
		glcanvas.Logger().Info("render loop running", "width", w, "height", h)
	}

	bounds := geom.NewRect(0, 0, w, h)
	if cw, ch := ctx.Size(); cw != w || ch != h {
		ctx.UpdateWindowPosition(bounds)
	}
	f := ctx.Functions()
	if r != nil {
		r.RenderFrame(ctx)
	}
	if painting {
		if img := d.paint(f, reg, bounds, dirty, valid); img != nil {
			composite(f, reg, img)
		}
	}
	ctx.SwapBuffers()
}

// paint brings the backing framebuffer up to date and returns it, or nil
// if it cannot be allocated.
func (d *Driver) paint(f gl.Functions, reg *registry.Registry, bounds geom.Rect, dirty, valid *geom.RectList) *pixel.Image {
	img, fresh, err := backing(f, reg, bounds.W, bounds.H)
	if err != nil {
		glcanvas.Logger().Warn("backing framebuffer unavailable", "err", err)
		return nil
	}
	if fresh {
		valid.Clear()
	}
	valid.SubtractList(dirty)
	damage := geom.NewRectList(bounds)
	damage.SubtractList(valid)
	if damage.IsEmpty() {
		return img
	}

	fb := glcanvas.FrameBufferOf(img)
	for _, r := range damage.Rects() {
		fb.ClearArea(r, paint.Transparent.GPU())
	}
	g, err := glcanvas.NewContext(f, glcanvas.FrameBufferTarget(fb), glcanvas.WithRegistry(reg))
	if err != nil {
		glcanvas.Logger().Warn("cannot paint backing framebuffer", "err", err)
		return img
	}
	g.ClipToRectangleList(damage.Clone())
	sf := d.scale()
	if sf != 1 {
		g.AddTransform(geom.Scaling(sf, sf))
	}
	damaged := damage
	if sf != 1 {
		damaged = geom.NewRectList()
		inv := geom.Scaling(1/sf, 1/sf)
		for _, r := range damage.Rects() {
			damaged.Add(inv.TransformRect(r.ToFloat()).Enclosing())
		}
	}

	unlock := d.host.LockUI()
	d.host.Paint(g, damaged)
	unlock()
	g.Close()
	valid.Clear()
	valid.Add(bounds)
	return img
}

// saveBacking moves the backing framebuffer's pixels to memory.
func (d *Driver) saveBacking(reg *registry.Registry) {
	if o, ok := reg.Get(registry.BackingFramebuffer); ok {
		if fb := glcanvas.FrameBufferOf(o.(*pixel.Image)); fb != nil && fb.IsValid() {
			fb.SaveAndRelease()
			glcanvas.Logger().Debug("backing framebuffer saved", "width", fb.Width(), "height", fb.Height())
		}
	}
}

// backing returns the backing framebuffer image of the given size,
// reloading a saved one or allocating a new one. fresh reports a new
// allocation, whose contents are all invalid.
func backing(f gl.Functions, reg *registry.Registry, w, h int) (img *pixel.Image, fresh bool, err error) {
	if o, ok := reg.Get(registry.BackingFramebuffer); ok {
		cached := o.(*pixel.Image)
		if fb := glcanvas.FrameBufferOf(cached); fb.Width() == w && fb.Height() == h {
			if fb.IsSaved() {
				if err := fb.ReloadFrom(f); err != nil {
					return nil, false, err
				}
				glcanvas.Logger().Debug("backing framebuffer reloaded")
			}
			if fb.IsValid() {
				return cached, false, nil
			}
		}
	}
	img, err = glcanvas.NewGPUImage(f, w, h)
	if err != nil {
		return nil, false, err
	}
	reg.Set(registry.BackingFramebuffer, img)
	return img, true, nil
}

type blitSupporter interface {
	SupportsBlit() bool
}

// composite copies the backing framebuffer onto the default framebuffer,
// by blitting where the context can and with a textured draw elsewhere.
func composite(f gl.Functions, reg *registry.Registry, img *pixel.Image) {
	fb := glcanvas.FrameBufferOf(img)
	w, h := fb.Width(), fb.Height()
	if bs, ok := f.(blitSupporter); !ok || bs.SupportsBlit() {
		prev := gl.Framebuffer(f.GetInteger(gl.FRAMEBUFFER_BINDING))
		f.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID())
		f.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		f.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
		f.BindFramebuffer(gl.FRAMEBUFFER, prev)
		return
	}

	g, err := glcanvas.NewContext(f, glcanvas.ScreenTarget(w, h), glcanvas.WithRegistry(reg))
	if err != nil {
		glcanvas.Logger().Warn("cannot composite backing framebuffer", "err", err)
		return
	}
	g.SetFill(paint.SolidFill(paint.Transparent))
	g.FillRect(geom.NewRect(0, 0, w, h), true)
	g.DrawImage(img, geom.Identity())
	g.Close()
}
