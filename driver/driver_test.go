package driver

import (
	"errors"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/geom"
	iassert "github.com/gogpu/glcanvas/internal/assert"
	"github.com/gogpu/glcanvas/native"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/registry"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

// fakeHost fills whatever it is asked to paint with one colour.
type fakeHost struct {
	ui sync.Mutex

	mu      sync.Mutex
	w, h    int
	sf      float64
	showing bool
	colour  paint.Colour
	paints  int
	damage  []*geom.RectList
}

func newHost(w, h int) *fakeHost {
	return &fakeHost{w: w, h: h, showing: true, colour: paint.Red}
}

func (h *fakeHost) Size() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w, h.h
}

func (h *fakeHost) ScaleFactor() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sf
}

func (h *fakeHost) RequestRedraw() {}

func (h *fakeHost) IsShowing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.showing
}

func (h *fakeHost) LockUI() func() {
	h.ui.Lock()
	return h.ui.Unlock
}

func (h *fakeHost) Paint(g glcanvas.GraphicsContext, damaged *geom.RectList) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paints++
	h.damage = append(h.damage, damaged.Clone())
	g.SetFill(paint.SolidFill(h.colour))
	g.FillRect(geom.NewRect(0, 0, h.w, h.h), false)
}

func (h *fakeHost) set(f func(h *fakeHost)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f(h)
}

func (h *fakeHost) paintCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paints
}

func (h *fakeHost) lastDamage() *geom.RectList {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.damage) == 0 {
		return nil
	}
	return h.damage[len(h.damage)-1]
}

type fakeRenderer struct {
	created, frames, closing atomic.Int32
	activeOnClose            atomic.Bool
	registry                 atomic.Pointer[registry.Registry]
	block                    chan struct{}
}

func (r *fakeRenderer) NewContextCreated(_ native.Context, reg *registry.Registry) {
	r.created.Add(1)
	r.registry.Store(reg)
}

func (r *fakeRenderer) RenderFrame(native.Context) {
	r.frames.Add(1)
	if r.block != nil {
		<-r.block
	}
}

func (r *fakeRenderer) ContextClosing(ctx native.Context) {
	r.closing.Add(1)
	r.activeOnClose.Store(ctx.IsActive())
}

// harness creates a driver on a headless native context.
type harness struct {
	d   *Driver
	ctx *native.Headless
}

func newHarness(t *testing.T, h Host, opts ...Option) *harness {
	t.Helper()
	hs := &harness{}
	create := func(cfg native.Config) (native.Context, error) {
		cfg.Variant = "headless"
		c, err := native.Create(cfg)
		if err == nil {
			hs.ctx = c.(*native.Headless)
		}
		return c, err
	}
	hs.d = New(h, append([]Option{WithNativeFactory(create)}, opts...)...)
	t.Cleanup(func() { hs.d.Detach() })
	return hs
}

func (hs *harness) attach(t *testing.T) {
	t.Helper()
	require.NoError(t, hs.d.Attach())
	require.NotNil(t, hs.ctx)
}

func (hs *harness) waitFrames(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hs.ctx.Frames() >= n }, waitFor, tick,
		"frame %d was not rendered", n)
}

func (hs *harness) pixel(x, y int) color.RGBA {
	return hs.ctx.Sim().Pixels(0).RGBAAt(x, y)
}

func TestAttachPaintsAndComposites(t *testing.T) {
	host := newHost(32, 32)
	hs := newHarness(t, host)
	assert.Equal(t, Detached, hs.d.State())
	hs.attach(t)
	hs.waitFrames(t, 1)

	assert.True(t, hs.d.IsAttached())
	assert.Equal(t, Running, hs.d.State())
	assert.Equal(t, 1, host.paintCount())
	assert.True(t, host.lastDamage().Equal(geom.NewRectList(geom.NewRect(0, 0, 32, 32))),
		"first damage = %v", host.lastDamage().Rects())
	assert.Equal(t, red, hs.pixel(5, 5))
	assert.Equal(t, red, hs.pixel(31, 31))

	reg := hs.d.Registry()
	require.NotNil(t, reg)
	_, ok := reg.Get(registry.BackingFramebuffer)
	assert.True(t, ok, "backing framebuffer not registered")
}

func TestRepaintPaintsOnlyTheDamage(t *testing.T) {
	host := newHost(32, 32)
	hs := newHarness(t, host)
	hs.attach(t)
	hs.waitFrames(t, 1)

	host.set(func(h *fakeHost) { h.colour = paint.Blue })
	hs.d.Repaint(geom.NewRect(0, 0, 8, 8))
	hs.waitFrames(t, 2)

	assert.Equal(t, 2, host.paintCount())
	assert.Equal(t, []geom.Rect{geom.NewRect(0, 0, 8, 8)}, host.lastDamage().Rects())
	assert.Equal(t, blue, hs.pixel(4, 4))
	assert.Equal(t, red, hs.pixel(20, 20))

	// A frame with nothing invalid composites without painting.
	hs.d.TriggerRepaint()
	hs.waitFrames(t, 3)
	assert.Equal(t, 2, host.paintCount())
	assert.Equal(t, blue, hs.pixel(4, 4))
}

func TestResizeInvalidatesEverything(t *testing.T) {
	host := newHost(32, 32)
	hs := newHarness(t, host)
	hs.attach(t)
	hs.waitFrames(t, 1)

	host.set(func(h *fakeHost) { h.w, h.h = 48, 40 })
	hs.d.TriggerRepaint()
	hs.waitFrames(t, 2)

	assert.Equal(t, 2, host.paintCount())
	assert.Equal(t, geom.NewRect(0, 0, 48, 40), host.lastDamage().Bounds())
	w, h := hs.ctx.Size()
	assert.Equal(t, 48, w)
	assert.Equal(t, 40, h)
	assert.Equal(t, red, hs.pixel(45, 37))
}

func TestScaleFactor(t *testing.T) {
	host := newHost(16, 16)
	host.sf = 2
	hs := newHarness(t, host)
	hs.attach(t)
	hs.waitFrames(t, 1)

	w, h := hs.ctx.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, geom.NewRect(0, 0, 16, 16), host.lastDamage().Bounds(), "damage is in points")
	assert.Equal(t, red, hs.pixel(31, 31))

	host.set(func(h *fakeHost) { h.colour = paint.Blue })
	hs.d.Repaint(geom.NewRect(0, 0, 4, 4))
	hs.waitFrames(t, 2)
	assert.Equal(t, blue, hs.pixel(7, 7))
	assert.Equal(t, red, hs.pixel(9, 9))
}

func TestHiddenHostIsInactive(t *testing.T) {
	host := newHost(32, 32)
	hs := newHarness(t, host)
	hs.attach(t)
	hs.waitFrames(t, 1)

	host.set(func(h *fakeHost) { h.showing = false })
	hs.d.TriggerRepaint()
	require.Eventually(t, func() bool {
		return hs.d.State() == AttachedInactive && hs.ctx.Sim().Live().Framebuffers == 0
	}, waitFor, tick, "hidden host kept its backing framebuffer")
	assert.True(t, hs.d.IsAttached())
	assert.Equal(t, 1, hs.ctx.Frames(), "frame swapped while hidden")

	host.set(func(h *fakeHost) { h.showing = true })
	hs.d.TriggerRepaint()
	hs.waitFrames(t, 2)
	assert.Equal(t, Running, hs.d.State())
	assert.Equal(t, 1, host.paintCount(), "reloaded backing was painted again")
	assert.Equal(t, red, hs.pixel(16, 16))
}

func TestZeroSizeHostIsInactive(t *testing.T) {
	host := newHost(0, 0)
	hs := newHarness(t, host)
	hs.attach(t)

	// Attach succeeds with a minimal context and waits for an area.
	require.Eventually(t, func() bool { return !hs.d.pending() }, waitFor, tick)
	assert.Equal(t, AttachedInactive, hs.d.State())
	assert.Equal(t, 0, host.paintCount())

	host.set(func(h *fakeHost) { h.w, h.h = 8, 8 })
	hs.d.TriggerRepaint()
	hs.waitFrames(t, 1)
	assert.Equal(t, Running, hs.d.State())
	assert.Equal(t, red, hs.pixel(4, 4))
}

func TestReleaseCachedResources(t *testing.T) {
	host := newHost(32, 32)
	hs := newHarness(t, host)
	hs.attach(t)
	hs.waitFrames(t, 1)

	hs.d.ReleaseCachedResources()
	require.Eventually(t, func() bool { return hs.ctx.Sim().Live().Framebuffers == 0 }, waitFor, tick)
	assert.Equal(t, Running, hs.d.State())

	hs.d.TriggerRepaint()
	hs.waitFrames(t, 2)
	assert.Equal(t, 1, host.paintCount(), "reloaded backing was painted again")
	assert.Equal(t, red, hs.pixel(16, 16))
	assert.Equal(t, 1, hs.ctx.Sim().Live().Framebuffers)
}

func TestDetachNotifiesRenderer(t *testing.T) {
	host := newHost(16, 16)
	r := &fakeRenderer{}
	hs := newHarness(t, host)
	require.NoError(t, hs.d.SetRenderer(r))
	hs.attach(t)
	hs.waitFrames(t, 1)

	assert.Equal(t, int32(1), r.created.Load())
	assert.Same(t, hs.d.Registry(), r.registry.Load())
	assert.GreaterOrEqual(t, r.frames.Load(), int32(1))

	require.NoError(t, hs.d.Detach())
	assert.Equal(t, int32(1), r.closing.Load())
	assert.True(t, r.activeOnClose.Load(), "context not current while closing")
	assert.Equal(t, Detached, hs.d.State())
	assert.False(t, hs.d.IsAttached())
	assert.Nil(t, hs.d.Registry())
	assert.False(t, hs.ctx.IsActive())

	live := hs.ctx.Sim().Live()
	assert.Zero(t, live.Programs, "shader library outlived the context")
	assert.Zero(t, live.Framebuffers, "backing framebuffer outlived the context")

	require.NoError(t, hs.d.Detach(), "second Detach")
}

func TestDetachTimesOut(t *testing.T) {
	host := newHost(8, 8)
	r := &fakeRenderer{block: make(chan struct{})}
	hs := newHarness(t, host, WithConfig(Config{TeardownTimeout: 20 * time.Millisecond}))
	require.NoError(t, hs.d.SetRenderer(r))
	hs.attach(t)
	require.Eventually(t, func() bool { return r.frames.Load() >= 1 }, waitFor, tick)

	start := time.Now()
	require.NoError(t, hs.d.Detach())
	assert.Less(t, time.Since(start), waitFor)
	assert.Equal(t, Detached, hs.d.State())

	close(r.block)
	require.Eventually(t, func() bool { return r.closing.Load() == 1 }, waitFor, tick)
}

func TestReattachAfterTimedOutDetach(t *testing.T) {
	host := newHost(8, 8)
	r := &fakeRenderer{block: make(chan struct{})}
	hs := newHarness(t, host, WithConfig(Config{TeardownTimeout: 20 * time.Millisecond}))
	require.NoError(t, hs.d.SetRenderer(r))
	hs.attach(t)
	require.Eventually(t, func() bool { return r.frames.Load() >= 1 }, waitFor, tick)
	require.NoError(t, hs.d.Detach())

	// The first render thread is still inside its frame.
	require.NoError(t, hs.d.SetRenderer(nil))
	hs.attach(t)
	hs.waitFrames(t, 1)
	close(r.block)
	require.Eventually(t, func() bool { return r.closing.Load() == 1 }, waitFor, tick)

	hs.d.Repaint(geom.NewRect(0, 0, 8, 8))
	hs.waitFrames(t, 2)
	assert.Equal(t, Running, hs.d.State())
	assert.Equal(t, red, hs.pixel(4, 4))
}

func TestRendererWithoutComponentPainting(t *testing.T) {
	host := newHost(8, 8)
	r := &fakeRenderer{}
	hs := newHarness(t, host, WithConfig(Config{Continuous: true, FrameRate: 200, SwapInterval: 1}))
	require.NoError(t, hs.d.SetRenderer(r))
	require.NoError(t, hs.d.SetComponentPainting(false))
	hs.attach(t)

	hs.waitFrames(t, 5)
	assert.GreaterOrEqual(t, r.frames.Load(), int32(5))
	assert.Zero(t, host.paintCount())
	assert.Equal(t, 1, hs.ctx.SwapInterval())
	_, ok := hs.d.Registry().Get(registry.BackingFramebuffer)
	assert.False(t, ok, "backing framebuffer allocated without component painting")
}

// fakeClock fires short waits at once and records them.
type fakeClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *fakeClock) Now() time.Time { return time.Now() }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	if d >= time.Second {
		return time.After(d)
	}
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (c *fakeClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

func TestFramePacing(t *testing.T) {
	clock := &fakeClock{}
	host := newHost(8, 8)
	hs := newHarness(t, host, WithClock(clock), WithConfig(Config{Continuous: true, FrameRate: 10}))
	hs.attach(t)
	hs.waitFrames(t, 3)

	waits := clock.recorded()
	require.NotEmpty(t, waits)
	for _, w := range waits {
		assert.Positive(t, w)
		assert.LessOrEqual(t, w, 100*time.Millisecond, "slept longer than the frame budget")
	}
}

func TestConfigurationAfterAttach(t *testing.T) {
	if iassert.Enabled {
		t.Skip("contract violations panic in debug builds")
	}
	hs := newHarness(t, newHost(8, 8))
	require.NoError(t, hs.d.SetPixelFormat(native.Default()))
	hs.attach(t)

	assert.ErrorIs(t, hs.d.SetPixelFormat(native.Default()), ErrAttached)
	assert.ErrorIs(t, hs.d.SetRenderer(&fakeRenderer{}), ErrAttached)
	assert.ErrorIs(t, hs.d.SetComponentPainting(false), ErrAttached)
	assert.ErrorIs(t, hs.d.SetShareContext(nil), ErrAttached)
	assert.ErrorIs(t, hs.d.Attach(), ErrAttached)
}

func TestAttachFailure(t *testing.T) {
	boom := errors.New("no display")
	d := New(newHost(8, 8), WithNativeFactory(func(native.Config) (native.Context, error) {
		return nil, boom
	}))

	err := d.Attach()
	assert.ErrorIs(t, err, ErrNativeContext)
	assert.ErrorIs(t, err, boom)
	assert.False(t, d.IsAttached())
	assert.Equal(t, Detached, d.State())
	assert.Nil(t, d.Registry())
	assert.NoError(t, d.Detach())

	// Configuration stays possible after a failed attach.
	assert.NoError(t, d.SetComponentPainting(false))
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Detached, "detached"},
		{AttachedInactive, "attached-inactive"},
		{Running, "running"},
		{State(7), "State(7)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}
