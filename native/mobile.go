//go:build android || ios

package native

import (
	"errors"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/gputypes"
	mgl "golang.org/x/mobile/gl"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gl/mobilegl"
)

// MobileSurface is what an x/mobile app hands to the android and ios
// variants. The app owns the EGL or EAGL context: GL is the context its
// paint events deliver and Publish presents a frame.
type MobileSurface struct {
	GL      mgl.Context
	Publish func()
	Width   int
	Height  int
}

// mobileContext adapts a MobileSurface. x/mobile keeps its context current
// on its own GL worker, so activation is bookkeeping only.
type mobileContext struct {
	surf   *MobileSurface
	fns    *mobilegl.Functions
	active atomic.Bool

	mu       sync.Mutex
	interval int
	size     geom.Rect
}

func newMobile(cfg Config) (Context, error) {
	surf, ok := cfg.Surface.(*MobileSurface)
	if !ok || surf == nil || surf.GL == nil {
		return nil, errors.New("config has no *MobileSurface with a GL context")
	}
	w, h := surf.Width, surf.Height
	if w <= 0 || h <= 0 {
		w, h = cfg.Width, cfg.Height
	}
	return &mobileContext{
		surf: surf,
		fns:  mobilegl.New(surf.GL),
		size: geom.NewRect(0, 0, w, h),
	}, nil
}

func (c *mobileContext) MakeActive() bool {
	c.active.Store(true)
	return true
}

func (c *mobileContext) IsActive() bool { return c.active.Load() }

func (c *mobileContext) Deactivate() { c.active.Store(false) }

func (c *mobileContext) SwapBuffers() {
	if c.surf.Publish != nil {
		c.surf.Publish()
	}
}

func (c *mobileContext) SwapInterval() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// SetSwapInterval records n. Presentation is paced by the platform.
func (c *mobileContext) SetSwapInterval(n int) bool {
	if !c.IsActive() {
		return false
	}
	c.mu.Lock()
	c.interval = n
	c.mu.Unlock()
	return true
}

func (c *mobileContext) ExtensionFunction(string) unsafe.Pointer { return nil }

func (c *mobileContext) UpdateWindowPosition(bounds geom.Rect) {
	c.mu.Lock()
	c.size = bounds
	c.mu.Unlock()
}

func (c *mobileContext) Functions() gl.Functions { return c.fns }

func (c *mobileContext) Flavour() gputypes.GLBackend { return gputypes.GLBackendGLES }

func (c *mobileContext) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size.W, c.size.H
}

func (c *mobileContext) Close() error {
	c.Deactivate()
	return nil
}
