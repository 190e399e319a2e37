package native

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gl/glsim"
	"github.com/gogpu/glcanvas/gpu"
)

func init() {
	Register("headless", newHeadless)
}

// current is the headless context that is active, standing in for the
// per-thread current context of a real GL implementation.
var current atomic.Pointer[Headless]

// Headless is a context on the gl/glsim simulator. Its default
// framebuffer is a CPU image that tests and offscreen tools read back.
type Headless struct {
	sim *glsim.Sim

	mu       sync.Mutex
	interval int
	frames   int
	closed   bool
}

var _ Context = (*Headless)(nil)

func newHeadless(cfg Config) (Context, error) {
	if s, ok := cfg.ShareWith.(*Headless); ok {
		return &Headless{sim: s.sim}, nil
	}
	return &Headless{sim: glsim.New(cfg.Width, cfg.Height, gpu.Emulations())}, nil
}

// Sim returns the simulator the context draws on.
func (h *Headless) Sim() *glsim.Sim { return h.sim }

// Frames returns the number of buffer swaps so far.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (h *Headless) MakeActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	current.Store(h)
	return true
}

func (h *Headless) IsActive() bool { return current.Load() == h }

func (h *Headless) Deactivate() { current.CompareAndSwap(h, nil) }

func (h *Headless) SwapBuffers() {
	h.mu.Lock()
	h.frames++
	h.mu.Unlock()
}

func (h *Headless) SwapInterval() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interval
}

func (h *Headless) SetSwapInterval(n int) bool {
	if !h.IsActive() {
		return false
	}
	h.mu.Lock()
	h.interval = n
	h.mu.Unlock()
	return true
}

func (h *Headless) ExtensionFunction(string) unsafe.Pointer { return nil }

// UpdateWindowPosition resizes the default framebuffer to bounds. The
// position is ignored.
func (h *Headless) UpdateWindowPosition(bounds geom.Rect) {
	if bounds.IsEmpty() {
		return
	}
	if w, ht := h.sim.Size(); w != bounds.W || ht != bounds.H {
		h.sim.Resize(bounds.W, bounds.H)
	}
}

func (h *Headless) Functions() gl.Functions { return h.sim }

func (h *Headless) Flavour() gputypes.GLBackend { return h.sim.Backend() }

func (h *Headless) Size() (width, height int) { return h.sim.Size() }

func (h *Headless) Close() error {
	h.Deactivate()
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}
