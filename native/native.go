// Package native wraps the platform OpenGL contexts that graphics
// contexts draw on.
//
// Every platform provides the same [Context]: activation, buffer swap,
// swap interval and extension lookup, plus the [gl.Functions] table bound
// to it. Variants register themselves by name from files selected by build
// tags; [Create] picks the best one available or the one a [Config] names.
//
//	desktop   glfw, OpenGL 3.2 core (darwin, windows, freebsd)
//	glx       glfw with the native GLX context API (linux)
//	android   x/mobile OpenGL ES over EGL
//	ios       x/mobile OpenGL ES over EAGL
//	headless  the gl/glsim simulator, available everywhere
package native

import (
	"errors"
	"fmt"
	"slices"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
)

// Errors returned by Create.
var (
	ErrNoVariant    = errors.New("native: no such context variant")
	ErrCreateFailed = errors.New("native: context creation failed")
)

// Context is a platform GL context and the drawable it renders into.
//
// A context is active on at most one goroutine at a time, and GL calls
// through Functions are only valid while it is active on the caller's OS
// thread. Callers drawing from a goroutine lock it to its thread.
type Context interface {
	// MakeActive makes the context current on the calling thread.
	MakeActive() bool
	IsActive() bool
	Deactivate()

	SwapBuffers()
	SwapInterval() int
	// SetSwapInterval sets the number of vertical blanks per swap. The
	// context must be active.
	SetSwapInterval(n int) bool

	// ExtensionFunction returns the entry point of a GL extension function,
	// or nil. The context must be active.
	ExtensionFunction(name string) unsafe.Pointer

	// UpdateWindowPosition moves and sizes the drawable within its parent.
	UpdateWindowPosition(bounds geom.Rect)

	Functions() gl.Functions
	Flavour() gputypes.GLBackend
	// Size returns the drawable size in pixels.
	Size() (width, height int)

	Close() error
}

// PixelFormat is the requested default framebuffer format.
type PixelFormat struct {
	RedBits, GreenBits, BlueBits, AlphaBits int
	DepthBits, StencilBits                  int
	Samples                                 int
}

// Default returns 8-bit RGBA with a 24-bit depth and 8-bit stencil buffer
// and no multisampling.
func Default() PixelFormat {
	return PixelFormat{
		RedBits: 8, GreenBits: 8, BlueBits: 8, AlphaBits: 8,
		DepthBits: 24, StencilBits: 8,
	}
}

// Config describes the context to create.
type Config struct {
	// Variant names the variant to use. Empty selects the best available.
	Variant string
	Format  PixelFormat
	Width   int
	Height  int
	Title   string
	Visible bool

	// ShareWith is a context of the same variant whose objects the new
	// context shares, or nil.
	ShareWith Context

	// Surface carries what a platform needs from its host: a
	// *MobileSurface for the android and ios variants.
	Surface any
}

// Factory creates a context of one variant.
type Factory func(cfg Config) (Context, error)

var variants = gpucontext.NewRegistry[Factory](
	gpucontext.WithPriority("glx", "desktop", "android", "ios", "headless"),
)

// Register makes a variant available to Create, replacing any variant of
// the same name.
func Register(name string, f Factory) {
	variants.Register(name, func() Factory { return f })
}

// Variants returns the registered variant names, sorted.
func Variants() []string {
	names := variants.Available()
	slices.Sort(names)
	return names
}

// Best returns the name of the variant Create uses when none is named.
func Best() string { return variants.BestName() }

// Create creates a context. It is not made active.
func Create(cfg Config) (Context, error) {
	name := cfg.Variant
	if name == "" {
		name = variants.BestName()
	}
	if !variants.Has(name) {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrNoVariant, name, Variants())
	}
	if cfg.Format == (PixelFormat{}) {
		cfg.Format = Default()
	}
	cfg.Width, cfg.Height = max(cfg.Width, 1), max(cfg.Height, 1)

	ctx, err := variants.Get(name)(cfg)
	if err != nil {
		glcanvas.Logger().Warn("native context creation failed", "variant", name, "err", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateFailed, name, err)
	}
	glcanvas.Logger().Info("native context created", "variant", name, "flavour", ctx.Flavour(),
		"width", cfg.Width, "height", cfg.Height)
	return ctx, nil
}
