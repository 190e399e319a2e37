//go:build (darwin || windows || freebsd || linux) && !android && !ios

package native

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gl/gogl"
)

var (
	glfwOnce sync.Once
	glfwErr  error
)

func initGLFW() error {
	glfwOnce.Do(func() { glfwErr = glfw.Init() })
	return glfwErr
}

// glfwContext is a glfw window and its OpenGL 3.2 core context. glfw
// requires windows to be created and destroyed on the main thread.
type glfwContext struct {
	win *glfw.Window
	fns *gogl.Functions

	mu       sync.Mutex
	interval int
}

// newGLFW creates a window with the given context creation API.
func newGLFW(cfg Config, api int) (Context, error) {
	if err := initGLFW(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextCreationAPI, api)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.RedBits, cfg.Format.RedBits)
	glfw.WindowHint(glfw.GreenBits, cfg.Format.GreenBits)
	glfw.WindowHint(glfw.BlueBits, cfg.Format.BlueBits)
	glfw.WindowHint(glfw.AlphaBits, cfg.Format.AlphaBits)
	glfw.WindowHint(glfw.DepthBits, cfg.Format.DepthBits)
	glfw.WindowHint(glfw.StencilBits, cfg.Format.StencilBits)
	glfw.WindowHint(glfw.Samples, cfg.Format.Samples)
	visible := glfw.False
	if cfg.Visible {
		visible = glfw.True
	}
	glfw.WindowHint(glfw.Visible, visible)

	var share *glfw.Window
	if s, ok := cfg.ShareWith.(*glfwContext); ok {
		share = s.win
	} else if cfg.ShareWith != nil {
		return nil, errors.New("share context is not a glfw context")
	}
	title := cfg.Title
	if title == "" {
		title = "glcanvas"
	}
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, share)
	if err != nil {
		return nil, err
	}

	// Entry points are resolved against a current context; the previous
	// one is restored afterwards.
	prev := glfw.GetCurrentContext()
	win.MakeContextCurrent()
	fns, err := gogl.New(glfw.GetProcAddress)
	if prev != nil {
		prev.MakeContextCurrent()
	} else {
		glfw.DetachCurrentContext()
	}
	if err != nil {
		win.Destroy()
		return nil, err
	}
	return &glfwContext{win: win, fns: fns}, nil
}

func (c *glfwContext) MakeActive() bool {
	c.win.MakeContextCurrent()
	return c.IsActive()
}

func (c *glfwContext) IsActive() bool { return glfw.GetCurrentContext() == c.win }

func (c *glfwContext) Deactivate() {
	if c.IsActive() {
		glfw.DetachCurrentContext()
	}
}

func (c *glfwContext) SwapBuffers() { c.win.SwapBuffers() }

func (c *glfwContext) SwapInterval() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

func (c *glfwContext) SetSwapInterval(n int) bool {
	if !c.IsActive() {
		return false
	}
	glfw.SwapInterval(n)
	c.mu.Lock()
	c.interval = n
	c.mu.Unlock()
	return true
}

func (c *glfwContext) ExtensionFunction(name string) unsafe.Pointer {
	if !c.IsActive() {
		return nil
	}
	return glfw.GetProcAddress(name)
}

// UpdateWindowPosition sizes the window to bounds. glfw windows are top
// level, so the position is left to the window manager.
func (c *glfwContext) UpdateWindowPosition(bounds geom.Rect) {
	if bounds.IsEmpty() {
		return
	}
	if w, h := c.win.GetFramebufferSize(); w != bounds.W || h != bounds.H {
		c.win.SetSize(bounds.W, bounds.H)
	}
}

func (c *glfwContext) Functions() gl.Functions { return c.fns }

func (c *glfwContext) Flavour() gputypes.GLBackend { return gputypes.GLBackendGL }

func (c *glfwContext) Size() (width, height int) { return c.win.GetFramebufferSize() }

// Window returns the glfw window, for hosts that poll its events.
func (c *glfwContext) Window() *glfw.Window { return c.win }

func (c *glfwContext) Close() error {
	c.Deactivate()
	c.win.Destroy()
	return nil
}
