//go:build (darwin || windows || freebsd || linux) && !android && !ios

package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/driver"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/native"
)

func init() {
	// glfw event handling must stay on the main thread.
	runtime.LockOSThread()
}

// windowHost is a glfw window painted by a driver. Its size and visibility
// are updated from glfw callbacks on the main thread.
type windowHost struct {
	scene *scene
	ui    sync.Mutex

	mu      sync.Mutex
	w, h    int
	showing bool
	frame   int
	redraw  func()
}

func (h *windowHost) Size() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w, h.h
}

func (h *windowHost) ScaleFactor() float64 { return 1 }

func (h *windowHost) RequestRedraw() {
	h.mu.Lock()
	redraw := h.redraw
	h.mu.Unlock()
	if redraw != nil {
		redraw()
	}
}

func (h *windowHost) IsShowing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.showing
}

func (h *windowHost) LockUI() func() {
	h.ui.Lock()
	return h.ui.Unlock
}

func (h *windowHost) Paint(g glcanvas.GraphicsContext, _ *geom.RectList) {
	h.mu.Lock()
	w, ht, frame := h.w, h.h, h.frame
	h.frame++
	h.mu.Unlock()
	h.scene.draw(g, w, ht, frame)
}

// runWindow shows the scene until the window is closed or the process is
// interrupted.
func runWindow(s *scene, cfg driver.Config, w, h int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	host := &windowHost{scene: s, w: w, h: h, showing: true}
	var win *glfw.Window
	create := func(c native.Config) (native.Context, error) {
		c.Title = "glcanvas demo"
		nc, err := native.Create(c)
		if err != nil {
			return nil, err
		}
		if wc, ok := nc.(interface{ Window() *glfw.Window }); ok {
			win = wc.Window()
		}
		return nc, nil
	}
	d := driver.New(host, driver.WithConfig(cfg), driver.WithNativeFactory(create))
	host.redraw = func() {
		hw, hh := host.Size()
		d.Repaint(geom.NewRect(0, 0, hw, hh))
	}
	if err := d.Attach(); err != nil {
		return err
	}
	defer d.Detach()

	if win == nil {
		// Not a window: let the render loop run until interrupted.
		<-ctx.Done()
		return nil
	}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		host.mu.Lock()
		host.w, host.h = width, height
		host.mu.Unlock()
		d.TriggerRepaint()
	})
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		host.mu.Lock()
		host.showing = !iconified
		host.mu.Unlock()
		d.TriggerRepaint()
	})
	win.SetRefreshCallback(func(*glfw.Window) { host.RequestRedraw() })
	win.Show()

	interval := cfg.FrameInterval().Seconds()
	for !win.ShouldClose() && ctx.Err() == nil {
		glfw.WaitEventsTimeout(interval)
		if !cfg.Continuous {
			host.RequestRedraw()
		}
	}
	return nil
}
