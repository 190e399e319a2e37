//go:build linux && !android

package native

import "github.com/go-gl/glfw/v3.3/glfw"

// The glx variant asks glfw for a context through GLX rather than EGL, so
// that it shares objects with other GLX contexts of the X display.
func init() {
	Register("glx", func(cfg Config) (Context, error) {
		return newGLFW(cfg, glfw.NativeContextAPI)
	})
}
