//go:build (darwin || windows || freebsd) && !ios

package native

import "github.com/go-gl/glfw/v3.3/glfw"

func init() {
	Register("desktop", func(cfg Config) (Context, error) {
		return newGLFW(cfg, glfw.NativeContextAPI)
	})
}
