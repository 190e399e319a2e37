package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/gl/glsim"
	"github.com/gogpu/glcanvas/gpu"
)

// renderPNG draws one frame on the GL simulator and writes the default
// framebuffer to path.
func renderPNG(s *scene, path string, w, h int, software bool) (err error) {
	sim := glsim.New(w, h, gpu.Emulations())
	var opts []glcanvas.Option
	if software {
		opts = append(opts, glcanvas.WithForceSoftware())
	}
	g, err := glcanvas.NewContext(sim, glcanvas.ScreenTarget(w, h), opts...)
	if err != nil {
		return err
	}
	s.draw(g, w, h, 0)
	if err := g.Close(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, sim.Pixels(0)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
