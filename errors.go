package glcanvas

import "errors"

var (
	// ErrInvalidTarget is returned when a context is created for a target
	// with no pixels or an unusable framebuffer.
	ErrInvalidTarget = errors.New("glcanvas: invalid target")

	// ErrNotGPUImage is returned by NewImageContext for images whose
	// pixels can be drawn neither on the GPU nor in memory.
	ErrNotGPUImage = errors.New("glcanvas: image cannot be drawn into")
)
