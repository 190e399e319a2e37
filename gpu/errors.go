package gpu

import "errors"

var (
	// ErrTextureAlloc is returned when the GPU cannot allocate texture
	// storage.
	ErrTextureAlloc = errors.New("gpu: texture allocation failed")

	// ErrInvalidSize is returned for zero or negative dimensions.
	ErrInvalidSize = errors.New("gpu: invalid size")

	// ErrFramebufferIncomplete is returned when a framebuffer object cannot
	// be completed, for example because the driver lacks FBO support.
	ErrFramebufferIncomplete = errors.New("gpu: framebuffer incomplete")

	// ErrNoSavedCopy is returned by ReloadFrom on a framebuffer that was
	// never saved.
	ErrNoSavedCopy = errors.New("gpu: framebuffer has no saved copy")

	// ErrShaderCompile is returned when a shader fails to compile.
	ErrShaderCompile = errors.New("gpu: shader compilation failed")

	// ErrShaderLink is returned when a program fails to link.
	ErrShaderLink = errors.New("gpu: program link failed")

	// ErrShadersUnavailable is returned when the shader library cannot be
	// built on a context. Callers fall back to software compositing.
	ErrShadersUnavailable = errors.New("gpu: shaders unavailable")
)
