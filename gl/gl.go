// Package gl defines the OpenGL function table used by glcanvas.
//
// [Functions] covers the subset of OpenGL ES 2.0 (plus framebuffer blits
// and vertex array objects) that the renderer needs. Implementations live
// in sub-packages:
//
//   - gl/gogl: desktop OpenGL 3.2 core via github.com/go-gl/gl
//   - gl/mobilegl: OpenGL ES via golang.org/x/mobile/gl
//   - gl/glsim: a CPU simulator used by tests and headless rendering
//
// A Functions value is bound to one native context and must only be used on
// the thread where that context is current.
package gl

import "github.com/gogpu/gputypes"

// Object handles. The zero value of each is "no object", except for
// Framebuffer where 0 names the window's default framebuffer.
type (
	Texture      uint32
	Framebuffer  uint32
	Renderbuffer uint32
	Buffer       uint32
	Shader       uint32
	Program      uint32
	VertexArray  uint32
)

// Uniform is a uniform location. Negative values are invalid.
type Uniform int32

// Attrib is a vertex attribute location. Negative values are invalid.
type Attrib int32

// Valid reports whether the location refers to an active uniform.
func (u Uniform) Valid() bool { return u >= 0 }

// Valid reports whether the location refers to an active attribute.
func (a Attrib) Valid() bool { return a >= 0 }

// Functions is the OpenGL entry-point table.
type Functions interface {
	// Backend reports whether this is desktop GL or GL ES.
	Backend() gputypes.GLBackend

	GetString(name Enum) string
	GetInteger(name Enum) int
	GetError() Enum

	CreateTexture() Texture
	DeleteTexture(t Texture)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	PixelStorei(pname Enum, param int)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(fb Framebuffer)
	BindFramebuffer(target Enum, fb Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb Renderbuffer)
	CheckFramebufferStatus(target Enum) Enum
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int, mask, filter Enum)

	CreateRenderbuffer() Renderbuffer
	DeleteRenderbuffer(rb Renderbuffer)
	BindRenderbuffer(target Enum, rb Renderbuffer)
	RenderbufferStorage(target, internalFormat Enum, width, height int)

	CreateShader(ty Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	BindAttribLocation(p Program, a Attrib, name string)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)
	GetUniformLocation(p Program, name string) Uniform
	GetAttribLocation(p Program, name string) Attrib
	Uniform1i(u Uniform, v int)
	Uniform1f(u Uniform, v float32)
	Uniform2f(u Uniform, v0, v1 float32)
	Uniform3f(u Uniform, v0, v1, v2 float32)
	Uniform4f(u Uniform, v0, v1, v2, v3 float32)

	// ObjectLabel names a GL object for debuggers. Implementations without
	// debug-label support ignore it.
	ObjectLabel(identifier Enum, name uint32, label string)

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)

	CreateVertexArray() VertexArray
	DeleteVertexArray(v VertexArray)
	BindVertexArray(v VertexArray)
	EnableVertexAttribArray(a Attrib)
	DisableVertexAttribArray(a Attrib)
	VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int)
	DrawElements(mode Enum, count int, ty Enum, offset int)

	Enable(capability Enum)
	Disable(capability Enum)
	BlendFunc(src, dst Enum)
	Scissor(x, y, width, height int)
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	ReadPixels(dst []byte, x, y, width, height int, format, ty Enum)
	Flush()
}
