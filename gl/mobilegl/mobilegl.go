//go:build android || ios

// Package mobilegl implements gl.Functions over OpenGL ES using
// golang.org/x/mobile/gl.
package mobilegl

import (
	"github.com/gogpu/gputypes"
	mgl "golang.org/x/mobile/gl"

	"github.com/gogpu/glcanvas/gl"
)

// Functions adapts an x/mobile GL context. Framebuffer blits need a
// context created with ES 3 support.
type Functions struct {
	ctx mgl.Context
}

var _ gl.Functions = (*Functions)(nil)

// New wraps ctx.
func New(ctx mgl.Context) *Functions {
	return &Functions{ctx: ctx}
}

func (*Functions) Backend() gputypes.GLBackend { return gputypes.GLBackendGLES }

func (f *Functions) GetString(name gl.Enum) string { return f.ctx.GetString(mgl.Enum(name)) }
func (f *Functions) GetInteger(name gl.Enum) int   { return f.ctx.GetInteger(mgl.Enum(name)) }
func (f *Functions) GetError() gl.Enum             { return gl.Enum(f.ctx.GetError()) }

func (f *Functions) CreateTexture() gl.Texture { return gl.Texture(f.ctx.CreateTexture().Value) }

func (f *Functions) DeleteTexture(t gl.Texture) { f.ctx.DeleteTexture(mgl.Texture{Value: uint32(t)}) }

func (f *Functions) ActiveTexture(unit gl.Enum) { f.ctx.ActiveTexture(mgl.Enum(unit)) }

func (f *Functions) BindTexture(target gl.Enum, t gl.Texture) {
	f.ctx.BindTexture(mgl.Enum(target), mgl.Texture{Value: uint32(t)})
}

func (f *Functions) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	f.ctx.TexImage2D(mgl.Enum(target), level, int(internalFormat), width, height, mgl.Enum(format), mgl.Enum(ty), data)
}

func (f *Functions) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, data []byte) {
	f.ctx.TexSubImage2D(mgl.Enum(target), level, x, y, width, height, mgl.Enum(format), mgl.Enum(ty), data)
}

func (f *Functions) TexParameteri(target, pname gl.Enum, param int) {
	f.ctx.TexParameteri(mgl.Enum(target), mgl.Enum(pname), param)
}

func (f *Functions) PixelStorei(pname gl.Enum, param int) {
	f.ctx.PixelStorei(mgl.Enum(pname), int32(param))
}

func (f *Functions) CreateFramebuffer() gl.Framebuffer {
	return gl.Framebuffer(f.ctx.CreateFramebuffer().Value)
}

func (f *Functions) DeleteFramebuffer(fb gl.Framebuffer) {
	f.ctx.DeleteFramebuffer(mgl.Framebuffer{Value: uint32(fb)})
}

func (f *Functions) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	f.ctx.BindFramebuffer(mgl.Enum(target), mgl.Framebuffer{Value: uint32(fb)})
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	f.ctx.FramebufferTexture2D(mgl.Enum(target), mgl.Enum(attachment), mgl.Enum(texTarget), mgl.Texture{Value: uint32(t)}, level)
}

func (f *Functions) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Renderbuffer) {
	f.ctx.FramebufferRenderbuffer(mgl.Enum(target), mgl.Enum(attachment), mgl.Enum(rbTarget), mgl.Renderbuffer{Value: uint32(rb)})
}

func (f *Functions) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(f.ctx.CheckFramebufferStatus(mgl.Enum(target)))
}

// BlitFramebuffer is a no-op on contexts without ES 3 entry points. See
// SupportsBlit.
func (f *Functions) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int, mask, filter gl.Enum) {
	ctx3, ok := f.ctx.(mgl.Context3)
	if !ok {
		return
	}
	ctx3.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, uint(mask), mgl.Enum(filter))
}

// SupportsBlit reports whether BlitFramebuffer is available.
func (f *Functions) SupportsBlit() bool {
	_, ok := f.ctx.(mgl.Context3)
	return ok
}

func (f *Functions) CreateRenderbuffer() gl.Renderbuffer {
	return gl.Renderbuffer(f.ctx.CreateRenderbuffer().Value)
}

func (f *Functions) DeleteRenderbuffer(rb gl.Renderbuffer) {
	f.ctx.DeleteRenderbuffer(mgl.Renderbuffer{Value: uint32(rb)})
}

func (f *Functions) BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer) {
	f.ctx.BindRenderbuffer(mgl.Enum(target), mgl.Renderbuffer{Value: uint32(rb)})
}

func (f *Functions) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	f.ctx.RenderbufferStorage(mgl.Enum(target), mgl.Enum(internalFormat), width, height)
}

func (f *Functions) CreateShader(ty gl.Enum) gl.Shader {
	return gl.Shader(f.ctx.CreateShader(mgl.Enum(ty)).Value)
}

func (f *Functions) ShaderSource(s gl.Shader, src string) {
	f.ctx.ShaderSource(mgl.Shader{Value: uint32(s)}, src)
}

func (f *Functions) CompileShader(s gl.Shader) { f.ctx.CompileShader(mgl.Shader{Value: uint32(s)}) }

func (f *Functions) GetShaderi(s gl.Shader, pname gl.Enum) int {
	return f.ctx.GetShaderi(mgl.Shader{Value: uint32(s)}, mgl.Enum(pname))
}

func (f *Functions) GetShaderInfoLog(s gl.Shader) string {
	return f.ctx.GetShaderInfoLog(mgl.Shader{Value: uint32(s)})
}

func (f *Functions) DeleteShader(s gl.Shader) { f.ctx.DeleteShader(mgl.Shader{Value: uint32(s)}) }

func (f *Functions) CreateProgram() gl.Program { return gl.Program(f.ctx.CreateProgram().Value) }

func program(p gl.Program) mgl.Program { return mgl.Program{Init: true, Value: uint32(p)} }

func (f *Functions) AttachShader(p gl.Program, s gl.Shader) {
	f.ctx.AttachShader(program(p), mgl.Shader{Value: uint32(s)})
}

func (f *Functions) BindAttribLocation(p gl.Program, a gl.Attrib, name string) {
	f.ctx.BindAttribLocation(program(p), mgl.Attrib{Value: uint(a)}, name)
}

func (f *Functions) LinkProgram(p gl.Program) { f.ctx.LinkProgram(program(p)) }

func (f *Functions) GetProgrami(p gl.Program, pname gl.Enum) int {
	return f.ctx.GetProgrami(program(p), mgl.Enum(pname))
}

func (f *Functions) GetProgramInfoLog(p gl.Program) string {
	return f.ctx.GetProgramInfoLog(program(p))
}

func (f *Functions) DeleteProgram(p gl.Program) { f.ctx.DeleteProgram(program(p)) }

func (f *Functions) UseProgram(p gl.Program) {
	if p == 0 {
		f.ctx.UseProgram(mgl.Program{})
		return
	}
	f.ctx.UseProgram(program(p))
}

func (f *Functions) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	return gl.Uniform(f.ctx.GetUniformLocation(program(p), name).Value)
}

// GetAttribLocation maps the unsigned x/mobile location back to -1 for
// inactive attributes.
func (f *Functions) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	a := f.ctx.GetAttribLocation(program(p), name)
	return gl.Attrib(int32(a.Value))
}

func uniform(u gl.Uniform) mgl.Uniform { return mgl.Uniform{Value: int32(u)} }

func (f *Functions) Uniform1i(u gl.Uniform, v int)     { f.ctx.Uniform1i(uniform(u), v) }
func (f *Functions) Uniform1f(u gl.Uniform, v float32) { f.ctx.Uniform1f(uniform(u), v) }
func (f *Functions) Uniform2f(u gl.Uniform, v0, v1 float32) {
	f.ctx.Uniform2f(uniform(u), v0, v1)
}
func (f *Functions) Uniform3f(u gl.Uniform, v0, v1, v2 float32) {
	f.ctx.Uniform3f(uniform(u), v0, v1, v2)
}
func (f *Functions) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	f.ctx.Uniform4f(uniform(u), v0, v1, v2, v3)
}

// ObjectLabel is a no-op: x/mobile/gl does not expose KHR_debug.
func (*Functions) ObjectLabel(gl.Enum, uint32, string) {}

func (f *Functions) CreateBuffer() gl.Buffer { return gl.Buffer(f.ctx.CreateBuffer().Value) }

func (f *Functions) DeleteBuffer(b gl.Buffer) { f.ctx.DeleteBuffer(mgl.Buffer{Value: uint32(b)}) }

func (f *Functions) BindBuffer(target gl.Enum, b gl.Buffer) {
	f.ctx.BindBuffer(mgl.Enum(target), mgl.Buffer{Value: uint32(b)})
}

func (f *Functions) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	f.ctx.BufferData(mgl.Enum(target), data, mgl.Enum(usage))
}

func (f *Functions) BufferSubData(target gl.Enum, offset int, data []byte) {
	f.ctx.BufferSubData(mgl.Enum(target), offset, data)
}

func (f *Functions) CreateVertexArray() gl.VertexArray {
	return gl.VertexArray(f.ctx.CreateVertexArray().Value)
}

func (f *Functions) DeleteVertexArray(v gl.VertexArray) {
	f.ctx.DeleteVertexArray(mgl.VertexArray{Value: uint32(v)})
}

func (f *Functions) BindVertexArray(v gl.VertexArray) {
	f.ctx.BindVertexArray(mgl.VertexArray{Value: uint32(v)})
}

func (f *Functions) EnableVertexAttribArray(a gl.Attrib) {
	f.ctx.EnableVertexAttribArray(mgl.Attrib{Value: uint(a)})
}

func (f *Functions) DisableVertexAttribArray(a gl.Attrib) {
	f.ctx.DisableVertexAttribArray(mgl.Attrib{Value: uint(a)})
}

func (f *Functions) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	f.ctx.VertexAttribPointer(mgl.Attrib{Value: uint(a)}, size, mgl.Enum(ty), normalized, stride, offset)
}

func (f *Functions) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	f.ctx.DrawElements(mgl.Enum(mode), count, mgl.Enum(ty), offset)
}

func (f *Functions) Enable(capability gl.Enum)  { f.ctx.Enable(mgl.Enum(capability)) }
func (f *Functions) Disable(capability gl.Enum) { f.ctx.Disable(mgl.Enum(capability)) }

func (f *Functions) BlendFunc(src, dst gl.Enum) { f.ctx.BlendFunc(mgl.Enum(src), mgl.Enum(dst)) }

func (f *Functions) Scissor(x, y, width, height int) {
	f.ctx.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (f *Functions) Viewport(x, y, width, height int) { f.ctx.Viewport(x, y, width, height) }

func (f *Functions) ClearColor(r, g, b, a float32) { f.ctx.ClearColor(r, g, b, a) }

func (f *Functions) Clear(mask gl.Enum) { f.ctx.Clear(mgl.Enum(mask)) }

func (f *Functions) ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum) {
	f.ctx.ReadPixels(dst, x, y, width, height, mgl.Enum(format), mgl.Enum(ty))
}

func (f *Functions) Flush() { f.ctx.Flush() }
