//go:build !android && !ios

// Package gogl implements gl.Functions over desktop OpenGL 3.2 core using
// github.com/go-gl/gl.
package gogl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/gogpu/gputypes"

	glc "github.com/gogpu/glcanvas/gl"
)

// Functions is the desktop GL function table.
type Functions struct {
	debugLabels bool
}

var _ glc.Functions = (*Functions)(nil)

// New loads the GL entry points through getProcAddr, which must resolve
// names against the context that is current on the calling thread.
func New(getProcAddr func(name string) unsafe.Pointer) (*Functions, error) {
	if err := gl.InitWithProcAddrFunc(getProcAddr); err != nil {
		return nil, fmt.Errorf("gogl: load entry points: %w", err)
	}
	f := &Functions{}
	var major, minor int
	if _, err := fmt.Sscanf(f.GetString(glc.VERSION), "%d.%d", &major, &minor); err == nil {
		f.debugLabels = major > 4 || (major == 4 && minor >= 3)
	}
	return f, nil
}

func cstr(s string) *uint8 {
	return gl.Str(s + "\x00")
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func (*Functions) Backend() gputypes.GLBackend { return gputypes.GLBackendGL }

func (*Functions) GetString(name glc.Enum) string {
	if p := gl.GetString(uint32(name)); p != nil {
		return gl.GoStr(p)
	}
	return ""
}

func (*Functions) GetInteger(name glc.Enum) int {
	var v int32
	gl.GetIntegerv(uint32(name), &v)
	return int(v)
}

func (*Functions) GetError() glc.Enum { return glc.Enum(gl.GetError()) }

func (*Functions) CreateTexture() glc.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return glc.Texture(t)
}

func (*Functions) DeleteTexture(t glc.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (*Functions) ActiveTexture(unit glc.Enum) { gl.ActiveTexture(uint32(unit)) }

func (*Functions) BindTexture(target glc.Enum, t glc.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

func (*Functions) TexImage2D(target glc.Enum, level int, internalFormat glc.Enum, width, height int, format, ty glc.Enum, data []byte) {
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0,
		uint32(format), uint32(ty), ptr(data))
}

func (*Functions) TexSubImage2D(target glc.Enum, level, x, y, width, height int, format, ty glc.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height),
		uint32(format), uint32(ty), ptr(data))
}

func (*Functions) TexParameteri(target, pname glc.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (*Functions) PixelStorei(pname glc.Enum, param int) {
	gl.PixelStorei(uint32(pname), int32(param))
}

func (*Functions) CreateFramebuffer() glc.Framebuffer {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return glc.Framebuffer(fb)
}

func (*Functions) DeleteFramebuffer(fb glc.Framebuffer) {
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func (*Functions) BindFramebuffer(target glc.Enum, fb glc.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(fb))
}

func (*Functions) FramebufferTexture2D(target, attachment, texTarget glc.Enum, t glc.Texture, level int) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), int32(level))
}

func (*Functions) FramebufferRenderbuffer(target, attachment, rbTarget glc.Enum, rb glc.Renderbuffer) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), uint32(rb))
}

func (*Functions) CheckFramebufferStatus(target glc.Enum) glc.Enum {
	return glc.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (*Functions) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int, mask, filter glc.Enum) {
	gl.BlitFramebuffer(int32(srcX0), int32(srcY0), int32(srcX1), int32(srcY1),
		int32(dstX0), int32(dstY0), int32(dstX1), int32(dstY1), uint32(mask), uint32(filter))
}

func (*Functions) CreateRenderbuffer() glc.Renderbuffer {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return glc.Renderbuffer(rb)
}

func (*Functions) DeleteRenderbuffer(rb glc.Renderbuffer) {
	id := uint32(rb)
	gl.DeleteRenderbuffers(1, &id)
}

func (*Functions) BindRenderbuffer(target glc.Enum, rb glc.Renderbuffer) {
	gl.BindRenderbuffer(uint32(target), uint32(rb))
}

func (*Functions) RenderbufferStorage(target, internalFormat glc.Enum, width, height int) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), int32(width), int32(height))
}

func (*Functions) CreateShader(ty glc.Enum) glc.Shader {
	return glc.Shader(gl.CreateShader(uint32(ty)))
}

func (*Functions) ShaderSource(s glc.Shader, src string) {
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csrc, nil)
}

func (*Functions) CompileShader(s glc.Shader) { gl.CompileShader(uint32(s)) }

func (*Functions) GetShaderi(s glc.Shader, pname glc.Enum) int {
	var v int32
	gl.GetShaderiv(uint32(s), uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetShaderInfoLog(s glc.Shader) string {
	n := f.GetShaderi(s, glc.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n+1)
	gl.GetShaderInfoLog(uint32(s), int32(len(buf)), nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (*Functions) DeleteShader(s glc.Shader) { gl.DeleteShader(uint32(s)) }

func (*Functions) CreateProgram() glc.Program { return glc.Program(gl.CreateProgram()) }

func (*Functions) AttachShader(p glc.Program, s glc.Shader) { gl.AttachShader(uint32(p), uint32(s)) }

func (*Functions) BindAttribLocation(p glc.Program, a glc.Attrib, name string) {
	gl.BindAttribLocation(uint32(p), uint32(a), cstr(name))
}

func (*Functions) LinkProgram(p glc.Program) { gl.LinkProgram(uint32(p)) }

func (*Functions) GetProgrami(p glc.Program, pname glc.Enum) int {
	var v int32
	gl.GetProgramiv(uint32(p), uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetProgramInfoLog(p glc.Program) string {
	n := f.GetProgrami(p, glc.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n+1)
	gl.GetProgramInfoLog(uint32(p), int32(len(buf)), nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (*Functions) DeleteProgram(p glc.Program) { gl.DeleteProgram(uint32(p)) }

func (*Functions) UseProgram(p glc.Program) { gl.UseProgram(uint32(p)) }

func (*Functions) GetUniformLocation(p glc.Program, name string) glc.Uniform {
	return glc.Uniform(gl.GetUniformLocation(uint32(p), cstr(name)))
}

func (*Functions) GetAttribLocation(p glc.Program, name string) glc.Attrib {
	return glc.Attrib(gl.GetAttribLocation(uint32(p), cstr(name)))
}

func (*Functions) Uniform1i(u glc.Uniform, v int)     { gl.Uniform1i(int32(u), int32(v)) }
func (*Functions) Uniform1f(u glc.Uniform, v float32) { gl.Uniform1f(int32(u), v) }
func (*Functions) Uniform2f(u glc.Uniform, v0, v1 float32) {
	gl.Uniform2f(int32(u), v0, v1)
}
func (*Functions) Uniform3f(u glc.Uniform, v0, v1, v2 float32) {
	gl.Uniform3f(int32(u), v0, v1, v2)
}
func (*Functions) Uniform4f(u glc.Uniform, v0, v1, v2, v3 float32) {
	gl.Uniform4f(int32(u), v0, v1, v2, v3)
}

// ObjectLabel uses KHR_debug labels on GL 4.3 and later and is a no-op
// otherwise.
func (f *Functions) ObjectLabel(identifier glc.Enum, name uint32, label string) {
	if !f.debugLabels {
		return
	}
	gl.ObjectLabel(uint32(identifier), name, int32(len(label)), cstr(label))
}

func (*Functions) CreateBuffer() glc.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return glc.Buffer(b)
}

func (*Functions) DeleteBuffer(b glc.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (*Functions) BindBuffer(target glc.Enum, b glc.Buffer) { gl.BindBuffer(uint32(target), uint32(b)) }

func (*Functions) BufferData(target glc.Enum, data []byte, usage glc.Enum) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (*Functions) BufferSubData(target glc.Enum, offset int, data []byte) {
	gl.BufferSubData(uint32(target), offset, len(data), ptr(data))
}

func (*Functions) CreateVertexArray() glc.VertexArray {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return glc.VertexArray(v)
}

func (*Functions) DeleteVertexArray(v glc.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

func (*Functions) BindVertexArray(v glc.VertexArray) { gl.BindVertexArray(uint32(v)) }

func (*Functions) EnableVertexAttribArray(a glc.Attrib) { gl.EnableVertexAttribArray(uint32(a)) }

func (*Functions) DisableVertexAttribArray(a glc.Attrib) { gl.DisableVertexAttribArray(uint32(a)) }

func (*Functions) VertexAttribPointer(a glc.Attrib, size int, ty glc.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(a), int32(size), uint32(ty), normalized, int32(stride), uintptr(offset))
}

func (*Functions) DrawElements(mode glc.Enum, count int, ty glc.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(ty), uintptr(offset))
}

func (*Functions) Enable(capability glc.Enum)  { gl.Enable(uint32(capability)) }
func (*Functions) Disable(capability glc.Enum) { gl.Disable(uint32(capability)) }

func (*Functions) BlendFunc(src, dst glc.Enum) { gl.BlendFunc(uint32(src), uint32(dst)) }

func (*Functions) Scissor(x, y, width, height int) {
	gl.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (*Functions) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (*Functions) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (*Functions) Clear(mask glc.Enum) { gl.Clear(uint32(mask)) }

func (*Functions) ReadPixels(dst []byte, x, y, width, height int, format, ty glc.Enum) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), ptr(dst))
}

func (*Functions) Flush() { gl.Flush() }
