package glsim

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gogpu/glcanvas/gl"
)

type shader struct {
	ty       gl.Enum
	source   string
	compiled bool
	log      string
	decls    []decl
}

type decl struct {
	qualifier string // attribute, in or uniform
	name      string
}

type program struct {
	shaders  []gl.Shader
	linked   bool
	log      string
	emu      gl.Emulation
	boundAt  map[string]gl.Attrib
	attribs  map[string]gl.Attrib
	uniforms map[string]gl.Uniform
	values   map[gl.Uniform][4]float32
}

var declPattern = regexp.MustCompile(
	`(?m)^\s*(attribute|uniform|in)\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)

func parseDecls(src string) []decl {
	var out []decl
	for _, m := range declPattern.FindAllStringSubmatch(src, -1) {
		out = append(out, decl{qualifier: m[1], name: m[2]})
	}
	return out
}

// CreateShader implements gl.Functions.
func (s *Sim) CreateShader(ty gl.Enum) gl.Shader {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ty != gl.VERTEX_SHADER && ty != gl.FRAGMENT_SHADER {
		s.setError(gl.INVALID_ENUM)
		return 0
	}
	id := gl.Shader(s.newName())
	s.shaders[id] = &shader{ty: ty}
	return id
}

// ShaderSource implements gl.Functions.
func (s *Sim) ShaderSource(sh gl.Shader, src string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.shaders[sh]; x != nil {
		x.source = src
	}
}

// CompileShader implements gl.Functions. Compilation only checks that the
// source declares a main function.
func (s *Sim) CompileShader(sh gl.Shader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x := s.shaders[sh]
	if x == nil {
		s.setError(gl.INVALID_VALUE)
		return
	}
	switch {
	case s.FailShaders.Load():
		x.compiled, x.log = false, "glsim: shader compilation disabled"
	case !strings.Contains(x.source, "void main"):
		x.compiled, x.log = false, "glsim: no main function"
	default:
		x.compiled, x.log = true, ""
		x.decls = parseDecls(x.source)
	}
}

// GetShaderi implements gl.Functions.
func (s *Sim) GetShaderi(sh gl.Shader, pname gl.Enum) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	x := s.shaders[sh]
	if x == nil {
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		return boolInt(x.compiled)
	case gl.INFO_LOG_LENGTH:
		return len(x.log)
	}
	return 0
}

// GetShaderInfoLog implements gl.Functions.
func (s *Sim) GetShaderInfoLog(sh gl.Shader) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.shaders[sh]; x != nil {
		return x.log
	}
	return ""
}

// DeleteShader implements gl.Functions.
func (s *Sim) DeleteShader(sh gl.Shader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shaders, sh)
}

// CreateProgram implements gl.Functions.
func (s *Sim) CreateProgram() gl.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gl.Program(s.newName())
	s.programs[id] = &program{boundAt: make(map[string]gl.Attrib)}
	return id
}

// AttachShader implements gl.Functions.
func (s *Sim) AttachShader(p gl.Program, sh gl.Shader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.programs[p]; x != nil {
		x.shaders = append(x.shaders, sh)
	}
}

// BindAttribLocation implements gl.Functions.
func (s *Sim) BindAttribLocation(p gl.Program, a gl.Attrib, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.programs[p]; x != nil {
		x.boundAt[name] = a
	}
}

// LinkProgram implements gl.Functions.
func (s *Sim) LinkProgram(p gl.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x := s.programs[p]
	if x == nil {
		s.setError(gl.INVALID_VALUE)
		return
	}
	x.linked = false
	var vs, fs *shader
	for _, id := range x.shaders {
		sh := s.shaders[id]
		switch {
		case sh == nil || !sh.compiled:
			x.log = "glsim: attached shader is not compiled"
			return
		case sh.ty == gl.VERTEX_SHADER:
			vs = sh
		case sh.ty == gl.FRAGMENT_SHADER:
			fs = sh
		}
	}
	if vs == nil || fs == nil {
		x.log = "glsim: program needs a vertex and a fragment shader"
		return
	}
	label := s.labels[labelKey{gl.PROGRAM, uint32(p)}]
	emu, ok := s.emulations[label]
	if !ok || emu.Vertex == nil || emu.Fragment == nil {
		x.log = fmt.Sprintf("glsim: no emulation registered for program %q", label)
		return
	}

	x.emu = emu
	x.attribs = make(map[string]gl.Attrib)
	x.uniforms = make(map[string]gl.Uniform)
	x.values = make(map[gl.Uniform][4]float32)
	used := make(map[gl.Attrib]bool)
	for name, loc := range x.boundAt {
		used[loc] = true
		x.attribs[name] = loc
	}
	next := gl.Attrib(0)
	for _, d := range vs.decls {
		if d.qualifier == "uniform" {
			continue
		}
		if _, ok := x.attribs[d.name]; ok {
			continue
		}
		for used[next] {
			next++
		}
		x.attribs[d.name] = next
		used[next] = true
	}
	for _, sh := range []*shader{vs, fs} {
		for _, d := range sh.decls {
			if d.qualifier != "uniform" {
				continue
			}
			if _, ok := x.uniforms[d.name]; !ok {
				x.uniforms[d.name] = gl.Uniform(len(x.uniforms))
			}
		}
	}
	x.linked = true
	x.log = ""
}

// GetProgrami implements gl.Functions.
func (s *Sim) GetProgrami(p gl.Program, pname gl.Enum) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	x := s.programs[p]
	if x == nil {
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		return boolInt(x.linked)
	case gl.INFO_LOG_LENGTH:
		return len(x.log)
	}
	return 0
}

// GetProgramInfoLog implements gl.Functions.
func (s *Sim) GetProgramInfoLog(p gl.Program) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.programs[p]; x != nil {
		return x.log
	}
	return ""
}

// DeleteProgram implements gl.Functions.
func (s *Sim) DeleteProgram(p gl.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.programs, p)
	if s.current == p {
		s.current = 0
	}
}

// UseProgram implements gl.Functions.
func (s *Sim) UseProgram(p gl.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p != 0 {
		if x := s.programs[p]; x == nil || !x.linked {
			s.setError(gl.INVALID_OPERATION)
			return
		}
	}
	if s.current != p {
		s.stats.ProgramSwitches++
	}
	s.current = p
}

// GetUniformLocation implements gl.Functions.
func (s *Sim) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.programs[p]; x != nil && x.linked {
		if loc, ok := x.uniforms[name]; ok {
			return loc
		}
	}
	return -1
}

// GetAttribLocation implements gl.Functions.
func (s *Sim) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x := s.programs[p]; x != nil && x.linked {
		if loc, ok := x.attribs[name]; ok {
			return loc
		}
	}
	return -1
}

func (s *Sim) setUniform(u gl.Uniform, v [4]float32) {
	x := s.programs[s.current]
	if x == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	if u < 0 {
		return
	}
	x.values[u] = v
}

// Uniform1i implements gl.Functions.
func (s *Sim) Uniform1i(u gl.Uniform, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUniform(u, [4]float32{float32(v)})
}

// Uniform1f implements gl.Functions.
func (s *Sim) Uniform1f(u gl.Uniform, v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUniform(u, [4]float32{v})
}

// Uniform2f implements gl.Functions.
func (s *Sim) Uniform2f(u gl.Uniform, v0, v1 float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUniform(u, [4]float32{v0, v1})
}

// Uniform3f implements gl.Functions.
func (s *Sim) Uniform3f(u gl.Uniform, v0, v1, v2 float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUniform(u, [4]float32{v0, v1, v2})
}

// Uniform4f implements gl.Functions.
func (s *Sim) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUniform(u, [4]float32{v0, v1, v2, v3})
}

// Vec implements gl.Uniforms.
func (x *program) Vec(name string) [4]float32 {
	if loc, ok := x.uniforms[name]; ok {
		return x.values[loc]
	}
	return [4]float32{}
}

// Int implements gl.Uniforms.
func (x *program) Int(name string) int {
	return int(x.Vec(name)[0])
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
