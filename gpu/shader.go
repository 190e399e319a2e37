package gpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/gl"
)

// Fixed attribute locations shared by every program, so that the quad
// batch can set its vertex layout once.
const (
	AttribPosition gl.Attrib = 0
	AttribColour   gl.Attrib = 1
)

// ShaderProgram is a linked vertex and fragment shader pair.
//
// Sources are written in GLSL ES 1.00 and translated for desktop core
// profiles. Failures are returned as errors and the driver's log is kept
// for ErrorLog.
type ShaderProgram struct {
	gl      gl.Functions
	id      gl.Program
	name    string
	shaders []gl.Shader
	log     string
	linked  bool

	uniforms map[string]gl.Uniform
	attribs  map[string]gl.Attrib

	// values caches the last value set per uniform.
	values map[string][4]float32
}

// NewShaderProgram creates an empty program. name labels the program for
// GL debuggers and selects its emulation under gl/glsim.
func NewShaderProgram(f gl.Functions, name string) *ShaderProgram {
	p := &ShaderProgram{
		gl:       f,
		id:       f.CreateProgram(),
		name:     name,
		uniforms: make(map[string]gl.Uniform),
		attribs:  make(map[string]gl.Attrib),
		values:   make(map[string][4]float32),
	}
	f.ObjectLabel(gl.PROGRAM, uint32(p.id), name)
	return p
}

// AddShader compiles src for stage (gl.VERTEX_SHADER or
// gl.FRAGMENT_SHADER) and attaches it.
func (p *ShaderProgram) AddShader(src string, stage gl.Enum) error {
	sh := p.gl.CreateShader(stage)
	p.gl.ShaderSource(sh, TranslateGLSL(src, stage, p.gl.Backend()))
	p.gl.CompileShader(sh)
	if p.gl.GetShaderi(sh, gl.COMPILE_STATUS) == 0 {
		p.log = p.gl.GetShaderInfoLog(sh)
		p.gl.DeleteShader(sh)
		return fmt.Errorf("%w: %s: %s", ErrShaderCompile, p.name, p.log)
	}
	p.gl.AttachShader(p.id, sh)
	p.shaders = append(p.shaders, sh)
	return nil
}

// Link binds the fixed attribute locations and links the program.
func (p *ShaderProgram) Link() error {
	p.gl.BindAttribLocation(p.id, AttribPosition, "position")
	p.gl.BindAttribLocation(p.id, AttribColour, "colour")
	p.gl.LinkProgram(p.id)
	for _, sh := range p.shaders {
		p.gl.DeleteShader(sh)
	}
	p.shaders = nil
	if p.gl.GetProgrami(p.id, gl.LINK_STATUS) == 0 {
		p.log = p.gl.GetProgramInfoLog(p.id)
		return fmt.Errorf("%w: %s: %s", ErrShaderLink, p.name, p.log)
	}
	p.linked = true
	clear(p.values)
	return nil
}

// Use makes the program current.
func (p *ShaderProgram) Use() {
	p.gl.UseProgram(p.id)
}

// Uniform returns the location of a uniform. Inactive uniforms return an
// invalid location, which GL ignores when set.
func (p *ShaderProgram) Uniform(name string) gl.Uniform {
	if u, ok := p.uniforms[name]; ok {
		return u
	}
	u := p.gl.GetUniformLocation(p.id, name)
	p.uniforms[name] = u
	return u
}

// Attribute returns the location of a vertex attribute.
func (p *ShaderProgram) Attribute(name string) gl.Attrib {
	if a, ok := p.attribs[name]; ok {
		return a
	}
	a := p.gl.GetAttribLocation(p.id, name)
	p.attribs[name] = a
	return a
}

// ErrorLog returns the log of the last failed compile or link.
func (p *ShaderProgram) ErrorLog() string { return p.log }

// Name returns the program label.
func (p *ShaderProgram) Name() string { return p.name }

// Linked reports whether Link succeeded.
func (p *ShaderProgram) Linked() bool { return p.linked }

// Release deletes the program.
func (p *ShaderProgram) Release() {
	for _, sh := range p.shaders {
		p.gl.DeleteShader(sh)
	}
	p.shaders = nil
	if p.id != 0 {
		p.gl.DeleteProgram(p.id)
		p.id = 0
	}
	p.linked = false
}

var (
	desktopVertex = strings.NewReplacer(
		"attribute ", "in ",
		"varying ", "out ",
	)
	desktopFragment = strings.NewReplacer(
		"varying ", "in ",
		"gl_FragColor", "fragColour",
		"texture2D(", "texture(",
	)
)

// TranslateGLSL rewrites GLSL ES 1.00 source for the given GL flavour.
// Desktop core profiles get GLSL 1.50; GL ES sources pass through with an
// explicit version line.
func TranslateGLSL(src string, stage gl.Enum, backend gputypes.GLBackend) string {
	if backend != gputypes.GLBackendGL {
		return "#version 100\n" + src
	}
	if stage == gl.VERTEX_SHADER {
		return "#version 150\n" + desktopVertex.Replace(src)
	}
	return "#version 150\nout vec4 fragColour;\n" + desktopFragment.Replace(src)
}

// ParseGLSLVersion extracts major and minor from a SHADING_LANGUAGE_VERSION
// string such as "4.60 NVIDIA" or "OpenGL ES GLSL ES 3.20".
func ParseGLSLVersion(s string) (major, minor int, ok bool) {
	i := strings.IndexAny(s, "0123456789")
	if i < 0 {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(s[i:], "%d.%d", &major, &minor); err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
