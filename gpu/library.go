package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/gl"
)

// LibraryKey is the name under which a context's ShaderLibrary is stored in
// its associated-object registry.
const LibraryKey = "glcanvas.ShaderLibrary"

// PaintKind selects the fragment stage of a paint program.
type PaintKind int

const (
	Solid PaintKind = iota
	RadialGradient
	// LinearGradientSteep is used when the gradient vector is closer to
	// vertical than horizontal.
	LinearGradientSteep
	LinearGradientShallow
	Image
	TiledImage

	paintKinds = iota
)

var paintNames = [paintKinds]string{
	"solid",
	"radial-gradient",
	"linear-gradient-steep",
	"linear-gradient-shallow",
	"image",
	"tiled-image",
}

func (k PaintKind) String() string {
	if k < 0 || int(k) >= paintKinds {
		return fmt.Sprintf("PaintKind(%d)", int(k))
	}
	return paintNames[k]
}

// Program labels for the utility programs.
const (
	CopyTextureLabel = "glcanvas/copy-texture"
	MaskTextureLabel = "glcanvas/mask-texture"
)

// ProgramLabel returns the debug label of a paint program.
func ProgramLabel(kind PaintKind, masked bool) string {
	if masked {
		return "glcanvas/" + kind.String() + "-masked"
	}
	return "glcanvas/" + kind.String()
}

// Minimum shading language versions.
var (
	minGLSL   = [2]int{1, 50}
	minGLSLES = [2]int{1, 0}
)

// ShaderLibrary holds every program the renderer draws with. One library is
// built per native context and shared by all canvases on it.
type ShaderLibrary struct {
	gl       gl.Functions
	paints   [paintKinds][2]*ShaderProgram
	copyTex  *ShaderProgram
	maskTex  *ShaderProgram
	programs []*ShaderProgram
}

// NewShaderLibrary compiles and links the whole catalogue. Any failure
// releases what was built and returns an error wrapping
// ErrShadersUnavailable, after which callers must use a path that does not
// depend on shaders.
func NewShaderLibrary(f gl.Functions) (*ShaderLibrary, error) {
	if err := checkGLSLVersion(f); err != nil {
		return nil, err
	}
	lib := &ShaderLibrary{gl: f}
	for k := PaintKind(0); int(k) < paintKinds; k++ {
		for m, masked := range []bool{false, true} {
			p, err := lib.build(ProgramLabel(k, masked), fragmentSource(k, masked))
			if err != nil {
				return nil, err
			}
			lib.paints[k][m] = p
		}
	}
	var err error
	if lib.copyTex, err = lib.build(CopyTextureLabel, copyTextureSource); err != nil {
		return nil, err
	}
	if lib.maskTex, err = lib.build(MaskTextureLabel, maskTextureSource); err != nil {
		return nil, err
	}
	slogger().Info("shader library built", "programs", len(lib.programs), "glsl", f.GetString(gl.SHADING_LANGUAGE_VERSION))
	return lib, nil
}

func (lib *ShaderLibrary) build(label, fragment string) (*ShaderProgram, error) {
	p := NewShaderProgram(lib.gl, label)
	err := p.AddShader(vertexSource, gl.VERTEX_SHADER)
	if err == nil {
		err = p.AddShader(fragment, gl.FRAGMENT_SHADER)
	}
	if err == nil {
		err = p.Link()
	}
	if err != nil {
		p.Release()
		lib.Release()
		slogger().Warn("shader program unavailable", "program", label, "err", err)
		return nil, errors.Join(ErrShadersUnavailable, err)
	}
	lib.programs = append(lib.programs, p)
	return p, nil
}

func checkGLSLVersion(f gl.Functions) error {
	s := f.GetString(gl.SHADING_LANGUAGE_VERSION)
	major, minor, ok := ParseGLSLVersion(s)
	if !ok {
		return fmt.Errorf("%w: unrecognised GLSL version %q", ErrShadersUnavailable, s)
	}
	want := minGLSL
	if f.Backend() != gputypes.GLBackendGL {
		want = minGLSLES
	}
	if major < want[0] || (major == want[0] && minor < want[1]) {
		return fmt.Errorf("%w: GLSL %d.%02d is older than %d.%02d", ErrShadersUnavailable, major, minor, want[0], want[1])
	}
	return nil
}

// Program returns the paint program for kind, with or without a mask.
func (lib *ShaderLibrary) Program(kind PaintKind, masked bool) *ShaderProgram {
	if masked {
		return lib.paints[kind][1]
	}
	return lib.paints[kind][0]
}

// CopyTexture returns the program that copies a texture scaled by the
// vertex alpha.
func (lib *ShaderLibrary) CopyTexture() *ShaderProgram { return lib.copyTex }

// MaskTexture returns the program that writes a texture's alpha to every
// channel, for multiplying into a mask.
func (lib *ShaderLibrary) MaskTexture() *ShaderProgram { return lib.maskTex }

// Available reports whether the library can be drawn with. A nil library
// is unavailable.
func (lib *ShaderLibrary) Available() bool {
	return lib != nil && len(lib.programs) == paintKinds*2+2
}

// Release deletes all programs.
func (lib *ShaderLibrary) Release() {
	for _, p := range lib.programs {
		p.Release()
	}
	lib.programs = nil
}
