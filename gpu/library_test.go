package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/gl/glsim"
)

func TestShaderLibrary_BuildsCatalogue(t *testing.T) {
	sim := glsim.New(4, 4, Emulations())
	lib, err := NewShaderLibrary(sim)
	if err != nil {
		t.Fatalf("NewShaderLibrary() error = %v", err)
	}
	defer lib.Release()

	if !lib.Available() {
		t.Fatal("Available() = false")
	}
	for k := PaintKind(0); int(k) < paintKinds; k++ {
		for _, masked := range []bool{false, true} {
			p := lib.Program(k, masked)
			if p == nil || !p.Linked() {
				t.Errorf("Program(%v, %v) not linked", k, masked)
				continue
			}
			if got, want := p.Name(), ProgramLabel(k, masked); got != want {
				t.Errorf("Program(%v, %v).Name() = %q, want %q", k, masked, got, want)
			}
		}
	}
	if got := sim.Live().Programs; got != paintKinds*2+2 {
		t.Errorf("live programs = %d, want %d", got, paintKinds*2+2)
	}
	// Shaders are deleted once linked.
	if got := sim.Live().Shaders; got != 0 {
		t.Errorf("live shaders = %d, want 0", got)
	}
}

func TestShaderLibrary_FailureMakesShadersUnavailable(t *testing.T) {
	sim := glsim.New(4, 4, Emulations())
	sim.FailShaders.Store(true)

	lib, err := NewShaderLibrary(sim)
	if !errors.Is(err, ErrShadersUnavailable) {
		t.Fatalf("NewShaderLibrary() error = %v, want ErrShadersUnavailable", err)
	}
	if !errors.Is(err, ErrShaderCompile) {
		t.Errorf("error %v does not wrap ErrShaderCompile", err)
	}
	if lib.Available() {
		t.Error("nil library reports Available")
	}
	if got := sim.Live().Programs; got != 0 {
		t.Errorf("live programs after failure = %d, want 0", got)
	}
}

func TestShaderLibrary_MissingEmulationFailsLink(t *testing.T) {
	sim := glsim.New(4, 4, nil)
	_, err := NewShaderLibrary(sim)
	if !errors.Is(err, ErrShaderLink) {
		t.Fatalf("NewShaderLibrary() error = %v, want ErrShaderLink", err)
	}
}

func TestParseGLSLVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
		ok           bool
	}{
		{"4.60 NVIDIA", 4, 60, true},
		{"OpenGL ES GLSL ES 3.20", 3, 20, true},
		{"OpenGL ES GLSL ES 1.00", 1, 0, true},
		{"1.50", 1, 50, true},
		{"", 0, 0, false},
		{"unknown", 0, 0, false},
	}
	for _, tt := range tests {
		major, minor, ok := ParseGLSLVersion(tt.in)
		if major != tt.major || minor != tt.minor || ok != tt.ok {
			t.Errorf("ParseGLSLVersion(%q) = %d, %d, %v, want %d, %d, %v",
				tt.in, major, minor, ok, tt.major, tt.minor, tt.ok)
		}
	}
}

func TestTranslateGLSL(t *testing.T) {
	frag := fragmentSource(Image, true)

	desktop := TranslateGLSL(frag, gl.FRAGMENT_SHADER, gputypes.GLBackendGL)
	for _, want := range []string{"#version 150", "out vec4 fragColour;", "in vec4 frontColour;", "texture(maskTexture"} {
		if !strings.Contains(desktop, want) {
			t.Errorf("desktop fragment source lacks %q", want)
		}
	}
	for _, bad := range []string{"gl_FragColor", "texture2D(", "varying "} {
		if strings.Contains(desktop, bad) {
			t.Errorf("desktop fragment source still contains %q", bad)
		}
	}

	vert := TranslateGLSL(vertexSource, gl.VERTEX_SHADER, gputypes.GLBackendGL)
	if !strings.Contains(vert, "in vec2 position;") || !strings.Contains(vert, "out vec2 pixelPos;") {
		t.Errorf("desktop vertex source not translated:\n%s", vert)
	}

	es := TranslateGLSL(frag, gl.FRAGMENT_SHADER, gputypes.GLBackendGLES)
	if !strings.HasPrefix(es, "#version 100\n") || !strings.Contains(es, "gl_FragColor") {
		t.Error("GL ES source should pass through unchanged")
	}
}

func TestPaintKind_String(t *testing.T) {
	if got := LinearGradientShallow.String(); got != "linear-gradient-shallow" {
		t.Errorf("String() = %q", got)
	}
	if got := PaintKind(42).String(); got != "PaintKind(42)" {
		t.Errorf("String() = %q", got)
	}
	if got := ProgramLabel(TiledImage, true); got != "glcanvas/tiled-image-masked" {
		t.Errorf("ProgramLabel() = %q", got)
	}
}
