package glsim

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/gogpu/glcanvas/gl"
)

const (
	testVertex   = "attribute vec2 position;\nuniform vec4 colour;\nvoid main() {}\n"
	testFragment = "uniform sampler2D tex;\nuniform float useTexture;\nvoid main() {}\n"
)

// flatEmulation passes pixel positions straight through as NDC over a
// 4x4 viewport and paints the colour uniform, or the texture when
// useTexture is set.
var flatEmulation = gl.Emulation{
	Vertex: func(in gl.VertexInput, u gl.Uniforms) ([4]float32, []float32) {
		p := in.Attrib("position")
		return [4]float32{p[0]/2 - 1, p[1]/2 - 1, 0, 1}, []float32{p[0] / 4, p[1] / 4}
	},
	Fragment: func(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
		if u.Vec("useTexture")[0] != 0 {
			return s.Sample(u.Int("tex"), v[0], v[1])
		}
		return u.Vec("colour")
	},
}

func newTestSim(t *testing.T) (*Sim, gl.Program) {
	t.Helper()
	s := New(4, 4, map[string]gl.Emulation{"flat": flatEmulation})
	p := buildProgram(s, "flat")
	if s.GetProgrami(p, gl.LINK_STATUS) == 0 {
		t.Fatalf("link failed: %s", s.GetProgramInfoLog(p))
	}
	return s, p
}

func buildProgram(s *Sim, label string) gl.Program {
	vs := s.CreateShader(gl.VERTEX_SHADER)
	s.ShaderSource(vs, testVertex)
	s.CompileShader(vs)
	fs := s.CreateShader(gl.FRAGMENT_SHADER)
	s.ShaderSource(fs, testFragment)
	s.CompileShader(fs)
	p := s.CreateProgram()
	s.ObjectLabel(gl.PROGRAM, uint32(p), label)
	s.AttachShader(p, vs)
	s.AttachShader(p, fs)
	s.LinkProgram(p)
	return p
}

// drawQuad draws one axis-aligned quad in window coordinates.
func drawQuad(s *Sim, p gl.Program, x0, y0, x1, y1 int16) {
	verts := make([]byte, 0, 16)
	for _, v := range [][2]int16{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		verts = binary.LittleEndian.AppendUint16(verts, uint16(v[0]))
		verts = binary.LittleEndian.AppendUint16(verts, uint16(v[1]))
	}
	idx := make([]byte, 0, 12)
	for _, i := range []uint16{0, 1, 2, 1, 2, 3} {
		idx = binary.LittleEndian.AppendUint16(idx, i)
	}
	vb, ib := s.CreateBuffer(), s.CreateBuffer()
	s.BindBuffer(gl.ARRAY_BUFFER, vb)
	s.BufferData(gl.ARRAY_BUFFER, verts, gl.STREAM_DRAW)
	s.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib)
	s.BufferData(gl.ELEMENT_ARRAY_BUFFER, idx, gl.STATIC_DRAW)
	a := s.GetAttribLocation(p, "position")
	s.EnableVertexAttribArray(a)
	s.VertexAttribPointer(a, 2, gl.SHORT, false, 4, 0)
	s.UseProgram(p)
	s.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_SHORT, 0)
}

func TestSim_DrawCoversEachPixelOnce(t *testing.T) {
	s, p := newTestSim(t)
	s.UseProgram(p)
	s.Uniform4f(s.GetUniformLocation(p, "colour"), 0, 0, 0.5, 0.5)
	s.Enable(gl.BLEND)
	s.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	drawQuad(s, p, 0, 0, 4, 4)

	img := s.Pixels(0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			// A pixel covered twice along the diagonal would be 191.
			if got := img.RGBAAt(x, y); got != (color.RGBA{B: 128, A: 128}) {
				t.Fatalf("pixel (%d,%d) = %v, want single coverage", x, y, got)
			}
		}
	}
	if got := s.Stats().DrawCalls; got != 1 {
		t.Errorf("DrawCalls = %d, want 1", got)
	}
}

func TestSim_ScissorAndTopDownRead(t *testing.T) {
	s, p := newTestSim(t)
	s.UseProgram(p)
	s.Uniform4f(s.GetUniformLocation(p, "colour"), 1, 0, 0, 1)
	s.Enable(gl.SCISSOR_TEST)
	s.Scissor(0, 0, 2, 1) // bottom-left in GL terms

	drawQuad(s, p, 0, 0, 4, 4)

	img := s.Pixels(0)
	if got := img.RGBAAt(0, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom-left pixel = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("top-left pixel = %v, want untouched", got)
	}
}

func TestSim_TextureSampling(t *testing.T) {
	s, p := newTestSim(t)
	tex := s.CreateTexture()
	s.ActiveTexture(gl.TEXTURE0)
	s.BindTexture(gl.TEXTURE_2D, tex)
	s.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int(gl.LINEAR))
	s.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int(gl.LINEAR))
	s.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	alpha := make([]byte, 16)
	for i := range alpha {
		alpha[i] = byte(i * 16)
	}
	s.TexImage2D(gl.TEXTURE_2D, 0, gl.ALPHA, 4, 4, gl.ALPHA, gl.UNSIGNED_BYTE, alpha)

	s.UseProgram(p)
	s.Uniform1f(s.GetUniformLocation(p, "useTexture"), 1)
	s.Uniform1i(s.GetUniformLocation(p, "tex"), 0)
	drawQuad(s, p, 0, 0, 4, 4)

	// Row 0 of the texture lands on the bottom row of the framebuffer.
	img := s.Pixels(0)
	for x := 0; x < 4; x++ {
		if got, want := img.RGBAAt(x, 3).A, alpha[x]; got != want {
			t.Errorf("bottom row pixel %d alpha = %d, want %d", x, got, want)
		}
	}
	if got := s.Stats().TextureUploads; got != 1 {
		t.Errorf("TextureUploads = %d, want 1", got)
	}
}

func TestSim_UnlabelledProgramFailsToLink(t *testing.T) {
	s := New(4, 4, nil)
	p := buildProgram(s, "unknown")
	if s.GetProgrami(p, gl.LINK_STATUS) != 0 {
		t.Error("program without an emulation linked")
	}
	if s.GetProgramInfoLog(p) == "" {
		t.Error("link failure left no log")
	}
}

func TestSim_FailureInjection(t *testing.T) {
	s := New(4, 4, map[string]gl.Emulation{"flat": flatEmulation})
	s.FailShaders.Store(true)
	if p := buildProgram(s, "flat"); s.GetProgrami(p, gl.LINK_STATUS) != 0 {
		t.Error("program linked with shader failures enabled")
	}

	tex := s.CreateTexture()
	s.BindTexture(gl.TEXTURE_2D, tex)
	s.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 4, 4, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	fb := s.CreateFramebuffer()
	s.BindFramebuffer(gl.FRAMEBUFFER, fb)
	s.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	if got := s.CheckFramebufferStatus(gl.FRAMEBUFFER); got != gl.FRAMEBUFFER_COMPLETE {
		t.Fatalf("CheckFramebufferStatus() = %#x, want complete", got)
	}
	s.FailFramebuffers.Store(true)
	if got := s.CheckFramebufferStatus(gl.FRAMEBUFFER); got == gl.FRAMEBUFFER_COMPLETE {
		t.Error("framebuffer complete with failures enabled")
	}

	s.FailTextures.Store(true)
	s.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 4, 4, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	if got := s.GetError(); got != gl.OUT_OF_MEMORY {
		t.Errorf("GetError() = %#x, want OUT_OF_MEMORY", got)
	}
}

func TestSim_BlitAndReadPixels(t *testing.T) {
	s := New(4, 4, nil)
	s.ClearColor(0, 1, 0, 1)
	s.Clear(gl.COLOR_BUFFER_BIT)

	tex := s.CreateTexture()
	s.BindTexture(gl.TEXTURE_2D, tex)
	s.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 2, 2, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	fb := s.CreateFramebuffer()
	s.BindFramebuffer(gl.FRAMEBUFFER, fb)
	s.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	s.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	s.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb)
	s.BlitFramebuffer(0, 0, 4, 4, 0, 0, 2, 2, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	s.BindFramebuffer(gl.FRAMEBUFFER, fb)
	buf := make([]byte, 3*3*4)
	s.ReadPixels(buf, 0, 0, 3, 3, gl.RGBA, gl.UNSIGNED_BYTE)
	if got := buf[1]; got != 255 {
		t.Errorf("blitted green = %d, want 255", got)
	}
	if got := buf[(2*3+2)*4+3]; got != 0 {
		t.Errorf("out-of-range alpha = %d, want 0", got)
	}
	if got := s.Stats().Blits; got != 1 {
		t.Errorf("Blits = %d, want 1", got)
	}
}
