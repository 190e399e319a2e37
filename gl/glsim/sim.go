// Package glsim is a CPU implementation of the OpenGL ES 2.0 subset in
// [gl.Functions].
//
// It keeps textures, framebuffers and buffers in memory and rasterises
// triangles with the usual top-left fill rule. Shader programs run through
// Go emulations: a program links only if it was labelled with
// gl.Functions.ObjectLabel using a name registered in the emulation table
// passed to [New]. GLSL sources are parsed only for their attribute and
// uniform declarations.
//
// Like real GL, rows are stored bottom-up: row 0 of a texture is the first
// row uploaded and row 0 of a framebuffer is its bottom edge.
//
// glsim counts calls of interest (see [Stats]) and can be told to fail
// framebuffer, shader or texture allocation, which makes it the spy backend
// for renderer tests and the GPU of the headless native context.
package glsim

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/gl"
)

const (
	maxTextureUnits = 8
	maxAttribs      = 8
	maxTextureSize  = 4096
)

// Stats counts the calls made against a Sim.
type Stats struct {
	DrawCalls        int
	Triangles        int
	TextureUploads   int
	FramebufferBinds int
	ProgramSwitches  int
	Clears           int
	Blits            int
}

// Live counts objects that have been created and not deleted.
type Live struct {
	Textures      int
	Framebuffers  int
	Renderbuffers int
	Buffers       int
	Programs      int
	Shaders       int
}

// Sim is a simulated GL context. It is safe for concurrent use, although
// the renderer only ever calls it from one goroutine at a time.
type Sim struct {
	// FailFramebuffers makes every framebuffer report itself incomplete.
	FailFramebuffers atomic.Bool
	// FailShaders makes every shader fail to compile.
	FailShaders atomic.Bool
	// FailTextures makes texture storage allocation fail.
	FailTextures atomic.Bool

	mu         sync.Mutex
	emulations map[string]gl.Emulation

	screen *texture
	next   uint32

	textures      map[gl.Texture]*texture
	framebuffers  map[gl.Framebuffer]*framebuffer
	renderbuffers map[gl.Renderbuffer]*renderbuffer
	buffers       map[gl.Buffer][]byte
	shaders       map[gl.Shader]*shader
	programs      map[gl.Program]*program
	vertexArrays  map[gl.VertexArray]bool
	labels        map[labelKey]string

	err           gl.Enum
	activeUnit    int
	units         [maxTextureUnits]gl.Texture
	drawFB        gl.Framebuffer
	readFB        gl.Framebuffer
	renderbuffer  gl.Renderbuffer
	arrayBuffer   gl.Buffer
	elementBuffer gl.Buffer
	vertexArray   gl.VertexArray
	current       gl.Program
	attribs       [maxAttribs]attribPointer
	enabled       map[gl.Enum]bool
	blendSrc      gl.Enum
	blendDst      gl.Enum
	scissor       [4]int
	viewport      [4]int
	clearColour   [4]float32
	unpackAlign   int
	packAlign     int

	stats Stats
}

type labelKey struct {
	identifier gl.Enum
	name       uint32
}

type framebuffer struct {
	colour gl.Texture
	depth  gl.Renderbuffer
}

type renderbuffer struct {
	format        gl.Enum
	width, height int
}

type attribPointer struct {
	enabled    bool
	buffer     gl.Buffer
	size       int
	ty         gl.Enum
	normalized bool
	stride     int
	offset     int
}

var _ gl.Functions = (*Sim)(nil)

// New creates a simulator whose default framebuffer is width x height.
// emulations maps program labels to their CPU implementations.
func New(width, height int, emulations map[string]gl.Emulation) *Sim {
	s := &Sim{
		emulations:    emulations,
		screen:        newTexture(width, height),
		textures:      make(map[gl.Texture]*texture),
		framebuffers:  make(map[gl.Framebuffer]*framebuffer),
		renderbuffers: make(map[gl.Renderbuffer]*renderbuffer),
		buffers:       make(map[gl.Buffer][]byte),
		shaders:       make(map[gl.Shader]*shader),
		programs:      make(map[gl.Program]*program),
		vertexArrays:  make(map[gl.VertexArray]bool),
		labels:        make(map[labelKey]string),
		enabled:       make(map[gl.Enum]bool),
		blendSrc:      gl.ONE,
		blendDst:      gl.ZERO,
		viewport:      [4]int{0, 0, width, height},
		scissor:       [4]int{0, 0, width, height},
		unpackAlign:   4,
		packAlign:     4,
	}
	return s
}

// Resize reallocates the default framebuffer, discarding its contents.
func (s *Sim) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = newTexture(width, height)
}

// Size returns the size of the default framebuffer.
func (s *Sim) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.w, s.screen.h
}

// Stats returns the call counters.
func (s *Sim) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetStats zeroes the call counters.
func (s *Sim) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = Stats{}
}

// Live returns the number of objects currently allocated.
func (s *Sim) Live() Live {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Live{
		Textures:      len(s.textures),
		Framebuffers:  len(s.framebuffers),
		Renderbuffers: len(s.renderbuffers),
		Buffers:       len(s.buffers),
		Programs:      len(s.programs),
		Shaders:       len(s.shaders),
	}
}

// Pixels returns a top-down copy of a framebuffer's colour attachment.
// Framebuffer 0 is the default framebuffer.
func (s *Sim) Pixels(fb gl.Framebuffer) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.colourTarget(fb)
	if t == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return t.topDown()
}

// TexturePixels returns a copy of a texture with row 0 of the texture at
// the top of the image.
func (s *Sim) TexturePixels(tex gl.Texture) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.textures[tex]
	if t == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	img := image.NewRGBA(image.Rect(0, 0, t.w, t.h))
	copy(img.Pix, t.pix)
	return img
}

// Label returns the debug label attached to an object.
func (s *Sim) Label(identifier gl.Enum, name uint32) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels[labelKey{identifier, name}]
}

func (s *Sim) newName() uint32 {
	s.next++
	return s.next
}

func (s *Sim) setError(e gl.Enum) {
	if s.err == gl.NO_ERROR {
		s.err = e
	}
}

// Backend implements gl.Functions. The simulator speaks GL ES.
func (s *Sim) Backend() gputypes.GLBackend { return gputypes.GLBackendGLES }

// GetString implements gl.Functions.
func (s *Sim) GetString(name gl.Enum) string {
	switch name {
	case gl.VENDOR:
		return "gogpu"
	case gl.RENDERER:
		return "glsim"
	case gl.VERSION:
		return "OpenGL ES 2.0 glsim"
	case gl.SHADING_LANGUAGE_VERSION:
		return "OpenGL ES GLSL ES 1.00"
	default:
		return ""
	}
}

// GetInteger implements gl.Functions.
func (s *Sim) GetInteger(name gl.Enum) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case gl.MAX_TEXTURE_SIZE:
		return maxTextureSize
	case gl.FRAMEBUFFER_BINDING:
		return int(s.drawFB)
	case gl.TEXTURE_BINDING_2D:
		return int(s.units[s.activeUnit])
	case gl.ACTIVE_TEXTURE:
		return int(gl.TEXTURE0) + s.activeUnit
	default:
		s.setError(gl.INVALID_ENUM)
		return 0
	}
}

// GetError implements gl.Functions.
func (s *Sim) GetError() gl.Enum {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.err
	s.err = gl.NO_ERROR
	return e
}

// ObjectLabel implements gl.Functions.
func (s *Sim) ObjectLabel(identifier gl.Enum, name uint32, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[labelKey{identifier, name}] = label
}

// Enable implements gl.Functions.
func (s *Sim) Enable(capability gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[capability] = true
}

// Disable implements gl.Functions.
func (s *Sim) Disable(capability gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[capability] = false
}

// BlendFunc implements gl.Functions.
func (s *Sim) BlendFunc(src, dst gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blendSrc, s.blendDst = src, dst
}

// Scissor implements gl.Functions.
func (s *Sim) Scissor(x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scissor = [4]int{x, y, width, height}
}

// Viewport implements gl.Functions.
func (s *Sim) Viewport(x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = [4]int{x, y, width, height}
}

// ClearColor implements gl.Functions.
func (s *Sim) ClearColor(r, g, b, a float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearColour = [4]float32{r, g, b, a}
}

// Clear implements gl.Functions.
func (s *Sim) Clear(mask gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	t := s.colourTarget(s.drawFB)
	if t == nil {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	r := image.Rect(0, 0, t.w, t.h)
	if s.enabled[gl.SCISSOR_TEST] {
		r = r.Intersect(rectOf(s.scissor))
	}
	c := toBytes(s.clearColour)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			copy(t.pix[t.offset(x, y):], c[:])
		}
	}
	s.stats.Clears++
}

// PixelStorei implements gl.Functions.
func (s *Sim) PixelStorei(pname gl.Enum, param int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch pname {
	case gl.UNPACK_ALIGNMENT:
		s.unpackAlign = param
	case gl.PACK_ALIGNMENT:
		s.packAlign = param
	}
}

// Flush implements gl.Functions.
func (s *Sim) Flush() {}

func rectOf(r [4]int) image.Rectangle {
	return image.Rect(r[0], r[1], r[0]+r[2], r[1]+r[3])
}

func toBytes(c [4]float32) [4]byte {
	var out [4]byte
	for i, v := range c {
		out[i] = unitByte(v)
	}
	return out
}

func unitByte(v float32) byte {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}
