package gpu

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/paint"
	"github.com/gogpu/glcanvas/pixel"
)

// Texture units.
const (
	UnitPaint = iota // gradient or image
	UnitMask
	UnitSource // copy-texture and mask-texture input
	textureUnits
)

// Target is a framebuffer covering Bounds in device space. The framebuffer
// is Bounds.W x Bounds.H pixels and its top-left pixel is Bounds.X,
// Bounds.Y.
type Target struct {
	Framebuffer gl.Framebuffer
	Bounds      geom.Rect
}

// Resources are the per-context objects a State draws with. They are
// usually shared between all States on a native context.
type Resources struct {
	Library   *ShaderLibrary
	Gradients *GradientTextureCache
	Images    *ImageTextureCache
}

// Mask is an alpha texture whose top-left texel sits at Bounds.X, Bounds.Y
// in device space. Bounds.W and Bounds.H are the texture size.
type Mask struct {
	Texture *Texture
	Bounds  geom.Rect
}

type blendState struct {
	enabled  bool
	src, dst gputypes.BlendFactor
}

type boundTexture struct {
	tex *Texture
	id  gl.Texture
}

type imageKey struct {
	id, version uint64
}

// State tracks the GPU state used while drawing into one target: the
// bound framebuffer, blending, textures per unit, the current program and
// its uniforms. Every change that the GPU can observe flushes the quad
// batch first, so queued quads always draw with the state they were
// queued under.
type State struct {
	gl      gl.Functions
	res     Resources
	quads   *QuadBatch
	target  Target
	targets []Target

	program    *ShaderProgram
	blend      blendState
	blendKnown bool
	activeUnit int
	units      [textureUnits]boundTexture

	lastGradient *paint.Gradient
	lastImage    imageKey
}

// NewState binds target and prepares it for 2D drawing: no depth test, no
// scissor and premultiplied blending.
func NewState(f gl.Functions, res Resources, target Target, quadCapacity int) *State {
	s := &State{
		gl:         f,
		res:        res,
		quads:      NewQuadBatch(f, quadCapacity),
		target:     target,
		activeUnit: -1,
	}
	s.bindTarget()
	f.Disable(gl.DEPTH_TEST)
	f.Disable(gl.SCISSOR_TEST)
	s.SetPremultipliedBlend()
	return s
}

func (s *State) bindTarget() {
	s.gl.BindFramebuffer(gl.FRAMEBUFFER, s.target.Framebuffer)
	s.gl.Viewport(0, 0, s.target.Bounds.W, s.target.Bounds.H)
}

// Target returns the current target.
func (s *State) Target() Target { return s.target }

// Functions returns the GL function table the state draws with.
func (s *State) Functions() gl.Functions { return s.gl }

// Resources returns the shared objects the state draws with.
func (s *State) Resources() Resources { return s.res }

// PushTarget redirects drawing to t until the matching PopTarget.
func (s *State) PushTarget(t Target) {
	s.Flush()
	s.targets = append(s.targets, s.target)
	s.target = t
	s.bindTarget()
}

// PopTarget returns to the target that was current before the last
// PushTarget.
func (s *State) PopTarget() {
	if !contract(len(s.targets) > 0, "PopTarget without PushTarget") {
		return
	}
	s.Flush()
	s.target = s.targets[len(s.targets)-1]
	s.targets = s.targets[:len(s.targets)-1]
	s.bindTarget()
}

// SetBlendNone disables blending, so that drawing replaces pixels.
func (s *State) SetBlendNone() {
	s.setBlend(blendState{})
}

// SetPremultipliedBlend selects source-over compositing of premultiplied
// colours.
func (s *State) SetPremultipliedBlend() {
	s.SetBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha)
}

// SetBlendFunc enables blending with the given factors.
func (s *State) SetBlendFunc(src, dst gputypes.BlendFactor) {
	s.setBlend(blendState{enabled: true, src: src, dst: dst})
}

func (s *State) setBlend(b blendState) {
	if s.blendKnown && s.blend == b {
		return
	}
	s.Flush()
	if b.enabled {
		s.gl.Enable(gl.BLEND)
		s.gl.BlendFunc(gl.BlendFactor(b.src), gl.BlendFactor(b.dst))
	} else {
		s.gl.Disable(gl.BLEND)
	}
	s.blend, s.blendKnown = b, true
}

// BindTexture binds tex to a unit. A nil texture unbinds the unit.
func (s *State) BindTexture(unit int, tex *Texture) {
	want := boundTexture{tex: tex}
	if tex != nil {
		want.id = tex.ID()
	}
	if s.units[unit] == want {
		return
	}
	s.Flush()
	if s.activeUnit != unit {
		s.gl.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
		s.activeUnit = unit
	}
	s.gl.BindTexture(gl.TEXTURE_2D, want.id)
	s.units[unit] = want
}

func (s *State) useProgram(p *ShaderProgram) {
	if s.program != p {
		s.Flush()
		p.Use()
		s.program = p
	}
	bw, bh := float32(s.target.Bounds.W), float32(s.target.Bounds.H)
	s.setUniform("screenBounds", float32(s.target.Bounds.X), float32(s.target.Bounds.Y), bw/2, bh/2)
}

// setUniform sets a uniform of the current program. Values are cached on
// the program, as GL keeps them; unchanged values are skipped and changed
// ones flush first.
func (s *State) setUniform(name string, v ...float32) {
	var val [4]float32
	copy(val[:], v)
	if old, ok := s.program.values[name]; ok && old == val {
		return
	}
	s.Flush()
	u := s.program.Uniform(name)
	switch len(v) {
	case 1:
		s.gl.Uniform1f(u, val[0])
	case 2:
		s.gl.Uniform2f(u, val[0], val[1])
	case 3:
		s.gl.Uniform3f(u, val[0], val[1], val[2])
	default:
		s.gl.Uniform4f(u, val[0], val[1], val[2], val[3])
	}
	s.program.values[name] = val
}

func (s *State) setSampler(name string, unit int) {
	val := [4]float32{float32(unit)}
	if old, ok := s.program.values[name]; ok && old == val {
		return
	}
	s.Flush()
	s.gl.Uniform1i(s.program.Uniform(name), unit)
	s.program.values[name] = val
}

// SetShaderForFill selects and configures the program that draws fill,
// optionally through mask. fill.Transform must map fill space to device
// space. It returns the vertex colour to queue quads with.
func (s *State) SetShaderForFill(fill paint.Fill, mask *Mask, quality paint.ResamplingQuality) (uint32, error) {
	masked := mask != nil && mask.Texture != nil
	switch {
	case fill.IsGradient():
		return s.setGradientShader(fill, masked, mask)
	case fill.IsImage():
		return s.setImageShader(fill, masked, mask, quality)
	default:
		s.selectPaint(Solid, masked, mask)
		return fill.VertexColour(), nil
	}
}

func (s *State) selectPaint(kind PaintKind, masked bool, mask *Mask) {
	s.useProgram(s.res.Library.Program(kind, masked))
	if !masked {
		return
	}
	s.BindTexture(UnitMask, mask.Texture)
	s.setSampler("maskTexture", UnitMask)
	s.setUniform("maskBounds", float32(mask.Bounds.X), float32(mask.Bounds.Y),
		1/float32(mask.Texture.Width()), 1/float32(mask.Texture.Height()))
}

func (s *State) setGradientShader(fill paint.Fill, masked bool, mask *Mask) (uint32, error) {
	g := fill.Gradient
	if len(g.Stops) == 0 {
		s.selectPaint(Solid, masked, mask)
		return 0, nil
	}
	t := fill.Transform
	solid := func() (uint32, error) {
		last := g.Stops[len(g.Stops)-1].Colour
		s.selectPaint(Solid, masked, mask)
		return last.WithMultipliedAlpha(fill.Opacity).Premultiplied(), nil
	}
	if t.IsSingular() || g.Point1 == g.Point2 {
		return solid()
	}

	changed := s.lastGradient == nil || !s.lastGradient.SameColours(g)
	if changed {
		s.Flush()
	}
	tex, err := s.res.Gradients.Texture(g)
	if err != nil {
		s.lastGradient = nil
		return 0, err
	}
	if changed {
		s.lastGradient = g.Clone()
	}
	lookupScale, lookupOffset := s.res.Gradients.Lookup()

	if g.Radial {
		r := g.Point1.Distance(g.Point2)
		m := t.Inverted().
			Then(geom.Translation(-g.Point1.X, -g.Point1.Y)).
			Then(geom.Scaling(1/r, 1/r))
		s.selectPaint(RadialGradient, masked, mask)
		s.setMatrix(m)
	} else {
		p1, p2 := t.Apply(g.Point1), t.Apply(g.Point2)
		dx, dy := p2.X-p1.X, p2.Y-p1.Y
		if dx == 0 && dy == 0 {
			return solid()
		}
		lenSq := dx*dx + dy*dy
		if math.Abs(dy) >= math.Abs(dx) {
			s.selectPaint(LinearGradientSteep, masked, mask)
			s.setUniform("gradientInfo", float32(p1.X), float32(p1.Y), float32(-dx/dy), float32(lenSq/dy))
		} else {
			s.selectPaint(LinearGradientShallow, masked, mask)
			s.setUniform("gradientInfo", float32(p1.X), float32(p1.Y), float32(-dy/dx), float32(lenSq/dx))
		}
	}
	s.BindTexture(UnitPaint, tex)
	s.setSampler("gradientTexture", UnitPaint)
	s.setUniform("gradientLookup", lookupScale, lookupOffset)
	return fill.VertexColour(), nil
}

func (s *State) setImageShader(fill paint.Fill, masked bool, mask *Mask, quality paint.ResamplingQuality) (uint32, error) {
	if fill.Transform.IsSingular() {
		return 0, nil
	}
	tex, err := s.ImageTexture(fill.Image)
	if err != nil {
		return 0, err
	}
	kind := Image
	address := gputypes.AddressModeClampToEdge
	if fill.Tiled {
		kind, address = TiledImage, gputypes.AddressModeRepeat
	}
	if tex.filter != quality.FilterMode() || tex.address != address {
		s.Flush()
		tex.SetFilter(quality.FilterMode())
		tex.SetAddressMode(address)
	}

	cw, ch := float64(fill.Image.Width()), float64(fill.Image.Height())
	m := fill.Transform.Inverted().Then(geom.Scaling(1/cw, 1/ch))
	s.selectPaint(kind, masked, mask)
	s.setMatrix(m)
	s.setUniform("imageLimits",
		float32(cw/float64(tex.Width())), float32(ch/float64(tex.Height())),
		float32(0.5/cw), float32(0.5/ch))
	s.BindTexture(UnitPaint, tex)
	s.setSampler("imageTexture", UnitPaint)
	return fill.VertexColour(), nil
}

// ImageTexture returns a texture for img from the image cache. Pending
// quads are flushed first unless img is the image drawn last, since the
// cache may recycle a texture they sample.
func (s *State) ImageTexture(img *pixel.Image) (*Texture, error) {
	key := imageKey{img.ID(), img.Version()}
	if key != s.lastImage {
		s.Flush()
	}
	tex, err := s.res.Images.Texture(img)
	if err != nil {
		s.lastImage = imageKey{}
		return nil, err
	}
	s.lastImage = key
	return tex, nil
}

func (s *State) setMatrix(m geom.Affine) {
	s.setUniform("matrixRow0", float32(m.A), float32(m.B), float32(m.C))
	s.setUniform("matrixRow1", float32(m.D), float32(m.E), float32(m.F))
}

// SetCopyTextureShader selects the program that copies tex with its
// top-left texel at origin in device space, scaled by the vertex alpha.
func (s *State) SetCopyTextureShader(tex *Texture, origin geom.Point) {
	s.setSourceProgram(s.res.Library.CopyTexture(), tex, origin)
}

// SetMaskTextureShader selects the program that writes the alpha of tex
// to every channel. Combined with blend factors (ZERO, SRC_ALPHA) it
// multiplies the target by the texture's alpha.
func (s *State) SetMaskTextureShader(tex *Texture, origin geom.Point) {
	s.setSourceProgram(s.res.Library.MaskTexture(), tex, origin)
}

func (s *State) setSourceProgram(p *ShaderProgram, tex *Texture, origin geom.Point) {
	s.useProgram(p)
	s.BindTexture(UnitSource, tex)
	s.setSampler("imageTexture", UnitSource)
	s.setUniform("imageBounds", float32(origin.X), float32(origin.Y),
		1/float32(tex.Width()), 1/float32(tex.Height()))
}

// Quads returns the batch to queue quads into after selecting a program.
func (s *State) Quads() *QuadBatch { return s.quads }

// Flush draws all pending quads.
func (s *State) Flush() {
	s.quads.Flush()
}

// Reset forgets the tracked GPU state. It must be called before drawing
// again after code outside this State, including another State on the same
// context, has issued GL calls. Pending quads are flushed first.
func (s *State) Reset() {
	s.Flush()
	s.program = nil
	s.blendKnown = false
	s.units = [textureUnits]boundTexture{}
	s.activeUnit = -1
	s.lastGradient = nil
	s.lastImage = imageKey{}
	s.bindTarget()
	s.gl.Disable(gl.DEPTH_TEST)
	s.gl.Disable(gl.SCISSOR_TEST)
	s.SetPremultipliedBlend()
}

// Release flushes, unbinds the textures and deletes the quad batch. The
// shared resources are left alone.
func (s *State) Release() {
	s.Flush()
	for unit := range s.units {
		if s.units[unit].tex != nil {
			s.BindTexture(unit, nil)
		}
	}
	s.gl.UseProgram(0)
	s.program = nil
	s.quads.Release()
}
