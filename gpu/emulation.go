package gpu

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/glcanvas/gl"
)

// Emulations returns Go renditions of every program in the shader library,
// keyed by program label, for CPU implementations of gl.Functions.
//
// Varyings are laid out as frontColour (4 floats) then pixelPos (2 floats).
func Emulations() map[string]gl.Emulation {
	m := make(map[string]gl.Emulation, paintKinds*2+2)
	for k := PaintKind(0); int(k) < paintKinds; k++ {
		for _, masked := range []bool{false, true} {
			m[ProgramLabel(k, masked)] = gl.Emulation{
				Vertex:   emulateVertex,
				Fragment: paintFragment(k, masked),
			}
		}
	}
	m[CopyTextureLabel] = gl.Emulation{Vertex: emulateVertex, Fragment: copyTextureFragment}
	m[MaskTextureLabel] = gl.Emulation{Vertex: emulateVertex, Fragment: maskTextureFragment}
	return m
}

func emulateVertex(in gl.VertexInput, u gl.Uniforms) ([4]float32, []float32) {
	pos := in.Attrib("position")
	col := in.Attrib("colour")
	sb := u.Vec("screenBounds")
	sx := (pos[0] - sb[0]) / sb[2]
	sy := (pos[1] - sb[1]) / sb[3]
	return [4]float32{sx - 1, 1 - sy, 0, 1},
		[]float32{col[0], col[1], col[2], col[3], pos[0], pos[1]}
}

func paintFragment(kind PaintKind, masked bool) func([]float32, gl.Uniforms, gl.Sampler) [4]float32 {
	var paint func(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32
	switch kind {
	case RadialGradient:
		paint = radialFragment
	case LinearGradientSteep:
		paint = linearFragment(false)
	case LinearGradientShallow:
		paint = linearFragment(true)
	case Image:
		paint = imageFragment(false)
	case TiledImage:
		paint = imageFragment(true)
	default:
		paint = func(v []float32, _ gl.Uniforms, _ gl.Sampler) [4]float32 {
			return [4]float32{v[0], v[1], v[2], v[3]}
		}
	}
	if !masked {
		return paint
	}
	return func(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
		return scale(paint(v, u, s), maskAlpha(v, u, s))
	}
}

func maskAlpha(v []float32, u gl.Uniforms, s gl.Sampler) float32 {
	mb := u.Vec("maskBounds")
	return s.Sample(u.Int("maskTexture"), (v[4]-mb[0])*mb[2], 1-(v[5]-mb[1])*mb[3])[3]
}

func gradientLookup(t float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
	lut := u.Vec("gradientLookup")
	return s.Sample(u.Int("gradientTexture"), clamp01(t)*lut[0]+lut[1], 0.5)
}

func radialFragment(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
	x, y := transformed(v, u)
	return scale(gradientLookup(math32.Hypot(x, y), u, s), v[3])
}

func linearFragment(shallow bool) func([]float32, gl.Uniforms, gl.Sampler) [4]float32 {
	return func(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
		gi := u.Vec("gradientInfo")
		px, py := v[4], v[5]
		var t float32
		if shallow {
			t = (px - (gi[0] + gi[2]*(py-gi[1]))) / gi[3]
		} else {
			t = (py - (gi[1] + gi[2]*(px-gi[0]))) / gi[3]
		}
		return scale(gradientLookup(t, u, s), v[3])
	}
}

func imageFragment(tiled bool) func([]float32, gl.Uniforms, gl.Sampler) [4]float32 {
	return func(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
		lim := u.Vec("imageLimits")
		x, y := transformed(v, u)
		if tiled {
			x, y = x-math32.Floor(x), y-math32.Floor(y)
		} else {
			x = min(max(x, lim[2]), 1-lim[2])
			y = min(max(y, lim[3]), 1-lim[3])
		}
		c := s.Sample(u.Int("imageTexture"), x*lim[0], 1-y*lim[1])
		return scale(c, v[3])
	}
}

func copyTextureFragment(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
	return scale(sampleBounds(v, u, s), v[3])
}

func maskTextureFragment(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
	a := sampleBounds(v, u, s)[3]
	return [4]float32{a, a, a, a}
}

func sampleBounds(v []float32, u gl.Uniforms, s gl.Sampler) [4]float32 {
	ib := u.Vec("imageBounds")
	return s.Sample(u.Int("imageTexture"), (v[4]-ib[0])*ib[2], 1-(v[5]-ib[1])*ib[3])
}

// transformed applies the matrixRow0/matrixRow1 uniforms to pixelPos.
func transformed(v []float32, u gl.Uniforms) (x, y float32) {
	r0, r1 := u.Vec("matrixRow0"), u.Vec("matrixRow1")
	px, py := v[4], v[5]
	return r0[0]*px + r0[1]*py + r0[2], r1[0]*px + r1[1]*py + r1[2]
}

func scale(c [4]float32, k float32) [4]float32 {
	return [4]float32{c[0] * k, c[1] * k, c[2] * k, c[3] * k}
}

func clamp01(t float32) float32 {
	return min(max(t, 0), 1)
}
