package gl

// Emulation describes a shader program's behaviour in Go so that a CPU
// implementation of [Functions] can execute it.
//
// A program opts in by being labelled (see [Functions.ObjectLabel]) with the
// name under which its Emulation is registered. Drivers that run real GLSL
// ignore emulations entirely.
type Emulation struct {
	// Vertex maps one vertex to clip space and returns the varyings to be
	// interpolated across the primitive.
	Vertex func(in VertexInput, u Uniforms) (position [4]float32, varyings []float32)

	// Fragment returns the premultiplied output colour for one fragment.
	Fragment func(varyings []float32, u Uniforms, s Sampler) [4]float32
}

// VertexInput gives access to the current vertex's attributes, converted to
// float as the GL would.
type VertexInput interface {
	Attrib(name string) [4]float32
}

// Uniforms gives access to the program's current uniform values.
type Uniforms interface {
	Vec(name string) [4]float32
	Int(name string) int
}

// Sampler samples the texture bound to a texture unit, using normalised
// coordinates with (0, 0) at the first texel row in memory.
type Sampler interface {
	Sample(unit int, u, v float32) [4]float32
}
