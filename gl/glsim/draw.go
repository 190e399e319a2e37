package glsim

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/gogpu/glcanvas/gl"
)

// CreateBuffer implements gl.Functions.
func (s *Sim) CreateBuffer() gl.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gl.Buffer(s.newName())
	s.buffers[id] = nil
	return id
}

// DeleteBuffer implements gl.Functions.
func (s *Sim) DeleteBuffer(b gl.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, b)
	if s.arrayBuffer == b {
		s.arrayBuffer = 0
	}
	if s.elementBuffer == b {
		s.elementBuffer = 0
	}
}

// BindBuffer implements gl.Functions.
func (s *Sim) BindBuffer(target gl.Enum, b gl.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch target {
	case gl.ARRAY_BUFFER:
		s.arrayBuffer = b
	case gl.ELEMENT_ARRAY_BUFFER:
		s.elementBuffer = b
	default:
		s.setError(gl.INVALID_ENUM)
	}
}

func (s *Sim) bufferFor(target gl.Enum) gl.Buffer {
	if target == gl.ELEMENT_ARRAY_BUFFER {
		return s.elementBuffer
	}
	return s.arrayBuffer
}

// BufferData implements gl.Functions.
func (s *Sim) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bufferFor(target)
	if b == 0 {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	s.buffers[b] = append([]byte(nil), data...)
}

// BufferSubData implements gl.Functions.
func (s *Sim) BufferSubData(target gl.Enum, offset int, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bufferFor(target)
	buf := s.buffers[b]
	if b == 0 || offset < 0 || offset+len(data) > len(buf) {
		s.setError(gl.INVALID_VALUE)
		return
	}
	copy(buf[offset:], data)
}

// CreateVertexArray implements gl.Functions.
func (s *Sim) CreateVertexArray() gl.VertexArray {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gl.VertexArray(s.newName())
	s.vertexArrays[id] = true
	return id
}

// DeleteVertexArray implements gl.Functions.
func (s *Sim) DeleteVertexArray(v gl.VertexArray) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vertexArrays, v)
	if s.vertexArray == v {
		s.vertexArray = 0
	}
}

// BindVertexArray implements gl.Functions. Attribute state is global in
// the simulator; vertex arrays are only tracked for validation.
func (s *Sim) BindVertexArray(v gl.VertexArray) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v != 0 && !s.vertexArrays[v] {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	s.vertexArray = v
}

// EnableVertexAttribArray implements gl.Functions.
func (s *Sim) EnableVertexAttribArray(a gl.Attrib) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a >= 0 && int(a) < maxAttribs {
		s.attribs[a].enabled = true
	}
}

// DisableVertexAttribArray implements gl.Functions.
func (s *Sim) DisableVertexAttribArray(a gl.Attrib) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a >= 0 && int(a) < maxAttribs {
		s.attribs[a].enabled = false
	}
}

// VertexAttribPointer implements gl.Functions.
func (s *Sim) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a < 0 || int(a) >= maxAttribs {
		s.setError(gl.INVALID_VALUE)
		return
	}
	p := &s.attribs[a]
	p.buffer = s.arrayBuffer
	p.size, p.ty, p.normalized = size, ty, normalized
	p.stride, p.offset = stride, offset
}

func typeSize(ty gl.Enum) int {
	switch ty {
	case gl.BYTE, gl.UNSIGNED_BYTE:
		return 1
	case gl.SHORT, gl.UNSIGNED_SHORT:
		return 2
	default:
		return 4
	}
}

// vertexInput reads attributes for one vertex.
type vertexInput struct {
	s     *Sim
	prog  *program
	index int
}

func (v vertexInput) Attrib(name string) [4]float32 {
	out := [4]float32{0, 0, 0, 1}
	loc, ok := v.prog.attribs[name]
	if !ok || loc < 0 || int(loc) >= maxAttribs {
		return out
	}
	p := v.s.attribs[loc]
	if !p.enabled {
		return out
	}
	buf := v.s.buffers[p.buffer]
	ts := typeSize(p.ty)
	stride := p.stride
	if stride == 0 {
		stride = ts * p.size
	}
	base := p.offset + v.index*stride
	for i := 0; i < p.size && i < 4; i++ {
		o := base + i*ts
		if o+ts > len(buf) {
			break
		}
		var f float32
		switch p.ty {
		case gl.BYTE:
			f = float32(int8(buf[o]))
			if p.normalized {
				f = max(f/127, -1)
			}
		case gl.UNSIGNED_BYTE:
			f = float32(buf[o])
			if p.normalized {
				f /= 255
			}
		case gl.SHORT:
			f = float32(int16(binary.LittleEndian.Uint16(buf[o:])))
			if p.normalized {
				f = max(f/32767, -1)
			}
		case gl.UNSIGNED_SHORT:
			f = float32(binary.LittleEndian.Uint16(buf[o:]))
			if p.normalized {
				f /= 65535
			}
		default:
			f = math.Float32frombits(binary.LittleEndian.Uint32(buf[o:]))
		}
		out[i] = f
	}
	return out
}

// sampler reads the textures bound to the texture units.
type sampler struct{ s *Sim }

func (sm sampler) Sample(unit int, u, v float32) [4]float32 {
	if unit < 0 || unit >= maxTextureUnits {
		return [4]float32{}
	}
	return sm.s.textures[sm.s.units[unit]].sample(u, v)
}

type shadedVertex struct {
	x, y     float64
	varyings []float32
}

// DrawElements implements gl.Functions for TRIANGLES with UNSIGNED_SHORT
// indices.
func (s *Sim) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prog := s.programs[s.current]
	target := s.colourTarget(s.drawFB)
	if prog == nil || !prog.linked || target == nil || mode != gl.TRIANGLES || ty != gl.UNSIGNED_SHORT {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	indices := s.buffers[s.elementBuffer]
	if offset+count*2 > len(indices) {
		s.setError(gl.INVALID_OPERATION)
		return
	}
	s.stats.DrawCalls++

	clip := image.Rect(0, 0, target.w, target.h).Intersect(rectOf(s.viewport))
	if s.enabled[gl.SCISSOR_TEST] {
		clip = clip.Intersect(rectOf(s.scissor))
	}
	cache := make(map[uint16]shadedVertex)
	vertex := func(i uint16) shadedVertex {
		if v, ok := cache[i]; ok {
			return v
		}
		pos, vary := prog.emu.Vertex(vertexInput{s: s, prog: prog, index: int(i)}, prog)
		w := float64(pos[3])
		if w == 0 {
			w = 1
		}
		v := shadedVertex{
			x:        float64(s.viewport[0]) + (float64(pos[0])/w+1)*float64(s.viewport[2])/2,
			y:        float64(s.viewport[1]) + (float64(pos[1])/w+1)*float64(s.viewport[3])/2,
			varyings: vary,
		}
		cache[i] = v
		return v
	}
	for i := 0; i+2 < count; i += 3 {
		o := offset + i*2
		a := vertex(binary.LittleEndian.Uint16(indices[o:]))
		b := vertex(binary.LittleEndian.Uint16(indices[o+2:]))
		c := vertex(binary.LittleEndian.Uint16(indices[o+4:]))
		s.rasterise(target, clip, prog, a, b, c)
		s.stats.Triangles++
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// includesEdge implements the tie-break for pixel centres that lie exactly
// on an edge of a counter-clockwise triangle. Of two triangles sharing an
// edge, exactly one owns it.
func includesEdge(ax, ay, bx, by float64) bool {
	dx, dy := bx-ax, by-ay
	return dy < 0 || (dy == 0 && dx < 0)
}

func (s *Sim) rasterise(t *texture, clip image.Rectangle, prog *program, a, b, c shadedVertex) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}
	box := image.Rect(
		int(math.Floor(min(a.x, b.x, c.x))), int(math.Floor(min(a.y, b.y, c.y))),
		int(math.Ceil(max(a.x, b.x, c.x))), int(math.Ceil(max(a.y, b.y, c.y))),
	).Intersect(clip)

	incA := includesEdge(b.x, b.y, c.x, c.y)
	incB := includesEdge(c.x, c.y, a.x, a.y)
	incC := includesEdge(a.x, a.y, b.x, b.y)
	inside := func(w float64, inc bool) bool { return w > 0 || (w == 0 && inc) }

	n := len(a.varyings)
	vary := make([]float32, n)
	smp := sampler{s}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		py := float64(y) + 0.5
		for x := box.Min.X; x < box.Max.X; x++ {
			px := float64(x) + 0.5
			wa := edge(b.x, b.y, c.x, c.y, px, py)
			wb := edge(c.x, c.y, a.x, a.y, px, py)
			wc := edge(a.x, a.y, b.x, b.y, px, py)
			if !inside(wa, incA) || !inside(wb, incB) || !inside(wc, incC) {
				continue
			}
			la, lb, lc := float32(wa/area), float32(wb/area), float32(wc/area)
			for i := 0; i < n; i++ {
				vary[i] = a.varyings[i]*la + b.varyings[i]*lb + c.varyings[i]*lc
			}
			s.writeFragment(t, x, y, prog.emu.Fragment(vary, prog, smp))
		}
	}
}

func (s *Sim) writeFragment(t *texture, x, y int, src [4]float32) {
	o := t.offset(x, y)
	px := t.pix[o : o+4 : o+4]
	if !s.enabled[gl.BLEND] {
		c := toBytes(src)
		copy(px, c[:])
		return
	}
	dst := [4]float32{float32(px[0]) / 255, float32(px[1]) / 255, float32(px[2]) / 255, float32(px[3]) / 255}
	fs := blendFactor(s.blendSrc, src, dst)
	fd := blendFactor(s.blendDst, src, dst)
	var out [4]float32
	for i := range out {
		out[i] = src[i]*fs[i] + dst[i]*fd[i]
	}
	c := toBytes(out)
	copy(px, c[:])
}

func blendFactor(f gl.Enum, src, dst [4]float32) [4]float32 {
	splat := func(v float32) [4]float32 { return [4]float32{v, v, v, v} }
	inv := func(c [4]float32) [4]float32 { return [4]float32{1 - c[0], 1 - c[1], 1 - c[2], 1 - c[3]} }
	switch f {
	case gl.ZERO:
		return splat(0)
	case gl.SRC_COLOR:
		return src
	case gl.ONE_MINUS_SRC_COLOR:
		return inv(src)
	case gl.SRC_ALPHA:
		return splat(src[3])
	case gl.ONE_MINUS_SRC_ALPHA:
		return splat(1 - src[3])
	case gl.DST_COLOR:
		return dst
	case gl.ONE_MINUS_DST_COLOR:
		return inv(dst)
	case gl.DST_ALPHA:
		return splat(dst[3])
	case gl.ONE_MINUS_DST_ALPHA:
		return splat(1 - dst[3])
	default:
		return splat(1)
	}
}
