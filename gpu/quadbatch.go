package gpu

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/gl"
	"github.com/gogpu/glcanvas/paint"
)

const (
	vertexStride  = 8 // int16 x, int16 y, RGBA8
	quadVertices  = 4
	quadIndices   = 6
	quadByteCount = vertexStride * quadVertices
)

// QuadBatch accumulates axis-aligned quads in device pixels and draws them
// as indexed triangles. Everything the renderer puts on screen goes through
// a QuadBatch.
//
// The index buffer is built once for the full capacity; each flush uploads
// only the vertices. Adding to a full batch flushes it first, using
// whatever program and textures are current at that point.
type QuadBatch struct {
	gl       gl.Functions
	vbo, ibo gl.Buffer
	vao      gl.VertexArray
	verts    []byte
	quads    int
	capacity int
	flushes  int
}

// NewQuadBatch allocates buffers for capacity quads. Capacities beyond what
// 16-bit indices can address are reduced.
func NewQuadBatch(f gl.Functions, capacity int) *QuadBatch {
	capacity = min(max(capacity, 1), maxBatchQuads)
	q := &QuadBatch{
		gl:       f,
		verts:    make([]byte, 0, capacity*quadByteCount),
		capacity: capacity,
	}

	indices := make([]byte, 0, capacity*quadIndices*2)
	for i := 0; i < capacity; i++ {
		v := uint16(i * quadVertices)
		for _, o := range [quadIndices]uint16{0, 1, 2, 1, 2, 3} {
			indices = binary.LittleEndian.AppendUint16(indices, v+o)
		}
	}

	if f.Backend() == gputypes.GLBackendGL {
		q.vao = f.CreateVertexArray()
		f.BindVertexArray(q.vao)
	}
	q.vbo = f.CreateBuffer()
	q.ibo = f.CreateBuffer()
	f.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	f.BufferData(gl.ARRAY_BUFFER, make([]byte, capacity*quadByteCount), gl.DYNAMIC_DRAW)
	f.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ibo)
	f.BufferData(gl.ELEMENT_ARRAY_BUFFER, indices, gl.STATIC_DRAW)
	if q.vao != 0 {
		q.setAttributes()
		f.BindVertexArray(0)
	}
	return q
}

func (q *QuadBatch) setAttributes() {
	q.gl.EnableVertexAttribArray(AttribPosition)
	q.gl.VertexAttribPointer(AttribPosition, 2, gl.SHORT, false, vertexStride, 0)
	q.gl.EnableVertexAttribArray(AttribColour)
	q.gl.VertexAttribPointer(AttribColour, 4, gl.UNSIGNED_BYTE, true, vertexStride, 4)
}

// AddQuad queues a w x h quad at (x, y) in a premultiplied packed colour.
// Callers reject empty quads.
func (q *QuadBatch) AddQuad(x, y, w, h int, colour uint32) {
	if q.quads == q.capacity {
		q.Flush()
	}
	x0, y0 := clampInt16(x), clampInt16(y)
	x1, y1 := clampInt16(x+w), clampInt16(y+h)
	for _, p := range [quadVertices][2]uint16{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		q.verts = binary.LittleEndian.AppendUint16(q.verts, p[0])
		q.verts = binary.LittleEndian.AppendUint16(q.verts, p[1])
		q.verts = binary.LittleEndian.AppendUint32(q.verts, colour)
	}
	q.quads++
}

// AddQuadRect queues r.
func (q *QuadBatch) AddQuadRect(r geom.Rect, colour uint32) {
	q.AddQuad(r.X, r.Y, r.W, r.H, colour)
}

// AddCoverageRun queues a one-pixel-high span with the colour scaled by
// coverage level.
func (q *QuadBatch) AddCoverageRun(x, y, width int, level uint8, colour uint32) {
	if level == 0 || width <= 0 {
		return
	}
	q.AddQuad(x, y, width, 1, paint.ScalePacked(colour, level))
}

// Flush draws the pending quads. It does nothing when the batch is empty.
func (q *QuadBatch) Flush() {
	if q.quads == 0 {
		return
	}
	if q.vao != 0 {
		q.gl.BindVertexArray(q.vao)
		q.gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	} else {
		q.gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
		q.gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ibo)
		q.setAttributes()
	}
	q.gl.BufferSubData(gl.ARRAY_BUFFER, 0, q.verts)
	q.gl.DrawElements(gl.TRIANGLES, q.quads*quadIndices, gl.UNSIGNED_SHORT, 0)
	if q.vao != 0 {
		q.gl.BindVertexArray(0)
	}
	q.verts = q.verts[:0]
	q.quads = 0
	q.flushes++
}

// Pending returns the number of queued quads.
func (q *QuadBatch) Pending() int { return q.quads }

// Capacity returns the number of quads that fit before an implicit flush.
func (q *QuadBatch) Capacity() int { return q.capacity }

// Flushes returns how many draws the batch has issued.
func (q *QuadBatch) Flushes() int { return q.flushes }

// Release deletes the buffers. Pending quads are dropped.
func (q *QuadBatch) Release() {
	if q.vbo != 0 {
		q.gl.DeleteBuffer(q.vbo)
		q.gl.DeleteBuffer(q.ibo)
		q.vbo, q.ibo = 0, 0
	}
	if q.vao != 0 {
		q.gl.DeleteVertexArray(q.vao)
		q.vao = 0
	}
	q.verts = q.verts[:0]
	q.quads = 0
}

func clampInt16(v int) uint16 {
	return uint16(int16(min(max(v, -32768), 32767)))
}
