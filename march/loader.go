package march

import "gonum.org/v1/gonum/spatial/r3"

// Loader accumulates the vertex and index buffers of polygonization and
// deduplicates vertices that share an edge within one cell. Edges are
// keyed by their corner pair, so the same 64-entry table serves both the
// cube method's 12 canonical edges and the tetrahedral method's
// cross-tetrahedron sharing.
type Loader struct {
	verts []r3.Vec
	idx   []uint32
	// edges[key] holds 1+index of the vertex already emitted for that
	// corner-pair key, or 0 if none. Cleared by Reset.
	edges [64]uint32
}

// EdgeKey builds the dedup key for the cube edge joining corners a and b.
func EdgeKey(a, b int) int {
	if a > b {
		a, b = b, a
	}
	return a<<3 | b
}

// NewLoader returns a loader sized for single-cell batches of p.
func NewLoader(p Polygonizer) *Loader {
	maxV, maxI := p.MaxAdded()
	return &Loader{
		verts: make([]r3.Vec, 0, maxV),
		idx:   make([]uint32, 0, maxI),
	}
}

// Reset clears the dedup table and truncates the buffers. Call once per
// cell, or less often for cross-cell batching, flushing before overflow.
func (l *Loader) Reset() {
	l.verts = l.verts[:0]
	l.idx = l.idx[:0]
	l.edges = [64]uint32{}
}

// VertexIndex reports the buffer index of the vertex already emitted for
// edge key, if any.
func (l *Loader) VertexIndex(key int) (uint32, bool) {
	if e := l.edges[key]; e != 0 {
		return e - 1, true
	}
	return 0, false
}

// AddVertex appends p and records it under edge key; a negative key skips
// dedup bookkeeping. Returns the vertex's buffer index.
func (l *Loader) AddVertex(key int, p r3.Vec) uint32 {
	i := uint32(len(l.verts))
	l.verts = append(l.verts, p)
	if key >= 0 {
		l.edges[key] = i + 1
	}
	return i
}

// AddIndex appends a local vertex index to the index buffer.
func (l *Loader) AddIndex(i uint32) {
	l.idx = append(l.idx, i)
}

// Vertices returns the accumulated vertex buffer. Valid until the next
// Reset.
func (l *Loader) Vertices() []r3.Vec { return l.verts }

// Indices returns the accumulated triangle index buffer, three entries per
// triangle. Valid until the next Reset.
func (l *Loader) Indices() []uint32 { return l.idx }

// Len returns the number of accumulated triangles.
func (l *Loader) Len() int { return len(l.idx) / 3 }

// appendTriangles materializes the index buffer into dst, which must have
// room for Len() triangles, and returns the count written.
func (l *Loader) appendTriangles(dst []Triangle) int {
	n := 0
	for i := 0; i+2 < len(l.idx); i += 3 {
		dst[n] = Triangle{l.verts[l.idx[i]], l.verts[l.idx[i+1]], l.verts[l.idx[i+2]]}
		n++
	}
	return n
}
