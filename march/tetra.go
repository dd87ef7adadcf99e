package march

import "github.com/ggcrunchy/LittleGreenMen/vgrid"

// Tetra polygonizes by splitting the cube into six tetrahedra around the
// 0-6 diagonal and marching each one. Surfaces come out smoother than the
// cube method's, at the cost of more and smaller triangles. Case folding
// (code > 7 becomes 15-code) discards winding order, so facing is not
// consistent; consumers that need outward normals must orient downstream.
type Tetra struct{}

// tetraCorners lists the cube corners of the six tetrahedra.
var tetraCorners = [6][4]int{
	{0, 5, 1, 6},
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
}

func (Tetra) MaxAdded() (maxVertices, maxIndices int) { return 24, 36 }

func (Tetra) Polygonize(c *vgrid.Cell, dst *Loader, iso float64) int {
	n := 0
	for _, tet := range tetraCorners {
		n += marchTetra(c, dst, iso, tet)
	}
	return n
}

// marchTetra emits the crossing of one tetrahedron, at most two triangles.
func marchTetra(c *vgrid.Cell, dst *Loader, iso float64, t [4]int) int {
	code := 0
	for i, ci := range t {
		if c.V[ci] < iso {
			code |= 1 << i
		}
	}
	if code > 7 {
		code = 15 - code
	}
	if code == 0 {
		return 0
	}

	// vert places (or reuses, via the loader's edge table) the vertex on
	// the tetrahedron edge between local corners a and b.
	vert := func(a, b int) uint32 {
		ca, cb := t[a], t[b]
		key := EdgeKey(ca, cb)
		if vi, ok := dst.VertexIndex(key); ok {
			return vi
		}
		return dst.AddVertex(key, interpVertex(iso, c.P[ca], c.P[cb], c.V[ca], c.V[cb]))
	}
	tri := func(i0, i1, i2 uint32) {
		dst.AddIndex(i0)
		dst.AddIndex(i1)
		dst.AddIndex(i2)
	}

	switch code {
	case 1: // corner 0 isolated
		tri(vert(0, 1), vert(0, 2), vert(0, 3))
		return 1
	case 2: // corner 1 isolated
		tri(vert(1, 0), vert(1, 3), vert(1, 2))
		return 1
	case 3: // corners 0,1 below: quad split into two triangles
		a, b := vert(0, 3), vert(1, 3)
		d := vert(0, 2)
		tri(a, d, b)
		tri(b, vert(1, 2), d)
		return 2
	case 4: // corner 2 isolated
		tri(vert(2, 0), vert(2, 1), vert(2, 3))
		return 1
	case 5: // corners 0,2 below
		a, b := vert(0, 1), vert(2, 3)
		tri(a, b, vert(0, 3))
		tri(a, vert(1, 2), b)
		return 2
	case 6: // corners 1,2 below
		a, b := vert(0, 1), vert(2, 3)
		tri(a, vert(1, 3), b)
		tri(a, vert(0, 2), b)
		return 2
	default: // 7: corner 3 isolated
		tri(vert(3, 0), vert(3, 2), vert(3, 1))
		return 1
	}
}
