package march

import (
	"math"

	"github.com/ggcrunchy/LittleGreenMen/vgrid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cube is the classic marching-cubes polygonizer: an 8-bit index of
// below-iso corners selects a precomputed triangulation of the cube's
// crossed edges. At most 5 triangles per cell.
type Cube struct{}

// edgeCorners lists the two cube corners joined by each of the 12 edges.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func (Cube) MaxAdded() (maxVertices, maxIndices int) { return 12, 15 }

func (Cube) Polygonize(c *vgrid.Cell, dst *Loader, iso float64) int {
	// Ties go outside: strictly-below corners contribute their bit.
	ci := 0
	for i := 0; i < 8; i++ {
		if c.V[i] < iso {
			ci |= 1 << i
		}
	}
	if edgeMaskTable[ci] == 0 {
		return 0
	}
	n := 0
	tri := triangleTable[ci]
	for i := 0; i < len(tri); i += 3 {
		for k := 0; k < 3; k++ {
			e := tri[i+k]
			a, b := edgeCorners[e][0], edgeCorners[e][1]
			key := EdgeKey(a, b)
			vi, ok := dst.VertexIndex(key)
			if !ok {
				vi = dst.AddVertex(key, interpVertex(iso, c.P[a], c.P[b], c.V[a], c.V[b]))
			}
			dst.AddIndex(vi)
		}
		n++
	}
	return n
}

// interpEps guards against dividing by a near-zero value span. A corner
// sitting on the iso-level, or two near-equal corners, snaps the vertex to
// an endpoint instead of producing NaN/Inf.
const interpEps = 1e-5

// interpVertex places the surface vertex on the edge p1-p2 by linear
// interpolation of the corner values against iso.
func interpVertex(iso float64, p1, p2 r3.Vec, v1, v2 float64) r3.Vec {
	if math.Abs(iso-v1) < interpEps || math.Abs(v1-v2) < interpEps {
		return p1
	}
	if math.Abs(iso-v2) < interpEps {
		return p2
	}
	t := (iso - v1) / (v2 - v1)
	return r3.Add(p1, r3.Scale(t, r3.Sub(p2, p1)))
}
