package marchaux

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"github.com/ggcrunchy/LittleGreenMen/march"
)

// stlFacet is the 50-byte binary STL facet record. STL stores float32 on
// the wire regardless of the precision triangles were built with.
type stlFacet struct {
	Normal ms3.Vec
	Verts  [3]ms3.Vec
	_      uint16 // attribute byte count, always zero
}

// WriteBinarySTL writes triangles as a binary STL solid and returns the
// number of bytes written.
func WriteBinarySTL(w io.Writer, tris []march.Triangle) (int, error) {
	if uint64(len(tris)) > math.MaxUint32 {
		return 0, errors.New("marchaux: too many triangles for STL")
	}
	var header [80]byte
	copy(header[:], "LittleGreenMen marching cubes")
	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	if err = binary.Write(w, binary.LittleEndian, uint32(len(tris))); err != nil {
		return n, err
	}
	n += 4
	var facet stlFacet
	for _, t := range tris {
		for i, v := range t {
			facet.Verts[i] = ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		}
		facet.Normal = facetNormal(facet.Verts)
		if err = binary.Write(w, binary.LittleEndian, &facet); err != nil {
			return n, err
		}
		n += 50
	}
	return n, nil
}

// facetNormal returns the unit normal of the facet, or the zero vector for
// degenerate facets.
func facetNormal(v [3]ms3.Vec) ms3.Vec {
	n := ms3.Cross(ms3.Sub(v[1], v[0]), ms3.Sub(v[2], v[0]))
	mag := ms3.Norm(n)
	if mag < 1e-12 || math32.IsNaN(mag) {
		return ms3.Vec{}
	}
	return ms3.Scale(1/mag, n)
}
