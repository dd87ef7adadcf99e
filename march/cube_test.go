package march

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ggcrunchy/LittleGreenMen/vgrid"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitCell builds a cell over the unit cube at the origin with the given
// corner values.
func unitCell(vals [8]float64) *vgrid.Cell {
	offs := [8][3]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	var c vgrid.Cell
	for i, o := range offs {
		c.P[i] = r3.Vec{X: o[0], Y: o[1], Z: o[2]}
		c.V[i] = vals[i]
	}
	return &c
}

func uniformCell(v float64) *vgrid.Cell {
	return unitCell([8]float64{v, v, v, v, v, v, v, v})
}

func vecApproxEq(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestCubeUniformCellEmitsNothing(t *testing.T) {
	l := NewLoader(Cube{})
	for _, v := range []float64{-1, 1} {
		l.Reset()
		if n := (Cube{}).Polygonize(uniformCell(v), l, 0); n != 0 {
			t.Errorf("uniform cell at %v produced %d triangles", v, n)
		}
	}
	// All corners exactly at iso classify outside: ties are not crossings.
	l.Reset()
	if n := (Cube{}).Polygonize(uniformCell(0), l, 0); n != 0 {
		t.Error("cell sitting on the iso-level produced triangles")
	}
}

func TestCubeSingleCornerTriangle(t *testing.T) {
	const tol = 1e-9
	for corner := 0; corner < 8; corner++ {
		vals := [8]float64{1, 1, 1, 1, 1, 1, 1, 1}
		vals[corner] = -1
		cell := unitCell(vals)
		l := NewLoader(Cube{})
		l.Reset()
		if n := (Cube{}).Polygonize(cell, l, 0); n != 1 {
			t.Fatalf("corner %d: %d triangles, want 1", corner, n)
		}
		// The triangle's vertices must be the midpoints of the three
		// edges incident to the inside corner: iso 0 bisects -1..1.
		var want []r3.Vec
		for _, e := range edgeCorners {
			if e[0] != corner && e[1] != corner {
				continue
			}
			mid := r3.Scale(0.5, r3.Add(cell.P[e[0]], cell.P[e[1]]))
			want = append(want, mid)
		}
		if len(want) != 3 {
			t.Fatalf("corner %d is incident to %d edges", corner, len(want))
		}
		verts := l.Vertices()
		if len(verts) != 3 || len(l.Indices()) != 3 {
			t.Fatalf("corner %d: %d verts %d indices", corner, len(verts), len(l.Indices()))
		}
		for _, w := range want {
			found := false
			for _, v := range verts {
				if vecApproxEq(v, w, tol) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("corner %d: midpoint %v missing from %v", corner, w, verts)
			}
		}
	}
}

func TestInterpVertexExactness(t *testing.T) {
	const tol = 1e-9
	p1 := r3.Vec{X: 1, Y: 2, Z: 3}
	p2 := r3.Vec{X: 5, Y: 2, Z: -1}
	a, b := -1.0, 3.0
	iso := 0.0
	want := r3.Add(p1, r3.Scale((iso-a)/(b-a), r3.Sub(p2, p1)))
	got := interpVertex(iso, p1, p2, a, b)
	if !vecApproxEq(got, want, tol) {
		t.Errorf("interp = %v, want %v", got, want)
	}
}

func TestInterpVertexDegenerateSnaps(t *testing.T) {
	p1 := r3.Vec{X: 1}
	p2 := r3.Vec{X: 2}
	// Corner value on the iso-level snaps to that endpoint.
	if got := interpVertex(0.5, p1, p2, 0.5+1e-7, 9); got != p1 {
		t.Errorf("iso at p1: got %v", got)
	}
	if got := interpVertex(0.5, p1, p2, -3, 0.5-1e-7); got != p2 {
		t.Errorf("iso at p2: got %v", got)
	}
	// Near-equal corner values snap instead of dividing by almost zero.
	if got := interpVertex(0.5, p1, p2, 1, 1+1e-7); got != p1 {
		t.Errorf("flat edge: got %v", got)
	}
}

func TestCubeCapacityContract(t *testing.T) {
	maxV, maxI := Cube{}.MaxAdded()
	l := NewLoader(Cube{})
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 2000; trial++ {
		var vals [8]float64
		for i := range vals {
			vals[i] = rng.NormFloat64()
		}
		l.Reset()
		n := (Cube{}).Polygonize(unitCell(vals), l, 0)
		if len(l.Vertices()) > maxV || len(l.Indices()) > maxI {
			t.Fatalf("trial %d: %d verts %d indices exceed bound %d/%d",
				trial, len(l.Vertices()), len(l.Indices()), maxV, maxI)
		}
		if n*3 != len(l.Indices()) {
			t.Fatalf("trial %d: returned %d triangles with %d indices", trial, n, len(l.Indices()))
		}
	}
}

func TestCubeVertexDedupAcrossTriangles(t *testing.T) {
	// Two inside corners sharing a face produce a quad of two triangles
	// sharing two vertices: 6 indices over at most 4 distinct vertices.
	vals := [8]float64{-1, -1, 1, 1, 1, 1, 1, 1}
	l := NewLoader(Cube{})
	l.Reset()
	if n := (Cube{}).Polygonize(unitCell(vals), l, 0); n != 2 {
		t.Fatalf("%d triangles, want 2", n)
	}
	if len(l.Vertices()) != 4 {
		t.Errorf("%d distinct vertices, want 4", len(l.Vertices()))
	}
	if len(l.Indices()) != 6 {
		t.Errorf("%d indices, want 6", len(l.Indices()))
	}
}
