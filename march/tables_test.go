package march

import "testing"

func TestEdgeMaskComplementSymmetry(t *testing.T) {
	// Inverting inside/outside flips no crossed edges.
	for i := 0; i < 256; i++ {
		if edgeMaskTable[i] != edgeMaskTable[255^i] {
			t.Errorf("edge mask %d != mask %d", i, 255^i)
		}
	}
}

func TestEdgeMaskMatchesCornerTest(t *testing.T) {
	// An edge is crossed exactly when its two corners classify
	// differently, so the mask is derivable from the corner bits.
	for ci := 0; ci < 256; ci++ {
		var want uint16
		for e, c := range edgeCorners {
			inA := ci&(1<<c[0]) != 0
			inB := ci&(1<<c[1]) != 0
			if inA != inB {
				want |= 1 << e
			}
		}
		if edgeMaskTable[ci] != want {
			t.Errorf("edgeMaskTable[%d] = %#x, want %#x", ci, edgeMaskTable[ci], want)
		}
	}
}

func TestTriangleTableConsistent(t *testing.T) {
	for ci := 0; ci < 256; ci++ {
		tri := triangleTable[ci]
		if len(tri)%3 != 0 {
			t.Fatalf("row %d length %d not a multiple of 3", ci, len(tri))
		}
		if len(tri) > 15 {
			t.Fatalf("row %d lists %d indices, beyond 5 triangles", ci, len(tri))
		}
		var used uint16
		for _, e := range tri {
			if e < 0 || e > 11 {
				t.Fatalf("row %d has invalid edge %d", ci, e)
			}
			used |= 1 << e
		}
		if used != edgeMaskTable[ci] {
			t.Errorf("row %d uses edges %#x, edge mask says %#x", ci, used, edgeMaskTable[ci])
		}
		// No degenerate triangles in the table itself.
		for i := 0; i+2 < len(tri); i += 3 {
			if tri[i] == tri[i+1] || tri[i] == tri[i+2] || tri[i+1] == tri[i+2] {
				t.Errorf("row %d triangle %d repeats an edge", ci, i/3)
			}
		}
	}
}

func TestTriangleCountExtremes(t *testing.T) {
	if len(triangleTable[0]) != 0 || len(triangleTable[255]) != 0 {
		t.Error("uniform cells must triangulate to nothing")
	}
	max := 0
	for _, tri := range triangleTable {
		if len(tri) > max {
			max = len(tri)
		}
	}
	if max != 15 {
		t.Errorf("worst case is %d indices, want 15 (5 triangles)", max)
	}
}
