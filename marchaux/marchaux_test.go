package marchaux

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ggcrunchy/LittleGreenMen/march"
	"github.com/ggcrunchy/LittleGreenMen/vgrid"
)

func TestSampleFieldVisitsEveryPoint(t *testing.T) {
	g, err := vgrid.New(5, 4, 3, 1e9)
	if err != nil {
		t.Fatal(err)
	}
	SampleField(g, func(p r3.Vec) float64 {
		return p.X + 10*p.Y + 100*p.Z
	})
	if got, want := g.Len(), 5*4*3; got != want {
		t.Fatalf("grid holds %d values, want %d", got, want)
	}
	if got, ok := g.At(3, 2, 1); !ok || got != 123 {
		t.Errorf("At(3,2,1) = %v,%v, want 123", got, ok)
	}
}

func TestSampleSphereCenterAndSurface(t *testing.T) {
	const n, radius = 9, 3.0
	g, err := vgrid.New(n, n, n, 1e9)
	if err != nil {
		t.Fatal(err)
	}
	SampleSphere(g, radius)
	// Odd dimension puts a lattice point at the exact center.
	if got, ok := g.At(4, 4, 4); !ok || got != -radius {
		t.Errorf("center value = %v,%v, want %v", got, ok, -radius)
	}
	// A point on the axis at distance radius from the center sits on the surface.
	if got, _ := g.At(4+int(radius), 4, 4); math.Abs(got) > 1e-12 {
		t.Errorf("surface value = %v, want 0", got)
	}
}

func TestWriteBinarySTL(t *testing.T) {
	tris := []march.Triangle{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}},
	}
	var buf bytes.Buffer
	n, err := WriteBinarySTL(&buf, tris)
	if err != nil {
		t.Fatal(err)
	}
	want := 80 + 4 + 50*len(tris)
	if n != want || buf.Len() != want {
		t.Fatalf("wrote %d bytes (buffer %d), want %d", n, buf.Len(), want)
	}
	if count := binary.LittleEndian.Uint32(buf.Bytes()[80:84]); count != uint32(len(tris)) {
		t.Errorf("facet count = %d, want %d", count, len(tris))
	}
	// Both facets lie in xy planes with counter-clockwise winding: +z normal.
	for i := range tris {
		off := 84 + 50*i
		nz := math.Float32frombits(binary.LittleEndian.Uint32(buf.Bytes()[off+8 : off+12]))
		if nz != 1 {
			t.Errorf("facet %d normal z = %v, want 1", i, nz)
		}
	}
}

func TestWriteBinarySTLDegenerateFacet(t *testing.T) {
	// A zero-area facet gets a zero normal rather than NaN on the wire.
	tris := []march.Triangle{
		{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}},
	}
	var buf bytes.Buffer
	if _, err := WriteBinarySTL(&buf, tris); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf.Bytes()[84+4*i : 88+4*i]))
		if v != 0 {
			t.Errorf("normal component %d = %v, want 0", i, v)
		}
	}
}

func TestRenderPNGSlice(t *testing.T) {
	g, err := vgrid.New(16, 8, 4, 1e9)
	if err != nil {
		t.Fatal(err)
	}
	SampleSphere(g, 3)
	var buf bytes.Buffer
	if err := RenderPNGSlice(&buf, g, 2, 64, nil); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	// Aspect ratio preserved: 16x8 grid at height 64 gives width 128.
	if b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("image %dx%d, want 128x64", b.Dx(), b.Dy())
	}
}

func TestRenderPNGSliceBadArgs(t *testing.T) {
	g, _ := vgrid.New(4, 4, 4, 1e9)
	var buf bytes.Buffer
	if err := RenderPNGSlice(&buf, g, 4, 32, nil); err == nil {
		t.Error("out of range slice accepted")
	}
	if err := RenderPNGSlice(&buf, g, 0, 0, nil); err == nil {
		t.Error("zero height accepted")
	}
}

func TestColorConversionLinearGradient(t *testing.T) {
	conv := ColorConversionLinearGradient(2)
	if c := conv(-5); c != color.Black {
		t.Errorf("deep inside = %v, want black", c)
	}
	if c := conv(5); c != color.White {
		t.Errorf("far outside = %v, want white", c)
	}
	mid, ok := conv(0).(color.Gray)
	if !ok || mid.Y < 100 || mid.Y > 155 {
		t.Errorf("midpoint = %v, want mid gray", conv(0))
	}
}
