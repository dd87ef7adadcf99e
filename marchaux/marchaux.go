// Package marchaux provides conveniences around the voxel grid and the
// marching-cubes engine: filling grids from scalar field functions and
// writing sweep output to STL or PNG. Ideally users implement their own
// output paths since applications vary widely; these cover the common
// cases and the examples.
package marchaux

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ggcrunchy/LittleGreenMen/vgrid"
)

// SampleField fills g by evaluating f at every lattice point. Values are
// stored as-is; pick f's sign convention so the surface of interest
// crosses the intended iso-level.
func SampleField(g *vgrid.Grid, f func(p r3.Vec) float64) {
	nx, ny, nz := g.Dims()
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				g.Set(x, y, z, f(r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)}))
			}
		}
	}
}

// SampleSphere fills g with the signed distance to a sphere centered in
// the grid. Handy for tests and demos.
func SampleSphere(g *vgrid.Grid, radius float64) {
	nx, ny, nz := g.Dims()
	c := r3.Vec{X: float64(nx-1) / 2, Y: float64(ny-1) / 2, Z: float64(nz-1) / 2}
	SampleField(g, func(p r3.Vec) float64 {
		return r3.Norm(r3.Sub(p, c)) - radius
	})
}
