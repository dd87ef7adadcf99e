// Package march extracts isosurface triangle meshes from sparse voxel
// grids. Two interchangeable polygonizers are provided: the classic
// table-driven cube method and a tetrahedral decomposition that yields a
// smoother surface at the cost of more triangles. Output is consumed
// either per cell through BuildIsoSurface or streamed through a Renderer.
package march

import (
	"io"

	"github.com/ggcrunchy/LittleGreenMen/vgrid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a triangle in grid-local coordinates.
type Triangle = r3.Triangle

// Polygonizer converts one grid cell into triangles at a given iso-level,
// emitting deduplicated vertices and indices through the loader.
type Polygonizer interface {
	// Polygonize appends the cell's surface crossing to dst and returns
	// the number of triangles produced.
	Polygonize(c *vgrid.Cell, dst *Loader, iso float64) int
	// MaxAdded bounds the vertices and indices one Polygonize call can
	// add to the loader. Callers size buffers from these constants.
	MaxAdded() (maxVertices, maxIndices int)
}

// BuildIsoSurface runs one full sweep: every occupied cell of the grid is
// read, polygonized at iso, and handed to sink as the loader's accumulated
// vertex/index batch. The loader is reset before each cell; sink must copy
// out whatever it wants to keep. A non-nil error from sink aborts the
// sweep.
func BuildIsoSurface(g *vgrid.Grid, dst *Loader, p Polygonizer, iso float64, sink func(*Loader) error) error {
	var cell vgrid.Cell
	cur := g.Begin()
	for cur.Next() {
		cur.ReadCell(&cell)
		dst.Reset()
		p.Polygonize(&cell, dst, iso)
		if err := sink(dst); err != nil {
			return err
		}
	}
	return nil
}

// Renderer streams the triangles of one isosurface sweep. It satisfies the
// ReadTriangles contract used throughout the ecosystem: io.EOF signals the
// sweep is complete.
type Renderer struct {
	cur     vgrid.Cursor
	loader  *Loader
	poly    Polygonizer
	iso     float64
	maxTris int
	done    bool
}

// NewRenderer returns a renderer sweeping g with p at iso. The sweep
// starts fresh; rendering consumes it once.
func NewRenderer(g *vgrid.Grid, p Polygonizer, iso float64) *Renderer {
	_, maxIdx := p.MaxAdded()
	return &Renderer{
		cur:     g.Begin(),
		loader:  NewLoader(p),
		poly:    p,
		iso:     iso,
		maxTris: maxIdx / 3,
	}
}

// ReadTriangles fills dst with rendered triangles and returns the count
// written. It returns io.EOF once the grid is exhausted and
// io.ErrShortBuffer if dst cannot hold a worst-case cell.
func (r *Renderer) ReadTriangles(dst []Triangle) (n int, err error) {
	if len(dst) < r.maxTris {
		return 0, io.ErrShortBuffer
	}
	if r.done {
		return 0, io.EOF
	}
	var cell vgrid.Cell
	for len(dst)-n >= r.maxTris {
		if !r.cur.Next() {
			r.done = true
			return n, io.EOF
		}
		r.cur.ReadCell(&cell)
		r.loader.Reset()
		r.poly.Polygonize(&cell, r.loader, r.iso)
		n += r.loader.appendTriangles(dst[n:])
	}
	return n, nil
}

// RenderAll reads the full contents of a Renderer and returns the slice
// read. io.EOF is not reported as an error.
func RenderAll(r *Renderer) ([]Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]Triangle, 0, startSize)
	buf := make([]Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}
