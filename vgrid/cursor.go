package vgrid

import "gonum.org/v1/gonum/spatial/r3"

// Cursor walks every occupied cell of a grid exactly once: descriptors in
// allocation order, slices within each descriptor, then set occupancy bits
// within each bin word. It is owned by the caller for the duration of one
// sweep and carries all traversal scratch, so several cursors may walk one
// grid at the same time. A cursor is invalidated by Set or Reset.
type Cursor struct {
	g *Grid

	rangeIdx int
	sliceIdx int
	wordIdx  int
	rem      uint32 // unconsumed bits of the current occupancy word
	base     uint32 // Morton base of the current descriptor range

	d   *descriptor
	blk *block
	bin int8

	m       uint32 // Morton index of the current cell
	x, y, z int
}

// Begin starts a traversal positioned before the first occupied cell.
func (g *Grid) Begin() Cursor {
	return Cursor{g: g, rangeIdx: -1, wordIdx: binWords - 1}
}

// Next advances to the next occupied cell, reporting false once the sweep
// is exhausted.
func (c *Cursor) Next() bool {
	for {
		if c.rem != 0 {
			bit := c.rem & -c.rem
			c.rem &= c.rem - 1
			off := uint32(c.wordIdx)<<5 | uint32(Log2PowerOf2(bit))
			c.m = c.base | uint32(c.sliceIdx)<<sliceBits | off
			x, y, z := DecodeMorton3(c.m)
			c.x, c.y, c.z = int(x), int(y), int(z)
			return true
		}
		if c.wordIdx++; c.d != nil && c.wordIdx < binWords {
			c.rem = c.blk.flags[c.bin][c.wordIdx]
			continue
		}
		if !c.nextSlice() {
			return false
		}
	}
}

// nextSlice seeks the next allocated slice, crossing descriptor boundaries
// as needed.
func (c *Cursor) nextSlice() bool {
	g := c.g
	for {
		c.sliceIdx++
		if c.d == nil || c.sliceIdx == slicesPerDesc {
			c.rangeIdx++
			if c.rangeIdx >= len(g.ranges) {
				c.d = nil
				return false
			}
			c.d = g.descs.At(g.descStore, c.rangeIdx)
			c.base = g.ranges[c.rangeIdx] << rangeBits
			c.sliceIdx = 0
		}
		s := c.d.slices[c.sliceIdx]
		if s.block < 0 {
			continue
		}
		c.blk = g.blocks.At(g.blockStore, int(s.block))
		c.bin = s.bin
		c.wordIdx = 0
		c.rem = c.blk.flags[c.bin][0]
		return true
	}
}

// Coords returns the lattice coordinates of the current cell.
func (c *Cursor) Coords() (x, y, z int) { return c.x, c.y, c.z }

// ReadCell fills dst with the cube anchored at the current cell: corner 0
// is the cell itself, corners 1..7 its positive neighbors. Neighbor
// coordinates clamp to the last valid index at the grid boundary, so edge
// cells duplicate rather than miss samples. Absent neighbors read as the
// grid's missing value. Calling ReadCell without a prior successful Next
// panics.
func (c *Cursor) ReadCell(dst *Cell) {
	if c.d == nil {
		panic("vgrid: ReadCell on cursor with no current cell")
	}
	g := c.g

	// Corner 0 is guaranteed occupied and lives in the cursor's bin.
	dst.P[0] = r3.Vec{X: float64(c.x), Y: float64(c.y), Z: float64(c.z)}
	off := c.m & (binSize - 1)
	dst.V[0] = c.blk.vals[c.bin][off]

	// Neighbors sharing the cursor's bin resolve in place; the rest defer
	// to a second pass through the full descriptor walk.
	var deferred [7]struct {
		corner int
		m      uint32
	}
	ndef := 0
	slice0 := c.m >> sliceBits
	for i := 1; i < 8; i++ {
		d := cornerOffsets[i]
		cx := min(c.x+d[0], g.nx-1)
		cy := min(c.y+d[1], g.ny-1)
		cz := min(c.z+d[2], g.nz-1)
		dst.P[i] = r3.Vec{X: float64(cx), Y: float64(cy), Z: float64(cz)}
		m := EncodeMorton3(uint32(cx), uint32(cy), uint32(cz))
		if m>>sliceBits == slice0 {
			o := m & (binSize - 1)
			if c.blk.flags[c.bin][o>>5]&(1<<(o&31)) != 0 {
				dst.V[i] = c.blk.vals[c.bin][o]
			} else {
				dst.V[i] = g.missing
			}
			continue
		}
		deferred[ndef].corner = i
		deferred[ndef].m = m
		ndef++
	}
	for _, df := range deferred[:ndef] {
		dst.V[df.corner], _ = g.value(df.m)
	}
}
