// Package vgrid implements a sparse voxel grid for scalar fields, addressed
// by Morton index with descriptor/block/bin indirection. Samples are set one
// lattice point at a time and read back as cube cells by a traversal cursor,
// which is what the march package polygonizes.
package vgrid

import (
	"errors"
	"fmt"
)

const (
	// MaxDim is the largest per-axis grid dimension, limited by the three
	// 10-bit axes of the Morton index.
	MaxDim = 1 << mortonAxisBits
	// smallDim is the per-axis cutoff below which the compact 15-bit
	// addressing tier applies.
	smallDim = 32

	rangeBits     = 10 // Morton indices covered per descriptor: 1024.
	sliceBits     = 7  // values per slice/bin: 128.
	binSize       = 1 << sliceBits
	binWords      = binSize / 32
	binsPerBlock  = 16
	slicesPerDesc = 1 << (rangeBits - sliceBits)

	smallSlots = 1 << (15 - rangeBits) // descriptor slots of the small tier

	blockCacheCap = 32
	descCacheCap  = 64
)

// sliceRef locates the bin holding one 128-value slice, or nothing if the
// slice was never written. Index handles into the block store replace the
// raw pointer chasing of earlier designs.
type sliceRef struct {
	block int32 // position in the grid's block store, -1 if unallocated
	bin   int8
}

// descriptor records, per slice of its 1024-index Morton range, which
// block and bin hold the data. Allocated lazily on first write into the
// range; owns no storage itself.
type descriptor struct {
	slices [slicesPerDesc]sliceRef
}

func (d *descriptor) init() {
	for i := range d.slices {
		d.slices[i] = sliceRef{block: -1}
	}
}

// block is the physical storage unit: 16 bins of 128 values, each bin with
// a 4-word occupancy bitmask, one bit per value.
type block struct {
	vals  [binsPerBlock][binSize]float64
	flags [binsPerBlock][binWords]uint32
}

// Grid is a sparse 3D scalar field over [0,nx)x[0,ny)x[0,nz). Cells never
// written read back as the missing value chosen at construction. A Grid is
// not safe for concurrent mutation; traversal cursors are read-only with
// respect to the grid and may be split across goroutines by the caller.
type Grid struct {
	nx, ny, nz int
	missing    float64
	small      bool

	blocks     *group[block]
	descs      *group[descriptor]
	blockStore int
	descStore  int

	// Descriptor index. The small tier addresses at most 32 ranges and
	// uses the flat slot table; the large tier keys ranges in a map. Both
	// remember allocation order in ranges, which fixes traversal order.
	slots  [smallSlots]int32
	index  map[uint32]int32
	ranges []uint32

	fillBlock int32 // block currently handing out bins, -1 if none
	fillBin   int8  // next unassigned bin within fillBlock

	count int
}

// New returns a grid of the given dimensions whose unset cells read back as
// missing. Dimensions must lie in (0, MaxDim]. Grids with all dimensions at
// most 32 use a compact addressing tier; behavior is identical either way.
func New(nx, ny, nz int, missing float64) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errors.New("vgrid: dimensions must be positive")
	}
	if nx > MaxDim || ny > MaxDim || nz > MaxDim {
		return nil, fmt.Errorf("vgrid: dimensions %dx%dx%d exceed maximum %d", nx, ny, nz, MaxDim)
	}
	g := &Grid{
		nx: nx, ny: ny, nz: nz,
		missing:   missing,
		small:     nx <= smallDim && ny <= smallDim && nz <= smallDim,
		blocks:    newGroup[block](blockCacheCap),
		descs:     newGroup[descriptor](descCacheCap),
		fillBlock: -1,
	}
	g.blockStore = g.blocks.NewStore()
	g.descStore = g.descs.NewStore()
	if g.small {
		for i := range g.slots {
			g.slots[i] = -1
		}
		g.ranges = make([]uint32, 0, smallSlots)
	} else {
		g.index = make(map[uint32]int32)
	}
	return g, nil
}

// Dims returns the grid dimensions.
func (g *Grid) Dims() (nx, ny, nz int) { return g.nx, g.ny, g.nz }

// Missing returns the value reported for cells never set.
func (g *Grid) Missing() float64 { return g.missing }

// Len returns the number of occupied cells.
func (g *Grid) Len() int { return g.count }

// Set stores v at (x,y,z). Out-of-range coordinates are ignored: callers
// sample padded neighborhoods and rely on this clipping. Overwriting an
// occupied cell replaces the value without touching occupancy bookkeeping.
func (g *Grid) Set(x, y, z int, v float64) {
	if uint(x) >= uint(g.nx) || uint(y) >= uint(g.ny) || uint(z) >= uint(g.nz) {
		return
	}
	m := EncodeMorton3(uint32(x), uint32(y), uint32(z))
	d := g.obtainDesc(m >> rangeBits)
	s := &d.slices[m>>sliceBits&(slicesPerDesc-1)]
	if s.block < 0 {
		g.allocSlice(s)
	}
	blk := g.blocks.At(g.blockStore, int(s.block))
	off := m & (binSize - 1)
	word, bit := off>>5, uint32(1)<<(off&31)
	if blk.flags[s.bin][word]&bit == 0 {
		blk.flags[s.bin][word] |= bit
		g.count++
	}
	blk.vals[s.bin][off] = v
}

// At reports the value at (x,y,z) and whether that cell is occupied.
// Unoccupied and out-of-range cells read as the missing value.
func (g *Grid) At(x, y, z int) (float64, bool) {
	if uint(x) >= uint(g.nx) || uint(y) >= uint(g.ny) || uint(z) >= uint(g.nz) {
		return g.missing, false
	}
	return g.value(EncodeMorton3(uint32(x), uint32(y), uint32(z)))
}

// Reset discards all occupied cells, spilling descriptors and blocks into
// the recycle caches. The grid behaves as freshly constructed afterwards;
// cursors from before the reset are invalid.
func (g *Grid) Reset() {
	g.blocks.Clear(g.blockStore)
	g.descs.Clear(g.descStore)
	if g.small {
		for i := range g.slots {
			g.slots[i] = -1
		}
	} else {
		clear(g.index)
	}
	g.ranges = g.ranges[:0]
	g.fillBlock = -1
	g.fillBin = 0
	g.count = 0
}

// lookupDesc returns the descriptor covering Morton range key, or nil.
func (g *Grid) lookupDesc(key uint32) *descriptor {
	var idx int32
	if g.small {
		idx = g.slots[key]
	} else {
		var ok bool
		if idx, ok = g.index[key]; !ok {
			idx = -1
		}
	}
	if idx < 0 {
		return nil
	}
	return g.descs.At(g.descStore, int(idx))
}

// obtainDesc returns the descriptor covering Morton range key, allocating
// it (recycled if possible) on first use.
func (g *Grid) obtainDesc(key uint32) *descriptor {
	if d := g.lookupDesc(key); d != nil {
		return d
	}
	d := g.descs.Pop()
	if d == nil {
		d = new(descriptor)
	}
	d.init()
	idx := int32(g.descs.Add(g.descStore, d))
	if g.small {
		g.slots[key] = idx
	} else {
		g.index[key] = idx
	}
	g.ranges = append(g.ranges, key)
	return d
}

// allocSlice binds s to the next free bin, starting a new block once the
// current block's 16 bins are exhausted.
func (g *Grid) allocSlice(s *sliceRef) {
	if g.fillBlock < 0 || g.fillBin == binsPerBlock {
		blk := g.blocks.Pop()
		if blk == nil {
			blk = new(block)
		}
		g.fillBlock = int32(g.blocks.Add(g.blockStore, blk))
		g.fillBin = 0
	}
	blk := g.blocks.At(g.blockStore, int(g.fillBlock))
	blk.flags[g.fillBin] = [binWords]uint32{} // recycled bins carry stale bits
	s.block = g.fillBlock
	s.bin = g.fillBin
	g.fillBin++
}

// value resolves Morton index m through descriptor, block and bin.
func (g *Grid) value(m uint32) (float64, bool) {
	d := g.lookupDesc(m >> rangeBits)
	if d == nil {
		return g.missing, false
	}
	s := d.slices[m>>sliceBits&(slicesPerDesc-1)]
	if s.block < 0 {
		return g.missing, false
	}
	blk := g.blocks.At(g.blockStore, int(s.block))
	off := m & (binSize - 1)
	if blk.flags[s.bin][off>>5]&(1<<(off&31)) == 0 {
		return g.missing, false
	}
	return blk.vals[s.bin][off], true
}
