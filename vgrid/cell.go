package vgrid

import "gonum.org/v1/gonum/spatial/r3"

// Cell is one marching-cubes cube: eight corner positions on the integer
// lattice and the sampled field value at each corner. Corner numbering is
// the classic one, bottom face first, counterclockwise from the cell's own
// coordinate:
//
//	0:(x,y,z)   1:(x+1,y,z)   2:(x+1,y+1,z)   3:(x,y+1,z)
//	4:(x,y,z+1) 5:(x+1,y,z+1) 6:(x+1,y+1,z+1) 7:(x,y+1,z+1)
//
// A Cell is rebuilt for every visited cell and never retained by the grid.
type Cell struct {
	P [8]r3.Vec
	V [8]float64
}

// cornerOffsets orders the positive-offset neighbors per the numbering above.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}
