package vgrid

import "math/bits"

// Morton (Z-order) linearization of 3D lattice coordinates. Three 10-bit
// axes interleave into a 30-bit index so that nearby cells land in nearby
// indices, which is what makes the block/bin storage below cache friendly.

const (
	mortonAxisBits = 10
	mortonAxisMask = 1<<mortonAxisBits - 1
)

// spread3 distributes the low 10 bits of v so that two zero bits separate
// each original bit.
func spread3(v uint32) uint32 {
	v &= mortonAxisMask
	v = (v | v<<16) & 0x030000FF
	v = (v | v<<8) & 0x0300F00F
	v = (v | v<<4) & 0x030C30C3
	v = (v | v<<2) & 0x09249249
	return v
}

// compact3 is the inverse of spread3.
func compact3(v uint32) uint32 {
	v &= 0x09249249
	v = (v ^ v>>2) & 0x030C30C3
	v = (v ^ v>>4) & 0x0300F00F
	v = (v ^ v>>8) & 0x030000FF
	v = (v ^ v>>16) & mortonAxisMask
	return v
}

// EncodeMorton3 interleaves three 10-bit coordinates into a 30-bit index.
// Bits above the tenth of each argument are discarded.
func EncodeMorton3(x, y, z uint32) uint32 {
	return spread3(x) | spread3(y)<<1 | spread3(z)<<2
}

// DecodeMorton3 recovers the coordinates interleaved by EncodeMorton3.
func DecodeMorton3(m uint32) (x, y, z uint32) {
	return compact3(m), compact3(m >> 1), compact3(m >> 2)
}

// Log2PowerOf2 returns the bit position of v, which must be an exact power
// of two. Isolated occupancy bits (v & -v) pass through here once per
// occupied cell during traversal.
func Log2PowerOf2(v uint32) int {
	return bits.TrailingZeros32(v)
}

// RoundUpPowerOf2 returns the smallest power of two >= n, with n > 0.
func RoundUpPowerOf2(n uint32) uint32 {
	return 1 << bits.Len32(n-1)
}
