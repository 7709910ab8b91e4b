package core

import "math/bits"

// fBlaMka is the multiplication-hardened addition used in place of the
// plain BLAKE2b addition: x + y + 2*lo32(x)*lo32(y) mod 2^64.
func fBlaMka(x, y uint64) uint64 {
	return x + y + 2*uint64(uint32(x))*uint64(uint32(y))
}

// g implements the BlaMka G mixing function over four words.
//
// It is the BLAKE2b G function with every addition replaced by fBlaMka
// and no message words. Rotation amounts are 32, 24, 16 and 63.
func g(a, b, c, d uint64) (uint64, uint64, uint64, uint64) {
	a = fBlaMka(a, b)
	d = rotr64(d^a, 32)
	c = fBlaMka(c, d)
	b = rotr64(b^c, 24)

	a = fBlaMka(a, b)
	d = rotr64(d^a, 16)
	c = fBlaMka(c, d)
	b = rotr64(b^c, 63)

	return a, b, c, d
}

// rotr64 performs a right rotation of x by n bits.
func rotr64(x uint64, n int) uint64 {
	return bits.RotateLeft64(x, -n)
}

// gRound applies G to a 16-word group: four column steps followed by
// four diagonal steps, exactly as in one BLAKE2b round.
//
// The function operates in-place. The index pattern is part of the
// algorithm definition and must not be reordered.
func gRound(v []uint64) {
	_ = v[15]

	// Column step
	v[0], v[4], v[8], v[12] = g(v[0], v[4], v[8], v[12])
	v[1], v[5], v[9], v[13] = g(v[1], v[5], v[9], v[13])
	v[2], v[6], v[10], v[14] = g(v[2], v[6], v[10], v[14])
	v[3], v[7], v[11], v[15] = g(v[3], v[7], v[11], v[15])

	// Diagonal step
	v[0], v[5], v[10], v[15] = g(v[0], v[5], v[10], v[15])
	v[1], v[6], v[11], v[12] = g(v[1], v[6], v[11], v[12])
	v[2], v[7], v[8], v[13] = g(v[2], v[7], v[8], v[13])
	v[3], v[4], v[9], v[14] = g(v[3], v[4], v[9], v[14])
}

// permute applies the permutation P to all 128 words of a block.
//
// Phase 1 treats the block as eight contiguous 16-word columns
// (16i..16i+15). Phase 2 regroups the same words into eight rows made
// of the word pairs (2i, 2i+1) taken from each of the eight columns.
func permute(b *Block) {
	for i := 0; i < QWordsInBlock; i += 16 {
		gRound(b[i : i+16])
	}

	var v [16]uint64
	for i := 0; i < 16; i += 2 {
		for j := 0; j < 8; j++ {
			v[2*j] = b[16*j+i]
			v[2*j+1] = b[16*j+i+1]
		}
		gRound(v[:])
		for j := 0; j < 8; j++ {
			b[16*j+i] = v[2*j]
			b[16*j+i+1] = v[2*j+1]
		}
	}
}
