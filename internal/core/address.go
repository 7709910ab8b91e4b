package core

// addressesInBlock is the number of pseudo-random values one address
// block provides.
const addressesInBlock = QWordsInBlock

// addressGenerator produces the data-independent pseudo-random stream
// used by Argon2i and by the first half of the first pass of Argon2id.
//
// The input block encodes (pass, lane, slice, memory blocks, time cost,
// variant, counter). Every refill increments the counter in word 6 and
// applies the compression function twice against the zero block.
type addressGenerator struct {
	zero    Block
	input   Block
	address Block
}

func newAddressGenerator(ctx *Context, pos *Position) *addressGenerator {
	a := &addressGenerator{}
	a.input[0] = uint64(pos.Pass)
	a.input[1] = uint64(pos.Lane)
	a.input[2] = uint64(pos.Slice)
	a.input[3] = uint64(ctx.MemoryBlocks)
	a.input[4] = uint64(ctx.TimeCost)
	a.input[5] = uint64(ctx.Variant)
	return a
}

// next regenerates the address block.
func (a *addressGenerator) next() {
	a.input[6]++
	fillBlock(&a.zero, &a.input, &a.address, false)
	fillBlock(&a.zero, &a.address, &a.address, false)
}

// at returns the pseudo-random value for segment index i. Callers refill
// with next whenever i is a multiple of addressesInBlock.
func (a *addressGenerator) at(i uint32) uint64 {
	return a.address[i%addressesInBlock]
}

// dataIndependent reports whether the segment at pos draws its
// pseudo-random values from the address generator.
func dataIndependent(ctx *Context, pos *Position) bool {
	switch ctx.Variant {
	case Argon2i:
		return true
	case Argon2id:
		return pos.Pass == 0 && pos.Slice < SyncPoints/2
	default:
		return false
	}
}
