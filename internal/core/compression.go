package core

// fillBlock is the Argon2 compression function G applied to whole blocks.
// It mixes prevBlock and refBlock into nextBlock.
//
// Algorithm per RFC 9106 section 3.5:
//  1. R = refBlock XOR prevBlock
//  2. tmp = R, and if withXOR also tmp = tmp XOR nextBlock
//  3. Apply P to R (columns, then rows)
//  4. nextBlock = tmp XOR R
//
// withXOR is only set for version 0x13 on passes after the first, where
// the previous content of nextBlock is fed forward.
func fillBlock(prevBlock, refBlock, nextBlock *Block, withXOR bool) {
	var r, tmp Block

	r = *refBlock
	r.XOR(prevBlock)

	tmp = r
	if withXOR {
		tmp.XOR(nextBlock)
	}

	permute(&r)

	r.XOR(&tmp)
	*nextBlock = r
}
