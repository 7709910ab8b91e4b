package core

// Position tracks the block currently being produced.
type Position struct {
	Pass  uint32 // Current pass number (0 to TimeCost-1)
	Lane  uint32 // Current lane number (0 to Lanes-1)
	Slice uint32 // Current slice number (0 to SyncPoints-1)
	Index uint32 // Current index within the segment
}

// indexAlpha maps a 32-bit pseudo-random value to the index, within the
// reference lane, of the block the current position depends on.
//
// The reference area covers every block that is already final from the
// point of view of the current position. For the current lane this
// includes the blocks of the current segment up to index-1; for other
// lanes it stops at the last synchronization point, and the very last
// block before it is excluded when index is 0.
//
// The mapping x -> size-1 - size*(x*x >> 32) >> 32 is deliberately skewed
// towards recently written blocks. The truncation order is part of the
// algorithm and must be kept exactly.
func indexAlpha(ctx *Context, pos *Position, pseudoRand uint32, sameLane bool) uint32 {
	var referenceAreaSize uint32

	if pos.Pass == 0 {
		switch {
		case pos.Slice == 0:
			referenceAreaSize = pos.Index - 1
		case sameLane:
			referenceAreaSize = pos.Slice*ctx.SegmentLength + pos.Index - 1
		case pos.Index == 0:
			referenceAreaSize = pos.Slice*ctx.SegmentLength - 1
		default:
			referenceAreaSize = pos.Slice * ctx.SegmentLength
		}
	} else {
		switch {
		case sameLane:
			referenceAreaSize = ctx.LaneLength - ctx.SegmentLength + pos.Index - 1
		case pos.Index == 0:
			referenceAreaSize = ctx.LaneLength - ctx.SegmentLength - 1
		default:
			referenceAreaSize = ctx.LaneLength - ctx.SegmentLength
		}
	}

	relativePosition := uint64(pseudoRand)
	relativePosition = relativePosition * relativePosition >> 32
	relativePosition = uint64(referenceAreaSize) - 1 -
		(uint64(referenceAreaSize) * relativePosition >> 32)

	var startPosition uint32
	if pos.Pass != 0 && pos.Slice != SyncPoints-1 {
		startPosition = (pos.Slice + 1) * ctx.SegmentLength
	}

	return uint32((uint64(startPosition) + relativePosition) % uint64(ctx.LaneLength))
}
