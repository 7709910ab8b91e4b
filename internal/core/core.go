package core

import "sync"

// FillMemoryBlocks performs TimeCost passes over memory.
//
// For each pass and each of the SyncPoints slices, every lane fills its
// segment. All lanes finish a (pass, slice) before any lane starts the
// next one; that barrier is the only cross-lane synchronization needed,
// since other lanes are only ever referenced in already closed slices.
//
// With Threads <= 1 or a single lane the lanes run sequentially, which
// produces the same output as the parallel schedule.
func FillMemoryBlocks(ctx *Context, memory []Block) {
	ctx.mustValidate(memory)

	if ctx.Threads <= 1 || ctx.Lanes == 1 {
		fillMemorySequential(ctx, memory)
		return
	}
	fillMemoryParallel(ctx, memory)
}

func fillMemorySequential(ctx *Context, memory []Block) {
	for pass := uint32(0); pass < ctx.TimeCost; pass++ {
		for slice := uint32(0); slice < SyncPoints; slice++ {
			for lane := uint32(0); lane < ctx.Lanes; lane++ {
				fillSegment(ctx, memory, Position{Pass: pass, Lane: lane, Slice: slice})
			}
		}
	}
}

// fillMemoryParallel runs one task per lane for every (pass, slice), at
// most Threads of them at a time, and waits for all of them before
// moving on.
func fillMemoryParallel(ctx *Context, memory []Block) {
	sem := make(chan struct{}, ctx.Threads)
	var wg sync.WaitGroup

	for pass := uint32(0); pass < ctx.TimeCost; pass++ {
		for slice := uint32(0); slice < SyncPoints; slice++ {
			for lane := uint32(0); lane < ctx.Lanes; lane++ {
				wg.Add(1)
				sem <- struct{}{}
				go func(pos Position) {
					defer func() {
						<-sem
						wg.Done()
					}()
					fillSegment(ctx, memory, pos)
				}(Position{Pass: pass, Lane: lane, Slice: slice})
			}
			wg.Wait()
		}
	}
}

// fillSegment fills the blocks of one lane within one (pass, slice).
//
// Blocks are produced strictly in index order: each block depends on the
// one written immediately before it in the same lane.
func fillSegment(ctx *Context, memory []Block, pos Position) {
	var addresses *addressGenerator
	independent := dataIndependent(ctx, &pos)
	if independent {
		addresses = newAddressGenerator(ctx, &pos)
	}

	startIndex := uint32(0)
	if pos.Pass == 0 && pos.Slice == 0 {
		// The first two blocks of each lane come from H0.
		startIndex = 2
		if independent {
			addresses.next()
		}
	}

	currOffset := ctx.Offset(pos.Lane, pos.Slice*ctx.SegmentLength+startIndex)
	prevOffset := currOffset - 1
	if currOffset%ctx.LaneLength == 0 {
		// First block of the lane follows the last block of the lane.
		prevOffset = currOffset + ctx.LaneLength - 1
	}

	withXOR := ctx.Version == Version13 && pos.Pass > 0

	for i := startIndex; i < ctx.SegmentLength; i, currOffset, prevOffset = i+1, currOffset+1, prevOffset+1 {
		if currOffset%ctx.LaneLength == 1 {
			prevOffset = currOffset - 1
		}

		var pseudoRand uint64
		if independent {
			if i%addressesInBlock == 0 {
				addresses.next()
			}
			pseudoRand = addresses.at(i)
		} else {
			pseudoRand = memory[prevOffset][0]
		}

		refLane := uint32(pseudoRand>>32) % ctx.Lanes
		if pos.Pass == 0 && pos.Slice == 0 {
			// No other lane has been filled yet.
			refLane = pos.Lane
		}

		pos.Index = i
		refIndex := indexAlpha(ctx, &pos, uint32(pseudoRand), refLane == pos.Lane)
		refOffset := ctx.Offset(refLane, refIndex)

		fillBlock(&memory[prevOffset], &memory[refOffset], &memory[currOffset], withXOR)
	}
}
