package argon2

import (
	"sync"

	"github.com/opd-ai/go-argon2/internal/core"
)

// memoryPool recycles the working memory of one Hasher. Every arena has
// the same number of blocks, so a single sync.Pool serves all callers.
type memoryPool struct {
	blocks uint32
	pool   sync.Pool
}

func newMemoryPool(blocks uint32) *memoryPool {
	p := &memoryPool{blocks: blocks}
	p.pool.New = func() interface{} {
		return allocateBlocks(blocks)
	}
	return p
}

// get retrieves an arena from the pool.
func (p *memoryPool) get() []core.Block {
	return p.pool.Get().([]core.Block)
}

// put clears an arena and returns it to the pool.
func (p *memoryPool) put(memory []core.Block) {
	if memory == nil || uint32(len(memory)) != p.blocks {
		return
	}
	releaseBlocks(memory)
	p.pool.Put(memory)
}

// drain drops every pooled arena so the garbage collector can reclaim it.
func (p *memoryPool) drain() {
	p.pool = sync.Pool{}
}

// allocateBlocks allocates an arena for a one-shot derivation.
func allocateBlocks(blocks uint32) []core.Block {
	return make([]core.Block, blocks)
}

// releaseBlocks clears password-derived data from an arena.
func releaseBlocks(memory []core.Block) {
	for i := range memory {
		memory[i].Zero()
	}
}
