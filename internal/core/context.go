package core

import "strconv"

const (
	// SyncPoints is the number of slices each lane is divided into.
	// Lanes synchronize at slice boundaries.
	SyncPoints = 4

	// Version10 is Argon2 v1.0 (no feed-forward on later passes).
	Version10 = 0x10

	// Version13 is Argon2 v1.3, the RFC 9106 version.
	Version13 = 0x13
)

// Variant selects the addressing mode. The numeric values are hashed into
// H0 and the address generator input, so they must match RFC 9106.
type Variant uint32

const (
	Argon2d  Variant = 0
	Argon2i  Variant = 1
	Argon2id Variant = 2
)

// Context is the validated, immutable parameter set driving one
// derivation. Building and validating it is the caller's responsibility;
// see Layout for the derived fields.
type Context struct {
	Lanes    uint32
	Threads  uint32
	TimeCost uint32

	// MemoryCost is the requested memory in KiB as hashed into H0.
	// MemoryBlocks is the rounded block count actually used.
	MemoryCost    uint32
	MemoryBlocks  uint32
	LaneLength    uint32
	SegmentLength uint32

	Version    uint32
	Variant    Variant
	HashLength uint32

	Password       []byte
	Salt           []byte
	Secret         []byte
	AssociatedData []byte
}

// Layout computes the derived memory geometry for the given memory cost
// (KiB) and lane count. Memory below 2*SyncPoints blocks per lane is raised
// to that minimum, and the result is rounded down to a multiple of
// lanes*SyncPoints.
func Layout(memoryCost, lanes uint32) (memoryBlocks, laneLength, segmentLength uint32) {
	memoryBlocks = memoryCost
	if memoryBlocks < 2*SyncPoints*lanes {
		memoryBlocks = 2 * SyncPoints * lanes
	}
	segmentLength = memoryBlocks / (lanes * SyncPoints)
	laneLength = segmentLength * SyncPoints
	memoryBlocks = laneLength * lanes
	return memoryBlocks, laneLength, segmentLength
}

// Offset returns the linear index of block index within lane.
func (c *Context) Offset(lane, index uint32) uint32 {
	return lane*c.LaneLength + index
}

// mustValidate panics if the context or memory violates the
// preconditions of the engine. It runs once at the API boundary so that
// the fill loops can rely on correct bounds.
func (c *Context) mustValidate(memory []Block) {
	switch {
	case c.HashLength == 0:
		panic("argon2: hash length must be at least 1")
	case c.Lanes == 0:
		panic("argon2: lane count must be at least 1")
	case c.TimeCost == 0:
		panic("argon2: time cost must be at least 1")
	case c.SegmentLength < 2 || c.LaneLength != c.SegmentLength*SyncPoints:
		panic("argon2: inconsistent lane layout")
	case c.MemoryBlocks != c.LaneLength*c.Lanes:
		panic("argon2: memory blocks must equal lanes * lane length")
	case uint32(len(memory)) != c.MemoryBlocks:
		panic("argon2: memory holds " + strconv.Itoa(len(memory)) +
			" blocks, want " + strconv.FormatUint(uint64(c.MemoryBlocks), 10))
	case c.Version != Version10 && c.Version != Version13:
		panic("argon2: unsupported version 0x" + strconv.FormatUint(uint64(c.Version), 16))
	case c.Variant > Argon2id:
		panic("argon2: unsupported variant " + strconv.FormatUint(uint64(c.Variant), 10))
	}
}
