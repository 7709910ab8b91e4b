// Package core implements the Argon2 memory-hard function engine of
// RFC 9106: seeding working memory from H0, filling it pass by pass and
// folding the last column into the output tag.
//
// The package consumes an already validated Context and a pre-allocated
// memory arena. It performs no allocation of working memory and never
// returns errors; precondition violations panic at the entry points.
package core

import (
	"encoding/binary"

	"github.com/opd-ai/go-argon2/internal"
)

// h0Size is the length of the H0 seed buffer: the 64-byte digest plus
// room for the little-endian (block, lane) pair.
const h0Size = 64 + 8

// initialHash computes H0, the 64-byte digest of every parameter and input.
//
// H0 = BLAKE2b-512(lanes, tagLength, memory, timeCost, version, type,
//
//	len(password), password, len(salt), salt,
//	len(secret), secret, len(data), data)
//
// All integers are encoded as little-endian uint32. Empty secret and data
// still contribute their zero length prefix.
func initialHash(ctx *Context) [64]byte {
	var params [24]byte
	binary.LittleEndian.PutUint32(params[0:4], ctx.Lanes)
	binary.LittleEndian.PutUint32(params[4:8], ctx.HashLength)
	binary.LittleEndian.PutUint32(params[8:12], ctx.MemoryCost)
	binary.LittleEndian.PutUint32(params[12:16], ctx.TimeCost)
	binary.LittleEndian.PutUint32(params[16:20], ctx.Version)
	binary.LittleEndian.PutUint32(params[20:24], uint32(ctx.Variant))

	h := internal.NewBlake2b(64)
	h.Write(params[:])

	var length [4]byte
	for _, field := range [][]byte{ctx.Password, ctx.Salt, ctx.Secret, ctx.AssociatedData} {
		binary.LittleEndian.PutUint32(length[:], uint32(len(field)))
		h.Write(length[:])
		h.Write(field)
	}

	var h0 [64]byte
	h.Sum(h0[:0])
	return h0
}

// Initialize computes H0 and fills the first two blocks of every lane:
//
//	Block[l][0] = H'(1024, H0 || LE32(0) || LE32(l))
//	Block[l][1] = H'(1024, H0 || LE32(1) || LE32(l))
func Initialize(ctx *Context, memory []Block) {
	ctx.mustValidate(memory)

	h0 := initialHash(ctx)
	initializeMemory(ctx, memory, h0)
}

func initializeMemory(ctx *Context, memory []Block, h0 [64]byte) {
	var seed [h0Size]byte
	copy(seed[:64], h0[:])

	out := make([]byte, BlockSize)
	for lane := uint32(0); lane < ctx.Lanes; lane++ {
		binary.LittleEndian.PutUint32(seed[68:72], lane)
		for i := uint32(0); i < 2; i++ {
			binary.LittleEndian.PutUint32(seed[64:68], i)
			blake2bLong(out, seed[:])
			// Cannot fail: out is exactly BlockSize bytes.
			_ = memory[ctx.Offset(lane, i)].FromBytes(out)
		}
	}

	for i := range seed {
		seed[i] = 0
	}
}

// Finalize XORs the last block of every lane together and returns
// H'(HashLength, acc).
func Finalize(ctx *Context, memory []Block) []byte {
	ctx.mustValidate(memory)

	last := ctx.LaneLength - 1
	var acc Block
	acc.Copy(&memory[ctx.Offset(0, last)])
	for lane := uint32(1); lane < ctx.Lanes; lane++ {
		acc.XOR(&memory[ctx.Offset(lane, last)])
	}

	out := make([]byte, ctx.HashLength)
	blake2bLong(out, acc.ToBytes())
	acc.Zero()
	return out
}

// Derive runs the whole pipeline on memory: Initialize, FillMemoryBlocks
// and Finalize.
func Derive(ctx *Context, memory []Block) []byte {
	Initialize(ctx, memory)
	FillMemoryBlocks(ctx, memory)
	return Finalize(ctx, memory)
}
