package core

import (
	"encoding/binary"
	"strconv"
)

// Block size constants from RFC 9106.
const (
	// BlockSize is the size of an Argon2 memory block in bytes.
	BlockSize = 1024

	// QWordsInBlock is the number of 64-bit words in a block (1024 / 8).
	QWordsInBlock = 128
)

// Block represents a 1024-byte Argon2 memory block as 128 little-endian
// uint64 words. All mixing operates on words, never on bytes.
type Block [QWordsInBlock]uint64

// XOR performs in-place XOR of this block with another block.
func (b *Block) XOR(other *Block) {
	for i := range b {
		b[i] ^= other[i]
	}
}

// Copy copies data from another block into this block.
func (b *Block) Copy(other *Block) {
	copy(b[:], other[:])
}

// Zero clears all data in the block.
//
// Used to scrub released working memory and the final accumulator.
func (b *Block) Zero() {
	for i := range b {
		b[i] = 0
	}
}

// FromBytes loads a block from exactly BlockSize bytes, interpreted as
// 128 little-endian uint64 values.
func (b *Block) FromBytes(data []byte) error {
	if len(data) != BlockSize {
		return &InvalidBlockSizeError{got: len(data), want: BlockSize}
	}

	for i := 0; i < QWordsInBlock; i++ {
		b[i] = binary.LittleEndian.Uint64(data[i*8 : (i+1)*8])
	}

	return nil
}

// ToBytes returns a new BlockSize byte slice containing the block encoded
// as little-endian uint64 values.
func (b *Block) ToBytes() []byte {
	data := make([]byte, BlockSize)
	for i := 0; i < QWordsInBlock; i++ {
		binary.LittleEndian.PutUint64(data[i*8:(i+1)*8], b[i])
	}
	return data
}

// InvalidBlockSizeError is returned when attempting to load a block from
// a byte slice that is not exactly BlockSize bytes.
type InvalidBlockSizeError struct {
	got  int
	want int
}

func (e *InvalidBlockSizeError) Error() string {
	return "invalid block size: got " + strconv.Itoa(e.got) + " bytes, want " + strconv.Itoa(e.want) + " bytes"
}
