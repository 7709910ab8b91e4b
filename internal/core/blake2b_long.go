package core

import (
	"encoding/binary"

	"github.com/opd-ai/go-argon2/internal"
)

// Blake2bLong implements H', the variable-length hash built on BLAKE2b.
//
// Algorithm from RFC 9106 section 3.3:
//   - If outlen <= 64: return BLAKE2b(LE32(outlen) || input, outlen)
//   - Otherwise:
//     1. V1 = BLAKE2b-512(LE32(outlen) || input), emit V1[0:32]
//     2. Vi = BLAKE2b-512(Vi-1), emit Vi[0:32], while more than 64 bytes remain
//     3. emit BLAKE2b(Vr, remaining) in full
//
// Returns nil for outlen 0.
func Blake2bLong(input []byte, outlen uint32) []byte {
	if outlen == 0 {
		return nil
	}
	out := make([]byte, outlen)
	blake2bLong(out, input)
	return out
}

// blake2bLong fills out with H'(len(out), inputs...). The inputs are
// hashed as if concatenated.
func blake2bLong(out []byte, inputs ...[]byte) {
	var outlen [4]byte
	binary.LittleEndian.PutUint32(outlen[:], uint32(len(out)))

	parts := make([][]byte, 0, len(inputs)+1)
	parts = append(parts, outlen[:])
	parts = append(parts, inputs...)

	if len(out) <= 64 {
		copy(out, internal.Blake2bDigest(len(out), parts...))
		return
	}

	v := internal.Blake2bDigest(64, parts...)
	n := copy(out, v[:32])
	for len(out)-n > 64 {
		v = internal.Blake2bDigest(64, v)
		n += copy(out[n:], v[:32])
	}
	copy(out[n:], internal.Blake2bDigest(len(out)-n, v))
}
