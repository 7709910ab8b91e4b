// Package internal provides the BLAKE2b primitive used by the Argon2 engine.
// This package wraps golang.org/x/crypto/blake2b.
package internal

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Blake2bDigest computes a BLAKE2b digest of size bytes over the
// concatenation of inputs. size must be in [1, 64].
func Blake2bDigest(size int, inputs ...[]byte) []byte {
	h := NewBlake2b(size)
	for _, in := range inputs {
		h.Write(in)
	}
	return h.Sum(nil)
}

// NewBlake2b returns an unkeyed BLAKE2b hasher producing size bytes.
// It panics if size is outside [1, 64]; callers only request sizes derived
// from validated parameters.
func NewBlake2b(size int) hash.Hash {
	h, err := blake2b.New(size, nil)
	if err != nil {
		panic("internal: blake2b.New: " + err.Error())
	}
	return h
}
