package argon2

import (
	"github.com/opd-ai/go-argon2/internal/core"
)

// Key derives a key with Argon2i v1.3 from the password, salt and cost
// parameters. The signature matches golang.org/x/crypto/argon2.Key.
//
// Key panics if time, threads or keyLen is zero. Use New for error
// returns and the RFC 9106 minimums.
func Key(password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	return deriveKey(Argon2i, password, salt, time, memory, threads, keyLen)
}

// IKey is an alias of Key.
func IKey(password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	return deriveKey(Argon2i, password, salt, time, memory, threads, keyLen)
}

// IDKey derives a key with Argon2id v1.3. The signature matches
// golang.org/x/crypto/argon2.IDKey.
//
// The draft RFC recommends time=1 and memory=64*1024 for interactive use.
func IDKey(password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	return deriveKey(Argon2id, password, salt, time, memory, threads, keyLen)
}

// DKey derives a key with Argon2d v1.3. Argon2d is not suitable for
// password hashing.
func DKey(password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	return deriveKey(Argon2d, password, salt, time, memory, threads, keyLen)
}

func deriveKey(variant Variant, password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	config := Config{
		Variant: variant,
		Version: Version13,
		Time:    time,
		Memory:  memory,
		Lanes:   uint32(threads),
		KeyLen:  keyLen,
	}
	// Like x/crypto, memory below the per-lane minimum is raised by the
	// block layout while H0 still sees the requested value.
	check := config
	if floor := 8 * uint32(threads); memory < floor {
		check.Memory = floor
	}
	// x/crypto also returns 1 to 3 byte keys, below the RFC minimum.
	if keyLen >= 1 && keyLen < MinKeyLength {
		check.KeyLen = MinKeyLength
	}
	if err := check.Validate(); err != nil {
		panic(err)
	}

	ctx := config.context(password, salt)
	memoryArena := allocateBlocks(ctx.MemoryBlocks)
	defer releaseBlocks(memoryArena)

	return core.Derive(ctx, memoryArena)
}
