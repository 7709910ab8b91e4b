// Package argon2 provides a pure-Go implementation of the Argon2
// memory-hard password hashing and key derivation function (RFC 9106).
//
// All three variants are supported: Argon2d (data-dependent addressing),
// Argon2i (data-independent addressing) and the recommended hybrid
// Argon2id. Both the v1.0 (0x10) and v1.3 (0x13) versions are available.
//
// Example usage:
//
//	hasher, err := argon2.New(argon2.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer hasher.Close()
//
//	key, err := hasher.Hash([]byte("password"), salt)
package argon2

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opd-ai/go-argon2/internal/core"
)

// Variant selects the Argon2 addressing mode.
type Variant uint32

const (
	// Argon2d uses data-dependent memory access. It is the fastest and most
	// resistant to GPU cracking, but leaks access patterns through side
	// channels. Suitable for proof-of-work, not for passwords.
	Argon2d Variant = Variant(core.Argon2d)

	// Argon2i uses data-independent memory access.
	Argon2i Variant = Variant(core.Argon2i)

	// Argon2id runs data-independent addressing for the first half of the
	// first pass and data-dependent addressing afterwards. It is the
	// variant RFC 9106 recommends.
	Argon2id Variant = Variant(core.Argon2id)
)

// String returns the variant name as used in encoded hashes.
func (v Variant) String() string {
	switch v {
	case Argon2d:
		return "argon2d"
	case Argon2i:
		return "argon2i"
	case Argon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("Variant(%d)", uint32(v))
	}
}

// ParseVariant returns the variant named s ("argon2d", "argon2i" or "argon2id").
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "argon2d":
		return Argon2d, nil
	case "argon2i":
		return Argon2i, nil
	case "argon2id":
		return Argon2id, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
}

// Version is the Argon2 algorithm version.
type Version uint32

const (
	// Version10 is Argon2 v1.0. Later passes overwrite blocks instead of
	// XORing into them.
	Version10 Version = core.Version10

	// Version13 is Argon2 v1.3, the version standardized by RFC 9106.
	Version13 Version = core.Version13
)

const (
	// MinSaltLength is the shortest salt Hasher accepts.
	MinSaltLength = 8

	// MinKeyLength is the shortest output RFC 9106 allows.
	MinKeyLength = 4

	// MaxLanes is the largest degree of parallelism RFC 9106 allows.
	MaxLanes = 1<<24 - 1
)

// Errors returned by validation, hashing and verification.
var (
	ErrInvalidTime               = errors.New("argon2: time cost must be at least 1")
	ErrInvalidMemory             = errors.New("argon2: memory must be at least 8 KiB per lane")
	ErrInvalidLanes              = errors.New("argon2: lanes must be between 1 and 2^24-1")
	ErrInvalidThreads            = errors.New("argon2: threads must not be negative")
	ErrInvalidKeyLen             = errors.New("argon2: key length must be at least 4 bytes")
	ErrInvalidVersion            = errors.New("argon2: unsupported version")
	ErrInvalidVariant            = errors.New("argon2: unsupported variant")
	ErrSaltTooShort              = errors.New("argon2: salt too short")
	ErrHasherClosed              = errors.New("argon2: hasher is closed")
	ErrInvalidHash               = errors.New("argon2: invalid encoded hash")
	ErrIncompatibleVersion       = errors.New("argon2: incompatible version in encoded hash")
	ErrMemoryLimit               = errors.New("argon2: encoded hash exceeds memory limit")
	ErrMismatchedHashAndPassword = errors.New("argon2: hashed value does not match password")
)

// Config specifies the parameters of an Argon2 derivation.
type Config struct {
	// Variant selects Argon2d, Argon2i or Argon2id.
	Variant Variant

	// Version is Version13 unless compatibility with v1.0 hashes is needed.
	Version Version

	// Time is the number of passes over memory.
	Time uint32

	// Memory is the memory size in KiB. It is rounded down to a multiple of
	// 4*Lanes blocks.
	Memory uint32

	// Lanes is the degree of parallelism. It changes the output.
	Lanes uint32

	// Threads is the number of goroutines filling lanes concurrently.
	// It never changes the output. Zero selects min(Lanes, GOMAXPROCS).
	Threads int

	// KeyLen is the output length in bytes.
	KeyLen uint32

	// Secret is an optional key mixed into H0.
	Secret []byte

	// AssociatedData is optional data mixed into H0.
	AssociatedData []byte

	// Logger receives debug logs. Nil disables logging unless
	// ARGON2_DEBUG=1 is set.
	Logger *zap.Logger
}

// DefaultConfig returns the second recommended option of RFC 9106
// section 4: Argon2id, t=3, 64 MiB, p=4, 32-byte output.
func DefaultConfig() Config {
	return Config{
		Variant: Argon2id,
		Version: Version13,
		Time:    3,
		Memory:  64 * 1024,
		Lanes:   4,
		KeyLen:  32,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch {
	case c.Variant != Argon2d && c.Variant != Argon2i && c.Variant != Argon2id:
		return fmt.Errorf("%w: %v", ErrInvalidVariant, c.Variant)
	case c.Version != Version10 && c.Version != Version13:
		return fmt.Errorf("%w: 0x%x", ErrInvalidVersion, uint32(c.Version))
	case c.Time < 1:
		return ErrInvalidTime
	case c.Lanes < 1 || c.Lanes > MaxLanes:
		return fmt.Errorf("%w: got %d", ErrInvalidLanes, c.Lanes)
	case uint64(c.Memory) < 8*uint64(c.Lanes):
		return fmt.Errorf("%w: got %d KiB for %d lanes", ErrInvalidMemory, c.Memory, c.Lanes)
	case c.Threads < 0:
		return ErrInvalidThreads
	case c.KeyLen < MinKeyLength:
		return fmt.Errorf("%w: got %d", ErrInvalidKeyLen, c.KeyLen)
	}
	return nil
}

// threads returns the effective worker count.
func (c *Config) threads() uint32 {
	threads := c.Threads
	if threads == 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if uint32(threads) > c.Lanes {
		return c.Lanes
	}
	return uint32(threads)
}

// context builds the engine context for one derivation. The config must
// have been validated.
func (c *Config) context(password, salt []byte) *core.Context {
	memoryBlocks, laneLength, segmentLength := core.Layout(c.Memory, c.Lanes)
	return &core.Context{
		Lanes:          c.Lanes,
		Threads:        c.threads(),
		TimeCost:       c.Time,
		MemoryCost:     c.Memory,
		MemoryBlocks:   memoryBlocks,
		LaneLength:     laneLength,
		SegmentLength:  segmentLength,
		Version:        uint32(c.Version),
		Variant:        core.Variant(c.Variant),
		HashLength:     c.KeyLen,
		Password:       password,
		Salt:           salt,
		Secret:         c.Secret,
		AssociatedData: c.AssociatedData,
	}
}

// Hasher computes Argon2 hashes for a fixed configuration. It is safe for
// concurrent use; each call borrows its own working memory from a pool.
type Hasher struct {
	config Config
	log    *zap.Logger
	pool   *memoryPool
	closed bool
	mu     sync.RWMutex // Protects closed flag
}

// New creates a new Hasher with the specified configuration.
// The returned hasher should be closed with Close() to drop pooled memory.
func New(config Config) (*Hasher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Secret = append([]byte(nil), config.Secret...)
	config.AssociatedData = append([]byte(nil), config.AssociatedData...)

	log := config.Logger
	if log == nil {
		log = traceLogger
	}

	memoryBlocks, _, _ := core.Layout(config.Memory, config.Lanes)
	h := &Hasher{
		config: config,
		log:    log.Named("argon2"),
		pool:   newMemoryPool(memoryBlocks),
	}

	h.log.Debug("hasher created",
		zap.Stringer("variant", config.Variant),
		zap.Uint32("version", uint32(config.Version)),
		zap.Uint32("time", config.Time),
		zap.Uint32("memoryKiB", config.Memory),
		zap.Uint32("memoryBlocks", memoryBlocks),
		zap.Uint32("lanes", config.Lanes),
		zap.Uint32("threads", config.threads()),
		zap.Uint32("keyLen", config.KeyLen))

	return h, nil
}

// Config returns a copy of the hasher's configuration.
func (h *Hasher) Config() Config {
	c := h.config
	c.Secret = append([]byte(nil), c.Secret...)
	c.AssociatedData = append([]byte(nil), c.AssociatedData...)
	return c
}

// Hash derives a KeyLen-byte key from password and salt.
// This method is safe for concurrent use by multiple goroutines.
func (h *Hasher) Hash(password, salt []byte) ([]byte, error) {
	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d", ErrSaltTooShort, len(salt), MinSaltLength)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, ErrHasherClosed
	}

	start := time.Now()
	ctx := h.config.context(password, salt)

	memory := h.pool.get()
	defer h.pool.put(memory)

	key := core.Derive(ctx, memory)

	h.log.Debug("derived key",
		zap.Stringer("variant", h.config.Variant),
		zap.Int("saltLen", len(salt)),
		zap.Duration("elapsed", time.Since(start)))
	traceBytes(h.log, "salt", salt)
	traceBytes(h.log, "tag", key)

	return key, nil
}

// Close releases pooled working memory. After Close, Hash returns
// ErrHasherClosed.
func (h *Hasher) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.closed = true
	h.pool.drain()
	h.log.Debug("hasher closed")
	return nil
}
