package core

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func newContext(variant Variant, version, timeCost, memoryCost, lanes, threads, hashLength uint32,
	password, salt, secret, data []byte) *Context {
	ctx := layoutContext(memoryCost, lanes, timeCost)
	ctx.Variant = variant
	ctx.Version = version
	ctx.Threads = threads
	ctx.HashLength = hashLength
	ctx.Password = password
	ctx.Salt = salt
	ctx.Secret = secret
	ctx.AssociatedData = data
	return ctx
}

func derive(ctx *Context) []byte {
	memory := make([]Block, ctx.MemoryBlocks)
	return Derive(ctx, memory)
}

// rfcContext returns the parameter set used by the RFC 9106 section 5 test vectors.
func rfcContext(variant Variant, threads uint32) *Context {
	return newContext(variant, Version13, 3, 32, 4, threads, 32,
		repeat(0x01, 32), repeat(0x02, 16), repeat(0x03, 8), repeat(0x04, 12))
}

// TestDerive_RFC9106Vectors verifies the published test vectors for all variants.
func TestDerive_RFC9106Vectors(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		tag     string
	}{
		{"argon2d", Argon2d, "512b391b6f1162975371d30919734294f868e3be3984f3c1a13a4db9fabe4acb"},
		{"argon2i", Argon2i, "c814d9d1dc7f37aa13f0d77f2494bda1c8de6b016dd388d29952a4c4672b6ce8"},
		{"argon2id", Argon2id, "0d640df58d78766c08c037a34a8b53c9d01ef0452d75b65eb52520e96b01e659"},
	}

	for _, tt := range tests {
		for _, threads := range []uint32{1, 4} {
			got := hex.EncodeToString(derive(rfcContext(tt.variant, threads)))
			if got != tt.tag {
				t.Errorf("%s (threads=%d):\n  got  %s\n  want %s", tt.name, threads, got, tt.tag)
			}
		}
	}
}

// TestDerive_ReferenceVectors verifies the phc-winner-argon2 test suite
// vectors at 64 MiB, including version 0x10.
func TestDerive_ReferenceVectors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 64 MiB vectors in short mode")
	}

	tests := []struct {
		name    string
		variant Variant
		version uint32
		tag     string
	}{
		{"argon2i_v10", Argon2i, Version10, "f6c4db4a54e2a370627aff3db6176b94a2a209a62c8e36152711802f7b30c694"},
		{"argon2i_v13", Argon2i, Version13, "c1628832147d9720c5bd1cfd61367078729f6dfb6f8fea9ff98158e0d7816ed0"},
		{"argon2id_v13", Argon2id, Version13, "09316115d5cf24ed5a15a31a3ba326e5cf32edc24702987c02b6566f61913cf7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(tt.variant, tt.version, 2, 1<<16, 1, 1, 32,
				[]byte("password"), []byte("somesalt"), nil, nil)
			got := hex.EncodeToString(derive(ctx))
			if got != tt.tag {
				t.Errorf("got %s, want %s", got, tt.tag)
			}
		})
	}
}

// TestDerive_Deterministic verifies repeated runs produce identical output.
func TestDerive_Deterministic(t *testing.T) {
	for _, variant := range []Variant{Argon2d, Argon2i, Argon2id} {
		ctx := newContext(variant, Version13, 2, 64, 2, 1, 32,
			[]byte("password"), []byte("somesalt"), nil, nil)
		a := derive(ctx)
		b := derive(ctx)
		if !bytes.Equal(a, b) {
			t.Errorf("variant %d: repeated derivation differs", variant)
		}
	}
}

// TestFillMemoryBlocks_ParallelParity verifies the threaded schedule matches
// the sequential one block for block.
func TestFillMemoryBlocks_ParallelParity(t *testing.T) {
	for _, variant := range []Variant{Argon2d, Argon2i, Argon2id} {
		seq := newContext(variant, Version13, 3, 256, 4, 1, 32,
			[]byte("password"), []byte("somesalt"), []byte("key"), []byte("ad"))
		par := *seq
		par.Threads = 4

		memSeq := make([]Block, seq.MemoryBlocks)
		memPar := make([]Block, par.MemoryBlocks)

		Initialize(seq, memSeq)
		Initialize(&par, memPar)
		FillMemoryBlocks(seq, memSeq)
		FillMemoryBlocks(&par, memPar)

		for i := range memSeq {
			if memSeq[i] != memPar[i] {
				t.Fatalf("variant %d: block %d differs between sequential and parallel fill", variant, i)
			}
		}

		if !bytes.Equal(Finalize(seq, memSeq), Finalize(&par, memPar)) {
			t.Errorf("variant %d: tags differ", variant)
		}
	}
}

// TestDerive_ThreadsFewerThanLanes verifies a bounded worker count gives the same tag.
func TestDerive_ThreadsFewerThanLanes(t *testing.T) {
	base := newContext(Argon2id, Version13, 2, 128, 8, 1, 32,
		[]byte("password"), []byte("somesalt"), nil, nil)
	want := derive(base)

	for _, threads := range []uint32{2, 3, 8, 16} {
		ctx := *base
		ctx.Threads = threads
		if got := derive(&ctx); !bytes.Equal(got, want) {
			t.Errorf("threads=%d: tag differs from sequential", threads)
		}
	}
}

// TestDerive_VersionFeedForward verifies the versions only diverge in
// passes after the first: with the H0 version field held equal, a single
// pass is identical.
func TestDerive_VersionFeedForward(t *testing.T) {
	for _, passes := range []uint32{1, 2} {
		ctx10 := newContext(Argon2d, Version10, passes, 32, 1, 1, 32, []byte("pw"), []byte("saltsalt"), nil, nil)
		ctx13 := *ctx10
		ctx13.Version = Version13

		mem10 := make([]Block, ctx10.MemoryBlocks)
		mem13 := make([]Block, ctx13.MemoryBlocks)

		// Same seed for both so that only the fill differs
		h0 := initialHash(ctx10)
		initializeMemory(ctx10, mem10, h0)
		initializeMemory(&ctx13, mem13, h0)
		FillMemoryBlocks(ctx10, mem10)
		FillMemoryBlocks(&ctx13, mem13)

		same := true
		for i := range mem10 {
			if mem10[i] != mem13[i] {
				same = false
				break
			}
		}
		if passes == 1 && !same {
			t.Error("single pass differs between versions")
		}
		if passes == 2 && same {
			t.Error("second pass identical between versions; feed-forward not applied")
		}
	}
}

// TestDerive_Sensitivity verifies flipping a bit of any input changes the tag.
func TestDerive_Sensitivity(t *testing.T) {
	build := func() *Context {
		return newContext(Argon2id, Version13, 1, 32, 2, 1, 32,
			[]byte("password"), []byte("somesalt"), []byte("secret"), []byte("data"))
	}
	base := derive(build())

	mutations := map[string]func(*Context){
		"password": func(c *Context) { c.Password[3] ^= 0x01 },
		"salt":     func(c *Context) { c.Salt[0] ^= 0x80 },
		"secret":   func(c *Context) { c.Secret[5] ^= 0x04 },
		"data":     func(c *Context) { c.AssociatedData[1] ^= 0x10 },
	}

	for name, mutate := range mutations {
		ctx := build()
		mutate(ctx)
		if bytes.Equal(derive(ctx), base) {
			t.Errorf("flipping a bit of %s did not change the tag", name)
		}
	}
}

// TestDerive_PreconditionPanics verifies contract violations fail fast.
func TestDerive_PreconditionPanics(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Context)
		blocks int
	}{
		{"zero_hash_length", func(c *Context) { c.HashLength = 0 }, 32},
		{"short_memory", func(c *Context) {}, 31},
		{"long_memory", func(c *Context) {}, 33},
		{"bad_version", func(c *Context) { c.Version = 0x12 }, 32},
		{"bad_variant", func(c *Context) { c.Variant = 7 }, 32},
		{"zero_time", func(c *Context) { c.TimeCost = 0 }, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(Argon2id, Version13, 1, 32, 1, 1, 32, []byte("p"), []byte("saltsalt"), nil, nil)
			tt.mutate(ctx)

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			deriveWithBlocks(ctx, tt.blocks)
		})
	}
}

func deriveWithBlocks(ctx *Context, blocks int) []byte {
	return Derive(ctx, make([]Block, blocks))
}

// BenchmarkDerive_1MiB measures a full derivation over 1 MiB.
func BenchmarkDerive_1MiB(b *testing.B) {
	ctx := newContext(Argon2id, Version13, 1, 1024, 1, 1, 32, []byte("password"), []byte("somesalt"), nil, nil)
	memory := make([]Block, ctx.MemoryBlocks)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Derive(ctx, memory)
	}
}

// TestDerive_SmallVectors covers version 0x10 and odd lane counts at sizes
// that run in short mode.
func TestDerive_SmallVectors(t *testing.T) {
	tests := []struct {
		name                         string
		variant                      Variant
		version, time, memory, lanes uint32
		hashLength                   uint32
		tag                          string
	}{
		{"argon2id_m8", Argon2id, Version13, 2, 8, 1, 32, "fdb4ddb6d5887131b66f0b2a3740c077dd05b755845861f6b5a1dde8b1071646"},
		{"argon2d_v10_lanes2", Argon2d, Version10, 2, 16, 2, 32, "6b32e880c93311b0580aa6f196c9eee6354e095ba6cff229e0f6b4065d7cb202"},
		{"argon2i_v10_t3", Argon2i, Version10, 3, 32, 1, 32, "4ffb9bffd3031c9e029b670065aae7ccb6cec4b7d054627ad55b18ddb758d4f1"},
		{"argon2id_m41_rounded", Argon2id, Version13, 2, 41, 2, 32, "cd308648fae1a804f1277ccd866f4ee8b7cdffc8954d7eb08fd4d3b482945247"},
		{"argon2i_m5_raised", Argon2i, Version13, 1, 5, 1, 16, "8957c75937013ed1c3b5e3b90ba30290"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(tt.variant, tt.version, tt.time, tt.memory, tt.lanes, tt.lanes, tt.hashLength,
				[]byte("password"), []byte("somesalt"), nil, nil)
			if got := hex.EncodeToString(derive(ctx)); got != tt.tag {
				t.Errorf("got %s, want %s", got, tt.tag)
			}
		})
	}
}
