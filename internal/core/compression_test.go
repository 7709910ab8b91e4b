package core

import (
	"testing"
)

func patternBlock(seed uint64) Block {
	var b Block
	for i := range b {
		b[i] = seed*0x9E3779B97F4A7C15 + uint64(i)*0xBF58476D1CE4E5B9
	}
	return b
}

// TestFillBlock_Definition verifies fillBlock against its definition:
// next = (ref ^ prev) ^ P(ref ^ prev).
func TestFillBlock_Definition(t *testing.T) {
	prev := patternBlock(1)
	ref := patternBlock(2)
	var next Block

	fillBlock(&prev, &ref, &next, false)

	r := ref
	r.XOR(&prev)
	want := r
	permute(&want)
	want.XOR(&r)

	if next != want {
		t.Error("fillBlock result does not match (ref^prev) ^ P(ref^prev)")
	}
}

// TestFillBlock_WithXOR verifies the feed-forward mode XORs in the prior content.
func TestFillBlock_WithXOR(t *testing.T) {
	prev := patternBlock(3)
	ref := patternBlock(4)
	old := patternBlock(5)

	var plain Block
	fillBlock(&prev, &ref, &plain, false)

	withXOR := old
	fillBlock(&prev, &ref, &withXOR, true)

	expected := plain
	expected.XOR(&old)
	if withXOR != expected {
		t.Error("fillBlock(withXOR) != fillBlock(plain) XOR previous content")
	}
}

// TestFillBlock_OverwritesWithoutXOR verifies the destination's prior content is ignored.
func TestFillBlock_OverwritesWithoutXOR(t *testing.T) {
	prev := patternBlock(6)
	ref := patternBlock(7)

	var a Block
	b := patternBlock(8)
	fillBlock(&prev, &ref, &a, false)
	fillBlock(&prev, &ref, &b, false)

	if a != b {
		t.Error("fillBlock without XOR depends on destination content")
	}
}

// TestFillBlock_Aliasing verifies the destination may alias the reference,
// as the address generator requires.
func TestFillBlock_Aliasing(t *testing.T) {
	var zero Block
	in := patternBlock(9)

	var separate Block
	fillBlock(&zero, &in, &separate, false)

	aliased := in
	fillBlock(&zero, &aliased, &aliased, false)

	if separate != aliased {
		t.Error("fillBlock result changes when destination aliases reference")
	}
}

// TestFillBlock_AvalancheEffect verifies a one-bit change affects most of the output.
func TestFillBlock_AvalancheEffect(t *testing.T) {
	prev := patternBlock(10)
	ref := patternBlock(11)
	ref2 := ref
	ref2[0] ^= 1

	var out1, out2 Block
	fillBlock(&prev, &ref, &out1, false)
	fillBlock(&prev, &ref2, &out2, false)

	differ := 0
	for i := range out1 {
		if out1[i] != out2[i] {
			differ++
		}
	}
	if differ < QWordsInBlock/2 {
		t.Errorf("only %d of %d words changed after a one-bit input change", differ, QWordsInBlock)
	}
}

// BenchmarkFillBlock measures block compression performance
func BenchmarkFillBlock(b *testing.B) {
	prev := patternBlock(1)
	ref := patternBlock(2)
	var next Block

	b.SetBytes(BlockSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fillBlock(&prev, &ref, &next, true)
	}
}
