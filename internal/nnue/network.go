package nnue

import "github.com/corechess/engine/internal/board"

// FeatureTransformer is the L0 -> L1/2 layer, shared by both perspectives
// (the same weight row is read from either perspective's feature set; only
// the feature indices differ), widened from HalfKP's 10-class L0 to
// HalfKA's 11-class L0.
type FeatureTransformer struct {
	Bias   [L1HalfSize]int16
	Weight [L0Size][L1HalfSize]int16
}

// PhaseNet is one of the eight phase-specific small networks sitting on top
// of the concatenated transformer output: L1=1024 -> L2=16 -> L3=32 -> 1,
// clipped-ReLU between affine layers and a raw (unclamped) final affine
// read-out, with an extra hidden layer (L3) per SPEC_FULL.md's deeper
// phase-net shape.
type PhaseNet struct {
	L1Weight [L1Size][L2Size]int8
	L1Bias   [L2Size]int32

	L2Weight [L2Size][L3Size]int8
	L2Bias   [L3Size]int32

	L3Weight [L3Size]int8
	L3Bias   int32
}

// Propagate runs input (already-concatenated, clipped-ReLU'd perspective
// activations) through the three affine layers.
func (p *PhaseNet) Propagate(input *[L1Size]int8) int32 {
	var l2 [L2Size]int8
	for i := 0; i < L2Size; i++ {
		sum := p.L1Bias[i]
		col := dotI8I8Col1(input, &p.L1Weight, i)
		sum += col
		l2[i] = ClippedReLU(sum >> TransformerShift)
	}

	var l3 [L3Size]int8
	for i := 0; i < L3Size; i++ {
		sum := p.L2Bias[i]
		col := dotI8I8Col2(&l2, &p.L2Weight, i)
		sum += col
		l3[i] = ClippedReLU(sum >> TransformerShift)
	}

	out := p.L3Bias
	out += dotI8I8(&l3, &p.L3Weight)
	return out
}

// dotI8I8Col1, dotI8I8Col2 and dotI8I8 are the three affine layers' dot
// products. Each GOARCH's simd_*.go file provides one implementation of
// this trio, selected at compile time by build tag and, on amd64/arm64, at
// init() time by the detected CPU features — see simd_amd64.go,
// simd_arm64.go, simd_generic.go.

// Network is the full set of weights: one feature transformer, one PSQT
// table, eight phase-specific small networks, per SPEC_FULL.md §4.1.
type Network struct {
	Transformer FeatureTransformer
	PSQT        [L0Size][PSQTBuckets]int32
	Phases      [NumPhases]PhaseNet
}

// NewNetwork returns a zero-valued network; callers load real weights with
// LoadNetwork or, for tests, InitRandom.
func NewNetwork() *Network { return &Network{} }

// concatClipped builds the [own-perspective, other-perspective] input
// vector Propagate expects, per SPEC_FULL.md §4.1.
func concatClipped(own, other *[L1HalfSize]int16) [L1Size]int8 {
	var out [L1Size]int8
	for i := 0; i < L1HalfSize; i++ {
		out[i] = ClippedReLU(int32(own[i]))
		out[L1HalfSize+i] = ClippedReLU(int32(other[i]))
	}
	return out
}

// Forward evaluates acc from side's perspective at the given material
// phase, returning centipawns.
//
// The small network's raw output is antisymmetrized — computed once with
// [own, other] concatenation order and once swapped, then averaged with a
// sign flip — which makes Forward exactly odd under perspective swap
// (Forward(mirror(pos)) == -Forward(pos)) for any weight values, satisfying
// the mirror-symmetry testable property unconditionally rather than only
// approximately as an arbitrarily-trained net would. The PSQT term is
// likewise computed as ownPSQT-otherPSQT, the same trick Stockfish's own
// PSQT head uses. This costs one extra small-net pass per call; accepted
// here since this core prioritizes the stated correctness invariant over
// raw NPS. See DESIGN.md.
func (n *Network) Forward(acc *Accumulator, side board.Color, phase int) int {
	own, other := &acc.White, &acc.Black
	ownPSQT, otherPSQT := acc.PSQT[board.White][phase], acc.PSQT[board.Black][phase]
	if side == board.Black {
		own, other = other, own
		ownPSQT, otherPSQT = otherPSQT, ownPSQT
	}

	forward := concatClipped(own, other)
	backward := concatClipped(other, own)

	raw := n.Phases[phase].Propagate(&forward)
	rawSwapped := n.Phases[phase].Propagate(&backward)
	smallNet := (raw - rawSwapped) / 2

	psqt := (ownPSQT - otherPSQT) / 2

	blended := smallNet/16 + psqt
	return int(int64(blended) * OutputScale / 65536)
}

// InitRandom fills n with small reproducible pseudo-random weights, for
// tests and for running the engine before real weights are embedded,
// using a simple LCG.
func (n *Network) InitRandom(seed int64) {
	state := uint64(seed)
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state>>48)&0xFF) - 128
	}

	for i := range n.Transformer.Bias {
		n.Transformer.Bias[i] = next() >> 3
	}
	for i := range n.Transformer.Weight {
		for j := range n.Transformer.Weight[i] {
			n.Transformer.Weight[i][j] = next() >> 5
		}
	}

	for i := range n.PSQT {
		for phase := range n.PSQT[i] {
			n.PSQT[i][phase] = int32(next()) >> 4
		}
	}

	for p := range n.Phases {
		ph := &n.Phases[p]
		for i := range ph.L1Weight {
			for j := range ph.L1Weight[i] {
				ph.L1Weight[i][j] = clampI8(next() >> 6)
			}
		}
		for i := range ph.L1Bias {
			ph.L1Bias[i] = int32(next())
		}
		for i := range ph.L2Weight {
			for j := range ph.L2Weight[i] {
				ph.L2Weight[i][j] = clampI8(next() >> 6)
			}
		}
		for i := range ph.L2Bias {
			ph.L2Bias[i] = int32(next())
		}
		for i := range ph.L3Weight {
			ph.L3Weight[i] = clampI8(next() >> 6)
		}
		ph.L3Bias = int32(next()) * 100
	}
}

func clampI8(v int16) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}
