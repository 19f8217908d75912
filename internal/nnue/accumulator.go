package nnue

import "github.com/corechess/engine/internal/board"

// Accumulator holds the incrementally-maintained feature-transformer output
// for both perspectives, plus the parallel PSQT accumulation used by the
// PSQT head (§4.1), with a per-perspective Computed flag since a king move
// on one side only dirties that side.
type Accumulator struct {
	White [L1HalfSize]int16
	Black [L1HalfSize]int16

	// PSQT[c][phase] is the PSQT contribution accumulated from color c's
	// perspective for phase bucket phase.
	PSQT [2][PSQTBuckets]int32

	Computed [2]bool
}

// AccumulatorStack is a per-ply ring of Accumulators, sized to the
// search's maximum ply.
type AccumulatorStack struct {
	stack []Accumulator
	top   int
}

// NewAccumulatorStack allocates a stack deep enough for maxPly plies plus
// the root.
func NewAccumulatorStack(maxPly int) *AccumulatorStack {
	return &AccumulatorStack{stack: make([]Accumulator, maxPly+1)}
}

// Push copies the current accumulator forward one slot, ready for
// incremental update in place; a no-op (truncated) push past the stack's
// depth simply reuses the last slot.
func (s *AccumulatorStack) Push() {
	if s.top+1 < len(s.stack) {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop discards the current accumulator and returns to the previous ply.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the accumulator for the current ply.
func (s *AccumulatorStack) Current() *Accumulator { return &s.stack[s.top] }

// Reset rewinds the stack to the root and marks it stale.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = [2]bool{}
}

// refreshSide recomputes acc's perspective c from scratch against pos.
func (acc *Accumulator) refreshSide(pos *board.Position, net *Network, c board.Color) {
	var own *[L1HalfSize]int16
	if c == board.White {
		own = &acc.White
	} else {
		own = &acc.Black
	}

	copy(own[:], net.Transformer.Bias[:])
	for i := range acc.PSQT[c] {
		acc.PSQT[c][i] = 0
	}

	whiteFeatures, blackFeatures := ActiveFeatures(pos)
	features := whiteFeatures
	if c == board.Black {
		features = blackFeatures
	}

	for _, idx := range features {
		w := &net.Transformer.Weight[idx]
		for i := range own {
			own[i] += w[i]
		}
		psqtRow := &net.PSQT[idx]
		for phase := range acc.PSQT[c] {
			acc.PSQT[c][phase] += psqtRow[phase]
		}
	}

	acc.Computed[c] = true
}

// ComputeFull recomputes both perspectives from scratch.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	acc.refreshSide(pos, net, board.White)
	acc.refreshSide(pos, net, board.Black)
}

func (acc *Accumulator) applyDelta(net *Network, c board.Color, d FeatureDelta) {
	var own *[L1HalfSize]int16
	if c == board.White {
		own = &acc.White
	} else {
		own = &acc.Black
	}

	for _, idx := range d.Rem {
		w := &net.Transformer.Weight[idx]
		for i := range own {
			own[i] -= w[i]
		}
		psqtRow := &net.PSQT[idx]
		for phase := range acc.PSQT[c] {
			acc.PSQT[c][phase] -= psqtRow[phase]
		}
	}
	for _, idx := range d.Add {
		w := &net.Transformer.Weight[idx]
		for i := range own {
			own[i] += w[i]
		}
		psqtRow := &net.PSQT[idx]
		for phase := range acc.PSQT[c] {
			acc.PSQT[c][phase] += psqtRow[phase]
		}
	}
}

// UpdateIncremental applies a move already made on pos to acc in O(changed
// features) rather than O(all pieces), falling back to ComputeFull whenever
// either king moved (the accumulator's own-king square is baked into every
// feature index, so a king move dirties every feature for that perspective).
func (acc *Accumulator) UpdateIncremental(pos *board.Position, m board.Move, captured board.Piece, net *Network) {
	if !acc.Computed[board.White] || !acc.Computed[board.Black] {
		acc.ComputeFull(pos, net)
		return
	}

	white, black, ok := ChangedFeatures(pos, m, captured)
	if !ok {
		acc.ComputeFull(pos, net)
		return
	}

	acc.applyDelta(net, board.White, white)
	acc.applyDelta(net, board.Black, black)
}
