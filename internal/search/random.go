package search

import (
	"math/rand/v2"

	"github.com/corechess/engine/internal/board"
)

// Random is a uniform-random evaluator, deterministic scaffolding for
// exercising search plumbing without any positional signal at all. Grounded
// in original_source's lib/eval/random.rs; never reachable from chesscore's
// shipping NewEngine path.
type Random struct {
	pos     *board.Position
	history []*board.Position // positions saved by Push, restored by Pop
	rng     *rand.Rand
}

func NewRandom(pos *board.Position, seed uint64) *Random {
	return &Random{
		pos: pos,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (r *Random) Push(m board.Move) {
	next := r.pos.Copy()
	_ = next.MakeMove(m)
	r.history = append(r.history, r.pos)
	r.pos = next
}

// Pop restores the position from before the most recent Push; with nothing
// pushed it does nothing.
func (r *Random) Pop() {
	if n := len(r.history); n > 0 {
		r.pos = r.history[n-1]
		r.history = r.history[:n-1]
	}
}

func (r *Random) Value() Score {
	return Score(r.rng.IntN(401) - 200)
}

func (r *Random) SEE(m board.Move) int16 {
	if !m.IsCapture(r.pos) {
		return 0
	}
	return int16(r.rng.IntN(401) - 200)
}
