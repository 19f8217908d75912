package search

import "github.com/corechess/engine/internal/board"

// Evaluator is the search's view of a position evaluator: an incremental
// stack of positions reachable from Push/Pop, a static value, and a static
// exchange evaluator for move ordering and pruning. nnue.Evaluator is the
// shipping implementation; materialist and random evaluators exist only as
// deterministic test/benchmark scaffolding (see materialist.go, random.go).
type Evaluator interface {
	Push(m board.Move)
	Pop()
	Value() Score
	SEE(m board.Move) int16
}
