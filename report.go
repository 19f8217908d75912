package chesscore

import (
	"time"

	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/search"
)

// Report is one iteration's worth of search output: the depth just
// completed, its score, principal variation, and cumulative node count.
type Report struct {
	Depth search.Depth
	Score search.Score
	PV    []board.Move
	Nodes uint64
	Time  time.Duration
}
