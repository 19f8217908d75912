package search

import (
	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/score"
)

// Score and Depth are re-exported from internal/score so callers only ever
// import internal/search for these names, as SPEC_FULL.md §3/§4.3 describe
// them (search.Score, search.Depth). The underlying type lives in
// internal/score to avoid an import cycle: internal/search depends on
// internal/tt, so internal/tt cannot depend back on internal/search for
// these types. See DESIGN.md.
type Score = score.Score
type Depth = score.Depth

// MaxPly bounds both the PV table and every per-ply array in Worker.
const MaxPly = score.MaxPly

// PVTable is a triangular principal-variation table.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Update records bestMove at ply and appends the child PV copied up from
// ply+1.
func (pv *PVTable) Update(ply int, bestMove board.Move) {
	pv.moves[ply][ply] = bestMove
	for next := ply + 1; next < pv.length[ply+1]; next++ {
		pv.moves[ply][next] = pv.moves[ply+1][next]
	}
	pv.length[ply] = pv.length[ply+1]
	if pv.length[ply] <= ply {
		pv.length[ply] = ply + 1
	}
}

// Line returns the principal variation starting at the root.
func (pv *PVTable) Line() []board.Move {
	n := pv.length[0]
	line := make([]board.Move, n)
	copy(line, pv.moves[0][:n])
	return line
}
