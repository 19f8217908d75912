package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestPVTableUpdatePropagatesChildLine(t *testing.T) {
	var pv PVTable
	m0 := board.NewMove(board.E2, board.E4)
	m1 := board.NewMove(board.E7, board.E5)
	m2 := board.NewMove(board.G1, board.F3)

	// Simulate negamax unwinding from leaf to root: deepest ply updates
	// first, each parent calling Update to splice the child's line in.
	pv.Update(2, m2)
	pv.Update(1, m1)
	pv.Update(0, m0)

	line := pv.Line()
	require.Equal(t, []board.Move{m0, m1, m2}, line)
}

func TestPVTableUpdateTruncatesAtLeaf(t *testing.T) {
	var pv PVTable
	m0 := board.NewMove(board.D2, board.D4)

	pv.Update(0, m0)

	require.Equal(t, []board.Move{m0}, pv.Line())
}
