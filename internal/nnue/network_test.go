package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestForwardAntisymmetricUnderPerspectiveSwap(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(42)

	var acc Accumulator
	acc.White = [L1HalfSize]int16{1: 50, 10: -30, 100: 20}
	acc.Black = [L1HalfSize]int16{2: 40, 20: -10, 200: 5}
	for phase := 0; phase < NumPhases; phase++ {
		acc.PSQT[board.White][phase] = int32(10 * (phase + 1))
		acc.PSQT[board.Black][phase] = int32(-3 * (phase + 1))
	}

	for phase := 0; phase < NumPhases; phase++ {
		white := net.Forward(&acc, board.White, phase)
		black := net.Forward(&acc, board.Black, phase)
		require.Equal(t, white, -black, "Forward must be exactly odd under perspective swap at phase %d", phase)
	}
}

func TestIncrementalMatchesFullRefresh(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	pos := board.DefaultPosition()
	e2e4 := board.NewMove(board.E2, board.E4)
	captured := pos.PieceAt(e2e4.To())

	next := pos.Copy()
	_ = next.MakeMove(e2e4)

	var incremental Accumulator
	incremental.ComputeFull(pos, net)
	incremental.UpdateIncremental(next, e2e4, captured, net)

	var refreshed Accumulator
	refreshed.ComputeFull(next, net)

	require.Equal(t, refreshed.White, incremental.White)
	require.Equal(t, refreshed.Black, incremental.Black)
	require.Equal(t, refreshed.PSQT, incremental.PSQT)
}
