package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestEvaluatorPushPopRestoresValue(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(1)

	pos := board.DefaultPosition()
	e := NewEvaluator(pos, net, 64)
	before := e.Value()

	e.Push(board.NewMove(board.E2, board.E4))
	require.NotNil(t, e)
	e.Pop()

	// Pop restores both the accumulator and the evaluator's position, so the
	// value matches the one taken before the Push and the one a freshly
	// built evaluator computes for the original position.
	require.Equal(t, before, e.Value())
	e2 := NewEvaluator(board.DefaultPosition(), net, 64)
	require.Equal(t, before, e2.Value())
}

func TestSEENoCaptureReturnsZero(t *testing.T) {
	pos := board.DefaultPosition()
	e := NewEvaluator(pos, NewNetwork(), 64)
	require.Equal(t, int16(0), e.SEE(board.NewMove(board.E2, board.E4)))
}

func TestSEEEqualTradeIsEven(t *testing.T) {
	// 1.e4 d5 2.exd5 - white pawn takes black pawn and the queen on d8
	// recaptures down the open d-file: one pawn each, an even trade.
	pos := board.DefaultPosition()
	_ = pos.MakeMove(board.NewMove(board.E2, board.E4))
	_ = pos.MakeMove(board.NewMove(board.D7, board.D5))

	e := NewEvaluator(pos, NewNetwork(), 64)
	capture := board.NewMove(board.E4, board.D5)
	require.Equal(t, int16(0), e.SEE(capture))
}
