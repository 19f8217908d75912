package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestMaterialistStartingPositionIsBalanced(t *testing.T) {
	m := NewMaterialist(board.DefaultPosition())
	require.Equal(t, Score(0), m.Value())
}

func TestMaterialistValueTracksCapture(t *testing.T) {
	pos := board.DefaultPosition()
	m := NewMaterialist(pos)

	m.Push(board.NewMove(board.E2, board.E4))
	m.Push(board.NewMove(board.D7, board.D5))
	m.Push(board.NewMove(board.E4, board.D5))

	require.Equal(t, Score(-pawnValue), m.Value())
}

func TestMaterialistSEECapture(t *testing.T) {
	pos := board.DefaultPosition()
	_ = pos.MakeMove(board.NewMove(board.E2, board.E4))
	_ = pos.MakeMove(board.NewMove(board.D7, board.D5))

	m := NewMaterialist(pos)
	capture := board.NewMove(board.E4, board.D5)
	require.EqualValues(t, pawnValue, m.SEE(capture))
}

func TestMaterialistSEENonCaptureIsZero(t *testing.T) {
	pos := board.DefaultPosition()
	m := NewMaterialist(pos)
	quiet := board.NewMove(board.B1, board.C3)
	require.EqualValues(t, 0, m.SEE(quiet))
}
