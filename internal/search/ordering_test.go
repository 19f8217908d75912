package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestScoreMovesRanksTTMoveFirst(t *testing.T) {
	pos := board.DefaultPosition()
	moves := pos.GenerateLegalMoves()
	require.Positive(t, moves.Len())

	ttMove := moves.Get(moves.Len() - 1)
	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(pos, moves, 0, ttMove, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i) == ttMove {
			for j := 0; j < moves.Len(); j++ {
				if moves.Get(j) != ttMove {
					require.Greater(t, scores[i], scores[j])
				}
			}
		}
	}
}

func TestScoreMovesRanksCaptureAboveQuiet(t *testing.T) {
	pos := board.DefaultPosition()
	_ = pos.MakeMove(board.NewMove(board.E2, board.E4))
	_ = pos.MakeMove(board.NewMove(board.D7, board.D5))

	moves := pos.GenerateLegalMoves()
	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(pos, moves, 0, board.NoMove, board.NoMove)

	capture := board.NewMove(board.E4, board.D5)
	quiet := board.NewMove(board.B1, board.C3)

	var captureScore, quietScore int
	for i := 0; i < moves.Len(); i++ {
		switch moves.Get(i) {
		case capture:
			captureScore = scores[i]
		case quiet:
			quietScore = scores[i]
		}
	}
	require.Greater(t, captureScore, quietScore)
}

func TestUpdateKillersTracksTwoMostRecent(t *testing.T) {
	mo := NewMoveOrderer()
	m1 := board.NewMove(board.E2, board.E4)
	m2 := board.NewMove(board.D2, board.D4)
	m3 := board.NewMove(board.G1, board.F3)

	mo.UpdateKillers(3, m1)
	mo.UpdateKillers(3, m2)
	require.Equal(t, m2, mo.killers[3][0])
	require.Equal(t, m1, mo.killers[3][1])

	mo.UpdateKillers(3, m3)
	require.Equal(t, m3, mo.killers[3][0])
	require.Equal(t, m2, mo.killers[3][1])
}

func TestUpdateHistoryRewardsBestPenalizesOthers(t *testing.T) {
	mo := NewMoveOrderer()
	best := board.NewMove(board.E2, board.E4)
	other := board.NewMove(board.D2, board.D4)

	mo.UpdateHistory(best, []board.Move{best, other}, 5)

	require.Positive(t, mo.history[best.From()][best.To()])
	require.Negative(t, mo.history[other.From()][other.To()])
}

func TestCounterMoveRoundTrip(t *testing.T) {
	pos := board.DefaultPosition()
	prev := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(prev)
	require.True(t, undo.Valid)

	mo := NewMoveOrderer()
	reply := board.NewMove(board.E7, board.E5)
	mo.UpdateCounterMove(prev, reply, pos)

	require.Equal(t, reply, mo.GetCounterMove(prev, pos))
}
