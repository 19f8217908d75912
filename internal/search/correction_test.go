package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestCorrectionHistoryStartsAtZero(t *testing.T) {
	ch := NewCorrectionHistory()
	pos := board.DefaultPosition()
	require.Equal(t, Score(0), ch.Get(pos))
}

func TestCorrectionHistoryMovesTowardTarget(t *testing.T) {
	ch := NewCorrectionHistory()
	pos := board.DefaultPosition()

	before := ch.Get(pos)
	ch.Update(pos, Score(300), Score(100), Depth(6))
	after := ch.Get(pos)

	require.Greater(t, after, before)
}

func TestCorrectionHistoryIgnoresShallowDepth(t *testing.T) {
	ch := NewCorrectionHistory()
	pos := board.DefaultPosition()

	ch.Update(pos, Score(300), Score(100), Depth(0))
	require.Equal(t, Score(0), ch.Get(pos))
}

func TestCorrectionHistoryClearResetsAll(t *testing.T) {
	ch := NewCorrectionHistory()
	pos := board.DefaultPosition()
	ch.Update(pos, Score(300), Score(100), Depth(6))
	require.NotEqual(t, Score(0), ch.Get(pos))

	ch.Clear()
	require.Equal(t, Score(0), ch.Get(pos))
}
