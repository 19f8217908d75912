package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
)

func TestFeatureIndexExcludesOwnKingIncludesOpponentKing(t *testing.T) {
	ks := board.E1
	ownKing := FeatureIndex(board.White, ks, board.E8, board.King, board.White)
	require.Equal(t, -1, ownKing, "own king must never be a feature")

	oppKing := FeatureIndex(board.White, ks, board.E8, board.King, board.Black)
	require.GreaterOrEqual(t, oppKing, 0)
	require.Less(t, oppKing, L0Size)
}

func TestFeatureIndexInRange(t *testing.T) {
	idx := FeatureIndex(board.White, board.G1, board.D4, board.Queen, board.Black)
	require.GreaterOrEqual(t, idx, 0)
	require.Less(t, idx, L0Size)
}

func TestActiveFeaturesStartPositionCounts(t *testing.T) {
	pos := board.DefaultPosition()
	white, black := ActiveFeatures(pos)

	// 16 pieces per side minus 1 king = 15 own-feature-eligible pieces per
	// side; each perspective also sees the opponent's king, so its own
	// pieces contribute 15 features and the opponent's pieces 16.
	// Both perspectives see all 30 non-king pieces plus the opponent's king.
	require.Equal(t, 31, len(white))
	require.Equal(t, 31, len(black))
}
