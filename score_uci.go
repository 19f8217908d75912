package chesscore

import (
	"fmt"

	"github.com/corechess/engine/internal/score"
	"github.com/corechess/engine/internal/search"
)

// ScoreToUCI renders s as a UCI "score" field: "cp <centipawns>" for
// ordinary evaluations, or "mate <k>" (negative k for being mated in k
// moves) when s falls in the mate-score band.
func ScoreToUCI(s search.Score) string {
	if !s.IsMate() {
		return fmt.Sprintf("cp %d", int(s))
	}
	if s > 0 {
		plies := int(score.Upper) - int(s)
		return fmt.Sprintf("mate %d", (plies+1)/2)
	}
	plies := int(s) + int(score.Upper)
	return fmt.Sprintf("mate %d", -(plies+1)/2)
}
