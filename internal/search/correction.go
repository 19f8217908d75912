package search

import "github.com/corechess/engine/internal/board"

// CorrectionHistory adjusts static evaluation based on search results: when
// the search discovers the static eval was wrong for a position, the error
// is recorded and applied to similar positions later.
type CorrectionHistory struct {
	positionCorr [65536]int16
}

func NewCorrectionHistory() *CorrectionHistory {
	return &CorrectionHistory{}
}

// Get returns the correction to add to a position's static evaluation.
func (ch *CorrectionHistory) Get(pos *board.Position) Score {
	idx := pos.Hash & 0xFFFF
	return Score(ch.positionCorr[idx])
}

// Update applies a gravity-style update: new = old + (target-old)/16, where
// the target is the depth-scaled error between the search result and the
// static eval that was corrected.
func (ch *CorrectionHistory) Update(pos *board.Position, searchScore, staticEval Score, depth Depth) {
	if depth < 1 {
		return
	}

	diff := int(searchScore - staticEval)
	bonus := diff * int(depth) / 8
	if bonus > 256 {
		bonus = 256
	} else if bonus < -256 {
		bonus = -256
	}

	idx := pos.Hash & 0xFFFF
	old := int(ch.positionCorr[idx])
	newVal := old + (bonus-old)/16
	if newVal > 16000 {
		newVal = 16000
	} else if newVal < -16000 {
		newVal = -16000
	}
	ch.positionCorr[idx] = int16(newVal)
}

// Clear resets all correction values.
func (ch *CorrectionHistory) Clear() {
	for i := range ch.positionCorr {
		ch.positionCorr[i] = 0
	}
}

// Age halves all correction values.
func (ch *CorrectionHistory) Age() {
	for i := range ch.positionCorr {
		ch.positionCorr[i] /= 2
	}
}
