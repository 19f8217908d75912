package search

import "github.com/corechess/engine/internal/board"

// Move-ordering priorities.
const (
	ttMoveScore     = 10_000_000
	goodCaptureBase = 1_000_000
	killerScore1    = 900_000
	killerScore2    = 800_000
	counterScore    = 700_000
)

// mvvLva[victim][attacker]: higher means search sooner.
var mvvLva = [6][6]int{
	{15, 14, 14, 13, 12, 11},
	{25, 24, 24, 23, 22, 21},
	{35, 34, 34, 33, 32, 31},
	{45, 44, 44, 43, 42, 41},
	{55, 54, 54, 53, 52, 51},
	{0, 0, 0, 0, 0, 0},
}

// MoveOrderer carries per-worker killer/history/counter-move state.
//
// No 4D countermove-history or 3D capture-history tables. Both are
// incremental tuning refinements on top of plain MVV-LVA + history +
// killers + counter-move, which already order well enough for this core's
// scope; see DESIGN.md.
type MoveOrderer struct {
	killers      [MaxPly][2]board.Move
	history      [64][64]int
	counterMoves [12][64]board.Move
}

func NewMoveOrderer() *MoveOrderer { return &MoveOrderer{} }

// Clear resets killers and counter-moves and ages the history table.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
	for i := range mo.counterMoves {
		for j := range mo.counterMoves[i] {
			mo.counterMoves[i][j] = board.NoMove
		}
	}
}

func pieceIndex(c board.Color, pt board.PieceType) int {
	return int(c)*6 + int(pt)
}

// ScoreMoves returns an ordering score for every move in moves, indexed in
// parallel with moves.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove, prevMove board.Move) []int {
	scores := make([]int, moves.Len())
	counter := mo.GetCounterMove(prevMove, pos)

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		scores[i] = mo.scoreMove(pos, m, ply, ttMove)
		if m != board.NoMove && m == counter && scores[i] < counterScore {
			scores[i] = counterScore
		}
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return ttMoveScore
	}
	if m.IsCapture(pos) {
		_, victim, ok := pos.PieceOn(m.To())
		attacker := pos.PieceAt(m.From())
		if !ok {
			// En passant: captured pawn isn't on the destination square.
			victim = board.Pawn
		}
		return goodCaptureBase + mvvLva[victim][attacker.Type()]
	}
	if ply < MaxPly {
		if m == mo.killers[ply][0] {
			return killerScore1
		}
		if m == mo.killers[ply][1] {
			return killerScore2
		}
	}
	return mo.history[m.From()][m.To()]
}

// UpdateKillers records a quiet move that caused a beta cutoff.
func (mo *MoveOrderer) UpdateKillers(ply int, m board.Move) {
	if ply >= MaxPly || m == mo.killers[ply][0] {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory applies a gravity-style bonus/malus update to the history
// table for a cutoff move and the quiet moves tried before it.
func (mo *MoveOrderer) UpdateHistory(best board.Move, tried []board.Move, depth int) {
	bonus := depth * depth
	if bonus > 400 {
		bonus = 400
	}
	for _, m := range tried {
		delta := -bonus
		if m == best {
			delta = bonus
		}
		cur := &mo.history[m.From()][m.To()]
		*cur += delta - *cur*abs(delta)/32768
	}
}

// UpdateCounterMove records the reply that refuted prevMove.
func (mo *MoveOrderer) UpdateCounterMove(prevMove, reply board.Move, prevPos *board.Position) {
	if prevMove == board.NoMove {
		return
	}
	c, pt, ok := prevPos.PieceOn(prevMove.To())
	if !ok {
		return
	}
	mo.counterMoves[pieceIndex(c, pt)][prevMove.To()] = reply
}

// GetCounterMove returns the recorded reply to prevMove, or NoMove.
func (mo *MoveOrderer) GetCounterMove(prevMove board.Move, pos *board.Position) board.Move {
	if prevMove == board.NoMove {
		return board.NoMove
	}
	c, pt, ok := pos.PieceOn(prevMove.To())
	if !ok {
		return board.NoMove
	}
	return mo.counterMoves[pieceIndex(c, pt)][prevMove.To()]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
