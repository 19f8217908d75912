package search

import (
	"math"

	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/control"
	"github.com/corechess/engine/internal/score"
	"github.com/corechess/engine/internal/tt"
)

// lmrReductions is a precomputed logarithmic Late Move Reduction table,
// Stockfish's 21.46*log(d)*log(m)/1024 formula.
var lmrReductions [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrReductions[d][m] = int(21.46 * math.Log(float64(d)) * math.Log(float64(m)) / 1024.0)
		}
	}
}

// No tablebase probing, no singular extensions, no probcut/multicut, no
// threat extension, no hindsight depth adjustment, no continuation-history/
// capture-history tables, no Lazy-SMP shared history, no Multi-PV root
// exclusion, no optimism scaling. What's kept — mate-distance pruning, TT
// probe/cutoff, IIR, check extension, static eval plus correction history,
// improving heuristic, reverse futility pruning, razoring, null-move
// pruning with verification, futility pruning, late move reductions, PVS,
// quiescence with SEE/delta pruning — is the core Stockfish-family
// technique set. See DESIGN.md.
const (
	futilityMinDepth = 5
	rfpMaxDepth      = 6
	razorMaxDepth    = 5
	nmpMinDepth      = 3
)

var futilityMargins = [futilityMinDepth + 1]Score{0, 200, 300, 500, 700, 900}

// Worker runs its own iterative-deepening loop against a shared TT and
// control plane.
type Worker struct {
	id int

	pos     *board.Position
	orderer *MoveOrderer
	eval    Evaluator
	corr    *CorrectionHistory

	nodes uint64
	pv    PVTable

	evalStack [MaxPly]Score
	undoStack [MaxPly]board.UndoInfo

	posHistory  []uint64
	rootHistLen int

	tt    *tt.Table
	plane *control.Plane
}

// NewWorker builds a worker sharing table and plane with its siblings.
func NewWorker(id int, table *tt.Table, plane *control.Plane) *Worker {
	return &Worker{
		id:      id,
		orderer: NewMoveOrderer(),
		corr:    NewCorrectionHistory(),
		tt:      table,
		plane:   plane,
	}
}

// Reset prepares the worker for a new search over pos, using eval as its
// position evaluator and rootHistory as the game's position-hash history
// (for repetition detection across the root).
func (w *Worker) Reset(pos *board.Position, eval Evaluator, rootHistory []uint64) {
	w.pos = pos
	w.eval = eval
	w.nodes = 0
	w.orderer.Clear()

	w.posHistory = make([]uint64, len(rootHistory)+MaxPly)
	n := copy(w.posHistory, rootHistory)
	w.posHistory[n] = pos.Hash
	w.rootHistLen = n + 1
}

func (w *Worker) ID() int       { return w.id }
func (w *Worker) Nodes() uint64 { return w.nodes }
func (w *Worker) PV() []board.Move {
	return w.pv.Line()
}

// SearchDepth runs one negamax search at depth within the window
// [alpha, beta] and returns the root best move and its score.
func (w *Worker) SearchDepth(depth Depth, alpha, beta Score) (board.Move, Score) {
	score := w.negamax(depth, 0, alpha, beta, board.NoMove, false)

	var best board.Move
	if line := w.pv.Line(); len(line) > 0 {
		best = line[0]
	}
	if best == board.NoMove {
		if moves := w.pos.GenerateLegalMoves(); moves.Len() > 0 {
			best = moves.Get(0)
		}
	}
	return best, score
}

func (w *Worker) isDraw(ply int) bool {
	if w.pos.HalfMoveClock >= 100 {
		return true
	}
	if w.pos.IsInsufficientMaterial() {
		return true
	}
	hash := w.pos.Hash
	count := 0
	for i := 0; i < w.rootHistLen+ply; i++ {
		if i < len(w.posHistory) && w.posHistory[i] == hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// negamax implements alpha-beta search with the pruning techniques listed
// above.
func (w *Worker) negamax(depth Depth, ply int, alpha, beta Score, prevMove board.Move, cutNode bool) Score {
	if ply >= MaxPly-1 {
		return w.eval.Value()
	}

	w.nodes++
	w.plane.Metrics.Nodes.Add(1)
	if w.nodes&(w.plane.PollInterval-1) == 0 && w.plane.PollCancellation() {
		return 0
	}

	w.pv.length[ply] = ply

	if ply > 0 && w.isDraw(ply) {
		return Score(0)
	}

	if a := score.MatedIn(ply); a > alpha {
		alpha = a
	}
	if b := score.MateIn(ply + 1); b < beta {
		beta = b
	}
	if alpha >= beta {
		return alpha
	}

	var ttMove board.Move
	ttPv := false
	entry, found := w.tt.Probe(w.pos.Hash)
	if found {
		ttMove = entry.Move
		ttPv = entry.Bound == tt.BoundExact
		if ttMove != board.NoMove && !w.pos.IsLegal(ttMove) {
			ttMove = board.NoMove
		}
		if Depth(entry.Depth) >= depth {
			s := entry.Score.AdjustFromTT(ply)
			switch entry.Bound {
			case tt.BoundExact:
				if ply == 0 && ttMove != board.NoMove {
					w.pv.moves[0][0] = ttMove
					w.pv.length[0] = 1
				}
				return s
			case tt.BoundLower:
				if s > alpha {
					alpha = s
				}
			case tt.BoundUpper:
				if s < beta {
					beta = s
				}
			}
			if alpha >= beta {
				return s
			}
		}
	}

	if depth <= 0 {
		return w.quiescence(ply, alpha, beta)
	}

	inCheck := w.pos.InCheck()

	if depth >= 4 && ttMove == board.NoMove && !inCheck {
		depth -= 2
	}

	extension := Depth(0)
	if inCheck {
		extension = 1
	}

	rawEval := w.eval.Value()
	correction := w.corr.Get(w.pos)
	staticEval := rawEval.Add(correction)
	w.evalStack[ply] = staticEval

	improving := ply >= 2 && staticEval > w.evalStack[ply-2]

	if !inCheck && depth <= rfpMaxDepth && ply > 0 && !ttPv {
		margin := Score(80 * int(depth))
		if !improving {
			margin -= 20
		}
		if staticEval-margin >= beta {
			return beta
		}
	}

	if !inCheck && depth <= razorMaxDepth && ply > 0 && !ttPv {
		margin := Score(485 + 281*int(depth)*int(depth))
		if staticEval+margin <= alpha {
			s := w.quiescence(ply, alpha, beta)
			if s <= alpha {
				return s
			}
		}
	}

	if !inCheck && depth >= nmpMinDepth && ply > 0 && !ttPv && staticEval >= beta && w.pos.HasNonPawnMaterial() {
		r := Depth(3 + int(depth)/4)
		reduced := depth - r
		if reduced < 0 {
			reduced = 0
		}
		undo := w.pos.MakeNullMove()
		nullScore := -w.negamax(reduced, ply+1, -beta, -beta+1, board.NoMove, !cutNode)
		w.pos.UnmakeNullMove(undo)
		if nullScore >= beta {
			if depth >= 12 {
				verify := w.negamax(reduced, ply, alpha, beta, prevMove, cutNode)
				if verify >= beta {
					return beta
				}
			} else {
				return beta
			}
		}
	}

	pruneQuiets := false
	if !inCheck && depth <= futilityMinDepth && ply > 0 {
		if staticEval+futilityMargins[depth] <= alpha {
			pruneQuiets = true
		}
	}

	moves := w.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return score.MatedIn(ply)
		}
		return Score(0)
	}

	scores := w.orderer.ScoreMoves(w.pos, moves, ply, ttMove, prevMove)

	best := -score.Upper - 1
	var bestMove board.Move
	bound := tt.BoundUpper
	searched := 0
	var triedQuiets []board.Move

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		isCapture := move.IsCapture(w.pos)
		isPromotion := move.IsPromotion()

		if pruneQuiets && !isCapture && !isPromotion && bestMove != board.NoMove {
			continue
		}

		if isCapture && depth <= 7 && !inCheck && searched > 0 {
			threshold := int16(-20 * int(depth))
			if w.eval.SEE(move) < threshold {
				continue
			}
		}

		if !isCapture && !isPromotion {
			triedQuiets = append(triedQuiets, move)
		}

		w.undoStack[ply] = w.pos.MakeMove(move)
		if !w.undoStack[ply].Valid {
			w.pos.UnmakeMove(move, w.undoStack[ply])
			continue
		}
		w.posHistory[w.rootHistLen+ply] = w.pos.Hash
		w.eval.Push(move)
		searched++

		newDepth := depth - 1 + extension

		var s Score
		if searched > 4 && depth >= 3 && !inCheck && !isCapture && !isPromotion {
			d := int(depth)
			if d > 63 {
				d = 63
			}
			m := searched
			if m > 63 {
				m = 63
			}
			reduction := lmrReductions[d][m]
			if !improving {
				reduction++
			}
			if move == ttMove {
				reduction -= 2
			}
			if ttPv {
				reduction--
			}
			if cutNode {
				reduction += 3
			}
			if reduction < 1 {
				reduction = 1
			}
			reduced := int(newDepth) - reduction
			if reduced < 1 {
				reduced = 1
			}
			s = -w.negamax(Depth(reduced), ply+1, -alpha-1, -alpha, move, !cutNode)
			if s > alpha {
				s = -w.negamax(newDepth, ply+1, -beta, -alpha, move, false)
			}
		} else if searched == 1 {
			s = -w.negamax(newDepth, ply+1, -beta, -alpha, move, false)
		} else {
			s = -w.negamax(newDepth, ply+1, -alpha-1, -alpha, move, !cutNode)
			if s > alpha && s < beta {
				s = -w.negamax(newDepth, ply+1, -beta, -alpha, move, false)
			}
		}

		w.eval.Pop()
		w.pos.UnmakeMove(move, w.undoStack[ply])

		if s > best {
			best = s
			bestMove = move
			if s > alpha {
				alpha = s
				bound = tt.BoundExact
				w.pv.Update(ply, move)
			}
		}

		if s >= beta {
			bound = tt.BoundLower
			if !isCapture {
				w.orderer.UpdateKillers(ply, move)
				w.orderer.UpdateHistory(move, triedQuiets, int(depth))
				w.orderer.UpdateCounterMove(prevMove, move, w.pos)
			}
			w.tt.Store(w.pos.Hash, tt.Entry{
				Move:  bestMove,
				Score: s.AdjustToTT(ply),
				Depth: toTTDepth(depth),
				Bound: bound,
			})
			return s
		}
	}

	if bound == tt.BoundExact && !inCheck && depth >= 2 {
		w.corr.Update(w.pos, best, rawEval, depth)
	}

	w.tt.Store(w.pos.Hash, tt.Entry{
		Move:  bestMove,
		Score: best.AdjustToTT(ply),
		Depth: toTTDepth(depth),
		Bound: bound,
	})

	return best
}

func toTTDepth(d Depth) Depth {
	if d < 0 {
		return 0
	}
	return d
}

// quiescence extends search through captures (and, if in check, all
// evasions) to avoid the horizon effect.
func (w *Worker) quiescence(ply int, alpha, beta Score) Score {
	if ply >= MaxPly {
		return w.eval.Value()
	}
	w.nodes++
	w.plane.Metrics.Nodes.Add(1)

	inCheck := w.pos.InCheck()

	var standPat, best Score
	if inCheck {
		best = score.MatedIn(ply)
		standPat = best
	} else {
		standPat = w.eval.Value()
		best = standPat
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		if standPat+Score(queenValue) < alpha {
			return alpha
		}
	}

	var moves *board.MoveList
	if inCheck {
		moves = w.pos.GenerateLegalMoves()
	} else {
		moves = w.pos.GenerateCaptures()
	}
	if moves.Len() == 0 {
		if inCheck {
			return score.MatedIn(ply)
		}
		return alpha
	}

	scores := w.orderer.ScoreMoves(w.pos, moves, ply, board.NoMove, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck && move.IsCapture(w.pos) {
			seeValue := w.eval.SEE(move)
			if seeValue < 0 {
				continue
			}
			futilityBase := standPat + 351
			if futilityBase+Score(seeValue) <= alpha {
				if futilityBase > best {
					best = futilityBase
				}
				continue
			}
		}

		undo := w.pos.MakeMove(move)
		if !undo.Valid {
			w.pos.UnmakeMove(move, undo)
			continue
		}
		w.eval.Push(move)
		s := -w.quiescence(ply+1, -beta, -alpha)
		w.eval.Pop()
		w.pos.UnmakeMove(move, undo)

		if s > best {
			best = s
			if s > alpha {
				alpha = s
			}
		}
		if s >= beta {
			return s
		}
	}

	return best
}

// PickMove selects the highest-scoring move from index i onward and swaps it
// into place, an incremental selection sort.
func PickMove(moves *board.MoveList, scores []int, i int) {
	best := i
	for j := i + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		moves.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]
	}
}
