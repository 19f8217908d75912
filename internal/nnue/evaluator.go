package nnue

import (
	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/score"
)

// Evaluator owns a position snapshot, an accumulator stack tracking it
// incrementally across Push/Pop, and the (shared, read-only) network
// weights. See SPEC_FULL.md §9's "evaluator-owns-position-snapshot"
// design note.
type Evaluator struct {
	pos     *board.Position
	history []*board.Position // positions saved by Push, restored by Pop
	stack   *AccumulatorStack
	net     *Network
}

// NewEvaluator builds an evaluator for pos, computing the root accumulator
// from scratch.
func NewEvaluator(pos *board.Position, net *Network, maxPly int) *Evaluator {
	e := &Evaluator{
		pos:   pos,
		stack: NewAccumulatorStack(maxPly),
		net:   net,
	}
	e.stack.Current().ComputeFull(pos, net)
	return e
}

// Push advances the evaluator's internal position by m (already legal) and
// updates the accumulator, incrementally where possible.
//
// A programmer error here — the stack already at its deepest slot while the
// caller keeps pushing — is not defended against per SPEC_FULL.md §7's
// "programmer error ⇒ fatal" rule; AccumulatorStack.Push silently saturates
// instead of panicking only because the search driver is responsible for
// respecting MaxPly and never calls Push beyond it.
func (e *Evaluator) Push(m board.Move) {
	captured := e.pos.PieceAt(m.To())
	if m.IsEnPassant() {
		capSq := m.To() + 8
		if e.pos.SideToMove == board.White {
			capSq = m.To() - 8
		}
		captured = e.pos.PieceAt(capSq)
	}

	next := e.pos.Copy()
	_ = next.MakeMove(m)

	e.stack.Push()
	e.stack.Current().UpdateIncremental(next, m, captured, e.net)
	e.history = append(e.history, e.pos)
	e.pos = next
}

// Pop discards the most recent Push, restoring the previous position and
// accumulator. Calling Pop with nothing pushed is a programmer error and
// panics.
func (e *Evaluator) Pop() {
	n := len(e.history)
	if n == 0 {
		panic("nnue: Pop with nothing pushed")
	}
	e.pos = e.history[n-1]
	e.history = e.history[:n-1]
	e.stack.Pop()
}

// Value returns the static evaluation of the current position from the
// side to move's perspective.
func (e *Evaluator) Value() score.Score {
	phase := int(e.pos.MaterialPhase())
	cp := e.net.Forward(e.stack.Current(), e.pos.SideToMove, phase)
	return score.Score(cp)
}

// Piece values for SEE (centipawns, king intentionally large so it's never
// the "cheaper" side of an exchange).
const (
	pawnValue   = 100
	knightValue = 300
	bishopValue = 300
	rookValue   = 500
	queenValue  = 900
	kingValue   = 20000
)

var pieceValues = [7]int{pawnValue, knightValue, bishopValue, rookValue, queenValue, kingValue, 0}

// SEE runs a static exchange evaluation of m against the evaluator's
// current position, returning the estimated material swing in centipawns
// from the moving side's perspective. Operates purely on board.Position
// and has no search-package dependency.
func (e *Evaluator) SEE(m board.Move) int16 {
	return int16(see(e.pos, m))
}

func see(pos *board.Position, m board.Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var capturedValue int
	if m.IsEnPassant() {
		capturedValue = pawnValue
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0
		}
		capturedValue = pieceValues[victim.Type()]
	}
	if m.IsPromotion() {
		capturedValue += pieceValues[m.Promotion()] - pawnValue
	}

	return seeSwap(pos, to, from, attacker, capturedValue)
}

func seeSwap(pos *board.Position, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ board.SquareBB(excludeFrom)

	attackerValue := pieceValues[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]
		if maxInt(-gain[d-1], gain[d]) < 0 {
			break
		}

		attackerSq, attackerPiece := leastValuableAttacker(pos, target, side, occupied)
		if attackerSq == board.NoSquare {
			break
		}
		occupied &^= board.SquareBB(attackerSq)
		attackerValue = pieceValues[attackerPiece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -maxInt(-gain[d-1], gain[d])
	}
	return gain[0]
}

func leastValuableAttacker(pos *board.Position, target board.Square, side board.Color, occupied board.Bitboard) (board.Square, board.Piece) {
	if attackers := pos.Pieces[side][board.Pawn] & board.PawnAttacks(target, side.Other()) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Pawn, side)
	}
	if attackers := pos.Pieces[side][board.Knight] & board.KnightAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Knight, side)
	}
	bishopAttacks := board.BishopAttacks(target, occupied)
	if attackers := pos.Pieces[side][board.Bishop] & bishopAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Bishop, side)
	}
	rookAttacks := board.RookAttacks(target, occupied)
	if attackers := pos.Pieces[side][board.Rook] & rookAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Rook, side)
	}
	if attackers := pos.Pieces[side][board.Queen] & (bishopAttacks | rookAttacks) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Queen, side)
	}
	if attackers := pos.Pieces[side][board.King] & board.KingAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.King, side)
	}
	return board.NoSquare, board.NoPiece
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
