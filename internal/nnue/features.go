package nnue

import "github.com/corechess/engine/internal/board"

// pieceClass maps a non-king piece, labelled "own" or "opponent" relative to
// the perspective computing the feature, to one of 11 classes: own
// Pawn..Queen (0-4), opponent Pawn..Queen (5-9), opponent King (10). The
// perspective's own king is never a feature (excluded, as in a classical
// HalfKP scheme) — this is the one extra class HalfKA adds over HalfKP.
func pieceClass(pt board.PieceType, isOwn bool) int {
	if pt == board.King {
		if isOwn {
			return -1
		}
		return 10
	}
	if pt > board.Queen {
		return -1
	}
	base := int(pt)
	if !isOwn {
		base += 5
	}
	return base
}

// FeatureIndex computes the HalfKA feature index for a piece from a given
// perspective. kingSq is the perspective's own king square; pieceSq/pieceType
// describe the piece (which may be the opponent's king, see pieceClass).
// Squares are mirrored for Black's perspective so both perspectives see the
// board in the same canonical (White-relative) orientation.
func FeatureIndex(perspective board.Color, kingSq, pieceSq board.Square, pieceType board.PieceType, pieceColor board.Color) int {
	isOwn := pieceColor == perspective

	ks, ps := kingSq, pieceSq
	if perspective == board.Black {
		ks = kingSq.Mirror()
		ps = pieceSq.Mirror()
	}

	class := pieceClass(pieceType, isOwn)
	if class < 0 {
		return -1
	}

	return int(ks)*(NumPieceTypes*NumSquares) + class*NumSquares + int(ps)
}

// ActiveFeatures returns every active feature index for pos, from both
// White's and Black's perspective, grounded in features.go's
// GetActiveFeatures but walking all six piece types (including the enemy
// king) per perspective instead of five.
func ActiveFeatures(pos *board.Position) (white, black []int) {
	white = make([]int, 0, 32)
	black = make([]int, 0, 32)

	whiteKing := pos.KingSquare[board.White]
	blackKing := pos.KingSquare[board.Black]

	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()

				if idx := FeatureIndex(board.White, whiteKing, sq, pt, color); idx >= 0 {
					white = append(white, idx)
				}
				if idx := FeatureIndex(board.Black, blackKing, sq, pt, color); idx >= 0 {
					black = append(black, idx)
				}
			}
		}
	}

	return white, black
}

// FeatureDelta is one add-or-remove feature change for a single perspective,
// produced by ChangedFeatures for incremental accumulator updates.
type FeatureDelta struct {
	Add []int
	Rem []int
}

// ChangedFeatures returns the per-perspective feature deltas for a move
// already made on pos, given the piece that occupied the capture square
// before the move (board.NoPiece if none). It reports ok=false when either
// king moved, in which case the caller must do a full accumulator refresh —
// grounded in GetChangedFeatures, generalised to also track the opponent's
// king as a feature (so a non-king move next to an enemy king changes
// nothing, but capturing into the enemy king's square never happens in
// legal chess so this never arises in practice; kept for symmetry).
func ChangedFeatures(pos *board.Position, m board.Move, captured board.Piece) (white, black FeatureDelta, ok bool) {
	whiteKing := pos.KingSquare[board.White]
	blackKing := pos.KingSquare[board.Black]

	from, to := m.From(), m.To()
	moved := pos.PieceAt(to)
	if moved == board.NoPiece {
		return white, black, false
	}

	movingType := moved.Type()
	movingColor := moved.Color()
	if movingType == board.King {
		return white, black, false
	}

	addRemove := func(pt board.PieceType, color board.Color, sq board.Square, rem bool) {
		wIdx := FeatureIndex(board.White, whiteKing, sq, pt, color)
		bIdx := FeatureIndex(board.Black, blackKing, sq, pt, color)
		if rem {
			if wIdx >= 0 {
				white.Rem = append(white.Rem, wIdx)
			}
			if bIdx >= 0 {
				black.Rem = append(black.Rem, bIdx)
			}
			return
		}
		if wIdx >= 0 {
			white.Add = append(white.Add, wIdx)
		}
		if bIdx >= 0 {
			black.Add = append(black.Add, bIdx)
		}
	}

	addRemove(movingType, movingColor, from, true)

	addType := movingType
	if m.IsPromotion() {
		addType = m.Promotion()
	}
	addRemove(addType, movingColor, to, false)

	if captured != board.NoPiece && captured.Type() != board.King {
		capSq := to
		if m.IsEnPassant() {
			if movingColor == board.White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		addRemove(captured.Type(), captured.Color(), capSq, true)
	}

	return white, black, true
}
