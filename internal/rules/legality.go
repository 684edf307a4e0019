package rules

// IsLegalMove reports whether the piece on from may move to the on-board
// square to without leaving its own king in check. Castling is not a
// legal "move" here; see CastlingMoves. The side to move is not consulted.
func (b *Board) IsLegalMove(from, to Square) bool {
	p, ok := b.PieceAt(from)
	if !ok {
		return false
	}
	return b.legalRaw(p, to) != nil
}

// legalRaw returns the first raw image of the normalized destination that
// the piece reaches without exposing its king, or nil.
func (b *Board) legalRaw(p Piece, to Square) *Square {
	if !b.mode.Wraparound && !to.InBounds() {
		return nil
	}
	to = to.Normalize()
	for _, raw := range b.mode.representatives(to) {
		if b.reaches(p, raw) {
			if b.exposesKing(p, raw) {
				return nil
			}
			return &raw
		}
	}
	return nil
}

// exposesKing simulates the move on a disposable copy.
func (b *Board) exposesKing(p Piece, raw Square) bool {
	sim := b.clone()
	sim.relocate(p.Square, raw)
	return sim.InCheck(p.Side)
}

// Resolve turns a from/to request into a fully annotated move for the side
// to move: castling, capture and promotion are filled in. The board is not
// changed.
func (b *Board) Resolve(from, to Square) (Move, error) {
	p, ok := b.PieceAt(from)
	if !ok {
		return Move{}, ErrEmptySquare
	}
	if p.Side != b.turn {
		return Move{}, ErrNotYourTurn
	}
	return b.annotate(p, to)
}

func (b *Board) annotate(p Piece, to Square) (Move, error) {
	if b.mode.Wraparound {
		to = to.Normalize()
	} else if !to.InBounds() {
		return Move{}, ErrIllegalMove
	}

	m := Move{From: p.Square, To: to, PieceID: p.ID}
	if p.Kind == King {
		if c, ok := b.findCastling(p.Square, to); ok {
			m.Castle = &c
			return m, nil
		}
	}
	if b.legalRaw(p, to) == nil {
		return Move{}, ErrIllegalMove
	}
	if victim := b.at(to); victim != nil {
		m.Captured = victim.ID
	}
	if p.Kind == Pawn && to.Y == p.Side.promotionRank() {
		m.Promotion = Queen
	}
	return m, nil
}
