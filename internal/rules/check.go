package rules

// InCheck reports whether side's king is attacked. A side without a king is
// never in check.
func (b *Board) InCheck(side Side) bool {
	king, ok := b.King(side)
	if !ok {
		return false
	}
	return b.Attacked(king.Square, side.Opponent())
}

// Attacked reports whether any piece of side by threatens the on-board
// square sq. In wraparound mode every raw image of sq within one board
// width is tried, so attacks across the left and right edges count.
func (b *Board) Attacked(sq Square, by Side) bool {
	targets := b.mode.representatives(sq.Normalize())
	for _, p := range b.pieces {
		if p.Side != by {
			continue
		}
		for _, raw := range targets {
			if b.threatens(p, raw) {
				return true
			}
		}
	}
	return false
}

// Status classifies the position for the side to move.
func (b *Board) Status() Status {
	inCheck := b.InCheck(b.turn)
	if b.AnyLegalMove(b.turn) {
		if inCheck {
			return Check
		}
		return Ongoing
	}
	if inCheck {
		return Checkmate
	}
	return Stalemate
}
