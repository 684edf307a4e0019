package rules

// Apply plays a move for the side to move and returns the resulting board.
// The move is re-resolved against this board first, so a stale or forged
// move is rejected with the same errors as Resolve. The receiver is never
// modified.
func (b *Board) Apply(m Move) (*Board, error) {
	resolved, err := b.Resolve(m.From, m.To)
	if err != nil {
		return nil, err
	}
	next := b.clone()
	moved, _ := next.relocate(resolved.From, resolved.To)
	if moved.Kind == Pawn && moved.Square.Y == moved.Side.promotionRank() {
		moved.Kind = Queen
	}
	if c := resolved.Castle; c != nil {
		next.relocate(c.RookFrom, c.RookTo)
	}
	next.turn = b.turn.Opponent()
	return next, nil
}

// Play is Resolve followed by Apply. It returns the annotated move along
// with the new board.
func (b *Board) Play(from, to Square) (*Board, Move, error) {
	m, err := b.Resolve(from, to)
	if err != nil {
		return nil, Move{}, err
	}
	next, err := b.Apply(m)
	if err != nil {
		return nil, Move{}, err
	}
	return next, m, nil
}
