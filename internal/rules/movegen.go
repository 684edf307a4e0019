package rules

import "sort"

// LegalDestinations lists every normalized square the piece on from may move
// to, castling destinations included. The raw search window is the board
// itself, or [-8,16) on both axes in wraparound mode, because sliding pieces
// are blocked along the unwrapped line rather than the wrapped one.
func (b *Board) LegalDestinations(from Square) []Square {
	p, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	seen := map[Square]bool{}
	var out []Square
	if p.Kind == King && !p.Moved {
		for _, c := range b.CastlingMoves(p.Square) {
			seen[c.KingTo] = true
			out = append(out, c.KingTo)
		}
	}
	b.scan(p, func(to Square) bool {
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
		return true
	})
	sortSquares(out)
	return out
}

// AnyLegalMove reports whether side has at least one legal move. It stops
// at the first one found.
func (b *Board) AnyLegalMove(side Side) bool {
	for _, sq := range b.sideSquares(side) {
		p := *b.at(sq)
		found := false
		b.scan(p, func(Square) bool {
			found = true
			return false
		})
		if found {
			return true
		}
	}
	return false
}

// LegalMoves enumerates every legal move of side, annotated the way Resolve
// would annotate them.
func (b *Board) LegalMoves(side Side) []Move {
	var out []Move
	for _, sq := range b.sideSquares(side) {
		p := *b.at(sq)
		for _, to := range b.LegalDestinations(sq) {
			if p.Kind == King {
				if c, ok := b.findCastling(sq, to); ok {
					out = append(out, Move{From: sq, To: to, PieceID: p.ID, Castle: &c})
					continue
				}
			}
			m, err := b.annotate(p, to)
			if err == nil {
				out = append(out, m)
			}
		}
	}
	return out
}

// scan calls yield with each distinct normalized destination that p reaches
// without exposing its king, until yield returns false. Castling is not
// included; an unmoved king that cannot step anywhere cannot castle either,
// since castling needs the adjacent square to be safe and empty.
func (b *Board) scan(p Piece, yield func(Square) bool) {
	lo, hi := b.mode.scanWindow()
	tested := map[Square]bool{}
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			raw := Sq(x, y)
			to := raw.Normalize()
			if tested[to] || !b.reaches(p, raw) {
				continue
			}
			tested[to] = true
			if b.exposesKing(p, raw) {
				continue
			}
			if !yield(to) {
				return
			}
		}
	}
}

func sortSquares(sqs []Square) {
	sort.Slice(sqs, func(i, j int) bool {
		if sqs[i].Y != sqs[j].Y {
			return sqs[i].Y < sqs[j].Y
		}
		return sqs[i].X < sqs[j].X
	})
}
