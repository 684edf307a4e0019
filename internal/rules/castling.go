package rules

const kingHomeFile = 4

type wingLayout struct {
	wing     Wing
	rookFile int
	kingFile int
	rookDest int
}

var wings = [...]wingLayout{
	{wing: KingSide, rookFile: 7, kingFile: 6, rookDest: 5},
	{wing: QueenSide, rookFile: 0, kingFile: 2, rookDest: 3},
}

// CastlingMoves returns the castling moves available to the king on from.
// Both wings are evaluated independently. A king or rook that has ever
// moved can no longer castle, even after returning to its square.
func (b *Board) CastlingMoves(from Square) []Castling {
	king, ok := b.PieceAt(from)
	if !ok || king.Kind != King || king.Moved {
		return nil
	}
	from = king.Square
	if from != Sq(kingHomeFile, king.Side.backRank()) {
		return nil
	}
	enemy := king.Side.Opponent()
	var out []Castling
	for _, w := range wings {
		rookSq := Sq(w.rookFile, from.Y)
		rook := b.at(rookSq)
		if rook == nil || rook.Kind != Rook || rook.Side != king.Side || rook.Moved {
			continue
		}
		if !b.emptyBetween(from.X, w.rookFile, from.Y) {
			continue
		}
		if b.Attacked(from, enemy) || !b.transitSafe(from, w.kingFile, enemy) {
			continue
		}
		c := Castling{
			Wing:     w.wing,
			KingFrom: from,
			KingTo:   Sq(w.kingFile, from.Y),
			RookID:   rook.ID,
			RookFrom: rookSq,
			RookTo:   Sq(w.rookDest, from.Y),
		}
		if b.castled(c).InCheck(king.Side) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (b *Board) emptyBetween(a, c, y int) bool {
	lo, hi := min(a, c), max(a, c)
	for x := lo + 1; x < hi; x++ {
		if b.at(Sq(x, y)) != nil {
			return false
		}
	}
	return true
}

// transitSafe checks every square the king crosses, destination included.
func (b *Board) transitSafe(from Square, toFile int, enemy Side) bool {
	step := sign(toFile - from.X)
	for x := from.X + step; ; x += step {
		if b.Attacked(Sq(x, from.Y), enemy) {
			return false
		}
		if x == toFile {
			return true
		}
	}
}

// castled returns a copy of the board with both castling pieces relocated.
// The side to move is left unchanged.
func (b *Board) castled(c Castling) *Board {
	next := b.clone()
	next.relocate(c.KingFrom, c.KingTo)
	next.relocate(c.RookFrom, c.RookTo)
	return next
}

func (b *Board) findCastling(from, to Square) (Castling, bool) {
	for _, c := range b.CastlingMoves(from) {
		if c.KingTo == to {
			return c, true
		}
	}
	return Castling{}, false
}
