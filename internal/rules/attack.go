package rules

// reaches reports whether p's movement pattern takes it to the raw target on
// this board. It does not look at whether the mover's king is left in check.
// Castling is resolved separately.
func (b *Board) reaches(p Piece, raw Square) bool {
	if !b.mode.admits(p.Side, p.Square, raw) {
		return false
	}
	target := b.at(raw.Normalize())
	if target != nil && target.Side == p.Side {
		return false
	}

	dx, dy := raw.X-p.Square.X, raw.Y-p.Square.Y
	switch p.Kind {
	case Pawn:
		dir := p.Side.forward()
		if dx == 0 {
			if dy == dir {
				return target == nil
			}
			if dy == 2*dir && p.Square.Y == p.Side.pawnRank() {
				return target == nil && !b.occupied(p.Square.Add(0, dir))
			}
			return false
		}
		return abs(dx) == 1 && dy == dir && target != nil
	case King:
		return abs(dx) <= 1 && abs(dy) <= 1 && (dx != 0 || dy != 0)
	default:
		return b.covers(p, dx, dy)
	}
}

// threatens reports whether p attacks the raw square, regardless of what
// stands on it. Pawns threaten only their two forward diagonals; their
// straight pushes never capture.
func (b *Board) threatens(p Piece, raw Square) bool {
	if !b.mode.admits(p.Side, p.Square, raw) {
		return false
	}
	dx, dy := raw.X-p.Square.X, raw.Y-p.Square.Y
	switch p.Kind {
	case Pawn:
		return abs(dx) == 1 && dy == p.Side.forward()
	case King:
		return abs(dx) <= 1 && abs(dy) <= 1 && (dx != 0 || dy != 0)
	default:
		return b.covers(p, dx, dy)
	}
}

// covers handles the knight and the sliders, whose move and attack
// geometry are the same.
func (b *Board) covers(p Piece, dx, dy int) bool {
	adx, ady := abs(dx), abs(dy)
	switch p.Kind {
	case Knight:
		return (adx == 1 && ady == 2) || (adx == 2 && ady == 1)
	case Bishop:
		return adx == ady && adx != 0 && b.pathClear(p.Square, dx, dy)
	case Rook:
		return (dx == 0) != (dy == 0) && b.pathClear(p.Square, dx, dy)
	case Queen:
		line := adx == ady || dx == 0 || dy == 0
		return line && (dx != 0 || dy != 0) && b.pathClear(p.Square, dx, dy)
	}
	return false
}

// pathClear walks the raw straight line from start toward start+(dx,dy) in
// unit steps and checks every square strictly between the endpoints. Each
// intermediate square is normalized before the lookup, so in wraparound mode
// a slider can be blocked by a piece it meets after crossing an edge,
// including itself.
func (b *Board) pathClear(start Square, dx, dy int) bool {
	sx, sy := sign(dx), sign(dy)
	steps := max(abs(dx), abs(dy))
	for i := 1; i < steps; i++ {
		if b.occupied(start.Add(sx*i, sy*i)) {
			return false
		}
	}
	return true
}
