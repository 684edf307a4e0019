package rules

import (
	"fmt"
	"strings"
)

// Placement renders the piece-placement field of FEN: eight rows from the
// top, '/'-separated, digits for runs of empty squares, uppercase white.
func (b *Board) Placement() string {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		empty := 0
		for x := 0; x < Size; x++ {
			p := b.at(Sq(x, y))
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			c := p.Kind.Letter()
			if p.Side == White {
				c -= 'a' - 'A'
			}
			sb.WriteByte(c)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if y < Size-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// CastlingRights renders the FEN castling field from the moved flags of the
// kings and corner rooks. Attack state is not considered, as in FEN.
func (b *Board) CastlingRights() string {
	var sb strings.Builder
	for _, side := range [...]Side{White, Black} {
		king := b.at(Sq(kingHomeFile, side.backRank()))
		if king == nil || king.Kind != King || king.Side != side || king.Moved {
			continue
		}
		for _, w := range wings {
			rook := b.at(Sq(w.rookFile, side.backRank()))
			if rook == nil || rook.Kind != Rook || rook.Side != side || rook.Moved {
				continue
			}
			c := byte('k')
			if w.wing == QueenSide {
				c = 'q'
			}
			if side == White {
				c -= 'a' - 'A'
			}
			sb.WriteByte(c)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FEN renders the full position. There is no en passant in these rules and
// move counters are not tracked.
func (b *Board) FEN() string {
	turn := "w"
	if b.turn == Black {
		turn = "b"
	}
	return fmt.Sprintf("%s %s %s - 0 1", b.Placement(), turn, b.CastlingRights())
}

// ParseFEN imports a position. Only the placement, side-to-move and castling
// fields are used; the rest may be omitted. Kings and corner rooks are
// marked as moved unless the castling field grants them a right.
func ParseFEN(fen string, mode Mode) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadFEN)
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != Size {
		return nil, fmt.Errorf("%w: want %d rows, got %d", ErrBadFEN, Size, len(rows))
	}

	var pieces []Piece
	for y, row := range rows {
		x := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if c >= '1' && c <= '8' {
				x += int(c - '0')
				continue
			}
			kind, ok := kindFromLetter(c)
			if !ok {
				return nil, fmt.Errorf("%w: bad piece letter %q", ErrBadFEN, c)
			}
			if x >= Size {
				return nil, fmt.Errorf("%w: row %d too long", ErrBadFEN, y+1)
			}
			side := Black
			if c >= 'A' && c <= 'Z' {
				side = White
			}
			pieces = append(pieces, Piece{Kind: kind, Side: side, Square: Sq(x, y)})
			x++
		}
		if x != Size {
			return nil, fmt.Errorf("%w: row %d has %d squares", ErrBadFEN, y+1, x)
		}
	}

	turn := White
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			turn = Black
		default:
			return nil, fmt.Errorf("%w: side to move %q", ErrBadFEN, fields[1])
		}
	}
	rights := "-"
	if len(fields) > 2 {
		rights = fields[2]
	}
	for i := range pieces {
		pieces[i].Moved = !grantsCastling(pieces[i], rights)
		if pieces[i].Kind != King && pieces[i].Kind != Rook {
			pieces[i].Moved = false
		}
	}

	b, err := NewPosition(mode, turn, pieces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFEN, err)
	}
	return b, nil
}

func grantsCastling(p Piece, rights string) bool {
	if p.Square.Y != p.Side.backRank() {
		return false
	}
	k, q := "k", "q"
	if p.Side == White {
		k, q = "K", "Q"
	}
	switch {
	case p.Kind == King && p.Square.X == kingHomeFile:
		return strings.Contains(rights, k) || strings.Contains(rights, q)
	case p.Kind == Rook && p.Square.X == 7:
		return strings.Contains(rights, k)
	case p.Kind == Rook && p.Square.X == 0:
		return strings.Contains(rights, q)
	}
	return false
}
