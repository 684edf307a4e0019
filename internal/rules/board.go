package rules

import (
	"fmt"
	"sort"
)

// Board is a committed position. It is never modified after construction;
// Apply returns a new Board, and legality simulation works on private
// copies.
type Board struct {
	pieces []Piece
	index  [Size][Size]int8 // 1 + position in pieces, 0 when empty
	turn   Side
	mode   Mode
}

// NewPosition builds a board from an arbitrary piece list, e.g. a puzzle or a
// position imported from FEN. Pieces without an ID get one.
func NewPosition(mode Mode, turn Side, pieces []Piece) (*Board, error) {
	b := &Board{
		pieces: make([]Piece, 0, len(pieces)),
		turn:   turn,
		mode:   mode,
	}
	ids := map[string]bool{}
	kings := map[Side]int{}
	counters := map[Side]int{}
	for _, p := range pieces {
		if p.Kind == NoKind || p.Kind > King {
			return nil, fmt.Errorf("%w: piece %q has no kind", ErrBadPosition, p.ID)
		}
		if !p.Square.InBounds() {
			return nil, fmt.Errorf("%w: %s off the board at %v", ErrBadPosition, p.Kind, p.Square)
		}
		if b.index[p.Square.Y][p.Square.X] != 0 {
			return nil, fmt.Errorf("%w: two pieces on %s", ErrBadPosition, p.Square)
		}
		if p.Kind == Pawn && p.Square.Y == p.Side.promotionRank() {
			return nil, fmt.Errorf("%w: %s pawn on its promotion rank", ErrBadPosition, p.Side)
		}
		if p.Kind == King {
			kings[p.Side]++
			if kings[p.Side] > 1 {
				return nil, fmt.Errorf("%w: more than one %s king", ErrBadPosition, p.Side)
			}
		}
		if p.ID == "" {
			for p.ID == "" || ids[p.ID] {
				counters[p.Side]++
				p.ID = pieceID(p.Side, p.Kind, counters[p.Side])
			}
		}
		if ids[p.ID] {
			return nil, fmt.Errorf("%w: duplicate piece id %q", ErrBadPosition, p.ID)
		}
		ids[p.ID] = true
		b.pieces = append(b.pieces, p)
		b.index[p.Square.Y][p.Square.X] = int8(len(b.pieces))
	}
	return b, nil
}

func pieceID(side Side, kind Kind, n int) string {
	prefix := "w"
	if side == Black {
		prefix = "b"
	}
	return fmt.Sprintf("%s%c%d", prefix, kind.Letter(), n)
}

func (b *Board) Mode() Mode {
	return b.mode
}

func (b *Board) Turn() Side {
	return b.turn
}

// Pieces returns a copy of the pieces ordered by square, top-left first.
func (b *Board) Pieces() []Piece {
	out := make([]Piece, 0, len(b.pieces))
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if i := b.index[y][x]; i != 0 {
				out = append(out, b.pieces[i-1])
			}
		}
	}
	return out
}

// PieceAt looks up a square. Raw coordinates are normalized in wraparound
// mode and rejected otherwise.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	if !sq.InBounds() {
		if !b.mode.Wraparound {
			return Piece{}, false
		}
		sq = sq.Normalize()
	}
	if p := b.at(sq); p != nil {
		return *p, true
	}
	return Piece{}, false
}

func (b *Board) PieceByID(id string) (Piece, bool) {
	for _, p := range b.pieces {
		if p.ID == id {
			return p, true
		}
	}
	return Piece{}, false
}

func (b *Board) King(side Side) (Piece, bool) {
	for _, p := range b.pieces {
		if p.Kind == King && p.Side == side {
			return p, true
		}
	}
	return Piece{}, false
}

// Count returns the number of pieces a side has on the board.
func (b *Board) Count(side Side) int {
	n := 0
	for _, p := range b.pieces {
		if p.Side == side {
			n++
		}
	}
	return n
}

// at expects a normalized square.
func (b *Board) at(sq Square) *Piece {
	if i := b.index[sq.Y][sq.X]; i != 0 {
		return &b.pieces[i-1]
	}
	return nil
}

func (b *Board) occupied(raw Square) bool {
	return b.at(raw.Normalize()) != nil
}

func (b *Board) clone() *Board {
	c := *b
	c.pieces = make([]Piece, len(b.pieces))
	copy(c.pieces, b.pieces)
	return &c
}

// relocate moves the piece on from to the normalized destination, dropping
// whatever stood there. Only used on clones.
func (b *Board) relocate(from, to Square) (moved *Piece, captured *Piece) {
	to = to.Normalize()
	var taken Piece
	hadCapture := false
	if victim := b.at(to); victim != nil && victim.Square != from {
		taken = *victim
		hadCapture = true
		b.removeAt(to)
	}
	p := b.at(from)
	b.index[from.Y][from.X] = 0
	p.Square = to
	p.Moved = true
	b.index[to.Y][to.X] = int8(b.indexOf(p.ID) + 1)
	if hadCapture {
		return p, &taken
	}
	return p, nil
}

func (b *Board) removeAt(sq Square) {
	i := b.index[sq.Y][sq.X]
	if i == 0 {
		return
	}
	b.pieces = append(b.pieces[:i-1], b.pieces[i:]...)
	b.reindex()
}

func (b *Board) indexOf(id string) int {
	for i := range b.pieces {
		if b.pieces[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) reindex() {
	b.index = [Size][Size]int8{}
	for i, p := range b.pieces {
		b.index[p.Square.Y][p.Square.X] = int8(i + 1)
	}
}

func (b *Board) sideSquares(side Side) []Square {
	out := make([]Square, 0, 16)
	for _, p := range b.pieces {
		if p.Side == side {
			out = append(out, p.Square)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
