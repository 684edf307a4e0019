package rules

import "fmt"

const Size = 8

// Square is a board coordinate. X is the file (0 = a), Y is the row counted
// from the top of the board (0 = rank 8). In wraparound mode intermediate
// computations use raw coordinates outside [0,8); they are normalized before
// any occupancy lookup.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Sq(x, y int) Square {
	return Square{X: x, Y: y}
}

func (s Square) InBounds() bool {
	return s.X >= 0 && s.X < Size && s.Y >= 0 && s.Y < Size
}

func (s Square) Normalize() Square {
	return Square{X: wrap(s.X), Y: wrap(s.Y)}
}

func (s Square) Add(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

// String returns the algebraic name of an on-board square ("e2").
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.X, s.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+s.X, Size-s.Y)
}

func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, name)
	}
	file, rank := name[0]|0x20, name[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, name)
	}
	return Square{X: int(file - 'a'), Y: Size - int(rank-'0')}, nil
}

func wrap(v int) int {
	return ((v % Size) + Size) % Size
}

// crossesForbiddenEdge reports whether a raw move from an on-board square
// passes through the side's own back edge: below row 7 for white, above
// row 0 for black. Purely horizontal travel never crosses it.
func crossesForbiddenEdge(side Side, from, raw Square) bool {
	if raw.Y == from.Y {
		return false
	}
	if side == White {
		return (from.Y <= 7 && raw.Y > 7) || (from.Y > 7 && raw.Y <= 7)
	}
	return (from.Y >= 0 && raw.Y < 0) || (from.Y < 0 && raw.Y >= 0)
}

// admits applies the common board-edge preconditions of a raw destination.
func (m Mode) admits(side Side, from, raw Square) bool {
	if !m.Wraparound {
		return raw.InBounds()
	}
	return !crossesForbiddenEdge(side, from, raw)
}

// representatives lists the raw coordinates of an on-board square that a
// piece may aim at: the square itself, plus in wraparound mode its images one
// board away in every direction. This matches the [-8,16) scan window.
func (m Mode) representatives(sq Square) []Square {
	if !m.Wraparound {
		return []Square{sq}
	}
	out := make([]Square, 0, 9)
	for _, dy := range [...]int{0, -Size, Size} {
		for _, dx := range [...]int{0, -Size, Size} {
			out = append(out, sq.Add(dx, dy))
		}
	}
	return out
}

// scanWindow is the raw search space of the move generator.
func (m Mode) scanWindow() (lo, hi int) {
	if m.Wraparound {
		return -Size, 2 * Size
	}
	return 0, Size
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
