package rules

import "math/rand/v2"

var backRow = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// randomWeights are relative, not probabilities.
var randomWeights = []struct {
	kind   Kind
	weight int
}{
	{Pawn, 8},
	{Rook, 2},
	{Knight, 2},
	{Bishop, 2},
	{Queen, 1},
}

// NewBoard sets up a new game with white to move. rng is only consulted for
// random armies; a nil rng falls back to the global source.
func NewBoard(mode Mode, rng *rand.Rand) *Board {
	var pieces []Piece
	for _, side := range [...]Side{White, Black} {
		if mode.RandomArmies {
			pieces = append(pieces, RandomArmy(side, rng)...)
		} else {
			pieces = append(pieces, StandardArmy(side)...)
		}
	}
	b, err := NewPosition(mode, White, pieces)
	if err != nil {
		// Both armies are built on disjoint rows with unique IDs.
		panic(err)
	}
	return b
}

// StandardArmy is the canonical sixteen-piece layout of one side.
func StandardArmy(side Side) []Piece {
	pieces := make([]Piece, 0, 2*Size)
	counts := map[Kind]int{}
	for x, kind := range backRow {
		counts[kind]++
		pieces = append(pieces, Piece{
			ID:     pieceID(side, kind, counts[kind]),
			Kind:   kind,
			Side:   side,
			Square: Sq(x, side.backRank()),
		})
	}
	for x := 0; x < Size; x++ {
		pieces = append(pieces, Piece{
			ID:     pieceID(side, Pawn, x+1),
			Kind:   Pawn,
			Side:   side,
			Square: Sq(x, side.pawnRank()),
		})
	}
	return pieces
}

// RandomArmy keeps the king on its home square and fills the other fifteen
// home squares with independent weighted draws. Nothing limits how many of
// a kind appear; rooks keep their castling eligibility wherever they land.
func RandomArmy(side Side, rng *rand.Rand) []Piece {
	intn := rand.IntN
	if rng != nil {
		intn = rng.IntN
	}

	squares := make([]Square, 0, 2*Size-1)
	for x := 0; x < Size; x++ {
		if x != kingHomeFile {
			squares = append(squares, Sq(x, side.backRank()))
		}
	}
	for x := 0; x < Size; x++ {
		squares = append(squares, Sq(x, side.pawnRank()))
	}
	for i := len(squares) - 1; i > 0; i-- {
		j := intn(i + 1)
		squares[i], squares[j] = squares[j], squares[i]
	}

	total := 0
	for _, w := range randomWeights {
		total += w.weight
	}

	pieces := make([]Piece, 0, 2*Size)
	pieces = append(pieces, Piece{
		ID:     pieceID(side, King, 1),
		Kind:   King,
		Side:   side,
		Square: Sq(kingHomeFile, side.backRank()),
	})
	for n, sq := range squares {
		kind := drawKind(intn(total))
		pieces = append(pieces, Piece{
			ID:     pieceID(side, kind, n+1),
			Kind:   kind,
			Side:   side,
			Square: sq,
		})
	}
	return pieces
}

func drawKind(r int) Kind {
	for _, w := range randomWeights {
		if r < w.weight {
			return w.kind
		}
		r -= w.weight
	}
	return Pawn
}
