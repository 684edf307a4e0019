// Package rules decides move legality and game termination for standard
// chess and its variants: wraparound ("borderless") boards where pieces may
// leave one side edge and re-enter on the other, and randomized starting
// armies. Every query is a pure function of a Board value.
package rules

import "fmt"

type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white", "w":
		*s = White
	case "black", "b":
		*s = Black
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// forward is the row delta of a pawn step. White starts at the bottom of
// the board (rows 6-7) and moves toward row 0.
func (s Side) forward() int {
	if s == White {
		return -1
	}
	return 1
}

func (s Side) backRank() int {
	if s == White {
		return 7
	}
	return 0
}

func (s Side) pawnRank() int {
	if s == White {
		return 6
	}
	return 1
}

// promotionRank is the farthest row in the side's forward direction.
func (s Side) promotionRank() int {
	if s == White {
		return 0
	}
	return 7
}

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name != "" && name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", text)
}

// Letter is the lowercase piece letter used by placement notation.
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	}
	return '?'
}

func kindFromLetter(c byte) (Kind, bool) {
	switch c | 0x20 {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	}
	return NoKind, false
}

// Mode is fixed for the lifetime of a game and threaded through every rules
// query.
type Mode struct {
	Wraparound   bool `json:"wraparound"`
	RandomArmies bool `json:"randomArmies"`
}

// Piece identity survives relocation and promotion. IDs are never reused
// within a game.
type Piece struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"type"`
	Side   Side   `json:"color"`
	Square Square `json:"position"`
	Moved  bool   `json:"hasMoved"`
}

type Wing uint8

const (
	KingSide Wing = iota
	QueenSide
)

func (w Wing) String() string {
	if w == KingSide {
		return "king-side"
	}
	return "queen-side"
}

// Castling describes a castling move for one wing. The king and the rook are
// relocated together by Apply.
type Castling struct {
	Wing     Wing   `json:"wing"`
	KingFrom Square `json:"kingFrom"`
	KingTo   Square `json:"kingTo"`
	RookID   string `json:"rookId"`
	RookFrom Square `json:"rookFrom"`
	RookTo   Square `json:"rookTo"`
}

// Move is a resolved move: From/To plus whatever Apply needs to know about
// it. Build one with Board.Resolve; Apply re-resolves From/To and ignores
// annotations that disagree with the board.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	PieceID   string    `json:"pieceId,omitempty"`
	Captured  string    `json:"captured,omitempty"`
	Promotion Kind      `json:"promotion,omitempty"`
	Castle    *Castling `json:"castle,omitempty"`
}

// UCI renders the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Letter())
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Terminal reports whether the side to move has no legal move.
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}
