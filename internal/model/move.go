package model

import (
	"fmt"

	"github.com/benbeisheim/borderless-chess/internal/rules"
)

// MoveRequest is a move as sent by a client: either square objects or a
// coordinate string such as "e2e4".
type MoveRequest struct {
	From rules.Square `json:"from"`
	To   rules.Square `json:"to"`
	UCI  string       `json:"uci,omitempty"`
}

func (r MoveRequest) Squares() (from, to rules.Square, err error) {
	if r.UCI == "" {
		return r.From, r.To, nil
	}
	if len(r.UCI) < 4 {
		return from, to, fmt.Errorf("%w: %q", rules.ErrBadSquare, r.UCI)
	}
	if from, err = rules.ParseSquare(r.UCI[:2]); err != nil {
		return from, to, err
	}
	to, err = rules.ParseSquare(r.UCI[2:4])
	return from, to, err
}

type CastleRookMove struct {
	From rules.Square `json:"from"`
	To   rules.Square `json:"to"`
}

type Ply struct {
	Piece          rules.Piece     `json:"piece"`
	From           rules.Square    `json:"from"`
	To             rules.Square    `json:"to"`
	CapturedPiece  *rules.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      rules.Kind      `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

// Move pairs a white ply with black's reply; BlackPly is nil until black
// has moved.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From rules.Square `json:"from"`
	To   rules.Square `json:"to"`
}
