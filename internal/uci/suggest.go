package uci

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/borderless-chess/internal/rules"
)

// RejectedError reports an engine reply that did not name a legal move for
// the engine's side. The board is left as it was.
type RejectedError struct {
	Move string
	Err  error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("engine suggested %q: %v", e.Move, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// Suggester asks an Oracle for moves on behalf of one side and checks the
// reply against the rules before handing it back.
type Suggester struct {
	oracle   Oracle
	side     rules.Side
	moveTime time.Duration
}

// NewSuggester returns a suggester playing black, the side the engine is
// always told it is moving for.
func NewSuggester(oracle Oracle, moveTime time.Duration) *Suggester {
	return &Suggester{oracle: oracle, side: rules.Black, moveTime: moveTime}
}

func (s *Suggester) Side() rules.Side {
	return s.side
}

// Position serializes the board for the engine. The side-to-move field is
// always black, whatever the real turn is.
func (s *Suggester) Position(b *rules.Board) string {
	return fmt.Sprintf("%s b %s - 0 1", b.Placement(), b.CastlingRights())
}

// Suggest requests one move and validates it. Rejections are returned as
// *RejectedError so the caller can decide whether to ask again.
func (s *Suggester) Suggest(ctx context.Context, b *rules.Board) (rules.Move, error) {
	if b.Turn() != s.side {
		return rules.Move{}, fmt.Errorf("suggest for %s: %w", s.side, rules.ErrNotYourTurn)
	}
	reply, err := s.oracle.BestMove(ctx, s.Position(b), s.moveTime)
	if err != nil {
		return rules.Move{}, err
	}
	return s.check(b, reply)
}

func (s *Suggester) check(b *rules.Board, reply string) (rules.Move, error) {
	from, to, err := ParseMove(reply)
	if err != nil {
		return rules.Move{}, &RejectedError{Move: reply, Err: err}
	}
	p, ok := b.PieceAt(from)
	if !ok {
		return rules.Move{}, &RejectedError{Move: reply, Err: rules.ErrEmptySquare}
	}
	if p.Side != s.side {
		return rules.Move{}, &RejectedError{Move: reply, Err: rules.ErrNotYourTurn}
	}
	m, err := b.Resolve(from, to)
	if err != nil {
		return rules.Move{}, &RejectedError{Move: reply, Err: err}
	}
	return m, nil
}

// ParseMove reads coordinate notation ("e7e5", "e7e8q"). A promotion suffix
// is accepted but ignored: pawns always become queens.
func ParseMove(s string) (from, to rules.Square, err error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && !(len(s) == 5 && strings.ContainsRune("qrbn", rune(s[4]))) {
		return from, to, fmt.Errorf("%w: %q", ErrMalformedMove, s)
	}
	from, err = rules.ParseSquare(s[0:2])
	if err != nil {
		return from, to, errors.Join(ErrMalformedMove, err)
	}
	to, err = rules.ParseSquare(s[2:4])
	if err != nil {
		return from, to, errors.Join(ErrMalformedMove, err)
	}
	return from, to, nil
}
