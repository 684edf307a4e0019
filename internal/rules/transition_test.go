package rules

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestPromotionKeepsIdentity(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		mode     Mode
		from, to string
	}{
		{"white pawn reaches row 0", "8/P6k/8/8/8/8/8/K7 w - -", standard, "a7", "a8"},
		{"black pawn reaches row 7", "k7/8/8/8/8/8/6p1/K7 b - -", standard, "g2", "g1"},
		{"wrapped capture onto the last row", "r3k3/7P/8/8/8/8/8/4K3 w - -", wraparound, "h7", "a8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustFEN(t, tt.fen, tt.mode)
			pawn, _ := b.PieceAt(sq(t, tt.from))
			next, m, err := b.Play(sq(t, tt.from), sq(t, tt.to))
			if err != nil {
				t.Fatalf("play: %v", err)
			}
			if m.Promotion != Queen {
				t.Errorf("move promotion = %s, want queen", m.Promotion)
			}
			got, ok := next.PieceByID(pawn.ID)
			if !ok {
				t.Fatalf("piece %s disappeared", pawn.ID)
			}
			if got.Kind != Queen || got.Square != sq(t, tt.to) {
				t.Errorf("promoted piece = %+v", got)
			}
		})
	}
}

func TestPromotionGivesCheck(t *testing.T) {
	b := mustFEN(t, "k7/8/8/8/8/8/6p1/K7 b - -", standard)
	next := play(t, b, "g2g1")
	if !next.InCheck(White) {
		t.Fatal("new queen on g1 should check a1")
	}
	if s := next.Status(); s != Check {
		t.Fatalf("status = %s, want check", s)
	}
}

func TestApplyCapture(t *testing.T) {
	b := mustFEN(t, "r3k3/7P/8/8/8/8/8/4K3 w - -", wraparound)
	rook, _ := b.PieceAt(sq(t, "a8"))
	next, m, err := b.Play(sq(t, "h7"), sq(t, "a8"))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if m.Captured != rook.ID {
		t.Errorf("captured = %q, want %q", m.Captured, rook.ID)
	}
	if _, ok := next.PieceByID(rook.ID); ok {
		t.Error("captured rook is still on the board")
	}
	if got := next.Count(Black); got != 1 {
		t.Errorf("black has %d pieces, want 1", got)
	}
	if got := b.Count(Black); got != 2 {
		t.Errorf("original board changed: black has %d pieces", got)
	}
}

func TestApplyLeavesReceiverUntouched(t *testing.T) {
	b := NewBoard(standard, nil)
	before := b.FEN()
	next := play(t, b, "e2e4")
	if b.FEN() != before {
		t.Fatalf("receiver changed to %q", b.FEN())
	}
	if next.FEN() == before {
		t.Fatal("new board equals the old one")
	}
	p, _ := next.PieceAt(sq(t, "e4"))
	if !p.Moved {
		t.Error("moved flag not set")
	}
}

func TestResolveRejects(t *testing.T) {
	b := mustFEN(t, "4k3/4r3/8/8/8/8/4N3/4K3 w - -", standard)
	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"empty square", "d4", "d5", ErrEmptySquare},
		{"opponent's piece", "e7", "e6", ErrNotYourTurn},
		{"pinned piece", "e2", "c3", ErrIllegalMove},
		{"not a knight move", "e2", "e4", ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Resolve(sq(t, tt.from), sq(t, tt.to))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if _, err := b.Apply(Move{From: sq(t, tt.from), To: sq(t, tt.to)}); !errors.Is(err, tt.want) {
				t.Fatalf("Apply err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := b.Resolve(sq(t, "e1"), Sq(8, 7)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("off-board destination err = %v", err)
	}
}

func TestResolveNormalizesWrappedDestination(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/R2P4/8/8/8/4K3 w - -", wraparound)
	m, err := b.Resolve(sq(t, "a5"), Sq(-1, 3))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if m.To != sq(t, "h5") {
		t.Fatalf("destination = %v, want h5", m.To)
	}
}

// Random games in every mode: no committed board may leave the side that
// just moved in check, and every generated move must apply.
func TestRandomGamesStayCheckSafe(t *testing.T) {
	modes := []Mode{
		{},
		{Wraparound: true},
		{RandomArmies: true},
		{Wraparound: true, RandomArmies: true},
	}
	for _, mode := range modes {
		for seed := uint64(1); seed <= 3; seed++ {
			rng := rand.New(rand.NewPCG(seed, 7))
			b := NewBoard(mode, rng)
			for ply := 0; ply < 40; ply++ {
				moves := b.LegalMoves(b.Turn())
				if len(moves) == 0 {
					if b.AnyLegalMove(b.Turn()) {
						t.Fatalf("mode %+v seed %d: AnyLegalMove disagrees with LegalMoves", mode, seed)
					}
					if !b.Status().Terminal() {
						t.Fatalf("mode %+v seed %d: no moves but status %s", mode, seed, b.Status())
					}
					break
				}
				m := moves[rng.IntN(len(moves))]
				mover := b.Turn()
				next, err := b.Apply(m)
				if err != nil {
					t.Fatalf("mode %+v seed %d: apply %s on %s: %v", mode, seed, m, b.FEN(), err)
				}
				if next.InCheck(mover) {
					t.Fatalf("mode %+v seed %d: %s left %s in check: %s", mode, seed, m, mover, next.FEN())
				}
				if next.Turn() != mover.Opponent() {
					t.Fatalf("turn did not flip after %s", m)
				}
				b = next
			}
		}
	}
}
