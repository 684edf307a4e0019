package rules

import (
	"testing"
)

var (
	standard   = Mode{}
	wraparound = Mode{Wraparound: true}
)

func mustFEN(t *testing.T, fen string, mode Mode) *Board {
	t.Helper()
	b, err := ParseFEN(fen, mode)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return b
}

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("square %q: %v", name, err)
	}
	return s
}

func play(t *testing.T, b *Board, moves ...string) *Board {
	t.Helper()
	for _, m := range moves {
		next, _, err := b.Play(sq(t, m[:2]), sq(t, m[2:4]))
		if err != nil {
			t.Fatalf("play %s on %s: %v", m, b.FEN(), err)
		}
		b = next
	}
	return b
}

func squareNames(sqs []Square) []string {
	out := make([]string, len(sqs))
	for i, s := range sqs {
		out[i] = s.String()
	}
	return out
}
