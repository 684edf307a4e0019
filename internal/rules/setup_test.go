package rules

import (
	"math/rand/v2"
	"testing"
)

func TestStandardSetup(t *testing.T) {
	b := NewBoard(standard, nil)
	if got := b.Placement(); got != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("placement = %q", got)
	}
	if b.Turn() != White {
		t.Fatal("white moves first")
	}
	ids := map[string]bool{}
	for _, p := range b.Pieces() {
		if ids[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		ids[p.ID] = true
		if p.Moved {
			t.Fatalf("%s starts as moved", p.ID)
		}
	}
	if len(ids) != 32 {
		t.Fatalf("%d pieces, want 32", len(ids))
	}
}

func TestRandomArmies(t *testing.T) {
	allowed := map[Kind]bool{Pawn: true, Rook: true, Knight: true, Bishop: true, Queen: true}
	for seed := uint64(0); seed < 50; seed++ {
		b := NewBoard(Mode{RandomArmies: true}, rand.New(rand.NewPCG(seed, seed)))
		for _, side := range []Side{White, Black} {
			if got := b.Count(side); got != 16 {
				t.Fatalf("seed %d: %s has %d pieces, want 16", seed, side, got)
			}
			king, ok := b.King(side)
			if !ok {
				t.Fatalf("seed %d: %s has no king", seed, side)
			}
			if king.Square != Sq(kingHomeFile, side.backRank()) || king.Moved {
				t.Fatalf("seed %d: %s king = %+v", seed, side, king)
			}
		}
		kings := 0
		for _, p := range b.Pieces() {
			if p.Kind == King {
				kings++
				continue
			}
			if !allowed[p.Kind] {
				t.Fatalf("seed %d: unexpected kind %s", seed, p.Kind)
			}
			if p.Square.Y != p.Side.backRank() && p.Square.Y != p.Side.pawnRank() {
				t.Fatalf("seed %d: %s outside its home rows", seed, p.ID)
			}
		}
		if kings != 2 {
			t.Fatalf("seed %d: %d kings", seed, kings)
		}
	}
}

func TestRandomArmiesAreReproducible(t *testing.T) {
	a := NewBoard(Mode{RandomArmies: true}, rand.New(rand.NewPCG(42, 1)))
	b := NewBoard(Mode{RandomArmies: true}, rand.New(rand.NewPCG(42, 1)))
	if a.Placement() != b.Placement() {
		t.Fatalf("same seed, different armies: %q vs %q", a.Placement(), b.Placement())
	}
}

func TestDrawKindFollowsWeights(t *testing.T) {
	counts := map[Kind]int{}
	for r := 0; r < 15; r++ {
		counts[drawKind(r)]++
	}
	want := map[Kind]int{Pawn: 8, Rook: 2, Knight: 2, Bishop: 2, Queen: 1}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("%s drawn for %d of 15 values, want %d", k, counts[k], n)
		}
	}
}
