package uci

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Event
	}{
		{"id name Stockfish 16", Event{Type: EventID, Key: "name", Value: "Stockfish 16"}},
		{"uciok", Event{Type: EventUCIOK}},
		{"readyok", Event{Type: EventReadyOK}},
		{"bestmove e7e5", Event{Type: EventBestMove, Move: "e7e5"}},
		{"bestmove e7e5 ponder g1f3", Event{Type: EventBestMove, Move: "e7e5", Ponder: "g1f3"}},
		{"info depth 3 score cp 12", Event{Type: EventInfo, Raw: "info depth 3 score cp 12"}},
		{"option name Hash type spin", Event{Type: EventUnknown, Raw: "option name Hash type spin"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if err != nil {
				t.Fatalf("ParseLine: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineRejects(t *testing.T) {
	for _, line := range []string{"", "   ", "bestmove", "id name"} {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q) succeeded", line)
		}
	}
}

func TestReaderSkipsBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("\n\nreadyok\n  \nbestmove a7a6\n"))

	first, err := r.Next()
	if err != nil || first.Type != EventReadyOK {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, err := r.Next()
	if err != nil || second.Move != "a7a6" {
		t.Fatalf("second = %+v, %v", second, err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
}
