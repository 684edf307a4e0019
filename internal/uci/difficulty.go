package uci

import (
	"fmt"
	"time"
)

const (
	MinLevel = 1
	MaxLevel = 20
)

var tierNames = [...]string{
	"Beginner",
	"Club Beginner",
	"Intermediate Club Player",
	"Advanced Club Player",
	"Candidate Master",
	"FIDE Master",
	"International Master",
	"Grandmaster",
	"Super Grandmaster",
	"Superhuman",
}

// Tier is the presentation side of a difficulty level. It has no meaning
// inside the rules; the level is only passed on to the engine.
type Tier struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Elo   int    `json:"elo"`
}

func TierFor(level int) (Tier, error) {
	if level < MinLevel || level > MaxLevel {
		return Tier{}, fmt.Errorf("%w: %d not in [%d,%d]", ErrLevelRange, level, MinLevel, MaxLevel)
	}
	return Tier{
		Level: level,
		Name:  tierNames[(level-1)/2],
		Elo:   1000 + 100*level,
	}, nil
}

func Tiers() []Tier {
	out := make([]Tier, 0, MaxLevel)
	for level := MinLevel; level <= MaxLevel; level++ {
		t, _ := TierFor(level)
		out = append(out, t)
	}
	return out
}

// Describe returns the tier name, optionally with its estimated rating.
func (t Tier) Describe(withElo bool) string {
	if withElo {
		return fmt.Sprintf("%s (Elo ~%d)", t.Name, t.Elo)
	}
	return t.Name
}

// ThinkingTime is the engine's per-move cap: one second per depth step,
// depth scaling from 1 to 16 across the level range.
func (t Tier) ThinkingTime() time.Duration {
	depth := t.Level*15/MaxLevel + 1
	return time.Duration(depth) * time.Second
}

// Describe maps a level straight to its label.
func Describe(level int, withElo bool) (string, error) {
	t, err := TierFor(level)
	if err != nil {
		return "", err
	}
	return t.Describe(withElo), nil
}
