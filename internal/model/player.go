package model

import "github.com/benbeisheim/borderless-chess/internal/rules"

// Opponent selects who plays black.
type Opponent string

const (
	// OpponentLocal: the creator plays both sides from one client.
	OpponentLocal Opponent = "local"
	// OpponentEngine: the creator plays white against the suggestion engine.
	OpponentEngine Opponent = "engine"
)

// EnginePlayerID is the player id shown for the engine's side.
const EnginePlayerID = "engine"

type ClientPlayer struct {
	ID     string     `json:"name"`
	Color  rules.Side `json:"color"`
	Engine bool       `json:"engine"`
	Moves  int        `json:"moves"`
}
