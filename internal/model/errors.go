package model

import "errors"

var (
	ErrGameOver       = errors.New("game is over")
	ErrNotAPlayer     = errors.New("player not in game")
	ErrEngineTurn     = errors.New("waiting for the engine to move")
	ErrNotEngineGame  = errors.New("game has no engine opponent")
	ErrInvalidOptions = errors.New("invalid game options")
)
