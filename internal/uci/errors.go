package uci

import "errors"

var (
	ErrEngineClosed  = errors.New("engine is closed")
	ErrNoMove        = errors.New("engine returned no move")
	ErrMalformedMove = errors.New("malformed move from engine")
	ErrLevelRange    = errors.New("difficulty level out of range")
)
