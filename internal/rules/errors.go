package rules

import "errors"

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrEmptySquare  = errors.New("no piece at from square")
	ErrNotYourTurn  = errors.New("piece does not belong to the side to move")
	ErrBadSquare    = errors.New("invalid square")
	ErrBadFEN       = errors.New("invalid FEN")
	ErrBadPosition  = errors.New("invalid position")
	ErrMissingPiece = errors.New("piece not found")
)
