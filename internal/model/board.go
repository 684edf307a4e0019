package model

import "github.com/benbeisheim/borderless-chess/internal/rules"

// BoardState is the grid view of a position sent to clients: Board[y][x],
// row 0 at the top.
type BoardState struct {
	Board             [][]*rules.Piece `json:"board"`
	BlackKingPosition *rules.Square    `json:"blackKingPosition"`
	WhiteKingPosition *rules.Square    `json:"whiteKingPosition"`
}

func newBoardState(b *rules.Board) *BoardState {
	state := &BoardState{}
	for y := 0; y < rules.Size; y++ {
		state.Board = append(state.Board, make([]*rules.Piece, rules.Size))
	}
	for _, p := range b.Pieces() {
		p := p
		state.Board[p.Square.Y][p.Square.X] = &p
	}
	if k, ok := b.King(rules.White); ok {
		state.WhiteKingPosition = &k.Square
	}
	if k, ok := b.King(rules.Black); ok {
		state.BlackKingPosition = &k.Square
	}
	return state
}
