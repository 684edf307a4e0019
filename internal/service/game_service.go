package service

import (
	"github.com/benbeisheim/borderless-chess/internal/model"
	"github.com/benbeisheim/borderless-chess/internal/rules"
	"github.com/benbeisheim/borderless-chess/internal/uci"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(playerID string, opts model.GameOptions) (model.GameState, error) {
	game, err := gs.gameManager.CreateGame(playerID, opts)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, from rules.Square) ([]rules.Square, error) {
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) HandleMove(gameID, playerID string, req model.MoveRequest) (model.GameState, error) {
	from, to, err := req.Squares()
	if err != nil {
		return model.GameState{}, err
	}
	return gs.gameManager.MakeMove(gameID, playerID, from, to)
}

func (gs *GameService) Resign(gameID, playerID string) (model.GameState, error) {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) Difficulties() []uci.Tier {
	return uci.Tiers()
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
