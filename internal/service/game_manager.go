// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbeisheim/borderless-chess/internal/archive"
	"github.com/benbeisheim/borderless-chess/internal/model"
	"github.com/benbeisheim/borderless-chess/internal/rules"
	"github.com/benbeisheim/borderless-chess/internal/uci"
	"github.com/google/uuid"
)

// Oracles hands out a move oracle for a difficulty level.
type Oracles interface {
	AtLevel(level int) uci.Oracle
}

// Archiver stores finished games.
type Archiver interface {
	WriteGame(rec archive.Record) (string, error)
}

type ManagerOptions struct {
	// Oracles is nil when no engine is configured; engine games then play
	// random legal moves.
	Oracles  Oracles
	MoveTime time.Duration
	Retries  int
	Archive  Archiver
}

type GameManager struct {
	games map[string]*model.Game
	mu    sync.RWMutex

	oracles  Oracles
	moveTime time.Duration
	retries  int
	archive  Archiver

	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

func NewGameManager(opts ManagerOptions) *GameManager {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.MoveTime <= 0 {
		opts.MoveTime = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &GameManager{
		games:    make(map[string]*model.Game),
		oracles:  opts.Oracles,
		moveTime: opts.MoveTime,
		retries:  opts.Retries,
		archive:  opts.Archive,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close stops pending engine turns and waits for them and for archive
// writes to finish.
func (gm *GameManager) Close() {
	gm.cancel()
	gm.pending.Wait()
}

// Wait blocks until background work started so far is done.
func (gm *GameManager) Wait() {
	gm.pending.Wait()
}

func (gm *GameManager) CreateGame(playerID string, opts model.GameOptions) (*model.Game, error) {
	gameID := uuid.New().String()
	game, err := model.NewGame(gameID, playerID, opts, nil)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	gm.mu.Unlock()
	log.Printf("game %s created by %s (opponent %s, mode %+v)", gameID, playerID, game.Options().Opponent, opts.Mode)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from rules.Square) ([]rules.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gm *GameManager) MakeMove(gameID, playerID string, from, to rules.Square) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if _, err := game.MakeMove(playerID, from, to); err != nil {
		return model.GameState{}, err
	}
	gm.afterMove(game)
	return game.GetState(), nil
}

func (gm *GameManager) Resign(gameID, playerID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.Resign(playerID); err != nil {
		return model.GameState{}, err
	}
	gm.afterMove(game)
	return game.GetState(), nil
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// afterMove archives a finished game or hands the turn to the engine.
func (gm *GameManager) afterMove(game *model.Game) {
	switch {
	case game.IsOver():
		gm.archiveGame(game)
	case game.EngineToMove():
		gm.pending.Add(1)
		go func() {
			defer gm.pending.Done()
			gm.playEngineTurn(game)
		}()
	}
}

// playEngineTurn asks the oracle for a move up to the retry limit. Rejected
// suggestions are retried; transport failures and exhausted retries fall
// back to a random legal move so the game never stalls.
func (gm *GameManager) playEngineTurn(game *model.Game) {
	game.SetEngineThinking(true)
	if gm.oracles != nil {
		suggester := uci.NewSuggester(gm.oracles.AtLevel(game.Options().Difficulty), gm.moveTime)
		for attempt := 1; attempt <= gm.retries; attempt++ {
			ctx, cancel := context.WithTimeout(gm.ctx, gm.moveTime+5*time.Second)
			m, err := suggester.Suggest(ctx, game.Board())
			cancel()
			if err == nil {
				err = game.MakeEngineMove(m)
			}
			if err == nil {
				gm.afterMove(game)
				return
			}
			log.Printf("game %s: engine attempt %d/%d: %v", game.ID, attempt, gm.retries, err)
			var rejected *uci.RejectedError
			if !errors.As(err, &rejected) {
				break
			}
		}
	}
	if gm.ctx.Err() != nil {
		return
	}
	if err := gm.playRandomMove(game); err != nil {
		log.Printf("game %s: fallback move: %v", game.ID, err)
		game.SetEngineThinking(false)
		return
	}
	gm.afterMove(game)
}

func (gm *GameManager) playRandomMove(game *model.Game) error {
	board := game.Board()
	moves := board.LegalMoves(board.Turn())
	if len(moves) == 0 {
		return errors.New("no legal moves")
	}
	return game.MakeEngineMove(moves[rand.IntN(len(moves))])
}

func (gm *GameManager) archiveGame(game *model.Game) {
	if gm.archive == nil {
		return
	}
	rec := recordFor(game)
	gm.pending.Add(1)
	go func() {
		defer gm.pending.Done()
		if _, err := gm.archive.WriteGame(rec); err != nil {
			log.Printf("game %s: archive: %v", game.ID, err)
		}
	}()
}

func recordFor(game *model.Game) archive.Record {
	state := game.GetState()
	opts := game.Options()
	rec := archive.Record{
		GameID:       game.ID,
		Wraparound:   opts.Mode.Wraparound,
		RandomArmies: opts.Mode.RandomArmies,
		Opponent:     string(opts.Opponent),
		Difficulty:   int32(opts.Difficulty),
		StartFEN:     game.StartFEN(),
		FinalFEN:     state.FEN,
		MoveCount:    int32(state.Players.White.Moves + state.Players.Black.Moves),
		DurationMS:   state.DurationMS,
		FinishedAt:   game.FinishedAt().UnixMilli(),
	}
	if state.Resolve != nil {
		rec.Result = *state.Resolve
	}
	if state.Winner != nil {
		rec.Winner = state.Winner.String()
	}
	ply := int32(0)
	add := func(p *model.Ply) {
		if p == nil {
			return
		}
		ply++
		r := archive.PlyRecord{
			Ply:      ply,
			Side:     p.Piece.Side.String(),
			UCI:      p.Notation,
			Piece:    p.Piece.ID,
			Castle:   p.CastleRookMove != nil,
			Promoted: p.Promotion != rules.NoKind,
		}
		if p.CapturedPiece != nil {
			r.Captured = p.CapturedPiece.ID
		}
		rec.Plies = append(rec.Plies, r)
	}
	for _, m := range state.MoveHistory {
		add(m.WhitePly)
		add(m.BlackPly)
	}
	return rec
}
