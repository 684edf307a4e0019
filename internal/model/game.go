package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbeisheim/borderless-chess/internal/rules"
	"github.com/benbeisheim/borderless-chess/internal/uci"
	"github.com/benbeisheim/borderless-chess/internal/ws"
	"github.com/gofiber/websocket/v2"
)

const (
	ResultCheckmate   = "checkmate"
	ResultStalemate   = "stalemate"
	ResultResignation = "resignation"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

type GameOptions struct {
	Mode       rules.Mode `json:"mode"`
	Opponent   Opponent   `json:"opponent"`
	Difficulty int        `json:"difficulty"`
}

func (o *GameOptions) normalize() error {
	switch o.Opponent {
	case "":
		o.Opponent = OpponentLocal
	case OpponentLocal, OpponentEngine:
	default:
		return fmt.Errorf("%w: unknown opponent %q", ErrInvalidOptions, o.Opponent)
	}
	if o.Opponent == OpponentLocal {
		o.Difficulty = 0
		return nil
	}
	if _, err := uci.TierFor(o.Difficulty); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// The Game struct focuses on a single game's state and its observers. The
// committed position is replaced, never modified, on each move.
type Game struct {
	ID          string
	mu          sync.Mutex
	options     GameOptions
	creator     string
	start       *rules.Board
	board       *rules.Board
	state       GameState
	connections *GameConnections
	stopwatch   *Stopwatch
	createdAt   time.Time
	finishedAt  time.Time
}

type GameState struct {
	ID             string         `json:"id"`
	Sound          string         `json:"sound"`
	Board          *BoardState    `json:"boardState"`
	FEN            string         `json:"fen"`
	Mode           rules.Mode     `json:"mode"`
	Opponent       Opponent       `json:"opponent"`
	Difficulty     *uci.Tier      `json:"difficulty"`
	ToMove         rules.Side     `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	Winner         *rules.Side    `json:"winner"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove       *SimpleMove `json:"lastMove"`
	EngineThinking bool        `json:"engineThinking"`
	DurationMS     int64       `json:"durationMs"`
}

// CapturedPieces lists, per side, the enemy pieces that side has taken.
type CapturedPieces struct {
	White []rules.Piece `json:"white"`
	Black []rules.Piece `json:"black"`
}

// NewGame sets up a fresh position for opts. rng drives random armies; nil
// uses the global source.
func NewGame(id, creatorID string, opts GameOptions, rng *rand.Rand) (*Game, error) {
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator is required", ErrInvalidOptions)
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	board := rules.NewBoard(opts.Mode, rng)
	g := &Game{
		ID:          id,
		options:     opts,
		creator:     creatorID,
		start:       board,
		board:       board,
		connections: NewGameConnections(),
		stopwatch:   NewStopwatch(),
		createdAt:   time.Now(),
	}
	g.state = g.newGameState()
	g.stopwatch.Start()
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func (g *Game) newGameState() GameState {
	state := GameState{
		ID:          g.ID,
		Board:       newBoardState(g.board),
		FEN:         g.board.FEN(),
		Mode:        g.options.Mode,
		Opponent:    g.options.Opponent,
		ToMove:      g.board.Turn(),
		MoveHistory: make([]Move, 0),
		CapturedPieces: CapturedPieces{
			White: make([]rules.Piece, 0),
			Black: make([]rules.Piece, 0),
		},
	}
	state.Players.White = ClientPlayer{ID: g.creator, Color: rules.White}
	state.Players.Black = ClientPlayer{ID: g.creator, Color: rules.Black}
	if g.options.Opponent == OpponentEngine {
		tier, _ := uci.TierFor(g.options.Difficulty)
		state.Difficulty = &tier
		state.Players.Black = ClientPlayer{ID: EnginePlayerID, Color: rules.Black, Engine: true}
	}
	return state
}

func (g *Game) Options() GameOptions {
	return g.options
}

// GetState returns a snapshot that later moves do not change.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	s := g.state
	s.MoveHistory = make([]Move, len(g.state.MoveHistory))
	for i, m := range g.state.MoveHistory {
		s.MoveHistory[i] = Move{WhitePly: copyPly(m.WhitePly), BlackPly: copyPly(m.BlackPly)}
	}
	s.CapturedPieces = CapturedPieces{
		White: append([]rules.Piece(nil), g.state.CapturedPieces.White...),
		Black: append([]rules.Piece(nil), g.state.CapturedPieces.Black...),
	}
	s.DurationMS = g.stopwatch.Elapsed().Milliseconds()
	return s
}

func copyPly(p *Ply) *Ply {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Board returns the committed position.
func (g *Game) Board() *rules.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// StartFEN is the position the game began from.
func (g *Game) StartFEN() string {
	return g.start.FEN()
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isOver()
}

func (g *Game) isOver() bool {
	return g.state.Resolve != nil
}

func (g *Game) FinishedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finishedAt
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return playerID != "" && playerID == g.creator
}

// controls reports whether playerID may move for side.
func (g *Game) controls(playerID string, side rules.Side) bool {
	if !g.isPlayerInGame(playerID) {
		return false
	}
	return g.options.Opponent == OpponentLocal || side == rules.White
}

// EngineToMove reports whether the game is waiting on the engine.
func (g *Game) EngineToMove() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engineToMove()
}

func (g *Game) engineToMove() bool {
	return g.options.Opponent == OpponentEngine && !g.isOver() && g.board.Turn() == rules.Black
}

// LegalMoves lists the destinations of the piece on from, for move hints.
// Pieces of the side not to move have none.
func (g *Game) LegalMoves(from rules.Square) ([]rules.Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isOver() {
		return []rules.Square{}, nil
	}
	p, ok := g.board.PieceAt(from)
	if !ok {
		return nil, rules.ErrEmptySquare
	}
	if p.Side != g.board.Turn() {
		return []rules.Square{}, nil
	}
	return g.board.LegalDestinations(from), nil
}

// MakeMove plays a move for a human player.
func (g *Game) MakeMove(playerID string, from, to rules.Square) (rules.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isOver() {
		return rules.Move{}, ErrGameOver
	}
	if !g.isPlayerInGame(playerID) {
		return rules.Move{}, ErrNotAPlayer
	}
	if g.engineToMove() {
		return rules.Move{}, ErrEngineTurn
	}
	if !g.controls(playerID, g.board.Turn()) {
		return rules.Move{}, rules.ErrNotYourTurn
	}
	m, err := g.board.Resolve(from, to)
	if err != nil {
		return rules.Move{}, err
	}
	if err := g.commit(m); err != nil {
		return rules.Move{}, err
	}
	return m, nil
}

// MakeEngineMove plays a move chosen for the engine's side. The move goes
// through the same validation as a human move.
func (g *Game) MakeEngineMove(m rules.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.options.Opponent != OpponentEngine {
		return ErrNotEngineGame
	}
	if g.isOver() {
		return ErrGameOver
	}
	if !g.engineToMove() {
		return rules.ErrNotYourTurn
	}
	g.state.EngineThinking = false
	return g.commit(m)
}

// SetEngineThinking flags the state while a suggestion is pending.
func (g *Game) SetEngineThinking(thinking bool) {
	g.mu.Lock()
	g.state.EngineThinking = thinking
	g.mu.Unlock()
	go g.broadcastState()
}

// Resign ends the game. In a local game the side to move resigns.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isOver() {
		return ErrGameOver
	}
	if !g.isPlayerInGame(playerID) {
		return ErrNotAPlayer
	}
	loser := rules.White
	if g.options.Opponent == OpponentLocal {
		loser = g.board.Turn()
	}
	winner := loser.Opponent()
	g.finish(ResultResignation, &winner)
	g.state.Sound = ""
	go g.broadcastState()
	return nil
}

func (g *Game) commit(m rules.Move) error {
	mover, _ := g.board.PieceAt(m.From)
	var victim *rules.Piece
	if p, ok := g.board.PieceAt(m.To); ok && m.Castle == nil {
		victim = &p
	}
	next, err := g.board.Apply(m)
	if err != nil {
		return err
	}
	g.board = next

	ply := &Ply{
		Piece:         mover,
		From:          m.From,
		To:            m.To,
		CapturedPiece: victim,
		Promotion:     m.Promotion,
		Notation:      m.UCI(),
	}
	if m.Castle != nil {
		ply.CastleRookMove = &CastleRookMove{From: m.Castle.RookFrom, To: m.Castle.RookTo}
	}
	g.recordPly(mover.Side, ply)
	if victim != nil {
		if mover.Side == rules.White {
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *victim)
		} else {
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *victim)
		}
	}
	if mover.Side == rules.White {
		g.state.Players.White.Moves++
	} else {
		g.state.Players.Black.Moves++
	}

	g.state.Board = newBoardState(next)
	g.state.FEN = next.FEN()
	g.state.ToMove = next.Turn()
	g.state.LastMove = &SimpleMove{From: m.From, To: m.To}

	status := next.Status()
	g.state.IsCheck = status == rules.Check || status == rules.Checkmate
	g.state.Sound = moveSound(m, victim != nil, g.state.IsCheck)
	switch status {
	case rules.Checkmate:
		winner := mover.Side
		g.finish(ResultCheckmate, &winner)
	case rules.Stalemate:
		g.finish(ResultStalemate, nil)
	}

	go g.broadcastState()
	return nil
}

func (g *Game) recordPly(side rules.Side, ply *Ply) {
	last := len(g.state.MoveHistory) - 1
	if side == rules.White || last < 0 || g.state.MoveHistory[last].BlackPly != nil {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{})
		last++
	}
	if side == rules.White {
		g.state.MoveHistory[last].WhitePly = ply
	} else {
		g.state.MoveHistory[last].BlackPly = ply
	}
}

func (g *Game) finish(result string, winner *rules.Side) {
	g.state.Resolve = &result
	g.state.Winner = winner
	g.state.EngineThinking = false
	g.stopwatch.Stop()
	g.finishedAt = time.Now()
}

func moveSound(m rules.Move, capture, check bool) string {
	switch {
	case check:
		return "check"
	case m.Promotion != rules.NoKind:
		return "promote"
	case m.Castle != nil:
		return "castle"
	case capture:
		return "capture"
	}
	return "move"
}

// RegisterConnection adds an observer. Anyone may watch; only players
// can move.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	if playerID == "" {
		return errors.New("player id is required")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the live connection, reject the duplicate
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		_ = conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	go g.broadcastState()
	return nil
}

// UnregisterConnection drops the observer only if conn is still the one on
// record for playerID.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Printf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return len(g.connections.connections)
}

// broadcastState sends the current state to every observer. Writes are
// serialized under the connections mutex; failed observers are dropped.
func (g *Game) broadcastState() {
	payload, err := json.Marshal(g.GetState())
	if err != nil {
		log.Printf("game %s: marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: send state to %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
