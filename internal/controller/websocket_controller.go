package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/borderless-chess/internal/middleware"
	"github.com/benbeisheim/borderless-chess/internal/model"
	"github.com/benbeisheim/borderless-chess/internal/service"
	"github.com/benbeisheim/borderless-chess/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var ErrUnknownMessage = errors.New("unknown message type")

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serializes writes; state broadcasts and error replies come
// from different goroutines.
type lockedConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Conn.WriteJSON(v)
}

func (l *lockedConn) WriteMessage(messageType int, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Conn.WriteMessage(messageType, data)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &lockedConn{Conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Printf("ws: register %s in game %s: %v", playerID, gameID, err)
		_ = conn.WriteJSON(ws.NewError(err))
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("ws: read from %s: %v", playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := wsc.handleFrame(gameID, playerID, message); err != nil {
			_ = conn.WriteJSON(ws.NewError(err))
		}
	}
}

// handleFrame decodes one text frame and applies it.
func (wsc *WebSocketController) handleFrame(gameID, playerID string, frame []byte) error {
	var msg ws.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return fmt.Errorf("parse message: %w", err)
	}
	return wsc.handleMessage(gameID, playerID, msg)
}

// handleMessage applies one client message. The resulting state reaches
// the client through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("parse move: %w", err)
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err
	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(gameID, playerID)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}
