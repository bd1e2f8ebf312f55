package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *zap.SugaredLogger
}

func NewWebSocketController(gameService *service.GameService, log *zap.SugaredLogger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log,
	}
}

// lockedConn serializes writes; broadcasts and error replies may race.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (lc *lockedConn) WriteJSON(v interface{}) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.conn.WriteJSON(v)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	connID, _ := c.Locals("wsConnID").(string)
	conn := &lockedConn{conn: c}
	ctx := context.Background()

	if err := wsc.gameService.RegisterConnection(ctx, gameID, connID, conn); err != nil {
		wsc.log.Warnw("failed to register connection", "game", gameID, "error", err)
		wsc.sendError(conn, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, connID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			wsc.log.Debugw("connection closed", "game", gameID, "conn", connID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(ctx, gameID, msg); err != nil {
			wsc.log.Debugw("message rejected", "game", gameID, "type", msg.Type, "error", err)
			wsc.sendError(conn, err)
		}
	}
}

// Handle different types of incoming messages. State changes are pushed to
// every watcher by the service.
func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var payload ws.SelectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		_, err := wsc.gameService.LegalMoves(ctx, gameID, payload.Square)
		return err

	case ws.MessageTypeMove:
		var move service.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(ctx, gameID, move)
		return err

	case ws.MessageTypePromote:
		var payload ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		_, err := wsc.gameService.FinishPromotion(ctx, gameID, payload.Piece)
		return err

	case ws.MessageTypeCancel:
		return wsc.gameService.CancelPromotion(ctx, gameID)

	case ws.MessageTypeView:
		var payload ws.ViewPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		return wsc.gameService.ViewHistory(ctx, gameID, payload.Index)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn service.Subscriber, err error) {
	msg, encErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if encErr != nil {
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		wsc.log.Debugw("failed to send error", "error", err)
	}
}
