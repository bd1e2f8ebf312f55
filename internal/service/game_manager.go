package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

// Subscriber receives snapshot pushes. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
}

// The connections watching a specific game
type GameConnections struct {
	connections map[string]Subscriber // connection id -> subscriber
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Subscriber),
	}
}

// GameManager owns the live sessions. Sessions are persisted to the store after
// every commit and restored from it on demand. Finished games move from the
// store to the archive.
type GameManager struct {
	games       map[string]*model.Game
	connections map[string]*GameConnections
	store       store.SessionStore
	archive     store.Archive
	clockTime   time.Duration
	log         *zap.SugaredLogger
	mu          sync.RWMutex
}

func NewGameManager(sessions store.SessionStore, archive store.Archive, clockTime time.Duration, log *zap.SugaredLogger) *GameManager {
	return &GameManager{
		games:       make(map[string]*model.Game),
		connections: make(map[string]*GameConnections),
		store:       sessions,
		archive:     archive,
		clockTime:   clockTime,
		log:         log,
	}
}

func (gm *GameManager) CreateGame(ctx context.Context) (*model.Game, error) {
	gameID := uuid.New().String()
	game := model.NewGame(gameID, gm.clockTime)

	if err := gm.store.Save(ctx, gameID, nil); err != nil {
		return nil, fmt.Errorf("save new game: %w", err)
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.log.Infow("game created", "game", gameID)
	return game, nil
}

// GetGame returns the live session, restoring it from the store if needed.
func (gm *GameManager) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}

	records, err := gm.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	restored := model.NewGame(gameID, gm.clockTime)
	if err := restored.Replay(records); err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	gm.games[gameID] = restored
	gm.log.Infow("game restored", "game", gameID, "plies", len(records))
	return restored, nil
}

func (gm *GameManager) GetSnapshot(ctx context.Context, gameID string) (model.Snapshot, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return game.Snapshot(), nil
}

// SelectSquare picks up the piece on pos and returns its legal moves.
func (gm *GameManager) SelectSquare(ctx context.Context, gameID string, pos model.Position) ([]model.Move, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	moves, err := game.BeginMove(pos)
	gm.broadcastState(gameID, game)
	return moves, err
}

// MakeMove commits from-to, finishing a promotion with the given kind. A
// promotion without a kind leaves the session waiting for FinishPromotion.
func (gm *GameManager) MakeMove(ctx context.Context, gameID string, from, to model.Position, promotion model.PieceKind) (model.Ply, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.Ply{}, err
	}
	ply, err := game.Move(from, to, promotion)
	if err != nil {
		gm.broadcastState(gameID, game)
		return ply, err
	}
	gm.afterCommit(ctx, game)
	return ply, nil
}

func (gm *GameManager) FinishPromotion(ctx context.Context, gameID string, kind model.PieceKind) (model.Ply, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.Ply{}, err
	}
	ply, err := game.FinishPromotion(kind)
	if err != nil {
		return ply, err
	}
	gm.afterCommit(ctx, game)
	return ply, nil
}

func (gm *GameManager) CancelPromotion(ctx context.Context, gameID string) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	game.CancelPromotion()
	gm.broadcastState(gameID, game)
	return nil
}

func (gm *GameManager) ViewHistory(ctx context.Context, gameID string, index int) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if err := game.View(index); err != nil {
		return err
	}
	gm.broadcastState(gameID, game)
	return nil
}

// afterCommit persists a committed ply. Failures are logged; the committed
// move stands either way.
func (gm *GameManager) afterCommit(ctx context.Context, game *model.Game) {
	defer gm.broadcastState(game.ID, game)

	if err := gm.store.Save(ctx, game.ID, game.Records()); err != nil {
		gm.log.Errorw("failed to save game", "game", game.ID, "error", err)
	}
	present := game.Present()
	if !model.IsGameOver(present) {
		return
	}
	status, _ := model.Status(present)
	archived := store.NewArchivedGame(game.ID, game.Plies(), status, time.Now())
	if err := gm.archive.Archive(ctx, archived); err != nil {
		gm.log.Errorw("failed to archive game", "game", game.ID, "error", err)
		return
	}
	if err := gm.store.Delete(ctx, game.ID); err != nil {
		gm.log.Warnw("failed to drop archived session", "game", game.ID, "error", err)
	}
	gm.log.Infow("game finished", "game", game.ID, "result", status.Kind)
}

func (gm *GameManager) RegisterConnection(ctx context.Context, gameID string, connID string, sub Subscriber) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	gm.mu.Lock()
	conns, exists := gm.connections[gameID]
	if !exists {
		conns = NewGameConnections()
		gm.connections[gameID] = conns
	}
	gm.mu.Unlock()

	conns.mu.Lock()
	conns.connections[connID] = sub
	conns.mu.Unlock()
	gm.log.Debugw("connection registered", "game", gameID, "conn", connID)

	gm.broadcastState(gameID, game)
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID string, connID string) {
	gm.mu.RLock()
	conns, exists := gm.connections[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}

	conns.mu.Lock()
	defer conns.mu.Unlock()
	delete(conns.connections, connID)
	gm.log.Debugw("connection unregistered", "game", gameID, "conn", connID)
}

// broadcastState pushes the current snapshot to every watcher of the game.
// Watchers whose write fails are dropped.
func (gm *GameManager) broadcastState(gameID string, game *model.Game) {
	gm.mu.RLock()
	conns, exists := gm.connections[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}

	msg, err := ws.NewMessage(ws.MessageTypeGameState, game.Snapshot())
	if err != nil {
		gm.log.Errorw("failed to encode game state", "game", gameID, "error", err)
		return
	}

	conns.mu.Lock()
	defer conns.mu.Unlock()
	for connID, sub := range conns.connections {
		if err := sub.WriteJSON(msg); err != nil {
			gm.log.Warnw("failed to send state", "game", gameID, "conn", connID, "error", err)
			delete(conns.connections, connID)
		}
	}
}
