package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// GameService translates caller input (square names, piece names) into
// engine values and delegates to the manager.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(ctx context.Context) (string, error) {
	game, err := gs.gameManager.CreateGame(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return game.ID, nil
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (model.Snapshot, error) {
	return gs.gameManager.GetSnapshot(ctx, gameID)
}

// LegalMoves selects the square and returns the distinct destinations.
func (gs *GameService) LegalMoves(ctx context.Context, gameID string, square string) ([]string, error) {
	pos, err := model.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	moves, err := gs.gameManager.SelectSquare(ctx, gameID, pos)
	if err != nil {
		return nil, err
	}
	destinations := model.Destinations(moves)
	names := make([]string, len(destinations))
	for i, dest := range destinations {
		names[i] = dest.SquareName()
	}
	return names, nil
}

func (gs *GameService) HandleMove(ctx context.Context, gameID string, move MoveRequest) (model.Ply, error) {
	from, err := model.ParseSquare(move.From)
	if err != nil {
		return model.Ply{}, err
	}
	to, err := model.ParseSquare(move.To)
	if err != nil {
		return model.Ply{}, err
	}
	var kind model.PieceKind
	if move.Promotion != "" {
		if kind, err = parsePromotion(move.Promotion); err != nil {
			return model.Ply{}, err
		}
	}
	return gs.gameManager.MakeMove(ctx, gameID, from, to, kind)
}

func (gs *GameService) FinishPromotion(ctx context.Context, gameID string, piece string) (model.Ply, error) {
	kind, err := parsePromotion(piece)
	if err != nil {
		return model.Ply{}, err
	}
	return gs.gameManager.FinishPromotion(ctx, gameID, kind)
}

func (gs *GameService) CancelPromotion(ctx context.Context, gameID string) error {
	return gs.gameManager.CancelPromotion(ctx, gameID)
}

func (gs *GameService) ViewHistory(ctx context.Context, gameID string, index int) error {
	return gs.gameManager.ViewHistory(ctx, gameID, index)
}

func (gs *GameService) History(ctx context.Context, gameID string) ([]model.MovePair, error) {
	snap, err := gs.gameManager.GetSnapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return snap.History, nil
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID string, connID string, sub Subscriber) error {
	return gs.gameManager.RegisterConnection(ctx, gameID, connID, sub)
}

func (gs *GameService) UnregisterConnection(gameID string, connID string) {
	gs.gameManager.UnregisterConnection(gameID, connID)
}

// MoveRequest is a move as sent by a client, in square names.
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func parsePromotion(piece string) (model.PieceKind, error) {
	kind, ok := model.ParsePieceKind(piece)
	if !ok || kind == model.King || kind == model.Pawn {
		return "", fmt.Errorf("%w: %q", ErrInvalidPromotion, piece)
	}
	return kind, nil
}
