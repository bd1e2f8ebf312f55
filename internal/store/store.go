package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
)

var ErrNotFound = errors.New("game not found in store")

// SessionStore persists the committed moves of live sessions. A session is
// restored by replaying its moves through the rules.
type SessionStore interface {
	Save(ctx context.Context, id string, records []model.MoveRecord) error
	Load(ctx context.Context, id string) ([]model.MoveRecord, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// ArchivedGame is the permanent record of a finished game.
type ArchivedGame struct {
	ID         string             `json:"id" bson:"_id"`
	Result     model.ThreatKind   `json:"result" bson:"result"`
	Winner     model.Player       `json:"winner,omitempty" bson:"winner,omitempty"`
	Notation   []string           `json:"notation" bson:"notation"`
	Moves      []model.MoveRecord `json:"moves" bson:"moves"`
	FinishedAt time.Time          `json:"finishedAt" bson:"finished_at"`
}

// NewArchivedGame describes a finished game from its plies and final status.
func NewArchivedGame(id string, plies []model.Ply, status model.Threat, finishedAt time.Time) ArchivedGame {
	game := ArchivedGame{
		ID:         id,
		Result:     status.Kind,
		Notation:   make([]string, len(plies)),
		Moves:      make([]model.MoveRecord, len(plies)),
		FinishedAt: finishedAt,
	}
	for i, ply := range plies {
		game.Notation[i] = ply.Notation
		game.Moves[i] = ply.Record()
	}
	if status.Kind == model.Checkmate {
		game.Winner = status.Player.Opponent()
	}
	return game
}

type Archive interface {
	Archive(ctx context.Context, game ArchivedGame) error
	Close(ctx context.Context) error
}

// MemoryStore keeps sessions in process memory. It is the default when no
// Redis address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]model.MoveRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]model.MoveRecord)}
}

func (s *MemoryStore) Save(_ context.Context, id string, records []model.MoveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = append([]model.MoveRecord(nil), records...)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) ([]model.MoveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]model.MoveRecord(nil), records...), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// MemoryArchive collects finished games in memory.
type MemoryArchive struct {
	mu    sync.Mutex
	games []ArchivedGame
}

func (a *MemoryArchive) Archive(_ context.Context, game ArchivedGame) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.games = append(a.games, game)
	return nil
}

func (a *MemoryArchive) Games() []ArchivedGame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ArchivedGame(nil), a.games...)
}

func (a *MemoryArchive) Close(context.Context) error { return nil }
