package model

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Game is a hot-seat session around the pure rules: it owns the history,
// the square currently picked up, pending promotion choices and the clocks.
// All methods are safe for concurrent use.
type Game struct {
	ID         string
	mu         sync.Mutex
	history    *History
	viewing    int // history index on display; -1 follows the present
	moveStart  *MoveStart
	promotions []Move
	whiteClock *Clock
	blackClock *Clock
}

// Snapshot is everything a presentation layer needs to draw the game.
type Snapshot struct {
	ID               string           `json:"id"`
	Board            Board            `json:"board"`
	PlayerInTurn     Player           `json:"playerInTurn"`
	Castling         Castling         `json:"castling"`
	EnpassantColumn  *int             `json:"enpassantColumn"`
	LastMove         *Ply             `json:"lastMove"`
	Threats          []Threat         `json:"threats"`
	Status           *Threat          `json:"status"`
	IsGameOver       bool             `json:"isGameOver"`
	SelectedSquare   *Position        `json:"selectedSquare"`
	LegalMoves       []Position       `json:"legalMoves"`
	PromotionSquare  *Position        `json:"promotionSquare"`
	PromotionChoices []PieceKind      `json:"promotionChoices"`
	History          []MovePair       `json:"history"`
	ViewingIndex     int              `json:"viewingIndex"`
	IsViewingHistory bool             `json:"isViewingHistory"`
	Clocks           map[Player]int64 `json:"clocks"` // milliseconds left
}

// NewGame starts a session with white to move and white's clock running.
func NewGame(id string, clockTime time.Duration) *Game {
	return newGame(id, clockTime, time.Now)
}

func newGame(id string, clockTime time.Duration, now func() time.Time) *Game {
	g := &Game{
		ID:         id,
		history:    NewHistory(InitialPosition()),
		viewing:    -1,
		whiteClock: NewClock(clockTime),
		blackClock: NewClock(clockTime),
	}
	g.whiteClock.now = now
	g.blackClock.now = now
	g.whiteClock.Start()
	return g
}

func (g *Game) clock(player Player) *Clock {
	if player == White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) Present() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Present()
}

func (g *Game) Records() []MoveRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Records()
}

func (g *Game) Plies() []Ply {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Plies()
}

// BeginMove picks up the piece on pos and returns its legal moves. A piece
// with no legal moves may be picked up; it simply has nowhere to go.
func (g *Game) BeginMove(pos Position) ([]Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.beginMove(pos)
}

func (g *Game) beginMove(pos Position) ([]Move, error) {
	if err := g.canMove(); err != nil {
		return nil, err
	}
	present := g.history.Present()
	if !pos.InBounds() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSquare, pos)
	}
	piece := present.Board.ContentAt(pos)
	if piece.IsEmpty() {
		g.moveStart = nil
		return nil, ErrNoPieceSelected
	}
	if piece.Owner != present.PlayerInTurn {
		g.moveStart = nil
		return nil, ErrNotYourPiece
	}
	g.moveStart = &MoveStart{Position: pos, Piece: piece}
	return LegalMoves(pos, present), nil
}

// EndMove drops the picked-up piece on to. A single candidate is committed at
// once. Several candidates (a promotion) are held until FinishPromotion or
// CancelPromotion, and ErrPromotionPending is returned.
func (g *Game) EndMove(to Position) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endMove(to)
}

func (g *Game) endMove(to Position) (Ply, error) {
	if err := g.canMove(); err != nil {
		return Ply{}, err
	}
	if g.moveStart == nil {
		return Ply{}, ErrNoPieceSelected
	}
	start := *g.moveStart
	g.moveStart = nil

	var chosen []Move
	for _, move := range LegalMoves(start.Position, g.history.Present()) {
		if move.End.Position == to {
			chosen = append(chosen, move)
		}
	}
	switch len(chosen) {
	case 0:
		return Ply{}, fmt.Errorf("%w: %v to %v", ErrIllegalMove, start.Position, to)
	case 1:
		return g.commit(chosen[0])
	default:
		g.promotions = chosen
		return Ply{}, ErrPromotionPending
	}
}

// Move is BeginMove followed by EndMove, finishing a promotion with kind when
// one is given. The whole sequence runs under one lock, so a concurrent
// BeginMove cannot swap the piece being moved.
func (g *Game) Move(from, to Position, promotion PieceKind) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.beginMove(from); err != nil {
		return Ply{}, err
	}
	ply, err := g.endMove(to)
	if errors.Is(err, ErrPromotionPending) && promotion != "" {
		return g.finishPromotion(promotion)
	}
	return ply, err
}

// FinishPromotion commits the pending promotion to kind.
func (g *Game) FinishPromotion(kind PieceKind) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finishPromotion(kind)
}

func (g *Game) finishPromotion(kind PieceKind) (Ply, error) {
	if len(g.promotions) == 0 {
		return Ply{}, ErrNoPendingPromotion
	}
	for _, move := range g.promotions {
		if chosen, _ := move.Promotion(); chosen == kind {
			g.promotions = nil
			return g.commit(move)
		}
	}
	return Ply{}, fmt.Errorf("%w: cannot promote to %q", ErrIllegalMove, kind)
}

func (g *Game) CancelPromotion() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moveStart = nil
	g.promotions = nil
}

// View shows the state at history index; a negative index returns to the present.
// Pending selections are dropped.
func (g *Game) View(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index >= g.history.Len()-1 {
		index = -1
	}
	if index >= 0 {
		if _, err := g.history.State(index); err != nil {
			return err
		}
		g.moveStart = nil
		g.promotions = nil
	}
	g.viewing = index
	return nil
}

// Replay commits recorded moves in order, as when restoring a stored game.
// Clock readings are not stored, so a restored game shows full time on both
// clocks with the player in turn running.
func (g *Game) Replay(records []MoveRecord) error {
	for i, record := range records {
		from, err := ParseSquare(record.From)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		to, err := ParseSquare(record.To)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := g.Move(from, to, record.Promotion); err != nil {
			return fmt.Errorf("record %d (%s%s): %w", i, record.From, record.To, err)
		}
	}
	return nil
}

func (g *Game) canMove() error {
	if g.viewing >= 0 {
		return ErrViewingHistory
	}
	if len(g.promotions) > 0 {
		return ErrPromotionPending
	}
	if IsGameOver(g.history.Present()) {
		return ErrGameOver
	}
	return nil
}

// commit must be called with g.mu held.
func (g *Game) commit(move Move) (Ply, error) {
	present := g.history.Present()
	next, err := CommitMove(move, present)
	if err != nil {
		return Ply{}, err
	}
	ply := newPly(*next.PreviousMove, next)
	g.history.Append(ply, next)

	g.clock(present.PlayerInTurn).Stop()
	if IsGameOver(next) {
		g.clock(next.PlayerInTurn).Stop()
	} else {
		g.clock(next.PlayerInTurn).Start()
	}
	return ply, nil
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.history.Present()
	viewing := g.history.Len() - 1
	if g.viewing >= 0 {
		state, _ = g.history.State(g.viewing)
		viewing = g.viewing
	}

	snap := Snapshot{
		ID:               g.ID,
		Board:            state.Board,
		PlayerInTurn:     state.PlayerInTurn,
		Castling:         state.Castling,
		EnpassantColumn:  state.EnpassantColumn,
		Threats:          Threats(state),
		IsGameOver:       IsGameOver(state),
		LegalMoves:       []Position{},
		History:          g.history.Pairs(),
		ViewingIndex:     viewing,
		IsViewingHistory: g.viewing >= 0,
		Clocks: map[Player]int64{
			White: g.whiteClock.TimeLeft().Milliseconds(),
			Black: g.blackClock.TimeLeft().Milliseconds(),
		},
	}
	if status, ok := Status(state); ok {
		snap.Status = &status
	}
	if viewing > 0 {
		last := g.history.plies[viewing-1]
		snap.LastMove = &last
	}
	if g.moveStart != nil {
		selected := g.moveStart.Position
		snap.SelectedSquare = &selected
		snap.LegalMoves = Destinations(LegalMoves(selected, state))
	}
	if len(g.promotions) > 0 {
		first := g.promotions[0]
		square := first.End.Position
		snap.PromotionSquare = &square
		snap.Board = ApplyMove(Move{Start: first.Start, End: first.End}, state.Board)
		for _, move := range g.promotions {
			kind, _ := move.Promotion()
			snap.PromotionChoices = append(snap.PromotionChoices, kind)
		}
	}
	return snap
}
