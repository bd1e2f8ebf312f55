package model

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func playGame(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		var promotion PieceKind
		if len(m) == 5 {
			promotion, _ = ParsePieceKind(m[4:])
		}
		if _, err := g.Move(MustParseSquare(m[0:2]), MustParseSquare(m[2:4]), promotion); err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
	}
}

func TestGameBeginMove(t *testing.T) {
	g := NewGame("g1", time.Minute)

	moves, err := g.BeginMove(MustParseSquare("g1"))
	if err != nil {
		t.Fatalf("BeginMove: %v", err)
	}
	if got := squareNames(Destinations(moves)); !equalStrings(got, []string{"f3", "h3"}) {
		t.Fatalf("destinations = %v", got)
	}
	snap := g.Snapshot()
	if snap.SelectedSquare == nil || snap.SelectedSquare.SquareName() != "g1" || len(snap.LegalMoves) != 2 {
		t.Fatalf("snapshot selection = %v %v", snap.SelectedSquare, snap.LegalMoves)
	}

	if _, err := g.BeginMove(MustParseSquare("e4")); !errors.Is(err, ErrNoPieceSelected) {
		t.Fatalf("empty square: error = %v", err)
	}
	if _, err := g.BeginMove(MustParseSquare("e7")); !errors.Is(err, ErrNotYourPiece) {
		t.Fatalf("black piece: error = %v", err)
	}
	if _, err := g.EndMove(MustParseSquare("e5")); !errors.Is(err, ErrNoPieceSelected) {
		t.Fatalf("EndMove without selection: error = %v", err)
	}
}

func TestGameEndMove(t *testing.T) {
	g := NewGame("g1", time.Minute)

	if _, err := g.BeginMove(MustParseSquare("e2")); err != nil {
		t.Fatalf("BeginMove: %v", err)
	}
	if _, err := g.EndMove(MustParseSquare("e5")); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("e2e5: error = %v, want ErrIllegalMove", err)
	}

	if _, err := g.BeginMove(MustParseSquare("e2")); err != nil {
		t.Fatalf("BeginMove: %v", err)
	}
	ply, err := g.EndMove(MustParseSquare("e4"))
	if err != nil {
		t.Fatalf("EndMove: %v", err)
	}
	if ply.Notation != "e4" {
		t.Fatalf("notation = %q", ply.Notation)
	}
	if g.Present().PlayerInTurn != Black {
		t.Fatal("black should be in turn")
	}
	if g.whiteClock.IsRunning() || !g.blackClock.IsRunning() {
		t.Fatal("black clock should run after white moved")
	}

	snap := g.Snapshot()
	if snap.LastMove == nil || snap.LastMove.Notation != "e4" {
		t.Fatalf("last move = %+v", snap.LastMove)
	}
	if snap.SelectedSquare != nil || len(snap.LegalMoves) != 0 {
		t.Fatal("selection should be cleared after a move")
	}
	if snap.EnpassantColumn == nil || *snap.EnpassantColumn != 4 {
		t.Fatalf("enpassant column = %v", snap.EnpassantColumn)
	}
}

var promotionLine = []string{"a2a4", "b7b5", "a4b5", "a7a6", "b5a6", "c8b7", "a6b7", "b8c6"}

func TestGamePromotion(t *testing.T) {
	g := NewGame("g1", time.Minute)
	playGame(t, g, promotionLine...)

	if _, err := g.Move(MustParseSquare("b7"), MustParseSquare("a8"), ""); !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("error = %v, want ErrPromotionPending", err)
	}
	snap := g.Snapshot()
	if snap.PromotionSquare == nil || snap.PromotionSquare.SquareName() != "a8" {
		t.Fatalf("promotion square = %v", snap.PromotionSquare)
	}
	if len(snap.PromotionChoices) != 4 {
		t.Fatalf("choices = %v", snap.PromotionChoices)
	}
	if snap.Board.ContentAt(MustParseSquare("a8")) != wp(Pawn) || !snap.Board.ContentAt(MustParseSquare("b7")).IsEmpty() {
		t.Fatalf("preview board does not show the pawn on a8:\n%v", snap.Board)
	}
	if _, err := g.BeginMove(MustParseSquare("g2")); !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("BeginMove while pending: error = %v", err)
	}
	if _, err := g.FinishPromotion(King); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("promote to king: error = %v", err)
	}

	ply, err := g.FinishPromotion(Queen)
	if err != nil {
		t.Fatalf("FinishPromotion: %v", err)
	}
	if ply.Notation != "bxa8=Q" || ply.Promotion != Queen {
		t.Fatalf("ply = %+v", ply)
	}
	if g.Present().Board.ContentAt(MustParseSquare("a8")) != wp(Queen) {
		t.Fatal("queen not on a8")
	}
	if _, err := g.FinishPromotion(Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Fatalf("second FinishPromotion: error = %v", err)
	}
}

func TestGameCancelPromotion(t *testing.T) {
	g := NewGame("g1", time.Minute)
	playGame(t, g, promotionLine...)

	if _, err := g.Move(MustParseSquare("b7"), MustParseSquare("b8"), ""); !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("error = %v, want ErrPromotionPending", err)
	}
	g.CancelPromotion()

	snap := g.Snapshot()
	if snap.PromotionSquare != nil || snap.Board.ContentAt(MustParseSquare("b7")) != wp(Pawn) {
		t.Fatal("cancel did not restore the board")
	}
	if len(g.Plies()) != len(promotionLine) {
		t.Fatal("cancelled promotion was committed")
	}
	playGame(t, g, "b7b8n")
	if g.Present().Board.ContentAt(MustParseSquare("b8")) != wp(Knight) {
		t.Fatal("knight not on b8")
	}
}

func TestGameViewHistory(t *testing.T) {
	g := NewGame("g1", time.Minute)
	playGame(t, g, "e2e4", "e7e5", "g1f3")

	if err := g.View(1); err != nil {
		t.Fatalf("View: %v", err)
	}
	snap := g.Snapshot()
	if !snap.IsViewingHistory || snap.ViewingIndex != 1 {
		t.Fatalf("viewing = %v at %d", snap.IsViewingHistory, snap.ViewingIndex)
	}
	if snap.Board.ContentAt(MustParseSquare("e4")) != wp(Pawn) || snap.Board.ContentAt(MustParseSquare("e5")) != NoPiece {
		t.Fatalf("board at index 1:\n%v", snap.Board)
	}
	if snap.LastMove == nil || snap.LastMove.Notation != "e4" {
		t.Fatalf("last move at index 1 = %+v", snap.LastMove)
	}
	if _, err := g.BeginMove(MustParseSquare("e7")); !errors.Is(err, ErrViewingHistory) {
		t.Fatalf("BeginMove while viewing: error = %v", err)
	}
	if err := g.View(42); err != nil {
		t.Fatalf("View past the end: %v", err)
	}
	if g.Snapshot().IsViewingHistory {
		t.Fatal("viewing past the end should return to the present")
	}

	if err := g.View(0); err != nil {
		t.Fatalf("View(0): %v", err)
	}
	if err := g.View(-1); err != nil {
		t.Fatalf("View(-1): %v", err)
	}
	snap = g.Snapshot()
	if snap.IsViewingHistory || snap.ViewingIndex != 3 || snap.PlayerInTurn != Black {
		t.Fatalf("present snapshot = viewing %v index %d turn %s", snap.IsViewingHistory, snap.ViewingIndex, snap.PlayerInTurn)
	}
	if len(snap.History) != 2 {
		t.Fatalf("history pairs = %d", len(snap.History))
	}
}

func TestGameOverStopsPlay(t *testing.T) {
	g := NewGame("g1", time.Minute)
	playGame(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	snap := g.Snapshot()
	if !snap.IsGameOver || snap.Status == nil || snap.Status.Kind != Checkmate || snap.Status.Player != White {
		t.Fatalf("status = %+v over=%v", snap.Status, snap.IsGameOver)
	}
	if g.whiteClock.IsRunning() || g.blackClock.IsRunning() {
		t.Fatal("clocks should stop when the game ends")
	}
	if _, err := g.BeginMove(MustParseSquare("a2")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("error = %v, want ErrGameOver", err)
	}
}

func TestGameReplay(t *testing.T) {
	original := NewGame("g1", time.Minute)
	playGame(t, original, append(append([]string{}, promotionLine...), "b7a8q")...)

	restored := NewGame("g1", time.Minute)
	if err := restored.Replay(original.Records()); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if restored.Present().Board != original.Present().Board {
		t.Fatal("replayed board differs")
	}

	bad := NewGame("g2", time.Minute)
	err := bad.Replay([]MoveRecord{{From: "e2", To: "e4"}, {From: "e2", To: "e4"}})
	if !errors.Is(err, ErrNoPieceSelected) {
		t.Fatalf("replay of a bad record: error = %v", err)
	}
}

func TestGameClocks(t *testing.T) {
	ft := &fakeTime{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	g := newGame("g1", time.Minute, ft.now)

	if !g.whiteClock.IsRunning() || g.blackClock.IsRunning() {
		t.Fatal("white's clock should run from the start")
	}
	ft.advance(10 * time.Second)
	playGame(t, g, "e2e4")
	ft.advance(5 * time.Second)

	clocks := g.Snapshot().Clocks
	if clocks[White] != (50 * time.Second).Milliseconds() {
		t.Fatalf("white clock = %dms, want 50000", clocks[White])
	}
	if clocks[Black] != (55 * time.Second).Milliseconds() {
		t.Fatalf("black clock = %dms, want 55000", clocks[Black])
	}
}

func TestGameMoveIgnoresConcurrentSelection(t *testing.T) {
	g := NewGame("g1", time.Minute)
	line := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = g.BeginMove(MustParseSquare("b1"))
				_, _ = g.BeginMove(MustParseSquare("b8"))
			}
		}
	}()

	for i := 0; i < 50; i++ {
		for _, m := range line {
			ply, err := g.Move(MustParseSquare(m[0:2]), MustParseSquare(m[2:4]), "")
			if err != nil {
				close(stop)
				wg.Wait()
				t.Fatalf("round %d move %s: %v", i, m, err)
			}
			if ply.From.SquareName() != m[0:2] || ply.To.SquareName() != m[2:4] {
				close(stop)
				wg.Wait()
				t.Fatalf("round %d: committed %s%s, want %s", i, ply.From.SquareName(), ply.To.SquareName(), m)
			}
		}
	}
	close(stop)
	wg.Wait()
}
