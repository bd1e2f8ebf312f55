package model

import (
	"errors"
	"sort"
	"strings"
	"testing"
)

// stateWith builds a state holding only the listed pieces, with no castling
// rights and no en passant column.
func stateWith(turn Player, pieces map[string]Piece) GameState {
	placed := make(map[Position]Piece, len(pieces))
	for square, piece := range pieces {
		placed[MustParseSquare(square)] = piece
	}
	return GameState{PlayerInTurn: turn, Board: NewBoard(placed)}
}

func wp(kind PieceKind) Piece { return Piece{Kind: kind, Owner: White} }
func bp(kind PieceKind) Piece { return Piece{Kind: kind, Owner: Black} }

// boardFromPlacement reads the piece-placement field of a position string,
// rank 8 first, as used by the perft reference positions.
func boardFromPlacement(t *testing.T, placement string) Board {
	t.Helper()
	kinds := map[rune]PieceKind{'k': King, 'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn}
	var board Board
	ranks := strings.Split(placement, "/")
	if len(ranks) != boardSize {
		t.Fatalf("placement %q has %d ranks", placement, len(ranks))
	}
	for i, rank := range ranks {
		row := boardSize - 1 - i
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			owner := White
			if r >= 'a' && r <= 'z' {
				owner = Black
			}
			kind, ok := kinds[toLower(r)]
			if !ok {
				t.Fatalf("placement %q: unknown piece %q", placement, r)
			}
			board = board.PutContentAt(Piece{Kind: kind, Owner: owner}, Position{Row: row, Col: col})
			col++
		}
	}
	return board
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// play commits moves given as "e2e4" or "e7e8q" from state.
func play(t *testing.T, state GameState, moves ...string) GameState {
	t.Helper()
	for _, m := range moves {
		move := findMove(t, state, m)
		next, err := CommitMove(move, state)
		if err != nil {
			t.Fatalf("commit %s: %v", m, err)
		}
		state = next
	}
	return state
}

func findMove(t *testing.T, state GameState, m string) Move {
	t.Helper()
	from := MustParseSquare(m[0:2])
	for _, move := range LegalMoves(from, state) {
		if uci(move) == m {
			return move
		}
	}
	t.Fatalf("%s is not legal; legal from %s: %v", m, m[0:2], uciList(LegalMoves(from, state)))
	return Move{}
}

func uci(m Move) string {
	return strings.ToLower(m.String())
}

func uciList(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = uci(m)
	}
	sort.Strings(out)
	return out
}

func squareNames(positions []Position) []string {
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = p.SquareName()
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// expectViolation runs fn and fails unless it panics with an InvariantViolation.
func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariantViolation) {
			t.Fatalf("expected invariant violation panic, got %v", r)
		}
	}()
	fn()
}
