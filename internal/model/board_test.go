package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		name string
		want Position
	}{
		{"a1", Position{Row: 0, Col: 0}},
		{"e2", Position{Row: 1, Col: 4}},
		{"h8", Position{Row: 7, Col: 7}},
		{"g1", Position{Row: 0, Col: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSquare(tt.name)
			if err != nil {
				t.Fatalf("ParseSquare(%q): %v", tt.name, err)
			}
			if got != tt.want {
				t.Fatalf("ParseSquare(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
			if got.SquareName() != tt.name {
				t.Fatalf("SquareName() = %q, want %q", got.SquareName(), tt.name)
			}
		})
	}

	for _, bad := range []string{"", "e", "i1", "a9", "a0", "e22"} {
		if _, err := ParseSquare(bad); !errors.Is(err, ErrInvalidSquare) {
			t.Fatalf("ParseSquare(%q) error = %v, want ErrInvalidSquare", bad, err)
		}
	}
}

func TestInitialBoard(t *testing.T) {
	board := InitialBoard()
	checks := map[string]Piece{
		"a1": wp(Rook), "b1": wp(Knight), "c1": wp(Bishop), "d1": wp(Queen),
		"e1": wp(King), "f1": wp(Bishop), "g1": wp(Knight), "h1": wp(Rook),
		"e2": wp(Pawn), "d7": bp(Pawn),
		"d8": bp(Queen), "e8": bp(King),
		"e4": NoPiece, "d5": NoPiece,
	}
	for square, want := range checks {
		if got := board.ContentAt(MustParseSquare(square)); got != want {
			t.Fatalf("%s holds %v, want %v", square, got, want)
		}
	}

	count := 0
	for _, piece := range board {
		if !piece.IsEmpty() {
			count++
		}
	}
	if count != 32 {
		t.Fatalf("initial board has %d pieces, want 32", count)
	}
}

func TestPutContentAtLeavesOriginal(t *testing.T) {
	board := InitialBoard()
	e2 := MustParseSquare("e2")
	updated := board.PutContentAt(NoPiece, e2)

	if board.ContentAt(e2) != wp(Pawn) {
		t.Fatalf("original board changed: e2 = %v", board.ContentAt(e2))
	}
	if !updated.ContentAt(e2).IsEmpty() {
		t.Fatalf("updated board e2 = %v, want empty", updated.ContentAt(e2))
	}
}

func TestFindSquareRowMajor(t *testing.T) {
	board := InitialBoard()
	pos, ok := board.FindPiece(func(piece Piece, _ Position) bool {
		return piece == bp(Pawn)
	})
	if !ok || pos.SquareName() != "a7" {
		t.Fatalf("first black pawn = %v (found %v), want a7", pos, ok)
	}

	if _, ok := board.FindSquare(func(content Piece, pos Position) bool {
		return content.IsEmpty() && pos.Row < 2
	}); ok {
		t.Fatal("found an empty square on the white side of the initial board")
	}
}

func TestFindKing(t *testing.T) {
	board := InitialBoard()
	if got := board.FindKing(Black).SquareName(); got != "e8" {
		t.Fatalf("black king on %s, want e8", got)
	}

	t.Run("missing king", func(t *testing.T) {
		empty := board.PutContentAt(NoPiece, MustParseSquare("e1"))
		expectViolation(t, func() { empty.FindKing(White) })
	})
	t.Run("two kings", func(t *testing.T) {
		doubled := board.PutContentAt(wp(King), MustParseSquare("e4"))
		expectViolation(t, func() { doubled.FindKing(White) })
	})
}

func TestIsSquareAttacked(t *testing.T) {
	state := stateWith(White, map[string]Piece{
		"e1": wp(King),
		"e2": wp(Pawn),
		"c3": wp(Knight),
		"e8": bp(King),
		"h4": bp(Bishop),
	})
	board := state.Board

	tests := []struct {
		square   string
		attacker Player
		want     bool
	}{
		{"d3", White, true},  // pawn diagonal, even though empty
		{"f3", White, true},  // pawn diagonal
		{"e3", White, false}, // pawn push square is not attacked
		{"b5", White, true},  // knight
		{"e2", Black, false}, // off the h4 diagonal
		{"f2", Black, true},  // bishop
		{"e1", Black, true},  // bishop, through to the king
		{"d8", Black, true},  // king
		{"a5", Black, false},
	}

	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			got := board.IsSquareAttacked(MustParseSquare(tt.square), tt.attacker)
			if got != tt.want {
				t.Fatalf("IsSquareAttacked(%s, %s) = %v, want %v\n%v", tt.square, tt.attacker, got, tt.want, board)
			}
		})
	}

	if !board.IsPlayerInCheck(White) {
		t.Fatal("white king on e1 should be in check from h4")
	}
	if board.IsPlayerInCheck(Black) {
		t.Fatal("black king should not be in check")
	}
}

func TestBoardMarshalJSON(t *testing.T) {
	data, err := json.Marshal(InitialBoard())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 8 || len(rows[0]) != 8 {
		t.Fatalf("got %dx%d grid, want 8x8", len(rows), len(rows[0]))
	}
	if rows[0][4] == nil || *rows[0][4] != wp(King) {
		t.Fatalf("row 0 col 4 = %v, want white king", rows[0][4])
	}
	if rows[3][3] != nil {
		t.Fatalf("d4 = %v, want null", rows[3][3])
	}
}
