package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Board is an immutable 8x8 grid stored row-major. Being an array, a Board is
// copied on assignment; every update returns a new Board.
type Board [boardSize * boardSize]Piece

var officerRow = []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialBoard returns the standard starting setup.
func InitialBoard() Board {
	var board Board
	for col, kind := range officerRow {
		board[Position{Row: 0, Col: col}.index()] = Piece{Kind: kind, Owner: White}
		board[Position{Row: 1, Col: col}.index()] = Piece{Kind: Pawn, Owner: White}
		board[Position{Row: 6, Col: col}.index()] = Piece{Kind: Pawn, Owner: Black}
		board[Position{Row: 7, Col: col}.index()] = Piece{Kind: kind, Owner: Black}
	}
	return board
}

// NewBoard builds a board holding exactly the given pieces.
func NewBoard(pieces map[Position]Piece) Board {
	var board Board
	for pos, piece := range pieces {
		if pos.InBounds() {
			board[pos.index()] = piece
		}
	}
	return board
}

func (b Board) ContentAt(pos Position) Piece {
	return b[pos.index()]
}

// PutContentAt returns a copy of the board with one square replaced.
func (b Board) PutContentAt(content Piece, pos Position) Board {
	b[pos.index()] = content
	return b
}

// FindSquare returns the first square, in row-major order, satisfying cond.
func (b Board) FindSquare(cond func(content Piece, pos Position) bool) (Position, bool) {
	for i, content := range b {
		pos := positionAt(i)
		if cond(content, pos) {
			return pos, true
		}
	}
	return Position{}, false
}

// FindPiece is FindSquare restricted to occupied squares.
func (b Board) FindPiece(cond func(piece Piece, pos Position) bool) (Position, bool) {
	return b.FindSquare(func(content Piece, pos Position) bool {
		return !content.IsEmpty() && cond(content, pos)
	})
}

func (b Board) SomePiece(cond func(piece Piece, pos Position) bool) bool {
	_, ok := b.FindPiece(cond)
	return ok
}

// FindKing locates the sole king of player. Zero or several kings is an
// invariant violation.
func (b Board) FindKing(player Player) Position {
	king := Piece{Kind: King, Owner: player}
	var found []Position
	for i, content := range b {
		if content == king {
			found = append(found, positionAt(i))
		}
	}
	if len(found) != 1 {
		violate("expected one %s king, found %d", player, len(found))
	}
	return found[0]
}

// IsSquareAttacked reports whether any piece of attacker has pos among its
// basic destinations. Pawns attack their diagonals only. Whether the
// attacker's own king would be exposed is ignored.
func (b Board) IsSquareAttacked(pos Position, attacker Player) bool {
	return b.SomePiece(func(piece Piece, from Position) bool {
		if piece.Owner != attacker {
			return false
		}
		if piece.Kind == Pawn {
			forward := pawnProperties(attacker).dir
			for _, side := range []Direction{left, right} {
				if from.Step(forward, side) == pos {
					return true
				}
			}
			return false
		}
		for _, move := range BasicMoves(MoveStart{Position: from, Piece: piece}, b) {
			if move.End.Position == pos {
				return true
			}
		}
		return false
	})
}

// IsPlayerInCheck reports whether player's king is attacked.
func (b Board) IsPlayerInCheck(player Player) bool {
	return b.IsSquareAttacked(b.FindKing(player), player.Opponent())
}

// String renders the board with the black back rank on top.
func (b Board) String() string {
	var sb strings.Builder
	for row := boardSize - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < boardSize; col++ {
			sb.WriteString(b.ContentAt(Position{Row: row, Col: col}).String())
			if col < boardSize-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

// MarshalJSON encodes the board as rows of nullable pieces, row 0 first.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, boardSize)
	for row := range rows {
		rows[row] = make([]*Piece, boardSize)
		for col := range rows[row] {
			content := b.ContentAt(Position{Row: row, Col: col})
			if !content.IsEmpty() {
				rows[row][col] = &content
			}
		}
	}
	return json.Marshal(rows)
}
