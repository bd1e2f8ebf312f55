package model

import "strings"

type PieceKind string

const (
	King   PieceKind = "king"
	Queen  PieceKind = "queen"
	Rook   PieceKind = "rook"
	Bishop PieceKind = "bishop"
	Knight PieceKind = "knight"
	Pawn   PieceKind = "pawn"
)

// PromotionKinds lists the kinds a pawn may promote to, in the order they are offered.
var PromotionKinds = []PieceKind{Queen, Rook, Bishop, Knight}

// Notation returns the piece letter used in algebraic notation; pawns have none.
func (k PieceKind) Notation() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// ParsePieceKind accepts either the kind name or its notation letter.
func ParsePieceKind(s string) (PieceKind, bool) {
	switch strings.ToLower(s) {
	case "king", "k":
		return King, true
	case "queen", "q":
		return Queen, true
	case "rook", "r":
		return Rook, true
	case "bishop", "b":
		return Bishop, true
	case "knight", "n":
		return Knight, true
	case "pawn", "p":
		return Pawn, true
	}
	return "", false
}

type Player string

const (
	White Player = "white"
	Black Player = "black"
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == White {
		return Black
	}
	return White
}

// Piece is the content of a square. The zero Piece is an empty square.
type Piece struct {
	Kind  PieceKind `json:"type"`
	Owner Player    `json:"player"`
}

// NoPiece is the content of an empty square.
var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Kind == ""
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "-"
	}
	letter := p.Kind.Notation()
	if p.Kind == Pawn {
		letter = "P"
	}
	if p.Owner == Black {
		return strings.ToLower(letter)
	}
	return letter
}
