package model

import "strings"

// Notation labels a committed move in algebraic notation. resulting is the
// state the move produced.
func Notation(move Move, resulting GameState) string {
	notation := baseNotation(move, resulting.Board)
	threat, ok := ClassifyThreat(move.Start.Piece.Owner.Opponent(), resulting)
	if !ok {
		return notation
	}
	switch threat.Kind {
	case Check:
		return notation + "+"
	case Checkmate:
		return notation + "#"
	}
	return notation
}

func baseNotation(move Move, board Board) string {
	if castling, ok := move.Special.(KingCastling); ok {
		if castling.Side == Kingside {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	from, to := move.Start.Position, move.End.Position
	piece := move.Start.Piece
	sb.WriteString(piece.Kind.Notation())
	if piece.Kind != Pawn {
		sb.WriteString(disambiguation(move, board))
	}
	if move.IsCapture() {
		if piece.Kind == Pawn {
			sb.WriteString(from.FileName())
		}
		sb.WriteString("x")
	}
	sb.WriteString(to.SquareName())
	if kind, ok := move.Promotion(); ok {
		sb.WriteString("=" + kind.Notation())
	}
	return sb.String()
}

// disambiguation finds other pieces of the mover's kind and owner that could
// also reach the destination on board (the board after the move, with the
// destination cleared). It prefers the source file, then the one-based rank,
// then both.
func disambiguation(move Move, board Board) string {
	from, to := move.Start.Position, move.End.Position
	cleared := board.PutContentAt(NoPiece, to)
	var rivals []Position
	cleared.FindPiece(func(other Piece, pos Position) bool {
		if other != move.Start.Piece || pos == to {
			return false
		}
		for _, m := range BasicMoves(MoveStart{Position: pos, Piece: other}, cleared) {
			if m.End.Position == to {
				rivals = append(rivals, pos)
				break
			}
		}
		return false
	})
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, pos := range rivals {
		sameFile = sameFile || pos.Col == from.Col
		sameRank = sameRank || pos.Row == from.Row
	}
	switch {
	case !sameFile:
		return from.FileName()
	case !sameRank:
		return from.RankName()
	default:
		return from.SquareName()
	}
}
