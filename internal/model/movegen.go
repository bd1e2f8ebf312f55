package model

// geometry describes how a non-pawn piece moves: the directions it may travel
// and how many steps it may take along each (0 means unlimited).
type geometry struct {
	dirs  []Direction
	limit int
}

var pieceGeometry = map[PieceKind]geometry{
	King:   {dirs: allDirections, limit: 1},
	Queen:  {dirs: allDirections},
	Rook:   {dirs: cardinalDirections},
	Bishop: {dirs: diagonalDirections},
	Knight: {dirs: knightJumps, limit: 1},
}

type pawnProps struct {
	dir      Direction
	startRow int
	endRow   int
}

func pawnProperties(player Player) pawnProps {
	if player == White {
		return pawnProps{dir: up, startRow: 1, endRow: 7}
	}
	return pawnProps{dir: down, startRow: 6, endRow: 0}
}

// BasicMoves returns the moves of the piece at start that need no game
// context: no castling, no en passant, and no check filtering.
func BasicMoves(start MoveStart, board Board) []Move {
	if start.Piece.Kind == Pawn {
		return pawnMoves(start, board)
	}
	g, ok := pieceGeometry[start.Piece.Kind]
	if !ok {
		return nil
	}
	var moves []Move
	for _, dir := range g.dirs {
		moves = append(moves, rayMoves(start, dir, g.limit, board)...)
	}
	return moves
}

// rayMoves walks from start along dir until the edge, an occupied square or
// the step limit. An enemy occupant is included as a capture and ends the ray;
// an own piece ends it without inclusion.
func rayMoves(start MoveStart, dir Direction, limit int, board Board) []Move {
	var moves []Move
	pos := start.Position
	for steps := 1; limit == 0 || steps <= limit; steps++ {
		pos = pos.Step(dir)
		if !pos.InBounds() {
			break
		}
		content := board.ContentAt(pos)
		if content.IsEmpty() {
			moves = append(moves, Move{Start: start, End: MoveTarget{Position: pos}})
			continue
		}
		if content.Owner != start.Piece.Owner {
			moves = append(moves, Move{Start: start, End: MoveTarget{Position: pos, Captured: content}})
		}
		break
	}
	return moves
}

func pawnMoves(start MoveStart, board Board) []Move {
	props := pawnProperties(start.Piece.Owner)
	var moves []Move

	first := start.Position.Step(props.dir)
	if first.InBounds() && board.ContentAt(first).IsEmpty() {
		moves = append(moves, Move{Start: start, End: MoveTarget{Position: first}})
		second := first.Step(props.dir)
		if start.Position.Row == props.startRow && board.ContentAt(second).IsEmpty() {
			moves = append(moves, Move{
				Start:   start,
				End:     MoveTarget{Position: second},
				Special: PawnDoubleMove{},
			})
		}
	}

	for _, side := range []Direction{left, right} {
		target := start.Position.Step(props.dir, side)
		if !target.InBounds() {
			continue
		}
		content := board.ContentAt(target)
		if !content.IsEmpty() && content.Owner != start.Piece.Owner {
			moves = append(moves, Move{Start: start, End: MoveTarget{Position: target, Captured: content}})
		}
	}

	expanded := make([]Move, 0, len(moves))
	for _, move := range moves {
		if move.End.Position.Row != props.endRow {
			expanded = append(expanded, move)
			continue
		}
		for _, kind := range PromotionKinds {
			promotion := move
			promotion.Special = PawnQueening{Chosen: kind}
			expanded = append(expanded, promotion)
		}
	}
	return expanded
}

// CastlingMoves returns the castling moves available to the king at start.
func CastlingMoves(start MoveStart, state GameState) []Move {
	if start.Piece.Kind != King {
		return nil
	}
	rights := state.Castling.For(start.Piece.Owner)
	var moves []Move
	if rights.Kingside {
		if move, ok := castlingMove(Kingside, start, right, 2, state.Board); ok {
			moves = append(moves, move)
		}
	}
	if rights.Queenside {
		if move, ok := castlingMove(Queenside, start, left, 3, state.Board); ok {
			moves = append(moves, move)
		}
	}
	return moves
}

// castlingMove checks one side: the distance squares between king and rook
// must be empty, and the king's start, transit and destination squares must
// not be attacked.
func castlingMove(side CastlingSide, start MoveStart, dir Direction, distance int, board Board) (Move, bool) {
	owner := start.Piece.Owner
	rookPos := start.Position.Step(dir.Times(distance + 1))
	if !rookPos.InBounds() || board.ContentAt(rookPos) != (Piece{Kind: Rook, Owner: owner}) {
		return Move{}, false
	}
	for n := 1; n <= distance; n++ {
		if !board.ContentAt(start.Position.Step(dir.Times(n))).IsEmpty() {
			return Move{}, false
		}
	}
	for n := 0; n <= 2; n++ {
		if board.IsSquareAttacked(start.Position.Step(dir.Times(n)), owner.Opponent()) {
			return Move{}, false
		}
	}
	rookMove := Move{
		Start: MoveStart{Position: rookPos, Piece: board.ContentAt(rookPos)},
		End:   MoveTarget{Position: start.Position.Step(dir)},
	}
	return Move{
		Start:   start,
		End:     MoveTarget{Position: start.Position.Step(dir.Times(2))},
		Special: KingCastling{Side: side, RookMove: rookMove},
	}, true
}

// EnpassantMove returns the en passant capture available to the pawn at
// start, if the previous ply was a double step on an adjacent column.
func EnpassantMove(start MoveStart, state GameState) (Move, bool) {
	if start.Piece.Kind != Pawn || state.EnpassantColumn == nil {
		return Move{}, false
	}
	col := *state.EnpassantColumn
	props := pawnProperties(start.Piece.Owner)
	if abs(start.Position.Col-col) != 1 {
		return Move{}, false
	}
	if start.Position.Row != props.startRow+props.dir.Row*3 {
		return Move{}, false
	}
	captured := Position{Row: start.Position.Row, Col: col}
	if state.Board.ContentAt(captured) != (Piece{Kind: Pawn, Owner: start.Piece.Owner.Opponent()}) {
		return Move{}, false
	}
	return Move{
		Start:   start,
		End:     MoveTarget{Position: Position{Row: start.Position.Row + props.dir.Row, Col: col}},
		Special: PawnEnpassant{CapturedPawn: captured},
	}, true
}

func moveCandidates(start MoveStart, state GameState) []Move {
	moves := BasicMoves(start, state.Board)
	switch start.Piece.Kind {
	case King:
		moves = append(moves, CastlingMoves(start, state)...)
	case Pawn:
		if move, ok := EnpassantMove(start, state); ok {
			moves = append(moves, move)
		}
	}
	return moves
}

// LegalMoves returns the moves of the piece on pos that do not leave its own
// king attacked. Each candidate is applied to a scratch board and the king
// is checked afterwards.
func LegalMoves(pos Position, state GameState) []Move {
	if !pos.InBounds() {
		return nil
	}
	piece := state.Board.ContentAt(pos)
	if piece.IsEmpty() {
		return nil
	}
	return legalMoves(MoveStart{Position: pos, Piece: piece}, state)
}

func legalMoves(start MoveStart, state GameState) []Move {
	var legal []Move
	for _, move := range moveCandidates(start, state) {
		if !ApplyMove(move, state.Board).IsPlayerInCheck(start.Piece.Owner) {
			legal = append(legal, move)
		}
	}
	return legal
}

// AllLegalMoves returns every legal move of player in row-major order of the
// moving pieces.
func AllLegalMoves(player Player, state GameState) []Move {
	var moves []Move
	for i, piece := range state.Board {
		if piece.IsEmpty() || piece.Owner != player {
			continue
		}
		moves = append(moves, legalMoves(MoveStart{Position: positionAt(i), Piece: piece}, state)...)
	}
	return moves
}

// HasAnyLegalMoves stops at the first piece of player with a legal move.
func HasAnyLegalMoves(player Player, state GameState) bool {
	return state.Board.SomePiece(func(piece Piece, pos Position) bool {
		return piece.Owner == player && len(legalMoves(MoveStart{Position: pos, Piece: piece}, state)) > 0
	})
}

// Destinations collapses promotion variants so each reachable square appears once.
func Destinations(moves []Move) []Position {
	seen := make(map[Position]bool, len(moves))
	var out []Position
	for _, move := range moves {
		if !seen[move.End.Position] {
			seen[move.End.Position] = true
			out = append(out, move.End.Position)
		}
	}
	return out
}
