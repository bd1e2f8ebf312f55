package model

import "fmt"

type CastlingRights struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

type Castling struct {
	White CastlingRights `json:"white"`
	Black CastlingRights `json:"black"`
}

func (c Castling) For(player Player) CastlingRights {
	if player == White {
		return c.White
	}
	return c.Black
}

// GameState is an immutable snapshot of a game between two plies.
type GameState struct {
	PlayerInTurn    Player   `json:"playerInTurn"`
	Board           Board    `json:"board"`
	Castling        Castling `json:"castling"`
	EnpassantColumn *int     `json:"enpassantColumn"`
	PreviousMove    *Move    `json:"previousMove"`
}

// InitialPosition returns the standard starting state with white to move.
func InitialPosition() GameState {
	return GameState{
		PlayerInTurn: White,
		Board:        InitialBoard(),
		Castling: Castling{
			White: CastlingRights{Kingside: true, Queenside: true},
			Black: CastlingRights{Kingside: true, Queenside: true},
		},
	}
}

func homeRow(player Player) int {
	if player == White {
		return 0
	}
	return boardSize - 1
}

// ApplyMove returns the board after executing move. It performs no legality
// checks; it is used both for commits and to test a move for self-check.
func ApplyMove(move Move, board Board) Board {
	start, end := move.Start, move.End
	board = board.PutContentAt(NoPiece, start.Position).PutContentAt(start.Piece, end.Position)
	switch special := move.Special.(type) {
	case PawnEnpassant:
		board = board.PutContentAt(NoPiece, special.CapturedPawn)
	case PawnQueening:
		board = board.PutContentAt(Piece{Kind: special.Chosen, Owner: start.Piece.Owner}, end.Position)
	case KingCastling:
		rook := special.RookMove
		board = board.PutContentAt(NoPiece, rook.Start.Position).PutContentAt(rook.Start.Piece, rook.End.Position)
	case PawnDoubleMove, nil:
	}
	return board
}

// CommitMove validates move against the legal moves of its start square and
// returns the resulting state. The input state is never modified.
func CommitMove(move Move, state GameState) (GameState, error) {
	start := move.Start
	if !start.Position.InBounds() {
		return state, fmt.Errorf("%w: start %v off the board", ErrIllegalMove, start.Position)
	}
	if state.Board.ContentAt(start.Position) != start.Piece {
		violate("move %v expects %v on %v, found %v",
			move, start.Piece, start.Position, state.Board.ContentAt(start.Position))
	}
	if start.Piece.Owner != state.PlayerInTurn {
		return state, fmt.Errorf("%w: %s to move", ErrIllegalMove, state.PlayerInTurn)
	}
	for _, legal := range LegalMoves(start.Position, state) {
		if legal.SameAs(move) {
			return nextState(legal, state), nil
		}
	}
	return state, fmt.Errorf("%w: %v", ErrIllegalMove, move)
}

func nextState(move Move, state GameState) GameState {
	board := ApplyMove(move, state.Board)
	var enpassantColumn *int
	if _, ok := move.Special.(PawnDoubleMove); ok {
		col := move.End.Position.Col
		enpassantColumn = &col
	}
	return GameState{
		PlayerInTurn: move.Start.Piece.Owner.Opponent(),
		Board:        board,
		Castling: Castling{
			White: castlingRights(White, board, state.Castling.White),
			Black: castlingRights(Black, board, state.Castling.Black),
		},
		EnpassantColumn: enpassantColumn,
		PreviousMove:    &move,
	}
}

// castlingRights derives a player's rights from the previous rights and the
// board: a right survives only while the king and that rook sit on their home
// squares.
func castlingRights(player Player, board Board, prev CastlingRights) CastlingRights {
	row := homeRow(player)
	kingHome := board.ContentAt(Position{Row: row, Col: 4}) == Piece{Kind: King, Owner: player}
	rook := Piece{Kind: Rook, Owner: player}
	return CastlingRights{
		Kingside:  prev.Kingside && kingHome && board.ContentAt(Position{Row: row, Col: 7}) == rook,
		Queenside: prev.Queenside && kingHome && board.ContentAt(Position{Row: row, Col: 0}) == rook,
	}
}
