package model

import "fmt"

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply is the display record of one committed move.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceKind       `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

// MovePair groups a white ply with the black reply, as in a score sheet.
type MovePair struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

// MoveRecord is the minimal description of a committed move, enough to replay it.
type MoveRecord struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Promotion PieceKind `json:"promotion,omitempty"`
}

func newPly(move Move, resulting GameState) Ply {
	ply := Ply{
		Piece:    move.Start.Piece,
		From:     move.Start.Position,
		To:       move.End.Position,
		Notation: Notation(move, resulting),
	}
	switch special := move.Special.(type) {
	case PawnEnpassant:
		captured := Piece{Kind: Pawn, Owner: move.Start.Piece.Owner.Opponent()}
		ply.CapturedPiece = &captured
	case KingCastling:
		ply.CastleRookMove = &CastleRookMove{From: special.RookMove.Start.Position, To: special.RookMove.End.Position}
	case PawnQueening:
		ply.Promotion = special.Chosen
	}
	if ply.CapturedPiece == nil && !move.End.Captured.IsEmpty() {
		captured := move.End.Captured
		ply.CapturedPiece = &captured
	}
	return ply
}

func (p Ply) Record() MoveRecord {
	return MoveRecord{From: p.From.SquareName(), To: p.To.SquareName(), Promotion: p.Promotion}
}

// History is the linear list of states of one game, starting from the
// initial position, with the ply that produced each later state.
type History struct {
	states []GameState
	plies  []Ply
}

func NewHistory(initial GameState) *History {
	return &History{states: []GameState{initial}}
}

// Append records a committed ply and the state it produced.
func (h *History) Append(ply Ply, state GameState) {
	h.plies = append(h.plies, ply)
	h.states = append(h.states, state)
}

func (h *History) Present() GameState {
	return h.states[len(h.states)-1]
}

// Len is the number of states, including the initial one.
func (h *History) Len() int {
	return len(h.states)
}

func (h *History) State(index int) (GameState, error) {
	if index < 0 || index >= len(h.states) {
		return GameState{}, fmt.Errorf("history index %d out of range [0,%d)", index, len(h.states))
	}
	return h.states[index], nil
}

func (h *History) Plies() []Ply {
	return append([]Ply(nil), h.plies...)
}

func (h *History) Records() []MoveRecord {
	records := make([]MoveRecord, len(h.plies))
	for i, ply := range h.plies {
		records[i] = ply.Record()
	}
	return records
}

// Pairs groups the plies by move number.
func (h *History) Pairs() []MovePair {
	var pairs []MovePair
	for _, p := range h.plies {
		ply := &p
		if ply.Piece.Owner == White || len(pairs) == 0 {
			pairs = append(pairs, MovePair{Number: len(pairs) + 1})
		}
		last := &pairs[len(pairs)-1]
		if ply.Piece.Owner == White {
			last.WhitePly = ply
		} else {
			last.BlackPly = ply
		}
	}
	return pairs
}
