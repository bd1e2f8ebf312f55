package model

type MoveStart struct {
	Position Position `json:"position"`
	Piece    Piece    `json:"piece"`
}

type MoveTarget struct {
	Position Position `json:"position"`
	Captured Piece    `json:"captured"`
}

// Move is a plan for a single ply. Applying it is a separate step.
type Move struct {
	Start   MoveStart   `json:"start"`
	End     MoveTarget  `json:"end"`
	Special SpecialMove `json:"-"`
}

// SpecialMove is the payload of a non-plain move. The set of implementations
// is closed: PawnDoubleMove, PawnEnpassant, PawnQueening and KingCastling.
type SpecialMove interface {
	specialMove()
}

type PawnDoubleMove struct{}

type PawnEnpassant struct {
	// CapturedPawn is the square of the pawn taken, not the destination.
	CapturedPawn Position `json:"capturedPawn"`
}

type PawnQueening struct {
	Chosen PieceKind `json:"chosen"`
}

type CastlingSide string

const (
	Kingside  CastlingSide = "kingside"
	Queenside CastlingSide = "queenside"
)

type KingCastling struct {
	Side     CastlingSide `json:"side"`
	RookMove Move         `json:"rookMove"`
}

func (PawnDoubleMove) specialMove() {}
func (PawnEnpassant) specialMove()  {}
func (PawnQueening) specialMove()   {}
func (KingCastling) specialMove()   {}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	if _, ok := m.Special.(PawnEnpassant); ok {
		return true
	}
	return !m.End.Captured.IsEmpty()
}

// Promotion returns the chosen kind when the move promotes a pawn.
func (m Move) Promotion() (PieceKind, bool) {
	if q, ok := m.Special.(PawnQueening); ok {
		return q.Chosen, true
	}
	return "", false
}

// SameAs compares moves by their observable effect. Two moves are the same if
// they start and end on the same squares and promote to the same kind.
func (m Move) SameAs(other Move) bool {
	if m.Start.Position != other.Start.Position || m.End.Position != other.End.Position {
		return false
	}
	mk, _ := m.Promotion()
	ok, _ := other.Promotion()
	return mk == ok
}

func (m Move) String() string {
	s := m.Start.Position.SquareName() + m.End.Position.SquareName()
	if kind, ok := m.Promotion(); ok {
		s += kind.Notation()
	}
	return s
}
