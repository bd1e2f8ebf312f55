package model

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

const boardSize = 8

// Position addresses a square. Row 0 is the white back rank, col 0 is the a-file.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is a step vector applied to a Position.
type Direction struct {
	Row int
	Col int
}

var (
	up        = Direction{Row: 1, Col: 0}
	down      = Direction{Row: -1, Col: 0}
	left      = Direction{Row: 0, Col: -1}
	right     = Direction{Row: 0, Col: 1}
	upRight   = Direction{Row: 1, Col: 1}
	downRight = Direction{Row: -1, Col: 1}
	downLeft  = Direction{Row: -1, Col: -1}
	upLeft    = Direction{Row: 1, Col: -1}
)

var (
	cardinalDirections = []Direction{up, down, left, right}
	diagonalDirections = []Direction{upRight, downRight, downLeft, upLeft}
	allDirections      = append(append([]Direction{}, cardinalDirections...), diagonalDirections...)
	knightJumps        = []Direction{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
)

// Step returns the position reached by applying each direction in turn.
func (p Position) Step(dirs ...Direction) Position {
	for _, d := range dirs {
		p = Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
	}
	return p
}

// Times scales a direction.
func (d Direction) Times(n int) Direction {
	return Direction{Row: d.Row * n, Col: d.Col * n}
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < boardSize && p.Col >= 0 && p.Col < boardSize
}

func (p Position) index() int {
	return p.Row*boardSize + p.Col
}

func positionAt(index int) Position {
	return Position{Row: index / boardSize, Col: index % boardSize}
}

// FileName returns the file letter of the position ("a".."h").
func (p Position) FileName() string {
	return columnToFile(p.Col)
}

// RankName returns the one-based rank digit of the position ("1".."8").
func (p Position) RankName() string {
	return fmt.Sprintf("%d", p.Row+1)
}

// SquareName returns the algebraic square name, e.g. "e4".
func (p Position) SquareName() string {
	return p.FileName() + p.RankName()
}

func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return p.SquareName()
}

func columnToFile(col int) string {
	return fmt.Sprintf("%c", 'a'+col)
}

// ParseSquare converts an algebraic square name such as "g1" to a Position.
func ParseSquare(name string) (Position, error) {
	if len(name) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	pos := Position{Row: int(name[1] - '1'), Col: int(name[0] - 'a')}
	if !pos.InBounds() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return pos, nil
}

// MustParseSquare is ParseSquare for literals known to be valid.
func MustParseSquare(name string) Position {
	pos, err := ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return pos
}

func abs[T constraints.Integer](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
