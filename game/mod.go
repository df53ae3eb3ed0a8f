package game

import "errors"

// Size is the side length of the square grid.
const Size = 4

// Tile exponents the Placer may put on the grid: 2 is common, 4 is rare.
const (
	CommonTile uint8 = 1
	RareTile   uint8 = 2
)

var (
	ErrInvalidMove = errors.New("invalid move") // the move has no effect on the grid
	ErrGameOver    = errors.New("game is over")
	ErrInvalidTile = errors.New("invalid tile value")
)

type Role int

const (
	Placer Role = iota
	Slider
)

func (r Role) String() string {
	switch r {
	case Placer:
		return "placer"
	case Slider:
		return "slider"
	default:
		panic("unexpected role")
	}
}

// RoleAt returns the role to move at the given turn: even turns belong to
// the Placer, odd turns to the Slider.
func RoleAt(turns int) Role {
	if turns%2 == 0 {
		return Placer
	}
	return Slider
}

// TurnIncrement is the number of turns a move consumes. Slides and common
// placements take one turn, rare placements take three so that the parity
// is kept and turns track the sum of placed tile values.
func TurnIncrement(m Move) int {
	switch m := m.(type) {
	case Slide:
		return 1
	case Place:
		if Exponent(m.Value) == RareTile {
			return 3
		}
		return 1
	default:
		panic("unexpected move type")
	}
}

// Evaluates an exponent grid to a score that grows as the grid becomes
// more favorable to the Slider.
type Evaluate func(Grid) float64
