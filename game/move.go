package game

import (
	"encoding/json"
	"fmt"

	"adversarial2048/utils"
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = []string{Up: "up", Down: "down", Left: "left", Right: "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		panic("unexpected direction")
	}
	return directionNames[d]
}

// ParseDirection accepts full names or their first letter.
func ParseDirection(s string) (Direction, error) {
	if i := utils.FindIndex(directionNames, s); i >= 0 {
		return Direction(i), nil
	}
	if i := utils.FindIndexFunc(directionNames, func(name string) bool { return name[:1] == s }); i >= 0 {
		return Direction(i), nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Move is either a Slide or a Place. The unexported method closes the set.
type Move interface {
	fmt.Stringer
	isMove()
}

// Slide is the Slider's move.
type Slide struct {
	Direction Direction
}

// Place is the Placer's move. X is the row, Y the column and Value the
// linear tile value (2 or 4).
type Place struct {
	X, Y  int
	Value int
}

func (Slide) isMove() {}
func (Place) isMove() {}

func (s Slide) String() string { return "slide " + s.Direction.String() }
func (p Place) String() string { return fmt.Sprintf("place %d at (%d, %d)", p.Value, p.X, p.Y) }

var sliderMoves = [4]Move{
	Slide{Up},
	Slide{Left},
	Slide{Right},
	Slide{Down},
}

var placerMoves = func() [Size * Size]Move {
	var moves [Size * Size]Move
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			moves[x*Size+y] = Place{X: x, Y: y, Value: 2}
		}
	}
	return moves
}()

// SliderMoves returns the Slider's fixed move set in search order.
func SliderMoves() []Move {
	moves := sliderMoves
	return moves[:]
}

// PlacerMoves returns one placement of the common tile per cell, row major.
// The search uses this reduced set instead of every tile value.
func PlacerMoves() []Move {
	moves := placerMoves
	return moves[:]
}

// MovesFor returns the fixed move set of a role.
func MovesFor(r Role) []Move {
	if r == Slider {
		return SliderMoves()
	}
	return PlacerMoves()
}

// MoveDTO is the wire form of a Move.
type MoveDTO struct {
	Kind      string `json:"kind"`
	Direction string `json:"direction,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Value     int    `json:"value,omitempty"`
}

func EncodeMove(m Move) MoveDTO {
	switch m := m.(type) {
	case Slide:
		return MoveDTO{Kind: "slide", Direction: m.Direction.String()}
	case Place:
		return MoveDTO{Kind: "place", X: m.X, Y: m.Y, Value: m.Value}
	default:
		panic("unexpected move type")
	}
}

func DecodeMove(dto MoveDTO) (Move, error) {
	switch dto.Kind {
	case "slide":
		d, err := ParseDirection(dto.Direction)
		if err != nil {
			return nil, err
		}
		return Slide{Direction: d}, nil
	case "place":
		if dto.X < 0 || dto.X >= Size || dto.Y < 0 || dto.Y >= Size {
			return nil, fmt.Errorf("cell (%d, %d) is off the grid", dto.X, dto.Y)
		}
		if dto.Value != 2 && dto.Value != 4 {
			return nil, fmt.Errorf("tile value %d cannot be placed", dto.Value)
		}
		return Place{X: dto.X, Y: dto.Y, Value: dto.Value}, nil
	}
	return nil, fmt.Errorf("unknown move kind %q", dto.Kind)
}

// MarshalMove and UnmarshalMove encode moves as JSON through MoveDTO.
func MarshalMove(m Move) ([]byte, error) {
	return json.Marshal(EncodeMove(m))
}

func UnmarshalMove(data []byte) (Move, error) {
	var dto MoveDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode move: %w", err)
	}
	return DecodeMove(dto)
}
