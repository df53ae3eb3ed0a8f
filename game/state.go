package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var ErrWrongTurn = errors.New("move does not belong to the role to move")

// State is the authoritative game state in linear tile values. States are
// values: NextState never modifies its argument.
type State struct {
	Grid     Values `json:"grid"`
	Turns    int    `json:"turns"`
	Score    int    `json:"score"`
	Terminal bool   `json:"terminal"`
}

// InitialState is the empty grid with the Placer to move.
func InitialState() State {
	return State{}
}

func (s State) NextToMove() Role {
	return RoleAt(s.Turns)
}

// Exponents returns the state's grid in the search engine's encoding.
func (s State) Exponents() (Grid, error) {
	return s.Grid.Exponents()
}

// NextState applies m to s. Moves without effect return ErrInvalidMove.
func NextState(s State, m Move) (State, error) {
	if s.Terminal {
		return s, ErrGameOver
	}
	g, err := s.Exponents()
	if err != nil {
		return s, err
	}

	switch m := m.(type) {
	case Slide:
		if s.NextToMove() != Slider {
			return s, fmt.Errorf("%s: %w", m, ErrWrongTurn)
		}
		next, gained := g.slide(m.Direction)
		if next == g {
			return s, fmt.Errorf("%s: %w", m, ErrInvalidMove)
		}
		return State{
			Grid:  next.Values(),
			Turns: s.Turns + TurnIncrement(m),
			Score: s.Score + gained,
		}, nil
	case Place:
		if s.NextToMove() != Placer {
			return s, fmt.Errorf("%s: %w", m, ErrWrongTurn)
		}
		if m.Value != 2 && m.Value != 4 {
			return s, fmt.Errorf("%s: %w", m, ErrInvalidTile)
		}
		if m.X < 0 || m.X >= Size || m.Y < 0 || m.Y >= Size {
			return s, fmt.Errorf("%s: cell is off the grid: %w", m, ErrInvalidMove)
		}
		next, ok := g.Place(m.X, m.Y, Exponent(m.Value))
		if !ok {
			return s, fmt.Errorf("%s: cell is occupied: %w", m, ErrInvalidMove)
		}
		return State{
			Grid:     next.Values(),
			Turns:    s.Turns + TurnIncrement(m),
			Score:    s.Score,
			Terminal: next.Dead(),
		}, nil
	default:
		panic("unexpected move type")
	}
}

// LegalMoves lists every move of the role to move, including both tile
// values for the Placer.
func (s State) LegalMoves() []Move {
	if s.Terminal {
		return nil
	}
	if s.NextToMove() == Slider {
		return lo.Filter(SliderMoves(), func(m Move, _ int) bool {
			_, err := NextState(s, m)
			return err == nil
		})
	}
	moves := []Move{}
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if s.Grid[x][y] == 0 {
				moves = append(moves, Place{X: x, Y: y, Value: 2}, Place{X: x, Y: y, Value: 4})
			}
		}
	}
	return moves
}

func (s State) String() string {
	var b strings.Builder
	line := strings.Repeat("+------", Size) + "+\n"
	for x := 0; x < Size; x++ {
		b.WriteString(line)
		for y := 0; y < Size; y++ {
			if v := s.Grid[x][y]; v > 0 {
				fmt.Fprintf(&b, "|%6d", v)
			} else {
				b.WriteString("|      ")
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString(line)
	fmt.Fprintf(&b, "turns: %d  score: %d  next: %s", s.Turns, s.Score, s.NextToMove())
	return b.String()
}
