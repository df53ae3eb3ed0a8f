package player

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"adversarial2048/game"

	"github.com/rs/zerolog/log"
)

// Human reads moves from a line based input. The Slider types a direction
// (u, d, l, r or the full name), the Placer types "row column [value]".
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

// PickMove prompts until a legal move is read. It returns nil once the input
// is exhausted.
func (p *Human) PickMove(state game.State) game.Move {
	fmt.Fprintln(p.out, state)
	for {
		fmt.Fprintf(p.out, "%s> ", state.NextToMove())
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				log.Error().Err(err).Msg("failed to read move")
			}
			return nil
		}

		move, err := parseMove(state.NextToMove(), p.in.Text())
		if err == nil {
			_, err = game.NextState(state, move)
		}
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return move
	}
}

func (p *Human) UpdateMove(game.Move, game.State) {}

func parseMove(role game.Role, line string) (game.Move, error) {
	fields := strings.Fields(line)
	if role == game.Slider {
		if len(fields) != 1 {
			return nil, fmt.Errorf("expected a direction, got %q", line)
		}
		d, err := game.ParseDirection(strings.ToLower(fields[0]))
		if err != nil {
			return nil, err
		}
		return game.Slide{Direction: d}, nil
	}

	if len(fields) < 2 || len(fields) > 3 {
		return nil, fmt.Errorf("expected a row, a column and an optional value, got %q", line)
	}
	values := []int{0, 0, 2}
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", field, err)
		}
		values[i] = v
	}
	return game.Place{X: values[0], Y: values[1], Value: values[2]}, nil
}
