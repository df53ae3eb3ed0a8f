package player

import (
	"bytes"
	"strings"
	"testing"

	"adversarial2048/game"

	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	t.Run("plays legal moves for both roles", func(t *testing.T) {
		p := NewRandom(1)
		s := game.InitialState()

		for range 200 {
			move := p.PickMove(s)
			next, err := game.NextState(s, move)
			require.NoError(t, err, "Move %s from\n%s", move, s)
			if next.Terminal {
				break
			}
			s = next
		}
	})

	t.Run("places mostly common tiles", func(t *testing.T) {
		p := NewRandom(5)
		rare := 0
		for range 1000 {
			if p.PickMove(game.InitialState()).(game.Place).Value == 4 {
				rare++
			}
		}
		require.InDelta(t, 100, rare, 40)
	})

	t.Run("same seed replays the same moves", func(t *testing.T) {
		a, b := NewRandom(9), NewRandom(9)
		for range 20 {
			require.Equal(t, a.PickMove(game.InitialState()), b.PickMove(game.InitialState()))
		}
	})

	t.Run("no move from a terminal state", func(t *testing.T) {
		require.Nil(t, NewRandom(1).PickMove(game.State{Terminal: true}))
	})
}

func TestHuman(t *testing.T) {
	t.Run("reads placements and slides", func(t *testing.T) {
		var out bytes.Buffer
		p := NewHuman(strings.NewReader("1 2\n0 3 4\nL\n"), &out)

		require.Equal(t, game.Place{X: 1, Y: 2, Value: 2}, p.PickMove(game.InitialState()))
		require.Equal(t, game.Place{X: 0, Y: 3, Value: 4}, p.PickMove(game.InitialState()))
		require.Equal(t, game.Slide{Direction: game.Left}, p.PickMove(game.State{Grid: game.Values{{0, 2}}, Turns: 1}))
		require.Contains(t, out.String(), "placer> ")
	})

	t.Run("prompts again after an illegal move", func(t *testing.T) {
		var out bytes.Buffer
		p := NewHuman(strings.NewReader("up\nsideways\nright\n"), &out)
		s := game.State{Grid: game.Values{{2}}, Turns: 1}

		require.Equal(t, game.Slide{Direction: game.Right}, p.PickMove(s))
		require.Contains(t, out.String(), game.ErrInvalidMove.Error())
		require.Contains(t, out.String(), `unknown direction "sideways"`)
	})

	t.Run("exhausted input yields no move", func(t *testing.T) {
		p := NewHuman(strings.NewReader("5 5\n"), &bytes.Buffer{})

		require.Nil(t, p.PickMove(game.InitialState()))
	})
}
