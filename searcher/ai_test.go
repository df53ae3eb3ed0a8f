package searcher

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"adversarial2048/game"
	"adversarial2048/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func requireNoStaleNodes(t *testing.T, a *Ai) {
	t.Helper()
	for _, nodes := range a.table.nodes {
		for _, n := range nodes {
			require.GreaterOrEqual(t, n.turns, a.root.Turns, "Nodes behind the root should be evicted")
		}
	}
}

func TestNewAi(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a := NewAi(WithDepth(0), WithTurnsMod(-1), WithEvaluationFn(nil))

		require.Equal(t, meta.DEPTH, a.depth)
		require.Equal(t, meta.TURNS_MOD, a.turnsMod)
		require.True(t, a.iterative)
		require.NotNil(t, a.evaluate)
		require.Equal(t, NodeKey{}, a.root)
	})

	t.Run("turn window must cover the search", func(t *testing.T) {
		require.Panics(t, func() { NewAi(WithDepth(10), WithTurnsMod(30)) })
		require.NotPanics(t, func() { NewAi(WithDepth(10), WithTurnsMod(31)) })
	})
}

func TestPickMove(t *testing.T) {
	t.Run("empty grid at depth one yields a single common tile", func(t *testing.T) {
		a := NewAi(WithDepth(1))
		s := game.InitialState()

		move := a.PickMove(s)

		require.IsType(t, game.Place{}, move)
		next, err := game.NextState(s, move)
		require.NoError(t, err)
		g, err := next.Exponents()
		require.NoError(t, err)
		require.Equal(t, game.Size*game.Size-1, g.Empty())
		require.Equal(t, game.CommonTile, g.MaxTile())
		require.Equal(t, s, game.InitialState(), "PickMove should not change the state")
	})

	t.Run("picked move leads to the best child", func(t *testing.T) {
		r := rand.New(rand.NewSource(11))
		for i := range 6 {
			s := playRandomly(r, 3+i*9)
			a := NewAi(WithDepth(3), WithMetrics())
			a.Reset(s)

			move := a.PickMove(s)

			_, err := game.NextState(s, move)
			require.NoError(t, err, "Move %s should be legal from\n%s", move, s)
			child, ok := keyOf(s).child(move)
			require.True(t, ok)
			require.Equal(t, a.Metric().Value, -reference(child, s.Turns+3, evaluate))
		}
	})

	t.Run("desynchronized state is a broken invariant", func(t *testing.T) {
		a := NewAi()
		s := game.State{Grid: game.Values{{2}}, Turns: 1}

		require.Panics(t, func() { a.PickMove(s) })
	})

	t.Run("terminal state has no move", func(t *testing.T) {
		a := NewAi()
		dead := game.State{Grid: deadGrid.Values(), Turns: 41, Terminal: true}
		a.Reset(dead)

		require.Panics(t, func() { a.PickMove(dead) })
	})

	t.Run("deadline stops deepening between passes", func(t *testing.T) {
		a := NewAi(WithDepth(5), WithDuration(time.Nanosecond), WithMetrics())

		a.PickMove(game.InitialState())

		require.Equal(t, 1, a.Metric().Passes)
		require.Equal(t, 1, a.Metric().Depth)
	})

	t.Run("logs the root value without metrics", func(t *testing.T) {
		var buf bytes.Buffer
		logger, level := log.Logger, zerolog.GlobalLevel()
		log.Logger = zerolog.New(&buf)
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		t.Cleanup(func() {
			log.Logger = logger
			zerolog.SetGlobalLevel(level)
		})

		r := rand.New(rand.NewSource(7))
		s := playRandomly(r, 20)
		want := reference(keyOf(s), s.Turns+2, evaluate)
		a := NewAi(WithDepth(2))
		a.Reset(s)

		a.PickMove(s)

		var logged []float64
		scanner := bufio.NewScanner(&buf)
		for scanner.Scan() {
			var line struct {
				Message string  `json:"message"`
				Value   float64 `json:"value"`
			}
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
			if line.Message == "picked move" {
				logged = append(logged, line.Value)
			}
		}
		require.Len(t, logged, 1)
		require.InDelta(t, want, logged[0], 1e-6)
		require.Zero(t, a.Metric().Value, "Without metrics the search statistics stay empty")
	})
}

func TestUpdateMove(t *testing.T) {
	t.Run("self play keeps the root in sync and evicts old turns", func(t *testing.T) {
		a := NewAi(WithDepth(3))
		s := game.InitialState()

		for range 40 {
			move := a.PickMove(s)
			next, err := game.NextState(s, move)
			require.NoError(t, err)

			a.UpdateMove(move, next)
			s = next

			require.Equal(t, keyOf(s), a.root)
			requireNoStaleNodes(t, a)
			if s.Terminal {
				break
			}
		}
	})

	t.Run("rare placements skip turns", func(t *testing.T) {
		a := NewAi(WithDepth(2))
		s := game.InitialState()
		a.Search(2)

		move := game.Place{X: 1, Y: 1, Value: 4}
		next, err := game.NextState(s, move)
		require.NoError(t, err)
		a.UpdateMove(move, next)

		require.Equal(t, 3, a.root.Turns)
		require.Equal(t, game.Slider, a.root.Role())
		requireNoStaleNodes(t, a)
		require.NotPanics(t, func() { a.PickMove(next) })
	})

	t.Run("search after a commit matches a fresh search", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		s := playRandomly(r, 12)
		a := NewAi(WithDepth(4))
		a.Reset(s)

		move := a.PickMove(s)
		next, err := game.NextState(s, move)
		require.NoError(t, err)
		a.UpdateMove(move, next)

		fresh := NewAi(WithDepth(4))
		fresh.Reset(next)
		require.Equal(t, fresh.Search(4), a.Search(4))
		require.Equal(t, reference(keyOf(next), next.Turns+4, evaluate), a.Search(4))
	})

	t.Run("contract breaches panic", func(t *testing.T) {
		s := game.InitialState()
		placed, err := game.NextState(s, game.Place{X: 0, Y: 0, Value: 2})
		require.NoError(t, err)

		a := NewAi()
		require.Panics(t, func() { a.UpdateMove(game.Slide{Direction: game.Left}, placed) }, "Slides are illegal on an empty grid")

		a = NewAi()
		require.Panics(t, func() { a.UpdateMove(game.Place{X: 3, Y: 3, Value: 2}, placed) }, "The state does not follow from the move")

		a = NewAi()
		a.Reset(placed)
		require.Panics(t, func() { a.advance(NodeKey{}) })
	})

	t.Run("a jump past the window clears the table", func(t *testing.T) {
		a := NewAi(WithDepth(1), WithTurnsMod(4))
		a.Search(1)
		require.NotZero(t, a.table.size())

		a.advance(NodeKey{Turns: 9, Grid: game.Grid{{1}}})

		require.Zero(t, a.table.size())
		require.Equal(t, 9, a.root.Turns)
	})
}

func TestReset(t *testing.T) {
	a := NewAi(WithDepth(2))
	a.Search(2)
	s := game.State{Grid: game.Values{{2, 4}}, Turns: 7}

	a.Reset(s)

	require.Zero(t, a.table.size())
	require.Equal(t, keyOf(s), a.root)
	require.NotPanics(t, func() { a.PickMove(s) })
}
