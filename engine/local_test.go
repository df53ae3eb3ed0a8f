package engine

import (
	"context"
	"testing"

	"adversarial2048/game"
	"adversarial2048/player"
	"adversarial2048/searcher"

	"github.com/stretchr/testify/require"
)

type mockPlayer struct {
	moves   []game.Move
	updates []game.Move
	resets  []game.State
}

func (p *mockPlayer) PickMove(game.State) game.Move {
	if len(p.moves) == 0 {
		return nil
	}
	move := p.moves[0]
	p.moves = p.moves[1:]
	return move
}

func (p *mockPlayer) UpdateMove(move game.Move, _ game.State) {
	p.updates = append(p.updates, move)
}

func (p *mockPlayer) Reset(state game.State) {
	p.resets = append(p.resets, state)
}

func TestLocalRun(t *testing.T) {
	t.Run("every player sees every committed move once", func(t *testing.T) {
		placer := &mockPlayer{moves: []game.Move{game.Place{X: 0, Y: 0, Value: 2}, game.Place{X: 3, Y: 3, Value: 4}}}
		slider := &mockPlayer{moves: []game.Move{game.Slide{Direction: game.Right}}}
		var observed []game.State

		_, moves, err := NewLocal(placer, slider, WithMaxTurns(5), WithObserver(func(_ game.Move, s game.State) {
			observed = append(observed, s)
		})).Run(context.Background())

		require.NoError(t, err)
		want := []game.Move{
			game.Place{X: 0, Y: 0, Value: 2},
			game.Slide{Direction: game.Right},
			game.Place{X: 3, Y: 3, Value: 4},
		}
		require.Equal(t, want, placer.updates)
		require.Equal(t, want, slider.updates)
		require.Equal(t, []game.State{game.InitialState()}, placer.resets)
		require.Len(t, moves, 3)
		require.Equal(t, "slider", moves[1].Role)
		require.Equal(t, 1, moves[1].Turns)
		require.Equal(t, 5, observed[2].Turns, "A rare tile takes three turns")
	})

	t.Run("one player playing both roles is updated once per move", func(t *testing.T) {
		both := &mockPlayer{moves: []game.Move{game.Place{X: 1, Y: 1, Value: 2}, game.Slide{Direction: game.Up}}}

		_, _, err := NewLocal(both, both, WithMaxTurns(2)).Run(context.Background())

		require.NoError(t, err)
		require.Len(t, both.updates, 2)
		require.Len(t, both.resets, 1)
	})

	t.Run("missing move ends the game with an error", func(t *testing.T) {
		_, _, err := NewLocal(&mockPlayer{}, &mockPlayer{}).Run(context.Background())

		require.ErrorIs(t, err, ErrNoMove)
	})

	t.Run("illegal move ends the game with an error", func(t *testing.T) {
		placer := &mockPlayer{moves: []game.Move{game.Place{X: 0, Y: 0, Value: 2}}}
		slider := &mockPlayer{moves: []game.Move{game.Slide{Direction: game.Up}}}

		_, moves, err := NewLocal(placer, slider).Run(context.Background())

		require.ErrorIs(t, err, game.ErrInvalidMove)
		require.Len(t, moves, 1)
		require.Len(t, placer.updates, 1, "Rejected moves should not be sent to players")
	})

	t.Run("canceled context stops the game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := NewLocal(player.NewRandom(1), player.NewRandom(2)).Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("dead start has no moves", func(t *testing.T) {
		dead := game.State{
			Grid:     game.Values{{2, 4, 8, 4}, {256, 8, 4, 2}, {4, 128, 2, 4}, {2, 8, 64, 8}},
			Turns:    41,
			Terminal: true,
		}

		gameMetric, moves, err := NewLocal(&mockPlayer{}, &mockPlayer{}, WithStart(dead)).Run(context.Background())

		require.NoError(t, err)
		require.Empty(t, moves)
		require.True(t, gameMetric.Dead)
		require.Equal(t, 256, gameMetric.MaxTile)
	})

	t.Run("start with an invalid tile is rejected", func(t *testing.T) {
		start := game.State{Grid: game.Values{{3}}, Turns: 1, Terminal: true}
		p := &mockPlayer{}

		_, moves, err := NewLocal(p, p, WithStart(start)).Run(context.Background())

		require.ErrorIs(t, err, game.ErrInvalidTile)
		require.Empty(t, moves)
		require.Empty(t, p.resets, "Players should not be reset for a rejected game")
	})
}

func TestLocalWithSearch(t *testing.T) {
	t.Run("random players reach a dead grid", func(t *testing.T) {
		gameMetric, moves, err := NewLocal(player.NewRandom(3), player.NewRandom(4)).Run(context.Background())

		require.NoError(t, err)
		require.True(t, gameMetric.Dead)
		require.Equal(t, len(moves), gameMetric.TotalMoves)
		require.Positive(t, gameMetric.Score)
	})

	t.Run("search engine plays the slider against a random placer", func(t *testing.T) {
		ai := searcher.NewAi(searcher.WithDepth(2), searcher.WithMetrics())

		gameMetric, moves, err := NewLocal(player.NewRandom(7), ai, WithMaxTurns(60)).Run(context.Background())

		require.NoError(t, err)
		require.True(t, gameMetric.Dead || gameMetric.Turns >= 60)
		for _, m := range moves {
			if m.Role == "slider" {
				require.Equal(t, 2, m.Depth)
				require.Positive(t, m.Nodes)
			}
		}
	})

	t.Run("search engine plays both roles", func(t *testing.T) {
		ai := searcher.NewAi(searcher.WithDepth(2))

		gameMetric, _, err := NewLocal(ai, ai, WithMaxTurns(40)).Run(context.Background())

		require.NoError(t, err)
		require.True(t, gameMetric.Dead || gameMetric.Turns >= 40)
	})
}
