package engine

import (
	"context"
	"errors"

	"adversarial2048/experiments/metrics"
	"adversarial2048/game"
)

var ErrNoMove = errors.New("player returned no move")

// Player chooses moves for one or both roles. UpdateMove is called exactly
// once for every committed move, whichever role played it.
type Player interface {
	PickMove(state game.State) game.Move
	UpdateMove(move game.Move, state game.State)
}

// Resetter is implemented by players that keep per-game state.
type Resetter interface {
	Reset(state game.State)
}

// Searcher is implemented by players that report search statistics.
type Searcher interface {
	Metric() metrics.SearchMetric
}

type Engine interface {
	// Run plays a game until the grid is dead or the turn limit is reached
	Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error)
}
