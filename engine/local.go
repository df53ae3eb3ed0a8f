package engine

import (
	"context"
	"fmt"
	"time"

	"adversarial2048/experiments/metrics"
	"adversarial2048/game"
	"adversarial2048/gamemaster"
	"adversarial2048/meta"

	"github.com/rs/zerolog/log"
)

type Option func(e *Local)

func WithStart(state game.State) Option {
	return func(e *Local) {
		e.start = state
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithObserver is called with every committed state.
func WithObserver(observe func(move game.Move, state game.State)) Option {
	return func(e *Local) {
		e.observe = observe
	}
}

// Local plays one game between a Placer and a Slider in process. Both roles
// may be played by the same Player.
type Local struct {
	referee  gamemaster.Engine
	placer   Player
	slider   Player
	start    game.State
	maxTurns int
	observe  func(game.Move, game.State)
}

func NewLocal(placer, slider Player, options ...Option) *Local {
	e := &Local{ // Default values
		referee:  gamemaster.NewReferee(),
		placer:   placer,
		slider:   slider,
		start:    game.InitialState(),
		maxTurns: meta.MAX_TURNS,
		observe:  func(game.Move, game.State) {},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Local) players() []Player {
	if e.placer == e.slider {
		return []Player{e.placer}
	}
	return []Player{e.placer, e.slider}
}

func (e *Local) player(role game.Role) Player {
	if role == game.Slider {
		return e.slider
	}
	return e.placer
}

func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	if _, err := e.start.Exponents(); err != nil {
		return gameMetric, moveMetrics, fmt.Errorf("invalid start: %w", err)
	}
	state, getUpdate := e.referee.Init(e.start)
	for _, p := range e.players() {
		if r, ok := p.(Resetter); ok {
			r.Reset(state)
		}
	}

	for step := 1; !state.Terminal && state.Turns < e.maxTurns; step++ {
		if err := ctx.Err(); err != nil {
			return gameMetric, moveMetrics, err
		}

		role := state.NextToMove()
		p := e.player(role)
		move := p.PickMove(state)
		if move == nil {
			return gameMetric, moveMetrics, fmt.Errorf("%s at turn %d: %w", role, state.Turns, ErrNoMove)
		}
		if err := e.referee.Play(move); err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("%s: %w", role, err)
		}
		move, next, ok := getUpdate()
		if !ok {
			panic("referee accepted a move without publishing it")
		}

		moveMetric := metrics.MoveMetric{
			Step:  step,
			Role:  role.String(),
			Move:  move.String(),
			Turns: state.Turns,
		}
		if s, ok := p.(Searcher); ok {
			moveMetric.SearchMetric = s.Metric()
		}
		moveMetrics = append(moveMetrics, moveMetric)

		for _, p := range e.players() {
			p.UpdateMove(move, next)
		}
		e.observe(move, next)
		state = next
	}

	g, err := state.Exponents()
	if err != nil {
		panic(fmt.Sprintf("referee committed an invalid grid: %v", err))
	}
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Turns = state.Turns
	gameMetric.Score = state.Score
	if top := g.MaxTile(); top > 0 {
		gameMetric.MaxTile = 1 << top
	}
	gameMetric.Dead = state.Terminal

	log.Info().
		Int("moves", gameMetric.TotalMoves).
		Int("score", gameMetric.Score).
		Bool("dead", gameMetric.Dead).
		Dur("duration", gameMetric.Duration).
		Msg("game over")
	return gameMetric, moveMetrics, nil
}
