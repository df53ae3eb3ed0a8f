package searcher

import (
	"fmt"
	"math"
	"time"

	"adversarial2048/experiments/metrics"
	"adversarial2048/game"
	"adversarial2048/meta"
	"adversarial2048/utils"

	"github.com/rs/zerolog/log"
)

type Option func(a *Ai)

// Ai searches the game tree of one game for whichever role is to move. It
// is not safe for concurrent use.
type Ai struct {
	depth     int
	iterative bool
	duration  time.Duration
	turnsMod  int
	evaluate  game.Evaluate
	root      NodeKey
	table     *table
	metrics   metrics.Collector
	metric    metrics.SearchMetric
}

func WithDepth(depth int) Option {
	return func(a *Ai) {
		if depth > 0 {
			a.depth = depth
		}
	}
}

// WithIterativeDeepening searches every depth from 1 up to the configured
// depth instead of a single pass.
func WithIterativeDeepening(iterative bool) Option {
	return func(a *Ai) {
		a.iterative = iterative
	}
}

// WithDuration stops deepening once a pass finishes after the duration has
// elapsed. Passes are never interrupted.
func WithDuration(duration time.Duration) Option {
	return func(a *Ai) {
		if duration > 0 {
			a.duration = duration
		}
	}
}

func WithTurnsMod(turnsMod int) Option {
	return func(a *Ai) {
		if turnsMod > 0 {
			a.turnsMod = turnsMod
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(a *Ai) {
		if evaluate != nil {
			a.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(a *Ai) {
		a.metrics = metrics.NewCollector()
	}
}

func NewAi(options ...Option) *Ai {
	a := &Ai{ // Default values
		depth:     meta.DEPTH,
		iterative: true,
		turnsMod:  meta.TURNS_MOD,
		evaluate:  game.EvaluateSmoothness(game.DefaultWeights),
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(a)
	}
	if a.turnsMod <= a.depth*maxTurnIncrement {
		panic(fmt.Sprintf("turns mod %d does not cover a search of depth %d", a.turnsMod, a.depth))
	}
	a.table = newTable(a.turnsMod)
	return a
}

// PickMove searches from state and returns the best move for the role to
// move. The state must be the one the engine was last advanced to.
func (a *Ai) PickMove(state game.State) game.Move {
	if state.Terminal {
		panic("no move from a terminal state")
	}
	if key := keyOf(state); key != a.root {
		panic(fmt.Sprintf("state at turn %d does not match the engine root at turn %d", key.Turns, a.root.Turns))
	}

	value := a.Search(a.depth)
	move := a.bestRootMove()
	log.Debug().
		Int("turns", a.root.Turns).
		Str("role", a.root.Role().String()).
		Str("move", move.String()).
		Float64("value", value).
		Msg("picked move")
	return move
}

// UpdateMove advances the root by a committed move of either role and drops
// the turn buckets left behind.
func (a *Ai) UpdateMove(move game.Move, state game.State) {
	next, ok := a.root.child(move)
	if !ok {
		panic(fmt.Sprintf("%s is illegal from the engine root at turn %d", move, a.root.Turns))
	}
	if key := keyOf(state); key != next {
		panic(fmt.Sprintf("%s from the engine root does not lead to the state at turn %d", move, key.Turns))
	}
	a.advance(next)
}

// Reset drops every cached result and roots the engine at state.
func (a *Ai) Reset(state game.State) {
	a.table.clear()
	a.root = keyOf(state)
}

// Metric returns the statistics of the last search.
func (a *Ai) Metric() metrics.SearchMetric {
	return a.metric
}

// Search runs the configured passes from the root and returns the root value
// to the role to move.
func (a *Ai) Search(depth int) float64 {
	start := time.Now()
	a.metrics.Start()

	first := depth
	if a.iterative {
		first = 1
	}
	value := math.NaN()
	for d := first; d <= depth; d++ {
		value = a.negamax(a.root, a.root.Turns+d, math.Inf(-1), math.Inf(1))
		a.metrics.CompletePass(d, value)
		log.Debug().Int("depth", d).Float64("value", value).Int("table", a.table.size()).Msg("search pass completed")

		if a.duration > 0 && time.Since(start) >= a.duration {
			break
		}
	}

	a.metric = a.metrics.Complete(a.table.size())
	return value
}

// bestRootMove returns the first move of the root's move set whose result is
// symmetric to the root's best child.
func (a *Ai) bestRootMove() game.Move {
	root, ok := a.table.lookup(a.root)
	if !ok || root.best < 0 {
		panic(fmt.Sprintf("no best child at the root of turn %d", a.root.Turns))
	}
	target, _ := a.table.canonical(root.children[root.best])

	moves := game.MovesFor(a.root.Role())
	i := utils.FindIndexFunc(moves, func(m game.Move) bool {
		child, ok := a.root.child(m)
		if !ok {
			return false
		}
		canon, _ := a.table.canonical(child)
		return canon == target
	})
	if i < 0 {
		panic(fmt.Sprintf("no move from the root of turn %d reaches its best child", a.root.Turns))
	}
	return moves[i]
}

func (a *Ai) advance(next NodeKey) {
	if next.Turns < a.root.Turns {
		panic(fmt.Sprintf("root cannot move back from turn %d to %d", a.root.Turns, next.Turns))
	}
	if next.Turns-a.root.Turns >= a.turnsMod {
		log.Warn().Int("from", a.root.Turns).Int("to", next.Turns).Msg("root skipped the whole table window")
		a.table.clear()
	} else {
		for turn := a.root.Turns; turn < next.Turns; turn++ {
			a.table.evict(turn)
		}
	}
	a.root = next
}

// keyOf converts an authoritative state to a search key. States hold
// power-of-two tiles by construction.
func keyOf(state game.State) NodeKey {
	g, err := state.Exponents()
	if err != nil {
		panic(err)
	}
	return NodeKey{Turns: state.Turns, Grid: g}
}
