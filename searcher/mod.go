package searcher

import (
	"math"

	"adversarial2048/game"
	"adversarial2048/utils"
)

const (
	// DeathScore bounds the magnitude of every terminal value.
	DeathScore = 1e9
	// HeuristicBound saturates leaf evaluations well below any death value.
	HeuristicBound = DeathScore / 4
)

// exactDepth marks a terminal node, whose value holds at any depth.
const exactDepth = math.MaxInt

// maxTurnIncrement is the largest number of turns a single move consumes.
const maxTurnIncrement = 3

// NodeKey identifies a game state for the search: the grid and the absolute
// turn index, whose parity gives the role to move.
type NodeKey struct {
	Turns int
	Grid  game.Grid
}

func (k NodeKey) Role() game.Role {
	return game.RoleAt(k.Turns)
}

// child returns the key reached by m, or false if m is illegal from k.
func (k NodeKey) child(m game.Move) (NodeKey, bool) {
	g, ok := k.Grid.Apply(m)
	if !ok {
		return NodeKey{}, false
	}
	return NodeKey{Turns: k.Turns + game.TurnIncrement(m), Grid: g}, true
}

// deathValue is the value of a dead grid to the Slider, who is the one to
// move on it. Later deaths are less bad.
func deathValue(turns int) float64 {
	return -DeathScore + float64(turns)
}

// leafValue is the saturated heuristic relative to the role to move.
func leafValue(key NodeKey, evaluate game.Evaluate) float64 {
	h := utils.Clamp(evaluate(key.Grid), -HeuristicBound, HeuristicBound)
	if key.Role() == game.Slider {
		return h
	}
	return -h
}
