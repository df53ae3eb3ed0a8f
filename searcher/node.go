package searcher

import (
	"fmt"
	"math"

	"adversarial2048/game"

	"github.com/samber/lo"
)

type node struct {
	turns    int
	depth    int // -1 until searched, exactDepth once terminal
	lower    float64
	upper    float64
	children []NodeKey // Unflipped keys in move set order
	best     int       // Index into children, -1 until searched
	terminal bool
}

// newNode expands key with the fixed move set of the role to move. A dead
// grid on the Slider's turn becomes a terminal node with an exact value.
func newNode(key NodeKey) *node {
	n := &node{
		turns: key.Turns,
		depth: -1,
		lower: math.Inf(-1),
		upper: math.Inf(1),
		best:  -1,
	}
	n.children = lo.FilterMap(game.MovesFor(key.Role()), func(m game.Move, _ int) (NodeKey, bool) {
		return key.child(m)
	})

	if len(n.children) == 0 {
		if key.Role() == game.Placer {
			panic(fmt.Sprintf("placer has no move on a full grid at turn %d", key.Turns))
		}
		n.terminal = true
		n.depth = exactDepth
		n.lower = deathValue(key.Turns)
		n.upper = n.lower
	}
	return n
}

// exact reports whether the bounds have closed on a single value.
func (n *node) exact() bool {
	return n.lower == n.upper
}

// order lists child indices with the previous best child first.
func (n *node) order() []int {
	order := make([]int, 0, len(n.children))
	if n.best >= 0 {
		order = append(order, n.best)
	}
	for i := range n.children {
		if i != n.best {
			order = append(order, i)
		}
	}
	return order
}

// store records the result of a search at the given depth with window
// (alpha, beta). Bounds only tighten.
func (n *node) store(depth int, value, alpha, beta float64, best int) {
	if value < beta {
		n.upper = min(n.upper, value)
	}
	if value > alpha {
		n.lower = max(n.lower, value)
	}
	if n.lower > n.upper {
		n.lower, n.upper = value, value
	}
	n.depth = depth
	if best >= 0 {
		n.best = best
	}
}
