package searcher

import "math"

// negamax returns the value of key to the role to move, searching until the
// absolute turn horizon. Results are fail-soft with respect to the window
// (alpha, beta) and are cached in the table.
func (a *Ai) negamax(key NodeKey, horizon int, alpha, beta float64) float64 {
	a.metrics.AddNode()
	key, n := a.table.lookupOrCreate(key)
	if n.terminal {
		a.metrics.AddCacheHit()
		return n.lower
	}

	remaining := max(horizon-key.Turns, 0)
	if n.depth >= remaining {
		switch {
		case n.lower >= beta:
			a.metrics.AddCacheHit()
			return n.lower
		case n.upper <= alpha:
			a.metrics.AddCacheHit()
			return n.upper
		case n.exact():
			a.metrics.AddCacheHit()
			return n.lower
		}
		alpha = max(alpha, n.lower)
		beta = min(beta, n.upper)
	} else {
		// Bounds of a shallower search do not hold at this depth
		n.lower, n.upper = math.Inf(-1), math.Inf(1)
	}
	deeper := n.depth > remaining

	if remaining == 0 {
		value := leafValue(key, a.evaluate)
		if !deeper {
			n.store(0, value, math.Inf(-1), math.Inf(1), -1)
		}
		return value
	}

	best, bestIdx := math.Inf(-1), -1
	window := alpha
	for _, i := range n.order() {
		value := -a.negamax(n.children[i], horizon, -beta, -window)
		if value > best {
			best, bestIdx = value, i
		}
		window = max(window, value)
		if window >= beta {
			a.metrics.AddCutoff()
			break
		}
	}

	if !deeper {
		n.store(remaining, best, alpha, beta, bestIdx)
	}
	return best
}
