package game

// Weights tune EvaluateSmoothness. Increasing and decreasing refer to the
// reading direction: left to right for rows, top to bottom for columns.
type Weights struct {
	Merge              float64 `yaml:"merge"`
	HorizontalIncrease float64 `yaml:"horizontal_increase"`
	HorizontalDecrease float64 `yaml:"horizontal_decrease"`
	VerticalIncrease   float64 `yaml:"vertical_increase"`
	VerticalDecrease   float64 `yaml:"vertical_decrease"`
}

// DefaultWeights favor large tiles gathered toward the top left corner.
var DefaultWeights = Weights{
	Merge:              4.0,
	HorizontalIncrease: 2.0,
	HorizontalDecrease: 1.0,
	VerticalIncrease:   2.0,
	VerticalDecrease:   1.0,
}

// EvaluateSmoothness rewards orthogonal neighbors holding equal tiles and
// penalizes differences between neighbors. Magnitudes are squared exponents
// so that a gap between large tiles costs more than one between small tiles.
// Pairs involving an empty cell are ignored.
func EvaluateSmoothness(w Weights) Evaluate {
	return func(g Grid) float64 {
		score := 0.0
		for i := 0; i < Size; i++ {
			for j := 0; j < Size-1; j++ {
				score += w.pair(g[i][j], g[i][j+1], w.HorizontalIncrease, w.HorizontalDecrease)
				score += w.pair(g[j][i], g[j+1][i], w.VerticalIncrease, w.VerticalDecrease)
			}
		}
		return score
	}
}

func (w Weights) pair(a, b uint8, increase, decrease float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	sa, sb := float64(a)*float64(a), float64(b)*float64(b)
	switch {
	case a == b:
		return w.Merge * sa
	case b > a:
		return -increase * (sb - sa)
	default:
		return -decrease * (sa - sb)
	}
}
