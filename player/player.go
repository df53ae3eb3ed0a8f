package player

import (
	"adversarial2048/game"
	"adversarial2048/meta"

	"golang.org/x/exp/rand"
)

// Random plays uniformly random legal moves. As the Placer it puts a 4 with
// meta.RARE_TILE_PROBABILITY and a 2 otherwise, like the original game.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) PickMove(state game.State) game.Move {
	if state.Terminal {
		return nil
	}
	if state.NextToMove() == game.Slider {
		moves := state.LegalMoves()
		return moves[p.rng.Intn(len(moves))]
	}

	var empty []game.Place
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if state.Grid[x][y] == 0 {
				empty = append(empty, game.Place{X: x, Y: y, Value: 2})
			}
		}
	}
	move := empty[p.rng.Intn(len(empty))]
	if p.rng.Float64() < meta.RARE_TILE_PROBABILITY {
		move.Value = 4
	}
	return move
}

func (p *Random) UpdateMove(game.Move, game.State) {}
