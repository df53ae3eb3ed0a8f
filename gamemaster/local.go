package gamemaster

import (
	"fmt"

	"adversarial2048/game"
)

// UpdateGetter returns the next committed move and its resulting state, or
// false when no update is pending. After the final update of a finished
// game it keeps returning false.
type UpdateGetter func() (game.Move, game.State, bool)

type Engine interface {
	Init(start game.State) (game.State, UpdateGetter)
	Play(game.Move) error
	State() game.State
}

type update struct {
	move  game.Move
	state game.State
}

// Referee holds the authoritative state of one game and validates every move
// through the rules engine.
type Referee struct {
	state    game.State
	updateCh chan update
	gameOver bool
}

func NewReferee() *Referee {
	return &Referee{}
}

func (e *Referee) Init(start game.State) (game.State, UpdateGetter) {
	e.state = start
	e.gameOver = start.Terminal
	e.updateCh = make(chan update, 1)
	return e.state, func() (game.Move, game.State, bool) {
		select {
		case u, ok := <-e.updateCh:
			if !ok { // Game over
				return nil, game.State{}, false
			}
			return u.move, u.state, true
		default:
			return nil, game.State{}, false
		}
	}
}

// Play commits move. Each update must be read before the next move is
// played.
func (e *Referee) Play(move game.Move) error {
	if e.gameOver {
		return game.ErrGameOver
	}

	next, err := game.NextState(e.state, move)
	if err != nil {
		return fmt.Errorf("illegal move at turn %d: %w", e.state.Turns, err)
	}
	e.state = next

	e.updateCh <- update{move: move, state: next}
	if next.Terminal {
		e.gameOver = true
		close(e.updateCh)
	}
	return nil
}

func (e *Referee) State() game.State {
	return e.state
}
