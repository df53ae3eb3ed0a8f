package agent

import (
	"adversarial2048/experiments/metrics"
	"adversarial2048/game"
)

type StateRequest struct {
	State game.State `json:"state"`
}

type UpdateRequest struct {
	Move  game.MoveDTO `json:"move"`
	State game.State   `json:"state"`
}

type MoveResponse struct {
	Move   game.MoveDTO         `json:"move"`
	Metric metrics.SearchMetric `json:"metric"`
}

type request interface {
	state() game.State
}

func (r *StateRequest) state() game.State  { return r.State }
func (r *UpdateRequest) state() game.State { return r.State }

type errorResponse struct {
	Error string `json:"error"`
}
