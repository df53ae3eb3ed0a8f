package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"adversarial2048/experiments/metrics"
	"adversarial2048/game"

	"github.com/rs/zerolog/log"
)

// Remote is a player backed by an agent Server. After the first failed
// request it stops playing and PickMove returns nil.
type Remote struct {
	url    string
	client *http.Client
	metric metrics.SearchMetric
	err    error
}

func NewRemote(url string, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{url: url, client: client}
}

func (p *Remote) Reset(state game.State) {
	p.err = nil
	p.fail(p.post("/reset", StateRequest{State: state}, nil))
}

func (p *Remote) PickMove(state game.State) game.Move {
	if p.err != nil {
		return nil
	}
	var resp MoveResponse
	if p.fail(p.post("/pickmove", StateRequest{State: state}, &resp)) {
		return nil
	}
	move, err := game.DecodeMove(resp.Move)
	if p.fail(err) {
		return nil
	}
	p.metric = resp.Metric
	return move
}

func (p *Remote) UpdateMove(move game.Move, state game.State) {
	if p.err != nil {
		return
	}
	p.fail(p.post("/updatemove", UpdateRequest{Move: game.EncodeMove(move), State: state}, nil))
}

func (p *Remote) Metric() metrics.SearchMetric {
	return p.metric
}

// Err returns the first failure since the last reset.
func (p *Remote) Err() error {
	return p.err
}

func (p *Remote) fail(err error) bool {
	if err == nil {
		return false
	}
	log.Error().Err(err).Str("url", p.url).Msg("remote agent failed")
	p.err = err
	return true
}

func (p *Remote) post(path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}
	resp, err := p.client.Post(p.url+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("agent returned status %d on %s: %s", resp.StatusCode, path, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
