package experiments

import (
	"context"
	"fmt"

	"adversarial2048/experiments/metrics"
	"adversarial2048/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// RunThroughput searches the same random positions with every agent of the
// config, one position per game slot, and reports the search statistics.
// Each search starts from an empty table.
func RunThroughput(ctx context.Context, config Config) ([]metrics.ThroughputRecord, error) {
	if len(config.Agents) == 0 {
		return nil, ErrNoAgents
	}
	positions := randomPositions(config.Seed, config.Games, config.MaxTurns)

	log.Info().Str("experiment", config.Name).Int("positions", len(positions)).Msg("starting throughput experiment")

	var records []metrics.ThroughputRecord
	for _, agent := range config.Agents {
		for i, position := range positions {
			if err := ctx.Err(); err != nil {
				return records, err
			}
			ai := createAi(agent)
			ai.Reset(position)
			ai.PickMove(position)
			records = append(records, metrics.ThroughputRecord{
				Agent:        agent.ID,
				Position:     i + 1,
				Turns:        position.Turns,
				SearchMetric: ai.Metric(),
			})
		}
	}

	if config.OutDir == "" {
		return records, nil
	}
	writer, err := metrics.NewWriter(config.OutDir, config.Name+"_throughput")
	if err != nil {
		return records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(config.Agents); err != nil {
		return records, err
	}
	if err := writer.WriteThroughputRecords(records); err != nil {
		return records, err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored throughput records")
	return records, nil
}

// randomPositions plays random games and samples one live state per game at
// a random turn below maxTurns.
func randomPositions(seed uint64, count, maxTurns int) []game.State {
	rng := rand.New(rand.NewSource(seed))
	positions := make([]game.State, 0, count)
	for len(positions) < count {
		s := game.InitialState()
		stop := rng.Intn(max(maxTurns, 1))
		for s.Turns < stop {
			legal := s.LegalMoves()
			next, err := game.NextState(s, legal[rng.Intn(len(legal))])
			if err != nil {
				panic(err)
			}
			if next.Terminal {
				break
			}
			s = next
		}
		positions = append(positions, s)
	}
	return positions
}
