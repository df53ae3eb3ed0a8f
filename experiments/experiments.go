package experiments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"adversarial2048/engine"
	"adversarial2048/experiments/metrics"
	"adversarial2048/game"
	"adversarial2048/meta"
	"adversarial2048/player"
	"adversarial2048/searcher"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var ErrNoAgents = errors.New("experiment has no agents")

// Config describes a batch of games between search engines playing the
// Slider and seeded random Placers.
type Config struct {
	Name     string                `yaml:"name"`
	Games    int                   `yaml:"games"` // Per agent
	MaxTurns int                   `yaml:"max_turns"`
	Parallel int                   `yaml:"parallel"`
	Seed     uint64                `yaml:"seed"`
	OutDir   string                `yaml:"out_dir"` // No files are written when empty
	Agents   []metrics.AgentConfig `yaml:"agents"`
}

// DefaultConfig compares search depths under a fixed turn limit.
func DefaultConfig() Config {
	return Config{
		Name:     "depth",
		Games:    10,
		MaxTurns: 2000,
		Parallel: meta.GO_ROUTINES,
		Seed:     1,
		OutDir:   "experiments",
		Agents: []metrics.AgentConfig{
			{ID: 1, Depth: 2, Iterative: true},
			{ID: 2, Depth: 4, Iterative: true},
			{ID: 3, Depth: 6, Iterative: true},
			{ID: 4, Depth: 6, Iterative: false},
		},
	}
}

// LoadConfig reads a YAML config. Missing fields keep DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read experiment config: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse experiment config %s: %w", path, err)
	}
	return config, nil
}

type Result struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Dir   string // Output directory, empty when nothing was written
}

// Run plays config.Games games per agent, config.Parallel at a time. Every
// game owns its engine, so games share nothing.
func Run(ctx context.Context, config Config) (Result, error) {
	if len(config.Agents) == 0 {
		return Result{}, ErrNoAgents
	}

	type job struct {
		id    int
		agent metrics.AgentConfig
		seed  uint64
	}
	var jobs []job
	for _, agent := range config.Agents {
		for i := 0; i < config.Games; i++ {
			jobs = append(jobs, job{id: len(jobs) + 1, agent: agent, seed: config.Seed + uint64(i)})
		}
	}

	log.Info().Str("experiment", config.Name).Int("games", len(jobs)).Msg("starting experiment")

	games := make([]metrics.GameRecord, len(jobs))
	moves := make([][]metrics.MoveRecord, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Parallel, 1))
	for i, j := range jobs {
		g.Go(func() error {
			gameMetric, moveMetrics, err := runGame(ctx, j.agent, j.seed, config.MaxTurns)
			if err != nil {
				return fmt.Errorf("game %d with agent %d: %w", j.id, j.agent.ID, err)
			}
			games[i] = metrics.GameRecord{ID: j.id, Agent: j.agent.ID, Seed: j.seed, GameMetric: gameMetric}
			moves[i] = lo.Map(moveMetrics, func(m metrics.MoveMetric, _ int) metrics.MoveRecord {
				return metrics.MoveRecord{Game: j.id, MoveMetric: m}
			})
			log.Debug().Int("game", j.id).Int("agent", j.agent.ID).Int("score", gameMetric.Score).Msg("completed game")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Games: games, Moves: lo.Flatten(moves)}
	summarize(config.Name, result.Games)

	if config.OutDir == "" {
		return result, nil
	}
	writer, err := metrics.NewWriter(config.OutDir, config.Name)
	if err != nil {
		return result, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(config.Agents); err != nil {
		return result, err
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return result, err
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return result, err
	}
	result.Dir = writer.Dir()
	log.Info().Str("dir", result.Dir).Msg("stored experiment records")
	return result, nil
}

func runGame(ctx context.Context, config metrics.AgentConfig, seed uint64, maxTurns int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	ai := createAi(config)
	e := engine.NewLocal(player.NewRandom(seed), ai, engine.WithMaxTurns(maxTurns))
	return e.Run(ctx)
}

func createAi(config metrics.AgentConfig) *searcher.Ai {
	options := []searcher.Option{searcher.WithIterativeDeepening(config.Iterative)}

	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.TurnsMod > 0 {
		options = append(options, searcher.WithTurnsMod(config.TurnsMod))
	}
	if config.Weights != nil {
		options = append(options, searcher.WithEvaluationFn(game.EvaluateSmoothness(*config.Weights)))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewAi(options...)
}

func summarize(name string, games []metrics.GameRecord) {
	byAgent := lo.GroupBy(games, func(r metrics.GameRecord) int { return r.Agent })
	for agent, records := range byAgent {
		scores := lo.Map(records, func(r metrics.GameRecord, _ int) int { return r.Score })
		duration := lo.SumBy(records, func(r metrics.GameRecord) time.Duration { return r.Duration })
		log.Info().
			Str("experiment", name).
			Int("agent", agent).
			Float64("mean_score", float64(lo.Sum(scores))/float64(len(scores))).
			Int("best_score", lo.Max(scores)).
			Int("best_tile", lo.MaxBy(records, func(a, b metrics.GameRecord) bool { return a.MaxTile > b.MaxTile }).MaxTile).
			Int("deaths", lo.CountBy(records, func(r metrics.GameRecord) bool { return r.Dead })).
			Dur("duration", duration).
			Msg("agent summary")
	}
}
