package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"adversarial2048/agent"
	"adversarial2048/engine"
	"adversarial2048/experiments"
	"adversarial2048/game"
	"adversarial2048/meta"
	"adversarial2048/player"
	"adversarial2048/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode       string
	placer     string
	slider     string
	depth      int
	iterative  bool
	duration   time.Duration
	seed       uint64
	maxTurns   int
	addr       string
	experiment string
	throughput bool
	verbose    bool
}

func main() {
	var cfg config
	level := flag.String("log", "info", "Log level")
	flag.StringVar(&cfg.mode, "mode", "play", "One of play, serve or experiment")
	flag.StringVar(&cfg.placer, "placer", "random", "Placer: ai, random, human or an agent URL")
	flag.StringVar(&cfg.slider, "slider", "ai", "Slider: ai, random, human or an agent URL")
	flag.IntVar(&cfg.depth, "depth", meta.DEPTH, "Search depth in plies")
	flag.BoolVar(&cfg.iterative, "iterative", true, "Deepen iteratively up to the search depth")
	flag.DurationVar(&cfg.duration, "duration", 0, "Stop deepening after this duration")
	flag.Uint64Var(&cfg.seed, "seed", uint64(time.Now().UnixNano()), "Seed of random players")
	flag.IntVar(&cfg.maxTurns, "max-turns", meta.MAX_TURNS, "Stop a game after this many turns")
	flag.StringVar(&cfg.addr, "addr", ":8080", "Address of the agent server")
	flag.StringVar(&cfg.experiment, "config", "", "Experiment config file, defaults when empty")
	flag.BoolVar(&cfg.throughput, "throughput", false, "Measure search throughput instead of playing games")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Print the grid after every move")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.mode {
	case "play":
		err = play(ctx, cfg)
	case "serve":
		err = agent.NewServer(newAi(cfg)).ListenAndServe(ctx, cfg.addr)
	case "experiment":
		err = experiment(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", cfg.mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", cfg.mode).Msg("failed")
	}
}

func newAi(cfg config) *searcher.Ai {
	return searcher.NewAi(
		searcher.WithDepth(cfg.depth),
		searcher.WithIterativeDeepening(cfg.iterative),
		searcher.WithDuration(cfg.duration),
		searcher.WithMetrics(),
	)
}

func newPlayer(cfg config, kind string, seed uint64) (engine.Player, error) {
	switch {
	case kind == "ai":
		return newAi(cfg), nil
	case kind == "random":
		return player.NewRandom(seed), nil
	case kind == "human":
		return player.NewHuman(os.Stdin, os.Stdout), nil
	case strings.HasPrefix(kind, "http://"), strings.HasPrefix(kind, "https://"):
		return agent.NewRemote(kind, nil), nil
	}
	return nil, fmt.Errorf("unknown player %q", kind)
}

func play(ctx context.Context, cfg config) error {
	placer, err := newPlayer(cfg, cfg.placer, cfg.seed)
	if err != nil {
		return err
	}
	slider, err := newPlayer(cfg, cfg.slider, cfg.seed+1)
	if err != nil {
		return err
	}

	options := []engine.Option{engine.WithMaxTurns(cfg.maxTurns)}
	if cfg.verbose {
		options = append(options, engine.WithObserver(func(move game.Move, state game.State) {
			fmt.Printf("%s\n%s\n", move, state)
		}))
	}
	gameMetric, _, err := engine.NewLocal(placer, slider, options...).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("score %d, max tile %d, %d turns\n", gameMetric.Score, gameMetric.MaxTile, gameMetric.Turns)
	return nil
}

func experiment(ctx context.Context, cfg config) error {
	run := experiments.DefaultConfig()
	if cfg.experiment != "" {
		var err error
		run, err = experiments.LoadConfig(cfg.experiment)
		if err != nil {
			return err
		}
	}

	if cfg.throughput {
		_, err := experiments.RunThroughput(ctx, run)
		return err
	}
	_, err := experiments.Run(ctx, run)
	return err
}
