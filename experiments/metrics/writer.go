package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"adversarial2048/game"
)

// AgentConfig describes one search engine setup of an experiment.
type AgentConfig struct {
	ID        int           `yaml:"id"`
	Depth     int           `yaml:"depth"`
	Iterative bool          `yaml:"iterative"`
	Duration  time.Duration `yaml:"duration"`
	TurnsMod  int           `yaml:"turns_mod"`
	Weights   *game.Weights `yaml:"weights"` // Default weights when nil
}

type GameRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	Seed  uint64
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type ThroughputRecord struct {
	Agent    int // AgentConfig.ID
	Position int
	Turns    int
	SearchMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a directory named by the current time under root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "depth", "iterative", "duration", "turns_mod", "weights"}
	return w.write("agent_configs.csv", header, len(configs), func(i int) []string {
		config := configs[i]
		weights := "default"
		if config.Weights != nil {
			weights = fmt.Sprintf("%+v", *config.Weights)
		}
		return []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Depth),
			strconv.FormatBool(config.Iterative),
			config.Duration.String(),
			strconv.Itoa(config.TurnsMod),
			weights,
		}
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent", "seed", "start_time", "end_time", "duration", "moves", "turns", "score", "max_tile", "dead"}
	return w.write("game_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			strconv.FormatUint(record.Seed, 10),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Score),
			strconv.Itoa(record.MaxTile),
			strconv.FormatBool(record.Dead),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := append([]string{"game", "step", "role", "move", "turns"}, searchHeader...)
	return w.write("move_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Role,
			record.Move,
			strconv.Itoa(record.Turns),
		}
		return append(row, searchRow(record.SearchMetric)...)
	})
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := append([]string{"agent", "position", "turns"}, searchHeader...)
	return w.write("throughput.csv", header, len(records), func(i int) []string {
		record := records[i]
		row := []string{
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Position),
			strconv.Itoa(record.Turns),
		}
		return append(row, searchRow(record.SearchMetric)...)
	})
}

var searchHeader = []string{"depth", "passes", "duration", "nodes", "cache_hits", "cutoffs", "table_size", "value"}

func searchRow(m SearchMetric) []string {
	return []string{
		strconv.Itoa(m.Depth),
		strconv.Itoa(m.Passes),
		m.Duration.String(),
		strconv.Itoa(m.Nodes),
		strconv.Itoa(m.CacheHits),
		strconv.Itoa(m.Cutoffs),
		strconv.Itoa(m.TableSize),
		strconv.FormatFloat(m.Value, 'g', -1, 64),
	}
}

func (w *Writer) write(name string, header []string, rows int, row func(i int) []string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for i := 0; i < rows; i++ {
		err = writer.Write(row(i))
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}
