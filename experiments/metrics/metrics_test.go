package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts one search", func(t *testing.T) {
		c := NewCollector()
		c.Start()
		for range 5 {
			c.AddNode()
		}
		c.AddCacheHit()
		c.AddCutoff()
		c.AddCutoff()
		c.CompletePass(1, 3.5)
		c.CompletePass(2, -1.25)

		m := c.Complete(42)

		require.Equal(t, 5, m.Nodes)
		require.Equal(t, 1, m.CacheHits)
		require.Equal(t, 2, m.Cutoffs)
		require.Equal(t, 2, m.Passes)
		require.Equal(t, 2, m.Depth)
		require.Equal(t, -1.25, m.Value)
		require.Equal(t, 42, m.TableSize)
	})

	t.Run("start clears the previous search", func(t *testing.T) {
		c := NewCollector()
		c.Start()
		c.AddNode()
		c.CompletePass(4, 1)

		c.Start()
		m := c.Complete(0)
		m.Duration = 0

		require.Equal(t, SearchMetric{}, m)
	})

	t.Run("dummy collector reports nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start()
		c.AddNode()
		c.CompletePass(3, 9)

		require.Equal(t, SearchMetric{}, c.Complete(10))
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "depth")
	require.NoError(t, err)

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Depth: 4, Iterative: true, Duration: time.Second}}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Agent: 1, Seed: 7, GameMetric: GameMetric{Score: 1024, MaxTile: 128, Dead: true}}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{Game: 1, MoveMetric: MoveMetric{Step: 2, Role: "slider", Move: "slide left", SearchMetric: SearchMetric{Depth: 4, Value: 0.5}}}}))
	require.NoError(t, w.WriteThroughputRecords(nil))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, []string{"1", "4", "true", "1s", "0", "default"}, configs[1])

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, "1024", games[1][8])
	require.Equal(t, "true", games[1][10])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Equal(t, []string{"1", "2", "slider", "slide left", "0", "4", "0", "0s", "0", "0", "0", "0", "0.5"}, moves[1])

	throughput := readCSV(t, filepath.Join(w.Dir(), "throughput.csv"))
	require.Len(t, throughput, 1, "Only the header should be written")
}
