package metrics

import (
	"math"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth     int           `json:"depth"` // Deepest completed pass
	Passes    int           `json:"passes"`
	Duration  time.Duration `json:"duration"`
	Nodes     int           `json:"nodes"`      // Node visits, cache hits included
	CacheHits int           `json:"cache_hits"` // Visits answered from cached bounds
	Cutoffs   int           `json:"cutoffs"`    // Beta cutoffs
	TableSize int           `json:"table_size"`
	Value     float64       `json:"value"` // Root value to the role to move
}

type MoveMetric struct {
	Step  int
	Role  string
	Move  string
	Turns int
	SearchMetric
}

type GameMetric struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Turns      int
	Score      int
	MaxTile    int
	Dead       bool // False when the game was stopped by the turn limit
}

type Collector interface {
	Start()
	AddNode()
	AddCacheHit()
	AddCutoff()
	CompletePass(depth int, value float64)
	Complete(tableSize int) SearchMetric
}

type collector struct {
	startTime time.Time
	nodes     atomic.Int64
	cacheHits atomic.Int64
	cutoffs   atomic.Int64
	passes    atomic.Int32
	depth     atomic.Int32
	value     atomic.Uint64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.nodes.Store(0)
	m.cacheHits.Store(0)
	m.cutoffs.Store(0)
	m.passes.Store(0)
	m.depth.Store(0)
	m.value.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) CompletePass(depth int, value float64) {
	m.passes.Add(1)
	m.depth.Store(int32(depth))
	m.value.Store(math.Float64bits(value))
}

func (m *collector) Complete(tableSize int) SearchMetric {
	return SearchMetric{
		Depth:     int(m.depth.Load()),
		Passes:    int(m.passes.Load()),
		Duration:  time.Since(m.startTime),
		Nodes:     int(m.nodes.Load()),
		CacheHits: int(m.cacheHits.Load()),
		Cutoffs:   int(m.cutoffs.Load()),
		TableSize: tableSize,
		Value:     math.Float64frombits(m.value.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                                {}
func (m *dummyCollector) AddNode()                              {}
func (m *dummyCollector) AddCacheHit()                          {}
func (m *dummyCollector) AddCutoff()                            {}
func (m *dummyCollector) CompletePass(depth int, value float64) {}
func (m *dummyCollector) Complete(tableSize int) SearchMetric   { return SearchMetric{} }
