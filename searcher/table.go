package searcher

import (
	"fmt"

	"adversarial2048/game"
)

// table caches search results by canonical grid, partitioned into turn
// buckets so that a whole generation can be dropped at once.
type table struct {
	turnsMod int
	canon    *canonicalizer
	nodes    []map[game.Grid]*node
}

func newTable(turnsMod int) *table {
	t := &table{
		turnsMod: turnsMod,
		canon:    newCanonicalizer(turnsMod),
		nodes:    make([]map[game.Grid]*node, turnsMod),
	}
	for i := range t.nodes {
		t.nodes[i] = make(map[game.Grid]*node)
	}
	return t
}

func (t *table) bucket(turns int) int {
	return turns % t.turnsMod
}

// canonical returns key with its grid replaced by the canonical image.
func (t *table) canonical(key NodeKey) (NodeKey, bool) {
	g, hit := t.canon.canonical(t.bucket(key.Turns), key.Grid)
	return NodeKey{Turns: key.Turns, Grid: g}, hit
}

// lookupOrCreate resolves key to its canonical key and shared node,
// expanding the node on first visit.
func (t *table) lookupOrCreate(key NodeKey) (NodeKey, *node) {
	canon, _ := t.canonical(key)
	nodes := t.nodes[t.bucket(key.Turns)]
	n, ok := nodes[canon.Grid]
	if !ok {
		n = newNode(canon)
		nodes[canon.Grid] = n
	} else if n.turns != key.Turns {
		panic(fmt.Sprintf("stale node of turn %d in the bucket of turn %d", n.turns, key.Turns))
	}
	return canon, n
}

// lookup returns the node of key without creating it.
func (t *table) lookup(key NodeKey) (*node, bool) {
	canon, _ := t.canonical(key)
	n, ok := t.nodes[t.bucket(key.Turns)][canon.Grid]
	if ok && n.turns != key.Turns {
		return nil, false
	}
	return n, ok
}

// evict drops the bucket holding turn.
func (t *table) evict(turn int) {
	b := t.bucket(turn)
	t.canon.clear(b)
	t.nodes[b] = make(map[game.Grid]*node)
}

func (t *table) clear() {
	for turn := 0; turn < t.turnsMod; turn++ {
		t.evict(turn)
	}
}

func (t *table) size() int {
	n := 0
	for _, nodes := range t.nodes {
		n += len(nodes)
	}
	return n
}
