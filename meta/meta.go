// meta/meta.go
package meta

// DEPTH is the default search depth in plies.
const DEPTH = 6

// TURNS_MOD is the number of turn buckets kept by the transposition table.
// It must exceed the deepest search horizon in turns.
const TURNS_MOD = 64

// GO_ROUTINES defines the number of games played concurrently by experiments.
const GO_ROUTINES = 8

// MAX_TURNS ends a game that has not reached a dead grid.
const MAX_TURNS = 100000

// RARE_TILE_PROBABILITY is the chance that a random Placer puts a 4.
const RARE_TILE_PROBABILITY = 0.1
