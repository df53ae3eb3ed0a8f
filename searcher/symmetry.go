package searcher

import "adversarial2048/game"

// Symmetries returns the 8 images of g under the symmetry group of the
// square. The first image is g itself.
func Symmetries(g game.Grid) [8]game.Grid {
	const n = game.Size - 1
	var s [8]game.Grid
	for i := 0; i < game.Size; i++ {
		for j := 0; j < game.Size; j++ {
			v := g[i][j]
			s[0][i][j] = v
			s[1][n-i][j] = v
			s[2][i][n-j] = v
			s[3][n-i][n-j] = v
			s[4][j][i] = v
			s[5][n-j][i] = v
			s[6][j][n-i] = v
			s[7][n-j][n-i] = v
		}
	}
	return s
}

// Canonical returns the greatest image of g under Grid.Compare.
func Canonical(g game.Grid) game.Grid {
	return greatest(Symmetries(g))
}

func greatest(images [8]game.Grid) game.Grid {
	top := images[0]
	for _, image := range images[1:] {
		if image.Compare(top) > 0 {
			top = image
		}
	}
	return top
}

// canonicalizer memoizes Canonical per turn bucket. Resolving one image
// records all 8 of them.
type canonicalizer struct {
	buckets []map[game.Grid]game.Grid
}

func newCanonicalizer(turnsMod int) *canonicalizer {
	c := &canonicalizer{buckets: make([]map[game.Grid]game.Grid, turnsMod)}
	for i := range c.buckets {
		c.buckets[i] = make(map[game.Grid]game.Grid)
	}
	return c
}

// canonical returns the canonical grid of g and whether it was memoized.
func (c *canonicalizer) canonical(bucket int, g game.Grid) (game.Grid, bool) {
	memo := c.buckets[bucket]
	if canon, ok := memo[g]; ok {
		return canon, true
	}
	images := Symmetries(g)
	canon := greatest(images)
	for _, image := range images {
		memo[image] = canon
	}
	return canon, false
}

func (c *canonicalizer) clear(bucket int) {
	c.buckets[bucket] = make(map[game.Grid]game.Grid)
}
