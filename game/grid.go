package game

import (
	"fmt"
	"math/bits"
)

// Grid holds tile exponents: 0 is an empty cell and k is the tile 2^k.
// Grid[x][y] is row x, column y.
type Grid [Size][Size]uint8

// Values holds linear tile values: 0 is an empty cell.
type Values [Size][Size]int

// lineCell maps the i-th cell of a line, counted from the edge the tiles
// slide toward, to grid coordinates.
func lineCell(d Direction, line, i int) (int, int) {
	switch d {
	case Up:
		return i, line
	case Down:
		return Size - 1 - i, line
	case Left:
		return line, i
	case Right:
		return line, Size - 1 - i
	default:
		panic("unexpected direction")
	}
}

// slide moves every tile toward the edge of d and returns the new grid with
// the linear points earned by merges. A merged cell is closed for the rest
// of the pass, so 2 2 2 2 becomes 4 4, not 8.
func (g Grid) slide(d Direction) (Grid, int) {
	var out Grid
	score := 0
	for line := 0; line < Size; line++ {
		end := 0
		for i := 0; i < Size; i++ {
			x, y := lineCell(d, line, i)
			v := g[x][y]
			if v == 0 {
				continue
			}
			ex, ey := lineCell(d, line, end)
			switch out[ex][ey] {
			case 0:
				out[ex][ey] = v
			case v:
				out[ex][ey]++
				score += 1 << out[ex][ey]
				end++
			default:
				end++
				ex, ey = lineCell(d, line, end)
				out[ex][ey] = v
			}
		}
	}
	return out, score
}

// Slide returns the grid after sliding toward d, or false if no tile moved.
func (g Grid) Slide(d Direction) (Grid, bool) {
	out, _ := g.slide(d)
	return out, out != g
}

func (g Grid) SlideUp() (Grid, bool)    { return g.Slide(Up) }
func (g Grid) SlideDown() (Grid, bool)  { return g.Slide(Down) }
func (g Grid) SlideLeft() (Grid, bool)  { return g.Slide(Left) }
func (g Grid) SlideRight() (Grid, bool) { return g.Slide(Right) }

// Place returns the grid with cell (x, y) set to exp, or false if the cell
// is occupied.
func (g Grid) Place(x, y int, exp uint8) (Grid, bool) {
	if g[x][y] != 0 {
		return g, false
	}
	g[x][y] = exp
	return g, true
}

// Apply dispatches a move onto the grid. Placement values are linear.
func (g Grid) Apply(m Move) (Grid, bool) {
	switch m := m.(type) {
	case Slide:
		return g.Slide(m.Direction)
	case Place:
		return g.Place(m.X, m.Y, Exponent(m.Value))
	default:
		panic("unexpected move type")
	}
}

// Dead reports whether the Slider has no legal move: every cell is occupied
// and no two orthogonal neighbors are equal.
func (g Grid) Dead() bool {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if g[i][j] == 0 {
				return false
			}
		}
		for j := 0; j < Size-1; j++ {
			if g[i][j] == g[i][j+1] || g[j][i] == g[j+1][i] {
				return false
			}
		}
	}
	return true
}

func (g Grid) Empty() int {
	n := 0
	for i := range g {
		for j := range g[i] {
			if g[i][j] == 0 {
				n++
			}
		}
	}
	return n
}

func (g Grid) MaxTile() uint8 {
	var top uint8
	for i := range g {
		for j := range g[i] {
			top = max(top, g[i][j])
		}
	}
	return top
}

// Compare orders grids row major by exponent.
func (g Grid) Compare(o Grid) int {
	for i := range g {
		for j := range g[i] {
			switch {
			case g[i][j] < o[i][j]:
				return -1
			case g[i][j] > o[i][j]:
				return 1
			}
		}
	}
	return 0
}

// Values converts exponents to linear tile values.
func (g Grid) Values() Values {
	var v Values
	for i := range g {
		for j := range g[i] {
			if g[i][j] != 0 {
				v[i][j] = 1 << g[i][j]
			}
		}
	}
	return v
}

// Exponent converts a linear tile value to its exponent, 0 for empty.
func Exponent(value int) uint8 {
	if value <= 0 {
		return 0
	}
	return uint8(bits.TrailingZeros(uint(value)))
}

// Exponents converts linear values to an exponent grid. Every value must be
// 0 or a power of two no smaller than 2.
func (v Values) Exponents() (Grid, error) {
	var g Grid
	for i := range v {
		for j := range v[i] {
			n := v[i][j]
			if n == 0 {
				continue
			}
			if n < 2 || n&(n-1) != 0 {
				return g, fmt.Errorf("cell (%d, %d) holds %d: %w", i, j, n, ErrInvalidTile)
			}
			g[i][j] = Exponent(n)
		}
	}
	return g, nil
}
