package core

// Grid is the immutable static obstacle map: a dense W×H array of cell-type
// codes. It is constructed once from the layout artifact and never mutated
// during a simulation run.
type Grid struct {
	Width, Height int
	cells         []CellType
}

// NewGrid builds a grid from a flat, row-major slice of cell types.
// len(cells) must equal width*height.
func NewGrid(width, height int, cells []CellType) *Grid {
	g := &Grid{Width: width, Height: height}
	g.cells = make([]CellType, len(cells))
	copy(g.cells, cells)
	return g
}

// InBounds reports whether a cell lies within the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Height && c.Col >= 0 && c.Col < g.Width
}

func (g *Grid) index(c Cell) int {
	return c.Row*g.Width + c.Col
}

// At returns the cell type at c. Callers must check InBounds first.
func (g *Grid) At(c Cell) CellType {
	return g.cells[g.index(c)]
}

// Traversable reports whether c may be occupied by a robot, honoring the
// single-cell shelf exemption: a Shelf cell is traversable only when it
// equals exempt and hasExempt is true (the robot's own pickup target, or
// the shelf cell it is currently carrying back to).
func (g *Grid) Traversable(c Cell, exempt Cell, hasExempt bool) bool {
	if !g.InBounds(c) {
		return false
	}
	t := g.At(c)
	if t.Traversable() {
		return true
	}
	if t == CellShelf && hasExempt && c == exempt {
		return true
	}
	return false
}

// Neighbors4 returns the in-bounds 4-connected neighbors of c in a fixed
// order: up, down, left, right.
func (g *Grid) Neighbors4(c Cell) []Cell {
	candidates := [4]Cell{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
	out := make([]Cell, 0, 4)
	for _, n := range candidates {
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}
