package core

import "testing"

func makeTestGrid() *Grid {
	// 3x3 grid with a shelf at (1,1).
	cells := []CellType{
		Free, Free, Free,
		Free, CellShelf, Free,
		Free, Free, CellStation,
	}
	return NewGrid(3, 3, cells)
}

func TestGridTraversable(t *testing.T) {
	g := makeTestGrid()

	tests := []struct {
		name       string
		c          Cell
		exempt     Cell
		hasExempt  bool
		want       bool
	}{
		{"free cell always traversable", Cell{0, 0}, Cell{}, false, true},
		{"station always traversable", Cell{2, 2}, Cell{}, false, true},
		{"shelf not traversable without exemption", Cell{1, 1}, Cell{}, false, false},
		{"shelf traversable when exempt matches", Cell{1, 1}, Cell{1, 1}, true, true},
		{"shelf not traversable when exempt is a different cell", Cell{1, 1}, Cell{0, 0}, true, false},
		{"out of bounds is never traversable", Cell{5, 5}, Cell{}, false, false},
	}

	for _, tt := range tests {
		got := g.Traversable(tt.c, tt.exempt, tt.hasExempt)
		if got != tt.want {
			t.Errorf("%s: Traversable(%v) = %v, want %v", tt.name, tt.c, got, tt.want)
		}
	}
}

func TestGridNeighbors4Deterministic(t *testing.T) {
	g := makeTestGrid()
	got := g.Neighbors4(Cell{1, 1})
	want := []Cell{{0, 1}, {2, 1}, {1, 0}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("Neighbors4 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors4[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCellManhattan(t *testing.T) {
	if d := (Cell{0, 0}).Manhattan(Cell{3, 4}); d != 7 {
		t.Errorf("Manhattan = %d, want 7", d)
	}
}
