package core

import "fmt"

// Scenario is the static input to a simulation run: the grid and the
// registries of shelves, stations, and spawn points. It is built once from
// the layout artifact and never mutated.
type Scenario struct {
	Grid     *Grid
	Shelves  map[ShelfID]*Shelf
	Stations map[StationID]*Station
	Spawn    []Cell
}

// NewScenario creates an empty scenario around grid.
func NewScenario(grid *Grid) *Scenario {
	return &Scenario{
		Grid:     grid,
		Shelves:  make(map[ShelfID]*Shelf),
		Stations: make(map[StationID]*Station),
	}
}

// Validate checks structural consistency of the scenario: in-bounds cells,
// no duplicate shelf anchors, and traversability of every anchor/dock cell.
func (s *Scenario) Validate() error {
	seenAnchors := make(map[Cell]ShelfID)
	for id, sh := range s.Shelves {
		if !s.Grid.InBounds(sh.Anchor) {
			return fmt.Errorf("shelf %d: anchor %v out of bounds", id, sh.Anchor)
		}
		if !s.Grid.Traversable(sh.Anchor, sh.Anchor, true) {
			return fmt.Errorf("shelf %d: anchor %v is not traversable", id, sh.Anchor)
		}
		if other, dup := seenAnchors[sh.Anchor]; dup {
			return fmt.Errorf("shelf %d: anchor %v duplicates shelf %d", id, sh.Anchor, other)
		}
		seenAnchors[sh.Anchor] = id
	}
	for id, st := range s.Stations {
		if !s.Grid.InBounds(st.Cell) {
			return fmt.Errorf("station %d: cell %v out of bounds", id, st.Cell)
		}
		if !s.Grid.Traversable(st.Cell, Cell{}, false) {
			return fmt.Errorf("station %d: cell %v is not traversable", id, st.Cell)
		}
	}
	for i, c := range s.Spawn {
		if !s.Grid.InBounds(c) {
			return fmt.Errorf("spawn[%d]: cell %v out of bounds", i, c)
		}
	}
	return nil
}

// ShelfByID returns the shelf, or nil if unknown.
func (s *Scenario) ShelfByID(id ShelfID) *Shelf { return s.Shelves[id] }

// StationByID returns the station, or nil if unknown.
func (s *Scenario) StationByID(id StationID) *Station { return s.Stations[id] }

// ValidateOrder checks that an order references existing shelves/stations and
// has a non-negative creation tick.
func (s *Scenario) ValidateOrder(o *Order) error {
	if o.CreationTick < 0 {
		return fmt.Errorf("order %d: creation_tick %d must be >= 0", o.ID, o.CreationTick)
	}
	if s.ShelfByID(o.ShelfID) == nil {
		return fmt.Errorf("order %d: shelf_id %d does not exist", o.ID, o.ShelfID)
	}
	if s.StationByID(o.StationID) == nil {
		return fmt.Errorf("order %d: station_id %d does not exist", o.ID, o.StationID)
	}
	return nil
}
