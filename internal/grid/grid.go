package grid

import (
	"fmt"
	"sort"
)

// Dimensions describes the extent of a platform grid. Levels span
// [MinLevel, MinLevel+Levels). MinLevel 0 starts at the water surface;
// a negative MinLevel leaves room for underwater foundation.
type Dimensions struct {
	Width    int `json:"width"`  // cells along x
	Height   int `json:"height"` // cells along z
	Levels   int `json:"levels"` // level count from MinLevel upward
	MinLevel int `json:"min_level,omitempty"`
}

// Contains reports whether pos lies inside the grid's cell space.
func (d Dimensions) Contains(pos Position) bool {
	return pos.X >= 0 && pos.X < d.Width &&
		pos.Z >= 0 && pos.Z < d.Height &&
		pos.Y >= d.MinLevel && pos.Y < d.MinLevel+d.Levels
}

// MaxLevel returns the highest valid level.
func (d Dimensions) MaxLevel() int {
	return d.MinLevel + d.Levels - 1
}

// Grid is the authoritative table of placed pontoons. A Grid is an
// immutable value: every mutator returns a new Grid sharing no mutable
// state with its parent, so a held reference can never change underneath
// its holder. The Grid is the unit of undo/redo snapshotting.
type Grid struct {
	dims     Dimensions
	pontoons map[ID]Pontoon
}

// New creates an empty grid with the given dimensions.
func New(dims Dimensions) (Grid, error) {
	if dims.Width <= 0 || dims.Height <= 0 || dims.Levels <= 0 {
		return Grid{}, fmt.Errorf("grid dimensions must be positive, got %dx%dx%d",
			dims.Width, dims.Height, dims.Levels)
	}
	return Grid{dims: dims, pontoons: map[ID]Pontoon{}}, nil
}

// Dimensions returns the grid's extent.
func (g Grid) Dimensions() Dimensions {
	return g.dims
}

// Count returns the number of placed pontoons.
func (g Grid) Count() int {
	return len(g.pontoons)
}

// Pontoon returns the pontoon with the given id.
func (g Grid) Pontoon(id ID) (Pontoon, bool) {
	p, ok := g.pontoons[id]
	return p, ok
}

// Pontoons returns all placed pontoons, ordered by id for determinism.
func (g Grid) Pontoons() []Pontoon {
	out := make([]Pontoon, 0, len(g.pontoons))
	for _, p := range g.pontoons {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PontoonAt returns the pontoon whose footprint covers pos.
func (g Grid) PontoonAt(pos Position) (Pontoon, bool) {
	for _, p := range g.pontoons {
		if p.Covers(pos) {
			return p, true
		}
	}
	return Pontoon{}, false
}

// AtLevel returns all pontoons anchored on the given level, ordered by id.
func (g Grid) AtLevel(level int) []Pontoon {
	var out []Pontoon
	for _, p := range g.pontoons {
		if p.Position.Y == level {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OccupiedCells returns every cell covered by any pontoon.
func (g Grid) OccupiedCells() map[Position]ID {
	cells := make(map[Position]ID, len(g.pontoons)*2)
	for _, p := range g.pontoons {
		for _, cell := range p.Footprint() {
			cells[cell] = p.ID
		}
	}
	return cells
}

// WithPontoon returns a new grid that additionally holds p. An existing
// pontoon with the same id is replaced.
func (g Grid) WithPontoon(p Pontoon) Grid {
	next := g.clone()
	next.pontoons[p.ID] = p
	return next
}

// WithoutPontoon returns a new grid with the pontoon removed. Removing
// an unknown id yields an unchanged copy.
func (g Grid) WithoutPontoon(id ID) Grid {
	next := g.clone()
	delete(next.pontoons, id)
	return next
}

// WithMoved returns a new grid with the pontoon re-anchored at pos.
func (g Grid) WithMoved(id ID, pos Position) (Grid, error) {
	p, ok := g.pontoons[id]
	if !ok {
		return g, fmt.Errorf("pontoon %s not found", id)
	}
	p.Position = pos
	return g.WithPontoon(p), nil
}

// WithRotated returns a new grid with the pontoon turned to rot.
func (g Grid) WithRotated(id ID, rot Rotation) (Grid, error) {
	p, ok := g.pontoons[id]
	if !ok {
		return g, fmt.Errorf("pontoon %s not found", id)
	}
	p.Rotation = rot
	return g.WithPontoon(p), nil
}

// WithColor returns a new grid with the pontoon repainted.
func (g Grid) WithColor(id ID, c Color) (Grid, error) {
	p, ok := g.pontoons[id]
	if !ok {
		return g, fmt.Errorf("pontoon %s not found", id)
	}
	p.Color = c
	return g.WithPontoon(p), nil
}

// Equal reports whether two grids have the same dimensions and the same
// pontoon mapping.
func (g Grid) Equal(other Grid) bool {
	if g.dims != other.dims || len(g.pontoons) != len(other.pontoons) {
		return false
	}
	for id, p := range g.pontoons {
		if q, ok := other.pontoons[id]; !ok || q != p {
			return false
		}
	}
	return true
}

func (g Grid) clone() Grid {
	pontoons := make(map[ID]Pontoon, len(g.pontoons)+1)
	for id, p := range g.pontoons {
		pontoons[id] = p
	}
	return Grid{dims: g.dims, pontoons: pontoons}
}
