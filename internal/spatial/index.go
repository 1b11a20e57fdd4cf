// Package spatial provides the derived occupancy index over a pontoon
// grid. The index is strictly a rebuildable cache of the grid's
// footprints; the grid itself stays the single source of truth.
package spatial

import (
	"fmt"

	"pontoon-planner/internal/grid"
)

// Index answers "who occupies cell C" and "which cells does id E hold"
// in O(1) amortized time. It is owned by a single writer (the operation
// pipeline) for the lifetime of an editing session and is not safe for
// concurrent mutation.
type Index struct {
	cells   map[grid.Position]grid.ID
	entries map[grid.ID][]grid.Position
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		cells:   make(map[grid.Position]grid.ID),
		entries: make(map[grid.ID][]grid.Position),
	}
}

// Insert registers every cell of the footprint to id. Inserting an id
// that is already present replaces its previous registration.
func (idx *Index) Insert(id grid.ID, footprint []grid.Position) error {
	for _, cell := range footprint {
		if holder, taken := idx.cells[cell]; taken && holder != id {
			return fmt.Errorf("cell %s already registered to %s", cell, holder)
		}
	}
	if _, exists := idx.entries[id]; exists {
		idx.clearCells(id)
	}
	cells := make([]grid.Position, len(footprint))
	copy(cells, footprint)
	idx.entries[id] = cells
	for _, cell := range cells {
		idx.cells[cell] = id
	}
	return nil
}

// Remove clears every cell registered to id. Removing an unknown id is
// a no-op.
func (idx *Index) Remove(id grid.ID) {
	if _, ok := idx.entries[id]; !ok {
		return
	}
	idx.clearCells(id)
	delete(idx.entries, id)
}

// Move re-registers id at a new footprint as one atomic step: either
// the whole registration moves or nothing changes. No caller can
// observe the id half-removed.
func (idx *Index) Move(id grid.ID, footprint []grid.Position) error {
	old, ok := idx.entries[id]
	if !ok {
		return fmt.Errorf("id %s not in index", id)
	}
	own := make(map[grid.Position]bool, len(old))
	for _, cell := range old {
		own[cell] = true
	}
	for _, cell := range footprint {
		if holder, taken := idx.cells[cell]; taken && !own[cell] {
			return fmt.Errorf("cell %s already registered to %s", cell, holder)
		}
	}
	idx.clearCells(id)
	cells := make([]grid.Position, len(footprint))
	copy(cells, footprint)
	idx.entries[id] = cells
	for _, cell := range cells {
		idx.cells[cell] = id
	}
	return nil
}

// At returns the id occupying the cell, if any.
func (idx *Index) At(cell grid.Position) (grid.ID, bool) {
	id, ok := idx.cells[cell]
	return id, ok
}

// Occupied reports whether the cell is claimed by any id.
func (idx *Index) Occupied(cell grid.Position) bool {
	_, ok := idx.cells[cell]
	return ok
}

// CellsOf returns a copy of the cells registered to id.
func (idx *Index) CellsOf(id grid.ID) []grid.Position {
	cells, ok := idx.entries[id]
	if !ok {
		return nil
	}
	out := make([]grid.Position, len(cells))
	copy(out, cells)
	return out
}

// InRegion returns the distinct ids whose registration touches the
// axis-aligned box spanned by min and max (inclusive).
func (idx *Index) InRegion(min, max grid.Position) []grid.ID {
	if max.X < min.X || max.Y < min.Y || max.Z < min.Z {
		min, max = max, min
	}
	seen := make(map[grid.ID]bool)
	var out []grid.ID
	for y := min.Y; y <= max.Y; y++ {
		for z := min.Z; z <= max.Z; z++ {
			for x := min.X; x <= max.X; x++ {
				if id, ok := idx.cells[grid.Position{X: x, Y: y, Z: z}]; ok && !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// Len returns the number of registered ids.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// RebuildFrom discards all registrations and re-derives them from the
// grid's footprints. This is the recovery path whenever the index is
// suspected to have drifted from the entity table.
func (idx *Index) RebuildFrom(g grid.Grid) {
	idx.cells = make(map[grid.Position]grid.ID, g.Count()*2)
	idx.entries = make(map[grid.ID][]grid.Position, g.Count())
	for _, p := range g.Pontoons() {
		cells := p.Footprint()
		idx.entries[p.ID] = cells
		for _, cell := range cells {
			idx.cells[cell] = p.ID
		}
	}
}

// ConsistentWith reports whether the registered cell sets exactly match
// the grid's current footprints. Both maps are checked: every footprint
// cell must resolve back to its owner, and the cells map must hold
// nothing beyond the grid's footprints.
func (idx *Index) ConsistentWith(g grid.Grid) bool {
	if len(idx.entries) != g.Count() {
		return false
	}
	total := 0
	for _, p := range g.Pontoons() {
		cells, ok := idx.entries[p.ID]
		if !ok {
			return false
		}
		footprint := p.Footprint()
		if len(cells) != len(footprint) {
			return false
		}
		for i, cell := range footprint {
			if cells[i] != cell {
				return false
			}
			if idx.cells[cell] != p.ID {
				return false
			}
		}
		total += len(footprint)
	}
	return len(idx.cells) == total
}

func (idx *Index) clearCells(id grid.ID) {
	for _, cell := range idx.entries[id] {
		if idx.cells[cell] == id {
			delete(idx.cells, cell)
		}
	}
}
