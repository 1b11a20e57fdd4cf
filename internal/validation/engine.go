package validation

import (
	"sort"

	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/spatial"
)

// Engine checks placement rules against one grid state and its
// occupancy index. Engines are cheap views: construct one per grid
// value and discard it after use. The engine never mutates anything,
// so a check repeated without an intervening mutation always returns
// the same result.
type Engine struct {
	g   grid.Grid
	idx *spatial.Index
}

// NewEngine creates an engine over the given grid state. The index
// must already describe exactly that grid.
func NewEngine(g grid.Grid, idx *spatial.Index) *Engine {
	return &Engine{g: g, idx: idx}
}

// CanPlace checks whether a pontoon of the given type may be anchored
// at pos. Cells registered to exclude are treated as free, which lets
// a move re-validate a pontoon against its own current footprint.
// Failures accumulate in check order: bounds, then overlap, then support.
func (e *Engine) CanPlace(pos grid.Position, typ grid.PontoonType, exclude ...grid.ID) Result {
	var r Result
	dims := e.g.Dimensions()
	footprint := grid.Footprint(pos, typ)

	for _, cell := range footprint {
		if !dims.Contains(cell) {
			r.fail(RuleOutOfBounds, cell, "cell %s outside %dx%d grid", cell, dims.Width, dims.Height)
		}
	}

	excluded := func(id grid.ID) bool {
		for _, x := range exclude {
			if x == id {
				return true
			}
		}
		return false
	}
	for _, cell := range footprint {
		if holder, taken := e.idx.At(cell); taken && !excluded(holder) {
			r.fail(RuleOverlap, cell, "cell %s occupied by pontoon %s", cell, holder)
		}
	}

	if pos.Y > dims.MinLevel {
		for _, cell := range footprint {
			if !e.supportedBelow(cell, excluded) {
				r.fail(RuleNoSupport, cell, "cell %s has no pontoon below at level %d", cell, cell.Y-1)
			}
		}
	}

	return r
}

// CanMove checks whether the pontoon may be re-anchored at newPos,
// ignoring its own current footprint in the overlap check.
func (e *Engine) CanMove(id grid.ID, newPos grid.Position) Result {
	p, found := e.g.Pontoon(id)
	if !found {
		return Fail(RuleNotFound, "pontoon %s not found", id)
	}
	if p.Position == newPos {
		return Fail(RuleAlreadyAtPosition, "pontoon %s already anchored at %s", id, newPos)
	}
	return e.CanPlace(newPos, p.Type, id)
}

// HasSupport reports whether pos rests on the lowest level or on an
// occupant directly below.
func (e *Engine) HasSupport(pos grid.Position) bool {
	if pos.Y <= e.g.Dimensions().MinLevel {
		return true
	}
	return e.idx.Occupied(pos.Below())
}

func (e *Engine) supportedBelow(cell grid.Position, excluded func(grid.ID) bool) bool {
	holder, taken := e.idx.At(cell.Below())
	if !taken {
		return false
	}
	// A pontoon cannot support its own upper cells mid-move.
	return !excluded(holder)
}

// ValidateConnectivity checks that all occupied cells form one
// contiguous structure under face adjacency. The flood fill runs over
// cells, not pontoon ids, so a DOUBLE bridging two clusters connects
// them through either of its cells.
func (e *Engine) ValidateConnectivity() Result {
	cells := e.g.OccupiedCells()
	if len(cells) == 0 {
		return ok()
	}

	var start grid.Position
	for cell := range cells {
		start = cell
		break
	}

	visited := make(map[grid.Position]bool, len(cells))
	stack := []grid.Position{start}
	visited[start] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range neighbors(cur) {
			if _, occupied := cells[n]; occupied && !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}

	if len(visited) == len(cells) {
		return ok()
	}
	var r Result
	r.fail(RuleDisconnected, start, "%d of %d cells unreachable from %s",
		len(cells)-len(visited), len(cells), start)
	return r
}

func neighbors(p grid.Position) [6]grid.Position {
	return [6]grid.Position{
		{X: p.X - 1, Y: p.Y, Z: p.Z},
		{X: p.X + 1, Y: p.Y, Z: p.Z},
		{X: p.X, Y: p.Y, Z: p.Z - 1},
		{X: p.X, Y: p.Y, Z: p.Z + 1},
		{X: p.X, Y: p.Y - 1, Z: p.Z},
		{X: p.X, Y: p.Y + 1, Z: p.Z},
	}
}

// FindNearbyValidPositions searches rings around target on the target's
// level and returns every anchor where CanPlace succeeds, nearest
// first. Distance is Chebyshev: ring r is the square border at
// max(|dx|, |dz|) == r. Ties within a ring order by dz, then dx.
func (e *Engine) FindNearbyValidPositions(target grid.Position, typ grid.PontoonType, maxDistance int) []grid.Position {
	var out []grid.Position
	for r := 0; r <= maxDistance; r++ {
		var ring []grid.Position
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				cand := grid.Position{X: target.X + dx, Y: target.Y, Z: target.Z + dz}
				if e.CanPlace(cand, typ).OK() {
					ring = append(ring, cand)
				}
			}
		}
		sort.Slice(ring, func(i, j int) bool {
			if ring[i].Z != ring[j].Z {
				return ring[i].Z < ring[j].Z
			}
			return ring[i].X < ring[j].X
		})
		out = append(out, ring...)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
