package grid

import (
	"fmt"
)

// PortablePontoon is the exchange form of one pontoon. Enumerations are
// carried as their string forms so saved files stay readable and stable
// across reorderings of the Go constants.
type PortablePontoon struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Type     string   `json:"type"`
	Color    string   `json:"color"`
	Rotation string   `json:"rotation"`
}

// Portable is the exchange form of a whole grid: dimensions plus the
// flat pontoon list. It carries no behavior and performs no I/O; the
// project package decides where the bytes go.
type Portable struct {
	Dimensions Dimensions        `json:"dimensions"`
	Pontoons   []PortablePontoon `json:"pontoons"`
}

// ToPortable converts the grid to its exchange form. Pontoons are
// emitted in id order.
func (g Grid) ToPortable() Portable {
	out := Portable{Dimensions: g.dims}
	for _, p := range g.Pontoons() {
		out.Pontoons = append(out.Pontoons, PortablePontoon{
			ID:       string(p.ID),
			Position: p.Position,
			Type:     p.Type.String(),
			Color:    p.Color.String(),
			Rotation: p.Rotation.String(),
		})
	}
	return out
}

// FromPortable rebuilds a grid from its exchange form. The input is
// validated structurally (dimensions, enum strings, duplicate ids,
// cells inside bounds, cell exclusivity); placement rules such as
// support are the validation engine's business, not this decoder's.
func FromPortable(p Portable) (Grid, error) {
	g, err := New(p.Dimensions)
	if err != nil {
		return Grid{}, err
	}
	occupied := make(map[Position]ID)
	for i, pp := range p.Pontoons {
		if pp.ID == "" {
			return Grid{}, fmt.Errorf("pontoon %d: empty id", i)
		}
		if _, exists := g.pontoons[ID(pp.ID)]; exists {
			return Grid{}, fmt.Errorf("pontoon %d: duplicate id %s", i, pp.ID)
		}
		typ, err := ParsePontoonType(pp.Type)
		if err != nil {
			return Grid{}, fmt.Errorf("pontoon %s: %w", pp.ID, err)
		}
		col, err := ParseColor(pp.Color)
		if err != nil {
			return Grid{}, fmt.Errorf("pontoon %s: %w", pp.ID, err)
		}
		rot, err := ParseRotation(pp.Rotation)
		if err != nil {
			return Grid{}, fmt.Errorf("pontoon %s: %w", pp.ID, err)
		}
		for _, cell := range Footprint(pp.Position, typ) {
			if !g.dims.Contains(cell) {
				return Grid{}, fmt.Errorf("pontoon %s: cell %s outside grid", pp.ID, cell)
			}
			if holder, taken := occupied[cell]; taken {
				return Grid{}, fmt.Errorf("pontoon %s: cell %s already occupied by %s", pp.ID, cell, holder)
			}
			occupied[cell] = ID(pp.ID)
		}
		g.pontoons[ID(pp.ID)] = Pontoon{
			ID:       ID(pp.ID),
			Position: pp.Position,
			Type:     typ,
			Color:    col,
			Rotation: rot,
		}
	}
	return g, nil
}
