package grid

import (
	"fmt"

	"github.com/google/uuid"
)

// ID identifies a pontoon within its grid. IDs are opaque and stable
// across moves, rotations, and recoloring.
type ID string

// NewID mints a fresh pontoon identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// PontoonType determines how many cells a pontoon occupies.
type PontoonType int

const (
	// Single occupies exactly its anchor cell.
	Single PontoonType = iota
	// Double occupies its anchor cell plus the cell at x+1 on the
	// same level and row.
	Double
)

func (t PontoonType) String() string {
	switch t {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// ParsePontoonType converts the string form back to a PontoonType.
func ParsePontoonType(s string) (PontoonType, error) {
	switch s {
	case "single":
		return Single, nil
	case "double":
		return Double, nil
	}
	return Single, fmt.Errorf("unknown pontoon type %q", s)
}

// CellCount returns the number of cells the type occupies.
func (t PontoonType) CellCount() int {
	if t == Double {
		return 2
	}
	return 1
}

// Footprint returns the cells a pontoon of the given type occupies when
// anchored at anchor. The footprint depends on anchor and type only;
// rotation never changes it.
func Footprint(anchor Position, t PontoonType) []Position {
	if t == Double {
		return []Position{anchor, {X: anchor.X + 1, Y: anchor.Y, Z: anchor.Z}}
	}
	return []Position{anchor}
}

// Color is the catalog color of a pontoon. Colors never affect
// placement rules; they matter for rendering and the parts list.
type Color int

const (
	ColorBlue Color = iota
	ColorGray
	ColorSand
	ColorGreen
)

func (c Color) String() string {
	switch c {
	case ColorBlue:
		return "blue"
	case ColorGray:
		return "gray"
	case ColorSand:
		return "sand"
	case ColorGreen:
		return "green"
	default:
		return "unknown"
	}
}

// ParseColor converts the string form back to a Color.
func ParseColor(s string) (Color, error) {
	switch s {
	case "blue":
		return ColorBlue, nil
	case "gray":
		return ColorGray, nil
	case "sand":
		return ColorSand, nil
	case "green":
		return ColorGreen, nil
	}
	return ColorBlue, fmt.Errorf("unknown color %q", s)
}

// Pontoon is one placed building block. Pontoons are values owned by
// the Grid that created them; "mutation" means producing a replacement
// value inside a new Grid.
type Pontoon struct {
	ID       ID
	Position Position
	Type     PontoonType
	Color    Color
	Rotation Rotation
}

// Footprint returns the cells this pontoon occupies.
func (p Pontoon) Footprint() []Position {
	return Footprint(p.Position, p.Type)
}

// Covers reports whether pos is part of this pontoon's footprint.
func (p Pontoon) Covers(pos Position) bool {
	for _, cell := range p.Footprint() {
		if cell == pos {
			return true
		}
	}
	return false
}
