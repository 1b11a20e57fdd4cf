// Package grid provides the spatial value model for the pontoon planner:
// positions, rotations, pontoon elements, and the immutable grid aggregate.
package grid

import "fmt"

// Position addresses one discrete cell of the platform grid.
// X and Z are horizontal, Y is the level: 0 is the water surface,
// negative levels are underwater foundation, positive levels are decks.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// NewPosition creates a new Position.
func NewPosition(x, y, z int) Position {
	return Position{X: x, Y: y, Z: z}
}

// Below returns the cell directly below at level y-1.
func (p Position) Below() Position {
	return Position{X: p.X, Y: p.Y - 1, Z: p.Z}
}

// Above returns the cell directly above at level y+1.
func (p Position) Above() Position {
	return Position{X: p.X, Y: p.Y + 1, Z: p.Z}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Rotation is one of the four cardinal orientations of a pontoon.
type Rotation int

const (
	RotationNorth Rotation = iota
	RotationEast
	RotationSouth
	RotationWest
)

// Next returns the cyclic successor, a quarter turn clockwise.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

func (r Rotation) String() string {
	switch r {
	case RotationNorth:
		return "north"
	case RotationEast:
		return "east"
	case RotationSouth:
		return "south"
	case RotationWest:
		return "west"
	default:
		return "unknown"
	}
}

// ParseRotation converts the string form back to a Rotation.
func ParseRotation(s string) (Rotation, error) {
	switch s {
	case "north":
		return RotationNorth, nil
	case "east":
		return RotationEast, nil
	case "south":
		return RotationSouth, nil
	case "west":
		return RotationWest, nil
	}
	return RotationNorth, fmt.Errorf("unknown rotation %q", s)
}
