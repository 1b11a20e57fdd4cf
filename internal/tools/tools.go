// Package tools provides the operation pipeline: per-tool state
// machines that turn one input event into exactly one validated grid
// mutation or one reported failure. The pipeline is the sole writer of
// the spatial index and the only code path that appends to the history
// ledger.
package tools

import (
	"time"

	"pontoon-planner/pkg/geometry"
)

// Tool represents the current interaction tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPlace
	ToolDelete
	ToolRotate
	ToolPaint
	ToolMove
	ToolMultiDrop
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPlace:
		return "place"
	case ToolDelete:
		return "delete"
	case ToolRotate:
		return "rotate"
	case ToolPaint:
		return "paint"
	case ToolMove:
		return "move"
	case ToolMultiDrop:
		return "multi-drop"
	default:
		return "unknown"
	}
}

// Button identifies which pointer button fired.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// PointerPhase distinguishes the stages of a pointer gesture.
type PointerPhase int

const (
	PhasePress PointerPhase = iota
	PhaseDrag
	PhaseRelease
	PhaseCancel
)

// PointerInput is one event from the input adapter. The pipeline never
// touches a display surface; pixel coordinates arrive here and leave
// resolved to cells.
type PointerInput struct {
	Pos       geometry.Point2D
	Phase     PointerPhase
	Button    Button
	Modifiers Modifiers
	Timestamp time.Time
}
