package tools

import (
	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/validation"
	"pontoon-planner/internal/view"
	"pontoon-planner/pkg/geometry"
)

// InputResult reports how one pointer event was handled: the resolved
// cell (if any), the mutation outcome (if one ran), and whether the
// event was dropped by the busy guard.
type InputResult struct {
	Cell     grid.Position
	HasCell  bool
	Outcome  *Outcome
	Dropped  bool
	Selected []grid.ID
}

// SetTool switches the active tool and resets any in-flight tool state,
// so a half-finished move or drag never leaks into the next tool.
func (p *Pipeline) SetTool(t Tool) {
	p.tool = t
	p.moveID = ""
	p.drag = nil
}

// ActiveTool returns the current tool.
func (p *Pipeline) ActiveTool() Tool {
	return p.tool
}

// SetPlacement chooses the pontoon type and color the place and
// multi-drop tools use.
func (p *Pipeline) SetPlacement(typ grid.PontoonType, col grid.Color) {
	p.placeType = typ
	p.placeColor = col
}

// Placement returns the pontoon type and color the place and
// multi-drop tools use.
func (p *Pipeline) Placement() (grid.PontoonType, grid.Color) {
	return p.placeType, p.placeColor
}

// SetCamera updates the camera and invalidates the transform cache.
func (p *Pipeline) SetCamera(cam view.Camera) {
	if cam != p.camera {
		p.camera = cam
		p.calc.ClearCache()
	}
}

// Camera returns the current camera.
func (p *Pipeline) Camera() view.Camera {
	return p.camera
}

// SetViewport updates the render surface size and invalidates the
// transform cache.
func (p *Pipeline) SetViewport(vp view.Viewport) {
	if vp != p.viewport {
		p.viewport = vp
		p.calc.ClearCache()
	}
}

// SetActiveLevel switches the level pointer input resolves against,
// clamped to the grid's level range. Switching cancels a live drag.
func (p *Pipeline) SetActiveLevel(level int) {
	dims := p.g.Dimensions()
	if level < dims.MinLevel {
		level = dims.MinLevel
	}
	if level > dims.MaxLevel() {
		level = dims.MaxLevel()
	}
	if level != p.activeLevel {
		p.activeLevel = level
		p.drag = nil
	}
}

// ActiveLevel returns the level pointer input resolves against.
func (p *Pipeline) ActiveLevel() int {
	return p.activeLevel
}

// Selection returns the currently selected pontoon ids.
func (p *Pipeline) Selection() []grid.ID {
	out := make([]grid.ID, 0, len(p.selection))
	for id := range p.selection {
		out = append(out, id)
	}
	return out
}

// MoveSource returns the pontoon remembered by the move tool, if the
// tool is mid-gesture.
func (p *Pipeline) MoveSource() (grid.ID, bool) {
	return p.moveID, p.moveID != ""
}

// HandlePointer feeds one pointer event through the active tool's
// state machine. At most one event is processed at a time; an event
// arriving mid-processing is dropped and reported, not queued.
func (p *Pipeline) HandlePointer(in PointerInput) InputResult {
	if !p.begin() {
		return InputResult{Dropped: true}
	}
	defer p.end()

	cell, onGrid := p.calc.ScreenToGrid(in.Pos, p.camera, p.viewport, p.g.Dimensions(), p.activeLevel)
	r := InputResult{Cell: cell, HasCell: onGrid}

	switch in.Phase {
	case PhaseCancel:
		p.moveID = ""
		p.drag = nil
		return r
	case PhaseDrag:
		if p.tool == ToolMultiDrop && p.drag != nil && onGrid {
			p.drag.current = cell
		}
		return r
	case PhaseRelease:
		if p.tool == ToolMultiDrop {
			return p.finishDrag(r)
		}
		return r
	}

	// PhasePress from here on.
	if !onGrid {
		// A press off the grid clears a pending move selection.
		p.moveID = ""
		return r
	}

	switch p.tool {
	case ToolSelect:
		r.Selected = p.selectAt(cell, in.Modifiers)
	case ToolPlace:
		out := p.place(cell, p.placeType, p.placeColor)
		r.Outcome = &out
	case ToolDelete:
		out := p.deleteAt(cell)
		r.Outcome = &out
	case ToolRotate:
		out := p.rotateAt(cell)
		r.Outcome = &out
	case ToolPaint:
		out := p.paintAt(cell)
		r.Outcome = &out
	case ToolMove:
		r.Outcome = p.moveStep(cell)
	case ToolMultiDrop:
		p.drag = &dragState{anchor: cell, current: cell}
	}
	return r
}

// CancelDrag discards a live multi-drop preview without mutating the
// grid. Pointer-leave maps here.
func (p *Pipeline) CancelDrag() {
	p.drag = nil
}

// CellAt resolves a pointer position to a cell on the active level
// without touching any tool state. Rendering and hover previews share
// this resolution with the mutation path, so the two cannot disagree.
func (p *Pipeline) CellAt(pos geometry.Point2D) (grid.Position, bool) {
	return p.calc.ScreenToGrid(pos, p.camera, p.viewport, p.g.Dimensions(), p.activeLevel)
}

// HoverPreview resolves the pointer and reports whether the current
// placement type would validate at the resolved cell.
func (p *Pipeline) HoverPreview(pos geometry.Point2D) (cell grid.Position, onGrid, valid bool) {
	cell, onGrid = p.CellAt(pos)
	if !onGrid {
		return cell, false, false
	}
	return cell, true, p.Engine().CanPlace(cell, p.placeType).OK()
}

func (p *Pipeline) selectAt(cell grid.Position, mods Modifiers) []grid.ID {
	pon, found := p.g.PontoonAt(cell)
	if mods&ModShift == 0 {
		p.selection = make(map[grid.ID]bool)
	}
	if found {
		if p.selection[pon.ID] {
			delete(p.selection, pon.ID)
		} else {
			p.selection[pon.ID] = true
		}
	}
	return p.Selection()
}

func (p *Pipeline) deleteAt(cell grid.Position) Outcome {
	pon, found := p.g.PontoonAt(cell)
	if !found {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "no pontoon at %s", cell))
	}
	return p.remove(pon.ID)
}

func (p *Pipeline) rotateAt(cell grid.Position) Outcome {
	pon, found := p.g.PontoonAt(cell)
	if !found {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "no pontoon at %s", cell))
	}
	return p.rotate(pon.ID)
}

func (p *Pipeline) paintAt(cell grid.Position) Outcome {
	pon, found := p.g.PontoonAt(cell)
	if !found {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "no pontoon at %s", cell))
	}
	return p.paint(pon.ID, p.placeColor)
}

// moveStep advances the move tool's two-click state machine. The first
// click on an occupied cell remembers the pontoon without mutating
// anything; the second click attempts the move. Success and failure
// both return the tool to idle, so a bad destination never leaves the
// tool stuck.
func (p *Pipeline) moveStep(cell grid.Position) *Outcome {
	if p.moveID == "" {
		if pon, found := p.g.PontoonAt(cell); found {
			p.moveID = pon.ID
		}
		return nil
	}
	id := p.moveID
	p.moveID = ""
	out := p.moveTo(id, cell)
	return &out
}

// finishDrag commits a multi-drop gesture: every anchor in the preview
// rectangle is attempted, invalid ones are skipped.
func (p *Pipeline) finishDrag(r InputResult) InputResult {
	if p.drag == nil {
		return r
	}
	anchors := DragAnchors(p.drag.anchor, p.drag.current, p.placeType)
	p.drag = nil
	out := p.batchPlace(anchors, p.placeType, p.placeColor)
	r.Outcome = &out
	return r
}

// DragPreview returns the anchors the live drag would attempt, or nil
// when no drag is in progress.
func (p *Pipeline) DragPreview() []grid.Position {
	if p.drag == nil {
		return nil
	}
	return DragAnchors(p.drag.anchor, p.drag.current, p.placeType)
}

// DragAnchors expands a drag gesture into the anchor cells of a batch
// placement: the axis-aligned rectangle between the press cell and the
// current cell, on the press cell's level. For DOUBLE pontoons only
// every second column is kept, measured from the rectangle's own
// minimum x rather than the grid origin, so adjacent footprints tile
// the requested rectangle edge to edge without overlapping.
func DragAnchors(anchor, current grid.Position, typ grid.PontoonType) []grid.Position {
	minX, maxX := anchor.X, current.X
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	minZ, maxZ := anchor.Z, current.Z
	if maxZ < minZ {
		minZ, maxZ = maxZ, minZ
	}

	stride := 1
	if typ == grid.Double {
		stride = 2
	}

	var out []grid.Position
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x += stride {
			out = append(out, grid.Position{X: x, Y: anchor.Y, Z: z})
		}
	}
	return out
}
