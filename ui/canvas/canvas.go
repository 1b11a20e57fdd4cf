// Package canvas provides the platform canvas: a perspective rendering
// of the grid with tool-driven pointer interaction.
package canvas

import (
	"image"
	"time"

	"pontoon-planner/internal/app"
	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/tools"
	"pontoon-planner/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// PlatformCanvas renders the grid through the session camera and feeds
// pointer events into the operation pipeline. It owns no domain state;
// everything it draws is read back from the pipeline after each event.
type PlatformCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	// Hover preview, refreshed on mouse movement.
	hoverCell  grid.Position
	hoverShown bool
	hoverValid bool

	dragging bool

	// Callbacks
	onStatus func(msg string)
	onResult func(out tools.Outcome)
}

// NewPlatformCanvas creates a canvas over the application state.
func NewPlatformCanvas(state *app.State) *PlatformCanvas {
	pc := &PlatformCanvas{state: state}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.ExtendBaseWidget(pc)
	return pc
}

// OnStatus sets the status-line callback.
func (pc *PlatformCanvas) OnStatus(fn func(msg string)) {
	pc.onStatus = fn
}

// OnResult sets the callback invoked with each mutation outcome.
func (pc *PlatformCanvas) OnResult(fn func(out tools.Outcome)) {
	pc.onResult = fn
}

// CreateRenderer implements fyne.Widget.
func (pc *PlatformCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

// MinSize implements fyne.Widget.
func (pc *PlatformCanvas) MinSize() fyne.Size {
	return fyne.NewSize(480, 360)
}

func (pc *PlatformCanvas) draw(w, h int) image.Image {
	pipeline := pc.state.Pipeline()
	pipeline.SetViewport(viewportFor(w, h))
	return pc.renderScene(w, h)
}

func (pc *PlatformCanvas) input(pos fyne.Position, phase tools.PointerPhase, button tools.Button) tools.PointerInput {
	return tools.PointerInput{
		Pos:       geometry.NewPoint2D(float64(pos.X), float64(pos.Y)),
		Phase:     phase,
		Button:    button,
		Timestamp: time.Now(),
	}
}

func (pc *PlatformCanvas) dispatch(in tools.PointerInput) {
	r := pc.state.Pipeline().HandlePointer(in)
	if r.Dropped {
		pc.status("input dropped: pipeline busy")
		return
	}
	if r.Outcome != nil {
		if pc.onResult != nil {
			pc.onResult(*r.Outcome)
		}
		if r.Outcome.OK {
			pc.status(r.Outcome.Description)
		} else if msgs := r.Outcome.Messages(); len(msgs) > 0 {
			pc.status(msgs[0])
		}
	}
	pc.Refresh()
}

// Tapped handles primary clicks.
func (pc *PlatformCanvas) Tapped(ev *fyne.PointEvent) {
	pc.dispatch(pc.input(ev.Position, tools.PhasePress, tools.ButtonPrimary))
}

// TappedSecondary cancels any in-flight gesture.
func (pc *PlatformCanvas) TappedSecondary(ev *fyne.PointEvent) {
	pc.dispatch(pc.input(ev.Position, tools.PhaseCancel, tools.ButtonSecondary))
}

// Dragged drives the multi-drop rectangle.
func (pc *PlatformCanvas) Dragged(ev *fyne.DragEvent) {
	if !pc.dragging {
		pc.dragging = true
		start := fyne.Position{X: ev.Position.X - ev.Dragged.DX, Y: ev.Position.Y - ev.Dragged.DY}
		pc.dispatch(pc.input(start, tools.PhasePress, tools.ButtonPrimary))
	}
	pc.dispatch(pc.input(ev.Position, tools.PhaseDrag, tools.ButtonPrimary))
}

// DragEnd commits the multi-drop rectangle.
func (pc *PlatformCanvas) DragEnd() {
	if !pc.dragging {
		return
	}
	pc.dragging = false
	// Release resolves against the last dragged cell kept by the
	// pipeline, so the exact pointer position no longer matters.
	pc.dispatch(pc.input(fyne.Position{}, tools.PhaseRelease, tools.ButtonPrimary))
}

// MouseMoved updates the hover preview.
func (pc *PlatformCanvas) MouseMoved(ev *desktop.MouseEvent) {
	cell, onGrid, valid := pc.state.Pipeline().HoverPreview(
		geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y)))
	if onGrid == pc.hoverShown && cell == pc.hoverCell && valid == pc.hoverValid {
		return
	}
	pc.hoverCell = cell
	pc.hoverShown = onGrid
	pc.hoverValid = valid
	pc.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (pc *PlatformCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseOut cancels hover state and any live drag preview.
func (pc *PlatformCanvas) MouseOut() {
	pc.hoverShown = false
	pc.dragging = false
	pc.state.Pipeline().CancelDrag()
	pc.Refresh()
}

func (pc *PlatformCanvas) status(msg string) {
	if pc.onStatus != nil {
		pc.onStatus(msg)
	}
}
