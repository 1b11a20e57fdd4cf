package tools

import (
	"fmt"
	"time"

	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/history"
	"pontoon-planner/internal/spatial"
	"pontoon-planner/internal/validation"
	"pontoon-planner/internal/view"
)

// Pipeline executes validated mutations against one editing session's
// grid. All calls are synchronous and single-flight: a second call
// arriving while one is in flight is rejected with a pipeline-busy
// failure and counted, never queued. The pipeline owns the spatial
// index for the session's lifetime; the grid itself is an immutable
// value swapped on every successful mutation.
type Pipeline struct {
	g      grid.Grid
	idx    *spatial.Index
	ledger *history.Ledger
	calc   *view.Calculator

	camera      view.Camera
	viewport    view.Viewport
	activeLevel int

	tool       Tool
	placeType  grid.PontoonType
	placeColor grid.Color

	busy     bool
	dropped  int
	rebuilds int

	moveID    grid.ID    // move tool: non-empty while a pontoon is selected
	drag      *dragState // multi-drop: non-nil while a drag is live
	selection map[grid.ID]bool
}

type dragState struct {
	anchor  grid.Position
	current grid.Position
}

// NewPipeline creates a pipeline over an initial grid. The spatial
// index is derived from the grid immediately.
func NewPipeline(g grid.Grid, maxHistory int) *Pipeline {
	idx := spatial.NewIndex()
	idx.RebuildFrom(g)
	return &Pipeline{
		g:         g,
		idx:       idx,
		ledger:    history.NewLedger(maxHistory),
		calc:      view.NewCalculator(),
		camera:    DefaultCamera(g.Dimensions()),
		viewport:  view.Viewport{Width: 800, Height: 600},
		tool:      ToolSelect,
		selection: make(map[grid.ID]bool),
	}
}

// DefaultCamera aims at the grid center from an elevated south-west
// position, far enough back to take in the whole platform.
func DefaultCamera(dims grid.Dimensions) view.Camera {
	center := view.GridToWorld(grid.Position{X: dims.Width / 2, Z: dims.Height / 2})
	dist := float64(dims.Width+dims.Height) * view.CellSize * 0.6
	return view.Camera{
		Eye:    center.Add(view.CameraOffset(dist)),
		Target: center,
		FOV:    50,
	}
}

// Grid returns the current authoritative grid value.
func (p *Pipeline) Grid() grid.Grid {
	return p.g
}

// Ledger exposes the history for read-only inspection.
func (p *Pipeline) Ledger() *history.Ledger {
	return p.ledger
}

// DroppedInputs returns how many calls were rejected by the busy guard.
func (p *Pipeline) DroppedInputs() int {
	return p.dropped
}

// IndexRebuilds returns how many times a desynchronized index was
// rebuilt from the grid.
func (p *Pipeline) IndexRebuilds() int {
	return p.rebuilds
}

// Engine returns a validation engine over the current grid state. The
// same engine answers hover previews and real mutations, so the two
// can never disagree.
func (p *Pipeline) Engine() *validation.Engine {
	return validation.NewEngine(p.g, p.idx)
}

// begin acquires the single-flight guard. It returns false when a call
// is already in flight; the rejected call is counted.
func (p *Pipeline) begin() bool {
	if p.busy {
		p.dropped++
		return false
	}
	p.busy = true
	return true
}

func (p *Pipeline) end() {
	p.busy = false
}

func busyOutcome(g grid.Grid) Outcome {
	return failed(g, validation.Fail(validation.RulePipelineBusy, "an operation is already in flight"))
}

// Place validates and places a new pontoon anchored at pos.
func (p *Pipeline) Place(pos grid.Position, typ grid.PontoonType, col grid.Color) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()
	return p.place(pos, typ, col)
}

func (p *Pipeline) place(pos grid.Position, typ grid.PontoonType, col grid.Color) Outcome {
	res := p.Engine().CanPlace(pos, typ)
	if !res.OK() {
		return failed(p.g, res)
	}
	pon := grid.Pontoon{ID: grid.NewID(), Position: pos, Type: typ, Color: col}
	after := p.g.WithPontoon(pon)
	if err := p.idx.Insert(pon.ID, pon.Footprint()); err != nil {
		// Validation said the cells were free; the index disagrees, so
		// it has drifted. Rebuild from the new truth and carry on.
		p.recoverIndex(after)
	}
	op := history.Operation{Kind: history.OpPlace, IDs: []grid.ID{pon.ID}, Timestamp: now()}
	return p.commit(after, []history.Operation{op},
		fmt.Sprintf("place %s pontoon at %s", typ, pos))
}

// Remove validates and removes the pontoon with the given id.
func (p *Pipeline) Remove(id grid.ID) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()

	return p.remove(id)
}

func (p *Pipeline) remove(id grid.ID) Outcome {
	pon, found := p.g.Pontoon(id)
	if !found {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "pontoon %s not found", id))
	}
	after := p.g.WithoutPontoon(id)
	p.idx.Remove(id)
	delete(p.selection, id)
	op := history.Operation{Kind: history.OpRemove, IDs: []grid.ID{id}, Timestamp: now()}
	return p.commit(after, []history.Operation{op},
		fmt.Sprintf("remove pontoon at %s", pon.Position))
}

// MoveTo validates and re-anchors the pontoon at pos. A failed
// validation leaves grid and index untouched.
func (p *Pipeline) MoveTo(id grid.ID, pos grid.Position) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()
	return p.moveTo(id, pos)
}

func (p *Pipeline) moveTo(id grid.ID, pos grid.Position) Outcome {
	res := p.Engine().CanMove(id, pos)
	if !res.OK() {
		return failed(p.g, res)
	}
	pon, _ := p.g.Pontoon(id)
	after, err := p.g.WithMoved(id, pos)
	if err != nil {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "%v", err))
	}
	if err := p.idx.Move(id, grid.Footprint(pos, pon.Type)); err != nil {
		p.recoverIndex(after)
	}
	op := history.Operation{Kind: history.OpMove, IDs: []grid.ID{id}, Timestamp: now()}
	return p.commit(after, []history.Operation{op},
		fmt.Sprintf("move pontoon %s to %s", pon.Position, pos))
}

// Rotate turns the pontoon a quarter turn clockwise. Rotation never
// changes a footprint, so no placement validation applies.
func (p *Pipeline) Rotate(id grid.ID) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()
	return p.rotate(id)
}

func (p *Pipeline) rotate(id grid.ID) Outcome {
	pon, found := p.g.Pontoon(id)
	if !found {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "pontoon %s not found", id))
	}
	after, err := p.g.WithRotated(id, pon.Rotation.Next())
	if err != nil {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "%v", err))
	}
	op := history.Operation{Kind: history.OpRotate, IDs: []grid.ID{id}, Timestamp: now()}
	return p.commit(after, []history.Operation{op},
		fmt.Sprintf("rotate pontoon at %s to %s", pon.Position, pon.Rotation.Next()))
}

// Paint recolors the pontoon. Repainting with the current color is
// rejected as a same-value failure so it never pollutes the undo
// history.
func (p *Pipeline) Paint(id grid.ID, col grid.Color) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()
	return p.paint(id, col)
}

func (p *Pipeline) paint(id grid.ID, col grid.Color) Outcome {
	pon, found := p.g.Pontoon(id)
	if !found {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "pontoon %s not found", id))
	}
	if pon.Color == col {
		return failed(p.g, validation.Fail(validation.RuleSameValue, "pontoon already %s", col))
	}
	after, err := p.g.WithColor(id, col)
	if err != nil {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "%v", err))
	}
	op := history.Operation{Kind: history.OpPaint, IDs: []grid.ID{id}, Timestamp: now()}
	return p.commit(after, []history.Operation{op},
		fmt.Sprintf("paint pontoon at %s %s", pon.Position, col))
}

// BatchPlace places a pontoon at every anchor that validates, skipping
// the rest. The whole batch lands as one history entry, so a single
// undo reverts it. Anchors are validated against the grid as it grows:
// earlier placements in the batch claim their cells before later
// anchors are checked.
func (p *Pipeline) BatchPlace(anchors []grid.Position, typ grid.PontoonType, col grid.Color) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()
	return p.batchPlace(anchors, typ, col)
}

func (p *Pipeline) batchPlace(anchors []grid.Position, typ grid.PontoonType, col grid.Color) Outcome {
	before := p.g
	after := before
	var ops []history.Operation
	var skipped []validation.Failure

	for _, pos := range anchors {
		res := validation.NewEngine(after, p.idx).CanPlace(pos, typ)
		if !res.OK() {
			skipped = append(skipped, res.Failures...)
			continue
		}
		pon := grid.Pontoon{ID: grid.NewID(), Position: pos, Type: typ, Color: col}
		after = after.WithPontoon(pon)
		if err := p.idx.Insert(pon.ID, pon.Footprint()); err != nil {
			p.recoverIndex(after)
		}
		ops = append(ops, history.Operation{Kind: history.OpBatchPlace, IDs: []grid.ID{pon.ID}, Timestamp: now()})
	}

	if len(ops) == 0 {
		// Nothing placed: no mutation happened, so nothing to log.
		return Outcome{OK: true, Grid: before, Failures: skipped,
			Description: fmt.Sprintf("batch place: 0 of %d anchors valid", len(anchors))}
	}

	desc := fmt.Sprintf("batch place %d %s pontoons", len(ops), typ)
	out := p.commitFrom(before, after, ops, desc)
	out.Failures = skipped
	return out
}

// Undo steps the session back one entry. The index is rebuilt from the
// restored grid; replaying increments in reverse is exactly the kind
// of bookkeeping the rebuild path exists to avoid trusting.
func (p *Pipeline) Undo() Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()

	g, ok := p.ledger.Undo()
	if !ok {
		return Outcome{OK: true, Grid: p.g, Description: "nothing to undo"}
	}
	p.restore(g)
	return Outcome{OK: true, Grid: p.g, Description: "undo", Changed: true}
}

// Redo steps the session forward one entry.
func (p *Pipeline) Redo() Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()

	g, ok := p.ledger.Redo()
	if !ok {
		return Outcome{OK: true, Grid: p.g, Description: "nothing to redo"}
	}
	p.restore(g)
	return Outcome{OK: true, Grid: p.g, Description: "redo", Changed: true}
}

// Checkpoint drops a named marker at the current state for a later
// Rollback. It reports false when rejected by the busy guard.
func (p *Pipeline) Checkpoint(id string) bool {
	if !p.begin() {
		return false
	}
	defer p.end()
	p.ledger.Checkpoint(id, p.g)
	return true
}

// Rollback rewinds the session to the named checkpoint. Unknown
// checkpoints report a not-found failure.
func (p *Pipeline) Rollback(id string) Outcome {
	if !p.begin() {
		return busyOutcome(p.g)
	}
	defer p.end()

	g, ok := p.ledger.RollbackTo(id)
	if !ok {
		return failed(p.g, validation.Fail(validation.RuleNotFound, "checkpoint %q not found", id))
	}
	p.restore(g)
	return Outcome{OK: true, Grid: p.g, Description: fmt.Sprintf("rollback to %s", id), Changed: true}
}

// commit finalizes a mutation built on the current grid.
func (p *Pipeline) commit(after grid.Grid, ops []history.Operation, desc string) Outcome {
	return p.commitFrom(p.g, after, ops, desc)
}

func (p *Pipeline) commitFrom(before, after grid.Grid, ops []history.Operation, desc string) Outcome {
	p.g = after
	if !p.idx.ConsistentWith(p.g) {
		p.recoverIndex(p.g)
	}
	p.ledger.Append(history.Entry{Before: before, After: after, Operations: ops, Description: desc})
	return Outcome{OK: true, Grid: after, Operations: ops, Description: desc, Changed: true}
}

func (p *Pipeline) restore(g grid.Grid) {
	p.g = g
	p.idx.RebuildFrom(g)
	p.clearTransient()
}

func (p *Pipeline) recoverIndex(truth grid.Grid) {
	p.idx.RebuildFrom(truth)
	p.rebuilds++
}

func (p *Pipeline) clearTransient() {
	p.moveID = ""
	p.drag = nil
	for id := range p.selection {
		if _, ok := p.g.Pontoon(id); !ok {
			delete(p.selection, id)
		}
	}
}

func now() int64 {
	return time.Now().UnixMilli()
}
