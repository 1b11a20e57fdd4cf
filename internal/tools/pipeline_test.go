package tools

import (
	"testing"

	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, dims grid.Dimensions) *Pipeline {
	t.Helper()
	g, err := grid.New(dims)
	require.NoError(t, err)
	return NewPipeline(g, 0)
}

func firstID(out Outcome) grid.ID {
	return out.Operations[0].IDs[0]
}

func TestPipelinePlace(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 2})

	out := p.Place(grid.Position{X: 2, Z: 3}, grid.Single, grid.ColorBlue)
	require.True(t, out.OK)
	assert.Equal(t, 1, p.Grid().Count())
	require.Len(t, out.Operations, 1)

	t.Run("placed pontoon is retrievable", func(t *testing.T) {
		pon, ok := p.Grid().PontoonAt(grid.Position{X: 2, Z: 3})
		require.True(t, ok)
		assert.Equal(t, grid.ColorBlue, pon.Color)
		assert.Equal(t, firstID(out), pon.ID)
	})

	t.Run("overlapping place fails and changes nothing", func(t *testing.T) {
		before := p.Grid()
		out := p.Place(grid.Position{X: 2, Z: 3}, grid.Single, grid.ColorGray)
		assert.False(t, out.OK)
		assert.True(t, out.Has(validation.RuleOverlap))
		assert.True(t, before.Equal(p.Grid()))
	})

	t.Run("unsupported upper level fails", func(t *testing.T) {
		out := p.Place(grid.Position{X: 7, Y: 1, Z: 7}, grid.Single, grid.ColorBlue)
		assert.False(t, out.OK)
		assert.True(t, out.Has(validation.RuleNoSupport))
	})

	t.Run("stacking on the placed pontoon succeeds", func(t *testing.T) {
		out := p.Place(grid.Position{X: 2, Y: 1, Z: 3}, grid.Single, grid.ColorGreen)
		assert.True(t, out.OK)
	})
}

func TestPipelineRemove(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	out := p.Place(grid.Position{X: 1, Z: 1}, grid.Double, grid.ColorBlue)
	require.True(t, out.OK)
	id := firstID(out)

	t.Run("remove frees both cells", func(t *testing.T) {
		res := p.Remove(id)
		require.True(t, res.OK)
		assert.Equal(t, 0, p.Grid().Count())

		assert.True(t, p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue).OK)
		assert.True(t, p.Place(grid.Position{X: 2, Z: 1}, grid.Single, grid.ColorBlue).OK)
	})

	t.Run("unknown id fails", func(t *testing.T) {
		res := p.Remove("ghost")
		assert.False(t, res.OK)
		assert.True(t, res.Has(validation.RuleNotFound))
	})
}

func TestPipelineMoveTo(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	id := firstID(p.Place(grid.Position{X: 0, Z: 0}, grid.Double, grid.ColorBlue))
	other := firstID(p.Place(grid.Position{X: 5, Z: 5}, grid.Single, grid.ColorGray))

	t.Run("valid move relocates grid and index", func(t *testing.T) {
		out := p.MoveTo(id, grid.Position{X: 2, Z: 2})
		require.True(t, out.OK)
		pon, _ := p.Grid().Pontoon(id)
		assert.Equal(t, grid.Position{X: 2, Z: 2}, pon.Position)

		// The vacated cells accept new placements.
		assert.True(t, p.Place(grid.Position{X: 0, Z: 0}, grid.Single, grid.ColorBlue).OK)
	})

	t.Run("shift into own footprint succeeds", func(t *testing.T) {
		out := p.MoveTo(id, grid.Position{X: 3, Z: 2})
		assert.True(t, out.OK)
	})

	t.Run("move onto another pontoon fails intact", func(t *testing.T) {
		before := p.Grid()
		out := p.MoveTo(id, grid.Position{X: 4, Z: 5})
		assert.False(t, out.OK)
		assert.True(t, out.Has(validation.RuleOverlap))
		assert.True(t, before.Equal(p.Grid()))
		_ = other
	})

	t.Run("same position fails", func(t *testing.T) {
		out := p.MoveTo(id, grid.Position{X: 3, Z: 2})
		assert.False(t, out.OK)
		assert.True(t, out.Has(validation.RuleAlreadyAtPosition))
	})
}

func TestPipelineRotate(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	id := firstID(p.Place(grid.Position{X: 1, Z: 1}, grid.Double, grid.ColorBlue))

	out := p.Rotate(id)
	require.True(t, out.OK)
	pon, _ := p.Grid().Pontoon(id)
	assert.Equal(t, grid.RotationEast, pon.Rotation)

	t.Run("footprint is unchanged by rotation", func(t *testing.T) {
		_, ok := p.Grid().PontoonAt(grid.Position{X: 2, Z: 1})
		assert.True(t, ok)
	})

	t.Run("four turns come back around", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.True(t, p.Rotate(id).OK)
		}
		pon, _ := p.Grid().Pontoon(id)
		assert.Equal(t, grid.RotationNorth, pon.Rotation)
	})
}

func TestPipelinePaint(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	id := firstID(p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue))

	out := p.Paint(id, grid.ColorGreen)
	require.True(t, out.OK)
	pon, _ := p.Grid().Pontoon(id)
	assert.Equal(t, grid.ColorGreen, pon.Color)

	t.Run("same color is rejected without a history entry", func(t *testing.T) {
		entries := p.Ledger().Len()
		out := p.Paint(id, grid.ColorGreen)
		assert.False(t, out.OK)
		assert.True(t, out.Has(validation.RuleSameValue))
		assert.Equal(t, entries, p.Ledger().Len())
	})
}

func TestPipelineBatchPlace(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorGray).OK)

	anchors := []grid.Position{
		{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 2, Z: 0},
		{X: 0, Z: 1}, {X: 1, Z: 1}, // occupied, skipped
		{X: 2, Z: 1},
	}
	out := p.BatchPlace(anchors, grid.Single, grid.ColorBlue)
	require.True(t, out.OK)
	assert.Equal(t, 6, p.Grid().Count())
	assert.Len(t, out.Operations, 5)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, validation.RuleOverlap, out.Failures[0].Rule)

	t.Run("single undo reverts the whole batch", func(t *testing.T) {
		require.True(t, p.Undo().OK)
		assert.Equal(t, 1, p.Grid().Count())
	})

	t.Run("all-invalid batch leaves no history entry", func(t *testing.T) {
		entries := p.Ledger().Len()
		out := p.BatchPlace([]grid.Position{{X: 1, Z: 1}}, grid.Single, grid.ColorBlue)
		assert.True(t, out.OK)
		assert.Len(t, out.Operations, 0)
		assert.Len(t, out.Failures, 1)
		assert.Equal(t, entries, p.Ledger().Len())
	})

	t.Run("anchors validate against the growing batch", func(t *testing.T) {
		q := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
		// Two doubles whose footprints would collide; only the first lands.
		out := q.BatchPlace([]grid.Position{{X: 0, Z: 0}, {X: 1, Z: 0}}, grid.Double, grid.ColorBlue)
		require.True(t, out.OK)
		assert.Len(t, out.Operations, 1)
		assert.Equal(t, 1, q.Grid().Count())
	})
}

func TestPipelineUndoRedo(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 0, Z: 0}, grid.Single, grid.ColorBlue).OK)
	require.True(t, p.Place(grid.Position{X: 1, Z: 0}, grid.Single, grid.ColorBlue).OK)

	t.Run("undo restores grid and index together", func(t *testing.T) {
		require.True(t, p.Undo().OK)
		assert.Equal(t, 1, p.Grid().Count())
		// The freed cell accepts a fresh placement, proving the index
		// followed the grid back.
		out := p.Place(grid.Position{X: 1, Z: 0}, grid.Single, grid.ColorGreen)
		assert.True(t, out.OK)
	})

	t.Run("undo with empty history is a no-op success", func(t *testing.T) {
		q := newTestPipeline(t, grid.Dimensions{Width: 5, Height: 5, Levels: 1})
		out := q.Undo()
		assert.True(t, out.OK)
		assert.Equal(t, 0, q.Grid().Count())
	})

	t.Run("redo after undo reapplies", func(t *testing.T) {
		q := newTestPipeline(t, grid.Dimensions{Width: 5, Height: 5, Levels: 1})
		require.True(t, q.Place(grid.Position{X: 0, Z: 0}, grid.Single, grid.ColorBlue).OK)
		require.True(t, q.Undo().OK)
		assert.Equal(t, 0, q.Grid().Count())
		require.True(t, q.Redo().OK)
		assert.Equal(t, 1, q.Grid().Count())
	})
}

func TestPipelineCheckpointRollback(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 0, Z: 0}, grid.Single, grid.ColorBlue).OK)

	p.Checkpoint("baseline")
	require.True(t, p.Place(grid.Position{X: 1, Z: 0}, grid.Single, grid.ColorBlue).OK)
	require.True(t, p.Place(grid.Position{X: 2, Z: 0}, grid.Single, grid.ColorBlue).OK)

	out := p.Rollback("baseline")
	require.True(t, out.OK)
	assert.Equal(t, 1, p.Grid().Count())

	t.Run("unknown checkpoint fails", func(t *testing.T) {
		out := p.Rollback("nope")
		assert.False(t, out.OK)
		assert.True(t, out.Has(validation.RuleNotFound))
	})
}

func TestPipelineIndexStaysConsistent(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 2})

	ids := make([]grid.ID, 0, 4)
	for _, pos := range []grid.Position{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 0, Z: 1}, {X: 1, Z: 1}} {
		out := p.Place(pos, grid.Single, grid.ColorBlue)
		require.True(t, out.OK)
		ids = append(ids, firstID(out))
	}
	require.True(t, p.Place(grid.Position{X: 0, Y: 1, Z: 0}, grid.Single, grid.ColorGray).OK)
	require.True(t, p.MoveTo(ids[3], grid.Position{X: 5, Z: 5}).OK)
	require.True(t, p.Remove(ids[1]).OK)
	require.True(t, p.Undo().OK)
	require.True(t, p.Redo().OK)

	assert.Equal(t, 0, p.IndexRebuilds(), "no recovery rebuilds expected on the happy path")
	assert.Equal(t, 0, p.DroppedInputs())
}

func TestPipelineBusyGuard(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})

	p.busy = true
	out := p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue)
	assert.False(t, out.OK)
	assert.True(t, out.Has(validation.RulePipelineBusy))
	assert.Equal(t, 0, p.Grid().Count(), "rejected call must not mutate")
	assert.Equal(t, 1, p.DroppedInputs())

	assert.False(t, p.Checkpoint("held"), "checkpoint honors the guard too")
	assert.Equal(t, 2, p.DroppedInputs())

	out = p.Undo()
	assert.False(t, out.OK)
	assert.True(t, out.Has(validation.RulePipelineBusy))
	assert.Equal(t, 3, p.DroppedInputs())

	t.Run("released guard admits calls again", func(t *testing.T) {
		p.busy = false
		out := p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue)
		assert.True(t, out.OK)
		assert.Equal(t, 3, p.DroppedInputs())
	})
}

func TestDragAnchors(t *testing.T) {
	t.Run("single fills the rectangle", func(t *testing.T) {
		got := DragAnchors(grid.Position{X: 1, Z: 1}, grid.Position{X: 3, Z: 2}, grid.Single)
		assert.Len(t, got, 6)
		assert.Contains(t, got, grid.Position{X: 3, Z: 2})
	})

	t.Run("reversed drag covers the same cells", func(t *testing.T) {
		fwd := DragAnchors(grid.Position{X: 1, Z: 1}, grid.Position{X: 3, Z: 2}, grid.Single)
		rev := DragAnchors(grid.Position{X: 3, Z: 2}, grid.Position{X: 1, Z: 1}, grid.Single)
		assert.ElementsMatch(t, fwd, rev)
	})

	t.Run("double keeps every second column", func(t *testing.T) {
		got := DragAnchors(grid.Position{X: 0, Z: 0}, grid.Position{X: 4, Z: 0}, grid.Double)
		assert.Equal(t, []grid.Position{{X: 0, Z: 0}, {X: 2, Z: 0}, {X: 4, Z: 0}}, got)
	})

	t.Run("double stride counts from the rectangle's own min x", func(t *testing.T) {
		got := DragAnchors(grid.Position{X: 3, Z: 0}, grid.Position{X: 6, Z: 0}, grid.Double)
		assert.Equal(t, []grid.Position{{X: 3, Z: 0}, {X: 5, Z: 0}}, got)
	})

	t.Run("odd width rounds up", func(t *testing.T) {
		// Width 5 yields ceil(5/2) = 3 anchors per row.
		got := DragAnchors(grid.Position{X: 0, Z: 0}, grid.Position{X: 4, Z: 1}, grid.Double)
		assert.Len(t, got, 6)
	})

	t.Run("anchors inherit the press level", func(t *testing.T) {
		got := DragAnchors(grid.Position{X: 0, Y: 1, Z: 0}, grid.Position{X: 1, Y: 1, Z: 0}, grid.Single)
		for _, a := range got {
			assert.Equal(t, 1, a.Y)
		}
	})
}

func TestSetActiveLevelClamps(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 5, Height: 5, Levels: 3, MinLevel: -1})

	p.SetActiveLevel(99)
	assert.Equal(t, 1, p.ActiveLevel())

	p.SetActiveLevel(-99)
	assert.Equal(t, -1, p.ActiveLevel())

	p.SetActiveLevel(0)
	assert.Equal(t, 0, p.ActiveLevel())
}

func TestSetToolResetsGestures(t *testing.T) {
	p := newTestPipeline(t, grid.Dimensions{Width: 5, Height: 5, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue).OK)

	p.SetTool(ToolMove)
	p.SetTool(ToolSelect)
	_, mid := p.MoveSource()
	assert.False(t, mid)
	assert.Nil(t, p.DragPreview())
}
