package tools

import (
	"math/rand"
	"testing"

	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/validation"
	"pontoon-planner/internal/view"
	"pontoon-planner/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = view.Viewport{Width: 800, Height: 600}

// pixelFor projects a cell center to the pixel the pointer would sit on.
func pixelFor(t *testing.T, p *Pipeline, cell grid.Position) geometry.Point2D {
	t.Helper()
	px, ok := view.NewCalculator().WorldToScreen(view.GridToWorld(cell), p.Camera(), testViewport)
	require.True(t, ok, "cell %s must project", cell)
	return px
}

func press(t *testing.T, p *Pipeline, cell grid.Position) InputResult {
	t.Helper()
	return p.HandlePointer(PointerInput{Pos: pixelFor(t, p, cell), Phase: PhasePress})
}

func pointerPipeline(t *testing.T, dims grid.Dimensions) *Pipeline {
	t.Helper()
	p := newTestPipeline(t, dims)
	p.SetViewport(testViewport)
	return p
}

func TestHandlePointerResolvesCell(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})

	r := press(t, p, grid.Position{X: 4, Z: 6})
	assert.True(t, r.HasCell)
	assert.Equal(t, grid.Position{X: 4, Z: 6}, r.Cell)
	assert.False(t, r.Dropped)
}

func TestHandlePointerPlaceTool(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	p.SetTool(ToolPlace)
	p.SetPlacement(grid.Single, grid.ColorGreen)

	r := press(t, p, grid.Position{X: 2, Z: 3})
	require.NotNil(t, r.Outcome)
	assert.True(t, r.Outcome.OK)

	pon, ok := p.Grid().PontoonAt(grid.Position{X: 2, Z: 3})
	require.True(t, ok)
	assert.Equal(t, grid.ColorGreen, pon.Color)

	t.Run("second press on the same cell reports overlap", func(t *testing.T) {
		r := press(t, p, grid.Position{X: 2, Z: 3})
		require.NotNil(t, r.Outcome)
		assert.False(t, r.Outcome.OK)
		assert.True(t, r.Outcome.Has(validation.RuleOverlap))
	})
}

func TestHandlePointerMoveTool(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue).OK)
	p.SetTool(ToolMove)

	t.Run("press on empty cell stays idle", func(t *testing.T) {
		r := press(t, p, grid.Position{X: 5, Z: 5})
		assert.Nil(t, r.Outcome)
		_, mid := p.MoveSource()
		assert.False(t, mid)
	})

	t.Run("first press selects, second press moves", func(t *testing.T) {
		r := press(t, p, grid.Position{X: 1, Z: 1})
		assert.Nil(t, r.Outcome, "selection press must not mutate")
		_, mid := p.MoveSource()
		require.True(t, mid)

		r = press(t, p, grid.Position{X: 4, Z: 4})
		require.NotNil(t, r.Outcome)
		assert.True(t, r.Outcome.OK)

		_, ok := p.Grid().PontoonAt(grid.Position{X: 4, Z: 4})
		assert.True(t, ok)
		_, mid = p.MoveSource()
		assert.False(t, mid, "tool returns to idle after the move")
	})

	t.Run("failed destination also returns to idle", func(t *testing.T) {
		require.True(t, p.Place(grid.Position{X: 7, Z: 7}, grid.Single, grid.ColorGray).OK)

		press(t, p, grid.Position{X: 4, Z: 4})
		r := press(t, p, grid.Position{X: 7, Z: 7})
		require.NotNil(t, r.Outcome)
		assert.False(t, r.Outcome.OK)
		_, mid := p.MoveSource()
		assert.False(t, mid)
	})

	t.Run("off-grid press clears the selection", func(t *testing.T) {
		press(t, p, grid.Position{X: 4, Z: 4})
		_, mid := p.MoveSource()
		require.True(t, mid)

		// A cell outside the platform projects to a pixel whose ray
		// lands off the grid.
		off := pixelFor(t, p, grid.Position{X: -3, Z: -3})
		r := p.HandlePointer(PointerInput{Pos: off, Phase: PhasePress})
		assert.False(t, r.HasCell)
		_, mid = p.MoveSource()
		assert.False(t, mid)
	})
}

func TestHandlePointerMultiDrop(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	p.SetTool(ToolMultiDrop)
	p.SetPlacement(grid.Single, grid.ColorBlue)

	press(t, p, grid.Position{X: 1, Z: 1})
	p.HandlePointer(PointerInput{Pos: pixelFor(t, p, grid.Position{X: 3, Z: 2}), Phase: PhaseDrag})

	preview := p.DragPreview()
	assert.Len(t, preview, 6)

	r := p.HandlePointer(PointerInput{Pos: pixelFor(t, p, grid.Position{X: 3, Z: 2}), Phase: PhaseRelease})
	require.NotNil(t, r.Outcome)
	assert.True(t, r.Outcome.OK)
	assert.Equal(t, 6, p.Grid().Count())
	assert.Nil(t, p.DragPreview())

	t.Run("cancel discards the gesture", func(t *testing.T) {
		press(t, p, grid.Position{X: 5, Z: 5})
		require.NotNil(t, p.DragPreview())

		p.HandlePointer(PointerInput{Pos: geometry.Point2D{}, Phase: PhaseCancel})
		assert.Nil(t, p.DragPreview())
		assert.Equal(t, 6, p.Grid().Count(), "cancel must not place anything")
	})

	t.Run("double drops skip occupied anchors", func(t *testing.T) {
		q := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
		require.True(t, q.Place(grid.Position{X: 2, Z: 0}, grid.Single, grid.ColorGray).OK)
		q.SetTool(ToolMultiDrop)
		q.SetPlacement(grid.Double, grid.ColorBlue)

		press(t, q, grid.Position{X: 0, Z: 0})
		q.HandlePointer(PointerInput{Pos: pixelFor(t, q, grid.Position{X: 5, Z: 0}), Phase: PhaseDrag})
		r := q.HandlePointer(PointerInput{Pos: pixelFor(t, q, grid.Position{X: 5, Z: 0}), Phase: PhaseRelease})

		require.NotNil(t, r.Outcome)
		assert.True(t, r.Outcome.OK)
		// Anchors 0, 2, 4: the anchor at 2 collides with the gray single.
		assert.Len(t, r.Outcome.Operations, 2)
		assert.NotEmpty(t, r.Outcome.Failures)
	})
}

func TestHandlePointerSelectTool(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	a := firstID(p.Place(grid.Position{X: 1, Z: 1}, grid.Single, grid.ColorBlue))
	b := firstID(p.Place(grid.Position{X: 3, Z: 3}, grid.Single, grid.ColorBlue))
	p.SetTool(ToolSelect)

	r := press(t, p, grid.Position{X: 1, Z: 1})
	assert.Equal(t, []grid.ID{a}, r.Selected)

	t.Run("plain click replaces the selection", func(t *testing.T) {
		r := press(t, p, grid.Position{X: 3, Z: 3})
		assert.Equal(t, []grid.ID{b}, r.Selected)
	})

	t.Run("shift click extends and toggles", func(t *testing.T) {
		r := p.HandlePointer(PointerInput{
			Pos: pixelFor(t, p, grid.Position{X: 1, Z: 1}), Phase: PhasePress, Modifiers: ModShift,
		})
		assert.ElementsMatch(t, []grid.ID{a, b}, r.Selected)

		r = p.HandlePointer(PointerInput{
			Pos: pixelFor(t, p, grid.Position{X: 1, Z: 1}), Phase: PhasePress, Modifiers: ModShift,
		})
		assert.Equal(t, []grid.ID{b}, r.Selected)
	})

	t.Run("click on water clears", func(t *testing.T) {
		r := press(t, p, grid.Position{X: 8, Z: 8})
		assert.Empty(t, r.Selected)
	})
}

func TestHandlePointerDeleteRotatePaint(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 2, Z: 2}, grid.Double, grid.ColorBlue).OK)

	t.Run("rotate", func(t *testing.T) {
		p.SetTool(ToolRotate)
		r := press(t, p, grid.Position{X: 2, Z: 2})
		require.NotNil(t, r.Outcome)
		assert.True(t, r.Outcome.OK)
	})

	t.Run("paint uses the placement color", func(t *testing.T) {
		p.SetTool(ToolPaint)
		p.SetPlacement(grid.Single, grid.ColorSand)
		r := press(t, p, grid.Position{X: 2, Z: 2})
		require.NotNil(t, r.Outcome)
		require.True(t, r.Outcome.OK)
		pon, _ := p.Grid().PontoonAt(grid.Position{X: 2, Z: 2})
		assert.Equal(t, grid.ColorSand, pon.Color)
	})

	t.Run("delete through the second cell of a double", func(t *testing.T) {
		p.SetTool(ToolDelete)
		r := press(t, p, grid.Position{X: 3, Z: 2})
		require.NotNil(t, r.Outcome)
		assert.True(t, r.Outcome.OK)
		assert.Equal(t, 0, p.Grid().Count())
	})

	t.Run("delete on water reports not found", func(t *testing.T) {
		r := press(t, p, grid.Position{X: 7, Z: 7})
		require.NotNil(t, r.Outcome)
		assert.True(t, r.Outcome.Has(validation.RuleNotFound))
	})
}

func TestHoverPreview(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 1})
	require.True(t, p.Place(grid.Position{X: 2, Z: 2}, grid.Single, grid.ColorBlue).OK)
	p.SetPlacement(grid.Single, grid.ColorBlue)

	t.Run("free cell previews valid", func(t *testing.T) {
		cell, onGrid, valid := p.HoverPreview(pixelFor(t, p, grid.Position{X: 5, Z: 5}))
		assert.True(t, onGrid)
		assert.True(t, valid)
		assert.Equal(t, grid.Position{X: 5, Z: 5}, cell)
	})

	t.Run("occupied cell previews invalid", func(t *testing.T) {
		_, onGrid, valid := p.HoverPreview(pixelFor(t, p, grid.Position{X: 2, Z: 2}))
		assert.True(t, onGrid)
		assert.False(t, valid)
	})

	t.Run("preview agrees with placement", func(t *testing.T) {
		// Whatever the preview says must be what a real placement does.
		for _, cell := range []grid.Position{{X: 2, Z: 2}, {X: 6, Z: 1}, {X: 9, Z: 9}} {
			px := pixelFor(t, p, cell)
			_, _, valid := p.HoverPreview(px)
			out := p.Place(cell, grid.Single, grid.ColorBlue)
			assert.Equal(t, valid, out.OK, "cell %s", cell)
		}
	})
}

func TestHoverPreviewAgreementRandom(t *testing.T) {
	p := pointerPipeline(t, grid.Dimensions{Width: 12, Height: 12, Levels: 2})
	p.SetPlacement(grid.Single, grid.ColorGray)
	rng := rand.New(rand.NewSource(7))

	// Seed an arbitrary scatter; duplicates simply fail and are fine.
	for i := 0; i < 30; i++ {
		p.Place(grid.Position{X: rng.Intn(12), Z: rng.Intn(12)}, grid.Single, grid.ColorBlue)
	}

	for i := 0; i < 200; i++ {
		px := geometry.Point2D{
			X: rng.Float64() * float64(testViewport.Width),
			Y: rng.Float64() * float64(testViewport.Height),
		}
		cell, onGrid, valid := p.HoverPreview(px)
		if !onGrid {
			continue
		}
		out := p.Place(cell, grid.Single, grid.ColorGray)
		require.Equal(t, valid, out.OK, "iteration %d cell %s", i, cell)
	}
}

func TestPlatformBuildScenario(t *testing.T) {
	// Build a small platform the way an operator would: a base layer,
	// a partial second story, corrections in between, then verify the
	// structure and walk the history.
	p := pointerPipeline(t, grid.Dimensions{Width: 10, Height: 10, Levels: 3})

	base := DragAnchors(grid.Position{X: 2, Z: 2}, grid.Position{X: 7, Z: 7}, grid.Single)
	out := p.BatchPlace(base, grid.Single, grid.ColorBlue)
	require.True(t, out.OK)
	require.Len(t, out.Operations, 36)

	deck := DragAnchors(grid.Position{X: 3, Y: 1, Z: 3}, grid.Position{X: 6, Y: 1, Z: 6}, grid.Single)
	out = p.BatchPlace(deck, grid.Single, grid.ColorGray)
	require.True(t, out.OK)
	require.Len(t, out.Operations, 16)

	t.Run("third story needs the second", func(t *testing.T) {
		bad := p.Place(grid.Position{X: 2, Y: 2, Z: 2}, grid.Single, grid.ColorGreen)
		assert.False(t, bad.OK)
		assert.True(t, bad.Has(validation.RuleNoSupport))

		good := p.Place(grid.Position{X: 4, Y: 2, Z: 4}, grid.Single, grid.ColorGreen)
		assert.True(t, good.OK)
	})

	t.Run("structure is contiguous", func(t *testing.T) {
		assert.True(t, p.Engine().ValidateConnectivity().OK())
	})

	t.Run("undo walks the build back in order", func(t *testing.T) {
		require.True(t, p.Undo().OK) // the level-2 single
		assert.Equal(t, 52, p.Grid().Count())
		require.True(t, p.Undo().OK) // the whole deck batch
		assert.Equal(t, 36, p.Grid().Count())
		require.True(t, p.Redo().OK)
		assert.Equal(t, 52, p.Grid().Count())
	})

	t.Run("statistics add up", func(t *testing.T) {
		cells := p.Grid().OccupiedCells()
		assert.Len(t, cells, 52)
	})
}
