package canvas

import (
	"image"
	"image/color"
	"math"
	"sort"
	"strconv"

	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/view"
	"pontoon-planner/pkg/colorutil"
	"pontoon-planner/pkg/geometry"
)

func viewportFor(w, h int) view.Viewport {
	return view.Viewport{Width: w, Height: h}
}

func pontoonColor(c grid.Color) color.RGBA {
	switch c {
	case grid.ColorBlue:
		return color.RGBA{R: 60, G: 110, B: 200, A: 255}
	case grid.ColorGray:
		return color.RGBA{R: 150, G: 155, B: 160, A: 255}
	case grid.ColorSand:
		return color.RGBA{R: 210, G: 185, B: 130, A: 255}
	case grid.ColorGreen:
		return color.RGBA{R: 80, G: 160, B: 100, A: 255}
	default:
		return colorutil.White
	}
}

// The canvas keeps its own coordinate calculator; the transform
// contract guarantees it resolves cells identically to the pipeline's.
var sceneCalc = view.NewCalculator()

// renderScene rasterizes the grid through the session camera.
func (pc *PlatformCanvas) renderScene(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = colorutil.Water.R
		img.Pix[i+1] = colorutil.Water.G
		img.Pix[i+2] = colorutil.Water.B
		img.Pix[i+3] = 255
	}

	pipeline := pc.state.Pipeline()
	g := pipeline.Grid()
	dims := g.Dimensions()
	cam := pipeline.Camera()
	vp := viewportFor(w, h)
	level := pipeline.ActiveLevel()

	pc.drawGridLines(img, cam, vp, dims, level)

	// Painter's order: lower levels first, then far rows first.
	pontoons := g.Pontoons()
	sort.Slice(pontoons, func(i, j int) bool {
		a, b := pontoons[i].Position, pontoons[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	selected := make(map[grid.ID]bool)
	for _, id := range pipeline.Selection() {
		selected[id] = true
	}
	for _, p := range pontoons {
		fill := pontoonColor(p.Color)
		if p.Position.Y != level {
			fill = colorutil.Shade(fill, 0.45)
		}
		for _, cell := range p.Footprint() {
			pc.fillCell(img, cam, vp, cell, fill)
			pc.strokeCell(img, cam, vp, cell, colorutil.Shade(fill, 0.6))
		}
		if selected[p.ID] {
			for _, cell := range p.Footprint() {
				pc.strokeCell(img, cam, vp, cell, colorutil.Cyan)
			}
		}
	}

	if dims.Levels > 1 || dims.MinLevel < 0 {
		for _, p := range pontoons {
			pc.labelCell(img, cam, vp, p.Position, strconv.Itoa(p.Position.Y))
		}
	}

	for _, anchor := range pipeline.DragPreview() {
		pc.strokeCell(img, cam, vp, anchor, colorutil.Yellow)
	}

	if pc.hoverShown {
		c := colorutil.Green
		if !pc.hoverValid {
			c = colorutil.Red
		}
		pc.strokeCell(img, cam, vp, pc.hoverCell, c)
	}

	drawTag(img, levelTag(level), 8, 8, colorutil.White, 2)

	return img
}

// labelCell centers a short tag on the cell's floor quad.
func (pc *PlatformCanvas) labelCell(img *image.RGBA, cam view.Camera, vp view.Viewport, cell grid.Position, text string) {
	quad, ok := cellCorners(cam, vp, cell)
	if !ok {
		return
	}
	cx := int((quad[0].X + quad[2].X) / 2)
	cy := int((quad[0].Y + quad[2].Y) / 2)
	drawTag(img, text, cx-tagWidth(text, 1)/2, cy-2, colorutil.White, 1)
}

// cellCorners returns the screen projection of the cell's floor quad,
// or false when any corner is behind the camera.
func cellCorners(cam view.Camera, vp view.Viewport, cell grid.Position) ([4]geometry.Point2D, bool) {
	y := view.LevelWorldHeight(cell.Y)
	world := [4]geometry.Point3D{
		{X: float64(cell.X) * view.CellSize, Y: y, Z: float64(cell.Z) * view.CellSize},
		{X: float64(cell.X+1) * view.CellSize, Y: y, Z: float64(cell.Z) * view.CellSize},
		{X: float64(cell.X+1) * view.CellSize, Y: y, Z: float64(cell.Z+1) * view.CellSize},
		{X: float64(cell.X) * view.CellSize, Y: y, Z: float64(cell.Z+1) * view.CellSize},
	}
	var out [4]geometry.Point2D
	for i, wpt := range world {
		pt, ok := sceneCalc.WorldToScreen(wpt, cam, vp)
		if !ok {
			return out, false
		}
		out[i] = pt
	}
	return out, true
}

func (pc *PlatformCanvas) fillCell(img *image.RGBA, cam view.Camera, vp view.Viewport, cell grid.Position, col color.RGBA) {
	quad, ok := cellCorners(cam, vp, cell)
	if ok {
		fillQuad(img, quad, col)
	}
}

func (pc *PlatformCanvas) strokeCell(img *image.RGBA, cam view.Camera, vp view.Viewport, cell grid.Position, col color.RGBA) {
	quad, ok := cellCorners(cam, vp, cell)
	if !ok {
		return
	}
	for i := range quad {
		drawLine(img, quad[i], quad[(i+1)%4], col)
	}
}

func (pc *PlatformCanvas) drawGridLines(img *image.RGBA, cam view.Camera, vp view.Viewport, dims grid.Dimensions, level int) {
	y := view.LevelWorldHeight(level)
	maxX := float64(dims.Width) * view.CellSize
	maxZ := float64(dims.Height) * view.CellSize

	for x := 0; x <= dims.Width; x++ {
		a, okA := sceneCalc.WorldToScreen(geometry.Point3D{X: float64(x) * view.CellSize, Y: y}, cam, vp)
		b, okB := sceneCalc.WorldToScreen(geometry.Point3D{X: float64(x) * view.CellSize, Y: y, Z: maxZ}, cam, vp)
		if okA && okB {
			drawLine(img, a, b, colorutil.GridDim)
		}
	}
	for z := 0; z <= dims.Height; z++ {
		a, okA := sceneCalc.WorldToScreen(geometry.Point3D{Y: y, Z: float64(z) * view.CellSize}, cam, vp)
		b, okB := sceneCalc.WorldToScreen(geometry.Point3D{X: maxX, Y: y, Z: float64(z) * view.CellSize}, cam, vp)
		if okA && okB {
			drawLine(img, a, b, colorutil.GridDim)
		}
	}
}

// fillQuad fills a convex screen-space quad by scanline.
func fillQuad(img *image.RGBA, quad [4]geometry.Point2D, col color.RGBA) {
	minY, maxY := quad[0].Y, quad[0].Y
	for _, p := range quad[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	bounds := img.Bounds()
	y0 := int(math.Max(math.Floor(minY), float64(bounds.Min.Y)))
	y1 := int(math.Min(math.Ceil(maxY), float64(bounds.Max.Y-1)))

	for y := y0; y <= y1; y++ {
		fy := float64(y) + 0.5
		var xs []float64
		for i := range quad {
			a, b := quad[i], quad[(i+1)%4]
			if (a.Y <= fy) == (b.Y <= fy) {
				continue
			}
			t := (fy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		x0 := int(math.Max(math.Floor(xs[0]), float64(bounds.Min.X)))
		x1 := int(math.Min(math.Ceil(xs[len(xs)-1]), float64(bounds.Max.X-1)))
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawLine draws a 1px line between two screen points.
func drawLine(img *image.RGBA, a, b geometry.Point2D, col color.RGBA) {
	steps := int(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)))
	if steps == 0 {
		setPixel(img, int(a.X), int(a.Y), col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setPixel(img, int(a.X+t*(b.X-a.X)), int(a.Y+t*(b.Y-a.Y)), col)
	}
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}
