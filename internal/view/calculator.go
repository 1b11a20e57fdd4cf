package view

import (
	"math"

	"pontoon-planner/internal/grid"
	"pontoon-planner/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Calculator resolves pointer positions to grid cells and converts
// between grid and world coordinates. It memoizes the inverse
// view-projection per (camera, viewport) pair; the cache is dropped
// whenever either changes and can be cleared manually.
type Calculator struct {
	cacheKey   cacheKey
	cacheValid bool
	cached     *transforms
}

type transforms struct {
	fwd *mat.Dense // projection * view
	inv *mat.Dense
}

type cacheKey struct {
	cam Camera
	vp  Viewport
}

// NewCalculator creates a calculator with an empty cache.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// ClearCache drops the memoized transform.
func (c *Calculator) ClearCache() {
	c.cacheValid = false
	c.cached = nil
}

// ScreenToGrid casts a ray from the camera through the pointer pixel,
// intersects the horizontal plane at activeLevel's world height, and
// returns the covered cell. The second return is false when the
// pointer misses the grid or the ray never reaches the plane.
func (c *Calculator) ScreenToGrid(pointer geometry.Point2D, cam Camera, vp Viewport, dims grid.Dimensions, activeLevel int) (grid.Position, bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return grid.Position{}, false
	}
	ray, ok := c.PointerRay(pointer, cam, vp)
	if !ok {
		return grid.Position{}, false
	}
	hit, ok := ray.IntersectHorizontalPlane(LevelWorldHeight(activeLevel))
	if !ok {
		return grid.Position{}, false
	}
	cell := grid.Position{
		X: int(math.Floor(hit.X / CellSize)),
		Y: activeLevel,
		Z: int(math.Floor(hit.Z / CellSize)),
	}
	if cell.X < 0 || cell.X >= dims.Width || cell.Z < 0 || cell.Z >= dims.Height {
		return grid.Position{}, false
	}
	return cell, true
}

// PointerRay returns the world-space ray from the camera eye through
// the pointer pixel.
func (c *Calculator) PointerRay(pointer geometry.Point2D, cam Camera, vp Viewport) (geometry.Ray, bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return geometry.Ray{}, false
	}
	t := c.lookup(cam, vp)
	if t == nil {
		return geometry.Ray{}, false
	}
	ndcX := 2*pointer.X/float64(vp.Width) - 1
	ndcY := 1 - 2*pointer.Y/float64(vp.Height)

	near, ok := unproject(t.inv, ndcX, ndcY, -1)
	if !ok {
		return geometry.Ray{}, false
	}
	far, ok := unproject(t.inv, ndcX, ndcY, 1)
	if !ok {
		return geometry.Ray{}, false
	}
	dir := far.Sub(near)
	if dir.Norm() == 0 {
		return geometry.Ray{}, false
	}
	return geometry.Ray{Origin: near, Direction: dir.Normalize()}, true
}

// GridToWorld returns the world-space center of the cell. It is the
// exact affine inverse of WorldToGrid.
func GridToWorld(pos grid.Position) geometry.Point3D {
	return geometry.Point3D{
		X: (float64(pos.X) + 0.5) * CellSize,
		Y: LevelWorldHeight(pos.Y),
		Z: (float64(pos.Z) + 0.5) * CellSize,
	}
}

// WorldToGrid returns the cell containing the world point. The level is
// the nearest one to the point's height.
func WorldToGrid(p geometry.Point3D) grid.Position {
	return grid.Position{
		X: int(math.Floor(p.X / CellSize)),
		Y: int(math.Round(p.Y / LevelHeight)),
		Z: int(math.Floor(p.Z / CellSize)),
	}
}

// LevelWorldHeight returns the world height of a level's floor plane.
func LevelWorldHeight(level int) float64 {
	return float64(level) * LevelHeight
}

// WorldToScreen projects a world point to pixel coordinates. The
// second return is false when the point sits behind the camera or the
// camera is degenerate.
func (c *Calculator) WorldToScreen(p geometry.Point3D, cam Camera, vp Viewport) (geometry.Point2D, bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return geometry.Point2D{}, false
	}
	t := c.lookup(cam, vp)
	if t == nil {
		return geometry.Point2D{}, false
	}
	v := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(t.fwd, v)
	w := out.AtVec(3)
	if w <= 0 {
		return geometry.Point2D{}, false
	}
	ndcX := out.AtVec(0) / w
	ndcY := out.AtVec(1) / w
	return geometry.Point2D{
		X: (ndcX + 1) / 2 * float64(vp.Width),
		Y: (1 - ndcY) / 2 * float64(vp.Height),
	}, true
}

func (c *Calculator) lookup(cam Camera, vp Viewport) *transforms {
	key := cacheKey{cam: cam, vp: vp}
	if c.cacheValid && c.cacheKey == key && c.cached != nil {
		return c.cached
	}
	var fwd mat.Dense
	fwd.Mul(projectionMatrix(cam, vp), viewMatrix(cam))
	var inv mat.Dense
	if err := inv.Inverse(&fwd); err != nil {
		c.ClearCache()
		return nil
	}
	c.cacheKey = key
	c.cacheValid = true
	c.cached = &transforms{fwd: &fwd, inv: &inv}
	return c.cached
}
