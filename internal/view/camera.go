// Package view provides the coordinate transformation layer between
// pointer pixels, 3D world space, and discrete grid cells. It is the
// single authority both validation previews and actual placement rely
// on: identical inputs always resolve to the identical cell.
package view

import (
	"math"

	"pontoon-planner/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// World scale constants. One grid cell is CellSize meters on a side;
// one level is LevelHeight meters tall.
const (
	CellSize    = 2.0
	LevelHeight = 0.5
)

// Camera describes the observer. Up is fixed to +Y.
type Camera struct {
	Eye    geometry.Point3D `json:"eye"`
	Target geometry.Point3D `json:"target"`
	FOV    float64          `json:"fov"` // vertical field of view, degrees
}

// Viewport is the pixel extent of the render surface.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Aspect returns the viewport's width/height ratio.
func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

const (
	nearPlane = 0.1
	farPlane  = 1000.0
)

// CameraOffset returns the default eye offset from the grid center: an
// elevated south-west vantage at the given distance.
func CameraOffset(dist float64) geometry.Point3D {
	return geometry.Point3D{X: -dist * 0.5, Y: dist * 0.8, Z: dist * 0.5}.
		Normalize().Scale(dist)
}

// viewMatrix builds the right-handed look-at matrix for the camera.
func viewMatrix(cam Camera) *mat.Dense {
	forward := cam.Target.Sub(cam.Eye).Normalize()
	worldUp := geometry.Point3D{Y: 1}
	right := forward.Cross(worldUp).Normalize()
	if right.Norm() == 0 {
		// Looking straight up or down; pick an arbitrary horizontal right.
		right = geometry.Point3D{X: 1}
	}
	up := right.Cross(forward)

	return mat.NewDense(4, 4, []float64{
		right.X, right.Y, right.Z, -right.Dot(cam.Eye),
		up.X, up.Y, up.Z, -up.Dot(cam.Eye),
		-forward.X, -forward.Y, -forward.Z, forward.Dot(cam.Eye),
		0, 0, 0, 1,
	})
}

// projectionMatrix builds the perspective projection for the camera
// and viewport.
func projectionMatrix(cam Camera, vp Viewport) *mat.Dense {
	f := 1 / math.Tan(cam.FOV*math.Pi/180/2)
	aspect := vp.Aspect()
	return mat.NewDense(4, 4, []float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (farPlane + nearPlane) / (nearPlane - farPlane), 2 * farPlane * nearPlane / (nearPlane - farPlane),
		0, 0, -1, 0,
	})
}

// unproject maps normalized device coordinates at depth ndcZ back to
// world space through the inverse view-projection.
func unproject(inv *mat.Dense, ndcX, ndcY, ndcZ float64) (geometry.Point3D, bool) {
	v := mat.NewVecDense(4, []float64{ndcX, ndcY, ndcZ, 1})
	var out mat.VecDense
	out.MulVec(inv, v)
	w := out.AtVec(3)
	if w == 0 {
		return geometry.Point3D{}, false
	}
	return geometry.Point3D{
		X: out.AtVec(0) / w,
		Y: out.AtVec(1) / w,
		Z: out.AtVec(2) / w,
	}, true
}
