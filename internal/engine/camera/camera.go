// Package camera derives the per-frame view, projection and light transforms
// from the interactive viewing parameters.
package camera

import (
	gomath "math"

	"github.com/Faultbox/layerview/pkg/math"
)

// Zoom maps inversely to orbit distance: zoom 0 is MaxZoomRadius away,
// zoom 100 is 1% of it.
const (
	MaxZoomRadius = 5000
	zoomReach     = 0.99
	MaxZoom       = 100
)

// Projection constants.
const (
	FieldOfView = 45 // degrees, vertical
	Near        = 1
	Far         = 50000
	OrthoNear   = -1
)

// OrbitCamera orbits the scene pivot. Its height above the pivot equals the
// orbit radius, and +Z is up.
type OrbitCamera struct {
	Rotation float32 // degrees around the pivot
	Zoom     float32 // 0..100
}

// OrbitRadius returns the orbit radius for a zoom level.
func OrbitRadius(zoom float32) float32 {
	return MaxZoomRadius - (zoom/MaxZoom)*MaxZoomRadius*zoomReach
}

// Position returns pivot + (r·cosθ, r·sinθ, r).
func (c OrbitCamera) Position(pivot math.Vec3) math.Vec3 {
	r := OrbitRadius(c.Zoom)
	rad := float64(math.Radians(c.Rotation))
	return pivot.Add(math.Vec3{
		X: r * float32(gomath.Cos(rad)),
		Y: r * float32(gomath.Sin(rad)),
		Z: r,
	})
}

// ViewMatrix returns the view matrix looking at the pivot.
func (c OrbitCamera) ViewMatrix(pivot math.Vec3) math.Mat4 {
	return math.LookAt(c.Position(pivot), pivot, math.Vec3{Z: 1})
}

// ProjectionMatrix returns the camera projection for the mode. Orthographic
// half-extent follows the same zoom curve as the orbit radius.
func ProjectionMatrix(mode Projection, zoom, aspect float32) math.Mat4 {
	if mode == Orthographic {
		size := OrbitRadius(zoom)
		return math.Ortho(-aspect*size, aspect*size, -size, size, OrthoNear, Far)
	}
	return math.Perspective(math.Radians(FieldOfView), aspect, Near, Far)
}
