// Package lighting models the scene's single directional light, which orbits
// the scene pivot at a fixed height.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/layerview/pkg/math"
)

// DefaultRadius is the light's orbit radius and height above the pivot.
const DefaultRadius = 500

// Sun is a directional light placed on an orbit around a pivot point.
type Sun struct {
	Rotation float32 // orbit angle in degrees
	Radius   float32
}

// NewSun returns a light at the given orbit angle with the default radius.
func NewSun(rotationDeg int) Sun {
	return Sun{Rotation: float32(rotationDeg), Radius: DefaultRadius}
}

// Position returns the light position for the given pivot:
// pivot + (r·cosθ, r·sinθ, r).
func (s Sun) Position(pivot math.Vec3) math.Vec3 {
	rad := float64(math.Radians(s.Rotation))
	return pivot.Add(math.Vec3{
		X: s.Radius * float32(gomath.Cos(rad)),
		Y: s.Radius * float32(gomath.Sin(rad)),
		Z: s.Radius,
	})
}

// Direction returns the normalized vector from the pivot towards the light,
// the direction the shading stage dots normals against.
func (s Sun) Direction(pivot math.Vec3) math.Vec3 {
	return s.Position(pivot).Sub(pivot).Normalize()
}

// ViewMatrix looks from the light position at the pivot with +Z up.
func (s Sun) ViewMatrix(pivot math.Vec3) math.Mat4 {
	return math.LookAt(s.Position(pivot), pivot, math.Vec3{Z: 1})
}
