package shadow

import "github.com/Faultbox/layerview/pkg/math"

// Depth range of the light's orthographic box.
const (
	LightNear = -2000
	LightFar  = 5000
)

// LightProjection returns the light's orthographic projection. The box spans
// ±2·resolution world units in X and Y regardless of scene extent, so texel
// density follows the shadow map resolution and anything outside is clipped.
func LightProjection(resolution int32) math.Mat4 {
	half := float32(resolution) * 2
	return math.Ortho(-half, half, -half, half, LightNear, LightFar)
}
