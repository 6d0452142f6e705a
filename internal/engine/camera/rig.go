package camera

import (
	"github.com/Faultbox/layerview/internal/engine/lighting"
	"github.com/Faultbox/layerview/internal/engine/shadow"
	"github.com/Faultbox/layerview/pkg/math"
)

// Params are the interactive viewing parameters. The input side owns them and
// copies them into each frame; the rig never validates ranges.
type Params struct {
	Rotation      int        // camera orbit, degrees
	LightRotation int        // light orbit, degrees
	Zoom          float32    // 0..100
	Projection    Projection // perspective or orthographic
	ShowShadowMap bool       // draw the raw depth texture instead of the scene
}

// Transforms holds every matrix a frame needs. Values are frame-scoped.
type Transforms struct {
	Model           math.Mat4
	View            math.Mat4
	Projection      math.Mat4
	LightView       math.Mat4
	LightProjection math.Mat4
	LightDir        math.Vec3
}

// Derive computes the frame transforms around pivot (the scene centroid).
// aspect is viewport width/height; shadowSize is the shadow map resolution.
func Derive(p Params, pivot math.Vec3, aspect float32, shadowSize int32) Transforms {
	cam := OrbitCamera{Rotation: float32(p.Rotation), Zoom: p.Zoom}
	sun := lighting.NewSun(p.LightRotation)

	return Transforms{
		Model:           math.Identity(),
		View:            cam.ViewMatrix(pivot),
		Projection:      ProjectionMatrix(p.Projection, p.Zoom, aspect),
		LightView:       sun.ViewMatrix(pivot),
		LightProjection: shadow.LightProjection(shadowSize),
		LightDir:        sun.Direction(pivot),
	}
}

// Aspect returns width/height, treating a degenerate viewport as square.
func Aspect(width, height int32) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
