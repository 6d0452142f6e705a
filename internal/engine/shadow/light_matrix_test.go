package shadow

import (
	"testing"

	"github.com/Faultbox/layerview/pkg/math"
)

func TestLightProjectionBox(t *testing.T) {
	m := LightProjection(2048)
	if m.IsPerspective() {
		t.Fatal("light projection should be orthographic")
	}

	// Box corners land on the NDC cube edges.
	corner := m.TransformPoint(math.Vec3{X: 4096, Y: -4096, Z: -LightFar})
	if abs(corner.X-1) > 1e-5 || abs(corner.Y+1) > 1e-5 || abs(corner.Z-1) > 1e-5 {
		t.Errorf("far corner maps to %v, want (1,-1,1)", corner)
	}
	near := m.TransformPoint(math.Vec3{Z: -LightNear})
	if abs(near.Z+1) > 1e-5 {
		t.Errorf("near plane maps to z=%v, want -1", near.Z)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
