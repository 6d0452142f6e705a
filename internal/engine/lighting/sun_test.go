package lighting

import (
	"testing"

	"github.com/Faultbox/layerview/pkg/math"
)

func TestSunPosition(t *testing.T) {
	pivot := math.Vec3{X: 10, Y: 20, Z: 30}
	tests := []struct {
		rotation int
		want     math.Vec3
	}{
		{0, math.Vec3{X: 510, Y: 20, Z: 530}},
		{90, math.Vec3{X: 10, Y: 520, Z: 530}},
		{180, math.Vec3{X: -490, Y: 20, Z: 530}},
	}
	for _, tt := range tests {
		got := NewSun(tt.rotation).Position(pivot)
		if got.Sub(tt.want).Length() > 1e-3 {
			t.Errorf("rotation %d: got %v, want %v", tt.rotation, got, tt.want)
		}
	}
}

func TestSunDirectionIsUnitTowardsLight(t *testing.T) {
	pivot := math.Vec3{X: 1, Y: 1, Z: 1}
	sun := NewSun(45)
	dir := sun.Direction(pivot)

	if d := dir.Length(); d < 0.9999 || d > 1.0001 {
		t.Errorf("direction length %v, want 1", d)
	}
	// Orbit height equals radius, so the light sits 45° above the horizon.
	if dir.Z < 0.707 || dir.Z > 0.7072 {
		t.Errorf("direction Z %v, want ~0.7071", dir.Z)
	}
	toLight := sun.Position(pivot).Sub(pivot).Normalize()
	if dir != toLight {
		t.Errorf("direction %v should point at the light %v", dir, toLight)
	}
}

func TestSunViewMatrixCentersPivot(t *testing.T) {
	pivot := math.Vec3{X: 100, Y: -50, Z: 0}
	view := NewSun(30).ViewMatrix(pivot)
	p := view.TransformPoint(pivot)
	// Pivot lies on the view axis, in front of the light.
	if abs(p.X) > 1e-3 || abs(p.Y) > 1e-3 || p.Z >= 0 {
		t.Errorf("pivot in light view space: %v", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
