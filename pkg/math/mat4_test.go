package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func approxMat(t *testing.T, name string, got Mat4, want mgl32.Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		tol := float32(eps)
		if a := abs(want[i]); a > 1 {
			tol *= a
		}
		if abs(got[i]-want[i]) > tol {
			t.Errorf("%s element %d: got %f, want %f", name, i, got[i], want[i])
		}
	}
}

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 || m[12] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := LookAt(Vec3{10, 20, 30}, Vec3{}, Vec3{0, 0, 1})
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M: got %v, want %v", result, m)
	}
}

func TestPerspectiveMatchesMathGL(t *testing.T) {
	tests := []struct {
		fov, aspect, near, far float32
	}{
		{float32(math.Pi / 4), 16.0 / 9.0, 1, 50000},
		{float32(math.Pi / 3), 1, 0.1, 100},
	}
	for _, tt := range tests {
		got := Perspective(tt.fov, tt.aspect, tt.near, tt.far)
		approxMat(t, "Perspective", got, mgl32.Perspective(tt.fov, tt.aspect, tt.near, tt.far))
		if !got.IsPerspective() {
			t.Error("Perspective should report IsPerspective")
		}
	}
}

func TestOrthoMatchesMathGL(t *testing.T) {
	got := Ortho(-4096, 4096, -4096, 4096, -2000, 5000)
	approxMat(t, "Ortho", got, mgl32.Ortho(-4096, 4096, -4096, 4096, -2000, 5000))
	if got.IsPerspective() {
		t.Error("Ortho should not report IsPerspective")
	}
}

func TestLookAtMatchesMathGL(t *testing.T) {
	eye := Vec3{500, 0, 500}
	center := Vec3{1, 2, 3}
	up := Vec3{0, 0, 1}

	got := LookAt(eye, center, up)
	want := mgl32.LookAtV(
		mgl32.Vec3{eye.X, eye.Y, eye.Z},
		mgl32.Vec3{center.X, center.Y, center.Z},
		mgl32.Vec3{up.X, up.Y, up.Z},
	)
	approxMat(t, "LookAt", got, want)

	// The eye lands at the view-space origin.
	p := got.TransformPoint(eye)
	if p.Length() > 1e-2 {
		t.Errorf("eye in view space: got %v, want origin", p)
	}
}

func TestTransformPointDivides(t *testing.T) {
	m := Perspective(float32(math.Pi/2), 1, 1, 100)
	p := m.TransformPoint(Vec3{0, 0, -1})
	// On the near plane depth maps to -1 in NDC.
	if abs(p.Z+1) > eps {
		t.Errorf("near plane depth: got %f, want -1", p.Z)
	}
}

func TestVec4DivideZeroW(t *testing.T) {
	v := Vec4{1, 2, 3, 0}
	if got := v.Divide(); got != (Vec3{1, 2, 3}) {
		t.Errorf("Divide with w=0: got %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
