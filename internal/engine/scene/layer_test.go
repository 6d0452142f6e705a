package scene

import (
	"testing"

	"github.com/Faultbox/layerview/internal/engine/camera"
	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/shadow"
	"github.com/Faultbox/layerview/pkg/math"
)

func TestRenderZeroIndicesDrawsNothing(t *testing.T) {
	c, rec := newTestCollection(t)
	mustAdd(t, c, "points", triVertices, nil, nil)
	rec.Reset()

	for _, mode := range []Mode{DepthCapture, Shaded} {
		c.Get("points").Render(rec, c.progs, mode, camera.Transforms{}, shadow.DepthMap{Texture: 7})
	}
	if len(rec.Calls) != 0 {
		t.Errorf("empty layer issued calls: %v", rec.Ops())
	}
}

func TestDepthCaptureUsesFlatProgramWithLightMatrices(t *testing.T) {
	c, rec := newTestCollection(t)
	mustAdd(t, c, "a", triVertices, triIndices, nil)
	rec.Reset()

	tr := camera.Transforms{
		Model:           math.Identity(),
		View:            math.Mat4{1},
		LightView:       math.Mat4{2},
		LightProjection: math.Mat4{3},
	}
	c.Get("a").Render(rec, c.progs, DepthCapture, tr, shadow.DepthMap{})

	use := rec.Find("UseProgram")
	if len(use) != 1 || use[0].Args[0] != c.progs.layer.id {
		t.Fatalf("UseProgram calls = %v, want layer program", use)
	}
	if got := len(rec.Find("BindTexture")); got != 0 {
		t.Errorf("depth capture bound %d textures, want none", got)
	}

	mats := map[int32]math.Mat4{}
	for _, call := range rec.Find("UniformMatrix4") {
		mats[call.Args[0].(int32)] = call.Args[1].(math.Mat4)
	}
	p := c.progs.layer
	if mats[p.locView] != tr.LightView {
		t.Errorf("view uniform = %v, want light view", mats[p.locView])
	}
	if mats[p.locProjection] != tr.LightProjection {
		t.Errorf("projection uniform = %v, want light projection", mats[p.locProjection])
	}
	draws := rec.Find("DrawIndexed")
	if len(draws) != 1 || draws[0].Args[2] != int32(3) {
		t.Errorf("DrawIndexed = %v, want one draw of 3 indices", draws)
	}
}

func TestShadedBindsDepthMapAndNormalsFlag(t *testing.T) {
	tests := []struct {
		name    string
		normals []float32
		want    int32
	}{
		{"without normals", nil, 0},
		{"with normals", []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestCollection(t)
			mustAdd(t, c, "a", triVertices, triIndices, tt.normals)
			rec.Reset()

			depth := shadow.DepthMap{Texture: gpu.Texture(42), Size: 512}
			tr := camera.Transforms{LightDir: math.Vec3{Z: 1}}
			c.Get("a").Render(rec, c.progs, Shaded, tr, depth)

			p := c.progs.shadow
			binds := rec.Find("BindTexture")
			if len(binds) != 1 || binds[0].Args[0] != uint32(TextureUnitShadow) || binds[0].Args[1] != depth.Texture {
				t.Errorf("BindTexture = %v, want unit %d texture %d", binds, TextureUnitShadow, depth.Texture)
			}
			ints := map[int32]int32{}
			for _, call := range rec.Find("Uniform1i") {
				ints[call.Args[0].(int32)] = call.Args[1].(int32)
			}
			if ints[p.locSampler] != TextureUnitShadow {
				t.Errorf("sampler = %d, want %d", ints[p.locSampler], TextureUnitShadow)
			}
			if ints[p.locHasNormals] != tt.want {
				t.Errorf("hasNormals = %d, want %d", ints[p.locHasNormals], tt.want)
			}
			dirs := rec.Find("Uniform3f")
			if len(dirs) != 1 || dirs[0].Args[1] != [3]float32{0, 0, 1} {
				t.Errorf("light dir uniform = %v", dirs)
			}
			if got := len(rec.Find("UniformMatrix4")); got != 5 {
				t.Errorf("matrix uniforms = %d, want 5", got)
			}
		})
	}
}

func TestNormalsAddSecondAttribute(t *testing.T) {
	c, rec := newTestCollection(t)
	mustAdd(t, c, "flat", triVertices, triIndices, nil)
	mustAdd(t, c, "lit", triVertices, triIndices, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1})

	vaos := rec.Find("CreateVertexArray")
	if len(vaos) != 2 {
		t.Fatalf("CreateVertexArray calls = %d, want 2", len(vaos))
	}
	if vaos[0].Args[0] != 1 || vaos[1].Args[0] != 2 {
		t.Errorf("attribute counts = %v, %v; want 1, 2", vaos[0].Args[0], vaos[1].Args[0])
	}
}

func TestModeString(t *testing.T) {
	if DepthCapture.String() != "depth" || Shaded.String() != "shaded" {
		t.Errorf("unexpected mode names %q %q", DepthCapture, Shaded)
	}
}
