package shadow

import "github.com/Faultbox/layerview/pkg/math"

// Constants shared with shadow.frag and shadow.vert.
const (
	// Bias is subtracted from the fragment depth before comparison to avoid acne.
	Bias = 0.0025
	// MaxDarkening is how much a fully shadowed fragment loses.
	MaxDarkening = 0.5
	// MinBrightness is the floor of the diffuse term for layers with normals.
	MinBrightness = 0.25
	// Kernel is the PCF neighborhood radius in texels (3x3).
	Kernel = 1
)

// Sampler returns the stored depth at texture coordinates (u, v).
type Sampler func(u, v float32) float32

// ProjectToTexture maps a light clip-space position to shadow map space:
// perspective divide, then [-1,1] -> [0,1] on every axis.
func ProjectToTexture(lightClip math.Vec4) math.Vec3 {
	ndc := math.Vec3{X: lightClip[0], Y: lightClip[1], Z: lightClip[2]}
	if lightClip[3] != 0 {
		ndc = ndc.Scale(1 / lightClip[3])
	}
	return ndc.Scale(0.5).Add(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
}

// PCF averages the binary depth test over the 3x3 texel neighborhood of
// coords. The result is 0 when fully lit and 1 when fully occluded.
func PCF(coords math.Vec3, texelW, texelH float32, sample Sampler) float32 {
	var shadow float32
	n := 0
	for x := -Kernel; x <= Kernel; x++ {
		for y := -Kernel; y <= Kernel; y++ {
			depth := sample(coords.X+float32(x)*texelW, coords.Y+float32(y)*texelH)
			if coords.Z-Bias > depth {
				shadow++
			}
			n++
		}
	}
	return shadow / float32(n)
}

// Darken applies a shadow factor to a lit color. Full shadow halves the color.
func Darken(shadow float32, lit [3]float32) [3]float32 {
	k := 1 - shadow*MaxDarkening
	return [3]float32{k * lit[0], k * lit[1], k * lit[2]}
}

// Brightness is the per-vertex diffuse term. Layers without normals are flat lit.
func Brightness(lightDir, normal math.Vec3, hasNormals bool) float32 {
	if !hasNormals {
		return 1
	}
	d := lightDir.Normalize().Dot(normal)
	if d < MinBrightness {
		return MinBrightness
	}
	return d
}
