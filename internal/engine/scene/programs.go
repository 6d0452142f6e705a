package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/scene/shaders"
	"github.com/Faultbox/layerview/internal/engine/shadow"
)

// TextureUnitShadow is the texture unit the depth map is bound to.
const TextureUnitShadow = 0

// layerProgram draws a layer in a flat color. Used for the depth pass.
type layerProgram struct {
	id gpu.Program

	locPosition   int32
	locColor      int32
	locModel      int32
	locView       int32
	locProjection int32
}

// shadowProgram draws a lit, shadow-tested layer. Used for the screen pass.
type shadowProgram struct {
	id gpu.Program

	locPosition int32
	locNormal   int32

	locSampler         int32
	locColor           int32
	locHasNormals      int32
	locModel           int32
	locView            int32
	locProjection      int32
	locLightView       int32
	locLightProjection int32
	locLightDir        int32
}

// depthViewProgram draws a texture as a grayscale full-screen quad.
type depthViewProgram struct {
	id gpu.Program

	locPosition int32
	locSampler  int32
}

// Programs holds the shading programs shared by every layer. They are built
// once per device and outlive any single layer.
type Programs struct {
	layer     layerProgram
	shadow    shadowProgram
	depthView depthViewProgram
}

// shadowDefines carries the shadow test constants into the shadow shaders so
// the GPU and shadow.PCF cannot disagree.
var shadowDefines = []string{
	"#define SHADOW_BIAS " + glslFloat(shadow.Bias),
	"#define MAX_DARKENING " + glslFloat(shadow.MaxDarkening),
	"#define MIN_BRIGHTNESS " + glslFloat(shadow.MinBrightness),
	"#define PCF_KERNEL " + strconv.Itoa(shadow.Kernel),
}

// glslFloat formats v as a GLSL float literal.
func glslFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// withDefines inserts defines right after the #version line, which must stay
// first in the source.
func withDefines(src string, defines []string) string {
	head, body := "", src
	if strings.HasPrefix(src, "#version") {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			head, body = src[:i+1], src[i+1:]
		} else {
			head, body = src+"\n", ""
		}
	}
	return head + strings.Join(defines, "\n") + "\n" + body
}

// NewPrograms compiles and links all shading programs.
func NewPrograms(dev gpu.Device) (*Programs, error) {
	p := &Programs{}

	id, err := dev.CreateProgram(shaders.LayerVertexShader, shaders.LayerFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("layer program: %w", err)
	}
	p.layer = layerProgram{
		id:            id,
		locPosition:   dev.AttribLocation(id, "position"),
		locColor:      dev.UniformLocation(id, "uColor"),
		locModel:      dev.UniformLocation(id, "uModel"),
		locView:       dev.UniformLocation(id, "uView"),
		locProjection: dev.UniformLocation(id, "uProjection"),
	}

	id, err = dev.CreateProgram(
		withDefines(shaders.ShadowVertexShader, shadowDefines),
		withDefines(shaders.ShadowFragmentShader, shadowDefines),
	)
	if err != nil {
		p.Destroy(dev)
		return nil, fmt.Errorf("shadow program: %w", err)
	}
	p.shadow = shadowProgram{
		id:                 id,
		locPosition:        dev.AttribLocation(id, "position"),
		locNormal:          dev.AttribLocation(id, "normal"),
		locSampler:         dev.UniformLocation(id, "uSampler"),
		locColor:           dev.UniformLocation(id, "uColor"),
		locHasNormals:      dev.UniformLocation(id, "uHasNormals"),
		locModel:           dev.UniformLocation(id, "uModel"),
		locView:            dev.UniformLocation(id, "uView"),
		locProjection:      dev.UniformLocation(id, "uProjection"),
		locLightView:       dev.UniformLocation(id, "uLightView"),
		locLightProjection: dev.UniformLocation(id, "uLightProjection"),
		locLightDir:        dev.UniformLocation(id, "uLightDir"),
	}

	id, err = dev.CreateProgram(shaders.DepthViewVertexShader, shaders.DepthViewFragmentShader)
	if err != nil {
		p.Destroy(dev)
		return nil, fmt.Errorf("depth view program: %w", err)
	}
	p.depthView = depthViewProgram{
		id:          id,
		locPosition: dev.AttribLocation(id, "position"),
		locSampler:  dev.UniformLocation(id, "uSampler"),
	}

	// Layers build one vertex array for both passes.
	if p.layer.locPosition != p.shadow.locPosition || p.shadow.locPosition < 0 || p.shadow.locNormal < 0 {
		p.Destroy(dev)
		return nil, fmt.Errorf("attribute layout mismatch: layer position=%d shadow position=%d normal=%d",
			p.layer.locPosition, p.shadow.locPosition, p.shadow.locNormal)
	}
	if p.depthView.locPosition < 0 {
		p.Destroy(dev)
		return nil, fmt.Errorf("depth view program has no position attribute")
	}

	return p, nil
}

// positionSlot and normalSlot are the attribute slots layer geometry binds to.
func (p *Programs) positionSlot() uint32 { return uint32(p.shadow.locPosition) }
func (p *Programs) normalSlot() uint32   { return uint32(p.shadow.locNormal) }

// Destroy releases all programs. Safe on a partially built set.
func (p *Programs) Destroy(dev gpu.Device) {
	for _, id := range []gpu.Program{p.layer.id, p.shadow.id, p.depthView.id} {
		if id != 0 {
			dev.DeleteProgram(id)
		}
	}
	*p = Programs{}
}
