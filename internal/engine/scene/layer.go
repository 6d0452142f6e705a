package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/layerview/internal/engine/camera"
	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/shadow"
)

// ErrInvalidLayer is returned when layer geometry is inconsistent.
var ErrInvalidLayer = errors.New("invalid layer")

// Mode selects how a layer is drawn.
type Mode int

const (
	// DepthCapture draws flat geometry from the light into the shadow target.
	DepthCapture Mode = iota
	// Shaded draws lit geometry from the camera, testing against the depth map.
	Shaded
)

func (m Mode) String() string {
	switch m {
	case DepthCapture:
		return "depth"
	case Shaded:
		return "shaded"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Layer is one named piece of renderable geometry with its GPU buffers.
type Layer struct {
	Name     string
	Vertices []float32 // xyz triples
	Indices  []uint32  // triangle list
	Color    [4]float32
	Normals  []float32 // nil when the layer has no normals

	vertexBuf gpu.Buffer
	normalBuf gpu.Buffer
	indexBuf  gpu.Buffer
	vao       gpu.VertexArray
}

// HasNormals reports whether the layer carries per-vertex normals.
func (l *Layer) HasNormals() bool { return l.Normals != nil }

// VertexCount returns the number of vertices.
func (l *Layer) VertexCount() int { return len(l.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (l *Layer) TriangleCount() int { return len(l.Indices) / 3 }

func validateLayer(name string, vertices []float32, indices []uint32, normals []float32) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidLayer)
	}
	if len(vertices)%3 != 0 {
		return fmt.Errorf("%w: %q has %d vertex floats, not a multiple of 3", ErrInvalidLayer, name, len(vertices))
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: %q has %d indices, not a multiple of 3", ErrInvalidLayer, name, len(indices))
	}
	count := uint32(len(vertices) / 3)
	for i, idx := range indices {
		if idx >= count {
			return fmt.Errorf("%w: %q index %d at %d out of range (%d vertices)", ErrInvalidLayer, name, idx, i, count)
		}
	}
	if normals != nil && len(normals) != len(vertices) {
		return fmt.Errorf("%w: %q has %d normal floats for %d vertex floats", ErrInvalidLayer, name, len(normals), len(vertices))
	}
	return nil
}

// upload creates the layer's buffers and vertex array. On failure everything
// created so far is released.
func (l *Layer) upload(dev gpu.Device, progs *Programs) (err error) {
	defer func() {
		if err != nil {
			l.release(dev)
		}
	}()

	if l.vertexBuf, err = dev.CreateVertexBuffer(l.Vertices); err != nil {
		return fmt.Errorf("layer %q vertex buffer: %w", l.Name, err)
	}
	attribs := []gpu.VertexAttrib{{Location: progs.positionSlot(), Buffer: l.vertexBuf, Size: 3}}

	if l.HasNormals() {
		if l.normalBuf, err = dev.CreateVertexBuffer(l.Normals); err != nil {
			return fmt.Errorf("layer %q normal buffer: %w", l.Name, err)
		}
		attribs = append(attribs, gpu.VertexAttrib{Location: progs.normalSlot(), Buffer: l.normalBuf, Size: 3})
	}

	if l.indexBuf, err = dev.CreateIndexBuffer(l.Indices); err != nil {
		return fmt.Errorf("layer %q index buffer: %w", l.Name, err)
	}
	if l.vao, err = dev.CreateVertexArray(attribs...); err != nil {
		return fmt.Errorf("layer %q vertex array: %w", l.Name, err)
	}
	return nil
}

func (l *Layer) release(dev gpu.Device) {
	if l.vao != 0 {
		dev.DeleteVertexArray(l.vao)
		l.vao = 0
	}
	for _, b := range []*gpu.Buffer{&l.vertexBuf, &l.normalBuf, &l.indexBuf} {
		if *b != 0 {
			dev.DeleteBuffer(*b)
			*b = 0
		}
	}
}

// Render draws the layer. DepthCapture uses the light's view and projection
// with the flat program; Shaded uses the camera with the shadow program and
// samples depth on TextureUnitShadow.
func (l *Layer) Render(dev gpu.Device, progs *Programs, mode Mode, t camera.Transforms, depth shadow.DepthMap) {
	if len(l.Indices) == 0 {
		return
	}
	count := int32(len(l.Indices))

	switch mode {
	case DepthCapture:
		p := &progs.layer
		dev.UseProgram(p.id)
		dev.Uniform4f(p.locColor, l.Color)
		dev.UniformMatrix4(p.locModel, t.Model)
		dev.UniformMatrix4(p.locView, t.LightView)
		dev.UniformMatrix4(p.locProjection, t.LightProjection)

	case Shaded:
		p := &progs.shadow
		dev.UseProgram(p.id)
		dev.BindTexture(TextureUnitShadow, depth.Texture)
		dev.Uniform1i(p.locSampler, TextureUnitShadow)
		dev.Uniform4f(p.locColor, l.Color)
		hasNormals := int32(0)
		if l.HasNormals() {
			hasNormals = 1
		}
		dev.Uniform1i(p.locHasNormals, hasNormals)
		dev.UniformMatrix4(p.locModel, t.Model)
		dev.UniformMatrix4(p.locView, t.View)
		dev.UniformMatrix4(p.locProjection, t.Projection)
		dev.UniformMatrix4(p.locLightView, t.LightView)
		dev.UniformMatrix4(p.locLightProjection, t.LightProjection)
		dev.Uniform3f(p.locLightDir, t.LightDir.Array())

	default:
		panic(fmt.Sprintf("scene: unknown render mode %v", mode))
	}

	dev.DrawIndexed(l.vao, l.indexBuf, count)
}
