package scene

import (
	"fmt"

	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/shadow"
)

// Two triangles covering clip space.
var quadVertices = []float32{
	-1, -1, 0,
	1, -1, 0,
	1, 1, 0,
	1, 1, 0,
	-1, 1, 0,
	-1, -1, 0,
}

// depthView draws a depth map over the whole viewport.
type depthView struct {
	vbo gpu.Buffer
	vao gpu.VertexArray
}

func newDepthView(dev gpu.Device, progs *Programs) (*depthView, error) {
	vbo, err := dev.CreateVertexBuffer(quadVertices)
	if err != nil {
		return nil, fmt.Errorf("depth view quad buffer: %w", err)
	}
	vao, err := dev.CreateVertexArray(gpu.VertexAttrib{
		Location: uint32(progs.depthView.locPosition),
		Buffer:   vbo,
		Size:     3,
	})
	if err != nil {
		dev.DeleteBuffer(vbo)
		return nil, fmt.Errorf("depth view quad vertex array: %w", err)
	}
	return &depthView{vbo: vbo, vao: vao}, nil
}

func (q *depthView) draw(dev gpu.Device, progs *Programs, depth shadow.DepthMap) {
	dev.UseProgram(progs.depthView.id)
	dev.BindTexture(TextureUnitShadow, depth.Texture)
	dev.Uniform1i(progs.depthView.locSampler, TextureUnitShadow)
	dev.DrawArrays(q.vao, 0, int32(len(quadVertices)/3))
}

func (q *depthView) destroy(dev gpu.Device) {
	dev.DeleteVertexArray(q.vao)
	dev.DeleteBuffer(q.vbo)
}
