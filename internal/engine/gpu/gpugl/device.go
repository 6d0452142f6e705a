// Package gpugl implements gpu.Device on OpenGL 4.1 core via go-gl.
// All methods must be called on the thread that owns the GL context.
package gpugl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/shader"
	"github.com/Faultbox/layerview/internal/logger"
	"github.com/Faultbox/layerview/pkg/math"
)

// Device is the go-gl backed gpu.Device.
type Device struct{}

var _ gpu.Device = (*Device)(nil)

// New loads GL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)
	return &Device{}, nil
}

// CreateTexture2D allocates an uninitialized 2D texture.
func (d *Device) CreateTexture2D(spec gpu.TextureSpec) (gpu.Texture, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return 0, fmt.Errorf("texture size %dx%d", spec.Width, spec.Height)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	switch spec.Format {
	case gpu.FormatDepth32F:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, spec.Width, spec.Height, 0,
			gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	default:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, spec.Width, spec.Height, 0,
			gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}

	filter := int32(gl.NEAREST)
	if spec.Filter == gpu.FilterLinear {
		filter = gl.LINEAR
	}
	wrap := int32(gl.CLAMP_TO_EDGE)
	if spec.Wrap == gpu.WrapRepeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("TexImage2D"); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return gpu.Texture(tex), nil
}

// CreateFramebuffer creates a framebuffer with tex at the given attachment.
// Depth-only targets get no draw or read buffer.
func (d *Device) CreateFramebuffer(attachment gpu.Attachment, tex gpu.Texture) (gpu.Framebuffer, error) {
	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	if attachment == gpu.AttachDepth {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, uint32(tex), 0)
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	} else {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(tex), 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return gpu.Framebuffer(fbo), nil
}

// AttachTexture adds tex to an existing framebuffer and rechecks completeness.
func (d *Device) AttachTexture(f gpu.Framebuffer, attachment gpu.Attachment, tex gpu.Texture) error {
	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
	point := uint32(gl.COLOR_ATTACHMENT0)
	if attachment == gpu.AttachDepth {
		point = gl.DEPTH_ATTACHMENT
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, gl.TEXTURE_2D, uint32(tex), 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// CreateProgram compiles and links a program.
func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	p, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	return gpu.Program(p), nil
}

func (d *Device) AttribLocation(p gpu.Program, name string) int32 {
	return shader.GetAttrib(uint32(p), name)
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	return shader.GetUniform(uint32(p), name)
}

// CreateVertexBuffer uploads float data to a static ARRAY_BUFFER.
func (d *Device) CreateVertexBuffer(data []float32) (gpu.Buffer, error) {
	return createBuffer(gl.ARRAY_BUFFER, len(data)*4, ptr(data))
}

// CreateIndexBuffer uploads uint32 indices to a static ELEMENT_ARRAY_BUFFER.
func (d *Device) CreateIndexBuffer(data []uint32) (gpu.Buffer, error) {
	// Unbind any VAO so the element binding does not leak into it.
	gl.BindVertexArray(0)
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	return createBuffer(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, p)
}

func createBuffer(target uint32, size int, data unsafe.Pointer) (gpu.Buffer, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(target, buf)
	gl.BufferData(target, size, data, gl.STATIC_DRAW)
	gl.BindBuffer(target, 0)
	if err := glError("BufferData"); err != nil {
		gl.DeleteBuffers(1, &buf)
		return 0, err
	}
	return gpu.Buffer(buf), nil
}

func ptr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

// CreateVertexArray ties each attribute slot to its float buffer.
func (d *Device) CreateVertexArray(attribs ...gpu.VertexAttrib) (gpu.VertexArray, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	for _, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(a.Buffer))
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(a.Location)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := glError("VertexAttribPointer"); err != nil {
		gl.DeleteVertexArrays(1, &vao)
		return 0, err
	}
	return gpu.VertexArray(vao), nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) DeleteFramebuffer(f gpu.Framebuffer) {
	id := uint32(f)
	gl.DeleteFramebuffers(1, &id)
}

func (d *Device) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) DeleteVertexArray(v gpu.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

var capabilities = map[gpu.Capability]uint32{
	gpu.Blend:             gl.BLEND,
	gpu.CullFace:          gl.CULL_FACE,
	gpu.DepthTest:         gl.DEPTH_TEST,
	gpu.PolygonOffsetFill: gl.POLYGON_OFFSET_FILL,
}

func (d *Device) Enable(c gpu.Capability) {
	gl.Enable(capabilities[c])
}

func (d *Device) BlendAlpha() {
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (d *Device) CullBack() {
	gl.CullFace(gl.BACK)
}

func (d *Device) DepthLess() {
	gl.DepthFunc(gl.LESS)
}

func (d *Device) PolygonOffset(factor, units float32) {
	gl.PolygonOffset(factor, units)
}

func (d *Device) BindFramebuffer(f gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

func (d *Device) BoundFramebuffer() gpu.Framebuffer {
	var fbo int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &fbo)
	return gpu.Framebuffer(fbo)
}

func (d *Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) CurrentViewport() [4]int32 {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return vp
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) BindTexture(unit uint32, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) Uniform3f(loc int32, v [3]float32) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

func (d *Device) Uniform4f(loc int32, v [4]float32) {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

func (d *Device) UniformMatrix4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

// DrawIndexed draws count uint32 indices as triangles.
func (d *Device) DrawIndexed(vao gpu.VertexArray, indices gpu.Buffer, count int32) {
	gl.BindVertexArray(uint32(vao))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indices))
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *Device) DrawArrays(vao gpu.VertexArray, first, count int32) {
	gl.BindVertexArray(uint32(vao))
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}

// ReadPixels reads RGBA8 pixels from the bound framebuffer, bottom row first.
func (d *Device) ReadPixels(x, y, width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// glError drains the GL error queue and reports every pending error.
func glError(op string) error {
	var errs []error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		errs = append(errs, fmt.Errorf("%s: GL error 0x%x", op, code))
	}
	return errors.Join(errs...)
}
