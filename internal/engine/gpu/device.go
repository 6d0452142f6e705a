// Package gpu describes the graphics capability surface the renderer consumes.
// Resources are created once and referenced afterwards by opaque handles.
package gpu

import "github.com/Faultbox/layerview/pkg/math"

// Opaque resource handles. The zero value means "none"; for Framebuffer it
// is the default (window) target.
type (
	Texture     uint32
	Framebuffer uint32
	Program     uint32
	Buffer      uint32
	VertexArray uint32
)

// Screen is the default framebuffer.
const Screen Framebuffer = 0

// TextureFormat selects texture storage.
type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatDepth32F
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
)

// TextureSpec describes a 2D texture allocation.
type TextureSpec struct {
	Width, Height int32
	Format        TextureFormat
	Filter        Filter
	Wrap          Wrap
}

// Attachment is a framebuffer attachment point.
type Attachment int

const (
	AttachColor Attachment = iota
	AttachDepth
)

// ClearMask selects buffers to clear.
type ClearMask uint32

const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearDepthBuffer
)

// Capability is a toggleable piece of fixed-function state.
type Capability int

const (
	Blend Capability = iota
	CullFace
	DepthTest
	PolygonOffsetFill
)

// VertexAttrib binds a float buffer to an attribute slot.
type VertexAttrib struct {
	Location uint32
	Buffer   Buffer
	Size     int32 // components per vertex
}

// Device is everything the scene needs from the graphics backend.
type Device interface {
	CreateTexture2D(spec TextureSpec) (Texture, error)
	CreateFramebuffer(attachment Attachment, tex Texture) (Framebuffer, error)
	AttachTexture(f Framebuffer, attachment Attachment, tex Texture) error
	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) int32
	CreateVertexBuffer(data []float32) (Buffer, error)
	CreateIndexBuffer(data []uint32) (Buffer, error)
	CreateVertexArray(attribs ...VertexAttrib) (VertexArray, error)

	DeleteTexture(t Texture)
	DeleteFramebuffer(f Framebuffer)
	DeleteProgram(p Program)
	DeleteBuffer(b Buffer)
	DeleteVertexArray(v VertexArray)

	Enable(c Capability)
	BlendAlpha()
	CullBack()
	DepthLess()
	PolygonOffset(factor, units float32)

	BindFramebuffer(f Framebuffer)
	BoundFramebuffer() Framebuffer
	Viewport(x, y, width, height int32)
	CurrentViewport() [4]int32
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)

	UseProgram(p Program)
	BindTexture(unit uint32, t Texture)
	Uniform1i(loc int32, v int32)
	Uniform3f(loc int32, v [3]float32)
	Uniform4f(loc int32, v [4]float32)
	UniformMatrix4(loc int32, m math.Mat4)

	DrawIndexed(vao VertexArray, indices Buffer, count int32)
	DrawArrays(vao VertexArray, first, count int32)

	ReadPixels(x, y, width, height int32) []byte
}
