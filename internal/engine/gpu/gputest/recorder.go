// Package gputest provides a recording gpu.Device for tests that run without
// a GL context.
package gputest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/pkg/math"
)

// ErrInjected is returned by creation calls named in Recorder.Fail.
var ErrInjected = errors.New("injected failure")

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

// Recorder implements gpu.Device by recording every call. Creation calls hand
// out increasing handles starting at 1.
type Recorder struct {
	Calls []Call

	// Fail maps a creation op name (e.g. "CreateProgram") to a forced error.
	Fail map[string]bool

	// Live tracks handles that were created and not yet deleted, keyed by kind.
	Live map[string]map[uint32]bool

	next     uint32
	fbo      gpu.Framebuffer
	viewport [4]int32
	programs map[gpu.Program][2]string
	uniforms map[string]int32
}

var _ gpu.Device = (*Recorder)(nil)

// New returns an empty recorder with an 800x600 screen viewport.
func New() *Recorder {
	return &Recorder{
		Fail:     map[string]bool{},
		Live:     map[string]map[uint32]bool{},
		viewport: [4]int32{0, 0, 800, 600},
		programs: map[gpu.Program][2]string{},
		uniforms: map[string]int32{},
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) create(op, kind string) (uint32, error) {
	r.record(op)
	if r.Fail[op] {
		return 0, fmt.Errorf("%s: %w", op, ErrInjected)
	}
	r.next++
	if r.Live[kind] == nil {
		r.Live[kind] = map[uint32]bool{}
	}
	r.Live[kind][r.next] = true
	return r.next, nil
}

func (r *Recorder) release(op, kind string, id uint32) {
	r.record(op, id)
	delete(r.Live[kind], id)
}

// LiveCount returns how many handles of kind are still allocated.
func (r *Recorder) LiveCount(kind string) int {
	return len(r.Live[kind])
}

// Ops returns the op names in call order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Find returns every recorded call with the given op.
func (r *Recorder) Find(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps handle state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// ProgramSource returns the sources a program was created from.
func (r *Recorder) ProgramSource(p gpu.Program) (vertex, fragment string) {
	s := r.programs[p]
	return s[0], s[1]
}

func (r *Recorder) CreateTexture2D(spec gpu.TextureSpec) (gpu.Texture, error) {
	id, err := r.create("CreateTexture2D", "texture")
	if err == nil {
		r.Calls[len(r.Calls)-1].Args = []any{spec}
	}
	return gpu.Texture(id), err
}

func (r *Recorder) CreateFramebuffer(attachment gpu.Attachment, tex gpu.Texture) (gpu.Framebuffer, error) {
	id, err := r.create("CreateFramebuffer", "framebuffer")
	if err == nil {
		r.Calls[len(r.Calls)-1].Args = []any{attachment, tex}
	}
	return gpu.Framebuffer(id), err
}

func (r *Recorder) AttachTexture(f gpu.Framebuffer, attachment gpu.Attachment, tex gpu.Texture) error {
	r.record("AttachTexture", f, attachment, tex)
	if r.Fail["AttachTexture"] {
		return fmt.Errorf("AttachTexture: %w", ErrInjected)
	}
	return nil
}

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	id, err := r.create("CreateProgram", "program")
	if err == nil {
		r.programs[gpu.Program(id)] = [2]string{vertexSrc, fragmentSrc}
	}
	return gpu.Program(id), err
}

// AttribLocation resolves well-known attribute names to fixed slots.
func (r *Recorder) AttribLocation(p gpu.Program, name string) int32 {
	switch name {
	case "position":
		return 0
	case "normal":
		return 1
	}
	return -1
}

// UniformLocation returns a stable, unique location per (program, name).
func (r *Recorder) UniformLocation(p gpu.Program, name string) int32 {
	key := fmt.Sprintf("%d/%s", p, name)
	loc, ok := r.uniforms[key]
	if !ok {
		loc = int32(len(r.uniforms))
		r.uniforms[key] = loc
	}
	return loc
}

func (r *Recorder) CreateVertexBuffer(data []float32) (gpu.Buffer, error) {
	id, err := r.create("CreateVertexBuffer", "buffer")
	if err == nil {
		r.Calls[len(r.Calls)-1].Args = []any{len(data)}
	}
	return gpu.Buffer(id), err
}

func (r *Recorder) CreateIndexBuffer(data []uint32) (gpu.Buffer, error) {
	id, err := r.create("CreateIndexBuffer", "buffer")
	if err == nil {
		r.Calls[len(r.Calls)-1].Args = []any{len(data)}
	}
	return gpu.Buffer(id), err
}

func (r *Recorder) CreateVertexArray(attribs ...gpu.VertexAttrib) (gpu.VertexArray, error) {
	id, err := r.create("CreateVertexArray", "vertexarray")
	if err == nil {
		r.Calls[len(r.Calls)-1].Args = []any{len(attribs)}
	}
	return gpu.VertexArray(id), err
}

func (r *Recorder) DeleteTexture(t gpu.Texture) { r.release("DeleteTexture", "texture", uint32(t)) }
func (r *Recorder) DeleteFramebuffer(f gpu.Framebuffer) {
	r.release("DeleteFramebuffer", "framebuffer", uint32(f))
}
func (r *Recorder) DeleteProgram(p gpu.Program) { r.release("DeleteProgram", "program", uint32(p)) }
func (r *Recorder) DeleteBuffer(b gpu.Buffer)   { r.release("DeleteBuffer", "buffer", uint32(b)) }
func (r *Recorder) DeleteVertexArray(v gpu.VertexArray) {
	r.release("DeleteVertexArray", "vertexarray", uint32(v))
}

func (r *Recorder) Enable(c gpu.Capability) { r.record("Enable", c) }
func (r *Recorder) BlendAlpha()             { r.record("BlendAlpha") }
func (r *Recorder) CullBack()               { r.record("CullBack") }
func (r *Recorder) DepthLess()              { r.record("DepthLess") }

func (r *Recorder) PolygonOffset(factor, units float32) {
	r.record("PolygonOffset", factor, units)
}

func (r *Recorder) BindFramebuffer(f gpu.Framebuffer) {
	r.fbo = f
	r.record("BindFramebuffer", f)
}

func (r *Recorder) BoundFramebuffer() gpu.Framebuffer { return r.fbo }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.viewport = [4]int32{x, y, width, height}
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) CurrentViewport() [4]int32 { return r.viewport }

func (r *Recorder) ClearColor(cr, g, b, a float32) { r.record("ClearColor", cr, g, b, a) }
func (r *Recorder) Clear(mask gpu.ClearMask)       { r.record("Clear", mask) }
func (r *Recorder) UseProgram(p gpu.Program)       { r.record("UseProgram", p) }

func (r *Recorder) BindTexture(unit uint32, t gpu.Texture) {
	r.record("BindTexture", unit, t)
}

func (r *Recorder) Uniform1i(loc int32, v int32)      { r.record("Uniform1i", loc, v) }
func (r *Recorder) Uniform3f(loc int32, v [3]float32) { r.record("Uniform3f", loc, v) }
func (r *Recorder) Uniform4f(loc int32, v [4]float32) { r.record("Uniform4f", loc, v) }

func (r *Recorder) UniformMatrix4(loc int32, m math.Mat4) {
	r.record("UniformMatrix4", loc, m)
}

func (r *Recorder) DrawIndexed(vao gpu.VertexArray, indices gpu.Buffer, count int32) {
	r.record("DrawIndexed", vao, indices, count)
}

func (r *Recorder) DrawArrays(vao gpu.VertexArray, first, count int32) {
	r.record("DrawArrays", vao, first, count)
}

// ReadPixels returns a zeroed buffer of the requested size.
func (r *Recorder) ReadPixels(x, y, width, height int32) []byte {
	r.record("ReadPixels", x, y, width, height)
	return make([]byte, int(width)*int(height)*4)
}
