// Package shadow provides the off-screen depth target used as a shadow map,
// the light projection that feeds it, and a CPU reference of the shadow test.
package shadow

import (
	"fmt"

	"github.com/Faultbox/layerview/internal/engine/gpu"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Target is a square depth-only render target. It is created once and never
// resized; a different resolution needs a new Target.
type Target struct {
	dev  gpu.Device
	fbo  gpu.Framebuffer
	tex  gpu.Texture
	size int32
}

// DepthMap is the readable result of a finished depth pass.
type DepthMap struct {
	Texture gpu.Texture
	Size    int32
}

// New allocates the depth texture and framebuffer. Resolution should be a
// power of 2 (e.g. 1024, 2048, 4096); non-positive values use DefaultResolution.
func New(dev gpu.Device, resolution int32) (*Target, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	tex, err := dev.CreateTexture2D(gpu.TextureSpec{
		Width:  resolution,
		Height: resolution,
		Format: gpu.FormatDepth32F,
		Filter: gpu.FilterNearest,
		Wrap:   gpu.WrapClampToEdge,
	})
	if err != nil {
		return nil, fmt.Errorf("creating depth texture: %w", err)
	}

	fbo, err := dev.CreateFramebuffer(gpu.AttachDepth, tex)
	if err != nil {
		dev.DeleteTexture(tex)
		return nil, fmt.Errorf("creating depth framebuffer: %w", err)
	}

	return &Target{dev: dev, fbo: fbo, tex: tex, size: resolution}, nil
}

// Size returns the shadow map resolution.
func (t *Target) Size() int32 {
	return t.size
}

// Begin redirects rendering into the depth texture: binds the target, sets
// the viewport to size x size and clears depth. The returned Pass must be
// ended before the depth map can be read.
func (t *Target) Begin() *Pass {
	p := &Pass{
		target:       t,
		prevFBO:      t.dev.BoundFramebuffer(),
		prevViewport: t.dev.CurrentViewport(),
	}

	t.dev.BindFramebuffer(t.fbo)
	t.dev.Viewport(0, 0, t.size, t.size)
	t.dev.Clear(gpu.ClearDepthBuffer)
	return p
}

// Pass is an in-progress depth pass.
type Pass struct {
	target       *Target
	prevFBO      gpu.Framebuffer
	prevViewport [4]int32
	ended        bool
}

// End restores the previous render target and viewport and hands out the
// depth map for reading. Calling End again is a no-op.
func (p *Pass) End() DepthMap {
	m := DepthMap{Texture: p.target.tex, Size: p.target.size}
	if p.ended {
		return m
	}
	p.ended = true

	dev := p.target.dev
	dev.BindFramebuffer(p.prevFBO)
	vp := p.prevViewport
	dev.Viewport(vp[0], vp[1], vp[2], vp[3])
	return m
}

// Destroy releases the framebuffer and depth texture.
func (t *Target) Destroy() {
	if t.fbo != 0 {
		t.dev.DeleteFramebuffer(t.fbo)
		t.fbo = 0
	}
	if t.tex != 0 {
		t.dev.DeleteTexture(t.tex)
		t.tex = 0
	}
}
