// Package framebuffer provides an offscreen color+depth render target.
package framebuffer

import (
	"fmt"

	"github.com/Faultbox/layerview/internal/engine/gpu"
)

// Framebuffer is an offscreen render target whose color attachment can be
// sampled, e.g. shown as an image in the control panel.
type Framebuffer struct {
	dev          gpu.Device
	fbo          gpu.Framebuffer
	colorTexture gpu.Texture
	depthTexture gpu.Texture
	width        int32
	height       int32
}

// New creates a framebuffer with the specified dimensions.
func New(dev gpu.Device, width, height int32) (*Framebuffer, error) {
	fb := &Framebuffer{dev: dev}
	fb.width, fb.height = clampSize(width, height)

	if err := fb.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func clampSize(width, height int32) (int32, int32) {
	return max(width, 1), max(height, 1)
}

func (fb *Framebuffer) create() error {
	var err error
	fb.colorTexture, err = fb.dev.CreateTexture2D(gpu.TextureSpec{
		Width:  fb.width,
		Height: fb.height,
		Format: gpu.FormatRGBA8,
		Filter: gpu.FilterLinear,
		Wrap:   gpu.WrapClampToEdge,
	})
	if err != nil {
		return fmt.Errorf("color texture: %w", err)
	}

	fb.depthTexture, err = fb.dev.CreateTexture2D(gpu.TextureSpec{
		Width:  fb.width,
		Height: fb.height,
		Format: gpu.FormatDepth32F,
		Filter: gpu.FilterNearest,
		Wrap:   gpu.WrapClampToEdge,
	})
	if err != nil {
		fb.Destroy()
		return fmt.Errorf("depth texture: %w", err)
	}

	fb.fbo, err = fb.dev.CreateFramebuffer(gpu.AttachColor, fb.colorTexture)
	if err != nil {
		fb.Destroy()
		return err
	}
	if err := fb.dev.AttachTexture(fb.fbo, gpu.AttachDepth, fb.depthTexture); err != nil {
		fb.Destroy()
		return fmt.Errorf("depth attachment: %w", err)
	}
	return nil
}

// Target returns the handle to render into.
func (fb *Framebuffer) Target() gpu.Framebuffer {
	return fb.fbo
}

// ColorTexture returns the color attachment texture.
func (fb *Framebuffer) ColorTexture() gpu.Texture {
	return fb.colorTexture
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize rebuilds the attachments when the dimensions change. The new
// attachments are built before the old ones are released, so on failure the
// framebuffer keeps its previous size and target.
func (fb *Framebuffer) Resize(width, height int32) error {
	width, height = clampSize(width, height)
	if fb.fbo != 0 && width == fb.width && height == fb.height {
		return nil
	}

	next := &Framebuffer{dev: fb.dev, width: width, height: height}
	if err := next.create(); err != nil {
		return fmt.Errorf("resizing framebuffer to %dx%d: %w", width, height, err)
	}
	fb.Destroy()
	*fb = *next
	return nil
}

// Destroy releases all GPU resources.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		fb.dev.DeleteFramebuffer(fb.fbo)
		fb.fbo = 0
	}
	if fb.colorTexture != 0 {
		fb.dev.DeleteTexture(fb.colorTexture)
		fb.colorTexture = 0
	}
	if fb.depthTexture != 0 {
		fb.dev.DeleteTexture(fb.depthTexture)
		fb.depthTexture = 0
	}
}
