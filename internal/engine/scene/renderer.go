// Package scene draws named geometry layers as a lit, shadow-mapped scene.
//
// A frame runs in two passes: the layers are first drawn from the light into
// a depth-only target, then drawn from the camera while sampling that depth
// map with a 3x3 PCF test. The depth map can be shown instead of the scene
// for debugging.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/layerview/internal/engine/camera"
	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/shadow"
	"github.com/Faultbox/layerview/internal/logger"
)

// ClearColor is the background color.
var ClearColor = [4]float32{190.0 / 255.0, 210.0 / 255.0, 215.0 / 255.0, 1}

// Config contains renderer options.
type Config struct {
	ShadowResolution int32
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{ShadowResolution: shadow.DefaultResolution}
}

// Renderer owns the programs, shadow target and layers, and runs frames.
type Renderer struct {
	dev    gpu.Device
	log    *zap.Logger
	progs  *Programs
	target *shadow.Target
	quad   *depthView
	layers *Collection

	frames uint64
}

// New sets the global pipeline state and creates every GPU resource a frame
// needs. Any failure here is fatal for the renderer.
func New(dev gpu.Device, cfg Config) (*Renderer, error) {
	r := &Renderer{dev: dev, log: logger.Named("scene")}

	initState(dev)

	var err error
	if r.progs, err = NewPrograms(dev); err != nil {
		return nil, fmt.Errorf("creating programs: %w", err)
	}

	if r.target, err = shadow.New(dev, cfg.ShadowResolution); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating shadow target: %w", err)
	}

	if r.quad, err = newDepthView(dev, r.progs); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating depth view: %w", err)
	}

	r.layers = NewCollection(dev, r.progs)

	r.log.Debug("renderer ready", zap.Int32("shadowResolution", r.target.Size()))
	return r, nil
}

func initState(dev gpu.Device) {
	dev.Enable(gpu.Blend)
	dev.BlendAlpha()
	dev.Enable(gpu.CullFace)
	dev.CullBack()
	dev.Enable(gpu.DepthTest)
	dev.DepthLess()
	dev.Enable(gpu.PolygonOffsetFill)
}

// Layers returns the layer collection.
func (r *Renderer) Layers() *Collection { return r.layers }

// ShadowResolution returns the side length of the shadow map.
func (r *Renderer) ShadowResolution() int32 { return r.target.Size() }

// Frames returns how many frames completed without error.
func (r *Renderer) Frames() uint64 { return r.frames }

// RenderFrame draws one frame into target (gpu.Screen or an offscreen
// framebuffer) of the given size. A panic raised while drawing is returned
// as an error so the caller can keep scheduling frames.
func (r *Renderer) RenderFrame(p camera.Params, target gpu.Framebuffer, width, height int32) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.dev.BindFramebuffer(target)
			err = fmt.Errorf("frame aborted: %v", rec)
		}
	}()

	dev := r.dev
	dev.BindFramebuffer(target)
	dev.Viewport(0, 0, width, height)
	dev.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	dev.Clear(gpu.ClearColorBuffer | gpu.ClearDepthBuffer)

	t := camera.Derive(p, r.layers.Centroid(), camera.Aspect(width, height), r.target.Size())

	pass := r.target.Begin()
	r.layers.Render(DepthCapture, t, shadow.DepthMap{})
	depth := pass.End()

	dev.Viewport(0, 0, width, height)
	if p.ShowShadowMap {
		r.quad.draw(dev, r.progs, depth)
	} else {
		r.layers.Render(Shaded, t, depth)
	}

	r.frames++
	return nil
}

// Destroy releases every GPU resource. Safe on a partially built renderer.
func (r *Renderer) Destroy() {
	if r.layers != nil {
		r.layers.Destroy()
		r.layers = nil
	}
	if r.quad != nil {
		r.quad.destroy(r.dev)
		r.quad = nil
	}
	if r.target != nil {
		r.target.Destroy()
		r.target = nil
	}
	if r.progs != nil {
		r.progs.Destroy(r.dev)
		r.progs = nil
	}
}
