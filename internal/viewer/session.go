// Package viewer runs the interactive layer viewer: it owns the renderer and
// the viewing parameters, applies user actions and schedules frames.
package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/layerview/internal/config"
	"github.com/Faultbox/layerview/internal/control"
	"github.com/Faultbox/layerview/internal/engine/debug"
	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/scene"
	"github.com/Faultbox/layerview/internal/layerfile"
	"github.com/Faultbox/layerview/internal/logger"
)

// ErrCancelled is what a Picker returns when the user backs out.
var ErrCancelled = errors.New("cancelled")

// Picker asks the user for a file path. It may block; it is always called
// off the main thread.
type Picker func() (string, error)

type pickResult struct {
	path string
	err  error
}

// Session is one viewer instance bound to a graphics device.
type Session struct {
	cfg      *config.Config
	dev      gpu.Device
	renderer *scene.Renderer
	state    *control.State
	shots    *debug.ScreenshotCapture

	picker  Picker
	picked  chan pickResult
	picking bool

	screenshotPending bool
	status            string

	log      *zap.Logger
	frameLog *zap.Logger
}

// New creates the renderer on dev and loads the configured layer file, if
// any. Renderer creation failures are returned; a bad layer file is only
// logged.
func New(cfg *config.Config, dev gpu.Device, picker Picker) (*Session, error) {
	state, err := control.FromConfig(cfg.View)
	if err != nil {
		return nil, fmt.Errorf("view config: %w", err)
	}

	shots := debug.NewScreenshotCapture(cfg.Screenshot.Dir, "layerview")
	if err := shots.SetFormat(cfg.Screenshot.Format); err != nil {
		return nil, err
	}

	r, err := scene.New(dev, scene.Config{ShadowResolution: int32(cfg.Shadow.Resolution)})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	s := &Session{
		cfg:      cfg,
		dev:      dev,
		renderer: r,
		state:    state,
		shots:    shots,
		picker:   picker,
		picked:   make(chan pickResult, 1),
		log:      logger.Named("viewer"),
		frameLog: logger.FrameErrors(),
	}

	if path := cfg.Data.LayersFile; path != "" {
		if _, err := s.LoadFile(path); err != nil {
			s.log.Error("failed to load layers", zap.String("path", path), zap.Error(err))
		}
	}
	return s, nil
}

// State returns the interactive parameters.
func (s *Session) State() *control.State { return s.state }

// Layers returns the loaded layers.
func (s *Session) Layers() *scene.Collection { return s.renderer.Layers() }

// Status returns a one-line message about the last user-visible event.
func (s *Session) Status() string { return s.status }

// Frames returns how many frames rendered without error.
func (s *Session) Frames() uint64 { return s.renderer.Frames() }

// ShadowResolution returns the side length of the shadow map in texels.
func (s *Session) ShadowResolution() int32 { return s.renderer.ShadowResolution() }

// Picking reports whether a file dialog is open.
func (s *Session) Picking() bool { return s.picking }

// LoadFile adds every valid layer in the file, replacing layers of the same
// name. Entries that fail to decode or validate are skipped and logged. It
// returns how many layers were added.
func (s *Session) LoadFile(path string) (int, error) {
	file, err := layerfile.Load(path)
	if err != nil {
		s.status = "Failed to load " + path
		return 0, err
	}

	for _, rej := range file.Rejected {
		s.log.Warn("layer rejected", zap.String("layer", rej.Name), zap.Error(rej.Err))
	}

	added := 0
	col := s.renderer.Layers()
	for _, l := range file.Layers {
		if err := col.Add(l.Name, l.Coordinates, l.Indices, l.Color, l.Normals); err != nil {
			s.log.Warn("layer rejected", zap.String("layer", l.Name), zap.Error(err))
			continue
		}
		added++
	}

	total := len(file.Layers) + len(file.Rejected)
	s.log.Info("layers loaded",
		zap.String("path", path),
		zap.Int("added", added),
		zap.Int("rejected", total-added),
		zap.Int("vertices", col.VertexCount()),
		zap.Any("centroid", col.Centroid()),
	)
	s.status = fmt.Sprintf("Loaded %d of %d layers from %s", added, total, path)
	return added, nil
}

// RemoveLayer drops a layer and recenters the view on what remains.
func (s *Session) RemoveLayer(name string) {
	col := s.renderer.Layers()
	col.Remove(name)
	col.UpdateCentroid()
	s.status = "Removed " + name
}

// ClearLayers drops every layer.
func (s *Session) ClearLayers() {
	s.renderer.Layers().Clear()
	s.status = "Cleared layers"
}

// OpenFile starts the file dialog in the background. The chosen file is
// loaded on a later frame, on the main thread.
func (s *Session) OpenFile() {
	if s.picker == nil || s.picking {
		return
	}
	s.picking = true
	go func() {
		path, err := s.picker()
		s.picked <- pickResult{path: path, err: err}
	}()
}

// poll applies a finished file dialog, if any.
func (s *Session) poll() {
	select {
	case res := <-s.picked:
		s.picking = false
		switch {
		case errors.Is(res.err, ErrCancelled):
		case res.err != nil:
			s.log.Error("file dialog failed", zap.Error(res.err))
		default:
			if _, err := s.LoadFile(res.path); err != nil {
				s.log.Error("failed to load layers", zap.String("path", res.path), zap.Error(err))
			}
		}
	default:
	}
}

// Handle applies one action. It returns true when the viewer should quit.
func (s *Session) Handle(a control.Action) bool {
	if s.state.Apply(a) {
		return false
	}
	switch a {
	case control.OpenFile:
		s.OpenFile()
	case control.Screenshot:
		s.screenshotPending = true
	case control.SaveView:
		if _, err := s.SaveView(); err != nil {
			s.log.Error("failed to save view", zap.Error(err))
		}
	case control.Quit:
		return true
	}
	return false
}

// RequestScreenshot captures the next rendered frame.
func (s *Session) RequestScreenshot() { s.screenshotPending = true }

// SaveView writes the current viewing parameters into the config file.
func (s *Session) SaveView() (string, error) {
	s.cfg.View = s.state.ViewConfig()
	path, err := s.cfg.Save()
	if err != nil {
		s.status = "Failed to save view"
		return "", err
	}
	s.log.Info("view saved", zap.String("path", path))
	s.status = "Saved view to " + path
	return path, nil
}

// Frame renders one frame into target. Failures are logged with sampling
// and never stop the caller's loop.
func (s *Session) Frame(target gpu.Framebuffer, width, height int32) {
	s.poll()

	if err := s.renderer.RenderFrame(s.state.Params(), target, width, height); err != nil {
		s.frameLog.Error("frame failed", zap.Error(err))
		return
	}

	if s.screenshotPending {
		s.screenshotPending = false
		if _, err := s.capture(target, width, height); err != nil {
			s.log.Error("screenshot failed", zap.Error(err))
		}
	}
}

func (s *Session) capture(target gpu.Framebuffer, width, height int32) (string, error) {
	prev := s.dev.BoundFramebuffer()
	s.dev.BindFramebuffer(target)
	pixels := s.dev.ReadPixels(0, 0, width, height)
	s.dev.BindFramebuffer(prev)

	path, err := s.shots.CaptureFromPixels(pixels, int(width), int(height))
	if err != nil {
		return "", err
	}
	s.log.Info("screenshot saved", zap.String("path", path))
	s.status = "Saved " + path
	return path, nil
}

// Close releases every GPU resource.
func (s *Session) Close() {
	s.renderer.Destroy()
}
