// Package control owns the interactive viewing parameters and the actions
// that change them. Frontends translate their events into Actions; the frame
// loop reads a copy of the parameters each frame.
package control

import (
	"fmt"

	"github.com/Faultbox/layerview/internal/config"
	"github.com/Faultbox/layerview/internal/engine/camera"
)

// Action is a user command.
type Action int

const (
	None Action = iota
	RotateLeft
	RotateRight
	LightLeft
	LightRight
	ZoomIn
	ZoomOut
	ToggleProjection
	ToggleShadowMap
	OpenFile
	Screenshot
	SaveView
	Quit
)

var actionNames = [...]string{
	None:             "none",
	RotateLeft:       "rotate-left",
	RotateRight:      "rotate-right",
	LightLeft:        "light-left",
	LightRight:       "light-right",
	ZoomIn:           "zoom-in",
	ZoomOut:          "zoom-out",
	ToggleProjection: "toggle-projection",
	ToggleShadowMap:  "toggle-shadow-map",
	OpenFile:         "open-file",
	Screenshot:       "screenshot",
	SaveView:         "save-view",
	Quit:             "quit",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Step sizes for key-driven changes.
const (
	RotateStep = 5 // degrees
	ZoomStep   = 2 // zoom units out of 100
)

// State holds the current viewing parameters. Every setter keeps them in
// range, so the renderer never has to validate.
type State struct {
	params camera.Params
}

// New returns a State starting from p, clamped into range.
func New(p camera.Params) *State {
	s := &State{}
	s.SetRotation(p.Rotation)
	s.SetLightRotation(p.LightRotation)
	s.SetZoom(p.Zoom)
	s.params.Projection = p.Projection
	s.params.ShowShadowMap = p.ShowShadowMap
	return s
}

// FromConfig builds a State from the view section of the config.
func FromConfig(v config.ViewConfig) (*State, error) {
	proj, err := camera.ParseProjection(v.Projection)
	if err != nil {
		return nil, err
	}
	return New(camera.Params{
		Rotation:      v.Rotation,
		LightRotation: v.LightRotation,
		Zoom:          v.Zoom,
		Projection:    proj,
		ShowShadowMap: v.ShowShadowMap,
	}), nil
}

// ViewConfig returns the parameters in config form for saving.
func (s *State) ViewConfig() config.ViewConfig {
	return config.ViewConfig{
		Rotation:      s.params.Rotation,
		LightRotation: s.params.LightRotation,
		Zoom:          s.params.Zoom,
		Projection:    s.params.Projection.String(),
		ShowShadowMap: s.params.ShowShadowMap,
	}
}

// Params returns a copy of the current parameters.
func (s *State) Params() camera.Params { return s.params }

// Apply performs a view action. It reports false for actions the State does
// not own (file, screenshot, save, quit), which the caller handles.
func (s *State) Apply(a Action) bool {
	switch a {
	case RotateLeft:
		s.SetRotation(s.params.Rotation - RotateStep)
	case RotateRight:
		s.SetRotation(s.params.Rotation + RotateStep)
	case LightLeft:
		s.SetLightRotation(s.params.LightRotation - RotateStep)
	case LightRight:
		s.SetLightRotation(s.params.LightRotation + RotateStep)
	case ZoomIn:
		s.SetZoom(s.params.Zoom + ZoomStep)
	case ZoomOut:
		s.SetZoom(s.params.Zoom - ZoomStep)
	case ToggleProjection:
		s.params.Projection = s.params.Projection.Toggle()
	case ToggleShadowMap:
		s.params.ShowShadowMap = !s.params.ShowShadowMap
	default:
		return false
	}
	return true
}

// SetRotation sets the camera orbit angle, wrapped into [0, 360).
func (s *State) SetRotation(deg int) { s.params.Rotation = wrapDegrees(deg) }

// SetLightRotation sets the light orbit angle, wrapped into [0, 360).
func (s *State) SetLightRotation(deg int) { s.params.LightRotation = wrapDegrees(deg) }

// SetZoom sets the zoom level, clamped to [0, camera.MaxZoom].
func (s *State) SetZoom(z float32) {
	switch {
	case z < 0:
		z = 0
	case z > camera.MaxZoom:
		z = camera.MaxZoom
	}
	s.params.Zoom = z
}

// ZoomBy changes zoom by delta (mouse wheel).
func (s *State) ZoomBy(delta float32) { s.SetZoom(s.params.Zoom + delta) }

// SetProjection selects the projection.
func (s *State) SetProjection(p camera.Projection) { s.params.Projection = p }

// SetShowShadowMap toggles the depth map view.
func (s *State) SetShowShadowMap(show bool) { s.params.ShowShadowMap = show }

func wrapDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
