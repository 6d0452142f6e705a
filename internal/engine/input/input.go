// Package input translates SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/layerview/internal/control"
)

// Key pairs a scancode with whether Ctrl must be held.
type Key struct {
	Code sdl.Scancode
	Ctrl bool
}

// DefaultBindings maps keys to actions.
var DefaultBindings = map[Key]control.Action{
	{Code: sdl.SCANCODE_LEFT}:          control.RotateLeft,
	{Code: sdl.SCANCODE_RIGHT}:         control.RotateRight,
	{Code: sdl.SCANCODE_Q}:             control.LightLeft,
	{Code: sdl.SCANCODE_E}:             control.LightRight,
	{Code: sdl.SCANCODE_UP}:            control.ZoomIn,
	{Code: sdl.SCANCODE_DOWN}:          control.ZoomOut,
	{Code: sdl.SCANCODE_EQUALS}:        control.ZoomIn,
	{Code: sdl.SCANCODE_MINUS}:         control.ZoomOut,
	{Code: sdl.SCANCODE_P}:             control.ToggleProjection,
	{Code: sdl.SCANCODE_M}:             control.ToggleShadowMap,
	{Code: sdl.SCANCODE_O}:             control.OpenFile,
	{Code: sdl.SCANCODE_F12}:           control.Screenshot,
	{Code: sdl.SCANCODE_S, Ctrl: true}: control.SaveView,
	{Code: sdl.SCANCODE_ESCAPE}:        control.Quit,
}

// Input polls SDL events once per frame.
type Input struct {
	bindings map[Key]control.Action
	actions  []control.Action
	wheel    float32
	resized  bool
}

// New creates an input handler using bindings (DefaultBindings when nil).
func New(bindings map[Key]control.Action) *Input {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Input{
		bindings: bindings,
		actions:  make([]control.Action, 0, 8),
	}
}

// Update drains pending SDL events. It returns true when the window was
// closed or Quit was requested.
func (i *Input) Update() bool {
	i.actions = i.actions[:0]
	i.wheel = 0
	i.resized = false

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.resized = true
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			ctrl := sdl.GetModState()&sdl.KMOD_CTRL != 0
			a, ok := i.bindings[Key{Code: e.Keysym.Scancode, Ctrl: ctrl}]
			if !ok {
				continue
			}
			// One-shot commands ignore key repeat; view changes follow it.
			if e.Repeat != 0 && !repeatable(a) {
				continue
			}
			if a == control.Quit {
				quit = true
			}
			i.actions = append(i.actions, a)

		case *sdl.MouseWheelEvent:
			i.wheel += float32(e.Y)
		}
	}
	return quit
}

func repeatable(a control.Action) bool {
	switch a {
	case control.RotateLeft, control.RotateRight, control.LightLeft, control.LightRight,
		control.ZoomIn, control.ZoomOut:
		return true
	}
	return false
}

// Actions returns the actions triggered during the last Update.
func (i *Input) Actions() []control.Action {
	return i.actions
}

// Wheel returns the accumulated vertical scroll of the last Update.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// Resized reports whether the window size changed during the last Update.
func (i *Input) Resized() bool {
	return i.resized
}
