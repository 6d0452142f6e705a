// Package ui is the Dear ImGui frontend: the scene rendered offscreen and
// shown as an image next to a control panel.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/layerview/internal/control"
)

// Backend wraps the ImGui SDL backend. It owns the window and GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window. GL function loading is left to the caller
// (gpugl.New) once this returns.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, width, height)
	return b, nil
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// Close asks the loop to stop after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

type shortcut struct {
	chord  imgui.KeyChord
	action control.Action
}

// shortcuts mirror the key bindings of the plain SDL frontend.
var shortcuts = []shortcut{
	{imgui.KeyChord(imgui.KeyLeftArrow), control.RotateLeft},
	{imgui.KeyChord(imgui.KeyRightArrow), control.RotateRight},
	{imgui.KeyChord(imgui.KeyQ), control.LightLeft},
	{imgui.KeyChord(imgui.KeyE), control.LightRight},
	{imgui.KeyChord(imgui.KeyUpArrow), control.ZoomIn},
	{imgui.KeyChord(imgui.KeyEqual), control.ZoomIn},
	{imgui.KeyChord(imgui.KeyKeypadAdd), control.ZoomIn},
	{imgui.KeyChord(imgui.KeyDownArrow), control.ZoomOut},
	{imgui.KeyChord(imgui.KeyMinus), control.ZoomOut},
	{imgui.KeyChord(imgui.KeyKeypadSubtract), control.ZoomOut},
	{imgui.KeyChord(imgui.KeyP), control.ToggleProjection},
	{imgui.KeyChord(imgui.KeyM), control.ToggleShadowMap},
	{imgui.KeyChord(imgui.KeyO), control.OpenFile},
	{imgui.KeyChord(imgui.KeyF12), control.Screenshot},
	{imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyS), control.SaveView},
	{imgui.KeyChord(imgui.KeyEscape), control.Quit},
}

// pressedActions returns the actions whose shortcut fired this frame.
func pressedActions() []control.Action {
	var actions []control.Action
	for _, s := range shortcuts {
		if imgui.IsKeyChordPressed(s.chord) {
			actions = append(actions, s.action)
		}
	}
	return actions
}
