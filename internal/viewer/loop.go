package viewer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/layerview/internal/control"
	"github.com/Faultbox/layerview/internal/engine/gpu"
)

// Surface is a window that renders to the default framebuffer and turns
// its events into actions.
type Surface interface {
	// Update drains pending events and reports whether to quit.
	Update() bool
	Actions() []control.Action
	// Wheel is the vertical scroll since the last Update.
	Wheel() float32
	DrawableSize() (int32, int32)
	SwapBuffers()
}

// Run schedules one frame per Update until the surface asks to quit.
func (s *Session) Run(surf Surface) {
	frameCount := 0
	fpsTimer := time.Now()

	for !s.Step(surf) {
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			s.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	s.log.Info("viewer closed")
}

// Step handles input and draws a single frame. It returns true on quit.
func (s *Session) Step(surf Surface) bool {
	quit := surf.Update()
	for _, a := range surf.Actions() {
		if s.Handle(a) {
			quit = true
		}
	}
	if quit {
		return true
	}

	if w := surf.Wheel(); w != 0 {
		s.state.ZoomBy(w * control.ZoomStep)
	}

	width, height := surf.DrawableSize()
	s.Frame(gpu.Screen, width, height)
	surf.SwapBuffers()
	return false
}
