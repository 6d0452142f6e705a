// Package main is the entry point for the layer viewer.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/layerview/internal/config"
	"github.com/Faultbox/layerview/internal/engine/gpu/gpugl"
	"github.com/Faultbox/layerview/internal/engine/input"
	"github.com/Faultbox/layerview/internal/engine/window"
	"github.com/Faultbox/layerview/internal/logger"
	"github.com/Faultbox/layerview/internal/picker"
	"github.com/Faultbox/layerview/internal/ui"
	"github.com/Faultbox/layerview/internal/viewer"
)

const title = "LayerView"

func main() {
	// GL and SDL calls must stay on the main thread
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== LayerView ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if cfg.Graphics.ControlPanel {
		err = runPanel(cfg)
	} else {
		err = runWindow(cfg)
	}
	if err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// openLayers adapts the native dialog to the viewer's Picker.
func openLayers() (string, error) {
	path, err := picker.OpenLayers()
	if errors.Is(err, picker.ErrCancelled) {
		return "", viewer.ErrCancelled
	}
	return path, err
}

// windowSurface combines the SDL window and its event queue.
type windowSurface struct {
	*window.Window
	*input.Input
}

func runWindow(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	dev, err := gpugl.New()
	if err != nil {
		return err
	}

	s, err := viewer.New(cfg, dev, openLayers)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Run(windowSurface{Window: win, Input: input.New(input.DefaultBindings)})
	return nil
}

func runPanel(cfg *config.Config) error {
	b, err := ui.NewBackend(title, cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return err
	}

	dev, err := gpugl.New()
	if err != nil {
		return err
	}

	s, err := viewer.New(cfg, dev, openLayers)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := ui.NewPanel(b, dev, s)
	if err != nil {
		return err
	}
	defer p.Destroy()

	b.Run(p.Render)
	return nil
}
