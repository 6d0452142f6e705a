// Package config handles viewer configuration loading and persistence.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Shadow     ShadowConfig     `yaml:"shadow"`
	View       ViewConfig       `yaml:"view"`
	Data       DataConfig       `yaml:"data"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`

	// source is the file the config was loaded from, if any.
	source string
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	Fullscreen   bool `yaml:"fullscreen"`
	VSync        bool `yaml:"vsync"`
	ControlPanel bool `yaml:"control_panel"` // imgui panel instead of key bindings only
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Resolution int `yaml:"resolution"`
}

// ViewConfig holds the initial interactive viewing parameters.
type ViewConfig struct {
	Rotation      int     `yaml:"rotation"`
	LightRotation int     `yaml:"light_rotation"`
	Zoom          float32 `yaml:"zoom"`
	Projection    string  `yaml:"projection"`
	ShowShadowMap bool    `yaml:"show_shadow_map"`
}

// DataConfig holds input file paths.
type DataConfig struct {
	LayersFile string `yaml:"layers_file"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Shadow: ShadowConfig{
			Resolution: 2048,
		},
		View: ViewConfig{
			Projection: "perspective",
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Source returns the path the config was loaded from, or "".
func (c *Config) Source() string { return c.source }

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if r := c.Shadow.Resolution; r < 64 || r > 16384 || r&(r-1) != 0 {
		errs = append(errs, fmt.Errorf("shadow: resolution %d is not a power of two in [64, 16384]", r))
	}
	if z := c.View.Zoom; z < 0 || z > 100 {
		errs = append(errs, fmt.Errorf("view: zoom %v outside [0, 100]", z))
	}
	switch c.View.Projection {
	case "perspective", "orthographic":
	default:
		errs = append(errs, fmt.Errorf("view: unknown projection %q", c.View.Projection))
	}
	switch c.Screenshot.Format {
	case "png", "bmp":
	default:
		errs = append(errs, fmt.Errorf("screenshot: unknown format %q", c.Screenshot.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}
