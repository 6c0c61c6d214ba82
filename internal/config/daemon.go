package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toasty/internal/model"
)

// DaemonConfig is the configuration for toastyd.
// Loaded from ~/.config/toasty/toastyd.toml
type DaemonConfig struct {
	Elements ElementsConfig `toml:"elements" yaml:"elements"`
	Display  DisplayConfig  `toml:"display" yaml:"display"`
	Timeouts TimeoutConfig  `toml:"timeouts" yaml:"timeouts"`
	Audio    AudioConfig    `toml:"audio" yaml:"audio"`
	Theme    ThemeConfig    `toml:"theme" yaml:"theme"`
	Input    InputConfig    `toml:"input" yaml:"input"`
}

// ElementsConfig names the container and text holder looked up at bind time.
type ElementsConfig struct {
	ContainerID string `toml:"container_id" yaml:"container_id"`
	BodyID      string `toml:"body_id" yaml:"body_id"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	Position     string  `toml:"position" yaml:"position"` // "top-right", "top-left", etc.
	OffsetX      int     `toml:"offset_x" yaml:"offset_x"` // Pixels from screen edge
	OffsetY      int     `toml:"offset_y" yaml:"offset_y"`
	Width        int     `toml:"width" yaml:"width"`
	Monitor      int     `toml:"monitor" yaml:"monitor"` // 0 = compositor choice, 1+ = specific monitor
	Opacity      float64 `toml:"opacity" yaml:"opacity"` // 0.0-1.0
	PauseOnHover bool    `toml:"pause_on_hover" yaml:"pause_on_hover"`
}

// TimeoutConfig contains auto-dismiss timeouts.
// Durations can be specified as "5s", "1m", etc. or as integer milliseconds.
// A value of "0" or 0 means never dismiss.
type TimeoutConfig struct {
	Default  Duration            `toml:"default" yaml:"default"`
	Severity map[string]Duration `toml:"severity" yaml:"severity"` // keyed by request type
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool              `toml:"enabled" yaml:"enabled"`
	Volume  int               `toml:"volume" yaml:"volume"` // 0-100
	Default string            `toml:"default" yaml:"default"`
	Sounds  map[string]string `toml:"sounds" yaml:"sounds"` // keyed by request type
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name" yaml:"name"`                 // Theme name without .css extension
	ColorScheme string `toml:"color_scheme" yaml:"color_scheme"` // "system", "light", or "dark"
}

// InputConfig selects the inbound sources for showMessage.
type InputConfig struct {
	DBus  bool `toml:"dbus" yaml:"dbus"`
	Stdin bool `toml:"stdin" yaml:"stdin"`
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// Position represents a popup position on screen.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Elements: ElementsConfig{
			ContainerID: "toast",
			BodyID:      "toast-body",
		},
		Display: DisplayConfig{
			Position:     string(PositionTopRight),
			OffsetX:      10,
			OffsetY:      10,
			Width:        350,
			Monitor:      0,
			Opacity:      1.0,
			PauseOnHover: true,
		},
		Timeouts: TimeoutConfig{
			Default: Duration(5 * time.Second),
			Severity: map[string]Duration{
				model.SeverityDanger: Duration(10 * time.Second),
			},
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Sounds:  map[string]string{},
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Input: InputConfig{
			DBus:  true,
			Stdin: false,
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path.
// An empty path means DefaultPath. If the file doesn't exist, returns the
// default configuration.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return nil, errors.New("unable to determine config path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or DefaultPath when empty.
func (c *DaemonConfig) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("unable to determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if c.Elements.ContainerID == "" {
		return errors.New("elements.container_id must not be empty")
	}
	if c.Elements.BodyID == "" {
		return errors.New("elements.body_id must not be empty")
	}
	if c.Elements.ContainerID == c.Elements.BodyID {
		return fmt.Errorf("elements.container_id and elements.body_id must differ, both are %q", c.Elements.BodyID)
	}

	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}
	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}
	if c.Display.Opacity < 0 || c.Display.Opacity > 1 {
		return fmt.Errorf("opacity must be between 0.0 and 1.0, got %g", c.Display.Opacity)
	}
	if c.Display.Monitor < 0 {
		return fmt.Errorf("monitor must not be negative, got %d", c.Display.Monitor)
	}

	if c.Timeouts.Default < 0 {
		return fmt.Errorf("timeouts.default must not be negative, got %s", c.Timeouts.Default.Duration())
	}
	for typ, d := range c.Timeouts.Severity {
		if d < 0 {
			return fmt.Errorf("timeout for %q must not be negative, got %s", typ, d.Duration())
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	return nil
}

// TimeoutFor returns the auto-dismiss timeout for a request type.
// Aliases such as "error" resolve to their severity; anything else uses
// the default.
func (c *DaemonConfig) TimeoutFor(typ string) time.Duration {
	if d, ok := c.Timeouts.Severity[typ]; ok {
		return d.Duration()
	}
	if d, ok := c.Timeouts.Severity[model.NormalizeSeverity(typ)]; ok {
		return d.Duration()
	}
	return c.Timeouts.Default.Duration()
}

// SoundFor returns the sound file path for a request type, or "" when
// audio is disabled or nothing is configured. Expands ~ to home directory.
func (c *DaemonConfig) SoundFor(typ string) string {
	if !c.Audio.Enabled {
		return ""
	}
	path, ok := c.Audio.Sounds[typ]
	if !ok {
		path, ok = c.Audio.Sounds[model.NormalizeSeverity(typ)]
	}
	if !ok {
		path = c.Audio.Default
	}
	return expandPath(path)
}
