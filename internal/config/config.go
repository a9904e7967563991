// internal/config/config.go
//
// This package handles configuration and the .cascade directory structure.
// Every directory cascade is run from gets a .cascade/ folder holding the
// session log and a small appearance settings file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// CascadeDir is the name of the directory we create in each working directory
	CascadeDir = ".cascade"

	defaultAccentColor = "#5B8DEF"
	defaultTailLines   = 8
)

const defaultSettingsYAML = `# cascade settings
version: 1

# Appearance only. Input rules, the ten-element cap, and the descending
# sort order are fixed by the program.
ui:
  accent_color: "#5B8DEF"
  show_log_panel: false

log:
  tail_lines: 8
`

// UISettings captures appearance preferences for the session screen.
type UISettings struct {
	AccentColor  string `yaml:"accent_color"`
	ShowLogPanel bool   `yaml:"show_log_panel"`
}

// LogSettings captures how much of the session log the screen shows.
type LogSettings struct {
	TailLines int `yaml:"tail_lines"`
}

// Settings models .cascade/config.yaml.
type Settings struct {
	Version int         `yaml:"version"`
	UI      UISettings  `yaml:"ui"`
	Log     LogSettings `yaml:"log"`
}

// Config holds the runtime configuration for cascade.
type Config struct {
	// WorkDir is the directory where the user ran `cascade` from
	WorkDir string

	// SessionDir is WorkDir/.cascade
	SessionDir string

	Settings Settings
}

// InitCascadeDir creates the .cascade directory structure in the given
// working directory. This is called before the session screen starts.
//
// Structure created:
// .cascade/
// ├── logs/         <- Session journey logs
// ├── archive/      <- Finished session transcripts
// └── config.yaml   <- Appearance settings
func InitCascadeDir(workDir string) error {
	cascadeDir := filepath.Join(workDir, CascadeDir)

	// os.MkdirAll creates parent directories as needed (like mkdir -p)
	dirs := []string{
		filepath.Join(cascadeDir, "logs"),
		filepath.Join(cascadeDir, "archive"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := ensureSettingsFile(filepath.Join(cascadeDir, "config.yaml")); err != nil {
		return err
	}

	return nil
}

// NewConfig creates a Config populated from .cascade/config.yaml. A missing
// settings file is fine and leaves the defaults in place; a file that is
// present but unreadable or invalid is an error.
func NewConfig(workDir string) (*Config, error) {
	cfg := Default(workDir)
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config carrying the built-in settings, untouched by
// anything on disk. Callers fall back to it when loading fails.
func Default(workDir string) *Config {
	return &Config{
		WorkDir:    workDir,
		SessionDir: filepath.Join(workDir, CascadeDir),
		Settings:   defaultSettings(),
	}
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.SessionDir, "logs")
}

// JourneyLogPath returns the on-disk location of the session journey log.
func (c *Config) JourneyLogPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// ArchiveDir returns the directory holding finished session transcripts.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.SessionDir, "archive")
}

// SettingsPath returns the on-disk location for the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.SessionDir, "config.yaml")
}

// AccentColor returns the configured highlight color as a #RRGGBB string.
func (c *Config) AccentColor() string {
	return c.Settings.UI.AccentColor
}

// ShowLogPanel reports whether the session screen starts with the log
// panel open.
func (c *Config) ShowLogPanel() bool {
	return c.Settings.UI.ShowLogPanel
}

// TailLines returns how many trailing log lines the log panel shows.
func (c *Config) TailLines() int {
	return c.Settings.Log.TailLines
}

// SetShowLogPanel updates the log panel preference and persists the value
// back to .cascade/config.yaml so the next launch starts the same way.
func (c *Config) SetShowLogPanel(show bool) error {
	c.Settings.UI.ShowLogPanel = show
	return c.saveSettings()
}

func (c *Config) loadSettings() error {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Settings = parsed
	return nil
}

func defaultSettings() Settings {
	return Settings{
		Version: 1,
		UI: UISettings{
			AccentColor:  defaultAccentColor,
			ShowLogPanel: false,
		},
		Log: LogSettings{
			TailLines: defaultTailLines,
		},
	}
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Log.TailLines == 0 {
		s.Log.TailLines = defaultTailLines
	}
}

func (s *Settings) normalize() {
	s.UI.AccentColor = strings.TrimSpace(s.UI.AccentColor)
	if s.UI.AccentColor == "" {
		s.UI.AccentColor = defaultAccentColor
	}
}

func (s *Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if !isHexColor(s.UI.AccentColor) {
		return fmt.Errorf("ui.accent_color must be a #RRGGBB hex color")
	}
	if s.Log.TailLines < 1 {
		return fmt.Errorf("log.tail_lines must be positive")
	}
	return nil
}

func isHexColor(value string) bool {
	if len(value) != 7 || value[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(value[1:], 16, 32)
	return err == nil
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0644)
}

func (c *Config) saveSettings() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Settings.applyDefaults()
	c.Settings.normalize()
	if err := c.Settings.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.SessionDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure cascade dir: %w", err)
	}
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := os.WriteFile(c.SettingsPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}
