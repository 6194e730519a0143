// Package prefs handles dronedeck user preferences persistence.
// Preferences are stored in ~/.config/dronedeck/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds dashboard preferences. Drone state is never persisted.
type Prefs struct {
	Theme         string `toml:"theme"`
	ShowGrid      bool   `toml:"show_grid"`
	ShowMap       bool   `toml:"show_map"`
	ShowJoystick  bool   `toml:"show_joystick"`
	ShowTelemetry bool   `toml:"show_telemetry"`
}

const (
	defaultPrefsPath = "~/.config/dronedeck/prefs.toml"
	defaultTheme     = "dark"
)

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{
		Theme:         defaultTheme,
		ShowGrid:      true,
		ShowMap:       true,
		ShowJoystick:  true,
		ShowTelemetry: true,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) Prefs {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs // Graceful degradation
	}

	// Pointers tell a missing key from an explicit false.
	var raw struct {
		Theme         string `toml:"theme"`
		ShowGrid      *bool  `toml:"show_grid"`
		ShowMap       *bool  `toml:"show_map"`
		ShowJoystick  *bool  `toml:"show_joystick"`
		ShowTelemetry *bool  `toml:"show_telemetry"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return prefs // Graceful degradation
	}

	switch theme := strings.ToLower(strings.TrimSpace(raw.Theme)); theme {
	case "dark", "light":
		prefs.Theme = theme
	}
	setIf(&prefs.ShowGrid, raw.ShowGrid)
	setIf(&prefs.ShowMap, raw.ShowMap)
	setIf(&prefs.ShowJoystick, raw.ShowJoystick)
	setIf(&prefs.ShowTelemetry, raw.ShowTelemetry)

	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// SaveTheme updates only the theme in the file at path, keeping the other
// stored values.
func SaveTheme(path, theme string) error {
	p := Load(path)
	p.Theme = theme
	return Save(path, p)
}

func setIf(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
