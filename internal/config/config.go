package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the dashboard settings.
type Config struct {
	Endpoint       string // empty runs the simulator
	SyncMode       string // "state" or "telemetry"
	PollInterval   time.Duration
	RequestTimeout time.Duration
	MetricsAddr    string
	LogFile        string
	LogLevel       string
	Drone          Drone
}

// Drone seeds the identity shown before the first successful poll.
type Drone struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Model    string `toml:"model"`
	Firmware string `toml:"firmware"`
}

const (
	defaultConfigPath     = "~/.config/dronedeck/config.toml"
	defaultLogFile        = "~/.local/state/dronedeck/dronedeck.log"
	defaultSyncMode       = "state"
	defaultLogLevel       = "info"
	defaultPollInterval   = time.Second
	defaultRequestTimeout = 5 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SyncMode:       defaultSyncMode,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Simulated reports whether no controller endpoint is configured.
func (c Config) Simulated() bool {
	return strings.TrimSpace(c.Endpoint) == ""
}

// Load locates and parses the dronedeck config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint         string `toml:"endpoint"`
		SyncMode         string `toml:"sync_mode"`
		PollIntervalMS   int    `toml:"poll_interval_ms"`
		RequestTimeoutMS int    `toml:"request_timeout_ms"`
		MetricsAddr      string `toml:"metrics_addr"`
		LogFile          string `toml:"log_file"`
		LogLevel         string `toml:"log_level"`
		Drone            Drone  `toml:"drone"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Endpoint = strings.TrimSpace(raw.Endpoint)
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	if mode := strings.ToLower(strings.TrimSpace(raw.SyncMode)); mode != "" {
		if mode != "state" && mode != "telemetry" {
			return Config{}, fmt.Errorf("invalid sync_mode %q: must be state or telemetry", raw.SyncMode)
		}
		cfg.SyncMode = mode
	}
	if raw.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
	}
	if raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}

	cfg.Drone = Drone{
		ID:       strings.TrimSpace(raw.Drone.ID),
		Name:     strings.TrimSpace(raw.Drone.Name),
		Model:    strings.TrimSpace(raw.Drone.Model),
		Firmware: strings.TrimSpace(raw.Drone.Firmware),
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
