// Package config loads the walkman configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"walkman/internal/mode"
	"walkman/internal/playback"
)

// Config holds the whole application configuration.
type Config struct {
	MusicDir       string  `koanf:"music_dir"`
	Volume         float64 `koanf:"volume"`
	Shuffle        bool    `koanf:"shuffle"`
	Loop           string  `koanf:"loop"` // "off", "all", "one"
	PollIntervalMs int     `koanf:"poll_interval_ms"`
	WatchLibrary   bool    `koanf:"watch_library"`

	Log LogConfig `koanf:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Output string `koanf:"output"` // "stdout", "stderr", or file path
}

func defaults() *Config {
	return &Config{
		Volume:         playback.DefaultVolume,
		Loop:           "off",
		PollIntervalMs: int(playback.DefaultPollInterval / time.Millisecond),
		Log: LogConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Load reads the configuration from the standard locations, later files
// overriding earlier ones. A missing file is not an error.
func Load() (*Config, error) {
	return load(configPaths())
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Volume < 0 {
		cfg.Volume = 0
	}
	if cfg.Volume > 1 {
		cfg.Volume = 1
	}
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = int(playback.DefaultPollInterval / time.Millisecond)
	}
	if cfg.MusicDir != "" {
		cfg.MusicDir = expandPath(cfg.MusicDir)
	}

	// Reject an invalid loop mode at load time rather than at wiring
	// time.
	if _, err := mode.ParseLoopMode(cfg.Loop); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoopMode returns the configured loop mode.
func (c *Config) LoopMode() mode.LoopMode {
	m, err := mode.ParseLoopMode(c.Loop)
	if err != nil {
		return mode.LoopOff
	}
	return m
}

// PollInterval returns the monitor poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "walkman", "config.toml"),
		"config.toml", // pwd, highest priority
	}
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
