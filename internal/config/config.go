// Package config loads termtree settings.
//
// Settings are layered: built-in defaults, then a TOML file, then
// TERMTREE_* environment variables, then command-line flags. Each layer only
// overrides the keys it sets.
package config

import (
	"errors"
	"time"

	"github.com/dshills/termtree/internal/logging"
)

// Config is the complete termtree configuration.
type Config struct {
	UI      UI      `toml:"ui"`
	Logging Logging `toml:"logging"`
	Scene   Scene   `toml:"scene"`
	Script  Script  `toml:"script"`
}

// UI holds renderer settings.
type UI struct {
	// Width and Height force the surface size; zero uses the terminal size.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// AutoFocus moves focus to the clicked focusable node.
	AutoFocus bool `toml:"autoFocus"`

	// Mouse enables terminal mouse reporting.
	Mouse bool `toml:"mouse"`
}

// Logging holds log output settings.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File receives log output. Empty disables logging, since the terminal
	// itself is used for drawing.
	File string `toml:"file"`
}

// Scene holds scene file settings.
type Scene struct {
	// Path of the scene file to load.
	Path string `toml:"path"`
	// Watch reloads the scene when the file changes.
	Watch bool `toml:"watch"`
	// DebounceMs coalesces bursts of file events.
	DebounceMs int `toml:"debounceMs"`
}

// Debounce returns DebounceMs as a duration.
func (s Scene) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// Script holds Lua handler settings.
type Script struct {
	// TimeoutMs bounds a single handler invocation. Zero disables the limit.
	TimeoutMs int `toml:"timeoutMs"`
}

// Timeout returns TimeoutMs as a duration.
func (s Script) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UI: UI{
			AutoFocus: true,
			Mouse:     true,
		},
		Logging: Logging{
			Level: "info",
		},
		Scene: Scene{
			DebounceMs: 100,
		},
		Script: Script{
			TimeoutMs: 250,
		},
	}
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.UI.Width < 0 {
		add("ui.width", "must be >= 0", c.UI.Width)
	}
	if c.UI.Height < 0 {
		add("ui.height", "must be >= 0", c.UI.Height)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		add("logging.level", "must be one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Scene.DebounceMs < 0 {
		add("scene.debounceMs", "must be >= 0", c.Scene.DebounceMs)
	}
	if c.Script.TimeoutMs < 0 {
		add("script.timeoutMs", "must be >= 0", c.Script.TimeoutMs)
	}
	return errors.Join(errs...)
}
