// Package config loads, validates and watches the dumbmux configuration file.
package config

import "time"

// Config represents the complete configuration for dumbmux.
type Config struct {
	// Server locates the remote session API.
	Server ServerConfig `mapstructure:"server" yaml:"server" toml:"server"`
	// Terminal controls pane sizing and the emulator grid.
	Terminal TerminalConfig `mapstructure:"terminal" yaml:"terminal" toml:"terminal"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging" toml:"logging"`
	// Journal controls the local sqlite log of pane session events.
	Journal JournalConfig `mapstructure:"journal" yaml:"journal" toml:"journal"`
}

// ServerConfig holds the session API endpoint settings.
type ServerConfig struct {
	// BaseURL is the http(s) root of the session API, e.g. http://localhost:7681.
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url" toml:"base_url"`
	SessionsPath string        `mapstructure:"sessions_path" yaml:"sessions_path" toml:"sessions_path"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout" toml:"dial_timeout"`
	// PingInterval is how often an open stream is pinged.
	PingInterval time.Duration `mapstructure:"ping_interval" yaml:"ping_interval" toml:"ping_interval"`
}

// TerminalConfig controls how pane rectangles become character grids.
type TerminalConfig struct {
	// ResizeDebounce delays fit and resize messages after geometry changes.
	ResizeDebounce time.Duration `mapstructure:"resize_debounce" yaml:"resize_debounce" toml:"resize_debounce"`
	CellWidth      int           `mapstructure:"cell_width" yaml:"cell_width" toml:"cell_width"`
	CellHeight     int           `mapstructure:"cell_height" yaml:"cell_height" toml:"cell_height"`
	// ViewportWidth and ViewportHeight are the pixel size of the tab surface.
	ViewportWidth  int `mapstructure:"viewport_width" yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight int `mapstructure:"viewport_height" yaml:"viewport_height" toml:"viewport_height"`
	// SplitGap is informational; the divider fraction is fixed by the layout.
	SplitGap float64 `mapstructure:"split_gap" yaml:"split_gap" toml:"split_gap"`
}

// LoggingConfig holds logging output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level"`
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
}

// JournalConfig holds session journal settings.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	// Path is the sqlite file. Empty means $XDG_DATA_HOME/dumbmux/journal.sqlite.
	Path string `mapstructure:"path" yaml:"path" toml:"path"`
	// RetentionDays prunes sessions whose last event is older. Zero keeps everything.
	RetentionDays int `mapstructure:"retention_days" yaml:"retention_days" toml:"retention_days"`
}
