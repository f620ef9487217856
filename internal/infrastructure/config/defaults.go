package config

import (
	"time"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

// Default configuration constants
const (
	// Server defaults
	defaultBaseURL      = "http://127.0.0.1:7681"
	defaultSessionsPath = "/api/sessions"
	defaultDialTimeout  = 10 * time.Second
	defaultPingInterval = 30 * time.Second

	// Terminal defaults
	defaultResizeDebounce = 40 * time.Millisecond
	defaultCellWidth      = 8  // px
	defaultCellHeight     = 16 // px
	defaultViewportWidth  = 1280
	defaultViewportHeight = 768

	// Journal defaults
	defaultJournalRetentionDays = 30
)

// DefaultConfig returns the default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:      defaultBaseURL,
			SessionsPath: defaultSessionsPath,
			DialTimeout:  defaultDialTimeout,
			PingInterval: defaultPingInterval,
		},
		Terminal: TerminalConfig{
			ResizeDebounce: defaultResizeDebounce,
			CellWidth:      defaultCellWidth,
			CellHeight:     defaultCellHeight,
			ViewportWidth:  defaultViewportWidth,
			ViewportHeight: defaultViewportHeight,
			SplitGap:       entity.SplitGap,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Journal: JournalConfig{
			Enabled:       true,
			RetentionDays: defaultJournalRetentionDays,
		},
	}
}
