package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateTerminal(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateJournal(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateServer(config *Config) []string {
	var validationErrors []string

	u, err := url.Parse(config.Server.BaseURL)
	switch {
	case err != nil:
		validationErrors = append(validationErrors, fmt.Sprintf("server.base_url is not a valid URL: %v", err))
	case u.Scheme != "http" && u.Scheme != "https":
		validationErrors = append(validationErrors, "server.base_url must use http or https")
	case u.Host == "":
		validationErrors = append(validationErrors, "server.base_url must include a host")
	}

	if !strings.HasPrefix(config.Server.SessionsPath, "/") {
		validationErrors = append(validationErrors, "server.sessions_path must start with /")
	}
	if config.Server.DialTimeout <= 0 {
		validationErrors = append(validationErrors, "server.dial_timeout must be positive")
	}
	if config.Server.PingInterval <= 0 {
		validationErrors = append(validationErrors, "server.ping_interval must be positive")
	}
	return validationErrors
}

func validateTerminal(config *Config) []string {
	var validationErrors []string
	t := config.Terminal
	if t.ResizeDebounce < 0 {
		validationErrors = append(validationErrors, "terminal.resize_debounce must be non-negative")
	}
	if t.CellWidth < 1 || t.CellHeight < 1 {
		validationErrors = append(validationErrors, "terminal.cell_width and terminal.cell_height must be at least 1")
	}
	if t.ViewportWidth < 1 || t.ViewportHeight < 1 {
		validationErrors = append(validationErrors, "terminal.viewport_width and terminal.viewport_height must be at least 1")
	}
	if t.SplitGap < 0 || t.SplitGap >= 0.5 {
		validationErrors = append(validationErrors, "terminal.split_gap must be between 0 and 0.5")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string

	validLevels := []string{"trace", "debug", "info", "warn", "error", "disabled"}
	if !slices.Contains(validLevels, config.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: %s (got: %s)",
			strings.Join(validLevels, ", "), config.Logging.Level))
	}

	validFormats := []string{"json", "console"}
	if !slices.Contains(validFormats, config.Logging.Format) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: %s (got: %s)",
			strings.Join(validFormats, ", "), config.Logging.Format))
	}
	return validationErrors
}

func validateJournal(config *Config) []string {
	if config.Journal.RetentionDays < 0 {
		return []string{"journal.retention_days must be non-negative"}
	}
	return nil
}
