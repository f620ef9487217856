package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	logCtx    context.Context
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)

	// DUMBMUX_SERVER_BASE_URL, DUMBMUX_TERMINAL_RESIZE_DEBOUNCE, ...
	v.SetEnvPrefix("DUMBMUX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Logging keeps the shorter DUMBMUX_LOG_* names.
	if err := v.BindEnv("logging.level", "DUMBMUX_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind DUMBMUX_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "DUMBMUX_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind DUMBMUX_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables. A
// missing file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			configFile := m.viper.ConfigFileUsed()
			if configFile == "" {
				configFile, _ = GetConfigFile()
			}
			return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
		}

		if createErr := m.createDefaultConfig(); createErr != nil {
			configDir, _ := GetConfigDir()
			return fmt.Errorf(
				"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
				configDir,
				createErr,
			)
		}
		if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
			return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
		}
	}
	return nil
}

// decode unmarshals, fills derived values, normalizes and validates.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}

	if err := ensureJournalPath(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func ensureJournalPath(config *Config) error {
	if config.Journal.Path != "" {
		return nil
	}
	path, err := GetJournalFile()
	if err != nil {
		return fmt.Errorf("failed to get journal path: %w", err)
	}
	config.Journal.Path = path
	return nil
}

func normalizeConfig(config *Config) {
	config.Server.BaseURL = strings.TrimRight(strings.TrimSpace(config.Server.BaseURL), "/")
	config.Server.SessionsPath = strings.TrimSpace(config.Server.SessionsPath)
	if config.Server.SessionsPath == "" {
		config.Server.SessionsPath = defaultSessionsPath
	}

	switch level := strings.ToLower(strings.TrimSpace(config.Logging.Level)); level {
	case "":
		config.Logging.Level = "info"
	case "warning":
		config.Logging.Level = "warn"
	case "off":
		config.Logging.Level = "disabled"
	default:
		config.Logging.Level = level
	}
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}

	config.Journal.Path = os.ExpandEnv(config.Journal.Path)
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values in Viper. Durations are
// stored as strings so the generated TOML stays readable.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setServerDefaults(defaults)
	m.setTerminalDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.setJournalDefaults(defaults)
}

func (m *Manager) setServerDefaults(defaults *Config) {
	m.viper.SetDefault("server.base_url", defaults.Server.BaseURL)
	m.viper.SetDefault("server.sessions_path", defaults.Server.SessionsPath)
	m.viper.SetDefault("server.dial_timeout", defaults.Server.DialTimeout.String())
	m.viper.SetDefault("server.ping_interval", defaults.Server.PingInterval.String())
}

func (m *Manager) setTerminalDefaults(defaults *Config) {
	m.viper.SetDefault("terminal.resize_debounce", defaults.Terminal.ResizeDebounce.String())
	m.viper.SetDefault("terminal.cell_width", defaults.Terminal.CellWidth)
	m.viper.SetDefault("terminal.cell_height", defaults.Terminal.CellHeight)
	m.viper.SetDefault("terminal.viewport_width", defaults.Terminal.ViewportWidth)
	m.viper.SetDefault("terminal.viewport_height", defaults.Terminal.ViewportHeight)
	m.viper.SetDefault("terminal.split_gap", defaults.Terminal.SplitGap)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}

func (m *Manager) setJournalDefaults(defaults *Config) {
	m.viper.SetDefault("journal.enabled", defaults.Journal.Enabled)
	m.viper.SetDefault("journal.path", defaults.Journal.Path)
	m.viper.SetDefault("journal.retention_days", defaults.Journal.RetentionDays)
}
