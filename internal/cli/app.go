// Package cli wires the dumbmux runtime for the cobra commands.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/dumbmux/internal/cli/styles"
	"github.com/bnema/dumbmux/internal/domain/build"
	"github.com/bnema/dumbmux/internal/domain/repository"
	"github.com/bnema/dumbmux/internal/infrastructure/config"
	"github.com/bnema/dumbmux/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/dumbmux/internal/logging"
)

const (
	logDirPerm  = 0o750
	logFilePerm = 0o600
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Theme     *styles.Theme
	BuildInfo build.Info

	// ConfigErr is the load failure when Config fell back to defaults.
	ConfigErr error

	configs *config.Manager // nil when loading failed

	dbOnce  sync.Once
	db      *sql.DB
	journal repository.SessionEventRepository
	dbErr   error

	logFile *os.File

	// Context with logger
	ctx context.Context
}

// NewApp loads configuration and builds the logger. The journal database
// is opened on first use.
func NewApp() (*App, error) {
	configs, cfg, cfgErr := loadConfig()

	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("using default configuration")
	}

	return &App{
		Config:    cfg,
		Theme:     styles.NewTheme(),
		ConfigErr: cfgErr,
		configs:   configs,
		ctx:       ctx,
	}, nil
}

// JournalRepository opens the session journal. It returns nil without an
// error when the journal is disabled.
func (a *App) JournalRepository() (repository.SessionEventRepository, error) {
	if !a.Config.Journal.Enabled {
		return nil, nil
	}

	a.dbOnce.Do(func() {
		db, err := sqlite.NewConnection(a.ctx, a.Config.Journal.Path)
		if err != nil {
			a.dbErr = fmt.Errorf("open journal: %w", err)
			return
		}
		a.db = db
		a.journal = sqlite.NewSessionEventRepository(db)
	})
	return a.journal, a.dbErr
}

// ConfigFile returns the path of the loaded configuration file.
func (a *App) ConfigFile() string {
	if a.configs != nil {
		if path := a.configs.GetConfigFile(); path != "" {
			return path
		}
	}
	path, _ := config.GetConfigFile()
	return path
}

// LogToFile sends every later log line to path instead of stderr. Call it
// before StartRuntime: components capture the logger when they are built.
func (a *App) LogToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), logDirPerm); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(a.Config.Logging.Level)
	logCfg.Format = a.Config.Logging.Format
	logCfg.Output = f
	a.ctx = logging.WithContext(a.ctx, logging.New(logCfg))

	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	a.logFile = f
	return nil
}

// Close releases all resources.
func (a *App) Close() error {
	err := sqlite.Close(a.db)
	if a.logFile != nil {
		err = errors.Join(err, a.logFile.Close())
		a.logFile = nil
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back to
// defaults so read-only commands keep working with a broken file.
func loadConfig() (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, config.DefaultConfig(), err
	}

	if err := mgr.Load(); err != nil {
		cfg := config.DefaultConfig()
		if path, pathErr := config.GetJournalFile(); pathErr == nil {
			cfg.Journal.Path = path
		}
		return nil, cfg, err
	}

	return mgr, mgr.Get(), nil
}
