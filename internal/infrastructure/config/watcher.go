package config

import (
	"context"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/dumbmux/internal/logging"
)

// Watch reloads the configuration whenever the file changes and hands the
// result to every OnConfigChange callback. An edit that fails to parse or
// validate is logged and the previous configuration stays in effect.
// Reload events are logged with the logger carried by ctx. Calling Watch
// more than once has no further effect.
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return nil
	}
	m.logCtx = logging.WithComponent(ctx, "config")

	m.viper.OnConfigChange(m.handleFileEvent)
	m.viper.WatchConfig()
	m.watching = true
	return nil
}

// OnConfigChange registers fn to receive each successfully reloaded
// configuration. Every callback gets its own copy.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, fn)
	m.mu.Unlock()
}

func (m *Manager) handleFileEvent(e fsnotify.Event) {
	m.mu.RLock()
	log := logging.FromContext(m.logCtx)
	m.mu.RUnlock()

	log.Debug().Stringer("op", e.Op).Str("file", e.Name).Msg("config file changed")

	cfg, callbacks, err := m.reload()
	if err != nil {
		log.Warn().Err(err).Msg("config reload rejected, keeping previous settings")
		return
	}

	// Callbacks run unlocked so they may call Get.
	for _, fn := range callbacks {
		c := cfg
		fn(&c)
	}
}

// reload re-reads and decodes the file, swapping it in on success. It
// returns a copy of the new config and the callbacks to notify.
func (m *Manager) reload() (Config, []func(*Config), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return Config{}, nil, err
	}
	cfg, err := m.decode()
	if err != nil {
		return Config{}, nil, err
	}
	m.config = cfg

	return *cfg, slices.Clone(m.callbacks), nil
}
