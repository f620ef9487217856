package config

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsAndNotifies(t *testing.T) {
	configDir, _ := isolate(t)
	writeConfig(t, configDir, "[terminal]\nresize_debounce = \"40ms\"\n")

	mgr, err := loadManager(t)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen []time.Duration
	)
	mgr.OnConfigChange(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cfg.Terminal.ResizeDebounce)
	})
	require.NoError(t, mgr.Watch(context.Background()))
	require.NoError(t, mgr.Watch(context.Background()), "second Watch is a no-op")

	writeConfig(t, configDir, "[terminal]\nresize_debounce = \"250ms\"\n")

	assert.Eventually(t, func() bool {
		return mgr.Get().Terminal.ResizeDebounce == 250*time.Millisecond
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, 250*time.Millisecond)
}

func TestReload_KeepsPreviousOnInvalidEdit(t *testing.T) {
	configDir, _ := isolate(t)
	mgr, err := loadManager(t)
	require.NoError(t, err)

	writeConfig(t, configDir, "[logging]\nlevel = \"shouting\"\n")

	_, callbacks, err := mgr.reload()

	require.Error(t, err)
	assert.Nil(t, callbacks)
	assert.Equal(t, "info", mgr.Get().Logging.Level)
}

func TestReload_ReturnsSnapshotOfCallbacks(t *testing.T) {
	configDir, _ := isolate(t)
	mgr, err := loadManager(t)
	require.NoError(t, err)

	calls := 0
	mgr.OnConfigChange(func(*Config) { calls++ })

	writeConfig(t, configDir, "[terminal]\nresize_debounce = \"120ms\"\n")

	cfg, callbacks, err := mgr.reload()
	require.NoError(t, err)
	require.Len(t, callbacks, 1)
	assert.Equal(t, 120*time.Millisecond, cfg.Terminal.ResizeDebounce)

	callbacks[0] = nil
	mgr.OnConfigChange(func(*Config) {})
	_, again, err := mgr.reload()
	require.NoError(t, err)
	require.Len(t, again, 2)
	require.NotNil(t, again[0])

	again[0](&cfg)
	assert.Equal(t, 1, calls)
}
