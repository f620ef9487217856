package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bnema/dumbmux/internal/app/terminal"
	"github.com/bnema/dumbmux/internal/infrastructure/config"
	"github.com/bnema/dumbmux/internal/infrastructure/emulator"
	"github.com/bnema/dumbmux/internal/infrastructure/transport"
	"github.com/bnema/dumbmux/internal/logging"
	"github.com/bnema/dumbmux/internal/ui/mainloop"
)

// Runtime is a running multiplexer: the main loop, the manager driving it
// and the journal recording its sessions.
type Runtime struct {
	Manager *terminal.Manager

	loop    *mainloop.Loop
	loopErr chan error
	journal *terminal.Journal
}

// StartRuntime connects to the configured backend and opens the default
// tab. onChange runs on the loop after every state change and may be nil.
func (a *App) StartRuntime(ctx context.Context, onChange func(terminal.View)) (*Runtime, error) {
	log := logging.FromContext(a.ctx)
	cfg := a.Config

	client, err := transport.NewClient(transport.Config{
		BaseURL:      cfg.Server.BaseURL,
		SessionsPath: cfg.Server.SessionsPath,
		DialTimeout:  cfg.Server.DialTimeout,
		PingInterval: cfg.Server.PingInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("session transport: %w", err)
	}

	journal, err := a.startJournal(ctx)
	if err != nil {
		// The journal is diagnostics only.
		log.Warn().Err(err).Msg("session journal unavailable")
	}

	loop := mainloop.New()
	rt := &Runtime{
		loop:    loop,
		loopErr: make(chan error, 1),
		journal: journal,
	}
	go func() { rt.loopErr <- loop.Run(a.ctx) }()

	rt.Manager = terminal.NewManager(a.ctx, terminal.Config{
		Transport: client,
		Emulators: emulator.NewFactory(emulator.Config{
			CellWidth:  cfg.Terminal.CellWidth,
			CellHeight: cfg.Terminal.CellHeight,
			Logger:     *log,
		}),
		Loop:           loop,
		IDGenerator:    uuid.NewString,
		Journal:        journal,
		ResizeDebounce: cfg.Terminal.ResizeDebounce,
		Viewport:       viewportOf(cfg),
		OnChange:       onChange,
	})

	if err := rt.Manager.Start(ctx); err != nil {
		_ = rt.Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("open default tab: %w", err)
	}

	a.watchConfig(rt.Manager)

	log.Info().
		Str("backend", cfg.Server.BaseURL).
		Bool("journal", journal != nil).
		Msg("multiplexer started")
	return rt, nil
}

// Close shuts the manager down, deleting every remote session, then stops
// the loop and flushes the journal.
func (rt *Runtime) Close(ctx context.Context) error {
	err := rt.Manager.Shutdown(ctx)
	if errors.Is(err, terminal.ErrClosed) {
		err = nil
	}

	rt.loop.Stop()
	if loopErr := <-rt.loopErr; loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		err = errors.Join(err, loopErr)
	}

	rt.journal.Close()
	return err
}

func (a *App) startJournal(ctx context.Context) (*terminal.Journal, error) {
	repo, err := a.JournalRepository()
	if err != nil || repo == nil {
		return nil, err
	}

	if days := a.Config.Journal.RetentionDays; days > 0 {
		if _, err := repo.Prune(ctx, days); err != nil {
			logging.FromContext(a.ctx).Warn().Err(err).Msg("journal prune failed")
		}
	}
	return terminal.NewJournal(a.ctx, repo), nil
}

// watchConfig applies hot-reloadable settings to a running manager.
func (a *App) watchConfig(mgr *terminal.Manager) {
	if a.configs == nil {
		return
	}
	log := logging.FromContext(a.ctx)

	a.configs.OnConfigChange(func(cfg *config.Config) {
		mgr.SetResizeDebounce(cfg.Terminal.ResizeDebounce)
		if err := mgr.SetViewport(a.ctx, viewportOf(cfg)); err != nil && !errors.Is(err, terminal.ErrClosed) {
			log.Warn().Err(err).Msg("failed to apply viewport from config")
			return
		}
		log.Info().
			Dur("resize_debounce", cfg.Terminal.ResizeDebounce).
			Int("viewport_width", cfg.Terminal.ViewportWidth).
			Int("viewport_height", cfg.Terminal.ViewportHeight).
			Msg("configuration reloaded")
	})
	if err := a.configs.Watch(a.ctx); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
}

func viewportOf(cfg *config.Config) terminal.Viewport {
	return terminal.Viewport{
		Width:  cfg.Terminal.ViewportWidth,
		Height: cfg.Terminal.ViewportHeight,
	}
}
