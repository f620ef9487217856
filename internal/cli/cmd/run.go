package cmd

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/dumbmux/internal/cli"
	"github.com/bnema/dumbmux/internal/cli/model"
	"github.com/bnema/dumbmux/internal/infrastructure/config"
	"github.com/bnema/dumbmux/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var runServer string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive multiplexer",
	Long: `Open a tab backed by a new remote session and take commands at the
prompt below the live layout. Type 'help' for the command list.

Logs go to the dumbmux.log file in the data directory while the view is
open. On quit every pane is closed and every remote session is deleted
before exiting.

Examples:
  dumbmux run
  dumbmux run --server http://devbox:7681`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runServer, "server", "", "session server base URL (overrides server.base_url)")
}

func runRun(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	if runServer != "" {
		app.Config.Server.BaseURL = runServer
	}

	// The view owns the terminal from here on.
	if path, pathErr := config.GetLogFile(); pathErr == nil {
		if err := app.LogToFile(path); err != nil {
			return err
		}
	}
	log := logging.FromContext(app.Ctx())

	feed := model.NewViewFeed()
	rt, err := app.StartRuntime(app.Ctx(), feed.Publish)
	if err != nil {
		return err
	}

	initial, err := rt.Manager.View(app.Ctx())
	if err != nil {
		log.Warn().Err(err).Msg("initial view unavailable")
	}

	m := model.NewRunModel(app.Ctx(), app.Theme, model.RunModelConfig{
		Executor: cli.NewController(rt.Manager, app.Theme),
		Feed:     feed,
		Initial:  initial,
		Server:   app.Config.Server.BaseURL,
		Journal:  app.Config.Journal.Enabled,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(app.Ctx()))
	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) || errors.Is(runErr, tea.ErrInterrupted) {
		runErr = nil
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(app.Ctx()), shutdownTimeout)
	defer cancel()
	if err := rt.Close(closeCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown incomplete")
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
