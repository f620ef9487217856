package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/dumbmux/internal/cli/styles"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/domain/repository"
)

const defaultSessionsLimit = 20

var errJournalDisabled = errors.New("session journal is disabled (journal.enabled = false)")

var (
	sessionsJSON   bool
	sessionsLimit  int
	pruneOlderThan int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List pane sessions from the journal",
	Long: `List the pane sessions recorded in the local journal, newest first.

Each pane opened by 'dumbmux run' gets its own remote session. The journal
records when it was opened, when the remote side ended it and when it was
closed from dumbmux. Sessions are shown as:
  live    - neither ended nor closed (or dumbmux exited uncleanly)
  ended   - the remote shell exited
  closed  - the pane or its tab was closed`,
	RunE: runSessionsList,
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old sessions from the journal",
	Long: `Remove every journal event of sessions whose last event is older than
the given number of days. Defaults to journal.retention_days.`,
	RunE: runSessionsPrune,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", defaultSessionsLimit, "maximum sessions to show")

	sessionsCmd.AddCommand(sessionsPruneCmd)
	sessionsPruneCmd.Flags().IntVar(&pruneOlderThan, "older-than", 0, "age in days (default: journal.retention_days)")
}

func journal() (repository.SessionEventRepository, *styles.SessionsCLIRenderer, error) {
	app, err := requireApp()
	if err != nil {
		return nil, nil, err
	}
	repo, err := app.JournalRepository()
	if err != nil {
		return nil, nil, err
	}
	if repo == nil {
		return nil, nil, errJournalDisabled
	}
	return repo, styles.NewSessionsCLIRenderer(app.Theme), nil
}

func runSessionsList(_ *cobra.Command, _ []string) error {
	repo, renderer, err := journal()
	if err != nil {
		return err
	}

	summaries, err := repo.Recent(app.Ctx(), sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if sessionsJSON {
		return outputSessionsJSON(summaries)
	}
	if len(summaries) == 0 {
		fmt.Println(renderer.RenderEmptyList())
		return nil
	}
	fmt.Println(renderer.RenderList(summaries, sessionsLimit))
	return nil
}

type sessionJSON struct {
	SessionID string     `json:"session_id"`
	PaneID    string     `json:"pane_id"`
	OpenedAt  time.Time  `json:"opened_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Live      bool       `json:"live"`
}

func outputSessionsJSON(summaries []entity.SessionSummary) error {
	out := make([]sessionJSON, len(summaries))
	for i, s := range summaries {
		out[i] = sessionJSON{
			SessionID: string(s.SessionID),
			PaneID:    string(s.PaneID),
			OpenedAt:  s.OpenedAt,
			EndedAt:   s.EndedAt,
			ClosedAt:  s.ClosedAt,
			Live:      s.IsLive(),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runSessionsPrune(_ *cobra.Command, _ []string) error {
	repo, renderer, err := journal()
	if err != nil {
		return err
	}

	days := pruneOlderThan
	if days <= 0 {
		days = app.Config.Journal.RetentionDays
	}
	if days <= 0 {
		return fmt.Errorf("nothing to prune: pass --older-than or set journal.retention_days")
	}

	n, err := repo.Prune(app.Ctx(), days)
	if err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	fmt.Println(renderer.RenderPruned(n))
	return nil
}
