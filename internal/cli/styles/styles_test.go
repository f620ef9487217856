package styles_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbmux/internal/app/terminal"
	"github.com/bnema/dumbmux/internal/cli/styles"
	"github.com/bnema/dumbmux/internal/domain/build"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/infrastructure/config"
)

func TestSessionsCLIRenderer(t *testing.T) {
	r := styles.NewSessionsCLIRenderer(styles.NewTheme())

	require.Contains(t, r.RenderEmptyList(), "No pane sessions recorded.")
	require.Contains(t, r.RenderList(nil, 10), "No pane sessions recorded.")

	ended := time.Now().Add(-time.Minute)
	items := []entity.SessionSummary{
		{SessionID: "s-live", PaneID: "p1", OpenedAt: time.Now()},
		{SessionID: "s-ended", PaneID: "p2", OpenedAt: time.Now().Add(-time.Hour), EndedAt: &ended},
	}
	out := r.RenderList(items, 20)
	assert.Contains(t, out, "Pane sessions")
	assert.Contains(t, out, "showing up to 20")
	assert.Contains(t, out, "s-live")
	assert.Contains(t, out, "pane p1")
	assert.Contains(t, out, "live")
	assert.Contains(t, out, "ended")

	assert.Contains(t, r.RenderError(errors.New("boom")), "boom")
	assert.Contains(t, r.RenderPruned(3), "Pruned 3")
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", styles.RelativeTime(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", styles.RelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", styles.RelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", styles.RelativeTime(now.Add(-49*time.Hour), now))
	assert.Equal(t, "3w ago", styles.RelativeTime(now.Add(-22*24*time.Hour), now))
}

func TestConfigRenderer(t *testing.T) {
	r := styles.NewConfigRenderer(styles.NewTheme())

	out := r.RenderEffective(config.DefaultConfig())
	assert.Contains(t, out, "[server]")
	assert.Contains(t, out, "http://127.0.0.1:7681")
	assert.Contains(t, out, "resize_debounce")
	assert.Contains(t, out, "40ms")
	assert.Contains(t, out, "[journal]")

	assert.Contains(t, r.RenderConfigInfo("/tmp/config.toml"), "/tmp/config.toml")
	assert.Contains(t, r.RenderError(errors.New("bad toml")), "bad toml")
}

func TestLayoutRenderer_RenderView(t *testing.T) {
	r := styles.NewLayoutRenderer(styles.NewTheme())

	layout := &entity.SplitNode{
		Direction: entity.SplitHorizontal,
		Ratio:     0.5,
		First:     entity.NewPaneNode("a", "s-1"),
		Second: &entity.SplitNode{
			Direction: entity.SplitVertical,
			Ratio:     0.5,
			First:     entity.NewPaneNode("b", "s-2"),
			Second:    entity.NewPaneNode("c", "s-3"),
		},
	}
	rects := entity.ComputeRects(layout, 0, 0, 1, 1)
	view := terminal.View{
		ActiveTabID: "t2",
		Rects:       rects,
		Tabs: []terminal.TabView{
			{ID: "t1", Title: "first"},
			{
				ID:           "t2",
				Title:        "work",
				Active:       true,
				ActivePaneID: "b",
				Layout:       layout,
				Panes: []terminal.PaneView{
					{ID: "a", SessionID: "s-1", Rect: rects[0]},
					{ID: "b", SessionID: "s-2", Rect: rects[1]},
					{ID: "c", SessionID: "s-3", Rect: rects[2], Ended: true},
				},
			},
		},
	}

	out := r.RenderView(view)
	assert.Contains(t, out, "1:first")
	assert.Contains(t, out, "2:work")
	assert.Contains(t, out, "horizontal 0.50")
	assert.Contains(t, out, "├── ")
	assert.Contains(t, out, "    └── ")
	assert.Contains(t, out, "(s-3)")
	assert.Contains(t, out, "ended")

	assert.Contains(t, r.RenderView(terminal.View{}), "No tabs.")
	assert.Contains(t, r.RenderTree(nil, ""), "(empty)")
}

func TestLayoutRenderer_RenderPane(t *testing.T) {
	r := styles.NewLayoutRenderer(styles.NewTheme())

	out := r.RenderPane(terminal.PaneView{ID: "p1"}, true, "$ ls\n")
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "$ ls")

	out = r.RenderPane(terminal.PaneView{ID: "p2", Ended: true}, false, "bye")
	assert.Contains(t, out, "[ended]")
}

func TestAboutRenderer(t *testing.T) {
	out := styles.NewAboutRenderer(styles.NewTheme()).Render(build.Info{
		Version:   "v1.2.3",
		Commit:    "abc123",
		BuildDate: "2026-01-01",
		GoVersion: "go1.25.3",
	})

	assert.Contains(t, out, "v1.2.3")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, build.RepoURL())
}

func TestTabBar_Render(t *testing.T) {
	theme := styles.NewTheme()

	out := styles.NewTabBar(theme, 1).Add("1:shell").Add("2:logs").Render(0)
	assert.Contains(t, out, "1:shell")
	assert.Contains(t, out, "2:logs")
	assert.Contains(t, out, "│")

	assert.NotPanics(t, func() { styles.NewTabBar(theme, 5).Render(40) })
}
