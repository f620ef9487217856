package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/dumbmux/internal/app/terminal"
	"github.com/bnema/dumbmux/internal/application/usecase"
	"github.com/bnema/dumbmux/internal/cli/styles"
	"github.com/bnema/dumbmux/internal/domain/entity"
)

const defaultResizeStep = 0.05

var (
	// ErrQuit is returned by Execute for quit and exit.
	ErrQuit = errors.New("quit")

	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrNoMatch        = errors.New("no match")
	ErrAmbiguous      = errors.New("ambiguous")
)

// Multiplexer is the part of terminal.Manager the controller drives.
type Multiplexer interface {
	NewTab(ctx context.Context) (entity.TabID, error)
	CloseTab(ctx context.Context, tabID entity.TabID) error
	Split(ctx context.Context, paneID entity.PaneID, direction entity.SplitDirection) (entity.PaneID, error)
	ClosePane(ctx context.Context, paneID entity.PaneID) error
	FocusPane(ctx context.Context, paneID entity.PaneID) error
	FocusDirection(ctx context.Context, direction usecase.NavigateDirection) (entity.PaneID, error)
	SwitchTab(ctx context.Context, tabID entity.TabID) error
	NextTab(ctx context.Context, dir int) error
	RenameTab(ctx context.Context, tabID entity.TabID, name string) error
	ResizeSplit(ctx context.Context, paneID entity.PaneID, delta float64) error
	Send(ctx context.Context, paneID entity.PaneID, p []byte) error
	View(ctx context.Context) (terminal.View, error)
	Render(ctx context.Context, paneID entity.PaneID) (string, error)
}

var _ Multiplexer = (*terminal.Manager)(nil)

// Controller interprets line commands against a Multiplexer.
type Controller struct {
	mux    Multiplexer
	theme  *styles.Theme
	layout *styles.LayoutRenderer
}

// NewController creates a controller rendering with theme.
func NewController(mux Multiplexer, theme *styles.Theme) *Controller {
	return &Controller{
		mux:    mux,
		theme:  theme,
		layout: styles.NewLayoutRenderer(theme),
	}
}

type commandFunc func(c *Controller, ctx context.Context, args []string) (string, error)

type command struct {
	usage string
	help  string
	run   commandFunc
}

var commands = map[string]command{
	"tab":       {"tab", "open a new tab", (*Controller).cmdTab},
	"close-tab": {"close-tab [tab]", "close a tab (default: active)", (*Controller).cmdCloseTab},
	"split":     {"split h|v [pane]", "split a pane side by side (h) or stacked (v)", (*Controller).cmdSplit},
	"close":     {"close [pane]", "close a pane (default: active)", (*Controller).cmdClose},
	"focus":     {"focus <pane>|left|right|up|down", "focus a pane by id or direction", (*Controller).cmdFocus},
	"next":      {"next", "switch to the next tab", (*Controller).cmdNext},
	"prev":      {"prev", "switch to the previous tab", (*Controller).cmdPrev},
	"switch":    {"switch <tab>", "switch to a tab by number or id", (*Controller).cmdSwitch},
	"rename":    {"rename <title>", "rename the active tab", (*Controller).cmdRename},
	"grow":      {"grow [step]", "grow the active pane", (*Controller).cmdGrow},
	"shrink":    {"shrink [step]", "shrink the active pane", (*Controller).cmdShrink},
	"layout":    {"layout", "print tabs, the layout tree and pane rects", (*Controller).cmdLayout},
	"show":      {"show [pane]", "print a pane's screen (default: active)", (*Controller).cmdShow},
	"send":      {"send <text>", "type text followed by Enter into the active pane", (*Controller).cmdSend},
}

// commandOrder is the help listing order.
var commandOrder = []string{
	"tab", "close-tab", "next", "prev", "switch", "rename",
	"split", "close", "focus", "grow", "shrink",
	"send", "show", "layout",
}

// Execute runs one command line and returns its output.
func (c *Controller) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit":
		return "", ErrQuit
	case "help":
		return c.help(), nil
	case "send":
		// Keep the text's own spacing.
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		return c.cmdSend(ctx, []string{text})
	}

	cmd, ok := commands[name]
	if !ok {
		return "", fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, name)
	}
	return cmd.run(c, ctx, args)
}

func (c *Controller) cmdTab(ctx context.Context, _ []string) (string, error) {
	id, err := c.mux.NewTab(ctx)
	if err != nil {
		return "", err
	}
	return c.ok("opened tab %s", id), nil
}

func (c *Controller) cmdCloseTab(ctx context.Context, args []string) (string, error) {
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	tabID := view.ActiveTabID
	if len(args) > 0 {
		if tabID, err = resolveTab(view, args[0]); err != nil {
			return "", err
		}
	}
	if err := c.mux.CloseTab(ctx, tabID); err != nil {
		return "", err
	}
	return c.ok("closed tab %s", tabID), nil
}

func (c *Controller) cmdSplit(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: split h|v [pane]", ErrUsage)
	}
	direction, ok := entity.ParseSplitDirection(strings.ToLower(args[0]))
	if !ok {
		return "", fmt.Errorf("%w: split direction must be h or v, got %q", ErrUsage, args[0])
	}

	paneID, err := c.paneArg(ctx, args[1:])
	if err != nil {
		return "", err
	}
	newID, err := c.mux.Split(ctx, paneID, direction)
	if err != nil {
		return "", err
	}
	return c.ok("split %s %s, new pane %s", paneID, direction, newID), nil
}

func (c *Controller) cmdClose(ctx context.Context, args []string) (string, error) {
	paneID, err := c.paneArg(ctx, args)
	if err != nil {
		return "", err
	}
	if err := c.mux.ClosePane(ctx, paneID); err != nil {
		return "", err
	}
	return c.ok("closed pane %s", paneID), nil
}

func (c *Controller) cmdFocus(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: focus <pane>|left|right|up|down", ErrUsage)
	}

	switch dir := usecase.NavigateDirection(strings.ToLower(args[0])); dir {
	case usecase.NavLeft, usecase.NavRight, usecase.NavUp, usecase.NavDown:
		paneID, err := c.mux.FocusDirection(ctx, dir)
		if err != nil {
			return "", err
		}
		if paneID == "" {
			return c.theme.Subtle.Render("no pane " + string(dir)), nil
		}
		return c.ok("focused %s", paneID), nil
	}

	paneID, err := c.paneArg(ctx, args)
	if err != nil {
		return "", err
	}
	if err := c.mux.FocusPane(ctx, paneID); err != nil {
		return "", err
	}
	return c.ok("focused %s", paneID), nil
}

func (c *Controller) cmdNext(ctx context.Context, _ []string) (string, error) {
	return c.cycle(ctx, 1)
}

func (c *Controller) cmdPrev(ctx context.Context, _ []string) (string, error) {
	return c.cycle(ctx, -1)
}

func (c *Controller) cycle(ctx context.Context, dir int) (string, error) {
	if err := c.mux.NextTab(ctx, dir); err != nil {
		return "", err
	}
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	return c.layout.RenderTabBar(view), nil
}

func (c *Controller) cmdSwitch(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: switch <tab>", ErrUsage)
	}
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	tabID, err := resolveTab(view, args[0])
	if err != nil {
		return "", err
	}
	if err := c.mux.SwitchTab(ctx, tabID); err != nil {
		return "", err
	}
	return c.ok("switched to tab %s", tabID), nil
}

func (c *Controller) cmdRename(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: rename <title>", ErrUsage)
	}
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	title := strings.Join(args, " ")
	if err := c.mux.RenameTab(ctx, view.ActiveTabID, title); err != nil {
		return "", err
	}
	return c.ok("renamed tab to %q", title), nil
}

func (c *Controller) cmdGrow(ctx context.Context, args []string) (string, error) {
	return c.resize(ctx, args, 1)
}

func (c *Controller) cmdShrink(ctx context.Context, args []string) (string, error) {
	return c.resize(ctx, args, -1)
}

func (c *Controller) resize(ctx context.Context, args []string, sign float64) (string, error) {
	step := defaultResizeStep
	if len(args) > 0 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil || v <= 0 || v >= 1 {
			return "", fmt.Errorf("%w: step must be a fraction between 0 and 1, got %q", ErrUsage, args[0])
		}
		step = v
	}

	paneID, err := c.paneArg(ctx, nil)
	if err != nil {
		return "", err
	}
	if err := c.mux.ResizeSplit(ctx, paneID, sign*step); err != nil {
		return "", err
	}
	return c.ok("resized %s by %+.2f", paneID, sign*step), nil
}

func (c *Controller) cmdLayout(ctx context.Context, _ []string) (string, error) {
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	return c.layout.RenderView(view), nil
}

func (c *Controller) cmdShow(ctx context.Context, args []string) (string, error) {
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	tab, ok := view.ActiveTab()
	if !ok {
		return "", usecase.ErrNoActiveTab
	}

	paneID := tab.ActivePaneID
	if len(args) > 0 {
		if paneID, err = resolvePane(tab, args[0]); err != nil {
			return "", err
		}
	}

	grid, err := c.mux.Render(ctx, paneID)
	if err != nil {
		return "", err
	}
	for _, pane := range tab.Panes {
		if pane.ID == paneID {
			return c.layout.RenderPane(pane, pane.ID == tab.ActivePaneID, grid), nil
		}
	}
	return grid, nil
}

func (c *Controller) cmdSend(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("%w: send <text>", ErrUsage)
	}
	paneID, err := c.paneArg(ctx, nil)
	if err != nil {
		return "", err
	}
	if err := c.mux.Send(ctx, paneID, []byte(args[0]+"\r")); err != nil {
		return "", err
	}
	return "", nil
}

func (c *Controller) help() string {
	var b strings.Builder
	b.WriteString(c.theme.Title.Render("Commands") + "\n")
	for _, name := range commandOrder {
		cmd := commands[name]
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			c.theme.HelpKey.Render(fmt.Sprintf("%-34s", cmd.usage)),
			c.theme.HelpDesc.Render(cmd.help)))
	}
	b.WriteString(fmt.Sprintf("  %s  %s",
		c.theme.HelpKey.Render(fmt.Sprintf("%-34s", "quit")),
		c.theme.HelpDesc.Render("close every pane and exit")))
	return b.String()
}

// paneArg resolves an optional pane argument against the active tab,
// defaulting to its active pane.
func (c *Controller) paneArg(ctx context.Context, args []string) (entity.PaneID, error) {
	view, err := c.mux.View(ctx)
	if err != nil {
		return "", err
	}
	tab, ok := view.ActiveTab()
	if !ok {
		return "", usecase.ErrNoActiveTab
	}
	if len(args) == 0 {
		return tab.ActivePaneID, nil
	}
	return resolvePane(tab, args[0])
}

func (c *Controller) ok(format string, args ...any) string {
	return c.theme.SuccessStyle.Render(styles.IconCheck) + " " + fmt.Sprintf(format, args...)
}

// resolvePane matches a full pane id or a unique prefix within the tab.
func resolvePane(tab terminal.TabView, arg string) (entity.PaneID, error) {
	ids := make([]string, len(tab.Panes))
	for i, pane := range tab.Panes {
		ids[i] = string(pane.ID)
	}
	id, err := matchID(ids, arg)
	if err != nil {
		return "", fmt.Errorf("pane %q: %w", arg, err)
	}
	return entity.PaneID(id), nil
}

// resolveTab accepts a 1-based tab number, a full tab id or a unique prefix.
func resolveTab(view terminal.View, arg string) (entity.TabID, error) {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(view.Tabs) {
		return view.Tabs[n-1].ID, nil
	}

	ids := make([]string, len(view.Tabs))
	for i, tab := range view.Tabs {
		ids[i] = string(tab.ID)
	}
	id, err := matchID(ids, arg)
	if err != nil {
		return "", fmt.Errorf("tab %q: %w", arg, err)
	}
	return entity.TabID(id), nil
}

func matchID(ids []string, arg string) (string, error) {
	var match string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			if match != "" {
				return "", ErrAmbiguous
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrNoMatch
	}
	return match, nil
}
