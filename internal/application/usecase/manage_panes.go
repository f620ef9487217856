package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/logging"
)

// NavigateDirection indicates the direction for focus navigation.
type NavigateDirection string

const (
	NavLeft  NavigateDirection = "left"
	NavRight NavigateDirection = "right"
	NavUp    NavigateDirection = "up"
	NavDown  NavigateDirection = "down"
)

var (
	ErrPaneNotFound    = errors.New("pane not found in active tab")
	ErrNothingToResize = errors.New("nothing to resize")
)

// ManagePanesUseCase handles pane tree operations on the active tab.
type ManagePanesUseCase struct {
	idGenerator IDGenerator
}

// NewManagePanesUseCase creates a new pane management use case.
func NewManagePanesUseCase(idGenerator IDGenerator) *ManagePanesUseCase {
	return &ManagePanesUseCase{
		idGenerator: idGenerator,
	}
}

// SplitPaneInput contains parameters for splitting a pane.
type SplitPaneInput struct {
	TabList   *entity.TabList
	TargetID  entity.PaneID
	Direction entity.SplitDirection
	SessionID entity.SessionID // Already allocated remote session for the new pane
}

// SplitPaneOutput contains the result of a split operation.
type SplitPaneOutput struct {
	Tab     *entity.Tab
	NewPane *entity.PaneNode
}

// Split places a new pane beside the target inside the active tab. The new
// pane becomes the tab's active pane.
func (uc *ManagePanesUseCase) Split(ctx context.Context, input SplitPaneInput) (*SplitPaneOutput, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("direction", input.Direction.String()).
		Str("target_id", string(input.TargetID)).
		Msg("splitting pane")

	tab, err := activeTabWithPane(input.TabList, input.TargetID)
	if err != nil {
		return nil, err
	}

	newPane := entity.NewPaneNode(entity.PaneID(uc.idGenerator()), input.SessionID)
	tab.Layout = entity.InsertSplit(tab.Layout, input.TargetID, newPane, input.Direction)
	tab.ActivePaneID = newPane.ID

	log.Info().
		Str("tab_id", string(tab.ID)).
		Str("new_pane_id", string(newPane.ID)).
		Str("direction", input.Direction.String()).
		Int("panes", tab.PaneCount()).
		Msg("pane split completed")

	return &SplitPaneOutput{Tab: tab, NewPane: newPane}, nil
}

// ClosePaneOutput contains the result of closing a pane.
type ClosePaneOutput struct {
	Tab       *entity.Tab
	Removed   *entity.PaneNode
	TabClosed bool // The pane was the tab's last; the tab left the list
}

// Close removes a pane from the active tab. A tab whose tree becomes empty
// is removed from the list. When the closed pane was active, focus moves to
// the first pane of the subtree that took its place.
func (uc *ManagePanesUseCase) Close(ctx context.Context, tabs *entity.TabList, paneID entity.PaneID) (*ClosePaneOutput, error) {
	ctx = logging.WithPaneID(ctx, string(paneID))
	log := logging.FromContext(ctx)
	log.Debug().Msg("closing pane")

	tab, err := activeTabWithPane(tabs, paneID)
	if err != nil {
		return nil, err
	}

	removed := entity.FindPane(tab.Layout, paneID)
	sibling := siblingOf(tab.Layout, paneID)
	layout := entity.RemovePane(tab.Layout, paneID)

	if layout == nil {
		tabs.Remove(tab.ID)
		log.Info().
			Str("tab_id", string(tab.ID)).
			Int("remaining_tabs", tabs.Count()).
			Msg("closed last pane, tab removed")
		return &ClosePaneOutput{Tab: tab, Removed: removed, TabClosed: true}, nil
	}

	tab.Layout = layout
	if !tab.HasPane(tab.ActivePaneID) {
		if first := entity.Panes(sibling); len(first) > 0 {
			tab.ActivePaneID = first[0].ID
		} else {
			tab.ActivePaneID = entity.Panes(layout)[0].ID
		}
	}

	log.Info().
		Str("tab_id", string(tab.ID)).
		Str("active_pane", string(tab.ActivePaneID)).
		Int("panes", tab.PaneCount()).
		Msg("pane closed")

	return &ClosePaneOutput{Tab: tab, Removed: removed}, nil
}

// Focus sets the active tab's active pane.
func (uc *ManagePanesUseCase) Focus(ctx context.Context, tabs *entity.TabList, paneID entity.PaneID) error {
	tab, err := activeTabWithPane(tabs, paneID)
	if err != nil {
		return err
	}

	if tab.ActivePaneID == paneID {
		return nil
	}

	logging.FromContext(ctx).Debug().
		Str("from", string(tab.ActivePaneID)).
		Str("to", string(paneID)).
		Msg("focus changed")

	tab.ActivePaneID = paneID
	return nil
}

// Resize moves the divider next to the pane so the pane grows by delta.
func (uc *ManagePanesUseCase) Resize(ctx context.Context, tabs *entity.TabList, paneID entity.PaneID, delta float64) error {
	tab, err := activeTabWithPane(tabs, paneID)
	if err != nil {
		return err
	}

	layout, ok := entity.ResizePane(tab.Layout, paneID, delta)
	if !ok {
		return ErrNothingToResize
	}
	tab.Layout = layout

	logging.FromContext(ctx).Debug().
		Str("pane_id", string(paneID)).
		Float64("delta", delta).
		Msg("pane resized")

	return nil
}

// NavigateFocus moves focus to the nearest pane in the given direction,
// judged on the active tab's resolved rectangles. Returns the newly focused
// pane, or false when nothing lies in that direction.
func (uc *ManagePanesUseCase) NavigateFocus(
	ctx context.Context,
	tabs *entity.TabList,
	direction NavigateDirection,
) (entity.PaneID, bool, error) {
	log := logging.FromContext(ctx)

	if tabs == nil {
		return "", false, ErrTabListRequired
	}
	tab := tabs.ActiveTab()
	if tab == nil {
		return "", false, ErrNoActiveTab
	}

	rects := tab.Rects()
	active, ok := entity.FindRect(rects, tab.ActivePaneID)
	if !ok {
		return "", false, nil
	}

	candidates := scoreNavigationCandidates(active, rects, direction)
	if len(candidates) == 0 {
		log.Debug().Str("direction", string(direction)).Msg("no candidates in direction")
		return "", false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	target := candidates[0].paneID
	tab.ActivePaneID = target

	log.Debug().
		Str("direction", string(direction)).
		Str("target", string(target)).
		Msg("geometric navigation found target")

	return target, true, nil
}

type navCandidate struct {
	paneID entity.PaneID
	score  float64
}

// scoreNavigationCandidates scores all panes in the given direction from
// active. Panes sharing a row (left/right) or column (up/down) with the
// active pane always beat panes that do not.
func scoreNavigationCandidates(active entity.Rect, rects []entity.Rect, direction NavigateDirection) []navCandidate {
	const noOverlapPenalty = 1_000

	acx, acy := active.Center()
	var candidates []navCandidate

	for _, rect := range rects {
		if rect.PaneID == active.PaneID {
			continue
		}

		cx, cy := rect.Center()
		inDirection, primary, perp, overlap := evalDirection(active, rect, cx-acx, cy-acy, direction)
		if !inDirection {
			continue
		}

		score := primary*10 + perp
		if !overlap {
			score += noOverlapPenalty
		}
		candidates = append(candidates, navCandidate{paneID: rect.PaneID, score: score})
	}

	return candidates
}

func evalDirection(
	active, rect entity.Rect,
	dx, dy float64,
	direction NavigateDirection,
) (inDirection bool, primary, perp float64, overlap bool) {
	switch direction {
	case NavLeft:
		return dx < 0, math.Abs(dx), math.Abs(dy), active.OverlapsVertically(rect)
	case NavRight:
		return dx > 0, math.Abs(dx), math.Abs(dy), active.OverlapsVertically(rect)
	case NavUp:
		return dy < 0, math.Abs(dy), math.Abs(dx), active.OverlapsHorizontally(rect)
	case NavDown:
		return dy > 0, math.Abs(dy), math.Abs(dx), active.OverlapsHorizontally(rect)
	default:
		return false, 0, 0, false
	}
}

func activeTabWithPane(tabs *entity.TabList, paneID entity.PaneID) (*entity.Tab, error) {
	if tabs == nil {
		return nil, ErrTabListRequired
	}
	tab := tabs.ActiveTab()
	if tab == nil {
		return nil, ErrNoActiveTab
	}
	if !tab.HasPane(paneID) {
		return nil, fmt.Errorf("%w: %s", ErrPaneNotFound, paneID)
	}
	return tab, nil
}

// siblingOf returns the other child of the split directly holding the pane.
func siblingOf(node entity.LayoutNode, id entity.PaneID) entity.LayoutNode {
	var sibling entity.LayoutNode
	entity.Walk(node, func(n entity.LayoutNode) bool {
		split, ok := n.(*entity.SplitNode)
		if !ok {
			return true
		}
		if p, ok := split.First.(*entity.PaneNode); ok && p.ID == id {
			sibling = split.Second
			return false
		}
		if p, ok := split.Second.(*entity.PaneNode); ok && p.ID == id {
			sibling = split.First
			return false
		}
		return true
	})
	return sibling
}
