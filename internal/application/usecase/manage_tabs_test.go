package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

func TestManageTabs_CreateMakesSinglePaneActiveTab(t *testing.T) {
	uc := NewManageTabsUseCase(sequentialIDs())
	tabs := entity.NewTabList()

	out, err := uc.Create(context.Background(), CreateTabInput{TabList: tabs, SessionID: "s1"})

	require.NoError(t, err)
	assert.Equal(t, entity.TabID("id-1"), out.Tab.ID)
	assert.Equal(t, entity.PaneID("id-2"), out.Pane.ID)
	assert.Equal(t, entity.SessionID("s1"), out.Pane.SessionID)
	assert.Equal(t, out.Tab.ID, tabs.ActiveTabID)
	assert.Equal(t, out.Pane.ID, out.Tab.ActivePaneID)
	assert.Equal(t, 1, out.Tab.PaneCount())
}

func TestManageTabs_CreateRequiresSession(t *testing.T) {
	uc := NewManageTabsUseCase(sequentialIDs())

	_, err := uc.Create(context.Background(), CreateTabInput{TabList: entity.NewTabList()})
	assert.Error(t, err)

	_, err = uc.Create(context.Background(), CreateTabInput{SessionID: "s1"})
	assert.ErrorIs(t, err, ErrTabListRequired)
}

func TestManageTabs_CloseReportsAllPanes(t *testing.T) {
	ctx := context.Background()
	tabsUC := NewManageTabsUseCase(sequentialIDs())
	panesUC := NewManagePanesUseCase(sequentialIDs())
	tabs := entity.NewTabList()

	created, err := tabsUC.Create(ctx, CreateTabInput{TabList: tabs, SessionID: "s1"})
	require.NoError(t, err)
	_, err = panesUC.Split(ctx, SplitPaneInput{
		TabList:   tabs,
		TargetID:  created.Pane.ID,
		Direction: entity.SplitVertical,
		SessionID: "s2",
	})
	require.NoError(t, err)

	out, err := tabsUC.Close(ctx, tabs, created.Tab.ID)

	require.NoError(t, err)
	assert.True(t, out.WasLast)
	require.Len(t, out.Panes, 2)
	assert.Equal(t, entity.SessionID("s1"), out.Panes[0].SessionID)
	assert.Equal(t, entity.SessionID("s2"), out.Panes[1].SessionID)
	assert.Zero(t, tabs.Count())
}

func TestManageTabs_CloseUnknownTab(t *testing.T) {
	uc := NewManageTabsUseCase(sequentialIDs())

	_, err := uc.Close(context.Background(), entity.NewTabList(), "missing")

	assert.ErrorIs(t, err, ErrTabNotFound)
}

func TestManageTabs_CycleWraps(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTabsUseCase(sequentialIDs())
	tabs := entity.NewTabList()
	for _, s := range []entity.SessionID{"s1", "s2", "s3"} {
		_, err := uc.Create(ctx, CreateTabInput{TabList: tabs, SessionID: s})
		require.NoError(t, err)
	}
	first := tabs.Tabs[0].ID

	got, err := uc.Cycle(ctx, tabs, 1)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, first, tabs.ActiveTabID)

	got, err = uc.Cycle(ctx, tabs, -1)
	require.NoError(t, err)
	assert.Equal(t, tabs.Tabs[2].ID, got)

	got, err = uc.Cycle(ctx, tabs, 5)
	require.NoError(t, err)
	assert.Equal(t, tabs.Tabs[1].ID, got)

	got, err = uc.Cycle(ctx, entity.NewTabList(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestManageTabs_Rename(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTabsUseCase(sequentialIDs())
	tabs := entity.NewTabList()
	out, err := uc.Create(ctx, CreateTabInput{TabList: tabs, SessionID: "s1"})
	require.NoError(t, err)

	require.NoError(t, uc.Rename(ctx, tabs, out.Tab.ID, "logs"))
	assert.Equal(t, "logs", out.Tab.Title())

	assert.ErrorIs(t, uc.Rename(ctx, tabs, "nope", "x"), ErrTabNotFound)
	assert.ErrorIs(t, uc.Switch(ctx, tabs, "nope"), ErrTabNotFound)
}
