package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

func pane(id string) *entity.PaneNode {
	return entity.NewPaneNode(entity.PaneID(id), entity.SessionID("s-"+id))
}

func ids(node entity.LayoutNode) map[entity.PaneID]struct{} {
	return entity.CollectPaneIDs(node)
}

func set(values ...string) map[entity.PaneID]struct{} {
	out := make(map[entity.PaneID]struct{}, len(values))
	for _, v := range values {
		out[entity.PaneID(v)] = struct{}{}
	}
	return out
}

func TestCollectPaneIDs(t *testing.T) {
	tree := &entity.SplitNode{
		Direction: entity.SplitHorizontal,
		Ratio:     0.5,
		First:     pane("a"),
		Second: &entity.SplitNode{
			Direction: entity.SplitVertical,
			Ratio:     0.3,
			First:     pane("b"),
			Second:    pane("c"),
		},
	}

	assert.Equal(t, set("a", "b", "c"), ids(tree))
	assert.Empty(t, ids(nil))
}

func TestRemovePane_CollapsesSplitToSibling(t *testing.T) {
	a, b := pane("a"), pane("b")
	tree := &entity.SplitNode{Direction: entity.SplitHorizontal, Ratio: 0.5, First: a, Second: b}

	result := entity.RemovePane(tree, "b")

	assert.Same(t, a, result)
}

func TestRemovePane_PromotesSurvivorInPlace(t *testing.T) {
	inner := &entity.SplitNode{Direction: entity.SplitVertical, Ratio: 0.4, First: pane("b"), Second: pane("c")}
	tree := &entity.SplitNode{Direction: entity.SplitHorizontal, Ratio: 0.7, First: pane("a"), Second: inner}

	result := entity.RemovePane(tree, "b")

	root, ok := result.(*entity.SplitNode)
	require.True(t, ok)
	assert.InDelta(t, 0.7, root.Ratio, 1e-12)
	assert.Equal(t, entity.PaneID("a"), root.First.(*entity.PaneNode).ID)
	assert.Equal(t, entity.PaneID("c"), root.Second.(*entity.PaneNode).ID)
	assert.Equal(t, set("a", "b", "c"), ids(tree), "input tree must not be mutated")
}

func TestRemovePane_RootTargetYieldsEmpty(t *testing.T) {
	assert.Nil(t, entity.RemovePane(pane("a"), "a"))
}

func TestRemovePane_UnknownIDIsNoop(t *testing.T) {
	tree := &entity.SplitNode{Direction: entity.SplitHorizontal, Ratio: 0.5, First: pane("a"), Second: pane("b")}

	result := entity.RemovePane(tree, "zzz")

	assert.Same(t, tree, result)
}

func TestInsertSplit_ReplacesTargetWithSplit(t *testing.T) {
	p1 := pane("p1")
	p2 := pane("p2")

	result := entity.InsertSplit(p1, "p1", p2, entity.SplitHorizontal)

	split, ok := result.(*entity.SplitNode)
	require.True(t, ok)
	assert.Equal(t, entity.SplitHorizontal, split.Direction)
	assert.InDelta(t, 0.5, split.Ratio, 1e-12)
	assert.Same(t, p1, split.First)
	assert.Same(t, p2, split.Second)
}

func TestInsertSplit_FindsDeepTarget(t *testing.T) {
	tree := &entity.SplitNode{
		Direction: entity.SplitHorizontal,
		Ratio:     0.5,
		First:     pane("a"),
		Second: &entity.SplitNode{
			Direction: entity.SplitVertical,
			Ratio:     0.5,
			First:     pane("b"),
			Second:    pane("c"),
		},
	}

	result := entity.InsertSplit(tree, "c", pane("d"), entity.SplitVertical)

	assert.Equal(t, set("a", "b", "c", "d"), ids(result))
	assert.Equal(t, set("a", "b", "c"), ids(tree))
	root := result.(*entity.SplitNode)
	assert.Same(t, tree.First, root.First, "untouched subtree is reused")
}

func TestInsertSplit_UnknownTargetIsNoop(t *testing.T) {
	tree := pane("a")
	assert.Same(t, tree, entity.InsertSplit(tree, "x", pane("b"), entity.SplitVertical))
}

func TestResizePane(t *testing.T) {
	tests := []struct {
		name      string
		target    entity.PaneID
		delta     float64
		wantRatio float64
		wantOK    bool
	}{
		{name: "grow first child", target: "a", delta: 0.1, wantRatio: 0.6, wantOK: true},
		{name: "grow second child", target: "b", delta: 0.1, wantRatio: 0.4, wantOK: true},
		{name: "clamped at minimum", target: "a", delta: -0.9, wantRatio: entity.MinSplitRatio, wantOK: true},
		{name: "unknown pane", target: "x", delta: 0.1, wantRatio: 0.5, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &entity.SplitNode{Direction: entity.SplitHorizontal, Ratio: 0.5, First: pane("a"), Second: pane("b")}

			result, ok := entity.ResizePane(tree, tt.target, tt.delta)

			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantRatio, result.(*entity.SplitNode).Ratio, 1e-9)
			assert.InDelta(t, 0.5, tree.Ratio, 1e-12)
		})
	}
}

func TestResizePane_SinglePaneHasNoDivider(t *testing.T) {
	tree := pane("a")

	result, ok := entity.ResizePane(tree, "a", 0.1)

	assert.False(t, ok)
	assert.Same(t, tree, result)
}

func TestParseSplitDirection(t *testing.T) {
	dir, ok := entity.ParseSplitDirection("v")
	assert.True(t, ok)
	assert.Equal(t, entity.SplitVertical, dir)

	_, ok = entity.ParseSplitDirection("diagonal")
	assert.False(t, ok)
}
