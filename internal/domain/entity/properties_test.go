package entity_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

// buildTree grows a tree from a list of choices: each choice picks an
// existing pane to split, a direction and a divider offset.
func buildTree(choices []int) (entity.LayoutNode, []entity.PaneID) {
	var root entity.LayoutNode = pane("p0")
	known := []entity.PaneID{"p0"}
	for i, c := range choices {
		if c < 0 {
			c = -c
		}
		target := known[c%len(known)]
		dir := entity.SplitDirection((c / 7) % 2)
		id := fmt.Sprintf("p%d", i+1)
		root = entity.InsertSplit(root, target, pane(id), dir)
		delta := float64(c%90-45) / 100
		root, _ = entity.ResizePane(root, entity.PaneID(id), delta)
		known = append(known, entity.PaneID(id))
	}
	return root, known
}

// gapArea mirrors the resolver's gap allocation to total divider area.
func gapArea(node entity.LayoutNode, w, h float64) float64 {
	split, ok := node.(*entity.SplitNode)
	if !ok {
		return 0
	}
	if split.Direction == entity.SplitHorizontal {
		g := w * entity.SplitGap
		return g*h +
			gapArea(split.First, w*split.Ratio-g/2, h) +
			gapArea(split.Second, w-w*split.Ratio-g/2, h)
	}
	g := h * entity.SplitGap
	return g*w +
		gapArea(split.First, w, h*split.Ratio-g/2) +
		gapArea(split.Second, w, h-h*split.Ratio-g/2)
}

func sameSet(a, b map[entity.PaneID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func layoutParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.MaxSize = 24
	return parameters
}

func TestLayoutProperties(t *testing.T) {
	properties := gopter.NewProperties(layoutParameters())
	choices := gen.SliceOf(gen.IntRange(0, 10_000))

	properties.Property("remove drops exactly the target id", prop.ForAll(
		func(cs []int, pick int) bool {
			tree, known := buildTree(cs)
			target := known[pick%len(known)]

			want := entity.CollectPaneIDs(tree)
			delete(want, target)
			return sameSet(want, entity.CollectPaneIDs(entity.RemovePane(tree, target)))
		},
		choices, gen.IntRange(0, 1000),
	))

	properties.Property("insert adds exactly the new id beside the target", prop.ForAll(
		func(cs []int, pick int, vertical bool) bool {
			tree, known := buildTree(cs)
			target := known[pick%len(known)]
			dir := entity.SplitHorizontal
			if vertical {
				dir = entity.SplitVertical
			}
			newPane := pane("fresh")

			result := entity.InsertSplit(tree, target, newPane, dir)

			want := entity.CollectPaneIDs(tree)
			want[newPane.ID] = struct{}{}
			if !sameSet(want, entity.CollectPaneIDs(result)) {
				return false
			}

			found := false
			entity.Walk(result, func(n entity.LayoutNode) bool {
				split, ok := n.(*entity.SplitNode)
				if !ok || split.Second != entity.LayoutNode(newPane) {
					return true
				}
				first, ok := split.First.(*entity.PaneNode)
				found = ok && first.ID == target && split.Direction == dir
				return false
			})
			return found
		},
		choices, gen.IntRange(0, 1000), gen.Bool(),
	))

	properties.Property("rects tile the unit square minus dividers", prop.ForAll(
		func(cs []int) bool {
			tree, known := buildTree(cs)
			rects := entity.ComputeRects(tree, 0, 0, 1, 1)
			if len(rects) != len(known) {
				return false
			}

			total := 0.0
			for _, r := range rects {
				if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 {
					return false
				}
				if r.X+r.W > 1+1e-9 || r.Y+r.H > 1+1e-9 {
					return false
				}
				total += r.Area()
			}
			return math.Abs(total+gapArea(tree, 1, 1)-1) < 1e-9
		},
		choices,
	))

	properties.TestingRun(t)
}
