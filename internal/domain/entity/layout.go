package entity

// DefaultSplitRatio is the ratio given to every freshly inserted split.
const DefaultSplitRatio = 0.5

// CollectPaneIDs returns the set of pane ids in a subtree.
func CollectPaneIDs(node LayoutNode) map[PaneID]struct{} {
	ids := make(map[PaneID]struct{})
	for _, pane := range Panes(node) {
		ids[pane.ID] = struct{}{}
	}
	return ids
}

// RemovePane returns the tree with the target pane removed. A split that
// loses one child collapses and its surviving child takes its place. The
// result is nil when node itself is the target. Unknown ids leave the tree
// unchanged. The input tree is never mutated; untouched subtrees are shared.
func RemovePane(node LayoutNode, id PaneID) LayoutNode {
	switch n := node.(type) {
	case *PaneNode:
		if n.ID == id {
			return nil
		}
		return n
	case *SplitNode:
		first := RemovePane(n.First, id)
		if first == nil {
			return n.Second
		}
		second := RemovePane(n.Second, id)
		if second == nil {
			return n.First
		}
		if first == n.First && second == n.Second {
			return n
		}
		return &SplitNode{Direction: n.Direction, Ratio: n.Ratio, First: first, Second: second}
	}
	return node
}

// InsertSplit replaces the pane matching targetID with a split whose first
// child is the original pane and whose second child is newPane. Unknown ids
// leave the tree unchanged.
func InsertSplit(node LayoutNode, targetID PaneID, newPane *PaneNode, dir SplitDirection) LayoutNode {
	switch n := node.(type) {
	case *PaneNode:
		if n.ID != targetID {
			return n
		}
		return &SplitNode{Direction: dir, Ratio: DefaultSplitRatio, First: n, Second: newPane}
	case *SplitNode:
		first := InsertSplit(n.First, targetID, newPane, dir)
		second := n.Second
		if first == n.First {
			second = InsertSplit(n.Second, targetID, newPane, dir)
		}
		if first == n.First && second == n.Second {
			return n
		}
		return &SplitNode{Direction: n.Direction, Ratio: n.Ratio, First: first, Second: second}
	}
	return node
}

// ResizePane moves the divider of the split directly holding the pane so the
// pane grows by delta (negative shrinks). The new ratio is clamped with
// ClampRatio. Reports false when the pane is unknown or is the root.
func ResizePane(node LayoutNode, id PaneID, delta float64) (LayoutNode, bool) {
	split, ok := node.(*SplitNode)
	if !ok {
		return node, false
	}

	if isPane(split.First, id) {
		return split.withRatio(ClampRatio(split.Ratio + delta)), true
	}
	if isPane(split.Second, id) {
		return split.withRatio(ClampRatio(split.Ratio - delta)), true
	}

	if first, done := ResizePane(split.First, id, delta); done {
		return &SplitNode{Direction: split.Direction, Ratio: split.Ratio, First: first, Second: split.Second}, true
	}
	if second, done := ResizePane(split.Second, id, delta); done {
		return &SplitNode{Direction: split.Direction, Ratio: split.Ratio, First: split.First, Second: second}, true
	}
	return node, false
}

func (s *SplitNode) withRatio(ratio float64) *SplitNode {
	return &SplitNode{Direction: s.Direction, Ratio: ratio, First: s.First, Second: s.Second}
}

func isPane(node LayoutNode, id PaneID) bool {
	pane, ok := node.(*PaneNode)
	return ok && pane.ID == id
}
