// Package entity contains domain entities representing core multiplexer concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// PaneID uniquely identifies a pane. It is generated once when the pane is
// created and never derived from the pane's position in a layout.
type PaneID string

// SessionID identifies a remote pseudo-terminal session.
type SessionID string

// SplitDirection indicates how a split node divides its space.
type SplitDirection int

const (
	SplitHorizontal SplitDirection = iota // Left/right split, divides width
	SplitVertical                         // Top/bottom split, divides height
)

// String returns the lowercase name of the direction.
func (d SplitDirection) String() string {
	switch d {
	case SplitHorizontal:
		return "horizontal"
	case SplitVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// ParseSplitDirection accepts "h", "horizontal", "v" or "vertical".
func ParseSplitDirection(s string) (SplitDirection, bool) {
	switch s {
	case "h", "horizontal":
		return SplitHorizontal, true
	case "v", "vertical":
		return SplitVertical, true
	}
	return SplitHorizontal, false
}

// LayoutNode is a node of a tab's layout tree: either a *PaneNode (leaf)
// or a *SplitNode (internal). Trees are strict binary trees with no sharing.
type LayoutNode interface {
	isLayoutNode()
}

// PaneNode is a leaf hosting exactly one terminal session.
type PaneNode struct {
	ID        PaneID
	SessionID SessionID
}

// SplitNode divides its space between two owned subtrees.
// Ratio is the fractional share given to First along the split axis.
type SplitNode struct {
	Direction SplitDirection
	Ratio     float64
	First     LayoutNode
	Second    LayoutNode
}

func (*PaneNode) isLayoutNode()  {}
func (*SplitNode) isLayoutNode() {}

// NewPaneNode creates a leaf for the given pane and session.
func NewPaneNode(id PaneID, sessionID SessionID) *PaneNode {
	return &PaneNode{ID: id, SessionID: sessionID}
}

// Walk traverses the tree depth-first, first child before second.
// Returns early if fn returns false.
func Walk(node LayoutNode, fn func(LayoutNode) bool) bool {
	if node == nil {
		return true
	}
	if !fn(node) {
		return false
	}
	if split, ok := node.(*SplitNode); ok {
		if !Walk(split.First, fn) {
			return false
		}
		return Walk(split.Second, fn)
	}
	return true
}

// FindPane searches the tree for a pane with the given ID.
func FindPane(node LayoutNode, id PaneID) *PaneNode {
	var found *PaneNode
	Walk(node, func(n LayoutNode) bool {
		if pane, ok := n.(*PaneNode); ok && pane.ID == id {
			found = pane
			return false
		}
		return true
	})
	return found
}

// Panes returns the leaves of the tree in depth-first order.
func Panes(node LayoutNode) []*PaneNode {
	var panes []*PaneNode
	Walk(node, func(n LayoutNode) bool {
		if pane, ok := n.(*PaneNode); ok {
			panes = append(panes, pane)
		}
		return true
	})
	return panes
}

// LeafCount returns the number of panes in the tree.
func LeafCount(node LayoutNode) int {
	return len(Panes(node))
}
