package entity

const (
	// SplitGap is the fraction of a split's axis reserved for the divider.
	SplitGap = 0.003

	// MinSplitRatio bounds how small either side of a split may get.
	MinSplitRatio = 0.05
)

// Rect is a pane's position and size in normalized [0,1] coordinates,
// relative to the tab's surface.
type Rect struct {
	PaneID PaneID
	X, Y   float64
	W, H   float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (cx, cy float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// OverlapsVertically reports whether the two rects share part of the Y axis.
func (r Rect) OverlapsVertically(o Rect) bool {
	return r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// OverlapsHorizontally reports whether the two rects share part of the X axis.
func (r Rect) OverlapsHorizontally(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W
}

// Area returns W*H.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// ClampRatio bounds a split ratio to [MinSplitRatio, 1-MinSplitRatio].
// ComputeRects does not clamp; callers that set ratios must.
func ClampRatio(ratio float64) float64 {
	if ratio < MinSplitRatio {
		return MinSplitRatio
	}
	if ratio > 1-MinSplitRatio {
		return 1 - MinSplitRatio
	}
	return ratio
}

// ComputeRects resolves a layout tree into one rectangle per pane. A split
// gives ratio of its axis to First and the remainder to Second, each side
// giving up half of the gap at the boundary. Call with (0, 0, 1, 1) for a
// tab's root. Unclamped ratios may yield degenerate rectangles.
func ComputeRects(node LayoutNode, x, y, w, h float64) []Rect {
	var rects []Rect
	computeRects(node, x, y, w, h, &rects)
	return rects
}

func computeRects(node LayoutNode, x, y, w, h float64, out *[]Rect) {
	switch n := node.(type) {
	case *PaneNode:
		*out = append(*out, Rect{PaneID: n.ID, X: x, Y: y, W: w, H: h})
	case *SplitNode:
		switch n.Direction {
		case SplitHorizontal:
			gap := w * SplitGap
			firstW := w*n.Ratio - gap/2
			secondX := x + w*n.Ratio + gap/2
			computeRects(n.First, x, y, firstW, h, out)
			computeRects(n.Second, secondX, y, x+w-secondX, h, out)
		case SplitVertical:
			gap := h * SplitGap
			firstH := h*n.Ratio - gap/2
			secondY := y + h*n.Ratio + gap/2
			computeRects(n.First, x, y, w, firstH, out)
			computeRects(n.Second, x, secondY, w, y+h-secondY, out)
		}
	}
}

// FindRect returns the rectangle for a pane.
func FindRect(rects []Rect, id PaneID) (Rect, bool) {
	for _, r := range rects {
		if r.PaneID == id {
			return r, true
		}
	}
	return Rect{}, false
}
