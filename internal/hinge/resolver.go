package hinge

import "slices"

// State is a spanning snapshot. Two states are compared structurally to
// decide whether consumers need to hear about a change.
type State struct {
	IsSpanning  bool
	WindowRects []Rect
	Rotation    Rotation
}

// Equal reports structural equality on all fields.
func (s State) Equal(other State) bool {
	return s.IsSpanning == other.IsSpanning &&
		s.Rotation == other.Rotation &&
		slices.Equal(s.WindowRects, other.WindowRects)
}

// ComputeSpanning partitions window into the usable regions on either side
// of hingeRect and reports whether the window straddles the hinge.
//
// A zero-size hingeRect yields a single region. Otherwise hingeRect.Top == 0
// selects a left/right split and anything else a top/bottom split. That test
// treats "touches the top edge" as "vertical hinge", which only holds for
// windows anchored at y=0. The bar inset is subtracted without clamping, so
// oversized bars produce regions with negative height.
func ComputeSpanning(window, hingeRect Rect, rotation Rotation, statusBarPx, navBarPx int) State {
	spanning := false
	if window.HasArea() {
		spanning = hingeRect.Intersects(window)
	}

	barInset := statusBarPx + navBarPx

	var rects []Rect
	switch {
	case hingeRect.IsZeroSize():
		bounds := window
		bounds.Bottom -= barInset
		rects = []Rect{bounds}

	case hingeRect.Top == 0:
		bottom := window.Bottom - barInset
		rects = []Rect{
			{Left: 0, Top: 0, Right: hingeRect.Left, Bottom: bottom},
			{Left: hingeRect.Right, Top: 0, Right: window.Right, Bottom: bottom},
		}

	default:
		top := hingeRect.Top - barInset
		bottom := hingeRect.Bottom - barInset
		rects = []Rect{
			{Left: 0, Top: 0, Right: window.Right, Bottom: top},
			{Left: 0, Top: bottom, Right: window.Right, Bottom: window.Bottom},
		}
	}

	return State{
		IsSpanning:  spanning,
		WindowRects: rects,
		Rotation:    rotation,
	}
}
