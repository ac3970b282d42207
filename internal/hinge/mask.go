package hinge

// DisplayMask describes where the hinge sits on the panel.
//
// BoundingRects are expressed in the natural (Rotation0) coordinate space.
// Overrides, when present for a rotation, are used verbatim instead of
// rotating the natural rects.
type DisplayMask struct {
	BoundingRects []Rect
	Overrides     map[Rotation][]Rect
}

// Empty reports whether the mask carries no hinge at all.
func (m DisplayMask) Empty() bool {
	return len(m.BoundingRects) == 0 && len(m.Overrides) == 0
}

// BoundingRectsForRotation returns the hinge rects in the coordinate space
// of the given rotation. naturalWidth and naturalHeight are the panel size
// at Rotation0.
func (m DisplayMask) BoundingRectsForRotation(rot Rotation, naturalWidth, naturalHeight int) []Rect {
	if rects, ok := m.Overrides[rot]; ok {
		out := make([]Rect, len(rects))
		copy(out, rects)
		return out
	}
	if len(m.BoundingRects) == 0 {
		return nil
	}

	out := make([]Rect, 0, len(m.BoundingRects))
	for _, r := range m.BoundingRects {
		out = append(out, rotateRect(r, rot, naturalWidth, naturalHeight))
	}
	return out
}

// rotateRect maps r from natural coordinates into the coordinates seen after
// rotating the display by rot. w and h are the natural panel dimensions.
func rotateRect(r Rect, rot Rotation, w, h int) Rect {
	switch rot {
	case Rotation90:
		// (x, y) -> (y, w-x)
		return Rect{Left: r.Top, Top: w - r.Right, Right: r.Bottom, Bottom: w - r.Left}
	case Rotation180:
		// (x, y) -> (w-x, h-y)
		return Rect{Left: w - r.Right, Top: h - r.Bottom, Right: w - r.Left, Bottom: h - r.Top}
	case Rotation270:
		// (x, y) -> (h-y, x)
		return Rect{Left: h - r.Bottom, Top: r.Left, Right: h - r.Top, Bottom: r.Right}
	default:
		return r
	}
}

// NaturalSize returns the panel dimensions at Rotation0 given the size
// currently observed under rot.
func NaturalSize(rot Rotation, width, height int) (int, int) {
	if rot == Rotation90 || rot == Rotation270 {
		return height, width
	}
	return width, height
}
