package hinge

import "fmt"

// Rect is an edge-based rectangle in pixel units.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// NewRect builds a Rect from its four edges.
func NewRect(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns Right-Left. It may be zero or negative.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns Bottom-Top. It may be zero or negative.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// IsZeroSize reports whether the rect has neither width nor height.
// A zero-size hinge means "no hinge for this rotation".
func (r Rect) IsZeroSize() bool {
	return r.Width() == 0 && r.Height() == 0
}

// HasArea reports whether both dimensions are positive.
func (r Rect) HasArea() bool {
	return r.Width() > 0 && r.Height() > 0
}

// Intersects reports whether r and other overlap with positive area on both axes.
func (r Rect) Intersects(other Rect) bool {
	x1 := max(r.Left, other.Left)
	y1 := max(r.Top, other.Top)
	x2 := min(r.Right, other.Right)
	y2 := min(r.Bottom, other.Bottom)
	return x2 > x1 && y2 > y1
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
