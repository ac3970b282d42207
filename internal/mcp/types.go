package mcp

import (
	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

// GetSpanningStateInput is the input for the get_spanning_state tool.
type GetSpanningStateInput struct{}

// GetSpanningStateOutput is the output for the get_spanning_state tool.
type GetSpanningStateOutput struct {
	IsSpanning  bool                  `json:"isSpanning"`
	WindowRects []spanning.WindowRect `json:"windowRects"`
	Orientation string                `json:"orientation"`
}

// GetConstantsInput is the input for the get_dual_screen_constants tool.
type GetConstantsInput struct{}

// GetConstantsOutput is the output for the get_dual_screen_constants tool.
type GetConstantsOutput struct {
	HingeWidth         int  `json:"hingeWidth"`
	IsDualScreenDevice bool `json:"isDualScreenDevice"`
}

// ComputeWindowRegionsInput is the input for the compute_window_regions tool.
type ComputeWindowRegionsInput struct {
	Window              hinge.Rect  `json:"window" jsonschema:"Window rectangle in pixels (left, top, right, bottom)"`
	Hinge               *hinge.Rect `json:"hinge,omitempty" jsonschema:"Hinge bounding rectangle in pixels; omit for a single-screen device"`
	Rotation            int         `json:"rotation,omitempty" jsonschema:"Rotation code: 0 portrait, 1 landscape, 2 portraitFlipped, 3 landscapeFlipped"`
	StatusBarHeight     int         `json:"status_bar_height,omitempty" jsonschema:"Visible status bar height in pixels"`
	NavigationBarHeight int         `json:"navigation_bar_height,omitempty" jsonschema:"Visible navigation bar height in pixels"`
	Density             float64     `json:"density,omitempty" jsonschema:"Pixels per density-independent unit (default: 1)"`
}

// ComputeWindowRegionsOutput is the output for the compute_window_regions tool.
type ComputeWindowRegionsOutput struct {
	IsSpanning  bool                  `json:"isSpanning"`
	Regions     []hinge.Rect          `json:"regions"`
	WindowRects []spanning.WindowRect `json:"windowRects"`
	Orientation string                `json:"orientation"`
}
