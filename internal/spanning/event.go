package spanning

import (
	"fmt"

	"github.com/1broseidon/dualscreen/internal/hinge"
)

// EventName is the name consumers subscribe to.
const EventName = "didUpdateSpanning"

// DefaultHingeWidth is the hinge width, in dp, reported when none is configured.
const DefaultHingeWidth = 34

// WindowRect is a region in density-independent units.
type WindowRect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Event is the payload delivered to subscribers whenever the spanning state
// changes.
type Event struct {
	IsSpanning  bool              `json:"isSpanning"`
	WindowRects []WindowRect      `json:"windowRects"`
	Orientation hinge.Orientation `json:"orientation"`
}

// Constants are evaluated once at startup and never refreshed.
type Constants struct {
	HingeWidth         int  `json:"hingeWidth"`
	IsDualScreenDevice bool `json:"isDualScreenDevice"`
}

// NewEvent converts a pixel-space state into the subscriber payload.
// It fails only when the state carries an unknown rotation code.
func NewEvent(state hinge.State, density float64) (Event, error) {
	orientation, err := state.Rotation.Orientation()
	if err != nil {
		return Event{}, fmt.Errorf("build %s event: %w", EventName, err)
	}
	if density <= 0 {
		density = hinge.DefaultDensity
	}

	rects := make([]WindowRect, 0, len(state.WindowRects))
	for _, r := range state.WindowRects {
		rects = append(rects, WindowRect{
			Width:  hinge.PixelsToDIP(r.Width(), density),
			Height: hinge.PixelsToDIP(r.Height(), density),
			X:      hinge.PixelsToDIP(r.Left, density),
			Y:      hinge.PixelsToDIP(r.Top, density),
		})
	}

	return Event{
		IsSpanning:  state.IsSpanning,
		WindowRects: rects,
		Orientation: orientation,
	}, nil
}
