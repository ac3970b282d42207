package spanning

import (
	"log/slog"

	"github.com/1broseidon/dualscreen/internal/hinge"
)

// WindowObserver is the platform side: every query is synchronous and
// returns a safe default when the platform cannot answer.
type WindowObserver interface {
	// WindowRect is the full drawable area of the observed window, in pixels.
	WindowRect() hinge.Rect
	Rotation() hinge.Rotation
	// HingeRects returns the hinge bounding rects for rot, or nothing.
	HingeRects(rot hinge.Rotation) []hinge.Rect
	// BarHeights returns the heights of the visible status and navigation
	// bars; a hidden bar reports 0.
	BarHeights() (statusBar, navBar int)
	Density() float64
	IsDualScreenDevice() bool
	// AddLayoutListener registers fn for layout-change notifications and
	// returns the function that unregisters it.
	AddLayoutListener(fn func()) (remove func())
}

// EventSink receives spanning events.
type EventSink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ev Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// MultiSink forwards each event to every non-nil sink in order.
type MultiSink []EventSink

func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

// LogSink writes every event to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(ev Event) {
	if s.Logger == nil {
		return
	}
	s.Logger.Info(EventName,
		"is_spanning", ev.IsSpanning,
		"regions", len(ev.WindowRects),
		"orientation", ev.Orientation)
}
