package spanning

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/1broseidon/dualscreen/internal/hinge"
)

// TrackerConfig holds configuration for a Tracker.
type TrackerConfig struct {
	Observer WindowObserver
	Sink     EventSink
	Logger   *slog.Logger
	// Notify is what the registered layout listener calls. When nil the
	// listener refreshes synchronously on the notifying goroutine.
	Notify func()
}

// Tracker recomputes the spanning state on demand and emits an event only
// when the state differs from the last one emitted.
//
// Refresh, Resume, Pause and Listening must be called from a single
// goroutine. Last, Snapshot and Emitted may be called from anywhere.
type Tracker struct {
	observer WindowObserver
	sink     EventSink
	logger   *slog.Logger
	notify   func()

	mu        sync.RWMutex
	last      hinge.State
	lastEvent Event
	emitted   uint64

	removeListener func()
}

var errNoObserver = errors.New("spanning tracker has no window observer")

// NewTracker creates a tracker. A nil sink discards events.
func NewTracker(cfg TrackerConfig) *Tracker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = MultiSink(nil)
	}

	t := &Tracker{
		observer: cfg.Observer,
		sink:     sink,
		logger:   logger,
		notify:   cfg.Notify,
	}
	if t.notify == nil {
		t.notify = func() {
			if _, err := t.Refresh(); err != nil {
				t.logger.Error("spanning refresh failed", "error", err)
			}
		}
	}
	return t
}

// Refresh queries the observer, recomputes the state and emits it if it
// changed. It reports whether an event was emitted. An error means the
// state could not be turned into an event; the previous snapshot is kept.
func (t *Tracker) Refresh() (bool, error) {
	if t.observer == nil {
		return false, errNoObserver
	}

	window := t.observer.WindowRect()
	rot := t.observer.Rotation()
	var hingeRect hinge.Rect
	if rects := t.observer.HingeRects(rot); len(rects) > 0 {
		hingeRect = rects[0]
	}
	statusBar, navBar := t.observer.BarHeights()

	state := hinge.ComputeSpanning(window, hingeRect, rot, statusBar, navBar)

	t.mu.RLock()
	unchanged := t.emitted > 0 && t.last.Equal(state)
	t.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	ev, err := NewEvent(state, t.observer.Density())
	if err != nil {
		return false, err
	}

	t.mu.Lock()
	t.last = state
	t.lastEvent = ev
	t.emitted++
	t.mu.Unlock()

	t.logger.Debug("spanning state changed",
		"window", window.String(),
		"hinge", hingeRect.String(),
		"rotation", rot.String(),
		"status_bar", statusBar,
		"nav_bar", navBar,
		"is_spanning", state.IsSpanning)

	t.sink.Emit(ev)
	return true, nil
}

// Last returns the most recently emitted event.
func (t *Tracker) Last() (Event, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.emitted == 0 {
		return Event{}, false
	}
	return t.lastEvent, true
}

// Snapshot returns the pixel-space state behind the last event.
func (t *Tracker) Snapshot() (hinge.State, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.emitted > 0
}

// Emitted returns how many events have been emitted.
func (t *Tracker) Emitted() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.emitted
}

// Resume registers the layout listener. Calling it while already listening
// is a no-op.
func (t *Tracker) Resume() {
	if t.removeListener != nil || t.observer == nil {
		return
	}
	remove := t.observer.AddLayoutListener(t.notify)
	if remove == nil {
		remove = func() {}
	}
	t.removeListener = remove
	t.logger.Debug("layout listener attached")
}

// Pause unregisters the layout listener. Calling it while paused is a no-op.
func (t *Tracker) Pause() {
	if t.removeListener == nil {
		return
	}
	t.removeListener()
	t.removeListener = nil
	t.logger.Debug("layout listener detached")
}

// Listening reports whether the layout listener is registered.
func (t *Tracker) Listening() bool {
	return t.removeListener != nil
}

// ConstantsFor evaluates the startup constants from the observer.
func ConstantsFor(obs WindowObserver, hingeWidth int) Constants {
	if hingeWidth <= 0 {
		hingeWidth = DefaultHingeWidth
	}
	return Constants{
		HingeWidth:         hingeWidth,
		IsDualScreenDevice: obs != nil && obs.IsDualScreenDevice(),
	}
}
