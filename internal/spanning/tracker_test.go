package spanning

import (
	"errors"
	"testing"

	"github.com/1broseidon/dualscreen/internal/hinge"
)

type fakeObserver struct {
	window    hinge.Rect
	rotation  hinge.Rotation
	hinges    map[hinge.Rotation][]hinge.Rect
	statusBar int
	navBar    int
	density   float64
	dual      bool

	listeners map[int]func()
	nextID    int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{
		window:    hinge.NewRect(0, 0, 1000, 1600),
		hinges:    map[hinge.Rotation][]hinge.Rect{},
		density:   2,
		dual:      true,
		listeners: map[int]func(){},
	}
}

func (f *fakeObserver) WindowRect() hinge.Rect   { return f.window }
func (f *fakeObserver) Rotation() hinge.Rotation { return f.rotation }
func (f *fakeObserver) HingeRects(rot hinge.Rotation) []hinge.Rect {
	return f.hinges[rot]
}
func (f *fakeObserver) BarHeights() (int, int)   { return f.statusBar, f.navBar }
func (f *fakeObserver) Density() float64         { return f.density }
func (f *fakeObserver) IsDualScreenDevice() bool { return f.dual }

func (f *fakeObserver) AddLayoutListener(fn func()) func() {
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

func (f *fakeObserver) fireLayoutChange() {
	for _, fn := range f.listeners {
		fn()
	}
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Emit(ev Event) {
	r.events = append(r.events, ev)
}

func TestTracker_FirstRefreshEmits(t *testing.T) {
	obs := newFakeObserver()
	obs.hinges[hinge.Rotation0] = []hinge.Rect{hinge.NewRect(0, 780, 1000, 820)}
	obs.statusBar = 40
	sink := &recordingSink{}
	tr := NewTracker(TrackerConfig{Observer: obs, Sink: sink})

	emitted, err := tr.Refresh()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !emitted {
		t.Fatalf("expected the first refresh to emit")
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}

	ev := sink.events[0]
	if !ev.IsSpanning {
		t.Errorf("expected isSpanning")
	}
	if ev.Orientation != hinge.OrientationPortrait {
		t.Errorf("expected portrait, got %q", ev.Orientation)
	}
	want := []WindowRect{
		{Width: 500, Height: 370, X: 0, Y: 0},
		{Width: 500, Height: 410, X: 0, Y: 390},
	}
	if len(ev.WindowRects) != len(want) {
		t.Fatalf("expected %d rects, got %d", len(want), len(ev.WindowRects))
	}
	for i := range want {
		if ev.WindowRects[i] != want[i] {
			t.Errorf("rect %d: expected %+v, got %+v", i, want[i], ev.WindowRects[i])
		}
	}

	last, ok := tr.Last()
	if !ok || last.IsSpanning != ev.IsSpanning {
		t.Fatalf("expected Last to return the emitted event")
	}
}

func TestTracker_IdenticalInputsEmitOnce(t *testing.T) {
	obs := newFakeObserver()
	sink := &recordingSink{}
	tr := NewTracker(TrackerConfig{Observer: obs, Sink: sink})

	for i := 0; i < 3; i++ {
		if _, err := tr.Refresh(); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	if tr.Emitted() != 1 {
		t.Fatalf("expected emitted count 1, got %d", tr.Emitted())
	}
}

func TestTracker_EmitsWhenAnyFieldChanges(t *testing.T) {
	obs := newFakeObserver()
	obs.window = hinge.NewRect(0, 0, 2000, 1600)
	sink := &recordingSink{}
	tr := NewTracker(TrackerConfig{Observer: obs, Sink: sink})
	if _, err := tr.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Hinge appears: regions and spanning change.
	obs.hinges[hinge.Rotation0] = []hinge.Rect{hinge.NewRect(980, 0, 1020, 1600)}
	if emitted, _ := tr.Refresh(); !emitted {
		t.Fatalf("expected emit when hinge appears")
	}

	// Rotation changes with a hinge that maps to the same region geometry.
	obs.rotation = hinge.Rotation180
	obs.hinges[hinge.Rotation180] = obs.hinges[hinge.Rotation0]
	if emitted, _ := tr.Refresh(); !emitted {
		t.Fatalf("expected emit when only the rotation changes")
	}

	// Density alone does not change the pixel-space state.
	obs.density = 3
	if emitted, _ := tr.Refresh(); emitted {
		t.Fatalf("expected no emit when only density changes")
	}

	if len(sink.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(sink.events))
	}
	if sink.events[2].Orientation != hinge.OrientationPortraitFlipped {
		t.Fatalf("expected portraitFlipped, got %q", sink.events[2].Orientation)
	}
}

func TestTracker_InvalidRotationAbortsWithoutEmitting(t *testing.T) {
	obs := newFakeObserver()
	sink := &recordingSink{}
	tr := NewTracker(TrackerConfig{Observer: obs, Sink: sink})
	if _, err := tr.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	obs.rotation = hinge.Rotation(7)
	emitted, err := tr.Refresh()
	if !errors.Is(err, hinge.ErrInvalidRotation) {
		t.Fatalf("expected ErrInvalidRotation, got %v", err)
	}
	if emitted {
		t.Fatalf("expected no emit on invalid rotation")
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected sink untouched, got %d events", len(sink.events))
	}
	state, _ := tr.Snapshot()
	if state.Rotation != hinge.Rotation0 {
		t.Fatalf("expected snapshot to keep rotation 0, got %v", state.Rotation)
	}
}

func TestTracker_ResumePauseManageOneListener(t *testing.T) {
	obs := newFakeObserver()
	sink := &recordingSink{}
	tr := NewTracker(TrackerConfig{Observer: obs, Sink: sink})

	tr.Resume()
	tr.Resume()
	if len(obs.listeners) != 1 {
		t.Fatalf("expected 1 listener after double resume, got %d", len(obs.listeners))
	}
	if !tr.Listening() {
		t.Fatalf("expected Listening after resume")
	}

	obs.fireLayoutChange()
	if len(sink.events) != 1 {
		t.Fatalf("expected layout change to refresh synchronously, got %d events", len(sink.events))
	}

	tr.Pause()
	tr.Pause()
	if len(obs.listeners) != 0 {
		t.Fatalf("expected listener removed, got %d", len(obs.listeners))
	}
	if tr.Listening() {
		t.Fatalf("expected not listening after pause")
	}

	obs.window = hinge.NewRect(0, 0, 10, 10)
	obs.fireLayoutChange()
	if len(sink.events) != 1 {
		t.Fatalf("expected no events while paused, got %d", len(sink.events))
	}
}

func TestTracker_NotifyOverridesSynchronousRefresh(t *testing.T) {
	obs := newFakeObserver()
	sink := &recordingSink{}
	calls := 0
	tr := NewTracker(TrackerConfig{
		Observer: obs,
		Sink:     sink,
		Notify:   func() { calls++ },
	})

	tr.Resume()
	obs.fireLayoutChange()
	if calls != 1 {
		t.Fatalf("expected notify to be called once, got %d", calls)
	}
	if len(sink.events) != 0 {
		t.Fatalf("expected no synchronous refresh, got %d events", len(sink.events))
	}
}

func TestTracker_NoObserver(t *testing.T) {
	tr := NewTracker(TrackerConfig{})
	if _, err := tr.Refresh(); err == nil {
		t.Fatalf("expected error without observer")
	}
	if _, ok := tr.Last(); ok {
		t.Fatalf("expected no last event")
	}
}

func TestMultiSink_FansOutAndSkipsNil(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	var fnCalls int
	sink := MultiSink{a, nil, b, SinkFunc(func(Event) { fnCalls++ })}

	sink.Emit(Event{IsSpanning: true})

	if len(a.events) != 1 || len(b.events) != 1 || fnCalls != 1 {
		t.Fatalf("expected each sink to receive one event: a=%d b=%d fn=%d", len(a.events), len(b.events), fnCalls)
	}
}

func TestNewEvent_ConvertsToDIP(t *testing.T) {
	state := hinge.State{
		WindowRects: []hinge.Rect{hinge.NewRect(30, 60, 330, 660)},
		Rotation:    hinge.Rotation270,
	}
	ev, err := NewEvent(state, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := WindowRect{Width: 100, Height: 200, X: 10, Y: 20}
	if ev.WindowRects[0] != want {
		t.Fatalf("expected %+v, got %+v", want, ev.WindowRects[0])
	}
	if ev.Orientation != hinge.OrientationLandscapeFlipped {
		t.Fatalf("expected landscapeFlipped, got %q", ev.Orientation)
	}
}

func TestNewEvent_NonPositiveDensityFallsBack(t *testing.T) {
	state := hinge.State{WindowRects: []hinge.Rect{hinge.NewRect(0, 0, 50, 50)}}
	ev, err := NewEvent(state, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.WindowRects[0].Width != 50 {
		t.Fatalf("expected density 1 fallback, got width %v", ev.WindowRects[0].Width)
	}
}

func TestConstantsFor(t *testing.T) {
	obs := newFakeObserver()
	c := ConstantsFor(obs, 0)
	if c.HingeWidth != DefaultHingeWidth || !c.IsDualScreenDevice {
		t.Fatalf("unexpected constants: %+v", c)
	}
	obs.dual = false
	if ConstantsFor(obs, 40).IsDualScreenDevice {
		t.Fatalf("expected non dual-screen device")
	}
	if ConstantsFor(nil, 40).HingeWidth != 40 {
		t.Fatalf("expected configured hinge width")
	}
}
