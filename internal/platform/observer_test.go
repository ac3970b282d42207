package platform

import (
	"errors"
	"math"
	"testing"

	"github.com/1broseidon/dualscreen/internal/config"
	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
	"github.com/1broseidon/dualscreen/internal/x11"
)

type fakeBackend struct {
	monitors  []x11.Monitor
	active    int
	window    [4]int
	windowErr error
	insets    x11.Insets
	insetErr  error
	watchErr  error

	insetCalls int
	watchers   []func()
}

func (f *fakeBackend) GetMonitors() ([]x11.Monitor, error) {
	return f.monitors, nil
}

func (f *fakeBackend) FindMonitor(name string) (*x11.Monitor, error) {
	for i := range f.monitors {
		if f.monitors[i].Name == name {
			return &f.monitors[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBackend) GetActiveMonitor() (*x11.Monitor, error) {
	if len(f.monitors) == 0 {
		return nil, errors.New("no monitors found")
	}
	return &f.monitors[f.active], nil
}

func (f *fakeBackend) ActiveWindowBounds() (int, int, int, int, error) {
	if f.windowErr != nil {
		return 0, 0, 0, 0, f.windowErr
	}
	return f.window[0], f.window[1], f.window[2], f.window[3], nil
}

func (f *fakeBackend) DockInsets(x11.Monitor) (x11.Insets, error) {
	f.insetCalls++
	return f.insets, f.insetErr
}

func (f *fakeBackend) WatchLayout(fn func()) (func(), error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.watchers = append(f.watchers, fn)
	idx := len(f.watchers) - 1
	return func() { f.watchers[idx] = nil }, nil
}

func (f *fakeBackend) fire() {
	for _, fn := range f.watchers {
		if fn != nil {
			fn()
		}
	}
}

func portraitPanel() x11.Monitor {
	return x11.Monitor{Name: "DSI-1", Width: 1000, Height: 1600, Rotation: randrRotate0}
}

func maskedConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.DisplayMask.BoundingRects = []hinge.Rect{hinge.NewRect(0, 780, 1000, 820)}
	return cfg
}

func TestRotationFromRandR(t *testing.T) {
	tests := []struct {
		bits uint16
		want hinge.Rotation
	}{
		{randrRotate0, hinge.Rotation0},
		{randrRotate90, hinge.Rotation90},
		{randrRotate180, hinge.Rotation180},
		{randrRotate270, hinge.Rotation270},
		{randrRotate90 | 0x10, hinge.Rotation90}, // reflect x
		{0, hinge.Rotation0},
	}
	for _, tt := range tests {
		if got := RotationFromRandR(tt.bits); got != tt.want {
			t.Fatalf("bits %#x: expected %v, got %v", tt.bits, tt.want, got)
		}
	}
}

func TestObserver_WindowRectTracksOutput(t *testing.T) {
	mon := portraitPanel()
	mon.X = 1920
	obs := NewObserver(&fakeBackend{monitors: []x11.Monitor{mon}}, nil, nil)

	want := hinge.NewRect(0, 0, 1000, 1600)
	if got := obs.WindowRect(); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestObserver_WindowRectTracksActiveWindow(t *testing.T) {
	mon := portraitPanel()
	mon.X = 1920
	backend := &fakeBackend{monitors: []x11.Monitor{mon}, window: [4]int{2020, 100, 500, 600}}
	cfg := config.DefaultConfig()
	cfg.Track = config.TrackActiveWindow
	obs := NewObserver(backend, cfg, nil)

	want := hinge.NewRect(100, 100, 600, 700)
	if got := obs.WindowRect(); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	backend.windowErr = errors.New("no active window")
	want = hinge.NewRect(0, 0, 1000, 1600)
	if got := obs.WindowRect(); got != want {
		t.Fatalf("expected fallback to output %v, got %v", want, got)
	}
}

func TestObserver_ConfiguredOutput(t *testing.T) {
	other := x11.Monitor{Name: "HDMI-1", Width: 1920, Height: 1080}
	backend := &fakeBackend{monitors: []x11.Monitor{other, portraitPanel()}}
	cfg := config.DefaultConfig()
	cfg.Output = "DSI-1"
	obs := NewObserver(backend, cfg, nil)

	if got := obs.WindowRect(); got.Width() != 1000 {
		t.Fatalf("expected the DSI-1 output, got %v", got)
	}

	cfg.Output = "missing"
	if got := obs.WindowRect(); got != (hinge.Rect{}) {
		t.Fatalf("expected empty rect for unknown output, got %v", got)
	}
	if got := obs.Rotation(); got != hinge.Rotation0 {
		t.Fatalf("expected Rotation0 without an output, got %v", got)
	}
}

func TestObserver_HingeRectsFollowRotation(t *testing.T) {
	landscape := x11.Monitor{Name: "DSI-1", Width: 1600, Height: 1000, Rotation: randrRotate90}
	obs := NewObserver(&fakeBackend{monitors: []x11.Monitor{landscape}}, maskedConfig(), nil)

	rot := obs.Rotation()
	if rot != hinge.Rotation90 {
		t.Fatalf("expected Rotation90, got %v", rot)
	}
	rects := obs.HingeRects(rot)
	want := hinge.NewRect(780, 0, 820, 1000)
	if len(rects) != 1 || rects[0] != want {
		t.Fatalf("expected [%v], got %v", want, rects)
	}
}

func TestObserver_HingeRectsRequireDualScreen(t *testing.T) {
	cfg := maskedConfig()
	cfg.DualScreen = config.DualScreenOff
	obs := NewObserver(&fakeBackend{monitors: []x11.Monitor{portraitPanel()}}, cfg, nil)

	if rects := obs.HingeRects(hinge.Rotation0); rects != nil {
		t.Fatalf("expected no hinge when dual_screen is off, got %v", rects)
	}
	if obs.IsDualScreenDevice() {
		t.Fatalf("expected IsDualScreenDevice false")
	}

	obs = NewObserver(&fakeBackend{monitors: []x11.Monitor{portraitPanel()}}, nil, nil)
	if rects := obs.HingeRects(hinge.Rotation0); rects != nil {
		t.Fatalf("expected no hinge without a mask, got %v", rects)
	}
}

func TestObserver_BarHeights(t *testing.T) {
	backend := &fakeBackend{
		monitors: []x11.Monitor{portraitPanel()},
		insets:   x11.Insets{Top: 40, Bottom: 60},
	}
	cfg := config.DefaultConfig()
	obs := NewObserver(backend, cfg, nil)

	if s, n := obs.BarHeights(); s != 40 || n != 60 {
		t.Fatalf("expected 40/60 from docks, got %d/%d", s, n)
	}

	cfg.SystemBars.StatusBarHeight = 24
	if s, n := obs.BarHeights(); s != 24 || n != 60 {
		t.Fatalf("expected 24/60, got %d/%d", s, n)
	}

	cfg.SystemBars.NavigationBarHeight = 0
	calls := backend.insetCalls
	if s, n := obs.BarHeights(); s != 24 || n != 0 {
		t.Fatalf("expected 24/0, got %d/%d", s, n)
	}
	if backend.insetCalls != calls {
		t.Fatalf("expected no dock query when both bars are fixed")
	}

	cfg.SystemBars = config.SystemBars{StatusBarHeight: config.BarAuto, NavigationBarHeight: config.BarAuto}
	backend.insetErr = errors.New("boom")
	if s, n := obs.BarHeights(); s != 0 || n != 0 {
		t.Fatalf("expected 0/0 when docks cannot be read, got %d/%d", s, n)
	}
}

func TestObserver_Density(t *testing.T) {
	mon := portraitPanel()
	mon.MmWidth = 100
	backend := &fakeBackend{monitors: []x11.Monitor{mon}}
	cfg := config.DefaultConfig()
	obs := NewObserver(backend, cfg, nil)

	// 1000px over 100mm is 254 dpi.
	want := 254.0 / 160.0
	if got := obs.Density(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}

	cfg.Density = 2
	if got := obs.Density(); got != 2 {
		t.Fatalf("expected configured density 2, got %v", got)
	}

	cfg.Density = 0
	backend.monitors[0].MmWidth = 0
	if got := obs.Density(); got != hinge.DefaultDensity {
		t.Fatalf("expected default density, got %v", got)
	}
}

func TestObserver_AddLayoutListener(t *testing.T) {
	backend := &fakeBackend{}
	obs := NewObserver(backend, nil, nil)

	calls := 0
	remove := obs.AddLayoutListener(func() { calls++ })
	backend.fire()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	remove()
	backend.fire()
	if calls != 1 {
		t.Fatalf("expected no calls after remove, got %d", calls)
	}

	backend.watchErr = errors.New("no root")
	remove = obs.AddLayoutListener(func() { calls++ })
	if remove == nil {
		t.Fatalf("expected a no-op remove func")
	}
	remove()
}

func TestObserver_DrivesTracker(t *testing.T) {
	backend := &fakeBackend{
		monitors: []x11.Monitor{portraitPanel()},
		insets:   x11.Insets{Top: 40},
	}
	cfg := maskedConfig()
	cfg.Density = 1
	obs := NewObserver(backend, cfg, nil)

	var events []spanning.Event
	tracker := spanning.NewTracker(spanning.TrackerConfig{
		Observer: obs,
		Sink:     spanning.SinkFunc(func(ev spanning.Event) { events = append(events, ev) }),
	})
	tracker.Resume()
	defer tracker.Pause()

	backend.fire()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if !ev.IsSpanning || ev.Orientation != hinge.OrientationPortrait {
		t.Fatalf("expected portrait spanning event, got %+v", ev)
	}
	want := []spanning.WindowRect{
		{Width: 1000, Height: 740, X: 0, Y: 0},
		{Width: 1000, Height: 820, X: 0, Y: 780},
	}
	if len(ev.WindowRects) != 2 || ev.WindowRects[0] != want[0] || ev.WindowRects[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, ev.WindowRects)
	}

	backend.fire()
	if len(events) != 1 {
		t.Fatalf("expected an unchanged layout not to emit, got %d events", len(events))
	}
}

func TestObserver_RotationOnlyChangeEmits(t *testing.T) {
	backend := &fakeBackend{monitors: []x11.Monitor{portraitPanel()}}
	cfg := maskedConfig()
	cfg.Density = 1
	obs := NewObserver(backend, cfg, nil)

	var events []spanning.Event
	tracker := spanning.NewTracker(spanning.TrackerConfig{
		Observer: obs,
		Sink:     spanning.SinkFunc(func(ev spanning.Event) { events = append(events, ev) }),
	})
	tracker.Resume()
	defer tracker.Pause()

	backend.fire()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	// Same size, flipped panel.
	backend.monitors[0].Rotation = randrRotate180
	backend.fire()
	if len(events) != 2 {
		t.Fatalf("expected the flip to emit, got %d events", len(events))
	}
	ev := events[1]
	if ev.Orientation != hinge.OrientationPortraitFlipped {
		t.Fatalf("expected %s, got %s", hinge.OrientationPortraitFlipped, ev.Orientation)
	}
	if !ev.IsSpanning || len(ev.WindowRects) != 2 || ev.WindowRects[1].Y != 820 {
		t.Fatalf("expected unchanged regions around the hinge, got %+v", ev.WindowRects)
	}
}
