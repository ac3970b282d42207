package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

type fakeController struct {
	mu        sync.Mutex
	last      *spanning.Event
	paused    bool
	emitted   uint64
	refreshes int
	reloadErr error
}

func (f *fakeController) Last() (spanning.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return spanning.Event{}, false
	}
	return *f.last, true
}

func (f *fakeController) Constants() spanning.Constants {
	return spanning.Constants{HingeWidth: 34, IsDualScreenDevice: true}
}

func (f *fakeController) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeController) EventsEmitted() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emitted
}

func (f *fakeController) Refresh() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshes == 1, nil
}

func (f *fakeController) Pause() error {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
	return nil
}

func (f *fakeController) Resume() error {
	f.mu.Lock()
	f.paused = false
	f.mu.Unlock()
	return nil
}

func (f *fakeController) Reload() error {
	return f.reloadErr
}

func portraitEvent(isSpanning bool) spanning.Event {
	return spanning.Event{
		IsSpanning:  isSpanning,
		WindowRects: []spanning.WindowRect{{Width: 1000, Height: 740}},
		Orientation: hinge.OrientationPortrait,
	}
}

func startServer(t *testing.T, ctrl Controller) (*Server, *Client) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ds.sock")
	srv := NewServerAt(path, ctrl)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, NewClientAt(path)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServer_GetStateBeforeAnyEvent(t *testing.T) {
	_, client := startServer(t, &fakeController{})

	_, err := client.GetState()
	if err == nil {
		t.Fatalf("expected an error before the first event")
	}
	if !strings.Contains(err.Error(), "no spanning state") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServer_GetStateRoundTrip(t *testing.T) {
	ev := portraitEvent(true)
	_, client := startServer(t, &fakeController{last: &ev})

	got, err := client.GetState()
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !got.IsSpanning || got.Orientation != hinge.OrientationPortrait {
		t.Fatalf("expected %+v, got %+v", ev, got)
	}
	if len(got.WindowRects) != 1 || got.WindowRects[0] != ev.WindowRects[0] {
		t.Fatalf("expected rects %v, got %v", ev.WindowRects, got.WindowRects)
	}
}

func TestServer_StatusConstantsAndControl(t *testing.T) {
	ctrl := &fakeController{emitted: 3}
	_, client := startServer(t, ctrl)

	consts, err := client.GetConstants()
	if err != nil {
		t.Fatalf("GetConstants: %v", err)
	}
	if consts.HingeWidth != 34 || !consts.IsDualScreenDevice {
		t.Fatalf("unexpected constants %+v", consts)
	}

	if err := client.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.DaemonRunning || !status.Paused || status.EventsEmitted != 3 {
		t.Fatalf("unexpected status %+v", status)
	}

	if err := client.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if ctrl.Paused() {
		t.Fatalf("expected resume to clear paused")
	}

	emitted, err := client.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !emitted {
		t.Fatalf("expected first refresh to report an emission")
	}
	if emitted, _ := client.Refresh(); emitted {
		t.Fatalf("expected second refresh to report no emission")
	}
}

func TestServer_ReloadError(t *testing.T) {
	_, client := startServer(t, &fakeController{reloadErr: errors.New("bad yaml")})

	err := client.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected reload error to surface, got %v", err)
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	_, client := startServer(t, &fakeController{})

	_, err := client.sendRequest(&Request{Command: "FOLD"})
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestServer_SubscribeStreamsEvents(t *testing.T) {
	first := portraitEvent(true)
	srv, client := startServer(t, &fakeController{last: &first})

	events := make(chan spanning.Event, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- client.Subscribe(ctx, func(ev spanning.Event) { events <- ev })
	}()

	select {
	case ev := <-events:
		if !ev.IsSpanning {
			t.Fatalf("expected the current event to be replayed, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the current event")
	}
	if n := srv.Subscribers(); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}

	srv.Emit(portraitEvent(false))
	select {
	case ev := <-events:
		if ev.IsSpanning {
			t.Fatalf("expected the broadcast event, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the broadcast event")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Subscribe did not return after cancel")
	}
	waitFor(t, "subscriber removal", func() bool { return srv.Subscribers() == 0 })
}

func TestServer_SubscribeEndsOnStop(t *testing.T) {
	srv, client := startServer(t, &fakeController{})

	done := make(chan error, 1)
	go func() {
		done <- client.Subscribe(context.Background(), func(spanning.Event) {})
	}()
	waitFor(t, "subscriber", func() bool { return srv.Subscribers() == 1 })

	srv.Stop()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected an error when the daemon closes the stream")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Subscribe did not return after Stop")
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestServer_EmitDropsOldestForSlowSubscriber(t *testing.T) {
	srv := NewServerAt(filepath.Join(t.TempDir(), "ds.sock"), &fakeController{})
	sub := &subscriber{ch: make(chan []byte, 2)}
	srv.subsMu.Lock()
	srv.subs[sub] = struct{}{}
	srv.subsMu.Unlock()

	var want []string
	for width := 100; width <= 300; width += 100 {
		ev := spanning.Event{WindowRects: []spanning.WindowRect{{Width: float64(width), Height: 500}}}
		line, err := encodeStreamLine(ev)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		want = append(want, string(line))
		srv.Emit(ev)
	}

	if got := len(sub.ch); got != 2 {
		t.Fatalf("expected 2 queued lines, got %d", got)
	}
	if got := string(<-sub.ch); got != want[1] {
		t.Fatalf("expected the oldest line to be dropped, first queued is %q", got)
	}
	if got := string(<-sub.ch); got != want[2] {
		t.Fatalf("expected the newest line last, got %q", got)
	}
}
