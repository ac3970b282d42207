package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

func sampleEvent(spanningState bool) spanning.Event {
	return spanning.Event{
		IsSpanning:  spanningState,
		WindowRects: []spanning.WindowRect{{Width: 500, Height: 370}},
		Orientation: hinge.OrientationPortrait,
	}
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.log")
	l, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Emit(sampleEvent(true))
	l.Emit(sampleEvent(false))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Event != spanning.EventName {
		t.Fatalf("expected event %q, got %q", spanning.EventName, entries[0].Event)
	}
	if !entries[0].Time.Equal(fixed) {
		t.Fatalf("expected time %v, got %v", fixed, entries[0].Time)
	}
	if !entries[0].Data.IsSpanning || entries[1].Data.IsSpanning {
		t.Fatalf("unexpected spanning flags: %+v", entries)
	}
	if entries[0].Data.Orientation != hinge.OrientationPortrait {
		t.Fatalf("expected portrait, got %q", entries[0].Data.Orientation)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()
	l.maxBytes = 1

	for i := 0; i < 4; i++ {
		l.Emit(sampleEvent(i%2 == 0))
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if got := len(readEntries(t, p)); got != 1 {
			t.Fatalf("expected 1 entry in %s, got %d", p, got)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 rotated files, stat .3: %v", err)
	}
}

func TestLogger_RotateWithoutBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()
	l.maxBytes = 1

	l.Emit(sampleEvent(true))
	l.Emit(sampleEvent(false))

	entries := readEntries(t, path)
	if len(entries) != 1 || entries[0].Data.IsSpanning {
		t.Fatalf("expected only the latest entry, got %+v", entries)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Fatalf("expected no backup file, stat: %v", err)
	}
}

func TestLogger_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := New(Config{FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Emit(sampleEvent(true))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file for a disabled logger, stat: %v", err)
	}

	var nilLogger *Logger
	nilLogger.Emit(sampleEvent(true))
}

func TestLogger_Reconfigure(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "other", "second.log")

	l, err := New(Config{FilePath: first})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()
	l.Emit(sampleEvent(true))

	if err := l.Reconfigure(Config{Enabled: true, FilePath: first, MaxSizeMB: 1}); err != nil {
		t.Fatalf("enable: %v", err)
	}
	l.Emit(sampleEvent(true))

	if err := l.Reconfigure(Config{Enabled: true, FilePath: second, MaxSizeMB: 1}); err != nil {
		t.Fatalf("switch path: %v", err)
	}
	l.Emit(sampleEvent(false))

	if got := len(readEntries(t, first)); got != 1 {
		t.Fatalf("expected 1 entry in first log, got %d", got)
	}
	entries := readEntries(t, second)
	if len(entries) != 1 || entries[0].Data.IsSpanning {
		t.Fatalf("expected the post-switch entry in second log, got %+v", entries)
	}

	// A directory cannot be opened for append; the second log stays active.
	if err := l.Reconfigure(Config{Enabled: true, FilePath: dir}); err == nil {
		t.Fatal("expected an error reopening onto a directory")
	}
	l.Emit(sampleEvent(true))
	if got := len(readEntries(t, second)); got != 2 {
		t.Fatalf("expected second log to keep receiving events, got %d entries", got)
	}

	if err := l.Reconfigure(Config{FilePath: second}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	l.Emit(sampleEvent(true))
	if got := len(readEntries(t, second)); got != 2 {
		t.Fatalf("expected no writes after disabling, got %d entries", got)
	}
}
