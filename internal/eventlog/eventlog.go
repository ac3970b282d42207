package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/1broseidon/dualscreen/internal/spanning"
)

// Config holds configuration for the event history file.
type Config struct {
	Enabled   bool
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Entry is one line of the history file.
type Entry struct {
	Time  time.Time      `json:"time"`
	Event string         `json:"event"`
	Data  spanning.Event `json:"data"`
}

// Logger appends every emitted spanning event to a JSON-lines file with
// size-based rotation. A disabled Logger accepts and drops events.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	maxBytes    int64
	currentSize int64
	now         func() time.Time
}

var _ spanning.EventSink = (*Logger)(nil)

// New creates a logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	l := &Logger{now: time.Now}
	if err := l.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return l, nil
}

// Reconfigure switches the logger to cfg. The new file is opened before the
// old one is closed, so on error the previous configuration stays active.
func (l *Logger) Reconfigure(cfg Config) error {
	var (
		f    *os.File
		size int64
	)
	if cfg.Enabled {
		var err error
		f, size, err = openLog(cfg.FilePath)
		if err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.config = cfg
	l.maxBytes = int64(cfg.MaxSizeMB) * 1024 * 1024
	l.file = f
	l.currentSize = size
	return nil
}

func openLog(path string) (*os.File, int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, 0, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open event log %s: %w", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat event log: %w", err)
	}
	return f, stat.Size(), nil
}

// Emit records ev. Write failures are reported on stderr and otherwise ignored.
func (l *Logger) Emit(ev spanning.Event) {
	if l == nil {
		return
	}

	line, err := json.Marshal(Entry{Time: l.now().UTC(), Event: spanning.EventName, Data: ev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode event: %v\n", err)
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.config.Enabled || l.file == nil {
		return
	}
	if l.maxBytes > 0 && l.currentSize >= l.maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "event log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	n, err := l.file.Write(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write event: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts events.log -> events.log.1 -> events.log.2 ... keeping at
// most MaxFiles rotated files. With MaxFiles 0 the file is truncated.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	if l.config.MaxFiles > 0 {
		os.Remove(fmt.Sprintf("%s.%d", basePath, l.config.MaxFiles))
		for i := l.config.MaxFiles - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", basePath, i), fmt.Sprintf("%s.%d", basePath, i+1))
		}
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate event log: %w", err)
		}
	} else if err := os.Remove(basePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate event log: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new event log: %w", err)
	}
	l.file = f
	l.currentSize = 0
	return nil
}
