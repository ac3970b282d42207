package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

// DualScreenMode controls how isDualScreenDevice is decided.
type DualScreenMode string

const (
	DualScreenAuto DualScreenMode = "auto" // dual-screen when a display mask is configured
	DualScreenOn   DualScreenMode = "true"
	DualScreenOff  DualScreenMode = "false"
)

// TrackMode selects which rectangle is treated as the application window.
type TrackMode string

const (
	TrackOutput       TrackMode = "output"        // the whole observed output
	TrackActiveWindow TrackMode = "active-window" // the focused window, relative to the output
)

// BarAuto asks the observer to read a bar height from dock reservations.
const BarAuto = -1

// SystemBars configures the bar heights subtracted from the usable area.
type SystemBars struct {
	// StatusBarHeight is in pixels, or BarAuto to use the top dock inset.
	StatusBarHeight BarHeight `yaml:"status_bar_height"`
	// NavigationBarHeight is in pixels, or BarAuto to use the bottom dock inset.
	NavigationBarHeight BarHeight `yaml:"navigation_bar_height"`
}

// DisplayMask is the hinge location in natural (rotation 0) pixel coordinates.
type DisplayMask struct {
	BoundingRects []hinge.Rect `yaml:"bounding_rects"`
	// Rotations holds explicit per-rotation rects keyed by degrees (90, 180, 270).
	Rotations map[int][]hinge.Rect `yaml:"rotations,omitempty"`
}

// EventLogConfig configures the rotating event history file.
type EventLogConfig struct {
	Enabled   bool   `yaml:"enabled"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Hotkeys are global key sequences in xgbutil keybind syntax, such as
// "Mod4-Shift-r". Empty disables the binding.
type Hotkeys struct {
	Refresh     string `yaml:"refresh"`
	TogglePause string `yaml:"toggle_pause"`
}

// Config is the effective daemon configuration.
type Config struct {
	Display        string         `yaml:"display"`
	Output         string         `yaml:"output"`
	Track          TrackMode      `yaml:"track"`
	DualScreen     DualScreenMode `yaml:"dual_screen"`
	HingeWidth     int            `yaml:"hinge_width"`
	Density        float64        `yaml:"density"`
	ResyncInterval Duration       `yaml:"resync_interval"`
	LogLevel       string         `yaml:"log_level"`
	SystemBars     SystemBars     `yaml:"system_bars"`
	DisplayMask    DisplayMask    `yaml:"display_mask"`
	EventLog       EventLogConfig `yaml:"event_log"`
	Hotkeys        Hotkeys        `yaml:"hotkeys"`
}

const (
	DefaultResyncInterval = 10 * time.Second
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxFiles    = 3
)

// DefaultEventLogPath returns ~/.local/share/dualscreen/events.log.
func DefaultEventLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dualscreen-events.log")
	}
	return filepath.Join(home, ".local", "share", "dualscreen", "events.log")
}

func DefaultConfig() *Config {
	return &Config{
		Track:          TrackOutput,
		DualScreen:     DualScreenAuto,
		HingeWidth:     spanning.DefaultHingeWidth,
		ResyncInterval: Duration(DefaultResyncInterval),
		LogLevel:       "info",
		SystemBars: SystemBars{
			StatusBarHeight:     BarAuto,
			NavigationBarHeight: BarAuto,
		},
		EventLog: EventLogConfig{
			File:      DefaultEventLogPath(),
			MaxSizeMB: DefaultLogMaxSizeMB,
			MaxFiles:  DefaultLogMaxFiles,
		},
	}
}

// Mask converts the configured display mask into the geometry type.
func (c *Config) Mask() hinge.DisplayMask {
	mask := hinge.DisplayMask{
		BoundingRects: append([]hinge.Rect(nil), c.DisplayMask.BoundingRects...),
	}
	if len(c.DisplayMask.Rotations) > 0 {
		mask.Overrides = make(map[hinge.Rotation][]hinge.Rect, len(c.DisplayMask.Rotations))
		for deg, rects := range c.DisplayMask.Rotations {
			rot, err := hinge.RotationFromDegrees(deg)
			if err != nil {
				continue
			}
			mask.Overrides[rot] = append([]hinge.Rect(nil), rects...)
		}
	}
	return mask
}

// IsDualScreenDevice resolves the dual_screen setting.
func (c *Config) IsDualScreenDevice() bool {
	switch c.DualScreen {
	case DualScreenOn:
		return true
	case DualScreenOff:
		return false
	default:
		return !c.Mask().Empty()
	}
}

// SlogLevel parses log_level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel converts a string to a slog level.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	switch c.Track {
	case TrackOutput, TrackActiveWindow:
	default:
		return &ValidationError{Path: "track", Err: fmt.Errorf("track must be one of: output, active-window")}
	}
	switch c.DualScreen {
	case DualScreenAuto, DualScreenOn, DualScreenOff:
	default:
		return &ValidationError{Path: "dual_screen", Err: fmt.Errorf("dual_screen must be one of: auto, true, false")}
	}
	if c.HingeWidth <= 0 {
		return &ValidationError{Path: "hinge_width", Err: fmt.Errorf("hinge_width must be > 0")}
	}
	if c.Density < 0 {
		return &ValidationError{Path: "density", Err: fmt.Errorf("density must be >= 0 (0 derives it from the output)")}
	}
	if c.ResyncInterval < 0 {
		return &ValidationError{Path: "resync_interval", Err: fmt.Errorf("resync_interval must be >= 0")}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.SystemBars.StatusBarHeight < BarAuto {
		return &ValidationError{Path: "system_bars.status_bar_height", Err: fmt.Errorf("must be auto or >= 0")}
	}
	if c.SystemBars.NavigationBarHeight < BarAuto {
		return &ValidationError{Path: "system_bars.navigation_bar_height", Err: fmt.Errorf("must be auto or >= 0")}
	}
	for i, r := range c.DisplayMask.BoundingRects {
		if r.Width() < 0 || r.Height() < 0 {
			return &ValidationError{
				Path: "display_mask.bounding_rects",
				Err:  fmt.Errorf("rect %d %v has negative size", i, r),
			}
		}
	}
	degrees := make([]int, 0, len(c.DisplayMask.Rotations))
	for deg := range c.DisplayMask.Rotations {
		degrees = append(degrees, deg)
	}
	sort.Ints(degrees)
	for _, deg := range degrees {
		if _, err := hinge.RotationFromDegrees(deg); err != nil {
			return &ValidationError{
				Path: "display_mask.rotations",
				Err:  fmt.Errorf("rotation key %d must be one of 0, 90, 180, 270", deg),
			}
		}
	}
	if c.EventLog.Enabled {
		if strings.TrimSpace(c.EventLog.File) == "" {
			return &ValidationError{Path: "event_log.file", Err: fmt.Errorf("file is required when event_log is enabled")}
		}
		if c.EventLog.MaxSizeMB <= 0 {
			return &ValidationError{Path: "event_log.max_size_mb", Err: fmt.Errorf("max_size_mb must be > 0")}
		}
		if c.EventLog.MaxFiles < 0 {
			return &ValidationError{Path: "event_log.max_files", Err: fmt.Errorf("max_files must be >= 0")}
		}
	}
	if c.Hotkeys.Refresh != "" && c.Hotkeys.Refresh == c.Hotkeys.TogglePause {
		return &ValidationError{Path: "hotkeys.toggle_pause", Err: fmt.Errorf("toggle_pause must differ from refresh")}
	}
	return nil
}
