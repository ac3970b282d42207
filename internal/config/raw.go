package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/dualscreen/internal/hinge"
)

// BarHeight supports either:
//
//	status_bar_height: auto
//
// or:
//
//	status_bar_height: 48
type BarHeight int

func (b *BarHeight) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("bar height must be \"auto\" or an integer")
	}
	if strings.EqualFold(strings.TrimSpace(value.Value), "auto") {
		*b = BarHeight(BarAuto)
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("bar height must be \"auto\" or an integer, got %q", value.Value)
	}
	*b = BarHeight(n)
	return nil
}

func (b BarHeight) MarshalYAML() (any, error) {
	if b.Auto() {
		return "auto", nil
	}
	return int(b), nil
}

// Auto reports whether the height should be read from the platform.
func (b BarHeight) Auto() bool {
	return b == BarAuto
}

// Duration accepts Go duration strings ("10s", "1m") or bare seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a string like \"10s\"")
	}
	s := strings.TrimSpace(value.Value)
	if n, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type RawSystemBars struct {
	StatusBarHeight     *BarHeight `yaml:"status_bar_height"`
	NavigationBarHeight *BarHeight `yaml:"navigation_bar_height"`
}

type RawDisplayMask struct {
	BoundingRects []hinge.Rect         `yaml:"bounding_rects"`
	Rotations     map[int][]hinge.Rect `yaml:"rotations"`
}

type RawEventLog struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawHotkeys struct {
	Refresh     *string `yaml:"refresh"`
	TogglePause *string `yaml:"toggle_pause"`
}

// RawConfig mirrors the YAML file. Nil fields keep their defaults.
type RawConfig struct {
	Display        *string         `yaml:"display"`
	Output         *string         `yaml:"output"`
	Track          *TrackMode      `yaml:"track"`
	DualScreen     *DualScreenMode `yaml:"dual_screen"`
	HingeWidth     *int            `yaml:"hinge_width"`
	Density        *float64        `yaml:"density"`
	ResyncInterval *Duration       `yaml:"resync_interval"`
	LogLevel       *string         `yaml:"log_level"`
	SystemBars     *RawSystemBars  `yaml:"system_bars"`
	DisplayMask    *RawDisplayMask `yaml:"display_mask"`
	EventLog       *RawEventLog    `yaml:"event_log"`
	Hotkeys        *RawHotkeys     `yaml:"hotkeys"`
}
