package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Output != nil {
		cfg.Output = strings.TrimSpace(*raw.Output)
	}
	if raw.Track != nil {
		cfg.Track = *raw.Track
	}
	if raw.DualScreen != nil {
		cfg.DualScreen = *raw.DualScreen
	}
	if raw.HingeWidth != nil {
		cfg.HingeWidth = *raw.HingeWidth
	}
	if raw.Density != nil {
		cfg.Density = *raw.Density
	}
	if raw.ResyncInterval != nil {
		cfg.ResyncInterval = *raw.ResyncInterval
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*raw.LogLevel)
	}

	if raw.SystemBars != nil {
		if raw.SystemBars.StatusBarHeight != nil {
			cfg.SystemBars.StatusBarHeight = *raw.SystemBars.StatusBarHeight
		}
		if raw.SystemBars.NavigationBarHeight != nil {
			cfg.SystemBars.NavigationBarHeight = *raw.SystemBars.NavigationBarHeight
		}
	}

	if raw.DisplayMask != nil {
		cfg.DisplayMask.BoundingRects = raw.DisplayMask.BoundingRects
		cfg.DisplayMask.Rotations = raw.DisplayMask.Rotations
	}

	if raw.EventLog != nil {
		if raw.EventLog.Enabled != nil {
			cfg.EventLog.Enabled = *raw.EventLog.Enabled
		}
		if raw.EventLog.File != nil {
			path, err := expandHome(*raw.EventLog.File)
			if err != nil {
				return nil, &ValidationError{Path: "event_log.file", Err: err}
			}
			cfg.EventLog.File = path
		}
		if raw.EventLog.MaxSizeMB != nil {
			cfg.EventLog.MaxSizeMB = *raw.EventLog.MaxSizeMB
		}
		if raw.EventLog.MaxFiles != nil {
			cfg.EventLog.MaxFiles = *raw.EventLog.MaxFiles
		}
	}

	if raw.Hotkeys != nil {
		if raw.Hotkeys.Refresh != nil {
			cfg.Hotkeys.Refresh = strings.TrimSpace(*raw.Hotkeys.Refresh)
		}
		if raw.Hotkeys.TogglePause != nil {
			cfg.Hotkeys.TogglePause = strings.TrimSpace(*raw.Hotkeys.TogglePause)
		}
	}

	return cfg, nil
}

func expandHome(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
