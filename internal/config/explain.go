package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	output
//	track
//	dual_screen
//	hinge_width
//	density
//	resync_interval
//	log_level
//	system_bars.status_bar_height
//	system_bars.navigation_bar_height
//	display_mask.bounding_rects
//	display_mask.rotations
//	event_log.enabled
//	event_log.file
//	event_log.max_size_mb
//	event_log.max_files
//	hotkeys.refresh
//	hotkeys.toggle_pause
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "display":
		return leaf(parts, cfg.Display)
	case "output":
		return leaf(parts, cfg.Output)
	case "track":
		return leaf(parts, string(cfg.Track))
	case "dual_screen":
		return leaf(parts, string(cfg.DualScreen))
	case "hinge_width":
		return leaf(parts, cfg.HingeWidth)
	case "density":
		return leaf(parts, cfg.Density)
	case "resync_interval":
		return leaf(parts, cfg.ResyncInterval.Std().String())
	case "log_level":
		return leaf(parts, cfg.LogLevel)
	case "system_bars":
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected system_bars.<field>")
		}
		switch parts[1] {
		case "status_bar_height":
			return barValue(cfg.SystemBars.StatusBarHeight), nil
		case "navigation_bar_height":
			return barValue(cfg.SystemBars.NavigationBarHeight), nil
		}
	case "display_mask":
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected display_mask.<field>")
		}
		switch parts[1] {
		case "bounding_rects":
			return cfg.DisplayMask.BoundingRects, nil
		case "rotations":
			return cfg.DisplayMask.Rotations, nil
		}
	case "event_log":
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected event_log.<field>")
		}
		switch parts[1] {
		case "enabled":
			return cfg.EventLog.Enabled, nil
		case "file":
			return cfg.EventLog.File, nil
		case "max_size_mb":
			return cfg.EventLog.MaxSizeMB, nil
		case "max_files":
			return cfg.EventLog.MaxFiles, nil
		}
	case "hotkeys":
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected hotkeys.<field>")
		}
		switch parts[1] {
		case "refresh":
			return cfg.Hotkeys.Refresh, nil
		case "toggle_pause":
			return cfg.Hotkeys.TogglePause, nil
		}
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}

func leaf(parts []string, v any) (any, error) {
	if len(parts) != 1 {
		return nil, fmt.Errorf("%s has no nested fields", parts[0])
	}
	return v, nil
}

func barValue(b BarHeight) any {
	if b.Auto() {
		return "auto"
	}
	return int(b)
}
