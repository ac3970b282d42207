package platform

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/dualscreen/internal/config"
	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
	"github.com/1broseidon/dualscreen/internal/x11"
)

// Observer answers spanning queries from the display server and the
// configured display mask. Every query falls back to a neutral value when
// the backend cannot answer.
type Observer struct {
	backend Backend
	logger  *slog.Logger

	mu  sync.RWMutex
	cfg *config.Config
}

var _ spanning.WindowObserver = (*Observer)(nil)

func NewObserver(backend Backend, cfg *config.Config, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Observer{backend: backend, cfg: cfg, logger: logger}
}

// SetConfig swaps the configuration used by subsequent queries.
func (o *Observer) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	o.mu.Lock()
	o.cfg = cfg
	o.mu.Unlock()
}

func (o *Observer) config() *config.Config {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cfg
}

// Monitor returns the observed output: the configured one, or the output
// holding the focused window.
func (o *Observer) Monitor() (x11.Monitor, bool) {
	if o.backend == nil {
		return x11.Monitor{}, false
	}
	cfg := o.config()

	var (
		mon *x11.Monitor
		err error
	)
	if cfg.Output != "" {
		mon, err = o.backend.FindMonitor(cfg.Output)
	} else {
		mon, err = o.backend.GetActiveMonitor()
	}
	if err != nil || mon == nil {
		o.logger.Debug("no output to observe", "output", cfg.Output, "error", err)
		return x11.Monitor{}, false
	}
	return *mon, true
}

func (o *Observer) WindowRect() hinge.Rect {
	mon, ok := o.Monitor()
	if !ok {
		return hinge.Rect{}
	}
	outputRect := hinge.NewRect(0, 0, mon.Width, mon.Height)
	if o.config().Track != config.TrackActiveWindow {
		return outputRect
	}

	x, y, w, h, err := o.backend.ActiveWindowBounds()
	if err != nil {
		o.logger.Debug("active window unavailable, using output", "error", err)
		return outputRect
	}
	return windowRelativeTo(mon, x, y, w, h)
}

// windowRelativeTo expresses a root-relative window in the coordinates of mon.
func windowRelativeTo(mon x11.Monitor, x, y, w, h int) hinge.Rect {
	left := x - mon.X
	top := y - mon.Y
	return hinge.NewRect(left, top, left+w, top+h)
}

func (o *Observer) Rotation() hinge.Rotation {
	mon, ok := o.Monitor()
	if !ok {
		return hinge.Rotation0
	}
	return RotationFromRandR(mon.Rotation)
}

func (o *Observer) HingeRects(rot hinge.Rotation) []hinge.Rect {
	cfg := o.config()
	if !cfg.IsDualScreenDevice() {
		return nil
	}
	mask := cfg.Mask()
	if mask.Empty() {
		return nil
	}
	mon, ok := o.Monitor()
	if !ok {
		return nil
	}
	w, h := hinge.NaturalSize(rot, mon.Width, mon.Height)
	return mask.BoundingRectsForRotation(rot, w, h)
}

func (o *Observer) BarHeights() (statusBar, navBar int) {
	bars := o.config().SystemBars
	statusBar = int(bars.StatusBarHeight)
	navBar = int(bars.NavigationBarHeight)
	if !bars.StatusBarHeight.Auto() && !bars.NavigationBarHeight.Auto() {
		return statusBar, navBar
	}

	var insets x11.Insets
	if mon, ok := o.Monitor(); ok {
		got, err := o.backend.DockInsets(mon)
		if err != nil {
			o.logger.Debug("dock insets unavailable", "error", err)
		} else {
			insets = got
		}
	}
	if bars.StatusBarHeight.Auto() {
		statusBar = insets.Top
	}
	if bars.NavigationBarHeight.Auto() {
		navBar = insets.Bottom
	}
	return statusBar, navBar
}

func (o *Observer) Density() float64 {
	if d := o.config().Density; d > 0 {
		return d
	}
	mon, ok := o.Monitor()
	if !ok {
		return hinge.DefaultDensity
	}
	// RandR reports the physical size of the unrotated panel.
	w, _ := hinge.NaturalSize(RotationFromRandR(mon.Rotation), mon.Width, mon.Height)
	return hinge.DensityFromPhysical(w, mon.MmWidth)
}

func (o *Observer) IsDualScreenDevice() bool {
	return o.config().IsDualScreenDevice()
}

func (o *Observer) AddLayoutListener(fn func()) func() {
	if o.backend == nil {
		return func() {}
	}
	remove, err := o.backend.WatchLayout(fn)
	if err != nil {
		o.logger.Warn("layout changes will not be observed", "error", err)
		return func() {}
	}
	return remove
}
