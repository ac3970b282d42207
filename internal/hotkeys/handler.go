package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/dualscreen/internal/x11"
)

// Actions are the daemon operations reachable from the keyboard.
type Actions interface {
	Refresh() (bool, error)
	Pause() error
	Resume() error
	Paused() bool
}

// Bindings maps actions to key sequences such as "Mod4-Shift-r".
// Empty sequences are skipped.
type Bindings struct {
	Refresh     string
	TogglePause string
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on conn. The connection must have
// been created with x11.NewConnection so keybind is initialized.
func NewHandler(conn *x11.Connection, actions Actions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{actions: actions, logger: logger}
	if conn != nil {
		h.xu = conn.XUtil
		h.root = conn.Root
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(h.xu)
		})
	}
	return h
}

// Register grabs every non-empty sequence in b.
func (h *Handler) Register(b Bindings) error {
	if b.Refresh != "" {
		if err := h.RegisterFunc(b.Refresh, h.refresh); err != nil {
			return fmt.Errorf("failed to register refresh hotkey %q: %w", b.Refresh, err)
		}
		h.logger.Info("hotkey registered", "action", "refresh", "keys", b.Refresh)
	}
	if b.TogglePause != "" {
		if err := h.RegisterFunc(b.TogglePause, h.togglePause); err != nil {
			return fmt.Errorf("failed to register toggle_pause hotkey %q: %w", b.TogglePause, err)
		}
		h.logger.Info("hotkey registered", "action", "toggle_pause", "keys", b.TogglePause)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("no X connection")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func (h *Handler) refresh() {
	emitted, err := h.actions.Refresh()
	if err != nil {
		h.logger.Error("hotkey refresh failed", "error", err)
		return
	}
	h.logger.Debug("hotkey refresh", "emitted", emitted)
}

func (h *Handler) togglePause() {
	var err error
	if h.actions.Paused() {
		err = h.actions.Resume()
	} else {
		err = h.actions.Pause()
	}
	if err != nil {
		h.logger.Error("hotkey pause toggle failed", "error", err)
		return
	}
	h.logger.Info("hotkey pause toggled", "paused", h.actions.Paused())
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every OR-combination of base, including 0.
func ignoreMasks(base []uint16) []uint16 {
	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
