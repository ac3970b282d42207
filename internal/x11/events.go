package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// layoutAtoms are root window properties whose changes can move the usable
// area: dock reservations, the focused window and the current desktop.
var layoutAtoms = []string{
	"_NET_WORKAREA",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_CURRENT_DESKTOP",
}

// WatchLayout calls fn whenever RandR reports a screen or CRTC change, the
// root window is reconfigured, or one of the layout properties on the root
// changes. Callbacks run on the EventLoop goroutine. The returned
// function removes fn; other handlers on the root window are unaffected.
func (c *Connection) WatchLayout(fn func()) (func(), error) {
	c.layoutOnce.Do(func() {
		c.layoutErr = c.listenLayout()
	})
	if c.layoutErr != nil {
		return nil, c.layoutErr
	}

	c.layoutMu.Lock()
	if c.layoutFns == nil {
		c.layoutFns = make(map[int]func())
	}
	id := c.layoutNext
	c.layoutNext++
	c.layoutFns[id] = fn
	c.layoutMu.Unlock()

	return func() {
		c.layoutMu.Lock()
		delete(c.layoutFns, id)
		c.layoutMu.Unlock()
	}, nil
}

// listenLayout selects root events and connects the dispatch callbacks once.
func (c *Connection) listenLayout() error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	watched := make(map[xproto.Atom]bool, len(layoutAtoms))
	for _, name := range layoutAtoms {
		atom, err := xprop.Atm(c.XUtil, name)
		if err != nil {
			continue
		}
		watched[atom] = true
	}

	// A 0/180 or 90/270 flip keeps the root size, so no ConfigureNotify
	// arrives for it. Only RandR notifications carry that change.
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return fmt.Errorf("randr init failed: %w", err)
	}
	mask := uint16(randr.NotifyMaskScreenChange | randr.NotifyMaskCrtcChange)
	if err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, mask).Check(); err != nil {
		return fmt.Errorf("failed to select RandR input: %w", err)
	}
	xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
		if isRandREvent(ev) {
			c.notifyLayout()
		}
		return true
	}).Connect(c.XUtil)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		c.notifyLayout()
	}).Connect(c.XUtil, c.Root)
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if watched[ev.Atom] {
			c.notifyLayout()
		}
	}).Connect(c.XUtil, c.Root)
	return nil
}

// isRandREvent reports whether ev is a RandR screen or CRTC notification.
func isRandREvent(ev interface{}) bool {
	switch ev.(type) {
	case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
		return true
	}
	return false
}

func (c *Connection) notifyLayout() {
	c.layoutMu.Lock()
	fns := make([]func(), 0, len(c.layoutFns))
	for _, fn := range c.layoutFns {
		fns = append(fns, fn)
	}
	c.layoutMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
