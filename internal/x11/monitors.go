package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	// Rotation is the RandR rotation bitmask of the CRTC driving the output.
	Rotation uint16
	// MmWidth and MmHeight are the physical output size; 0 when unknown.
	MmWidth  uint32
	MmHeight uint32
}

// Insets are the edge reservations of dock windows (panels, bars) that
// overlap a monitor.
type Insets struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID:       i,
			Name:     fmt.Sprintf("Monitor%d", i),
			X:        int(crtcInfo.X),
			Y:        int(crtcInfo.Y),
			Width:    int(crtcInfo.Width),
			Height:   int(crtcInfo.Height),
			Rotation: crtcInfo.Rotation,
		}

		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			mon.Name = string(outputInfo.Name)
			mon.MmWidth = outputInfo.MmWidth
			mon.MmHeight = outputInfo.MmHeight
		}

		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// FindMonitor returns the monitor driving the named RandR output.
func (c *Connection) FindMonitor(name string) (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	for i := range monitors {
		if monitors[i].Name == name {
			return &monitors[i], nil
		}
	}
	return nil, fmt.Errorf("output %q not found", name)
}

// GetActiveMonitor returns the monitor containing the currently focused window,
// falling back to the monitor under the pointer and then the first monitor.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	if activeWin, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && activeWin != 0 {
		if mon := findMonitorForWindow(c, monitors, activeWin); mon != nil {
			return mon, nil
		}
	}

	if mon := findMonitorForPointer(c, monitors); mon != nil {
		return mon, nil
	}

	return &monitors[0], nil
}

// ActiveWindowBounds returns the root-relative geometry of the focused window.
func (c *Connection) ActiveWindowBounds() (x, y, width, height int, err error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get active window: %w", err)
	}
	if win == 0 {
		return 0, 0, 0, 0, fmt.Errorf("no active window")
	}

	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate window coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// DockInsets returns how much of each monitor edge is reserved by dock
// windows. It reads _NET_WM_STRUT_PARTIAL (or _NET_WM_STRUT) from docks and
// falls back to the difference between the monitor and _NET_WORKAREA.
func (c *Connection) DockInsets(monitor Monitor) (Insets, error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Insets{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	if insets, ok := c.strutInsets(monitor, rootWidth, rootHeight); ok {
		return insets, nil
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return Insets{}, nil
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]
	return workAreaInsets(monitor, int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height)), nil
}

func (c *Connection) strutInsets(monitor Monitor, rootWidth, rootHeight int) (Insets, bool) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return Insets{}, false
	}

	var insets Insets
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil {
			continue
		}

		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			updateInsetsForMonitor(monitor, rootWidth, rootHeight, sp, &insets)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			updateInsetsForMonitor(monitor, rootWidth, rootHeight, fullStrut(s, rootWidth, rootHeight), &insets)
		}
	}

	if insets == (Insets{}) {
		return Insets{}, false
	}
	return insets, true
}

func fullStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

func updateInsetsForMonitor(monitor Monitor, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *Insets) {
	monX1 := monitor.X
	monY1 := monitor.Y
	monX2 := monitor.X + monitor.Width
	monY2 := monitor.Y + monitor.Height

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		x1 := int(sp.TopStartX)
		x2 := int(sp.TopEndX) + 1
		isect := intersectionSize(monX1, monY1, monX2, monY2, x1, 0, x2, int(sp.Top))
		acc.Top = max(acc.Top, isect.h)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		x1 := int(sp.BottomStartX)
		x2 := int(sp.BottomEndX) + 1
		isect := intersectionSize(monX1, monY1, monX2, monY2, x1, rootHeight-int(sp.Bottom), x2, rootHeight)
		acc.Bottom = max(acc.Bottom, isect.h)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		y1 := int(sp.LeftStartY)
		y2 := int(sp.LeftEndY) + 1
		isect := intersectionSize(monX1, monY1, monX2, monY2, 0, y1, int(sp.Left), y2)
		acc.Left = max(acc.Left, isect.w)
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		y1 := int(sp.RightStartY)
		y2 := int(sp.RightEndY) + 1
		isect := intersectionSize(monX1, monY1, monX2, monY2, rootWidth-int(sp.Right), y1, rootWidth, y2)
		acc.Right = max(acc.Right, isect.w)
	}
}

// workAreaInsets converts a work area rectangle into per-edge insets for the
// monitor. A work area that does not overlap the monitor yields no insets.
func workAreaInsets(monitor Monitor, waX, waY, waW, waH int) Insets {
	x1 := max(monitor.X, waX)
	y1 := max(monitor.Y, waY)
	x2 := min(monitor.X+monitor.Width, waX+waW)
	y2 := min(monitor.Y+monitor.Height, waY+waH)
	if x2 <= x1 || y2 <= y1 {
		return Insets{}
	}
	return Insets{
		Left:   x1 - monitor.X,
		Top:    y1 - monitor.Y,
		Right:  monitor.X + monitor.Width - x2,
		Bottom: monitor.Y + monitor.Height - y2,
	}
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}

func findMonitorForWindow(c *Connection, monitors []Monitor, windowID xproto.Window) *Monitor {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return nil
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return nil
	}

	winCenterX := int(translate.DstX) + int(geom.Width)/2
	winCenterY := int(translate.DstY) + int(geom.Height)/2
	return monitorAt(monitors, winCenterX, winCenterY)
}

func findMonitorForPointer(c *Connection, monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	return monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		mon := &monitors[i]
		if x >= mon.X && x < mon.X+mon.Width && y >= mon.Y && y < mon.Y+mon.Height {
			return mon
		}
	}
	return nil
}
