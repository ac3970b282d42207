package platform

import "github.com/1broseidon/dualscreen/internal/x11"

// Backend abstracts the display-server queries the observer needs.
type Backend interface {
	GetMonitors() ([]x11.Monitor, error)
	FindMonitor(name string) (*x11.Monitor, error)
	GetActiveMonitor() (*x11.Monitor, error)
	// ActiveWindowBounds returns the root-relative geometry of the focused window.
	ActiveWindowBounds() (x, y, width, height int, err error)
	DockInsets(monitor x11.Monitor) (x11.Insets, error)
	// WatchLayout registers fn for layout changes and returns the function
	// that unregisters it.
	WatchLayout(fn func()) (func(), error)
}
