//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/dualscreen/internal/x11"
	"github.com/BurntSushi/xgb/randr"
)

var _ Backend = (*x11.Connection)(nil)

// Connect opens an X11 connection to display (or $DISPLAY when empty) and
// checks that RandR is available.
func Connect(display string) (*x11.Connection, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := randr.Init(conn.XUtil.Conn()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("randr extension unavailable: %w", err)
	}
	return conn, nil
}
