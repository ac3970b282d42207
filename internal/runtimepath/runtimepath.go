package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SocketEnv overrides the socket location for both daemon and clients.
	SocketEnv  = "DUALSCREEN_SOCKET"
	socketName = "dualscreen.sock"
)

// Dir returns the directory holding the daemon socket, in order of preference:
// $XDG_RUNTIME_DIR, /run/user/<uid>, then a private /tmp/dualscreen-runtime-<uid>
// which is created on demand.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	fallback := filepath.Join(os.TempDir(), fmt.Sprintf("dualscreen-runtime-%d", uid))
	if err := os.MkdirAll(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return fallback, nil
}

// SocketPath returns $DUALSCREEN_SOCKET when set, otherwise dualscreen.sock
// inside Dir.
func SocketPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(SocketEnv)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
