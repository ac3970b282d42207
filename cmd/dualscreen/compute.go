package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/mcp"
)

func runCompute(args []string) int {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	window := fs.String("window", "", "Window rect in pixels: left,top,right,bottom (required)")
	hingeFlag := fs.String("hinge", "", "Hinge rect in pixels: left,top,right,bottom")
	rotation := fs.String("rotation", "0", "Rotation code (0-3) or orientation name")
	statusBar := fs.Int("status-bar", 0, "Visible status bar height in pixels")
	navBar := fs.Int("nav-bar", 0, "Visible navigation bar height in pixels")
	density := fs.Float64("density", 1, "Pixels per density-independent unit")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dualscreen compute --window L,T,R,B [--hinge L,T,R,B] [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Split a window around a hinge without a running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}
	if *window == "" {
		fmt.Fprintln(os.Stderr, "--window is required")
		fs.Usage()
		return 2
	}

	in := mcp.ComputeWindowRegionsInput{
		StatusBarHeight:     *statusBar,
		NavigationBarHeight: *navBar,
		Density:             *density,
	}
	var err error
	if in.Window, err = parseRect(*window); err != nil {
		fmt.Fprintf(os.Stderr, "--window: %v\n", err)
		return 2
	}
	if *hingeFlag != "" {
		r, err := parseRect(*hingeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "--hinge: %v\n", err)
			return 2
		}
		in.Hinge = &r
	}
	rot, err := parseRotation(*rotation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "--rotation: %v\n", err)
		return 2
	}
	in.Rotation = int(rot)

	out, err := mcp.ComputeWindowRegions(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printJSON(out)
}

// parseRect parses "left,top,right,bottom".
func parseRect(s string) (hinge.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return hinge.Rect{}, fmt.Errorf("expected left,top,right,bottom, got %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return hinge.Rect{}, fmt.Errorf("invalid coordinate %q", p)
		}
		v[i] = n
	}
	return hinge.NewRect(v[0], v[1], v[2], v[3]), nil
}

// parseRotation accepts a rotation code or an orientation name.
func parseRotation(s string) (hinge.Rotation, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		rot := hinge.Rotation(n)
		if !rot.Valid() {
			return 0, fmt.Errorf("rotation %d: %w", n, hinge.ErrInvalidRotation)
		}
		return rot, nil
	}
	return hinge.ParseOrientation(s)
}
