package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/dualscreen/internal/ipc"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print one JSON object per event (default when stdout is not a terminal)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dualscreen watch [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Stream didUpdateSpanning events until interrupted. The current state")
		fmt.Fprintln(os.Stderr, "is printed first.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}

	fd := int(os.Stdout.Fd())
	interactive := term.IsTerminal(fd)
	jsonOut := *asJSON || !interactive

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ipc.NewClient()
	err := client.Subscribe(ctx, func(ev spanning.Event) {
		if jsonOut {
			writeJSONLine(os.Stdout, ev)
			return
		}
		width := 0
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
		fmt.Fprintln(os.Stdout, fitWidth(formatEvent(time.Now(), ev), width))
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func writeJSONLine(w io.Writer, ev spanning.Event) {
	data, err := json.Marshal(ipc.StreamMessage{Event: spanning.EventName, Data: ev})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// formatEvent renders ev as a single human-readable line.
func formatEvent(at time.Time, ev spanning.Event) string {
	var sb strings.Builder
	sb.WriteString(at.Format("15:04:05"))
	if ev.IsSpanning {
		sb.WriteString(" spanning")
	} else {
		sb.WriteString(" single  ")
	}
	sb.WriteString(" ")
	sb.WriteString(string(ev.Orientation))
	for _, r := range ev.WindowRects {
		fmt.Fprintf(&sb, " [%gx%g@%g,%g]", r.Width, r.Height, r.X, r.Y)
	}
	return sb.String()
}

// fitWidth truncates s to width columns; width <= 0 leaves it unchanged.
func fitWidth(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
