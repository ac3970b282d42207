package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/dualscreen/internal/config"
	"github.com/1broseidon/dualscreen/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "constants":
		os.Exit(runConstants(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "refresh", "pause", "resume", "reload":
		os.Exit(runControl(os.Args[1], os.Args[2:]))
	case "compute":
		os.Exit(runCompute(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dualscreen <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the spanning daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  state               Print the last didUpdateSpanning event")
	fmt.Fprintln(w, "  constants           Print hingeWidth and isDualScreenDevice")
	fmt.Fprintln(w, "  watch               Stream didUpdateSpanning events")
	fmt.Fprintln(w, "  tui                 Live view of the window regions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  refresh             Force a recompute")
	fmt.Fprintln(w, "  pause               Stop listening for layout changes")
	fmt.Fprintln(w, "  resume              Listen for layout changes again")
	fmt.Fprintln(w, "  reload              Reload the configuration file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  compute             Compute window regions offline")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'dualscreen <command> --help' for command-specific options.")
}

// parseNoArgs parses flags for commands that take no positional arguments.
// It returns -1 when the command should proceed.
func parseNoArgs(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dualscreen status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("paused:         %v\n", status.Paused)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("subscribers:    %d\n", status.Subscribers)
	fmt.Printf("events_emitted: %d\n", status.EventsEmitted)
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dualscreen state")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the last emitted didUpdateSpanning payload as JSON.")
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}

	ev, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printJSON(ev)
}

func runConstants(args []string) int {
	fs := flag.NewFlagSet("constants", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dualscreen constants")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the constants evaluated when the daemon started.")
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}

	consts, err := ipc.NewClient().GetConstants()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printJSON(consts)
}

func runControl(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dualscreen %s\n", name)
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}

	client := ipc.NewClient()
	var err error
	switch name {
	case "refresh":
		var emitted bool
		emitted, err = client.Refresh()
		if err == nil {
			if emitted {
				fmt.Println("state changed: event emitted")
			} else {
				fmt.Println("state unchanged")
			}
		}
	case "pause":
		err = client.Pause()
	case "resume":
		err = client.Resume()
	case "reload":
		err = client.Reload()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
