package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/dualscreen/internal/config"
	"github.com/1broseidon/dualscreen/internal/daemon"
	"github.com/1broseidon/dualscreen/internal/eventlog"
	"github.com/1broseidon/dualscreen/internal/hotkeys"
	"github.com/1broseidon/dualscreen/internal/ipc"
	"github.com/1broseidon/dualscreen/internal/platform"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

var (
	_ ipc.Controller  = (*daemon.Daemon)(nil)
	_ hotkeys.Actions = (*daemon.Daemon)(nil)
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/dualscreen/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dualscreen daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Observe the display and emit didUpdateSpanning events. SIGHUP reloads")
		fmt.Fprintln(os.Stderr, "the configuration.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if rc := parseNoArgs(fs, args); rc >= 0 {
		return rc
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	if res.File != "" {
		logger.Info("configuration loaded", "file", res.File)
	}

	conn, err := platform.Connect(cfg.Display)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer conn.Close()

	observer := platform.NewObserver(conn, cfg, logger)
	if mon, ok := observer.Monitor(); ok {
		logger.Info("observing output",
			"output", mon.Name,
			"width", mon.Width,
			"height", mon.Height,
			"rotation", platform.RotationFromRandR(mon.Rotation).String())
	}

	events, err := eventlog.New(eventLogConfig(cfg.EventLog))
	if err != nil {
		logger.Warn("event log disabled", "error", err)
		events, _ = eventlog.New(eventlog.Config{})
	}
	defer events.Close()

	var server *ipc.Server
	sinks := spanning.MultiSink{
		spanning.LogSink{Logger: logger},
		spanning.SinkFunc(func(ev spanning.Event) {
			if server != nil {
				server.Emit(ev)
			}
		}),
		events,
	}

	d := daemon.New(daemon.Config{
		Observer:       observer,
		Sink:           sinks,
		HingeWidth:     cfg.HingeWidth,
		ResyncInterval: cfg.ResyncInterval.Std(),
		Reload: func() (time.Duration, error) {
			next, err := loadConfig(*path)
			if err != nil {
				return 0, err
			}
			if next.Config.Display != cfg.Display {
				logger.Warn("display changes take effect after a restart", "display", next.Config.Display)
			}
			if next.Config.Hotkeys != cfg.Hotkeys {
				logger.Warn("hotkey changes take effect after a restart")
			}
			level.Set(next.Config.SlogLevel())
			if err := events.Reconfigure(eventLogConfig(next.Config.EventLog)); err != nil {
				logger.Warn("keeping previous event log", "error", err)
			}
			observer.SetConfig(next.Config)
			return next.Config.ResyncInterval.Std(), nil
		},
		Logger: logger,
	})

	server, err = ipc.NewServer(d)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer server.Stop()

	keys := hotkeys.NewHandler(conn, d, logger)
	if err := keys.Register(hotkeys.Bindings{
		Refresh:     cfg.Hotkeys.Refresh,
		TogglePause: cfg.Hotkeys.TogglePause,
	}); err != nil {
		logger.Warn("hotkeys unavailable", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(); err != nil {
					logger.Error("config reload failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go conn.EventLoop()
	defer conn.Quit()

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon stopped with error", "error", err)
		return 1
	}
	logger.Info("shutting down")
	return 0
}

func eventLogConfig(c config.EventLogConfig) eventlog.Config {
	return eventlog.Config{
		Enabled:   c.Enabled,
		FilePath:  c.File,
		MaxSizeMB: c.MaxSizeMB,
		MaxFiles:  c.MaxFiles,
	}
}
