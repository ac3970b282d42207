package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/dualscreen/internal/spanning"
)

// Reloader re-reads configuration, applies it to the observer and returns
// the resync interval to use from now on.
type Reloader func() (time.Duration, error)

// Config holds configuration for a Daemon.
type Config struct {
	Observer   spanning.WindowObserver
	Sink       spanning.EventSink
	HingeWidth int
	// ResyncInterval recomputes the state periodically while resumed, to
	// catch changes that produce no X event. Zero disables it.
	ResyncInterval time.Duration
	Reload         Reloader
	Logger         *slog.Logger
}

// ErrStopped is returned by control calls once Run has returned.
var ErrStopped = errors.New("daemon is not running")

type requestKind int

const (
	reqRefresh requestKind = iota
	reqPause
	reqResume
	reqReload
)

func (k requestKind) String() string {
	switch k {
	case reqRefresh:
		return "refresh"
	case reqPause:
		return "pause"
	case reqResume:
		return "resume"
	case reqReload:
		return "reload"
	default:
		return "unknown"
	}
}

type result struct {
	emitted bool
	err     error
}

type request struct {
	kind  requestKind
	reply chan result
}

// Daemon owns a spanning tracker and drives it from a single goroutine.
// Layout notifications, resync ticks and control requests are all
// funnelled into Run.
type Daemon struct {
	tracker   *spanning.Tracker
	constants spanning.Constants
	interval  time.Duration
	reload    Reloader
	logger    *slog.Logger

	layoutCh chan struct{}
	reqCh    chan request
	stopped  chan struct{}
	paused   atomic.Bool
}

// New creates a daemon. Constants are evaluated once, here.
func New(cfg Config) *Daemon {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Daemon{
		constants: spanning.ConstantsFor(cfg.Observer, cfg.HingeWidth),
		interval:  cfg.ResyncInterval,
		reload:    cfg.Reload,
		logger:    logger,
		layoutCh:  make(chan struct{}, 1),
		reqCh:     make(chan request),
		stopped:   make(chan struct{}),
	}
	d.tracker = spanning.NewTracker(spanning.TrackerConfig{
		Observer: cfg.Observer,
		Sink:     cfg.Sink,
		Logger:   logger,
		Notify:   d.signalLayout,
	})
	return d
}

// signalLayout runs on whatever goroutine delivers layout changes. Bursts
// collapse into a single pending recompute.
func (d *Daemon) signalLayout() {
	select {
	case d.layoutCh <- struct{}{}:
	default:
	}
}

// Run attaches the layout listener, emits the initial state and serves
// until ctx is cancelled. The listener is always detached on return.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.stopped)

	d.tracker.Resume()
	defer d.tracker.Pause()

	d.logger.Info("daemon started",
		"hinge_width", d.constants.HingeWidth,
		"dual_screen", d.constants.IsDualScreenDevice,
		"resync_interval", d.interval)

	d.refresh("startup")

	var ticker *time.Ticker
	var tick <-chan time.Time
	resetTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d.interval > 0 {
			ticker = time.NewTicker(d.interval)
			tick = ticker.C
		}
	}
	resetTicker()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopped")
			return nil
		case <-d.layoutCh:
			if !d.paused.Load() {
				d.refresh("layout")
			}
		case <-tick:
			if !d.paused.Load() {
				d.refresh("resync")
			}
		case req := <-d.reqCh:
			res := d.handle(req.kind)
			if req.kind == reqReload && res.err == nil {
				resetTicker()
			}
			req.reply <- res
		}
	}
}

func (d *Daemon) handle(kind requestKind) result {
	switch kind {
	case reqRefresh:
		emitted, err := d.refresh("request")
		return result{emitted: emitted, err: err}
	case reqPause:
		d.tracker.Pause()
		d.paused.Store(true)
		d.logger.Info("spanning updates paused")
		return result{}
	case reqResume:
		d.tracker.Resume()
		d.paused.Store(false)
		d.logger.Info("spanning updates resumed")
		// Changes while paused were not observed.
		emitted, err := d.refresh("resume")
		return result{emitted: emitted, err: err}
	case reqReload:
		if d.reload == nil {
			return result{err: fmt.Errorf("reload is not supported")}
		}
		interval, err := d.reload()
		if err != nil {
			d.logger.Error("config reload failed", "error", err)
			return result{err: err}
		}
		d.interval = interval
		d.logger.Info("config reloaded", "resync_interval", interval)
		emitted, err := d.refresh("reload")
		return result{emitted: emitted, err: err}
	default:
		return result{err: fmt.Errorf("unknown request %v", kind)}
	}
}

// refresh performs one recompute pass. A panic in the observer is
// recovered so a single bad pass cannot take the daemon down.
func (d *Daemon) refresh(reason string) (emitted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("refresh panic recovered", "reason", reason, "error", r)
			emitted, err = false, fmt.Errorf("refresh panicked: %v", r)
		}
	}()

	emitted, err = d.tracker.Refresh()
	if err != nil {
		d.logger.Error("spanning refresh failed", "reason", reason, "error", err)
		return false, err
	}
	if emitted {
		d.logger.Debug("spanning event emitted", "reason", reason)
	}
	return emitted, nil
}

func (d *Daemon) do(kind requestKind) result {
	req := request{kind: kind, reply: make(chan result, 1)}
	select {
	case d.reqCh <- req:
	case <-d.stopped:
		return result{err: ErrStopped}
	}
	return <-req.reply
}

// Refresh forces a recompute on the run loop and reports whether it emitted.
func (d *Daemon) Refresh() (bool, error) {
	res := d.do(reqRefresh)
	return res.emitted, res.err
}

// Pause detaches the layout listener and suspends periodic resync.
func (d *Daemon) Pause() error {
	return d.do(reqPause).err
}

// Resume re-attaches the layout listener and recomputes immediately.
func (d *Daemon) Resume() error {
	return d.do(reqResume).err
}

// Reload re-reads configuration through the Reloader.
func (d *Daemon) Reload() error {
	return d.do(reqReload).err
}

// Last returns the most recently emitted event.
func (d *Daemon) Last() (spanning.Event, bool) {
	return d.tracker.Last()
}

// Constants returns the values evaluated at startup.
func (d *Daemon) Constants() spanning.Constants {
	return d.constants
}

// Paused reports whether updates are paused.
func (d *Daemon) Paused() bool {
	return d.paused.Load()
}

// EventsEmitted returns how many events the tracker has emitted.
func (d *Daemon) EventsEmitted() uint64 {
	return d.tracker.Emitted()
}
