// Package daemon implements watch mode: it rebuilds the package whenever
// the source tree changes, runs periodic verification, and serves health,
// status and metrics endpoints while running.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/config"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// RunFunc performs one rebuild or verification pass.
type RunFunc func(ctx context.Context) error

// Status is the snapshot served on /status.
type Status struct {
	Project     string    `json:"project"`
	StartedAt   time.Time `json:"started_at"`
	Builds      int       `json:"builds"`
	Failures    int       `json:"failures"`
	LastBuildAt time.Time `json:"last_build_at,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Daemon ties the source watcher, the verify scheduler and the HTTP
// endpoints together around a rebuild callback.
type Daemon struct {
	cfg     *config.Config
	rebuild RunFunc
	verify  RunFunc

	metrics   *Metrics
	watcher   *SourceWatcher
	scheduler *Scheduler
	server    *HTTPServer

	// requests carries coalesced rebuild triggers to the build loop.
	requests chan struct{}
	done     chan struct{}

	mu        sync.Mutex
	startedAt time.Time
	builds    int
	failures  int
	lastBuild time.Time
	lastErr   error
}

// New creates a daemon. rebuild runs on source changes, verify runs on the
// periodic interval; either may be the same function.
func New(cfg *config.Config, rebuild, verify RunFunc) (*Daemon, error) {
	if rebuild == nil {
		return nil, fmt.Errorf("rebuild callback is required")
	}

	d := &Daemon{
		cfg:      cfg,
		rebuild:  rebuild,
		verify:   verify,
		metrics:  NewMetrics(),
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	watcher, err := NewSourceWatcher(cfg.Watch.Paths, cfg.Watch.Debounce.Std(), d.requestRebuild)
	if err != nil {
		return nil, err
	}
	d.watcher = watcher

	scheduler, err := NewScheduler()
	if err != nil {
		return nil, err
	}
	d.scheduler = scheduler

	d.server = NewHTTPServer(cfg.Watch.Listen, d.metrics, d.Status)
	return d, nil
}

// requestRebuild queues a rebuild without blocking; a pending request
// already covers any change that arrives before the loop picks it up.
func (d *Daemon) requestRebuild() {
	select {
	case d.requests <- struct{}{}:
	default:
	}
}

// Start launches all components. It returns once everything is running;
// use Stop to shut down.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	d.startedAt = time.Now()
	d.mu.Unlock()

	if err := d.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start source watcher: %w", err)
	}

	if interval := d.cfg.Watch.Interval.Std(); interval > 0 && d.verify != nil {
		if _, err := d.scheduler.SchedulePeriodic(interval, "verify", func() { d.runVerify(ctx) }); err != nil {
			return err
		}
		d.scheduler.Start(ctx)
	}

	d.server.Start()
	go d.buildLoop(ctx)

	slog.Info("Watch mode started",
		logfields.Project(d.cfg.Project.Name),
		slog.String("listen", d.cfg.Watch.Listen))
	return nil
}

func (d *Daemon) buildLoop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.requests:
			d.runRebuild(ctx)
		}
	}
}

func (d *Daemon) runRebuild(ctx context.Context) {
	start := time.Now()
	slog.Info("Source changed, rebuilding", logfields.Project(d.cfg.Project.Name))

	err := d.rebuild(ctx)
	elapsed := time.Since(start)
	d.metrics.ObserveBuild(elapsed, err)

	d.mu.Lock()
	d.builds++
	d.lastBuild = time.Now()
	d.lastErr = err
	if err != nil {
		d.failures++
	}
	d.mu.Unlock()

	if err != nil {
		slog.Error("Rebuild failed", logfields.Error(err), logfields.DurationMS(float64(elapsed.Milliseconds())))
		return
	}
	slog.Info("Rebuild succeeded", logfields.DurationMS(float64(elapsed.Milliseconds())))
}

func (d *Daemon) runVerify(ctx context.Context) {
	if err := d.verify(ctx); err != nil {
		slog.Warn("Periodic verification failed", logfields.Error(err))
		return
	}
	slog.Debug("Periodic verification passed")
}

// Status returns a snapshot of the daemon state.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Status{
		Project:     d.cfg.Project.Name,
		StartedAt:   d.startedAt,
		Builds:      d.builds,
		Failures:    d.failures,
		LastBuildAt: d.lastBuild,
	}
	if d.lastErr != nil {
		s.LastError = d.lastErr.Error()
	}
	return s
}

// Stop shuts all components down.
func (d *Daemon) Stop(ctx context.Context) error {
	slog.Info("Stopping watch mode")

	if err := d.watcher.Stop(); err != nil {
		slog.Warn("Failed to stop source watcher", logfields.Error(err))
	}
	if err := d.scheduler.Stop(ctx); err != nil {
		slog.Warn("Failed to stop scheduler", logfields.Error(err))
	}
	return d.server.Stop(ctx)
}
