package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/wheelwright/internal/daemon"
	"git.home.luguber.info/inful/wheelwright/internal/events"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	AllowDirty bool `help:"Verify against a dirty worktree"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	var publisher *events.Publisher
	if cfg.Events.Enabled {
		publisher, err = events.NewPublisher(&cfg.Events)
		if err != nil {
			slog.Warn("Build event publishing unavailable", logfields.Error(err))
		} else {
			defer publisher.Close()
		}
	}

	ws := newWorkspace(cfg)
	rebuild := func(ctx context.Context) error {
		buildErr := func() error {
			if err := ws.Clean(); err != nil {
				return err
			}
			if err := runBuild(ctx, cfg, ws); err != nil {
				return err
			}
			version, err := resolveVersion(cfg, w.AllowDirty)
			if err != nil {
				return err
			}
			return runCheck(cfg, ws, version)
		}()
		publishBuildEvent(ctx, publisher, cfg.Project.Name, buildErr)
		return buildErr
	}
	verify := func(ctx context.Context) error {
		version, err := resolveVersion(cfg, w.AllowDirty)
		if err != nil {
			return err
		}
		return runCheck(cfg, ws, version)
	}

	d, err := daemon.New(cfg, rebuild, verify)
	if err != nil {
		return fmt.Errorf("failed to create watch daemon: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		return err
	}

	slog.Info("Watch mode running, waiting for shutdown signal...")
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping watch mode...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return d.Stop(stopCtx)
}

// publishBuildEvent reports one watch-mode rebuild outcome, best effort.
func publishBuildEvent(ctx context.Context, publisher *events.Publisher, project string, buildErr error) {
	if publisher == nil {
		return
	}
	event := events.ReleaseEvent{
		ReleaseID: uuid.NewString(),
		Project:   project,
		Type:      events.TypeCompleted,
	}
	if buildErr != nil {
		event.Type = events.TypeFailed
		event.Detail = buildErr.Error()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish build event", logfields.Error(err))
	}
}
