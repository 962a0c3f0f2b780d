package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/wheelwright/internal/events"
	"git.home.luguber.info/inful/wheelwright/internal/history"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
	"git.home.luguber.info/inful/wheelwright/internal/pipeline"
)

// ReleaseCmd implements the 'release' command.
type ReleaseCmd struct {
	BestEffort bool `help:"Run every step even after failures; the last step decides the exit status"`
	DryRun     bool `help:"Log the steps without executing them"`
	SkipCheck  bool `help:"Skip artifact verification"`
	SkipUpload bool `help:"Stop before uploading"`
	AllowDirty bool `help:"Release from a dirty worktree"`
}

func (r *ReleaseCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	version, err := resolveVersion(cfg, r.AllowDirty)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ws := newWorkspace(cfg)
	up := newUploader(cfg, ws)

	steps := []pipeline.Step{
		pipeline.NewStep("clean", func(ctx context.Context) error { return ws.Clean() }),
		pipeline.NewStep("build", func(ctx context.Context) error { return runBuild(ctx, cfg, ws) }),
	}
	if !r.SkipCheck {
		steps = append(steps, pipeline.NewStep("check", func(ctx context.Context) error { return runCheck(cfg, ws, version) }))
	}
	if !r.SkipUpload {
		steps = append(steps, pipeline.NewStep("upload", up.Run))
	}

	// The recorder is created after the runner so it can share the run ID;
	// the hook closure reads the variable at call time and all recorder
	// methods are nil-safe.
	var recorder *history.Recorder
	mode := pipeline.ModeAbort
	if r.BestEffort {
		mode = pipeline.ModeBestEffort
	}
	runner := pipeline.NewRunner(steps,
		pipeline.WithMode(mode),
		pipeline.WithDryRun(r.DryRun),
		pipeline.WithResultHook(func(result pipeline.StepResult) {
			recorder.StepDone(ctx, result)
		}))

	if !cfg.History.Disabled && !r.DryRun {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			slog.Warn("Release history unavailable", logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			recorder = history.NewRecorder(store, runner.ID())
		}
	}

	var publisher *events.Publisher
	if cfg.Events.Enabled && !r.DryRun {
		publisher, err = events.NewPublisher(&cfg.Events)
		if err != nil {
			slog.Warn("Release event publishing unavailable", logfields.Error(err))
		} else {
			defer publisher.Close()
		}
	}
	publish := func(eventType, detail string) {
		if publisher == nil {
			return
		}
		event := events.ReleaseEvent{
			ReleaseID: runner.ID(),
			Project:   cfg.Project.Name,
			Version:   version,
			Type:      eventType,
			Detail:    detail,
		}
		if err := publisher.Publish(ctx, event); err != nil {
			slog.Warn("Failed to publish release event", logfields.Error(err))
		}
	}

	slog.Info("Starting release",
		logfields.ReleaseID(runner.ID()),
		logfields.Project(cfg.Project.Name),
		logfields.Version(version))
	recorder.Started(ctx, cfg.Project.Name, version)
	publish(events.TypeStarted, "")

	_, runErr := runner.Run(ctx)

	artifacts := 0
	if files, err := ws.DistEntries(cfg.Upload.Glob); err == nil {
		artifacts = len(files)
	}

	if runErr != nil {
		recorder.Failed(ctx, runErr)
		publish(events.TypeFailed, runErr.Error())
		return runErr
	}

	recorder.Completed(ctx, artifacts)
	publish(events.TypeCompleted, "")
	slog.Info("Release completed",
		logfields.ReleaseID(runner.ID()),
		logfields.Version(version),
		logfields.Count(artifacts))
	return nil
}
