package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/wheelwright/internal/config"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
	"git.home.luguber.info/inful/wheelwright/internal/workspace"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Clean bool `help:"Remove previous build artifacts first"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ws := newWorkspace(cfg)
	if b.Clean {
		if err := ws.Clean(); err != nil {
			return err
		}
	}
	return runBuild(context.Background(), cfg, ws)
}

// runBuild invokes the external build backend and reports what it produced.
func runBuild(ctx context.Context, cfg *config.Config, ws *workspace.Manager) error {
	if err := newBuilder(cfg).Run(ctx); err != nil {
		return err
	}

	artifacts, err := ws.DistEntries("*")
	if err != nil {
		return err
	}
	for _, artifact := range artifacts {
		slog.Info("Built artifact", logfields.Artifact(artifact))
	}
	return nil
}
