package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct{}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ws := newWorkspace(cfg)
	for _, target := range ws.Targets() {
		slog.Debug("Clean target", logfields.Path(target))
	}
	if err := ws.Clean(); err != nil {
		return err
	}

	slog.Info("Build artifacts removed", logfields.Project(cfg.Project.Name))
	return nil
}
