package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// UploadCmd implements the 'upload' command.
type UploadCmd struct {
	RepositoryURL string `help:"Override the configured repository URL"`
	SkipExisting  bool   `help:"Ask the upload tool to skip already-published versions"`
	DryRun        bool   `help:"List what would be uploaded without invoking the tool"`
}

func (u *UploadCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	up := newUploader(cfg, newWorkspace(cfg))
	if u.RepositoryURL != "" {
		up.RepositoryURL = u.RepositoryURL
	}
	if u.SkipExisting {
		up.SkipExisting = true
	}

	if u.DryRun {
		files, err := up.Expand()
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Println(file)
		}
		slog.Info("Dry run, nothing uploaded", logfields.Count(len(files)))
		return nil
	}
	return up.Run(context.Background())
}
