package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wheelwright/internal/config"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
	"git.home.luguber.info/inful/wheelwright/internal/readmecheck"
	"git.home.luguber.info/inful/wheelwright/internal/wheel"
	"git.home.luguber.info/inful/wheelwright/internal/workspace"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	AllowDirty bool `help:"Skip the clean-worktree check when resolving the version from git"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	version, err := resolveVersion(cfg, c.AllowDirty)
	if err != nil {
		return err
	}
	return runCheck(cfg, newWorkspace(cfg), version)
}

// runCheck verifies every wheel in the dist directory: the filename must
// parse, name and version must match the project, required metadata fields
// must be present, and the long description must render.
func runCheck(cfg *config.Config, ws *workspace.Manager, version string) error {
	wheels, err := ws.DistEntries("*.whl")
	if err != nil {
		return err
	}
	if len(wheels) == 0 {
		return fmt.Errorf("no wheels found in %s", ws.DistPath())
	}

	wantName := wheel.NormalizeName(cfg.Project.Name)
	for _, path := range wheels {
		if err := checkWheel(cfg, path, wantName, version); err != nil {
			return fmt.Errorf("check %s: %w", filepath.Base(path), err)
		}
		slog.Info("Artifact verified", logfields.Artifact(filepath.Base(path)))
	}
	return nil
}

func checkWheel(cfg *config.Config, path, wantName, version string) error {
	parsed, err := wheel.ParseFilename(filepath.Base(path))
	if err != nil {
		return err
	}
	if parsed.NormalizedName() != wantName {
		return fmt.Errorf("wheel is for %q, project is %q", parsed.Name, cfg.Project.Name)
	}
	if version != "" && parsed.Version != version {
		return fmt.Errorf("wheel version %s does not match release version %s", parsed.Version, version)
	}

	md, err := wheel.ReadMetadata(path)
	if err != nil {
		return err
	}
	for _, field := range cfg.Check.RequiredFields {
		if !md.Has(field) {
			return fmt.Errorf("metadata field %s is missing", field)
		}
	}

	if cfg.Check.SkipRenderCheck {
		return nil
	}
	return checkDescription(cfg, md)
}

// checkDescription renders the long description, falling back to the project
// README when the wheel metadata carries none.
func checkDescription(cfg *config.Config, md *wheel.Metadata) error {
	source := []byte(md.LongDescription())
	if len(source) == 0 {
		data, err := os.ReadFile(filepath.Join(cfg.Project.Root, cfg.Project.Readme))
		if err != nil {
			return fmt.Errorf("no long description in metadata and no readme: %w", err)
		}
		source = data
	}

	report, err := readmecheck.Check(source)
	if err != nil {
		if errors.Is(err, readmecheck.ErrEmptyDescription) {
			return fmt.Errorf("long description would render empty: %w", err)
		}
		return err
	}

	slog.Debug("Long description renders",
		slog.Int("links", report.Links),
		slog.Int("headings", report.Headings),
		slog.Int("bytes", report.Bytes))
	return nil
}
