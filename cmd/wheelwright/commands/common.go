package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wheelwright/internal/buildtool"
	"git.home.luguber.info/inful/wheelwright/internal/config"
	"git.home.luguber.info/inful/wheelwright/internal/gitinfo"
	"git.home.luguber.info/inful/wheelwright/internal/uploader"
	"git.home.luguber.info/inful/wheelwright/internal/workspace"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"wheelwright.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Release ReleaseCmd `cmd:"" help:"Run the full release pipeline: clean, build, check, upload"`
	Clean   CleanCmd   `cmd:"" help:"Remove build artifacts from previous runs"`
	Build   BuildCmd   `cmd:"" help:"Build the wheel with the configured build backend"`
	Check   CheckCmd   `cmd:"" help:"Verify built artifacts without uploading"`
	Upload  UploadCmd  `cmd:"" help:"Upload built artifacts to the package index"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	History HistoryCmd `cmd:"" help:"Show recorded release history"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild continuously on source changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newWorkspace builds the artifact directory manager for the project.
func newWorkspace(cfg *config.Config) *workspace.Manager {
	return workspace.NewManager(cfg.Project.Root, cfg.Build.BuildDir, cfg.Build.MetadataDir, cfg.Build.DistDir)
}

func newBuilder(cfg *config.Config) *buildtool.Runner {
	builder := buildtool.New(cfg.Project.Root, cfg.Build.Command)
	builder.Timeout = cfg.Build.Timeout.Std()
	return builder
}

func newUploader(cfg *config.Config, ws *workspace.Manager) *uploader.Uploader {
	return &uploader.Uploader{
		Workspace:     ws,
		Command:       cfg.Upload.Command,
		Glob:          cfg.Upload.Glob,
		RepositoryURL: cfg.Upload.RepositoryURL,
		SkipExisting:  cfg.Upload.SkipExisting,
		Timeout:       cfg.Upload.Timeout.Std(),
	}
}

// resolveVersion determines the release version, either statically from the
// configuration or from the newest version tag in the project repository.
func resolveVersion(cfg *config.Config, allowDirty bool) (string, error) {
	if !cfg.Project.VersionFromGit {
		return cfg.Project.Version, nil
	}
	if !allowDirty {
		if err := gitinfo.EnsureClean(cfg.Project.Root); err != nil {
			return "", err
		}
	}
	version, err := gitinfo.VersionFromTags(cfg.Project.Root)
	if err != nil {
		return "", fmt.Errorf("resolve version from git tags: %w", err)
	}
	return version, nil
}
