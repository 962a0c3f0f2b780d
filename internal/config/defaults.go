package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/wheel"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ProjectDefaultApplier handles Project configuration defaults.
type ProjectDefaultApplier struct{}

func (p *ProjectDefaultApplier) Domain() string { return "project" }

func (p *ProjectDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	if cfg.Project.Readme == "" {
		cfg.Project.Readme = "README.md"
	}
	return nil
}

// BuildDefaultApplier handles Build configuration defaults.
type BuildDefaultApplier struct{}

func (b *BuildDefaultApplier) Domain() string { return "build" }

func (b *BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Build.Command) == 0 {
		cfg.Build.Command = []string{"python", "-m", "build", "--wheel"}
	}
	if cfg.Build.DistDir == "" {
		cfg.Build.DistDir = "dist"
	}
	if cfg.Build.BuildDir == "" {
		cfg.Build.BuildDir = "build"
	}
	if cfg.Build.MetadataDir == "" && cfg.Project.Name != "" {
		// setuptools writes metadata next to the sources as <name>.egg-info.
		cfg.Build.MetadataDir = wheel.NormalizeName(cfg.Project.Name) + ".egg-info"
	}
	if cfg.Build.Timeout <= 0 {
		cfg.Build.Timeout = Duration(10 * time.Minute)
	}
	return nil
}

// UploadDefaultApplier handles Upload configuration defaults.
type UploadDefaultApplier struct{}

func (u *UploadDefaultApplier) Domain() string { return "upload" }

func (u *UploadDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Upload.Command) == 0 {
		cfg.Upload.Command = []string{"twine", "upload"}
	}
	if cfg.Upload.Glob == "" {
		cfg.Upload.Glob = "*"
	}
	if cfg.Upload.Timeout <= 0 {
		cfg.Upload.Timeout = Duration(5 * time.Minute)
	}
	return nil
}

// CheckDefaultApplier handles Check configuration defaults.
type CheckDefaultApplier struct{}

func (c *CheckDefaultApplier) Domain() string { return "check" }

func (c *CheckDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Check.RequiredFields) == 0 {
		cfg.Check.RequiredFields = []string{"Name", "Version"}
	}
	return nil
}

// HistoryDefaultApplier handles History configuration defaults.
type HistoryDefaultApplier struct{}

func (h *HistoryDefaultApplier) Domain() string { return "history" }

func (h *HistoryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.History.Path == "" {
		cfg.History.Path = ".wheelwright/history.db"
	}
	return nil
}

// EventsDefaultApplier handles Events configuration defaults.
type EventsDefaultApplier struct{}

func (e *EventsDefaultApplier) Domain() string { return "events" }

func (e *EventsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = "wheelwright.releases"
	}
	if cfg.Events.Stream == "" {
		cfg.Events.Stream = "WHEELWRIGHT"
	}
	return nil
}

// WatchDefaultApplier handles Watch configuration defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Watch.Paths) == 0 {
		cfg.Watch.Paths = []string{"."}
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = Duration(2 * time.Second)
	}
	if cfg.Watch.Listen == "" {
		cfg.Watch.Listen = "127.0.0.1:8747"
	}
	return nil
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		&ProjectDefaultApplier{},
		&BuildDefaultApplier{},
		&UploadDefaultApplier{},
		&CheckDefaultApplier{},
		&HistoryDefaultApplier{},
		&EventsDefaultApplier{},
		&WatchDefaultApplier{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}
