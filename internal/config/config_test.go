package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wheelwright.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
project:
  name: json4
  version: 1.0.2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if got := cfg.Build.Command[0]; got != "python" {
		t.Errorf("expected default build command to start with python, got %q", got)
	}
	if cfg.Build.DistDir != "dist" {
		t.Errorf("expected default dist_dir dist, got %q", cfg.Build.DistDir)
	}
	if cfg.Build.BuildDir != "build" {
		t.Errorf("expected default build_dir build, got %q", cfg.Build.BuildDir)
	}
	if cfg.Build.MetadataDir != "json4.egg-info" {
		t.Errorf("expected metadata dir json4.egg-info, got %q", cfg.Build.MetadataDir)
	}
	if cfg.Upload.Command[0] != "twine" {
		t.Errorf("expected default upload command twine, got %q", cfg.Upload.Command[0])
	}
	if cfg.Upload.Glob != "*" {
		t.Errorf("expected default glob *, got %q", cfg.Upload.Glob)
	}
	if cfg.History.Path != ".wheelwright/history.db" {
		t.Errorf("unexpected history path %q", cfg.History.Path)
	}
	if cfg.Watch.Debounce.Std() != 2*time.Second {
		t.Errorf("expected 2s debounce default, got %v", cfg.Watch.Debounce.Std())
	}
}

func TestLoadNormalizesMetadataDirFromDottedName(t *testing.T) {
	path := writeConfig(t, `
project:
  name: Json4.Extra_Pkg
  version: 0.1.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Build.MetadataDir != "json4-extra-pkg.egg-info" {
		t.Errorf("unexpected metadata dir %q", cfg.Build.MetadataDir)
	}
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, `
project:
  name: json4
  version: 1.0.2
build:
  timeout: 90s
watch:
  debounce: 500ms
  interval: 1h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Build.Timeout.Std() != 90*time.Second {
		t.Errorf("expected 90s build timeout, got %v", cfg.Build.Timeout.Std())
	}
	if cfg.Watch.Debounce.Std() != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", cfg.Watch.Debounce.Std())
	}
	if cfg.Watch.Interval.Std() != time.Hour {
		t.Errorf("expected 1h interval, got %v", cfg.Watch.Interval.Std())
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("WW_TEST_REPO", "https://test.pypi.org/legacy/")
	path := writeConfig(t, `
project:
  name: json4
  version: 1.0.2
upload:
  repository_url: ${WW_TEST_REPO}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Upload.RepositoryURL != "https://test.pypi.org/legacy/" {
		t.Errorf("env expansion failed, got %q", cfg.Upload.RepositoryURL)
	}
}

func TestLoadRejectsMissingProjectName(t *testing.T) {
	path := writeConfig(t, `
build:
  dist_dir: dist
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing project.name")
	}
}

func TestLoadRejectsMissingVersionSource(t *testing.T) {
	path := writeConfig(t, `
project:
  name: json4
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error when neither version nor version_from_git set")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheelwright.yaml")

	if err := Init(path, false); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	// Init refuses to overwrite without force.
	if err := Init(path, false); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("Init(force) failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Project.Name != "json4" {
		t.Errorf("unexpected example project name %q", cfg.Project.Name)
	}
	if !cfg.Project.VersionFromGit {
		t.Error("example config should derive version from git")
	}
}
