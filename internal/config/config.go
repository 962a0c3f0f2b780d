package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Build   BuildConfig   `yaml:"build"`
	Upload  UploadConfig  `yaml:"upload"`
	Check   CheckConfig   `yaml:"check"`
	History HistoryConfig `yaml:"history"`
	Events  EventsConfig  `yaml:"events"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ProjectConfig identifies the package being released.
type ProjectConfig struct {
	Name           string `yaml:"name"`
	Version        string `yaml:"version,omitempty"`
	VersionFromGit bool   `yaml:"version_from_git,omitempty"`
	Root           string `yaml:"root,omitempty"`   // project root, defaults to "."
	Readme         string `yaml:"readme,omitempty"` // long description source
}

// BuildConfig controls the external build backend and the artifact directories
// it produces (and that the clean step removes).
type BuildConfig struct {
	Command     []string `yaml:"command,omitempty"`      // defaults to python -m build --wheel
	DistDir     string   `yaml:"dist_dir,omitempty"`     // distribution output directory
	BuildDir    string   `yaml:"build_dir,omitempty"`    // intermediate build directory
	MetadataDir string   `yaml:"metadata_dir,omitempty"` // <name>.egg-info metadata directory
	Timeout     Duration `yaml:"timeout,omitempty"`
}

// UploadConfig controls the external upload tool.
type UploadConfig struct {
	Command       []string `yaml:"command,omitempty"` // defaults to twine upload
	RepositoryURL string   `yaml:"repository_url,omitempty"`
	SkipExisting  bool     `yaml:"skip_existing,omitempty"`
	Glob          string   `yaml:"glob,omitempty"` // matched under dist_dir
	Timeout       Duration `yaml:"timeout,omitempty"`
}

// CheckConfig controls artifact verification.
type CheckConfig struct {
	RequiredFields  []string `yaml:"required_fields,omitempty"` // METADATA fields that must be present
	SkipRenderCheck bool     `yaml:"skip_render_check,omitempty"`
}

// HistoryConfig controls the local release history store.
type HistoryConfig struct {
	Path     string `yaml:"path,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// EventsConfig controls the optional NATS release event publisher.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
}

// WatchConfig controls daemon (watch) mode.
type WatchConfig struct {
	Paths    []string `yaml:"paths,omitempty"`    // source paths to watch
	Debounce Duration `yaml:"debounce,omitempty"` // quiet period before a rebuild
	Interval Duration `yaml:"interval,omitempty"` // periodic verify interval, 0 disables
	Listen   string   `yaml:"listen,omitempty"`   // status/metrics listen address
}

// Duration wraps time.Duration so YAML accepts "90s" style strings.
type Duration time.Duration

// UnmarshalYAML accepts either a Go duration string or an integer nanosecond count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value at line %d", value.Line)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders durations as strings for readability.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; credentials for the upload tool usually live there.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ApplyDefaults(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the invariants defaults cannot supply.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}
	if c.Project.Version == "" && !c.Project.VersionFromGit {
		return fmt.Errorf("project.version or project.version_from_git is required")
	}
	if len(c.Build.Command) == 0 {
		return fmt.Errorf("build.command must not be empty")
	}
	if len(c.Upload.Command) == 0 {
		return fmt.Errorf("upload.command must not be empty")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("events.url is required when events are enabled")
	}
	return nil
}

const exampleConfig = `# Wheelwright configuration
project:
  name: json4
  # Either pin the version here or derive it from the latest git tag.
  version_from_git: true
  readme: README.md

build:
  # External build backend; must write wheel files into dist_dir.
  command: [python, -m, build, --wheel]
  dist_dir: dist
  timeout: 10m

upload:
  # Credentials are the upload tool's concern (TWINE_USERNAME/TWINE_PASSWORD
  # or its own config). Wheelwright never stores them.
  command: [twine, upload]
  # repository_url: https://test.pypi.org/legacy/
  skip_existing: false

history:
  path: .wheelwright/history.db

watch:
  paths: [src]
  debounce: 2s
  listen: 127.0.0.1:8747
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
