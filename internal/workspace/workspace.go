// Package workspace manages the transient artifact directories of a release:
// the build directory, the package metadata directory, and the distribution
// output directory.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// Manager handles artifact directory operations for a project root.
type Manager struct {
	root        string
	buildDir    string
	metadataDir string
	distDir     string
}

// NewManager creates a workspace manager. Directories are interpreted
// relative to root unless absolute.
func NewManager(root, buildDir, metadataDir, distDir string) *Manager {
	if root == "" {
		root = "."
	}
	return &Manager{
		root:        root,
		buildDir:    buildDir,
		metadataDir: metadataDir,
		distDir:     distDir,
	}
}

func (m *Manager) resolve(dir string) string {
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.root, dir)
}

// Targets returns the absolute-ish paths the clean step removes.
func (m *Manager) Targets() []string {
	targets := make([]string, 0, 3)
	for _, dir := range []string{m.buildDir, m.metadataDir, m.distDir} {
		if p := m.resolve(dir); p != "" {
			targets = append(targets, p)
		}
	}
	return targets
}

// DistPath returns the resolved distribution output directory.
func (m *Manager) DistPath() string { return m.resolve(m.distDir) }

// Clean removes the build, metadata, and dist directories. Paths that do not
// exist are not errors; real removal failures are.
func (m *Manager) Clean() error {
	for _, target := range m.Targets() {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			slog.Debug("Nothing to clean", logfields.Path(target))
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", target, err)
		}
		slog.Info("Removed stale artifacts", logfields.Path(target))
	}
	return nil
}

// EnsureDist creates the distribution output directory if missing. The build
// backend writes there; creating it up front gives earlier, clearer failures
// on permission problems.
func (m *Manager) EnsureDist() error {
	dist := m.DistPath()
	if dist == "" {
		return fmt.Errorf("dist directory not configured")
	}
	if err := os.MkdirAll(dist, 0o750); err != nil {
		return fmt.Errorf("failed to create dist directory: %w", err)
	}
	return nil
}

// DistEntries lists files under the dist directory matching the glob pattern,
// sorted by filepath.Glob's lexical order.
func (m *Manager) DistEntries(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(m.DistPath(), pattern))
	if err != nil {
		return nil, fmt.Errorf("bad dist glob %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", match, err)
		}
		if !info.IsDir() {
			files = append(files, match)
		}
	}
	return files, nil
}
