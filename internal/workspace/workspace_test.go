package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirWithFile(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestCleanRemovesAllTargets(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "build", "json4.egg-info", "dist")

	for _, target := range mgr.Targets() {
		mkdirWithFile(t, target)
	}

	if err := mgr.Clean(); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}

	for _, target := range mgr.Targets() {
		if _, err := os.Stat(target); !os.IsNotExist(err) {
			t.Errorf("target still exists after clean: %s", target)
		}
	}
}

func TestCleanMissingPathsIsNotAnError(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "build", "json4.egg-info", "dist")

	// None of the targets exist.
	if err := mgr.Clean(); err != nil {
		t.Fatalf("Clean() on absent paths should succeed, got: %v", err)
	}
}

func TestCleanIsRepeatable(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "build", "json4.egg-info", "dist")

	mkdirWithFile(t, mgr.DistPath())
	if err := mgr.Clean(); err != nil {
		t.Fatalf("first Clean() failed: %v", err)
	}
	if err := mgr.Clean(); err != nil {
		t.Fatalf("second Clean() failed: %v", err)
	}
}

func TestEnsureDistAndEntries(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "build", "json4.egg-info", "dist")

	if err := mgr.EnsureDist(); err != nil {
		t.Fatalf("EnsureDist() failed: %v", err)
	}

	for _, name := range []string{"json4-1.0.2-py3-none-any.whl", "json4-1.0.2.tar.gz"} {
		if err := os.WriteFile(filepath.Join(mgr.DistPath(), name), []byte("artifact"), 0o644); err != nil {
			t.Fatalf("write artifact: %v", err)
		}
	}
	// Subdirectories must not be reported as artifacts.
	if err := os.MkdirAll(filepath.Join(mgr.DistPath(), "nested"), 0o750); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	all, err := mgr.DistEntries("*")
	if err != nil {
		t.Fatalf("DistEntries(*) failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %v", len(all), all)
	}

	wheels, err := mgr.DistEntries("*.whl")
	if err != nil {
		t.Fatalf("DistEntries(*.whl) failed: %v", err)
	}
	if len(wheels) != 1 || filepath.Base(wheels[0]) != "json4-1.0.2-py3-none-any.whl" {
		t.Errorf("unexpected wheel matches: %v", wheels)
	}
}

func TestDistEntriesEmptyDir(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "build", "json4.egg-info", "dist")
	if err := mgr.EnsureDist(); err != nil {
		t.Fatalf("EnsureDist() failed: %v", err)
	}

	files, err := mgr.DistEntries("*")
	if err != nil {
		t.Fatalf("DistEntries() failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no entries, got %v", files)
	}
}

func TestAbsoluteDirsAreNotReanchored(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "dist")
	mgr := NewManager(root, "build", "json4.egg-info", abs)

	if got := mgr.DistPath(); got != abs {
		t.Errorf("absolute dist dir rewritten: %s", got)
	}
}
